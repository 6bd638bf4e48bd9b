package assetdiscovery

import (
	"errors"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/everFinance/assetdiscovery/schema"
	"github.com/tidwall/gjson"
	"gopkg.in/h2non/gentleman.v2"
	"gopkg.in/h2non/gentleman.v2/plugins/timeout"
)

const (
	DefaultHttpTimeout = 5 * time.Second

	JsonRpcVersion = "2.0"
)

func newHttpClient(to time.Duration) *gentleman.Client {
	if to <= 0 {
		to = DefaultHttpTimeout
	}
	return gentleman.New().Use(timeout.Request(to))
}

// readOk reads a 200 body, rejecting other statuses and invalid utf8.
func readOk(resp *gentleman.Response) ([]byte, error) {
	defer resp.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	body := resp.Bytes()
	if !utf8.Valid(body) {
		return nil, ErrInvalidUTF8
	}
	return body, nil
}

// callRpc posts a json-rpc 2.0 request to endpoint and returns its result field.
func callRpc(cli *gentleman.Client, endpoint, method string, params ...interface{}) (gjson.Result, error) {
	req := cli.Post().URL(endpoint)
	req.JSON(schema.RpcRequest{
		Id:      1,
		JsonRpc: JsonRpcVersion,
		Method:  method,
		Params:  params,
	})
	resp, err := req.Send()
	if err != nil {
		return gjson.Result{}, err
	}
	body, err := readOk(resp)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, errors.New("invalid json rpc response")
	}
	res := gjson.ParseBytes(body)
	if e := res.Get("error"); e.Exists() && e.Type != gjson.Null {
		return gjson.Result{}, fmt.Errorf("%w: %s", ErrRpcError, e.Get("message").String())
	}
	result := res.Get("result")
	if !result.Exists() || result.Type == gjson.Null {
		return gjson.Result{}, ErrEmptyResult
	}
	return result, nil
}
