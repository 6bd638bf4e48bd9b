package sdk

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/everFinance/assetdiscovery/schema"
	"gopkg.in/h2non/gentleman.v2"
)

type Client struct {
	SCli *gentleman.Client
}

func New(nodeUrl string) *Client {
	return &Client{
		SCli: gentleman.New().URL(nodeUrl),
	}
}

func (c *Client) RegisterTLD(signer schema.AccountID, tld, chainSpec string) (*schema.RespAccepted, error) {
	req := c.SCli.Post()
	req.Path("/tld")
	req.JSON(schema.ReqRegisterTLD{Signer: signer, TLD: tld, ChainSpec: chainSpec})
	return c.accepted(req)
}

func (c *Client) RegisterDomain(signer schema.AccountID, domain, chainSpec, maintainer string) (*schema.RespAccepted, error) {
	req := c.SCli.Post()
	req.Path("/domain")
	req.JSON(schema.ReqRegisterDomain{Signer: signer, Domain: domain, ChainSpec: chainSpec, Maintainer: maintainer})
	return c.accepted(req)
}

func (c *Client) AmendDomain(signer schema.AccountID, domain, chainSpec, maintainer string) (*schema.RespAccepted, error) {
	req := c.SCli.Put()
	req.Path("/domain/" + url.PathEscape(domain))
	req.JSON(schema.ReqRegisterDomain{Signer: signer, Domain: domain, ChainSpec: chainSpec, Maintainer: maintainer})
	return c.accepted(req)
}

func (c *Client) RevokeDomain(signer schema.AccountID, domain string) (*schema.RespAccepted, error) {
	req := c.SCli.Delete()
	req.Path("/domain/" + url.PathEscape(domain))
	req.JSON(schema.ReqRevokeDomain{Signer: signer})
	return c.accepted(req)
}

func (c *Client) RequestAsset(signer schema.AccountID, domain, assetId string) (*schema.RespAccepted, error) {
	req := c.SCli.Post()
	req.Path("/asset")
	req.JSON(schema.ReqRequestAsset{Signer: signer, Domain: domain, AssetId: assetId})
	return c.accepted(req)
}

func (c *Client) GetDomain(domain string) (*schema.DomainInfo, error) {
	info := &schema.DomainInfo{}
	err := c.get("/domain/"+url.PathEscape(domain), nil, info)
	return info, err
}

func (c *Client) GetTLD(tld string) (*schema.TLDInfo, error) {
	info := &schema.TLDInfo{}
	err := c.get("/tld/"+url.PathEscape(tld), nil, info)
	return info, err
}

func (c *Client) GetMaintainerDomain(maintainer string) (string, error) {
	res := struct {
		Domain string `json:"domain"`
	}{}
	err := c.get("/maintainer/"+url.PathEscape(maintainer), nil, &res)
	return res.Domain, err
}

func (c *Client) GetProviders(assetId string) ([]string, error) {
	res := schema.ProviderList{}
	err := c.get("/asset/"+url.PathEscape(assetId)+"/providers", nil, &res)
	return res.Providers, err
}

func (c *Client) GetAssets(domain string) ([]string, error) {
	res := schema.AssetList{}
	err := c.get("/domain/"+url.PathEscape(domain)+"/assets", nil, &res)
	return res.Assets, err
}

func (c *Client) GetPending() ([]schema.KeyedRequest, error) {
	res := make([]schema.KeyedRequest, 0)
	err := c.get("/pending", nil, &res)
	return res, err
}

func (c *Client) GetPeers() ([]string, error) {
	res := schema.PeerCache{}
	err := c.get("/peers", nil, &res)
	return res.Peers, err
}

func (c *Client) GetEpoch() (*schema.RespEpoch, error) {
	res := &schema.RespEpoch{}
	err := c.get("/epoch", nil, res)
	return res, err
}

func (c *Client) GetEvents(kind, domain string, cursor uint, limit int) ([]schema.EventRecord, error) {
	query := map[string]string{
		"cursor": strconv.FormatUint(uint64(cursor), 10),
		"limit":  strconv.Itoa(limit),
	}
	if kind != "" {
		query["kind"] = kind
	}
	if domain != "" {
		query["domain"] = domain
	}
	res := make([]schema.EventRecord, 0)
	err := c.get("/events", query, &res)
	return res, err
}

func (c *Client) GetChainSpec() (*schema.ChainSpec, error) {
	res := &schema.ChainSpec{}
	err := c.get("/chainspec", nil, res)
	return res, err
}

func (c *Client) get(path string, query map[string]string, v interface{}) error {
	req := c.SCli.Get()
	req.Path(path)
	for k, val := range query {
		req.AddQuery(k, val)
	}
	resp, err := req.Send()
	if err != nil {
		return err
	}
	defer resp.Close()
	if !resp.Ok {
		return fmt.Errorf("resp failed. http code: %d, errMsg: %s", resp.StatusCode, resp.String())
	}
	return resp.JSON(v)
}

func (c *Client) accepted(req *gentleman.Request) (*schema.RespAccepted, error) {
	resp, err := req.Send()
	if err != nil {
		return nil, err
	}
	defer resp.Close()
	if !resp.Ok {
		return nil, fmt.Errorf("resp failed. http code: %d, errMsg: %s", resp.StatusCode, resp.String())
	}
	res := &schema.RespAccepted{}
	err = resp.JSON(res)
	return res, err
}
