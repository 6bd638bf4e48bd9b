package assetdiscovery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/everFinance/assetdiscovery/cache"
	"github.com/everFinance/assetdiscovery/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tldMap map[string]string

func (m tldMap) ChainSpecForTLD(tld string) (string, error) {
	spec, ok := m[tld]
	if !ok {
		return "", schema.ErrNotExist
	}
	return spec, nil
}

// remoteNode serves state_getStorage from a map of domain records.
type remoteNode struct {
	records map[string]schema.DomainInfo
	calls   int32
}

func (n *remoteNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&n.calls, 1)
	req := schema.RpcRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	resp := schema.RpcResponse{JsonRpc: JsonRpcVersion, Id: req.Id}
	if req.Method != RpcStateGetStorage || len(req.Params) != 1 {
		resp.Error = &schema.RpcError{Code: -32601, Message: "method not found"}
	} else {
		key, _ := hexutil.Decode(req.Params[0].(string))
		domain, err := DomainFromStorageKey(key)
		if info, ok := n.records[domain]; err == nil && ok {
			bz, _ := EncodeDomainInfo(info)
			resp.Result = hexutil.Encode(bz)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func bootNodeOf(t *testing.T, srv *httptest.Server) string {
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return "/ip4/" + u.Hostname() + "/tcp/" + u.Port()
}

func chainSpecServer(t *testing.T, bootNodes []string, fetches *int32) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fetches != nil {
			atomic.AddInt32(fetches, 1)
		}
		_ = json.NewEncoder(w).Encode(schema.ChainSpec{Id: "remote", BootNodes: bootNodes})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestResolver_Validate(t *testing.T) {
	node := &remoteNode{records: map[string]schema.DomainInfo{
		"claimed.net": {Creator: alice, ChainSpec: "http://x", Maintainer: "P1"},
		"free.net":    {Available: true},
	}}
	rpcSrv := httptest.NewServer(node)
	defer rpcSrv.Close()
	specSrv := chainSpecServer(t, []string{bootNodeOf(t, rpcSrv)}, nil)

	r := NewResolver(tldMap{"net": specSrv.URL}, nil, time.Second)

	info, err := r.Resolve("claimed.net")
	assert.NoError(t, err)
	assert.Equal(t, alice, info.Creator)
	assert.Equal(t, "P1", info.Maintainer)

	assert.True(t, r.Validate("claimed.net"))
	assert.False(t, r.Validate("free.net"))
	assert.False(t, r.Validate("unknown.net"))
	assert.False(t, r.Validate("claimed.org"))
	assert.False(t, r.Validate("nodot"))

	_, err = r.Resolve("unknown.net")
	assert.ErrorIs(t, err, ErrEmptyResult)
	_, err = r.Resolve("claimed.org")
	assert.ErrorIs(t, err, ErrUnknownTLD)
}

func TestResolver_NoBootNodes(t *testing.T) {
	node := &remoteNode{records: map[string]schema.DomainInfo{}}
	rpcSrv := httptest.NewServer(node)
	defer rpcSrv.Close()
	specSrv := chainSpecServer(t, []string{}, nil)

	r := NewResolver(tldMap{"net": specSrv.URL}, nil, time.Second)
	assert.False(t, r.Validate("example.net"))
	_, err := r.Resolve("example.net")
	assert.ErrorIs(t, err, ErrNoBootNodes)
	assert.Equal(t, int32(0), atomic.LoadInt32(&node.calls))
}

func TestResolver_BadResponses(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer notFound.Close()
	badUtf8 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte{0xff, 0xfe, 0xfd})
	}))
	defer badUtf8.Close()

	r := NewResolver(tldMap{"net": notFound.URL, "org": badUtf8.URL}, nil, time.Second)
	_, err := r.Resolve("example.net")
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	_, err = r.Resolve("example.org")
	assert.ErrorIs(t, err, ErrInvalidUTF8)

	rpcErr := httptest.NewServer(&remoteNode{})
	defer rpcErr.Close()
	_, err = callRpc(newHttpClient(time.Second), rpcErr.URL, "unknown_method")
	assert.ErrorIs(t, err, ErrRpcError)
}

func TestResolver_ChainSpecCache(t *testing.T) {
	var fetches int32
	specSrv := chainSpecServer(t, []string{"/ip4/127.0.0.1/tcp/9944"}, &fetches)
	specCache, err := cache.NewLocalCache(time.Minute)
	require.NoError(t, err)
	defer specCache.Cache.Close()

	r := NewResolver(tldMap{}, specCache, time.Second)
	for i := 0; i < 3; i++ {
		spec, err := r.FetchChainSpec(specSrv.URL)
		assert.NoError(t, err)
		assert.Equal(t, "remote", spec.Id)
		assert.Equal(t, []string{"/ip4/127.0.0.1/tcp/9944"}, spec.BootNodes)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches))
}

func TestExtractTLD(t *testing.T) {
	tld, err := ExtractTLD("example.net")
	assert.NoError(t, err)
	assert.Equal(t, "net", tld)

	tld, err = ExtractTLD("a.b.c")
	assert.NoError(t, err)
	assert.Equal(t, "c", tld)

	_, err = ExtractTLD("example")
	assert.Equal(t, ErrNoSeparator, err)
}

func TestRpcEndpoint(t *testing.T) {
	cases := map[string]string{
		"/ip4/1.2.3.4/tcp/9944":          "http://1.2.3.4:9944",
		"/ip6/::1/tcp/9944":              "http://[::1]:9944",
		"/dns4/rpc.example.net/tcp/9933": "http://rpc.example.net:9933",
	}
	for addr, want := range cases {
		got, err := RpcEndpoint(addr)
		assert.NoError(t, err, addr)
		assert.Equal(t, want, got)
	}

	for _, addr := range []string{"", "not-a-multiaddr", "/ip4/1.2.3.4", "/ip4/1.2.3.4/udp/9944"} {
		_, err := RpcEndpoint(addr)
		assert.ErrorIs(t, err, ErrInvalidMultiaddr, addr)
	}
}

func TestChainSpecDocument(t *testing.T) {
	bz, err := ChainSpecDocument("local", nil)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"id":"local","bootNodes":[]}`, string(bz))
}

// hangingServer holds every request until the client gives up.
func hangingServer(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestResolver_TimeoutFailsClosed(t *testing.T) {
	srv := hangingServer(t)
	r := NewResolver(tldMap{"net": srv.URL}, nil, 300*time.Millisecond)

	start := time.Now()
	assert.False(t, r.Validate("example.net"))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestResolver_FirstBootNodeMustBeString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"remote","bootNodes":[42,"/ip4/127.0.0.1/tcp/9944"]}`))
	}))
	defer srv.Close()

	r := NewResolver(tldMap{}, nil, time.Second)
	_, err := r.FetchChainSpec(srv.URL)
	assert.ErrorIs(t, err, ErrInvalidMultiaddr)

	later := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"remote","bootNodes":["/ip4/127.0.0.1/tcp/9944",42]}`))
	}))
	defer later.Close()
	spec, err := r.FetchChainSpec(later.URL)
	assert.NoError(t, err)
	assert.Equal(t, []string{"/ip4/127.0.0.1/tcp/9944"}, spec.BootNodes)
}
