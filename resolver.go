package assetdiscovery

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/everFinance/assetdiscovery/cache"
	"github.com/everFinance/assetdiscovery/schema"
	"github.com/multiformats/go-multiaddr"
	"github.com/tidwall/gjson"
	"gopkg.in/h2non/gentleman.v2"
)

const RpcStateGetStorage = "state_getStorage"

// TLDLookup finds the chain spec url of a top-level label.
type TLDLookup interface {
	ChainSpecForTLD(tld string) (string, error)
}

// Resolver checks a domain against the network that owns its top-level label.
type Resolver struct {
	tlds      TLDLookup
	cli       *gentleman.Client
	specCache *cache.Cache
}

// NewResolver builds a resolver. specCache may be nil to always fetch.
func NewResolver(tlds TLDLookup, specCache *cache.Cache, httpTimeout time.Duration) *Resolver {
	return &Resolver{
		tlds:      tlds,
		cli:       newHttpClient(httpTimeout),
		specCache: specCache,
	}
}

// Validate reports whether the remote network holds the domain as claimed.
// Every failure counts as invalid.
func (r *Resolver) Validate(domain string) bool {
	info, err := r.Resolve(domain)
	if err != nil {
		log.Warn("r.Resolve(domain)", "err", err, "domain", domain)
		metricResolve("failed")
		return false
	}
	if info.Available {
		metricResolve("available")
		return false
	}
	metricResolve("claimed")
	return true
}

// Resolve fetches the remote DomainMap record of a domain.
func (r *Resolver) Resolve(domain string) (*schema.DomainInfo, error) {
	tld, err := ExtractTLD(domain)
	if err != nil {
		return nil, err
	}
	specUrl, err := r.tlds.ChainSpecForTLD(tld)
	if err != nil || specUrl == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTLD, tld)
	}
	spec, err := r.FetchChainSpec(specUrl)
	if err != nil {
		return nil, err
	}
	endpoint, err := RpcEndpoint(spec.BootNodes[0])
	if err != nil {
		return nil, err
	}
	key, err := StorageKeyHex(domain)
	if err != nil {
		return nil, err
	}
	result, err := callRpc(r.cli, endpoint, RpcStateGetStorage, key)
	if err != nil {
		return nil, err
	}
	raw := result.String()
	if raw == "" || raw == "0x" {
		return nil, ErrEmptyResult
	}
	if !strings.HasPrefix(raw, "0x") {
		raw = "0x" + raw
	}
	bz, err := hexutil.Decode(raw)
	if err != nil {
		return nil, err
	}
	return DecodeDomainInfo(bz)
}

// FetchChainSpec downloads a chain spec document; it fails when no boot node is listed.
func (r *Resolver) FetchChainSpec(url string) (*schema.ChainSpec, error) {
	body, err := r.chainSpecBody(url)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.New("invalid chain spec json")
	}
	doc := gjson.ParseBytes(body)
	spec := &schema.ChainSpec{
		Id:        doc.Get("id").String(),
		BootNodes: make([]string, 0),
	}
	for i, n := range doc.Get("bootNodes").Array() {
		if n.Type != gjson.String {
			// the first entry is the one dialled
			if i == 0 {
				return nil, fmt.Errorf("%w: first boot node is %s", ErrInvalidMultiaddr, n.Type)
			}
			continue
		}
		spec.BootNodes = append(spec.BootNodes, n.String())
	}
	if len(spec.BootNodes) == 0 {
		return nil, ErrNoBootNodes
	}
	return spec, nil
}

func (r *Resolver) chainSpecBody(url string) ([]byte, error) {
	if r.specCache != nil {
		if body, err := r.specCache.Cache.Get(url); err == nil {
			return body, nil
		}
	}
	resp, err := r.cli.Get().URL(url).Send()
	if err != nil {
		return nil, err
	}
	body, err := readOk(resp)
	if err != nil {
		return nil, err
	}
	if r.specCache != nil {
		if err := r.specCache.Cache.Set(url, body); err != nil {
			log.Warn("cache chain spec", "err", err, "url", url)
		}
	}
	return body, nil
}

// ExtractTLD returns the label after the last separator.
func ExtractTLD(domain string) (string, error) {
	pos := strings.LastIndex(domain, DomainSeparator)
	if pos < 0 {
		return "", ErrNoSeparator
	}
	return domain[pos+1:], nil
}

// RpcEndpoint turns a boot node multiaddr such as /ip4/1.2.3.4/tcp/9944 into
// an http url. Addresses without a host or tcp port are rejected.
func RpcEndpoint(addr string) (string, error) {
	ma, err := multiaddr.NewMultiaddr(addr)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidMultiaddr, err)
	}
	host := ""
	for _, code := range []int{multiaddr.P_IP4, multiaddr.P_IP6, multiaddr.P_DNS4, multiaddr.P_DNS6, multiaddr.P_DNS} {
		if v, err := ma.ValueForProtocol(code); err == nil {
			host = v
			break
		}
	}
	port, err := ma.ValueForProtocol(multiaddr.P_TCP)
	if host == "" || err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidMultiaddr, addr)
	}
	return "http://" + net.JoinHostPort(host, port), nil
}

// ChainSpecDocument renders this node's descriptor as served on /chainspec.
func ChainSpecDocument(id string, bootNodes []string) ([]byte, error) {
	if bootNodes == nil {
		bootNodes = []string{}
	}
	return json.Marshal(schema.ChainSpec{Id: id, BootNodes: bootNodes})
}
