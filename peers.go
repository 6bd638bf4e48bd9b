package assetdiscovery

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/everFinance/assetdiscovery/schema"
	"gopkg.in/h2non/gentleman.v2"
)

const (
	DefaultLocalRpc = "http://127.0.0.1:9945"

	RpcSystemPeers = "system_peers"
)

type MaintainerLookup interface {
	MaintainerDomain(maintainer string) (string, error)
}

// PeerMonitor revokes the domains of maintainers that left the local node's peer set.
type PeerMonitor struct {
	store     *Store
	registry  MaintainerLookup
	submitter Submitter
	authority schema.AccountID
	endpoint  string
	cli       *gentleman.Client

	locker sync.Mutex
	cache  *PeerCache // last persisted cache
}

func NewPeerMonitor(store *Store, registry MaintainerLookup, submitter Submitter,
	authority schema.AccountID, endpoint string, httpTimeout time.Duration) *PeerMonitor {
	if endpoint == "" {
		endpoint = DefaultLocalRpc
	}
	stored, err := store.LoadPeerCache()
	if err != nil {
		log.Error("store.LoadPeerCache()", "err", err)
	}
	return &PeerMonitor{
		store:     store,
		registry:  registry,
		submitter: submitter,
		authority: authority,
		endpoint:  endpoint,
		cli:       newHttpClient(httpTimeout),
		cache:     NewPeerCache(stored.Peers),
	}
}

// Run diffs the cached peers against the live list. If the live list cannot
// be fetched or decoded the cache is left untouched. It returns the domains
// whose revocation was submitted.
func (m *PeerMonitor) Run() ([]string, error) {
	m.locker.Lock()
	defer m.locker.Unlock()

	stored, err := m.store.LoadPeerCache()
	if err != nil {
		log.Error("m.store.LoadPeerCache()", "err", err)
		stored = schema.PeerCache{}
	}
	cache := NewPeerCache(stored.Peers)
	missing := NewPeerCache(stored.Peers)

	live, err := m.fetchPeers()
	if err != nil {
		log.Error("m.fetchPeers()", "err", err, "endpoint", m.endpoint)
		return nil, err
	}

	for _, p := range live {
		if !cache.Contains(p.PeerId) {
			cache.Add(p.PeerId)
		} else {
			missing.Remove(p.PeerId)
		}
	}

	revoked := make([]string, 0)
	for _, peerId := range missing.GetPeers() {
		cache.Remove(peerId)

		domain, err := m.registry.MaintainerDomain(peerId)
		if err != nil {
			if !errors.Is(err, schema.ErrNotExist) {
				log.Error("m.registry.MaintainerDomain(peerId)", "err", err, "peer", peerId)
			}
			continue
		}
		if err := m.submitter.SubmitSigned(schema.NewRevokeDomain(m.authority, domain)); err != nil {
			log.Error("submit revoke_domain failed", "err", err, "peer", peerId, "domain", domain)
			continue
		}
		log.Info("maintainer disconnected, revoke submitted", "peer", peerId, "domain", domain)
		revoked = append(revoked, domain)
	}

	if err := m.store.SavePeerCache(cache.Snapshot()); err != nil {
		log.Error("m.store.SavePeerCache(cache)", "err", err)
		return revoked, err
	}
	m.cache = cache
	metricPeerCache(cache.Len())
	return revoked, nil
}

func (m *PeerMonitor) Peers() []string {
	m.locker.Lock()
	defer m.locker.Unlock()
	return m.cache.GetPeers()
}

func (m *PeerMonitor) fetchPeers() ([]schema.PeerInfo, error) {
	result, err := callRpc(m.cli, m.endpoint, RpcSystemPeers)
	if err != nil {
		return nil, err
	}
	if !result.IsArray() {
		return nil, fmt.Errorf("system_peers result is %s, not an array", result.Type)
	}
	peers := make([]schema.PeerInfo, 0)
	if err := json.Unmarshal([]byte(result.Raw), &peers); err != nil {
		return nil, err
	}
	return peers, nil
}

