package assetdiscovery

import (
	"sync"

	"github.com/everFinance/assetdiscovery/schema"
)

// PeerCache is an ordered peer id list; duplicates are never added by the monitor.
type PeerCache struct {
	peers []string
	lock  sync.RWMutex
}

func NewPeerCache(peers []string) *PeerCache {
	c := &PeerCache{peers: make([]string, 0, len(peers))}
	c.peers = append(c.peers, peers...)
	return c
}

func (c *PeerCache) Add(peerId string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.peers = append(c.peers, peerId)
}

// Remove drops the first occurrence of peerId.
func (c *PeerCache) Remove(peerId string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	for i, p := range c.peers {
		if p == peerId {
			c.peers = append(c.peers[:i], c.peers[i+1:]...)
			return true
		}
	}
	return false
}

func (c *PeerCache) Contains(peerId string) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()
	for _, p := range c.peers {
		if p == peerId {
			return true
		}
	}
	return false
}

func (c *PeerCache) GetPeers() []string {
	c.lock.RLock()
	defer c.lock.RUnlock()
	peers := make([]string, len(c.peers))
	copy(peers, c.peers)
	return peers
}

func (c *PeerCache) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return len(c.peers)
}

func (c *PeerCache) Snapshot() schema.PeerCache {
	return schema.PeerCache{Peers: c.GetPeers()}
}
