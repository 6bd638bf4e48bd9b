package schema

// PeerCache is the node local list of known remote peers.
// It is persisted per node and never replicated.
type PeerCache struct {
	Peers []string `json:"peers"`
}

// PeerInfo is one entry of a system_peers rpc result.
type PeerInfo struct {
	PeerId     string `json:"peerId"`
	Roles      string `json:"roles"`
	BestHash   string `json:"bestHash"`
	BestNumber uint64 `json:"bestNumber"`
}
