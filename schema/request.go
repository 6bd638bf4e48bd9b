package schema

const (
	// RequestLifetime is the number of epochs a pending request stays due.
	RequestLifetime uint64 = 1000
)

type PendingRequest struct {
	Requester AccountID `json:"requester"`
	Domain    string    `json:"domain"`
	AssetId   string    `json:"assetId"`
	Deadline  uint64    `json:"deadline"` // epoch
}

// Key is the pending request bucket key: assetId followed by domain.
func (p PendingRequest) Key() string {
	return PendingRequestKey(p.AssetId, p.Domain)
}

func PendingRequestKey(assetId, domain string) string {
	return assetId + domain
}

// KeyedRequest is a pending request together with the storage key it was read from.
type KeyedRequest struct {
	Key     string         `json:"key"`
	Request PendingRequest `json:"request"`
}

type ProviderList struct {
	Providers []string `json:"providers"`
}

type AssetList struct {
	Assets []string `json:"assets"`
}
