package schema

type EventKind string

const (
	EventTLDRegistered             EventKind = "TLDRegistered"
	EventDomainRegistered          EventKind = "DomainRegistered"
	EventDomainAmended             EventKind = "DomainAmended"
	EventDomainRevoked             EventKind = "DomainRevoked"
	EventDomainValidationRequested EventKind = "DomainValidationRequested"
	EventAssetRegisteredForDomain  EventKind = "AssetRegisteredForDomain"
	EventAssetProviderRevoked      EventKind = "AssetProviderRevoked"
	EventExpiredRequestsRemoved    EventKind = "ExpiredRequestsRemoved"
)

type Event struct {
	Id      string          `json:"id"`
	Kind    EventKind       `json:"kind"`
	Epoch   uint64          `json:"epoch"`
	Actor   *AccountID      `json:"actor,omitempty"`
	Domain  string          `json:"domain,omitempty"`
	TLD     string          `json:"tld,omitempty"`
	AssetId string          `json:"assetId,omitempty"`
	Request *PendingRequest `json:"request,omitempty"`
	// block number the asset binding was committed at
	Timestamp uint64 `json:"timestamp,omitempty"`
}
