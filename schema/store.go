package schema

var (
	// ledger buckets
	DomainBucket         = "domain-bucket"          // key: domain name, val: DomainInfo
	MaintainerBucket     = "maintainer-bucket"      // key: maintainer id, val: domain name
	TLDBucket            = "tld-bucket"             // key: top-level label, val: TLDInfo
	PendingRequestBucket = "pending-request-bucket" // key: assetId+domain, val: PendingRequest
	AssetProvidersBucket = "asset-providers-bucket" // key: assetId, val: ProviderList
	ProviderAssetsBucket = "provider-assets-bucket" // key: domain name, val: AssetList
	ConstantsBucket      = "constants-bucket"

	// node local buckets, never replicated
	LocalStorageBucket = "local-storage-bucket"
)

const (
	EpochKey = "epoch"

	PeerCacheKey   = "peer_cache_worker::cache"
	SweepCursorKey = "revocation_sweep::last_processed_domain"
)

func LedgerBuckets() []string {
	return []string{
		DomainBucket,
		MaintainerBucket,
		TLDBucket,
		PendingRequestBucket,
		AssetProvidersBucket,
		ProviderAssetsBucket,
		ConstantsBucket,
	}
}

func LocalBuckets() []string {
	return []string{LocalStorageBucket}
}
