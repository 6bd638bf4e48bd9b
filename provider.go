package assetdiscovery

import (
	"errors"

	"github.com/everFinance/assetdiscovery/rawdb"
	"github.com/everFinance/assetdiscovery/schema"
)

// commitVerifiedBinding moves a verified request into the provider index.
//
// The existence check uses the request's own assetId+domain key while the
// removal uses cmd.RequestKey as submitted. The oracle submits the key it
// iterated, so the two coincide for engine commands; other callers may
// remove a different row. Kept as is until the intended keying is settled.
func (l *Ledger) commitVerifiedBinding(c *applyCtx, cmd schema.Command) error {
	if cmd.Request == nil {
		return schema.ErrInvalidCommand
	}
	req := *cmd.Request
	_, err := c.tx.Get(schema.PendingRequestBucket, req.Key())
	if errors.Is(err, schema.ErrNotExist) {
		return schema.ErrRequestNotFound
	}
	if err != nil {
		return err
	}
	if err := c.tx.Delete(schema.PendingRequestBucket, cmd.RequestKey); err != nil {
		return err
	}

	providers := schema.ProviderList{}
	if err := getOptional(c.tx, schema.AssetProvidersBucket, req.AssetId, &providers); err != nil {
		return err
	}
	providers.Providers = appendUnique(providers.Providers, req.Domain)
	if err := putJSON(c.tx, schema.AssetProvidersBucket, req.AssetId, providers); err != nil {
		return err
	}

	assets := schema.AssetList{}
	if err := getOptional(c.tx, schema.ProviderAssetsBucket, req.Domain, &assets); err != nil {
		return err
	}
	assets.Assets = appendUnique(assets.Assets, req.AssetId)
	if err := putJSON(c.tx, schema.ProviderAssetsBucket, req.Domain, assets); err != nil {
		return err
	}

	c.emit(schema.Event{
		Kind:      schema.EventAssetRegisteredForDomain,
		Actor:     &req.Requester,
		Domain:    req.Domain,
		AssetId:   req.AssetId,
		Timestamp: c.epoch,
	})
	return nil
}

// retractDomains removes each domain from the provider index. Missing lists
// are treated as already clean.
func (l *Ledger) retractDomains(c *applyCtx, cmd schema.Command) error {
	for _, domain := range cmd.Domains {
		assets := schema.AssetList{}
		if err := getOptional(c.tx, schema.ProviderAssetsBucket, domain, &assets); err != nil {
			return err
		}
		for _, asset := range assets.Assets {
			providers := schema.ProviderList{}
			if err := getOptional(c.tx, schema.AssetProvidersBucket, asset, &providers); err != nil {
				return err
			}
			providers.Providers = without(providers.Providers, domain)
			if len(providers.Providers) == 0 {
				err := c.tx.Delete(schema.AssetProvidersBucket, asset)
				if err != nil {
					return err
				}
				continue
			}
			if err := putJSON(c.tx, schema.AssetProvidersBucket, asset, providers); err != nil {
				return err
			}
		}
		if err := c.tx.Delete(schema.ProviderAssetsBucket, domain); err != nil {
			return err
		}
		c.emit(schema.Event{Kind: schema.EventAssetProviderRevoked, Domain: domain})
	}
	return nil
}

func (l *Ledger) ProvidersOf(assetId string) ([]string, error) {
	providers := schema.ProviderList{}
	err := l.db.View(func(tx rawdb.Tx) error {
		return getOptional(tx, schema.AssetProvidersBucket, assetId, &providers)
	})
	if providers.Providers == nil {
		providers.Providers = []string{}
	}
	return providers.Providers, err
}

func (l *Ledger) AssetsOf(domain string) ([]string, error) {
	assets := schema.AssetList{}
	err := l.db.View(func(tx rawdb.Tx) error {
		return getOptional(tx, schema.ProviderAssetsBucket, domain, &assets)
	})
	if assets.Assets == nil {
		assets.Assets = []string{}
	}
	return assets.Assets, err
}

// ScanProviderDomains returns up to limit domains of the provider index after the given key.
func (l *Ledger) ScanProviderDomains(after string, limit int) ([]string, error) {
	var kvs []rawdb.KV
	err := l.db.View(func(tx rawdb.Tx) (err error) {
		kvs, err = tx.ScanFrom(schema.ProviderAssetsBucket, after, limit)
		return
	})
	if err != nil {
		return nil, err
	}
	domains := make([]string, 0, len(kvs))
	for _, kv := range kvs {
		domains = append(domains, kv.Key)
	}
	return domains, nil
}

// getOptional leaves v untouched when the key is absent.
func getOptional(tx rawdb.Tx, bucket, key string, v interface{}) error {
	err := getJSON(tx, bucket, key, v)
	if errors.Is(err, schema.ErrNotExist) {
		return nil
	}
	return err
}

func appendUnique(list []string, item string) []string {
	for _, v := range list {
		if v == item {
			return list
		}
	}
	return append(list, item)
}

func without(list []string, item string) []string {
	res := make([]string, 0, len(list))
	for _, v := range list {
		if v != item {
			res = append(res, v)
		}
	}
	return res
}
