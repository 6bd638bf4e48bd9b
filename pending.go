package assetdiscovery

import (
	"encoding/json"
	"errors"

	"github.com/everFinance/assetdiscovery/rawdb"
	"github.com/everFinance/assetdiscovery/schema"
)

var errStopIter = errors.New("stop iteration")

// requestAsset queues a binding for verification. A repeated request resets the deadline.
func (l *Ledger) requestAsset(c *applyCtx, cmd schema.Command) error {
	if cmd.Domain == "" {
		return schema.ErrInvalidDomainName
	}
	if cmd.AssetId == "" {
		return schema.ErrInvalidAssetId
	}
	req := schema.PendingRequest{
		Requester: *cmd.Signer,
		Domain:    cmd.Domain,
		AssetId:   cmd.AssetId,
		Deadline:  c.epoch + schema.RequestLifetime,
	}
	if err := putJSON(c.tx, schema.PendingRequestBucket, req.Key(), req); err != nil {
		return err
	}
	c.emit(schema.Event{
		Kind:    schema.EventDomainValidationRequested,
		Actor:   cmd.Signer,
		Domain:  req.Domain,
		AssetId: req.AssetId,
		Request: &req,
	})
	return nil
}

// removeExpiredRequests drops every request with now >= deadline and emits one event.
func (l *Ledger) removeExpiredRequests(c *applyCtx, cmd schema.Command) error {
	expired := make([]string, 0)
	err := c.tx.ForEach(schema.PendingRequestBucket, func(key string, value []byte) error {
		req := schema.PendingRequest{}
		if err := json.Unmarshal(value, &req); err != nil {
			log.Error("decode pending request", "err", err, "key", key)
			return nil
		}
		if cmd.Now >= req.Deadline {
			expired = append(expired, key)
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, key := range expired {
		if err := c.tx.Delete(schema.PendingRequestBucket, key); err != nil {
			return err
		}
	}
	c.emit(schema.Event{Kind: schema.EventExpiredRequestsRemoved})
	return nil
}

// DueForVerification returns up to batchSize requests still inside their
// deadline (now <= deadline), in key order.
func (l *Ledger) DueForVerification(batchSize int, now uint64) ([]schema.KeyedRequest, error) {
	res := make([]schema.KeyedRequest, 0, batchSize)
	if batchSize <= 0 {
		return res, nil
	}
	err := l.db.View(func(tx rawdb.Tx) error {
		return tx.ForEach(schema.PendingRequestBucket, func(key string, value []byte) error {
			req := schema.PendingRequest{}
			if err := json.Unmarshal(value, &req); err != nil {
				log.Error("decode pending request", "err", err, "key", key)
				return nil
			}
			if now > req.Deadline {
				return nil
			}
			res = append(res, schema.KeyedRequest{Key: key, Request: req})
			if len(res) >= batchSize {
				return errStopIter
			}
			return nil
		})
	})
	if errors.Is(err, errStopIter) {
		err = nil
	}
	return res, err
}

func (l *Ledger) PendingRequests() ([]schema.KeyedRequest, error) {
	res := make([]schema.KeyedRequest, 0)
	err := l.db.View(func(tx rawdb.Tx) error {
		return tx.ForEach(schema.PendingRequestBucket, func(key string, value []byte) error {
			req := schema.PendingRequest{}
			if err := json.Unmarshal(value, &req); err != nil {
				return err
			}
			res = append(res, schema.KeyedRequest{Key: key, Request: req})
			return nil
		})
	})
	return res, err
}
