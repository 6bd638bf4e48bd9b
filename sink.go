package assetdiscovery

import (
	"github.com/everFinance/assetdiscovery/schema"
)

// EventSink receives ledger events after the emitting command commits.
type EventSink interface {
	Publish(ev schema.Event) error
}

type LogSink struct{}

func (LogSink) Publish(ev schema.Event) error {
	log.Info("ledger event", "kind", ev.Kind, "epoch", ev.Epoch, "domain", ev.Domain, "asset", ev.AssetId, "tld", ev.TLD)
	return nil
}

// MultiSink publishes to every sink and returns the first error.
type MultiSink []EventSink

func (m MultiSink) Publish(ev schema.Event) error {
	var first error
	for _, s := range m {
		if err := s.Publish(ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
