package assetdiscovery

import (
	"errors"
	"sync"
	"testing"

	"github.com/everFinance/assetdiscovery/rawdb"
	"github.com/everFinance/assetdiscovery/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = schema.AccountID{1}
	bob   = schema.AccountID{2}
	root  = schema.AccountID{9}
)

type recordSink struct {
	events []schema.Event
	lock   sync.Mutex
}

func (s *recordSink) Publish(ev schema.Event) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *recordSink) kinds() []schema.EventKind {
	s.lock.Lock()
	defer s.lock.Unlock()
	res := make([]schema.EventKind, 0, len(s.events))
	for _, ev := range s.events {
		res = append(res, ev.Kind)
	}
	return res
}

type staticSource []schema.Command

func (s staticSource) Drain() []schema.Command {
	return s
}

func newTestLedger(t *testing.T) (*Ledger, *recordSink) {
	db, err := rawdb.NewBoltDB(t.TempDir(), ledgerDbName, schema.LedgerBuckets())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	sink := &recordSink{}
	return NewLedger(db, sink, root), sink
}

// bind requests and commits asset for domain at epoch.
func bind(t *testing.T, l *Ledger, epoch uint64, domain, asset string) {
	require.NoError(t, l.Apply(epoch, schema.NewRequestAsset(alice, domain, asset)))
	req := schema.PendingRequest{Requester: alice, Domain: domain, AssetId: asset, Deadline: epoch + schema.RequestLifetime}
	require.NoError(t, l.Apply(epoch, schema.NewCommitVerifiedBinding(req.Key(), req)))
}

func TestLedger_ProduceBlock(t *testing.T) {
	l, sink := newTestLedger(t)

	epoch, err := l.Epoch()
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), epoch)

	src := staticSource{
		schema.NewRegisterDomain(alice, "example.net", "http://spec", "P1"),
		schema.NewRegisterDomain(bob, "example.net", "http://other", "P2"), // rejected
		schema.NewRequestAsset(bob, "example.net", "xyz"),
	}
	epoch, err = l.ProduceBlock(src)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), epoch)

	info, err := l.GetDomain("example.net")
	assert.NoError(t, err)
	assert.Equal(t, alice, info.Creator)
	assert.Equal(t, "P1", info.Maintainer)

	pending, err := l.PendingRequests()
	assert.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Equal(t, uint64(1+schema.RequestLifetime), pending[0].Request.Deadline)

	assert.Equal(t, []schema.EventKind{schema.EventDomainRegistered, schema.EventDomainValidationRequested}, sink.kinds())
	for _, ev := range sink.events {
		assert.Equal(t, uint64(1), ev.Epoch)
		assert.NotEmpty(t, ev.Id)
	}

	epoch, err = l.ProduceBlock(staticSource{})
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), epoch)
}

func TestLedger_MissingSigner(t *testing.T) {
	l, sink := newTestLedger(t)
	cmd := schema.NewRegisterDomain(alice, "example.net", "", "")
	cmd.Signer = nil
	assert.Equal(t, schema.ErrMissingSigner, l.Apply(1, cmd))

	cmd = schema.NewRegisterDomain(schema.AccountID{}, "example.net", "", "")
	assert.Equal(t, schema.ErrMissingSigner, l.Apply(1, cmd))

	assert.Equal(t, schema.ErrInvalidCommand, l.Apply(1, schema.Command{Kind: "unknown", Signer: &alice}))
	assert.Empty(t, sink.kinds())
}

func TestLedger_RegisterTLD(t *testing.T) {
	l, _ := newTestLedger(t)

	assert.NoError(t, l.Apply(1, schema.NewRegisterTLD(alice, "net", "http://net/spec.json")))
	spec, err := l.ChainSpecForTLD("net")
	assert.NoError(t, err)
	assert.Equal(t, "http://net/spec.json", spec)

	// the owner may update, anyone else may not
	assert.NoError(t, l.Apply(2, schema.NewRegisterTLD(alice, "net", "http://net/v2.json")))
	assert.Equal(t, schema.ErrTLDNotAvailable, l.Apply(2, schema.NewRegisterTLD(bob, "net", "http://evil")))
	info, err := l.GetTLD("net")
	assert.NoError(t, err)
	assert.Equal(t, alice, info.Owner)
	assert.Equal(t, "http://net/v2.json", info.ChainSpec)

	assert.Equal(t, schema.ErrInvalidDomainName, l.Apply(2, schema.NewRegisterTLD(alice, "a.net", "")))
	assert.Equal(t, schema.ErrInvalidDomainName, l.Apply(2, schema.NewRegisterTLD(alice, "", "")))

	_, err = l.GetTLD("org")
	assert.Equal(t, schema.ErrNotExist, err)
}

func TestLedger_DomainLifecycle(t *testing.T) {
	l, sink := newTestLedger(t)

	assert.NoError(t, l.Apply(1, schema.NewRegisterDomain(alice, "example.net", "http://a", "P1")))
	assert.Equal(t, schema.ErrDomainNotAvailable, l.Apply(1, schema.NewRegisterDomain(bob, "example.net", "http://b", "P2")))

	d, err := l.MaintainerDomain("P1")
	assert.NoError(t, err)
	assert.Equal(t, "example.net", d)

	// amend moves the maintainer index
	assert.Equal(t, schema.ErrInvalidOwner, l.Apply(2, schema.NewAmendDomain(bob, "example.net", "http://b", "P2")))
	assert.NoError(t, l.Apply(2, schema.NewAmendDomain(alice, "example.net", "http://a2", "P3")))
	_, err = l.MaintainerDomain("P1")
	assert.Equal(t, schema.ErrNotExist, err)
	d, err = l.MaintainerDomain("P3")
	assert.NoError(t, err)
	assert.Equal(t, "example.net", d)

	// revoke frees the domain for anyone
	assert.Equal(t, schema.ErrInvalidOwner, l.Apply(3, schema.NewRevokeDomain(bob, "example.net")))
	assert.NoError(t, l.Apply(3, schema.NewRevokeDomain(alice, "example.net")))
	info, err := l.GetDomain("example.net")
	assert.NoError(t, err)
	assert.True(t, info.Available)
	assert.Empty(t, info.Maintainer)
	_, err = l.MaintainerDomain("P3")
	assert.Equal(t, schema.ErrNotExist, err)

	assert.NoError(t, l.Apply(4, schema.NewRegisterDomain(bob, "example.net", "http://b", "P2")))
	info, err = l.GetDomain("example.net")
	assert.NoError(t, err)
	assert.Equal(t, bob, info.Creator)
	assert.False(t, info.Available)

	_, err = l.GetDomain("missing.net")
	assert.Equal(t, schema.ErrDomainNotFound, err)
	assert.Equal(t, schema.ErrDomainNotFound, l.Apply(4, schema.NewAmendDomain(alice, "missing.net", "", "")))

	assert.Equal(t, []schema.EventKind{
		schema.EventDomainRegistered,
		schema.EventDomainAmended,
		schema.EventDomainRevoked,
		schema.EventDomainRegistered,
	}, sink.kinds())
}

func TestLedger_RevokeByAuthority(t *testing.T) {
	l, _ := newTestLedger(t)
	assert.True(t, l.IsAuthority(root))
	assert.False(t, l.IsAuthority(alice))

	assert.NoError(t, l.Apply(1, schema.NewRegisterDomain(alice, "example.net", "http://a", "P1")))
	// authorities may revoke but not amend
	assert.Equal(t, schema.ErrInvalidOwner, l.Apply(2, schema.NewAmendDomain(root, "example.net", "", "")))
	assert.NoError(t, l.Apply(2, schema.NewRevokeDomain(root, "example.net")))

	info, err := l.GetDomain("example.net")
	assert.NoError(t, err)
	assert.True(t, info.Available)
}

func TestLedger_RequestAsset(t *testing.T) {
	l, _ := newTestLedger(t)

	assert.Equal(t, schema.ErrInvalidDomainName, l.Apply(1, schema.NewRequestAsset(alice, "", "xyz")))
	assert.Equal(t, schema.ErrInvalidAssetId, l.Apply(1, schema.NewRequestAsset(alice, "example.net", "")))

	assert.NoError(t, l.Apply(1, schema.NewRequestAsset(alice, "example.net", "xyz")))
	// a repeated request overwrites the same entry with a fresh deadline
	assert.NoError(t, l.Apply(5, schema.NewRequestAsset(bob, "example.net", "xyz")))

	pending, err := l.PendingRequests()
	assert.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "xyzexample.net", pending[0].Key)
	assert.Equal(t, bob, pending[0].Request.Requester)
	assert.Equal(t, 5+schema.RequestLifetime, pending[0].Request.Deadline)
}

func TestLedger_CommitVerifiedBinding(t *testing.T) {
	l, sink := newTestLedger(t)
	bind(t, l, 1, "example.net", "xyz")

	providers, err := l.ProvidersOf("xyz")
	assert.NoError(t, err)
	assert.Equal(t, []string{"example.net"}, providers)
	assets, err := l.AssetsOf("example.net")
	assert.NoError(t, err)
	assert.Equal(t, []string{"xyz"}, assets)

	pending, err := l.PendingRequests()
	assert.NoError(t, err)
	assert.Empty(t, pending)

	last := sink.events[len(sink.events)-1]
	assert.Equal(t, schema.EventAssetRegisteredForDomain, last.Kind)
	assert.Equal(t, uint64(1), last.Timestamp)
	assert.Equal(t, alice, *last.Actor)

	// the entry is gone, so a replay is rejected
	req := schema.PendingRequest{Requester: alice, Domain: "example.net", AssetId: "xyz"}
	assert.Equal(t, schema.ErrRequestNotFound, l.Apply(2, schema.NewCommitVerifiedBinding(req.Key(), req)))
	assert.Equal(t, schema.ErrInvalidCommand, l.Apply(2, schema.Command{Kind: schema.CmdCommitVerifiedBinding}))

	// requesting and verifying again does not duplicate index entries
	bind(t, l, 3, "example.net", "xyz")
	providers, err = l.ProvidersOf("xyz")
	assert.NoError(t, err)
	assert.Equal(t, []string{"example.net"}, providers)
	assets, err = l.AssetsOf("example.net")
	assert.NoError(t, err)
	assert.Equal(t, []string{"xyz"}, assets)
}

func TestLedger_CommitRemovesBySubmittedKey(t *testing.T) {
	l, _ := newTestLedger(t)
	assert.NoError(t, l.Apply(1, schema.NewRequestAsset(alice, "a.net", "xyz")))
	assert.NoError(t, l.Apply(1, schema.NewRequestAsset(alice, "b.net", "xyz")))

	req := schema.PendingRequest{Requester: alice, Domain: "a.net", AssetId: "xyz"}
	assert.NoError(t, l.Apply(2, schema.NewCommitVerifiedBinding(schema.PendingRequestKey("xyz", "b.net"), req)))

	pending, err := l.PendingRequests()
	assert.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "a.net", pending[0].Request.Domain)

	providers, err := l.ProvidersOf("xyz")
	assert.NoError(t, err)
	assert.Equal(t, []string{"a.net"}, providers)
}

func TestLedger_ProviderIndexIsBidirectional(t *testing.T) {
	l, _ := newTestLedger(t)
	bind(t, l, 1, "a.net", "x")
	bind(t, l, 1, "a.net", "y")
	bind(t, l, 1, "b.net", "x")

	for _, domain := range []string{"a.net", "b.net"} {
		assets, err := l.AssetsOf(domain)
		assert.NoError(t, err)
		for _, asset := range assets {
			providers, err := l.ProvidersOf(asset)
			assert.NoError(t, err)
			assert.Contains(t, providers, domain)
		}
	}
	providers, err := l.ProvidersOf("x")
	assert.NoError(t, err)
	assert.Equal(t, []string{"a.net", "b.net"}, providers)

	assert.NoError(t, l.Apply(2, schema.NewRetractDomains([]string{"a.net"})))

	providers, err = l.ProvidersOf("x")
	assert.NoError(t, err)
	assert.Equal(t, []string{"b.net"}, providers)
	providers, err = l.ProvidersOf("y")
	assert.NoError(t, err)
	assert.Empty(t, providers)
	assets, err := l.AssetsOf("a.net")
	assert.NoError(t, err)
	assert.Empty(t, assets)

	domains, err := l.ScanProviderDomains("", 10)
	assert.NoError(t, err)
	assert.Equal(t, []string{"b.net"}, domains)
}

func TestLedger_RetractUnknownDomain(t *testing.T) {
	l, sink := newTestLedger(t)
	bind(t, l, 1, "b.net", "x")

	assert.NoError(t, l.Apply(2, schema.NewRetractDomains([]string{"gone.net", "b.net"})))
	// retracting twice is a no-op
	assert.NoError(t, l.Apply(3, schema.NewRetractDomains([]string{"b.net"})))

	providers, err := l.ProvidersOf("x")
	assert.NoError(t, err)
	assert.Empty(t, providers)

	revoked := 0
	for _, k := range sink.kinds() {
		if k == schema.EventAssetProviderRevoked {
			revoked++
		}
	}
	assert.Equal(t, 3, revoked)
}

func TestLedger_RemoveExpiredRequests(t *testing.T) {
	l, sink := newTestLedger(t)
	assert.NoError(t, l.Apply(1, schema.NewRequestAsset(alice, "a.net", "x")))  // deadline 1001
	assert.NoError(t, l.Apply(10, schema.NewRequestAsset(alice, "b.net", "x"))) // deadline 1010

	assert.NoError(t, l.Apply(1000, schema.NewRemoveExpiredRequests(1000)))
	pending, err := l.PendingRequests()
	assert.NoError(t, err)
	assert.Len(t, pending, 2)

	assert.NoError(t, l.Apply(1001, schema.NewRemoveExpiredRequests(1001)))
	pending, err = l.PendingRequests()
	assert.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "b.net", pending[0].Request.Domain)

	// running again at the same point changes nothing but still reports
	assert.NoError(t, l.Apply(1001, schema.NewRemoveExpiredRequests(1001)))
	pending, err = l.PendingRequests()
	assert.NoError(t, err)
	assert.Len(t, pending, 1)

	expired := 0
	for _, k := range sink.kinds() {
		if k == schema.EventExpiredRequestsRemoved {
			expired++
		}
	}
	assert.Equal(t, 3, expired)
}

func TestLedger_DueForVerification(t *testing.T) {
	l, _ := newTestLedger(t)
	assert.NoError(t, l.Apply(1, schema.NewRequestAsset(alice, "a.net", "x")))
	assert.NoError(t, l.Apply(1, schema.NewRequestAsset(alice, "b.net", "x")))
	assert.NoError(t, l.Apply(1, schema.NewRequestAsset(alice, "c.net", "x")))
	assert.NoError(t, l.Apply(500, schema.NewRequestAsset(alice, "d.net", "x")))

	due, err := l.DueForVerification(2, 1)
	assert.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "xa.net", due[0].Key)
	assert.Equal(t, "xb.net", due[1].Key)

	// the deadline itself is still due
	due, err = l.DueForVerification(10, 1001)
	assert.NoError(t, err)
	assert.Len(t, due, 4)

	due, err = l.DueForVerification(10, 1002)
	assert.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "d.net", due[0].Request.Domain)

	due, err = l.DueForVerification(0, 1)
	assert.NoError(t, err)
	assert.Empty(t, due)
}

type failingSink struct{}

func (failingSink) Publish(schema.Event) error {
	return errors.New("sink down")
}

func TestLedger_SinkFailureDoesNotRollback(t *testing.T) {
	db, err := rawdb.NewBoltDB(t.TempDir(), ledgerDbName, schema.LedgerBuckets())
	require.NoError(t, err)
	defer db.Close()
	l := NewLedger(db, failingSink{})

	assert.NoError(t, l.Apply(1, schema.NewRegisterDomain(alice, "example.net", "", "")))
	_, err = l.GetDomain("example.net")
	assert.NoError(t, err)
}
