package assetdiscovery

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"sync"

	"github.com/everFinance/assetdiscovery/rawdb"
	"github.com/everFinance/assetdiscovery/schema"
	"github.com/google/uuid"
)

// CommandSource hands the ledger the commands of the next block.
type CommandSource interface {
	Drain() []schema.Command
}

// Ledger is the replicated state: registry, pending requests and provider index.
// Every command is applied in its own bolt transaction and its events are
// published only after that transaction commits.
type Ledger struct {
	db          rawdb.TxDB
	sink        EventSink
	authorities map[schema.AccountID]struct{}
	locker      sync.Mutex
}

func NewLedger(db rawdb.TxDB, sink EventSink, authorities ...schema.AccountID) *Ledger {
	auth := make(map[schema.AccountID]struct{}, len(authorities))
	for _, a := range authorities {
		auth[a] = struct{}{}
	}
	if sink == nil {
		sink = LogSink{}
	}
	return &Ledger{db: db, sink: sink, authorities: auth}
}

func (l *Ledger) IsAuthority(acc schema.AccountID) bool {
	_, ok := l.authorities[acc]
	return ok
}

func (l *Ledger) Epoch() (epoch uint64, err error) {
	err = l.db.View(func(tx rawdb.Tx) error {
		epoch, err = loadEpoch(tx)
		return err
	})
	return
}

// ProduceBlock advances the epoch and applies every drained command in order.
// A failed command aborts only itself.
func (l *Ledger) ProduceBlock(src CommandSource) (uint64, error) {
	l.locker.Lock()
	defer l.locker.Unlock()

	var epoch uint64
	err := l.db.Update(func(tx rawdb.Tx) error {
		cur, err := loadEpoch(tx)
		if err != nil {
			return err
		}
		epoch = cur + 1
		return tx.Put(schema.ConstantsBucket, schema.EpochKey, encodeEpoch(epoch))
	})
	if err != nil {
		return 0, err
	}

	for _, cmd := range src.Drain() {
		if err := l.Apply(epoch, cmd); err != nil {
			log.Warn("command rejected", "kind", cmd.Kind, "epoch", epoch, "err", err)
			metricCommand(cmd.Kind, "failed")
			continue
		}
		metricCommand(cmd.Kind, "applied")
	}
	metricEpoch(epoch)
	return epoch, nil
}

type applyCtx struct {
	tx     rawdb.Tx
	epoch  uint64
	events []schema.Event
}

func (c *applyCtx) emit(ev schema.Event) {
	ev.Epoch = c.epoch
	c.events = append(c.events, ev)
}

// Apply runs one command atomically at the given epoch.
func (l *Ledger) Apply(epoch uint64, cmd schema.Command) error {
	actx := &applyCtx{epoch: epoch}
	err := l.db.Update(func(tx rawdb.Tx) error {
		actx.tx = tx
		actx.events = actx.events[:0]
		return l.dispatch(actx, cmd)
	})
	if err != nil {
		return err
	}
	for _, ev := range actx.events {
		ev.Id = uuid.NewString()
		if err := l.sink.Publish(ev); err != nil {
			log.Error("l.sink.Publish(ev)", "err", err, "kind", ev.Kind, "epoch", ev.Epoch)
		}
	}
	return nil
}

func (l *Ledger) dispatch(c *applyCtx, cmd schema.Command) error {
	if !cmd.Unsigned() && (cmd.Signer == nil || cmd.Signer.IsZero()) {
		return schema.ErrMissingSigner
	}
	switch cmd.Kind {
	case schema.CmdCommitVerifiedBinding:
		return l.commitVerifiedBinding(c, cmd)
	case schema.CmdRemoveExpiredRequests:
		return l.removeExpiredRequests(c, cmd)
	case schema.CmdRetractDomains:
		return l.retractDomains(c, cmd)
	case schema.CmdRegisterTLD:
		return l.registerTLD(c, cmd)
	case schema.CmdRegisterDomain:
		return l.registerDomain(c, cmd)
	case schema.CmdAmendDomain:
		return l.amendDomain(c, cmd)
	case schema.CmdRevokeDomain:
		return l.revokeDomain(c, cmd)
	case schema.CmdRequestAsset:
		return l.requestAsset(c, cmd)
	}
	return schema.ErrInvalidCommand
}

func loadEpoch(tx rawdb.Tx) (uint64, error) {
	bz, err := tx.Get(schema.ConstantsBucket, schema.EpochKey)
	if errors.Is(err, schema.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(bz), nil
}

func encodeEpoch(epoch uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, epoch)
	return bz
}

func getJSON(tx rawdb.Tx, bucket, key string, v interface{}) error {
	bz, err := tx.Get(bucket, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(bz, v)
}

func putJSON(tx rawdb.Tx, bucket, key string, v interface{}) error {
	bz, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return tx.Put(bucket, key, bz)
}

// view reads one json value outside a command.
func (l *Ledger) view(bucket, key string, v interface{}) error {
	return l.db.View(func(tx rawdb.Tx) error {
		return getJSON(tx, bucket, key, v)
	})
}
