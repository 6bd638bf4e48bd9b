package assetdiscovery

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/everFinance/assetdiscovery/rawdb"
	"github.com/everFinance/assetdiscovery/schema"
)

const (
	ledgerDbName = "ledger.db"
	localDbName  = "local.db"
)

// Store is the node local storage: never replicated, may diverge between nodes.
type Store struct {
	KVDb rawdb.KeyValueDB
}

func NewBoltStore(boltDirPath string) (*Store, error) {
	Db, err := rawdb.NewBoltDB(boltDirPath, localDbName, schema.LocalBuckets())
	if err != nil {
		return nil, err
	}
	return &Store{KVDb: Db}, nil
}

func NewMongoStore(ctx context.Context, uri string) (*Store, error) {
	Db, err := rawdb.NewMongoDB(ctx, uri)
	if err != nil {
		return nil, err
	}
	return &Store{KVDb: Db}, nil
}

func NewS3Store(accKey, secretKey, region, bucketPrefix, endpoint string) (*Store, error) {
	Db, err := rawdb.NewS3DB(accKey, secretKey, region, bucketPrefix, endpoint, schema.LocalBuckets())
	if err != nil {
		return nil, err
	}
	return &Store{KVDb: Db}, nil
}

func NewAliyunStore(endpoint, accKey, secretKey, bucketPrefix string) (*Store, error) {
	Db, err := rawdb.NewAliyunDB(endpoint, accKey, secretKey, bucketPrefix, schema.LocalBuckets())
	if err != nil {
		return nil, err
	}
	return &Store{KVDb: Db}, nil
}

func (s *Store) Close() error {
	return s.KVDb.Close()
}

// LoadPeerCache returns an empty cache when nothing was saved yet.
func (s *Store) LoadPeerCache() (schema.PeerCache, error) {
	pc := schema.PeerCache{Peers: make([]string, 0)}
	data, err := s.KVDb.Get(schema.LocalStorageBucket, schema.PeerCacheKey)
	if errors.Is(err, schema.ErrNotExist) {
		return pc, nil
	}
	if err != nil {
		return pc, err
	}
	err = json.Unmarshal(data, &pc)
	return pc, err
}

func (s *Store) SavePeerCache(pc schema.PeerCache) error {
	data, err := json.Marshal(pc)
	if err != nil {
		return err
	}
	return s.KVDb.Put(schema.LocalStorageBucket, schema.PeerCacheKey, data)
}

func (s *Store) LoadSweepCursor() (string, error) {
	data, err := s.KVDb.Get(schema.LocalStorageBucket, schema.SweepCursorKey)
	if errors.Is(err, schema.ErrNotExist) {
		return "", nil
	}
	return string(data), err
}

// SaveSweepCursor persists the last swept domain; an empty cursor is deleted.
func (s *Store) SaveSweepCursor(cursor string) error {
	if cursor == "" {
		return s.KVDb.Delete(schema.LocalStorageBucket, schema.SweepCursorKey)
	}
	return s.KVDb.Put(schema.LocalStorageBucket, schema.SweepCursorKey, []byte(cursor))
}

func openLedgerDb(boltDirPath string) (*rawdb.BoltDB, error) {
	return rawdb.NewBoltDB(boltDirPath, ledgerDbName, schema.LedgerBuckets())
}
