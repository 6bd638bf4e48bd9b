package rawdb

import (
	"github.com/everFinance/assetdiscovery/common"
)

var log = common.NewLog("rawdb")

// KeyValueDB is the bucketed key value surface every backend provides.
type KeyValueDB interface {
	Put(bucket, key string, value []byte) (err error)

	Get(bucket, key string) (data []byte, err error)

	GetAllKey(bucket string) (keys []string, err error)

	Delete(bucket, key string) (err error)

	Close() (err error)

	Type() string

	Exist(bucket, key string) bool
}

// TxDB is a KeyValueDB whose writes can be grouped atomically.
// A failed Update leaves no partial state behind.
type TxDB interface {
	KeyValueDB

	View(fn func(tx Tx) error) error
	Update(fn func(tx Tx) error) error
}

type Tx interface {
	Get(bucket, key string) (data []byte, err error)
	Put(bucket, key string, value []byte) error
	Delete(bucket, key string) error
	// ForEach visits keys in ascending order; fn must not mutate the bucket.
	ForEach(bucket string, fn func(key string, value []byte) error) error
	// ScanFrom returns up to limit entries with keys strictly after the given one.
	// An empty after starts from the first key.
	ScanFrom(bucket, after string, limit int) ([]KV, error)
}

type KV struct {
	Key   string
	Value []byte
}
