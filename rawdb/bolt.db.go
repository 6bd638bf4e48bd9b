package rawdb

import (
	"bytes"
	"errors"
	"os"
	"path"
	"time"

	"github.com/everFinance/assetdiscovery/schema"
	bolt "go.etcd.io/bbolt"
)

const (
	boltAllocSize = 8 * 1024 * 1024
	BoltType      = "boltdb"
)

type BoltDB struct {
	Db *bolt.DB
}

func NewBoltDB(boltDirPath, fileName string, buckets []string) (*BoltDB, error) {
	if len(boltDirPath) == 0 {
		return nil, errors.New("boltDb dir path can not null")
	}
	if err := os.MkdirAll(boltDirPath, os.ModePerm); err != nil {
		return nil, err
	}

	Db, err := bolt.Open(path.Join(boltDirPath, fileName), 0660, &bolt.Options{Timeout: 2 * time.Second, InitialMmapSize: 10e6})
	if err != nil {
		if err == bolt.ErrTimeout {
			return nil, errors.New("cannot obtain database lock, database may be in use by another process")
		}
		return nil, err
	}
	Db.AllocSize = boltAllocSize
	boltDB := &BoltDB{
		Db: Db,
	}
	if err := boltDB.Db.Update(func(tx *bolt.Tx) error {
		return createBuckets(tx, buckets)
	}); err != nil {
		return nil, err
	}
	return boltDB, nil
}

func (s *BoltDB) Type() string {
	return BoltType
}

func (s *BoltDB) Put(bucket, key string, value []byte) (err error) {
	return s.Update(func(tx Tx) error {
		return tx.Put(bucket, key, value)
	})
}

func (s *BoltDB) Get(bucket, key string) (data []byte, err error) {
	err = s.View(func(tx Tx) error {
		data, err = tx.Get(bucket, key)
		return err
	})
	return
}

func (s *BoltDB) GetAllKey(bucket string) (keys []string, err error) {
	keys = make([]string, 0)
	err = s.View(func(tx Tx) error {
		return tx.ForEach(bucket, func(k string, _ []byte) error {
			keys = append(keys, k)
			return nil
		})
	})
	return
}

func (s *BoltDB) Delete(bucket, key string) (err error) {
	return s.Update(func(tx Tx) error {
		return tx.Delete(bucket, key)
	})
}

func (s *BoltDB) Exist(bucket, key string) bool {
	_, err := s.Get(bucket, key)
	return err == nil
}

func (s *BoltDB) Close() (err error) {
	return s.Db.Close()
}

func (s *BoltDB) View(fn func(tx Tx) error) error {
	return s.Db.View(func(tx *bolt.Tx) error {
		return fn(boltTx{tx: tx})
	})
}

func (s *BoltDB) Update(fn func(tx Tx) error) error {
	return s.Db.Update(func(tx *bolt.Tx) error {
		return fn(boltTx{tx: tx})
	})
}

type boltTx struct {
	tx *bolt.Tx
}

func (b boltTx) bucket(name string) (*bolt.Bucket, error) {
	bkt := b.tx.Bucket([]byte(name))
	if bkt == nil {
		return nil, bolt.ErrBucketNotFound
	}
	return bkt, nil
}

// Get copies the value out; bolt memory is only valid inside the transaction.
func (b boltTx) Get(bucket, key string) ([]byte, error) {
	bkt, err := b.bucket(bucket)
	if err != nil {
		return nil, err
	}
	v := bkt.Get([]byte(key))
	if v == nil {
		return nil, schema.ErrNotExist
	}
	return bytes.Clone(v), nil
}

func (b boltTx) Put(bucket, key string, value []byte) error {
	bkt, err := b.bucket(bucket)
	if err != nil {
		return err
	}
	return bkt.Put([]byte(key), value)
}

func (b boltTx) Delete(bucket, key string) error {
	bkt, err := b.bucket(bucket)
	if err != nil {
		return err
	}
	return bkt.Delete([]byte(key))
}

func (b boltTx) ForEach(bucket string, fn func(key string, value []byte) error) error {
	bkt, err := b.bucket(bucket)
	if err != nil {
		return err
	}
	return bkt.ForEach(func(k, v []byte) error {
		return fn(string(k), bytes.Clone(v))
	})
}

func (b boltTx) ScanFrom(bucket, after string, limit int) ([]KV, error) {
	bkt, err := b.bucket(bucket)
	if err != nil {
		return nil, err
	}
	res := make([]KV, 0, limit)
	if limit <= 0 {
		return res, nil
	}
	c := bkt.Cursor()
	var k, v []byte
	if after == "" {
		k, v = c.First()
	} else {
		k, v = c.Seek([]byte(after))
		if k != nil && string(k) == after {
			k, v = c.Next()
		}
	}
	for ; k != nil && len(res) < limit; k, v = c.Next() {
		res = append(res, KV{Key: string(k), Value: bytes.Clone(v)})
	}
	return res, nil
}

func createBuckets(tx *bolt.Tx, buckets []string) error {
	for _, bucket := range buckets {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
			return err
		}
	}
	return nil
}
