package settings

import (
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
)

const defaultBucket = "settings"

// BoltBackend is the default durable backend, a single file
type BoltBackend struct {
	db     *bolt.DB
	bucket []byte
}

func NewBoltBackend(path string, bucket string) (*BoltBackend, error) {

	if path == "" {
		return nil, os.ErrInvalid
	}

	if bucket == "" {
		bucket = defaultBucket
	}

	err := os.MkdirAll(filepath.Dir(path), 0700)
	if err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second * 5})
	if err != nil {
		return nil, errors.Wrap(err, "opening "+path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltBackend{db: db, bucket: []byte(bucket)}, nil
}

func (b *BoltBackend) Get(key string) (value string, err error) {

	err = b.db.View(func(tx *bolt.Tx) error {

		v := tx.Bucket(b.bucket).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}

		// v is only valid inside the transaction
		value = string(v)
		return nil
	})

	return value, err
}

func (b *BoltBackend) Set(key string, value string) error {

	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.bucket).Put([]byte(key), []byte(value))
	})
}

func (b *BoltBackend) Close() error {
	return b.db.Close()
}
