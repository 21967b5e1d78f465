package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"
	"github.com/golang/snappy"

	"rostersearch/internal/record"
)

var (
	bucketRecords = []byte("records")
	bucketMeta    = []byte("meta")
	keyCount      = []byte("count")
	keySource     = []byte("source")
	keyEpoch      = []byte("epoch")
)

// Snapshot persists a loaded dataset in BoltDB so a later init can restore
// the roster without refetching. Record values are snappy-compressed JSON.
type Snapshot struct {
	db *bolt.DB
}

// OpenSnapshot opens or creates a snapshot file.
func OpenSnapshot(path string) (*Snapshot, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketRecords, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Snapshot{db: db}, nil
}

// Save replaces the stored dataset with ds and records its source URL. The
// epoch counter increments on every save.
func (s *Snapshot) Save(ds *record.Dataset, source string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketRecords); err != nil {
			return err
		}
		b, err := tx.CreateBucket(bucketRecords)
		if err != nil {
			return err
		}

		key := make([]byte, 8)
		for i, raw := range ds.Records {
			data, err := json.Marshal(raw)
			if err != nil {
				return fmt.Errorf("failed to encode record %d: %w", i, err)
			}
			binary.BigEndian.PutUint64(key, uint64(i))
			if err := b.Put(key, snappy.Encode(nil, data)); err != nil {
				return err
			}
		}

		meta := tx.Bucket(bucketMeta)
		count := make([]byte, 8)
		binary.BigEndian.PutUint64(count, uint64(len(ds.Records)))
		if err := meta.Put(keyCount, count); err != nil {
			return err
		}
		if err := meta.Put(keySource, []byte(source)); err != nil {
			return err
		}

		var epoch uint64
		if data := meta.Get(keyEpoch); data != nil {
			epoch = binary.BigEndian.Uint64(data)
		}
		epoch++
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, epoch)
		return meta.Put(keyEpoch, buf)
	})
}

// Load restores the stored dataset and its source URL.
func (s *Snapshot) Load() (*record.Dataset, string, error) {
	var ds record.Dataset
	var source string

	err := s.db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		countData := meta.Get(keyCount)
		if countData == nil {
			return fmt.Errorf("snapshot is empty")
		}
		count := binary.BigEndian.Uint64(countData)
		source = string(meta.Get(keySource))

		ds.Records = make([]record.Raw, 0, count)
		b := tx.Bucket(bucketRecords)
		return b.ForEach(func(_, v []byte) error {
			data, err := snappy.Decode(nil, v)
			if err != nil {
				return fmt.Errorf("failed to decompress record: %w", err)
			}
			var raw record.Raw
			if err := json.Unmarshal(data, &raw); err != nil {
				return fmt.Errorf("failed to decode record: %w", err)
			}
			ds.Records = append(ds.Records, raw)
			return nil
		})
	})
	if err != nil {
		return nil, "", err
	}
	return &ds, source, nil
}

// Epoch returns the save counter, 0 for a fresh snapshot.
func (s *Snapshot) Epoch() (uint64, error) {
	var epoch uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		if data := tx.Bucket(bucketMeta).Get(keyEpoch); data != nil {
			epoch = binary.BigEndian.Uint64(data)
		}
		return nil
	})
	return epoch, err
}

func (s *Snapshot) Close() error {
	return s.db.Close()
}
