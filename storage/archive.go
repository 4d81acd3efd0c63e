package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Archive keeps embedded carriers in a badger database, compressed with
// zstd and keyed by the blake3 hash of the uncompressed carrier.
type Archive struct {
	db *badger.DB
}

// Open opens or creates an archive rooted at path.
func Open(path string) (*Archive, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.ValueLogFileSize = 1024 * 1024 * 100 // Set max size of each value log file to 100MB
	opts.SyncWrites = false

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive at %s: %w", path, err)
	}
	return &Archive{db: db}, nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}

// Put stores carrier with its record and returns the carrier key. Key,
// CarrierSize and StoredSize of record are filled in here, and Created when
// it is zero. Storing the same carrier twice overwrites the record.
func (a *Archive) Put(carrier []byte, record Record) (Key, error) {
	record.Key = KeyOf(carrier)
	if record.Created == 0 {
		record.Created = time.Now().Unix()
	}

	compressed, err := CompressWithZstd(carrier)
	if err != nil {
		return Key{}, fmt.Errorf("failed to compress carrier: %w", err)
	}
	record.CarrierSize = uint64(len(carrier))
	record.StoredSize = uint64(len(compressed))

	wb := a.db.NewWriteBatch()
	defer wb.Cancel()

	if err := StoreCarrier(wb, record.Key, compressed); err != nil {
		return Key{}, fmt.Errorf("failed to store carrier: %w", err)
	}
	if err := StoreRecord(wb, record); err != nil {
		return Key{}, fmt.Errorf("failed to store record: %w", err)
	}
	if err := wb.Flush(); err != nil {
		return Key{}, fmt.Errorf("failed to commit batch: %w", err)
	}
	return record.Key, nil
}

// Get returns the record and the decompressed carrier for key.
func (a *Archive) Get(key Key) (Record, []byte, error) {
	var (
		record     Record
		compressed []byte
	)
	err := a.db.View(func(txn *badger.Txn) error {
		var err error
		if record, err = LoadRecord(txn, key); err != nil {
			return err
		}
		compressed, err = LoadCarrier(txn, key)
		return err
	})
	if err != nil {
		return Record{}, nil, err
	}

	carrier, err := DecompressWithZstd(compressed)
	if err != nil {
		return Record{}, nil, fmt.Errorf("failed to decompress carrier %s: %w", key, err)
	}
	return record, carrier, nil
}

// Record returns only the record for key.
func (a *Archive) Record(key Key) (Record, error) {
	var record Record
	err := a.db.View(func(txn *badger.Txn) error {
		var err error
		record, err = LoadRecord(txn, key)
		return err
	})
	return record, err
}

func (a *Archive) Exists(key Key) (bool, error) {
	_, err := a.Record(key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (a *Archive) Keys() ([]Key, error) {
	var keys []Key
	err := a.db.View(func(txn *badger.Txn) error {
		var err error
		keys, err = ListKeys(txn)
		return err
	})
	return keys, err
}

// Records returns every record in key order.
func (a *Archive) Records() ([]Record, error) {
	var records []Record
	err := a.db.View(func(txn *badger.Txn) error {
		keys, err := ListKeys(txn)
		if err != nil {
			return err
		}
		for _, key := range keys {
			record, err := LoadRecord(txn, key)
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	})
	return records, err
}

func (a *Archive) Delete(key Key) error {
	return a.db.Update(func(txn *badger.Txn) error {
		if _, err := LoadRecord(txn, key); err != nil {
			return err
		}
		return DeleteRecord(txn, key)
	})
}
