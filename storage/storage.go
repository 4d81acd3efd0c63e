package storage

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
)

const (
	// Key prefixes for different record types in BadgerDB
	MetadataPrefix = "meta:"
	CarrierPrefix  = "carrier:"
)

// ErrNotFound is returned when no record exists for a key.
var ErrNotFound = errors.New("archive entry not found")

// Key identifies an archived carrier: the blake3 hash of its bytes.
type Key [32]byte

// KeyOf hashes data into a Key.
func KeyOf(data []byte) Key {
	return Key(blake3.Sum256(data))
}

func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// IsZero reports whether k is the zero key.
func (k Key) IsZero() bool {
	return k == Key{}
}

// ParseKey decodes the hex form produced by Key.String.
func ParseKey(s string) (Key, error) {
	var k Key
	raw, err := hex.DecodeString(s)
	if err != nil {
		return k, fmt.Errorf("invalid archive key %q: %w", s, err)
	}
	if len(raw) != len(k) {
		return k, fmt.Errorf("invalid archive key %q: want %d bytes, got %d", s, len(k), len(raw))
	}
	copy(k[:], raw)
	return k, nil
}

// Record describes one archived carrier. The message itself is not stored,
// only its length and hash.
type Record struct {
	Key           Key    `cbor:"1,keyasint"`
	MIMEType      string `cbor:"2,keyasint"`
	Category      string `cbor:"3,keyasint"`
	MessageLength int    `cbor:"4,keyasint"`
	MessageHash   Key    `cbor:"5,keyasint"`
	CarrierSize   uint64 `cbor:"6,keyasint"`
	StoredSize    uint64 `cbor:"7,keyasint"`
	Created       int64  `cbor:"8,keyasint"`
}

type KVWriter interface {
	Set(key, val []byte) error
}

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("storage: CBOR encoder initialization failed: " + err.Error())
	}
}

func metadataKey(key Key) []byte {
	return []byte(fmt.Sprintf("%s%x", MetadataPrefix, key[:]))
}

func carrierKey(key Key) []byte {
	return []byte(fmt.Sprintf("%s%x", CarrierPrefix, key[:]))
}

func StoreRecord(w KVWriter, record Record) error {
	data, err := encMode.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	return w.Set(metadataKey(record.Key), data)
}

func StoreCarrier(w KVWriter, key Key, compressed []byte) error {
	return w.Set(carrierKey(key), compressed)
}

func LoadRecord(txn *badger.Txn, key Key) (Record, error) {
	item, err := txn.Get(metadataKey(key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return Record{}, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return Record{}, fmt.Errorf("failed to get record: %w", err)
	}
	data, err := item.ValueCopy(nil)
	if err != nil {
		return Record{}, fmt.Errorf("failed to read record value: %w", err)
	}
	var record Record
	if err := cbor.Unmarshal(data, &record); err != nil {
		return Record{}, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return record, nil
}

func LoadCarrier(txn *badger.Txn, key Key) ([]byte, error) {
	item, err := txn.Get(carrierKey(key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: carrier %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to get carrier: %w", err)
	}
	return item.ValueCopy(nil)
}

func DeleteRecord(txn *badger.Txn, key Key) error {
	if err := txn.Delete(metadataKey(key)); err != nil {
		return fmt.Errorf("failed to delete record %s: %w", key, err)
	}
	if err := txn.Delete(carrierKey(key)); err != nil {
		return fmt.Errorf("failed to delete carrier %s: %w", key, err)
	}
	return nil
}

// ListKeys returns the keys of all records, in badger key order.
func ListKeys(txn *badger.Txn) ([]Key, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(MetadataPrefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys []Key
	for it.Rewind(); it.Valid(); it.Next() {
		raw := it.Item().KeyCopy(nil)
		key, err := ParseKey(string(raw[len(MetadataPrefix):]))
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}
