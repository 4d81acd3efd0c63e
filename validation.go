package ouroborosstego

import (
	"errors"
	"fmt"

	"github.com/i5heu/ouroboros-stego/pkg/media"
	"github.com/i5heu/ouroboros-stego/storage"
)

// ErrNoArchive is returned by archive operations on a Stego without an
// archive path.
var ErrNoArchive = errors.New("no archive configured")

// ValidationResult captures the outcome of validating a single archive entry.
type ValidationResult struct {
	Key storage.Key
	Err error
}

// Passed reports whether the validation succeeded.
func (r ValidationResult) Passed() bool {
	return r.Err == nil
}

// ValidateKey re-extracts the message from an archived carrier and checks
// it against the recorded length and hash.
func (s *Stego) ValidateKey(key storage.Key) error {
	if s.archive == nil {
		return ErrNoArchive
	}

	record, carrier, err := s.archive.Get(key)
	if err != nil {
		return fmt.Errorf("failed to read archived carrier for validation: %w", err)
	}

	if computed := storage.KeyOf(carrier); computed != key {
		return fmt.Errorf("carrier hash mismatch: expected %s, got %s", key, computed)
	}

	category, err := media.ParseCategory(record.Category)
	if err != nil {
		return fmt.Errorf("archived record has invalid category: %w", err)
	}

	message, err := Extract(carrier, category)
	if err != nil {
		return fmt.Errorf("failed to extract message from archived carrier: %w", err)
	}
	if len(message) != record.MessageLength {
		return fmt.Errorf("message length mismatch: recorded %d, extracted %d", record.MessageLength, len(message))
	}
	if storage.KeyOf([]byte(message)) != record.MessageHash {
		return fmt.Errorf("message hash mismatch for %s", key)
	}
	return nil
}

// ValidateAll validates every archived carrier and returns one result per
// entry.
func (s *Stego) ValidateAll() ([]ValidationResult, error) {
	keys, err := s.ArchiveKeys()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys for validation: %w", err)
	}

	results := make([]ValidationResult, 0, len(keys))
	for _, key := range keys {
		res := ValidationResult{Key: key}
		if err := s.ValidateKey(key); err != nil {
			s.log.WithField("key", key.String()).WithError(err).Warn("Archived carrier failed validation")
			res.Err = err
		}
		results = append(results, res)
	}
	return results, nil
}
