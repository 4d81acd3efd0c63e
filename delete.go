package ouroborosstego

import (
	"fmt"

	"github.com/i5heu/ouroboros-stego/storage"
)

// DeleteArchived removes an archived carrier and its record.
func (s *Stego) DeleteArchived(key storage.Key) error {
	if s.archive == nil {
		return ErrNoArchive
	}
	if err := s.archive.Delete(key); err != nil {
		s.log.WithField("key", key.String()).WithError(err).Error("Failed to delete archived carrier")
		return fmt.Errorf("failed to delete archived carrier: %w", err)
	}
	s.log.WithField("key", key.String()).Debug("Successfully deleted archived carrier")
	return nil
}
