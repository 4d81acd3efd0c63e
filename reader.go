package ouroborosstego

import (
	"fmt"

	"github.com/i5heu/ouroboros-stego/storage"
)

// ReadArchived returns an archived carrier and its MIME type.
func (s *Stego) ReadArchived(key storage.Key) ([]byte, string, error) {
	if s.archive == nil {
		return nil, "", ErrNoArchive
	}
	record, carrier, err := s.archive.Get(key)
	if err != nil {
		s.log.WithField("key", key.String()).WithError(err).Error("Failed to read archived carrier")
		return nil, "", fmt.Errorf("failed to read archived carrier: %w", err)
	}
	s.log.WithField("key", key.String()).Debug("Successfully read archived carrier")
	return carrier, record.MIMEType, nil
}
