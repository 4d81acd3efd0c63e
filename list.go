package ouroborosstego

import (
	"fmt"
	"time"

	"github.com/i5heu/ouroboros-stego/storage"
)

// ArchiveInfo describes one archived carrier.
type ArchiveInfo struct {
	Key           storage.Key
	MIMEType      string
	Category      string
	MessageLength int
	CarrierSize   uint64 // bytes of the carrier as produced by Embed
	StoredSize    uint64 // bytes on storage after compression
	Created       time.Time
}

// ArchiveKeys lists the keys of all archived carriers.
func (s *Stego) ArchiveKeys() ([]storage.Key, error) {
	if s.archive == nil {
		return nil, ErrNoArchive
	}
	return s.archive.Keys()
}

// ArchiveInfo returns information about the carrier stored under key.
func (s *Stego) ArchiveInfo(key storage.Key) (ArchiveInfo, error) {
	if s.archive == nil {
		return ArchiveInfo{}, ErrNoArchive
	}
	record, err := s.archive.Record(key)
	if err != nil {
		return ArchiveInfo{}, fmt.Errorf("failed to get info for key %s: %w", key, err)
	}
	return infoFromRecord(record), nil
}

// ListArchived returns information about every archived carrier.
func (s *Stego) ListArchived() ([]ArchiveInfo, error) {
	if s.archive == nil {
		return nil, ErrNoArchive
	}
	records, err := s.archive.Records()
	if err != nil {
		return nil, fmt.Errorf("failed to list archive: %w", err)
	}

	infos := make([]ArchiveInfo, 0, len(records))
	for _, record := range records {
		infos = append(infos, infoFromRecord(record))
	}
	return infos, nil
}

func infoFromRecord(record storage.Record) ArchiveInfo {
	return ArchiveInfo{
		Key:           record.Key,
		MIMEType:      record.MIMEType,
		Category:      record.Category,
		MessageLength: record.MessageLength,
		CarrierSize:   record.CarrierSize,
		StoredSize:    record.StoredSize,
		Created:       time.Unix(record.Created, 0).UTC(),
	}
}
