package ouroborosstego

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/i5heu/ouroboros-stego/pkg/media"
	"github.com/i5heu/ouroboros-stego/pkg/spaceInformations"
	"github.com/i5heu/ouroboros-stego/storage"
	"github.com/sirupsen/logrus"
)

// Stego wraps the codec with logging, operation counters and an optional
// archive of every carrier it produces. It is safe for concurrent use.
type Stego struct {
	config         Config
	log            *logrus.Logger
	archive        *storage.Archive
	embedCounter   uint64
	extractCounter uint64
}

func Init(config *Config) (*Stego, error) {
	if config == nil {
		config = &Config{}
	}
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	log := config.Logger

	if err := config.checkConfig(); err != nil {
		return nil, fmt.Errorf("error checking config for Stego: %w", err)
	}

	s := &Stego{config: *config, log: log}
	if config.ArchivePath == "" {
		return s, nil
	}

	archive, err := storage.Open(config.ArchivePath)
	if err != nil {
		log.WithError(err).Error("Failed to open archive")
		return nil, err
	}
	s.archive = archive

	usage, err := spaceInformations.Inspect(config.ArchivePath)
	if err != nil {
		log.WithError(err).Warn("Could not read disk usage of archive path")
	} else {
		log.WithFields(logrus.Fields{
			"path":       usage.Path,
			"device":     usage.Device,
			"mountPoint": usage.MountPoint,
			"freeGB":     fmt.Sprintf("%.2f", usage.FreeGB),
			"archiveGB":  fmt.Sprintf("%.2f", usage.PathGB),
		}).Debug("Archive disk usage")
	}
	return s, nil
}

// Close releases the archive, if one is open.
func (s *Stego) Close() error {
	if s.archive == nil {
		return nil
	}
	return s.archive.Close()
}

// HasArchive reports whether embedded carriers are being archived.
func (s *Stego) HasArchive() bool {
	return s.archive != nil
}

// Embed hides message in carrier for the declared mimeType. With an archive
// configured the result is stored and its key returned; otherwise the key
// is zero.
func (s *Stego) Embed(carrier []byte, message string, mimeType string) ([]byte, storage.Key, error) {
	atomic.AddUint64(&s.embedCounter, 1)

	category, err := media.Classify(mimeType)
	if err != nil {
		s.log.WithField("mimeType", mimeType).Warn("Unsupported file type")
		return nil, storage.Key{}, err
	}

	fields := logrus.Fields{
		"category":      category.String(),
		"carrierBytes":  len(carrier),
		"messageLength": len(message),
	}
	if p, err := PolicyFor(category); err == nil {
		fields["offset"] = p.Offset
		fields["stride"] = p.Stride
	}
	s.log.WithFields(fields).Debugf("Using %s steganography algorithm", category.Family())

	result, err := Embed(carrier, message, category)
	if err != nil {
		s.log.WithFields(fields).WithError(err).Errorf("%s embedding error", category.Family())
		return nil, storage.Key{}, err
	}

	var key storage.Key
	if s.archive != nil {
		key, err = s.archive.Put(result, storage.Record{
			MIMEType:      mimeType,
			Category:      category.String(),
			MessageLength: len(message),
			MessageHash:   storage.KeyOf([]byte(message)),
		})
		if err != nil {
			s.log.WithError(err).Error("Failed to archive carrier")
			return nil, storage.Key{}, fmt.Errorf("failed to archive carrier: %w", err)
		}
		fields["key"] = key.String()
	}

	s.log.WithFields(fields).Infof("%s steganography completed", category.Family())
	return result, key, nil
}

// Extract recovers the message hidden in carrier for the declared mimeType.
// A recovered message that is empty or only whitespace is reported as
// ErrNoMessage; otherwise it is returned with surrounding whitespace
// trimmed.
func (s *Stego) Extract(carrier []byte, mimeType string) (string, error) {
	atomic.AddUint64(&s.extractCounter, 1)

	category, err := media.Classify(mimeType)
	if err != nil {
		s.log.WithField("mimeType", mimeType).Warn("Unsupported file type")
		return "", err
	}

	fields := logrus.Fields{
		"category":     category.String(),
		"carrierBytes": len(carrier),
	}
	s.log.WithFields(fields).Debugf("Using %s steganography extraction algorithm", category.Family())

	message, err := Extract(carrier, category)
	if err != nil {
		if IsNoMessage(err) {
			s.log.WithFields(fields).WithError(err).Info("No hidden message found")
		} else {
			s.log.WithFields(fields).WithError(err).Error("Extraction error")
		}
		return "", err
	}

	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		s.log.WithFields(fields).Info("Recovered message is blank")
		return "", ErrNoMessage
	}

	s.log.WithFields(fields).WithField("messageLength", len(message)).Info("Message extracted successfully")
	return trimmed, nil
}
