package ouroborosstego

import (
	"bytes"
	"fmt"

	"github.com/i5heu/ouroboros-stego/internal/lsb"
	"github.com/i5heu/ouroboros-stego/pkg/media"
)

// Embed hides message in a copy of carrier and returns the copy. carrier is
// never modified. Each byte of message is one character.
//
// Checks run in order: category, empty message, MaxMessageSize, carrier
// capacity. Bytes inside the carrier's own container headers are
// overwritten if the layout lands on them; the format is not parsed.
func Embed(carrier []byte, message string, category media.Category) ([]byte, error) {
	s, err := strategyFor(category)
	if err != nil {
		return nil, err
	}
	if len(message) == 0 {
		return nil, ErrEmptyMessage
	}
	if len(message) > MaxMessageSize {
		return nil, &MessageTooLargeError{Size: len(message), Max: MaxMessageSize}
	}
	return s.embed(carrier, message, category)
}

// EmbedMIME classifies mimeType with media.Classify and calls Embed.
func EmbedMIME(carrier []byte, message string, mimeType string) ([]byte, error) {
	category, err := media.Classify(mimeType)
	if err != nil {
		return nil, err
	}
	return Embed(carrier, message, category)
}

func (s strategy) embed(carrier []byte, message string, category media.Category) ([]byte, error) {
	p := s.policy(category)

	required := lsb.Required(p.Offset, p.Stride, len(message))
	if required > len(carrier) {
		return nil, &CapacityExceededError{Category: category, Required: required, Available: len(carrier)}
	}

	result := bytes.Clone(carrier)
	if err := lsb.EncodeLength(result, p.Offset, p.Stride, uint32(len(message))); err != nil {
		return nil, fmt.Errorf("failed to write length header: %w", err)
	}
	if err := lsb.EncodePayload(result, p.Offset, p.Stride, []byte(message)); err != nil {
		return nil, fmt.Errorf("failed to write message bits: %w", err)
	}
	return result, nil
}

// Capacity returns the longest message a carrier of carrierSize bytes can
// hold for category, capped at MaxMessageSize. It is 0 for unsupported
// categories and carriers smaller than one character's worth of space.
func Capacity(carrierSize int, category media.Category) int {
	p, err := PolicyFor(category)
	if err != nil {
		return 0
	}
	free := carrierSize - lsb.HeaderEnd(p.Offset, p.Stride)
	if free <= 0 {
		return 0
	}
	n := free / (lsb.BitsPerByte * p.Stride)
	if n > MaxMessageSize {
		return MaxMessageSize
	}
	return n
}
