package ouroborosstego

import (
	"github.com/i5heu/ouroboros-stego/internal/lsb"
	"github.com/i5heu/ouroboros-stego/pkg/media"
)

// Recovery is the result of a lenient extraction.
type Recovery struct {
	Message   string // recovered characters, possibly fewer than Declared
	Declared  int    // length stored in the header
	Truncated bool   // the carrier ended before Declared characters were read
}

// Extract recovers the message hidden in carrier by Embed with the same
// category. It fails closed: the first failed check aborts and no partial
// message is returned. A carrier cut short inside the payload fails with
// *LengthExceedsCarrierError; use Recover to read what is left of it.
//
// An empty or blank result is not an error here; callers decide whether
// that means "no message".
func Extract(carrier []byte, category media.Category) (string, error) {
	s, err := strategyFor(category)
	if err != nil {
		return "", err
	}
	r, err := s.extract(carrier, category, true)
	if err != nil {
		return "", err
	}
	return r.Message, nil
}

// ExtractMIME classifies mimeType with media.Classify and calls Extract.
func ExtractMIME(carrier []byte, mimeType string) (string, error) {
	category, err := media.Classify(mimeType)
	if err != nil {
		return "", err
	}
	return Extract(carrier, category)
}

// Recover is Extract without the carrier size check on the declared
// length. A carrier that ends inside the payload yields the complete
// characters read so far with Truncated set, which callers should treat as
// a sign of corruption rather than success.
func Recover(carrier []byte, category media.Category) (Recovery, error) {
	s, err := strategyFor(category)
	if err != nil {
		return Recovery{}, err
	}
	return s.extract(carrier, category, false)
}

func (s strategy) extract(carrier []byte, category media.Category, strict bool) (Recovery, error) {
	p := s.policy(category)

	headerEnd := lsb.HeaderEnd(p.Offset, p.Stride)
	if len(carrier) < headerEnd {
		return Recovery{}, &CarrierTooSmallError{Category: category, Required: headerEnd, Available: len(carrier)}
	}

	declared, err := lsb.DecodeLength(carrier, p.Offset, p.Stride)
	if err != nil {
		return Recovery{}, &CarrierTooSmallError{Category: category, Required: headerEnd, Available: len(carrier)}
	}
	if declared == 0 || declared > MaxMessageSize {
		return Recovery{}, &InvalidLengthHeaderError{Decoded: declared}
	}

	n := int(declared)
	required := lsb.Required(p.Offset, p.Stride, n)
	if strict && required > len(carrier) {
		return Recovery{}, &LengthExceedsCarrierError{Decoded: declared, Required: required, Available: len(carrier)}
	}

	payload := lsb.DecodePayload(carrier, p.Offset, p.Stride, n)
	return Recovery{
		Message:   string(payload),
		Declared:  n,
		Truncated: len(payload) < n,
	}, nil
}
