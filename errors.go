package ouroborosstego

import (
	"errors"
	"fmt"

	"github.com/i5heu/ouroboros-stego/pkg/media"
)

// Error kinds. Struct errors below match their kind through errors.Is.
var (
	ErrUnsupportedCategory  = media.ErrUnsupported
	ErrEmptyMessage         = errors.New("message is empty")
	ErrMessageTooLarge      = errors.New("message too large")
	ErrCapacityExceeded     = errors.New("message too large for carrier")
	ErrCarrierTooSmall      = errors.New("carrier too small to contain a hidden message")
	ErrInvalidLengthHeader  = errors.New("invalid message length detected")
	ErrLengthExceedsCarrier = errors.New("message length exceeds file size")
	ErrNoMessage            = errors.New("no hidden message found in file")
)

// MessageTooLargeError is returned by Embed before the carrier is touched
// when the message exceeds MaxMessageSize.
type MessageTooLargeError struct {
	Size int
	Max  int
}

func (e *MessageTooLargeError) Error() string {
	return fmt.Sprintf("message too large: %d characters, maximum is %d", e.Size, e.Max)
}

func (e *MessageTooLargeError) Is(target error) bool { return target == ErrMessageTooLarge }

// CapacityExceededError reports the carrier size an embed would need.
type CapacityExceededError struct {
	Category  media.Category
	Required  int
	Available int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("message too large for this %s carrier: need %d bytes, have %d bytes",
		e.Category.Family(), e.Required, e.Available)
}

func (e *CapacityExceededError) Is(target error) bool { return target == ErrCapacityExceeded }

// CarrierTooSmallError is returned when a carrier cannot even hold the
// length header.
type CarrierTooSmallError struct {
	Category  media.Category
	Required  int
	Available int
}

func (e *CarrierTooSmallError) Error() string {
	return fmt.Sprintf("%s carrier too small to contain a hidden message: header needs %d bytes, have %d bytes",
		e.Category.Family(), e.Required, e.Available)
}

func (e *CarrierTooSmallError) Is(target error) bool { return target == ErrCarrierTooSmall }

// InvalidLengthHeaderError carries the decoded header value. The check
// behind it is a heuristic: a foreign carrier whose header bits happen to
// decode into (0, MaxMessageSize] is not detected.
type InvalidLengthHeaderError struct {
	Decoded uint32
}

func (e *InvalidLengthHeaderError) Error() string {
	return fmt.Sprintf("invalid message length detected: %d", e.Decoded)
}

func (e *InvalidLengthHeaderError) Is(target error) bool { return target == ErrInvalidLengthHeader }

// LengthExceedsCarrierError is returned when the decoded length needs more
// bytes than the carrier has.
type LengthExceedsCarrierError struct {
	Decoded   uint32
	Required  int
	Available int
}

func (e *LengthExceedsCarrierError) Error() string {
	return fmt.Sprintf("message length exceeds file size: needs %d bytes, have %d bytes", e.Required, e.Available)
}

func (e *LengthExceedsCarrierError) Is(target error) bool { return target == ErrLengthExceedsCarrier }

// IsNoMessage reports whether err means the carrier holds no readable
// message, as opposed to a usage error such as an unsupported type.
func IsNoMessage(err error) bool {
	return errors.Is(err, ErrNoMessage) ||
		errors.Is(err, ErrCarrierTooSmall) ||
		errors.Is(err, ErrInvalidLengthHeader) ||
		errors.Is(err, ErrLengthExceedsCarrier)
}
