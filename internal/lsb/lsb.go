// Package lsb reads and writes single bits in the least significant bit of
// carrier bytes at a fixed stride.
//
// Layout for a carrier with offset o and stride s:
//
//	o + i*s            i = 0..31      length header, bit i weighs 2^i
//	o + 32*s + j*s     j = 0..8n-1    payload, 8 bits per byte, MSB first
package lsb

import (
	"errors"
	"fmt"
)

// HeaderBits is the number of carrier bytes that hold the length header.
const HeaderBits = 32

// BitsPerByte is the number of carrier bytes used per payload byte.
const BitsPerByte = 8

// ErrShortCarrier is returned when a computed bit position lies outside the
// carrier.
var ErrShortCarrier = errors.New("carrier too short")

// SetBit stores bit (0 or 1) in the LSB of b, leaving the other bits alone.
func SetBit(b byte, bit byte) byte {
	if bit&1 == 1 {
		return b | 1
	}
	return b & 0xFE
}

// Bit returns the LSB of b.
func Bit(b byte) byte {
	return b & 1
}

// HeaderEnd is the first byte index after the length header.
func HeaderEnd(offset, stride int) int {
	return offset + HeaderBits*stride
}

// Required is the carrier size needed to hold a header and n payload bytes.
func Required(offset, stride, n int) int {
	return HeaderEnd(offset, stride) + BitsPerByte*n*stride
}

// EncodeLength writes length into the header region of dst. Bytes whose LSB
// already matches are left untouched.
func EncodeLength(dst []byte, offset, stride int, length uint32) error {
	if len(dst) < HeaderEnd(offset, stride) {
		return fmt.Errorf("%w: header needs %d bytes, have %d", ErrShortCarrier, HeaderEnd(offset, stride), len(dst))
	}
	for i := 0; i < HeaderBits; i++ {
		bit := byte(length>>i) & 1
		pos := offset + i*stride
		if Bit(dst[pos]) != bit {
			dst[pos] = SetBit(dst[pos], bit)
		}
	}
	return nil
}

// DecodeLength reads the header region of src.
func DecodeLength(src []byte, offset, stride int) (uint32, error) {
	if len(src) < HeaderEnd(offset, stride) {
		return 0, fmt.Errorf("%w: header needs %d bytes, have %d", ErrShortCarrier, HeaderEnd(offset, stride), len(src))
	}
	var length uint32
	for i := 0; i < HeaderBits; i++ {
		length |= uint32(Bit(src[offset+i*stride])) << i
	}
	return length, nil
}

// EncodePayload writes payload right after the header region of dst. It
// fails without writing anything when the last bit would fall outside dst.
func EncodePayload(dst []byte, offset, stride int, payload []byte) error {
	if len(payload) == 0 {
		return nil
	}
	start := HeaderEnd(offset, stride)
	last := start + (BitsPerByte*len(payload)-1)*stride
	if last >= len(dst) {
		return fmt.Errorf("%w: payload bit at byte %d, carrier has %d bytes", ErrShortCarrier, last, len(dst))
	}

	pos := start
	for _, c := range payload {
		for b := 7; b >= 0; b-- {
			bit := (c >> b) & 1
			if Bit(dst[pos]) != bit {
				dst[pos] = SetBit(dst[pos], bit)
			}
			pos += stride
		}
	}
	return nil
}

// DecodePayload reads up to n payload bytes following the header region of
// src. If src ends early it stops at the last complete byte and returns a
// shorter result; callers must compare len(result) with n.
func DecodePayload(src []byte, offset, stride, n int) []byte {
	if n < 0 {
		n = 0
	}
	start := HeaderEnd(offset, stride)
	out := make([]byte, 0, n)

	pos := start
	for k := 0; k < n; k++ {
		if pos+(BitsPerByte-1)*stride >= len(src) {
			break
		}
		var c byte
		for b := 0; b < BitsPerByte; b++ {
			c = c<<1 | Bit(src[pos])
			pos += stride
		}
		out = append(out, c)
	}
	return out
}
