// Package media maps caller-declared MIME types onto the carrier categories
// the codec understands and holds the fixed offset/stride table for each.
//
// The table is part of the carrier format: changing an entry makes every
// carrier embedded under the old value unreadable. Categories are derived
// from the declared MIME string only, carrier bytes are never sniffed.
package media

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupported is returned by Classify for MIME types outside image/*,
// audio/* and video/*.
var ErrUnsupported = errors.New("unsupported media type")

// Category selects the offset/stride policy used for a carrier.
type Category uint8

const (
	Unknown Category = iota
	Image
	AudioWAV
	AudioMP3
	Video
)

// Family is the coarse media kind a category belongs to. Each family has its
// own embed and extract strategy.
type Family uint8

const (
	FamilyNone Family = iota
	FamilyImage
	FamilyAudio
	FamilyVideo
)

// Policy is the fixed byte layout of a category: the index of the first
// length header bit and the distance between consecutive embedded bits.
type Policy struct {
	Offset int
	Stride int
}

var policies = [...]Policy{
	Image:    {Offset: 10240, Stride: 1},
	AudioWAV: {Offset: 4096, Stride: 4},
	AudioMP3: {Offset: 10240, Stride: 4},
	Video:    {Offset: 32768, Stride: 4},
}

// Policy returns the layout for c. ok is false only for Unknown or values
// outside the enumeration.
func (c Category) Policy() (p Policy, ok bool) {
	if !c.Valid() {
		return Policy{}, false
	}
	return policies[c], true
}

// Valid reports whether c is one of the four supported categories.
func (c Category) Valid() bool {
	switch c {
	case Image, AudioWAV, AudioMP3, Video:
		return true
	default:
		return false
	}
}

// Family returns the strategy family of c.
func (c Category) Family() Family {
	switch c {
	case Image:
		return FamilyImage
	case AudioWAV, AudioMP3:
		return FamilyAudio
	case Video:
		return FamilyVideo
	default:
		return FamilyNone
	}
}

func (c Category) String() string {
	switch c {
	case Image:
		return "image"
	case AudioWAV:
		return "audio(wav)"
	case AudioMP3:
		return "audio(mp3)"
	case Video:
		return "video"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

func (f Family) String() string {
	switch f {
	case FamilyImage:
		return "image"
	case FamilyAudio:
		return "audio"
	case FamilyVideo:
		return "video"
	default:
		return "none"
	}
}

// Audio picks the audio sub-format from a hint such as a MIME type or file
// extension: mp3 when the hint mentions "mp3", wav otherwise.
func Audio(hint string) Category {
	if strings.Contains(hint, "mp3") {
		return AudioMP3
	}
	return AudioWAV
}

// Classify derives the category from a declared MIME type using prefix
// rules only. The match is case sensitive, as browsers report MIME types in
// lower case.
func Classify(mimeType string) (Category, error) {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return Image, nil
	case strings.HasPrefix(mimeType, "audio/"):
		return Audio(mimeType), nil
	case strings.HasPrefix(mimeType, "video/"):
		return Video, nil
	default:
		return Unknown, fmt.Errorf("%w: %q", ErrUnsupported, mimeType)
	}
}

// ParseCategory parses the String form of a category, plus the short
// aliases "wav", "mp3" and "audio" (wav).
func ParseCategory(name string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "image":
		return Image, nil
	case "audio", "wav", "audio(wav)":
		return AudioWAV, nil
	case "mp3", "audio(mp3)":
		return AudioMP3, nil
	case "video":
		return Video, nil
	default:
		return Unknown, fmt.Errorf("%w: unknown category %q", ErrUnsupported, name)
	}
}
