package media

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyTable(t *testing.T) {
	cases := []struct {
		category Category
		offset   int
		stride   int
	}{
		{Image, 10240, 1},
		{AudioWAV, 4096, 4},
		{AudioMP3, 10240, 4},
		{Video, 32768, 4},
	}
	for _, tc := range cases {
		p, ok := tc.category.Policy()
		require.True(t, ok, tc.category.String())
		assert.Equal(t, tc.offset, p.Offset, tc.category.String())
		assert.Equal(t, tc.stride, p.Stride, tc.category.String())
	}

	_, ok := Unknown.Policy()
	assert.False(t, ok)
	_, ok = Category(42).Policy()
	assert.False(t, ok)
}

func TestClassify(t *testing.T) {
	cases := map[string]Category{
		"image/png":       Image,
		"image/jpeg":      Image,
		"audio/wav":       AudioWAV,
		"audio/x-wav":     AudioWAV,
		"audio/mp3":       AudioMP3,
		"audio/x-mp3":     AudioMP3,
		"audio/mpeg":      AudioWAV,
		"video/mp4":       Video,
		"video/quicktime": Video,
	}
	for mimeType, want := range cases {
		got, err := Classify(mimeType)
		require.NoError(t, err, mimeType)
		assert.Equal(t, want, got, mimeType)
	}

	for _, mimeType := range []string{"", "text/plain", "application/pdf", "imagepng", "IMAGE/PNG"} {
		_, err := Classify(mimeType)
		require.Error(t, err, mimeType)
		assert.True(t, errors.Is(err, ErrUnsupported), mimeType)
	}
}

func TestFamily(t *testing.T) {
	assert.Equal(t, FamilyImage, Image.Family())
	assert.Equal(t, FamilyAudio, AudioWAV.Family())
	assert.Equal(t, FamilyAudio, AudioMP3.Family())
	assert.Equal(t, FamilyVideo, Video.Family())
	assert.Equal(t, FamilyNone, Unknown.Family())
	assert.Equal(t, "audio", FamilyAudio.String())
}

func TestParseCategory(t *testing.T) {
	for _, c := range []Category{Image, AudioWAV, AudioMP3, Video} {
		parsed, err := ParseCategory(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	parsed, err := ParseCategory(" MP3 ")
	require.NoError(t, err)
	assert.Equal(t, AudioMP3, parsed)

	_, err = ParseCategory("document")
	assert.ErrorIs(t, err, ErrUnsupported)
}
