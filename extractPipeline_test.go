package ouroborosstego

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/i5heu/ouroboros-stego/internal/lsb"
	"github.com/i5heu/ouroboros-stego/pkg/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripAllCategories(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	lengths := []int{1, 2, 7, 255, 1024}
	if !testing.Short() {
		lengths = append(lengths, MaxMessageSize)
	}

	for _, category := range allCategories {
		for _, n := range lengths {
			message := make([]byte, n)
			for i := range message {
				message[i] = byte(rng.Intn(256))
			}

			carrier := make([]byte, requiredFor(t, category, n)+rng.Intn(64))
			rng.Read(carrier)

			result, err := Embed(carrier, string(message), category)
			require.NoError(t, err, "%s/%d", category, n)

			got, err := Extract(result, category)
			require.NoError(t, err, "%s/%d", category, n)
			require.Equal(t, string(message), got, "%s/%d", category, n)
		}
	}
}

func TestRoundTripUTF8Bytes(t *testing.T) {
	message := "grüße, 世界 ✓"
	carrier := make([]byte, 50000)

	result, err := Embed(carrier, message, media.Video)
	require.NoError(t, err)

	got, err := Extract(result, media.Video)
	require.NoError(t, err)
	assert.Equal(t, message, got)
}

func TestExtractForeignCarrierRejected(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	const runs = 200
	rejected := 0
	for i := 0; i < runs; i++ {
		category := allCategories[i%len(allCategories)]
		carrier := make([]byte, 40000+rng.Intn(20000))
		rng.Read(carrier)

		_, err := Extract(carrier, category)
		if err == nil {
			continue
		}
		require.True(t, IsNoMessage(err), "unexpected error kind: %v", err)
		if errors.Is(err, ErrInvalidLengthHeader) {
			rejected++
		}
	}
	// A random header decodes into (0, 65536] with probability ~1.5e-5.
	assert.GreaterOrEqual(t, rejected, runs-2)
}

func TestExtractInvalidLengthHeader(t *testing.T) {
	carrier := make([]byte, 20000)

	_, err := Extract(carrier, media.Image)
	var invalid *InvalidLengthHeaderError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, uint32(0), invalid.Decoded)
	assert.True(t, IsNoMessage(err))

	require.NoError(t, lsb.EncodeLength(carrier, 10240, 1, MaxMessageSize+1))
	_, err = Extract(carrier, media.Image)
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, uint32(MaxMessageSize+1), invalid.Decoded)

	require.NoError(t, lsb.EncodeLength(carrier, 10240, 1, 0xFFFFFFFF))
	_, err = Extract(carrier, media.Image)
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, uint32(0xFFFFFFFF), invalid.Decoded)
	assert.Contains(t, err.Error(), "4294967295")
}

func TestExtractCarrierTooSmall(t *testing.T) {
	for _, category := range allCategories {
		p, err := PolicyFor(category)
		require.NoError(t, err)
		headerEnd := lsb.HeaderEnd(p.Offset, p.Stride)

		_, err = Extract(make([]byte, headerEnd-1), category)
		var small *CarrierTooSmallError
		require.True(t, errors.As(err, &small), category.String())
		assert.Equal(t, headerEnd, small.Required)
		assert.True(t, IsNoMessage(err))

		_, err = Extract(nil, category)
		assert.ErrorIs(t, err, ErrCarrierTooSmall)

		// Exactly a header: gets past the size check to the length check.
		_, err = Extract(make([]byte, headerEnd), category)
		assert.ErrorIs(t, err, ErrInvalidLengthHeader, category.String())
	}
}

func TestExtractLengthExceedsCarrier(t *testing.T) {
	full, err := Embed(make([]byte, 20000), "hi", media.Image)
	require.NoError(t, err)

	truncated := full[:10280]
	_, err = Extract(truncated, media.Image)
	var exceeds *LengthExceedsCarrierError
	require.True(t, errors.As(err, &exceeds))
	assert.Equal(t, uint32(2), exceeds.Decoded)
	assert.Equal(t, 10288, exceeds.Required)
	assert.Equal(t, 10280, exceeds.Available)
	assert.True(t, IsNoMessage(err))
}

func TestRecoverTruncatedCarrier(t *testing.T) {
	full, err := Embed(make([]byte, 20000), "hi", media.Image)
	require.NoError(t, err)

	r, err := Recover(full[:10280], media.Image)
	require.NoError(t, err)
	assert.True(t, r.Truncated)
	assert.Equal(t, 2, r.Declared)
	assert.Less(t, len(r.Message), 2)
	assert.Equal(t, "h", r.Message)

	r, err = Recover(full, media.Image)
	require.NoError(t, err)
	assert.False(t, r.Truncated)
	assert.Equal(t, "hi", r.Message)

	r, err = Recover(full[:10272], media.Image)
	require.NoError(t, err)
	assert.True(t, r.Truncated)
	assert.Empty(t, r.Message)

	_, err = Recover(full[:100], media.Image)
	assert.ErrorIs(t, err, ErrCarrierTooSmall)

	_, err = Recover(full, media.Unknown)
	assert.ErrorIs(t, err, ErrUnsupportedCategory)
}

func TestExtractBlankMessageIsNotCodecError(t *testing.T) {
	result, err := Embed(make([]byte, 20000), strings.Repeat(" ", 4), media.Image)
	require.NoError(t, err)

	message, err := Extract(result, media.Image)
	require.NoError(t, err)
	assert.Equal(t, "    ", message)
}

func TestExtractUnsupported(t *testing.T) {
	_, err := ExtractMIME(make([]byte, 20000), "text/plain")
	assert.ErrorIs(t, err, ErrUnsupportedCategory)
	assert.False(t, IsNoMessage(err))

	_, err = Extract(make([]byte, 20000), media.Category(99))
	assert.ErrorIs(t, err, ErrUnsupportedCategory)
}
