package ouroborosstego

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/i5heu/ouroboros-stego/pkg/media"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func BenchmarkEmbedExtract(b *testing.B) {
	const messageSize = 4096

	message := strings.Repeat("m", messageSize)
	for _, category := range allCategories {
		p, err := PolicyFor(category)
		require.NoError(b, err)

		carrier := make([]byte, p.Offset+32*p.Stride+8*messageSize*p.Stride)
		rand.Read(carrier)

		b.Run("Embed/"+category.String(), func(b *testing.B) {
			b.SetBytes(int64(len(carrier)))
			for n := 0; n < b.N; n++ {
				_, err := Embed(carrier, message, category)
				require.NoError(b, err)
			}
		})

		embedded, err := Embed(carrier, message, category)
		require.NoError(b, err)

		b.Run("Extract/"+category.String(), func(b *testing.B) {
			for n := 0; n < b.N; n++ {
				_, err := Extract(embedded, category)
				require.NoError(b, err)
			}
		})
	}
}

func BenchmarkStegoArchive(b *testing.B) {
	const carrierCount = 100

	carriers := make([][]byte, carrierCount)
	for i := range carriers {
		carriers[i] = make([]byte, 32*1024)
		rand.Read(carriers[i])
	}

	config := &Config{
		ArchivePath: b.TempDir(),
		Logger:      logrus.New(),
	}
	config.Logger.SetLevel(logrus.ErrorLevel)
	s, err := Init(config)
	require.NoError(b, err)
	defer s.Close()

	b.Run("EmbedAndArchive", func(b *testing.B) {
		for n := 0; n < b.N; n++ {
			_, _, err := s.Embed(carriers[n%carrierCount], "benchmark message", "image/png")
			require.NoError(b, err)
		}
	})

	keys, err := s.ArchiveKeys()
	require.NoError(b, err)
	require.NotEmpty(b, keys)

	b.Run("ReadArchived", func(b *testing.B) {
		for n := 0; n < b.N; n++ {
			_, _, err := s.ReadArchived(keys[n%len(keys)])
			require.NoError(b, err)
		}
	})

	b.Run("ValidateKey", func(b *testing.B) {
		for n := 0; n < b.N; n++ {
			require.NoError(b, s.ValidateKey(keys[n%len(keys)]))
		}
	})
}

func BenchmarkCapacity(b *testing.B) {
	for n := 0; n < b.N; n++ {
		_ = Capacity(1<<20+n, media.Video)
	}
}
