package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ouroborosstego "github.com/i5heu/ouroboros-stego"
)

func TestInspectArchive(t *testing.T) {
	dir := t.TempDir()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s, err := ouroborosstego.Init(&ouroborosstego.Config{ArchivePath: dir, Logger: logger})
	require.NoError(t, err)

	_, imageKey, err := s.Embed(make([]byte, 20000), "one", "image/png")
	require.NoError(t, err)
	_, _, err = s.Embed(make([]byte, 20000), "two", "audio/wav")
	require.NoError(t, err)
	_, _, err = s.Embed(make([]byte, 20001), "three", "image/gif")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	var out bytes.Buffer
	require.NoError(t, inspect(inspectOptions{path: dir}, &out))
	assert.Contains(t, out.String(), "Entries: 3")
	assert.Contains(t, out.String(), "Carrier bytes: 60001")
	assert.Contains(t, out.String(), "  image: 2")
	assert.Contains(t, out.String(), "  audio(wav): 1")
	assert.NotContains(t, out.String(), "Listing")

	out.Reset()
	require.NoError(t, inspect(inspectOptions{path: dir, showKeys: true, limit: 2}, &out))
	assert.Contains(t, out.String(), "Listing first 2 keys:")

	out.Reset()
	require.NoError(t, inspect(inspectOptions{path: dir, showKeys: true}, &out))
	assert.Contains(t, out.String(), "Listing 3 keys:")
	assert.Contains(t, out.String(), imageKey.String())
}

func TestInspectEmptyArchive(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, inspect(inspectOptions{path: t.TempDir(), showKeys: true, limit: 5}, &out))
	assert.Contains(t, out.String(), "Entries: 0")
	assert.Contains(t, out.String(), "(no entries)")
}
