package storage

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zstd"
)

// CompressWithZstd compresses data using the Zstandard algorithm.
func CompressWithZstd(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err = enc.Write(data); err != nil {
		enc.Close()
		return nil, err
	}
	if err = enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecompressWithZstd decompresses Zstandard-compressed data.
func DecompressWithZstd(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var buf bytes.Buffer
	if _, err = io.Copy(&buf, dec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
