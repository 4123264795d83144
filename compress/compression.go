// Package compress provides optional compression of serialized event
// payloads before they are handed to an eventlog.Log, adapted from the
// teacher's cqrsx/v2 compression helpers.
package compress

import (
	"bytes"
	"compress/gzip"
	"io"

	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
)

// Algorithm names a supported compressor. None is always valid, and the
// zero value "" is treated exactly like None, matching events small enough
// that compression would add overhead rather than save bytes.
type Algorithm string

const (
	None Algorithm = "none"
	Gzip Algorithm = "gzip"
	LZ4  Algorithm = "lz4"
)

// MinSize is the smallest payload worth compressing; below this the framing
// overhead of either algorithm outweighs the saving.
const MinSize = 512

// Compress applies algo to data. None returns data unchanged.
func Compress(algo Algorithm, data []byte) ([]byte, error) {
	switch algo {
	case None, "":
		return data, nil
	case Gzip:
		return compressGzip(data)
	case LZ4:
		return compressLZ4(data)
	default:
		return nil, errors.Errorf("compress: unknown algorithm %q", algo)
	}
}

// Decompress reverses Compress.
func Decompress(algo Algorithm, data []byte) ([]byte, error) {
	switch algo {
	case None, "":
		return data, nil
	case Gzip:
		return decompressGzip(data)
	case LZ4:
		return decompressLZ4(data)
	default:
		return nil, errors.Errorf("compress: unknown algorithm %q", algo)
	}
}

// Choose picks an algorithm for data given a preferred algorithm and
// MinSize: small payloads are left uncompressed regardless of preference.
func Choose(preferred Algorithm, data []byte) Algorithm {
	if len(data) < MinSize {
		return None
	}
	return preferred
}

func compressGzip(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, errors.Wrap(err, "compress: gzip write")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "compress: gzip close")
	}
	return buf.Bytes(), nil
}

func decompressGzip(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "compress: gzip reader")
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "compress: gzip read")
	}
	return out, nil
}

func compressLZ4(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, errors.Wrap(err, "compress: lz4 write")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "compress: lz4 close")
	}
	return buf.Bytes(), nil
}

func decompressLZ4(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	r := lz4.NewReader(bytes.NewReader(data))
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "compress: lz4 read")
	}
	return out, nil
}
