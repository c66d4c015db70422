package storage

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"fmt"

	"github.com/san-kum/isoflow/internal/field"
)

type gridBlob struct {
	Width  int
	Height int
	Values []float64
}

func encodeGrid(g *field.Grid) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	blob := gridBlob{Width: g.Width(), Height: g.Height(), Values: g.Samples()}
	if err := gob.NewEncoder(zw).Encode(blob); err != nil {
		return nil, fmt.Errorf("storage: encode grid: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("storage: compress grid: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeGrid(data []byte) (*field.Grid, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("storage: decompress grid: %w", err)
	}
	defer zr.Close()

	var blob gridBlob
	if err := gob.NewDecoder(zr).Decode(&blob); err != nil {
		return nil, fmt.Errorf("storage: decode grid: %w", err)
	}
	return field.FromValues(blob.Width, blob.Height, blob.Values)
}
