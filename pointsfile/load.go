package pointsfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/royalcat/rquadtree/quadtree"
	"golang.org/x/exp/mmap"
)

func Load(r io.Reader) ([]quadtree.Point, Metadata, error) {
	magic := make([]byte, len(MAGIC_BYTES))
	_, err := io.ReadFull(r, magic)
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("error reading magic bytes: %w", err)
	}
	if !bytes.Equal(magic, MAGIC_BYTES) {
		return nil, Metadata{}, ErrBadMagic
	}

	var compatibilityLevel uint32
	err = binary.Read(r, binary.LittleEndian, &compatibilityLevel)
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("error reading compatibility level: %w", err)
	}

	switch compatibilityLevel {
	case COMPATIBILITY_LEVEL:
		return loadV1(r)
	}

	return nil, Metadata{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, compatibilityLevel)
}

func loadV1(r io.Reader) ([]quadtree.Point, Metadata, error) {
	var h header
	err := binary.Read(r, binary.LittleEndian, &h)
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("error reading header: %w", err)
	}
	meta := Metadata{
		Count:       h.Count,
		DateCreated: time.Unix(h.DateCreated, 0),
	}

	points := make([]quadtree.Point, 0, min(h.Count, pointsChunkSize))
	chunk := make([]float64, 2*pointsChunkSize)
	for remaining := h.Count; remaining > 0; {
		n := min(remaining, pointsChunkSize)

		err = binary.Read(r, binary.LittleEndian, chunk[:2*n])
		if err != nil {
			return nil, meta, fmt.Errorf("error reading points after %d of %d: %w", len(points), h.Count, err)
		}
		for i := uint64(0); i < n; i++ {
			points = append(points, quadtree.Point{X: chunk[2*i], Y: chunk[2*i+1]})
		}

		remaining -= n
	}

	return points, meta, nil
}

// LoadFile reads a points file. Files ending in ".zst" are decompressed,
// others are memory mapped.
func LoadFile(name string) ([]quadtree.Point, Metadata, error) {
	if strings.HasSuffix(name, ".zst") {
		file, err := os.Open(name)
		if err != nil {
			return nil, Metadata{}, fmt.Errorf("can`t open file: %w", err)
		}
		defer file.Close()

		dec, err := zstd.NewReader(file)
		if err != nil {
			return nil, Metadata{}, fmt.Errorf("can`t create zstd reader: %w", err)
		}
		defer dec.Close()

		return Load(dec)
	}

	file, err := mmap.Open(name)
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("can`t open file: %w", err)
	}
	defer file.Close()

	return Load(io.NewSectionReader(file, 0, int64(file.Len())))
}
