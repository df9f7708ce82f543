package pointsfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/royalcat/rquadtree/quadtree"
)

func Save(w io.Writer, points []quadtree.Point) error {
	_, err := w.Write(MAGIC_BYTES)
	if err != nil {
		return err
	}

	err = binary.Write(w, binary.LittleEndian, COMPATIBILITY_LEVEL)
	if err != nil {
		return err
	}

	err = binary.Write(w, binary.LittleEndian, header{
		Count:       uint64(len(points)),
		DateCreated: time.Now().Unix(),
	})
	if err != nil {
		return err
	}

	chunk := make([]float64, 0, 2*pointsChunkSize)
	for i := 0; i < len(points); i += pointsChunkSize {
		end := min(i+pointsChunkSize, len(points))

		chunk = chunk[:0]
		for _, p := range points[i:end] {
			chunk = append(chunk, p.X, p.Y)
		}

		err = binary.Write(w, binary.LittleEndian, chunk)
		if err != nil {
			return err
		}
	}

	return nil
}

// SaveFile writes points to name, compressing with zstd when name ends in ".zst".
func SaveFile(name string, points []quadtree.Point) (err error) {
	file, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("can`t create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	var w io.Writer = file
	var enc *zstd.Encoder
	if strings.HasSuffix(name, ".zst") {
		enc, err = zstd.NewWriter(file)
		if err != nil {
			return fmt.Errorf("can`t create zstd writer: %w", err)
		}
		w = enc
	}

	buf := bufio.NewWriter(w)
	err = Save(buf, points)
	if err != nil {
		return fmt.Errorf("error saving points: %w", err)
	}
	err = buf.Flush()
	if err != nil {
		return err
	}

	if enc != nil {
		return enc.Close()
	}
	return nil
}
