package pointsfile_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/royalcat/rquadtree/pointsfile"
	"github.com/royalcat/rquadtree/quadtree"
)

func testPoints(n int) []quadtree.Point {
	points := make([]quadtree.Point, n)
	for i := range points {
		points[i] = quadtree.Point{X: float64(i) / 7, Y: float64(i) / -13}
	}
	return points
}

func TestSaveLoad(t *testing.T) {
	// more than one chunk
	points := testPoints(2503)

	var buf bytes.Buffer
	if err := pointsfile.Save(&buf, points); err != nil {
		t.Fatal(err)
	}

	loaded, meta, err := pointsfile.Load(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(points, loaded) {
		t.Fatalf("loaded points differ from saved")
	}
	if meta.Count != uint64(len(points)) {
		t.Fatalf("expected count %d, got %d", len(points), meta.Count)
	}
	if time.Since(meta.DateCreated) > time.Hour {
		t.Fatalf("unexpected creation date %v", meta.DateCreated)
	}
}

func TestSaveLoadEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := pointsfile.Save(&buf, nil); err != nil {
		t.Fatal(err)
	}
	loaded, _, err := pointsfile.Load(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected no points, got %d", len(loaded))
	}
}

func TestSaveLoadFile(t *testing.T) {
	points := testPoints(1500)
	dir := t.TempDir()

	for _, name := range []string{"points.rqt", "points.rqt.zst"} {
		t.Run(name, func(t *testing.T) {
			file := filepath.Join(dir, name)
			if err := pointsfile.SaveFile(file, points); err != nil {
				t.Fatal(err)
			}
			loaded, _, err := pointsfile.LoadFile(file)
			if err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(points, loaded) {
				t.Fatalf("loaded points differ from saved")
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	if _, _, err := pointsfile.Load(bytes.NewReader([]byte("nope, not points"))); !errors.Is(err, pointsfile.ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}

	var buf bytes.Buffer
	buf.Write(pointsfile.MAGIC_BYTES)
	binary.Write(&buf, binary.LittleEndian, uint32(99))
	if _, _, err := pointsfile.Load(&buf); !errors.Is(err, pointsfile.ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}

	buf.Reset()
	if err := pointsfile.Save(&buf, testPoints(10)); err != nil {
		t.Fatal(err)
	}
	truncated := buf.Bytes()[:buf.Len()-8]
	if _, _, err := pointsfile.Load(bytes.NewReader(truncated)); err == nil {
		t.Fatalf("expected error for truncated file")
	}
}
