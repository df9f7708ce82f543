package index_test

import (
	"bytes"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"sync"
	"testing"

	"github.com/royalcat/rquadtree/index"
	"github.com/royalcat/rquadtree/pointsfile"
	"github.com/royalcat/rquadtree/quadtree"
	"github.com/thejerf/slogassert"
)

var domain = quadtree.NewRectangle(quadtree.Point{X: 300, Y: 200}, 300, 200)

func TestInsertAllLogsRejected(t *testing.T) {
	handler := slogassert.New(t, slog.LevelWarn, nil)
	idx := index.New(domain, index.WithLogger(slog.New(handler)))

	inserted, rejected := idx.InsertAll([]quadtree.Point{
		{X: 10, Y: 10},
		{X: 600, Y: 10}, // east edge
		{X: 20, Y: 20},
		{X: -1, Y: 300},
	})
	if inserted != 2 || rejected != 2 {
		t.Fatalf("expected 2 inserted and 2 rejected, got %d and %d", inserted, rejected)
	}
	handler.AssertSomeMessage("Points rejected by index")

	inserted, rejected = idx.InsertAll([]quadtree.Point{{X: 30, Y: 30}})
	if inserted != 1 || rejected != 0 {
		t.Fatalf("expected 1 inserted, got %d, %d", inserted, rejected)
	}
	handler.AssertEmpty()

	if idx.Count() != 3 {
		t.Fatalf("expected 3 points, got %d", idx.Count())
	}
}

func TestInsertAllDuplicateFlood(t *testing.T) {
	handler := slogassert.New(t, slog.LevelWarn, nil)
	idx := index.New(domain, index.WithLogger(slog.New(handler)))

	points := make([]quadtree.Point, 2000)
	for i := range points {
		points[i] = quadtree.Point{X: 123.456, Y: 78.9}
	}

	inserted, rejected := idx.InsertAll(points)
	if inserted+rejected != len(points) || rejected == 0 {
		t.Fatalf("expected some duplicates rejected, got %d inserted and %d rejected", inserted, rejected)
	}
	handler.AssertSomeMessage("Points rejected by index")

	// write lock released
	if !idx.Insert(quadtree.Point{X: 500, Y: 300}) {
		t.Fatalf("insert after flood failed")
	}
	if idx.Count() != inserted+1 {
		t.Fatalf("expected %d points, got %d", inserted+1, idx.Count())
	}
}

func TestNearest(t *testing.T) {
	idx := index.New(domain, index.WithSearchRadius(5))
	for _, p := range []quadtree.Point{{X: 100, Y: 100}, {X: 103, Y: 100}, {X: 110, Y: 100}} {
		if !idx.Insert(p) {
			t.Fatalf("insert %v failed", p)
		}
	}

	p, ok := idx.Nearest(quadtree.Point{X: 102, Y: 100}, 0)
	if !ok || p != (quadtree.Point{X: 103, Y: 100}) {
		t.Fatalf("expected (103,100), got %v %v", p, ok)
	}

	if _, ok := idx.Nearest(quadtree.Point{X: 120, Y: 100}, 0); ok {
		t.Fatalf("expected nothing within default radius")
	}

	p, ok = idx.Nearest(quadtree.Point{X: 120, Y: 100}, 15)
	if !ok || p != (quadtree.Point{X: 110, Y: 100}) {
		t.Fatalf("expected (110,100), got %v %v", p, ok)
	}
}

func TestConcurrentReaders(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	idx := index.New(domain, index.WithCapacity(8))

	points := make([]quadtree.Point, 5000)
	for i := range points {
		points[i] = quadtree.Point{X: rnd.Float64() * 600, Y: rnd.Float64() * 400}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for _, p := range points {
			idx.Insert(p)
		}
	}()
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				idx.QueryRadius(quadtree.Point{X: 300, Y: 200}, 50)
				idx.Count()
			}
		}()
	}
	wg.Wait()

	if idx.Count() != len(points) {
		t.Fatalf("expected %d points, got %d", len(points), idx.Count())
	}
	if got := idx.QueryRange(domain); len(got) != len(points) {
		t.Fatalf("range over whole domain returned %d points", len(got))
	}

	nodes := 0
	idx.View(func(tree *quadtree.QuadTree) {
		tree.Walk(func(*quadtree.QuadTree, int) bool {
			nodes++
			return true
		})
	})
	if nodes < 5 || idx.Depth() == 0 {
		t.Fatalf("expected a subdivided tree, got %d nodes", nodes)
	}
}

func TestLoad(t *testing.T) {
	points := []quadtree.Point{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 700, Y: 2}}

	var buf bytes.Buffer
	if err := pointsfile.Save(&buf, points); err != nil {
		t.Fatal(err)
	}

	handler := slogassert.New(t, slog.LevelWarn, nil)
	idx, err := index.Load(&buf, domain, index.WithLogger(slog.New(handler)))
	if err != nil {
		t.Fatal(err)
	}
	handler.AssertSomeMessage("Points rejected by index")
	if idx.Count() != 2 {
		t.Fatalf("expected 2 points, got %d", idx.Count())
	}

	file := filepath.Join(t.TempDir(), "points.rqt.zst")
	if err := pointsfile.SaveFile(file, points[:2]); err != nil {
		t.Fatal(err)
	}
	idx, err = index.LoadFile(file, domain, index.WithLogger(slog.New(handler)))
	if err != nil {
		t.Fatal(err)
	}
	if idx.Count() != 2 {
		t.Fatalf("expected 2 points, got %d", idx.Count())
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := index.LoadFile(filepath.Join(t.TempDir(), "missing.rqt"), domain)
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}
