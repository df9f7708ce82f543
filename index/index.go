// Package index wraps a quadtree with a single writer lock so it can be
// shared between goroutines: one writer at a time, any number of readers.
package index

import (
	"log/slog"
	"math"
	"sync"

	"github.com/royalcat/rquadtree/quadtree"
)

const defaultSearchRadius float64 = 10

type Index struct {
	mu   sync.RWMutex
	tree *quadtree.QuadTree

	searchRadius float64
	logger       *slog.Logger
}

func New(boundary quadtree.Rectangle, opts ...Option) *Index {
	options := loadOptions(opts...)
	options.logger.Debug("Initializing index", "capacity", options.capacity)

	return &Index{
		tree:         quadtree.New(boundary, options.capacity),
		searchRadius: options.searchRadius,
		logger:       options.logger,
	}
}

func (idx *Index) Boundary() quadtree.Rectangle {
	// boundary never changes after New
	return idx.tree.Boundary()
}

func (idx *Index) Insert(p quadtree.Point) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	return idx.tree.Insert(p)
}

// InsertAll inserts points under one lock and reports how many the tree
// rejected.
func (idx *Index) InsertAll(points []quadtree.Point) (inserted, rejected int) {
	inserted, rejected = idx.insertAll(points)

	if rejected > 0 {
		b := idx.tree.Boundary()
		idx.logger.Warn("Points rejected by index",
			"rejected", rejected,
			"inserted", inserted,
			"west", b.West(), "east", b.East(), "north", b.North(), "south", b.South(),
		)
	}

	return inserted, rejected
}

func (idx *Index) insertAll(points []quadtree.Point) (inserted, rejected int) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, p := range points {
		if idx.tree.Insert(p) {
			inserted++
		} else {
			rejected++
		}
	}
	return inserted, rejected
}

func (idx *Index) QueryRange(r quadtree.Rectangle) []quadtree.Point {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.tree.QueryRange(r)
}

func (idx *Index) QueryRadius(center quadtree.Point, radius float64) []quadtree.Point {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.tree.QueryRadius(quadtree.NewRadiusQuery(center, radius))
}

// Nearest returns the closest point within radius of center. A zero radius
// uses the index search radius.
func (idx *Index) Nearest(center quadtree.Point, radius float64) (quadtree.Point, bool) {
	if radius == 0 {
		radius = idx.searchRadius
	}

	var nearest quadtree.Point
	nearestDist := math.Inf(1)
	for _, p := range idx.QueryRadius(center, radius) {
		dist := p.DistanceToCenter(center)
		if dist < nearestDist {
			nearest = p
			nearestDist = dist
		}
	}

	if math.IsInf(nearestDist, 1) {
		return quadtree.Point{}, false
	}
	return nearest, true
}

func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.tree.Count()
}

func (idx *Index) Depth() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.tree.Depth()
}

// View calls fn with the underlying tree while holding the read lock.
// fn must not keep the tree or call Insert on it.
func (idx *Index) View(fn func(tree *quadtree.QuadTree)) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	fn(idx.tree)
}
