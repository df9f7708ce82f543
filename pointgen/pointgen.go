// Package pointgen produces point sets for feeding a quadtree.
package pointgen

import (
	"math/rand"

	"github.com/fogleman/poissondisc"
	"github.com/royalcat/rquadtree/quadtree"
)

// candidates per active sample, as recommended by Bridson
const poissonAttempts = 30

// Uniform returns n points spread uniformly over bound. A nil rnd uses the
// global source. It returns nil for n <= 0 or a bound with no area.
func Uniform(rnd *rand.Rand, n int, bound quadtree.Rectangle) []quadtree.Point {
	if n <= 0 || empty(bound) {
		return nil
	}

	float := rand.Float64
	if rnd != nil {
		float = rnd.Float64
	}

	width := bound.East() - bound.West()
	height := bound.South() - bound.North()

	points := make([]quadtree.Point, 0, n)
	for len(points) < n {
		p := quadtree.Point{
			X: bound.West() + float()*width,
			Y: bound.North() + float()*height,
		}
		// rounding can land exactly on the east or south edge
		if bound.ContainsPoint(p) {
			points = append(points, p)
		}
	}
	return points
}

// Poisson returns points over bound with no two closer than minDistance.
// It returns nil for a non-positive minDistance or a bound with no area.
func Poisson(rnd *rand.Rand, bound quadtree.Rectangle, minDistance float64) []quadtree.Point {
	if minDistance <= 0 || empty(bound) {
		return nil
	}

	samples := poissondisc.Sample(bound.West(), bound.North(), bound.East(), bound.South(), minDistance, poissonAttempts, rnd)

	points := make([]quadtree.Point, 0, len(samples))
	for _, s := range samples {
		p := quadtree.Point{X: s.X, Y: s.Y}
		if bound.ContainsPoint(p) {
			points = append(points, p)
		}
	}
	return points
}

// negated so NaN extents count as empty
func empty(bound quadtree.Rectangle) bool {
	return !(bound.East() > bound.West()) || !(bound.South() > bound.North())
}
