package quadtree

import (
	"math"

	"github.com/paulmach/orb"
)

// Point is an immutable 2D coordinate.
type Point struct {
	X, Y float64
}

// DistanceToCenter returns the Euclidean distance from p to center.
func (p Point) DistanceToCenter(center Point) float64 {
	dx := center.X - p.X
	dy := center.Y - p.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func (p Point) Orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

func FromOrb(p orb.Point) Point {
	return Point{X: p.X(), Y: p.Y()}
}
