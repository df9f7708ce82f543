package quadtree

import "github.com/paulmach/orb"

// Rectangle is an axis-aligned region described by its center and half-extents.
// Width and Height are HALF of the full dimensions.
//
// Negative half-extents are accepted and produce an inverted rectangle
// that contains no points.
type Rectangle struct {
	center        Point
	width, height float64

	west, east   float64
	north, south float64
}

// NewRectangle builds a rectangle from its center and half-extents.
func NewRectangle(center Point, width, height float64) Rectangle {
	return Rectangle{
		center: center,
		width:  width,
		height: height,
		west:   center.X - width,
		east:   center.X + width,
		north:  center.Y - height,
		south:  center.Y + height,
	}
}

func (r Rectangle) Center() Point   { return r.center }
func (r Rectangle) Width() float64  { return r.width }
func (r Rectangle) Height() float64 { return r.height }
func (r Rectangle) West() float64   { return r.west }
func (r Rectangle) East() float64   { return r.east }
func (r Rectangle) North() float64  { return r.north }
func (r Rectangle) South() float64  { return r.south }

// ContainsPoint uses half-open intervals: a point on the east or south
// edge belongs to the neighbouring region.
func (r Rectangle) ContainsPoint(p Point) bool {
	return r.west <= p.X && p.X < r.east &&
		r.north <= p.Y && p.Y < r.south
}

// Intersects reports whether r and other overlap. Rectangles that only
// touch along an edge count as intersecting.
func (r Rectangle) Intersects(other Rectangle) bool {
	return !(other.west > r.east ||
		other.east < r.west ||
		other.north > r.south ||
		other.south < r.north)
}

// Bound returns the rectangle as an orb bound, with north as the min Y.
func (r Rectangle) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{r.west, r.north},
		Max: orb.Point{r.east, r.south},
	}
}
