package quadtree

// RadiusQuery selects points within Radius of Center. Range is the
// bounding box used to prune quadrants and pre-filter points before the
// exact distance check.
type RadiusQuery struct {
	Range  Rectangle
	Center Point
	Radius float64
}

// NewRadiusQuery builds a query whose Range is the square with
// half-extents radius around center.
func NewRadiusQuery(center Point, radius float64) RadiusQuery {
	return RadiusQuery{
		Range:  NewRectangle(center, radius, radius),
		Center: center,
		Radius: radius,
	}
}
