// Package quadtree implements a region quadtree over 2D points.
//
// Each node holds up to its capacity of points and, on the first insert
// past that capacity, splits into four quadrants (NW, NE, SW, SE). Points
// stored before the split stay in the parent; queries check both the
// node's own points and its children.
//
// A QuadTree is not safe for concurrent mutation. Wrap it in an external
// lock, or build it first and only query afterwards.
package quadtree

const DefaultCapacity = 4

type QuadTree struct {
	boundary Rectangle
	capacity int
	points   []Point

	divided        bool
	nw, ne, sw, se *QuadTree
}

// New creates an empty tree over boundary. A non-positive capacity is
// replaced with DefaultCapacity.
func New(boundary Rectangle, capacity int) *QuadTree {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &QuadTree{
		boundary: boundary,
		capacity: capacity,
		points:   make([]Point, 0, capacity),
	}
}

// Insert stores p in the tree. It returns false if p is outside the
// boundary of the tree, or if no quadrant accepts it. The latter happens
// once repeated duplicates split a node below float64 resolution, or when
// a point falls into a rounding gap between two quadrant edges.
func (qt *QuadTree) Insert(p Point) bool {
	if !qt.boundary.ContainsPoint(p) {
		return false
	}

	if !qt.divided && len(qt.points) < qt.capacity {
		qt.points = append(qt.points, p)
		return true
	}

	if !qt.divided {
		qt.divide()
	}

	return qt.nw.Insert(p) || qt.ne.Insert(p) || qt.sw.Insert(p) || qt.se.Insert(p)
}

func (qt *QuadTree) divide() {
	cx := qt.boundary.center.X
	cy := qt.boundary.center.Y
	hw := qt.boundary.width / 2
	hh := qt.boundary.height / 2

	qt.nw = New(NewRectangle(Point{cx - hw, cy - hh}, hw, hh), qt.capacity)
	qt.ne = New(NewRectangle(Point{cx + hw, cy - hh}, hw, hh), qt.capacity)
	qt.sw = New(NewRectangle(Point{cx - hw, cy + hh}, hw, hh), qt.capacity)
	qt.se = New(NewRectangle(Point{cx + hw, cy + hh}, hw, hh), qt.capacity)

	qt.divided = true
}

// QueryRange returns every stored point inside r. Results are ordered
// pre-order: the node's own points in insertion order, then NW, NE, SW, SE.
func (qt *QuadTree) QueryRange(r Rectangle) []Point {
	return qt.queryRange(r, nil)
}

func (qt *QuadTree) queryRange(r Rectangle, found []Point) []Point {
	if !qt.boundary.Intersects(r) {
		return found
	}

	for _, p := range qt.points {
		if r.ContainsPoint(p) {
			found = append(found, p)
		}
	}

	if qt.divided {
		found = qt.nw.queryRange(r, found)
		found = qt.ne.queryRange(r, found)
		found = qt.sw.queryRange(r, found)
		found = qt.se.queryRange(r, found)
	}

	return found
}

// QueryRadius returns every stored point inside q.Range that is also within
// q.Radius of q.Center. Ordering matches QueryRange.
func (qt *QuadTree) QueryRadius(q RadiusQuery) []Point {
	return qt.queryRadius(q, nil)
}

func (qt *QuadTree) queryRadius(q RadiusQuery, found []Point) []Point {
	if !qt.boundary.Intersects(q.Range) {
		return found
	}

	for _, p := range qt.points {
		if q.Range.ContainsPoint(p) && p.DistanceToCenter(q.Center) <= q.Radius {
			found = append(found, p)
		}
	}

	if qt.divided {
		found = qt.nw.queryRadius(q, found)
		found = qt.ne.queryRadius(q, found)
		found = qt.sw.queryRadius(q, found)
		found = qt.se.queryRadius(q, found)
	}

	return found
}

// Count walks the whole subtree; nothing is cached.
func (qt *QuadTree) Count() int {
	count := len(qt.points)
	if qt.divided {
		count += qt.nw.Count() + qt.ne.Count() + qt.sw.Count() + qt.se.Count()
	}
	return count
}
