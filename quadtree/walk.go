package quadtree

func (qt *QuadTree) Boundary() Rectangle { return qt.boundary }
func (qt *QuadTree) Capacity() int       { return qt.capacity }
func (qt *QuadTree) Divided() bool       { return qt.divided }

// Points returns a copy of the points stored directly in this node.
func (qt *QuadTree) Points() []Point {
	out := make([]Point, len(qt.points))
	copy(out, qt.points)
	return out
}

// Children returns the four quadrants, all nil while the node is undivided.
func (qt *QuadTree) Children() (nw, ne, sw, se *QuadTree) {
	return qt.nw, qt.ne, qt.sw, qt.se
}

// Walk visits every node in pre-order (self, NW, NE, SW, SE). The root has
// depth 0. Returning false from fn skips the node's children.
func (qt *QuadTree) Walk(fn func(node *QuadTree, depth int) bool) {
	qt.walk(fn, 0)
}

func (qt *QuadTree) walk(fn func(node *QuadTree, depth int) bool, depth int) {
	if !fn(qt, depth) || !qt.divided {
		return
	}
	qt.nw.walk(fn, depth+1)
	qt.ne.walk(fn, depth+1)
	qt.sw.walk(fn, depth+1)
	qt.se.walk(fn, depth+1)
}

// Depth returns the depth of the deepest node, 0 for an undivided root.
func (qt *QuadTree) Depth() int {
	deepest := 0
	qt.Walk(func(_ *QuadTree, depth int) bool {
		if depth > deepest {
			deepest = depth
		}
		return true
	})
	return deepest
}
