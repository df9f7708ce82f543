// Package render exports a quadtree's structure as GeoJSON so any map or
// plotting tool can draw node boundaries and stored points.
package render

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/royalcat/rquadtree/quadtree"
)

const (
	KindBoundary = "boundary"
	KindPoint    = "point"
	KindQuery    = "query"
	KindFound    = "found"
)

// GeoJSON returns one polygon feature per node boundary followed by the
// points stored in that node.
func GeoJSON(tree *quadtree.QuadTree) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	tree.Walk(func(node *quadtree.QuadTree, depth int) bool {
		points := node.Points()

		f := geojson.NewFeature(node.Boundary().Bound().ToPolygon())
		f.Properties["kind"] = KindBoundary
		f.Properties["depth"] = depth
		f.Properties["points"] = len(points)
		f.Properties["divided"] = node.Divided()
		fc.Append(f)

		for _, p := range points {
			pf := geojson.NewFeature(p.Orb())
			pf.Properties["kind"] = KindPoint
			pf.Properties["depth"] = depth
			fc.Append(pf)
		}
		return true
	})

	return fc
}

// Query adds a query window and the points it matched to fc.
func Query(fc *geojson.FeatureCollection, window quadtree.Rectangle, found []quadtree.Point) *geojson.FeatureCollection {
	f := geojson.NewFeature(window.Bound().ToPolygon())
	f.Properties["kind"] = KindQuery
	f.Properties["found"] = len(found)
	fc.Append(f)

	if len(found) == 0 {
		return fc
	}

	mp := make(orb.MultiPoint, 0, len(found))
	for _, p := range found {
		mp = append(mp, p.Orb())
	}
	ff := geojson.NewFeature(mp)
	ff.Properties["kind"] = KindFound
	fc.Append(ff)

	return fc
}
