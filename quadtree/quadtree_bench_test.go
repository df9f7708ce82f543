package quadtree_test

import (
	"math/rand/v2"
	"testing"

	"github.com/royalcat/rquadtree/quadtree"
)

func BenchmarkQuadTree(b *testing.B) {
	boundary := quadtree.NewRectangle(quadtree.Point{X: 300, Y: 200}, 300, 200)
	points := randomPoints(rand.New(rand.NewPCG(1, 1)), 100_000, boundary)

	b.Run("Insert", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			qt := quadtree.New(boundary, quadtree.DefaultCapacity)
			for _, p := range points {
				qt.Insert(p)
			}
		}
	})

	qt := buildTree(b, boundary, quadtree.DefaultCapacity, points)

	b.Run("QueryRange", func(b *testing.B) {
		r := quadtree.NewRectangle(quadtree.Point{X: 300, Y: 200}, 25, 25)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			qt.QueryRange(r)
		}
	})

	b.Run("QueryRadius", func(b *testing.B) {
		q := quadtree.NewRadiusQuery(quadtree.Point{X: 300, Y: 200}, 25)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			qt.QueryRadius(q)
		}
	})

	b.Run("Count", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			qt.Count()
		}
	})
}
