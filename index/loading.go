package index

import (
	"fmt"
	"io"

	"github.com/royalcat/rquadtree/pointsfile"
	"github.com/royalcat/rquadtree/quadtree"
)

func Load(r io.Reader, boundary quadtree.Rectangle, opts ...Option) (*Index, error) {
	options := loadOptions(opts...)
	log := options.logger

	log.Info("Loading index points from reader")
	points, meta, err := pointsfile.Load(r)
	if err != nil {
		return nil, fmt.Errorf("error loading points: %w", err)
	}
	log.Info("Loaded points file metadata", "count", meta.Count, "date_created", meta.DateCreated)

	idx := New(boundary, opts...)
	idx.InsertAll(points)
	return idx, nil
}

func LoadFile(name string, boundary quadtree.Rectangle, opts ...Option) (*Index, error) {
	options := loadOptions(opts...)

	points, meta, err := pointsfile.LoadFile(name)
	if err != nil {
		return nil, fmt.Errorf("error loading points file: %w", err)
	}
	options.logger.Info("Loaded points file", "file", name, "count", meta.Count, "date_created", meta.DateCreated)

	idx := New(boundary, opts...)
	idx.InsertAll(points)
	return idx, nil
}
