package index

import (
	"log/slog"

	"github.com/royalcat/rquadtree/quadtree"
)

type options struct {
	capacity     int
	searchRadius float64
	logger       *slog.Logger
}

type Option interface {
	apply(*options)
}

func loadOptions(opts ...Option) options {
	options := options{
		capacity:     quadtree.DefaultCapacity,
		searchRadius: defaultSearchRadius,
		logger:       slog.Default(),
	}
	for _, o := range opts {
		o.apply(&options)
	}
	return options
}

type capacity int

func (c capacity) apply(o *options) {
	o.capacity = int(c)
}

// Default: 4
func WithCapacity(c int) Option {
	return capacity(c)
}

type searchRadius float64

func (r searchRadius) apply(o *options) {
	o.searchRadius = float64(r)
}

// Radius used by Nearest when the caller passes zero. Default: 10
func WithSearchRadius(radius float64) Option {
	return searchRadius(radius)
}

type logger struct {
	l *slog.Logger
}

func (l logger) apply(o *options) {
	o.logger = l.l
}

func WithLogger(l *slog.Logger) Option {
	return logger{l: l}
}
