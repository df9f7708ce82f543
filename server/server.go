package server

import (
	"context"
	"encoding/json"
	stdlog "log"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/fasthttp/router"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/royalcat/rquadtree/index"
	"github.com/royalcat/rquadtree/quadtree"
	"github.com/royalcat/rquadtree/render"
	"github.com/sourcegraph/conc/iter"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const MaxBodySize = 32 * 1000 * 1000 // 32MB

// MaxBatchQueries caps the number of radius queries in one request.
const MaxBatchQueries = 10_000

const instrumentationName = "github.com/royalcat/rquadtree/server"

var (
	meter  = otel.Meter(instrumentationName)
	tracer = otel.Tracer(instrumentationName)
)

func Run(ctx context.Context, address string, idx *index.Index) error {
	log := slog.Default()

	s, err := newServer(idx)
	if err != nil {
		return err
	}

	server := &fasthttp.Server{
		ReadTimeout:        time.Second,
		MaxRequestBodySize: MaxBodySize,
		Handler:            s.Handler(),
	}

	go func() {
		log.Info("Server listening", "address", address)
		if err := server.ListenAndServe(address); err != nil && err != http.ErrServerClosed {
			stdlog.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Info("Server started", "points", idx.Count())

	// wait cancel
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return server.ShutdownWithContext(shutdownCtx)
}

type server struct {
	idx *index.Index

	metricPointsInserted metric.Int64Counter
	metricPointsRejected metric.Int64Counter
	metricQueryCount     metric.Int64Counter
	metricPointsFound    metric.Int64Histogram
}

func newServer(idx *index.Index) (*server, error) {
	metricPointsInserted, err := meter.Int64Counter("points_inserted_total")
	if err != nil {
		return nil, err
	}
	metricPointsRejected, err := meter.Int64Counter("points_rejected_total")
	if err != nil {
		return nil, err
	}
	metricQueryCount, err := meter.Int64Counter("query_total")
	if err != nil {
		return nil, err
	}
	metricPointsFound, err := meter.Int64Histogram("query_points_found")
	if err != nil {
		return nil, err
	}

	return &server{
		idx: idx,

		metricPointsInserted: metricPointsInserted,
		metricPointsRejected: metricPointsRejected,
		metricQueryCount:     metricQueryCount,
		metricPointsFound:    metricPointsFound,
	}, nil
}

func (s *server) Handler() fasthttp.RequestHandler {
	r := router.New()
	r.POST("/quadtree/points", s.InsertPointsHandler)
	r.GET("/quadtree/range/{x}/{y}/{w}/{h}", s.RangeHandler)
	r.GET("/quadtree/radius/{x}/{y}/{r}", s.RadiusHandler)
	r.POST("/quadtree/radius", s.RadiusBatchHandler)
	r.GET("/quadtree/nearest/{x}/{y}/{r}", s.NearestHandler)
	r.GET("/quadtree/count", s.CountHandler)
	r.GET("/quadtree/geojson", s.GeoJSONHandler)
	r.Handle(http.MethodGet, "/metrics", fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()))
	return r.Handler
}

func floatParams(ctx *fasthttp.RequestCtx, names ...string) ([]float64, bool) {
	out := make([]float64, len(names))
	for i, name := range names {
		raw, ok := ctx.UserValue(name).(string)
		if !ok {
			return nil, false
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func writeJSON(ctx *fasthttp.RequestCtx, v json.Marshaler) {
	data, err := v.MarshalJSON()
	if err != nil {
		ctx.Response.SetStatusCode(http.StatusInternalServerError)
		ctx.Response.SetBodyString("failed to marshal response")
		return
	}

	ctx.Response.SetStatusCode(http.StatusOK)
	ctx.Response.Header.SetContentType("application/json")
	ctx.Response.SetBody(data)
}

func (s *server) countQuery(ctx *fasthttp.RequestCtx, span trace.Span, kind string, found int) {
	attrs := metric.WithAttributes(attribute.String("kind", kind))
	s.metricQueryCount.Add(ctx, 1, attrs)
	s.metricPointsFound.Record(ctx, int64(found), attrs)
	span.SetAttributes(attribute.Int("found", found))
}

func (s *server) InsertPointsHandler(ctx *fasthttp.RequestCtx) {
	var points []quadtree.Point
	err := parseTuples(ctx.Request.Body(), 2, func(vals []float64) {
		points = append(points, quadtree.Point{X: vals[0], Y: vals[1]})
	})
	if err != nil {
		ctx.Response.SetStatusCode(http.StatusBadRequest)
		ctx.Response.SetBodyString("failed to parse request: " + err.Error())
		return
	}

	inserted, rejected := s.idx.InsertAll(points)
	s.metricPointsInserted.Add(ctx, int64(inserted))
	s.metricPointsRejected.Add(ctx, int64(rejected))

	writeJSON(ctx, insertResult{Inserted: inserted, Rejected: rejected})
}

func (s *server) RangeHandler(ctx *fasthttp.RequestCtx) {
	_, span := tracer.Start(ctx, "quadtree.QueryRange")
	defer span.End()

	v, ok := floatParams(ctx, "x", "y", "w", "h")
	if !ok {
		ctx.Response.SetStatusCode(http.StatusBadRequest)
		return
	}

	found := s.idx.QueryRange(quadtree.NewRectangle(quadtree.Point{X: v[0], Y: v[1]}, v[2], v[3]))
	s.countQuery(ctx, span, "range", len(found))

	writeJSON(ctx, pointList(found))
}

func (s *server) RadiusHandler(ctx *fasthttp.RequestCtx) {
	_, span := tracer.Start(ctx, "quadtree.QueryRadius")
	defer span.End()

	v, ok := floatParams(ctx, "x", "y", "r")
	if !ok {
		ctx.Response.SetStatusCode(http.StatusBadRequest)
		return
	}

	found := s.idx.QueryRadius(quadtree.Point{X: v[0], Y: v[1]}, v[2])
	s.countQuery(ctx, span, "radius", len(found))

	writeJSON(ctx, pointList(found))
}

type radiusRequest struct {
	center quadtree.Point
	radius float64
}

func (s *server) RadiusBatchHandler(ctx *fasthttp.RequestCtx) {
	_, span := tracer.Start(ctx, "quadtree.QueryRadiusBatch")
	defer span.End()

	var reqs []radiusRequest
	err := parseTuples(ctx.Request.Body(), 3, func(vals []float64) {
		reqs = append(reqs, radiusRequest{center: quadtree.Point{X: vals[0], Y: vals[1]}, radius: vals[2]})
	})
	if err != nil {
		ctx.Response.SetStatusCode(http.StatusBadRequest)
		ctx.Response.SetBodyString("failed to parse request: " + err.Error())
		return
	}
	if len(reqs) > MaxBatchQueries {
		ctx.Response.SetStatusCode(http.StatusRequestEntityTooLarge)
		ctx.Response.SetBodyString("too many queries, max " + strconv.Itoa(MaxBatchQueries))
		return
	}

	res := iter.Map(reqs, func(req *radiusRequest) pointList {
		return s.idx.QueryRadius(req.center, req.radius)
	})

	total := 0
	for _, found := range res {
		total += len(found)
	}
	span.SetAttributes(attribute.Int("queries", len(reqs)))
	s.countQuery(ctx, span, "radius_batch", total)

	writeJSON(ctx, pointLists(res))
}

func (s *server) NearestHandler(ctx *fasthttp.RequestCtx) {
	_, span := tracer.Start(ctx, "quadtree.Nearest")
	defer span.End()

	v, ok := floatParams(ctx, "x", "y", "r")
	if !ok {
		ctx.Response.SetStatusCode(http.StatusBadRequest)
		return
	}

	p, ok := s.idx.Nearest(quadtree.Point{X: v[0], Y: v[1]}, v[2])
	if !ok {
		s.countQuery(ctx, span, "nearest", 0)
		ctx.Response.SetStatusCode(http.StatusNoContent)
		return
	}
	s.countQuery(ctx, span, "nearest", 1)

	writeJSON(ctx, pointJSON(p))
}

func (s *server) CountHandler(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, countResult{Count: s.idx.Count(), Depth: s.idx.Depth()})
}

func (s *server) GeoJSONHandler(ctx *fasthttp.RequestCtx) {
	var data []byte
	var err error
	s.idx.View(func(tree *quadtree.QuadTree) {
		data, err = render.GeoJSON(tree).MarshalJSON()
	})
	if err != nil {
		ctx.Response.SetStatusCode(http.StatusInternalServerError)
		return
	}

	ctx.Response.SetStatusCode(http.StatusOK)
	ctx.Response.Header.SetContentType("application/geo+json")
	ctx.Response.SetBody(data)
}
