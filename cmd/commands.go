package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/royalcat/rquadtree/index"
	"github.com/royalcat/rquadtree/internal/stats"
	"github.com/royalcat/rquadtree/internal/telemetry"
	"github.com/royalcat/rquadtree/pointgen"
	"github.com/royalcat/rquadtree/pointsfile"
	"github.com/royalcat/rquadtree/quadtree"
	"github.com/royalcat/rquadtree/render"
	"github.com/royalcat/rquadtree/server"
	"github.com/sourcegraph/conc/pool"
	"github.com/urfave/cli/v3"
)

const insertChunkSize = 10_000

// domain spans [0,width) x [0,height).
func domain(ctx *cli.Context) quadtree.Rectangle {
	width := ctx.Float64("width")
	height := ctx.Float64("height")
	return quadtree.NewRectangle(quadtree.Point{X: width / 2, Y: height / 2}, width/2, height/2)
}

func generate(ctx *cli.Context) error {
	log := slog.Default()

	seed := ctx.Int64("seed")
	if !ctx.IsSet("seed") {
		seed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(seed))
	bound := domain(ctx)
	if !(bound.Width() > 0 && bound.Height() > 0) {
		return fmt.Errorf("domain must have positive width and height, got %vx%v", ctx.Float64("width"), ctx.Float64("height"))
	}

	var points []quadtree.Point
	if distance := ctx.Float64("poisson-distance"); distance > 0 {
		points = pointgen.Poisson(rnd, bound, distance)
	} else {
		count := ctx.Int("count")
		if count <= 0 {
			return fmt.Errorf("count must be positive, got %d", count)
		}
		points = pointgen.Uniform(rnd, count, bound)
	}
	log.Info("Points generated", "count", humanize.Comma(int64(len(points))), "seed", seed)

	saveFile := ctx.String("points")
	fmt.Printf("Saving to file: %s\n", saveFile)
	err := pointsfile.SaveFile(saveFile, points)
	if err != nil {
		return fmt.Errorf("failed to save points to file: %w", err)
	}

	return nil
}

func loadPoints(files []string) ([]quadtree.Point, error) {
	p := pool.NewWithResults[[]quadtree.Point]().WithErrors().WithMaxGoroutines(runtime.GOMAXPROCS(0))
	for _, file := range files {
		p.Go(func() ([]quadtree.Point, error) {
			points, meta, err := pointsfile.LoadFile(file)
			if err != nil {
				return nil, fmt.Errorf("error loading %s: %w", file, err)
			}
			slog.Info("Points file loaded", "file", file, "count", humanize.Comma(int64(meta.Count)), "date_created", meta.DateCreated)
			return points, nil
		})
	}

	loaded, err := p.Wait()
	if err != nil {
		return nil, err
	}

	total := 0
	for _, points := range loaded {
		total += len(points)
	}
	out := make([]quadtree.Point, 0, total)
	for _, points := range loaded {
		out = append(out, points...)
	}
	return out, nil
}

func buildIndex(ctx *cli.Context) (*index.Index, error) {
	points, err := loadPoints(ctx.StringSlice("points"))
	if err != nil {
		return nil, err
	}

	idx := index.New(domain(ctx), index.WithCapacity(ctx.Int("capacity")))

	bar := pb.StartNew(len(points))
	bar.Set("prefix", "building tree")
	for i := 0; i < len(points); i += insertChunkSize {
		end := min(i+insertChunkSize, len(points))
		idx.InsertAll(points[i:end])
		bar.Add(end - i)
	}
	bar.Finish()

	slog.Info("Tree built", "points", humanize.Comma(int64(idx.Count())), "depth", idx.Depth())
	return idx, nil
}

func query(ctx *cli.Context) error {
	log := slog.Default()

	if pprofListen := ctx.String("pprof.listen"); pprofListen != "" {
		go func() {
			log.Info("Starting pprof server")
			err := http.ListenAndServe(pprofListen, nil)
			if err != nil {
				log.Error("Error starting pprof server", "error", err)
			}
		}()
	}

	if ctx.Bool("pprof.profile") {
		f, err := os.OpenFile("profile.cpu.pprof", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("error creating pprof file: %w", err)
		}
		err = pprof.StartCPUProfile(f)
		if err != nil {
			return fmt.Errorf("error starting pprof: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	var collector *stats.Collector
	if ctx.String("stats") != "" {
		var err error
		collector, err = stats.NewCollector(100 * time.Millisecond)
		if err != nil {
			return err
		}
		collector.Start()
	}

	idx, err := buildIndex(ctx)
	if err != nil {
		return err
	}

	if collector != nil {
		err = writeStats(ctx.String("stats"), collector.Stop())
		if err != nil {
			return err
		}
	}

	fmt.Printf("Total points: %d\n", idx.Count())

	center := idx.Boundary().Center()
	if ctx.IsSet("center-x") {
		center.X = ctx.Float64("center-x")
	}
	if ctx.IsSet("center-y") {
		center.Y = ctx.Float64("center-y")
	}
	q := quadtree.NewRadiusQuery(center, ctx.Float64("radius"))

	found := idx.QueryRadius(q.Center, q.Radius)
	fmt.Printf("points in range: %d\n", len(found))

	if geojsonFile := ctx.String("geojson"); geojsonFile != "" {
		var data []byte
		idx.View(func(tree *quadtree.QuadTree) {
			data, err = render.Query(render.GeoJSON(tree), q.Range, found).MarshalJSON()
		})
		if err != nil {
			return fmt.Errorf("error encoding geojson: %w", err)
		}
		err = os.WriteFile(geojsonFile, data, 0644)
		if err != nil {
			return fmt.Errorf("error writing geojson: %w", err)
		}
		log.Info("GeoJSON written", "file", geojsonFile, "size", humanize.Bytes(uint64(len(data))))
	}

	return nil
}

func writeStats(name string, s stats.RuntimeStats) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("error creating stats file: %w", err)
	}
	defer f.Close()

	err = s.WriteReport(f)
	if err != nil {
		return fmt.Errorf("error writing stats: %w", err)
	}
	return f.Close()
}

func serve(ctx *cli.Context) error {
	runCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := telemetry.Setup(runCtx, "rquadtree", ctx.String("otel-endpoint"))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer client.Shutdown(context.Background())

	slog.Info("Initing index")
	idx, err := buildIndex(ctx)
	if err != nil {
		return err
	}

	return server.Run(runCtx, ctx.String("listen"), idx)
}
