package main

import (
	"log"
	"os"

	_ "net/http/pprof"

	_ "github.com/KimMachineGun/automemlimit"
	"github.com/urfave/cli/v3"
	_ "go.uber.org/automaxprocs"
)

func domainFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{
			Name:  "width",
			Usage: "full width of the domain, starting at x=0",
			Value: 600,
		},
		&cli.Float64Flag{
			Name:  "height",
			Usage: "full height of the domain, starting at y=0",
			Value: 400,
		},
	}
}

func indexFlags() []cli.Flag {
	return append(domainFlags(),
		&cli.StringSliceFlag{
			Name:      "points",
			Aliases:   []string{"p"},
			Required:  true,
			TakesFile: true,
		},
		&cli.IntFlag{
			Name:  "capacity",
			Usage: "points per node before it splits",
			Value: 4,
		},
	)
}

func main() {
	app := &cli.App{
		Name:        "rquadtree",
		Description: "Region quadtree point index",
		Commands: []*cli.Command{
			{
				Name:    "generate",
				Aliases: []string{"g"},
				Usage:   "generates a random points file",
				Flags: append(domainFlags(),
					&cli.StringFlag{
						Name:      "points",
						Aliases:   []string{"p"},
						Required:  true,
						TakesFile: true,
					},
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"n"},
						Value:   1000,
					},
					&cli.Float64Flag{
						Name:        "poisson-distance",
						Usage:       "minimum distance between points, switches to poisson disc sampling",
						DefaultText: "uniform",
					},
					&cli.Int64Flag{
						Name:        "seed",
						DefaultText: "random",
					},
				),
				Action: generate,
			},
			{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "builds a tree from points files and runs a radius query",
				Flags: append(indexFlags(),
					&cli.Float64Flag{
						Name:     "radius",
						Aliases:  []string{"r"},
						Required: true,
					},
					&cli.Float64Flag{
						Name:        "center-x",
						DefaultText: "domain center",
					},
					&cli.Float64Flag{
						Name:        "center-y",
						DefaultText: "domain center",
					},
					&cli.StringFlag{
						Name:      "geojson",
						Usage:     "write the tree and query result as GeoJSON",
						TakesFile: true,
					},
					&cli.StringFlag{
						Name:      "stats",
						Usage:     "write runtime statistics of the build",
						TakesFile: true,
					},
					&cli.StringFlag{
						Name:        "pprof.listen",
						DefaultText: "",
					},
					&cli.BoolFlag{
						Name:        "pprof.profile",
						DefaultText: "",
					},
				),
				Action: query,
			},
			{
				Name:  "serve",
				Usage: "serve a quadtree api",
				Flags: append(indexFlags(),
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
					},
					&cli.StringFlag{
						Name:  "otel-endpoint",
						Usage: "otlp http endpoint, OTEL_* environment is used when empty",
					},
				),
				Action: serve,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
