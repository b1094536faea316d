package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v3"
)

const (
	widthsKey     = "width"
	depthsKey     = "depth"
	listenersKey  = "listeners"
	iterationsKey = "iterations"
	reportKey     = "report"
)

func main() {
	cmd := &cli.Command{
		Name:  "hubbench",
		Usage: "Benchmark hub propagation",
		Commands: []*cli.Command{
			{
				Name:  "propagate",
				Usage: "Time source updates through chains of computed hubs",
				Flags: []cli.Flag{
					&cli.IntSliceFlag{
						Name:  widthsKey,
						Usage: "Number of independent chains",
						Value: []int64{1, 10, 100},
					},
					&cli.IntSliceFlag{
						Name:  depthsKey,
						Usage: "Computed hubs per chain",
						Value: []int64{1, 10, 100},
					},
					iterationsFlag(),
					reportFlag(),
				},
				Action: propagate,
			},
			{
				Name:  "fanout",
				Usage: "Measure notification throughput to many listeners",
				Flags: []cli.Flag{
					&cli.IntSliceFlag{
						Name:  listenersKey,
						Usage: "Listeners attached to one hub",
						Value: []int64{1, 100, 10_000},
					},
					iterationsFlag(),
					reportFlag(),
				},
				Action: fanout,
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func iterationsFlag() cli.Flag {
	return &cli.IntFlag{
		Name:  iterationsKey,
		Usage: "Updates per configuration",
		Value: 100,
	}
}

func reportFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  reportKey,
		Usage: "Also write an HTML report to this path",
	}
}

func timed(name string) func() {
	start := time.Now()
	log.Printf("%s started", name)
	return func() {
		log.Printf("%s finished in %v", name, time.Since(start))
	}
}
