package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/delaneyj/statehub/hub"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

type fanoutResult struct {
	kind          string
	listeners     int64
	iterations    int64
	notifications int64
	duration      time.Duration
}

func (r fanoutResult) row() []string {
	rate := float64(r.notifications) / r.duration.Seconds()
	return []string{
		r.kind,
		humanize.Comma(r.listeners),
		humanize.Comma(r.iterations),
		humanize.Comma(r.notifications),
		fmt.Sprint(r.duration),
		humanize.SI(rate, "n/s"),
	}
}

func fanout(ctx context.Context, cmd *cli.Command) error {
	defer timed("fanout")()

	iters := cmd.Int(iterationsKey)
	if iters <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", iters)
	}

	header := []string{"kind", "listeners", "updates", "notifications", "time", "rate"}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)

	var rows [][]string
	for _, n := range cmd.IntSlice(listenersKey) {
		for _, run := range []func(context.Context, int64, int64) (fanoutResult, error){fanoutHub, fanoutPromise} {
			res, err := run(ctx, n, iters)
			if err != nil {
				return err
			}
			row := res.row()
			table.Append(row)
			rows = append(rows, row)
		}
	}
	table.Render()

	return writeReport(cmd.String(reportKey), "Listener fan-out", header, rows)
}

func fanoutHub(_ context.Context, listeners, iters int64) (fanoutResult, error) {
	h := hub.New(0, hub.WithName("fanout"))
	var notified atomic.Int64
	for i := int64(0); i < listeners; i++ {
		h.Subscribe(func(int) { notified.Add(1) })
	}

	start := time.Now()
	for i := int64(0); i < iters; i++ {
		if err := h.SetState(int(i)); err != nil {
			return fanoutResult{}, err
		}
	}
	res := fanoutResult{
		kind:          "hub",
		listeners:     listeners,
		iterations:    iters,
		notifications: notified.Load(),
		duration:      time.Since(start),
	}
	if want := listeners * iters; res.notifications != want {
		return res, fmt.Errorf("hub fanout: got %d notifications, want %d", res.notifications, want)
	}
	return res, nil
}

func fanoutPromise(ctx context.Context, listeners, iters int64) (fanoutResult, error) {
	p := hub.NewPromise(0, func(_ context.Context, prev int) (int, error) {
		return prev + 1, nil
	}, hub.WithName("fanout-promise"))
	var notified atomic.Int64
	for i := int64(0); i < listeners; i++ {
		p.Subscribe(func(hub.Snapshot[int]) { notified.Add(1) })
	}

	start := time.Now()
	for i := int64(0); i < iters; i++ {
		if _, ok := p.ReAction(ctx); !ok {
			return fanoutResult{}, fmt.Errorf("promise fanout: invocation %d failed: %v", i, p.Err())
		}
	}
	res := fanoutResult{
		kind:          "promise",
		listeners:     listeners,
		iterations:    iters,
		notifications: notified.Load(),
		duration:      time.Since(start),
	}
	// pending, value, settled
	if want := 3 * listeners * iters; res.notifications != want {
		return res, fmt.Errorf("promise fanout: got %d notifications, want %d", res.notifications, want)
	}
	return res, nil
}
