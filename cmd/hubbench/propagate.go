package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/delaneyj/statehub/cmd/hubbench/templates"
	"github.com/delaneyj/statehub/hub"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

type subscriber interface {
	Subscribe(fn func(int)) (unsubscribe func())
}

func addOne(v int) int {
	return v + 1
}

func headerRow(header []string) table.Row {
	row := make(table.Row, len(header))
	for i, h := range header {
		row[i] = h
	}
	return row
}

func propagate(ctx context.Context, cmd *cli.Command) error {
	defer timed("propagate")()

	iters := int(cmd.Int(iterationsKey))
	if iters <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", iters)
	}

	header := []string{"benchmark", "avg", "min", "p75", "p99", "max"}
	tbl := table.NewWriter()
	tbl.SetTitle("Computed hub propagation")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(headerRow(header))

	var rows [][]string
	for _, w := range cmd.IntSlice(widthsKey) {
		for _, d := range cmd.IntSlice(depthsKey) {
			calc, err := propagateOnce(int(w), int(d), iters)
			if err != nil {
				return err
			}
			name := fmt.Sprintf("propagate: %d * %d", w, d)
			tbl.AppendRow(table.Row{
				name,
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
			})
			rows = append(rows, []string{
				name,
				calc.Time.Avg.String(),
				calc.Time.Min.String(),
				calc.Time.P75.String(),
				calc.Time.P99.String(),
				calc.Time.Max.String(),
			})
		}
	}
	tbl.Render()

	return writeReport(cmd.String(reportKey), "Computed hub propagation", header, rows)
}

func propagateOnce(width, depth, iters int) (*tachymeter.Metrics, error) {
	tach := tachymeter.New(&tachymeter.Config{Size: iters})

	src := hub.New(1, hub.WithName("src"))
	sum := 0
	for i := 0; i < width; i++ {
		var last hub.Source[int] = src
		for j := 0; j < depth; j++ {
			last = hub.Derive(last, addOne)
		}
		last.(subscriber).Subscribe(func(v int) {
			sum += v
		})
	}

	for i := 0; i < iters; i++ {
		start := time.Now()
		if err := src.Update(addOne); err != nil {
			return nil, err
		}
		tach.AddTime(time.Since(start))
	}

	// every leaf sees src+depth on every update
	expected := 0
	for i := 0; i < iters; i++ {
		expected += (i + 2 + depth) * width
	}
	if sum != expected {
		return nil, fmt.Errorf("propagate %dx%d: got sum %d, want %d", width, depth, sum, expected)
	}

	return tach.Calc(), nil
}

func writeReport(path, title string, header []string, rows [][]string) error {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	templates.WriteReport(f, title, header, rows)
	return f.Close()
}
