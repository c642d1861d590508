package viz

import (
	"errors"
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/sigpath/internal/dynamo"
)

var ErrNoData = errors.New("viz: no samples to plot")

// MaxSeries bounds how many species share one chart when none are selected.
const MaxSeries = 6

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Blue, asciigraph.Red, asciigraph.Green,
	asciigraph.Yellow, asciigraph.Magenta, asciigraph.Cyan,
}

type PlotOptions struct {
	// Species selects columns by name. Empty plots the first MaxSeries.
	Species []string
	Height  int
	Width   int
	Caption string
}

// PlotTrajectory draws concentration over time for the selected species.
// names labels the state columns.
func PlotTrajectory(names []string, times []float64, states []dynamo.State, opts PlotOptions) (string, error) {
	if len(states) == 0 {
		return "", ErrNoData
	}
	cols, err := selectColumns(names, opts.Species)
	if err != nil {
		return "", err
	}

	data := make([][]float64, len(cols))
	legends := make([]string, len(cols))
	colors := make([]asciigraph.AnsiColor, len(cols))
	for i, c := range cols {
		data[i] = column(states, c)
		legends[i] = names[c]
		colors[i] = seriesColors[i%len(seriesColors)]
	}

	height := opts.Height
	if height <= 0 {
		height = 15
	}
	width := opts.Width
	if width <= 0 {
		width = 80
	}
	caption := opts.Caption
	if caption == "" && len(times) > 0 {
		caption = fmt.Sprintf("t = %g .. %g", times[0], times[len(times)-1])
	}

	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
	), nil
}

func selectColumns(names, want []string) ([]int, error) {
	if len(want) == 0 {
		n := min(len(names), MaxSeries)
		cols := make([]int, n)
		for i := range cols {
			cols[i] = i
		}
		return cols, nil
	}
	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}
	cols := make([]int, 0, len(want))
	for _, w := range want {
		i, ok := index[w]
		if !ok {
			return nil, fmt.Errorf("viz: unknown species %q", w)
		}
		cols = append(cols, i)
	}
	return cols, nil
}

func column(states []dynamo.State, slot int) []float64 {
	out := make([]float64, len(states))
	for i, x := range states {
		out[i] = x[slot]
	}
	return out
}
