// Package export renders stored trajectories to files outside the terminal.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/san-kum/sigpath/internal/dynamo"
	"github.com/san-kum/sigpath/internal/viz"
)

var ErrNoData = errors.New("export: trajectory has fewer than two samples")

type SVGOptions struct {
	Width, Height int
	Theme         viz.Theme
	Title         string
}

func (o SVGOptions) withDefaults() SVGOptions {
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 400
	}
	if o.Theme.Name == "" {
		o.Theme = viz.CurrentTheme
	}
	return o
}

const (
	marginLeft   = 60
	marginRight  = 120
	marginTop    = 30
	marginBottom = 40
)

// TrajectorySVG draws every species' concentration over time as a polyline
// with a legend. Non-finite samples break the line.
func TrajectorySVG(w io.Writer, names []string, times []float64, states []dynamo.State, opts SVGOptions) error {
	if len(times) < 2 || len(states) < 2 {
		return ErrNoData
	}
	opts = opts.withDefaults()
	t := opts.Theme

	plotW := float64(opts.Width - marginLeft - marginRight)
	plotH := float64(opts.Height - marginTop - marginBottom)

	t0, t1 := times[0], times[len(times)-1]
	if t1 == t0 {
		t1 = t0 + 1
	}
	lo, hi := concentrationRange(states)
	pad := (hi - lo) * 0.05
	lo, hi = lo-pad, hi+pad

	px := func(v float64) float64 { return marginLeft + (v-t0)/(t1-t0)*plotW }
	py := func(v float64) float64 { return marginTop + plotH - (v-lo)/(hi-lo)*plotH }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="monospace" font-size="12">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, opts.Width, opts.Height, opts.Width, opts.Height)

	if opts.Title != "" {
		fmt.Fprintf(&sb, `<text x="%d" y="18" fill="%s">%s</text>
`, marginLeft, t.Primary, escape(opts.Title))
	}

	// axes
	fmt.Fprintf(&sb, `<g stroke="%s" fill="none"><path d="M%d,%d V%.1f H%.1f"/></g>
`, t.Muted, marginLeft, marginTop, marginTop+plotH, marginLeft+plotW)
	fmt.Fprintf(&sb, `<g fill="%s">
<text x="%d" y="%.1f" text-anchor="end">%.3g</text>
<text x="%d" y="%.1f" text-anchor="end">%.3g</text>
<text x="%d" y="%.1f">%.3g</text>
<text x="%.1f" y="%.1f" text-anchor="end">%.3g</text>
</g>
`, t.Muted,
		marginLeft-4, py(hi)+4, hi,
		marginLeft-4, py(lo)+4, lo,
		marginLeft, marginTop+plotH+16, t0,
		marginLeft+plotW, marginTop+plotH+16, t1)

	for j, name := range names {
		color := t.SeriesColor(j)
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, color)
		pen := false
		for i, x := range states {
			if j >= len(x) || i >= len(times) || !finite(x[j]) {
				pen = false
				continue
			}
			cmd := "L"
			if !pen {
				cmd = "M"
			}
			fmt.Fprintf(&sb, "%s%.1f,%.1f ", cmd, px(times[i]), py(x[j]))
			pen = true
		}
		sb.WriteString("\"/>\n")

		ly := marginTop + 16*j
		fmt.Fprintf(&sb, `<rect x="%.1f" y="%d" width="10" height="10" fill="%s"/><text x="%.1f" y="%d" fill="%s">%s</text>
`, marginLeft+plotW+12, ly, color, marginLeft+plotW+26, ly+10, t.Text, escape(name))
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// TrajectorySVGFile writes TrajectorySVG output to path.
func TrajectorySVGFile(path string, names []string, times []float64, states []dynamo.State, opts SVGOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := TrajectorySVG(f, names, times, states, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func concentrationRange(states []dynamo.State) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, x := range states {
		for _, v := range x {
			if finite(v) {
				lo = math.Min(lo, v)
				hi = math.Max(hi, v)
			}
		}
	}
	if lo > hi {
		return 0, 1
	}
	if lo == hi {
		return lo - 0.5, hi + 0.5
	}
	return lo, hi
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return xmlEscaper.Replace(s) }
