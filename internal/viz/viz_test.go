package viz

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/sigpath/internal/analysis"
	"github.com/san-kum/sigpath/internal/dynamo"
	"github.com/san-kum/sigpath/internal/kinetics"
)

func testNetwork(t *testing.T) *kinetics.Network {
	t.Helper()
	spec := &kinetics.ModelSpec{
		Name: "toy",
		Species: []kinetics.SpeciesSpec{
			{ID: "A", InitialConcentration: 10},
			{ID: "AB", Name: "complex"},
			{ID: "E", InitialConcentration: 1},
		},
		Reactions: []kinetics.ReactionSpec{
			{ID: "bind", Reactants: []string{"A"}, Products: []string{"AB"}, Modifiers: []string{"E"},
				RateLaw: "k * A * E", Parameters: []kinetics.Parameter{{ID: "k", Value: 0.1}}},
			{ID: "broken", Reactants: []string{"AB"}, Products: []string{"A"}, RateLaw: "kx * AB"},
			{ID: "sink", Reactants: []string{"A"}, RateLaw: "A"},
		},
	}
	net, err := kinetics.Load(spec, kinetics.Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return net
}

func decayTrajectory(n int) ([]string, []float64, []dynamo.State) {
	times := make([]float64, n)
	states := make([]dynamo.State, n)
	for i := range times {
		times[i] = float64(i)
		a := 10.0 / float64(i+1)
		states[i] = dynamo.State{a, 10 - a}
	}
	return []string{"A", "B"}, times, states
}

func TestRenderNetwork(t *testing.T) {
	out := RenderNetwork(testNetwork(t), ThemeMinimal)

	for _, want := range []string{"toy", "bind: A -> complex", "~ E", "k * A * E", "disabled", "complex",
		"! rate law", "diagnostics", "sink: empty product list"} {
		if !strings.Contains(out, want) {
			t.Errorf("network listing missing %q:\n%s", want, out)
		}
	}
}

func TestHighlightSpeciesKeepsText(t *testing.T) {
	net := testNetwork(t)
	in := "k * A * AB / (Km + A)"
	out := HighlightSpecies(in, net.Symbols(), ThemeLab.Primary)
	if !strings.Contains(out, "Km") {
		t.Errorf("identifier Km lost: %q", out)
	}
	if !strings.Contains(out, "k * ") {
		t.Errorf("non-species text changed: %q", out)
	}
}

func TestHighlightSpecies_Segments(t *testing.T) {
	syms, err := kinetics.NewSymbolTable([]kinetics.SpeciesSpec{{ID: "Raf-1"}, {ID: "Raf"}})
	if err != nil {
		t.Fatalf("symbols: %v", err)
	}
	out := HighlightSpecies("k*Raf-1 + Raf", syms, ThemeLab.Primary)
	if !strings.Contains(out, "Raf-1") || !strings.Contains(out, "k*") {
		t.Errorf("highlighted text lost content: %q", out)
	}
}

func TestRenderSummary(t *testing.T) {
	names, times, states := decayTrajectory(10)
	out := RenderSummary(analysis.Summarize(times, states, names), ThemeLab)
	for _, want := range []string{"species", "A", "B", "10"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestPlotTrajectory(t *testing.T) {
	names, times, states := decayTrajectory(50)

	out, err := PlotTrajectory(names, times, states, PlotOptions{Height: 8, Width: 40})
	if err != nil {
		t.Fatalf("plot: %v", err)
	}
	if !strings.Contains(out, "t = 0 .. 49") {
		t.Errorf("missing default caption:\n%s", out)
	}

	if _, err := PlotTrajectory(names, times, states, PlotOptions{Species: []string{"C"}}); err == nil {
		t.Error("expected error for unknown species")
	}
	if _, err := PlotTrajectory(names, nil, nil, PlotOptions{}); err != ErrNoData {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestCanvasPlotPath(t *testing.T) {
	c := NewCanvas(4, 2)
	c.PlotPath([]float64{0, 1, 2}, []float64{0, 1, 2})

	blank := 0
	for _, row := range c.Grid {
		for _, r := range row {
			if r == brailleBlank {
				blank++
			}
		}
	}
	if blank == 8 {
		t.Fatal("nothing drawn")
	}
	// Bottom-left and top-right corners carry the endpoints.
	if c.Grid[1][0]&pixelMap[3][0] == 0 {
		t.Error("start point not set")
	}
	if c.Grid[0][3]&pixelMap[0][1] == 0 {
		t.Error("end point not set")
	}

	c.Clear()
	c.PlotPath([]float64{0, 1}, []float64{0, math.NaN()})
	c.Set(-1, 3)
	c.Unset(100, 100)
}

func TestReplayKeys(t *testing.T) {
	names, times, states := decayTrajectory(5)
	m := NewReplay("decay", names, times, states)

	press := func(k tea.KeyMsg) {
		next, _ := m.Update(k)
		m = next.(Replay)
	}

	press(tea.KeyMsg{Type: tea.KeySpace})
	if m.Playing() {
		t.Fatal("space should pause")
	}
	press(tea.KeyMsg{Type: tea.KeyRight})
	press(tea.KeyMsg{Type: tea.KeyRight})
	if m.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2", m.Cursor())
	}
	press(tea.KeyMsg{Type: tea.KeyLeft})
	press(tea.KeyMsg{Type: tea.KeyLeft})
	press(tea.KeyMsg{Type: tea.KeyLeft})
	if m.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", m.Cursor())
	}

	press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("+")})
	if m.Speed() != 2 {
		t.Errorf("speed = %d, want 2", m.Speed())
	}
	press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	if m.Theme().Name == CurrentTheme.Name {
		t.Error("theme did not change")
	}

	if view := m.View(); !strings.Contains(view, "decay") || !strings.Contains(view, "B vs A") {
		t.Errorf("unexpected view:\n%s", view)
	}
}

func TestReplayPlaysToEnd(t *testing.T) {
	names, times, states := decayTrajectory(4)
	var tm tea.Model = NewReplay("decay", names, times, states)
	for i := 0; i < 10; i++ {
		tm, _ = tm.Update(tickMsg{})
	}
	m := tm.(Replay)
	if m.Cursor() != 3 || m.Playing() {
		t.Errorf("cursor=%d playing=%v, want stopped at 3", m.Cursor(), m.Playing())
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != ThemeLab.Name {
		t.Error("unknown theme should fall back to lab")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names mismatch")
	}
	if ThemeLab.SeriesColor(len(ThemeLab.Series)) != ThemeLab.Series[0] {
		t.Error("series palette should cycle")
	}
	if ThemeLab.SeverityColor(kinetics.SeverityError) != ThemeLab.Error {
		t.Error("error severity color")
	}
}

func TestSparklineAndBar(t *testing.T) {
	if got := Sparkline([]float64{0, 1, 2, 3}, 4); got != "▁▃▅█" {
		t.Errorf("sparkline = %q", got)
	}
	if got := Sparkline(nil, 3); got != "───" {
		t.Errorf("empty sparkline = %q", got)
	}
	if bar := Bar(0.5, 10, ThemeMinimal.Text); !strings.Contains(bar, "█████░░░░░") {
		t.Errorf("bar = %q", bar)
	}
}
