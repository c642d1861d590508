package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true)

	labelStyle = lipgloss.NewStyle().Width(14)

	keyHintStyle = lipgloss.NewStyle().Italic(true)
)

func title(t Theme, s string) string {
	return titleStyle.Foreground(t.Primary).Render(s)
}

func label(t Theme, s string) string {
	return labelStyle.Foreground(t.Muted).Render(s)
}

func value(t Theme, s string) string {
	return lipgloss.NewStyle().Foreground(t.Text).Bold(true).Render(s)
}

func keyHint(t Theme, s string) string {
	return keyHintStyle.Foreground(t.Muted).Render(s)
}

func panel(t Theme, content string) string {
	return panelStyle.BorderForeground(t.Muted).Render(content)
}

// Bar renders a horizontal bar filled to fraction of width.
func Bar(fraction float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	filled := int(fraction*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(color).Render(bar)
}

// Sparkline renders values as a single row of block glyphs, sampled down to
// width.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		idx := int(norm * float64(len(chars)-1))
		idx = min(max(idx, 0), len(chars)-1)
		b.WriteRune(chars[idx])
	}
	return b.String()
}

func separator(t Theme, width int) string {
	if width < 8 {
		return ""
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return lipgloss.NewStyle().Foreground(t.Muted).Render(left + " ◆ " + right)
}
