package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/sigpath/internal/analysis"
	"github.com/san-kum/sigpath/internal/kinetics"
)

// RenderNetwork lists species and reactions with their rate laws. Species
// references inside rate laws are highlighted. Disabled reactions and
// diagnostics are shown in the theme's warning colors.
func RenderNetwork(net *kinetics.Network, t Theme) string {
	var b strings.Builder
	syms := net.Symbols()

	b.WriteString(title(t, net.Name()))
	b.WriteString("\n\n")

	b.WriteString(label(t, "species"))
	b.WriteString(value(t, fmt.Sprintf("%d", net.StateDim())))
	b.WriteByte('\n')
	for _, sp := range syms.Species() {
		name := lipgloss.NewStyle().Foreground(t.SeriesColor(sp.Slot)).Render(sp.SanitizedID)
		fmt.Fprintf(&b, "  x[%d] %s = %g", sp.Slot, name, sp.InitialConcentration)
		if sp.DisplayName != "" && sp.DisplayName != sp.SanitizedID {
			b.WriteString(keyHint(t, "  "+sp.DisplayName))
		}
		b.WriteByte('\n')
	}

	reactions := net.Reactions()
	b.WriteByte('\n')
	b.WriteString(label(t, "reactions"))
	b.WriteString(value(t, fmt.Sprintf("%d", len(reactions))))
	b.WriteByte('\n')
	for _, r := range reactions {
		id := lipgloss.NewStyle().Foreground(t.Accent).Render(r.ID)
		fmt.Fprintf(&b, "  %s: %s", id, net.Equation(r))
		if len(r.ModifierSlots) > 0 {
			mods := make([]string, 0, len(r.ModifierSlots))
			for _, s := range r.ModifierSlots {
				if sp, err := syms.At(s); err == nil {
					mods = append(mods, sp.SanitizedID)
				}
			}
			b.WriteString(keyHint(t, "  ~ "+strings.Join(mods, ", ")))
		}
		b.WriteByte('\n')

		rate := HighlightSpecies(r.RawRate, syms, t.Primary)
		if r.Disabled {
			rate = lipgloss.NewStyle().Foreground(t.Warning).Render("0  (disabled: " + r.RawRate + ")")
		} else if r.RawRate == "" {
			rate = lipgloss.NewStyle().Foreground(t.Muted).Render("0  (no rate law)")
		}
		fmt.Fprintf(&b, "      rate = %s\n", rate)
		for _, d := range net.DiagnosticsFor(r.ID) {
			style := lipgloss.NewStyle().Foreground(t.SeverityColor(d.Severity))
			fmt.Fprintf(&b, "      %s\n", style.Render("! "+d.Message))
		}
	}

	// Reactions skipped at load have no listing line of their own.
	compiled := make(map[string]bool, len(reactions))
	for _, r := range reactions {
		compiled[r.ID] = true
	}
	var orphans []kinetics.Diagnostic
	for _, d := range net.Diagnostics() {
		if !compiled[d.ReactionID] {
			orphans = append(orphans, d)
		}
	}
	if len(orphans) > 0 {
		b.WriteByte('\n')
		b.WriteString(RenderDiagnostics(orphans, t))
	}
	return b.String()
}

// RenderDiagnostics prints one line per diagnostic colored by severity.
func RenderDiagnostics(diags []kinetics.Diagnostic, t Theme) string {
	var b strings.Builder
	b.WriteString(label(t, "diagnostics"))
	b.WriteString(value(t, fmt.Sprintf("%d", len(diags))))
	b.WriteByte('\n')
	for _, d := range diags {
		style := lipgloss.NewStyle().Foreground(t.SeverityColor(d.Severity))
		b.WriteString("  ")
		b.WriteString(style.Render(d.String()))
		b.WriteByte('\n')
	}
	return b.String()
}

// HighlightSpecies colors every species reference in text, matching
// original and sanitized ids as whole tokens.
func HighlightSpecies(text string, syms *kinetics.SymbolTable, color lipgloss.Color) string {
	style := lipgloss.NewStyle().Foreground(color).Bold(true)
	var b strings.Builder
	for _, seg := range syms.Segments(text) {
		if seg.Slot >= 0 {
			b.WriteString(style.Render(seg.Text))
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

// RenderSummary tabulates per-species trajectory statistics.
func RenderSummary(rows []analysis.SpeciesSummary, t Theme) string {
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(t.Muted)).
		Headers("species", "initial", "final", "min", "max", "t(max)", "t(1/2)")

	for _, s := range rows {
		tbl.Row(s.Name, num(s.Initial), num(s.Final), num(s.Min), num(s.Max), num(s.TimeOfMax), num(s.HalfTime))
	}

	tbl.StyleFunc(func(row, col int) lipgloss.Style {
		st := lipgloss.NewStyle().Padding(0, 1)
		switch {
		case row == table.HeaderRow:
			return st.Bold(true).Foreground(t.Primary)
		case col == 0:
			return st.Foreground(t.SeriesColor(row))
		}
		return st.Foreground(t.Text)
	})
	return tbl.String()
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.4g", v)
}
