package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/sigpath/internal/dynamo"
)

const (
	replayFPS     = 30
	barWidth      = 30
	portraitW     = 30
	portraitH     = 8
	maxReplaySpan = 64
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/replayFPS, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Replay steps through a finished trajectory. Bars are scaled per species
// to that species' maximum over the whole run.
type Replay struct {
	title  string
	names  []string
	times  []float64
	states []dynamo.State
	peaks  []float64

	cursor  int
	playing bool
	speed   int
	theme   Theme
	width   int

	// pair is the (x, y) species shown in the phase portrait.
	pair [2]int
}

func NewReplay(title string, names []string, times []float64, states []dynamo.State) Replay {
	peaks := make([]float64, len(names))
	for _, x := range states {
		for j := range peaks {
			if j < len(x) && !math.IsNaN(x[j]) {
				peaks[j] = math.Max(peaks[j], math.Abs(x[j]))
			}
		}
	}
	return Replay{
		title:   title,
		names:   names,
		times:   times,
		states:  states,
		peaks:   peaks,
		playing: true,
		speed:   1,
		theme:   CurrentTheme,
		width:   80,
		pair:    [2]int{0, 1},
	}
}

func (m Replay) Cursor() int   { return m.cursor }
func (m Replay) Playing() bool { return m.playing }
func (m Replay) Speed() int    { return m.speed }
func (m Replay) Theme() Theme  { return m.theme }

func (m Replay) Init() tea.Cmd { return tick() }

func (m Replay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tickMsg:
		if m.playing {
			m.seek(m.speed)
			if m.cursor == len(m.states)-1 {
				m.playing = false
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m Replay) handleKey(msg tea.KeyMsg) (Replay, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ":
		m.playing = !m.playing
		if m.playing && m.cursor == len(m.states)-1 {
			m.cursor = 0
		}
	case "right", "l":
		m.playing = false
		m.seek(1)
	case "left", "h":
		m.playing = false
		m.seek(-1)
	case "+", "=":
		m.speed = min(m.speed*2, maxReplaySpan)
	case "-", "_":
		m.speed = max(m.speed/2, 1)
	case "r":
		m.cursor = 0
	case "t":
		m.theme = nextTheme(m.theme)
	case "tab":
		m.nextPair()
	}
	return m, nil
}

func (m *Replay) seek(delta int) {
	m.cursor = min(max(m.cursor+delta, 0), max(len(m.states)-1, 0))
}

// nextPair advances through all ordered species pairs (x < y).
func (m *Replay) nextPair() {
	n := len(m.names)
	if n < 2 {
		return
	}
	x, y := m.pair[0], m.pair[1]+1
	if y >= n {
		x++
		y = x + 1
	}
	if y >= n {
		x, y = 0, 1
	}
	m.pair = [2]int{x, y}
}

func (m Replay) View() string {
	t := m.theme
	if len(m.states) == 0 {
		return title(t, m.title) + "\n\n" + keyHint(t, "no samples") + "\n"
	}

	var b strings.Builder
	b.WriteString(title(t, m.title))
	b.WriteByte('\n')

	status := lipgloss.NewStyle().Foreground(t.Success).Bold(true).Render("▶ playing")
	if !m.playing {
		status = lipgloss.NewStyle().Foreground(t.Warning).Bold(true).Render("⏸ paused")
	}
	progress := float64(m.cursor) / float64(max(len(m.states)-1, 1))
	fmt.Fprintf(&b, "%s  t = %s  x%d\n", status, value(t, fmt.Sprintf("%.4g", m.times[m.cursor])), m.speed)
	b.WriteString(Bar(progress, barWidth+14, t.Accent))
	b.WriteString("\n\n")

	x := m.states[m.cursor]
	for j, name := range m.names {
		frac := 0.0
		if m.peaks[j] > 0 {
			frac = math.Abs(x[j]) / m.peaks[j]
		}
		fmt.Fprintf(&b, "%s %s %s\n", label(t, name), Bar(frac, barWidth, t.SeriesColor(j)), value(t, fmt.Sprintf("%.4g", x[j])))
	}

	if len(m.names) >= 2 {
		b.WriteString(separator(t, barWidth+28))
		b.WriteByte('\n')
		b.WriteString(m.portrait())
	}

	b.WriteString(keyHint(t, "space play/pause  ←/→ step  +/- speed  tab pair  t theme  r rewind  q quit"))
	b.WriteByte('\n')
	return b.String()
}

// portrait draws the chosen species pair up to the cursor.
func (m Replay) portrait() string {
	xi, yi := m.pair[0], m.pair[1]
	xs := make([]float64, m.cursor+1)
	ys := make([]float64, m.cursor+1)
	for i := 0; i <= m.cursor; i++ {
		xs[i] = m.states[i][xi]
		ys[i] = m.states[i][yi]
	}
	c := NewCanvas(portraitW, portraitH)
	c.PlotPath(xs, ys)

	caption := fmt.Sprintf("%s vs %s", m.names[yi], m.names[xi])
	body := lipgloss.NewStyle().Foreground(m.theme.Primary).Render(strings.TrimRight(c.String(), "\n"))
	return panel(m.theme, body) + "\n" + keyHint(m.theme, caption) + "\n"
}

// RunReplay opens the viewer on the terminal and blocks until it exits.
func RunReplay(m Replay) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
