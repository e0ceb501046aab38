// Package replay provides the Bubble Tea session playback viewer. It
// animates the digit-tracking samples of an analyzed session on a
// virtual screen, with the phase labels of the current sample in the
// footer.
package replay

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Nadimab/crocos/internal/timeline"
)

const (
	tickInterval = 50 * time.Millisecond
	seekStep     = 5.0
	cursorGlyph  = "●"
	trailGlyph   = "·"
	trailLength  = 24
)

var (
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	trailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

type tickMsg time.Time

// Model implements the Bubble Tea playback UI.
type Model struct {
	rows  []timeline.Row
	speed float64

	width  int
	height int

	clock   float64
	playing bool
	done    bool
}

// NewModel constructs a playback model over the annotated sample table.
// The clock starts at fromTime when positive, else at the first sample.
func NewModel(rows []timeline.Row, speed, fromTime float64) *Model {
	sorted := make([]timeline.Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TS < sorted[j].TS })
	if speed <= 0 {
		speed = 1
	}
	m := &Model{
		rows:    sorted,
		speed:   speed,
		playing: true,
	}
	if len(sorted) > 0 {
		m.clock = sorted[0].TS
	}
	if fromTime > 0 {
		m.clock = fromTime
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.playing && !m.done {
			m.clock += tickInterval.Seconds() * m.speed
			if len(m.rows) > 0 && m.clock > m.rows[len(m.rows)-1].TS {
				m.clock = m.rows[len(m.rows)-1].TS
				m.done = true
				m.playing = false
			}
		}
		return m, tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if !m.done {
				m.playing = !m.playing
			}
			return m, nil
		case "left":
			m.seek(-seekStep)
			return m, nil
		case "right":
			m.seek(seekStep)
			return m, nil
		case "r":
			if len(m.rows) > 0 {
				m.clock = m.rows[0].TS
			}
			m.done = false
			m.playing = true
			return m, nil
		default:
			return m, nil
		}
	default:
		return m, nil
	}
}

func (m *Model) seek(delta float64) {
	if len(m.rows) == 0 {
		return
	}
	m.clock += delta
	first := m.rows[0].TS
	last := m.rows[len(m.rows)-1].TS
	if m.clock < first {
		m.clock = first
	}
	if m.clock > last {
		m.clock = last
	}
	m.done = false
}

// currentIndex returns the index of the latest sample at or before the
// clock, or -1 before the first sample.
func (m *Model) currentIndex() int {
	i := sort.Search(len(m.rows), func(i int) bool { return m.rows[i].TS > m.clock })
	return i - 1
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width < 2 || m.height < 3 {
		return ""
	}
	canvasWidth := m.width
	canvasHeight := m.height - 1

	grid := make([][]string, canvasHeight)
	for y := range grid {
		grid[y] = make([]string, canvasWidth)
		for x := range grid[y] {
			grid[y][x] = " "
		}
	}

	idx := m.currentIndex()
	trailStart := idx - trailLength
	if trailStart < 0 {
		trailStart = 0
	}
	for i := trailStart; i >= 0 && i < idx; i++ {
		row := m.rows[i]
		if row.PhaseDigit == "Ended" || row.PhaseDigit == "Cancelled" {
			continue
		}
		x, y := m.project(row, canvasWidth, canvasHeight)
		grid[y][x] = trailStyle.Render(trailGlyph)
	}
	var current *timeline.Row
	if idx >= 0 {
		current = &m.rows[idx]
		if current.PhaseDigit != "Ended" && current.PhaseDigit != "Cancelled" {
			x, y := m.project(*current, canvasWidth, canvasHeight)
			grid[y][x] = cursorStyle.Render(cursorGlyph)
		}
	}

	var b strings.Builder
	for y := 0; y < canvasHeight; y++ {
		b.WriteString(strings.Join(grid[y], ""))
		b.WriteByte('\n')
	}
	b.WriteString(m.renderFooter(current))
	return b.String()
}

// project maps relative screen coordinates to a canvas cell. The y axis
// of the source data points up, the terminal's points down.
func (m *Model) project(row timeline.Row, width, height int) (int, int) {
	x := int(row.X * float64(width-1))
	y := int((1 - row.Y) * float64(height-1))
	if x < 0 {
		x = 0
	}
	if x >= width {
		x = width - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= height {
		y = height - 1
	}
	return x, y
}

func (m *Model) renderFooter(current *timeline.Row) string {
	segments := []string{fmt.Sprintf("t=%.2fs", m.clock), fmt.Sprintf("%.1fx", m.speed)}
	if current != nil {
		labels := formatLabels(current.Activity, current.Challenge, string(current.Phase))
		segments = append(segments, labels)
	}
	state := "playing"
	if m.done {
		state = "done"
	} else if !m.playing {
		state = "paused"
	}
	segments = append(segments, "space pause · ←/→ seek · r restart · q quit")
	footer := footerStyle.Render(truncateLine(strings.Join(segments, "  "), m.width-len(state)-1))
	if state == "playing" {
		return footer + " " + footerStyle.Render(state)
	}
	return footer + " " + pausedStyle.Render(state)
}

func formatLabels(activity string, challenge int, phase string) string {
	if activity == "" {
		return "(no phase)"
	}
	label := activity
	if challenge != timeline.NoChallenge {
		label += fmt.Sprintf(" #%d", challenge)
	}
	if phase != "" {
		label += " " + phase
	}
	return label
}
