package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	header    lipgloss.Style
	label     lipgloss.Style
	value     lipgloss.Style
	muted     lipgloss.Style
	keyHint   lipgloss.Style
	running   lipgloss.Style
	paused    lipgloss.Style
	recording lipgloss.Style
	errText   lipgloss.Style
	graph     lipgloss.Style
	panel     lipgloss.Style
	help      lipgloss.Style
	sparkHigh lipgloss.Style
	sparkMid  lipgloss.Style
	sparkLow  lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		header:    lipgloss.NewStyle().Bold(true).Foreground(t.Secondary).MarginBottom(1),
		label:     lipgloss.NewStyle().Foreground(t.Muted).Width(10),
		value:     lipgloss.NewStyle().Foreground(t.Text),
		muted:     lipgloss.NewStyle().Foreground(t.Muted),
		keyHint:   lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		running:   lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		paused:    lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		recording: lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		errText:   lipgloss.NewStyle().Foreground(t.Error),
		graph:     lipgloss.NewStyle().Foreground(t.Accent),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Border).
			Padding(0, 2).
			Width(42),
		help: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(0, 2),
		sparkHigh: lipgloss.NewStyle().Foreground(t.Success),
		sparkMid:  lipgloss.NewStyle().Foreground(t.Warning),
		sparkLow:  lipgloss.NewStyle().Foreground(t.Error),
	}
}

// sparkline renders one bar per value, at most width bars, colored by
// height.
func (s styles) sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return s.muted.Render(strings.Repeat("─", width))
	}

	bars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	step := max(len(values)/width, 1)

	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / span
		idx := max(0, min(int(norm*float64(len(bars)-1)), len(bars)-1))
		c := string(bars[idx])
		switch {
		case norm > 0.7:
			b.WriteString(s.sparkHigh.Render(c))
		case norm > 0.3:
			b.WriteString(s.sparkMid.Render(c))
		default:
			b.WriteString(s.sparkLow.Render(c))
		}
	}
	return b.String()
}

func (s styles) separator(width int) string {
	mid := width / 2
	return s.muted.Render(strings.Repeat("─", max(mid-3, 0)) + " ◆ " + strings.Repeat("─", max(width-mid-3, 0)))
}
