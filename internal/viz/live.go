package viz

import (
	"fmt"
	"maps"
	"math"
	"path/filepath"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/isoflow/internal/colormap"
	"github.com/san-kum/isoflow/internal/contour"
	"github.com/san-kum/isoflow/internal/coupling"
	"github.com/san-kum/isoflow/internal/export"
	"github.com/san-kum/isoflow/internal/frame"
	"github.com/san-kum/isoflow/internal/metrics"
)

const (
	defaultCols = 64
	defaultRows = 20
	panelWidth  = 46
	clipStep    = 1.25
)

// Buffer is one field the viewer can display.
type Buffer struct {
	Key     coupling.Key
	Builder *frame.Builder
}

// Options configures the live viewer.
type Options struct {
	Title    string
	FPS      int
	Map      colormap.Map
	Clip     colormap.Clip
	AutoClip bool
	Theme    Theme
	// Stats, if set, feeds the history chart and metric summary.
	Stats *metrics.FieldStats
	// Done is closed when the producer stops.
	Done <-chan struct{}
	// Recording names the run being recorded, if any.
	Recording     string
	ScreenshotDir string
}

type TickMsg time.Time

// Model is the consumer side of the pipeline: on every tick it asks the
// current buffer's builder for a newer frame and redraws only if one exists.
type Model struct {
	buffers  []Buffer
	current  int
	opts     Options
	heatmap  *Heatmap
	frame    frame.Frame
	hasFrame bool
	frames   int
	running  bool
	finished bool
	autoClip bool
	showHelp bool
	theme    Theme
	message  string
	width    int
	height   int
}

func NewModel(buffers []Buffer, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.Map == nil {
		opts.Map = colormap.Viridis
	}
	if !opts.Clip.Valid() {
		opts.Clip = colormap.DefaultClip()
	}
	if opts.Theme.Name == "" {
		opts.Theme = ThemeCyberpunk
	}
	hm := NewHeatmap(defaultCols, defaultRows)
	hm.Map, hm.Clip = opts.Map, opts.Clip
	hm.LineColor = opts.Theme.Text

	return Model{
		buffers:  buffers,
		opts:     opts,
		heatmap:  hm,
		running:  true,
		autoClip: opts.AutoClip,
		theme:    opts.Theme,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.heatmap.Resize(msg.Width-panelWidth-2, msg.Height-2)
	case TickMsg:
		m.pull()
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.message = ""
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "c":
		m.heatmap.Contours = !m.heatmap.Contours
	case "m":
		m.heatmap.Map = colormap.Next(m.heatmap.Map)
	case "[":
		m.autoClip = false
		m.heatmap.Clip = m.heatmap.Clip.Scale(1 / clipStep)
	case "]":
		m.autoClip = false
		m.heatmap.Clip = m.heatmap.Clip.Scale(clipStep)
	case "a":
		m.autoClip = !m.autoClip
		if !m.autoClip {
			m.heatmap.Clip = m.opts.Clip
		}
	case "tab":
		if len(m.buffers) > 1 {
			m.current = (m.current + 1) % len(m.buffers)
			// force a rebuild from the newly selected channel
			m.buffers[m.current].Builder.SetLevels(m.buffers[m.current].Builder.Levels())
			m.pull()
		}
	case "t":
		m.theme = NextTheme(m.theme)
		m.heatmap.LineColor = m.theme.Text
	case "s":
		m.message = m.screenshot()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// pull fetches a newer frame of the current buffer, if any. A paused
// viewer stops pulling so the producer runs ahead unobserved.
func (m *Model) pull() {
	if m.opts.Done != nil && !m.finished {
		select {
		case <-m.opts.Done:
			m.finished = true
		default:
		}
	}
	if !m.running || len(m.buffers) == 0 {
		return
	}
	f, ok := m.buffers[m.current].Builder.Next()
	if !ok {
		return
	}
	m.frame, m.hasFrame = f, true
	m.frames++
	if m.autoClip {
		m.heatmap.Clip = colormap.AutoClip(f.Stats)
	}
}

func (m Model) screenshot() string {
	if !m.hasFrame {
		return "no frame yet"
	}
	key := m.buffers[m.current].Key
	name := fmt.Sprintf("isoflow-%s-%s-v%d.png", key.Mesh, key.Field, m.frame.Version)
	path := filepath.Join(m.opts.ScreenshotDir, name)

	opts := export.DefaultOptions()
	opts.Map = m.heatmap.Map
	opts.Clip = m.heatmap.Clip
	opts.Title = fmt.Sprintf("%s  t = %.4g", key, m.frame.Time)
	if err := export.Save(path, m.frame, opts); err != nil {
		return "screenshot failed: " + err.Error()
	}
	return "saved " + path
}

// Frame returns the frame currently on screen.
func (m Model) Frame() (frame.Frame, bool) { return m.frame, m.hasFrame }

func (m Model) View() string {
	st := newStyles(m.theme)
	if len(m.buffers) == 0 {
		return st.errText.Render("no fields to display") + "\n"
	}

	var field string
	if m.hasFrame {
		field = m.heatmap.Render(m.frame)
	} else {
		field = st.muted.Render("waiting for first snapshot...")
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top, field, st.panel.Render(m.panel(st)))
	if m.showHelp {
		return st.help.Render(helpText) + "\n" + main
	}
	return main
}

func (m Model) panel(st styles) string {
	key := m.buffers[m.current].Key
	var s strings.Builder

	title := m.opts.Title
	if title == "" {
		title = "isoflow"
	}
	s.WriteString(st.header.Render(strings.ToUpper(title)) + "\n")

	status := st.running.Render("● LIVE")
	switch {
	case m.finished:
		status = st.muted.Render("■ FINISHED")
	case !m.running:
		status = st.paused.Render("❚❚ PAUSED")
	}
	if m.opts.Recording != "" {
		status += "  " + st.recording.Render("● REC "+m.opts.Recording)
	}
	s.WriteString(status + "\n\n")

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	buffer := key.String()
	if len(m.buffers) > 1 {
		buffer = fmt.Sprintf("%s (%d/%d)", buffer, m.current+1, len(m.buffers))
	}
	row("Field", buffer)
	f := m.frame
	row("Version", fmt.Sprintf("%d", f.Version))
	row("Time", fmt.Sprintf("%.4g", f.Time))
	row("Min", formatValue(f.Stats.Min))
	row("Max", formatValue(f.Stats.Max))
	row("Mean", formatValue(f.Stats.Mean))

	clip := m.heatmap.Clip
	clipMode := ""
	if m.autoClip {
		clipMode = " auto"
	}
	row("Clip", fmt.Sprintf("[%.3g, %.3g]%s", clip.Min, clip.Max, clipMode))
	row("Colormap", m.heatmap.Map.Name())
	contours := "off"
	if m.heatmap.Contours {
		contours = fmt.Sprintf("%d segments, length %.1f", contour.Count(f.Levels), f.Length())
	}
	row("Contours", contours)

	if m.heatmap.Contours && len(f.Levels) > 0 {
		counts := make([]float64, len(f.Levels))
		for i, l := range f.Levels {
			counts[i] = float64(len(l.Segments))
		}
		s.WriteString(st.label.Render("Levels") + st.sparkline(counts, 30) + "\n")
		s.WriteString(st.label.Render("") + st.muted.Render(fmt.Sprintf("%.3g … %.3g", f.Levels[0].Value, f.Levels[len(f.Levels)-1].Value)) + "\n")
	}

	if m.opts.Stats != nil {
		if means := m.opts.Stats.Means(key); len(means) > 1 {
			chart := asciigraph.Plot(means, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("mean"))
			s.WriteString("\n" + st.graph.Render(chart) + "\n")
		}
		if trend := m.opts.Stats.Trend(key); !math.IsNaN(trend) {
			row("Trend", fmt.Sprintf("%+.3g /t", trend))
		}
		summary := m.opts.Stats.Summary(key)
		for _, name := range slices.Sorted(maps.Keys(summary)) {
			row(name, formatValue(summary[name]))
		}
	}

	s.WriteString("\n" + st.separator(36) + "\n")
	if m.message != "" {
		s.WriteString(st.value.Render(m.message) + "\n")
	}
	s.WriteString(st.keyHint.Render("SP pause  c contours  m map  ? help  q quit"))
	return s.String()
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "—"
	}
	return fmt.Sprintf("%.4g", v)
}

const helpText = `KEYBOARD SHORTCUTS

  Space   pause / resume pulling snapshots
  c       toggle contour overlay
  m       cycle colormap
  [ ]     shrink / grow clip range
  a       toggle auto clip (frame min/max)
  Tab     cycle displayed field
  t       cycle theme
  s       save PNG screenshot
  ?       toggle this help
  q       quit`
