// Package export writes frames to image files: a gonum/plot heat map with
// contour overlay in PNG, PDF or SVG, and a plain SVG of contour segments.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/isoflow/internal/colormap"
	"github.com/san-kum/isoflow/internal/field"
	"github.com/san-kum/isoflow/internal/frame"
)

var ErrUnsupportedFormat = errors.New("export: unsupported format")

// Options controls how a frame is drawn. AutoClip replaces Clip with the
// frame's own range; Colors is the palette resolution of the heat map.
type Options struct {
	Title        string
	Map          colormap.Map
	Clip         colormap.Clip
	AutoClip     bool
	ContourColor color.Color
	Width        vg.Length
	Height       vg.Length
	Colors       int
}

func DefaultOptions() Options {
	return Options{
		Map:          colormap.Viridis,
		Clip:         colormap.DefaultClip(),
		ContourColor: color.White,
		Width:        8 * vg.Inch,
		Height:       6 * vg.Inch,
		Colors:       64,
	}
}

// Format returns the image format implied by path's extension.
func Format(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "png", "pdf", "svg":
		return ext, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// gridXYZ presents a field grid to plotter.HeatMap. Plot rows run bottom to
// top, so grid rows are flipped to keep row 0 at the top of the image.
type gridXYZ struct {
	g *field.Grid
}

func (x gridXYZ) Dims() (c, r int)   { return x.g.Dims() }
func (x gridXYZ) X(c int) float64    { return float64(c) }
func (x gridXYZ) Y(r int) float64    { return float64(r) }
func (x gridXYZ) Z(c, r int) float64 { return x.g.At(c, x.g.Height()-1-r) }

// Plot builds the heat map and contour overlay of f.
func Plot(f frame.Frame, opts Options) (*plot.Plot, error) {
	if f.Grid == nil {
		return nil, errors.New("export: frame has no grid")
	}
	if opts.Map == nil {
		opts.Map = colormap.Viridis
	}
	clip := opts.Clip
	if opts.AutoClip || !clip.Valid() {
		clip = colormap.AutoClip(f.Stats)
	}

	p := plot.New()
	p.Title.Text = opts.Title
	if p.Title.Text == "" {
		p.Title.Text = fmt.Sprintf("t = %.4g  (version %d)", f.Time, f.Version)
	}
	p.X.Label.Text = "i"
	p.Y.Label.Text = "j"

	hm := plotter.NewHeatMap(gridXYZ{f.Grid}, colormap.Palette(opts.Map, max(opts.Colors, 2)))
	hm.Min, hm.Max = clip.Min, clip.Max
	hm.Underflow = opts.Map.At(0)
	hm.Overflow = opts.Map.At(1)
	p.Add(hm)

	lines := NewContours(f.Levels, f.Grid.Height())
	if opts.ContourColor != nil {
		lines.LineStyle.Color = opts.ContourColor
	}
	p.Add(lines)
	return p, nil
}

// Save writes f to path in the format given by its extension.
func Save(path string, f frame.Frame, opts Options) error {
	if _, err := Format(path); err != nil {
		return err
	}
	p, err := Plot(f, opts)
	if err != nil {
		return err
	}
	w, h := size(opts)
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("export: save %s: %w", path, err)
	}
	return nil
}

// Write renders f to w in the given format.
func Write(w io.Writer, format string, f frame.Frame, opts Options) error {
	if _, err := Format("." + format); err != nil {
		return err
	}
	p, err := Plot(f, opts)
	if err != nil {
		return err
	}
	width, height := size(opts)
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("export: %s writer: %w", format, err)
	}
	_, err = wt.WriteTo(w)
	return err
}

func size(opts Options) (vg.Length, vg.Length) {
	w, h := opts.Width, opts.Height
	if w <= 0 {
		w = 8 * vg.Inch
	}
	if h <= 0 {
		h = 6 * vg.Inch
	}
	return w, h
}
