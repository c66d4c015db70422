package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/isoflow/internal/colormap"
	"github.com/san-kum/isoflow/internal/contour"
	"github.com/san-kum/isoflow/internal/field"
	"github.com/san-kum/isoflow/internal/frame"
	"github.com/san-kum/isoflow/internal/snapshot"
)

func peakFrame(t *testing.T) frame.Frame {
	t.Helper()
	ch, err := snapshot.New(5, 5)
	if err != nil {
		t.Fatal(err)
	}
	g, err := field.New(5, 5)
	if err != nil {
		t.Fatal(err)
	}
	for j := 0; j < 5; j++ {
		for i := 0; i < 5; i++ {
			d := float64((i-2)*(i-2) + (j-2)*(j-2))
			g.Set(i, j, 8-d)
		}
	}
	if err := ch.Publish(g.Samples(), 1.5); err != nil {
		t.Fatal(err)
	}
	return frame.NewBuilder(ch, []float64{2, 4, 6}).Build()
}

func TestFormat(t *testing.T) {
	tests := []struct {
		path string
		want string
		err  bool
	}{
		{"out.png", "png", false},
		{"OUT.PDF", "pdf", false},
		{"dir/x.svg", "svg", false},
		{"x.gif", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		got, err := Format(tt.path)
		if (err != nil) != tt.err || got != tt.want {
			t.Errorf("Format(%q) = %q, %v", tt.path, got, err)
		}
		if tt.err && !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("Format(%q) error %v is not ErrUnsupportedFormat", tt.path, err)
		}
	}
}

func TestWritePNG(t *testing.T) {
	f := peakFrame(t)
	var buf bytes.Buffer
	if err := Write(&buf, "png", f, DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")) {
		t.Errorf("output is not a PNG (%d bytes)", buf.Len())
	}
}

func TestSaveSVGWithAutoClip(t *testing.T) {
	f := peakFrame(t)
	opts := DefaultOptions()
	opts.AutoClip = true
	opts.Map = colormap.Heat
	opts.Title = "peak"

	path := filepath.Join(t.TempDir(), "peak.svg")
	if err := Save(path, f, opts); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("saved file is not SVG")
	}

	if err := Save(filepath.Join(t.TempDir(), "peak.bmp"), f, opts); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Save(.bmp) = %v", err)
	}
	if _, err := Plot(frame.Frame{}, opts); err == nil {
		t.Error("Plot of empty frame succeeded")
	}
}

func TestContoursDataRangeFlipsRows(t *testing.T) {
	levels := []contour.Level{{
		Value: 1,
		Segments: []contour.Segment{
			{A: contour.Point{X: 0.5, Y: 0}, B: contour.Point{X: 1, Y: 0.5}},
		},
	}}
	c := NewContours(levels, 3)
	xmin, xmax, ymin, ymax := c.DataRange()
	if xmin != 0.5 || xmax != 1 || ymin != 1.5 || ymax != 2 {
		t.Errorf("DataRange = %g %g %g %g", xmin, xmax, ymin, ymax)
	}

	empty := NewContours(nil, 3)
	if a, b, c, d := empty.DataRange(); a != 0 || b != 0 || c != 0 || d != 0 {
		t.Errorf("empty DataRange = %g %g %g %g", a, b, c, d)
	}
}

func TestSegmentsSVG(t *testing.T) {
	levels := []contour.Level{
		{Value: 0.5, Segments: []contour.Segment{
			{A: contour.Point{X: 0.5, Y: 0}, B: contour.Point{X: 1, Y: 0.5}},
		}},
		{Value: 0.9},
	}
	var buf bytes.Buffer
	if err := SegmentsSVG(&buf, 3, 3, levels, 10, colormap.Gray); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if n := strings.Count(out, "<path"); n != 1 {
		t.Errorf("paths = %d, want 1 (empty levels skipped)", n)
	}
	for _, want := range []string{
		`width="20" height="20"`,
		`data-level="0.5"`,
		`stroke="#000000"`,
		`d="M5.00,0.00 L10.00,5.00"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %s:\n%s", want, out)
		}
	}
}
