package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/isoflow/internal/colormap"
	"github.com/san-kum/isoflow/internal/contour"
)

// SegmentsSVG writes contour segments of a width x height grid as an SVG
// document, scale pixels per grid unit. Each level is one path colored by
// its position in the sweep.
func SegmentsSVG(w io.Writer, width, height int, levels []contour.Level, scale float64, m colormap.Map) error {
	if scale <= 0 {
		scale = 1
	}
	if m == nil {
		m = colormap.Viridis
	}
	pw := float64(max(width-1, 1)) * scale
	ph := float64(max(height-1, 1)) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, pw, ph, pw, ph)

	for k, l := range levels {
		if len(l.Segments) == 0 {
			continue
		}
		pos := 0.0
		if len(levels) > 1 {
			pos = float64(k) / float64(len(levels)-1)
		}
		fmt.Fprintf(&sb, `<path data-level="%g" fill="none" stroke="%s" stroke-width="1" d="`,
			l.Value, colormap.Hex(m.At(pos)))
		for i, s := range l.Segments {
			if i > 0 {
				sb.WriteByte(' ')
			}
			s = s.Scale(scale, scale)
			fmt.Fprintf(&sb, "M%.2f,%.2f L%.2f,%.2f", s.A.X, s.A.Y, s.B.X, s.B.Y)
		}
		sb.WriteString("\"/>\n")
	}
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
