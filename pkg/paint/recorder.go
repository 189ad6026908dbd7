package paint

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"l14layers/pkg/geom"
	"l14layers/pkg/layer"
)

// Recorder is a GraphicsContext that writes down every call instead of
// drawing. Nested layers and saves are indented.
type Recorder struct {
	Ops   []string
	depth int
}

var _ layer.GraphicsContext = (*Recorder)(nil)

func (r *Recorder) add(format string, args ...any) {
	r.Ops = append(r.Ops, strings.Repeat("  ", r.depth)+fmt.Sprintf(format, args...))
}

func (r *Recorder) open(format string, args ...any) {
	r.add(format, args...)
	r.depth++
}

func (r *Recorder) close(format string, args ...any) {
	if r.depth > 0 {
		r.depth--
	}
	r.add(format, args...)
}

func (r *Recorder) Save()    { r.open("save") }
func (r *Recorder) Restore() { r.close("restore") }

func (r *Recorder) ClipRect(c geom.Rect)     { r.add("clip %v", c) }
func (r *Recorder) Translate(dx, dy float64) { r.add("translate %g,%g", dx, dy) }

func (r *Recorder) ConcatTransform(t geom.Transform) {
	r.add("concat [%g %g %g %g %g %g]", t.A, t.B, t.C, t.D, t.E, t.F)
}

func (r *Recorder) BeginTransparencyLayer(opacity float64, bounds geom.Rect) {
	r.open("begin-transparency %g %v", opacity, bounds)
}

func (r *Recorder) EndTransparencyLayer() { r.close("end-transparency") }

func (r *Recorder) BeginFilterLayer(filters []layer.Filter, bounds geom.Rect) {
	r.open("begin-filter %d %v", len(filters), bounds)
}

func (r *Recorder) EndFilterLayer() { r.close("end-filter") }

func (r *Recorder) BeginMaskLayer(bounds geom.Rect) { r.open("begin-mask %v", bounds) }
func (r *Recorder) EndMaskLayer()                   { r.close("end-mask") }

func (r *Recorder) FillRect(c geom.Rect, col color.Color, radius float64) {
	r.add("fill %v %s r=%g", c, hexColor(col), radius)
}

func (r *Recorder) StrokeRect(c geom.Rect, col color.Color, width float64) {
	r.add("stroke %v %s w=%g", c, hexColor(col), width)
}

func (r *Recorder) DrawString(s string, x, y float64, col color.Color) {
	r.add("text %q %g,%g %s", s, x, y, hexColor(col))
}

// WriteTo writes one op per line.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, op := range r.Ops {
		m, err := fmt.Fprintln(w, op)
		n += int64(m)
		if err != nil {
			return n, fmt.Errorf("write paint ops: %w", err)
		}
	}
	return n, nil
}

func hexColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}
