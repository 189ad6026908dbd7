package layer

import (
	"fmt"
	"image/color"
	"strings"
	"testing"

	"l14layers/pkg/geom"
)

// box is a renderer with fixed geometry that records what it paints.
type box struct {
	name     string
	style    *Style
	frame    geom.Rect
	borders  geom.Edges
	overflow *geom.Rect

	lastOffset geom.Point
	onPaint    func()
}

func (b *box) Name() string             { return b.name }
func (b *box) Style() *Style            { return b.style }
func (b *box) Frame() geom.Rect         { return b.frame }
func (b *box) BorderWidths() geom.Edges { return b.borders }

func (b *box) LayoutOverflow() geom.Rect {
	if b.overflow != nil {
		return *b.overflow
	}
	return geom.R(0, 0, b.frame.Width, b.frame.Height)
}

func (b *box) VisualOverflow() geom.Rect { return b.LayoutOverflow() }

func (b *box) Paint(gc GraphicsContext, info PaintInfo) {
	b.lastOffset = info.Offset
	if rc, ok := gc.(*recordingContext); ok {
		rc.ops = append(rc.ops, fmt.Sprintf("paint %s %s", b.name, info.Phase))
	}
	if b.onPaint != nil {
		b.onPaint()
	}
}

func (b *box) HitTest(phase HitTestPhase, loc HitTestLocation) bool {
	return phase == HitTestForeground && loc.Intersects(geom.R(0, 0, b.frame.Width, b.frame.Height))
}

// recordingContext logs every call as one string.
type recordingContext struct {
	ops []string
}

func (r *recordingContext) log(format string, args ...any) {
	r.ops = append(r.ops, fmt.Sprintf(format, args...))
}

func (r *recordingContext) Save()                            { r.log("save") }
func (r *recordingContext) Restore()                         { r.log("restore") }
func (r *recordingContext) ClipRect(c geom.Rect)             { r.log("clip %v", c) }
func (r *recordingContext) Translate(dx, dy float64)         { r.log("translate %g,%g", dx, dy) }
func (r *recordingContext) ConcatTransform(t geom.Transform) { r.log("concat") }
func (r *recordingContext) BeginTransparencyLayer(opacity float64, _ geom.Rect) {
	r.log("begin-transparency %g", opacity)
}
func (r *recordingContext) EndTransparencyLayer() { r.log("end-transparency") }
func (r *recordingContext) BeginFilterLayer(filters []Filter, _ geom.Rect) {
	r.log("begin-filter %d", len(filters))
}
func (r *recordingContext) EndFilterLayer()                                  { r.log("end-filter") }
func (r *recordingContext) BeginMaskLayer(geom.Rect)                         { r.log("begin-mask") }
func (r *recordingContext) EndMaskLayer()                                    { r.log("end-mask") }
func (r *recordingContext) FillRect(c geom.Rect, _ color.Color, _ float64)   { r.log("fill %v", c) }
func (r *recordingContext) StrokeRect(c geom.Rect, _ color.Color, _ float64) { r.log("stroke %v", c) }

// painted returns only the renderer paint calls, in order.
func (r *recordingContext) painted() []string {
	var out []string
	for _, op := range r.ops {
		if strings.HasPrefix(op, "paint ") {
			out = append(out, strings.TrimPrefix(op, "paint "))
		}
	}
	return out
}

func (r *recordingContext) count(prefix string) int {
	n := 0
	for _, op := range r.ops {
		if strings.HasPrefix(op, prefix) {
			n++
		}
	}
	return n
}

type fixture struct {
	t    *testing.T
	tree *Tree
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	return &fixture{t: t, tree: NewTree(opts)}
}

// add creates a layer for a new box and appends it to parent, or makes it the
// root when parent is nil.
func (f *fixture) add(parent *Layer, name string, frame geom.Rect, mutate func(*Style)) *Layer {
	st := NewStyle()
	if mutate != nil {
		mutate(st)
	}
	l := f.tree.CreateLayer(&box{name: name, style: st, frame: frame})
	if parent == nil {
		f.tree.SetRoot(l)
	} else {
		parent.AddChild(l, nil)
	}
	return l
}

func (f *fixture) layout() {
	f.tree.UpdateLayerPositionsAfterLayout(UpdateLayerPositionsDefault)
}

func boxOf(l *Layer) *box { return l.Renderer().(*box) }

// restyle mutates l's style and notifies the layer.
func restyle(l *Layer, mutate func(*Style)) {
	old := l.Style().Clone()
	mutate(boxOf(l).style)
	l.StyleChanged(old)
}

func positioned(z *int) func(*Style) {
	return func(s *Style) {
		s.Position = PositionAbsolute
		if z != nil {
			s.HasZIndex = true
			s.ZIndex = *z
		}
	}
}

func zIndex(z int) *int { return &z }

func names(list []*Layer) []string {
	out := make([]string, len(list))
	for i, l := range list {
		out[i] = l.Name()
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
