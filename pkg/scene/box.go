package scene

import (
	"image/color"
	"math"

	"l14layers/pkg/geom"
	"l14layers/pkg/layer"
)

// textPainter is implemented by contexts that can draw labels.
type textPainter interface {
	DrawString(s string, x, y float64, col color.Color)
}

// Box is the renderer for one scene node. Geometry is fixed at build time.
type Box struct {
	node  *Node
	style *layer.Style
	frame geom.Rect

	background   color.Color
	borderColor  color.Color
	outlineColor color.Color
}

var _ layer.Renderer = (*Box)(nil)

// NewBox converts n into a renderer. n must have passed validation.
func NewBox(n *Node) (*Box, error) {
	st, err := n.style()
	if err != nil {
		return nil, err
	}
	b := &Box{
		node:         n,
		style:        st,
		frame:        geom.R(n.X, n.Y, n.Width, n.Height),
		borderColor:  color.Black,
		outlineColor: color.Black,
	}
	if st.Position == layer.PositionAbsolute || st.Position == layer.PositionFixed {
		b.frame.X += n.Left
		b.frame.Y += n.Top
	}
	if c, ok := ParseColor(n.Background); ok {
		b.background = c
	}
	if c, ok := ParseColor(n.BorderColor); ok {
		b.borderColor = c
	}
	if c, ok := ParseColor(n.OutlineColor); ok {
		b.outlineColor = c
	}
	return b, nil
}

func (b *Box) Name() string        { return b.node.Name }
func (b *Box) Node() *Node         { return b.node }
func (b *Box) Style() *layer.Style { return b.style }
func (b *Box) Frame() geom.Rect    { return b.frame }

func (b *Box) BorderWidths() geom.Edges {
	w := b.node.Border
	return geom.Edges{Top: w, Right: w, Bottom: w, Left: w}
}

func (b *Box) bounds() geom.Rect {
	return geom.R(0, 0, b.frame.Width, b.frame.Height)
}

// LayoutOverflow is the declared content size, never smaller than the box.
func (b *Box) LayoutOverflow() geom.Rect {
	r := b.bounds()
	if c := b.node.Content; len(c) == 2 {
		r = r.Union(geom.R(0, 0, c[0], c[1]))
	}
	return r
}

func (b *Box) VisualOverflow() geom.Rect {
	return b.LayoutOverflow().Union(b.bounds().Inflate(b.node.Outline))
}

func (b *Box) Paint(gc layer.GraphicsContext, info layer.PaintInfo) {
	r := b.bounds().Translate(info.Offset)
	switch info.Phase {
	case layer.PaintPhaseBackground:
		if b.background != nil {
			gc.FillRect(r, b.background, b.node.BorderRadius)
		}
	case layer.PaintPhaseForeground:
		if b.node.Border > 0 {
			gc.StrokeRect(r, b.borderColor, b.node.Border)
		}
		if tp, ok := gc.(textPainter); ok && b.node.Label != "" {
			tp.DrawString(b.node.Label, r.X+b.node.Border+4, r.Y+b.node.Border+14, b.borderColor)
		}
	case layer.PaintPhaseOutline:
		if w := b.node.Outline; w > 0 {
			gc.StrokeRect(r.Inflate(w), b.outlineColor, w)
		}
	case layer.PaintPhaseMask:
		m := b.node.Mask
		if m == nil {
			return
		}
		mr := r
		if len(m.Rect) == 4 {
			mr = geom.R(m.Rect[0], m.Rect[1], m.Rect[2], m.Rect[3]).Translate(info.Offset)
		}
		a := uint8(math.Round(math.Max(0, math.Min(1, m.Alpha)) * 255))
		gc.FillRect(mr, color.NRGBA{A: a}, 0)
	}
}

// HitTest accepts any location over the border box.
func (b *Box) HitTest(phase layer.HitTestPhase, loc layer.HitTestLocation) bool {
	return phase == layer.HitTestForeground && loc.Intersects(b.bounds())
}

// style maps the node's properties onto a layer style.
func (n *Node) style() (*layer.Style, error) {
	st := layer.NewStyle()
	var err error
	if st.Position, err = parsePosition(n.Position); err != nil {
		return nil, err
	}
	if st.Overflow, err = parseOverflow(n.Overflow); err != nil {
		return nil, err
	}
	if st.Direction, err = parseDirection(n.Direction); err != nil {
		return nil, err
	}
	if st.Filters, err = parseFilters(n.Filters); err != nil {
		return nil, err
	}
	if n.ZIndex != nil {
		st.HasZIndex = true
		st.ZIndex = *n.ZIndex
	}
	if n.Opacity != nil {
		st.Opacity = *n.Opacity
	}
	if n.Hidden {
		st.Visibility = layer.VisibilityHidden
	}
	if st.Position == layer.PositionRelative {
		st.RelativeOffset = geom.Pt(n.Left, n.Top)
	}
	if n.Transform != "" {
		t, err := ParseTransform(n.Transform, n.Width, n.Height, n.TransformOrigin)
		if err != nil {
			return nil, err
		}
		if n.Depth != 0 {
			t.TZ += n.Depth
		}
		st.Transform = &t
	} else if n.Depth != 0 {
		t := geom.Identity()
		t.TZ = n.Depth
		st.Transform = &t
	}
	if len(n.Clip) == 4 {
		c := geom.R(n.Clip[0], n.Clip[1], n.Clip[2], n.Clip[3])
		st.Clip = &c
	}
	if n.Reflection != nil {
		dir, err := parseReflectDirection(n.Reflection.Direction)
		if err != nil {
			return nil, err
		}
		st.Reflection = &layer.Reflection{Direction: dir, Offset: n.Reflection.Offset}
	}
	st.Preserve3D = n.Preserve3D
	st.BorderRadius = n.BorderRadius
	st.OutlineWidth = n.Outline
	st.HasMask = n.Mask != nil
	st.CompositedScrolling = n.CompositedScrolling
	st.Resize = n.Resize
	st.FlippedBlocks = n.FlippedBlocks
	st.Structural = n.Structural
	return st, nil
}
