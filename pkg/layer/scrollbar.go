package layer

import (
	"image/color"
	"math"

	"l14layers/pkg/geom"
)

// DefaultScrollbarThickness is the track width of the built-in scrollbars.
const DefaultScrollbarThickness = 12.0

var (
	scrollbarTrackColor = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	scrollbarThumbColor = color.NRGBA{R: 140, G: 140, B: 140, A: 255}
	resizerColor        = color.NRGBA{R: 160, G: 160, B: 160, A: 255}
)

// BasicScrollbarHost creates plain painted scrollbars.
type BasicScrollbarHost struct {
	Thickness float64
	// Overlay scrollbars float above the content and take no layout space.
	Overlay bool
}

func (h BasicScrollbarHost) CreateScrollbar(_ *Layer, o ScrollbarOrientation) Scrollbar {
	t := h.Thickness
	if t <= 0 {
		t = DefaultScrollbarThickness
	}
	return &basicScrollbar{orientation: o, thickness: t, overlay: h.Overlay}
}

func (h BasicScrollbarHost) DestroyScrollbar(Scrollbar) {}

type basicScrollbar struct {
	orientation ScrollbarOrientation
	thickness   float64
	overlay     bool
	frame       geom.Rect

	value, visible, total float64
}

func (s *basicScrollbar) Orientation() ScrollbarOrientation { return s.orientation }
func (s *basicScrollbar) Thickness() float64                { return s.thickness }
func (s *basicScrollbar) IsOverlay() bool                   { return s.overlay }
func (s *basicScrollbar) Frame() geom.Rect                  { return s.frame }
func (s *basicScrollbar) SetFrame(r geom.Rect)              { s.frame = r }
func (s *basicScrollbar) Value() float64                    { return s.value }

func (s *basicScrollbar) SetValue(value, visible, total float64) {
	s.value, s.visible, s.total = value, visible, total
}

// thumbRect is the thumb in the owner's local coordinates.
func (s *basicScrollbar) thumbRect() geom.Rect {
	r := s.frame
	if s.total <= 0 || s.visible >= s.total {
		return r
	}
	if s.orientation == VerticalScrollbar {
		length := math.Max(s.thickness, r.Height*s.visible/s.total)
		travel := r.Height - length
		pos := travel * s.value / (s.total - s.visible)
		return geom.R(r.X, r.Y+pos, r.Width, length)
	}
	length := math.Max(s.thickness, r.Width*s.visible/s.total)
	travel := r.Width - length
	pos := travel * s.value / (s.total - s.visible)
	return geom.R(r.X+pos, r.Y, length, r.Height)
}

func (s *basicScrollbar) Paint(gc GraphicsContext, offset geom.Point) {
	gc.FillRect(s.frame.Translate(offset), scrollbarTrackColor, 0)
	gc.FillRect(s.thumbRect().Translate(offset), scrollbarThumbColor, s.thickness/4)
}

// Scrollbar returns l's scrollbar for orientation o, or nil.
func (l *Layer) Scrollbar(o ScrollbarOrientation) Scrollbar {
	if o == VerticalScrollbar {
		return l.vScrollbar
	}
	return l.hScrollbar
}

func (l *Layer) needsScrollbar(o ScrollbarOrientation) bool {
	st := l.Style()
	switch st.Overflow {
	case OverflowScroll:
		return true
	case OverflowAuto:
		client := l.paddingBox()
		if o == VerticalScrollbar {
			return l.scrollSize.Height > client.Height
		}
		return l.scrollSize.Width > client.Width
	}
	return false
}

// updateScrollbars creates and destroys scrollbars to match l's overflow and
// reports whether the set changed.
func (l *Layer) updateScrollbars() bool {
	host := l.tree.opts.ScrollbarHost
	if host == nil || l.isReflection || l.destroyed {
		return false
	}
	changed := false
	sync := func(slot *Scrollbar, o ScrollbarOrientation) {
		need := l.needsScrollbar(o)
		switch {
		case need && *slot == nil:
			*slot = host.CreateScrollbar(l, o)
			changed = true
		case !need && *slot != nil:
			host.DestroyScrollbar(*slot)
			*slot = nil
			changed = true
		}
	}
	sync(&l.vScrollbar, VerticalScrollbar)
	sync(&l.hScrollbar, HorizontalScrollbar)
	if changed {
		l.ClearClipRectsIncludingDescendants(ClipRectsTypeAll)
		l.dirtyAncestorChainDescendantFlags()
	}
	l.updateScrollbarGeometry()
	return changed
}

func (l *Layer) destroyScrollbars() {
	host := l.tree.opts.ScrollbarHost
	for _, slot := range []*Scrollbar{&l.vScrollbar, &l.hScrollbar} {
		if *slot != nil {
			if host != nil {
				host.DestroyScrollbar(*slot)
			}
			*slot = nil
		}
	}
}

// updateScrollbarGeometry places the scrollbars along the padding box and
// pushes the current scroll position into them.
func (l *Layer) updateScrollbarGeometry() {
	pad := l.paddingBox()
	client := l.ClientSize()
	rtl := l.Style().Direction == DirectionRTL
	if v := l.vScrollbar; v != nil {
		h := pad.Height
		if l.hScrollbar != nil {
			h -= l.hScrollbar.Thickness()
		}
		x := pad.MaxX() - v.Thickness()
		if rtl {
			x = pad.X
		}
		v.SetFrame(geom.R(x, pad.Y, v.Thickness(), math.Max(0, h)))
		v.SetValue(l.scrollOffset.Y, client.Height, l.scrollSize.Height)
	}
	if hb := l.hScrollbar; hb != nil {
		w := pad.Width
		x := pad.X
		if l.vScrollbar != nil {
			w -= l.vScrollbar.Thickness()
			if rtl {
				x += l.vScrollbar.Thickness()
			}
		}
		hb.SetFrame(geom.R(x, pad.MaxY()-hb.Thickness(), math.Max(0, w), hb.Thickness()))
		hb.SetValue(l.scrollOffset.X, client.Width, l.scrollSize.Width)
	}
}

func (l *Layer) hasOverflowControls() bool {
	return l.vScrollbar != nil || l.hScrollbar != nil || l.Style().Resize
}

// resizerRect is the resize grip in the bottom-right corner of the padding
// box, in local coordinates.
func (l *Layer) resizerRect() geom.Rect {
	pad := l.paddingBox()
	t := DefaultScrollbarThickness
	if l.vScrollbar != nil {
		t = l.vScrollbar.Thickness()
	} else if l.hScrollbar != nil {
		t = l.hScrollbar.Thickness()
	}
	return geom.R(pad.MaxX()-t, pad.MaxY()-t, t, t)
}

// paintOverflowControls paints scrollbars and the resizer over everything
// else l paints. They are clipped by l's ancestors, not by l's own overflow
// clip.
func (l *Layer) paintOverflowControls(gc GraphicsContext, frags Fragments, offset geom.Point) {
	if !l.hasOverflowControls() || len(frags) == 0 {
		return
	}
	clip := frags[0].BackgroundRect
	if clip.IsEmpty() {
		return
	}
	gc.Save()
	if !clip.IsInfinite() {
		gc.ClipRect(clip.Rect)
	}
	if l.vScrollbar != nil {
		l.vScrollbar.Paint(gc, offset)
	}
	if l.hScrollbar != nil {
		l.hScrollbar.Paint(gc, offset)
	}
	if l.Style().Resize {
		gc.FillRect(l.resizerRect().Translate(offset), resizerColor, 0)
	}
	gc.Restore()
}

// hitTestOverflowControls probes the scrollbars and resizer at a local point.
func (l *Layer) hitTestOverflowControls(result *HitTestResult, local geom.Point, depth float64) bool {
	for _, sb := range []Scrollbar{l.vScrollbar, l.hScrollbar} {
		if sb != nil && sb.Frame().Contains(local) {
			result.setInner(l, local, depth)
			result.scrollbar = sb
			return true
		}
	}
	if l.Style().Resize && l.resizerRect().Contains(local) {
		result.setInner(l, local, depth)
		result.onResizer = true
		return true
	}
	return false
}
