package layer

import (
	"image/color"

	"l14layers/pkg/geom"
)

// PaintPhase selects what a renderer paints in one call.
type PaintPhase int

const (
	PaintPhaseBackground PaintPhase = iota
	PaintPhaseForeground
	PaintPhaseOutline
	PaintPhaseMask
)

func (p PaintPhase) String() string {
	return [...]string{"background", "foreground", "outline", "mask"}[p]
}

// PaintInfo is passed to Renderer.Paint. Offset is the layer's border-box
// origin in the context's current coordinate space; Rect is the damage rect
// in the same space.
type PaintInfo struct {
	Phase  PaintPhase
	Offset geom.Point
	Rect   geom.Rect
}

// HitTestPhase selects which part of a renderer is probed.
type HitTestPhase int

const (
	HitTestBlockBackground HitTestPhase = iota
	HitTestForeground
)

// Renderer is the content object that owns a layer. Geometry is reported by
// layout; the layer tree never computes box sizes itself.
type Renderer interface {
	Name() string
	Style() *Style
	// Frame is the border box. Its origin is relative to the parent layer's
	// border-box origin, or to the root layer for fixed-position renderers.
	Frame() geom.Rect
	BorderWidths() geom.Edges
	// LayoutOverflow and VisualOverflow are in local (border-box) coordinates.
	LayoutOverflow() geom.Rect
	VisualOverflow() geom.Rect
	Paint(gc GraphicsContext, info PaintInfo)
	// HitTest probes the renderer with a location in local coordinates.
	HitTest(phase HitTestPhase, loc HitTestLocation) bool
}

// Region is one column or page of paginated content. FlowRect is the slice of
// the flow in the pagination layer's coordinate space; Offset translates that
// slice to where it is displayed.
type Region struct {
	Index    int
	FlowRect geom.Rect
	Offset   geom.Point
}

// Paginator splits the content of a multi-column or paged layer into regions.
type Paginator interface {
	// Regions returns the regions intersecting bounds, ordered by index.
	Regions(bounds geom.Rect) []Region
}

// GraphicsContext is the drawing surface the paint walker drives.
type GraphicsContext interface {
	Save()
	Restore()
	ClipRect(r geom.Rect)
	Translate(dx, dy float64)
	ConcatTransform(t geom.Transform)

	BeginTransparencyLayer(opacity float64, bounds geom.Rect)
	EndTransparencyLayer()
	BeginFilterLayer(filters []Filter, bounds geom.Rect)
	EndFilterLayer()
	// Drawing between BeginMaskLayer and EndMaskLayer defines an alpha mask
	// applied to the innermost transparency layer.
	BeginMaskLayer(bounds geom.Rect)
	EndMaskLayer()

	FillRect(r geom.Rect, c color.Color, radius float64)
	StrokeRect(r geom.Rect, c color.Color, width float64)
}

// ScrollbarOrientation distinguishes the two scrollbars of a layer.
type ScrollbarOrientation int

const (
	HorizontalScrollbar ScrollbarOrientation = iota
	VerticalScrollbar
)

// Scrollbar is a platform scrollbar widget owned by a scrollable layer.
type Scrollbar interface {
	Orientation() ScrollbarOrientation
	Thickness() float64
	IsOverlay() bool
	// Frame is in the owning layer's local coordinates.
	Frame() geom.Rect
	SetFrame(r geom.Rect)
	// SetValue updates the thumb: value is the scroll offset along the axis,
	// visible the client extent and total the scroll extent.
	SetValue(value, visible, total float64)
	Value() float64
	Paint(gc GraphicsContext, offset geom.Point)
}

// ScrollbarHost creates and destroys scrollbar widgets.
type ScrollbarHost interface {
	CreateScrollbar(owner *Layer, orientation ScrollbarOrientation) Scrollbar
	DestroyScrollbar(s Scrollbar)
}
