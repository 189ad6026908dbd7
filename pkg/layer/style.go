package layer

import "l14layers/pkg/geom"

// PositionType is the CSS position of a renderer.
type PositionType int

const (
	PositionStatic PositionType = iota
	PositionRelative
	PositionAbsolute
	PositionFixed
)

func (p PositionType) String() string {
	switch p {
	case PositionRelative:
		return "relative"
	case PositionAbsolute:
		return "absolute"
	case PositionFixed:
		return "fixed"
	}
	return "static"
}

// Visibility is the CSS visibility of a renderer.
type Visibility int

const (
	VisibilityVisible Visibility = iota
	VisibilityHidden
)

// OverflowType is the CSS overflow of a renderer (both axes).
type OverflowType int

const (
	OverflowVisible OverflowType = iota
	OverflowHidden
	OverflowScroll
	OverflowAuto
)

// Direction is the inline base direction.
type Direction int

const (
	DirectionLTR Direction = iota
	DirectionRTL
)

// FilterKind identifies a CSS filter function.
type FilterKind int

const (
	FilterGrayscale FilterKind = iota
	FilterInvert
	FilterOpacity
	FilterBlur
)

// Filter is one entry of a filter chain. Amount is 0..1 for the colour
// filters and a radius in pixels for blur.
type Filter struct {
	Kind   FilterKind
	Amount float64
}

// ReflectionDirection is the side a box-reflect mirror is drawn on.
type ReflectionDirection int

const (
	ReflectBelow ReflectionDirection = iota
	ReflectAbove
	ReflectLeft
	ReflectRight
)

// Reflection describes a -webkit-box-reflect.
type Reflection struct {
	Direction ReflectionDirection
	Offset    float64
}

// Style is the subset of computed style the layer tree reads from its
// renderers. Use NewStyle for a zero-state style: Opacity must be 1 there.
type Style struct {
	Position   PositionType
	HasZIndex  bool // false = z-index: auto
	ZIndex     int
	Opacity    float64
	Visibility Visibility
	Overflow   OverflowType

	// RelativeOffset is the left/top shift of a relatively positioned box.
	RelativeOffset geom.Point

	// Transform is expressed in the layer's local space with the transform
	// origin already folded in.
	Transform  *geom.Transform
	Preserve3D bool

	BorderRadius float64
	OutlineWidth float64

	// Clip is the CSS clip rect in local coordinates.
	Clip *geom.Rect

	Filters    []Filter
	HasMask    bool
	Reflection *Reflection

	CompositedScrolling bool
	Resize              bool

	Direction     Direction
	FlippedBlocks bool

	// Structural layers exist for clipping or scrolling only; their renderer
	// content is painted by an ancestor.
	Structural bool
}

// NewStyle returns the initial style: static, auto z-index, fully opaque.
func NewStyle() *Style {
	return &Style{Opacity: 1}
}

// Clone returns a deep copy so callers can keep an "old style" snapshot.
func (s *Style) Clone() *Style {
	c := *s
	if s.Transform != nil {
		t := *s.Transform
		c.Transform = &t
	}
	if s.Clip != nil {
		r := *s.Clip
		c.Clip = &r
	}
	if s.Reflection != nil {
		r := *s.Reflection
		c.Reflection = &r
	}
	c.Filters = append([]Filter(nil), s.Filters...)
	return &c
}

// IsPositioned reports position other than static.
func (s *Style) IsPositioned() bool {
	return s.Position != PositionStatic
}

// IsOutOfFlowPositioned reports absolute or fixed position.
func (s *Style) IsOutOfFlowPositioned() bool {
	return s.Position == PositionAbsolute || s.Position == PositionFixed
}

// HasOverflowClip reports whether overflow clips descendants.
func (s *Style) HasOverflowClip() bool {
	return s.Overflow != OverflowVisible
}

// HasOpacity reports opacity below 1.
func (s *Style) HasOpacity() bool {
	return s.Opacity < 1
}
