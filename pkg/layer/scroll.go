package layer

import (
	"math"

	"go.uber.org/zap"

	"l14layers/pkg/geom"
)

// ScrollOffsetClamping selects whether ScrollToOffset clamps.
type ScrollOffsetClamping int

const (
	ScrollOffsetUnclamped ScrollOffsetClamping = iota
	ScrollOffsetClamped
)

const (
	// Pan deltas within this radius of the anchor are ignored.
	noPanScrollRadius = 10
	// Pan deltas up to this distance are slowed down.
	panShortDistanceLimit = 100
	panSpeedReducer       = 2
)

// UpdateLayerPosition recomputes l's location and size from its renderer and
// reports whether either changed. A change drops the cached clip rects of l's
// subtree.
func (l *Layer) UpdateLayerPosition() bool {
	changed := l.updateLayerPosition()
	if changed {
		l.ClearClipRectsIncludingDescendants(ClipRectsTypeAll)
	}
	return changed
}

// updateLayerPosition is UpdateLayerPosition for tree walks that clear caches
// themselves.
func (l *Layer) updateLayerPosition() bool {
	frame := l.renderer.Frame()
	st := l.Style()

	loc := frame.Origin()
	if st.Position == PositionRelative {
		loc = loc.Add(st.RelativeOffset)
	}
	if p := l.Parent(); p != nil && !l.isReflection && !l.isFixedPositioned() && p.Style().HasOverflowClip() {
		loc = loc.Sub(p.ScrolledContentOffset())
	}
	size := frame.Size()

	changed := loc != l.location || size != l.size
	l.location, l.size = loc, size
	return changed
}

func (l *Layer) ScrollOffset() geom.Point { return l.scrollOffset }
func (l *Layer) ScrollOrigin() geom.Point { return l.scrollOrigin }
func (l *Layer) ScrollSize() geom.Size    { return l.scrollSize }

// ScrolledContentOffset is how far l's content is shifted by scrolling.
func (l *Layer) ScrolledContentOffset() geom.Point {
	return l.scrollOffset.Sub(l.scrollOrigin)
}

// ClientSize is the scrollport: the padding box minus classic scrollbars.
func (l *Layer) ClientSize() geom.Size {
	return l.overflowClipRect(geom.Point{}, IgnoreOverlayScrollbarSize).Size()
}

// MaxScrollOffset is the largest valid scroll offset.
func (l *Layer) MaxScrollOffset() geom.Point {
	client := l.ClientSize()
	return geom.Point{
		X: math.Max(0, l.scrollSize.Width-client.Width),
		Y: math.Max(0, l.scrollSize.Height-client.Height),
	}
}

// ClampScrollOffset limits p to [0, MaxScrollOffset] on each axis.
func (l *Layer) ClampScrollOffset(p geom.Point) geom.Point {
	m := l.MaxScrollOffset()
	return geom.Point{
		X: math.Max(0, math.Min(p.X, m.X)),
		Y: math.Max(0, math.Min(p.Y, m.Y)),
	}
}

// ComputeScrollDimensions derives scroll size and origin from the layout
// overflow. Overflow before the start edge is only reachable in RTL (x) or
// flipped-blocks (y) content; the origin records how much of it there is.
func (l *Layer) ComputeScrollDimensions() {
	client := l.overflowClipRect(geom.Point{}, IgnoreOverlayScrollbarSize)
	overflow := l.renderer.LayoutOverflow()
	st := l.Style()

	var origin geom.Point
	var width, height float64
	if st.Direction == DirectionRTL {
		left := math.Min(overflow.X, client.X)
		width = client.MaxX() - left
		origin.X = client.X - left
	} else {
		width = math.Max(overflow.MaxX(), client.MaxX()) - client.X
	}
	if st.FlippedBlocks {
		top := math.Min(overflow.Y, client.Y)
		height = client.MaxY() - top
		origin.Y = client.Y - top
	} else {
		height = math.Max(overflow.MaxY(), client.MaxY()) - client.Y
	}
	l.scrollSize = geom.Size{Width: width, Height: height}

	// Keep the same content in view when the origin moves; a fresh RTL
	// scroller starts at its start (right) edge.
	if delta := origin.Sub(l.scrollOrigin); !delta.IsZero() {
		l.scrollOffset = l.scrollOffset.Add(delta)
		l.scrollOrigin = origin
	}
}

// ScrollToOffset scrolls l and moves its descendants.
func (l *Layer) ScrollToOffset(offset geom.Point, clamping ScrollOffsetClamping) {
	if clamping == ScrollOffsetClamped {
		offset = l.ClampScrollOffset(offset)
	}
	if offset == l.scrollOffset {
		return
	}
	l.scrollOffset = offset
	l.updateScrollbarGeometry()
	l.updateLayerPositionsAfterScroll()
	l.tree.logger.Debug("scrolled layer",
		zap.String("layer", l.Name()),
		zap.Float64("x", offset.X),
		zap.Float64("y", offset.Y))
}

func (l *Layer) updateLayerPositionsAfterScroll() {
	l.ClearClipRectsIncludingDescendants(ClipRectsTypeAll)
	for c := l.FirstChild(); c != nil; c = c.NextSibling() {
		c.updatePositionAfterScroll()
	}
}

func (l *Layer) updatePositionAfterScroll() {
	l.updateLayerPosition()
	l.repaintRect = l.computeRepaintRect()
	if l.reflection != nil {
		l.reflection.repaintRect = l.reflection.computeRepaintRect()
	}
	for c := l.FirstChild(); c != nil; c = c.NextSibling() {
		c.updatePositionAfterScroll()
	}
}

// IsScrollable reports whether l clips overflow and has somewhere to scroll.
func (l *Layer) IsScrollable() bool {
	if !l.Style().HasOverflowClip() {
		return false
	}
	m := l.MaxScrollOffset()
	return m.X > 0 || m.Y > 0
}

// ScrollByRecursively scrolls l by delta and hands whatever l could not
// absorb to the nearest scrollable ancestor.
func (l *Layer) ScrollByRecursively(delta geom.Point) {
	if delta.IsZero() {
		return
	}
	if !l.IsScrollable() {
		if p := l.Parent(); p != nil {
			p.ScrollByRecursively(delta)
		}
		return
	}
	want := l.scrollOffset.Add(delta)
	l.ScrollToOffset(want, ScrollOffsetClamped)
	remaining := want.Sub(l.scrollOffset)
	if remaining.IsZero() {
		return
	}
	if p := l.Parent(); p != nil {
		p.ScrollByRecursively(remaining)
	}
}

// Autoscroll scrolls by delta scaled by multiplier, as a drag near an edge
// does.
func (l *Layer) Autoscroll(delta geom.Point, multiplier float64) {
	l.ScrollByRecursively(delta.Scale(multiplier))
}

// PanScrollFromPoint scrolls by the distance between the pan anchor and the
// pointer, ignoring small movements and slowing short ones.
func (l *Layer) PanScrollFromPoint(anchor, current geom.Point) {
	d := current.Sub(anchor)
	l.ScrollByRecursively(geom.Point{X: panDelta(d.X), Y: panDelta(d.Y)})
}

func panDelta(d float64) float64 {
	abs := math.Abs(d)
	if abs < noPanScrollRadius {
		return 0
	}
	if abs <= panShortDistanceLimit {
		return d / panSpeedReducer
	}
	return d
}
