package layer

import "l14layers/pkg/geom"

// LayerRects is the result of CalculateRects, all in the root layer's space.
type LayerRects struct {
	LayerBounds geom.Rect
	Background  ClipRect
	Foreground  ClipRect
	Outline     ClipRect
}

// ClipRects returns the clip rects l hands to its descendants, from the cache
// when possible.
func (l *Layer) ClipRects(ctx ClipRectsContext) *ClipRects {
	if cached := l.clipCache.Get(ctx); cached != nil {
		return cached
	}
	return l.clipCache.Set(ctx, l.calculateClipRects(ctx))
}

// CalculateClipRects computes the clip rects l hands to its descendants
// without touching l's own cache. Ancestors' caches are still used and
// filled unless ctx is temporary.
func (l *Layer) CalculateClipRects(ctx ClipRectsContext) ClipRects {
	return l.calculateClipRects(ctx)
}

func (l *Layer) calculateClipRects(ctx ClipRectsContext) ClipRects {
	parent := l.Parent()
	var rects ClipRects
	if ctx.Root != l && parent != nil {
		rects = *parent.ClipRects(ctx)
	} else {
		rects = NewClipRects(InfiniteClipRect())
	}

	st := l.Style()
	switch {
	case l.isFixedPositioned():
		// Fixed content escapes every overflow clip between it and the root.
		rects = rects.
			WithPosClipRect(rects.FixedClipRect()).
			WithOverflowClipRect(rects.FixedClipRect()).
			WithFixed(true)
	case st.Position == PositionRelative:
		rects = rects.WithPosClipRect(rects.OverflowClipRect())
	case st.Position == PositionAbsolute:
		rects = rects.WithOverflowClipRect(rects.PosClipRect())
	}

	hasOverflowClip := l.appliesOverflowClip(ctx)
	if !hasOverflowClip && st.Clip == nil {
		return rects
	}
	offset := l.ConvertToLayerCoords(ctx.Root, geom.Point{})
	if hasOverflowClip {
		clip := ClipRect{
			Rect:      l.overflowClipRect(offset, ctx.OverlayScrollbarSizeRelevancy),
			HasRadius: st.BorderRadius > 0,
		}
		rects = rects.WithOverflowClipRect(clip.Intersect(rects.OverflowClipRect()))
		if st.IsPositioned() {
			rects = rects.WithPosClipRect(clip.Intersect(rects.PosClipRect()))
		}
	}
	if st.Clip != nil {
		clip := ClipRect{Rect: st.Clip.Translate(offset)}
		rects = rects.
			WithOverflowClipRect(clip.Intersect(rects.OverflowClipRect())).
			WithPosClipRect(clip.Intersect(rects.PosClipRect())).
			WithFixedClipRect(clip.Intersect(rects.FixedClipRect()))
	}
	return rects
}

func (l *Layer) appliesOverflowClip(ctx ClipRectsContext) bool {
	if !l.Style().HasOverflowClip() {
		return false
	}
	return ctx.RespectOverflowClip == RespectOverflowClip || l != ctx.Root
}

// overflowClipRect is the padding box at offset, minus the space taken by
// scrollbars.
func (l *Layer) overflowClipRect(offset geom.Point, relevancy OverlayScrollbarSizeRelevancy) geom.Rect {
	r := l.paddingBox().Translate(offset)
	if v := l.vScrollbar; v != nil && (!v.IsOverlay() || relevancy == IncludeOverlayScrollbarSize) {
		w := v.Thickness()
		if l.Style().Direction == DirectionRTL {
			r.X += w
		}
		r.Width = max(0, r.Width-w)
	}
	if h := l.hScrollbar; h != nil && (!h.IsOverlay() || relevancy == IncludeOverlayScrollbarSize) {
		r.Height = max(0, r.Height-h.Thickness())
	}
	return r
}

func (l *Layer) paddingBox() geom.Rect {
	r := l.LocalBounds().Inset(l.renderer.BorderWidths())
	r.Width = max(0, r.Width)
	r.Height = max(0, r.Height)
	return r
}

// BackgroundClipRect is the clip applying to l's own box: the clip its parent
// hands to layers positioned like l.
func (l *Layer) BackgroundClipRect(ctx ClipRectsContext) ClipRect {
	parent := l.Parent()
	if parent == nil || l == ctx.Root {
		return InfiniteClipRect()
	}
	rects := parent.ClipRects(ctx)
	switch l.Style().Position {
	case PositionFixed:
		return rects.FixedClipRect()
	case PositionAbsolute:
		return rects.PosClipRect()
	}
	return rects.OverflowClipRect()
}

// CalculateRects computes l's bounds and its background, foreground and
// outline clips relative to ctx.Root, restricted to dirty. offsetFromRoot
// may be passed when the caller already knows it.
func (l *Layer) CalculateRects(ctx ClipRectsContext, dirty geom.Rect, offsetFromRoot *geom.Point) LayerRects {
	var offset geom.Point
	if offsetFromRoot != nil {
		offset = *offsetFromRoot
	} else {
		offset = l.ConvertToLayerCoords(ctx.Root, geom.Point{})
	}
	out := LayerRects{LayerBounds: geom.RectFromPointSize(offset, l.size)}

	bg := ClipRect{Rect: dirty}
	if ctx.Root != l && l.Parent() != nil {
		bg = l.BackgroundClipRect(ctx).IntersectRect(dirty)
	}
	fg, outline := bg, bg

	st := l.Style()
	hasOverflowClip := l.appliesOverflowClip(ctx)
	if hasOverflowClip || st.Clip != nil {
		if st.Clip != nil {
			clip := ClipRect{Rect: st.Clip.Translate(offset)}
			bg = bg.Intersect(clip)
			fg = fg.Intersect(clip)
			outline = outline.Intersect(clip)
		}
		if hasOverflowClip {
			fg = fg.Intersect(ClipRect{
				Rect:      l.overflowClipRect(offset, ctx.OverlayScrollbarSizeRelevancy),
				HasRadius: st.BorderRadius > 0,
			})
			// Outlines are drawn outside the border box, so they get the
			// foreground clip grown back out to the outline edge.
			reach := st.OutlineWidth + maxEdge(l.renderer.BorderWidths())
			outline = outline.IntersectRect(fg.Rect.Inflate(reach))
		}
		// A clipping layer never paints its background past its own visual
		// overflow.
		visual := l.renderer.VisualOverflow().Union(l.LocalBounds()).Translate(offset)
		bg = bg.IntersectRect(visual)
	}
	out.Background, out.Foreground, out.Outline = bg, fg, outline
	return out
}

func maxEdge(e geom.Edges) float64 {
	return max(e.Top, e.Right, e.Bottom, e.Left)
}

// ClearClipRects drops l's cached clip rects of type t, or all of them for
// ClipRectsTypeAll.
func (l *Layer) ClearClipRects(t ClipRectsType) {
	l.clipCache.Clear(t)
}

// ClearClipRectsIncludingDescendants drops cached clip rects of l's subtree
// and reflection.
func (l *Layer) ClearClipRectsIncludingDescendants(t ClipRectsType) {
	l.clipCache.Clear(t)
	if l.reflection != nil {
		l.reflection.clipCache.Clear(t)
	}
	for c := l.FirstChild(); c != nil; c = c.NextSibling() {
		c.ClearClipRectsIncludingDescendants(t)
	}
}

// ClipRectsCacheGeneration exposes how many times l's cache was cleared.
func (l *Layer) ClipRectsCacheGeneration() uint64 {
	return l.clipCache.Generation()
}

// SelfClipRect is the clip applying to l's own box, relative to the top
// layer.
func (l *Layer) SelfClipRect() geom.Rect {
	top := l.topLayer()
	r := l.CalculateRects(ClipRectsContext{Root: top, Type: AbsoluteClipRects}, geom.InfiniteRect(), nil)
	return r.Background.Rect
}

// ChildrenClipRect is the clip l imposes on its normal-flow content,
// relative to the top layer.
func (l *Layer) ChildrenClipRect() geom.Rect {
	top := l.topLayer()
	r := l.CalculateRects(ClipRectsContext{Root: top, Type: AbsoluteClipRects}, geom.InfiniteRect(), nil)
	return r.Foreground.Rect
}
