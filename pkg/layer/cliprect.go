package layer

import (
	"fmt"

	"l14layers/pkg/geom"
)

// ClipRect is a clip rectangle that remembers whether any contributing clip
// had rounded corners.
type ClipRect struct {
	Rect      geom.Rect
	HasRadius bool
}

// InfiniteClipRect is the "no clip" value.
func InfiniteClipRect() ClipRect {
	return ClipRect{Rect: geom.InfiniteRect()}
}

// Intersect narrows c by o. The radius flag is sticky: once a clip has a
// radius, no later intersection clears it.
func (c ClipRect) Intersect(o ClipRect) ClipRect {
	return ClipRect{Rect: c.Rect.Intersect(o.Rect), HasRadius: c.HasRadius || o.HasRadius}
}

// IntersectRect narrows c by a plain rect.
func (c ClipRect) IntersectRect(r geom.Rect) ClipRect {
	return ClipRect{Rect: c.Rect.Intersect(r), HasRadius: c.HasRadius}
}

// Translate moves the clip.
func (c ClipRect) Translate(p geom.Point) ClipRect {
	return ClipRect{Rect: c.Rect.Translate(p), HasRadius: c.HasRadius}
}

func (c ClipRect) IsEmpty() bool    { return c.Rect.IsEmpty() }
func (c ClipRect) IsInfinite() bool { return c.Rect.IsInfinite() }

func (c ClipRect) String() string {
	if c.HasRadius {
		return c.Rect.String() + "r"
	}
	return c.Rect.String()
}

// ClipRects bundles the three clips handed down to descendants: the one for
// normal-flow content, the one for fixed-position descendants and the one for
// out-of-flow positioned descendants.
//
// A *ClipRects stored in a cache is shared by every reader and is never
// modified: the With* methods return new values.
type ClipRects struct {
	overflowClipRect ClipRect
	fixedClipRect    ClipRect
	posClipRect      ClipRect
	fixed            bool
}

// NewClipRects returns clip rects with all three clips set to r.
func NewClipRects(r ClipRect) ClipRects {
	return ClipRects{overflowClipRect: r, fixedClipRect: r, posClipRect: r}
}

func (c ClipRects) OverflowClipRect() ClipRect { return c.overflowClipRect }
func (c ClipRects) FixedClipRect() ClipRect    { return c.fixedClipRect }
func (c ClipRects) PosClipRect() ClipRect      { return c.posClipRect }
func (c ClipRects) Fixed() bool                { return c.fixed }

func (c ClipRects) WithOverflowClipRect(r ClipRect) ClipRects {
	c.overflowClipRect = r
	return c
}

func (c ClipRects) WithFixedClipRect(r ClipRect) ClipRects {
	c.fixedClipRect = r
	return c
}

func (c ClipRects) WithPosClipRect(r ClipRect) ClipRects {
	c.posClipRect = r
	return c
}

func (c ClipRects) WithFixed(fixed bool) ClipRects {
	c.fixed = fixed
	return c
}

// Equal compares all four fields.
func (c ClipRects) Equal(o ClipRects) bool {
	return c == o
}

func (c ClipRects) String() string {
	return fmt.Sprintf("overflow=%v fixed=%v pos=%v isFixed=%v", c.overflowClipRect, c.fixedClipRect, c.posClipRect, c.fixed)
}

// ClipRectsType is the flavour of a clip computation.
type ClipRectsType int

const (
	PaintingClipRects ClipRectsType = iota
	RootRelativeClipRects
	AbsoluteClipRects
	// TemporaryClipRects are computed and discarded within one call.
	TemporaryClipRects

	numCachedClipRectsTypes = TemporaryClipRects
)

func (t ClipRectsType) String() string {
	names := [...]string{"painting", "root-relative", "absolute", "temporary"}
	if t < 0 || int(t) >= len(names) {
		return "all"
	}
	return names[t]
}

// OverflowClipBehavior says whether the root layer's own overflow clip applies.
type OverflowClipBehavior int

const (
	RespectOverflowClip OverflowClipBehavior = iota
	IgnoreOverflowClip
)

// OverlayScrollbarSizeRelevancy says whether overlay scrollbars shrink the
// overflow clip.
type OverlayScrollbarSizeRelevancy int

const (
	IgnoreOverlayScrollbarSize OverlayScrollbarSizeRelevancy = iota
	IncludeOverlayScrollbarSize
)

// ClipRectsContext identifies one clip computation and its cache slot.
type ClipRectsContext struct {
	Root                          *Layer
	Region                        *Region
	Type                          ClipRectsType
	OverlayScrollbarSizeRelevancy OverlayScrollbarSizeRelevancy
	RespectOverflowClip           OverflowClipBehavior
}

func (ctx ClipRectsContext) cacheable() bool {
	return ctx.Type != TemporaryClipRects && ctx.Region == nil
}

type clipRectsCacheEntry struct {
	rects *ClipRects
	root  *Layer
	// relevancy is remembered so a lookup with a different scrollbar
	// relevancy misses instead of returning the wrong rects.
	relevancy OverlayScrollbarSizeRelevancy
}

// ClipRectsCache holds at most one ClipRects per (type, overflow behavior).
type ClipRectsCache struct {
	entries    [numCachedClipRectsTypes][2]clipRectsCacheEntry
	generation uint64
}

// Get returns the cached rects for the context, or nil when absent or
// computed against another root layer.
func (c *ClipRectsCache) Get(ctx ClipRectsContext) *ClipRects {
	if !ctx.cacheable() {
		return nil
	}
	e := c.entries[ctx.Type][ctx.RespectOverflowClip]
	if e.rects == nil || e.root != ctx.Root || e.relevancy != ctx.OverlayScrollbarSizeRelevancy {
		return nil
	}
	return e.rects
}

// Set publishes rects for the context and returns the shared handle.
// Temporary contexts are never stored.
func (c *ClipRectsCache) Set(ctx ClipRectsContext, rects ClipRects) *ClipRects {
	published := &rects
	if !ctx.cacheable() {
		return published
	}
	c.entries[ctx.Type][ctx.RespectOverflowClip] = clipRectsCacheEntry{
		rects:     published,
		root:      ctx.Root,
		relevancy: ctx.OverlayScrollbarSizeRelevancy,
	}
	return published
}

// Clear drops the entries of one type (both overflow behaviors).
// ClipRectsTypeAll drops everything.
func (c *ClipRectsCache) Clear(t ClipRectsType) {
	if t == ClipRectsTypeAll {
		c.ClearAll()
		return
	}
	if t < 0 || t >= numCachedClipRectsTypes {
		return
	}
	c.entries[t] = [2]clipRectsCacheEntry{}
	c.generation++
}

// ClearAll drops every entry.
func (c *ClipRectsCache) ClearAll() {
	c.entries = [numCachedClipRectsTypes][2]clipRectsCacheEntry{}
	c.generation++
}

// Generation advances on every invalidation.
func (c *ClipRectsCache) Generation() uint64 {
	return c.generation
}

// ClipRectsTypeAll is accepted by the Clear* helpers on Layer to mean "every type".
const ClipRectsTypeAll ClipRectsType = -1
