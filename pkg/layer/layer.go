package layer

import (
	"go.uber.org/zap"

	"l14layers/pkg/geom"
)

// Layer is one node of the layer tree. Layers are created and destroyed
// through their Tree.
type Layer struct {
	tree  *Tree
	index int32

	parent, first, last, prev, next int32

	renderer  Renderer
	destroyed bool

	// A reflection layer hangs off its owner without being one of its
	// children.
	isReflection bool
	reflection   *Layer

	location    geom.Point
	size        geom.Size
	repaintRect geom.Rect

	scrollOffset geom.Point
	scrollOrigin geom.Point
	scrollSize   geom.Size
	hScrollbar   Scrollbar
	vScrollbar   Scrollbar

	transform *geom.Transform

	paginator                Paginator
	enclosingPaginationLayer *Layer

	posZOrderList       []*Layer
	negZOrderList       []*Layer
	normalFlowList      []*Layer
	zOrderListsDirty    bool
	normalFlowListDirty bool
	listMutationAllowed bool

	isNormalFlowOnly    bool
	isSelfPaintingLayer bool

	descendantFlagsDirty             bool
	hasVisibleDescendant             bool
	hasSelfPaintingLayerDescendant   bool
	hasOutOfFlowPositionedDescendant bool
	has3DTransformedDescendant       bool

	clipCache ClipRectsCache
}

func newLayer(t *Tree, idx int32, r Renderer) *Layer {
	return &Layer{
		tree:                 t,
		index:                idx,
		parent:               noIndex,
		first:                noIndex,
		last:                 noIndex,
		prev:                 noIndex,
		next:                 noIndex,
		renderer:             r,
		zOrderListsDirty:     true,
		normalFlowListDirty:  true,
		listMutationAllowed:  true,
		descendantFlagsDirty: true,
	}
}

func (l *Layer) Name() string            { return l.renderer.Name() }
func (l *Layer) Renderer() Renderer      { return l.renderer }
func (l *Layer) Tree() *Tree             { return l.tree }
func (l *Layer) Style() *Style           { return l.renderer.Style() }
func (l *Layer) IsDestroyed() bool       { return l.destroyed }
func (l *Layer) IsReflection() bool      { return l.isReflection }
func (l *Layer) ReflectionLayer() *Layer { return l.reflection }

// Handle returns a stable, generation-checked reference to l.
func (l *Layer) Handle() Handle {
	return Handle{index: l.index, gen: l.tree.gens[l.index]}
}

func (l *Layer) Parent() *Layer          { return l.tree.at(l.parent) }
func (l *Layer) FirstChild() *Layer      { return l.tree.at(l.first) }
func (l *Layer) LastChild() *Layer       { return l.tree.at(l.last) }
func (l *Layer) NextSibling() *Layer     { return l.tree.at(l.next) }
func (l *Layer) PreviousSibling() *Layer { return l.tree.at(l.prev) }

// Children returns the child layers in document order.
func (l *Layer) Children() []*Layer {
	var out []*Layer
	for c := l.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, c)
	}
	return out
}

// IsRootLayer reports whether l is the root of its tree.
func (l *Layer) IsRootLayer() bool { return l.tree.root == l }

// Location is the border-box origin relative to the parent layer, with the
// parent's scroll offset already subtracted. Fixed-position layers are
// relative to the top of the tree.
func (l *Layer) Location() geom.Point { return l.location }
func (l *Layer) Size() geom.Size      { return l.size }

// LocalBounds is the border box in local coordinates.
func (l *Layer) LocalBounds() geom.Rect {
	return geom.RectFromPointSize(geom.Point{}, l.size)
}

// RepaintRect is the area l may paint into, in the coordinate space of the
// top layer, as of the last position update.
func (l *Layer) RepaintRect() geom.Rect { return l.repaintRect }

// Transform returns the layer transform, or nil.
func (l *Layer) Transform() *geom.Transform { return l.transform }

func (l *Layer) topLayer() *Layer {
	cur := l
	for p := cur.Parent(); p != nil; p = cur.Parent() {
		cur = p
	}
	return cur
}

// isDescendantOf reports whether ancestor is l or one of its ancestors.
func (l *Layer) isDescendantOf(ancestor *Layer) bool {
	for cur := l; cur != nil; cur = cur.Parent() {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// AddChild inserts child before the sibling before, or appends it when before
// is nil.
func (l *Layer) AddChild(child, before *Layer) {
	assertf(!l.destroyed && !child.destroyed, "AddChild on a destroyed layer")
	assertf(child.tree == l.tree, "AddChild across trees")
	assertf(child.parent == noIndex && child != l.tree.root, "AddChild: %s already has a parent", child.Name())
	assertf(!l.isDescendantOf(child), "AddChild would create a cycle")

	prev := l.last
	if before != nil {
		assertf(before.parent == l.index, "AddChild: %s is not a child of %s", before.Name(), l.Name())
		prev = before.prev
		child.next = before.index
		before.prev = child.index
	} else {
		l.last = child.index
	}
	child.prev = prev
	if p := l.tree.at(prev); p != nil {
		p.next = child.index
	} else {
		l.first = child.index
	}
	child.parent = l.index
	child.updateLayerKind()

	if child.isNormalFlowOnly {
		l.DirtyNormalFlowList()
	}
	if !child.isNormalFlowOnly || child.first != noIndex {
		child.DirtyStackingContainerZOrderLists()
	}
	l.dirtyAncestorChainDescendantFlags()
	child.updatePaginationRecursive()
	child.ClearClipRectsIncludingDescendants(ClipRectsTypeAll)
}

// RemoveChild detaches old, which must be a child of l.
func (l *Layer) RemoveChild(old *Layer) {
	assertf(old.parent == l.index && !old.isReflection, "RemoveChild: %s is not a child of %s", old.Name(), l.Name())

	if !old.isNormalFlowOnly || old.first != noIndex {
		old.DirtyStackingContainerZOrderLists()
	}
	if old.isNormalFlowOnly {
		l.DirtyNormalFlowList()
	}

	if p := l.tree.at(old.prev); p != nil {
		p.next = old.next
	} else {
		l.first = old.next
	}
	if n := l.tree.at(old.next); n != nil {
		n.prev = old.prev
	} else {
		l.last = old.prev
	}
	old.parent, old.prev, old.next = noIndex, noIndex, noIndex
	old.updateLayerKind()

	l.dirtyAncestorChainDescendantFlags()
	old.updatePaginationRecursive()
	old.ClearClipRectsIncludingDescendants(ClipRectsTypeAll)
}

// StyleChanged must be called after the renderer's style changed. old is a
// snapshot of the previous style, or nil when unknown.
func (l *Layer) StyleChanged(old *Style) {
	assertf(!l.destroyed, "StyleChanged on a destroyed layer")
	l.styleChanged(old)
}

func (l *Layer) styleChanged(old *Style) {
	st := l.Style()
	parent := l.Parent()
	if l.isReflection {
		parent = nil
	}

	wasNormalFlowOnly := l.isNormalFlowOnly
	l.isNormalFlowOnly = l.shouldBeNormalFlowOnly()

	wasStacking := old != nil && (parent == nil || isStackingContainerStyle(old))
	nowStacking := l.IsStackingContainer()
	if old == nil || wasStacking != nowStacking {
		if nowStacking {
			l.DirtyZOrderLists()
		} else {
			l.clearZOrderLists()
		}
	}

	if parent != nil {
		if old == nil || wasNormalFlowOnly != l.isNormalFlowOnly {
			parent.DirtyNormalFlowList()
		}
		if old == nil || wasNormalFlowOnly != l.isNormalFlowOnly || wasStacking != nowStacking ||
			old.HasZIndex != st.HasZIndex || old.ZIndex != st.ZIndex {
			l.DirtyStackingContainerZOrderLists()
		}
	}

	l.isSelfPaintingLayer = l.shouldBeSelfPaintingLayer()
	l.updateTransform()
	l.updateReflection()
	l.updateScrollbars()
	if old == nil || old.Position != st.Position {
		l.updatePaginationRecursive()
	}
	l.dirtyAncestorChainDescendantFlags()
	l.ClearClipRectsIncludingDescendants(ClipRectsTypeAll)

	if old != nil {
		l.tree.logger.Debug("layer style changed",
			zap.String("layer", l.Name()),
			zap.Bool("stacking", nowStacking),
			zap.Bool("normalFlowOnly", l.isNormalFlowOnly))
	}
}

// updateLayerKind recomputes the flags that depend on whether l has a parent:
// a detached layer is a stacking container of its own.
func (l *Layer) updateLayerKind() {
	l.isNormalFlowOnly = l.shouldBeNormalFlowOnly()
	l.isSelfPaintingLayer = l.shouldBeSelfPaintingLayer()
	if l.IsStackingContainer() {
		l.DirtyZOrderLists()
	} else {
		l.clearZOrderLists()
	}
}

func (l *Layer) updateTransform() {
	if t := l.Style().Transform; t != nil {
		m := *t
		l.transform = &m
		return
	}
	l.transform = nil
}

// HasVisibleContent reports whether l's own renderer is visible.
func (l *Layer) HasVisibleContent() bool {
	return l.Style().Visibility == VisibilityVisible
}

// HasVisibleDescendant reports whether any descendant has visible content.
func (l *Layer) HasVisibleDescendant() bool {
	l.UpdateDescendantDependentFlags()
	return l.hasVisibleDescendant
}

// HasSelfPaintingLayerDescendant reports whether any descendant paints itself.
func (l *Layer) HasSelfPaintingLayerDescendant() bool {
	l.UpdateDescendantDependentFlags()
	return l.hasSelfPaintingLayerDescendant
}

// HasOutOfFlowPositionedDescendant reports absolute or fixed descendants.
func (l *Layer) HasOutOfFlowPositionedDescendant() bool {
	l.UpdateDescendantDependentFlags()
	return l.hasOutOfFlowPositionedDescendant
}

// Has3DTransformedDescendant reports descendants that take part in depth
// sorting: a Z translation or preserve-3d.
func (l *Layer) Has3DTransformedDescendant() bool {
	l.UpdateDescendantDependentFlags()
	return l.has3DTransformedDescendant
}

func (l *Layer) has3DTransform() bool {
	return (l.transform != nil && l.transform.TZ != 0) || l.Style().Preserve3D
}

// dirtyAncestorChainDescendantFlags marks l and its ancestors. It stops at the
// first layer already dirty: a dirty layer always has dirty ancestors.
func (l *Layer) dirtyAncestorChainDescendantFlags() {
	for cur := l; cur != nil && !cur.descendantFlagsDirty; cur = cur.Parent() {
		cur.descendantFlagsDirty = true
	}
}

// UpdateDescendantDependentFlags recomputes the cached descendant flags of
// l's dirty subtree.
func (l *Layer) UpdateDescendantDependentFlags() {
	if !l.descendantFlagsDirty {
		return
	}
	l.hasVisibleDescendant = false
	l.hasSelfPaintingLayerDescendant = false
	l.hasOutOfFlowPositionedDescendant = false
	l.has3DTransformedDescendant = false
	for c := l.FirstChild(); c != nil; c = c.NextSibling() {
		c.UpdateDescendantDependentFlags()
		l.hasVisibleDescendant = l.hasVisibleDescendant || c.HasVisibleContent() || c.hasVisibleDescendant
		l.hasSelfPaintingLayerDescendant = l.hasSelfPaintingLayerDescendant ||
			c.isSelfPaintingLayer || c.hasSelfPaintingLayerDescendant
		l.hasOutOfFlowPositionedDescendant = l.hasOutOfFlowPositionedDescendant ||
			c.Style().IsOutOfFlowPositioned() || c.hasOutOfFlowPositionedDescendant
		l.has3DTransformedDescendant = l.has3DTransformedDescendant ||
			c.has3DTransform() || c.has3DTransformedDescendant
	}
	l.descendantFlagsDirty = false
}

// SetPaginator makes l a pagination layer (or stops it being one when p is nil).
func (l *Layer) SetPaginator(p Paginator) {
	l.paginator = p
	for c := l.FirstChild(); c != nil; c = c.NextSibling() {
		c.updatePaginationRecursive()
	}
	l.ClearClipRectsIncludingDescendants(ClipRectsTypeAll)
}

func (l *Layer) Paginator() Paginator { return l.paginator }

// EnclosingPaginationLayer is the nearest ancestor that paginates l, or nil.
func (l *Layer) EnclosingPaginationLayer() *Layer { return l.enclosingPaginationLayer }

// IsPaginated reports whether l is split across regions.
func (l *Layer) IsPaginated() bool { return l.enclosingPaginationLayer != nil }

func (l *Layer) updatePagination() {
	p := l.Parent()
	switch {
	case p == nil || l.isReflection:
		l.enclosingPaginationLayer = nil
	case l.Style().Position == PositionFixed:
		// Fixed content is laid out against the viewport, never a column.
		l.enclosingPaginationLayer = nil
	case p.paginator != nil:
		l.enclosingPaginationLayer = p
	default:
		l.enclosingPaginationLayer = p.enclosingPaginationLayer
	}
}

func (l *Layer) updatePaginationRecursive() {
	l.updatePagination()
	for c := l.FirstChild(); c != nil; c = c.NextSibling() {
		c.updatePaginationRecursive()
	}
}

// enclosingPaginationLayerFor returns the pagination layer of l when it is
// inside root's subtree, so fragments can be expressed relative to root.
func (l *Layer) enclosingPaginationLayerFor(root *Layer) *Layer {
	pl := l.enclosingPaginationLayer
	if pl == nil || root == nil {
		return pl
	}
	if !pl.isDescendantOf(root) {
		return nil
	}
	return pl
}

// ConvertToLayerCoords maps p from l's local space to ancestor's. A nil
// ancestor means the space the top layer's location is expressed in.
// Fixed-position layers are placed relative to the top layer, so ancestor
// need not be on l's parent chain.
func (l *Layer) ConvertToLayerCoords(ancestor *Layer, p geom.Point) geom.Point {
	if ancestor == l {
		return p
	}
	q := p
	for cur := l; cur != nil; cur = cur.Parent() {
		if cur == ancestor {
			return q
		}
		if cur.isFixedPositioned() {
			break
		}
		q = q.Add(cur.location)
		if cur.Parent() == nil && ancestor == nil {
			return q
		}
	}
	from := l.offsetFromTop().Add(p)
	if ancestor == nil {
		return from
	}
	return from.Sub(ancestor.offsetFromTop())
}

func (l *Layer) isFixedPositioned() bool {
	return l.parent != noIndex && !l.isReflection && l.Style().Position == PositionFixed
}

func (l *Layer) offsetFromTop() geom.Point {
	var p geom.Point
	for cur := l; cur != nil; cur = cur.Parent() {
		if cur.isFixedPositioned() {
			return p.Add(cur.location).Add(cur.topLayer().location)
		}
		p = p.Add(cur.location)
	}
	return p
}

// mapRectToTop maps a local rect through every transform and offset up to
// the top layer's coordinate space.
func (l *Layer) mapRectToTop(r geom.Rect) geom.Rect {
	for cur := l; cur != nil; {
		if cur.transform != nil {
			r = cur.transform.MapRect(r)
		}
		r = r.Translate(cur.location)
		if cur.isFixedPositioned() {
			top := cur.topLayer()
			if top.transform != nil {
				r = top.transform.MapRect(r)
			}
			return r.Translate(top.location)
		}
		cur = cur.Parent()
	}
	return r
}

func (l *Layer) hasTransformedAncestorOrSelf() bool {
	for cur := l; cur != nil; cur = cur.Parent() {
		if cur.transform != nil {
			return true
		}
	}
	return false
}

func (l *Layer) computeRepaintRect() geom.Rect {
	local := l.LocalBounds().Union(l.renderer.VisualOverflow())
	r := l.mapRectToTop(local)
	if l.Parent() == nil || l.hasTransformedAncestorOrSelf() {
		return r
	}
	top := l.topLayer()
	clip := l.BackgroundClipRect(ClipRectsContext{Root: top, Type: AbsoluteClipRects})
	return r.Intersect(clip.Rect.Translate(top.location))
}

func (l *Layer) updateLayerPositions(flags UpdateLayerPositionsFlags) {
	l.clipCache.ClearAll()
	l.updateLayerPosition()
	if flags&UpdatePagination != 0 {
		l.updatePagination()
	}
	if flags&UpdateScrollDimensions != 0 && l.Style().HasOverflowClip() {
		l.ComputeScrollDimensions()
		if l.updateScrollbars() {
			l.ComputeScrollDimensions()
		}
		l.scrollOffset = l.ClampScrollOffset(l.scrollOffset)
		l.updateScrollbarGeometry()
	}
	if l.reflection != nil {
		l.reflection.updateLayerPositions(flags)
		l.updateReflectionTransform()
	}
	l.repaintRect = l.computeRepaintRect()
	for c := l.FirstChild(); c != nil; c = c.NextSibling() {
		c.updateLayerPositions(flags)
	}
}
