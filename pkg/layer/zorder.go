package layer

import "sort"

// isStackingContextStyle reports whether a non-root layer with this style
// creates a stacking context.
func isStackingContextStyle(st *Style) bool {
	// Positioned elements with z-index != auto create a stacking context
	if st.IsPositioned() && st.HasZIndex {
		return true
	}
	return st.HasOpacity() ||
		st.Transform != nil ||
		st.Preserve3D ||
		len(st.Filters) > 0 ||
		st.HasMask ||
		st.Reflection != nil
}

// isStackingContainerStyle additionally counts composited scrollers, which
// order their descendants without being a CSS stacking context.
func isStackingContainerStyle(st *Style) bool {
	return isStackingContextStyle(st) || (st.CompositedScrolling && st.HasOverflowClip())
}

// IsStackingContext reports whether l creates a CSS stacking context. The
// root always does.
func (l *Layer) IsStackingContext() bool {
	if l.Parent() == nil && !l.isReflection {
		return true
	}
	return isStackingContextStyle(l.Style())
}

// IsStackingContainer reports whether l owns z-order lists.
func (l *Layer) IsStackingContainer() bool {
	if l.Parent() == nil && !l.isReflection {
		return true
	}
	return isStackingContainerStyle(l.Style())
}

// ZIndex is the effective z-index: auto counts as 0.
func (l *Layer) ZIndex() int {
	st := l.Style()
	if !st.HasZIndex {
		return 0
	}
	return st.ZIndex
}

// IsNormalFlowOnly reports whether l is painted among its parent's
// normal-flow children rather than through a z-order list.
func (l *Layer) IsNormalFlowOnly() bool { return l.isNormalFlowOnly }

// IsSelfPaintingLayer reports whether l paints its own renderer.
func (l *Layer) IsSelfPaintingLayer() bool { return l.isSelfPaintingLayer }

func (l *Layer) shouldBeNormalFlowOnly() bool {
	if l.Parent() == nil && !l.isReflection {
		return false
	}
	return !l.Style().IsPositioned() && !l.IsStackingContainer()
}

func (l *Layer) shouldBeSelfPaintingLayer() bool {
	st := l.Style()
	return !l.isNormalFlowOnly ||
		!st.Structural ||
		st.Reflection != nil ||
		st.HasMask
}

// PosZOrderList returns the non-negative z-index layers l paints, in paint
// order. Only valid for stacking containers after UpdateLayerListsIfNeeded.
func (l *Layer) PosZOrderList() []*Layer { return l.posZOrderList }

// NegZOrderList returns the negative z-index layers l paints, in paint order.
func (l *Layer) NegZOrderList() []*Layer { return l.negZOrderList }

// NormalFlowList returns the normal-flow-only children of l in document order.
func (l *Layer) NormalFlowList() []*Layer { return l.normalFlowList }

// UpdateLayerListsIfNeeded rebuilds whichever of l's lists are dirty.
func (l *Layer) UpdateLayerListsIfNeeded() {
	l.UpdateZOrderLists()
	l.updateNormalFlowList()
}

// UpdateZOrderLists rebuilds the z-order lists when they are dirty.
func (l *Layer) UpdateZOrderLists() {
	if !l.zOrderListsDirty {
		return
	}
	if !l.IsStackingContainer() {
		l.clearZOrderLists()
		l.zOrderListsDirty = false
		return
	}
	l.rebuildZOrderLists()
}

func (l *Layer) rebuildZOrderLists() {
	l.assertListMutationAllowed()
	var pos, neg []*Layer
	for c := l.FirstChild(); c != nil; c = c.NextSibling() {
		c.collectLayers(&pos, &neg)
	}
	sortByZIndex(pos)
	sortByZIndex(neg)
	l.posZOrderList, l.negZOrderList = pos, neg
	l.zOrderListsDirty = false
	l.tree.logger.Debug("rebuilt z-order lists")
}

// collectLayers appends l (unless it is normal-flow-only) and, when l does not
// own its own lists, l's descendants. Pre-order keeps document order for the
// stable sort.
func (l *Layer) collectLayers(pos, neg *[]*Layer) {
	if !l.isNormalFlowOnly {
		if l.ZIndex() < 0 {
			*neg = append(*neg, l)
		} else {
			*pos = append(*pos, l)
		}
	}
	if l.IsStackingContainer() {
		return
	}
	for c := l.FirstChild(); c != nil; c = c.NextSibling() {
		c.collectLayers(pos, neg)
	}
}

// sortByZIndex sorts layers by z-index (ascending). Equal z-indices keep
// document order.
func sortByZIndex(layers []*Layer) {
	sort.SliceStable(layers, func(i, j int) bool {
		return layers[i].ZIndex() < layers[j].ZIndex()
	})
}

func (l *Layer) updateNormalFlowList() {
	if !l.normalFlowListDirty {
		return
	}
	l.assertListMutationAllowed()
	var list []*Layer
	for c := l.FirstChild(); c != nil; c = c.NextSibling() {
		if c.isNormalFlowOnly {
			list = append(list, c)
		}
	}
	l.normalFlowList = list
	l.normalFlowListDirty = false
}

// DirtyZOrderLists drops l's z-order lists so they are rebuilt on next use.
func (l *Layer) DirtyZOrderLists() {
	l.assertListMutationAllowed()
	l.posZOrderList = nil
	l.negZOrderList = nil
	l.zOrderListsDirty = true
}

// DirtyStackingContainerZOrderLists dirties the lists l appears in: those of
// its nearest ancestor stacking container.
func (l *Layer) DirtyStackingContainerZOrderLists() {
	if sc := l.ancestorStackingContainer(); sc != nil {
		sc.DirtyZOrderLists()
	}
}

// DirtyNormalFlowList drops l's normal-flow list.
func (l *Layer) DirtyNormalFlowList() {
	l.assertListMutationAllowed()
	l.normalFlowList = nil
	l.normalFlowListDirty = true
}

func (l *Layer) clearZOrderLists() {
	l.assertListMutationAllowed()
	l.posZOrderList = nil
	l.negZOrderList = nil
}

func (l *Layer) ancestorStackingContainer() *Layer {
	if l.isReflection {
		return nil
	}
	for p := l.Parent(); p != nil; p = p.Parent() {
		if p.IsStackingContainer() {
			return p
		}
	}
	return nil
}
