// Package layer maintains the layer tree: the paint-order groups laid over a
// renderer tree. It computes and caches clip rects, keeps z-order lists per
// stacking container, tracks scroll offsets, and walks the tree to paint
// back-to-front and hit-test front-to-back.
//
// A Tree and everything reachable from it belong to one goroutine.
package layer

import (
	"go.uber.org/zap"
)

const noIndex int32 = -1

// Handle addresses a layer slot in a Tree. A handle to a destroyed layer
// resolves to nil even if the slot was reused.
type Handle struct {
	index int32
	gen   uint32
}

// IsZero reports whether h was never assigned.
func (h Handle) IsZero() bool { return h.gen == 0 }

// Options configures a Tree.
type Options struct {
	// DebugAssertions enables the z-order list mutation guard.
	DebugAssertions bool
	// ScrollbarHost creates scrollbars for scrollable layers. Nil means no
	// scrollbars are ever created.
	ScrollbarHost ScrollbarHost
	Logger        *zap.Logger
}

// Tree is an arena of layers. Parent, child and sibling links are slot
// indices, so a layer never holds a pointer back to its owner.
type Tree struct {
	slots []*Layer
	gens  []uint32
	free  []int32
	live  int

	root   *Layer
	opts   Options
	logger *zap.Logger
}

// NewTree creates an empty tree.
func NewTree(opts Options) *Tree {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tree{opts: opts, logger: logger.Named("layers")}
}

// CreateLayer allocates a detached layer for r.
func (t *Tree) CreateLayer(r Renderer) *Layer {
	assertf(r != nil, "CreateLayer with nil renderer")
	var idx int32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		idx = int32(len(t.slots))
		t.slots = append(t.slots, nil)
		t.gens = append(t.gens, 0)
	}
	t.gens[idx]++
	l := newLayer(t, idx, r)
	t.slots[idx] = l
	t.live++
	l.styleChanged(nil)
	return l
}

func (t *Tree) at(i int32) *Layer {
	if i == noIndex {
		return nil
	}
	return t.slots[i]
}

// Lookup resolves a handle. It returns nil for destroyed layers.
func (t *Tree) Lookup(h Handle) *Layer {
	if h.IsZero() || int(h.index) >= len(t.slots) || t.gens[h.index] != h.gen {
		return nil
	}
	return t.slots[h.index]
}

// Len returns the number of live layers.
func (t *Tree) Len() int { return t.live }

// SetRoot makes l the root of the tree. l must not have a parent.
func (t *Tree) SetRoot(l *Layer) {
	assertf(l == nil || (l.tree == t && l.parent == noIndex), "root layer must be a detached layer of this tree")
	t.root = l
	if l != nil {
		l.DirtyZOrderLists()
		l.dirtyAncestorChainDescendantFlags()
	}
}

// Root returns the root layer.
func (t *Tree) Root() *Layer { return t.root }

// Destroy removes l from its parent and frees l, its descendants and its
// reflection.
func (t *Tree) Destroy(l *Layer) {
	if l == nil || l.destroyed {
		return
	}
	if p := l.Parent(); p != nil && !l.isReflection {
		p.RemoveChild(l)
	}
	if t.root == l {
		t.root = nil
	}
	t.destroySubtree(l)
}

func (t *Tree) destroySubtree(l *Layer) {
	for c := l.FirstChild(); c != nil; {
		next := c.NextSibling()
		c.parent, c.prev, c.next = noIndex, noIndex, noIndex
		t.destroySubtree(c)
		c = next
	}
	if l.reflection != nil {
		t.destroySubtree(l.reflection)
		l.reflection = nil
	}
	l.destroyScrollbars()
	l.posZOrderList, l.negZOrderList, l.normalFlowList = nil, nil, nil
	l.destroyed = true
	t.slots[l.index] = nil
	t.gens[l.index]++
	t.free = append(t.free, l.index)
	t.live--
}

// UpdateLayerPositionsFlags tunes UpdateLayerPositionsAfterLayout.
type UpdateLayerPositionsFlags uint

const (
	UpdatePagination UpdateLayerPositionsFlags = 1 << iota
	UpdateScrollDimensions

	UpdateLayerPositionsDefault = UpdatePagination | UpdateScrollDimensions
)

// UpdateLayerPositionsAfterLayout refreshes positions, scroll dimensions,
// scrollbars, pagination and repaint rects of the whole tree. Call it after
// every layout pass.
func (t *Tree) UpdateLayerPositionsAfterLayout(flags UpdateLayerPositionsFlags) {
	if t.root == nil {
		return
	}
	t.root.updateLayerPositions(flags)
	t.logger.Debug("updated layer positions after layout", zap.Int("layers", t.live))
}
