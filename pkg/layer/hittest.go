package layer

import (
	"math"

	"l14layers/pkg/geom"
)

// HitTestRequestType is a set of hit-test options.
type HitTestRequestType uint

const (
	HitTestReadOnly HitTestRequestType = 1 << iota
	// HitTestIgnoreClipping probes content hidden by overflow clips too.
	HitTestIgnoreClipping
	// HitTestSkipOverflowControls ignores scrollbars and resizers.
	HitTestSkipOverflowControls
)

// HitTestRequest describes one hit test.
type HitTestRequest struct {
	Type HitTestRequestType
}

func (r HitTestRequest) IgnoreClipping() bool {
	return r.Type&HitTestIgnoreClipping != 0
}

func (r HitTestRequest) skipOverflowControls() bool {
	return r.Type&HitTestSkipOverflowControls != 0
}

// HitTestLocation is a point, or an area for rect-based tests, in some
// layer's coordinate space.
type HitTestLocation struct {
	Point     geom.Point
	Rect      geom.Rect
	RectBased bool
}

// NewPointLocation returns a location probing a single point.
func NewPointLocation(p geom.Point) HitTestLocation {
	return HitTestLocation{Point: p, Rect: geom.R(p.X, p.Y, 1, 1)}
}

// NewRectLocation returns a rect-based location centred on r.
func NewRectLocation(r geom.Rect) HitTestLocation {
	return HitTestLocation{
		Point:     geom.Pt(r.X+r.Width/2, r.Y+r.Height/2),
		Rect:      r,
		RectBased: true,
	}
}

// Translate moves the location by d.
func (loc HitTestLocation) Translate(d geom.Point) HitTestLocation {
	loc.Point = loc.Point.Add(d)
	loc.Rect = loc.Rect.Translate(d)
	return loc
}

// Transform maps the location through t.
func (loc HitTestLocation) Transform(t geom.Transform) HitTestLocation {
	loc.Point = t.Apply(loc.Point)
	loc.Rect = t.MapRect(loc.Rect)
	return loc
}

// Intersects reports whether the location touches r.
func (loc HitTestLocation) Intersects(r geom.Rect) bool {
	if loc.RectBased {
		return r.Intersects(loc.Rect)
	}
	return r.Contains(loc.Point)
}

// HitTestResult collects what a hit test found.
type HitTestResult struct {
	location   HitTestLocation
	layer      *Layer
	localPoint geom.Point
	depth      float64
	scrollbar  Scrollbar
	onResizer  bool

	rectBasedLayers []*Layer
}

// NewHitTestResult returns an empty result for loc.
func NewHitTestResult(loc HitTestLocation) *HitTestResult {
	return &HitTestResult{location: loc}
}

// Layer is the front-most layer hit, or nil.
func (r *HitTestResult) Layer() *Layer { return r.layer }

// LocalPoint is the hit point in the hit layer's local coordinates.
func (r *HitTestResult) LocalPoint() geom.Point { return r.localPoint }

// Scrollbar is the scrollbar hit, if any.
func (r *HitTestResult) Scrollbar() Scrollbar { return r.scrollbar }

// IsOverResizer reports whether the resize grip was hit.
func (r *HitTestResult) IsOverResizer() bool { return r.onResizer }

func (r *HitTestResult) IsRectBased() bool { return r.location.RectBased }

// RectBasedLayers lists every layer a rect-based test touched, front to back.
func (r *HitTestResult) RectBasedLayers() []*Layer { return r.rectBasedLayers }

func (r *HitTestResult) setInner(l *Layer, local geom.Point, depth float64) {
	r.layer = l
	r.localPoint = local
	r.depth = depth
	if r.location.RectBased {
		r.addRectBasedLayer(l)
	}
}

func (r *HitTestResult) addRectBasedLayer(l *Layer) {
	for _, seen := range r.rectBasedLayers {
		if seen == l {
			return
		}
	}
	r.rectBasedLayers = append(r.rectBasedLayers, l)
}

// Append merges o into r: r keeps its inner layer if it has one and gains
// every rect-based layer of o.
func (r *HitTestResult) Append(o *HitTestResult) {
	if r.layer == nil && o.layer != nil {
		r.layer, r.localPoint, r.depth = o.layer, o.localPoint, o.depth
		r.scrollbar, r.onResizer = o.scrollbar, o.onResizer
	}
	for _, l := range o.rectBasedLayers {
		r.addRectBasedLayer(l)
	}
}

func (r *HitTestResult) copyInner(o *HitTestResult) {
	r.layer, r.localPoint, r.depth = o.layer, o.localPoint, o.depth
	r.scrollbar, r.onResizer = o.scrollbar, o.onResizer
}

// hitTransformState carries the depth of the current plane inside a
// preserve-3d group.
type hitTransformState struct {
	z float64
}

func (ts *hitTransformState) depth() float64 {
	if ts == nil {
		return 0
	}
	return ts.z
}

// HitTest finds the front-most layer under loc, which is in l's local
// coordinates, and fills result. It reports whether anything was hit.
func (l *Layer) HitTest(req HitTestRequest, loc HitTestLocation, result *HitTestResult) bool {
	hit := l.hitTestLayer(l, req, result, geom.InfiniteRect(), loc, false, nil, nil)
	return hit != nil
}

func (l *Layer) hitTestLayer(root *Layer, req HitTestRequest, result *HitTestResult, hitRect geom.Rect,
	loc HitTestLocation, appliedTransform bool, ts *hitTransformState, zOffset *float64) *Layer {
	l.UpdateDescendantDependentFlags()
	if !l.isSelfPaintingLayer && !l.hasSelfPaintingLayerDescendant {
		return nil
	}
	if l.transform != nil && !appliedTransform {
		return l.hitTestLayerByApplyingTransform(root, req, result, hitRect, loc, ts, zOffset)
	}
	l.UpdateLayerListsIfNeeded()

	// Inside a preserve-3d group every candidate is compared by depth
	// before the nearest one wins.
	localZ := math.Inf(-1)
	depthSort := false
	var zForDescendants, zForContents *float64
	if l.Style().Preserve3D {
		depthSort = true
		zForDescendants = zOffset
		if zForDescendants == nil {
			zForDescendants = &localZ
		}
		zForContents = zForDescendants
	} else if zOffset != nil {
		zForContents = zOffset
	}

	ctx := ClipRectsContext{Root: root, Type: RootRelativeClipRects}
	if req.IgnoreClipping() {
		ctx.Type = TemporaryClipRects
		ctx.RespectOverflowClip = IgnoreOverflowClip
	}
	offset := l.ConvertToLayerCoords(root, geom.Point{})
	frags := l.CollectFragments(ctx, hitRect, &offset, nil)

	if !req.skipOverflowControls() && l.hasOverflowControls() {
		for i := len(frags) - 1; i >= 0; i-- {
			f := frags[i]
			if !loc.Intersects(f.BackgroundRect.Rect) {
				continue
			}
			local := loc.Point.Sub(f.PaginationOffset).Sub(offset)
			if l.hitTestOverflowControls(result, local, ts.depth()) {
				return l
			}
		}
	}

	var candidate *Layer
	take := func(hit *Layer) bool {
		if hit == nil {
			return false
		}
		if depthSort || candidate == nil {
			candidate = hit
		}
		return !depthSort && !loc.RectBased
	}

	if take(l.hitTestList(l.posZOrderList, root, req, result, hitRect, loc, ts, zForDescendants, depthSort)) {
		return candidate
	}
	if take(l.hitTestList(l.normalFlowList, root, req, result, hitRect, loc, ts, zForDescendants, depthSort)) {
		return candidate
	}
	if take(l.hitTestContents(frags, req, result, loc, HitTestForeground, offset, ts, zForContents, depthSort)) {
		return candidate
	}
	if take(l.hitTestList(l.negZOrderList, root, req, result, hitRect, loc, ts, zForDescendants, depthSort)) {
		return candidate
	}
	if take(l.hitTestContents(frags, req, result, loc, HitTestBlockBackground, offset, ts, zForContents, depthSort)) {
		return candidate
	}
	return candidate
}

// hitTestContents probes l's own renderer in one phase across its fragments.
func (l *Layer) hitTestContents(frags Fragments, req HitTestRequest, result *HitTestResult, loc HitTestLocation,
	phase HitTestPhase, offset geom.Point, ts *hitTransformState, zOffset *float64, depthSort bool) *Layer {
	if !l.isSelfPaintingLayer || !l.HasVisibleContent() {
		return nil
	}
	temp := NewHitTestResult(result.location)
	hit := false
	for i := len(frags) - 1; i >= 0 && !hit; i-- {
		f := frags[i]
		clip := f.BackgroundRect
		if phase == HitTestForeground {
			clip = f.ForegroundRect
		}
		if !req.IgnoreClipping() && !loc.Intersects(clip.Rect) {
			continue
		}
		flow := loc.Translate(f.PaginationOffset.Scale(-1))
		if !f.PaginationClip.IsInfinite() && !flow.Intersects(f.PaginationClip) {
			continue
		}
		local := flow.Translate(offset.Scale(-1))
		if l.renderer.HitTest(phase, local) {
			temp.setInner(l, local.Point, ts.depth())
			hit = true
		}
	}
	if !hit {
		return nil
	}
	if !isHitCandidate(temp, depthSort, zOffset) {
		return nil
	}
	if loc.RectBased {
		result.Append(temp)
	} else {
		result.copyInner(temp)
	}
	return l
}

// hitTestList probes a child list front to back.
func (l *Layer) hitTestList(list []*Layer, root *Layer, req HitTestRequest, result *HitTestResult, hitRect geom.Rect,
	loc HitTestLocation, ts *hitTransformState, zOffset *float64, depthSort bool) *Layer {
	if len(list) == 0 {
		return nil
	}
	restore := l.forbidListMutation()
	defer restore()

	var found *Layer
	for i := len(list) - 1; i >= 0; i-- {
		temp := NewHitTestResult(result.location)
		hit := list[i].hitTestLayer(root, req, temp, hitRect, loc, false, ts, zOffset)
		if loc.RectBased {
			result.Append(temp)
		}
		if hit == nil || !isHitCandidate(temp, depthSort, zOffset) {
			continue
		}
		if !loc.RectBased {
			result.copyInner(temp)
		}
		if depthSort || found == nil {
			found = hit
		}
		if !depthSort && !loc.RectBased {
			break
		}
	}
	return found
}

// isHitCandidate accepts a hit outright outside depth sorting; inside it,
// only a hit nearer than the best so far counts, and becomes the best.
func isHitCandidate(hit *HitTestResult, depthSort bool, zOffset *float64) bool {
	if !depthSort || zOffset == nil {
		return true
	}
	if hit.depth > *zOffset {
		*zOffset = hit.depth
		return true
	}
	return false
}

// hitTestLayerByApplyingTransform maps loc into l's transformed space and
// tests l as the new root.
func (l *Layer) hitTestLayerByApplyingTransform(root *Layer, req HitTestRequest, result *HitTestResult, hitRect geom.Rect,
	loc HitTestLocation, ts *hitTransformState, zOffset *float64) *Layer {
	offset := l.ConvertToLayerCoords(root, geom.Point{})
	m := geom.Translation(offset.X, offset.Y).Multiply(*l.transform)
	inv, ok := m.Inverse()
	if !ok {
		return nil
	}

	// Flattened unless the parent keeps its children in 3D.
	z := ts.depth()
	if p := l.Parent(); p != nil && p.Style().Preserve3D {
		z += l.transform.TZ
	}
	state := &hitTransformState{z: z}

	ctx := ClipRectsContext{Root: root, Type: RootRelativeClipRects}
	if req.IgnoreClipping() {
		ctx.Type = TemporaryClipRects
		ctx.RespectOverflowClip = IgnoreOverflowClip
	}
	frags := l.collectFragments(ctx, hitRect, &offset, nil, true)
	for i := len(frags) - 1; i >= 0; i-- {
		f := frags[i]
		if !req.IgnoreClipping() && !loc.Intersects(f.BackgroundRect.Rect) {
			continue
		}
		flow := loc.Translate(f.PaginationOffset.Scale(-1))
		if !f.PaginationClip.IsInfinite() && !flow.Intersects(f.PaginationClip) {
			continue
		}
		local := flow.Transform(inv)
		localHitRect := geom.InfiniteRect()
		if !hitRect.IsInfinite() {
			localHitRect = inv.MapRect(hitRect)
		}
		if hit := l.hitTestLayer(l, req, result, localHitRect, local, true, state, zOffset); hit != nil {
			return hit
		}
	}
	return nil
}
