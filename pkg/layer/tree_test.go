package layer

import (
	"bytes"
	"strings"
	"testing"

	"l14layers/pkg/geom"
)

func TestHandlesGoStaleAfterDestroy(t *testing.T) {
	f := newFixture(t, Options{})
	root := f.add(nil, "R", geom.R(0, 0, 100, 100), nil)
	a := f.add(root, "A", geom.R(0, 0, 10, 10), nil)
	f.add(a, "A1", geom.R(0, 0, 5, 5), nil)
	h := a.Handle()

	if got := f.tree.Lookup(h); got != a {
		t.Fatalf("Lookup before destroy = %v, want A", got)
	}
	if f.tree.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", f.tree.Len())
	}

	f.tree.Destroy(a)
	if got := f.tree.Lookup(h); got != nil {
		t.Errorf("Lookup after destroy = %v, want nil", got.Name())
	}
	if root.FirstChild() != nil {
		t.Errorf("destroyed layer still linked under root")
	}
	if f.tree.Len() != 1 {
		t.Errorf("Len() after destroy = %d, want 1", f.tree.Len())
	}

	b := f.add(root, "B", geom.R(0, 0, 10, 10), nil)
	if got := f.tree.Lookup(h); got != nil {
		t.Errorf("stale handle resolved to %s after slot reuse", got.Name())
	}
	if got := f.tree.Lookup(b.Handle()); got != b {
		t.Errorf("Lookup(B) = %v, want B", got)
	}
	if (Handle{}).IsZero() != true || f.tree.Lookup(Handle{}) != nil {
		t.Errorf("zero handle should resolve to nil")
	}
}

func TestAddChildBefore(t *testing.T) {
	f := newFixture(t, Options{})
	root := f.add(nil, "R", geom.R(0, 0, 100, 100), nil)
	a := f.add(root, "A", geom.R(0, 0, 10, 10), nil)
	c := f.add(root, "C", geom.R(0, 0, 10, 10), nil)
	b := f.tree.CreateLayer(&box{name: "B", style: NewStyle()})
	root.AddChild(b, c)
	first := f.tree.CreateLayer(&box{name: "first", style: NewStyle()})
	root.AddChild(first, a)

	want := []string{"first", "A", "B", "C"}
	if got := names(root.Children()); !equalStrings(got, want) {
		t.Fatalf("children = %v, want %v", got, want)
	}
	if root.LastChild() != c || c.PreviousSibling() != b || first.PreviousSibling() != nil {
		t.Errorf("sibling links are inconsistent")
	}
	root.UpdateLayerListsIfNeeded()
	if got := names(root.NormalFlowList()); !equalStrings(got, want) {
		t.Errorf("normal flow = %v, want %v", got, want)
	}
}

func TestAddChildRejectsCycles(t *testing.T) {
	f := newFixture(t, Options{})
	root := f.add(nil, "R", geom.R(0, 0, 100, 100), nil)
	a := f.add(root, "A", geom.R(0, 0, 10, 10), nil)
	defer func() {
		if recover() == nil {
			t.Errorf("adding the root under its descendant did not panic")
		}
	}()
	a.AddChild(root, nil)
}

func TestRemovedLayerBecomesItsOwnStackingContainer(t *testing.T) {
	f := newFixture(t, Options{})
	root := f.add(nil, "R", geom.R(0, 0, 100, 100), nil)
	a := f.add(root, "A", geom.R(0, 0, 10, 10), nil)
	if !a.IsNormalFlowOnly() {
		t.Fatalf("static child should be normal-flow-only")
	}
	root.RemoveChild(a)
	if a.IsNormalFlowOnly() || !a.IsStackingContainer() {
		t.Errorf("detached layer should be a stacking container")
	}
	root.AddChild(a, nil)
	if !a.IsNormalFlowOnly() {
		t.Errorf("reattached static layer should be normal-flow-only again")
	}
}

func TestDumpListsFlagsAndZOrder(t *testing.T) {
	f := newFixture(t, Options{})
	root := f.add(nil, "R", geom.R(0, 0, 100, 100), nil)
	f.add(root, "neg", geom.R(5, 5, 10, 10), positioned(zIndex(-2)))
	f.add(root, "plain", geom.R(0, 0, 10, 10), nil)
	f.layout()

	var buf bytes.Buffer
	if err := f.tree.Dump(&buf); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"R [0,0 100x100] stacking-context",
		"  neg [5,5 10x10] stacking-context z=-2 absolute",
		"  plain [0,0 10x10] normal-flow",
		"neg=[neg] pos=[]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
}
