package layer

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes one line per layer, indented by depth, with the flags and
// z-order lists that decide paint order.
func (t *Tree) Dump(w io.Writer) error {
	if t.root == nil {
		_, err := fmt.Fprintln(w, "(empty)")
		return err
	}
	var b strings.Builder
	t.root.dump(&b, 0)
	_, err := io.WriteString(w, b.String())
	return err
}

func (l *Layer) dump(b *strings.Builder, depth int) {
	l.UpdateLayerListsIfNeeded()
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "%s%s [%v,%v %vx%v]", indent, l.Name(), l.location.X, l.location.Y, l.size.Width, l.size.Height)

	var flags []string
	if l.IsStackingContext() {
		flags = append(flags, "stacking-context")
	} else if l.IsStackingContainer() {
		flags = append(flags, "stacking-container")
	}
	if l.isNormalFlowOnly {
		flags = append(flags, "normal-flow")
	}
	if !l.isSelfPaintingLayer {
		flags = append(flags, "not-self-painting")
	}
	if st := l.Style(); st.HasZIndex {
		flags = append(flags, fmt.Sprintf("z=%d", st.ZIndex))
	}
	if st := l.Style(); st.IsPositioned() {
		flags = append(flags, st.Position.String())
	}
	if !l.HasVisibleContent() {
		flags = append(flags, "hidden")
	}
	if l.transform != nil {
		flags = append(flags, "transform")
	}
	if l.paginator != nil {
		flags = append(flags, "paginates")
	}
	if l.IsPaginated() {
		flags = append(flags, "paginated")
	}
	if !l.scrollOffset.IsZero() {
		flags = append(flags, "scroll="+l.scrollOffset.String())
	}
	if l.reflection != nil {
		flags = append(flags, "reflected")
	}
	if len(flags) > 0 {
		fmt.Fprintf(b, " %s", strings.Join(flags, " "))
	}
	b.WriteByte('\n')

	if l.IsStackingContainer() && (len(l.negZOrderList) > 0 || len(l.posZOrderList) > 0) {
		fmt.Fprintf(b, "%s  neg=%s pos=%s\n", indent, layerNames(l.negZOrderList), layerNames(l.posZOrderList))
	}
	for c := l.FirstChild(); c != nil; c = c.NextSibling() {
		c.dump(b, depth+1)
	}
}

func layerNames(list []*Layer) string {
	names := make([]string, len(list))
	for i, l := range list {
		names[i] = l.Name()
	}
	return "[" + strings.Join(names, " ") + "]"
}
