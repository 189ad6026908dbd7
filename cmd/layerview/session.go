package main

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"l14layers/pkg/geom"
	"l14layers/pkg/layer"
	"l14layers/pkg/scene"
)

// session holds the scene being viewed. It has no display dependencies so
// the viewer's behaviour can be tested headless.
type session struct {
	opts   layer.Options
	logger *zap.Logger

	path  string
	built *scene.Built
}

func newSession(opts layer.Options, logger *zap.Logger) *session {
	return &session{opts: opts, logger: logger}
}

// load replaces the current scene with the one at path.
func (s *session) load(path string) error {
	sc, err := scene.LoadWithLogger(path, s.logger)
	if err != nil {
		return err
	}
	b, err := scene.Build(sc, s.opts)
	if err != nil {
		return fmt.Errorf("build %s: %w", path, err)
	}
	s.path, s.built = path, b
	s.logger.Info("loaded scene", zap.String("scene", path), zap.Int("layers", b.Tree.Len()))
	return nil
}

// image paints the current scene. It returns nil before anything is loaded.
func (s *session) image() image.Image {
	if s.built == nil {
		return nil
	}
	return s.built.Render().Image()
}

// tap describes what lies under p.
func (s *session) tap(p geom.Point) string {
	if s.built == nil {
		return "no scene"
	}
	r := s.built.HitTest(layer.HitTestRequest{}, p)
	l := r.Layer()
	if l == nil {
		return fmt.Sprintf("%v: no hit", p)
	}
	msg := fmt.Sprintf("%v: %s at %v", p, l.Name(), r.LocalPoint())
	if sb := r.Scrollbar(); sb != nil {
		msg += " (scrollbar)"
	} else if r.IsOverResizer() {
		msg += " (resizer)"
	}
	return msg
}

// scroll scrolls whatever is under p by delta, handing any remainder up to
// scrollable ancestors. It reports whether anything moved.
func (s *session) scroll(p, delta geom.Point) (bool, string) {
	if s.built == nil {
		return false, "no scene"
	}
	l := s.built.HitTest(layer.HitTestRequest{Type: layer.HitTestSkipOverflowControls}, p).Layer()
	if l == nil {
		return false, fmt.Sprintf("%v: nothing to scroll", p)
	}
	before := s.offsets()
	l.ScrollByRecursively(delta)
	moved := ""
	s.built.Scene.Root.Walk(func(n *scene.Node) {
		if l := s.built.Layer(n.Name); moved == "" && l != nil && l.ScrollOffset() != before[n.Name] {
			moved = fmt.Sprintf("%s scrolled to %v", n.Name, l.ScrollOffset())
		}
	})
	if moved == "" {
		return false, fmt.Sprintf("%s: cannot scroll further", l.Name())
	}
	return true, moved
}

// offsets snapshots every layer's scroll offset by name.
func (s *session) offsets() map[string]geom.Point {
	out := make(map[string]geom.Point)
	s.built.Scene.Root.Walk(func(n *scene.Node) {
		if l := s.built.Layer(n.Name); l != nil {
			out[n.Name] = l.ScrollOffset()
		}
	})
	return out
}
