// Package scene describes layer trees as data. A scene is a tree of boxes
// with fixed geometry and the style properties the layer tree reads; it can
// be written as YAML, JSON or a JavaScript program.
package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Scene is a viewport and the root box painted into it.
type Scene struct {
	Width      int    `yaml:"width" json:"width"`
	Height     int    `yaml:"height" json:"height"`
	Background string `yaml:"background,omitempty" json:"background,omitempty"`
	Root       *Node  `yaml:"root" json:"root"`
}

// Node is one box. Coordinates are relative to the parent box.
type Node struct {
	Name   string  `yaml:"name" json:"name"`
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`

	Background   string  `yaml:"background,omitempty" json:"background,omitempty"`
	Border       float64 `yaml:"border,omitempty" json:"border,omitempty"`
	BorderColor  string  `yaml:"border_color,omitempty" json:"border_color,omitempty"`
	BorderRadius float64 `yaml:"border_radius,omitempty" json:"border_radius,omitempty"`
	Outline      float64 `yaml:"outline,omitempty" json:"outline,omitempty"`
	OutlineColor string  `yaml:"outline_color,omitempty" json:"outline_color,omitempty"`
	Label        string  `yaml:"label,omitempty" json:"label,omitempty"`

	Position string    `yaml:"position,omitempty" json:"position,omitempty"`
	Left     float64   `yaml:"left,omitempty" json:"left,omitempty"`
	Top      float64   `yaml:"top,omitempty" json:"top,omitempty"`
	ZIndex   *int      `yaml:"z_index,omitempty" json:"z_index,omitempty"`
	Opacity  *float64  `yaml:"opacity,omitempty" json:"opacity,omitempty"`
	Hidden   bool      `yaml:"hidden,omitempty" json:"hidden,omitempty"`
	Overflow string    `yaml:"overflow,omitempty" json:"overflow,omitempty"`
	Clip     []float64 `yaml:"clip,omitempty" json:"clip,omitempty"`

	Transform       string    `yaml:"transform,omitempty" json:"transform,omitempty"`
	TransformOrigin []float64 `yaml:"transform_origin,omitempty" json:"transform_origin,omitempty"`
	Depth           float64   `yaml:"depth,omitempty" json:"depth,omitempty"`
	Preserve3D      bool      `yaml:"preserve_3d,omitempty" json:"preserve_3d,omitempty"`

	Filters    []string    `yaml:"filters,omitempty" json:"filters,omitempty"`
	Mask       *Mask       `yaml:"mask,omitempty" json:"mask,omitempty"`
	Reflection *Reflection `yaml:"reflection,omitempty" json:"reflection,omitempty"`

	// Content is the layout overflow size; it defaults to the box size.
	Content []float64 `yaml:"content,omitempty" json:"content,omitempty"`
	Columns *Columns  `yaml:"columns,omitempty" json:"columns,omitempty"`
	Scroll  []float64 `yaml:"scroll,omitempty" json:"scroll,omitempty"`

	Direction           string `yaml:"direction,omitempty" json:"direction,omitempty"`
	FlippedBlocks       bool   `yaml:"flipped_blocks,omitempty" json:"flipped_blocks,omitempty"`
	Resize              bool   `yaml:"resize,omitempty" json:"resize,omitempty"`
	CompositedScrolling bool   `yaml:"composited_scrolling,omitempty" json:"composited_scrolling,omitempty"`
	Structural          bool   `yaml:"structural,omitempty" json:"structural,omitempty"`

	Children []*Node `yaml:"children,omitempty" json:"children,omitempty"`
}

// Mask is an alpha mask: a rect (box-local, defaulting to the whole box)
// filled at Alpha.
type Mask struct {
	Rect  []float64 `yaml:"rect,omitempty" json:"rect,omitempty"`
	Alpha float64   `yaml:"alpha" json:"alpha"`
}

// Reflection mirrors the box across one of its edges.
type Reflection struct {
	Direction string  `yaml:"direction" json:"direction"`
	Offset    float64 `yaml:"offset,omitempty" json:"offset,omitempty"`
}

// Columns splits the box's content into fixed-size columns.
type Columns struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
	Count  int     `yaml:"count" json:"count"`
	Gap    float64 `yaml:"gap,omitempty" json:"gap,omitempty"`
}

// Load reads a scene file, choosing the format by extension.
func Load(path string) (*Scene, error) {
	return LoadWithLogger(path, nil)
}

// LoadWithLogger is Load with console output of script scenes sent to logger.
func LoadWithLogger(path string, logger *zap.Logger) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	var s *Scene
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		s, err = ParseYAML(data)
	case ".json":
		s, err = ParseJSON(data)
	case ".js":
		s, err = RunScript(path, string(data), logger)
	default:
		return nil, fmt.Errorf("scene %s: unknown format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return s, nil
}

// ParseYAML decodes and validates a YAML scene.
func ParseYAML(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseJSON decodes and validates a JSON scene.
func ParseJSON(data []byte) (*Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// EncodeJSON returns s as indented JSON.
func (s *Scene) EncodeJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Validate checks the scene for values the builder cannot use.
func (s *Scene) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("viewport %dx%d must be positive", s.Width, s.Height)
	}
	if s.Root == nil {
		return fmt.Errorf("scene has no root")
	}
	if s.Background != "" {
		if _, ok := ParseColor(s.Background); !ok {
			return fmt.Errorf("background: bad color %q", s.Background)
		}
	}
	seen := map[string]bool{}
	return s.Root.validate("root", seen)
}

func (n *Node) validate(path string, seen map[string]bool) error {
	if n.Name == "" {
		return fmt.Errorf("%s: node has no name", path)
	}
	path = path + "/" + n.Name
	if seen[n.Name] {
		return fmt.Errorf("%s: duplicate name", path)
	}
	seen[n.Name] = true
	if n.Width < 0 || n.Height < 0 {
		return fmt.Errorf("%s: negative size", path)
	}
	for field, c := range map[string]string{"background": n.Background, "border_color": n.BorderColor, "outline_color": n.OutlineColor} {
		if c == "" {
			continue
		}
		if _, ok := ParseColor(c); !ok {
			return fmt.Errorf("%s: %s: bad color %q", path, field, c)
		}
	}
	if _, err := parsePosition(n.Position); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if _, err := parseOverflow(n.Overflow); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if _, err := parseDirection(n.Direction); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if n.Opacity != nil && (*n.Opacity < 0 || *n.Opacity > 1) {
		return fmt.Errorf("%s: opacity %g out of range", path, *n.Opacity)
	}
	for name, v := range map[string][]float64{"clip": n.Clip, "content": n.Content, "scroll": n.Scroll, "transform_origin": n.TransformOrigin} {
		if v != nil && len(v) != wantLen(name) {
			return fmt.Errorf("%s: %s needs %d numbers, got %d", path, name, wantLen(name), len(v))
		}
	}
	if n.Transform != "" {
		if _, err := ParseTransform(n.Transform, n.Width, n.Height, n.TransformOrigin); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	if _, err := parseFilters(n.Filters); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if n.Reflection != nil {
		if _, err := parseReflectDirection(n.Reflection.Direction); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	if n.Mask != nil && n.Mask.Rect != nil && len(n.Mask.Rect) != 4 {
		return fmt.Errorf("%s: mask rect needs 4 numbers", path)
	}
	if c := n.Columns; c != nil && (c.Width <= 0 || c.Height <= 0 || c.Count <= 0) {
		return fmt.Errorf("%s: columns need positive width, height and count", path)
	}
	for _, child := range n.Children {
		if err := child.validate(path, seen); err != nil {
			return err
		}
	}
	return nil
}

func wantLen(field string) int {
	if field == "clip" {
		return 4
	}
	return 2
}

// Walk visits n and its descendants in document order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
