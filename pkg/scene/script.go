package scene

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"l14layers/pkg/js"
)

// scriptTimeout bounds how long a scene script may run.
const scriptTimeout = 5 * time.Second

// prelude defines box(name, x, y, width, height, props, children), which
// returns a node object.
const prelude = `
function box(name, x, y, width, height, props, children) {
	var n = Object.assign({}, props || {});
	n.name = name;
	n.x = x;
	n.y = y;
	n.width = width;
	n.height = height;
	if (children) n.children = children;
	return n;
}
`

// RunScript runs a JavaScript scene program. The program passes its scene
// object to the global scene(); console output goes to logger.
func RunScript(name, src string, logger *zap.Logger) (*Scene, error) {
	ctx, cancel := context.WithTimeout(context.Background(), scriptTimeout)
	defer cancel()
	return RunScriptContext(ctx, name, src, logger)
}

// RunScriptContext is RunScript with a caller-controlled deadline.
func RunScriptContext(ctx context.Context, name, src string, logger *zap.Logger) (*Scene, error) {
	engine := js.New(logger)
	result, err := engine.Capture("scene")
	if err != nil {
		return nil, err
	}
	if err := engine.Run(ctx, "prelude.js", prelude); err != nil {
		return nil, err
	}
	if err := engine.Run(ctx, name, src); err != nil {
		return nil, err
	}
	v, ok := result()
	if !ok {
		return nil, fmt.Errorf("script %s never called scene()", name)
	}

	// The exported value is plain maps and slices; round-trip it through
	// JSON to get the typed scene.
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("script %s: encode scene: %w", name, err)
	}
	return ParseJSON(data)
}
