// Package js runs scene scripts in a goja runtime.
package js

import (
	"context"
	"errors"
	"fmt"

	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// ErrInterrupted is returned when a script is stopped by its context.
var ErrInterrupted = errors.New("script interrupted")

// Engine executes JavaScript with a console bound to a zap logger.
type Engine struct {
	vm     *goja.Runtime
	logger *zap.Logger
}

// New creates a new JS engine with a fresh goja runtime. A nil logger
// discards console output.
func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	vm := goja.New()
	e := &Engine{vm: vm, logger: logger.Named("js")}

	c := &consoleAPI{logger: e.logger}
	c.register(vm)

	return e
}

// Set binds a Go value or function to a global name.
func (e *Engine) Set(name string, value any) error {
	if err := e.vm.Set(name, value); err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	return nil
}

// Run executes src. Cancelling ctx interrupts a running script.
func (e *Engine) Run(ctx context.Context, name, src string) error {
	e.vm.ClearInterrupt()
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ErrInterrupted)
		case <-done:
		}
	}()

	if _, err := e.vm.RunScript(name, src); err != nil {
		var ie *goja.InterruptedError
		if errors.As(err, &ie) {
			e.vm.ClearInterrupt()
			return fmt.Errorf("script %s: %w", name, ErrInterrupted)
		}
		return fmt.Errorf("script %s: %w", name, err)
	}
	return nil
}

// Capture registers a global function name(value) that records the exported
// value of its argument. The returned func yields the last value recorded.
func (e *Engine) Capture(name string) (func() (any, bool), error) {
	var (
		value any
		set   bool
	)
	err := e.Set(name, func(call goja.FunctionCall) goja.Value {
		value = call.Argument(0).Export()
		set = true
		return goja.Undefined()
	})
	if err != nil {
		return nil, err
	}
	return func() (any, bool) { return value, set }, nil
}
