package js

import (
	"strings"

	"github.com/dop251/goja"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

// consoleAPI is the console object scene scripts see. Each method writes one
// entry to the engine's logger at the matching level, so script output lands
// in the same log as the tool that ran the script.
type consoleAPI struct {
	logger *zap.Logger
}

func (c *consoleAPI) register(vm *goja.Runtime) {
	console := vm.NewObject()
	for name, write := range map[string]func(string, ...zap.Field){
		"debug": c.logger.Debug,
		"log":   c.logger.Info,
		"info":  c.logger.Info,
		"warn":  c.logger.Warn,
		"error": c.logger.Error,
	} {
		console.Set(name, func(call goja.FunctionCall) goja.Value {
			write(formatArgs(call.Arguments))
			return goja.Undefined()
		})
	}
	vm.Set("console", console)
}

// formatArgs joins the arguments with spaces. Plain objects and arrays are
// written as JSON rather than "[object Object]".
func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = formatValue(arg)
	}
	return strings.Join(parts, " ")
}

func formatValue(v goja.Value) string {
	obj, ok := v.(*goja.Object)
	if !ok {
		return v.String()
	}
	if _, isFn := goja.AssertFunction(v); isFn || obj.ClassName() == "Error" {
		return v.String()
	}
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(obj.Export())
	if err != nil {
		return v.String()
	}
	return string(data)
}
