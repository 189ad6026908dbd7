// Command layerctl paints, hit-tests and inspects layer scenes.
package main

import (
	"fmt"
	"os"

	"l14layers/internal/observability"
)

func main() {
	err := newRootCmd().Execute()
	observability.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
