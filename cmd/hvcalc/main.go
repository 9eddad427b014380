// Command hvcalc computes the hypervolume indicator of point sets stored
// in JSON or YAML files.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
