// Command tracker serves the data dictionary and configuration APIs and consumes
// platform audit events.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
