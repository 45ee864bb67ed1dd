// Command deck runs and watches a small set of long-lived developer
// commands side by side, in an interactive dashboard or, via "start", as a
// headless daemon whose logs and lifecycle are controlled from other
// terminals.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := buildRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
