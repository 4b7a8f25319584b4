package main

import (
	"fmt"
	"os"
)

func main() {
	exitCode := 0
	cmd := newRootCommand(&exitCode)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "reclockd: %v\n", err)
		if exitCode == 0 {
			exitCode = 3
		}
	}
	os.Exit(exitCode)
}
