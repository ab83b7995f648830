package main

import (
	"fmt"
	"os"
)

func main() {
	cmd, opts := newRootCommand()
	if err := execute(cmd, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
