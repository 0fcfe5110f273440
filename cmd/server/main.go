// Package main implements the task-api binary: the HTTP server with its
// background reminder scanner, plus operator commands for migrations,
// one-off reminder scans and access tokens.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
