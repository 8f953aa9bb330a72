//go:build js && wasm

// Command taskboard-wasm runs the task board in the browser.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nibzard/taskboard/internal/web"
)

func main() {
	if _, err := web.Start(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "taskboard: %v\n", err)
		os.Exit(1)
	}
	select {}
}
