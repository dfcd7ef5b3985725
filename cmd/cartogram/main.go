// Command cartogram derives and inspects small-multiples cartogram data offline.
//
// Usage:
//
//	go run ./cmd/cartogram layout --data data/india.json --width 320
//	go run ./cmd/cartogram derive DL --cat deaths
//	go run ./cmd/cartogram validate --data https://example.org/india.json
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/india-cartogram/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := cli.New(os.Stdout, os.Stderr).RootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
