package main

import (
	"context"
	"fmt"
	"os"

	"ai-digest/bootstrap"
)

func main() {
	ctx := context.Background()

	if err := bootstrap.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "digest service failed: %v\n", err)
		os.Exit(1)
	}
}
