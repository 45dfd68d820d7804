package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nfrund/propertyhub/internal/app"
	"github.com/nfrund/propertyhub/internal/config"
	"github.com/nfrund/propertyhub/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := server.SignalContext(context.Background())
	defer stop()

	return app.New(cfg).Run(ctx)
}
