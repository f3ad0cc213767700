package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MOULOUNDOU/Senchambre/internal/app"
	"github.com/MOULOUNDOU/Senchambre/internal/config"
)

func main() {
	cfg := config.Load()
	logger := cfg.NewLogger()

	c := &cli{
		out: os.Stdout,
		open: func(ctx context.Context) (*app.App, error) {
			return app.Open(ctx, cfg, logger)
		},
	}
	if err := newRootCmd(c).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
