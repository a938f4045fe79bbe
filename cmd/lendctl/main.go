// Command lendctl runs operator tasks against the lendbox database.
package main

import (
	"context"
	"os"

	"lendbox/internal/app"
	"lendbox/internal/config"
	"lendbox/internal/infrastructure/logging"
)

func main() {
	open := func(ctx context.Context) (*app.App, error) {
		cfg := config.Load()
		// operator commands never touch the cache
		cfg.RedisAddr = ""
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return app.New(ctx, cfg, logging.New(cfg.LogLevel))
	}
	if err := newRootCmd(open).Execute(); err != nil {
		os.Exit(1)
	}
}
