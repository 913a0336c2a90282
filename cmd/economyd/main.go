package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/fx"

	"github.com/earnwell/economy/internal/di"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The signal context is supplied to the graph so storage setup and the
	// settlement worker observe shutdown directly.
	app := fx.New(
		fx.Supply(fx.Annotate(ctx, fx.As(new(context.Context)))),
		di.Module(),
	)

	run(ctx, app)
}
