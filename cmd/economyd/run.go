package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
)

// run blocks until the signal context fires or the app shuts itself down.
func run(ctx context.Context, app *fx.App) {
	if err := app.Start(ctx); err != nil {
		fail("start", err)
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	if err := app.Stop(context.Background()); err != nil {
		fail("stop", err)
	}
}

func fail(stage string, err error) {
	fmt.Fprintf(os.Stderr, "economyd: %s: %v\n", stage, err)
	os.Exit(1)
}
