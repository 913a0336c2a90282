package payout

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/earnwell/economy/internal/config"
)

// Module exposes payout client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.PayoutSystemAddress, p.Logger)
}
