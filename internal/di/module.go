package di

import (
	"github.com/earnwell/economy/internal/adapter/payout"
	"github.com/earnwell/economy/internal/app"
	"github.com/earnwell/economy/internal/config"
	"github.com/earnwell/economy/internal/logger"
	"github.com/earnwell/economy/internal/pkg/auth"
	"github.com/earnwell/economy/internal/server/http/router"
	"github.com/earnwell/economy/internal/storage/postgres"
	"github.com/earnwell/economy/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		payout.Module,
		usecase.Module,
		fx.Provide(func(client payout.Client) app.PayoutProvider { return client }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
