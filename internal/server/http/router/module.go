package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/earnwell/economy/internal/app"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Provide(newRouter)

type routerParams struct {
	fx.In

	Facade *app.EconomyFacade
	Logger *slog.Logger
}

func newRouter(p routerParams) *gin.Engine {
	return Setup(p.Facade, p.Logger)
}
