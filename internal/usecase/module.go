package usecase

import (
	"go.uber.org/fx"

	"github.com/earnwell/economy/internal/config"
	"github.com/earnwell/economy/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newConfigCache,
	NewConfigUseCase,
	NewAuthUseCase,
	NewRewardUseCase,
	NewWalletUseCase,
	NewWithdrawalUseCase,
)

type cacheParams struct {
	fx.In

	Configs repository.ConfigRepository
	Config  *config.Config
}

func newConfigCache(p cacheParams) *ConfigCache {
	return NewConfigCache(p.Configs, p.Config.ConfigCacheTTL)
}
