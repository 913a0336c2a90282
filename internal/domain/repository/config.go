package repository

import (
	"context"

	"github.com/earnwell/economy/internal/domain/model"
)

// ConfigRepository stores versioned economy configuration. Writes create
// a new version; readers always see the latest committed one.
type ConfigRepository interface {
	Latest(ctx context.Context) (*model.EconomyConfig, error)
	Save(ctx context.Context, cfg *model.EconomyConfig) (*model.EconomyConfig, error)
}
