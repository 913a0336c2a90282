package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	domainErrors "github.com/earnwell/economy/internal/domain/errors"
	"github.com/earnwell/economy/internal/domain/model"
	"github.com/earnwell/economy/internal/domain/repository"
)

// ConfigCache owns the only mutable reference to the economy config and
// hands out immutable snapshots. Readers may transiently see a
// stale-but-valid snapshot; a grant or withdrawal path with no snapshot
// at all fails closed with ErrConfigUnavailable rather than assuming
// defaults.
type ConfigCache struct {
	repo repository.ConfigRepository
	ttl  time.Duration

	mu        sync.RWMutex
	snapshot  *model.EconomyConfig
	fetchedAt time.Time
}

// NewConfigCache constructs a cache refreshing at most every ttl.
func NewConfigCache(repo repository.ConfigRepository, ttl time.Duration) *ConfigCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ConfigCache{repo: repo, ttl: ttl}
}

// Snapshot returns the current config snapshot, refreshing from the
// store when the cached one has expired. A failed refresh serves the
// stale snapshot if one exists.
func (c *ConfigCache) Snapshot(ctx context.Context) (*model.EconomyConfig, error) {
	c.mu.RLock()
	snap, fetchedAt := c.snapshot, c.fetchedAt
	c.mu.RUnlock()

	if snap != nil && time.Since(fetchedAt) < c.ttl {
		return snap, nil
	}

	fresh, err := c.repo.Latest(ctx)
	if err != nil {
		if snap != nil {
			return snap, nil
		}
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrConfigUnavailable, err)
	}

	c.mu.Lock()
	c.snapshot = fresh
	c.fetchedAt = time.Now()
	c.mu.Unlock()
	return fresh, nil
}

// Put installs a freshly written config as the current snapshot.
func (c *ConfigCache) Put(cfg *model.EconomyConfig) {
	c.mu.Lock()
	c.snapshot = cfg
	c.fetchedAt = time.Now()
	c.mu.Unlock()
}

// Invalidate forces the next Snapshot call to hit the store.
func (c *ConfigCache) Invalidate() {
	c.mu.Lock()
	c.fetchedAt = time.Time{}
	c.mu.Unlock()
}

// ConfigUseCase exposes admin read/write access to the economy config.
type ConfigUseCase struct {
	repo  repository.ConfigRepository
	cache *ConfigCache
}

// NewConfigUseCase constructs ConfigUseCase.
func NewConfigUseCase(repo repository.ConfigRepository, cache *ConfigCache) *ConfigUseCase {
	return &ConfigUseCase{repo: repo, cache: cache}
}

// Get returns the current config snapshot.
func (u *ConfigUseCase) Get(ctx context.Context) (*model.EconomyConfig, error) {
	return u.cache.Snapshot(ctx)
}

// Update validates and persists a new config version, then installs it
// as the active snapshot. Invalid values are rejected before any write.
func (u *ConfigUseCase) Update(ctx context.Context, cfg *model.EconomyConfig) (*model.EconomyConfig, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrInvalidConfig, err)
	}
	saved, err := u.repo.Save(ctx, cfg)
	if err != nil {
		return nil, err
	}
	u.cache.Put(saved)
	return saved, nil
}
