package usecase

import "time"

// TTL exposes the cache refresh interval to the external test package.
func (c *ConfigCache) TTL() time.Duration { return c.ttl }

// SetNow overrides the reward clock from the external test package.
func (u *RewardUseCase) SetNow(fn func() time.Time) { u.now = fn }
