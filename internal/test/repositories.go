package test

import (
	"context"
	"time"

	domainErrors "github.com/earnwell/economy/internal/domain/errors"
	"github.com/earnwell/economy/internal/domain/model"
	"github.com/earnwell/economy/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, passwordHash string, role model.Role, country string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Login: login, PasswordHash: passwordHash, Role: role, Country: country}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ConfigRepositoryStub serves a fixed economy config version.
type ConfigRepositoryStub struct {
	LatestFn func(context.Context) (*model.EconomyConfig, error)
	SaveFn   func(context.Context, *model.EconomyConfig) (*model.EconomyConfig, error)

	Config      *model.EconomyConfig
	Saved       []*model.EconomyConfig
	LatestCalls int
}

// Latest returns the configured snapshot or not found.
func (s *ConfigRepositoryStub) Latest(ctx context.Context) (*model.EconomyConfig, error) {
	s.LatestCalls++
	if s.LatestFn != nil {
		return s.LatestFn(ctx)
	}
	if s.Config == nil {
		return nil, domainErrors.ErrNotFound
	}
	return s.Config, nil
}

// Save records the new version and bumps its number.
func (s *ConfigRepositoryStub) Save(ctx context.Context, cfg *model.EconomyConfig) (*model.EconomyConfig, error) {
	if s.SaveFn != nil {
		return s.SaveFn(ctx, cfg)
	}
	saved := *cfg
	saved.Version = int64(len(s.Saved)) + 1
	s.Saved = append(s.Saved, &saved)
	s.Config = &saved
	return &saved, nil
}

// WalletRepositoryStub executes grant callbacks against an in-memory wallet.
type WalletRepositoryStub struct {
	GetFn        func(context.Context, int64) (*model.Wallet, error)
	GrantFn      func(context.Context, int64, model.ActionType, time.Time, repository.GrantFunc) (*model.EarningEvent, error)
	DailyCountFn func(context.Context, int64, model.ActionType, time.Time) (int, error)
	SetBoostFn   func(context.Context, int64, model.Boost) error

	Wallet     *model.Wallet
	TodayCount int
	Boosts     []model.Boost
	Events     []*model.EarningEvent
	Err        error
}

// Get returns the configured wallet or an empty one.
func (s *WalletRepositoryStub) Get(ctx context.Context, userID int64) (*model.Wallet, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, userID)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Wallet == nil {
		return &model.Wallet{UserID: userID, Buckets: map[model.ActionType]int64{}}, nil
	}
	return s.Wallet, nil
}

// Grant mimics the transactional award against the stored wallet.
func (s *WalletRepositoryStub) Grant(ctx context.Context, userID int64, action model.ActionType, at time.Time, fn repository.GrantFunc) (*model.EarningEvent, error) {
	if s.GrantFn != nil {
		return s.GrantFn(ctx, userID, action, at, fn)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	wallet := s.Wallet
	if wallet == nil {
		wallet = &model.Wallet{UserID: userID, Buckets: map[model.ActionType]int64{}}
		s.Wallet = wallet
	}
	wallet.DailyStreak = model.NextStreak(wallet.DailyStreak, wallet.LastEarnedAt, at)

	decision, err := fn(wallet, s.TodayCount)
	if err != nil {
		return nil, err
	}
	s.TodayCount++
	wallet.TotalPoints += decision.FinalPoints
	wallet.Buckets[action] += decision.FinalPoints
	earnedAt := at
	wallet.LastEarnedAt = &earnedAt
	if decision.ConsumeBoost {
		wallet.Boost = nil
	}
	event := &model.EarningEvent{
		ID:          int64(len(s.Events)) + 1,
		UserID:      userID,
		ActionType:  action,
		BasePoints:  decision.BasePoints,
		Multipliers: decision.Multipliers,
		FinalPoints: decision.FinalPoints,
		CreatedAt:   at,
	}
	s.Events = append(s.Events, event)
	return event, nil
}

// DailyCount returns the tracked counter.
func (s *WalletRepositoryStub) DailyCount(ctx context.Context, userID int64, action model.ActionType, day time.Time) (int, error) {
	if s.DailyCountFn != nil {
		return s.DailyCountFn(ctx, userID, action, day)
	}
	if s.Err != nil {
		return 0, s.Err
	}
	return s.TodayCount, nil
}

// SetBoost records boost grants.
func (s *WalletRepositoryStub) SetBoost(ctx context.Context, userID int64, boost model.Boost) error {
	if s.SetBoostFn != nil {
		return s.SetBoostFn(ctx, userID, boost)
	}
	if s.Err != nil {
		return s.Err
	}
	s.Boosts = append(s.Boosts, boost)
	if s.Wallet != nil {
		b := boost
		s.Wallet.Boost = &b
	}
	return nil
}

// EarningRepositoryStub returns preconfigured events and summaries.
type EarningRepositoryStub struct {
	ListFn    func(context.Context, int64, int) ([]model.EarningEvent, error)
	SummaryFn func(context.Context, int64) (*model.EarningSummary, error)

	Events      []model.EarningEvent
	SummaryData *model.EarningSummary
	Err         error
}

// ListByUser returns stored events limited to the requested size.
func (s *EarningRepositoryStub) ListByUser(ctx context.Context, userID int64, limit int) ([]model.EarningEvent, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, userID, limit)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if limit > 0 && limit < len(s.Events) {
		return s.Events[:limit], nil
	}
	return s.Events, nil
}

// Summary returns the configured aggregate.
func (s *EarningRepositoryStub) Summary(ctx context.Context, userID int64) (*model.EarningSummary, error) {
	if s.SummaryFn != nil {
		return s.SummaryFn(ctx, userID)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.SummaryData == nil {
		return &model.EarningSummary{UserID: userID, BySource: map[model.ActionType]int64{}}, nil
	}
	return s.SummaryData, nil
}

// WithdrawalRepositoryStub executes the build callback against an
// in-memory wallet and risk snapshot.
type WithdrawalRepositoryStub struct {
	CreateFn       func(context.Context, int64, model.Fingerprints, repository.WithdrawalBuildFunc) (*model.WithdrawalRequest, error)
	ListByStatusFn func(context.Context, model.WithdrawalStatus, int) ([]model.WithdrawalRequest, error)

	Wallet   *model.Wallet
	Snapshot *model.RiskSnapshot
	Requests []*model.WithdrawalRequest
	Err      error
}

// Create runs the build callback and records the resulting request.
func (s *WithdrawalRepositoryStub) Create(ctx context.Context, userID int64, fp model.Fingerprints, build repository.WithdrawalBuildFunc) (*model.WithdrawalRequest, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, userID, fp, build)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	wallet := s.Wallet
	if wallet == nil {
		wallet = &model.Wallet{UserID: userID, Buckets: map[model.ActionType]int64{}}
	}
	snap := s.Snapshot
	if snap == nil {
		snap = &model.RiskSnapshot{}
	}
	req, err := build(wallet, snap)
	if err != nil {
		return nil, err
	}
	req.ID = int64(len(s.Requests)) + 1
	req.CreatedAt = time.Now()
	wallet.TotalPoints -= req.AmountPoints
	s.Requests = append(s.Requests, req)
	return req, nil
}

func (s *WithdrawalRepositoryStub) find(id int64) (*model.WithdrawalRequest, error) {
	for _, r := range s.Requests {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID returns a stored request.
func (s *WithdrawalRepositoryStub) GetByID(ctx context.Context, id int64) (*model.WithdrawalRequest, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.find(id)
}

// ListByUser returns stored requests for the user.
func (s *WithdrawalRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.WithdrawalRequest, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.WithdrawalRequest
	for _, r := range s.Requests {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

// ListByStatus returns stored requests in the given state.
func (s *WithdrawalRepositoryStub) ListByStatus(ctx context.Context, status model.WithdrawalStatus, limit int) ([]model.WithdrawalRequest, error) {
	if s.ListByStatusFn != nil {
		return s.ListByStatusFn(ctx, status, limit)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.WithdrawalRequest
	for _, r := range s.Requests {
		if r.Status == status {
			out = append(out, *r)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Approve applies the pending to processing transition.
func (s *WithdrawalRepositoryStub) Approve(ctx context.Context, id, adminID int64, note string) (*model.WithdrawalRequest, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	req, err := s.find(id)
	if err != nil {
		return nil, err
	}
	switch req.Status {
	case model.WithdrawalStatusPending:
	case model.WithdrawalStatusProcessing:
		return req, nil
	default:
		return nil, domainErrors.ErrAlreadyProcessed
	}
	now := time.Now()
	req.Status = model.WithdrawalStatusProcessing
	req.ProcessedBy = &adminID
	req.ProcessedAt = &now
	req.AdminNote = note
	return req, nil
}

// Reject applies the pending to rejected transition and refunds points.
func (s *WithdrawalRepositoryStub) Reject(ctx context.Context, id, adminID int64, reason string) (*model.WithdrawalRequest, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	req, err := s.find(id)
	if err != nil {
		return nil, err
	}
	switch req.Status {
	case model.WithdrawalStatusPending:
	case model.WithdrawalStatusProcessing:
		return nil, domainErrors.ErrInvalidTransition
	default:
		return nil, domainErrors.ErrAlreadyProcessed
	}
	now := time.Now()
	req.Status = model.WithdrawalStatusRejected
	req.ProcessedBy = &adminID
	req.ProcessedAt = &now
	req.RejectionReason = reason
	if s.Wallet != nil {
		s.Wallet.TotalPoints += req.AmountPoints
	}
	return req, nil
}

// Settle applies the processing to completed transition.
func (s *WithdrawalRepositoryStub) Settle(ctx context.Context, id int64) (*model.WithdrawalRequest, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	req, err := s.find(id)
	if err != nil {
		return nil, err
	}
	switch req.Status {
	case model.WithdrawalStatusProcessing:
	case model.WithdrawalStatusCompleted:
		return req, nil
	case model.WithdrawalStatusPending:
		return nil, domainErrors.ErrInvalidTransition
	default:
		return nil, domainErrors.ErrAlreadyProcessed
	}
	req.Status = model.WithdrawalStatusCompleted
	return req, nil
}

var (
	_ repository.UserRepository       = (*UserRepositoryStub)(nil)
	_ repository.ConfigRepository     = (*ConfigRepositoryStub)(nil)
	_ repository.WalletRepository     = (*WalletRepositoryStub)(nil)
	_ repository.EarningRepository    = (*EarningRepositoryStub)(nil)
	_ repository.WithdrawalRepository = (*WithdrawalRepositoryStub)(nil)
)
