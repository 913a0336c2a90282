package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domainErrors "github.com/earnwell/economy/internal/domain/errors"
	"github.com/earnwell/economy/internal/domain/model"
	"github.com/earnwell/economy/internal/domain/repository"
)

// Pool is the subset of pgxpool.Pool used by the storage. It is also
// satisfied by pgxmock pools in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Bounded optimistic-concurrency retry for transactions that race on
// shared wallet rows.
const (
	txMaxAttempts     = 4
	txInitialBackoff  = 25 * time.Millisecond
	defaultRiskWindow = 7 * 24 * time.Hour
)

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   Pool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type configRepository struct {
	storage *Storage
}

type walletRepository struct {
	storage *Storage
}

type earningRepository struct {
	storage *Storage
}

type withdrawalRepository struct {
	storage *Storage
}

// newPgxPool is a seam for tests to substitute a mock pool.
var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (Pool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Configs() repository.ConfigRepository {
	return &configRepository{storage: s}
}

func (s *Storage) Wallets() repository.WalletRepository {
	return &walletRepository{storage: s}
}

func (s *Storage) Earnings() repository.EarningRepository {
	return &earningRepository{storage: s}
}

func (s *Storage) Withdrawals() repository.WithdrawalRepository {
	return &withdrawalRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'user',
            country TEXT NOT NULL DEFAULT '',
            email_verified BOOLEAN NOT NULL DEFAULT FALSE,
            phone_verified BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS economy_configs (
            version BIGSERIAL PRIMARY KEY,
            payload JSONB NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS wallets (
            user_id BIGINT PRIMARY KEY REFERENCES users(id),
            total_points BIGINT NOT NULL DEFAULT 0 CHECK (total_points >= 0),
            buckets JSONB NOT NULL DEFAULT '{}',
            daily_streak INT NOT NULL DEFAULT 0,
            boost_factor DOUBLE PRECISION,
            boost_expires_at TIMESTAMPTZ,
            last_earned_at TIMESTAMPTZ,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS daily_counters (
            user_id BIGINT NOT NULL,
            action_type TEXT NOT NULL,
            day DATE NOT NULL,
            count INT NOT NULL DEFAULT 0,
            PRIMARY KEY (user_id, action_type, day)
        )`,
		`CREATE TABLE IF NOT EXISTS earning_events (
            id SERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            action_type TEXT NOT NULL,
            base_points DOUBLE PRECISION NOT NULL,
            multipliers JSONB NOT NULL DEFAULT '[]',
            final_points BIGINT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS withdrawal_requests (
            id SERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            reference UUID UNIQUE NOT NULL,
            amount_points BIGINT NOT NULL,
            amount_usd NUMERIC(12,2) NOT NULL,
            method TEXT NOT NULL,
            method_details JSONB NOT NULL,
            status TEXT NOT NULL,
            risk_score INT NOT NULL,
            fraud_signals JSONB NOT NULL DEFAULT '[]',
            admin_note TEXT NOT NULL DEFAULT '',
            processed_by BIGINT,
            processed_at TIMESTAMPTZ,
            rejection_reason TEXT NOT NULL DEFAULT '',
            device_fp TEXT NOT NULL DEFAULT '',
            ip_fp TEXT NOT NULL DEFAULT '',
            payment_fp TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_earning_events_user ON earning_events(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_withdrawals_user ON withdrawal_requests(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_withdrawals_status ON withdrawal_requests(status, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_withdrawals_payment_fp ON withdrawal_requests(payment_fp)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, login, passwordHash string, role model.Role, country string) (*model.User, error) {
	const query = `INSERT INTO users (login, password_hash, role, country) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login, passwordHash, role, country).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Login = login
	u.PasswordHash = passwordHash
	u.Role = role
	u.Country = country
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	const query = `SELECT id, login, password_hash, role, country, email_verified, phone_verified, created_at FROM users WHERE login=$1`
	return r.scanUser(r.storage.pool.QueryRow(ctx, query, login))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, login, password_hash, role, country, email_verified, phone_verified, created_at FROM users WHERE id=$1`
	return r.scanUser(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Role, &u.Country, &u.EmailVerified, &u.PhoneVerified, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --- ConfigRepository implementation ---

func (r *configRepository) Latest(ctx context.Context) (*model.EconomyConfig, error) {
	const query = `SELECT version, payload, updated_at FROM economy_configs ORDER BY version DESC LIMIT 1`
	var (
		version   int64
		payload   []byte
		updatedAt time.Time
	)
	err := r.storage.pool.QueryRow(ctx, query).Scan(&version, &payload, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	var cfg model.EconomyConfig
	if err := json.Unmarshal(payload, &cfg); err != nil {
		return nil, fmt.Errorf("decode economy config: %w", err)
	}
	cfg.Version = version
	cfg.UpdatedAt = updatedAt
	return &cfg, nil
}

func (r *configRepository) Save(ctx context.Context, cfg *model.EconomyConfig) (*model.EconomyConfig, error) {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode economy config: %w", err)
	}

	const query = `INSERT INTO economy_configs (payload) VALUES ($1) RETURNING version, updated_at`
	saved := *cfg
	if err := r.storage.pool.QueryRow(ctx, query, payload).Scan(&saved.Version, &saved.UpdatedAt); err != nil {
		return nil, err
	}
	return &saved, nil
}

// --- WalletRepository implementation ---

func (r *walletRepository) Get(ctx context.Context, userID int64) (*model.Wallet, error) {
	const query = `SELECT total_points, buckets, daily_streak, boost_factor, boost_expires_at, last_earned_at, updated_at
                   FROM wallets WHERE user_id=$1`
	wallet, err := scanWallet(r.storage.pool.QueryRow(ctx, query, userID), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &model.Wallet{UserID: userID, Buckets: map[model.ActionType]int64{}}, nil
		}
		return nil, err
	}
	return wallet, nil
}

func scanWallet(row pgx.Row, userID int64) (*model.Wallet, error) {
	var (
		w            model.Wallet
		buckets      []byte
		boostFactor  *float64
		boostExpires *time.Time
	)
	err := row.Scan(&w.TotalPoints, &buckets, &w.DailyStreak, &boostFactor, &boostExpires, &w.LastEarnedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	w.UserID = userID
	w.Buckets = map[model.ActionType]int64{}
	if len(buckets) > 0 {
		if err := json.Unmarshal(buckets, &w.Buckets); err != nil {
			return nil, fmt.Errorf("decode wallet buckets: %w", err)
		}
	}
	if boostFactor != nil && boostExpires != nil {
		w.Boost = &model.Boost{Factor: *boostFactor, ExpiresAt: *boostExpires}
	}
	return &w, nil
}

// lockWalletTx upserts the wallet row and locks it for the rest of the
// transaction.
func lockWalletTx(ctx context.Context, tx pgx.Tx, userID int64) (*model.Wallet, error) {
	if _, err := tx.Exec(ctx, `INSERT INTO wallets (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
		return nil, err
	}
	const query = `SELECT total_points, buckets, daily_streak, boost_factor, boost_expires_at, last_earned_at, updated_at
                   FROM wallets WHERE user_id=$1 FOR UPDATE`
	return scanWallet(tx.QueryRow(ctx, query, userID), userID)
}

func (r *walletRepository) Grant(ctx context.Context, userID int64, action model.ActionType, at time.Time, fn repository.GrantFunc) (*model.EarningEvent, error) {
	day := at.UTC().Format("2006-01-02")

	var event *model.EarningEvent
	err := r.storage.WithinRetryableTransaction(ctx, func(tx pgx.Tx) error {
		wallet, err := lockWalletTx(ctx, tx, userID)
		if err != nil {
			return err
		}

		var todayCount int
		err = tx.QueryRow(ctx, `SELECT count FROM daily_counters WHERE user_id=$1 AND action_type=$2 AND day=$3`,
			userID, action, day).Scan(&todayCount)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		wallet.DailyStreak = model.NextStreak(wallet.DailyStreak, wallet.LastEarnedAt, at)

		decision, err := fn(wallet, todayCount)
		if err != nil {
			return err
		}

		const upsertCounter = `INSERT INTO daily_counters (user_id, action_type, day, count) VALUES ($1, $2, $3, 1)
                               ON CONFLICT (user_id, action_type, day) DO UPDATE SET count = daily_counters.count + 1`
		if _, err := tx.Exec(ctx, upsertCounter, userID, action, day); err != nil {
			return err
		}

		wallet.Buckets[action] += decision.FinalPoints
		buckets, err := json.Marshal(wallet.Buckets)
		if err != nil {
			return err
		}

		updateWallet := `UPDATE wallets
                         SET total_points = total_points + $2, buckets = $3, daily_streak = $4,
                             last_earned_at = $5, updated_at = NOW()`
		if decision.ConsumeBoost {
			updateWallet += `, boost_factor = NULL, boost_expires_at = NULL`
		}
		updateWallet += ` WHERE user_id = $1`
		if _, err := tx.Exec(ctx, updateWallet, userID, decision.FinalPoints, buckets, wallet.DailyStreak, at); err != nil {
			return err
		}

		multipliers, err := json.Marshal(decision.Multipliers)
		if err != nil {
			return err
		}

		const insertEvent = `INSERT INTO earning_events (user_id, action_type, base_points, multipliers, final_points)
                             VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
		e := &model.EarningEvent{
			UserID:      userID,
			ActionType:  action,
			BasePoints:  decision.BasePoints,
			Multipliers: decision.Multipliers,
			FinalPoints: decision.FinalPoints,
		}
		if err := tx.QueryRow(ctx, insertEvent, userID, action, decision.BasePoints, multipliers, decision.FinalPoints).Scan(&e.ID, &e.CreatedAt); err != nil {
			return err
		}
		event = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (r *walletRepository) DailyCount(ctx context.Context, userID int64, action model.ActionType, day time.Time) (int, error) {
	var count int
	err := r.storage.pool.QueryRow(ctx, `SELECT count FROM daily_counters WHERE user_id=$1 AND action_type=$2 AND day=$3`,
		userID, action, day.UTC().Format("2006-01-02")).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}

func (r *walletRepository) SetBoost(ctx context.Context, userID int64, boost model.Boost) error {
	return r.storage.WithinRetryableTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := lockWalletTx(ctx, tx, userID); err != nil {
			return err
		}
		const query = `UPDATE wallets SET boost_factor=$2, boost_expires_at=$3, updated_at=NOW() WHERE user_id=$1`
		_, err := tx.Exec(ctx, query, userID, boost.Factor, boost.ExpiresAt)
		return err
	})
}

// --- EarningRepository implementation ---

func (r *earningRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]model.EarningEvent, error) {
	const query = `SELECT id, user_id, action_type, base_points, multipliers, final_points, created_at
                   FROM earning_events WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.storage.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.EarningEvent
	for rows.Next() {
		var (
			e           model.EarningEvent
			multipliers []byte
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.ActionType, &e.BasePoints, &multipliers, &e.FinalPoints, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(multipliers) > 0 {
			if err := json.Unmarshal(multipliers, &e.Multipliers); err != nil {
				return nil, fmt.Errorf("decode multipliers: %w", err)
			}
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *earningRepository) Summary(ctx context.Context, userID int64) (*model.EarningSummary, error) {
	const query = `SELECT action_type, COALESCE(SUM(final_points), 0), COUNT(*)
                   FROM earning_events WHERE user_id=$1 GROUP BY action_type`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := &model.EarningSummary{UserID: userID, BySource: map[model.ActionType]int64{}}
	for rows.Next() {
		var (
			action model.ActionType
			sum    int64
			num    int
		)
		if err := rows.Scan(&action, &sum, &num); err != nil {
			return nil, err
		}
		summary.BySource[action] = sum
		summary.Total += sum
		summary.EventsNum += num
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summary, nil
}

// --- WithdrawalRepository implementation ---

func (r *withdrawalRepository) Create(ctx context.Context, userID int64, fp model.Fingerprints, build repository.WithdrawalBuildFunc) (*model.WithdrawalRequest, error) {
	var created *model.WithdrawalRequest
	err := r.storage.WithinRetryableTransaction(ctx, func(tx pgx.Tx) error {
		wallet, err := lockWalletTx(ctx, tx, userID)
		if err != nil {
			return err
		}

		snap, err := riskSnapshotTx(ctx, tx, userID, fp)
		if err != nil {
			return err
		}

		req, err := build(wallet, snap)
		if err != nil {
			return err
		}

		kind, details, err := model.EncodeMethod(req.Method)
		if err != nil {
			return err
		}
		signals, err := json.Marshal(req.FraudSignals)
		if err != nil {
			return err
		}

		const insert = `INSERT INTO withdrawal_requests
                        (user_id, reference, amount_points, amount_usd, method, method_details, status,
                         risk_score, fraud_signals, device_fp, ip_fp, payment_fp)
                        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
                        RETURNING id, created_at`
		err = tx.QueryRow(ctx, insert,
			userID, req.Reference.String(), req.AmountPoints, req.AmountUSD.StringFixed(2),
			kind, details, req.Status, req.RiskScore, signals,
			fp.DeviceID, fp.IP, fp.PaymentKey,
		).Scan(&req.ID, &req.CreatedAt)
		if err != nil {
			return err
		}

		// Reserve the points now, not at settlement.
		const reserve = `UPDATE wallets SET total_points = total_points - $2, updated_at = NOW() WHERE user_id = $1`
		if _, err := tx.Exec(ctx, reserve, userID, req.AmountPoints); err != nil {
			return err
		}

		created = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// riskSnapshotTx assembles the scorer's input inside the creating
// transaction so the score is computed against consistent state.
func riskSnapshotTx(ctx context.Context, tx pgx.Tx, userID int64, fp model.Fingerprints) (*model.RiskSnapshot, error) {
	snap := &model.RiskSnapshot{}

	var createdAt time.Time
	err := tx.QueryRow(ctx, `SELECT created_at, email_verified, phone_verified FROM users WHERE id=$1`, userID).
		Scan(&createdAt, &snap.EmailVerified, &snap.PhoneVerified)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	snap.AccountAge = time.Since(createdAt)

	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM withdrawal_requests WHERE user_id=$1`, userID).
		Scan(&snap.PriorWithdrawals); err != nil {
		return nil, err
	}

	const velocity = `SELECT
            COALESCE(SUM(final_points) FILTER (WHERE created_at > NOW() - INTERVAL '24 hours'), 0),
            COALESCE(SUM(final_points) FILTER (WHERE created_at > NOW() - INTERVAL '7 days'), 0),
            COALESCE(SUM(final_points), 0),
            MIN(created_at)
        FROM earning_events WHERE user_id=$1`
	var (
		totalEarned int64
		firstEarned *time.Time
	)
	if err := tx.QueryRow(ctx, velocity, userID).Scan(&snap.Earned24h, &snap.Earned7d, &totalEarned, &firstEarned); err != nil {
		return nil, err
	}
	if firstEarned != nil {
		historyStart := time.Since(*firstEarned) - defaultRiskWindow
		priorEarned := totalEarned - snap.Earned7d
		if days := historyStart.Hours() / 24; days >= 1 && priorEarned > 0 {
			snap.TrailingDailyAverage = float64(priorEarned) / days
		}
	}

	const shared = `SELECT COUNT(DISTINCT user_id) FROM withdrawal_requests
                    WHERE user_id <> $1 AND (
                        (device_fp <> '' AND device_fp = $2) OR
                        (ip_fp <> '' AND ip_fp = $3) OR
                        (payment_fp <> '' AND payment_fp = $4))`
	if err := tx.QueryRow(ctx, shared, userID, fp.DeviceID, fp.IP, fp.PaymentKey).
		Scan(&snap.SharedFingerprintUsers); err != nil {
		return nil, err
	}

	return snap, nil
}

const withdrawalColumns = `id, user_id, reference, amount_points, amount_usd::text, method, method_details,
                           status, risk_score, fraud_signals, admin_note, processed_by, processed_at,
                           rejection_reason, created_at`

func scanWithdrawal(row pgx.Row) (*model.WithdrawalRequest, error) {
	var (
		w         model.WithdrawalRequest
		reference string
		amountUSD string
		kind      model.MethodKind
		details   []byte
		signals   []byte
	)
	err := row.Scan(&w.ID, &w.UserID, &reference, &w.AmountPoints, &amountUSD, &kind, &details,
		&w.Status, &w.RiskScore, &signals, &w.AdminNote, &w.ProcessedBy, &w.ProcessedAt,
		&w.RejectionReason, &w.CreatedAt)
	if err != nil {
		return nil, err
	}

	if w.Reference, err = uuid.Parse(reference); err != nil {
		return nil, fmt.Errorf("decode withdrawal reference: %w", err)
	}
	if w.AmountUSD, err = decimal.NewFromString(amountUSD); err != nil {
		return nil, fmt.Errorf("decode withdrawal amount: %w", err)
	}
	if w.Method, err = model.DecodeMethod(kind, details); err != nil {
		return nil, err
	}
	if len(signals) > 0 {
		if err := json.Unmarshal(signals, &w.FraudSignals); err != nil {
			return nil, fmt.Errorf("decode fraud signals: %w", err)
		}
	}
	return &w, nil
}

func (r *withdrawalRepository) GetByID(ctx context.Context, id int64) (*model.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE id=$1`
	w, err := scanWithdrawal(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return w, nil
}

func (r *withdrawalRepository) list(ctx context.Context, query string, args ...any) ([]model.WithdrawalRequest, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.WithdrawalRequest
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *withdrawalRepository) ListByUser(ctx context.Context, userID int64) ([]model.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE user_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *withdrawalRepository) ListByStatus(ctx context.Context, status model.WithdrawalStatus, limit int) ([]model.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE status=$1 ORDER BY created_at LIMIT $2`
	return r.list(ctx, query, status, limit)
}

// transition loads and locks a request, then applies fn to it.
func (r *withdrawalRepository) transition(ctx context.Context, id int64, fn func(pgx.Tx, *model.WithdrawalRequest) error) (*model.WithdrawalRequest, error) {
	var result *model.WithdrawalRequest
	err := r.storage.WithinRetryableTransaction(ctx, func(tx pgx.Tx) error {
		query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE id=$1 FOR UPDATE`
		w, err := scanWithdrawal(tx.QueryRow(ctx, query, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if err := fn(tx, w); err != nil {
			return err
		}
		result = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *withdrawalRepository) Approve(ctx context.Context, id, adminID int64, note string) (*model.WithdrawalRequest, error) {
	return r.transition(ctx, id, func(tx pgx.Tx, w *model.WithdrawalRequest) error {
		switch w.Status {
		case model.WithdrawalStatusPending:
		case model.WithdrawalStatusProcessing:
			// Idempotent re-approve of an in-flight request.
			return nil
		default:
			return fmt.Errorf("%w: %s", domainErrors.ErrAlreadyProcessed, w.Status)
		}

		const update = `UPDATE withdrawal_requests
                        SET status=$2, processed_by=$3, processed_at=NOW(), admin_note=$4
                        WHERE id=$1 RETURNING processed_at`
		var processedAt time.Time
		if err := tx.QueryRow(ctx, update, id, model.WithdrawalStatusProcessing, adminID, note).Scan(&processedAt); err != nil {
			return err
		}
		w.Status = model.WithdrawalStatusProcessing
		w.ProcessedBy = &adminID
		w.ProcessedAt = &processedAt
		w.AdminNote = note
		return nil
	})
}

func (r *withdrawalRepository) Reject(ctx context.Context, id, adminID int64, reason string) (*model.WithdrawalRequest, error) {
	return r.transition(ctx, id, func(tx pgx.Tx, w *model.WithdrawalRequest) error {
		switch w.Status {
		case model.WithdrawalStatusPending:
		case model.WithdrawalStatusProcessing:
			return fmt.Errorf("%w: cannot reject a request in flight", domainErrors.ErrInvalidTransition)
		default:
			return fmt.Errorf("%w: %s", domainErrors.ErrAlreadyProcessed, w.Status)
		}

		const update = `UPDATE withdrawal_requests
                        SET status=$2, processed_by=$3, processed_at=NOW(), rejection_reason=$4
                        WHERE id=$1 RETURNING processed_at`
		var processedAt time.Time
		if err := tx.QueryRow(ctx, update, id, model.WithdrawalStatusRejected, adminID, reason).Scan(&processedAt); err != nil {
			return err
		}

		// Refund the reservation in the same transaction as the status change.
		const refund = `UPDATE wallets SET total_points = total_points + $2, updated_at = NOW() WHERE user_id = $1`
		if _, err := tx.Exec(ctx, refund, w.UserID, w.AmountPoints); err != nil {
			return err
		}

		w.Status = model.WithdrawalStatusRejected
		w.ProcessedBy = &adminID
		w.ProcessedAt = &processedAt
		w.RejectionReason = reason
		return nil
	})
}

func (r *withdrawalRepository) Settle(ctx context.Context, id int64) (*model.WithdrawalRequest, error) {
	return r.transition(ctx, id, func(tx pgx.Tx, w *model.WithdrawalRequest) error {
		switch w.Status {
		case model.WithdrawalStatusProcessing:
		case model.WithdrawalStatusCompleted:
			// Redelivered settlement acknowledgement.
			return nil
		case model.WithdrawalStatusPending:
			return fmt.Errorf("%w: settlement before approval", domainErrors.ErrInvalidTransition)
		default:
			return fmt.Errorf("%w: %s", domainErrors.ErrAlreadyProcessed, w.Status)
		}

		const update = `UPDATE withdrawal_requests SET status=$2 WHERE id=$1`
		if _, err := tx.Exec(ctx, update, id, model.WithdrawalStatusCompleted); err != nil {
			return err
		}
		w.Status = model.WithdrawalStatusCompleted
		return nil
	})
}

// WithinTransaction executes function inside a serializable transaction.
// Serialization failures surface as SQLSTATE 40001 for the retry wrapper.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// WithinRetryableTransaction runs fn in a transaction, retrying with a
// deterministic exponential backoff when the commit loses a concurrency
// race. The retry count is bounded; exhaustion surfaces as
// ErrRetryExhausted for the caller to handle.
func (s *Storage) WithinRetryableTransaction(ctx context.Context, fn func(pgx.Tx) error) error {
	backoff := txInitialBackoff
	var err error
	for attempt := 1; attempt <= txMaxAttempts; attempt++ {
		err = s.WithinTransaction(ctx, fn)
		if err == nil || !isConcurrencyFailure(err) {
			return err
		}

		s.logger.Warn("transaction conflict, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("backoff", backoff),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return fmt.Errorf("%w: %v", domainErrors.ErrRetryExhausted, err)
}

// isConcurrencyFailure recognizes serialization and deadlock errors that
// are safe to retry.
func isConcurrencyFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
