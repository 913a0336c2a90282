package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/earnwell/economy/internal/adapter/payout"
	"github.com/earnwell/economy/internal/domain/model"
)

// EconomyFacade exposes the subset of application functionality required by the worker.
type EconomyFacade interface {
	WithdrawalsForSettlement(ctx context.Context, limit int) ([]model.WithdrawalRequest, error)
	SubmitPayout(ctx context.Context, order payout.Order) (*payout.Receipt, error)
	SettleWithdrawal(ctx context.Context, id int64) error
}

// SettlementProcessor drains approved withdrawals to the payout provider
// concurrently and marks them completed.
type SettlementProcessor struct {
	facade       EconomyFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.WithdrawalRequest
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewSettlementProcessor constructs settlement worker pool.
func NewSettlementProcessor(facade EconomyFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *SettlementProcessor {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &SettlementProcessor{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.WithdrawalRequest, batchSize*workers),
	}
}

// Start launches background processing.
func (p *SettlementProcessor) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *SettlementProcessor) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *SettlementProcessor) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *SettlementProcessor) fetchAndDispatch(ctx context.Context) {
	requests, err := p.facade.WithdrawalsForSettlement(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch withdrawals for settlement failed", slog.String("error", err.Error()))
		return
	}
	for _, request := range requests {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- request:
		}
	}
}

func (p *SettlementProcessor) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case request, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handleWithdrawal(ctx, request)
		}
	}
}

func (p *SettlementProcessor) handleWithdrawal(ctx context.Context, request model.WithdrawalRequest) {
	kind, details, err := model.EncodeMethod(request.Method)
	if err != nil {
		p.logger.Error("encode payout method failed", slog.Int64("withdrawal", request.ID), slog.String("error", err.Error()))
		return
	}

	order := payout.Order{
		Reference: request.Reference,
		AmountUSD: request.AmountUSD,
		Method:    kind,
		Details:   json.RawMessage(details),
	}

	if _, err := p.facade.SubmitPayout(ctx, order); err != nil {
		switch e := err.(type) {
		case payout.TooManyRequestsError:
			p.logger.Warn("payout rate limited", slog.Duration("retry_after", e.RetryAfter))
			time.Sleep(e.RetryAfter)
		default:
			if errors.Is(err, payout.ErrPayoutRejected) {
				// The provider will never take this order; resubmitting
				// cannot help, an operator has to look at it.
				p.logger.Error("payout refused by provider", slog.Int64("withdrawal", request.ID), slog.String("reference", request.Reference.String()))
				return
			}
			p.logger.Error("payout submit failed", slog.Int64("withdrawal", request.ID), slog.String("error", err.Error()))
		}
		return
	}

	if err := p.facade.SettleWithdrawal(ctx, request.ID); err != nil {
		p.logger.Error("settle withdrawal failed", slog.Int64("withdrawal", request.ID), slog.String("error", err.Error()))
	}
}
