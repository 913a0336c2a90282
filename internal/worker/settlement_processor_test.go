package worker

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/earnwell/economy/internal/adapter/payout"
	"github.com/earnwell/economy/internal/domain/model"
	testhelpers "github.com/earnwell/economy/internal/test"
)

func pendingRequest(id int64) model.WithdrawalRequest {
	return model.WithdrawalRequest{
		ID:           id,
		UserID:       1,
		Reference:    uuid.New(),
		AmountPoints: 5000,
		AmountUSD:    decimal.RequireFromString("0.40"),
		Method:       model.PayPal{Email: "user@example.com"},
		Status:       model.WithdrawalStatusProcessing,
	}
}

func TestNewSettlementProcessorDefaults(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	proc := NewSettlementProcessor(&testhelpers.SettlementFacadeStub{}, time.Second, 0, 0, logger)
	if proc.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", proc.batchSize)
	}
	if proc.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", proc.workers)
	}
}

func TestSettlementProcessorSettlesWithdrawals(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := &testhelpers.SettlementFacadeStub{
		Batches: [][]model.WithdrawalRequest{{pendingRequest(1)}},
	}
	proc := NewSettlementProcessor(facade, 10*time.Millisecond, 1, 1, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	proc.Start(ctx)

	deadline := time.After(500 * time.Millisecond)
	for {
		facade.Lock()
		settled := len(facade.Settled) > 0
		facade.Unlock()
		if settled {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for settlement")
		case <-time.After(10 * time.Millisecond):
		}
	}

	proc.Stop()
	facade.Lock()
	defer facade.Unlock()
	if len(facade.Submitted) == 0 {
		t.Fatalf("expected payout submission")
	}
	order := facade.Submitted[0].Order
	if order.Method != model.MethodPayPal {
		t.Fatalf("expected paypal payout, got %v", order.Method)
	}
	if got := order.AmountUSD.StringFixed(2); got != "0.40" {
		t.Fatalf("expected 0.40 payout, got %s", got)
	}
	if facade.Settled[0].ID != 1 {
		t.Fatalf("expected withdrawal 1 settled, got %d", facade.Settled[0].ID)
	}
}

func TestSettlementProcessorHandlesRateLimiting(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	attempts := int32(0)
	facade := &testhelpers.SettlementFacadeStub{
		Batches: [][]model.WithdrawalRequest{{pendingRequest(1)}, {pendingRequest(1)}},
	}
	facade.SubmitFn = func(ctx context.Context, order payout.Order) (*payout.Receipt, error) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			return nil, payout.TooManyRequestsError{RetryAfter: 10 * time.Millisecond}
		}
		return &payout.Receipt{Reference: order.Reference, Status: payout.StatusAccepted}, nil
	}

	proc := NewSettlementProcessor(facade, 5*time.Millisecond, 1, 1, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	proc.Start(ctx)

	deadline := time.After(time.Second)
	for {
		facade.Lock()
		if len(facade.Settled) > 0 {
			facade.Unlock()
			break
		}
		facade.Unlock()
		select {
		case <-deadline:
			t.Fatal("timeout waiting for retry")
		case <-time.After(10 * time.Millisecond):
		}
	}
	proc.Stop()
}

func TestSettlementProcessorLeavesRefusedPayoutsAlone(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := &testhelpers.SettlementFacadeStub{
		Batches: [][]model.WithdrawalRequest{{pendingRequest(1)}},
	}
	submitted := int32(0)
	facade.SubmitFn = func(ctx context.Context, order payout.Order) (*payout.Receipt, error) {
		atomic.AddInt32(&submitted, 1)
		return nil, payout.ErrPayoutRejected
	}

	proc := NewSettlementProcessor(facade, 5*time.Millisecond, 1, 1, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	proc.Start(ctx)

	deadline := time.After(500 * time.Millisecond)
	for atomic.LoadInt32(&submitted) == 0 {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for submission")
		case <-time.After(10 * time.Millisecond):
		}
	}
	proc.Stop()

	facade.Lock()
	defer facade.Unlock()
	if len(facade.Settled) != 0 {
		t.Fatalf("refused payout must not be settled, got %d settlements", len(facade.Settled))
	}
}
