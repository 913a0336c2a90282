package payout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/earnwell/economy/internal/domain/model"
)

// ErrPayoutRejected indicates the provider refused the order for good;
// resubmitting the same order will not help.
var ErrPayoutRejected = errors.New("payout rejected by provider")

// TooManyRequestsError represents rate limiting signal from the payout
// provider.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Status of a payout order on the provider side.
type Status string

const (
	StatusAccepted Status = "accepted"
	StatusSettled  Status = "settled"
)

// Order is a payout instruction submitted to the provider. Reference
// doubles as the idempotency key, so redelivery is safe.
type Order struct {
	Reference uuid.UUID        `json:"reference"`
	AmountUSD decimal.Decimal  `json:"amount_usd"`
	Method    model.MethodKind `json:"method"`
	Details   json.RawMessage  `json:"details"`
}

// Receipt is the provider's acknowledgement of an order.
type Receipt struct {
	Reference uuid.UUID `json:"reference"`
	Status    Status    `json:"status"`
}

// Client exposes operations against the external payout provider.
type Client interface {
	Submit(ctx context.Context, order Order) (*Receipt, error)
}

// HTTPClient implements Client via HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates HTTP payout client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse payout url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("payout url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Submit sends the payout order to the provider. A conflict response
// means the order was already submitted under the same reference and is
// treated as acceptance.
func (c *HTTPClient) Submit(ctx context.Context, order Order) (*Receipt, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/payouts")

	body, err := json.Marshal(order)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Idempotency-Key", order.Reference.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		var receipt Receipt
		if err := json.Unmarshal(data, &receipt); err != nil {
			return nil, err
		}
		return &receipt, nil
	case http.StatusConflict:
		return &Receipt{Reference: order.Reference, Status: StatusAccepted}, nil
	case http.StatusUnprocessableEntity:
		return nil, ErrPayoutRejected
	case http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, TooManyRequestsError{RetryAfter: retryAfter}
	default:
		data, _ := io.ReadAll(resp.Body)
		c.logger.Error("payout request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(data)))
		return nil, fmt.Errorf("payout error: %s", resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
