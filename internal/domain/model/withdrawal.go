package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/earnwell/economy/internal/domain/errors"
)

// WithdrawalStatus describes request lifecycle. Legal transitions are
// pending -> processing -> completed and pending -> rejected; completed
// and rejected are terminal.
type WithdrawalStatus string

const (
	WithdrawalStatusPending    WithdrawalStatus = "pending"
	WithdrawalStatusProcessing WithdrawalStatus = "processing"
	WithdrawalStatusCompleted  WithdrawalStatus = "completed"
	WithdrawalStatusRejected   WithdrawalStatus = "rejected"
)

// Terminal reports whether no further transitions are permitted.
func (s WithdrawalStatus) Terminal() bool {
	return s == WithdrawalStatusCompleted || s == WithdrawalStatusRejected
}

// MethodKind discriminates withdrawal method variants.
type MethodKind string

const (
	MethodBankTransfer MethodKind = "bank_transfer"
	MethodPayPal       MethodKind = "paypal"
	MethodCrypto       MethodKind = "crypto"
	MethodAirtime      MethodKind = "airtime"
	MethodGiftCard     MethodKind = "gift_card"
)

// WithdrawalMethod is the tagged union of supported payout destinations.
// Each variant validates its own required fields at construction time and
// exposes a payment fingerprint for cross-account reuse detection.
type WithdrawalMethod interface {
	Kind() MethodKind
	Validate() error
	PaymentFingerprint() string
}

type BankTransfer struct {
	BankCode      string `json:"bank_code"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
}

func (m BankTransfer) Kind() MethodKind { return MethodBankTransfer }

func (m BankTransfer) Validate() error {
	if m.BankCode == "" || m.AccountNumber == "" {
		return fmt.Errorf("%w: bank_transfer requires bank_code and account_number", domainErrors.ErrInvalidMethodFields)
	}
	return nil
}

func (m BankTransfer) PaymentFingerprint() string {
	return string(MethodBankTransfer) + ":" + m.BankCode + ":" + m.AccountNumber
}

type PayPal struct {
	Email string `json:"email"`
}

func (m PayPal) Kind() MethodKind { return MethodPayPal }

func (m PayPal) Validate() error {
	if m.Email == "" {
		return fmt.Errorf("%w: paypal requires email", domainErrors.ErrInvalidMethodFields)
	}
	return nil
}

func (m PayPal) PaymentFingerprint() string {
	return string(MethodPayPal) + ":" + m.Email
}

type Crypto struct {
	Network       string `json:"network"`
	WalletAddress string `json:"wallet_address"`
}

func (m Crypto) Kind() MethodKind { return MethodCrypto }

func (m Crypto) Validate() error {
	if m.Network == "" || m.WalletAddress == "" {
		return fmt.Errorf("%w: crypto requires network and wallet_address", domainErrors.ErrInvalidMethodFields)
	}
	return nil
}

func (m Crypto) PaymentFingerprint() string {
	return string(MethodCrypto) + ":" + m.Network + ":" + m.WalletAddress
}

type Airtime struct {
	PhoneNumber string `json:"phone_number"`
	Carrier     string `json:"carrier"`
}

func (m Airtime) Kind() MethodKind { return MethodAirtime }

func (m Airtime) Validate() error {
	if m.PhoneNumber == "" {
		return fmt.Errorf("%w: airtime requires phone_number", domainErrors.ErrInvalidMethodFields)
	}
	return nil
}

func (m Airtime) PaymentFingerprint() string {
	return string(MethodAirtime) + ":" + m.PhoneNumber
}

type GiftCard struct {
	Brand string `json:"brand"`
	Email string `json:"email"`
}

func (m GiftCard) Kind() MethodKind { return MethodGiftCard }

func (m GiftCard) Validate() error {
	if m.Brand == "" || m.Email == "" {
		return fmt.Errorf("%w: gift_card requires brand and email", domainErrors.ErrInvalidMethodFields)
	}
	return nil
}

func (m GiftCard) PaymentFingerprint() string {
	return string(MethodGiftCard) + ":" + m.Brand + ":" + m.Email
}

// DecodeMethod reconstructs a method variant from its kind tag and raw
// JSON details, validating required fields.
func DecodeMethod(kind MethodKind, details []byte) (WithdrawalMethod, error) {
	var method WithdrawalMethod
	switch kind {
	case MethodBankTransfer:
		var m BankTransfer
		if err := json.Unmarshal(details, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", domainErrors.ErrInvalidMethodFields, err)
		}
		method = m
	case MethodPayPal:
		var m PayPal
		if err := json.Unmarshal(details, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", domainErrors.ErrInvalidMethodFields, err)
		}
		method = m
	case MethodCrypto:
		var m Crypto
		if err := json.Unmarshal(details, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", domainErrors.ErrInvalidMethodFields, err)
		}
		method = m
	case MethodAirtime:
		var m Airtime
		if err := json.Unmarshal(details, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", domainErrors.ErrInvalidMethodFields, err)
		}
		method = m
	case MethodGiftCard:
		var m GiftCard
		if err := json.Unmarshal(details, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", domainErrors.ErrInvalidMethodFields, err)
		}
		method = m
	default:
		return nil, fmt.Errorf("%w: %q", domainErrors.ErrUnsupportedMethod, kind)
	}
	if err := method.Validate(); err != nil {
		return nil, err
	}
	return method, nil
}

// EncodeMethod serializes a method's details for storage alongside its
// kind tag.
func EncodeMethod(method WithdrawalMethod) (MethodKind, []byte, error) {
	details, err := json.Marshal(method)
	if err != nil {
		return "", nil, err
	}
	return method.Kind(), details, nil
}

// WithdrawalRequest is a user's request to convert reserved points into a
// real-currency payout. AmountUSD and RiskScore are frozen at creation
// and never recomputed, even if config changes later.
type WithdrawalRequest struct {
	ID              int64
	UserID          int64
	Reference       uuid.UUID
	AmountPoints    int64
	AmountUSD       decimal.Decimal
	Method          WithdrawalMethod
	Status          WithdrawalStatus
	RiskScore       int
	FraudSignals    []string
	AdminNote       string
	ProcessedBy     *int64
	ProcessedAt     *time.Time
	RejectionReason string
	CreatedAt       time.Time
}
