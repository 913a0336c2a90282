package usecase

import (
	"errors"
	"testing"

	domainErrors "github.com/earnwell/economy/internal/domain/errors"
	"github.com/earnwell/economy/internal/domain/model"
)

func conversionConfig() *model.EconomyConfig {
	return &model.EconomyConfig{
		PointsPerDollar:    10000,
		GlobalMargin:       1.0,
		CountryMultipliers: map[string]float64{"NG": 0.8, "US": 1.0},
	}
}

func TestToUSD(t *testing.T) {
	cfg := conversionConfig()

	tests := []struct {
		name    string
		points  int64
		country string
		want    string
	}{
		{name: "nigeria discount", points: 5000, country: "NG", want: "0.40"},
		{name: "configured full rate", points: 5000, country: "US", want: "0.50"},
		{name: "unknown country defaults to one", points: 5000, country: "ZZ", want: "0.50"},
		{name: "whole dollars", points: 20000, country: "US", want: "2.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToUSD(cfg, tt.points, tt.country)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.StringFixed(2) != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got.StringFixed(2))
			}
		})
	}
}

func TestToUSDRoundsHalfEven(t *testing.T) {
	cfg := &model.EconomyConfig{PointsPerDollar: 1000, GlobalMargin: 1.0}

	// 125/1000 = 0.125: the tie rounds down to the even digit.
	got, err := ToUSD(cfg, 125, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.StringFixed(2) != "0.12" {
		t.Fatalf("expected 0.12, got %s", got.StringFixed(2))
	}

	// 135/1000 = 0.135: the tie rounds up to the even digit.
	got, err = ToUSD(cfg, 135, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.StringFixed(2) != "0.14" {
		t.Fatalf("expected 0.14, got %s", got.StringFixed(2))
	}
}

func TestToUSDAppliesGlobalMargin(t *testing.T) {
	cfg := conversionConfig()
	cfg.GlobalMargin = 0.5

	got, err := ToUSD(cfg, 10000, "US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.StringFixed(2) != "0.50" {
		t.Fatalf("expected margin applied, got %s", got.StringFixed(2))
	}
}

func TestToUSDRejectsNonPositivePoints(t *testing.T) {
	cfg := conversionConfig()
	if _, err := ToUSD(cfg, 0, "US"); !errors.Is(err, domainErrors.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if _, err := ToUSD(cfg, -10, "US"); !errors.Is(err, domainErrors.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
}

func TestToUSDFailsClosedWithoutParameters(t *testing.T) {
	if _, err := ToUSD(&model.EconomyConfig{GlobalMargin: 1.0}, 100, ""); !errors.Is(err, domainErrors.ErrConfigUnavailable) {
		t.Fatalf("expected config unavailable, got %v", err)
	}
	if _, err := ToUSD(&model.EconomyConfig{PointsPerDollar: 1000}, 100, ""); !errors.Is(err, domainErrors.ErrConfigUnavailable) {
		t.Fatalf("expected config unavailable, got %v", err)
	}
}
