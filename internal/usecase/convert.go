package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"

	domainErrors "github.com/earnwell/economy/internal/domain/errors"
	"github.com/earnwell/economy/internal/domain/model"
)

// ToUSD converts a point quantity into a USD value:
//
//	usd = (points / pointsPerDollar) * countryMultiplier * globalMargin
//
// rounded to two decimal places with round-half-even. The same function
// produces both the user-facing estimate and the amount frozen on a
// withdrawal request, so the two can never disagree.
func ToUSD(cfg *model.EconomyConfig, points int64, country string) (decimal.Decimal, error) {
	if points <= 0 {
		return decimal.Zero, fmt.Errorf("%w: points must be positive, got %d", domainErrors.ErrInvalidAmount, points)
	}
	if cfg.PointsPerDollar <= 0 || cfg.GlobalMargin <= 0 {
		return decimal.Zero, fmt.Errorf("%w: conversion parameters not configured", domainErrors.ErrConfigUnavailable)
	}

	usd := decimal.NewFromInt(points).
		Div(decimal.NewFromInt(cfg.PointsPerDollar)).
		Mul(decimal.NewFromFloat(cfg.CountryMultiplier(country))).
		Mul(decimal.NewFromFloat(cfg.GlobalMargin))

	return usd.RoundBank(2), nil
}
