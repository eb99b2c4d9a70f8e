package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const maxPortfolioNameLen = 100

type Portfolio struct {
	ID              int64
	Name            string
	Description     string
	MaxPositions    int
	MaxRiskPerTrade decimal.Decimal // percent of equity risked per trade
	IsActive        bool
}

func NewPortfolio(name, description string, maxPositions int, maxRiskPerTrade decimal.Decimal, isActive bool) (Portfolio, error) {
	if name == "" {
		return Portfolio{}, fmt.Errorf("%w: portfolio name is empty", ErrValidation)
	}
	if len(name) > maxPortfolioNameLen {
		return Portfolio{}, fmt.Errorf("%w: portfolio name longer than %d chars", ErrValidation, maxPortfolioNameLen)
	}
	if maxPositions < 0 {
		return Portfolio{}, fmt.Errorf("%w: negative max positions", ErrValidation)
	}
	if maxRiskPerTrade.IsNegative() {
		return Portfolio{}, fmt.Errorf("%w: negative max risk per trade", ErrValidation)
	}
	return Portfolio{
		Name:            name,
		Description:     description,
		MaxPositions:    maxPositions,
		MaxRiskPerTrade: maxRiskPerTrade,
		IsActive:        isActive,
	}, nil
}
