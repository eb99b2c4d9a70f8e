package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioBalance is a periodic snapshot of portfolio equity. One row per
// (portfolio, date); repositories upsert on conflict.
type PortfolioBalance struct {
	ID           int64
	PortfolioID  int64
	Date         time.Time
	Withdrawals  Money
	Deposits     Money
	FinalBalance Money
	IndexChange  decimal.Decimal // benchmark index change, percent
}

func NewPortfolioBalance(portfolioID int64, date time.Time, withdrawals, deposits, finalBalance Money, indexChange decimal.Decimal) (PortfolioBalance, error) {
	if portfolioID <= 0 {
		return PortfolioBalance{}, fmt.Errorf("%w: balance without portfolio", ErrValidation)
	}
	if date.IsZero() {
		return PortfolioBalance{}, fmt.Errorf("%w: balance date is zero", ErrValidation)
	}
	if withdrawals.IsNegative() || deposits.IsNegative() {
		return PortfolioBalance{}, fmt.Errorf("%w: withdrawals and deposits must be non-negative", ErrValidation)
	}
	if err := withdrawals.sameCurrency(deposits); err != nil {
		return PortfolioBalance{}, err
	}
	if err := withdrawals.sameCurrency(finalBalance); err != nil {
		return PortfolioBalance{}, err
	}
	return PortfolioBalance{
		PortfolioID:  portfolioID,
		Date:         date,
		Withdrawals:  withdrawals,
		Deposits:     deposits,
		FinalBalance: finalBalance,
		IndexChange:  indexChange,
	}, nil
}
