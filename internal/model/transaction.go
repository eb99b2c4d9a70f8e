package model

import (
	"fmt"
	"time"
)

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

type Transaction struct {
	ID          int64
	PortfolioID int64
	StockID     int64
	Side        Side
	Quantity    Quantity
	Price       Money
	Date        time.Time
	Notes       string
}

func NewTransaction(portfolioID, stockID int64, side Side, quantity Quantity, price Money, date time.Time, notes string) (Transaction, error) {
	if portfolioID <= 0 {
		return Transaction{}, fmt.Errorf("%w: transaction without portfolio", ErrValidation)
	}
	if stockID <= 0 {
		return Transaction{}, fmt.Errorf("%w: transaction without stock", ErrValidation)
	}
	if !side.Valid() {
		return Transaction{}, fmt.Errorf("%w: side %q not in buy/sell", ErrValidation, side)
	}
	if !quantity.IsPositive() {
		return Transaction{}, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if !price.IsPositive() {
		return Transaction{}, fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	if date.IsZero() {
		return Transaction{}, fmt.Errorf("%w: transaction date is zero", ErrValidation)
	}
	// date <= today, at local calendar-day granularity
	now := time.Now()
	startOfTomorrow := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	if !date.Before(startOfTomorrow) {
		return Transaction{}, fmt.Errorf("%w: transaction date %s is in the future", ErrValidation, date.Format("2006-01-02"))
	}
	return Transaction{
		PortfolioID: portfolioID,
		StockID:     stockID,
		Side:        side,
		Quantity:    quantity,
		Price:       price,
		Date:        date,
		Notes:       notes,
	}, nil
}

// Total returns quantity * price.
func (t Transaction) Total() Money {
	return t.Price.Mul(t.Quantity.Value())
}
