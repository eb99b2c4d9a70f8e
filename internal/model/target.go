package model

import "fmt"

type TargetStatus string

const (
	TargetActive    TargetStatus = "active"
	TargetHit       TargetStatus = "hit"
	TargetFailed    TargetStatus = "failed"
	TargetCancelled TargetStatus = "cancelled"
)

func (s TargetStatus) Valid() bool {
	switch s {
	case TargetActive, TargetHit, TargetFailed, TargetCancelled:
		return true
	}
	return false
}

// Target is a price target for a stock inside a portfolio: the pivot price
// confirms the setup, the failure price invalidates it.
type Target struct {
	ID           int64
	StockID      int64
	PortfolioID  int64
	PivotPrice   Money
	FailurePrice Money
	Notes        string
	Status       TargetStatus
}

func NewTarget(stockID, portfolioID int64, pivotPrice, failurePrice Money, notes string, status TargetStatus) (Target, error) {
	if stockID <= 0 {
		return Target{}, fmt.Errorf("%w: target without stock", ErrValidation)
	}
	if portfolioID <= 0 {
		return Target{}, fmt.Errorf("%w: target without portfolio", ErrValidation)
	}
	if status == "" {
		status = TargetActive
	}
	if !status.Valid() {
		return Target{}, fmt.Errorf("%w: target status %q", ErrValidation, status)
	}
	exceeds, err := pivotPrice.GreaterThan(failurePrice)
	if err != nil {
		return Target{}, err
	}
	if !exceeds {
		return Target{}, fmt.Errorf("%w: pivot must exceed failure (%s <= %s)", ErrValidation, pivotPrice, failurePrice)
	}
	return Target{
		StockID:      stockID,
		PortfolioID:  portfolioID,
		PivotPrice:   pivotPrice,
		FailurePrice: failurePrice,
		Notes:        notes,
		Status:       status,
	}, nil
}
