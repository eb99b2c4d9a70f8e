package model

import "time"

// Filters for repository list operations. Non-nil fields are combined into
// an AND-conjunction of predicates; results come back in a stable natural
// order so pagination and tests are deterministic.

type StockFilter struct {
	Symbol        *Symbol
	NameContains  *string
	IndustryGroup *string
	Grade         *Grade
}

type PortfolioFilter struct {
	NameContains *string
	IsActive     *bool
}

type TransactionFilter struct {
	PortfolioID *int64
	StockID     *int64
	Side        *Side
	DateFrom    *time.Time
	DateTo      *time.Time
}

type TargetFilter struct {
	StockID     *int64
	PortfolioID *int64
	Status      *TargetStatus
}

type BalanceFilter struct {
	PortfolioID *int64
	DateFrom    *time.Time
	DateTo      *time.Time
}

type JournalFilter struct {
	PortfolioID   *int64
	StockID       *int64
	TransactionID *int64
	DateFrom      *time.Time
	DateTo        *time.Time
	TitleContains *string
}
