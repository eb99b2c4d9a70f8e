package model

import "time"

// Position is the aggregate of all transactions for one stock inside a
// portfolio. Invested and Proceeds are kept separate so neither side of
// the ledger ever goes negative.
type Position struct {
	Stock    Stock
	Quantity Quantity
	Invested Money // sum of buy totals
	Proceeds Money // sum of sell totals
}

// PortfolioReport is the input for report generation: current positions
// plus the transaction history backing them.
type PortfolioReport struct {
	Portfolio    Portfolio
	Positions    []Position
	Transactions []Transaction
	GeneratedAt  time.Time
}
