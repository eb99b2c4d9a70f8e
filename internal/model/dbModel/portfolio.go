package dbModel

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Portfolio struct {
	ID              int64           `db:"id"`
	Name            string          `db:"name"`
	Description     sql.NullString  `db:"description"`
	MaxPositions    int             `db:"max_positions"`
	MaxRiskPerTrade decimal.Decimal `db:"max_risk_per_trade"`
	IsActive        bool            `db:"is_active"`
}

type PortfolioBalance struct {
	ID           int64           `db:"id"`
	PortfolioID  int64           `db:"portfolio_id"`
	BalanceDate  string          `db:"balance_date"`
	Withdrawals  decimal.Decimal `db:"withdrawals"`
	Deposits     decimal.Decimal `db:"deposits"`
	FinalBalance decimal.Decimal `db:"final_balance"`
	IndexChange  decimal.Decimal `db:"index_change"`
}
