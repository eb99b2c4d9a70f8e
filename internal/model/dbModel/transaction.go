package dbModel

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID              int64           `db:"id"`
	PortfolioID     int64           `db:"portfolio_id"`
	StockID         int64           `db:"stock_id"`
	Type            string          `db:"type"`
	Quantity        decimal.Decimal `db:"quantity"`
	Price           decimal.Decimal `db:"price"`
	TransactionDate string          `db:"transaction_date"`
	Notes           sql.NullString  `db:"notes"`
}

type Target struct {
	ID           int64           `db:"id"`
	StockID      int64           `db:"stock_id"`
	PortfolioID  int64           `db:"portfolio_id"`
	PivotPrice   decimal.Decimal `db:"pivot_price"`
	FailurePrice decimal.Decimal `db:"failure_price"`
	Notes        sql.NullString  `db:"notes"`
	Status       string          `db:"status"`
}
