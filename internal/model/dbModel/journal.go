package dbModel

import "database/sql"

type JournalEntry struct {
	ID            int64          `db:"id"`
	PortfolioID   sql.NullInt64  `db:"portfolio_id"`
	StockID       sql.NullInt64  `db:"stock_id"`
	TransactionID sql.NullInt64  `db:"transaction_id"`
	EntryDate     string         `db:"entry_date"`
	Title         sql.NullString `db:"title"`
	Content       string         `db:"content"`
	Tags          sql.NullString `db:"tags"`
}
