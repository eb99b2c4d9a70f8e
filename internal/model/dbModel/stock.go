package dbModel

import "database/sql"

// DateLayout is how day-granularity dates are persisted.
const DateLayout = "2006-01-02"

type Stock struct {
	ID            int64          `db:"id"`
	Symbol        string         `db:"symbol"`
	Name          string         `db:"name"`
	IndustryGroup sql.NullString `db:"industry_group"`
	Grade         sql.NullString `db:"grade"`
	Notes         sql.NullString `db:"notes"`
}
