package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/KotFed0t/holdings_keeper/config"
	"github.com/KotFed0t/holdings_keeper/internal/converter/dbConverter"
	"github.com/KotFed0t/holdings_keeper/internal/model"
	"github.com/KotFed0t/holdings_keeper/internal/model/dbModel"
	"github.com/KotFed0t/holdings_keeper/utils"
)

const journalColumns = "id, portfolio_id, stock_id, transaction_id, entry_date, title, content, tags"

type JournalRepo struct {
	q   Querier
	cfg *config.Config
}

func NewJournalRepo(cfg *config.Config, q Querier) *JournalRepo {
	return &JournalRepo{q: q, cfg: cfg}
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func (r *JournalRepo) Create(ctx context.Context, entry model.JournalEntry) (id int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "JournalRepo.Create"
	query := `INSERT INTO journal_entry(portfolio_id, stock_id, transaction_id, entry_date, title, content, tags) VALUES(?, ?, ?, ?, ?, ?, ?)`

	slog.Debug("Create start", slog.String("rqID", rqID), slog.String("op", op), slog.String("title", entry.Title))
	defer func() {
		if err != nil {
			slog.Error("Create failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	res, err := r.q.ExecContext(
		ctx,
		query,
		nullableID(entry.PortfolioID),
		nullableID(entry.StockID),
		nullableID(entry.TransactionID),
		entry.Date.Format(dbModel.DateLayout),
		nullable(entry.Title),
		entry.Content,
		nullable(strings.Join(entry.Tags, ",")),
	)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *JournalRepo) GetByID(ctx context.Context, id int64) (*model.JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entry WHERE id = ?`

	var row dbModel.JournalEntry
	err := r.q.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	entry, err := dbConverter.ConvertJournalEntry(row)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *JournalRepo) List(ctx context.Context, filter model.JournalFilter) (entries []model.JournalEntry, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "JournalRepo.List"

	var conds []string
	var args []any
	if filter.PortfolioID != nil {
		conds = append(conds, "portfolio_id = ?")
		args = append(args, *filter.PortfolioID)
	}
	if filter.StockID != nil {
		conds = append(conds, "stock_id = ?")
		args = append(args, *filter.StockID)
	}
	if filter.TransactionID != nil {
		conds = append(conds, "transaction_id = ?")
		args = append(args, *filter.TransactionID)
	}
	if filter.DateFrom != nil {
		conds = append(conds, "entry_date >= ?")
		args = append(args, filter.DateFrom.Format(dbModel.DateLayout))
	}
	if filter.DateTo != nil {
		conds = append(conds, "entry_date <= ?")
		args = append(args, filter.DateTo.Format(dbModel.DateLayout))
	}
	if filter.TitleContains != nil {
		conds = append(conds, "title LIKE ?")
		args = append(args, "%"+*filter.TitleContains+"%")
	}

	query := `SELECT ` + journalColumns + ` FROM journal_entry` + whereClause(conds) + ` ORDER BY entry_date, id`

	slog.Debug("List start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("List failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	var rows []dbModel.JournalEntry
	if err = r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	entries = make([]model.JournalEntry, 0, len(rows))
	for _, row := range rows {
		entry, convErr := dbConverter.ConvertJournalEntry(row)
		if convErr != nil {
			return nil, convErr
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *JournalRepo) Update(ctx context.Context, id int64, entry model.JournalEntry) (updated bool, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "JournalRepo.Update"
	query := `UPDATE journal_entry SET portfolio_id = ?, stock_id = ?, transaction_id = ?, entry_date = ?, title = ?, content = ?, tags = ? WHERE id = ?`

	slog.Debug("Update start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("id", id))
	defer func() {
		if err != nil {
			slog.Error("Update failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	res, err := r.q.ExecContext(
		ctx,
		query,
		nullableID(entry.PortfolioID),
		nullableID(entry.StockID),
		nullableID(entry.TransactionID),
		entry.Date.Format(dbModel.DateLayout),
		nullable(entry.Title),
		entry.Content,
		nullable(strings.Join(entry.Tags, ",")),
		id,
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *JournalRepo) Delete(ctx context.Context, id int64) (deleted bool, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "JournalRepo.Delete"
	query := `DELETE FROM journal_entry WHERE id = ?`

	slog.Debug("Delete start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("id", id))
	defer func() {
		if err != nil {
			slog.Error("Delete failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	res, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	return n > 0, err
}
