package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/KotFed0t/holdings_keeper/config"
	"github.com/KotFed0t/holdings_keeper/data/repository"
	"github.com/KotFed0t/holdings_keeper/internal/converter/dbConverter"
	"github.com/KotFed0t/holdings_keeper/internal/model"
	"github.com/KotFed0t/holdings_keeper/internal/model/dbModel"
	"github.com/KotFed0t/holdings_keeper/utils"
)

const stockColumns = "id, symbol, name, industry_group, grade, notes"

type StockRepo struct {
	q   Querier
	cfg *config.Config
}

func NewStockRepo(cfg *config.Config, q Querier) *StockRepo {
	return &StockRepo{q: q, cfg: cfg}
}

func (r *StockRepo) Create(ctx context.Context, stock model.Stock) (id int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StockRepo.Create"
	query := `INSERT INTO stock(symbol, name, industry_group, grade, notes) VALUES(?, ?, ?, ?, ?)`

	slog.Debug("Create start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", stock.Symbol.String()))
	defer func() {
		if err != nil && !errors.Is(err, repository.ErrAlreadyExists) {
			slog.Error("Create failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	res, err := r.q.ExecContext(
		ctx,
		query,
		stock.Symbol.String(),
		stock.Name,
		nullable(stock.IndustryGroup),
		nullable(string(stock.Grade)),
		nullable(stock.Notes),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrAlreadyExists
		}
		return 0, err
	}

	return res.LastInsertId()
}

func (r *StockRepo) GetByID(ctx context.Context, id int64) (*model.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stock WHERE id = ?`

	var row dbModel.Stock
	err := r.q.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	stock, err := dbConverter.ConvertStock(row)
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *StockRepo) GetBySymbol(ctx context.Context, symbol model.Symbol) (*model.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stock WHERE symbol = ?`

	var row dbModel.Stock
	err := r.q.GetContext(ctx, &row, query, symbol.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	stock, err := dbConverter.ConvertStock(row)
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *StockRepo) List(ctx context.Context, filter model.StockFilter) (stocks []model.Stock, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StockRepo.List"

	var conds []string
	var args []any
	if filter.Symbol != nil {
		conds = append(conds, "symbol = ?")
		args = append(args, filter.Symbol.String())
	}
	if filter.NameContains != nil {
		conds = append(conds, "name LIKE ?")
		args = append(args, "%"+*filter.NameContains+"%")
	}
	if filter.IndustryGroup != nil {
		conds = append(conds, "industry_group = ?")
		args = append(args, *filter.IndustryGroup)
	}
	if filter.Grade != nil {
		conds = append(conds, "grade = ?")
		args = append(args, string(*filter.Grade))
	}

	query := `SELECT ` + stockColumns + ` FROM stock` + whereClause(conds) + ` ORDER BY symbol`

	slog.Debug("List start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("List failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	var rows []dbModel.Stock
	if err = r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	stocks = make([]model.Stock, 0, len(rows))
	for _, row := range rows {
		stock, convErr := dbConverter.ConvertStock(row)
		if convErr != nil {
			return nil, convErr
		}
		stocks = append(stocks, stock)
	}
	return stocks, nil
}

// Update rewrites the mutable attributes. The symbol is immutable once
// persisted and is deliberately excluded from the SET list.
func (r *StockRepo) Update(ctx context.Context, id int64, stock model.Stock) (updated bool, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StockRepo.Update"
	query := `UPDATE stock SET name = ?, industry_group = ?, grade = ?, notes = ? WHERE id = ?`

	slog.Debug("Update start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("id", id))
	defer func() {
		if err != nil {
			slog.Error("Update failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	res, err := r.q.ExecContext(
		ctx,
		query,
		stock.Name,
		nullable(stock.IndustryGroup),
		nullable(string(stock.Grade)),
		nullable(stock.Notes),
		id,
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *StockRepo) Delete(ctx context.Context, id int64) (deleted bool, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StockRepo.Delete"
	query := `DELETE FROM stock WHERE id = ?`

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
