package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/KotFed0t/holdings_keeper/config"
	"github.com/KotFed0t/holdings_keeper/internal/converter/dbConverter"
	"github.com/KotFed0t/holdings_keeper/internal/model"
	"github.com/KotFed0t/holdings_keeper/internal/model/dbModel"
	"github.com/KotFed0t/holdings_keeper/utils"
)

const transactionColumns = "id, portfolio_id, stock_id, type, quantity, price, transaction_date, notes"

type TransactionRepo struct {
	q   Querier
	cfg *config.Config
}

func NewTransactionRepo(cfg *config.Config, q Querier) *TransactionRepo {
	return &TransactionRepo{q: q, cfg: cfg}
}

func (r *TransactionRepo) Create(ctx context.Context, tx model.Transaction) (id int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TransactionRepo.Create"
	query := `INSERT INTO stock_transaction(portfolio_id, stock_id, type, quantity, price, transaction_date, notes) VALUES(?, ?, ?, ?, ?, ?, ?)`

	slog.Debug("Create start", slog.String("rqID", rqID), slog.String("op", op),
		slog.Int64("portfolioID", tx.PortfolioID), slog.Int64("stockID", tx.StockID), slog.String("side", string(tx.Side)))
	defer func() {
		if err != nil {
			slog.Error("Create failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	res, err := r.q.ExecContext(
		ctx,
		query,
		tx.PortfolioID,
		tx.StockID,
		string(tx.Side),
		tx.Quantity.Value(),
		tx.Price.Amount(),
		tx.Date.Format(dbModel.DateLayout),
		nullable(tx.Notes),
	)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *TransactionRepo) GetByID(ctx context.Context, id int64) (*model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM stock_transaction WHERE id = ?`

	var row dbModel.Transaction
	err := r.q.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	tx, err := dbConverter.ConvertTransaction(row, r.cfg.Rules.BaseCurrency)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *TransactionRepo) List(ctx context.Context, filter model.TransactionFilter) (txs []model.Transaction, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TransactionRepo.List"

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
	if filter.Side != nil {
		conds = append(conds, "type = ?")
		args = append(args, string(*filter.Side))
	}
	if filter.DateFrom != nil {
		conds = append(conds, "transaction_date >= ?")
		args = append(args, filter.DateFrom.Format(dbModel.DateLayout))
	}
	if filter.DateTo != nil {
		conds = append(conds, "transaction_date <= ?")
		args = append(args, filter.DateTo.Format(dbModel.DateLayout))
	}

	query := `SELECT ` + transactionColumns + ` FROM stock_transaction` + whereClause(conds) + ` ORDER BY transaction_date, id`

	slog.Debug("List start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("List failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	var rows []dbModel.Transaction
	if err = r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	txs = make([]model.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, convErr := dbConverter.ConvertTransaction(row, r.cfg.Rules.BaseCurrency)
		if convErr != nil {
			return nil, convErr
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func (r *TransactionRepo) Update(ctx context.Context, id int64, tx model.Transaction) (updated bool, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TransactionRepo.Update"
	query := `UPDATE stock_transaction SET portfolio_id = ?, stock_id = ?, type = ?, quantity = ?, price = ?, transaction_date = ?, notes = ? WHERE id = ?`

	slog.Debug("Update start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("id", id))
	defer func() {
		if err != nil {
			slog.Error("Update failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	res, err := r.q.ExecContext(
		ctx,
		query,
		tx.PortfolioID,
		tx.StockID,
		string(tx.Side),
		tx.Quantity.Value(),
		tx.Price.Amount(),
		tx.Date.Format(dbModel.DateLayout),
		nullable(tx.Notes),
		id,
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *TransactionRepo) Delete(ctx context.Context, id int64) (deleted bool, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TransactionRepo.Delete"
	query := `DELETE FROM stock_transaction WHERE id = ?`

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
