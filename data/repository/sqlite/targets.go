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

const targetColumns = "id, stock_id, portfolio_id, pivot_price, failure_price, notes, status"

type TargetRepo struct {
	q   Querier
	cfg *config.Config
}

func NewTargetRepo(cfg *config.Config, q Querier) *TargetRepo {
	return &TargetRepo{q: q, cfg: cfg}
}

func (r *TargetRepo) Create(ctx context.Context, target model.Target) (id int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TargetRepo.Create"
	query := `INSERT INTO target(stock_id, portfolio_id, pivot_price, failure_price, notes, status) VALUES(?, ?, ?, ?, ?, ?)`

	slog.Debug("Create start", slog.String("rqID", rqID), slog.String("op", op),
		slog.Int64("stockID", target.StockID), slog.Int64("portfolioID", target.PortfolioID))
	defer func() {
		if err != nil {
			slog.Error("Create failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	res, err := r.q.ExecContext(
		ctx,
		query,
		target.StockID,
		target.PortfolioID,
		target.PivotPrice.Amount(),
		target.FailurePrice.Amount(),
		nullable(target.Notes),
		string(target.Status),
	)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *TargetRepo) GetByID(ctx context.Context, id int64) (*model.Target, error) {
	query := `SELECT ` + targetColumns + ` FROM target WHERE id = ?`

	var row dbModel.Target
	err := r.q.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	target, err := dbConverter.ConvertTarget(row, r.cfg.Rules.BaseCurrency)
	if err != nil {
		return nil, err
	}
	return &target, nil
}

func (r *TargetRepo) List(ctx context.Context, filter model.TargetFilter) (targets []model.Target, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TargetRepo.List"

	var conds []string
	var args []any
	if filter.StockID != nil {
		conds = append(conds, "stock_id = ?")
		args = append(args, *filter.StockID)
	}
	if filter.PortfolioID != nil {
		conds = append(conds, "portfolio_id = ?")
		args = append(args, *filter.PortfolioID)
	}
	if filter.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, string(*filter.Status))
	}

	query := `SELECT ` + targetColumns + ` FROM target` + whereClause(conds) + ` ORDER BY stock_id, id`

	slog.Debug("List start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("List failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	var rows []dbModel.Target
	if err = r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	targets = make([]model.Target, 0, len(rows))
	for _, row := range rows {
		target, convErr := dbConverter.ConvertTarget(row, r.cfg.Rules.BaseCurrency)
		if convErr != nil {
			return nil, convErr
		}
		targets = append(targets, target)
	}
	return targets, nil
}

func (r *TargetRepo) Update(ctx context.Context, id int64, target model.Target) (updated bool, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TargetRepo.Update"
	query := `UPDATE target SET stock_id = ?, portfolio_id = ?, pivot_price = ?, failure_price = ?, notes = ?, status = ? WHERE id = ?`

	slog.Debug("Update start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("id", id))
	defer func() {
		if err != nil {
			slog.Error("Update failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	res, err := r.q.ExecContext(
		ctx,
		query,
		target.StockID,
		target.PortfolioID,
		target.PivotPrice.Amount(),
		target.FailurePrice.Amount(),
		nullable(target.Notes),
		string(target.Status),
		id,
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *TargetRepo) Delete(ctx context.Context, id int64) (deleted bool, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TargetRepo.Delete"
	query := `DELETE FROM target WHERE id = ?`

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
