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

const portfolioColumns = "id, name, description, max_positions, max_risk_per_trade, is_active"

type PortfolioRepo struct {
	q   Querier
	cfg *config.Config
}

func NewPortfolioRepo(cfg *config.Config, q Querier) *PortfolioRepo {
	return &PortfolioRepo{q: q, cfg: cfg}
}

func (r *PortfolioRepo) Create(ctx context.Context, portfolio model.Portfolio) (id int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioRepo.Create"
	query := `INSERT INTO portfolio(name, description, max_positions, max_risk_per_trade, is_active) VALUES(?, ?, ?, ?, ?)`

	slog.Debug("Create start", slog.String("rqID", rqID), slog.String("op", op), slog.String("name", portfolio.Name))
	defer func() {
		if err != nil {
			slog.Error("Create failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	res, err := r.q.ExecContext(
		ctx,
		query,
		portfolio.Name,
		nullable(portfolio.Description),
		portfolio.MaxPositions,
		portfolio.MaxRiskPerTrade,
		portfolio.IsActive,
	)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *PortfolioRepo) GetByID(ctx context.Context, id int64) (*model.Portfolio, error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolio WHERE id = ?`

	var row dbModel.Portfolio
	err := r.q.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	portfolio, err := dbConverter.ConvertPortfolio(row)
	if err != nil {
		return nil, err
	}
	return &portfolio, nil
}

func (r *PortfolioRepo) List(ctx context.Context, filter model.PortfolioFilter) (portfolios []model.Portfolio, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioRepo.List"

	var conds []string
	var args []any
	if filter.NameContains != nil {
		conds = append(conds, "name LIKE ?")
		args = append(args, "%"+*filter.NameContains+"%")
	}
	if filter.IsActive != nil {
		conds = append(conds, "is_active = ?")
		args = append(args, *filter.IsActive)
	}

	query := `SELECT ` + portfolioColumns + ` FROM portfolio` + whereClause(conds) + ` ORDER BY name, id`

	slog.Debug("List start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("List failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	var rows []dbModel.Portfolio
	if err = r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	portfolios = make([]model.Portfolio, 0, len(rows))
	for _, row := range rows {
		portfolio, convErr := dbConverter.ConvertPortfolio(row)
		if convErr != nil {
			return nil, convErr
		}
		portfolios = append(portfolios, portfolio)
	}
	return portfolios, nil
}

func (r *PortfolioRepo) Update(ctx context.Context, id int64, portfolio model.Portfolio) (updated bool, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioRepo.Update"
	query := `UPDATE portfolio SET name = ?, description = ?, max_positions = ?, max_risk_per_trade = ?, is_active = ? WHERE id = ?`

	slog.Debug("Update start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("id", id))
	defer func() {
		if err != nil {
			slog.Error("Update failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	res, err := r.q.ExecContext(
		ctx,
		query,
		portfolio.Name,
		nullable(portfolio.Description),
		portfolio.MaxPositions,
		portfolio.MaxRiskPerTrade,
		portfolio.IsActive,
		id,
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PortfolioRepo) Delete(ctx context.Context, id int64) (deleted bool, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioRepo.Delete"
	query := `DELETE FROM portfolio WHERE id = ?`

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
