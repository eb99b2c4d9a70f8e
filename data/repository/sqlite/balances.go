package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/KotFed0t/holdings_keeper/config"
	"github.com/KotFed0t/holdings_keeper/data/repository"
	"github.com/KotFed0t/holdings_keeper/internal/converter/dbConverter"
	"github.com/KotFed0t/holdings_keeper/internal/model"
	"github.com/KotFed0t/holdings_keeper/internal/model/dbModel"
	"github.com/KotFed0t/holdings_keeper/utils"
)

const balanceColumns = "id, portfolio_id, balance_date, withdrawals, deposits, final_balance, index_change"

type BalanceRepo struct {
	q   Querier
	cfg *config.Config
}

func NewBalanceRepo(cfg *config.Config, q Querier) *BalanceRepo {
	return &BalanceRepo{q: q, cfg: cfg}
}

func (r *BalanceRepo) Create(ctx context.Context, balance model.PortfolioBalance) (id int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "BalanceRepo.Create"
	query := `INSERT INTO portfolio_balance(portfolio_id, balance_date, withdrawals, deposits, final_balance, index_change) VALUES(?, ?, ?, ?, ?, ?)`

	slog.Debug("Create start", slog.String("rqID", rqID), slog.String("op", op),
		slog.Int64("portfolioID", balance.PortfolioID), slog.String("date", balance.Date.Format(dbModel.DateLayout)))
	defer func() {
		if err != nil && !errors.Is(err, repository.ErrAlreadyExists) {
			slog.Error("Create failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	res, err := r.q.ExecContext(
		ctx,
		query,
		balance.PortfolioID,
		balance.Date.Format(dbModel.DateLayout),
		balance.Withdrawals.Amount(),
		balance.Deposits.Amount(),
		balance.FinalBalance.Amount(),
		balance.IndexChange,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrAlreadyExists
		}
		return 0, err
	}

	return res.LastInsertId()
}

// Upsert writes the snapshot for (portfolio, date), replacing an existing
// row for the same day. One row per portfolio per day by construction.
func (r *BalanceRepo) Upsert(ctx context.Context, balance model.PortfolioBalance) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "BalanceRepo.Upsert"
	query := `
		INSERT INTO portfolio_balance(portfolio_id, balance_date, withdrawals, deposits, final_balance, index_change)
		VALUES(?, ?, ?, ?, ?, ?)
		ON CONFLICT(portfolio_id, balance_date) DO UPDATE SET
			withdrawals = excluded.withdrawals,
			deposits = excluded.deposits,
			final_balance = excluded.final_balance,
			index_change = excluded.index_change`

	slog.Debug("Upsert start", slog.String("rqID", rqID), slog.String("op", op),
		slog.Int64("portfolioID", balance.PortfolioID), slog.String("date", balance.Date.Format(dbModel.DateLayout)))
	defer func() {
		if err != nil {
			slog.Error("Upsert failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	_, err = r.q.ExecContext(
		ctx,
		query,
		balance.PortfolioID,
		balance.Date.Format(dbModel.DateLayout),
		balance.Withdrawals.Amount(),
		balance.Deposits.Amount(),
		balance.FinalBalance.Amount(),
		balance.IndexChange,
	)
	return err
}

func (r *BalanceRepo) GetByID(ctx context.Context, id int64) (*model.PortfolioBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM portfolio_balance WHERE id = ?`

	var row dbModel.PortfolioBalance
	err := r.q.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	balance, err := dbConverter.ConvertBalance(row, r.cfg.Rules.BaseCurrency)
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func (r *BalanceRepo) GetByPortfolioAndDate(ctx context.Context, portfolioID int64, date time.Time) (*model.PortfolioBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM portfolio_balance WHERE portfolio_id = ? AND balance_date = ?`

	var row dbModel.PortfolioBalance
	err := r.q.GetContext(ctx, &row, query, portfolioID, date.Format(dbModel.DateLayout))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	balance, err := dbConverter.ConvertBalance(row, r.cfg.Rules.BaseCurrency)
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

// GetLatest returns the most recent snapshot for the portfolio, nil when
// none exists yet.
func (r *BalanceRepo) GetLatest(ctx context.Context, portfolioID int64) (*model.PortfolioBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM portfolio_balance WHERE portfolio_id = ? ORDER BY balance_date DESC LIMIT 1`

	var row dbModel.PortfolioBalance
	err := r.q.GetContext(ctx, &row, query, portfolioID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	balance, err := dbConverter.ConvertBalance(row, r.cfg.Rules.BaseCurrency)
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func (r *BalanceRepo) List(ctx context.Context, filter model.BalanceFilter) (balances []model.PortfolioBalance, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "BalanceRepo.List"

	var conds []string
	var args []any
	if filter.PortfolioID != nil {
		conds = append(conds, "portfolio_id = ?")
		args = append(args, *filter.PortfolioID)
	}
	if filter.DateFrom != nil {
		conds = append(conds, "balance_date >= ?")
		args = append(args, filter.DateFrom.Format(dbModel.DateLayout))
	}
	if filter.DateTo != nil {
		conds = append(conds, "balance_date <= ?")
		args = append(args, filter.DateTo.Format(dbModel.DateLayout))
	}

	query := `SELECT ` + balanceColumns + ` FROM portfolio_balance` + whereClause(conds) + ` ORDER BY balance_date, portfolio_id`

	slog.Debug("List start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("List failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	var rows []dbModel.PortfolioBalance
	if err = r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	balances = make([]model.PortfolioBalance, 0, len(rows))
	for _, row := range rows {
		balance, convErr := dbConverter.ConvertBalance(row, r.cfg.Rules.BaseCurrency)
		if convErr != nil {
			return nil, convErr
		}
		balances = append(balances, balance)
	}
	return balances, nil
}

func (r *BalanceRepo) Delete(ctx context.Context, id int64) (deleted bool, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "BalanceRepo.Delete"
	query := `DELETE FROM portfolio_balance WHERE id = ?`

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
