package holdingsService

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KotFed0t/holdings_keeper/config"
	"github.com/KotFed0t/holdings_keeper/data"
	"github.com/KotFed0t/holdings_keeper/internal/model"
	"github.com/KotFed0t/holdings_keeper/internal/service"
	"github.com/KotFed0t/holdings_keeper/utils"
	"github.com/shopspring/decimal"
)

type ReportGenerator interface {
	Generate(ctx context.Context, report model.PortfolioReport) (fileBytes []byte, fileExtension string, err error)
}

// HoldingsService is the application layer over the unit of work. Every
// write runs inside one scope so the transaction, its journal entry and
// any side effects commit or roll back together.
type HoldingsService struct {
	cfg             *config.Config
	uowFactory      *data.UnitOfWorkFactory
	reportGenerator ReportGenerator
}

func New(cfg *config.Config, uowFactory *data.UnitOfWorkFactory, reportGenerator ReportGenerator) *HoldingsService {
	return &HoldingsService{
		cfg:             cfg,
		uowFactory:      uowFactory,
		reportGenerator: reportGenerator,
	}
}

func (s *HoldingsService) RegisterStock(ctx context.Context, symbolRaw, name, industryGroup string, grade model.Grade, notes string) (stockID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "HoldingsService.RegisterStock"

	slog.Debug("RegisterStock start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbolRaw))
	defer func() {
		if err != nil {
			slog.Error("RegisterStock failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	symbol, err := model.NewSymbol(symbolRaw)
	if err != nil {
		return 0, err
	}
	stock, err := model.NewStock(symbol, name, industryGroup, grade, notes)
	if err != nil {
		return 0, err
	}

	uow := s.uowFactory.New()
	return uow.Stocks().Create(ctx, stock)
}

func (s *HoldingsService) CreatePortfolio(ctx context.Context, name, description string, maxPositions int, maxRiskPerTrade decimal.Decimal) (portfolioID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "HoldingsService.CreatePortfolio"

	slog.Debug("CreatePortfolio start", slog.String("rqID", rqID), slog.String("op", op), slog.String("name", name))
	defer func() {
		if err != nil {
			slog.Error("CreatePortfolio failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	portfolio, err := model.NewPortfolio(name, description, maxPositions, maxRiskPerTrade, true)
	if err != nil {
		return 0, err
	}

	uow := s.uowFactory.New()
	return uow.Portfolios().Create(ctx, portfolio)
}

// RecordBuy books a buy transaction and its journal entry in one scope.
func (s *HoldingsService) RecordBuy(ctx context.Context, portfolioID int64, symbolRaw string, quantity model.Quantity, price model.Money, date time.Time, notes string) (txID int64, err error) {
	return s.recordTrade(ctx, portfolioID, symbolRaw, model.SideBuy, quantity, price, date, notes)
}

// RecordSell books a sell transaction. The position is checked inside the
// same scope; overselling is rejected unless the oversell rule allows it.
func (s *HoldingsService) RecordSell(ctx context.Context, portfolioID int64, symbolRaw string, quantity model.Quantity, price model.Money, date time.Time, notes string) (txID int64, err error) {
	return s.recordTrade(ctx, portfolioID, symbolRaw, model.SideSell, quantity, price, date, notes)
}

func (s *HoldingsService) recordTrade(ctx context.Context, portfolioID int64, symbolRaw string, side model.Side, quantity model.Quantity, price model.Money, date time.Time, notes string) (txID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "HoldingsService.recordTrade"

	slog.Debug("recordTrade start", slog.String("rqID", rqID), slog.String("op", op),
		slog.Int64("portfolioID", portfolioID), slog.String("symbol", symbolRaw), slog.String("side", string(side)))
	defer func() {
		if err != nil {
			slog.Error("recordTrade failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	symbol, err := model.NewSymbol(symbolRaw)
	if err != nil {
		return 0, err
	}

	uow := s.uowFactory.New()
	err = uow.Do(ctx, func(ctx context.Context, uow *data.UnitOfWork) error {
		portfolio, err := uow.Portfolios().GetByID(ctx, portfolioID)
		if err != nil {
			return err
		}
		if portfolio == nil {
			return fmt.Errorf("%w: portfolio %d", service.ErrNotFound, portfolioID)
		}
		if !portfolio.IsActive {
			return fmt.Errorf("%w: portfolio %d", service.ErrPortfolioInactive, portfolioID)
		}

		stock, err := uow.Stocks().GetBySymbol(ctx, symbol)
		if err != nil {
			return err
		}
		if stock == nil {
			return fmt.Errorf("%w: stock %s", service.ErrNotFound, symbol)
		}

		if side == model.SideSell && !s.cfg.Rules.AllowOversell {
			position, err := s.position(ctx, uow, portfolioID, stock.ID)
			if err != nil {
				return err
			}
			if position.Cmp(quantity) < 0 {
				return fmt.Errorf("%w: have %s, selling %s", service.ErrInsufficientShares, position, quantity)
			}
		}

		tx, err := model.NewTransaction(portfolioID, stock.ID, side, quantity, price, date, notes)
		if err != nil {
			return err
		}

		txID, err = uow.Transactions().Create(ctx, tx)
		if err != nil {
			return err
		}

		entry, err := model.NewJournalEntry(
			&portfolioID,
			&stock.ID,
			&txID,
			date,
			fmt.Sprintf("%s %s", side, symbol),
			fmt.Sprintf("%s %s %s @ %s", side, quantity, symbol, price),
			[]string{"trade"},
		)
		if err != nil {
			return err
		}

		_, err = uow.Journal().Create(ctx, entry)
		return err
	})
	if err != nil {
		return 0, err
	}

	return txID, nil
}

// Position returns the current share count for (portfolio, stock): buys
// minus sells across the whole history.
func (s *HoldingsService) Position(ctx context.Context, portfolioID, stockID int64) (model.Quantity, error) {
	uow := s.uowFactory.New()
	return s.position(ctx, uow, portfolioID, stockID)
}

func (s *HoldingsService) position(ctx context.Context, uow *data.UnitOfWork, portfolioID, stockID int64) (model.Quantity, error) {
	txs, err := uow.Transactions().List(ctx, model.TransactionFilter{
		PortfolioID: &portfolioID,
		StockID:     &stockID,
	})
	if err != nil {
		return model.Quantity{}, err
	}

	position := model.NewSignedQuantity(decimal.Zero)
	for _, tx := range txs {
		if tx.Side == model.SideBuy {
			position, err = position.Add(tx.Quantity)
		} else {
			position, err = position.Sub(tx.Quantity)
		}
		if err != nil {
			return model.Quantity{}, err
		}
	}
	return position, nil
}

// SnapshotBalance upserts the balance snapshot for (portfolio, date),
// rolling deposits and withdrawals into the previous final balance.
func (s *HoldingsService) SnapshotBalance(ctx context.Context, portfolioID int64, date time.Time, withdrawals, deposits model.Money, indexChange decimal.Decimal) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "HoldingsService.SnapshotBalance"

	slog.Debug("SnapshotBalance start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolioID))
	defer func() {
		if err != nil {
			slog.Error("SnapshotBalance failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	uow := s.uowFactory.New()
	return uow.Do(ctx, func(ctx context.Context, uow *data.UnitOfWork) error {
		portfolio, err := uow.Portfolios().GetByID(ctx, portfolioID)
		if err != nil {
			return err
		}
		if portfolio == nil {
			return fmt.Errorf("%w: portfolio %d", service.ErrNotFound, portfolioID)
		}

		final, err := model.ZeroMoney(s.cfg.Rules.BaseCurrency)
		if err != nil {
			return err
		}
		latest, err := uow.Balances().GetLatest(ctx, portfolioID)
		if err != nil {
			return err
		}
		if latest != nil {
			final = latest.FinalBalance
		}

		final, err = final.Add(deposits)
		if err != nil {
			return err
		}
		final, err = final.Sub(withdrawals)
		if err != nil {
			return err
		}

		balance, err := model.NewPortfolioBalance(portfolioID, date, withdrawals, deposits, final, indexChange)
		if err != nil {
			return err
		}

		return uow.Balances().Upsert(ctx, balance)
	})
}

// SnapshotAllBalances is the scheduled job: it carries the last final
// balance of every active portfolio forward to today. Portfolios without
// any snapshot yet are skipped.
func (s *HoldingsService) SnapshotAllBalances(ctx context.Context) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "HoldingsService.SnapshotAllBalances"

	slog.Debug("SnapshotAllBalances start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		if err != nil {
			slog.Error("SnapshotAllBalances failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	today := time.Now()
	active := true

	uow := s.uowFactory.New()
	return uow.Do(ctx, func(ctx context.Context, uow *data.UnitOfWork) error {
		portfolios, err := uow.Portfolios().List(ctx, model.PortfolioFilter{IsActive: &active})
		if err != nil {
			return err
		}

		for _, portfolio := range portfolios {
			latest, err := uow.Balances().GetLatest(ctx, portfolio.ID)
			if err != nil {
				return err
			}
			if latest == nil {
				continue
			}

			zero, err := model.ZeroMoney(latest.FinalBalance.Currency())
			if err != nil {
				return err
			}
			balance, err := model.NewPortfolioBalance(portfolio.ID, today, zero, zero, latest.FinalBalance, decimal.Zero)
			if err != nil {
				return err
			}
			if err := uow.Balances().Upsert(ctx, balance); err != nil {
				return err
			}
		}
		return nil
	})
}

// CancelTargetsForStock flips every active target on the stock to
// cancelled, returning how many were touched.
func (s *HoldingsService) CancelTargetsForStock(ctx context.Context, stockID int64) (cancelled int, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "HoldingsService.CancelTargetsForStock"

	slog.Debug("CancelTargetsForStock start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("stockID", stockID))
	defer func() {
		if err != nil {
			slog.Error("CancelTargetsForStock failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	status := model.TargetActive

	uow := s.uowFactory.New()
	err = uow.Do(ctx, func(ctx context.Context, uow *data.UnitOfWork) error {
		targets, err := uow.Targets().List(ctx, model.TargetFilter{StockID: &stockID, Status: &status})
		if err != nil {
			return err
		}

		for _, target := range targets {
			target.Status = model.TargetCancelled
			updated, err := uow.Targets().Update(ctx, target.ID, target)
			if err != nil {
				return err
			}
			if updated {
				cancelled++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return cancelled, nil
}

// GenerateReport renders the portfolio's positions and transaction history
// to a file.
func (s *HoldingsService) GenerateReport(ctx context.Context, portfolioID int64) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "HoldingsService.GenerateReport"

	slog.Debug("GenerateReport start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolioID))
	defer func() {
		if err != nil {
			slog.Error("GenerateReport failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	uow := s.uowFactory.New()

	portfolio, err := uow.Portfolios().GetByID(ctx, portfolioID)
	if err != nil {
		return nil, "", err
	}
	if portfolio == nil {
		return nil, "", fmt.Errorf("%w: portfolio %d", service.ErrNotFound, portfolioID)
	}

	txs, err := uow.Transactions().List(ctx, model.TransactionFilter{PortfolioID: &portfolioID})
	if err != nil {
		return nil, "", err
	}
	if limit := s.cfg.Rules.ReportTxLimit; limit > 0 && len(txs) > limit {
		txs = txs[len(txs)-limit:]
	}

	positions, err := s.buildPositions(ctx, uow, txs)
	if err != nil {
		return nil, "", err
	}

	report := model.PortfolioReport{
		Portfolio:    *portfolio,
		Positions:    positions,
		Transactions: txs,
		GeneratedAt:  time.Now(),
	}

	return s.reportGenerator.Generate(ctx, report)
}

func (s *HoldingsService) buildPositions(ctx context.Context, uow *data.UnitOfWork, txs []model.Transaction) ([]model.Position, error) {
	byStock := make(map[int64]*model.Position)
	var order []int64

	for _, tx := range txs {
		pos, ok := byStock[tx.StockID]
		if !ok {
			stock, err := uow.Stocks().GetByID(ctx, tx.StockID)
			if err != nil {
				return nil, err
			}
			if stock == nil {
				return nil, fmt.Errorf("%w: stock %d", service.ErrNotFound, tx.StockID)
			}

			zero, err := model.ZeroMoney(tx.Price.Currency())
			if err != nil {
				return nil, err
			}
			pos = &model.Position{
				Stock:    *stock,
				Quantity: model.NewSignedQuantity(decimal.Zero),
				Invested: zero,
				Proceeds: zero,
			}
			byStock[tx.StockID] = pos
			order = append(order, tx.StockID)
		}

		var err error
		if tx.Side == model.SideBuy {
			pos.Quantity, err = pos.Quantity.Add(tx.Quantity)
			if err == nil {
				pos.Invested, err = pos.Invested.Add(tx.Total())
			}
		} else {
			pos.Quantity, err = pos.Quantity.Sub(tx.Quantity)
			if err == nil {
				pos.Proceeds, err = pos.Proceeds.Add(tx.Total())
			}
		}
		if err != nil {
			return nil, err
		}
	}

	positions := make([]model.Position, 0, len(order))
	for _, stockID := range order {
		positions = append(positions, *byStock[stockID])
	}
	return positions, nil
}
