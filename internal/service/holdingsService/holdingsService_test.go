package holdingsService_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/KotFed0t/holdings_keeper/config"
	"github.com/KotFed0t/holdings_keeper/data"
	"github.com/KotFed0t/holdings_keeper/data/repository/sqlite"
	"github.com/KotFed0t/holdings_keeper/internal/model"
	"github.com/KotFed0t/holdings_keeper/internal/reportGenerator/xlsxGenerator"
	"github.com/KotFed0t/holdings_keeper/internal/service"
	"github.com/KotFed0t/holdings_keeper/internal/service/holdingsService"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

func newService(t *testing.T) (*holdingsService.HoldingsService, *config.Config, *sqlx.DB) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Sqlite.Path = filepath.Join(t.TempDir(), "holdings_test.db")
	cfg.Sqlite.BusyTimeout = 5 * time.Second
	cfg.Rules.BaseCurrency = "USD"
	cfg.Rules.ReportTxLimit = 200

	db, err := data.NewSqliteClient(cfg)
	if err != nil {
		t.Fatalf("NewSqliteClient() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	srv := holdingsService.New(cfg, data.NewUnitOfWorkFactory(cfg, db), xlsxGenerator.New())
	return srv, cfg, db
}

func mustMoney(t *testing.T, amount string) model.Money {
	t.Helper()
	m, err := model.NewMoneyFromString(amount, "USD")
	if err != nil {
		t.Fatalf("NewMoneyFromString(%s) error = %v", amount, err)
	}
	return m
}

func mustQuantity(t *testing.T, value string) model.Quantity {
	t.Helper()
	q, err := model.NewQuantity(decimal.RequireFromString(value))
	if err != nil {
		t.Fatalf("NewQuantity(%s) error = %v", value, err)
	}
	return q
}

func day(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return d
}

func setupPortfolioAndStock(t *testing.T, srv *holdingsService.HoldingsService) (portfolioID, stockID int64) {
	t.Helper()
	ctx := context.Background()

	portfolioID, err := srv.CreatePortfolio(ctx, "Growth", "", 10, decimal.NewFromInt(2))
	if err != nil {
		t.Fatalf("CreatePortfolio() error = %v", err)
	}
	stockID, err = srv.RegisterStock(ctx, "aapl", "Apple", "Technology", model.GradeA, "")
	if err != nil {
		t.Fatalf("RegisterStock() error = %v", err)
	}
	return portfolioID, stockID
}

func TestRecordBuy_WritesTransactionAndJournalTogether(t *testing.T) {
	srv, cfg, db := newService(t)
	ctx := context.Background()
	portfolioID, stockID := setupPortfolioAndStock(t, srv)

	txID, err := srv.RecordBuy(ctx, portfolioID, "AAPL", mustQuantity(t, "10"), mustMoney(t, "150"), day(t, "2024-03-01"), "pivot breakout")
	if err != nil {
		t.Fatalf("RecordBuy() error = %v", err)
	}

	uow := data.NewUnitOfWork(cfg, db)

	tx, err := uow.Transactions().GetByID(ctx, txID)
	if err != nil {
		t.Fatalf("Transactions().GetByID() error = %v", err)
	}
	if tx == nil || tx.StockID != stockID || tx.Side != model.SideBuy {
		t.Fatalf("persisted transaction = %+v", tx)
	}

	entries, err := uow.Journal().List(ctx, model.JournalFilter{TransactionID: &txID})
	if err != nil {
		t.Fatalf("Journal().List() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("journal entries for trade = %d, want 1", len(entries))
	}
	if entries[0].PortfolioID == nil || *entries[0].PortfolioID != portfolioID {
		t.Errorf("journal entry not linked to portfolio: %+v", entries[0])
	}
}

func TestRecordBuy_UnknownStock(t *testing.T) {
	srv, _, _ := newService(t)
	ctx := context.Background()
	portfolioID, _ := setupPortfolioAndStock(t, srv)

	_, err := srv.RecordBuy(ctx, portfolioID, "MSFT", mustQuantity(t, "1"), mustMoney(t, "100"), day(t, "2024-03-01"), "")
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("RecordBuy(unknown stock) error = %v, want ErrNotFound", err)
	}
}

func TestRecordBuy_InactivePortfolio(t *testing.T) {
	srv, cfg, db := newService(t)
	ctx := context.Background()
	setupPortfolioAndStock(t, srv)

	closed, err := model.NewPortfolio("Closed", "", 0, decimal.Zero, false)
	if err != nil {
		t.Fatalf("NewPortfolio() error = %v", err)
	}
	closedID, err := sqlite.NewPortfolioRepo(cfg, db).Create(ctx, closed)
	if err != nil {
		t.Fatalf("PortfolioRepo.Create() error = %v", err)
	}

	_, err = srv.RecordBuy(ctx, closedID, "AAPL", mustQuantity(t, "1"), mustMoney(t, "100"), day(t, "2024-03-01"), "")
	if !errors.Is(err, service.ErrPortfolioInactive) {
		t.Errorf("RecordBuy(inactive portfolio) error = %v, want ErrPortfolioInactive", err)
	}
}

func TestRecordSell_RejectsOversell(t *testing.T) {
	srv, cfg, db := newService(t)
	ctx := context.Background()
	portfolioID, _ := setupPortfolioAndStock(t, srv)

	if _, err := srv.RecordBuy(ctx, portfolioID, "AAPL", mustQuantity(t, "5"), mustMoney(t, "150"), day(t, "2024-03-01"), ""); err != nil {
		t.Fatalf("RecordBuy() error = %v", err)
	}

	_, err := srv.RecordSell(ctx, portfolioID, "AAPL", mustQuantity(t, "8"), mustMoney(t, "160"), day(t, "2024-03-05"), "")
	if !errors.Is(err, service.ErrInsufficientShares) {
		t.Fatalf("RecordSell(oversell) error = %v, want ErrInsufficientShares", err)
	}

	// the rejected sell must leave no trace
	txs, err := data.NewUnitOfWork(cfg, db).Transactions().List(ctx, model.TransactionFilter{PortfolioID: &portfolioID})
	if err != nil {
		t.Fatalf("Transactions().List() error = %v", err)
	}
	if len(txs) != 1 {
		t.Errorf("transactions after rejected sell = %d, want 1", len(txs))
	}
}

func TestRecordSell_OversellAllowedByRule(t *testing.T) {
	srv, cfg, _ := newService(t)
	cfg.Rules.AllowOversell = true
	ctx := context.Background()
	portfolioID, stockID := setupPortfolioAndStock(t, srv)

	if _, err := srv.RecordSell(ctx, portfolioID, "AAPL", mustQuantity(t, "3"), mustMoney(t, "160"), day(t, "2024-03-05"), "short entry"); err != nil {
		t.Fatalf("RecordSell() with oversell allowed error = %v", err)
	}

	position, err := srv.Position(ctx, portfolioID, stockID)
	if err != nil {
		t.Fatalf("Position() error = %v", err)
	}
	if position.String() != "-3" {
		t.Errorf("position = %s, want -3", position)
	}
}

func TestPosition_BuysMinusSells(t *testing.T) {
	srv, _, _ := newService(t)
	ctx := context.Background()
	portfolioID, stockID := setupPortfolioAndStock(t, srv)

	trades := []struct {
		side model.Side
		qty  string
		date string
	}{
		{model.SideBuy, "10", "2024-03-01"},
		{model.SideBuy, "2.5", "2024-03-03"},
		{model.SideSell, "4", "2024-03-05"},
	}
	for _, trade := range trades {
		var err error
		if trade.side == model.SideBuy {
			_, err = srv.RecordBuy(ctx, portfolioID, "AAPL", mustQuantity(t, trade.qty), mustMoney(t, "150"), day(t, trade.date), "")
		} else {
			_, err = srv.RecordSell(ctx, portfolioID, "AAPL", mustQuantity(t, trade.qty), mustMoney(t, "160"), day(t, trade.date), "")
		}
		if err != nil {
			t.Fatalf("record %s error = %v", trade.side, err)
		}
	}

	position, err := srv.Position(ctx, portfolioID, stockID)
	if err != nil {
		t.Fatalf("Position() error = %v", err)
	}
	if !position.Equal(mustQuantity(t, "8.5")) {
		t.Errorf("position = %s, want 8.5", position)
	}
}

func TestSnapshotBalance_RollsForward(t *testing.T) {
	srv, cfg, db := newService(t)
	ctx := context.Background()
	portfolioID, _ := setupPortfolioAndStock(t, srv)

	err := srv.SnapshotBalance(ctx, portfolioID, day(t, "2024-03-01"),
		mustMoney(t, "0"), mustMoney(t, "1000"), decimal.Zero)
	if err != nil {
		t.Fatalf("first SnapshotBalance() error = %v", err)
	}
	err = srv.SnapshotBalance(ctx, portfolioID, day(t, "2024-03-08"),
		mustMoney(t, "100"), mustMoney(t, "0"), decimal.RequireFromString("0.8"))
	if err != nil {
		t.Fatalf("second SnapshotBalance() error = %v", err)
	}

	latest, err := data.NewUnitOfWork(cfg, db).Balances().GetLatest(ctx, portfolioID)
	if err != nil {
		t.Fatalf("GetLatest() error = %v", err)
	}
	if latest == nil {
		t.Fatal("GetLatest() = nil, want snapshot")
	}
	if latest.FinalBalance.String() != "900.00 USD" {
		t.Errorf("rolled-forward final balance = %s, want 900.00 USD", latest.FinalBalance)
	}
}

func TestSnapshotBalance_UnknownPortfolio(t *testing.T) {
	srv, _, _ := newService(t)

	err := srv.SnapshotBalance(context.Background(), 999, day(t, "2024-03-01"),
		mustMoney(t, "0"), mustMoney(t, "0"), decimal.Zero)
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("SnapshotBalance(missing) error = %v, want ErrNotFound", err)
	}
}

func TestSnapshotAllBalances_CarriesActivePortfoliosForward(t *testing.T) {
	srv, cfg, db := newService(t)
	ctx := context.Background()
	portfolioID, _ := setupPortfolioAndStock(t, srv)

	// a second portfolio without history must be skipped, not fail the job
	emptyID, err := srv.CreatePortfolio(ctx, "Fresh", "", 0, decimal.Zero)
	if err != nil {
		t.Fatalf("CreatePortfolio() error = %v", err)
	}

	err = srv.SnapshotBalance(ctx, portfolioID, day(t, "2024-03-01"),
		mustMoney(t, "0"), mustMoney(t, "1000"), decimal.Zero)
	if err != nil {
		t.Fatalf("SnapshotBalance() error = %v", err)
	}

	if err := srv.SnapshotAllBalances(ctx); err != nil {
		t.Fatalf("SnapshotAllBalances() error = %v", err)
	}

	uow := data.NewUnitOfWork(cfg, db)
	latest, err := uow.Balances().GetLatest(ctx, portfolioID)
	if err != nil {
		t.Fatalf("GetLatest() error = %v", err)
	}
	if latest == nil || !latest.FinalBalance.Equal(mustMoney(t, "1000")) {
		t.Fatalf("carried-forward snapshot = %+v, want final 1000.00 USD", latest)
	}
	if latest.Date.Format("2006-01-02") != time.Now().Format("2006-01-02") {
		t.Errorf("carried-forward snapshot date = %s, want today", latest.Date)
	}

	skipped, err := uow.Balances().GetLatest(ctx, emptyID)
	if err != nil {
		t.Fatalf("GetLatest(empty) error = %v", err)
	}
	if skipped != nil {
		t.Errorf("portfolio without history got a snapshot: %+v", skipped)
	}
}

func TestCancelTargetsForStock(t *testing.T) {
	srv, cfg, db := newService(t)
	ctx := context.Background()
	portfolioID, stockID := setupPortfolioAndStock(t, srv)

	repo := sqlite.NewTargetRepo(cfg, db)
	for _, status := range []model.TargetStatus{model.TargetActive, model.TargetActive, model.TargetHit} {
		target, err := model.NewTarget(stockID, portfolioID, mustMoney(t, "200"), mustMoney(t, "150"), "", status)
		if err != nil {
			t.Fatalf("NewTarget() error = %v", err)
		}
		if _, err := repo.Create(ctx, target); err != nil {
			t.Fatalf("TargetRepo.Create() error = %v", err)
		}
	}

	cancelled, err := srv.CancelTargetsForStock(ctx, stockID)
	if err != nil {
		t.Fatalf("CancelTargetsForStock() error = %v", err)
	}
	if cancelled != 2 {
		t.Errorf("cancelled = %d, want 2 (hit target untouched)", cancelled)
	}

	active := model.TargetActive
	remaining, err := repo.List(ctx, model.TargetFilter{StockID: &stockID, Status: &active})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("active targets after cancel = %d, want 0", len(remaining))
	}
}

func TestGenerateReport(t *testing.T) {
	srv, _, _ := newService(t)
	ctx := context.Background()
	portfolioID, _ := setupPortfolioAndStock(t, srv)

	if _, err := srv.RecordBuy(ctx, portfolioID, "AAPL", mustQuantity(t, "10"), mustMoney(t, "150"), day(t, "2024-03-01"), ""); err != nil {
		t.Fatalf("RecordBuy() error = %v", err)
	}
	if _, err := srv.RecordSell(ctx, portfolioID, "AAPL", mustQuantity(t, "4"), mustMoney(t, "170"), day(t, "2024-03-10"), ""); err != nil {
		t.Fatalf("RecordSell() error = %v", err)
	}

	fileBytes, ext, err := srv.GenerateReport(ctx, portfolioID)
	if err != nil {
		t.Fatalf("GenerateReport() error = %v", err)
	}
	if ext != ".xlsx" {
		t.Errorf("extension = %s, want .xlsx", ext)
	}
	if len(fileBytes) == 0 {
		t.Error("report file is empty")
	}

	if _, _, err := srv.GenerateReport(ctx, 999); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("GenerateReport(missing) error = %v, want ErrNotFound", err)
	}
}
