package model

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewStock(t *testing.T) {
	symbol, err := NewSymbol("AAPL")
	if err != nil {
		t.Fatalf("NewSymbol() error = %v", err)
	}

	if _, err := NewStock(Symbol{}, "Apple", "", GradeNone, ""); !errors.Is(err, ErrValidation) {
		t.Errorf("empty symbol error = %v, want ErrValidation", err)
	}
	if _, err := NewStock(symbol, "", "", GradeNone, ""); !errors.Is(err, ErrValidation) {
		t.Errorf("empty name error = %v, want ErrValidation", err)
	}
	if _, err := NewStock(symbol, "Apple", "", Grade("D"), ""); !errors.Is(err, ErrValidation) {
		t.Errorf("bad grade error = %v, want ErrValidation", err)
	}

	stock, err := NewStock(symbol, "Apple", "Technology", GradeA, "")
	if err != nil {
		t.Fatalf("NewStock() error = %v", err)
	}
	if stock.ID != 0 {
		t.Errorf("new stock id = %d, want 0 until persisted", stock.ID)
	}
}

func TestStock_EqualBySymbol(t *testing.T) {
	symbol, _ := NewSymbol("AAPL")
	a, err := NewStock(symbol, "Apple", "", GradeNone, "")
	if err != nil {
		t.Fatalf("NewStock() error = %v", err)
	}
	b, err := NewStock(symbol, "Apple Inc", "Technology", GradeA, "different row")
	if err != nil {
		t.Fatalf("NewStock() error = %v", err)
	}
	b.ID = 42

	// identity is the symbol, surrogate ids do not matter
	if !a.Equal(b) {
		t.Error("stocks with same symbol should be equal")
	}

	other, _ := NewSymbol("MSFT")
	c, _ := NewStock(other, "Microsoft", "", GradeNone, "")
	if a.Equal(c) {
		t.Error("stocks with different symbols should not be equal")
	}
}

func TestNewPortfolio(t *testing.T) {
	if _, err := NewPortfolio("", "", 0, decimal.Zero, true); !errors.Is(err, ErrValidation) {
		t.Errorf("empty name error = %v, want ErrValidation", err)
	}
	if _, err := NewPortfolio(strings.Repeat("x", 101), "", 0, decimal.Zero, true); !errors.Is(err, ErrValidation) {
		t.Errorf("long name error = %v, want ErrValidation", err)
	}
	if _, err := NewPortfolio("Growth", "", -1, decimal.Zero, true); !errors.Is(err, ErrValidation) {
		t.Errorf("negative max positions error = %v, want ErrValidation", err)
	}

	p, err := NewPortfolio(strings.Repeat("x", 100), "desc", 10, decimal.NewFromInt(2), true)
	if err != nil {
		t.Fatalf("NewPortfolio() error = %v", err)
	}
	if !p.IsActive {
		t.Error("portfolio should be active")
	}
}

func TestNewTransaction(t *testing.T) {
	qty := mustQuantity(t, "10")
	price := mustMoney(t, "150", "USD")
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)
	// today's local calendar day as a bare UTC date, the form a parsed
	// "2006-01-02" arrives in regardless of the host timezone
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	tomorrow := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())

	testCases := []struct {
		name        string
		portfolioID int64
		stockID     int64
		side        Side
		qty         Quantity
		price       Money
		date        time.Time
		wantErr     bool
	}{
		{name: "valid buy", portfolioID: 1, stockID: 1, side: SideBuy, qty: qty, price: price, date: yesterday},
		{name: "dated today", portfolioID: 1, stockID: 1, side: SideBuy, qty: qty, price: price, date: today},
		{name: "valid sell", portfolioID: 1, stockID: 1, side: SideSell, qty: qty, price: price, date: yesterday},
		{name: "no portfolio", portfolioID: 0, stockID: 1, side: SideBuy, qty: qty, price: price, date: yesterday, wantErr: true},
		{name: "no stock", portfolioID: 1, stockID: 0, side: SideBuy, qty: qty, price: price, date: yesterday, wantErr: true},
		{name: "bad side", portfolioID: 1, stockID: 1, side: Side("short"), qty: qty, price: price, date: yesterday, wantErr: true},
		{name: "zero quantity", portfolioID: 1, stockID: 1, side: SideBuy, qty: mustQuantity(t, "0"), price: price, date: yesterday, wantErr: true},
		{name: "zero price", portfolioID: 1, stockID: 1, side: SideBuy, qty: qty, price: mustMoney(t, "0", "USD"), date: yesterday, wantErr: true},
		{name: "dated tomorrow", portfolioID: 1, stockID: 1, side: SideBuy, qty: qty, price: price, date: tomorrow, wantErr: true},
		{name: "future date", portfolioID: 1, stockID: 1, side: SideBuy, qty: qty, price: price, date: now.AddDate(0, 0, 2), wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTransaction(tc.portfolioID, tc.stockID, tc.side, tc.qty, tc.price, tc.date, "")
			if tc.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("NewTransaction() error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewTransaction() error = %v", err)
			}
		})
	}
}

func TestTransaction_Total(t *testing.T) {
	tx, err := NewTransaction(1, 1, SideBuy, mustQuantity(t, "3"), mustMoney(t, "10.10", "USD"), time.Now().AddDate(0, 0, -1), "")
	if err != nil {
		t.Fatalf("NewTransaction() error = %v", err)
	}
	if got := tx.Total().String(); got != "30.30 USD" {
		t.Errorf("Total() = %s, want 30.30 USD", got)
	}
}

func TestNewTarget(t *testing.T) {
	pivot := mustMoney(t, "100", "USD")
	failure := mustMoney(t, "150", "USD")

	// pivot below failure is the classic data-entry mistake
	_, err := NewTarget(1, 1, pivot, failure, "", TargetActive)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("NewTarget(pivot=100, failure=150) error = %v, want ErrValidation", err)
	}
	if !strings.Contains(err.Error(), "pivot must exceed failure") {
		t.Errorf("error %q should mention pivot must exceed failure", err)
	}

	target, err := NewTarget(1, 1, failure, pivot, "", "")
	if err != nil {
		t.Fatalf("NewTarget() error = %v", err)
	}
	if target.Status != TargetActive {
		t.Errorf("default status = %s, want active", target.Status)
	}

	if _, err := NewTarget(1, 1, failure, pivot, "", TargetStatus("open")); !errors.Is(err, ErrValidation) {
		t.Errorf("bad status error = %v, want ErrValidation", err)
	}
	if _, err := NewTarget(1, 1, mustMoney(t, "100", "EUR"), pivot, "", TargetActive); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("mixed currency error = %v, want ErrCurrencyMismatch", err)
	}
}

func TestNewPortfolioBalance(t *testing.T) {
	zero := mustMoney(t, "0", "USD")
	final := mustMoney(t, "1000", "USD")
	date := time.Now()

	if _, err := NewPortfolioBalance(0, date, zero, zero, final, decimal.Zero); !errors.Is(err, ErrValidation) {
		t.Errorf("no portfolio error = %v, want ErrValidation", err)
	}
	if _, err := NewPortfolioBalance(1, time.Time{}, zero, zero, final, decimal.Zero); !errors.Is(err, ErrValidation) {
		t.Errorf("zero date error = %v, want ErrValidation", err)
	}
	if _, err := NewPortfolioBalance(1, date, zero, mustMoney(t, "1", "EUR"), final, decimal.Zero); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("mixed currency error = %v, want ErrCurrencyMismatch", err)
	}

	if _, err := NewPortfolioBalance(1, date, zero, zero, final, decimal.NewFromInt(-2)); err != nil {
		t.Errorf("negative index change should be allowed, got %v", err)
	}
}

func TestNewJournalEntry(t *testing.T) {
	date := time.Now()
	portfolioID := int64(1)

	if _, err := NewJournalEntry(nil, nil, nil, date, "t", "", nil); !errors.Is(err, ErrValidation) {
		t.Errorf("empty content error = %v, want ErrValidation", err)
	}
	if _, err := NewJournalEntry(nil, nil, nil, date, "t", strings.Repeat("x", 10001), nil); !errors.Is(err, ErrValidation) {
		t.Errorf("oversized content error = %v, want ErrValidation", err)
	}
	bad := int64(0)
	if _, err := NewJournalEntry(&bad, nil, nil, date, "t", "note", nil); !errors.Is(err, ErrValidation) {
		t.Errorf("zero reference id error = %v, want ErrValidation", err)
	}
	if _, err := NewJournalEntry(nil, nil, nil, date, "t", "note", []string{"review,cash"}); !errors.Is(err, ErrValidation) {
		t.Errorf("comma in tag error = %v, want ErrValidation", err)
	}

	entry, err := NewJournalEntry(&portfolioID, nil, nil, date, "weekly review", strings.Repeat("x", 10000), []string{"review"})
	if err != nil {
		t.Fatalf("NewJournalEntry() error = %v", err)
	}
	if entry.PortfolioID == nil || *entry.PortfolioID != 1 {
		t.Error("portfolio link lost")
	}
}
