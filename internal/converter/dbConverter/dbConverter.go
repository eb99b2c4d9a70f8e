// Package dbConverter maps database rows back to domain entities. Value
// objects (Symbol, Money, Quantity) are rebuilt through their constructors
// so no entity with broken invariants ever leaves the data layer.
package dbConverter

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/KotFed0t/holdings_keeper/internal/model"
	"github.com/KotFed0t/holdings_keeper/internal/model/dbModel"
)

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dbModel.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored date %q: %w", s, err)
	}
	return d, nil
}

func ConvertStock(row dbModel.Stock) (model.Stock, error) {
	symbol, err := model.NewSymbol(row.Symbol)
	if err != nil {
		return model.Stock{}, err
	}
	stock, err := model.NewStock(symbol, row.Name, row.IndustryGroup.String, model.Grade(row.Grade.String), row.Notes.String)
	if err != nil {
		return model.Stock{}, err
	}
	stock.ID = row.ID
	return stock, nil
}

func ConvertPortfolio(row dbModel.Portfolio) (model.Portfolio, error) {
	portfolio, err := model.NewPortfolio(row.Name, row.Description.String, row.MaxPositions, row.MaxRiskPerTrade, row.IsActive)
	if err != nil {
		return model.Portfolio{}, err
	}
	portfolio.ID = row.ID
	return portfolio, nil
}

// ConvertTransaction rebuilds a transaction. Amounts are stored as bare
// numerics, the currency comes from the configured base currency.
func ConvertTransaction(row dbModel.Transaction, currency string) (model.Transaction, error) {
	quantity, err := model.NewQuantity(row.Quantity)
	if err != nil {
		return model.Transaction{}, err
	}
	price, err := model.NewMoney(row.Price, currency)
	if err != nil {
		return model.Transaction{}, err
	}
	date, err := parseDate(row.TransactionDate)
	if err != nil {
		return model.Transaction{}, err
	}
	tx, err := model.NewTransaction(row.PortfolioID, row.StockID, model.Side(row.Type), quantity, price, date, row.Notes.String)
	if err != nil {
		return model.Transaction{}, err
	}
	tx.ID = row.ID
	return tx, nil
}

func ConvertTarget(row dbModel.Target, currency string) (model.Target, error) {
	pivot, err := model.NewMoney(row.PivotPrice, currency)
	if err != nil {
		return model.Target{}, err
	}
	failure, err := model.NewMoney(row.FailurePrice, currency)
	if err != nil {
		return model.Target{}, err
	}
	target, err := model.NewTarget(row.StockID, row.PortfolioID, pivot, failure, row.Notes.String, model.TargetStatus(row.Status))
	if err != nil {
		return model.Target{}, err
	}
	target.ID = row.ID
	return target, nil
}

func ConvertBalance(row dbModel.PortfolioBalance, currency string) (model.PortfolioBalance, error) {
	withdrawals, err := model.NewMoney(row.Withdrawals, currency)
	if err != nil {
		return model.PortfolioBalance{}, err
	}
	deposits, err := model.NewMoney(row.Deposits, currency)
	if err != nil {
		return model.PortfolioBalance{}, err
	}
	finalBalance, err := model.NewMoney(row.FinalBalance, currency)
	if err != nil {
		return model.PortfolioBalance{}, err
	}
	date, err := parseDate(row.BalanceDate)
	if err != nil {
		return model.PortfolioBalance{}, err
	}
	balance, err := model.NewPortfolioBalance(row.PortfolioID, date, withdrawals, deposits, finalBalance, row.IndexChange)
	if err != nil {
		return model.PortfolioBalance{}, err
	}
	balance.ID = row.ID
	return balance, nil
}

func ConvertJournalEntry(row dbModel.JournalEntry) (model.JournalEntry, error) {
	date, err := parseDate(row.EntryDate)
	if err != nil {
		return model.JournalEntry{}, err
	}

	var tags []string
	if row.Tags.Valid && row.Tags.String != "" {
		tags = strings.Split(row.Tags.String, ",")
	}

	entry, err := model.NewJournalEntry(
		nullableID(row.PortfolioID),
		nullableID(row.StockID),
		nullableID(row.TransactionID),
		date,
		row.Title.String,
		row.Content,
		tags,
	)
	if err != nil {
		return model.JournalEntry{}, err
	}
	entry.ID = row.ID
	return entry, nil
}

func nullableID(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	id := n.Int64
	return &id
}
