package model

import (
	"fmt"
	"strings"
	"time"
)

const maxJournalContentLen = 10000

// JournalEntry is a dated trading note, optionally linked to a portfolio,
// a stock and/or a transaction.
type JournalEntry struct {
	ID            int64
	PortfolioID   *int64
	StockID       *int64
	TransactionID *int64
	Date          time.Time
	Title         string
	Content       string
	Tags          []string
}

func NewJournalEntry(portfolioID, stockID, transactionID *int64, date time.Time, title, content string, tags []string) (JournalEntry, error) {
	if date.IsZero() {
		return JournalEntry{}, fmt.Errorf("%w: journal entry date is zero", ErrValidation)
	}
	if content == "" {
		return JournalEntry{}, fmt.Errorf("%w: journal entry content is empty", ErrValidation)
	}
	if len(content) > maxJournalContentLen {
		return JournalEntry{}, fmt.Errorf("%w: journal entry content longer than %d chars", ErrValidation, maxJournalContentLen)
	}
	for _, id := range []*int64{portfolioID, stockID, transactionID} {
		if id != nil && *id <= 0 {
			return JournalEntry{}, fmt.Errorf("%w: journal entry references id %d", ErrValidation, *id)
		}
	}
	// tags are persisted comma-joined
	for _, tag := range tags {
		if strings.Contains(tag, ",") {
			return JournalEntry{}, fmt.Errorf("%w: tag %q contains a comma", ErrValidation, tag)
		}
	}
	return JournalEntry{
		PortfolioID:   portfolioID,
		StockID:       stockID,
		TransactionID: transactionID,
		Date:          date,
		Title:         title,
		Content:       content,
		Tags:          tags,
	}, nil
}
