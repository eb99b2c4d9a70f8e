package model

import "fmt"

type Grade string

const (
	GradeA    Grade = "A"
	GradeB    Grade = "B"
	GradeC    Grade = "C"
	GradeNone Grade = ""
)

func (g Grade) Valid() bool {
	switch g {
	case GradeA, GradeB, GradeC, GradeNone:
		return true
	}
	return false
}

// Stock is a tracked security. Its business identity is the symbol: Equal
// compares symbols, not surrogate ids, so unsaved stocks compare correctly.
// The symbol is immutable once set; repositories refuse to change it.
type Stock struct {
	ID            int64
	Symbol        Symbol
	Name          string
	IndustryGroup string
	Grade         Grade
	Notes         string
}

func NewStock(symbol Symbol, name, industryGroup string, grade Grade, notes string) (Stock, error) {
	if symbol.IsZero() {
		return Stock{}, fmt.Errorf("%w: stock symbol is empty", ErrValidation)
	}
	if name == "" {
		return Stock{}, fmt.Errorf("%w: stock name is empty", ErrValidation)
	}
	if !grade.Valid() {
		return Stock{}, fmt.Errorf("%w: grade %q not in A/B/C", ErrValidation, grade)
	}
	return Stock{
		Symbol:        symbol,
		Name:          name,
		IndustryGroup: industryGroup,
		Grade:         grade,
		Notes:         notes,
	}, nil
}

func (s Stock) Equal(o Stock) bool {
	return s.Symbol.Equal(o.Symbol)
}
