package model

import "errors"

// Validation errors are raised at value-object/entity construction time and
// never reach the repository layer.
var (
	ErrValidation       = errors.New("validation error")
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrUnknownCurrency  = errors.New("unknown currency")
	ErrDivisionByZero   = errors.New("division by zero")
	ErrNegativeResult   = errors.New("negative result")
	ErrInvalidRatios    = errors.New("invalid allocation ratios")
	ErrNegativeQuantity = errors.New("negative quantity")
	ErrFractionalShares = errors.New("fractional share count")
	ErrInvalidSymbol    = errors.New("invalid symbol")
)
