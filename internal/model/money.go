package model

import (
	"fmt"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// moneyPrecision is the number of fractional digits every Money amount is
// rounded to. Rounding happens on construction and after every operation,
// so two Money values never differ below this precision.
const moneyPrecision = 2

// allowedCurrencies is the fixed allow-list of currencies the system
// accepts. A code must also be a known ISO 4217 currency.
var allowedCurrencies = map[string]struct{}{
	"USD": {},
	"EUR": {},
	"GBP": {},
	"CHF": {},
	"CAD": {},
	"AUD": {},
}

// Money is an immutable amount of a single currency. Every mutating
// operation returns a new value, the zero value is unusable.
type Money struct {
	amount   decimal.Decimal
	currency string
}

func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	cur := strings.ToUpper(strings.TrimSpace(currency))
	if len(cur) != 3 {
		return Money{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, currency)
	}
	if gomoney.GetCurrency(cur) == nil {
		return Money{}, fmt.Errorf("%w: %q is not an ISO currency", ErrUnknownCurrency, currency)
	}
	if _, ok := allowedCurrencies[cur]; !ok {
		return Money{}, fmt.Errorf("%w: %q is not allowed", ErrUnknownCurrency, currency)
	}
	return Money{amount: amount.Round(moneyPrecision), currency: cur}, nil
}

func NewMoneyFromString(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("%w: amount %q: %s", ErrValidation, amount, err)
	}
	return NewMoney(d, currency)
}

func ZeroMoney(currency string) (Money, error) {
	return NewMoney(decimal.Zero, currency)
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string       { return m.currency }

func (m Money) String() string {
	return m.amount.StringFixed(moneyPrecision) + " " + m.currency
}

func (m Money) sameCurrency(o Money) error {
	if m.currency != o.currency {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, o.currency)
	}
	return nil
}

func (m Money) Add(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(o.amount), currency: m.currency}, nil
}

// Sub returns m minus o. A result below zero is rejected rather than
// clamped.
func (m Money) Sub(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	res := m.amount.Sub(o.amount)
	if res.IsNegative() {
		return Money{}, fmt.Errorf("%w: %s - %s", ErrNegativeResult, m, o)
	}
	return Money{amount: res, currency: m.currency}, nil
}

func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor).Round(moneyPrecision), currency: m.currency}
}

func (m Money) Div(divisor decimal.Decimal) (Money, error) {
	if divisor.IsZero() {
		return Money{}, fmt.Errorf("%w: %s / 0", ErrDivisionByZero, m)
	}
	return Money{amount: m.amount.DivRound(divisor, moneyPrecision), currency: m.currency}, nil
}

// Percentage returns p percent of m.
func (m Money) Percentage(p decimal.Decimal) Money {
	return Money{
		amount:   m.amount.Mul(p).DivRound(decimal.NewFromInt(100), moneyPrecision),
		currency: m.currency,
	}
}

// Round re-applies the currency precision. Amounts are already rounded on
// construction, so this is a no-op unless the value was built inside the
// package from intermediate arithmetic.
func (m Money) Round() Money {
	return Money{amount: m.amount.Round(moneyPrecision), currency: m.currency}
}

func (m Money) Cmp(o Money) (int, error) {
	if err := m.sameCurrency(o); err != nil {
		return 0, err
	}
	return m.amount.Cmp(o.amount), nil
}

// Equal reports whether both currency and amount match. Differing
// currencies compare unequal without error.
func (m Money) Equal(o Money) bool {
	return m.currency == o.currency && m.amount.Equal(o.amount)
}

func (m Money) LessThan(o Money) (bool, error) {
	c, err := m.Cmp(o)
	return c < 0, err
}

func (m Money) GreaterThan(o Money) (bool, error) {
	c, err := m.Cmp(o)
	return c > 0, err
}

func (m Money) IsZero() bool     { return m.amount.IsZero() }
func (m Money) IsPositive() bool { return m.amount.IsPositive() }
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// Allocate splits m into len(ratios) buckets proportional to ratios. Every
// bucket but the last is rounded to currency precision; the last receives
// the exact remainder, so the buckets always sum back to m regardless of
// rounding drift.
func (m Money) Allocate(ratios []decimal.Decimal) ([]Money, error) {
	if len(ratios) == 0 {
		return nil, fmt.Errorf("%w: empty ratio list", ErrInvalidRatios)
	}
	if m.amount.IsNegative() {
		return nil, fmt.Errorf("%w: cannot allocate %s", ErrNegativeResult, m)
	}

	sum := decimal.Zero
	for _, r := range ratios {
		if r.IsNegative() {
			return nil, fmt.Errorf("%w: negative ratio %s", ErrInvalidRatios, r)
		}
		sum = sum.Add(r)
	}
	if sum.IsZero() {
		return nil, fmt.Errorf("%w: ratios sum to zero", ErrInvalidRatios)
	}

	parts := make([]Money, len(ratios))
	rest := m.amount
	for i, r := range ratios {
		if i == len(ratios)-1 {
			parts[i] = Money{amount: rest, currency: m.currency}
			break
		}
		share := m.amount.Mul(r).DivRound(sum, moneyPrecision)
		parts[i] = Money{amount: share, currency: m.currency}
		rest = rest.Sub(share)
	}
	return parts, nil
}
