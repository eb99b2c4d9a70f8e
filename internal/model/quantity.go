package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// quantityPrecision allows fractional share counts (splits, fractional
// brokers) down to 1/10000 of a share.
const quantityPrecision = 4

// Quantity is an immutable share count. By default negative values are
// rejected; NewSignedQuantity opts in to negatives for adjustment entries.
type Quantity struct {
	value  decimal.Decimal
	signed bool
}

func NewQuantity(value decimal.Decimal) (Quantity, error) {
	if value.IsNegative() {
		return Quantity{}, fmt.Errorf("%w: %s", ErrNegativeQuantity, value)
	}
	return Quantity{value: value.Round(quantityPrecision)}, nil
}

func NewSignedQuantity(value decimal.Decimal) Quantity {
	return Quantity{value: value.Round(quantityPrecision), signed: true}
}

func QuantityFromInt(n int64) (Quantity, error) {
	return NewQuantity(decimal.NewFromInt(n))
}

func (q Quantity) Value() decimal.Decimal { return q.value }
func (q Quantity) String() string         { return q.value.String() }

func (q Quantity) IsZero() bool     { return q.value.IsZero() }
func (q Quantity) IsPositive() bool { return q.value.IsPositive() }
func (q Quantity) IsNegative() bool { return q.value.IsNegative() }

// IsWhole reports whether the count has no fractional part.
func (q Quantity) IsWhole() bool {
	return q.value.Equal(q.value.Truncate(0))
}

func (q Quantity) Cmp(o Quantity) int    { return q.value.Cmp(o.value) }
func (q Quantity) Equal(o Quantity) bool { return q.value.Equal(o.value) }

func (q Quantity) wrap(v decimal.Decimal) (Quantity, error) {
	if v.IsNegative() && !q.signed {
		return Quantity{}, fmt.Errorf("%w: %s", ErrNegativeQuantity, v)
	}
	return Quantity{value: v.Round(quantityPrecision), signed: q.signed}, nil
}

func (q Quantity) Add(o Quantity) (Quantity, error) {
	return q.wrap(q.value.Add(o.value))
}

func (q Quantity) Sub(o Quantity) (Quantity, error) {
	return q.wrap(q.value.Sub(o.value))
}

func (q Quantity) Mul(factor decimal.Decimal) (Quantity, error) {
	return q.wrap(q.value.Mul(factor))
}

// Div divides the count with fractional precision, for ratio-based
// allocations.
func (q Quantity) Div(divisor decimal.Decimal) (Quantity, error) {
	if divisor.IsZero() {
		return Quantity{}, fmt.Errorf("%w: %s / 0", ErrDivisionByZero, q)
	}
	return q.wrap(q.value.DivRound(divisor, quantityPrecision))
}

// DivWhole divides the count requiring a whole-share result, for callers
// with whole-unit semantics.
func (q Quantity) DivWhole(divisor decimal.Decimal) (Quantity, error) {
	res, err := q.Div(divisor)
	if err != nil {
		return Quantity{}, err
	}
	if !res.IsWhole() {
		return Quantity{}, fmt.Errorf("%w: %s / %s = %s", ErrFractionalShares, q, divisor, res)
	}
	return res, nil
}

// Split divides the count into n near-equal parts. The last part takes the
// exact remainder so the parts always sum back to q.
func (q Quantity) Split(n int) ([]Quantity, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: split into %d parts", ErrInvalidRatios, n)
	}
	ratios := make([]decimal.Decimal, n)
	one := decimal.NewFromInt(1)
	for i := range ratios {
		ratios[i] = one
	}
	return q.DistributeByRatio(ratios)
}

// DistributeByRatio splits the count proportionally to ratios with the same
// remainder-correction rule as Money.Allocate.
func (q Quantity) DistributeByRatio(ratios []decimal.Decimal) ([]Quantity, error) {
	if len(ratios) == 0 {
		return nil, fmt.Errorf("%w: empty ratio list", ErrInvalidRatios)
	}
	if q.value.IsNegative() {
		return nil, fmt.Errorf("%w: cannot distribute %s", ErrNegativeQuantity, q)
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

	parts := make([]Quantity, len(ratios))
	rest := q.value
	for i, r := range ratios {
		if i == len(ratios)-1 {
			parts[i] = Quantity{value: rest, signed: q.signed}
			break
		}
		share := q.value.Mul(r).DivRound(sum, quantityPrecision)
		parts[i] = Quantity{value: share, signed: q.signed}
		rest = rest.Sub(share)
	}
	return parts, nil
}
