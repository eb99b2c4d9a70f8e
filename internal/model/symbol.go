package model

import (
	"fmt"
	"regexp"
	"strings"
)

var symbolPattern = regexp.MustCompile(`^[A-Z]{1,5}$`)

// Symbol is a normalized ticker symbol: trimmed, uppercased, 1-5 letters.
type Symbol struct {
	value string
}

func NewSymbol(raw string) (Symbol, error) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if !symbolPattern.MatchString(v) {
		return Symbol{}, fmt.Errorf("%w: %q", ErrInvalidSymbol, raw)
	}
	return Symbol{value: v}, nil
}

func (s Symbol) String() string      { return s.value }
func (s Symbol) IsZero() bool        { return s.value == "" }
func (s Symbol) Equal(o Symbol) bool { return s.value == o.value }
