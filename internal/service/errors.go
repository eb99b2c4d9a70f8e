package service

import "errors"

var (
	ErrNotFound           = errors.New("error not found")
	ErrPortfolioInactive  = errors.New("error portfolio is not active")
	ErrInsufficientShares = errors.New("error not enough shares in position")
)
