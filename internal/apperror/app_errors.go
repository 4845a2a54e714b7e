package apperror

import "errors"

var (
	ErrNotTerminal       = errors.New("input is not an interactive terminal")
	ErrResultNotFound    = errors.New("result not found")
	ErrRedisAddrNotFound = errors.New("redis address string is empty")
)
