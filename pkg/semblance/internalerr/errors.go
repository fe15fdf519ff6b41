package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrDuplicate       = errors.New("duplicate entry")
	ErrMappingConflict = errors.New("conflicting term mapping")
	ErrTermCount       = errors.New("wrong number of terms")
	ErrTypeMismatch    = errors.New("incompatible comparison types")
	ErrInvalidConfig   = errors.New("invalid configuration")
)
