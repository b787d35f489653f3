package grid

import "errors"

// Sentinel errors for grid operations.
var (
	// ErrNegativeAddress is returned when a write targets a negative column or row.
	ErrNegativeAddress = errors.New("negative cell address")

	// ErrColumnOutOfRange is returned when a column position does not exist.
	ErrColumnOutOfRange = errors.New("column position out of range")
)
