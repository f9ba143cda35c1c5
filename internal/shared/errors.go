package shared

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Lookup errors. [ErrListNotFound] and [ErrGameNotFound] both match [ErrNotFound] with errors.Is.
	ErrNotFound     = fmt.Errorf("not found")
	ErrListNotFound = fmt.Errorf("list %w", ErrNotFound)
	ErrGameNotFound = fmt.Errorf("game %w", ErrNotFound)

	// Ordering errors
	ErrIndexOutOfRange   = fmt.Errorf("index out of range")
	ErrTransactionFailed = fmt.Errorf("transaction failed")

	// Integrity errors reported by ordering checks
	ErrPositionGap       = fmt.Errorf("positions are not dense")
	ErrDuplicatePosition = fmt.Errorf("duplicate position")
	ErrDuplicateMember   = fmt.Errorf("duplicate list member")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// IsIntegrityError reports whether err describes a list whose stored positions are inconsistent.
func IsIntegrityError(err error) bool {
	return errors.Is(err, ErrPositionGap) || errors.Is(err, ErrDuplicatePosition) || errors.Is(err, ErrDuplicateMember)
}
