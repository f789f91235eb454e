package core

import "errors"

// Error taxonomy. Callers classify with errors.Is; anything that does not
// match one of these sentinels is an underlying storage failure and is
// propagated unmodified.
var (
	ErrValidation            = errors.New("invalid input")
	ErrNotFound              = errors.New("not found")
	ErrNotAuthorized         = errors.New("not authorized")
	ErrUnsupportedWithdrawal = errors.New("cannot withdraw from this transaction type")
)
