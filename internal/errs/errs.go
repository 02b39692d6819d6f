package errs

import "errors"

var (
	ErrInvalidPayload    = errors.New("invalid payload")
	ErrStoreUnconfigured = errors.New("store is not configured")
	ErrBusy              = errors.New("submission already in progress")
	ErrUnknownDriver     = errors.New("unknown store driver")
	ErrNotListable       = errors.New("store cannot list records")
)
