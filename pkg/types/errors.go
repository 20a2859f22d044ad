package types

import "errors"

var (
	ErrDataUnavailable = errors.New("data unavailable")
	ErrNoQuote         = errors.New("no quote available")
	ErrDeliveryFailed  = errors.New("notification delivery failed")
	ErrInvalidBaseline = errors.New("invalid baseline price")
	ErrMissingConfig   = errors.New("missing required configuration")
)

// ErrMalformedData is returned when the store answers with a payload that
// cannot be decoded. It also matches ErrDataUnavailable.
var ErrMalformedData = &malformedError{}

type malformedError struct{}

func (e *malformedError) Error() string { return "malformed data" }

func (e *malformedError) Is(target error) bool {
	return target == ErrDataUnavailable
}
