package busparams

import "errors"

var (
	// ErrUnknownVersion is returned when a clock info list carries a schema
	// version other than 1.
	ErrUnknownVersion = errors.New("busparams: unknown clock info version")

	// ErrInvalidTQ is returned when tq != sync + prop + phase1 + phase2.
	ErrInvalidTQ = errors.New("busparams: tq does not match segment sum")

	// ErrInvalidPrescaler is returned for prescalers below 1.
	ErrInvalidPrescaler = errors.New("busparams: prescaler must be at least 1")

	// ErrOutOfRange is wrapped by every LimitError.
	ErrOutOfRange = errors.New("busparams: parameters out of range")
)
