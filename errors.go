package autoswagger

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// ErrNoConverter is returned when no converter handles a source.
	ErrNoConverter = errors.New("no converter for type source")

	// ErrSourceTooLarge is returned when a source exceeds the configured size limit.
	ErrSourceTooLarge = errors.New("type source too large")

	// ErrPhaseOrder is returned when a document phase runs out of order.
	ErrPhaseOrder = errors.New("document phase out of order")

	// ErrBuilt is returned when a builder is used after Build.
	ErrBuilt = errors.New("document already built")
)

// ValidationErrors maps keys to their validation errors. It is an alias for
// [validation.Errors] from ozzo-validation.
type ValidationErrors = validation.Errors
