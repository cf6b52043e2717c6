package deck

import "errors"

var (
	// ErrAlreadyAssigned reports an entity added to a deck twice. Identifiers
	// are stamped exactly once.
	ErrAlreadyAssigned = errors.New("entity already numbered")

	// ErrMissingState reports a source added before the distribution counter
	// was established.
	ErrMissingState = errors.New("distribution counter not established")
)
