package models

import "errors"

// Domain failures surfaced to callers. All are recoverable; storage-layer
// failures during a transaction abort the whole transaction and pass
// through wrapped, distinct from these.
var (
	// ErrEmptyCart: checkout was submitted with no entries left after
	// garbage collection. Not an operator-facing condition.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrOutOfStock: a cart entry's listing is no longer available, has
	// an unsupported quantity, or lost the reservation race.
	ErrOutOfStock = errors.New("listing out of stock")

	// ErrAlreadyProcessed: a decision targeted a payment claim that is
	// no longer pending. Duplicate operator action, not a fault.
	ErrAlreadyProcessed = errors.New("payment already processed")

	// ErrNotFound: the referenced id does not exist.
	ErrNotFound = errors.New("not found")
)
