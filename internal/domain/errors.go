package domain

import "errors"

var (
	// ErrUnknownStore is returned for a store id with no registry entry.
	ErrUnknownStore = errors.New("unknown store")

	// ErrNavigationTimeout means page navigation exceeded its bound.
	ErrNavigationTimeout = errors.New("navigation timeout")

	// ErrSelectorTimeout means the product container never appeared in the
	// rendered page within the wait bound.
	ErrSelectorTimeout = errors.New("selector timeout")

	// ErrUnparsablePrice rejects a record whose price text holds no valid
	// non-negative number.
	ErrUnparsablePrice = errors.New("unparsable price")

	// ErrDocumentNotFound is returned by a document store miss.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrJobNotFound is returned when a job status record has expired or
	// never existed.
	ErrJobNotFound = errors.New("job not found")
)
