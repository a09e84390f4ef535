package render

import "errors"

var (
	// ErrInvalidInput reports a request the pipeline cannot start on, such
	// as an unknown style or a week outside the plan.
	ErrInvalidInput = errors.New("invalid render input")
	// ErrRender reports an internal inconsistency found while laying out or
	// writing a document. No partial output accompanies it.
	ErrRender = errors.New("could not generate document")
	// ErrTimeout reports a render that exceeded its wall-clock bound.
	ErrTimeout = errors.New("document generation timed out")
)
