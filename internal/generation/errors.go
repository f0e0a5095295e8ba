package generation

import "errors"

var (
	// ErrInvalidInput marks a request rejected before any job is created.
	ErrInvalidInput = errors.New("invalid request")
	// ErrTypeMismatch marks a request handed to the wrong generator.
	ErrTypeMismatch = errors.New("request type does not match this generator")
	// ErrUnsupportedType marks a request no generator accepts.
	ErrUnsupportedType = errors.New("unsupported document type")
	// ErrNotFound marks a job id no generator knows.
	ErrNotFound = errors.New("document job not found")
	// ErrBusy marks a submission rejected because the worker queue is full.
	ErrBusy = errors.New("generation queue is full")
)
