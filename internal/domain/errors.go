package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrServerOffline indicates the Wizard World API is unreachable
	ErrServerOffline = errors.New("wizard world api is unreachable")

	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrUnexpectedStatus indicates the API answered with a non-2xx status
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrDecode indicates a response body did not match the expected shape
	ErrDecode = errors.New("malformed response")

	// ErrUnknownKind indicates a resource kind outside the supported set
	ErrUnknownKind = errors.New("unknown resource kind")
)
