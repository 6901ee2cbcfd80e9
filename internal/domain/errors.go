package domain

import "errors"

var (
	// ErrInvalidConfig is returned when required configuration is missing or malformed
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrRemoteUnavailable is returned when the inventory snapshot cannot be fetched
	ErrRemoteUnavailable = errors.New("inventory system unavailable")

	// ErrSearchFailure is returned when an Open Food Facts search request fails
	ErrSearchFailure = errors.New("product search request failed")

	// ErrGrocyAPIFailure is returned when the Grocy API rejects a request
	ErrGrocyAPIFailure = errors.New("Grocy API request failed")

	// ErrUnknownReferenceKind is returned for reference entity kinds the client cannot manage
	ErrUnknownReferenceKind = errors.New("unknown reference entity kind")
)
