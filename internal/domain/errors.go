package domain

import "errors"

var (
	// ErrMalformedDocument is returned when a feed is not well-formed XML
	ErrMalformedDocument = errors.New("malformed XML document")

	// ErrUnrecognizedFormat is returned when no dialect probe matches a document
	ErrUnrecognizedFormat = errors.New("unrecognized feed format")

	// ErrUnknownDialect is returned for a dialect tag outside the supported set
	ErrUnknownDialect = errors.New("unknown feed dialect")

	// ErrUnknownSource is returned when a feed source key is not configured
	ErrUnknownSource = errors.New("unknown feed source")

	// ErrFeedFetchFailure is returned when downloading a supplier feed fails
	ErrFeedFetchFailure = errors.New("feed fetch failed")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrBaseLinkerFailure is returned when the BaseLinker API rejects a call or is unreachable
	ErrBaseLinkerFailure = errors.New("BaseLinker API request failed")

	// ErrBaseLinkerNotConfigured is returned when no API token is configured
	ErrBaseLinkerNotConfigured = errors.New("BaseLinker API token not configured")
)
