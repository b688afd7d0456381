package authclient

import "errors"

var (
	// ErrClientNotReady is returned when a Client method is invoked before
	// the client was initialized through [Builder.Build].
	ErrClientNotReady = errors.New("client not initialized")
	// ErrInvalidBaseURL is returned by [Config.Validate] and [Builder.Build]
	// when the configured server base URL is empty or unparsable.
	ErrInvalidBaseURL = errors.New("invalid server base url")
	// ErrStorageBackend is returned when the configured storage backend is
	// unknown or its required dependency was not provided to the builder.
	ErrStorageBackend = errors.New("invalid storage backend configuration")
)

// errMalformedAuthPayload marks a 2xx register/login body missing its
// user or token. Installing such a payload would raise the authenticated
// flag without a usable identity.
var errMalformedAuthPayload = errors.New("auth payload missing user or token")
