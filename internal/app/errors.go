package app

import "errors"

var (
	ErrMissingDependencies = errors.New("missing dependencies")
	// ErrNoExpiry means the registry answered but carried no expiration date.
	ErrNoExpiry = errors.New("no expiration date in registry response")
)
