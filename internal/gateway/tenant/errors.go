package tenant

import "errors"

var (
	// ErrUnknownTenant means the tenant id names no configured partition.
	ErrUnknownTenant = errors.New("tenant: unknown tenant")

	// ErrResolution means a configured partition could not be reached.
	ErrResolution = errors.New("tenant: resolution failed")
)
