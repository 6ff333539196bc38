package domain

import "errors"

var (
	// ErrInvalidConfiguration is returned when a configuration is semantically
	// invalid (negative amounts, empty horizon, bad withdrawal start year).
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrMalformedScenario is returned when a persisted scenario cannot be
	// decoded or lacks required fields.
	ErrMalformedScenario = errors.New("malformed scenario")
)
