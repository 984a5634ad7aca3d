package api

import "time"

const (
	// DefaultOperationTimeout bounds a single document operation
	DefaultOperationTimeout = 60 * time.Second

	// DefaultSessionTTL is how long an idle organize session is kept
	DefaultSessionTTL = 30 * time.Minute

	// SessionSweepInterval is how often expired sessions are dropped
	SessionSweepInterval = time.Minute

	// MaxErrorMessageLength truncates unexpected error messages sent to clients
	MaxErrorMessageLength = 200

	// DefaultRotationDelta is the rotation applied by one click on "rotate"
	DefaultRotationDelta = 90
)
