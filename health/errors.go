package health

import "errors"

var (
	// ErrCheckFailed marks a health check that completed and failed.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout marks a health check that outlived the aggregator's
	// deadline. Its Result reports unhealthy, not degraded: a checker that
	// cannot answer is treated like a component that is down.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckerNotFound is returned when no checker is registered under
	// the requested name.
	ErrCheckerNotFound = errors.New("health: checker not found")

	// ErrNoCheckers is returned when the aggregator has nothing to run.
	ErrNoCheckers = errors.New("health: no checkers registered")
)
