package sampler

import "errors"

// Configuration errors, surfaced before any chain starts.
var (
	// ErrBadSteps indicates a non-positive chain length.
	ErrBadSteps = errors.New("sampler: steps must be positive")

	// ErrNoStepSizes indicates an empty step-size list.
	ErrNoStepSizes = errors.New("sampler: at least one step size required")

	// ErrBadStepSize indicates a non-positive initial step length.
	ErrBadStepSize = errors.New("sampler: step sizes must be positive")

	// ErrBadThin indicates a negative thinning stride.
	ErrBadThin = errors.New("sampler: thin stride must be non-negative")

	// ErrEmptyState indicates a zero-length initial state.
	ErrEmptyState = errors.New("sampler: initial state is empty")

	// ErrDimensionMismatch indicates the initial state does not match the
	// target's dimension.
	ErrDimensionMismatch = errors.New("sampler: dimension mismatch between initial state and target")
)
