package triggers

import "errors"

var (
	// ErrUnknownTriggerType is returned when a config names a type outside
	// the known variant set
	ErrUnknownTriggerType = errors.New("unknown trigger type")

	// ErrTriggerAlreadyRunning is returned when trying to start an already running trigger
	ErrTriggerAlreadyRunning = errors.New("trigger is already running")

	// ErrTriggerNotRunning is returned when trying to stop a trigger that is not running
	ErrTriggerNotRunning = errors.New("trigger is not running")

	// ErrInvalidTriggerConfig is returned when trigger configuration is invalid
	ErrInvalidTriggerConfig = errors.New("invalid trigger configuration")
)
