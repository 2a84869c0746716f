package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Backend and transport errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrNotFound           = fmt.Errorf("not found")
	ErrValidation         = fmt.Errorf("validation failed")

	// Change feed errors
	ErrStreamClosed   = fmt.Errorf("event stream closed")
	ErrAlreadyRunning = fmt.Errorf("listener already running")
	ErrEventTooLarge  = fmt.Errorf("event exceeds size limit")

	// Local storage errors
	ErrDraftNotFound = fmt.Errorf("draft not found")
	ErrViewNotFound  = fmt.Errorf("saved view not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
