package exercisegen

import "fmt"

// GenerationError is returned when no well-formed batch could be produced
// within the configured attempt budget. It wraps the last failure.
type GenerationError struct {
	Stage    Stage
	Attempts int
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generating %s exercises failed after %d attempts: %v", e.Stage, e.Attempts, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ValidationError describes why a generated batch failed validation.
// Validation failures trigger a fresh generation attempt.
type ValidationError struct {
	Stage   Stage
	Index   int // position of the offending exercise in the batch, -1 for batch-level failures
	Message string
}

func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s batch item %d: %s", e.Stage, e.Index, e.Message)
	}
	return fmt.Sprintf("%s batch: %s", e.Stage, e.Message)
}
