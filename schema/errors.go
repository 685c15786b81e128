package schema

import "fmt"

// GenerationError reports an underlying text-generation failure at a named
// pipeline stage. It is never absorbed by the pipeline: callers see the
// request fail rather than receive a partial answer presented as complete.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed at %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
