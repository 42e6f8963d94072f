package types

import (
	"errors"
	"fmt"
)

// Error kinds shared by every stage of the matching and skill-gap engine.
// Callers test for them with errors.Is.
var (
	// ErrModelUnavailable means the embedding backend could not be initialised
	ErrModelUnavailable = errors.New("embedding model unavailable")
	// ErrInvalidInput means a required input was missing or empty
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoJobsAvailable means a job corpus was required but empty
	ErrNoJobsAvailable = errors.New("no jobs available")
	// ErrNoSkillColumn means the job corpus has no recognisable skills field
	ErrNoSkillColumn = errors.New("no skill column in job corpus")
	// ErrExternalService means a generative or rendering collaborator failed
	ErrExternalService = errors.New("external service failure")
	// ErrNotFound means a stored record the caller named does not exist
	ErrNotFound = errors.New("not found")
)

// Stage names the part of the pipeline that produced an error
type Stage string

// Stage constants
const (
	StageInput       Stage = "input"
	StageEmbedding   Stage = "embedding"
	StageIndexing    Stage = "indexing"
	StageMatching    Stage = "matching"
	StageGapAnalysis Stage = "gap_analysis"
	StageExtraction  Stage = "extraction"
	StageRewrite     Stage = "rewrite"
	StageRendering   Stage = "rendering"
	StageStorage     Stage = "storage"
)

// StageError is an error annotated with the stage that failed and its kind
type StageError struct {
	Stage   Stage
	Kind    error
	Message string
	Cause   error
}

func (e *StageError) Error() string {
	msg := e.Message
	if msg == "" && e.Kind != nil {
		msg = e.Kind.Error()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Stage, msg)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As
func (e *StageError) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// NewStageError builds a StageError
func NewStageError(stage Stage, kind error, message string, cause error) *StageError {
	return &StageError{Stage: stage, Kind: kind, Message: message, Cause: cause}
}

// InvalidInput is shorthand for an input-stage ErrInvalidInput error
func InvalidInput(message string) *StageError {
	return NewStageError(StageInput, ErrInvalidInput, message, nil)
}

// StageOf returns the stage of the first StageError in err's chain, or "".
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

// WrapStage annotates err with stage unless it already carries one
func WrapStage(stage Stage, message string, err error) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return NewStageError(stage, nil, message, err)
}
