package pipeline

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a pipeline failure.
type ErrorKind string

const (
	KindValidation      ErrorKind = "validation"
	KindExtraction      ErrorKind = "extraction"
	KindExternalService ErrorKind = "external_service"
	KindAnalysis        ErrorKind = "analysis"
	KindAggregation     ErrorKind = "aggregation"
)

// Stage names the pipeline stage a failure originated from.
type Stage string

const (
	StageValidating      Stage = "validating"
	StageExtracting      Stage = "extracting"
	StageContentChecking Stage = "content_checking"
	StageFetching        Stage = "fetching"
	StageResumeAnalyzing Stage = "resume_analyzing"
	StageFinalAnalyzing  Stage = "final_analyzing"
	StageAggregating     Stage = "aggregating"
)

// Error is the single failure type returned by a pipeline run. Every stage
// raises at most one of these; no stage retries internally.
type Error struct {
	Kind  ErrorKind
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind onto the HTTP surface contract:
// user-correctable document problems are client errors, everything else is an
// infrastructure failure.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindExtraction:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// StatusFor returns the HTTP status for any error coming out of a pipeline
// run, defaulting to 500 for errors that are not pipeline errors.
func StatusFor(err error) int {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.HTTPStatus()
	}
	return http.StatusInternalServerError
}
