package flowgraph

import (
	"github.com/goliatone/go-errors"
)

// ErrorCode classifies a validation failure. Consumers filter by code, so the
// set is part of the contract.
type ErrorCode string

const (
	CodeRequiredField    ErrorCode = "REQUIRED_FIELD"
	CodeInvalidValue     ErrorCode = "INVALID_VALUE"
	CodeMaxLength        ErrorCode = "MAX_LENGTH"
	CodeInvalidURL       ErrorCode = "INVALID_URL"
	CodeInvalidEmail     ErrorCode = "INVALID_EMAIL"
	CodeUnmappedVariable ErrorCode = "UNMAPPED_VARIABLE"
	CodeInvalidNodeType  ErrorCode = "INVALID_NODE_TYPE"
	CodeDisconnectedNode ErrorCode = "DISCONNECTED_NODE"
	CodeInvalidStructure ErrorCode = "INVALID_STRUCTURE"
	CodeMissingValue     ErrorCode = "MISSING_VALUE"
)

// ValidationError is one typed validation failure on a config field.
// Expected validation failures are always returned as values, never as Go
// errors, because the editor must keep functioning on an invalid in-progress
// graph.
type ValidationError struct {
	Field   string    `json:"field"`
	Message string    `json:"message"`
	Code    ErrorCode `json:"code"`
}

// ValidationResult is the outcome of validating one node config.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors"`
}

// Messages flattens the result's error messages.
func (r ValidationResult) Messages() []string {
	if len(r.Errors) == 0 {
		return nil
	}
	out := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		out[i] = e.Message
	}
	return out
}

// Contract-violation sentinels. These mark programming errors and CLI-level
// refusals, not domain validation failures.
var (
	// ErrMalformedDocument marks flow documents that cannot be decoded at
	// all, as opposed to decodable flows with invalid content.
	ErrMalformedDocument = errors.New("malformed flow document", errors.CategoryBadInput).
				WithTextCode("FLOW_MALFORMED_DOCUMENT")

	// ErrExportBlocked is returned when an export is requested for a flow
	// that fails the readiness gate.
	ErrExportBlocked = errors.New("flow is not export ready", errors.CategoryValidation).
				WithTextCode("FLOW_EXPORT_BLOCKED")
)
