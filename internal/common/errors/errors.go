// internal/common/errors/errors.go
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Error codes surfaced to callers in the result envelope.
const (
	CodeUnknownRegion         = "UNKNOWN_REGION"
	CodeUnknownCountry        = "UNKNOWN_COUNTRY"
	CodeUnrecognizedIntent    = "UNRECOGNIZED_INTENT"
	CodeMissingRequiredEntity = "MISSING_REQUIRED_ENTITY"
	CodeRefdataCorrupt        = "REFDATA_CORRUPT"
	CodeInternalError         = "INTERNAL_ERROR"
)

// StandardError is the uniform error shape carried through handlers.
type StandardError struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code, message string, retryable bool, details map[string]interface{}) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownRegion reports a region name outside the supported set.
func NewUnknownRegion(region string, supported []string) *StandardError {
	return newError(CodeUnknownRegion,
		fmt.Sprintf("unknown region %q", region),
		false,
		map[string]interface{}{"region": region, "supported_regions": supported})
}

// NewUnknownCountry reports a country with no observed history.
func NewUnknownCountry(country string) *StandardError {
	return newError(CodeUnknownCountry,
		fmt.Sprintf("no data for country %q", country),
		false,
		map[string]interface{}{"country": country})
}

// NewUnrecognizedIntent reports that no dispatch rule matched the text.
func NewUnrecognizedIntent(raw string) *StandardError {
	return newError(CodeUnrecognizedIntent,
		"could not determine what the question is asking",
		false,
		map[string]interface{}{"raw_message": raw})
}

// NewMissingRequiredEntity reports a matched intent lacking an entity it
// needs, such as a country or a year.
func NewMissingRequiredEntity(entity string, intent string) *StandardError {
	return newError(CodeMissingRequiredEntity,
		fmt.Sprintf("the question needs a %s", entity),
		false,
		map[string]interface{}{"entity": entity, "intent": intent})
}

// NewRefdataCorrupt reports reference data that failed schema validation.
func NewRefdataCorrupt(source string, cause error) *StandardError {
	details := map[string]interface{}{"source": source}
	if cause != nil {
		details["cause"] = cause.Error()
	}
	return newError(CodeRefdataCorrupt,
		fmt.Sprintf("reference data %q failed validation", source),
		false, details)
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(cause error) *StandardError {
	details := map[string]interface{}{}
	if cause != nil {
		details["cause"] = cause.Error()
	}
	return newError(CodeInternalError, "internal error", true, details)
}

// AsStandard extracts a StandardError from err, wrapping unknown errors
// as internal.
func AsStandard(err error) *StandardError {
	var se *StandardError
	if errors.As(err, &se) {
		return se
	}
	return NewInternalError(err)
}
