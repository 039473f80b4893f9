// internal/models/result.go
package models

// Result is the single response envelope every handler produces.
// Exactly one of Data or ErrorCode is populated.
type Result struct {
	Intent    Intent      `json:"intent"`
	Answer    string      `json:"answer,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Parsed    ParsedQuery `json:"parsed_query"`
	ErrorCode string      `json:"error,omitempty"`
	ErrorMsg  string      `json:"error_message,omitempty"`
}

// IsError reports whether the handler produced an error envelope.
func (r Result) IsError() bool { return r.ErrorCode != "" }
