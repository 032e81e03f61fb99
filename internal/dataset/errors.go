package dataset

import (
	"fmt"
	"strings"
)

// Ingestion error codes.
const (
	ErrCodeUnparseableInput = "UNPARSEABLE_INPUT"
	ErrCodeEmptyInput       = "EMPTY_INPUT"
	ErrCodeMissingColumns   = "MISSING_COLUMNS"
)

// IngestionError is returned when the input cannot be turned into a table.
// It is fatal for the current pass.
type IngestionError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Missing []string `json:"missing,omitempty"`
	Err     error    `json:"-"`
}

func (e *IngestionError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if len(e.Missing) > 0 {
		msg += " (" + strings.Join(e.Missing, ", ") + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}
