// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Scoring pipeline errors
const (
	ErrCodeInputFileNotFound ErrorCode = "INPUT_FILE_NOT_FOUND"
	ErrCodeMalformedLine     ErrorCode = "MALFORMED_LINE"
	ErrCodeScoreOverflow     ErrorCode = "SCORE_OVERFLOW"
	ErrCodeNonSquareMatrix   ErrorCode = "NON_SQUARE_MATRIX"
	ErrCodeUnknownStrategy   ErrorCode = "UNKNOWN_STRATEGY"
)

// Worker plumbing errors
const (
	ErrCodeInputParsingFailed ErrorCode = "INPUT_PARSING_FAILED"
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodeCacheUnavailable   ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is matches any StandardError carrying the same code, so callers can write
// errors.Is(err, &StandardError{Code: ErrCodeScoreOverflow}).
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func NewInputFileNotFoundError(path string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputFileNotFound,
		Message:   "Input file was not found",
		Details:   fmt.Sprintf("path: %s", path),
		Retryable: false,
		Metadata:  map[string]interface{}{"path": path},
		Timestamp: time.Now().UTC(),
	}
}

func NewMalformedLineError(lineNumber int, reason string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedLine,
		Message:   "Malformed input line",
		Details:   fmt.Sprintf("line %d: %s", lineNumber, reason),
		Retryable: false,
		Metadata:  map[string]interface{}{"line": lineNumber},
		Timestamp: time.Now().UTC(),
	}
}

func NewScoreOverflowError(scaled, maxVal int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeScoreOverflow,
		Message:   "Scaled score exceeds cost matrix ceiling",
		Details:   fmt.Sprintf("score %d is greater than max_val %d", scaled, maxVal),
		Retryable: false,
		Metadata: map[string]interface{}{
			"score":  scaled,
			"maxVal": maxVal,
		},
		Timestamp: time.Now().UTC(),
	}
}

func NewNonSquareMatrixError(strategy string, rows, cols int) *StandardError {
	return &StandardError{
		Code:      ErrCodeNonSquareMatrix,
		Message:   "Solver requires a square cost matrix",
		Details:   fmt.Sprintf("strategy: %s, shape: %dx%d", strategy, rows, cols),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewUnknownStrategyError(strategy string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownStrategy,
		Message:   "Unsupported assignment solver strategy",
		Details:   fmt.Sprintf("strategy: %q", strategy),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInputParsingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputParsingFailed,
		Message:   "Failed to parse job variables",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Input validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Score cache unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. BPMN Mapping & Retries
// ==========================

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInputFileNotFound:  "INPUT_FILE_NOT_FOUND",
	ErrCodeMalformedLine:      "MALFORMED_LINE",
	ErrCodeScoreOverflow:      "SCORE_OVERFLOW",
	ErrCodeNonSquareMatrix:    "NON_SQUARE_MATRIX",
	ErrCodeUnknownStrategy:    "UNKNOWN_STRATEGY",
	ErrCodeInputParsingFailed: "INPUT_PARSING_FAILED",
	ErrCodeValidationFailed:   "VALIDATION_FAILED",
	ErrCodeCacheUnavailable:   "CACHE_UNAVAILABLE",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCacheUnavailable, ErrCodeInternal:
		return 3
	default:
		return 0 // pipeline errors are deterministic; retrying gives the same result
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "FILE"):
		return "IO"
	case strings.Contains(codeStr, "LINE") || strings.Contains(codeStr, "PARSING") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "SCORE") || strings.Contains(codeStr, "MATRIX") || strings.Contains(codeStr, "STRATEGY"):
		return "SCORING"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	default:
		return "OTHER"
	}
}

// CodeOf extracts the ErrorCode of err, or ErrCodeInternal when err is not a
// StandardError.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ErrCodeInternal
}
