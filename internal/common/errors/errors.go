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

// Scoring and compilation errors. These are defects in the data or in the
// scorer and are never retried.
const (
	ErrCodeMalformedInput      ErrorCode = "MALFORMED_INPUT"
	ErrCodeScoreRangeViolation ErrorCode = "SCORE_RANGE_VIOLATION"
	ErrCodeEvidenceIncomplete  ErrorCode = "EVIDENCE_INCOMPLETE"
	ErrCodeRuleTableInvalid    ErrorCode = "RULE_TABLE_INVALID"
)

// Worker and integration errors.
const (
	ErrCodeSubmissionNotFound      ErrorCode = "SUBMISSION_NOT_FOUND"
	ErrCodeReportContractViolation ErrorCode = "REPORT_CONTRACT_VIOLATION"
	ErrCodeReportStoreFailed       ErrorCode = "REPORT_STORE_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"

	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeIndexRequestFailed            ErrorCode = "INDEX_REQUEST_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeLLMTimeout         ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMSynthesisFailed ErrorCode = "LLM_SYNTHESIS_FAILED"
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
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// AsStandardError unwraps err until it finds a *StandardError.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
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

// NewMalformedInputError reports a raw answer that cannot be scored.
func NewMalformedInputError(instrument, details string, value interface{}) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedInput,
		Message:   fmt.Sprintf("Malformed %s input", instrument),
		Details:   details,
		Retryable: false,
		Metadata: map[string]interface{}{
			"instrument": instrument,
			"value":      value,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewScoreRangeViolationError reports a computed score outside its scale.
func NewScoreRangeViolationError(instrument, dimension string, value float64, min, max float64) *StandardError {
	return &StandardError{
		Code:      ErrCodeScoreRangeViolation,
		Message:   fmt.Sprintf("%s score out of range", instrument),
		Details:   fmt.Sprintf("dimension %s = %.2f, expected [%g, %g]", dimension, value, min, max),
		Retryable: false,
		Metadata: map[string]interface{}{
			"instrument": instrument,
			"dimension":  dimension,
			"value":      value,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewEvidenceIncompleteError reports a required evidence field that cannot be populated.
func NewEvidenceIncompleteError(field, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEvidenceIncomplete,
		Message:   fmt.Sprintf("Required evidence %q unavailable", field),
		Details:   details,
		Retryable: false,
		Metadata: map[string]interface{}{
			"instrument": field,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewRuleTableInvalidError reports a defect in the career rule tables.
func NewRuleTableInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRuleTableInvalid,
		Message:   "Career rule table is invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSubmissionNotFoundError creates a non-retryable lookup error.
func NewSubmissionNotFoundError(attemptID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionNotFound,
		Message:   "Assessment submission not found",
		Details:   fmt.Sprintf("attemptId: %s", attemptID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewReportContractViolationError reports a generated report that does not match its contract.
func NewReportContractViolationError(strategy string, problems []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportContractViolation,
		Message:   "Generated report violates output contract",
		Details:   strings.Join(problems, "; "),
		Retryable: true,
		Metadata: map[string]interface{}{
			"strategy": strategy,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewReportStoreFailedError creates a retryable persistence error.
func NewReportStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportStoreFailed,
		Message:   "Career report could not be stored",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(queryType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timeout",
		Details:   fmt.Sprintf("queryType: %s", queryType),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewIndexRequestFailedError creates a retryable Elasticsearch indexing error.
func NewIndexRequestFailedError(index string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeIndexRequestFailed,
		Message:   "Elasticsearch index request failed",
		Details:   fmt.Sprintf("index: %s, error: %s", index, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMTimeoutError creates a retryable LLM timeout error.
func NewLLMTimeoutError(timeout time.Duration) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMTimeout,
		Message:   "Report synthesis timeout",
		Details:   fmt.Sprintf("GenAI call exceeded %s", timeout),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMSynthesisFailedError creates a retryable LLM synthesis error.
func NewLLMSynthesisFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMSynthesisFailed,
		Message:   "Report synthesis API error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the error codes caught by BPMN boundary events.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeMalformedInput:                "MALFORMED_INPUT",
	ErrCodeScoreRangeViolation:           "SCORE_RANGE_VIOLATION",
	ErrCodeEvidenceIncomplete:            "EVIDENCE_INCOMPLETE",
	ErrCodeRuleTableInvalid:              "RULE_TABLE_INVALID",
	ErrCodeSubmissionNotFound:            "SUBMISSION_NOT_FOUND",
	ErrCodeReportContractViolation:       "REPORT_CONTRACT_VIOLATION",
	ErrCodeReportStoreFailed:             "REPORT_STORE_FAILED",
	ErrCodeDatabaseConnectionFailed:      "DATABASE_CONNECTION_FAILED",
	ErrCodeQueryExecutionFailed:          "QUERY_EXECUTION_FAILED",
	ErrCodeQueryTimeout:                  "QUERY_TIMEOUT",
	ErrCodeCacheUnavailable:              "CACHE_UNAVAILABLE",
	ErrCodeElasticsearchConnectionFailed: "ELASTICSEARCH_CONNECTION_FAILED",
	ErrCodeIndexRequestFailed:            "INDEX_REQUEST_FAILED",
	ErrCodeNotificationSendFailed:        "NOTIFICATION_SEND_FAILED",
	ErrCodeLLMTimeout:                    "LLM_TIMEOUT",
	ErrCodeLLMSynthesisFailed:            "LLM_SYNTHESIS_FAILED",
}

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeIndexRequestFailed,
		ErrCodeReportStoreFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeLLMSynthesisFailed:
		return 3

	case ErrCodeQueryTimeout,
		ErrCodeCacheUnavailable,
		ErrCodeReportContractViolation:
		return 2

	case ErrCodeLLMTimeout:
		return 1

	default:
		return 0 // scoring defects and business errors
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case code == ErrCodeMalformedInput, code == ErrCodeScoreRangeViolation,
		code == ErrCodeEvidenceIncomplete, code == ErrCodeRuleTableInvalid:
		return "SCORING"
	case strings.Contains(codeStr, "REPORT"):
		return "REPORT"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY") || strings.Contains(codeStr, "SUBMISSION"):
		return "DATABASE"
	case strings.Contains(codeStr, "ELASTICSEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "LLM"):
		return "AI"
	default:
		return "OTHER"
	}
}
