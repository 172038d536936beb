package services

import (
	"errors"
	"fmt"

	apperrors "github.com/sinavly/exam-engine/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Catalog specific errors
	ErrCategoryNotFound = errors.New("exam category not found")

	// Question specific errors
	ErrQuestionNotFound     = errors.New("question not found")
	ErrInvalidQuestionCount = errors.New("question count must be a positive integer")

	// Session specific errors
	ErrSessionNotFound         = errors.New("exam session not found")
	ErrSessionNotActive        = errors.New("session is not active")
	ErrSessionAlreadySubmitted = errors.New("session already submitted")
	ErrSessionAlreadyStarted   = errors.New("session already started")
	ErrSessionCancelled        = errors.New("session was abandoned")
	ErrSubmitWindowClosed      = errors.New("submit received after the grace period")

	// Scoring specific errors
	ErrScoringConfig = errors.New("percentage scoring cannot be combined with negative marking")

	// Prediction / registration specific errors
	ErrPastExamDate       = errors.New("target exam date is in the past")
	ErrInvalidTargetScore = errors.New("target score must be between 0 and 100")
	ErrResultNotFound     = errors.New("exam result not found")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// BusinessRuleError carries a stable machine-readable rule code so the
// API boundary can localize the message without parsing error text.
type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

// ===== CONSTRUCTORS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrResultNotFound)
}

// IsInvalidArgument checks if error represents a rejected request value
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrBadRequest) ||
		errors.Is(err, ErrInvalidQuestionCount) ||
		errors.Is(err, ErrScoringConfig) ||
		errors.Is(err, ErrPastExamDate) ||
		errors.Is(err, ErrInvalidTargetScore) ||
		IsValidation(err)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// IsConflict checks if error represents a state conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrSessionNotActive) ||
		errors.Is(err, ErrSessionAlreadySubmitted) ||
		errors.Is(err, ErrSessionAlreadyStarted) ||
		errors.Is(err, ErrSessionCancelled) ||
		errors.Is(err, ErrSubmitWindowClosed)
}

// ErrorCode maps a service error to its stable machine-readable code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrCategoryNotFound):
		return "CATEGORY_NOT_FOUND"
	case errors.Is(err, ErrSessionNotFound):
		return "SESSION_NOT_FOUND"
	case errors.Is(err, ErrQuestionNotFound):
		return "QUESTION_NOT_FOUND"
	case errors.Is(err, ErrResultNotFound):
		return "RESULT_NOT_FOUND"
	case errors.Is(err, ErrInvalidQuestionCount):
		return "INVALID_QUESTION_COUNT"
	case errors.Is(err, ErrScoringConfig):
		return "SCORING_CONFIG_CONFLICT"
	case errors.Is(err, ErrPastExamDate):
		return "PAST_EXAM_DATE"
	case errors.Is(err, ErrInvalidTargetScore):
		return "INVALID_TARGET_SCORE"
	case errors.Is(err, ErrSessionNotActive):
		return "SESSION_NOT_ACTIVE"
	case errors.Is(err, ErrSessionAlreadySubmitted):
		return "SESSION_ALREADY_SUBMITTED"
	case errors.Is(err, ErrSessionAlreadyStarted):
		return "SESSION_ALREADY_STARTED"
	case errors.Is(err, ErrSessionCancelled):
		return "SESSION_ABANDONED"
	case errors.Is(err, ErrSubmitWindowClosed):
		return "SUBMIT_WINDOW_CLOSED"
	case IsValidation(err):
		return "VALIDATION_FAILED"
	case IsNotFound(err):
		return "NOT_FOUND"
	case IsConflict(err):
		return "CONFLICT"
	default:
		return "INTERNAL_ERROR"
	}
}
