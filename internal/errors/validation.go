package errors

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError is one rejected field of a request payload.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ValidationErrors aggregates every rejected field of one payload so
// clients get the full picture in a single response.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	switch len(ve) {
	case 0:
		return "validation failed"
	case 1:
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	default:
		return fmt.Sprintf("validation failed: %d field errors", len(ve))
	}
}

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

func NewValidationErrorWithRule(field, message, rule string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
		Rule:    rule,
	}
}

// ToValidationErrors maps go-playground field errors onto the wire
// shape above.
func ToValidationErrors(err error) ValidationErrors {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return nil
	}

	out := make(ValidationErrors, 0, len(fieldErrors))
	for _, fieldErr := range fieldErrors {
		out = append(out, ValidationError{
			Field:   fieldErr.Field(),
			Message: tagMessage(fieldErr),
			Value:   fieldErr.Value(),
			Rule:    fieldErr.Tag(),
		})
	}
	return out
}

func tagMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", err.Param())
	case "numeric":
		return "must be a number"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())
	case "exam_type":
		return "must be a valid exam type (yks, kpss, ehliyet, src, ales, dgs, msu, polis)"
	case "scoring_system":
		return "must be a valid scoring system (net_calculation, percentage, standard_scoring)"
	case "session_type":
		return "must be a valid session type (full_mock, subject_practice, timed_practice, adaptive_practice)"
	case "difficulty_level":
		return "must be easy, medium, or hard"
	case "preparation_level":
		return "must be beginner, intermediate, or advanced"
	case "future_date":
		return "must be in the future"
	case "question_count":
		return "must be a positive question count"
	case "target_score":
		return "must be between 0 and 100"
	default:
		return fmt.Sprintf("validation failed for rule '%s'", err.Tag())
	}
}
