package validator

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sinavly/exam-engine/internal/models"
)

// Validator combines struct-tag validation with question content checks
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Question returns the question validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("exam_type", validateExamType)
	validate.RegisterValidation("scoring_system", validateScoringSystem)
	validate.RegisterValidation("session_type", validateSessionType)
	validate.RegisterValidation("difficulty_level", validateDifficultyLevel)
	validate.RegisterValidation("preparation_level", validatePreparationLevel)
	validate.RegisterValidation("future_date", validateFutureDate)

	// Report field names from json tags for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateExamType(fl validator.FieldLevel) bool {
	validTypes := []models.ExamType{
		models.ExamYKS,
		models.ExamKPSS,
		models.ExamEhliyet,
		models.ExamSRC,
		models.ExamALES,
		models.ExamDGS,
		models.ExamMSU,
		models.ExamPolis,
	}

	value := fl.Field().String()
	for _, validType := range validTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}

func validateScoringSystem(fl validator.FieldLevel) bool {
	validSystems := []models.ScoringSystem{
		models.ScoringNetCalculation,
		models.ScoringPercentage,
		models.ScoringStandard,
	}

	value := fl.Field().String()
	for _, validSystem := range validSystems {
		if string(validSystem) == value {
			return true
		}
	}
	return false
}

func validateSessionType(fl validator.FieldLevel) bool {
	validTypes := []models.SessionType{
		models.SessionFullMock,
		models.SessionSubjectPractice,
		models.SessionTimedPractice,
		models.SessionAdaptivePractice,
	}

	value := fl.Field().String()
	for _, validType := range validTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}

func validateDifficultyLevel(fl validator.FieldLevel) bool {
	validLevels := []models.DifficultyLevel{
		models.DifficultyEasy,
		models.DifficultyMedium,
		models.DifficultyHard,
	}

	value := fl.Field().String()
	for _, validLevel := range validLevels {
		if string(validLevel) == value {
			return true
		}
	}
	return false
}

func validatePreparationLevel(fl validator.FieldLevel) bool {
	validLevels := []models.PreparationLevel{
		models.PreparationBeginner,
		models.PreparationIntermediate,
		models.PreparationAdvanced,
	}

	value := fl.Field().String()
	for _, validLevel := range validLevels {
		if string(validLevel) == value {
			return true
		}
	}
	return false
}

func validateFutureDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}

	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return false
	}
	return !date.Before(time.Now().Truncate(24 * time.Hour))
}
