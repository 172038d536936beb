package postgres

import (
	"github.com/sinavly/exam-engine/internal/models"
	"github.com/sinavly/exam-engine/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	categories    repositories.CategoryRepository
	questions     repositories.QuestionRepository
	sessions      repositories.SessionRepository
	results       repositories.ResultRepository
	registrations repositories.RegistrationRepository
}

// NewRepository bundles the gorm-backed stores with the injected category
// registry. The catalog is static in-code data, not a table, so it is
// passed in rather than constructed here.
func NewRepository(db *gorm.DB, categories repositories.CategoryRepository) repositories.Repository {
	return &repository{
		categories:    categories,
		questions:     NewQuestionPostgreSQL(db),
		sessions:      NewSessionPostgreSQL(db),
		results:       NewResultPostgreSQL(db),
		registrations: NewRegistrationPostgreSQL(db),
	}
}

func (r *repository) Category() repositories.CategoryRepository {
	return r.categories
}

func (r *repository) Question() repositories.QuestionRepository {
	return r.questions
}

func (r *repository) Session() repositories.SessionRepository {
	return r.sessions
}

func (r *repository) Result() repositories.ResultRepository {
	return r.results
}

func (r *repository) Registration() repositories.RegistrationRepository {
	return r.registrations
}

// AutoMigrate creates or updates the engine's tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.ExamQuestion{},
		&models.MockExamSession{},
		&models.ExamResult{},
		&models.ExamRegistration{},
	)
}
