package models

import "time"

// ImportRowError describes a single rejected row of a question import.
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportSummary is the outcome of a curated-question import run.
type ImportSummary struct {
	TotalRows        int              `json:"total_rows"`
	SuccessCount     int              `json:"success_count"`
	ErrorCount       int              `json:"error_count"`
	CreatedQuestions []string         `json:"created_questions"`
	Errors           []ImportRowError `json:"errors"`
	ProcessingTime   time.Duration    `json:"processing_time"`
}

// ExportRequest selects which results to export and in what format.
type ExportRequest struct {
	UserID     string     `json:"user_id" validate:"required"`
	CategoryID string     `json:"category_id"`
	Format     string     `json:"format" validate:"oneof=xlsx csv"`
	DateFrom   *time.Time `json:"date_from"`
	DateTo     *time.Time `json:"date_to"`
}
