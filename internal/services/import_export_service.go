package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/sinavly/exam-engine/internal/models"
	"github.com/sinavly/exam-engine/internal/repositories"
	"github.com/sinavly/exam-engine/internal/validator"
	"github.com/xuri/excelize/v2"
)

// ImportExportService moves curated questions into the bank from
// spreadsheet files and exports stored results for offline analysis.
type ImportExportService interface {
	ImportQuestionsFromFile(ctx context.Context, reader io.Reader, filename, categoryID string) (*models.ImportSummary, error)
	ImportQuestionsFromCSV(ctx context.Context, reader io.Reader, categoryID string) (*models.ImportSummary, error)
	ImportQuestionsFromExcel(ctx context.Context, reader io.Reader, categoryID string) (*models.ImportSummary, error)

	ExportResults(ctx context.Context, req *models.ExportRequest) ([]byte, string, error)
}

type importExportService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewImportExportService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) ImportExportService {
	return &importExportService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

// ===== IMPORT OPERATIONS =====

// importColumns is the expected header row, in order: question_text,
// option_a..option_e, correct_answer, subject, topic, difficulty,
// explanation. Options d and e may be blank for shorter questions.
var requiredImportColumns = []string{"question_text", "option_a", "option_b", "correct_answer", "subject", "difficulty"}

func (s *importExportService) ImportQuestionsFromFile(ctx context.Context, reader io.Reader, filename, categoryID string) (*models.ImportSummary, error) {
	s.logger.Info("Starting question import", "filename", filename, "category_id", categoryID)

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return s.ImportQuestionsFromCSV(ctx, reader, categoryID)
	case ".xlsx", ".xls":
		return s.ImportQuestionsFromExcel(ctx, reader, categoryID)
	default:
		return nil, NewValidationError("file", "unsupported file format", ext)
	}
}

func (s *importExportService) ImportQuestionsFromCSV(ctx context.Context, reader io.Reader, categoryID string) (*models.ImportSummary, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return s.importRecords(ctx, records, categoryID)
}

func (s *importExportService) ImportQuestionsFromExcel(ctx context.Context, reader io.Reader, categoryID string) (*models.ImportSummary, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewValidationError("file", "Excel file has no sheets", nil)
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	return s.importRecords(ctx, records, categoryID)
}

func (s *importExportService) importRecords(ctx context.Context, records [][]string, categoryID string) (*models.ImportSummary, error) {
	started := time.Now()

	category, err := s.repo.Category().GetByID(ctx, categoryID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	if len(records) < 2 {
		return nil, NewValidationError("file", "file must have a header row and at least one data row", len(records))
	}

	headerMap := make(map[string]int)
	for i, header := range records[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range requiredImportColumns {
		if _, ok := headerMap[col]; !ok {
			return nil, NewValidationError("headers", fmt.Sprintf("missing required column: %s", col), col)
		}
	}

	summary := &models.ImportSummary{TotalRows: len(records) - 1}

	var accepted []*models.ExamQuestion
	for rowIndex, record := range records[1:] {
		rowNumber := rowIndex + 2
		question, err := s.parseRow(record, headerMap, category, rowNumber)
		if err != nil {
			summary.Errors = append(summary.Errors, models.ImportRowError{
				Row:     rowNumber,
				Message: err.Error(),
			})
			continue
		}
		if err := s.validator.Question().ValidateQuestion(question, category); err != nil {
			summary.Errors = append(summary.Errors, models.ImportRowError{
				Row:     rowNumber,
				Message: err.Error(),
			})
			continue
		}
		accepted = append(accepted, question)
	}

	if len(accepted) > 0 {
		if err := s.repo.Question().CreateBatch(ctx, accepted); err != nil {
			return nil, fmt.Errorf("failed to store imported questions: %w", err)
		}
	}

	for _, q := range accepted {
		summary.CreatedQuestions = append(summary.CreatedQuestions, q.ID)
	}
	summary.SuccessCount = len(accepted)
	summary.ErrorCount = len(summary.Errors)
	summary.ProcessingTime = time.Since(started)

	s.logger.Info("Question import finished",
		"category_id", categoryID,
		"total", summary.TotalRows,
		"imported", summary.SuccessCount,
		"rejected", summary.ErrorCount)

	return summary, nil
}

func (s *importExportService) parseRow(record []string, headerMap map[string]int, category *models.ExamCategory, rowNumber int) (*models.ExamQuestion, error) {
	cell := func(name string) string {
		idx, ok := headerMap[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var options []string
	for _, col := range []string{"option_a", "option_b", "option_c", "option_d", "option_e"} {
		if value := cell(col); value != "" {
			options = append(options, value)
		}
	}

	question := &models.ExamQuestion{
		ID:            fmt.Sprintf("%s-imp-%d-%03d", category.ID, time.Now().Unix(), rowNumber),
		CategoryID:    category.ID,
		Subject:       cell("subject"),
		Topic:         cell("topic"),
		QuestionText:  cell("question_text"),
		CorrectAnswer: cell("correct_answer"),
		Explanation:   cell("explanation"),
		Difficulty:    models.DifficultyLevel(strings.ToLower(cell("difficulty"))),
		CreatedAt:     time.Now(),
	}
	if err := question.SetOptions(options); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return question, nil
}

// ===== EXPORT OPERATIONS =====

var exportHeaders = []string{
	"Session ID", "Category", "Correct", "Wrong", "Blank", "Total",
	"Raw Score", "Percentage", "Time Spent (s)", "Generated At",
}

// ExportResults renders a user's stored results in the requested format
// and returns the payload with its content type.
func (s *importExportService) ExportResults(ctx context.Context, req *models.ExportRequest) ([]byte, string, error) {
	filters := repositories.ResultFilters{
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
	}
	if req.CategoryID != "" {
		filters.CategoryID = &req.CategoryID
	}

	results, err := s.repo.Result().GetByUser(ctx, req.UserID, filters)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load results: %w", err)
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.SessionID,
			req.CategoryID,
			fmt.Sprintf("%d", r.CorrectCount),
			fmt.Sprintf("%d", r.WrongCount),
			fmt.Sprintf("%d", r.BlankCount),
			fmt.Sprintf("%d", r.TotalQuestions),
			fmt.Sprintf("%.2f", r.RawScore),
			fmt.Sprintf("%.2f", r.PercentageScore),
			fmt.Sprintf("%d", r.TotalTimeSpentSeconds),
			r.GeneratedAt.Format(time.RFC3339),
		})
	}

	switch req.Format {
	case "csv":
		payload, err := writeCSV(rows)
		return payload, "text/csv", err
	case "xlsx":
		payload, err := writeExcel(rows)
		return payload, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", err
	default:
		return nil, "", NewValidationError("format", "unsupported export format", req.Format)
	}
}

func writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write CSV rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeExcel(rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	sheetName := "Results"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}
	for rowIndex, row := range rows {
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}
