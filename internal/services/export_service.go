package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/brightpath-edu/tutor-portal/internal/models"
	"github.com/brightpath-edu/tutor-portal/internal/repositories"
	"github.com/xuri/excelize/v2"
)

type exportService struct {
	repo        repositories.Repository
	quizService QuizService
	logger      *slog.Logger
}

func NewExportService(repo repositories.Repository, quizService QuizService, logger *slog.Logger) ExportService {
	return &exportService{
		repo:        repo,
		quizService: quizService,
		logger:      logger,
	}
}

var exportHeaders = []string{
	"Position", "Question Type", "Question Text", "Marks", "Difficulty",
	"Options", "Correct Answer", "Explanation",
}

func (s *exportService) ExportQuizXLSX(ctx context.Context, quizID uint, userID uint) ([]byte, string, error) {
	quiz, questions, err := s.loadQuiz(ctx, quizID, userID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheetName := "Questions"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, question := range questions {
		row := questionToExportRow(question)
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported quiz to XLSX", "quiz_id", quizID, "question_count", len(questions))

	return buf.Bytes(), exportFilename(quiz.Title, "xlsx"), nil
}

func (s *exportService) ExportQuizCSV(ctx context.Context, quizID uint, userID uint) ([]byte, string, error) {
	quiz, questions, err := s.loadQuiz(ctx, quizID, userID)
	if err != nil {
		return nil, "", err
	}

	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeaders); err != nil {
		return nil, "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, question := range questions {
		if err := writer.Write(questionToExportRow(question)); err != nil {
			return nil, "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", fmt.Errorf("CSV writer error: %w", err)
	}

	s.logger.Info("Exported quiz to CSV", "quiz_id", quizID, "question_count", len(questions))

	return []byte(buf.String()), exportFilename(quiz.Title, "csv"), nil
}

func (s *exportService) loadQuiz(ctx context.Context, quizID, userID uint) (*models.Quiz, []*models.Question, error) {
	// Reuse the quiz service's access check so export honours the same
	// ownership rules as read.
	if _, err := s.quizService.GetByID(ctx, quizID, userID); err != nil {
		return nil, nil, err
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrQuizNotFound
		}
		return nil, nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	questions, err := s.repo.Question().GetByQuiz(ctx, quizID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load questions: %w", err)
	}

	return quiz, questions, nil
}

func questionToExportRow(q *models.Question) []string {
	options := make([]string, 0, len(q.Options))
	for _, opt := range q.Options {
		options = append(options, opt.Text)
	}

	return []string{
		strconv.Itoa(q.Position),
		string(q.Type),
		q.Text,
		strconv.Itoa(q.Marks),
		string(q.Difficulty),
		strings.Join(options, "; "),
		q.CorrectAnswer,
		stringOrEmpty(q.Explanation),
	}
}

func exportFilename(title, ext string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '_'
		}
		return -1
	}, strings.TrimSpace(title))

	if slug == "" {
		slug = "quiz"
	}
	return fmt.Sprintf("%s.%s", slug, ext)
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
