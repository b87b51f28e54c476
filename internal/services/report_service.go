package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/SAP-F-2025/learning-trails-service/internal/models"
	"github.com/SAP-F-2025/learning-trails-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

// ReportService exports spreadsheets for professors and admins
type ReportService interface {
	ExportClassProgress(ctx context.Context, actor Actor, classID uint) ([]byte, error)
	ExportQuizAttempts(ctx context.Context, actor Actor, quizID uint) ([]byte, error)
}

type reportService struct {
	repo   repositories.Repository
	logger *ServiceLogger
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		logger: NewServiceLogger(logger, LogConfig{Service: "learning-trails", Component: "report"}),
	}
}

// round2 rounds a percentage for display
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *reportService) ExportClassProgress(ctx context.Context, actor Actor, classID uint) (data []byte, err error) {
	op := s.logger.WithOperation(ctx, "export_class_progress", actor.UserID)
	defer func() { op.LogResult(classID, "class", err) }()

	class, err := s.repo.Class().GetByID(ctx, nil, classID)
	if err != nil {
		return nil, mapNotFound(err, ErrClassNotFound)
	}
	if !canManage(actor, class.ProfessorID) {
		return nil, NewPermissionError(actor.UserID, classID, "class", "export_progress", "not the class professor")
	}

	class, contentIDs, err := validateClass(class)
	if err != nil {
		return nil, err
	}

	roster, err := rosterProgress(ctx, s.repo, class, contentIDs)
	if err != nil {
		return nil, err
	}

	names, err := s.userNames(ctx, roster)
	if err != nil {
		return nil, err
	}

	headers := []string{"Student ID", "Student Name", "Trail ID", "Trail", "Completed", "Total", "Percentage"}
	var rows [][]interface{}
	for _, student := range roster {
		for i, trail := range student.Trails {
			rows = append(rows, []interface{}{
				student.UserID,
				names[student.UserID],
				trail.TrailID,
				class.Trails[i].Title,
				trail.Completed,
				trail.Total,
				round2(trail.Percentage),
			})
		}
		rows = append(rows, []interface{}{
			student.UserID, names[student.UserID], "", "All trails",
			student.Completed, student.Total, round2(student.Percentage),
		})
	}

	return writeSheet("Class Progress", headers, rows)
}

func (s *reportService) userNames(ctx context.Context, roster []models.ClassProgress) (map[string]string, error) {
	ids := make([]string, 0, len(roster))
	for _, student := range roster {
		ids = append(ids, student.UserID)
	}

	users, err := s.repo.Class().GetUsers(ctx, nil, ids)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(users))
	for _, user := range users {
		names[user.ID] = user.FullName
	}
	return names, nil
}

func (s *reportService) ExportQuizAttempts(ctx context.Context, actor Actor, quizID uint) (data []byte, err error) {
	op := s.logger.WithOperation(ctx, "export_quiz_attempts", actor.UserID)
	defer func() { op.LogResult(quizID, "quiz", err) }()

	quiz, err := s.repo.Quiz().GetByID(ctx, nil, quizID)
	if err != nil {
		return nil, mapNotFound(err, ErrQuizNotFound)
	}
	if !canManage(actor, quiz.CreatedBy) {
		return nil, NewPermissionError(actor.UserID, quizID, "quiz", "export_attempts", "not the quiz author")
	}

	attempts, err := s.repo.Attempt().ListByQuiz(ctx, nil, quizID)
	if err != nil {
		return nil, err
	}

	headers := []string{"Student ID", "Attempt", "Submitted At", "Earned Points", "Total Points", "Percentage", "Result"}
	rows := make([][]interface{}, 0, len(attempts))
	for _, attempt := range attempts {
		outcome := "Fail"
		if attempt.Passed {
			outcome = "Pass"
		}
		rows = append(rows, []interface{}{
			attempt.UserID,
			attempt.AttemptNumber,
			attempt.SubmittedAt.Format("2006-01-02 15:04:05"),
			attempt.EarnedPoints,
			attempt.TotalPoints,
			round2(attempt.Percentage),
			outcome,
		})
	}

	return writeSheet("Attempts", headers, rows)
}

func writeSheet(sheetName string, headers []string, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, row := range rows {
		for colIndex, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}
