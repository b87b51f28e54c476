package services

import (
	"log/slog"

	"github.com/SAP-F-2025/learning-trails-service/internal/events"
	"github.com/SAP-F-2025/learning-trails-service/internal/metrics"
	"github.com/SAP-F-2025/learning-trails-service/internal/repositories"
	"github.com/SAP-F-2025/learning-trails-service/internal/validator"
)

// ServiceManager hands out every service built over one repository
type ServiceManager interface {
	Progress() ProgressService
	Quiz() QuizService
	Trail() TrailService
	Report() ReportService
}

type serviceManager struct {
	progress ProgressService
	quiz     QuizService
	trail    TrailService
	report   ReportService
}

func NewServiceManager(
	repo repositories.Repository,
	publisher events.EventPublisher,
	m *metrics.Metrics,
	v *validator.Validator,
	logger *slog.Logger,
	progressConfig ProgressServiceConfig,
) ServiceManager {
	progressService := NewProgressService(repo, publisher, m, v, logger, progressConfig)

	return &serviceManager{
		progress: progressService,
		quiz:     NewQuizService(repo, progressService, publisher, m, v, logger),
		trail:    NewTrailService(repo, logger),
		report:   NewReportService(repo, logger),
	}
}

func (sm *serviceManager) Progress() ProgressService { return sm.progress }
func (sm *serviceManager) Quiz() QuizService         { return sm.quiz }
func (sm *serviceManager) Trail() TrailService       { return sm.trail }
func (sm *serviceManager) Report() ReportService     { return sm.report }
