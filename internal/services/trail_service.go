package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/learning-trails-service/internal/repositories"
)

// TrailService toggles gating on the trail hierarchy
type TrailService interface {
	SetTrailBlocked(ctx context.Context, actor Actor, trailID uint, blocked bool) error
	SetModuleBlocked(ctx context.Context, actor Actor, moduleID uint, blocked bool) error
	SetContentBlocked(ctx context.Context, actor Actor, contentID uint, blocked bool) error
}

type trailService struct {
	repo   repositories.Repository
	logger *ServiceLogger
}

func NewTrailService(repo repositories.Repository, logger *slog.Logger) TrailService {
	return &trailService{
		repo:   repo,
		logger: NewServiceLogger(logger, LogConfig{Service: "learning-trails", Component: "trail"}),
	}
}

func (s *trailService) SetTrailBlocked(ctx context.Context, actor Actor, trailID uint, blocked bool) (err error) {
	op := s.logger.WithOperation(ctx, "set_trail_blocked", actor.UserID)
	defer func() { op.LogResult(trailID, "trail", err) }()

	if err := s.authorize(ctx, actor, trailID); err != nil {
		return err
	}
	if err := s.repo.Trail().SetTrailBlocked(ctx, nil, trailID, blocked); err != nil {
		return mapNotFound(err, ErrTrailNotFound)
	}

	op.LogAudit(AuditEventUpdate, trailID, "trail", map[string]bool{"blocked": blocked}, nil)
	return nil
}

func (s *trailService) SetModuleBlocked(ctx context.Context, actor Actor, moduleID uint, blocked bool) (err error) {
	op := s.logger.WithOperation(ctx, "set_module_blocked", actor.UserID)
	defer func() { op.LogResult(moduleID, "module", err) }()

	module, err := s.repo.Trail().GetModule(ctx, nil, moduleID)
	if err != nil {
		return mapNotFound(err, ErrModuleNotFound)
	}
	if err := s.authorize(ctx, actor, module.TrailID); err != nil {
		return err
	}
	if err := s.repo.Trail().SetModuleBlocked(ctx, nil, moduleID, blocked); err != nil {
		return mapNotFound(err, ErrModuleNotFound)
	}

	op.LogAudit(AuditEventUpdate, moduleID, "module", map[string]bool{"blocked": blocked}, nil)
	return nil
}

func (s *trailService) SetContentBlocked(ctx context.Context, actor Actor, contentID uint, blocked bool) (err error) {
	op := s.logger.WithOperation(ctx, "set_content_blocked", actor.UserID)
	defer func() { op.LogResult(contentID, "content", err) }()

	item, err := s.repo.Trail().GetContent(ctx, nil, contentID)
	if err != nil {
		return mapNotFound(err, ErrContentNotFound)
	}
	module, err := s.repo.Trail().GetModule(ctx, nil, item.ModuleID)
	if err != nil {
		return mapNotFound(err, ErrModuleNotFound)
	}
	if err := s.authorize(ctx, actor, module.TrailID); err != nil {
		return err
	}
	if err := s.repo.Trail().SetContentBlocked(ctx, nil, contentID, blocked); err != nil {
		return mapNotFound(err, ErrContentNotFound)
	}

	op.LogAudit(AuditEventUpdate, contentID, "content", map[string]bool{"blocked": blocked}, nil)
	return nil
}

func (s *trailService) authorize(ctx context.Context, actor Actor, trailID uint) error {
	trail, err := s.repo.Trail().GetTree(ctx, nil, trailID)
	if err != nil {
		return mapNotFound(err, ErrTrailNotFound)
	}
	if !canManage(actor, trail.CreatedBy) {
		return NewPermissionError(actor.UserID, trailID, "trail", "update", "not the trail author")
	}
	return nil
}
