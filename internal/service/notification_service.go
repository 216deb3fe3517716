package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/grievance-service/internal/config"
	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/events"
)

// NotificationService reacts to grievance events: it logs a structured
// notification record and, when enabled, would hand off to the mail and
// webhook channels.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewNotificationService constructs the notification service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{logger: logger, cfg: cfg}
}

// HandleGrievanceRaised notifies the responsible coordinator desk about a
// newly filed grievance.
func (s *NotificationService) HandleGrievanceRaised(ctx context.Context, event events.Event) error {
	s.logger.Info("grievance raised",
		zap.String("grievance_id", event.GrievanceID),
		zap.String("category", event.Grievance.Category),
		zap.String("status", event.Grievance.Status),
		zap.String("department", event.Grievance.StudentDept),
	)
	if event.Grievance.Status == string(domain.StatusUrgent) {
		s.logger.Warn("urgent grievance requires attention",
			zap.String("grievance_id", event.GrievanceID),
			zap.String("category", event.Grievance.Category),
		)
	}
	return s.deliver(ctx, event, event.Grievance.StudentEmail)
}

// HandleStatusChanged notifies the student that their grievance moved.
func (s *NotificationService) HandleStatusChanged(ctx context.Context, event events.Event) error {
	s.logger.Info("grievance status changed",
		zap.String("grievance_id", event.GrievanceID),
		zap.String("status", event.Grievance.Status),
		zap.String("actor_role", string(event.Actor.Role)),
	)
	return s.deliver(ctx, event, event.Grievance.StudentEmail)
}

// deliver fans the notification out to the configured channels. Email and
// webhook delivery are stubbed as log lines; the provider integration is
// deployment specific.
func (s *NotificationService) deliver(_ context.Context, event events.Event, recipient string) error {
	if s.cfg.EmailFrom != "" {
		s.logger.Info("email notification queued",
			zap.String("from", s.cfg.EmailFrom),
			zap.String("to", recipient),
			zap.String("grievance_id", event.GrievanceID),
			zap.String("event_type", string(event.Type)),
		)
	}
	if s.cfg.WebhookURL != "" {
		s.logger.Info("webhook notification queued",
			zap.String("url", s.cfg.WebhookURL),
			zap.String("grievance_id", event.GrievanceID),
			zap.String("event_type", string(event.Type)),
		)
	}
	return nil
}
