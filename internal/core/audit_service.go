package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"revuverse-backend-go/internal/db"
	"revuverse-backend-go/internal/models"
	"revuverse-backend-go/pkg/messagequeue"
)

// auditService stores audit entries and publishes them as events.
type auditService struct {
	auditRepo db.AuditRepository
	publisher messagequeue.Publisher
	logger    *zap.Logger
}

// NewAuditService creates a new AuditService instance. publisher may be nil.
func NewAuditService(auditRepo db.AuditRepository, publisher messagequeue.Publisher, logger *zap.Logger) AuditService {
	return &auditService{auditRepo: auditRepo, publisher: publisher, logger: logger}
}

// auditEvent is the message published for every stored entry.
type auditEvent struct {
	EventID string          `json:"eventId"`
	Entry   models.AuditLog `json:"entry"`
}

// CreateAuditLog persists logEntry, then publishes it on "audit.<action>". A publish
// failure is logged and does not fail the call.
func (s *auditService) CreateAuditLog(ctx context.Context, logEntry models.AuditLog) error {
	if s.auditRepo == nil {
		return fmt.Errorf("AuditRepository not initialized in AuditService")
	}
	if logEntry.Timestamp.IsZero() {
		logEntry.Timestamp = time.Now().UTC()
	}
	if err := s.auditRepo.Create(ctx, logEntry); err != nil {
		return fmt.Errorf("failed to create audit log via repository: %w", err)
	}

	if s.publisher == nil {
		return nil
	}
	body, err := json.Marshal(auditEvent{EventID: uuid.NewString(), Entry: logEntry})
	if err != nil {
		return nil
	}
	routingKey := "audit." + strings.ToLower(logEntry.Action)
	if err := s.publisher.Publish(ctx, routingKey, body); err != nil {
		s.logger.Warn("Failed to publish audit event", zap.String("action", logEntry.Action), zap.Error(err))
	}
	return nil
}

// recordAudit writes entry and only logs a failure, so auditing never fails the main operation.
func recordAudit(ctx context.Context, audit AuditService, logger *zap.Logger, entry models.AuditLog) {
	if audit == nil {
		return
	}
	if err := audit.CreateAuditLog(ctx, entry); err != nil {
		logger.Warn("Failed to create audit log",
			zap.String("action", entry.Action),
			zap.String("target_id", entry.TargetID),
			zap.Error(err),
		)
	}
}
