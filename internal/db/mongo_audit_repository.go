package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"revuverse-backend-go/internal/models"
)

type mongoAuditRepository struct {
	coll *mongo.Collection
}

// NewMongoAuditRepository creates an AuditRepository backed by the audit_logs collection.
func NewMongoAuditRepository(database *mongo.Database) AuditRepository {
	return &mongoAuditRepository{coll: database.Collection(auditLogsCollection)}
}

func (r *mongoAuditRepository) Create(ctx context.Context, logEntry models.AuditLog) error {
	if logEntry.ID == "" {
		logEntry.ID = newMongoID()
	}
	if _, err := r.coll.InsertOne(ctx, logEntry); err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}
