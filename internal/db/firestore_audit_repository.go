package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"revuverse-backend-go/internal/models"
)

type firestoreAuditRepository struct {
	coll *firestore.CollectionRef
}

// NewFirestoreAuditRepository creates an AuditRepository backed by the audit_logs collection.
func NewFirestoreAuditRepository(client *firestore.Client) AuditRepository {
	return &firestoreAuditRepository{coll: client.Collection(auditLogsCollection)}
}

func (r *firestoreAuditRepository) Create(ctx context.Context, logEntry models.AuditLog) error {
	if _, _, err := r.coll.Add(ctx, logEntry); err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}
