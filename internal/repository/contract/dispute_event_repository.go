package contract

import (
	"context"

	"workspace-disputes-be/internal/entity"

	"github.com/google/uuid"
)

// DisputeEventRepository is append-only: events are inserted and read,
// never updated.
type DisputeEventRepository interface {
	Append(ctx context.Context, event *entity.DisputeEvent) error
	AppendAll(ctx context.Context, events []*entity.DisputeEvent) error
	FindAllByDisputeID(ctx context.Context, disputeID uuid.UUID) ([]*entity.DisputeEvent, error)
	CountByDisputeID(ctx context.Context, disputeID uuid.UUID) (int64, error)
	DeleteAllByDisputeID(ctx context.Context, disputeID uuid.UUID) error // Hard delete with the dispute
}
