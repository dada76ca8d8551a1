package contract

import (
	"context"

	"workspace-disputes-be/internal/entity"
	"workspace-disputes-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DisputeRepository interface {
	Create(ctx context.Context, dispute *entity.Dispute) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Dispute, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Dispute, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// Update saves the dispute guarded by its Version token and bumps the
	// token on success. A stale version surfaces as a conflict error.
	Update(ctx context.Context, dispute *entity.Dispute) error
	Delete(ctx context.Context, id uuid.UUID) error
}
