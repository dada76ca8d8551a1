package contract

import (
	"context"

	"workspace-disputes-be/internal/entity"
	"workspace-disputes-be/internal/repository/specification"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Booking, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
