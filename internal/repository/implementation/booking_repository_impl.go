package implementation

import (
	"context"

	"workspace-disputes-be/internal/entity"
	"workspace-disputes-be/internal/model"
	"workspace-disputes-be/internal/repository/contract"
	"workspace-disputes-be/internal/repository/specification"

	"gorm.io/gorm"
)

type bookingRepositoryImpl struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) contract.BookingRepository {
	return &bookingRepositoryImpl{db: db}
}

func (r *bookingRepositoryImpl) Create(ctx context.Context, booking *entity.Booking) error {
	modelBooking := &model.Booking{
		Id:        booking.Id,
		UserId:    booking.UserId,
		SpaceId:   booking.SpaceId,
		PartnerId: booking.PartnerId,
		Status:    booking.Status,
	}
	if err := r.db.WithContext(ctx).Create(modelBooking).Error; err != nil {
		return err
	}
	booking.CreatedAt = modelBooking.CreatedAt
	booking.UpdatedAt = modelBooking.UpdatedAt
	return nil
}

func (r *bookingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Booking, error) {
	var modelBooking model.Booking
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&modelBooking).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&modelBooking), nil
}

func (r *bookingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.Booking{})

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *bookingRepositoryImpl) mapToEntity(mb *model.Booking) *entity.Booking {
	return &entity.Booking{
		Id:        mb.Id,
		UserId:    mb.UserId,
		SpaceId:   mb.SpaceId,
		PartnerId: mb.PartnerId,
		Status:    mb.Status,
		CreatedAt: mb.CreatedAt,
		UpdatedAt: mb.UpdatedAt,
	}
}
