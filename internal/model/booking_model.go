package model

import (
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	Id        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	SpaceId   uuid.UUID `gorm:"type:uuid;not null;index"`
	PartnerId uuid.UUID `gorm:"type:uuid;not null;index"`
	Status    string    `gorm:"type:varchar(50);not null;default:'confirmed'"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User User `gorm:"foreignKey:UserId"`
}

func (Booking) TableName() string {
	return "bookings"
}
