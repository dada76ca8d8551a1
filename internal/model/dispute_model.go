package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Dispute struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Type          string     `gorm:"type:varchar(50);not null;index"`
	Title         string     `gorm:"type:varchar(200);not null"`
	Description   string     `gorm:"type:text;not null"`
	ComplainantID uuid.UUID  `gorm:"type:uuid;not null;index"`
	RespondentID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	BookingID     *uuid.UUID `gorm:"type:uuid;index"`

	Status     string     `gorm:"type:varchar(50);not null;default:'PENDING';index"`
	Priority   string     `gorm:"type:varchar(50);not null;default:'MEDIUM';index"`
	AssignedTo *uuid.UUID `gorm:"type:uuid;index"`

	Evidence       datatypes.JSON `gorm:"type:jsonb"`
	DisputedAmount *float64       `gorm:"type:decimal(10,2)"`
	DueDate        *time.Time
	Metadata       datatypes.JSON `gorm:"type:jsonb"`

	IsEscalated bool `gorm:"not null;default:false;index"`
	EscalatedAt *time.Time

	Resolution      *string    `gorm:"type:varchar(50)"`
	ResolutionNotes string     `gorm:"type:text"`
	ResolvedAmount  *float64   `gorm:"type:decimal(10,2)"`
	ResolvedBy      *uuid.UUID `gorm:"type:uuid"`
	ResolvedAt      *time.Time

	RequiresLegalAction bool   `gorm:"not null;default:false"`
	InternalNotes       string `gorm:"type:text"`

	// Optimistic-concurrency token; every save checks and bumps it.
	Version int64 `gorm:"not null;default:1"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relations
	Complainant User     `gorm:"foreignKey:ComplainantID"`
	Respondent  User     `gorm:"foreignKey:RespondentID"`
	Booking     *Booking `gorm:"foreignKey:BookingID"`
}

func (Dispute) TableName() string {
	return "disputes"
}
