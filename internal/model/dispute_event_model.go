package model

import (
	"time"

	"github.com/google/uuid"
)

// DisputeEvent rows are the append-only audit timeline. They are only ever
// inserted; ordering within a dispute is (created_at, seq).
type DisputeEvent struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	DisputeID uuid.UUID `gorm:"type:uuid;not null;index"`
	Seq       int64     `gorm:"autoIncrement;uniqueIndex"`
	Event     string    `gorm:"type:varchar(200);not null"`
	Actor     string    `gorm:"type:varchar(200);not null"`
	Details   string    `gorm:"type:text"`
	CreatedAt time.Time

	Dispute Dispute `gorm:"foreignKey:DisputeID;constraint:OnDelete:CASCADE"`
}

func (DisputeEvent) TableName() string {
	return "dispute_events"
}
