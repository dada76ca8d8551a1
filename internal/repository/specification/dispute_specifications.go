package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByParticipant matches disputes where the user is either named party.
type ByParticipant struct {
	UserID uuid.UUID
}

func (s ByParticipant) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("complainant_id = ? OR respondent_id = ?", s.UserID, s.UserID)
}

// ByPendingTriple matches the unique "one active dispute" key: party pair
// plus optional booking, restricted to PENDING status. A nil BookingID
// matches disputes filed without a booking.
type ByPendingTriple struct {
	ComplainantID uuid.UUID
	RespondentID  uuid.UUID
	BookingID     *uuid.UUID
}

func (s ByPendingTriple) Apply(db *gorm.DB) *gorm.DB {
	db = db.Where("complainant_id = ? AND respondent_id = ? AND status = ?",
		s.ComplainantID, s.RespondentID, "PENDING")
	if s.BookingID != nil {
		return db.Where("booking_id = ?", *s.BookingID)
	}
	return db.Where("booking_id IS NULL")
}

// ByBookingID filters disputes linked to a booking.
type ByBookingID struct {
	BookingID uuid.UUID
}

func (s ByBookingID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("booking_id = ?", s.BookingID)
}

// SearchTitleDescription does a case-insensitive substring search over
// title and description.
type SearchTitleDescription struct {
	Term string
}

func (s SearchTitleDescription) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Term + "%"
	return db.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
}

// CreatedBetween bounds the creation timestamp. Either bound may be nil.
type CreatedBetween struct {
	From *time.Time
	To   *time.Time
}

func (s CreatedBetween) Apply(db *gorm.DB) *gorm.DB {
	if s.From != nil {
		db = db.Where("created_at >= ?", *s.From)
	}
	if s.To != nil {
		db = db.Where("created_at <= ?", *s.To)
	}
	return db
}

// ByDisputeID filters timeline events belonging to one dispute.
type ByDisputeID struct {
	DisputeID uuid.UUID
}

func (s ByDisputeID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("dispute_id = ?", s.DisputeID)
}
