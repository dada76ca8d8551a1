package entity

import (
	"time"

	"github.com/google/uuid"
)

// Booking is the booking collaborator consumed at dispute creation to
// validate the dispute/booking linkage. UserId is the booker; PartnerId is
// the partner controlling the booked space.
type Booking struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	SpaceId   uuid.UUID
	PartnerId uuid.UUID
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasParticipant reports whether userId is directly involved in the
// booking, either as the booker or as the space's controlling partner.
func (b *Booking) HasParticipant(userId uuid.UUID) bool {
	return b.UserId == userId || b.PartnerId == userId
}
