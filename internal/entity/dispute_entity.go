package entity

import (
	"time"

	"github.com/google/uuid"
)

// DisputeType classifies what a dispute is about.
type DisputeType string

// DisputeStatus is the workflow state of a dispute.
type DisputeStatus string

// DisputePriority ranks how urgently a dispute needs attention.
type DisputePriority string

// DisputeResolution is the terminal outcome decision of a dispute.
type DisputeResolution string

const (
	DisputeTypeBookingIssue    DisputeType = "BOOKING_ISSUE"
	DisputeTypePaymentDispute  DisputeType = "PAYMENT_DISPUTE"
	DisputeTypeServiceQuality  DisputeType = "SERVICE_QUALITY"
	DisputeTypeCancellation    DisputeType = "CANCELLATION_DISPUTE"
	DisputeTypeRefundRequest   DisputeType = "REFUND_REQUEST"
	DisputeTypePropertyDamage  DisputeType = "PROPERTY_DAMAGE"
	DisputeTypePolicyViolation DisputeType = "POLICY_VIOLATION"
	DisputeTypeOther           DisputeType = "OTHER"
)

const (
	DisputeStatusPending          DisputeStatus = "PENDING"
	DisputeStatusUnderReview      DisputeStatus = "UNDER_REVIEW"
	DisputeStatusInvestigating    DisputeStatus = "INVESTIGATING"
	DisputeStatusAwaitingResponse DisputeStatus = "AWAITING_RESPONSE"
	DisputeStatusEscalated        DisputeStatus = "ESCALATED"
	DisputeStatusResolved         DisputeStatus = "RESOLVED"
	DisputeStatusClosed           DisputeStatus = "CLOSED"
	DisputeStatusRejected         DisputeStatus = "REJECTED"
)

const (
	DisputePriorityLow    DisputePriority = "LOW"
	DisputePriorityMedium DisputePriority = "MEDIUM"
	DisputePriorityHigh   DisputePriority = "HIGH"
	DisputePriorityUrgent DisputePriority = "URGENT"
)

const (
	DisputeResolutionRefundIssued        DisputeResolution = "REFUND_ISSUED"
	DisputeResolutionPartialRefund       DisputeResolution = "PARTIAL_REFUND"
	DisputeResolutionNoRefund            DisputeResolution = "NO_REFUND"
	DisputeResolutionServiceCredit       DisputeResolution = "SERVICE_CREDIT"
	DisputeResolutionRebooking           DisputeResolution = "REBOOKING"
	DisputeResolutionPolicyClarification DisputeResolution = "POLICY_CLARIFICATION"
	DisputeResolutionMediationRequired   DisputeResolution = "MEDIATION_REQUIRED"
	DisputeResolutionLegalAction         DisputeResolution = "LEGAL_ACTION"
)

// AllDisputeTypes returns every dispute type. Stats buckets are keyed off
// this list so the output shape stays stable even with no data.
func AllDisputeTypes() []DisputeType {
	return []DisputeType{
		DisputeTypeBookingIssue,
		DisputeTypePaymentDispute,
		DisputeTypeServiceQuality,
		DisputeTypeCancellation,
		DisputeTypeRefundRequest,
		DisputeTypePropertyDamage,
		DisputeTypePolicyViolation,
		DisputeTypeOther,
	}
}

func AllDisputeStatuses() []DisputeStatus {
	return []DisputeStatus{
		DisputeStatusPending,
		DisputeStatusUnderReview,
		DisputeStatusInvestigating,
		DisputeStatusAwaitingResponse,
		DisputeStatusEscalated,
		DisputeStatusResolved,
		DisputeStatusClosed,
		DisputeStatusRejected,
	}
}

func AllDisputePriorities() []DisputePriority {
	return []DisputePriority{
		DisputePriorityLow,
		DisputePriorityMedium,
		DisputePriorityHigh,
		DisputePriorityUrgent,
	}
}

// Evidence groups the structured supporting material attached to a dispute.
type Evidence struct {
	Files          []string `json:"files,omitempty"`
	Screenshots    []string `json:"screenshots,omitempty"`
	Communications []string `json:"communications,omitempty"`
	Witnesses      []string `json:"witnesses,omitempty"`
}

// Dispute is a complaint filed by one marketplace party against another,
// optionally tied to a booking.
//
// Resolution fields survive a reopen: after an admin reopens a resolved
// dispute they describe the LAST resolution snapshot, not a current outcome.
type Dispute struct {
	ID            uuid.UUID
	Type          DisputeType
	Title         string
	Description   string
	ComplainantID uuid.UUID
	RespondentID  uuid.UUID
	BookingID     *uuid.UUID

	Status     DisputeStatus
	Priority   DisputePriority
	AssignedTo *uuid.UUID

	Evidence       *Evidence
	DisputedAmount *float64
	DueDate        *time.Time
	Metadata       map[string]interface{}

	IsEscalated bool
	EscalatedAt *time.Time

	Resolution      *DisputeResolution
	ResolutionNotes string
	ResolvedAmount  *float64
	ResolvedBy      *uuid.UUID
	ResolvedAt      *time.Time

	RequiresLegalAction bool
	InternalNotes       string

	// Version guards the read-modify-write cycle; every save carries the
	// version it read and bumps it by one.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisputeEvent is one append-only audit timeline entry. Events are never
// updated or reordered; Seq fixes the order of entries sharing a timestamp.
type DisputeEvent struct {
	ID        uuid.UUID
	DisputeID uuid.UUID
	Seq       int64
	Event     string
	Actor     string
	Details   string
	CreatedAt time.Time
}
