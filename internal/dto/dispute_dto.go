package dto

import (
	"time"

	"workspace-disputes-be/internal/entity"

	"github.com/google/uuid"
)

type EvidenceDto struct {
	Files          []string `json:"files,omitempty"`
	Screenshots    []string `json:"screenshots,omitempty"`
	Communications []string `json:"communications,omitempty"`
	Witnesses      []string `json:"witnesses,omitempty"`
}

type TimelineEventResponse struct {
	Event     string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	Details   string    `json:"details,omitempty"`
}

// TimelineNoteRequest is a caller-supplied free-text timeline entry,
// appended after any system-generated entries.
type TimelineNoteRequest struct {
	Event   string `json:"event" validate:"required,max=200"`
	Details string `json:"details,omitempty"`
}

type CreateDisputeRequest struct {
	Type           string                 `json:"type" validate:"required,oneof=BOOKING_ISSUE PAYMENT_DISPUTE SERVICE_QUALITY CANCELLATION_DISPUTE REFUND_REQUEST PROPERTY_DAMAGE POLICY_VIOLATION OTHER"`
	Title          string                 `json:"title" validate:"required,max=200"`
	Description    string                 `json:"description" validate:"required"`
	ComplainantId  uuid.UUID              `json:"complainantId" validate:"required"`
	RespondentId   uuid.UUID              `json:"respondentId" validate:"required,nefield=ComplainantId"`
	BookingId      *uuid.UUID             `json:"bookingId,omitempty"`
	Priority       *string                `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Evidence       *EvidenceDto           `json:"evidence,omitempty"`
	DisputedAmount *float64               `json:"disputedAmount,omitempty" validate:"omitempty,gte=0"`
	DueDate        *time.Time             `json:"dueDate,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

type UpdateDisputeRequest struct {
	Type                *string                `json:"type,omitempty" validate:"omitempty,oneof=BOOKING_ISSUE PAYMENT_DISPUTE SERVICE_QUALITY CANCELLATION_DISPUTE REFUND_REQUEST PROPERTY_DAMAGE POLICY_VIOLATION OTHER"`
	Title               *string                `json:"title,omitempty" validate:"omitempty,max=200"`
	Description         *string                `json:"description,omitempty"`
	Status              *string                `json:"status,omitempty" validate:"omitempty,oneof=PENDING UNDER_REVIEW INVESTIGATING AWAITING_RESPONSE ESCALATED RESOLVED CLOSED REJECTED"`
	Priority            *string                `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	AssignedTo          *uuid.UUID             `json:"assignedTo,omitempty"`
	Evidence            *EvidenceDto           `json:"evidence,omitempty"`
	DisputedAmount      *float64               `json:"disputedAmount,omitempty" validate:"omitempty,gte=0"`
	DueDate             *time.Time             `json:"dueDate,omitempty"`
	Metadata            map[string]interface{} `json:"metadata,omitempty"`
	RequiresLegalAction *bool                  `json:"requiresLegalAction,omitempty"`
	InternalNotes       *string                `json:"internalNotes,omitempty"`
	Timeline            []TimelineNoteRequest  `json:"timeline,omitempty" validate:"omitempty,dive"`
}

type EscalateDisputeRequest struct {
	Reason      string     `json:"reason" validate:"required"`
	AssignTo    *uuid.UUID `json:"assignTo,omitempty"`
	NewPriority *string    `json:"newPriority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
}

type ResolveDisputeRequest struct {
	Resolution      string   `json:"resolution" validate:"required,oneof=REFUND_ISSUED PARTIAL_REFUND NO_REFUND SERVICE_CREDIT REBOOKING POLICY_CLARIFICATION MEDIATION_REQUIRED LEGAL_ACTION"`
	ResolutionNotes string   `json:"resolutionNotes" validate:"required"`
	ResolvedAmount  *float64 `json:"resolvedAmount,omitempty" validate:"omitempty,gte=0"`
}

type AssignDisputeRequest struct {
	AssignedTo uuid.UUID `json:"assignedTo" validate:"required"`
}

type ReopenDisputeRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type DisputeQueryRequest struct {
	Page          int        `query:"page"`
	Limit         int        `query:"limit"`
	Type          string     `query:"type"`
	Status        string     `query:"status"`
	Priority      string     `query:"priority"`
	ComplainantId *uuid.UUID `query:"complainantId"`
	RespondentId  *uuid.UUID `query:"respondentId"`
	BookingId     *uuid.UUID `query:"bookingId"`
	AssignedTo    *uuid.UUID `query:"assignedTo"`
	IsEscalated   *bool      `query:"isEscalated"`
	Search        string     `query:"search"`
	CreatedFrom   *time.Time `query:"createdFrom"`
	CreatedTo     *time.Time `query:"createdTo"`
}

type DisputeResponse struct {
	Id            uuid.UUID  `json:"id"`
	Type          string     `json:"type"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	ComplainantId uuid.UUID  `json:"complainantId"`
	RespondentId  uuid.UUID  `json:"respondentId"`
	BookingId     *uuid.UUID `json:"bookingId,omitempty"`

	Status     string     `json:"status"`
	Priority   string     `json:"priority"`
	AssignedTo *uuid.UUID `json:"assignedTo,omitempty"`

	Evidence       *EvidenceDto           `json:"evidence,omitempty"`
	DisputedAmount *float64               `json:"disputedAmount,omitempty"`
	DueDate        *time.Time             `json:"dueDate,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`

	IsEscalated bool       `json:"isEscalated"`
	EscalatedAt *time.Time `json:"escalatedAt,omitempty"`

	// Last resolution snapshot; still populated after a reopen.
	Resolution      *string    `json:"resolution,omitempty"`
	ResolutionNotes string     `json:"resolutionNotes,omitempty"`
	ResolvedAmount  *float64   `json:"resolvedAmount,omitempty"`
	ResolvedBy      *uuid.UUID `json:"resolvedBy,omitempty"`
	ResolvedAt      *time.Time `json:"resolvedAt,omitempty"`

	RequiresLegalAction bool   `json:"requiresLegalAction"`
	InternalNotes       string `json:"internalNotes,omitempty"`

	Timeline []TimelineEventResponse `json:"timeline,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PaginationMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

type PaginatedDisputesResponse struct {
	Items      []*DisputeResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}

// DisputeStatsResponse always carries every enum bucket, zeroed when empty,
// so chart consumers get a stable shape.
type DisputeStatsResponse struct {
	Total             int64            `json:"total"`
	Pending           int64            `json:"pending"`
	UnderReview       int64            `json:"underReview"`
	Escalated         int64            `json:"escalated"`
	Resolved          int64            `json:"resolved"`
	AvgResolutionTime float64          `json:"avgResolutionTime"` // hours, 2 decimal places
	ByStatus          map[string]int64 `json:"byStatus"`
	ByType            map[string]int64 `json:"byType"`
	ByPriority        map[string]int64 `json:"byPriority"`
}

// DisputeEventMessage is the payload carried on the internal event bus and
// forwarded to NATS.
type DisputeEventMessage struct {
	EventType  string    `json:"eventType"`
	DisputeId  uuid.UUID `json:"disputeId"`
	Actor      string    `json:"actor"`
	Status     string    `json:"status"`
	Priority   string    `json:"priority"`
	OccurredAt time.Time `json:"occurredAt"`
	Details    string    `json:"details,omitempty"`
}

// MapDisputeResponse converts a dispute entity (plus its timeline, which
// may be nil for list views) into the API shape.
func MapDisputeResponse(d *entity.Dispute, timeline []*entity.DisputeEvent) *DisputeResponse {
	res := &DisputeResponse{
		Id:                  d.ID,
		Type:                string(d.Type),
		Title:               d.Title,
		Description:         d.Description,
		ComplainantId:       d.ComplainantID,
		RespondentId:        d.RespondentID,
		BookingId:           d.BookingID,
		Status:              string(d.Status),
		Priority:            string(d.Priority),
		AssignedTo:          d.AssignedTo,
		DisputedAmount:      d.DisputedAmount,
		DueDate:             d.DueDate,
		Metadata:            d.Metadata,
		IsEscalated:         d.IsEscalated,
		EscalatedAt:         d.EscalatedAt,
		ResolutionNotes:     d.ResolutionNotes,
		ResolvedAmount:      d.ResolvedAmount,
		ResolvedBy:          d.ResolvedBy,
		ResolvedAt:          d.ResolvedAt,
		RequiresLegalAction: d.RequiresLegalAction,
		InternalNotes:       d.InternalNotes,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}

	if d.Evidence != nil {
		res.Evidence = &EvidenceDto{
			Files:          d.Evidence.Files,
			Screenshots:    d.Evidence.Screenshots,
			Communications: d.Evidence.Communications,
			Witnesses:      d.Evidence.Witnesses,
		}
	}

	if d.Resolution != nil {
		s := string(*d.Resolution)
		res.Resolution = &s
	}

	for _, e := range timeline {
		res.Timeline = append(res.Timeline, TimelineEventResponse{
			Event:     e.Event,
			Timestamp: e.CreatedAt,
			Actor:     e.Actor,
			Details:   e.Details,
		})
	}

	return res
}
