package service

import (
	"context"
	"testing"

	"workspace-disputes-be/internal/apperr"
	"workspace-disputes-be/internal/dto"
	"workspace-disputes-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type disputeFixture struct {
	svc       IDisputeService
	store     *fakeStore
	publisher *fakePublisher

	admin     *entity.User
	moderator *entity.User
	customer  *entity.User
	partner   *entity.User
	outsider  *entity.User
	booking   *entity.Booking
}

func newDisputeFixture(t *testing.T) *disputeFixture {
	t.Helper()

	store := newFakeStore()
	publisher := &fakePublisher{}
	svc := NewDisputeService(newFakeUOWFactory(store), publisher, nil, noopLogger{})

	f := &disputeFixture{
		svc:       svc,
		store:     store,
		publisher: publisher,
		admin:     store.addUser(entity.UserRoleAdmin, "Ava Admin"),
		moderator: store.addUser(entity.UserRoleModerator, "Milo Moderator"),
		customer:  store.addUser(entity.UserRoleUser, "Casey Customer"),
		partner:   store.addUser(entity.UserRoleUser, "Pat Partner"),
		outsider:  store.addUser(entity.UserRoleUser, "Olive Outsider"),
	}
	f.booking = store.addBooking(f.customer.Id, f.partner.Id)
	return f
}

func (f *disputeFixture) createDispute(t *testing.T) *dto.DisputeResponse {
	t.Helper()
	res, err := f.svc.Create(context.Background(), f.customer.Id, &dto.CreateDisputeRequest{
		Type:          string(entity.DisputeTypeBookingIssue),
		Title:         "Room was double booked",
		Description:   "The room was occupied when we arrived.",
		ComplainantId: f.customer.Id,
		RespondentId:  f.partner.Id,
		BookingId:     &f.booking.Id,
	})
	require.NoError(t, err)
	return res
}

func TestCreateDispute(t *testing.T) {
	f := newDisputeFixture(t)

	res := f.createDispute(t)

	assert.Equal(t, string(entity.DisputeStatusPending), res.Status)
	assert.Equal(t, string(entity.DisputePriorityMedium), res.Priority)
	assert.False(t, res.IsEscalated)
	require.Len(t, res.Timeline, 1)
	assert.Equal(t, "Dispute created", res.Timeline[0].Event)
	assert.Equal(t, "Casey Customer", res.Timeline[0].Actor)
	assert.Equal(t, []string{EventDisputeCreated}, f.publisher.eventTypes())

	stored := f.store.getDispute(res.Id)
	require.NotNil(t, stored)
	assert.Equal(t, int64(1), stored.Version)
}

func TestCreateDisputeExplicitPriority(t *testing.T) {
	f := newDisputeFixture(t)

	urgent := string(entity.DisputePriorityUrgent)
	res, err := f.svc.Create(context.Background(), f.customer.Id, &dto.CreateDisputeRequest{
		Type:          string(entity.DisputeTypeRefundRequest),
		Title:         "Refund not received",
		Description:   "Refund promised two weeks ago.",
		ComplainantId: f.customer.Id,
		RespondentId:  f.partner.Id,
		Priority:      &urgent,
	})
	require.NoError(t, err)
	assert.Equal(t, urgent, res.Priority)
}

func TestCreateDisputeUnknownParties(t *testing.T) {
	f := newDisputeFixture(t)

	_, err := f.svc.Create(context.Background(), f.customer.Id, &dto.CreateDisputeRequest{
		Type:          string(entity.DisputeTypeBookingIssue),
		Title:         "Bad booking",
		Description:   "desc",
		ComplainantId: uuid.New(),
		RespondentId:  f.partner.Id,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = f.svc.Create(context.Background(), f.customer.Id, &dto.CreateDisputeRequest{
		Type:          string(entity.DisputeTypeBookingIssue),
		Title:         "Bad booking",
		Description:   "desc",
		ComplainantId: f.customer.Id,
		RespondentId:  uuid.New(),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestCreateDisputeBookingGuards(t *testing.T) {
	f := newDisputeFixture(t)

	missing := uuid.New()
	_, err := f.svc.Create(context.Background(), f.customer.Id, &dto.CreateDisputeRequest{
		Type:          string(entity.DisputeTypeBookingIssue),
		Title:         "Bad booking",
		Description:   "desc",
		ComplainantId: f.customer.Id,
		RespondentId:  f.partner.Id,
		BookingId:     &missing,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	// Outsider is neither the booker nor the space partner.
	_, err = f.svc.Create(context.Background(), f.admin.Id, &dto.CreateDisputeRequest{
		Type:          string(entity.DisputeTypeBookingIssue),
		Title:         "Bad booking",
		Description:   "desc",
		ComplainantId: f.outsider.Id,
		RespondentId:  f.partner.Id,
		BookingId:     &f.booking.Id,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestCreateDisputeSameParties(t *testing.T) {
	f := newDisputeFixture(t)

	_, err := f.svc.Create(context.Background(), f.customer.Id, &dto.CreateDisputeRequest{
		Type:          string(entity.DisputeTypeOther),
		Title:         "Self dispute",
		Description:   "desc",
		ComplainantId: f.customer.Id,
		RespondentId:  f.customer.Id,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))
}

func TestCreateDisputeDuplicatePending(t *testing.T) {
	f := newDisputeFixture(t)
	f.createDispute(t)

	_, err := f.svc.Create(context.Background(), f.customer.Id, &dto.CreateDisputeRequest{
		Type:          string(entity.DisputeTypeServiceQuality),
		Title:         "Another complaint",
		Description:   "desc",
		ComplainantId: f.customer.Id,
		RespondentId:  f.partner.Id,
		BookingId:     &f.booking.Id,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	// A different booking for the same parties is a different triple.
	other := f.store.addBooking(f.customer.Id, f.partner.Id)
	_, err = f.svc.Create(context.Background(), f.customer.Id, &dto.CreateDisputeRequest{
		Type:          string(entity.DisputeTypeServiceQuality),
		Title:         "Another complaint",
		Description:   "desc",
		ComplainantId: f.customer.Id,
		RespondentId:  f.partner.Id,
		BookingId:     &other.Id,
	})
	assert.NoError(t, err)
}

func TestCreateDisputeDuplicatePendingNoBooking(t *testing.T) {
	f := newDisputeFixture(t)

	req := &dto.CreateDisputeRequest{
		Type:          string(entity.DisputeTypeOther),
		Title:         "General complaint",
		Description:   "desc",
		ComplainantId: f.customer.Id,
		RespondentId:  f.partner.Id,
	}
	_, err := f.svc.Create(context.Background(), f.customer.Id, req)
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), f.customer.Id, req)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestShowDisputeAccess(t *testing.T) {
	f := newDisputeFixture(t)
	created := f.createDispute(t)

	// Any authenticated user can read a dispute, related or not.
	for _, caller := range []uuid.UUID{f.customer.Id, f.partner.Id, f.admin.Id, f.moderator.Id, f.outsider.Id} {
		res, err := f.svc.Show(context.Background(), caller, created.Id)
		require.NoError(t, err)
		assert.Equal(t, created.Id, res.Id)
		assert.NotEmpty(t, res.Timeline)
	}

	_, err := f.svc.Show(context.Background(), f.admin.Id, uuid.New())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUpdateDisputeStatusChange(t *testing.T) {
	f := newDisputeFixture(t)
	created := f.createDispute(t)

	status := string(entity.DisputeStatusInvestigating)
	res, err := f.svc.Update(context.Background(), f.admin.Id, created.Id, &dto.UpdateDisputeRequest{
		Status: &status,
		Timeline: []dto.TimelineNoteRequest{
			{Event: "Requested CCTV footage", Details: "Waiting on building management"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, status, res.Status)
	require.Len(t, res.Timeline, 3)
	assert.Equal(t, "Dispute created", res.Timeline[0].Event)
	// System events precede caller-supplied notes.
	assert.Equal(t, "Status changed to INVESTIGATING", res.Timeline[1].Event)
	assert.Equal(t, "Status updated from PENDING to INVESTIGATING", res.Timeline[1].Details)
	assert.Equal(t, "Requested CCTV footage", res.Timeline[2].Event)
	assert.Equal(t, "Ava Admin", res.Timeline[1].Actor)
}

func TestUpdateDisputeAssignment(t *testing.T) {
	f := newDisputeFixture(t)
	created := f.createDispute(t)

	res, err := f.svc.Update(context.Background(), f.admin.Id, created.Id, &dto.UpdateDisputeRequest{
		AssignedTo: &f.moderator.Id,
	})
	require.NoError(t, err)

	require.NotNil(t, res.AssignedTo)
	assert.Equal(t, f.moderator.Id, *res.AssignedTo)
	require.Len(t, res.Timeline, 2)
	assert.Equal(t, "Dispute assigned", res.Timeline[1].Event)
	assert.Equal(t, "Assigned to Milo Moderator", res.Timeline[1].Details)
}

func TestUpdateDisputeForbidden(t *testing.T) {
	f := newDisputeFixture(t)
	created := f.createDispute(t)

	title := "Changed"
	_, err := f.svc.Update(context.Background(), f.outsider.Id, created.Id, &dto.UpdateDisputeRequest{
		Title: &title,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestUpdateDisputePartyCanEdit(t *testing.T) {
	f := newDisputeFixture(t)
	created := f.createDispute(t)

	desc := "Updated description with more detail."
	res, err := f.svc.Update(context.Background(), f.customer.Id, created.Id, &dto.UpdateDisputeRequest{
		Description: &desc,
	})
	require.NoError(t, err)
	assert.Equal(t, desc, res.Description)
}

func TestInternalNotesStaffOnly(t *testing.T) {
	f := newDisputeFixture(t)
	created := f.createDispute(t)

	notes := "Partner has two prior complaints on file"
	res, err := f.svc.Update(context.Background(), f.admin.Id, created.Id, &dto.UpdateDisputeRequest{
		InternalNotes: &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, notes, res.InternalNotes)

	res, err = f.svc.Show(context.Background(), f.moderator.Id, created.Id)
	require.NoError(t, err)
	assert.Equal(t, notes, res.InternalNotes)

	for _, caller := range []uuid.UUID{f.customer.Id, f.partner.Id, f.outsider.Id} {
		res, err = f.svc.Show(context.Background(), caller, created.Id)
		require.NoError(t, err)
		assert.Empty(t, res.InternalNotes)
	}

	list, err := f.svc.GetUserDisputes(context.Background(), f.customer.Id, &dto.DisputeQueryRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Empty(t, list.Items[0].InternalNotes)
}

func TestEscalateDispute(t *testing.T) {
	f := newDisputeFixture(t)
	created := f.createDispute(t)

	res, err := f.svc.Escalate(context.Background(), f.customer.Id, created.Id, &dto.EscalateDisputeRequest{
		Reason: "No response from the partner for a week",
	})
	require.NoError(t, err)

	assert.Equal(t, string(entity.DisputeStatusEscalated), res.Status)
	assert.True(t, res.IsEscalated)
	assert.NotNil(t, res.EscalatedAt)
	assert.Equal(t, string(entity.DisputePriorityHigh), res.Priority)
	last := res.Timeline[len(res.Timeline)-1]
	assert.Equal(t, "Dispute escalated", last.Event)
	assert.Equal(t, "No response from the partner for a week", last.Details)
	assert.Contains(t, f.publisher.eventTypes(), EventDisputeEscalated)
}

func TestEscalateDisputeTwiceConflicts(t *testing.T) {
	f := newDisputeFixture(t)
	created := f.createDispute(t)

	_, err := f.svc.Escalate(context.Background(), f.customer.Id, created.Id, &dto.EscalateDisputeRequest{Reason: "first"})
	require.NoError(t, err)

	_, err = f.svc.Escalate(context.Background(), f.admin.Id, created.Id, &dto.EscalateDisputeRequest{Reason: "second"})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestEscalateDisputeAssignee(t *testing.T) {
	f := newDisputeFixture(t)
	created := f.createDispute(t)

	// Escalations can only be routed to an admin.
	_, err := f.svc.Escalate(context.Background(), f.customer.Id, created.Id, &dto.EscalateDisputeRequest{
		Reason:   "needs senior review",
		AssignTo: &f.moderator.Id,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))

	urgent := string(entity.DisputePriorityUrgent)
	res, err := f.svc.Escalate(context.Background(), f.customer.Id, created.Id, &dto.EscalateDisputeRequest{
		Reason:      "needs senior review",
		AssignTo:    &f.admin.Id,
		NewPriority: &urgent,
	})
	require.NoError(t, err)
	require.NotNil(t, res.AssignedTo)
	assert.Equal(t, f.admin.Id, *res.AssignedTo)
	assert.Equal(t, urgent, res.Priority)
}

func TestEscalateDisputeForbidden(t *testing.T) {
	f := newDisputeFixture(t)
	created := f.createDispute(t)

	_, err := f.svc.Escalate(context.Background(), f.outsider.Id, created.Id, &dto.EscalateDisputeRequest{Reason: "x"})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestResolveDispute(t *testing.T) {
	f := newDisputeFixture(t)
	created := f.createDispute(t)

	amount := 100.0
	res, err := f.svc.Resolve(context.Background(), f.admin.Id, created.Id, &dto.ResolveDisputeRequest{
		Resolution:      string(entity.DisputeResolutionPartialRefund),
		ResolutionNotes: "Half refund agreed with both parties",
		ResolvedAmount:  &amount,
	})
	require.NoError(t, err)

	assert.Equal(t, string(entity.DisputeStatusResolved), res.Status)
	require.NotNil(t, res.Resolution)
	assert.Equal(t, string(entity.DisputeResolutionPartialRefund), *res.Resolution)
	assert.Equal(t, "Half refund agreed with both parties", res.ResolutionNotes)
	require.NotNil(t, res.ResolvedAmount)
	assert.Equal(t, amount, *res.ResolvedAmount)
	require.NotNil(t, res.ResolvedBy)
	assert.Equal(t, f.admin.Id, *res.ResolvedBy)
	assert.NotNil(t, res.ResolvedAt)
	last := res.Timeline[len(res.Timeline)-1]
	assert.Equal(t, "Dispute resolved", last.Event)
}

func TestResolveDisputeTwiceConflicts(t *testing.T) {
	f := newDisputeFixture(t)
	created := f.createDispute(t)

	req := &dto.ResolveDisputeRequest{
		Resolution:      string(entity.DisputeResolutionNoRefund),
		ResolutionNotes: "No fault found",
	}
	_, err := f.svc.Resolve(context.Background(), f.admin.Id, created.Id, req)
	require.NoError(t, err)

	_, err = f.svc.Resolve(context.Background(), f.admin.Id, created.Id, req)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestResolveDisputePermissions(t *testing.T) {
	f := newDisputeFixture(t)
	created := f.createDispute(t)

	req := &dto.ResolveDisputeRequest{
		Resolution:      string(entity.DisputeResolutionNoRefund),
		ResolutionNotes: "No fault found",
	}

	// A party who is not the assignee cannot resolve.
	_, err := f.svc.Resolve(context.Background(), f.customer.Id, created.Id, req)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	// The assigned moderator can.
	_, err = f.svc.Assign(context.Background(), f.admin.Id, created.Id, &dto.AssignDisputeRequest{AssignedTo: f.moderator.Id})
	require.NoError(t, err)

	_, err = f.svc.Resolve(context.Background(), f.moderator.Id, created.Id, req)
	assert.NoError(t, err)
}

func TestAssignDispute(t *testing.T) {
	f := newDisputeFixture(t)
	created := f.createDispute(t)

	res, err := f.svc.Assign(context.Background(), f.admin.Id, created.Id, &dto.AssignDisputeRequest{
		AssignedTo: f.moderator.Id,
	})
	require.NoError(t, err)
	require.NotNil(t, res.AssignedTo)
	assert.Equal(t, f.moderator.Id, *res.AssignedTo)
	last := res.Timeline[len(res.Timeline)-1]
	assert.Equal(t, "Dispute assigned", last.Event)

	// Not an admin.
	_, err = f.svc.Assign(context.Background(), f.moderator.Id, created.Id, &dto.AssignDisputeRequest{AssignedTo: f.moderator.Id})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	// Regular users cannot review disputes.
	_, err = f.svc.Assign(context.Background(), f.admin.Id, created.Id, &dto.AssignDisputeRequest{AssignedTo: f.outsider.Id})
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))
}

func TestReopenDispute(t *testing.T) {
	f := newDisputeFixture(t)
	created := f.createDispute(t)

	amount := 50.0
	_, err := f.svc.Resolve(context.Background(), f.admin.Id, created.Id, &dto.ResolveDisputeRequest{
		Resolution:      string(entity.DisputeResolutionServiceCredit),
		ResolutionNotes: "Credit issued",
		ResolvedAmount:  &amount,
	})
	require.NoError(t, err)

	res, err := f.svc.Reopen(context.Background(), f.admin.Id, created.Id, &dto.ReopenDisputeRequest{
		Reason: "Customer reports credit never arrived",
	})
	require.NoError(t, err)

	assert.Equal(t, string(entity.DisputeStatusUnderReview), res.Status)
	// The prior resolution stays visible as the last-resolution snapshot.
	require.NotNil(t, res.Resolution)
	assert.Equal(t, string(entity.DisputeResolutionServiceCredit), *res.Resolution)
	assert.Equal(t, "Credit issued", res.ResolutionNotes)
	last := res.Timeline[len(res.Timeline)-1]
	assert.Equal(t, "Dispute reopened", last.Event)
}

func TestReopenDisputeGuards(t *testing.T) {
	f := newDisputeFixture(t)
	created := f.createDispute(t)

	// Still pending, nothing to reopen.
	_, err := f.svc.Reopen(context.Background(), f.admin.Id, created.Id, &dto.ReopenDisputeRequest{Reason: "x"})
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))

	_, err = f.svc.Resolve(context.Background(), f.admin.Id, created.Id, &dto.ResolveDisputeRequest{
		Resolution:      string(entity.DisputeResolutionNoRefund),
		ResolutionNotes: "done",
	})
	require.NoError(t, err)

	_, err = f.svc.Reopen(context.Background(), f.moderator.Id, created.Id, &dto.ReopenDisputeRequest{Reason: "x"})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	// CLOSED is terminal.
	closed := string(entity.DisputeStatusClosed)
	_, err = f.svc.Update(context.Background(), f.admin.Id, created.Id, &dto.UpdateDisputeRequest{Status: &closed})
	require.NoError(t, err)

	_, err = f.svc.Reopen(context.Background(), f.admin.Id, created.Id, &dto.ReopenDisputeRequest{Reason: "x"})
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))
}

func TestDeleteDispute(t *testing.T) {
	f := newDisputeFixture(t)
	created := f.createDispute(t)

	err := f.svc.Delete(context.Background(), f.customer.Id, created.Id)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	err = f.svc.Delete(context.Background(), f.admin.Id, created.Id)
	require.NoError(t, err)

	assert.Nil(t, f.store.getDispute(created.Id))
	assert.Empty(t, f.store.eventsFor(created.Id))
	assert.Contains(t, f.publisher.eventTypes(), EventDisputeDeleted)

	err = f.svc.Delete(context.Background(), f.admin.Id, created.Id)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestGetAllDisputesFilters(t *testing.T) {
	f := newDisputeFixture(t)
	created := f.createDispute(t)

	_, err := f.svc.Create(context.Background(), f.outsider.Id, &dto.CreateDisputeRequest{
		Type:          string(entity.DisputeTypePaymentDispute),
		Title:         "Charged twice",
		Description:   "Card charged twice for one booking.",
		ComplainantId: f.outsider.Id,
		RespondentId:  f.partner.Id,
	})
	require.NoError(t, err)

	res, err := f.svc.GetAll(context.Background(), &dto.DisputeQueryRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Pagination.Total)
	assert.Len(t, res.Items, 2)

	res, err = f.svc.GetAll(context.Background(), &dto.DisputeQueryRequest{
		Type: string(entity.DisputeTypePaymentDispute),
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Charged twice", res.Items[0].Title)

	res, err = f.svc.GetAll(context.Background(), &dto.DisputeQueryRequest{Search: "double booked"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, created.Id, res.Items[0].Id)

	res, err = f.svc.GetAll(context.Background(), &dto.DisputeQueryRequest{Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
	assert.Equal(t, int64(2), res.Pagination.Total)
	assert.Equal(t, 2, res.Pagination.TotalPages)
}

func TestGetUserDisputes(t *testing.T) {
	f := newDisputeFixture(t)
	f.createDispute(t)

	_, err := f.svc.Create(context.Background(), f.outsider.Id, &dto.CreateDisputeRequest{
		Type:          string(entity.DisputeTypeOther),
		Title:         "Noise complaint",
		Description:   "desc",
		ComplainantId: f.outsider.Id,
		RespondentId:  f.partner.Id,
	})
	require.NoError(t, err)

	res, err := f.svc.GetUserDisputes(context.Background(), f.customer.Id, &dto.DisputeQueryRequest{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, f.customer.Id, res.Items[0].ComplainantId)

	// The partner is the respondent on both.
	res, err = f.svc.GetUserDisputes(context.Background(), f.partner.Id, &dto.DisputeQueryRequest{})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
}

func TestGetBookingDisputes(t *testing.T) {
	f := newDisputeFixture(t)
	created := f.createDispute(t)

	res, err := f.svc.GetBookingDisputes(context.Background(), f.customer.Id, f.booking.Id)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, created.Id, res[0].Id)

	_, err = f.svc.GetBookingDisputes(context.Background(), f.customer.Id, uuid.New())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUnknownCaller(t *testing.T) {
	f := newDisputeFixture(t)
	created := f.createDispute(t)

	_, err := f.svc.Show(context.Background(), uuid.New(), created.Id)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}
