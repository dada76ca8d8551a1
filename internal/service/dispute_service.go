package service

import (
	"context"
	"fmt"
	"time"

	"workspace-disputes-be/internal/apperr"
	"workspace-disputes-be/internal/dto"
	"workspace-disputes-be/internal/entity"
	"workspace-disputes-be/internal/pkg/logger"
	"workspace-disputes-be/internal/repository/memory"
	"workspace-disputes-be/internal/repository/specification"
	"workspace-disputes-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IDisputeService interface {
	Create(ctx context.Context, callerId uuid.UUID, req *dto.CreateDisputeRequest) (*dto.DisputeResponse, error)
	GetAll(ctx context.Context, query *dto.DisputeQueryRequest) (*dto.PaginatedDisputesResponse, error)
	Show(ctx context.Context, callerId uuid.UUID, id uuid.UUID) (*dto.DisputeResponse, error)
	Update(ctx context.Context, callerId uuid.UUID, id uuid.UUID, req *dto.UpdateDisputeRequest) (*dto.DisputeResponse, error)
	Escalate(ctx context.Context, callerId uuid.UUID, id uuid.UUID, req *dto.EscalateDisputeRequest) (*dto.DisputeResponse, error)
	Resolve(ctx context.Context, callerId uuid.UUID, id uuid.UUID, req *dto.ResolveDisputeRequest) (*dto.DisputeResponse, error)
	Assign(ctx context.Context, callerId uuid.UUID, id uuid.UUID, req *dto.AssignDisputeRequest) (*dto.DisputeResponse, error)
	Reopen(ctx context.Context, callerId uuid.UUID, id uuid.UUID, req *dto.ReopenDisputeRequest) (*dto.DisputeResponse, error)
	Delete(ctx context.Context, callerId uuid.UUID, id uuid.UUID) error
	GetUserDisputes(ctx context.Context, userId uuid.UUID, query *dto.DisputeQueryRequest) (*dto.PaginatedDisputesResponse, error)
	GetBookingDisputes(ctx context.Context, callerId uuid.UUID, bookingId uuid.UUID) ([]*dto.DisputeResponse, error)
}

type disputeService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	identityCache    *memory.IdentityCache
	logger           logger.ILogger
}

func NewDisputeService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	identityCache *memory.IdentityCache,
	log logger.ILogger,
) IDisputeService {
	return &disputeService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		identityCache:    identityCache,
		logger:           log,
	}
}

// getUser resolves a user by id, consulting the identity cache first.
// Returns nil (no error) when the user does not exist.
func (s *disputeService) getUser(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.User, error) {
	if s.identityCache != nil {
		if user, found := s.identityCache.Get(id); found {
			return user, nil
		}
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if user != nil && s.identityCache != nil {
		s.identityCache.Save(user)
	}
	return user, nil
}

// requireCaller resolves the authenticated caller. JWTs can outlive their
// user row, so a missing caller is a forbidden, not a not-found.
func (s *disputeService) requireCaller(ctx context.Context, uow unitofwork.UnitOfWork, callerId uuid.UUID) (*entity.User, error) {
	caller, err := s.getUser(ctx, uow, callerId)
	if err != nil {
		return nil, err
	}
	if caller == nil {
		return nil, apperr.Forbidden("caller identity not found")
	}
	return caller, nil
}

func newDisputeEvent(disputeId uuid.UUID, event, actor, details string) *entity.DisputeEvent {
	return &entity.DisputeEvent{
		ID:        uuid.New(),
		DisputeID: disputeId,
		Event:     event,
		Actor:     actor,
		Details:   details,
		CreatedAt: time.Now(),
	}
}

func (s *disputeService) Create(ctx context.Context, callerId uuid.UUID, req *dto.CreateDisputeRequest) (*dto.DisputeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.requireCaller(ctx, uow, callerId); err != nil {
		return nil, err
	}

	// Guard chain: cheapest checks first, the uniqueness lookup last.
	if req.ComplainantId == req.RespondentId {
		return nil, apperr.BadRequest("complainant and respondent must be different users")
	}

	complainant, err := s.getUser(ctx, uow, req.ComplainantId)
	if err != nil {
		return nil, err
	}
	if complainant == nil {
		return nil, apperr.NotFound("complainant not found")
	}

	respondent, err := s.getUser(ctx, uow, req.RespondentId)
	if err != nil {
		return nil, err
	}
	if respondent == nil {
		return nil, apperr.NotFound("respondent not found")
	}

	if req.BookingId != nil {
		booking, err := uow.BookingRepository().FindOne(ctx, specification.ByID{ID: *req.BookingId})
		if err != nil {
			return nil, err
		}
		if booking == nil {
			return nil, apperr.NotFound("booking not found")
		}
		if !booking.HasParticipant(req.ComplainantId) {
			return nil, apperr.Forbidden("complainant is not a participant of the booking")
		}
	}

	openCount, err := uow.DisputeRepository().Count(ctx, specification.ByPendingTriple{
		ComplainantID: req.ComplainantId,
		RespondentID:  req.RespondentId,
		BookingID:     req.BookingId,
	})
	if err != nil {
		return nil, err
	}
	if openCount > 0 {
		return nil, apperr.Conflict("a pending dispute already exists between these parties for this booking")
	}

	priority := entity.DisputePriorityMedium
	if req.Priority != nil {
		priority = entity.DisputePriority(*req.Priority)
	}

	now := time.Now()
	dispute := &entity.Dispute{
		ID:             uuid.New(),
		Type:           entity.DisputeType(req.Type),
		Title:          req.Title,
		Description:    req.Description,
		ComplainantID:  req.ComplainantId,
		RespondentID:   req.RespondentId,
		BookingID:      req.BookingId,
		Status:         entity.DisputeStatusPending,
		Priority:       priority,
		DisputedAmount: req.DisputedAmount,
		DueDate:        req.DueDate,
		Metadata:       req.Metadata,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.Evidence != nil {
		dispute.Evidence = &entity.Evidence{
			Files:          req.Evidence.Files,
			Screenshots:    req.Evidence.Screenshots,
			Communications: req.Evidence.Communications,
			Witnesses:      req.Evidence.Witnesses,
		}
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.DisputeRepository().Create(ctx, dispute); err != nil {
		return nil, err
	}

	created := newDisputeEvent(dispute.ID, "Dispute created", complainant.DisplayName(),
		fmt.Sprintf("A %s dispute was filed", dispute.Type))
	if err := uow.DisputeEventRepository().Append(ctx, created); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("DisputeService", "Dispute created", map[string]interface{}{
		"disputeId":     dispute.ID,
		"type":          dispute.Type,
		"complainantId": dispute.ComplainantID,
		"respondentId":  dispute.RespondentID,
	})

	if err := s.publisherService.PublishDisputeEvent(ctx, EventDisputeCreated, dispute, complainant.DisplayName(), dispute.Title); err != nil {
		s.logger.Warn("DisputeService", "Failed to publish dispute created event", map[string]interface{}{"error": err.Error()})
	}

	return dto.MapDisputeResponse(dispute, []*entity.DisputeEvent{created}), nil
}

// buildListSpecs translates list query filters into specifications, always
// ending with newest-first ordering.
func buildListSpecs(query *dto.DisputeQueryRequest) []specification.Specification {
	var specs []specification.Specification

	if query.Type != "" {
		specs = append(specs, specification.Filter("type", query.Type))
	}
	if query.Status != "" {
		specs = append(specs, specification.Filter("status", query.Status))
	}
	if query.Priority != "" {
		specs = append(specs, specification.Filter("priority", query.Priority))
	}
	if query.ComplainantId != nil {
		specs = append(specs, specification.Filter("complainant_id", *query.ComplainantId))
	}
	if query.RespondentId != nil {
		specs = append(specs, specification.Filter("respondent_id", *query.RespondentId))
	}
	if query.BookingId != nil {
		specs = append(specs, specification.ByBookingID{BookingID: *query.BookingId})
	}
	if query.AssignedTo != nil {
		specs = append(specs, specification.Filter("assigned_to", *query.AssignedTo))
	}
	if query.IsEscalated != nil {
		specs = append(specs, specification.Filter("is_escalated", *query.IsEscalated))
	}
	if query.Search != "" {
		specs = append(specs, specification.SearchTitleDescription{Term: query.Search})
	}
	if query.CreatedFrom != nil || query.CreatedTo != nil {
		specs = append(specs, specification.CreatedBetween{From: query.CreatedFrom, To: query.CreatedTo})
	}

	return specs
}

func normalizePaging(query *dto.DisputeQueryRequest) (page, limit int) {
	page = query.Page
	if page < 1 {
		page = 1
	}
	limit = query.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func (s *disputeService) listDisputes(ctx context.Context, query *dto.DisputeQueryRequest, extra ...specification.Specification) (*dto.PaginatedDisputesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	page, limit := normalizePaging(query)
	filterSpecs := append(extra, buildListSpecs(query)...)

	total, err := uow.DisputeRepository().Count(ctx, filterSpecs...)
	if err != nil {
		return nil, err
	}

	pageSpecs := append(filterSpecs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	disputes, err := uow.DisputeRepository().FindAll(ctx, pageSpecs...)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.DisputeResponse, 0, len(disputes))
	for _, d := range disputes {
		items = append(items, dto.MapDisputeResponse(d, nil))
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	return &dto.PaginatedDisputesResponse{
		Items: items,
		Pagination: dto.PaginationMeta{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}, nil
}

func (s *disputeService) GetAll(ctx context.Context, query *dto.DisputeQueryRequest) (*dto.PaginatedDisputesResponse, error) {
	return s.listDisputes(ctx, query)
}

func (s *disputeService) GetUserDisputes(ctx context.Context, userId uuid.UUID, query *dto.DisputeQueryRequest) (*dto.PaginatedDisputesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	caller, err := s.requireCaller(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	res, err := s.listDisputes(ctx, query, specification.ByParticipant{UserID: userId})
	if err != nil {
		return nil, err
	}
	for _, item := range res.Items {
		redactForCaller(item, caller)
	}
	return res, nil
}

func (s *disputeService) GetBookingDisputes(ctx context.Context, callerId uuid.UUID, bookingId uuid.UUID) ([]*dto.DisputeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	caller, err := s.requireCaller(ctx, uow, callerId)
	if err != nil {
		return nil, err
	}

	booking, err := uow.BookingRepository().FindOne(ctx, specification.ByID{ID: bookingId})
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperr.NotFound("booking not found")
	}

	disputes, err := uow.DisputeRepository().FindAll(ctx,
		specification.ByBookingID{BookingID: bookingId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.DisputeResponse, 0, len(disputes))
	for _, d := range disputes {
		items = append(items, redactForCaller(dto.MapDisputeResponse(d, nil), caller))
	}
	return items, nil
}

// findDispute loads a dispute or returns a typed not-found.
func (s *disputeService) findDispute(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.Dispute, error) {
	dispute, err := uow.DisputeRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if dispute == nil {
		return nil, apperr.NotFound("dispute not found")
	}
	return dispute, nil
}

// redactForCaller strips staff-only fields before a response reaches a
// non-staff viewer. Admins and moderators see the full record.
func redactForCaller(res *dto.DisputeResponse, caller *entity.User) *dto.DisputeResponse {
	if caller.Role == entity.UserRoleAdmin || caller.Role == entity.UserRoleModerator {
		return res
	}
	res.InternalNotes = ""
	return res
}

func (s *disputeService) Show(ctx context.Context, callerId uuid.UUID, id uuid.UUID) (*dto.DisputeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	caller, err := s.requireCaller(ctx, uow, callerId)
	if err != nil {
		return nil, err
	}

	dispute, err := s.findDispute(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	if !ResolveDisputeAccess(dispute, caller).Can(ActionView) {
		return nil, apperr.Forbidden("you do not have access to this dispute")
	}

	timeline, err := uow.DisputeEventRepository().FindAllByDisputeID(ctx, id)
	if err != nil {
		return nil, err
	}

	return redactForCaller(dto.MapDisputeResponse(dispute, timeline), caller), nil
}

func (s *disputeService) Update(ctx context.Context, callerId uuid.UUID, id uuid.UUID, req *dto.UpdateDisputeRequest) (*dto.DisputeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	caller, err := s.requireCaller(ctx, uow, callerId)
	if err != nil {
		return nil, err
	}

	dispute, err := s.findDispute(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	if !ResolveDisputeAccess(dispute, caller).Can(ActionUpdate) {
		return nil, apperr.Forbidden("you do not have permission to update this dispute")
	}

	actor := caller.DisplayName()
	var systemEvents []*entity.DisputeEvent

	if req.Status != nil && entity.DisputeStatus(*req.Status) != dispute.Status {
		oldStatus := dispute.Status
		dispute.Status = entity.DisputeStatus(*req.Status)
		systemEvents = append(systemEvents,
			newDisputeEvent(dispute.ID, fmt.Sprintf("Status changed to %s", dispute.Status), actor,
				fmt.Sprintf("Status updated from %s to %s", oldStatus, dispute.Status)))
	}
	if req.AssignedTo != nil && (dispute.AssignedTo == nil || *dispute.AssignedTo != *req.AssignedTo) {
		assignee, err := s.getUser(ctx, uow, *req.AssignedTo)
		if err != nil {
			return nil, err
		}
		if assignee == nil {
			return nil, apperr.NotFound("assignee not found")
		}
		dispute.AssignedTo = req.AssignedTo
		systemEvents = append(systemEvents,
			newDisputeEvent(dispute.ID, "Dispute assigned", actor,
				fmt.Sprintf("Assigned to %s", assignee.DisplayName())))
	}

	if req.Type != nil {
		dispute.Type = entity.DisputeType(*req.Type)
	}
	if req.Title != nil {
		dispute.Title = *req.Title
	}
	if req.Description != nil {
		dispute.Description = *req.Description
	}
	if req.Priority != nil {
		dispute.Priority = entity.DisputePriority(*req.Priority)
	}
	if req.Evidence != nil {
		dispute.Evidence = &entity.Evidence{
			Files:          req.Evidence.Files,
			Screenshots:    req.Evidence.Screenshots,
			Communications: req.Evidence.Communications,
			Witnesses:      req.Evidence.Witnesses,
		}
	}
	if req.DisputedAmount != nil {
		dispute.DisputedAmount = req.DisputedAmount
	}
	if req.DueDate != nil {
		dispute.DueDate = req.DueDate
	}
	if req.Metadata != nil {
		dispute.Metadata = req.Metadata
	}
	if req.RequiresLegalAction != nil {
		dispute.RequiresLegalAction = *req.RequiresLegalAction
	}
	if req.InternalNotes != nil {
		dispute.InternalNotes = *req.InternalNotes
	}
	dispute.UpdatedAt = time.Now()

	// System events first, then caller-supplied notes, in request order.
	events := systemEvents
	for _, note := range req.Timeline {
		events = append(events, newDisputeEvent(dispute.ID, note.Event, actor, note.Details))
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.DisputeRepository().Update(ctx, dispute); err != nil {
		return nil, err
	}
	if len(events) > 0 {
		if err := uow.DisputeEventRepository().AppendAll(ctx, events); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("DisputeService", "Dispute updated", map[string]interface{}{
		"disputeId": dispute.ID,
		"updatedBy": callerId,
	})

	if err := s.publisherService.PublishDisputeEvent(ctx, EventDisputeUpdated, dispute, actor, ""); err != nil {
		s.logger.Warn("DisputeService", "Failed to publish dispute updated event", map[string]interface{}{"error": err.Error()})
	}

	timeline, err := uow.DisputeEventRepository().FindAllByDisputeID(ctx, id)
	if err != nil {
		return nil, err
	}
	return redactForCaller(dto.MapDisputeResponse(dispute, timeline), caller), nil
}

func (s *disputeService) Escalate(ctx context.Context, callerId uuid.UUID, id uuid.UUID, req *dto.EscalateDisputeRequest) (*dto.DisputeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	caller, err := s.requireCaller(ctx, uow, callerId)
	if err != nil {
		return nil, err
	}

	dispute, err := s.findDispute(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	if !ResolveDisputeAccess(dispute, caller).Can(ActionEscalate) {
		return nil, apperr.Forbidden("you do not have permission to escalate this dispute")
	}
	if dispute.IsEscalated {
		return nil, apperr.Conflict("dispute is already escalated")
	}

	if req.AssignTo != nil {
		assignee, err := s.getUser(ctx, uow, *req.AssignTo)
		if err != nil {
			return nil, err
		}
		if assignee == nil {
			return nil, apperr.NotFound("assignee not found")
		}
		if !assignee.IsAdmin() {
			return nil, apperr.BadRequest("escalated disputes can only be assigned to an admin")
		}
		dispute.AssignedTo = req.AssignTo
	}

	dispute.Status = entity.DisputeStatusEscalated
	dispute.IsEscalated = true
	if dispute.EscalatedAt == nil {
		now := time.Now()
		dispute.EscalatedAt = &now
	}
	if req.NewPriority != nil {
		dispute.Priority = entity.DisputePriority(*req.NewPriority)
	} else {
		dispute.Priority = entity.DisputePriorityHigh
	}
	dispute.UpdatedAt = time.Now()

	actor := caller.DisplayName()
	escalated := newDisputeEvent(dispute.ID, "Dispute escalated", actor, req.Reason)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.DisputeRepository().Update(ctx, dispute); err != nil {
		return nil, err
	}
	if err := uow.DisputeEventRepository().Append(ctx, escalated); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("DisputeService", "Dispute escalated", map[string]interface{}{
		"disputeId":   dispute.ID,
		"escalatedBy": callerId,
		"priority":    dispute.Priority,
	})

	if err := s.publisherService.PublishDisputeEvent(ctx, EventDisputeEscalated, dispute, actor, req.Reason); err != nil {
		s.logger.Warn("DisputeService", "Failed to publish dispute escalated event", map[string]interface{}{"error": err.Error()})
	}

	timeline, err := uow.DisputeEventRepository().FindAllByDisputeID(ctx, id)
	if err != nil {
		return nil, err
	}
	return redactForCaller(dto.MapDisputeResponse(dispute, timeline), caller), nil
}

func (s *disputeService) Resolve(ctx context.Context, callerId uuid.UUID, id uuid.UUID, req *dto.ResolveDisputeRequest) (*dto.DisputeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	caller, err := s.requireCaller(ctx, uow, callerId)
	if err != nil {
		return nil, err
	}

	dispute, err := s.findDispute(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	if !ResolveDisputeAccess(dispute, caller).Can(ActionResolve) {
		return nil, apperr.Forbidden("only an admin or the assigned reviewer can resolve a dispute")
	}
	if dispute.Status == entity.DisputeStatusResolved {
		return nil, apperr.Conflict("dispute is already resolved")
	}

	resolution := entity.DisputeResolution(req.Resolution)
	now := time.Now()
	dispute.Status = entity.DisputeStatusResolved
	dispute.Resolution = &resolution
	dispute.ResolutionNotes = req.ResolutionNotes
	dispute.ResolvedAmount = req.ResolvedAmount
	dispute.ResolvedBy = &caller.Id
	dispute.ResolvedAt = &now
	dispute.UpdatedAt = now

	actor := caller.DisplayName()
	resolved := newDisputeEvent(dispute.ID, "Dispute resolved", actor,
		fmt.Sprintf("%s: %s", resolution, req.ResolutionNotes))

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.DisputeRepository().Update(ctx, dispute); err != nil {
		return nil, err
	}
	if err := uow.DisputeEventRepository().Append(ctx, resolved); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("DisputeService", "Dispute resolved", map[string]interface{}{
		"disputeId":  dispute.ID,
		"resolution": resolution,
		"resolvedBy": callerId,
	})

	if err := s.publisherService.PublishDisputeEvent(ctx, EventDisputeResolved, dispute, actor, string(resolution)); err != nil {
		s.logger.Warn("DisputeService", "Failed to publish dispute resolved event", map[string]interface{}{"error": err.Error()})
	}

	timeline, err := uow.DisputeEventRepository().FindAllByDisputeID(ctx, id)
	if err != nil {
		return nil, err
	}
	return redactForCaller(dto.MapDisputeResponse(dispute, timeline), caller), nil
}

func (s *disputeService) Assign(ctx context.Context, callerId uuid.UUID, id uuid.UUID, req *dto.AssignDisputeRequest) (*dto.DisputeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	caller, err := s.requireCaller(ctx, uow, callerId)
	if err != nil {
		return nil, err
	}

	dispute, err := s.findDispute(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	if !ResolveDisputeAccess(dispute, caller).Can(ActionAssign) {
		return nil, apperr.Forbidden("only an admin can assign a dispute")
	}

	assignee, err := s.getUser(ctx, uow, req.AssignedTo)
	if err != nil {
		return nil, err
	}
	if assignee == nil {
		return nil, apperr.NotFound("assignee not found")
	}
	if assignee.Role != entity.UserRoleAdmin && assignee.Role != entity.UserRoleModerator {
		return nil, apperr.BadRequest("disputes can only be assigned to an admin or moderator")
	}

	dispute.AssignedTo = &req.AssignedTo
	dispute.UpdatedAt = time.Now()

	actor := caller.DisplayName()
	assigned := newDisputeEvent(dispute.ID, "Dispute assigned", actor,
		fmt.Sprintf("Assigned to %s", assignee.DisplayName()))

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.DisputeRepository().Update(ctx, dispute); err != nil {
		return nil, err
	}
	if err := uow.DisputeEventRepository().Append(ctx, assigned); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("DisputeService", "Dispute assigned", map[string]interface{}{
		"disputeId":  dispute.ID,
		"assignedTo": req.AssignedTo,
		"assignedBy": callerId,
	})

	if err := s.publisherService.PublishDisputeEvent(ctx, EventDisputeAssigned, dispute, actor, assignee.DisplayName()); err != nil {
		s.logger.Warn("DisputeService", "Failed to publish dispute assigned event", map[string]interface{}{"error": err.Error()})
	}

	timeline, err := uow.DisputeEventRepository().FindAllByDisputeID(ctx, id)
	if err != nil {
		return nil, err
	}
	return redactForCaller(dto.MapDisputeResponse(dispute, timeline), caller), nil
}

func (s *disputeService) Reopen(ctx context.Context, callerId uuid.UUID, id uuid.UUID, req *dto.ReopenDisputeRequest) (*dto.DisputeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	caller, err := s.requireCaller(ctx, uow, callerId)
	if err != nil {
		return nil, err
	}

	dispute, err := s.findDispute(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	if !ResolveDisputeAccess(dispute, caller).Can(ActionReopen) {
		return nil, apperr.Forbidden("only an admin can reopen a dispute")
	}
	if dispute.Status != entity.DisputeStatusResolved {
		return nil, apperr.BadRequest("only a resolved dispute can be reopened")
	}

	// Resolution fields are kept as the last-resolution snapshot.
	dispute.Status = entity.DisputeStatusUnderReview
	dispute.UpdatedAt = time.Now()

	actor := caller.DisplayName()
	reopened := newDisputeEvent(dispute.ID, "Dispute reopened", actor, req.Reason)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.DisputeRepository().Update(ctx, dispute); err != nil {
		return nil, err
	}
	if err := uow.DisputeEventRepository().Append(ctx, reopened); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("DisputeService", "Dispute reopened", map[string]interface{}{
		"disputeId":  dispute.ID,
		"reopenedBy": callerId,
	})

	if err := s.publisherService.PublishDisputeEvent(ctx, EventDisputeReopened, dispute, actor, req.Reason); err != nil {
		s.logger.Warn("DisputeService", "Failed to publish dispute reopened event", map[string]interface{}{"error": err.Error()})
	}

	timeline, err := uow.DisputeEventRepository().FindAllByDisputeID(ctx, id)
	if err != nil {
		return nil, err
	}
	return redactForCaller(dto.MapDisputeResponse(dispute, timeline), caller), nil
}

func (s *disputeService) Delete(ctx context.Context, callerId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	caller, err := s.requireCaller(ctx, uow, callerId)
	if err != nil {
		return err
	}

	dispute, err := s.findDispute(ctx, uow, id)
	if err != nil {
		return err
	}

	if !ResolveDisputeAccess(dispute, caller).Can(ActionDelete) {
		return apperr.Forbidden("only an admin can delete a dispute")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DisputeEventRepository().DeleteAllByDisputeID(ctx, id); err != nil {
		return err
	}
	if err := uow.DisputeRepository().Delete(ctx, id); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.logger.Info("DisputeService", "Dispute deleted", map[string]interface{}{
		"disputeId": id,
		"deletedBy": callerId,
	})

	// External archivers rely on this event to retain a copy of the record.
	if err := s.publisherService.PublishDisputeEvent(ctx, EventDisputeDeleted, dispute, caller.DisplayName(), dispute.Title); err != nil {
		s.logger.Warn("DisputeService", "Failed to publish dispute deleted event", map[string]interface{}{"error": err.Error()})
	}

	return nil
}
