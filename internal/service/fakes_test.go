package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"workspace-disputes-be/internal/apperr"
	"workspace-disputes-be/internal/entity"
	"workspace-disputes-be/internal/pkg/logger"
	"workspace-disputes-be/internal/repository/contract"
	"workspace-disputes-be/internal/repository/specification"
	"workspace-disputes-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// fakeStore is an in-memory stand-in for the database, shared across the
// unit-of-work instances a test hands out.
type fakeStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*entity.User
	bookings map[uuid.UUID]*entity.Booking
	disputes map[uuid.UUID]*entity.Dispute
	events   []*entity.DisputeEvent
	nextSeq  int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[uuid.UUID]*entity.User),
		bookings: make(map[uuid.UUID]*entity.Booking),
		disputes: make(map[uuid.UUID]*entity.Dispute),
	}
}

func (st *fakeStore) addUser(role entity.UserRole, name string) *entity.User {
	st.mu.Lock()
	defer st.mu.Unlock()
	u := &entity.User{
		Id:       uuid.New(),
		Email:    strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@test.local",
		FullName: name,
		Role:     role,
		Status:   entity.UserStatusActive,
	}
	st.users[u.Id] = u
	return u
}

func (st *fakeStore) addBooking(userId, partnerId uuid.UUID) *entity.Booking {
	st.mu.Lock()
	defer st.mu.Unlock()
	b := &entity.Booking{
		Id:        uuid.New(),
		UserId:    userId,
		SpaceId:   uuid.New(),
		PartnerId: partnerId,
		Status:    "confirmed",
	}
	st.bookings[b.Id] = b
	return b
}

func (st *fakeStore) getDispute(id uuid.UUID) *entity.Dispute {
	st.mu.Lock()
	defer st.mu.Unlock()
	if d, ok := st.disputes[id]; ok {
		return copyDispute(d)
	}
	return nil
}

func (st *fakeStore) eventsFor(id uuid.UUID) []*entity.DisputeEvent {
	st.mu.Lock()
	defer st.mu.Unlock()
	var out []*entity.DisputeEvent
	for _, e := range st.events {
		if e.DisputeID == id {
			out = append(out, e)
		}
	}
	return out
}

func copyDispute(d *entity.Dispute) *entity.Dispute {
	c := *d
	return &c
}

type fakeUOWFactory struct {
	store *fakeStore
}

func newFakeUOWFactory(store *fakeStore) unitofwork.RepositoryFactory {
	return &fakeUOWFactory{store: store}
}

func (f *fakeUOWFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUOW{store: f.store}
}

type fakeUOW struct {
	store *fakeStore
}

func (u *fakeUOW) Begin(ctx context.Context) error { return nil }
func (u *fakeUOW) Commit() error                   { return nil }
func (u *fakeUOW) Rollback() error                 { return nil }

func (u *fakeUOW) DisputeRepository() contract.DisputeRepository {
	return &fakeDisputeRepo{store: u.store}
}

func (u *fakeUOW) DisputeEventRepository() contract.DisputeEventRepository {
	return &fakeDisputeEventRepo{store: u.store}
}

func (u *fakeUOW) UserRepository() contract.UserRepository {
	return &fakeUserRepo{store: u.store}
}

func (u *fakeUOW) BookingRepository() contract.BookingRepository {
	return &fakeBookingRepo{store: u.store}
}

// --- dispute repository ---

type fakeDisputeRepo struct {
	store *fakeStore
}

func (r *fakeDisputeRepo) Create(ctx context.Context, dispute *entity.Dispute) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.disputes[dispute.ID] = copyDispute(dispute)
	return nil
}

func (r *fakeDisputeRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Dispute, error) {
	matches, err := r.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}

func (r *fakeDisputeRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Dispute, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*entity.Dispute
	for _, d := range r.store.disputes {
		ok := true
		for _, spec := range specs {
			if !disputeMatches(d, spec) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, copyDispute(d))
		}
	}

	for _, spec := range specs {
		if order, ok := spec.(specification.OrderBy); ok && order.Field == "created_at" {
			sort.Slice(out, func(i, j int) bool {
				if order.Desc {
					return out[i].CreatedAt.After(out[j].CreatedAt)
				}
				return out[i].CreatedAt.Before(out[j].CreatedAt)
			})
		}
	}
	for _, spec := range specs {
		if page, ok := spec.(specification.Pagination); ok {
			if page.Offset >= len(out) {
				return nil, nil
			}
			out = out[page.Offset:]
			if page.Limit < len(out) {
				out = out[:page.Limit]
			}
		}
	}

	return out, nil
}

func (r *fakeDisputeRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	matches, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(matches)), nil
}

func (r *fakeDisputeRepo) Update(ctx context.Context, dispute *entity.Dispute) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.disputes[dispute.ID]
	if !ok || stored.Version != dispute.Version {
		return apperr.Conflict("dispute was modified concurrently, retry the operation")
	}

	saved := copyDispute(dispute)
	saved.Version = dispute.Version + 1
	r.store.disputes[dispute.ID] = saved
	dispute.Version = saved.Version
	return nil
}

func (r *fakeDisputeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.disputes, id)
	return nil
}

func disputeMatches(d *entity.Dispute, spec specification.Specification) bool {
	switch s := spec.(type) {
	case specification.ByID:
		return d.ID == s.ID
	case specification.ByParticipant:
		return d.ComplainantID == s.UserID || d.RespondentID == s.UserID
	case specification.ByPendingTriple:
		if d.ComplainantID != s.ComplainantID || d.RespondentID != s.RespondentID {
			return false
		}
		if d.Status != entity.DisputeStatusPending {
			return false
		}
		if s.BookingID == nil {
			return d.BookingID == nil
		}
		return d.BookingID != nil && *d.BookingID == *s.BookingID
	case specification.ByBookingID:
		return d.BookingID != nil && *d.BookingID == s.BookingID
	case specification.SearchTitleDescription:
		term := strings.ToLower(s.Term)
		return strings.Contains(strings.ToLower(d.Title), term) ||
			strings.Contains(strings.ToLower(d.Description), term)
	case specification.CreatedBetween:
		if s.From != nil && d.CreatedAt.Before(*s.From) {
			return false
		}
		if s.To != nil && d.CreatedAt.After(*s.To) {
			return false
		}
		return true
	case specification.FilterBy:
		return disputeFieldMatches(d, s.Field, s.Value)
	default:
		return true
	}
}

func disputeFieldMatches(d *entity.Dispute, field string, value interface{}) bool {
	switch field {
	case "status":
		return string(d.Status) == value.(string)
	case "type":
		return string(d.Type) == value.(string)
	case "priority":
		return string(d.Priority) == value.(string)
	case "is_escalated":
		return d.IsEscalated == value.(bool)
	case "complainant_id":
		return d.ComplainantID == value.(uuid.UUID)
	case "respondent_id":
		return d.RespondentID == value.(uuid.UUID)
	case "assigned_to":
		return d.AssignedTo != nil && *d.AssignedTo == value.(uuid.UUID)
	default:
		return true
	}
}

// --- dispute event repository ---

type fakeDisputeEventRepo struct {
	store *fakeStore
}

func (r *fakeDisputeEventRepo) Append(ctx context.Context, event *entity.DisputeEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.append(event)
	return nil
}

func (r *fakeDisputeEventRepo) AppendAll(ctx context.Context, events []*entity.DisputeEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, e := range events {
		r.append(e)
	}
	return nil
}

func (r *fakeDisputeEventRepo) append(event *entity.DisputeEvent) {
	r.store.nextSeq++
	e := *event
	e.Seq = r.store.nextSeq
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	r.store.events = append(r.store.events, &e)
}

func (r *fakeDisputeEventRepo) FindAllByDisputeID(ctx context.Context, disputeID uuid.UUID) ([]*entity.DisputeEvent, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*entity.DisputeEvent
	for _, e := range r.store.events {
		if e.DisputeID == disputeID {
			c := *e
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Seq < out[j].Seq
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeDisputeEventRepo) CountByDisputeID(ctx context.Context, disputeID uuid.UUID) (int64, error) {
	events, _ := r.FindAllByDisputeID(ctx, disputeID)
	return int64(len(events)), nil
}

func (r *fakeDisputeEventRepo) DeleteAllByDisputeID(ctx context.Context, disputeID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	kept := r.store.events[:0]
	for _, e := range r.store.events {
		if e.DisputeID != disputeID {
			kept = append(kept, e)
		}
	}
	r.store.events = kept
	return nil
}

// --- user repository ---

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.users[user.Id] = user
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			if u, found := r.store.users[byID.ID]; found {
				return u, nil
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.store.users)), nil
}

// --- booking repository ---

type fakeBookingRepo struct {
	store *fakeStore
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.bookings[booking.Id] = booking
	return nil
}

func (r *fakeBookingRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			if b, found := r.store.bookings[byID.ID]; found {
				return b, nil
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.store.bookings)), nil
}

// --- publisher + logger ---

type recordedEvent struct {
	eventType string
	disputeId uuid.UUID
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *fakePublisher) PublishDisputeEvent(ctx context.Context, eventType string, dispute *entity.Dispute, actor, details string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{eventType: eventType, disputeId: dispute.ID})
	return nil
}

func (p *fakePublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.eventType)
	}
	return out
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

var _ logger.ILogger = noopLogger{}
