package implementation

import (
	"context"

	"workspace-disputes-be/internal/entity"
	"workspace-disputes-be/internal/model"
	"workspace-disputes-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type disputeEventRepositoryImpl struct {
	db *gorm.DB
}

func NewDisputeEventRepository(db *gorm.DB) contract.DisputeEventRepository {
	return &disputeEventRepositoryImpl{db: db}
}

func (r *disputeEventRepositoryImpl) Append(ctx context.Context, event *entity.DisputeEvent) error {
	modelEvent := r.mapToModel(event)
	if err := r.db.WithContext(ctx).Create(modelEvent).Error; err != nil {
		return err
	}
	event.ID = modelEvent.ID
	event.Seq = modelEvent.Seq
	event.CreatedAt = modelEvent.CreatedAt
	return nil
}

func (r *disputeEventRepositoryImpl) AppendAll(ctx context.Context, events []*entity.DisputeEvent) error {
	if len(events) == 0 {
		return nil
	}
	modelEvents := make([]*model.DisputeEvent, 0, len(events))
	for _, e := range events {
		modelEvents = append(modelEvents, r.mapToModel(e))
	}
	if err := r.db.WithContext(ctx).Create(&modelEvents).Error; err != nil {
		return err
	}
	for i, me := range modelEvents {
		events[i].ID = me.ID
		events[i].Seq = me.Seq
		events[i].CreatedAt = me.CreatedAt
	}
	return nil
}

func (r *disputeEventRepositoryImpl) FindAllByDisputeID(ctx context.Context, disputeID uuid.UUID) ([]*entity.DisputeEvent, error) {
	var modelEvents []*model.DisputeEvent
	err := r.db.WithContext(ctx).
		Where("dispute_id = ?", disputeID).
		Order("created_at ASC, seq ASC").
		Find(&modelEvents).Error
	if err != nil {
		return nil, err
	}

	events := make([]*entity.DisputeEvent, 0, len(modelEvents))
	for _, me := range modelEvents {
		events = append(events, r.mapToEntity(me))
	}
	return events, nil
}

func (r *disputeEventRepositoryImpl) CountByDisputeID(ctx context.Context, disputeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.DisputeEvent{}).
		Where("dispute_id = ?", disputeID).
		Count(&count).Error
	return count, err
}

func (r *disputeEventRepositoryImpl) DeleteAllByDisputeID(ctx context.Context, disputeID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("dispute_id = ?", disputeID).Delete(&model.DisputeEvent{}).Error
}

func (r *disputeEventRepositoryImpl) mapToModel(e *entity.DisputeEvent) *model.DisputeEvent {
	return &model.DisputeEvent{
		ID:        e.ID,
		DisputeID: e.DisputeID,
		Event:     e.Event,
		Actor:     e.Actor,
		Details:   e.Details,
		CreatedAt: e.CreatedAt,
	}
}

func (r *disputeEventRepositoryImpl) mapToEntity(me *model.DisputeEvent) *entity.DisputeEvent {
	return &entity.DisputeEvent{
		ID:        me.ID,
		DisputeID: me.DisputeID,
		Seq:       me.Seq,
		Event:     me.Event,
		Actor:     me.Actor,
		Details:   me.Details,
		CreatedAt: me.CreatedAt,
	}
}
