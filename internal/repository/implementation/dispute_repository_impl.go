package implementation

import (
	"context"
	"encoding/json"

	"workspace-disputes-be/internal/apperr"
	"workspace-disputes-be/internal/entity"
	"workspace-disputes-be/internal/model"
	"workspace-disputes-be/internal/repository/contract"
	"workspace-disputes-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type disputeRepositoryImpl struct {
	db *gorm.DB
}

func NewDisputeRepository(db *gorm.DB) contract.DisputeRepository {
	return &disputeRepositoryImpl{db: db}
}

func (r *disputeRepositoryImpl) Create(ctx context.Context, dispute *entity.Dispute) error {
	modelDispute, err := r.mapToModel(dispute)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(modelDispute).Error; err != nil {
		return err
	}
	dispute.Version = modelDispute.Version
	dispute.CreatedAt = modelDispute.CreatedAt
	dispute.UpdatedAt = modelDispute.UpdatedAt
	return nil
}

func (r *disputeRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Dispute, error) {
	var modelDispute model.Dispute
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&modelDispute).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&modelDispute)
}

func (r *disputeRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Dispute, error) {
	var modelDisputes []*model.Dispute
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&modelDisputes).Error; err != nil {
		return nil, err
	}

	disputes := make([]*entity.Dispute, 0, len(modelDisputes))
	for _, md := range modelDisputes {
		d, err := r.mapToEntity(md)
		if err != nil {
			return nil, err
		}
		disputes = append(disputes, d)
	}

	return disputes, nil
}

func (r *disputeRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.Dispute{})

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Update writes every mutable field guarded by the version the caller read.
// RowsAffected 0 means another writer got there first.
func (r *disputeRepositoryImpl) Update(ctx context.Context, dispute *entity.Dispute) error {
	evidence, err := marshalJSONField(dispute.Evidence)
	if err != nil {
		return err
	}
	metadata, err := marshalJSONField(dispute.Metadata)
	if err != nil {
		return err
	}

	var resolution *string
	if dispute.Resolution != nil {
		s := string(*dispute.Resolution)
		resolution = &s
	}

	res := r.db.WithContext(ctx).Model(&model.Dispute{}).
		Where("id = ? AND version = ?", dispute.ID, dispute.Version).
		Updates(map[string]interface{}{
			"type":                  string(dispute.Type),
			"title":                 dispute.Title,
			"description":           dispute.Description,
			"status":                string(dispute.Status),
			"priority":              string(dispute.Priority),
			"assigned_to":           dispute.AssignedTo,
			"evidence":              evidence,
			"disputed_amount":       dispute.DisputedAmount,
			"due_date":              dispute.DueDate,
			"metadata":              metadata,
			"is_escalated":          dispute.IsEscalated,
			"escalated_at":          dispute.EscalatedAt,
			"resolution":            resolution,
			"resolution_notes":      dispute.ResolutionNotes,
			"resolved_amount":       dispute.ResolvedAmount,
			"resolved_by":           dispute.ResolvedBy,
			"resolved_at":           dispute.ResolvedAt,
			"requires_legal_action": dispute.RequiresLegalAction,
			"internal_notes":        dispute.InternalNotes,
			"version":               dispute.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Conflict("dispute was modified concurrently, retry the operation")
	}

	dispute.Version++
	return nil
}

func (r *disputeRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Dispute{}, id).Error
}

func (r *disputeRepositoryImpl) mapToModel(d *entity.Dispute) (*model.Dispute, error) {
	evidence, err := marshalJSONField(d.Evidence)
	if err != nil {
		return nil, err
	}
	metadata, err := marshalJSONField(d.Metadata)
	if err != nil {
		return nil, err
	}

	var resolution *string
	if d.Resolution != nil {
		s := string(*d.Resolution)
		resolution = &s
	}

	return &model.Dispute{
		ID:                  d.ID,
		Type:                string(d.Type),
		Title:               d.Title,
		Description:         d.Description,
		ComplainantID:       d.ComplainantID,
		RespondentID:        d.RespondentID,
		BookingID:           d.BookingID,
		Status:              string(d.Status),
		Priority:            string(d.Priority),
		AssignedTo:          d.AssignedTo,
		Evidence:            evidence,
		DisputedAmount:      d.DisputedAmount,
		DueDate:             d.DueDate,
		Metadata:            metadata,
		IsEscalated:         d.IsEscalated,
		EscalatedAt:         d.EscalatedAt,
		Resolution:          resolution,
		ResolutionNotes:     d.ResolutionNotes,
		ResolvedAmount:      d.ResolvedAmount,
		ResolvedBy:          d.ResolvedBy,
		ResolvedAt:          d.ResolvedAt,
		RequiresLegalAction: d.RequiresLegalAction,
		InternalNotes:       d.InternalNotes,
		Version:             d.Version,
	}, nil
}

func (r *disputeRepositoryImpl) mapToEntity(md *model.Dispute) (*entity.Dispute, error) {
	var evidence *entity.Evidence
	if len(md.Evidence) > 0 {
		evidence = &entity.Evidence{}
		if err := json.Unmarshal(md.Evidence, evidence); err != nil {
			return nil, err
		}
	}

	var metadata map[string]interface{}
	if len(md.Metadata) > 0 {
		if err := json.Unmarshal(md.Metadata, &metadata); err != nil {
			return nil, err
		}
	}

	var resolution *entity.DisputeResolution
	if md.Resolution != nil {
		rv := entity.DisputeResolution(*md.Resolution)
		resolution = &rv
	}

	return &entity.Dispute{
		ID:                  md.ID,
		Type:                entity.DisputeType(md.Type),
		Title:               md.Title,
		Description:         md.Description,
		ComplainantID:       md.ComplainantID,
		RespondentID:        md.RespondentID,
		BookingID:           md.BookingID,
		Status:              entity.DisputeStatus(md.Status),
		Priority:            entity.DisputePriority(md.Priority),
		AssignedTo:          md.AssignedTo,
		Evidence:            evidence,
		DisputedAmount:      md.DisputedAmount,
		DueDate:             md.DueDate,
		Metadata:            metadata,
		IsEscalated:         md.IsEscalated,
		EscalatedAt:         md.EscalatedAt,
		Resolution:          resolution,
		ResolutionNotes:     md.ResolutionNotes,
		ResolvedAmount:      md.ResolvedAmount,
		ResolvedBy:          md.ResolvedBy,
		ResolvedAt:          md.ResolvedAt,
		RequiresLegalAction: md.RequiresLegalAction,
		InternalNotes:       md.InternalNotes,
		Version:             md.Version,
		CreatedAt:           md.CreatedAt,
		UpdatedAt:           md.UpdatedAt,
	}, nil
}

// marshalJSONField turns an optional struct/map into a JSONB column value,
// keeping NULL for absent values.
func marshalJSONField(v interface{}) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case *entity.Evidence:
		if t == nil {
			return nil, nil
		}
	case map[string]interface{}:
		if t == nil {
			return nil, nil
		}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
