package mapper

import (
	"encoding/json"

	"jaspel-be/internal/entity"
	"jaspel-be/internal/model"

	"gorm.io/datatypes"
)

type OverrideMapper struct{}

func NewOverrideMapper() *OverrideMapper {
	return &OverrideMapper{}
}

func (m *OverrideMapper) ToEntity(o *model.JaspelOverride) *entity.JaspelOverride {
	if o == nil {
		return nil
	}
	return &entity.JaspelOverride{
		Id:         o.Id,
		UserId:     o.UserId,
		FixedTotal: o.FixedTotal,
		Reason:     o.Reason,
		IsActive:   o.IsActive,
		CreatedBy:  o.CreatedBy,
		CreatedAt:  o.CreatedAt,
	}
}

func (m *OverrideMapper) ToModel(o *entity.JaspelOverride) *model.JaspelOverride {
	return &model.JaspelOverride{
		Id:         o.Id,
		UserId:     o.UserId,
		FixedTotal: o.FixedTotal,
		Reason:     o.Reason,
		IsActive:   o.IsActive,
		CreatedBy:  o.CreatedBy,
		CreatedAt:  o.CreatedAt,
	}
}

func (m *OverrideMapper) AuditToModel(a *entity.JaspelOverrideAudit) (*model.JaspelOverrideAudit, error) {
	var ctxJSON datatypes.JSON
	if a.Context != nil {
		raw, err := json.Marshal(a.Context)
		if err != nil {
			return nil, err
		}
		ctxJSON = datatypes.JSON(raw)
	}
	return &model.JaspelOverrideAudit{
		Id:            a.Id,
		OverrideId:    a.OverrideId,
		UserId:        a.UserId,
		ComputedTotal: a.ComputedTotal,
		ReportedTotal: a.ReportedTotal,
		Operation:     a.Operation,
		Context:       ctxJSON,
		AppliedAt:     a.AppliedAt,
	}, nil
}
