package dto

import (
	"hostly/internal/domains/property/model"
	"hostly/shared"
	gDto "hostly/shared/dto"
	gModel "hostly/shared/model"
	"hostly/shared/timezone"

	"github.com/google/uuid"
)

type CreatePropertyRequest struct {
	OwnerID        string   `json:"owner_id"        validate:"required"`
	Name           string   `json:"name"            validate:"required,max=100"`
	Type           string   `json:"type"            validate:"required,oneof=hotel apartment villa guesthouse resort"`
	City           string   `json:"city"            validate:"required,max=100"`
	CommissionRate *float64 `json:"commission_rate" validate:"omitempty,gte=0,lte=100"`
}

// ToModel creates a property awaiting approval. defaultRate applies when no rate was given.
func (c *CreatePropertyRequest) ToModel(user string, defaultRate float64) model.Property {
	rate := defaultRate
	if c.CommissionRate != nil {
		rate = *c.CommissionRate
	}

	return model.Property{
		ID:             uuid.NewString(),
		OwnerID:        c.OwnerID,
		Name:           c.Name,
		Type:           c.Type,
		City:           c.City,
		ApprovalStatus: model.ApprovalPending,
		CommissionRate: rate,
		Metadata:       gModel.NewMetadata(user, timezone.Now()),
	}
}

type UpdatePropertyRequest struct {
	Name string `db:"name" json:"name" validate:"omitempty,max=100"`
	Type string `db:"type" json:"type" validate:"omitempty,oneof=hotel apartment villa guesthouse resort"`
	City string `db:"city" json:"city" validate:"omitempty,max=100"`
}

type RejectPropertyRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type UpdateCommissionRequest struct {
	CommissionRate *float64 `json:"commission_rate" validate:"required,gte=0,lte=100"`
}

type PropertyResponse struct {
	ID              string  `json:"id"`
	OwnerID         string  `json:"owner_id"`
	Name            string  `json:"name"`
	Type            string  `json:"type"`
	City            string  `json:"city"`
	ApprovalStatus  string  `json:"approval_status"`
	CommissionRate  float64 `json:"commission_rate"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	gDto.Metadata
}

func (r *PropertyResponse) FromModel(model model.Property) {
	r.ID = model.ID
	r.OwnerID = model.OwnerID
	r.Name = model.Name
	r.Type = model.Type
	r.City = model.City
	r.ApprovalStatus = string(model.ApprovalStatus)
	r.CommissionRate = model.CommissionRate
	r.RejectionReason = model.RejectionReason
	r.Metadata.FromModel(model.Metadata)
}

type GetPropertiesResponse struct {
	Properties []PropertyResponse `json:"properties"`
	TotalPage  int                `json:"total_page"`
	TotalData  int                `json:"total_data"`
}

func (r *GetPropertiesResponse) FromModels(models []model.Property, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Properties = make([]PropertyResponse, len(models))
	for i, mod := range models {
		r.Properties[i].FromModel(mod)
	}
}
