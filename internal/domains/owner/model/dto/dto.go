package dto

import (
	"mime/multipart"
	"strings"

	"hostly/internal/domains/owner/model"
	"hostly/shared"
	gDto "hostly/shared/dto"
	gModel "hostly/shared/model"
	"hostly/shared/timezone"

	"github.com/google/uuid"
)

type CreateOwnerRequest struct {
	Name  string `json:"name"  validate:"required,max=100"`
	Email string `json:"email" validate:"required,email,max=100"`
	Phone string `json:"phone" validate:"required,max=30"`
}

func (c *CreateOwnerRequest) ToModel(user string) model.Owner {
	return model.Owner{
		ID:                 uuid.NewString(),
		Name:               c.Name,
		Email:              strings.ToLower(strings.TrimSpace(c.Email)),
		Phone:              c.Phone,
		VerificationStatus: model.VerificationPending,
		Metadata:           gModel.NewMetadata(user, timezone.Now()),
	}
}

type SubmitDocumentsRequest struct {
	Document     *multipart.FileHeader `json:"document" validate:"required,mimetypes=application/pdf image/png image/jpeg,maxfilesize=5"`
	DocumentFile multipart.File        `json:"-"`
}

type RejectOwnerRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type OwnerResponse struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	Phone              string  `json:"phone"`
	VerificationStatus string  `json:"verification_status"`
	DocumentsSubmitted bool    `json:"documents_submitted"`
	DocumentURL        *string `json:"document_url,omitempty"`
	RejectionReason    *string `json:"rejection_reason,omitempty"`
	gDto.Metadata
}

func (r *OwnerResponse) FromModel(model model.Owner) {
	r.ID = model.ID
	r.Name = model.Name
	r.Email = model.Email
	r.Phone = model.Phone
	r.VerificationStatus = string(model.VerificationStatus)
	r.DocumentsSubmitted = model.DocumentsSubmitted
	r.DocumentURL = model.DocumentURL
	r.RejectionReason = model.RejectionReason
	r.Metadata.FromModel(model.Metadata)
}

type GetOwnersResponse struct {
	Owners    []OwnerResponse `json:"owners"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetOwnersResponse) FromModels(models []model.Owner, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Owners = make([]OwnerResponse, len(models))
	for i, mod := range models {
		r.Owners[i].FromModel(mod)
	}
}
