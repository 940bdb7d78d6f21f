package dto_test

import (
	"testing"

	"hostly/internal/domains/owner/model"
	"hostly/internal/domains/owner/model/dto"
	gModel "hostly/shared/model"
	"hostly/shared/timezone"

	"github.com/stretchr/testify/assert"
)

func TestCreateOwnerRequest_ToModel(t *testing.T) {
	req := dto.CreateOwnerRequest{
		Name:  "Made Wirawan",
		Email: "made@example.com",
		Phone: "+62 811 000 111",
	}

	owner := req.ToModel("USR-001")

	assert.NotEmpty(t, owner.ID, "expected ID to be generated")
	assert.Equal(t, req.Email, owner.Email)
	assert.Equal(t, model.VerificationPending, owner.VerificationStatus)
	assert.False(t, owner.DocumentsSubmitted)
	assert.Nil(t, owner.DocumentURL)
	assert.Equal(t, "USR-001", owner.ModifiedBy)
}

func TestOwnerResponse_FromModel(t *testing.T) {
	url := "https://cdn.example.com/owners/OWN-1/deed.pdf"

	owner := model.Owner{
		ID:                 "OWN-1",
		Name:               "Made Wirawan",
		VerificationStatus: model.VerificationVerified,
		DocumentsSubmitted: true,
		DocumentURL:        &url,
		Metadata:           gModel.NewMetadata("USR-001", timezone.Now()),
	}

	var response dto.OwnerResponse
	response.FromModel(owner)

	assert.Equal(t, "verified", response.VerificationStatus)
	assert.True(t, response.DocumentsSubmitted)
	assert.Equal(t, &url, response.DocumentURL)
	assert.Equal(t, "USR-001", response.CreatedBy)
}
