package dto_test

import (
	"testing"

	"hostly/internal/domains/property/model"
	"hostly/internal/domains/property/model/dto"
	gModel "hostly/shared/model"
	"hostly/shared/timezone"

	"github.com/stretchr/testify/assert"
)

func TestCreatePropertyRequest_ToModel(t *testing.T) {
	req := dto.CreatePropertyRequest{
		OwnerID: "OWN-001",
		Name:    "Seaside Villa",
		Type:    "villa",
		City:    "Bali",
	}

	t.Run("default commission", func(t *testing.T) {
		property := req.ToModel("USR-001", 15)

		assert.NotEmpty(t, property.ID, "expected ID to be generated")
		assert.Equal(t, req.OwnerID, property.OwnerID)
		assert.Equal(t, req.Name, property.Name)
		assert.Equal(t, model.ApprovalPending, property.ApprovalStatus)
		assert.InDelta(t, 15.0, property.CommissionRate, 0.001)
		assert.Equal(t, "USR-001", property.CreatedBy)
		assert.False(t, property.CreatedAt.IsZero(), "expected CreatedAt to be set")
	})

	t.Run("explicit commission wins", func(t *testing.T) {
		rate := 0.0
		withRate := req
		withRate.CommissionRate = &rate

		property := withRate.ToModel("USR-001", 15)

		assert.Zero(t, property.CommissionRate)
	})
}

func TestGetPropertiesResponse_FromModels(t *testing.T) {
	now := timezone.Now()
	reason := "missing license"

	properties := []model.Property{
		{ID: "PRP-1", Name: "A", ApprovalStatus: model.ApprovalApproved, Metadata: gModel.NewMetadata("u", now)},
		{ID: "PRP-2", Name: "B", ApprovalStatus: model.ApprovalRejected, RejectionReason: &reason, Metadata: gModel.NewMetadata("u", now)},
	}

	var response dto.GetPropertiesResponse
	response.FromModels(properties, 5, 2)

	assert.Equal(t, 5, response.TotalData)
	assert.Equal(t, 3, response.TotalPage)
	assert.Len(t, response.Properties, 2)
	assert.Equal(t, "approved", response.Properties[0].ApprovalStatus)
	assert.Equal(t, &reason, response.Properties[1].RejectionReason)
}
