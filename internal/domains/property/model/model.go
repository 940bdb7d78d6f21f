package model

import "hostly/shared/model"

const (
	TableName  = "properties"
	EntityName = "property"

	FieldID              = "id"
	FieldOwnerID         = "owner_id"
	FieldName            = "name"
	FieldType            = "type"
	FieldCity            = "city"
	FieldApprovalStatus  = "approval_status"
	FieldCommissionRate  = "commission_rate"
	FieldRejectionReason = "rejection_reason"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

const (
	MinCommissionRate = 0
	MaxCommissionRate = 100
)

type Property struct {
	ID              string         `db:"id"`
	OwnerID         string         `db:"owner_id"`
	Name            string         `db:"name"`
	Type            string         `db:"type"`
	City            string         `db:"city"`
	ApprovalStatus  ApprovalStatus `db:"approval_status"`
	CommissionRate  float64        `db:"commission_rate"`
	RejectionReason *string        `db:"rejection_reason"`
	model.Metadata
}

func (p Property) IsApproved() bool {
	return p.ApprovalStatus == ApprovalApproved
}
