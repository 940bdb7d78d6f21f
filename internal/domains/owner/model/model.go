package model

import "hostly/shared/model"

const (
	TableName  = "owners"
	EntityName = "owner"

	FieldID                 = "id"
	FieldName               = "name"
	FieldEmail              = "email"
	FieldPhone              = "phone"
	FieldVerificationStatus = "verification_status"
	FieldDocumentsSubmitted = "documents_submitted"
	FieldDocumentURL        = "document_url"
	FieldRejectionReason    = "rejection_reason"

	DocumentDirectory = "owners/documents"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

type Owner struct {
	ID                 string             `db:"id"`
	Name               string             `db:"name"`
	Email              string             `db:"email"`
	Phone              string             `db:"phone"`
	VerificationStatus VerificationStatus `db:"verification_status"`
	DocumentsSubmitted bool               `db:"documents_submitted"`
	DocumentURL        *string            `db:"document_url"`
	RejectionReason    *string            `db:"rejection_reason"`
	model.Metadata
}
