package model

import (
	"time"

	"hostly/shared/constant"
)

// Metadata is the audit column set shared by every table.
type Metadata struct {
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	ModifiedAt time.Time `db:"modified_at" json:"modified_at"`
	CreatedBy  string    `db:"created_by"  json:"created_by"`
	ModifiedBy string    `db:"modified_by" json:"modified_by"`
}

func NewMetadata(user string, now time.Time) Metadata {
	return Metadata{
		CreatedAt:  now,
		ModifiedAt: now,
		CreatedBy:  user,
		ModifiedBy: user,
	}
}

// Touch stamps an update field set with the modifying user and time.
func Touch(fields map[string]any, user string, now time.Time) map[string]any {
	if fields == nil {
		fields = map[string]any{}
	}

	fields[constant.FieldModifiedAt] = now
	fields[constant.FieldModifiedBy] = user

	return fields
}
