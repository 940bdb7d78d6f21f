package dto

import (
	"time"

	"hostly/shared/constant"
	"hostly/shared/model"
	"hostly/shared/timezone"
)

// Metadata is the audit block embedded in every resource response. Times are rendered
// in the application time zone.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
	CreatedBy  string `json:"created_by,omitempty"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

func (m *Metadata) FromModel(metadata model.Metadata) {
	m.CreatedAt = formatTime(metadata.CreatedAt)
	m.ModifiedAt = formatTime(metadata.ModifiedAt)
	m.CreatedBy = metadata.CreatedBy
	m.ModifiedBy = metadata.ModifiedBy
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return constant.Empty
	}

	return timezone.Format(t, constant.DateFormat)
}
