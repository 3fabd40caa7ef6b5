package models

import (
	"encoding/json"
	"time"
)

// FeeScheduleVersion is one saved revision of a partner's Schedule A.
// Rows are append-only; only IsActive is ever cleared.
type FeeScheduleVersion struct {
	ID            int64           `json:"id" db:"id"`
	ApplicationID string          `json:"application_id" db:"application_id"`
	ScheduleData  json.RawMessage `json:"schedule_a_data" db:"schedule_a_data"`
	EffectiveDate string          `json:"effective_date" db:"effective_date"`
	CreatedBy     string          `json:"created_by" db:"created_by"`
	Notes         *string         `json:"notes" db:"notes"`
	IsActive      bool            `json:"is_active" db:"is_active"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}
