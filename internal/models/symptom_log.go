package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Symptom struct {
	Name     string `json:"name"`
	IsUrgent bool   `json:"isUrgent"`
}

// SymptomLog is immutable once created.
type SymptomLog struct {
	ID              uuid.UUID                          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID                          `gorm:"type:uuid;not null;index:idx_symptom_logs_user_ts,priority:1" json:"userId"`
	Timestamp       time.Time                          `gorm:"not null;index:idx_symptom_logs_user_ts,priority:2,sort:desc" json:"timestamp"`
	Symptoms        datatypes.JSONSlice[Symptom]       `gorm:"type:jsonb" json:"symptoms"`
	SeverityRatings datatypes.JSONType[map[string]int] `gorm:"type:jsonb" json:"severityRatings"`
	CreatedAt       time.Time                          `json:"createdAt"`
}
