package symptoms

import "time"

const (
	MinSeverity = 0
	MaxSeverity = 4
)

type SymptomInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	IsUrgent bool   `json:"isUrgent"`
}

type CreateRequest struct {
	Timestamp       *time.Time     `json:"timestamp" validate:"required"`
	Symptoms        []SymptomInput `json:"symptoms" validate:"required,min=1,max=50,dive"`
	SeverityRatings map[string]int `json:"severityRatings" validate:"max=50"`
}
