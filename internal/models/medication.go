package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DoseRecord marks one scheduled dose as taken or not. Date always equals a
// Schedule entry of the owning medication.
type DoseRecord struct {
	Date  time.Time `json:"date"`
	Taken bool      `json:"taken"`
}

type Medication struct {
	ID         uuid.UUID                       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID                       `gorm:"type:uuid;not null;index" json:"userId"`
	Name       string                          `gorm:"size:255;not null" json:"name"`
	Dosage     string                          `gorm:"size:255" json:"dosage,omitempty"`
	Schedule   datatypes.JSONSlice[time.Time]  `gorm:"type:jsonb" json:"schedule"`
	TakenToday datatypes.JSONSlice[DoseRecord] `gorm:"type:jsonb" json:"takenToday"`
	CreatedAt  time.Time                       `json:"createdAt"`
	UpdatedAt  time.Time                       `json:"updatedAt"`
}

// HasScheduleEntry reports whether t exactly matches one of the scheduled doses.
func (m *Medication) HasScheduleEntry(t time.Time) bool {
	for _, s := range m.Schedule {
		if s.Equal(t) {
			return true
		}
	}
	return false
}

// SetTaken upserts the dose record keyed by exact timestamp equality.
func (m *Medication) SetTaken(at time.Time, taken bool) {
	for i := range m.TakenToday {
		if m.TakenToday[i].Date.Equal(at) {
			m.TakenToday[i].Taken = taken
			return
		}
	}
	m.TakenToday = append(m.TakenToday, DoseRecord{Date: at, Taken: taken})
}
