// Package adherence derives gamification metrics from a user's medication
// and symptom history. Everything here is a pure function of its inputs.
package adherence

import (
	"math"
	"time"

	"github.com/cardiocompanion/cardio-api/internal/models"
)

const (
	PointsPerDose       = 10
	PointsPerSymptomLog = 5
)

type Stats struct {
	Streak        int `json:"streak"`
	Points        int `json:"points"`
	AdherenceRate int `json:"adherenceRate"`
}

func Summarize(meds []models.Medication, symptomLogs int64, now time.Time, loc *time.Location) Stats {
	return Stats{
		Streak:        Streak(meds, now, loc),
		Points:        Points(meds, symptomLogs),
		AdherenceRate: Rate(meds),
	}
}

// Streak counts consecutive days, in loc, with at least one taken dose.
// Today counts once a dose is taken; until then the walk starts at yesterday,
// so an in-progress day neither extends nor breaks the streak.
func Streak(meds []models.Medication, now time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}

	days := takenDays(meds, loc)
	if len(days) == 0 {
		return 0
	}

	day := midnight(now, loc)
	if !days[dayKey(day)] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	// Each counted day is a distinct member of days, so len(days) bounds the walk.
	for streak < len(days) && days[dayKey(day)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func Points(meds []models.Medication, symptomLogs int64) int {
	return PointsPerDose*takenCount(meds) + PointsPerSymptomLog*int(symptomLogs)
}

// Rate is the rounded percentage of scheduled doses marked taken, 0 when
// nothing is scheduled.
func Rate(meds []models.Medication) int {
	scheduled := 0
	for _, m := range meds {
		scheduled += len(m.Schedule)
	}
	if scheduled == 0 {
		return 0
	}
	return int(math.Round(100 * float64(takenCount(meds)) / float64(scheduled)))
}

func takenCount(meds []models.Medication) int {
	n := 0
	for _, m := range meds {
		for _, r := range m.TakenToday {
			if r.Taken {
				n++
			}
		}
	}
	return n
}

func takenDays(meds []models.Medication, loc *time.Location) map[string]bool {
	days := make(map[string]bool)
	for _, m := range meds {
		for _, r := range m.TakenToday {
			if r.Taken {
				days[dayKey(r.Date.In(loc))] = true
			}
		}
	}
	return days
}

func midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
