package services

import (
	"time"

	"github.com/lunaria-app/lunaria/internal/models"
)

// CalendarDay is the render state for one cell of the month grid.
type CalendarDay struct {
	Date              string `json:"date"`
	Day               int    `json:"day"`
	InMonth           bool   `json:"inMonth"`
	IsToday           bool   `json:"isToday"`
	HasData           bool   `json:"hasData"`
	IsPeriod          bool   `json:"isPeriod"`
	IsPeriodStart     bool   `json:"isPeriodStart"`
	IsPeriodEnd       bool   `json:"isPeriodEnd"`
	IsInPeriodRange   bool   `json:"isInPeriodRange"`
	IsPredictedPeriod bool   `json:"isPredictedPeriod"`
	IsFertile         bool   `json:"isFertile"`
	IsOvulation       bool   `json:"isOvulation"`
}

// BuildCalendarDays produces the full Sunday-aligned grid covering the month
// of monthStart, one classified cell per day.
func BuildCalendarDays(monthStart time.Time, classifier *PhaseClassifier, now time.Time) []CalendarDay {
	firstOfMonth := time.Date(monthStart.Year(), monthStart.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := firstOfMonth.AddDate(0, 1, -1)
	gridStart := firstOfMonth.AddDate(0, 0, -int(firstOfMonth.Weekday()))
	gridEnd := monthEnd.AddDate(0, 0, 6-int(monthEnd.Weekday()))

	todayKey := dateOnly(now).Format(models.DateLayout)

	days := make([]CalendarDay, 0, 42)
	for day := gridStart; !day.After(gridEnd); day = day.AddDate(0, 0, 1) {
		info := classifier.Classify(day)
		key := day.Format(models.DateLayout)

		days = append(days, CalendarDay{
			Date:              key,
			Day:               day.Day(),
			InMonth:           day.Month() == firstOfMonth.Month(),
			IsToday:           key == todayKey,
			HasData:           info.Record != nil && RecordHasData(*info.Record),
			IsPeriod:          info.IsPeriod,
			IsPeriodStart:     info.IsPeriodStart,
			IsPeriodEnd:       info.IsPeriodEnd,
			IsInPeriodRange:   info.IsInPeriodRange,
			IsPredictedPeriod: info.IsPredictedPeriod,
			IsFertile:         info.IsFertile,
			IsOvulation:       info.IsOvulation,
		})
	}

	return days
}

// RecordHasData reports whether the record carries anything the user logged.
func RecordHasData(record models.LogRecord) bool {
	if record.IsPeriodDay() || record.IsPeriodEnd {
		return true
	}
	if len(record.Symptoms) > 0 || record.Mood != "" {
		return true
	}
	if record.SexualActivityCount > 0 || record.TookPill != nil {
		return true
	}
	return record.Notes != ""
}
