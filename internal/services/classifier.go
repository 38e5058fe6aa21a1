package services

import (
	"sort"
	"time"

	"github.com/lunaria-app/lunaria/internal/models"
)

// Fixed prediction constants. These are deliberately not derived from the
// user's own cycle history; history-weighted prediction is a future feature.
const (
	PredictedCycleLengthDays = 28
	OvulationOffsetDays      = 14
	FertileWindowFirstDay    = 10
	FertileWindowLastDay     = 16
	PredictedWindowDaysAhead = 4
	PredictedWindowDaysAfter = 3
)

// DayInfo is the derived classification for one calendar day. It is ephemeral:
// recomputed from the record snapshot on every render, never persisted.
type DayInfo struct {
	Record            *models.LogRecord `json:"record,omitempty"`
	IsPeriod          bool              `json:"isPeriod"`
	IsPeriodStart     bool              `json:"isPeriodStart"`
	IsPeriodEnd       bool              `json:"isPeriodEnd"`
	IsInPeriodRange   bool              `json:"isInPeriodRange"`
	IsPredictedPeriod bool              `json:"isPredictedPeriod"`
	IsFertile         bool              `json:"isFertile"`
	IsOvulation       bool              `json:"isOvulation"`
}

// PhaseClassifier answers per-day classification questions against one frozen
// record snapshot. Build a new classifier after every data change; Classify is
// pure and safe to call from concurrent render passes.
type PhaseClassifier struct {
	records    map[string]models.LogRecord
	sortedDays []time.Time
	starts     []time.Time
}

func NewPhaseClassifier(records map[string]models.LogRecord) *PhaseClassifier {
	sortedRecords := make([]models.LogRecord, 0, len(records))
	sortedDays := make([]time.Time, 0, len(records))
	for _, record := range records {
		day, ok := record.Day()
		if !ok {
			continue
		}
		sortedRecords = append(sortedRecords, record)
		sortedDays = append(sortedDays, day)
	}

	sort.Slice(sortedRecords, func(i, j int) bool {
		return sortedRecords[i].Date < sortedRecords[j].Date
	})
	sort.Slice(sortedDays, func(i, j int) bool {
		return sortedDays[i].Before(sortedDays[j])
	})

	return &PhaseClassifier{
		records:    records,
		sortedDays: sortedDays,
		starts:     DetectPeriodStarts(sortedRecords),
	}
}

// PeriodStarts exposes the inferred ascending start-date list.
func (classifier *PhaseClassifier) PeriodStarts() []time.Time {
	return classifier.starts
}

// Classify derives the full day classification for the target date. It is
// total: any date against any snapshot yields a result, all-false when no
// relevant data exists.
func (classifier *PhaseClassifier) Classify(target time.Time) DayInfo {
	day := dateOnly(target)
	key := day.Format(models.DateLayout)

	info := DayInfo{}
	if record, exists := classifier.records[key]; exists {
		stored := record
		info.Record = &stored
		info.IsPeriod = record.IsPeriodDay()
		info.IsPeriodEnd = record.IsPeriodEnd
	}

	if start, found := classifier.latestStartOnOrBefore(day); found {
		info.IsPeriodStart = start.Equal(day)

		end, hasEnd := classifier.periodEndOnOrAfter(start)
		if hasEnd {
			info.IsInPeriodRange = day.After(start) && day.Before(end)
		} else {
			// No end logged yet: treat the period as open-ended forward.
			info.IsInPeriodRange = day.After(start) && info.IsPeriod
		}
	}

	if len(classifier.starts) > 0 {
		latestStart := classifier.starts[len(classifier.starts)-1]
		daysSince := wholeDaysBetween(latestStart, day)

		info.IsFertile = daysSince >= FertileWindowFirstDay && daysSince <= FertileWindowLastDay
		info.IsOvulation = daysSince == OvulationOffsetDays

		predictedStart := latestStart.AddDate(0, 0, PredictedCycleLengthDays)
		windowStart := predictedStart.AddDate(0, 0, -PredictedWindowDaysAhead)
		windowEnd := predictedStart.AddDate(0, 0, PredictedWindowDaysAfter)
		inWindow := !day.Before(windowStart) && !day.After(windowEnd)

		alreadyPeriodDay := info.IsPeriod || info.IsPeriodStart || info.IsPeriodEnd || info.IsInPeriodRange
		info.IsPredictedPeriod = inWindow && !alreadyPeriodDay
	}

	return info
}

func (classifier *PhaseClassifier) latestStartOnOrBefore(day time.Time) (time.Time, bool) {
	for index := len(classifier.starts) - 1; index >= 0; index-- {
		if !classifier.starts[index].After(day) {
			return classifier.starts[index], true
		}
	}
	return time.Time{}, false
}

// periodEndOnOrAfter finds the first record on or after start that the user
// explicitly flagged as a period end. Absent means the period is still open.
func (classifier *PhaseClassifier) periodEndOnOrAfter(start time.Time) (time.Time, bool) {
	for _, day := range classifier.sortedDays {
		if day.Before(start) {
			continue
		}
		record := classifier.records[day.Format(models.DateLayout)]
		if record.IsPeriodEnd {
			return day, true
		}
	}
	return time.Time{}, false
}

func wholeDaysBetween(from time.Time, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}

func dateOnly(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
