package services

import (
	"log"
	"sort"
	"time"

	"github.com/lunaria-app/lunaria/internal/models"
)

// DetectPeriodStarts finds the first day of every contiguous logged-flow run.
// A date is a start when its record carries flow and the immediately preceding
// calendar date either has no record or has no flow. Missing days count as
// non-period, so gaps in logging split runs. Records with malformed date keys
// are skipped with a warning.
func DetectPeriodStarts(records []models.LogRecord) []time.Time {
	if len(records) == 0 {
		return nil
	}

	flowByDay := make(map[string]bool, len(records))
	days := make([]time.Time, 0, len(records))
	for _, record := range records {
		day, ok := record.Day()
		if !ok {
			log.Printf("period start detection: skipping malformed date %q", record.Date)
			continue
		}
		if _, seen := flowByDay[record.Date]; !seen {
			days = append(days, day)
		}
		flowByDay[record.Date] = record.IsPeriodDay()
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})

	starts := make([]time.Time, 0)
	for _, day := range days {
		if !flowByDay[day.Format(models.DateLayout)] {
			continue
		}
		previous := day.AddDate(0, 0, -1).Format(models.DateLayout)
		if !flowByDay[previous] {
			starts = append(starts, day)
		}
	}

	return starts
}
