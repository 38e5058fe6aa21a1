package services

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strconv"
	"strings"

	"github.com/lunaria-app/lunaria/internal/models"
)

// ExportCSVHeader is the fixed column set of the CSV export. Multi-value
// fields are semicolon-joined; optional booleans are empty when absent.
var ExportCSVHeader = []string{
	"date",
	"periodFlow",
	"isPeriodEnd",
	"symptoms",
	"mood",
	"sexualActivityCount",
	"protectionUsed",
	"orgasm",
	"tookPill",
	"notes",
}

type ExportSummary struct {
	TotalEntries int    `json:"totalEntries"`
	HasData      bool   `json:"hasData"`
	DateFrom     string `json:"dateFrom"`
	DateTo       string `json:"dateTo"`
}

// BuildExportCSV renders every record as one CSV row, sorted by date key.
// encoding/csv handles quoting and escaping of free-text fields.
func BuildExportCSV(records []models.LogRecord) ([]byte, error) {
	sorted := sortRecordsByDate(records)

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(ExportCSVHeader); err != nil {
		return nil, err
	}

	for _, record := range sorted {
		row := []string{
			record.Date,
			record.PeriodFlow,
			strconv.FormatBool(record.IsPeriodEnd),
			strings.Join(record.Symptoms, ";"),
			record.Mood,
			strconv.Itoa(record.SexualActivityCount),
			optionalBoolColumn(record.ProtectionUsed),
			optionalBoolColumn(record.Orgasm),
			optionalBoolColumn(record.TookPill),
			record.Notes,
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return output.Bytes(), nil
}

func BuildExportSummary(records []models.LogRecord) ExportSummary {
	if len(records) == 0 {
		return ExportSummary{}
	}

	sorted := sortRecordsByDate(records)
	return ExportSummary{
		TotalEntries: len(sorted),
		HasData:      true,
		DateFrom:     sorted[0].Date,
		DateTo:       sorted[len(sorted)-1].Date,
	}
}

func sortRecordsByDate(records []models.LogRecord) []models.LogRecord {
	sorted := make([]models.LogRecord, 0, len(records))
	sorted = append(sorted, records...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})
	return sorted
}

func optionalBoolColumn(value *bool) string {
	if value == nil {
		return ""
	}
	return strconv.FormatBool(*value)
}
