package services

import (
	"testing"
	"time"

	"github.com/lunaria-app/lunaria/internal/models"
)

func mustParseDay(t *testing.T, value string) time.Time {
	t.Helper()
	day, err := time.Parse(models.DateLayout, value)
	if err != nil {
		t.Fatalf("parse day %q: %v", value, err)
	}
	return day
}

func flowRecord(date string, flow string) models.LogRecord {
	return models.LogRecord{Date: date, PeriodFlow: flow}
}

func periodEndRecord(date string, flow string) models.LogRecord {
	return models.LogRecord{Date: date, PeriodFlow: flow, IsPeriodEnd: true}
}

func recordMap(records ...models.LogRecord) map[string]models.LogRecord {
	byDate := make(map[string]models.LogRecord, len(records))
	for _, record := range records {
		byDate[record.Date] = record
	}
	return byDate
}

func TestClassifyEmptySnapshotIsAllFalse(t *testing.T) {
	t.Parallel()

	classifier := NewPhaseClassifier(nil)
	info := classifier.Classify(mustParseDay(t, "2026-03-10"))

	if info.Record != nil {
		t.Fatalf("expected no record, got %+v", info.Record)
	}
	if info.IsPeriod || info.IsPeriodStart || info.IsPeriodEnd || info.IsInPeriodRange ||
		info.IsPredictedPeriod || info.IsFertile || info.IsOvulation {
		t.Fatalf("expected all-false classification for empty snapshot, got %+v", info)
	}
}

func TestClassifyDatesBeforeFirstStartAreAllFalse(t *testing.T) {
	t.Parallel()

	classifier := NewPhaseClassifier(recordMap(
		flowRecord("2026-02-10", models.FlowMedium),
		flowRecord("2026-02-11", models.FlowMedium),
	))

	for _, date := range []string{"2026-01-01", "2026-02-01", "2026-02-09"} {
		info := classifier.Classify(mustParseDay(t, date))
		if info.IsPeriodStart || info.IsInPeriodRange || info.IsFertile || info.IsOvulation || info.IsPredictedPeriod {
			t.Fatalf("expected all-false derived flags before first start for %s, got %+v", date, info)
		}
	}
}

func TestClassifySingleDayPeriod(t *testing.T) {
	t.Parallel()

	classifier := NewPhaseClassifier(recordMap(flowRecord("2026-01-15", models.FlowMedium)))
	info := classifier.Classify(mustParseDay(t, "2026-01-15"))

	if !info.IsPeriod {
		t.Fatal("expected isPeriod=true for a flow record")
	}
	if !info.IsPeriodStart {
		t.Fatal("expected single flow day to be a period start")
	}
	if info.IsInPeriodRange {
		t.Fatal("expected single-day period to have no in-range days")
	}
}

func TestClassifyInPeriodRangeWithLoggedEnd(t *testing.T) {
	t.Parallel()

	classifier := NewPhaseClassifier(recordMap(
		flowRecord("2026-01-01", models.FlowHeavy),
		flowRecord("2026-01-02", models.FlowMedium),
		flowRecord("2026-01-03", models.FlowMedium),
		flowRecord("2026-01-04", models.FlowLight),
		periodEndRecord("2026-01-05", models.FlowLight),
	))

	cases := []struct {
		date        string
		wantInRange bool
	}{
		{date: "2026-01-01", wantInRange: false},
		{date: "2026-01-02", wantInRange: true},
		{date: "2026-01-03", wantInRange: true},
		{date: "2026-01-04", wantInRange: true},
		{date: "2026-01-05", wantInRange: false},
		{date: "2026-01-06", wantInRange: false},
	}

	for _, testCase := range cases {
		info := classifier.Classify(mustParseDay(t, testCase.date))
		if info.IsInPeriodRange != testCase.wantInRange {
			t.Fatalf("expected isInPeriodRange=%v for %s, got %v", testCase.wantInRange, testCase.date, info.IsInPeriodRange)
		}
	}

	start := classifier.Classify(mustParseDay(t, "2026-01-01"))
	if !start.IsPeriodStart {
		t.Fatal("expected 2026-01-01 to be the period start")
	}
	end := classifier.Classify(mustParseDay(t, "2026-01-05"))
	if !end.IsPeriodEnd {
		t.Fatal("expected 2026-01-05 to carry the explicit end flag")
	}
}

func TestClassifyOpenEndedPeriodExtendsForwardWhileFlowing(t *testing.T) {
	t.Parallel()

	classifier := NewPhaseClassifier(recordMap(
		flowRecord("2026-01-01", models.FlowMedium),
		flowRecord("2026-01-02", models.FlowMedium),
		flowRecord("2026-01-03", models.FlowLight),
		flowRecord("2026-01-04", models.FlowLight),
		flowRecord("2026-01-05", models.FlowLight),
	))

	for _, date := range []string{"2026-01-02", "2026-01-03", "2026-01-04", "2026-01-05"} {
		info := classifier.Classify(mustParseDay(t, date))
		if !info.IsInPeriodRange {
			t.Fatalf("expected open-ended period to keep %s in range", date)
		}
	}

	after := classifier.Classify(mustParseDay(t, "2026-01-06"))
	if after.IsInPeriodRange {
		t.Fatal("expected day without flow after an open period to be out of range")
	}
}

func TestClassifyFertileWindowAndOvulation(t *testing.T) {
	t.Parallel()

	classifier := NewPhaseClassifier(recordMap(flowRecord("2026-01-01", models.FlowMedium)))

	cases := []struct {
		date          string
		wantFertile   bool
		wantOvulation bool
	}{
		{date: "2026-01-10", wantFertile: false, wantOvulation: false},
		{date: "2026-01-11", wantFertile: true, wantOvulation: false},
		{date: "2026-01-15", wantFertile: true, wantOvulation: true},
		{date: "2026-01-17", wantFertile: true, wantOvulation: false},
		{date: "2026-01-18", wantFertile: false, wantOvulation: false},
	}

	for _, testCase := range cases {
		info := classifier.Classify(mustParseDay(t, testCase.date))
		if info.IsFertile != testCase.wantFertile {
			t.Fatalf("expected isFertile=%v for %s, got %v", testCase.wantFertile, testCase.date, info.IsFertile)
		}
		if info.IsOvulation != testCase.wantOvulation {
			t.Fatalf("expected isOvulation=%v for %s, got %v", testCase.wantOvulation, testCase.date, info.IsOvulation)
		}
	}
}

func TestClassifyPredictedPeriodWindow(t *testing.T) {
	t.Parallel()

	classifier := NewPhaseClassifier(recordMap(flowRecord("2026-01-01", models.FlowMedium)))

	// Predicted next start is Jan 29; the window spans Jan 25 through Feb 1.
	cases := []struct {
		date          string
		wantPredicted bool
	}{
		{date: "2026-01-24", wantPredicted: false},
		{date: "2026-01-25", wantPredicted: true},
		{date: "2026-01-29", wantPredicted: true},
		{date: "2026-01-30", wantPredicted: true},
		{date: "2026-02-01", wantPredicted: true},
		{date: "2026-02-02", wantPredicted: false},
	}

	for _, testCase := range cases {
		info := classifier.Classify(mustParseDay(t, testCase.date))
		if info.IsPredictedPeriod != testCase.wantPredicted {
			t.Fatalf("expected isPredictedPeriod=%v for %s, got %v", testCase.wantPredicted, testCase.date, info.IsPredictedPeriod)
		}
	}
}

func TestClassifyPredictionSuppressedOnActualPeriodDays(t *testing.T) {
	t.Parallel()

	// One unbroken flow run from Jan 1 into the predicted window keeps a
	// single start, so Jan 26 is both an actual flow day and inside the
	// Jan 25 - Feb 1 window.
	records := make([]models.LogRecord, 0, 26)
	day := mustParseDay(t, "2026-01-01")
	for offset := 0; offset < 26; offset++ {
		records = append(records, flowRecord(day.AddDate(0, 0, offset).Format(models.DateLayout), models.FlowLight))
	}
	classifier := NewPhaseClassifier(recordMap(records...))

	if got := len(classifier.PeriodStarts()); got != 1 {
		t.Fatalf("expected one start for a contiguous run, got %d", got)
	}

	inWindow := classifier.Classify(mustParseDay(t, "2026-01-26"))
	if !inWindow.IsPeriod {
		t.Fatal("expected 2026-01-26 to be an actual period day")
	}
	if inWindow.IsPredictedPeriod {
		t.Fatal("expected prediction to be suppressed on an actual period day")
	}

	afterRun := classifier.Classify(mustParseDay(t, "2026-01-27"))
	if !afterRun.IsPredictedPeriod {
		t.Fatal("expected first unlogged window day to stay predicted")
	}
}

func TestClassifyIsolatedPeriodDayStaysPeriodOutsideRange(t *testing.T) {
	t.Parallel()

	// A lone flow record far from any run keeps isPeriod without being
	// corrected into a range.
	classifier := NewPhaseClassifier(recordMap(
		flowRecord("2026-01-01", models.FlowMedium),
		periodEndRecord("2026-01-03", models.FlowLight),
		flowRecord("2026-01-20", models.FlowLight),
	))

	info := classifier.Classify(mustParseDay(t, "2026-01-20"))
	if !info.IsPeriod {
		t.Fatal("expected isolated flow day to keep isPeriod=true")
	}
	if !info.IsPeriodStart {
		t.Fatal("expected isolated flow day to be its own start")
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	t.Parallel()

	classifier := NewPhaseClassifier(recordMap(
		flowRecord("2026-01-01", models.FlowMedium),
		flowRecord("2026-01-02", models.FlowMedium),
		periodEndRecord("2026-01-04", models.FlowLight),
	))

	target := mustParseDay(t, "2026-01-03")
	first := classifier.Classify(target)
	second := classifier.Classify(target)

	if first.IsPeriod != second.IsPeriod ||
		first.IsPeriodStart != second.IsPeriodStart ||
		first.IsPeriodEnd != second.IsPeriodEnd ||
		first.IsInPeriodRange != second.IsInPeriodRange ||
		first.IsPredictedPeriod != second.IsPredictedPeriod ||
		first.IsFertile != second.IsFertile ||
		first.IsOvulation != second.IsOvulation {
		t.Fatalf("expected identical classification on repeat, got %+v then %+v", first, second)
	}
}

func TestClassifyMalformedDatesAreIgnored(t *testing.T) {
	t.Parallel()

	classifier := NewPhaseClassifier(recordMap(
		flowRecord("2026-01-01", models.FlowMedium),
		flowRecord("not-a-date", models.FlowHeavy),
	))

	if got := len(classifier.PeriodStarts()); got != 1 {
		t.Fatalf("expected one period start, got %d", got)
	}
	info := classifier.Classify(mustParseDay(t, "2026-01-01"))
	if !info.IsPeriodStart {
		t.Fatal("expected valid record to classify normally alongside a malformed one")
	}
}
