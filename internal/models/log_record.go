package models

import "time"

const DateLayout = "2006-01-02"

const (
	FlowNone   = "none"
	FlowLight  = "light"
	FlowMedium = "medium"
	FlowHeavy  = "heavy"
)

// LogRecord is the single daily health entry. The calendar date string is the
// primary key for the tracker; the row is replaced wholesale on every save.
type LogRecord struct {
	ID                  uint      `gorm:"primaryKey" json:"-"`
	Date                string    `gorm:"type:text;not null;uniqueIndex" json:"date"`
	PeriodFlow          string    `gorm:"not null;default:none" json:"periodFlow"`
	IsPeriodEnd         bool      `gorm:"not null;default:false" json:"isPeriodEnd"`
	Symptoms            []string  `gorm:"serializer:json" json:"symptoms"`
	Mood                string    `json:"mood,omitempty"`
	SexualActivityCount int       `gorm:"not null;default:0" json:"sexualActivityCount"`
	ProtectionUsed      *bool     `json:"protectionUsed,omitempty"`
	Orgasm              *bool     `json:"orgasm,omitempty"`
	TookPill            *bool     `json:"tookPill,omitempty"`
	Notes               string    `json:"notes,omitempty"`
	CreatedAt           time.Time `json:"-"`
	UpdatedAt           time.Time `json:"-"`
}

// IsPeriodDay reports whether the record marks a flow day.
func (record LogRecord) IsPeriodDay() bool {
	return record.PeriodFlow != "" && record.PeriodFlow != FlowNone
}

// Day parses the record's date key. The second return value is false for
// malformed keys, which callers skip rather than fail on.
func (record LogRecord) Day() (time.Time, bool) {
	day, err := time.Parse(DateLayout, record.Date)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

func IsValidFlow(flow string) bool {
	switch flow {
	case FlowNone, FlowLight, FlowMedium, FlowHeavy:
		return true
	default:
		return false
	}
}

func DefaultSymptomTags() []string {
	return []string{
		"cramps",
		"headache",
		"bloating",
		"fatigue",
		"breast_tenderness",
		"acne",
		"back_pain",
		"nausea",
		"spotting",
		"irritability",
		"insomnia",
		"food_cravings",
		"diarrhea",
		"constipation",
	}
}

func DefaultMoodTags() []string {
	return []string{
		"happy",
		"calm",
		"sad",
		"anxious",
		"irritable",
		"energetic",
		"tired",
	}
}
