package services

import (
	"errors"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/lunaria-app/lunaria/internal/models"
)

const MaxNotesLength = 2000

var (
	ErrInvalidFlow          = errors.New("invalid period flow")
	ErrPeriodEndWithoutFlow = errors.New("period end requires flow")
	ErrNegativeActivity     = errors.New("sexual activity count must be non-negative")
)

// DayEntryInput is the structured form payload for one date. Normalize
// enforces the record invariants before anything reaches the store.
type DayEntryInput struct {
	PeriodFlow          string   `json:"periodFlow"`
	IsPeriodEnd         bool     `json:"isPeriodEnd"`
	Symptoms            []string `json:"symptoms"`
	Mood                string   `json:"mood"`
	SexualActivityCount int      `json:"sexualActivityCount"`
	ProtectionUsed      *bool    `json:"protectionUsed"`
	Orgasm              *bool    `json:"orgasm"`
	TookPill            *bool    `json:"tookPill"`
	Notes               string   `json:"notes"`
}

// NormalizeDayEntryInput validates the payload and clears fields that are
// undefined for the given shape: protection and orgasm exist only alongside
// recorded activity, and a period end flag exists only alongside flow.
func NormalizeDayEntryInput(input DayEntryInput) (DayEntryInput, error) {
	input.PeriodFlow = strings.TrimSpace(input.PeriodFlow)
	if input.PeriodFlow == "" {
		input.PeriodFlow = models.FlowNone
	}
	if !models.IsValidFlow(input.PeriodFlow) {
		return input, ErrInvalidFlow
	}
	if input.IsPeriodEnd && input.PeriodFlow == models.FlowNone {
		return input, ErrPeriodEndWithoutFlow
	}
	if input.SexualActivityCount < 0 {
		return input, ErrNegativeActivity
	}
	if input.SexualActivityCount == 0 {
		input.ProtectionUsed = nil
		input.Orgasm = nil
	}

	input.Symptoms = normalizeTagSet(input.Symptoms)
	input.Mood = strings.TrimSpace(input.Mood)
	input.Notes = truncateNotes(input.Notes)
	return input, nil
}

// truncateNotes caps the notes length without cutting a multi-byte rune in
// half.
func truncateNotes(notes string) string {
	if len(notes) <= MaxNotesLength {
		return notes
	}
	cut := MaxNotesLength
	for cut > 0 && !utf8.RuneStart(notes[cut]) {
		cut--
	}
	return notes[:cut]
}

// Record builds the full replacement record for the date. Saves are wholesale:
// the previous record for the date, if any, is superseded entirely.
func (input DayEntryInput) Record(date string) models.LogRecord {
	return models.LogRecord{
		Date:                date,
		PeriodFlow:          input.PeriodFlow,
		IsPeriodEnd:         input.IsPeriodEnd,
		Symptoms:            input.Symptoms,
		Mood:                input.Mood,
		SexualActivityCount: input.SexualActivityCount,
		ProtectionUsed:      input.ProtectionUsed,
		Orgasm:              input.Orgasm,
		TookPill:            input.TookPill,
		Notes:               input.Notes,
	}
}

func normalizeTagSet(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		seen[trimmed] = struct{}{}
	}

	normalized := make([]string, 0, len(seen))
	for tag := range seen {
		normalized = append(normalized, tag)
	}
	sort.Strings(normalized)
	return normalized
}
