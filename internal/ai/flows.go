// Package ai wraps the hosted text-generation model in stateless
// request/response advice flows. Each flow validates its structured input,
// renders a prompt template, and post-processes the model text so that the
// wellness disclaimer is always present. A failed generation degrades to a
// fixed fallback message instead of surfacing an error.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// Disclaimer is appended to any response that does not already carry the
// marker phrase. The cycle flow checks for the marker with a case-sensitive
// exact-substring match; the other flows accept any "consult" wording.
const (
	Disclaimer       = "This is general wellness information, not medical advice. Please consult a healthcare professional for personal medical concerns."
	disclaimerMarker = "not medical advice"

	FallbackMessage = "Advice is unavailable right now. Please try again in a few minutes."
)

var (
	ErrMissingLastPeriodStart = errors.New("last period start is required")
	ErrInvalidCycleLength     = errors.New("cycle length must be between 15 and 60 days")
	ErrNoSymptoms             = errors.New("at least one symptom is required")
	ErrInvalidMonthsTrying    = errors.New("months trying must be non-negative")
)

type CycleInsightInput struct {
	LastPeriodStart  string   `json:"lastPeriodStart"`
	CycleLengthDays  int      `json:"cycleLengthDays"`
	PeriodLengthDays int      `json:"periodLengthDays"`
	Symptoms         []string `json:"symptoms"`
	Concerns         string   `json:"concerns"`
}

type SymptomAdviceInput struct {
	Symptoms   []string `json:"symptoms"`
	Mood       string   `json:"mood"`
	PeriodFlow string   `json:"periodFlow"`
	Notes      string   `json:"notes"`
}

type ConceptionAdviceInput struct {
	LastPeriodStart string `json:"lastPeriodStart"`
	CycleLengthDays int    `json:"cycleLengthDays"`
	MonthsTrying    int    `json:"monthsTrying"`
}

// AdviceService runs the advice flows. A nil generator (no API key
// configured) makes every flow return the fallback message.
type AdviceService struct {
	generator TextGenerator
}

func NewAdviceService(generator TextGenerator) *AdviceService {
	return &AdviceService{generator: generator}
}

func (service *AdviceService) CycleInsight(ctx context.Context, input CycleInsightInput) (string, error) {
	if err := validateCycleInsightInput(input); err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(
		"You are a supportive menstrual health assistant. The user's last period started on %s, "+
			"their typical cycle length is %d days and period length is %d days. "+
			"Recent symptoms: %s. Concerns: %s. "+
			"Give a short, friendly overview of what phase of the cycle they are likely in and what to expect "+
			"in the coming days. Keep it under 200 words.",
		input.LastPeriodStart,
		input.CycleLengthDays,
		input.PeriodLengthDays,
		joinOrNone(input.Symptoms),
		orNone(input.Concerns),
	)

	return service.run(ctx, prompt, ensureDisclaimerExact), nil
}

func (service *AdviceService) SymptomAdvice(ctx context.Context, input SymptomAdviceInput) (string, error) {
	if len(input.Symptoms) == 0 {
		return "", ErrNoSymptoms
	}

	prompt := fmt.Sprintf(
		"You are a supportive menstrual health assistant. The user logged these symptoms today: %s. "+
			"Mood: %s. Period flow: %s. Notes: %s. "+
			"Suggest gentle self-care measures that may ease these symptoms. Keep it under 200 words.",
		strings.Join(input.Symptoms, ", "),
		orNone(input.Mood),
		orNone(input.PeriodFlow),
		orNone(input.Notes),
	)

	return service.run(ctx, prompt, ensureDisclaimerKeyword), nil
}

func (service *AdviceService) ConceptionAdvice(ctx context.Context, input ConceptionAdviceInput) (string, error) {
	if err := validateConceptionInput(input); err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(
		"You are a supportive fertility planning assistant. The user's last period started on %s with a "+
			"typical cycle length of %d days, and they have been trying to conceive for %d months. "+
			"Explain when their fertile window likely falls and share practical conception planning tips. "+
			"Keep it under 250 words.",
		input.LastPeriodStart,
		input.CycleLengthDays,
		input.MonthsTrying,
	)

	return service.run(ctx, prompt, ensureDisclaimerKeyword), nil
}

func (service *AdviceService) run(ctx context.Context, prompt string, postProcess func(string) string) string {
	if service.generator == nil {
		return FallbackMessage
	}

	text, err := service.generator.GenerateText(ctx, prompt)
	if err != nil {
		log.Printf("advice generation failed: %v", err)
		return FallbackMessage
	}
	return postProcess(text)
}

func validateCycleInsightInput(input CycleInsightInput) error {
	if _, err := time.Parse("2006-01-02", input.LastPeriodStart); err != nil {
		return ErrMissingLastPeriodStart
	}
	if input.CycleLengthDays < 15 || input.CycleLengthDays > 60 {
		return ErrInvalidCycleLength
	}
	return nil
}

func validateConceptionInput(input ConceptionAdviceInput) error {
	if _, err := time.Parse("2006-01-02", input.LastPeriodStart); err != nil {
		return ErrMissingLastPeriodStart
	}
	if input.CycleLengthDays < 15 || input.CycleLengthDays > 60 {
		return ErrInvalidCycleLength
	}
	if input.MonthsTrying < 0 {
		return ErrInvalidMonthsTrying
	}
	return nil
}

// ensureDisclaimerExact appends the disclaimer unless the marker phrase is
// already present, matched case-sensitively.
func ensureDisclaimerExact(text string) string {
	if strings.Contains(text, disclaimerMarker) {
		return text
	}
	return text + "\n\n" + Disclaimer
}

// ensureDisclaimerKeyword appends the disclaimer unless the text already
// tells the user to consult a professional, in any casing.
func ensureDisclaimerKeyword(text string) string {
	if strings.Contains(strings.ToLower(text), "consult") {
		return text
	}
	return text + "\n\n" + Disclaimer
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}

func orNone(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "none"
	}
	return trimmed
}
