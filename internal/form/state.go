package form

import (
	"time"

	"github.com/karbonfx/leadform/internal/attribution"
)

// Step represents a wizard state.
type Step string

const (
	// StepOneInput collects contact details.
	StepOneInput Step = "step1_input"
	// StepTwoInput collects business-qualification answers.
	StepTwoInput Step = "step2_input"
	// StepSuccess is the terminal state after a committed submission.
	StepSuccess Step = "success"
)

// Session captures one visitor's progress through the wizard. The session
// exclusively owns its data, errors, step and record handle; it expires with
// its storage TTL, the server analog of closing the page.
type Session struct {
	ID         string                  `json:"id"`
	Step       Step                    `json:"step"`
	Data       Data                    `json:"data"`
	Errors     ValidationErrors        `json:"errors,omitempty"`
	RecordID   string                  `json:"record_id,omitempty"`
	IP         string                  `json:"ip,omitempty"`
	Page       attribution.PageContext `json:"page"`
	// SubmittingUntil guards against overlapping submits. Zero means
	// idle; a deadline in the past is a submit that died mid-write and
	// the guard self-clears.
	SubmittingUntil time.Time `json:"submitting_until,omitempty"`
	CreatedAt  time.Time               `json:"created_at"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

func (s *Session) submitInFlight(now time.Time) bool {
	return now.Before(s.SubmittingUntil)
}
