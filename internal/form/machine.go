package form

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/karbonfx/leadform/internal/airtable"
	"github.com/karbonfx/leadform/internal/attribution"
	apperrors "github.com/karbonfx/leadform/internal/errors"
	"github.com/karbonfx/leadform/internal/ipinfo"
)

// ErrSubmissionInFlight indicates a submit arrived while a previous one for
// the same session had not settled yet.
var ErrSubmissionInFlight = errors.New("submission already in progress")

var transitionRecorder = func(from, to string) {}

// RegisterTransitionRecorder allows external packages to observe step transitions.
func RegisterTransitionRecorder(recorder func(from, to string)) {
	if recorder == nil {
		transitionRecorder = func(string, string) {}
		return
	}

	transitionRecorder = recorder
}

// submitGuardTTL bounds how long a submit may hold the in-flight guard.
// It covers the store write with its retries and backoff; past it the
// guard is assumed orphaned by a crash and the next submit proceeds.
const submitGuardTTL = 30 * time.Second

// Upserter is the slice of the record store client the machine depends on.
type Upserter interface {
	Upsert(ctx context.Context, fields map[string]string, recordID string) (*airtable.UpsertResult, error)
}

// Config tunes machine behavior.
type Config struct {
	// PhonePrefix is the fixed national code prepended to the stored
	// 10-digit number on transmission.
	PhonePrefix string `mapstructure:"phone_prefix"`
	// SuccessDelay is how long the terminal commit lingers before the
	// session flips to success, giving the UI its settle animation.
	SuccessDelay time.Duration `mapstructure:"success_delay"`
}

// Machine drives form sessions through the wizard. It is the only writer of
// session state; the record store and IP oracle are stateless collaborators.
type Machine struct {
	storage Storage
	store   Upserter
	ips     ipinfo.Resolver
	sync    SyncEnqueuer
	log     *slog.Logger
	cfg     Config
	now     func() time.Time
	wait    func(ctx context.Context, d time.Duration)
}

// NewMachine constructs a Machine.
func NewMachine(storage Storage, store Upserter, ips ipinfo.Resolver, log *slog.Logger, cfg Config) *Machine {
	if log == nil {
		log = slog.Default()
	}
	if cfg.PhonePrefix == "" {
		cfg.PhonePrefix = "+91"
	}

	return &Machine{
		storage: storage,
		store:   store,
		ips:     ips,
		log:     log,
		cfg:     cfg,
		now:     time.Now,
		wait:    sleepCtx,
	}
}

// Create opens a fresh session in the first step. The visitor's IP is
// resolved once here, best-effort, like the page does on mount.
func (m *Machine) Create(ctx context.Context, page attribution.PageContext) (*Session, error) {
	ip := ipinfo.UnknownIP
	if m.ips != nil {
		ip = m.ips.Resolve(ctx)
	}

	session := &Session{
		ID:        uuid.NewString(),
		Step:      StepOneInput,
		Errors:    ValidationErrors{},
		IP:        ip,
		Page:      page,
		CreatedAt: m.now().UTC(),
	}

	if err := m.storage.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// Get returns the current session snapshot.
func (m *Machine) Get(ctx context.Context, id string) (*Session, error) {
	return m.storage.Get(ctx, id)
}

// UpdateField merges a single field value into the session. Only that
// field's validation error is cleared; nothing else is validated here.
func (m *Machine) UpdateField(ctx context.Context, id string, field Field, value string) (*Session, error) {
	session, err := m.storage.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.Step == StepSuccess {
		return nil, apperrors.NewStateError("session already completed")
	}

	if !session.Data.Set(field, value) {
		return nil, apperrors.NewValidationError("unknown field")
	}

	delete(session.Errors, field)

	if err := m.storage.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// SubmitStep1 validates the contact fields and captures the partial lead.
// A store failure is logged and swallowed: losing a backend write must not
// stop the visitor from finishing the wizard.
func (m *Machine) SubmitStep1(ctx context.Context, id string) (*Session, error) {
	session, err := m.storage.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.Step != StepOneInput {
		return nil, apperrors.NewStateError("step one is not active")
	}
	if session.submitInFlight(m.now()) {
		return nil, ErrSubmissionInFlight
	}

	if errs := ValidateStep1(session.Data); len(errs) > 0 {
		session.Errors = errs
		if err := m.storage.Save(ctx, session); err != nil {
			return nil, err
		}
		return session, nil
	}

	session.Errors = ValidationErrors{}
	session.SubmittingUntil = m.now().Add(submitGuardTTL)
	if err := m.storage.Save(ctx, session); err != nil {
		return nil, err
	}

	attr := attribution.Snapshot(session.Page, session.IP, m.now())
	fields := BuildStep1Fields(session.Data, attr, m.cfg.PhonePrefix)

	result, upsertErr := m.store.Upsert(ctx, fields, "")
	if upsertErr != nil {
		m.log.Error("failed to capture partial lead",
			slog.String("session_id", session.ID),
			slog.Any("error", upsertErr),
		)
		if m.sync != nil {
			if enqueueErr := m.sync.EnqueueLeadSync(ctx, session.ID); enqueueErr != nil {
				m.log.Error("failed to queue lead sync",
					slog.String("session_id", session.ID),
					slog.Any("error", enqueueErr),
				)
			}
		}
	} else {
		session.RecordID = result.RecordID
		m.log.Info("partial lead captured",
			slog.String("session_id", session.ID),
			slog.String("record_id", result.RecordID),
		)
	}

	session.SubmittingUntil = time.Time{}
	if err := m.transition(ctx, session, StepTwoInput); err != nil {
		return nil, err
	}

	return session, nil
}

// SubmitStep2 validates the qualification fields and commits the complete
// lead. Unlike step one this is the terminal write: a store failure blocks
// the transition and is surfaced so the visitor can retry.
func (m *Machine) SubmitStep2(ctx context.Context, id string) (*Session, error) {
	session, err := m.storage.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.Step != StepTwoInput {
		return nil, apperrors.NewStateError("step two is not active")
	}
	if session.submitInFlight(m.now()) {
		return nil, ErrSubmissionInFlight
	}

	if errs := ValidateStep2(session.Data); len(errs) > 0 {
		session.Errors = errs
		if err := m.storage.Save(ctx, session); err != nil {
			return nil, err
		}
		return session, nil
	}

	session.Errors = ValidationErrors{}
	session.SubmittingUntil = m.now().Add(submitGuardTTL)
	if err := m.storage.Save(ctx, session); err != nil {
		return nil, err
	}

	attr := attribution.Snapshot(session.Page, session.IP, m.now())
	fields := BuildCompleteFields(session.Data, attr, m.cfg.PhonePrefix)

	// Update the step-1 record when we hold its handle; create from
	// scratch when the earlier write failed.
	result, upsertErr := m.store.Upsert(ctx, fields, session.RecordID)
	if upsertErr != nil {
		m.log.Error("lead submission failed",
			slog.String("session_id", session.ID),
			slog.Any("error", upsertErr),
		)

		session.SubmittingUntil = time.Time{}
		if saveErr := m.storage.Save(ctx, session); saveErr != nil {
			return nil, saveErr
		}
		return session, upsertErr
	}

	if session.RecordID == "" {
		session.RecordID = result.RecordID
	}

	m.log.Info("lead submitted",
		slog.String("session_id", session.ID),
		slog.String("record_id", session.RecordID),
	)

	m.wait(ctx, m.cfg.SuccessDelay)

	session.SubmittingUntil = time.Time{}
	if err := m.transition(ctx, session, StepSuccess); err != nil {
		return nil, err
	}

	return session, nil
}

// GoBack returns from step two to step one, clearing validation errors but
// keeping every entered value.
func (m *Machine) GoBack(ctx context.Context, id string) (*Session, error) {
	session, err := m.storage.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.Step != StepTwoInput {
		return nil, apperrors.NewStateError("cannot go back from the current step")
	}

	session.Errors = ValidationErrors{}
	if err := m.transition(ctx, session, StepOneInput); err != nil {
		return nil, err
	}

	return session, nil
}

func (m *Machine) transition(ctx context.Context, session *Session, to Step) error {
	if !IsTransitionAllowed(session.Step, to) {
		return apperrors.NewStateError("invalid step transition")
	}

	transitionRecorder(string(session.Step), string(to))
	session.Step = to

	return m.storage.Save(ctx, session)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
