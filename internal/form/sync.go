package form

import (
	"context"
	"errors"
	"log/slog"

	"github.com/karbonfx/leadform/internal/attribution"
)

// SyncEnqueuer schedules a background re-attempt of a failed lead capture.
type SyncEnqueuer interface {
	EnqueueLeadSync(ctx context.Context, sessionID string) error
}

// SetSyncEnqueuer attaches the background sync queue. Without one, a failed
// step-one capture is simply lost until the final submit recreates it.
func (m *Machine) SetSyncEnqueuer(sync SyncEnqueuer) {
	m.sync = sync
}

// SyncLead re-attempts the record store write for a session whose earlier
// capture failed. It is driven by the background worker, so an error return
// means "retry later".
func (m *Machine) SyncLead(ctx context.Context, id string) error {
	session, err := m.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			// The session expired before the sync ran. Nothing to do.
			return nil
		}
		return err
	}

	if session.RecordID != "" {
		return nil
	}

	attr := attribution.Snapshot(session.Page, session.IP, m.now())
	fields := BuildStep1Fields(session.Data, attr, m.cfg.PhonePrefix)
	if session.Step == StepSuccess {
		fields = BuildCompleteFields(session.Data, attr, m.cfg.PhonePrefix)
	}

	result, err := m.store.Upsert(ctx, fields, "")
	if err != nil {
		return err
	}

	session.RecordID = result.RecordID
	if err := m.storage.Save(ctx, session); err != nil {
		return err
	}

	m.log.Info("lead synced from queue",
		slog.String("session_id", session.ID),
		slog.String("record_id", session.RecordID),
	)
	return nil
}
