// Package handlers holds the asynq task handlers.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/karbonfx/leadform/internal/form"
	"github.com/karbonfx/leadform/internal/jobs"
)

// LeadSyncHandler replays a failed lead capture against the record store.
type LeadSyncHandler struct {
	machine *form.Machine
	log     *slog.Logger
}

func NewLeadSyncHandler(machine *form.Machine, log *slog.Logger) *LeadSyncHandler {
	if log == nil {
		log = slog.Default()
	}
	return &LeadSyncHandler{machine: machine, log: log}
}

// ProcessTask runs one sync attempt. Returning an error hands the task back
// to asynq for its next retry.
func (h *LeadSyncHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload jobs.LeadSyncPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.log.ErrorContext(ctx, "lead sync: failed to decode payload",
			slog.String("task_type", t.Type()),
			slog.Any("error", err),
		)
		// A malformed payload never gets better; drop it.
		return nil
	}

	if err := h.machine.SyncLead(ctx, payload.SessionID); err != nil {
		h.log.WarnContext(ctx, "lead sync attempt failed",
			slog.String("session_id", payload.SessionID),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}
