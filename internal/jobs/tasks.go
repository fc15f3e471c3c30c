package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// TaskTypeLeadSync re-attempts a record store write that failed during the
// synchronous request.
const TaskTypeLeadSync = "lead:sync"

// QueueLeads carries all lead-related background work.
const QueueLeads = "leads"

type LeadSyncPayload struct {
	SessionID string `json:"session_id"`
}

// NewLeadSyncTask builds a sync task for the given session. asynq owns the
// retry schedule; the deadline just keeps a dead Airtable from pinning a
// worker slot.
func NewLeadSyncTask(sessionID string) (*asynq.Task, error) {
	payload, err := json.Marshal(LeadSyncPayload{SessionID: sessionID})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TaskTypeLeadSync, payload,
		asynq.Queue(QueueLeads),
		asynq.MaxRetry(8),
		asynq.Timeout(30*time.Second),
	), nil
}
