// Package jobs queues and processes background lead work through asynq.
package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
)

// Manager describes the minimal queue operations needed by the application.
type Manager interface {
	Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

type manager struct {
	client *asynq.Client
	log    *slog.Logger
}

// NewManager builds a Manager backed by an asynq client.
func NewManager(redisOpt asynq.RedisConnOpt, log *slog.Logger) Manager {
	return &manager{
		client: asynq.NewClient(redisOpt),
		log:    log,
	}
}

func (m *manager) Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	return m.client.EnqueueContext(ctx, task, opts...)
}

func (m *manager) Close() error {
	return m.client.Close()
}

// LeadSyncEnqueuer adapts the Manager to the form machine's sync hook.
type LeadSyncEnqueuer struct {
	manager Manager
	log     *slog.Logger
}

func NewLeadSyncEnqueuer(manager Manager, log *slog.Logger) *LeadSyncEnqueuer {
	if log == nil {
		log = slog.Default()
	}
	return &LeadSyncEnqueuer{manager: manager, log: log}
}

// EnqueueLeadSync schedules a background re-attempt for a session's lead.
func (e *LeadSyncEnqueuer) EnqueueLeadSync(ctx context.Context, sessionID string) error {
	task, err := NewLeadSyncTask(sessionID)
	if err != nil {
		return err
	}

	info, err := e.manager.Enqueue(ctx, task)
	if err != nil {
		return err
	}

	e.log.Info("lead sync queued",
		slog.String("session_id", sessionID),
		slog.String("task_id", info.ID),
	)
	return nil
}
