package form

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/karbonfx/leadform/internal/airtable"
)

type recordingEnqueuer struct {
	sessionIDs []string
}

func (r *recordingEnqueuer) EnqueueLeadSync(ctx context.Context, sessionID string) error {
	r.sessionIDs = append(r.sessionIDs, sessionID)
	return nil
}

func TestSubmitStep1_StoreFailureQueuesSync(t *testing.T) {
	machine, up, _ := newTestMachine(t)
	queue := &recordingEnqueuer{}
	machine.SetSyncEnqueuer(queue)

	session := startedSession(t, machine)
	fillStep1(t, machine, session.ID)

	up.On("Upsert", mock.Anything, mock.Anything, "").Return(nil, errStoreDown).Once()

	result, err := machine.SubmitStep1(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, StepTwoInput, result.Step)
	assert.Equal(t, []string{session.ID}, queue.sessionIDs)
}

func TestSyncLead_BackfillsRecordID(t *testing.T) {
	machine, up, _ := newTestMachine(t)
	session := startedSession(t, machine)
	fillStep1(t, machine, session.ID)

	up.On("Upsert", mock.Anything, mock.Anything, "").Return(nil, errStoreDown).Once()
	_, err := machine.SubmitStep1(context.Background(), session.ID)
	require.NoError(t, err)

	up.On("Upsert", mock.Anything, mock.Anything, "").Return(&airtable.UpsertResult{RecordID: "recSYNC"}, nil).Once()
	require.NoError(t, machine.SyncLead(context.Background(), session.ID))

	got, err := machine.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, "recSYNC", got.RecordID)
	up.AssertExpectations(t)
}

func TestSyncLead_AlreadyCapturedIsNoop(t *testing.T) {
	machine, up, _ := newTestMachine(t)
	session := startedSession(t, machine)
	fillStep1(t, machine, session.ID)

	up.On("Upsert", mock.Anything, mock.Anything, "").Return(&airtable.UpsertResult{RecordID: "rec1"}, nil).Once()
	_, err := machine.SubmitStep1(context.Background(), session.ID)
	require.NoError(t, err)

	require.NoError(t, machine.SyncLead(context.Background(), session.ID))
	up.AssertExpectations(t)
}

func TestSyncLead_ExpiredSessionIsNoop(t *testing.T) {
	machine, _, _ := newTestMachine(t)
	assert.NoError(t, machine.SyncLead(context.Background(), "gone"))
}
