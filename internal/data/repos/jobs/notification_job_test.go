package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/trainermatch-backend/internal/data/repos/testutil"
	types "github.com/yungbote/trainermatch-backend/internal/domain"
	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
)

func TestNotificationJobLifecycle(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewNotificationJobRepo(db, testutil.Logger(t))

	job, err := repo.Create(dbc, &types.NotificationJob{
		Type:      types.NotificationSMS,
		Recipient: "+15550001111",
		Message:   "Session tomorrow",
	})
	require.NoError(t, err)
	assert.Equal(t, types.JobStatusQueued, job.Status)

	queued, err := repo.ListByStatus(dbc, types.JobStatusQueued, 10)
	require.NoError(t, err)
	assert.Len(t, queued, 1)

	staleBefore := time.Now().UTC().Add(-time.Minute)
	claimed, outcome, err := repo.Claim(dbc, job.ID, staleBefore)
	require.NoError(t, err)
	require.Equal(t, ClaimAcquired, outcome)
	assert.Equal(t, types.JobStatusProcessing, claimed.Status)
	assert.Equal(t, 1, claimed.Attempts)
	require.NotNil(t, claimed.HeartbeatAt)

	_, outcome, err = repo.Claim(dbc, job.ID, staleBefore)
	require.NoError(t, err)
	assert.Equal(t, ClaimBusy, outcome, "a heartbeated job cannot be claimed twice")

	_, outcome, err = repo.Claim(dbc, uuid.New(), staleBefore)
	require.NoError(t, err)
	assert.Equal(t, ClaimSkipped, outcome)

	require.NoError(t, repo.UpdateFields(dbc, job.ID, map[string]interface{}{"status": types.JobStatusCompleted}))
	got, err := repo.GetByID(dbc, job.ID)
	require.NoError(t, err)
	assert.Equal(t, types.JobStatusCompleted, got.Status)
	assert.Equal(t, 1, got.Attempts)

	_, outcome, err = repo.Claim(dbc, job.ID, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, ClaimSkipped, outcome, "finished jobs are never reclaimed")
}

func setHeartbeat(t *testing.T, repo NotificationJobRepo, dbc dbctx.Context, id uuid.UUID, at time.Time) {
	t.Helper()
	require.NoError(t, repo.UpdateFields(dbc, id, map[string]interface{}{"heartbeat_at": at}))
}

func TestNotificationJobStaleLease(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.Context{Ctx: context.Background()}
	repo := NewNotificationJobRepo(db, testutil.Logger(t))
	now := time.Now().UTC()
	lease := time.Minute

	stuck, err := repo.Create(dbc, &types.NotificationJob{Type: "sms", Recipient: "+1", Message: "m"})
	require.NoError(t, err)
	live, err := repo.Create(dbc, &types.NotificationJob{Type: "sms", Recipient: "+2", Message: "m"})
	require.NoError(t, err)
	done, err := repo.Create(dbc, &types.NotificationJob{Type: "sms", Recipient: "+3", Message: "m", Status: types.JobStatusCompleted})
	require.NoError(t, err)
	for _, id := range []uuid.UUID{stuck.ID, live.ID} {
		_, outcome, err := repo.Claim(dbc, id, now.Add(-lease))
		require.NoError(t, err)
		require.Equal(t, ClaimAcquired, outcome)
	}
	setHeartbeat(t, repo, dbc, stuck.ID, now.Add(-5*time.Minute))
	setHeartbeat(t, repo, dbc, live.ID, now.Add(-5*time.Minute))
	require.NoError(t, repo.Heartbeat(dbc, []uuid.UUID{live.ID, done.ID}))

	n, err := repo.ResetStale(dbc, now.Add(-lease))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "only the job without a fresh heartbeat is reset")

	got, err := repo.GetByID(dbc, live.ID)
	require.NoError(t, err)
	assert.Equal(t, types.JobStatusProcessing, got.Status)

	again, outcome, err := repo.Claim(dbc, stuck.ID, now.Add(-lease))
	require.NoError(t, err)
	require.Equal(t, ClaimAcquired, outcome)
	assert.Equal(t, 2, again.Attempts)

	got, err = repo.GetByID(dbc, done.ID)
	require.NoError(t, err)
	assert.Equal(t, types.JobStatusCompleted, got.Status)
	assert.Nil(t, got.HeartbeatAt)
}

func TestNotificationJobClaimTakesOverStaleProcessing(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.Context{Ctx: context.Background()}
	repo := NewNotificationJobRepo(db, testutil.Logger(t))
	now := time.Now().UTC()

	job, err := repo.Create(dbc, &types.NotificationJob{Type: "email", Recipient: "a@example.com", Message: "m"})
	require.NoError(t, err)
	_, outcome, err := repo.Claim(dbc, job.ID, now.Add(-time.Minute))
	require.NoError(t, err)
	require.Equal(t, ClaimAcquired, outcome)
	setHeartbeat(t, repo, dbc, job.ID, now.Add(-10*time.Minute))

	taken, outcome, err := repo.Claim(dbc, job.ID, now.Add(-time.Minute))
	require.NoError(t, err)
	require.Equal(t, ClaimAcquired, outcome)
	assert.Equal(t, 2, taken.Attempts)
}
