package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/trainermatch-backend/internal/domain"
	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
	"github.com/yungbote/trainermatch-backend/internal/services"
)

func isolatedEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "app.db"))
	t.Setenv("PORT", "0")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("OTEL_ENABLED", "false")
	t.Setenv("WORKER_POLL_SECONDS", "1")
	for _, k := range []string{
		"REDIS_ADDR", "UPLOAD_GCS_BUCKET_NAME", "STORAGE_EMULATOR_HOST", "OBJECT_STORAGE_MODE",
		"SENDGRID_API_KEY", "TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_API_KEY", "TWILIO_API_KEY_SECRET",
	} {
		t.Setenv(k, "")
	}
}

func TestAPIRunsEmbeddedWorkerWithMemoryQueue(t *testing.T) {
	isolatedEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := New(ctx, logger.Nop())
	require.NoError(t, err)
	defer a.Close()
	require.NotNil(t, a.Worker)

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	dbc := dbctx.Context{Ctx: ctx}
	job, err := a.Services.Notification.Enqueue(dbc, services.NotificationRequest{
		Type:      types.NotificationEmail,
		Recipient: "trainer@example.com",
		Message:   "You have been matched",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, err := a.Services.Notification.Get(dbc, job.ID)
		return err == nil && got.Status == types.JobStatusCompleted
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestStandaloneWorkerRequiresRedis(t *testing.T) {
	isolatedEnv(t)
	_, err := NewWorker(context.Background(), logger.Nop())
	require.ErrorContains(t, err, "REDIS_ADDR is required")
}
