package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/trainermatch-backend/internal/data/repos"
	"github.com/yungbote/trainermatch-backend/internal/data/repos/testutil"
	types "github.com/yungbote/trainermatch-backend/internal/domain"
	httpH "github.com/yungbote/trainermatch-backend/internal/http/handlers"
	httpMW "github.com/yungbote/trainermatch-backend/internal/http/middleware"
	"github.com/yungbote/trainermatch-backend/internal/jobs/queue"
	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
	"github.com/yungbote/trainermatch-backend/internal/services"
)

type memBucket struct {
	mu   sync.Mutex
	keys []string
}

func (b *memBucket) UploadFile(dbc dbctx.Context, key, contentType string, file io.Reader) error {
	if _, err := io.Copy(io.Discard, file); err != nil {
		return err
	}
	b.mu.Lock()
	b.keys = append(b.keys, key)
	b.mu.Unlock()
	return nil
}
func (b *memBucket) DeleteFile(dbctx.Context, string) error { return nil }
func (b *memBucket) PublicURL(key string) string             { return "https://cdn.test/" + key }
func (b *memBucket) Close() error                            { return nil }

type stack struct {
	db     *gorm.DB
	router *gin.Engine
	queue  *queue.Memory
	bucket *memBucket
}

func newStack(t *testing.T) *stack {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	q := queue.NewMemory()
	bucket := &memBucket{}

	userRepo := repos.NewUserRepo(db, log)
	vendorRepo := repos.NewVendorRepo(db, log)
	collegeRepo := repos.NewCollegeRepo(db, log)
	trainerRepo := repos.NewTrainerRepo(db, log)
	reqRepo := repos.NewRequirementRepo(db, log)
	matchRepo := repos.NewMatchRepo(db, log)

	auth := services.NewAuthService(db, log, userRepo, vendorRepo, "router-test-secret", time.Hour)
	notes := services.NewNotificationService(db, log, repos.NewNotificationJobRepo(db, log), q)
	dash := services.NewDashboardService(db, log, userRepo, vendorRepo, collegeRepo, trainerRepo, reqRepo, matchRepo, repos.NewSessionRepo(db, log))
	matches := services.NewMatchService(db, log, matchRepo, repos.NewProposalRepo(db, log), reqRepo, notes)

	router := NewRouter(RouterConfig{
		Log:                 log,
		AuthMiddleware:      httpMW.NewAuthMiddleware(log, auth),
		HealthHandler:       httpH.NewHealthHandler(nil),
		AuthHandler:         httpH.NewAuthHandler(log, auth),
		DashboardHandler:    httpH.NewDashboardHandler(log, dash),
		DocumentHandler:     httpH.NewDocumentHandler(log, services.NewDocumentService(db, log, repos.NewDocumentRepo(db, log), collegeRepo, reqRepo)),
		UploadHandler:       httpH.NewUploadHandler(log, services.NewUploadService(log, bucket)),
		RequirementHandler:  httpH.NewRequirementHandler(log, services.NewRequirementService(db, log, reqRepo), matches),
		MatchHandler:        httpH.NewMatchHandler(log, matches),
		TrainerHandler:      httpH.NewTrainerHandler(log, services.NewTrainerService(log, trainerRepo)),
		NotificationHandler: httpH.NewNotificationHandler(log, notes),
		ContactHandler:      httpH.NewContactHandler(log, services.NewContactService(log, repos.NewContactRepo(db, log))),
	})
	return &stack{db: db, router: router, queue: q, bucket: bucket}
}

func (s *stack) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *stack) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode(t, rec)["token"].(string)
}

func (s *stack) register(t *testing.T, body map[string]any) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (s *stack) createUser(t *testing.T, token string, body map[string]any) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/users", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (s *stack) superAdmin(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("root-password"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, s.db.Create(&types.User{Email: "root@trainermatch.test", Password: string(hash), Name: "Root", Role: types.RoleSuperAdmin}).Error)
	return s.login(t, "root@trainermatch.test", "root-password")
}

func TestHealthcheck(t *testing.T) {
	s := newStack(t)
	rec := s.do(t, http.MethodGet, "/healthcheck", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestAuthFlowAndRoleGates(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	v := testutil.SeedVendor(t, ctx, s.db, "Acme")

	rootToken := s.superAdmin(t)
	s.createUser(t, rootToken, map[string]any{"email": "va@acme.test", "password": "password-1", "name": "Vera", "role": "VENDOR_ADMIN", "vendorId": v.ID})
	s.register(t, map[string]any{"email": "tr@acme.test", "password": "password-2", "name": "Tara", "role": "TRAINER"})

	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{"email": "x@acme.test", "password": "password-3", "role": "SUPER_ADMIN"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	vendorToken := s.login(t, "va@acme.test", "password-1")
	trainerToken := s.login(t, "tr@acme.test", "password-2")

	rec = s.do(t, http.MethodGet, "/api/auth/me", vendorToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "va@acme.test", decode(t, rec)["user"].(map[string]any)["email"])

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/dashboard/stats", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/dashboard/stats", trainerToken, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/dashboard/analytics", vendorToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/dashboard/admin-stats", vendorToken, nil).Code)

	rec = s.do(t, http.MethodGet, "/api/dashboard/admin-stats", rootToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode(t, rec)["stats"].([]any)
	require.Len(t, stats, 4)
	assert.Equal(t, "Total Users", stats[0].(map[string]any)["name"])
	assert.EqualValues(t, 3, stats[0].(map[string]any)["value"])
}

func TestRegistrationCannotJoinAVendor(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	acme := testutil.SeedVendor(t, ctx, s.db, "Acme")
	rival := testutil.SeedVendor(t, ctx, s.db, "Rival")

	for _, role := range []string{"VENDOR_ADMIN", "VENDOR_USER"} {
		rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
			"email": "intruder-" + role + "@evil.test", "password": "password-1", "role": role, "vendorId": acme.ID,
		})
		assert.Equal(t, http.StatusForbidden, rec.Code, role)
	}
	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "sneaky@evil.test", "password": "password-1", "role": "TRAINER", "vendorId": acme.ID,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/users", "", map[string]any{
		"email": "anon@evil.test", "password": "password-1", "role": "VENDOR_ADMIN", "vendorId": acme.ID,
	}).Code)

	root := s.superAdmin(t)
	s.createUser(t, root, map[string]any{"email": "va@acme.test", "password": "password-1", "role": "VENDOR_ADMIN", "vendorId": acme.ID})
	admin := s.login(t, "va@acme.test", "password-1")

	rec = s.do(t, http.MethodPost, "/api/users", admin, map[string]any{"email": "spy@acme.test", "password": "password-2", "role": "VENDOR_ADMIN", "vendorId": rival.ID})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/users", admin, map[string]any{"email": "vu@acme.test", "password": "password-2"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)["user"].(map[string]any)
	assert.Equal(t, "VENDOR_USER", created["role"])
	assert.Equal(t, acme.ID.String(), created["vendorId"])

	s.register(t, map[string]any{"email": "tr@acme.test", "password": "password-3"})
	trainer := s.login(t, "tr@acme.test", "password-3")
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/users", trainer, map[string]any{"email": "x@acme.test", "password": "password-4"}).Code)
}

func TestDocumentRoutes(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	v := testutil.SeedVendor(t, ctx, s.db, "Acme")
	col := testutil.SeedCollege(t, ctx, s.db, v.ID, "North")

	root := s.superAdmin(t)
	s.createUser(t, root, map[string]any{"email": "va@acme.test", "password": "password-1", "role": "VENDOR_ADMIN", "vendorId": v.ID})
	s.createUser(t, root, map[string]any{"email": "vu@acme.test", "password": "password-2", "role": "VENDOR_USER", "vendorId": v.ID})
	s.register(t, map[string]any{"email": "tr@acme.test", "password": "password-3", "role": "TRAINER"})
	admin := s.login(t, "va@acme.test", "password-1")
	user := s.login(t, "vu@acme.test", "password-2")
	trainer := s.login(t, "tr@acme.test", "password-3")

	body := map[string]any{"title": "Syllabus", "type": "SYLLABUS", "fileUrl": "https://cdn.test/s.pdf", "collegeId": col.ID}
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/documents", trainer, body).Code)

	rec := s.do(t, http.MethodPost, "/api/documents", user, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	docID := decode(t, rec)["document"].(map[string]any)["id"].(string)

	rec = s.do(t, http.MethodGet, "/api/documents?searchTerm=sylla&collegeId="+col.ID.String(), trainer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["documents"], 1)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/documents?collegeId=nope", user, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, "/api/documents/"+docID, user, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/documents/"+docID, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/documents/"+docID, admin, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodDelete, "/api/documents/not-a-uuid", admin, nil).Code)
}

func TestUploadImageRoute(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	v := testutil.SeedVendor(t, ctx, s.db, "Acme")
	root := s.superAdmin(t)
	s.createUser(t, root, map[string]any{"email": "vu@acme.test", "password": "password-1", "role": "VENDOR_USER", "vendorId": v.ID})
	token := s.login(t, "vu@acme.test", "password-1")

	gif := []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00\xff\xff\xff\x00\x00\x00!\xf9\x04\x01\x00\x00\x00\x00,\x00\x00\x00\x00\x01\x00\x01\x00\x00\x02\x02D\x01\x00;")
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "pixel.gif")
	require.NoError(t, err)
	_, err = fw.Write(gif)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	out := decode(t, rec)
	assert.Regexp(t, `^images/[0-9a-f-]{36}\.gif$`, out["key"])
	assert.Equal(t, "https://cdn.test/"+out["key"].(string), out["url"])
	assert.Len(t, s.bucket.keys, 1)

	rec = s.do(t, http.MethodPost, "/api/uploads/image", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequirementMatchAndNotificationRoutes(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	v := testutil.SeedVendor(t, ctx, s.db, "Acme")
	tr := testutil.SeedTrainer(t, ctx, s.db, "Asha", "asha@example.com", "Go")
	root := s.superAdmin(t)
	s.createUser(t, root, map[string]any{"email": "va@acme.test", "password": "password-1", "role": "VENDOR_ADMIN", "vendorId": v.ID})
	s.register(t, map[string]any{"email": "tr@acme.test", "password": "password-2", "role": "TRAINER"})
	vendor := s.login(t, "va@acme.test", "password-1")
	trainer := s.login(t, "tr@acme.test", "password-2")

	rec := s.do(t, http.MethodPost, "/api/requirements", vendor, map[string]any{"title": "Go bootcamp", "tags": []string{"go"}, "status": "OPEN"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reqID := uuid.MustParse(decode(t, rec)["requirement"].(map[string]any)["id"].(string))
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/requirements", trainer, map[string]any{"title": "x"}).Code)

	rec = s.do(t, http.MethodGet, "/api/requirements?status=open", vendor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["requirements"], 1)

	m := testutil.SeedMatch(t, ctx, s.db, reqID, tr.ID, types.MatchPending, time.Time{})

	rec = s.do(t, http.MethodGet, "/api/requirements/"+reqID.String()+"/matches", vendor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["matches"], 1)

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPatch, "/api/matches/"+m.ID.String()+"/status", trainer, map[string]string{"status": "ACCEPTED"}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPatch, "/api/matches/"+m.ID.String()+"/status", vendor, map[string]string{"status": "MAYBE"}).Code)

	rec = s.do(t, http.MethodPatch, "/api/matches/"+m.ID.String()+"/status", vendor, map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "ACCEPTED", decode(t, rec)["match"].(map[string]any)["status"])
	queued, _ := s.queue.Len()
	assert.Equal(t, 1, queued)

	rec = s.do(t, http.MethodPost, "/api/notifications", vendor, map[string]string{"type": "sms", "recipient": "+15550001111", "message": "hi"})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	jobID := decode(t, rec)["job"].(map[string]any)["id"].(string)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/notifications", trainer, map[string]string{"type": "sms", "recipient": "+1", "message": "x"}).Code)

	rec = s.do(t, http.MethodGet, "/api/notifications/"+jobID, vendor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "queued", decode(t, rec)["job"].(map[string]any)["status"])

	rec = s.do(t, http.MethodGet, "/api/trainers?skill=go", trainer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["trainers"], 1)
}

func TestContactRoutes(t *testing.T) {
	s := newStack(t)
	rec := s.do(t, http.MethodPost, "/api/contact", "", map[string]string{"name": "Dana", "email": "dana@example.com", "message": "hello"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/contact", "", nil).Code)
	rec = s.do(t, http.MethodGet, "/api/contact", s.superAdmin(t), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["contacts"], 1)
}
