package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	types "github.com/yungbote/trainermatch-backend/internal/domain"
	"github.com/yungbote/trainermatch-backend/internal/platform/ctxutil"
	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
	"github.com/yungbote/trainermatch-backend/internal/services"
)

type tokenTable map[string]*ctxutil.RequestData

func (tt tokenTable) Register(dbctx.Context, services.RegisterInput) (*types.User, error) {
	return nil, errors.New("unused")
}
func (tt tokenTable) CreateUser(dbctx.Context, services.RegisterInput) (*types.User, error) {
	return nil, errors.New("unused")
}
func (tt tokenTable) Login(dbctx.Context, string, string) (string, *types.User, error) {
	return "", nil, errors.New("unused")
}
func (tt tokenTable) Me(dbctx.Context) (*types.User, error) { return nil, errors.New("unused") }
func (tt tokenTable) GetAccessTTL() time.Duration          { return time.Hour }
func (tt tokenTable) ParseToken(s string) (*ctxutil.RequestData, error) {
	if rd, ok := tt[s]; ok {
		return rd, nil
	}
	return nil, errors.New("bad token")
}

func gatedRouter(roles ...types.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	tokens := tokenTable{
		"admin":   {UserID: uuid.New(), Role: string(types.RoleSuperAdmin)},
		"vendor":  {UserID: uuid.New(), Role: string(types.RoleVendorAdmin)},
		"trainer": {UserID: uuid.New(), Role: string(types.RoleTrainer)},
	}
	am := NewAuthMiddleware(logger.Nop(), tokens)
	r := gin.New()
	r.GET("/gated", am.RequireAuth(), RequireRoles(roles...), func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		c.String(http.StatusOK, rd.Role)
	})
	return r
}

func call(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuthRejectsMissingAndInvalidTokens(t *testing.T) {
	r := gatedRouter(types.RoleTrainer)
	assert.Equal(t, http.StatusUnauthorized, call(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(r, "forged").Code)
}

func TestRequireRolesGates(t *testing.T) {
	r := gatedRouter(types.RoleVendorAdmin, types.RoleVendorUser)

	rec := call(r, "vendor")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(types.RoleVendorAdmin), rec.Body.String())

	assert.Equal(t, http.StatusForbidden, call(r, "trainer").Code)
	assert.Equal(t, http.StatusOK, call(r, "admin").Code, "super admin passes every gate")
}

func TestRequireRolesWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/gated", RequireRoles(types.RoleTrainer), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, call(r, "").Code)
}

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/t", func(c *gin.Context) {
		td := ctxutil.GetTraceData(c.Request.Context())
		c.String(http.StatusOK, td.TraceID+"|"+td.RequestID)
	})

	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set("X-Request-Id", "req-42")
	req.Header.Set("X-Trace-Id", "trace-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "trace-42|req-42", rec.Body.String())
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/t", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Trace-Id"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
