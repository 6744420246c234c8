package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/trainermatch-backend/internal/platform/apierr"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

func TestRespondErrMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
		code   string
		msg    string
	}{
		{"api error", apierr.Forbidden("forbidden", "nope"), http.StatusForbidden, "forbidden", "nope"},
		{"wrapped api error", fmt.Errorf("svc: %w", apierr.BadRequest("bad", "x")), http.StatusBadRequest, "bad", "x"},
		{"record not found", fmt.Errorf("load: %w", gorm.ErrRecordNotFound), http.StatusNotFound, "not_found", "resource not found"},
		{"anything else", errors.New("pq: password=secret"), http.StatusInternalServerError, "internal_error", "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			RespondErr(c, logger.Nop(), tc.err)

			assert.Equal(t, tc.status, rec.Code)
			var env ErrorEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.Equal(t, tc.code, env.Error.Code)
			assert.Equal(t, tc.msg, env.Error.Message)
		})
	}
}
