package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/trainermatch-backend/internal/platform/apierr"
	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
)

func requestDBC(c *gin.Context) dbctx.Context {
	return dbctx.Context{Ctx: c.Request.Context()}
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		return uuid.Nil, apierr.BadRequest("invalid_"+name, "invalid %s", name)
	}
	return id, nil
}

func optionalUUIDQuery(c *gin.Context, name string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apierr.BadRequest("invalid_"+name, "invalid %s", name)
	}
	return &id, nil
}

// intQuery returns 0 for a missing or malformed value so callers fall back to
// their defaults.
func intQuery(c *gin.Context, name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(name)))
	if err != nil {
		return 0
	}
	return n
}
