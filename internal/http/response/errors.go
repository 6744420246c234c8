package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/trainermatch-backend/internal/platform/apierr"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

// RespondErr maps a service error onto the error envelope. Unclassified
// errors become a 500 and their text is not sent to the client.
func RespondErr(c *gin.Context, log *logger.Logger, err error) {
	if ae, ok := apierr.As(err); ok {
		status := ae.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		RespondError(c, status, ae.Code, ae)
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		RespondError(c, http.StatusNotFound, "not_found", errors.New("resource not found"))
		return
	}
	if log != nil {
		log.Error("Unhandled request error", "error", err, "path", c.FullPath())
	}
	RespondError(c, http.StatusInternalServerError, "internal_error", errors.New("internal server error"))
}
