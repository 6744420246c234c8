package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/trainermatch-backend/internal/http/response"
	"github.com/yungbote/trainermatch-backend/internal/platform/apierr"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
	"github.com/yungbote/trainermatch-backend/internal/services"
)

// room for multipart boundaries and headers on top of the image itself
const multipartOverhead = 1 << 20

type UploadHandler struct {
	log     *logger.Logger
	uploads services.UploadService
}

func NewUploadHandler(log *logger.Logger, uploads services.UploadService) *UploadHandler {
	return &UploadHandler{log: log.With("handler", "UploadHandler"), uploads: uploads}
}

// POST /api/uploads/image (multipart field "file")
func (h *UploadHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxImageBytes+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondErr(c, h.log, apierr.New(http.StatusRequestEntityTooLarge, "file_too_large", fmt.Errorf("image exceeds %d bytes", services.MaxImageBytes)))
			return
		}
		response.RespondErr(c, h.log, apierr.BadRequest("missing_file", "multipart field \"file\" is required"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondErr(c, h.log, fmt.Errorf("open upload: %w", err))
		return
	}
	defer f.Close()

	res, err := h.uploads.UploadImage(requestDBC(c), fh.Filename, fh.Size, f)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondCreated(c, res)
}
