package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/trainermatch-backend/internal/http/response"
	"github.com/yungbote/trainermatch-backend/internal/platform/apierr"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
	"github.com/yungbote/trainermatch-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), authService: authService}
}

// POST /api/auth/register
func (ah *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, ah.log, apierr.BadRequest("invalid_request", "%s", err.Error()))
		return
	}
	user, err := ah.authService.Register(requestDBC(c), req)
	if err != nil {
		response.RespondErr(c, ah.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"user": user})
}

// POST /api/users
func (ah *AuthHandler) CreateUser(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, ah.log, apierr.BadRequest("invalid_request", "%s", err.Error()))
		return
	}
	user, err := ah.authService.CreateUser(requestDBC(c), req)
	if err != nil {
		response.RespondErr(c, ah.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"user": user})
}

// POST /api/auth/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, ah.log, apierr.BadRequest("invalid_request", "%s", err.Error()))
		return
	}
	token, user, err := ah.authService.Login(requestDBC(c), req.Email, req.Password)
	if err != nil {
		response.RespondErr(c, ah.log, err)
		return
	}
	response.RespondOK(c, gin.H{
		"token":     token,
		"user":      user,
		"expiresIn": int(ah.authService.GetAccessTTL().Seconds()),
	})
}

// GET /api/auth/me
func (ah *AuthHandler) Me(c *gin.Context) {
	user, err := ah.authService.Me(requestDBC(c))
	if err != nil {
		response.RespondErr(c, ah.log, err)
		return
	}
	response.RespondOK(c, gin.H{"user": user})
}
