// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lookmate/lookmate-backend/internal/services"
	"github.com/lookmate/lookmate-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		handleServiceError(c, err, "auth")
		return
	}

	logrus.WithField("user_id", user.ID).Info("User registered")
	utils.OKResponse(c)
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	authResponse, err := h.authService.Login(&req)
	if err != nil {
		handleServiceError(c, err, "auth")
		return
	}

	utils.SuccessResponse(c, authResponse)
}

// POST /api/auth/logout
// Tokens are stateless; the client drops its copy.
func (h *AuthHandler) Logout(c *gin.Context) {
	utils.OKResponse(c)
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	me, err := h.authService.Me(userID)
	if err != nil {
		handleServiceError(c, err, "auth")
		return
	}

	utils.SuccessResponse(c, me)
}
