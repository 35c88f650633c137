package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ydadvisory/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
	log         *zap.Logger
}

func NewAuthHandler(authService services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary      Back-office login
// @Description  Checks a configured account and returns a bearer token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      LoginRequest  true  "credentials"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	email := strings.TrimSpace(req.Email)
	token, exp, err := h.authService.Login(email, req.Password)
	if err != nil {
		h.log.Info("login rejected", zap.String("email", email))
		respondError(c, h.log, err)
		return
	}
	h.log.Info("login", zap.String("email", email))
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_at":   exp.UTC(),
	})
}

// Me echoes the caller's token claims.
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"email":   c.GetString("email"),
		"role_id": roleFromCtx(c),
	})
}
