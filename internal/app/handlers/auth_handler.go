package handlers

import (
	"net/http"

	"busfee/internal/pkg/apperrors"
	"busfee/internal/pkg/consts"
	"busfee/internal/service/auth"

	"github.com/gin-gonic/gin"
)

type loginBody struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthHandler struct {
	service auth.AuthServiceInterface
}

func NewAuthHandler(service auth.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, apperrors.Validation(err), "")
		return
	}
	session, err := h.service.Login(c.Request.Context(), body.Username, body.Password)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(consts.SessionCookieName, session.Token, int(h.service.SessionTTL().Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": session})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(consts.SessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}
