package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"pantoufles-app/internal/config"
	"pantoufles-app/internal/utils"
)

type AuthHandler struct {
	cfg config.AdminConfig
	jwt *utils.JWTUtil
}

func NewAuthHandler(cfg config.AdminConfig, jwt *utils.JWTUtil) *AuthHandler {
	return &AuthHandler{cfg: cfg, jwt: jwt}
}

// Login exchanges the configured admin credentials for a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&credentials); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		return
	}

	usernameOK := subtle.ConstantTimeCompare([]byte(credentials.Username), []byte(h.cfg.Username)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(credentials.Password), []byte(h.cfg.Password)) == 1
	if !usernameOK || !passwordOK {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.jwt.GenerateToken(credentials.Username, "admin")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
