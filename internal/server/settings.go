package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trade-journal-go/internal/account"
)

// SettingsHandler serves the account settings document.
type SettingsHandler struct {
	Settings *account.Service
}

// Register mounts the settings routes.
func (h *SettingsHandler) Register(r *gin.Engine) {
	r.GET("/api/settings", h.get)
	r.PUT("/api/settings", h.put)
}

func (h *SettingsHandler) get(c *gin.Context) {
	settings, err := h.Settings.Load()
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	// never hand the password hash to the UI
	settings.Profile.PasswordHash = ""
	c.JSON(http.StatusOK, settings)
}

type settingsRequest struct {
	account.Settings
	Password string `json:"password"`
}

func (h *SettingsHandler) put(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error())
		return
	}

	current, err := h.Settings.Load()
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	next := req.Settings
	// the hash never travels over the API; keep the stored one unless a
	// new password was supplied
	next.Profile.PasswordHash = current.Profile.PasswordHash
	next.Profile.CreatedAt = current.Profile.CreatedAt
	if req.Password != "" {
		next.Profile.PasswordHash = account.HashPassword(req.Password)
	}

	if err := h.Settings.Save(next); err != nil {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	next.Profile.PasswordHash = ""
	c.JSON(http.StatusOK, next)
}
