package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/citypulse/citypulse-backend/internal/auth/domain"
)

// Login performs an interactive sign-in with the ID token obtained by the
// front-end's provider ceremony
func (h *Handler) Login(c *gin.Context) {
	var body struct {
		IDToken string `json:"idToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "idToken is required"})
		return
	}

	if err := h.sessions.Login(c.Request.Context(), body.IDToken); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.sessions.State())
}

// BiometricLogin reconciles a session after the front-end has verified a
// platform biometric assertion
func (h *Handler) BiometricLogin(c *gin.Context) {
	if err := h.sessions.LoginWithBiometric(c.Request.Context()); err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, domain.ErrNoCredential) {
			status = http.StatusPreconditionFailed
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.sessions.State())
}

// GetSession returns the current auth state
func (h *Handler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessions.State())
}

// ClearError resets the store's error field
func (h *Handler) ClearError(c *gin.Context) {
	h.sessions.ClearError()
	c.JSON(http.StatusOK, h.sessions.State())
}

// Logout signs out and clears local state; it always succeeds from the
// caller's point of view
func (h *Handler) Logout(c *gin.Context) {
	h.sessions.Logout(c.Request.Context())
	c.JSON(http.StatusOK, h.sessions.State())
}

// UpdateProfile merges a partial update into the current user
func (h *Handler) UpdateProfile(c *gin.Context) {
	var update domain.UserUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	h.sessions.UpdateUser(&update)
	c.JSON(http.StatusOK, h.sessions.State())
}

// RegisterBiometric links a platform credential handle to the current user
func (h *Handler) RegisterBiometric(c *gin.Context) {
	var body struct {
		CredentialID string `json:"credentialId" binding:"required"`
		DeviceInfo   string `json:"deviceInfo"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "credentialId is required"})
		return
	}

	if err := h.sessions.RegisterBiometric(c.Request.Context(), body.CredentialID, body.DeviceInfo); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"registered": true})
}

// DisableBiometric revokes the biometric shortcut locally and remotely
func (h *Handler) DisableBiometric(c *gin.Context) {
	if err := h.sessions.DisableBiometric(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"disabled": true})
}
