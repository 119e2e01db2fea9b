package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup, guard gin.HandlerFunc) {
	rg.POST("/login", h.Login)
	rg.POST("/login/biometric", h.BiometricLogin)
	rg.GET("/session", h.GetSession)
	rg.POST("/session/clear-error", h.ClearError)

	protected := rg.Group("")
	protected.Use(guard)
	protected.POST("/logout", h.Logout)
	protected.PATCH("/profile", h.UpdateProfile)
	protected.POST("/biometric/register", h.RegisterBiometric)
	protected.DELETE("/biometric", h.DisableBiometric)
}
