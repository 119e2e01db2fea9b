package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/citypulse/citypulse-backend/internal/api/http"
	"github.com/citypulse/citypulse-backend/internal/api/http/middleware"
	authhttp "github.com/citypulse/citypulse-backend/internal/auth/http"
	authmw "github.com/citypulse/citypulse-backend/internal/auth/middleware"
	"github.com/citypulse/citypulse-backend/internal/catalog"
	"github.com/citypulse/citypulse-backend/internal/events"
	eventshttp "github.com/citypulse/citypulse-backend/internal/events/http"
	"github.com/citypulse/citypulse-backend/internal/session"
	"github.com/citypulse/citypulse-backend/internal/storage/localstore"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	Environment    string
	AllowedOrigins []string
	Sessions       *session.Store
	Events         *events.Store
	Catalog        *catalog.Client
	Local          *localstore.Store
}

func SetGinMode(env string) {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	SetGinMode(dep.Environment)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Local)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(middleware.RequestIDMiddleware())

	guard := authmw.RequireSession(dep.Sessions)

	authhttp.New(dep.Sessions).Register(api.Group("/auth"), guard)
	eventshttp.New(dep.Events, dep.Catalog).Register(api, guard)

	return r
}
