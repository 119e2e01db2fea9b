package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/citypulse/citypulse-backend/config"
	"github.com/citypulse/citypulse-backend/internal/auth"
	"github.com/citypulse/citypulse-backend/internal/bootstrap"
	"github.com/citypulse/citypulse-backend/internal/catalog"
	"github.com/citypulse/citypulse-backend/internal/events"
	"github.com/citypulse/citypulse-backend/internal/profile"
	"github.com/citypulse/citypulse-backend/internal/session"
	"github.com/citypulse/citypulse-backend/internal/storage/localstore"
)

const serviceName = "city-pulse-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptionsFromConfig(&cfg.Redis))
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	app, authClient, err := auth.InitializeFirebase(&cfg.Firebase)
	if err != nil {
		log.Fatalf("failed to initialize Firebase: %v", err)
	}

	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		log.Fatalf("failed to initialize Firestore: %v", err)
	}
	defer firestoreClient.Close()

	local := localstore.New(redisClient)
	provider := auth.NewFirebaseProvider(authClient)
	profiles := profile.NewService(firestoreClient)
	catalogClient := catalog.NewClient(cfg.Ticketmaster.BaseURL, cfg.Ticketmaster.APIKey)

	// The session store must be initialized before any guarded route is
	// served; the subscription lives until shutdown.
	sessions := session.NewStore(provider, local, profiles, session.Options{
		StrictProfileSync: cfg.Session.StrictProfileSync,
	})
	unsubscribe := sessions.Init(ctx)
	defer unsubscribe()

	eventStore := events.NewStore(catalogClient, local)

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		Environment:    cfg.App.Environment,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Sessions:       sessions,
		Events:         eventStore,
		Catalog:        catalogClient,
		Local:          local,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("%s listening on :%s", serviceName, cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
