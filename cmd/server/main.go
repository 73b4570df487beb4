package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"waste-collection-service/internal/adapters/cache"
	"waste-collection-service/internal/adapters/imagestore"
	"waste-collection-service/internal/adapters/repositories"
	"waste-collection-service/internal/adapters/spatial"
	"waste-collection-service/internal/api"
	"waste-collection-service/internal/api/handlers"
	"waste-collection-service/internal/config"
	"waste-collection-service/internal/platform/auth"
	"waste-collection-service/internal/services"

	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (SQL, Redis, filesystem) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	conn, dialect, err := repositories.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	tokens, err := auth.NewJWTIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatal(err)
	}

	bins := repositories.NewSQLBinRepository(conn, dialect)
	trucks := repositories.NewSQLTruckRepository(conn, dialect)
	spots := repositories.NewSQLDumpingSpotRepository(conn, dialect)
	readings := repositories.NewSQLSensorReadingRepository(conn, dialect)
	cameras := repositories.NewSQLCameraRepository(conn, dialect)
	images := repositories.NewSQLCameraImageRepository(conn, dialect)
	users := repositories.NewSQLUserRepository(conn, dialect)
	roles := repositories.NewSQLRoleRepository(conn, dialect)

	router := api.NewRouter(api.Deps{
		Bins:     bins,
		Trucks:   trucks,
		Spots:    spots,
		Readings: readings,
		Cameras:  cameras,
		Images:   images,
		Roles:    roles,
		Tokens:   tokens,
		BinIndex: spatial.Build,
		Auth: &services.Auth{
			Users:    users,
			Throttle: cache.NewRedisLoginThrottle(rdb),
			Audit:    cache.NewRedisLoginAuditLog(rdb),
			Tokens:   tokens,
			Policy:   services.DefaultLoginPolicy(),
		},
		Sync: &services.SensorSync{Bins: bins, Readings: readings},
		Upload: &services.ImageUpload{
			Cameras: cameras,
			Images:  images,
			Store:   imagestore.NewFSImageStore(cfg.MediaDir),
		},
		HealthChecks: map[string]handlers.HealthCheck{
			"database": conn.PingContext,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		TrustProxy: cfg.TrustProxy,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Printf("Server listening addr=:%s driver=%s", cfg.Port, dialect)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	case <-ctx.Done():
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown failed: err=%v", err)
		}
	}
}
