package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
	"waste-collection-service/internal/api/handlers"
	"waste-collection-service/internal/domain"
	"waste-collection-service/internal/ports"
	"waste-collection-service/internal/report"
	"waste-collection-service/internal/services"
)

// Deps carries everything the HTTP layer needs. main owns the concrete adapters.
type Deps struct {
	Bins     ports.BinRepository
	Trucks   ports.TruckRepository
	Spots    ports.DumpingSpotRepository
	Readings ports.SensorReadingRepository
	Cameras  ports.CameraRepository
	Images   ports.CameraImageRepository
	Roles    ports.RoleRepository
	Tokens   ports.TokenIssuer
	BinIndex ports.BinIndexBuilder

	Auth   *services.Auth
	Sync   *services.SensorSync
	Upload *services.ImageUpload

	HealthChecks map[string]handlers.HealthCheck
	TrustProxy   bool
	Now          func() time.Time
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()
	guard := &authenticator{tokens: d.Tokens, roles: d.Roles}

	health := &handlers.HealthHandler{Checks: d.HealthChecks}
	authH := &handlers.AuthHandler{Auth: d.Auth, TrustProxy: d.TrustProxy}
	bins := &handlers.BinHandler{Repo: d.Bins, Index: d.BinIndex, Now: d.Now}
	trucks := &handlers.TruckHandler{Repo: d.Trucks, Now: d.Now}
	spots := &handlers.DumpingSpotHandler{Repo: d.Spots}
	sensors := &handlers.SensorHandler{Readings: d.Readings, Bins: d.Bins, Sync: d.Sync}
	cameras := &handlers.CameraHandler{Cameras: d.Cameras, Images: d.Images, Upload: d.Upload}
	routes := &handlers.RouteHandler{Trucks: d.Trucks, Bins: d.Bins, Spots: d.Spots}
	admin := &handlers.AdminHandler{Auth: d.Auth, Roles: d.Roles}
	reports := &handlers.ReportHandler{
		Source: report.Source{Bins: d.Bins, Spots: d.Spots, Trucks: d.Trucks},
		Now:    d.Now,
	}

	mux.HandleFunc("GET /health", health.Health)
	mux.HandleFunc("POST /auth/login", authH.Login)
	mux.HandleFunc("GET /auth/me", guard.require("", whoAmI))

	mux.HandleFunc("GET /bins", bins.List)
	mux.HandleFunc("POST /bins", guard.require(domain.PermManageBins, bins.Create))
	mux.HandleFunc("GET /bins/support", bins.Support)
	mux.HandleFunc("GET /bins/nearby", bins.Nearby)
	mux.HandleFunc("GET /bins/{id}", bins.Get)
	mux.HandleFunc("PUT /bins/{id}", guard.require(domain.PermManageBins, bins.Update))
	mux.HandleFunc("DELETE /bins/{id}", guard.require(domain.PermManageBins, bins.Delete))

	mux.HandleFunc("GET /trucks", trucks.List)
	mux.HandleFunc("POST /trucks", guard.require(domain.PermManageTrucks, trucks.Create))
	mux.HandleFunc("GET /trucks/{id}", trucks.Get)
	mux.HandleFunc("PUT /trucks/{id}", guard.require(domain.PermManageTrucks, trucks.Update))
	mux.HandleFunc("DELETE /trucks/{id}", guard.require(domain.PermManageTrucks, trucks.Delete))

	mux.HandleFunc("GET /dumping-spots", spots.List)
	mux.HandleFunc("POST /dumping-spots", guard.require(domain.PermManageDumpingSpots, spots.Create))
	mux.HandleFunc("GET /dumping-spots/{id}", spots.Get)
	mux.HandleFunc("PUT /dumping-spots/{id}", guard.require(domain.PermManageDumpingSpots, spots.Update))
	mux.HandleFunc("DELETE /dumping-spots/{id}", guard.require(domain.PermManageDumpingSpots, spots.Delete))

	mux.HandleFunc("GET /sensor-data", sensors.List)
	mux.HandleFunc("POST /sensor-data", guard.require(domain.PermManageBins, sensors.Ingest))

	mux.HandleFunc("GET /cameras", cameras.List)
	mux.HandleFunc("POST /cameras", guard.require(domain.PermManageSystem, cameras.Create))
	mux.HandleFunc("GET /cameras/{id}", cameras.Get)
	mux.HandleFunc("DELETE /cameras/{id}", guard.require(domain.PermManageSystem, cameras.Delete))
	mux.HandleFunc("GET /cameras/{id}/images", cameras.ListImages)
	mux.HandleFunc("POST /cameras/{id}/images", guard.require(domain.PermManageSystem, cameras.UploadImages))

	mux.HandleFunc("POST /routes", guard.require("", routes.Plan))

	mux.HandleFunc("GET /reports/summary.xlsx", guard.require(domain.PermViewReports, reports.Summary))

	mux.HandleFunc("GET /admin/logins", guard.require(domain.PermManageUsers, admin.RecentLogins))
	mux.HandleFunc("GET /admin/roles", guard.require(domain.PermManageRoles, admin.ListRoles))
	mux.HandleFunc("POST /admin/users/{username}/unlock", guard.require(domain.PermManageUsers, admin.Unlock))
	mux.HandleFunc("POST /admin/users/{username}/reset-password", guard.require(domain.PermManageUsers, admin.ResetPassword))
	mux.HandleFunc("POST /admin/users/{username}/toggle-active", guard.require(domain.PermManageUsers, admin.ToggleActive))
	mux.HandleFunc("POST /admin/ip-blocks/clear", guard.require(domain.PermManageUsers, admin.ClearIP))

	return loggingMiddleware(recoverMiddleware(mux))
}

// whoAmI echoes the identity of the verified token.
func whoAmI(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"username":   claims.Username,
		"role":       claims.Role,
		"expires_at": claims.ExpiresAt,
	}); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}
