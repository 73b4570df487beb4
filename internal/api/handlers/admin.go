package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"waste-collection-service/internal/api/dto"
	"waste-collection-service/internal/ports"
	"waste-collection-service/internal/services"
)

// AdminHandler exposes login audit and account recovery operations.
type AdminHandler struct {
	Auth  *services.Auth
	Roles ports.RoleRepository
}

func (h *AdminHandler) RecentLogins(w http.ResponseWriter, r *http.Request) {
	n := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 100 {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		n = parsed
	}

	attempts, err := h.Auth.RecentLogins(r.Context(), n)
	if err != nil {
		writeServiceError(w, r, "recent logins", err)
		return
	}
	counts, err := h.Auth.FailureCounts(r.Context())
	if err != nil {
		writeServiceError(w, r, "failure counts", err)
		return
	}

	res := dto.RecentLoginsResponse{
		Attempts:      make([]dto.LoginAttemptResponse, 0, len(attempts)),
		FailureCounts: counts,
	}
	for _, a := range attempts {
		res.Attempts = append(res.Attempts, dto.LoginAttemptResponse{
			Username:  a.Username,
			IPAddress: a.IPAddress,
			Success:   a.Success,
			Timestamp: a.Timestamp,
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}

func pathUsername(w http.ResponseWriter, r *http.Request) (string, bool) {
	u := strings.TrimSpace(r.PathValue("username"))
	if u == "" {
		writeError(w, r, http.StatusBadRequest, "username is required")
		return "", false
	}
	return u, true
}

func (h *AdminHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	username, ok := pathUsername(w, r)
	if !ok {
		return
	}
	if err := h.Auth.UnlockAccount(r.Context(), username); err != nil {
		writeServiceError(w, r, "unlock account", err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "unlocked", "username": username})
}

func (h *AdminHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	username, ok := pathUsername(w, r)
	if !ok {
		return
	}
	temp, err := h.Auth.ResetPassword(r.Context(), username)
	if err != nil {
		writeServiceError(w, r, "reset password", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ResetPasswordResponse{Username: username, TemporaryPassword: temp})
}

func (h *AdminHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	username, ok := pathUsername(w, r)
	if !ok {
		return
	}
	active, err := h.Auth.ToggleActive(r.Context(), username)
	if err != nil {
		writeServiceError(w, r, "toggle active", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ToggleActiveResponse{Username: username, IsActive: active})
}

func (h *AdminHandler) ClearIP(w http.ResponseWriter, r *http.Request) {
	var req dto.ClearIPRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.Auth.ClearIPBlock(r.Context(), req.IPAddress); err != nil {
		writeServiceError(w, r, "clear ip block", err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "cleared", "ip_address": req.IPAddress})
}

func (h *AdminHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Roles.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "list roles", err)
		return
	}

	res := dto.ListRolesResponse{Roles: make([]dto.RoleResponse, 0, len(roles))}
	for _, role := range roles {
		res.Roles = append(res.Roles, dto.RoleResponse{
			ID:          role.ID,
			Name:        string(role.Name),
			Description: role.Description,
			Permissions: role.Permissions,
			CreatedAt:   role.CreatedAt,
			UpdatedAt:   role.UpdatedAt,
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}
