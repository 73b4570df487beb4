package handlers

import (
	"net"
	"net/http"
	"strings"
	"waste-collection-service/internal/api/dto"
	"waste-collection-service/internal/services"
)

type AuthHandler struct {
	Auth *services.Auth
	// Trust the first X-Forwarded-For hop as the client address.
	TrustProxy bool
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.Auth.Login(r.Context(), req.Username, req.Password, clientIP(r, h.TrustProxy))
	if err != nil {
		writeServiceError(w, r, "login", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.LoginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		Username:  res.User.Username,
		Role:      string(res.User.Role),
	})
}

func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
