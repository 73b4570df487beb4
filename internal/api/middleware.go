package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"
	"waste-collection-service/internal/domain"
	"waste-collection-service/internal/platform/obs"
	"waste-collection-service/internal/ports"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// statusWriter captures the final HTTP status code and number of bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Record implicit 200 responses when handlers write without calling WriteHeader.
func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// loggingMiddleware tags each request with an ID and logs its duration and response size.
// An incoming X-Request-ID is kept so callers can correlate logs.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if reqID == "" || len(reqID) > 64 {
			reqID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, reqID)
		r = r.WithContext(obs.WithRequestID(r.Context(), reqID))

		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)

		log.Printf(
			"req_id=%s method=%s path=%s status=%d bytes=%d dur=%dms",
			reqID, r.Method, r.URL.RequestURI(), sw.status, sw.bytes, time.Since(start).Milliseconds(),
		)
	})
}

// recoverMiddleware turns a handler panic into a 500 response.
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			log.Printf("panic: req_id=%s method=%s path=%s err=%v\n%s", obs.RequestID(r.Context()), r.Method, r.URL.Path, rec, debug.Stack())
			writeJSONError(w, http.StatusInternalServerError, "internal server error")
		}()

		next.ServeHTTP(w, r)
	})
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

type claimsCtxKey struct{}

// ClaimsFromContext returns the verified token claims of an authenticated request.
func ClaimsFromContext(ctx context.Context) (ports.TokenClaims, bool) {
	c, ok := ctx.Value(claimsCtxKey{}).(ports.TokenClaims)
	return c, ok
}

// authenticator guards handlers with a bearer token and, optionally, a role permission.
type authenticator struct {
	tokens ports.TokenIssuer
	roles  ports.RoleRepository
}

// require wraps next so it only runs for a valid token whose role grants perm.
// An empty perm only requires authentication.
func (a *authenticator) require(perm string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
			writeJSONError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := a.tokens.Verify(raw)
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
			writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		if perm != "" {
			role, err := a.roles.GetByName(r.Context(), claims.Role)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				writeJSONError(w, http.StatusForbidden, "permission denied")
				return
			case err != nil:
				log.Printf("load role failed: role=%s err=%v", claims.Role, err)
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			case !role.Can(perm):
				writeJSONError(w, http.StatusForbidden, "permission denied")
				return
			}
		}

		next(w, r.WithContext(context.WithValue(r.Context(), claimsCtxKey{}, claims)))
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
