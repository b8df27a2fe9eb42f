package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/onlystock/stock-momentum/internal/api/handlers"
	"github.com/onlystock/stock-momentum/internal/auth"
	"github.com/onlystock/stock-momentum/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(rankingHandler *handlers.RankingHandler, authenticator *auth.Authenticator, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check (no auth)
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(basicAuthMiddleware(authenticator, log))

	// Ranking endpoints
	api.HandleFunc("/rankings", rankingHandler.CreateRanking).Methods("POST")

	// Universe endpoints
	api.HandleFunc("/universes", rankingHandler.ListUniverses).Methods("GET")
	api.HandleFunc("/universes/{name}", rankingHandler.GetUniverse).Methods("GET")

	// Cache
	api.HandleFunc("/cache", rankingHandler.ClearCache).Methods("DELETE")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "stock-momentum-api",
	})
}

// basicAuthMiddleware checks HTTP basic credentials on every request
func basicAuthMiddleware(authenticator *auth.Authenticator, log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, password, _ := r.BasicAuth()

			err := authenticator.Verify(user, password)
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
				return
			case errors.Is(err, auth.ErrCredentialsNotConfigured):
				log.Error("API credentials not configured (AUTH_USER / AUTH_PASSWORD)")
				writeJSONError(w, http.StatusServiceUnavailable, "Credentials not configured")
			default:
				log.WithFields(map[string]interface{}{
					"path": r.URL.Path,
					"user": user,
				}).Warn("Authentication failed")
				w.Header().Set("WWW-Authenticate", `Basic realm="stock-momentum"`)
				writeJSONError(w, http.StatusUnauthorized, "Invalid credentials")
			}
		})
	}
}

// statusRecorder captures the response status for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			// Call next handler
			next.ServeHTTP(rec, r)

			// Log request
			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					writeJSONError(w, http.StatusInternalServerError, "Internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
