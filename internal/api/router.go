package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/grupoandino/reportes/internal/api/handlers"
	"github.com/grupoandino/reportes/pkg/config"
	"github.com/grupoandino/reportes/pkg/logger"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(
	reports *handlers.ReportHandler,
	rosterH *handlers.RosterHandler,
	cfg *config.Config,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthCheckHandler).Methods("GET")
	r.HandleFunc("/descargar/{id}", reports.Download).Methods("GET")
	r.HandleFunc("/base-asesores", rosterH.Show).Methods("GET")

	limiter := rate.NewLimiter(rate.Limit(cfg.Report.UploadRateRPS), cfg.Report.UploadRateBurst)
	uploads := r.NewRoute().Subrouter()
	uploads.Use(rateLimitMiddleware(limiter, log))
	uploads.HandleFunc("/procesar-calidad", reports.ProcessQuality).Methods("POST")
	uploads.HandleFunc("/procesar-llamadas", reports.ProcessCalls).Methods("POST")
	uploads.HandleFunc("/procesar-voip", reports.ProcessVOIP).Methods("POST")
	uploads.HandleFunc("/procesar-admin", reports.ProcessAdmin).Methods("POST")
	uploads.HandleFunc("/procesar-reporteria", reports.ProcessReporteria).Methods("POST")
	uploads.HandleFunc("/actualizar-base-asesores", rosterH.Update).Methods("POST")

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "reportes-api",
	})
}

// rateLimitMiddleware bounds how fast uploads can arrive.
func rateLimitMiddleware(limiter *rate.Limiter, log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				log.WithField("path", r.URL.Path).Warn("Upload rate limit hit")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "too many uploads, retry later",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
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

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
