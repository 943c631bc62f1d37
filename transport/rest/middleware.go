package rest

import (
	"log/slog"
	"net/http"
	"time"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (that *statusRecorder) WriteHeader(status int) {
	that.status = status
	that.ResponseWriter.WriteHeader(status)
}

func (that *statusRecorder) Write(b []byte) (int, error) {
	n, err := that.ResponseWriter.Write(b)
	that.bytes += n
	return n, err
}

// logRequests - one log line per request with method, path, status and duration.
func logRequests(logger *slog.Logger, next http.Handler) http.Handler {
	log := logger.With("component", "http")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.bytes,
			"duration", time.Since(start),
			"remote", r.RemoteAddr,
		)
	})
}

// recoverPanics - a panicking handler answers 500 instead of taking the process down.
func recoverPanics(logger *slog.Logger, next http.Handler) http.Handler {
	log := logger.With("component", "http")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("recovered from panic", "panic", rec, "method", r.Method, "path", r.URL.Path)
				http.Error(w, msgInternalError, http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
