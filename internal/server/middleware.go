package server

import (
	"log/slog"
	"net/http"
	"time"
)

// allowOrigin reports whether a browser at origin may call the proxy.
// A configured "*" admits every origin.
func (s *Server) allowOrigin(origin string) bool {
	_, wildcard := s.origins["*"]
	_, exact := s.origins[origin]
	return wildcard || exact
}

// withCORS answers preflight requests itself and stamps the allow headers
// on responses to permitted origins. Requests without an Origin header
// (curl, server to server) pass through untouched.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		permitted := origin != "" && s.allowOrigin(origin)
		if origin != "" {
			h := w.Header()
			h.Set("Vary", "Origin")
			if permitted {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type")
				h.Set("Access-Control-Max-Age", "600")
			}
		}

		if r.Method != http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if origin != "" && !permitted {
			writeAPIJSONStatus(w, http.StatusForbidden, ErrorResponse{Error: "origin not allowed"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withRequestLog logs each proxied call at debug level.
func withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Debug("proxy request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}
