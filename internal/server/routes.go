package server

import "net/http"

// registerRoutes mounts the proxy endpoints behind CORS and request logging.
func (s *Server) registerRoutes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /tasks", s.handleCreateTasks)
	mux.HandleFunc("POST /task-description-update", s.handleDescriptionUpdate)
	return withRequestLog(s.withCORS(mux))
}
