package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

// public paths that never require a token: health, docs and the login flow
func isPublicPath(path string) bool {
	switch path {
	case "/health", "/docs", "/openapi.json":
		return true
	}
	return strings.HasPrefix(path, "/api/v1/auth/")
}

// authMiddleware enforces the X-API-Key header on protected routes.
// WebSocket clients may pass the token as a query parameter instead,
// since browsers cannot set headers on upgrade requests.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token := r.Header.Get("X-API-Key")
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			unauthorized(w, "missing API token")
			return
		}

		record, err := s.deps.TokensRepo.GetActiveByToken(r.Context(), token)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(ErrorResponse{Error: "token lookup failed"})
			return
		}
		if record == nil {
			unauthorized(w, "invalid API token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: "unauthorized", Details: detail})
}
