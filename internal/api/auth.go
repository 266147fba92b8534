package api

import (
	"encoding/json"
	"net/http"

	"github.com/zertkwork/d2c-food-menu-app/internal/apperrors"
	"github.com/zertkwork/d2c-food-menu-app/internal/auth"
)

func (s *Server) handleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, apperrors.Validation("failed to parse JSON"))
			return
		}

		session, err := s.auth.Register(r.Context(), req)
		if err != nil {
			jsonError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, session)
	}
}

func (s *Server) handleLogin() http.HandlerFunc {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, apperrors.Validation("failed to parse JSON"))
			return
		}

		session, err := s.auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			jsonError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, session)
	}
}

// handleLogout acknowledges the logout. Sessions are stateless HMAC tokens,
// so there is nothing to revoke server-side; the client discards the token.
func (s *Server) handleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (s *Server) handleMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.auth.Me(r.Context(), userIDFrom(r.Context()))
		if err != nil {
			jsonError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, user)
	}
}
