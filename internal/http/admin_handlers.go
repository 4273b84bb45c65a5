package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"location-info-service/internal/auth"
)

// PostAdminLogin handles POST /admin/login. Issues an access token for valid
// credentials; invalid ones uniformly map to 401.
func (h *Handler) PostAdminLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_BODY", "request body must be JSON with email and password")
		return
	}
	body.Email = strings.TrimSpace(body.Email)
	if body.Email == "" || body.Password == "" {
		writeError(w, r, http.StatusBadRequest, "INVALID_BODY", "email and password are required")
		return
	}

	token, user, err := h.adminSvc.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, r, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
			return
		}
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"accessToken": token,
		"user":        user,
	})
}

// GetAdminStats handles GET /admin/stats.
func (h *Handler) GetAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminSvc.GetStats(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetAdminUsers handles GET /admin/users.
func (h *Handler) GetAdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminSvc.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// DeleteAdminSnapshots handles DELETE /admin/snapshots?before=RFC3339.
// Prunes weather snapshots observed before the cutoff.
func (h *Handler) DeleteAdminSnapshots(w http.ResponseWriter, r *http.Request) {
	before := r.URL.Query().Get("before")
	if before == "" {
		writeError(w, r, http.StatusBadRequest, "INVALID_CUTOFF", "query parameter before is required (RFC3339)")
		return
	}
	cutoff, err := time.Parse(time.RFC3339, before)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_CUTOFF", "before must be an RFC3339 timestamp")
		return
	}

	deleted, err := h.adminSvc.PruneSnapshots(r.Context(), cutoff)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"deleted": deleted,
		"before":  cutoff.UTC().Format(time.RFC3339),
	})
}
