package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"location-info-service/internal/client"
	"location-info-service/internal/lifecycle"
	"location-info-service/internal/repository"
	"location-info-service/internal/service"
	"location-info-service/internal/validation"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	countrySvc  *service.CountryService
	citySvc     *service.CityService
	weatherSvc  *service.WeatherService
	locationSvc *service.LocationService
	newsSvc     *service.NewsService // nil when no news API key is configured
	adminSvc    *service.AdminService

	weatherClient client.WeatherClient
	dbHealth      func(ctx context.Context) error
	logger        *zap.Logger
	maxNameLength int

	healthStatusMu   sync.Mutex
	healthStatusPrev string
}

// NewHandler returns a new Handler.
func NewHandler(
	countrySvc *service.CountryService,
	citySvc *service.CityService,
	weatherSvc *service.WeatherService,
	locationSvc *service.LocationService,
	newsSvc *service.NewsService,
	adminSvc *service.AdminService,
	weatherClient client.WeatherClient,
	dbHealth func(ctx context.Context) error,
	logger *zap.Logger,
	maxNameLength int,
) *Handler {
	return &Handler{
		countrySvc:    countrySvc,
		citySvc:       citySvc,
		weatherSvc:    weatherSvc,
		locationSvc:   locationSvc,
		newsSvc:       newsSvc,
		adminSvc:      adminSvc,
		weatherClient: weatherClient,
		dbHealth:      dbHealth,
		logger:        logger,
		maxNameLength: maxNameLength,
	}
}

// GetCountry handles GET /countries/{name}.
func (h *Handler) GetCountry(w http.ResponseWriter, r *http.Request) {
	name, err := validation.ValidateName(mux.Vars(r)["name"], h.maxNameLength)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_NAME", err.Error())
		return
	}

	country, err := h.countrySvc.GetCountry(r.Context(), name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, country)
}

// GetCity handles GET /cities/{name}.
func (h *Handler) GetCity(w http.ResponseWriter, r *http.Request) {
	name, err := validation.ValidateName(mux.Vars(r)["name"], h.maxNameLength)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_NAME", err.Error())
		return
	}

	city, err := h.citySvc.GetCity(r.Context(), name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, city)
}

// GetWeather handles GET /weather/{city}.
func (h *Handler) GetWeather(w http.ResponseWriter, r *http.Request) {
	name, err := validation.ValidateName(mux.Vars(r)["city"], h.maxNameLength)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_NAME", err.Error())
		return
	}

	snapshot, err := h.weatherSvc.GetWeather(r.Context(), name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// GetLocation handles GET /locations/{city}.
func (h *Handler) GetLocation(w http.ResponseWriter, r *http.Request) {
	name, err := validation.ValidateName(mux.Vars(r)["city"], h.maxNameLength)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_NAME", err.Error())
		return
	}

	info, err := h.locationSvc.GetLocationInfo(r.Context(), name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// GetNews handles GET /news/{alpha2}. Registered only when the news provider
// is configured.
func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	code, err := validation.ValidateAlpha2(mux.Vars(r)["alpha2"])
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_COUNTRY_CODE", err.Error())
		return
	}

	items, err := h.newsSvc.GetNews(r.Context(), code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"country": code,
		"news":    items,
	})
}

// healthResult holds the computed health status and metadata for logging.
type healthResult struct {
	status     string
	statusCode int
	reason     string
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	result, checks := h.computeHealthStatus(r.Context())

	h.healthStatusMu.Lock()
	prev := h.healthStatusPrev
	if prev != "" && prev != result.status {
		h.logger.Info("health status transition",
			zap.String("previous_status", prev),
			zap.String("current_status", result.status),
			zap.String("reason", result.reason))
	}
	h.healthStatusPrev = result.status
	h.healthStatusMu.Unlock()

	resp := map[string]interface{}{
		"status":    result.status,
		"service":   "location-info-service",
		"version":   "dev",
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(result.statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

// computeHealthStatus evaluates health conditions in priority order:
// shutting-down > database unreachable > weather API key invalid > healthy.
func (h *Handler) computeHealthStatus(ctx context.Context) (healthResult, map[string]string) {
	checks := map[string]string{
		"database":   "healthy",
		"weatherApi": "healthy",
	}

	if lifecycle.IsShuttingDown() {
		return healthResult{"shutting-down", http.StatusServiceUnavailable, "signal"}, checks
	}
	if h.dbHealth != nil {
		if err := h.dbHealth(ctx); err != nil {
			checks["database"] = "unhealthy"
			return healthResult{"degraded", http.StatusServiceUnavailable, "database_unreachable"}, checks
		}
	}
	if h.weatherClient != nil {
		if err := h.weatherClient.ValidateAPIKey(ctx); err != nil {
			checks["weatherApi"] = "unhealthy"
			return healthResult{"degraded", http.StatusServiceUnavailable, "api_key_invalid"}, checks
		}
	}
	return healthResult{"healthy", http.StatusOK, ""}, checks
}

// writeJSON writes a JSON response with the specified HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error response in the standard error format with code,
// message, and requestId (correlation ID) if available in request context.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	corrID := ""
	if v := r.Context().Value("correlation_id"); v != nil {
		corrID = v.(string)
	}
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":      code,
			"message":   message,
			"requestId": corrID,
		},
	})
}

// writeServiceError maps a service layer error to an HTTP error response:
// unknown names map to 404, upstream auth problems to 502, provider outages
// to 503, anything else to 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, client.ErrNotFound) || errors.Is(err, repository.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "no data for the requested name")
	case errors.Is(err, client.ErrInvalidAPIKey):
		writeError(w, r, http.StatusBadGateway, "UPSTREAM_AUTH_FAILED", "upstream provider rejected the API key")
	case errors.Is(err, client.ErrRateLimited), errors.Is(err, client.ErrUpstreamFailure):
		writeError(w, r, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE", "unable to fetch data from provider")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE", "provider request timed out")
	default:
		writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
	if logger, ok := r.Context().Value("logger").(*zap.Logger); ok && logger != nil {
		logger.Debug("request failed", zap.Error(err))
	}
}
