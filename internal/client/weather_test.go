package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const weatherBody = `{
	"main": {"temp": 18.5, "pressure": 1012, "humidity": 64},
	"weather": [{"main": "Clouds", "description": "scattered clouds"}],
	"wind": {"speed": 4.2},
	"visibility": 10000,
	"dt": 1700000000,
	"name": "London"
}`

func TestNewOpenWeatherClient_KeyValidation(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		wantErr bool
	}{
		{name: "valid key", apiKey: "abcdef1234567890"},
		{name: "empty key", apiKey: "", wantErr: true},
		{name: "short key", apiKey: "abc", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewOpenWeatherClient(tc.apiKey, "http://example.com", time.Second)
			if tc.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestOpenWeatherClient_GetCurrentWeather(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		if r.URL.Query().Get("appid") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(weatherBody))
	}))
	defer srv.Close()

	c, err := NewOpenWeatherClient("abcdef1234567890", srv.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("NewOpenWeatherClient: %v", err)
	}

	snap, err := c.GetCurrentWeather(context.Background(), "London", "GB")
	if err != nil {
		t.Fatalf("GetCurrentWeather: %v", err)
	}

	if gotQuery != "London,GB" {
		t.Errorf("query = %q, want %q", gotQuery, "London,GB")
	}
	if snap.City != "london" {
		t.Errorf("city = %q, want %q", snap.City, "london")
	}
	if snap.Temperature != 18.5 {
		t.Errorf("temperature = %v, want 18.5", snap.Temperature)
	}
	if snap.Conditions != "scattered clouds" {
		t.Errorf("conditions = %q, want %q", snap.Conditions, "scattered clouds")
	}
	if snap.Pressure != 1012 || snap.Humidity != 64 {
		t.Errorf("pressure/humidity = %d/%d, want 1012/64", snap.Pressure, snap.Humidity)
	}
	if snap.WindSpeed != 4.2 {
		t.Errorf("wind speed = %v, want 4.2", snap.WindSpeed)
	}
	if snap.Visibility != 10000 {
		t.Errorf("visibility = %d, want 10000", snap.Visibility)
	}
	wantObserved := time.Unix(1700000000, 0).UTC()
	if !snap.ObservedAt.Equal(wantObserved) {
		t.Errorf("observedAt = %v, want %v", snap.ObservedAt, wantObserved)
	}
}

func TestOpenWeatherClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: ErrInvalidAPIKey},
		{name: "forbidden", status: http.StatusForbidden, wantErr: ErrInvalidAPIKey},
		{name: "not found", status: http.StatusNotFound, wantErr: ErrNotFound},
		{name: "rate limited", status: http.StatusTooManyRequests, wantErr: ErrRateLimited},
		{name: "server error", status: http.StatusInternalServerError, wantErr: ErrUpstreamFailure},
		{name: "bad gateway", status: http.StatusBadGateway, wantErr: ErrUpstreamFailure},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			c, err := NewOpenWeatherClient("abcdef1234567890", srv.URL, time.Second)
			if err != nil {
				t.Fatalf("NewOpenWeatherClient: %v", err)
			}
			_, err = c.GetCurrentWeather(context.Background(), "Nowhere", "")
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestOpenWeatherClient_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"main": `))
	}))
	defer srv.Close()

	c, _ := NewOpenWeatherClient("abcdef1234567890", srv.URL, time.Second)
	if _, err := c.GetCurrentWeather(context.Background(), "London", ""); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestOpenWeatherClient_PropagatesCorrelationID(t *testing.T) {
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Correlation-ID")
		_, _ = w.Write([]byte(weatherBody))
	}))
	defer srv.Close()

	c, _ := NewOpenWeatherClient("abcdef1234567890", srv.URL, time.Second)
	ctx := context.WithValue(context.Background(), "correlation_id", "corr-123")
	if _, err := c.GetCurrentWeather(ctx, "London", ""); err != nil {
		t.Fatalf("GetCurrentWeather: %v", err)
	}
	if gotHeader != "corr-123" {
		t.Errorf("X-Correlation-ID = %q, want %q", gotHeader, "corr-123")
	}
}

func TestOpenWeatherClient_ValidateAPIKey(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(weatherBody))
		}))
		defer srv.Close()

		c, _ := NewOpenWeatherClient("abcdef1234567890", srv.URL, time.Second)
		if err := c.ValidateAPIKey(context.Background()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		c, _ := NewOpenWeatherClient("abcdef1234567890", srv.URL, time.Second)
		if err := c.ValidateAPIKey(context.Background()); !errors.Is(err, ErrInvalidAPIKey) {
			t.Errorf("error = %v, want ErrInvalidAPIKey", err)
		}
	})
}
