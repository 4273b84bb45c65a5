package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"location-info-service/internal/client"
	"location-info-service/internal/models"
	"location-info-service/internal/repository"
)

func newWeatherFixture(weatherClient client.WeatherClient, weatherRepo *stubWeatherRepo) (*WeatherService, models.City) {
	country := ukCountry()
	city := londonCity(country)
	cityRepo := &stubCityRepo{
		findByName: func(name string) (models.City, error) { return city, nil },
	}
	geo := &stubGeoClient{}
	citySvc := NewCityService(cityRepo, geo, NewCountryService(&stubCountryRepo{}, geo))
	return NewWeatherService(weatherRepo, weatherClient, citySvc), city
}

func TestWeatherService_GetWeather_FetchesAndPersists(t *testing.T) {
	weatherRepo := &stubWeatherRepo{}
	var gotCity, gotAlpha2 string
	wc := &stubWeatherClient{
		getCurrentWeather: func(city, alpha2 string) (models.WeatherSnapshot, error) {
			gotCity, gotAlpha2 = city, alpha2
			return models.WeatherSnapshot{
				City:        "london",
				ObservedAt:  time.Now().UTC(),
				Temperature: 18.5,
				Conditions:  "scattered clouds",
			}, nil
		},
	}
	svc, city := newWeatherFixture(wc, weatherRepo)

	got, err := svc.GetWeather(context.Background(), "london")
	if err != nil {
		t.Fatalf("GetWeather: %v", err)
	}
	if gotCity != "London" || gotAlpha2 != "GB" {
		t.Errorf("provider called with %q/%q, want London/GB", gotCity, gotAlpha2)
	}
	if got.CityID != city.ID {
		t.Errorf("snapshot bound to city %v, want %v", got.CityID, city.ID)
	}
	if weatherRepo.saveCalls != 1 {
		t.Errorf("save called %d times, want 1", weatherRepo.saveCalls)
	}
	if got.ID == uuid.Nil {
		t.Error("saved snapshot should carry an id")
	}
}

func TestWeatherService_GetWeather_ServesReadingWhenPersistFails(t *testing.T) {
	weatherRepo := &stubWeatherRepo{
		save: func(snap models.WeatherSnapshot) (models.WeatherSnapshot, error) {
			return models.WeatherSnapshot{}, errors.New("insert failed")
		},
	}
	wc := &stubWeatherClient{
		getCurrentWeather: func(city, alpha2 string) (models.WeatherSnapshot, error) {
			return models.WeatherSnapshot{City: "london", Temperature: 18.5}, nil
		},
	}
	svc, _ := newWeatherFixture(wc, weatherRepo)

	got, err := svc.GetWeather(context.Background(), "london")
	if err != nil {
		t.Fatalf("GetWeather should serve the reading despite save failure, got %v", err)
	}
	if got.Temperature != 18.5 {
		t.Errorf("temperature = %v, want 18.5", got.Temperature)
	}
}

func TestWeatherService_GetWeather_UpstreamFailure(t *testing.T) {
	weatherRepo := &stubWeatherRepo{}
	wc := &stubWeatherClient{
		getCurrentWeather: func(city, alpha2 string) (models.WeatherSnapshot, error) {
			return models.WeatherSnapshot{}, client.ErrUpstreamFailure
		},
	}
	svc, _ := newWeatherFixture(wc, weatherRepo)

	if _, err := svc.GetWeather(context.Background(), "london"); !errors.Is(err, client.ErrUpstreamFailure) {
		t.Errorf("error = %v, want client.ErrUpstreamFailure", err)
	}
	if weatherRepo.saveCalls != 0 {
		t.Error("nothing should be saved when the provider fails")
	}
}

func TestWeatherService_GetWeather_UnknownCity(t *testing.T) {
	geo := &stubGeoClient{
		getCity: func(name string) (client.CityResult, error) {
			return client.CityResult{}, client.ErrNotFound
		},
	}
	citySvc := NewCityService(&stubCityRepo{}, geo, NewCountryService(&stubCountryRepo{}, geo))
	svc := NewWeatherService(&stubWeatherRepo{}, &stubWeatherClient{}, citySvc)

	if _, err := svc.GetWeather(context.Background(), "nowhere"); !errors.Is(err, client.ErrNotFound) {
		t.Errorf("error = %v, want client.ErrNotFound", err)
	}
}

func TestWeatherService_LatestSnapshot(t *testing.T) {
	snapID := uuid.New()
	weatherRepo := &stubWeatherRepo{
		latest: func(cityID uuid.UUID) (models.WeatherSnapshot, error) {
			return models.WeatherSnapshot{ID: snapID, CityID: cityID, City: "london"}, nil
		},
	}
	svc, city := newWeatherFixture(&stubWeatherClient{}, weatherRepo)

	got, err := svc.LatestSnapshot(context.Background(), "london")
	if err != nil {
		t.Fatalf("LatestSnapshot: %v", err)
	}
	if got.ID != snapID || got.CityID != city.ID {
		t.Errorf("unexpected snapshot: %+v", got)
	}
}

func TestWeatherService_LatestSnapshot_NoneStored(t *testing.T) {
	svc, _ := newWeatherFixture(&stubWeatherClient{}, &stubWeatherRepo{})

	if _, err := svc.LatestSnapshot(context.Background(), "london"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("error = %v, want repository.ErrNotFound", err)
	}
}
