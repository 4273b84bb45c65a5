package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"location-info-service/internal/client"
	"location-info-service/internal/models"
	"location-info-service/internal/repository"
)

// Stub repositories and clients backed by function fields. Unset fields
// return not-found (repos) or panic (clients) so tests fail loudly when a
// flow touches a collaborator it should not.

type stubCountryRepo struct {
	findByName   func(name string) (models.Country, error)
	findByAlpha2 func(code string) (models.Country, error)
	save         func(c models.Country) (models.Country, error)
	count        func() (int64, error)
	saveCalls    int
}

func (s *stubCountryRepo) FindByName(_ context.Context, name string) (models.Country, error) {
	if s.findByName == nil {
		return models.Country{}, repository.ErrNotFound
	}
	return s.findByName(name)
}

func (s *stubCountryRepo) FindByAlpha2(_ context.Context, code string) (models.Country, error) {
	if s.findByAlpha2 == nil {
		return models.Country{}, repository.ErrNotFound
	}
	return s.findByAlpha2(code)
}

func (s *stubCountryRepo) Save(_ context.Context, c models.Country) (models.Country, error) {
	s.saveCalls++
	if s.save == nil {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		c.CreatedAt = time.Now().UTC()
		return c, nil
	}
	return s.save(c)
}

func (s *stubCountryRepo) Count(_ context.Context) (int64, error) {
	if s.count == nil {
		return 0, nil
	}
	return s.count()
}

type stubCityRepo struct {
	findByName func(name string) (models.City, error)
	save       func(c models.City) (models.City, error)
	saveCalls  int
}

func (s *stubCityRepo) FindByName(_ context.Context, name string) (models.City, error) {
	if s.findByName == nil {
		return models.City{}, repository.ErrNotFound
	}
	return s.findByName(name)
}

func (s *stubCityRepo) Save(_ context.Context, c models.City) (models.City, error) {
	s.saveCalls++
	if s.save == nil {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		c.CreatedAt = time.Now().UTC()
		return c, nil
	}
	return s.save(c)
}

func (s *stubCityRepo) Count(_ context.Context) (int64, error) { return 0, nil }

type stubWeatherRepo struct {
	save         func(snap models.WeatherSnapshot) (models.WeatherSnapshot, error)
	latest       func(cityID uuid.UUID) (models.WeatherSnapshot, error)
	deleteBefore func(cutoff time.Time) (int64, error)
	saveCalls    int
}

func (s *stubWeatherRepo) Save(_ context.Context, snap models.WeatherSnapshot) (models.WeatherSnapshot, error) {
	s.saveCalls++
	if s.save == nil {
		snap.ID = uuid.New()
		snap.CreatedAt = time.Now().UTC()
		return snap, nil
	}
	return s.save(snap)
}

func (s *stubWeatherRepo) LatestForCity(_ context.Context, cityID uuid.UUID) (models.WeatherSnapshot, error) {
	if s.latest == nil {
		return models.WeatherSnapshot{}, repository.ErrNotFound
	}
	return s.latest(cityID)
}

func (s *stubWeatherRepo) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	if s.deleteBefore == nil {
		return 0, nil
	}
	return s.deleteBefore(cutoff)
}

func (s *stubWeatherRepo) Count(_ context.Context) (int64, error) { return 0, nil }

type stubNewsRepo struct {
	findByCountry func(countryID uuid.UUID, limit int) ([]models.NewsItem, error)
	saveBatch     func(items []models.NewsItem) error
	saved         []models.NewsItem
}

func (s *stubNewsRepo) SaveBatch(_ context.Context, items []models.NewsItem) error {
	s.saved = append(s.saved, items...)
	if s.saveBatch == nil {
		return nil
	}
	return s.saveBatch(items)
}

func (s *stubNewsRepo) FindByCountry(_ context.Context, countryID uuid.UUID, limit int) ([]models.NewsItem, error) {
	if s.findByCountry == nil {
		return nil, nil
	}
	return s.findByCountry(countryID, limit)
}

type stubUserRepo struct {
	create      func(email, hashed, role string) (models.User, error)
	findByEmail func(email string) (models.User, error)
	list        func() ([]models.User, error)
}

func (s *stubUserRepo) Create(_ context.Context, email, hashed, role string) (models.User, error) {
	if s.create == nil {
		return models.User{ID: uuid.New(), Email: email, HashedPassword: hashed, Role: role, IsActive: true}, nil
	}
	return s.create(email, hashed, role)
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (models.User, error) {
	if s.findByEmail == nil {
		return models.User{}, repository.ErrNotFound
	}
	return s.findByEmail(email)
}

func (s *stubUserRepo) List(_ context.Context) ([]models.User, error) {
	if s.list == nil {
		return nil, nil
	}
	return s.list()
}

type stubGeoClient struct {
	getCountry         func(name string) (models.Country, error)
	getCountryByAlpha2 func(code string) (models.Country, error)
	getCity            func(name string) (client.CityResult, error)
	getCurrencyRates   func(base string) (models.CurrencyRates, error)
	countryCalls       int
	cityCalls          int
}

func (s *stubGeoClient) GetCountry(_ context.Context, name string) (models.Country, error) {
	s.countryCalls++
	if s.getCountry == nil {
		panic("unexpected GetCountry call")
	}
	return s.getCountry(name)
}

func (s *stubGeoClient) GetCountryByAlpha2(_ context.Context, code string) (models.Country, error) {
	s.countryCalls++
	if s.getCountryByAlpha2 == nil {
		panic("unexpected GetCountryByAlpha2 call")
	}
	return s.getCountryByAlpha2(code)
}

func (s *stubGeoClient) GetCity(_ context.Context, name string) (client.CityResult, error) {
	s.cityCalls++
	if s.getCity == nil {
		panic("unexpected GetCity call")
	}
	return s.getCity(name)
}

func (s *stubGeoClient) GetCurrencyRates(_ context.Context, base string) (models.CurrencyRates, error) {
	if s.getCurrencyRates == nil {
		panic("unexpected GetCurrencyRates call")
	}
	return s.getCurrencyRates(base)
}

type stubWeatherClient struct {
	getCurrentWeather func(city, alpha2 string) (models.WeatherSnapshot, error)
}

func (s *stubWeatherClient) GetCurrentWeather(_ context.Context, city, alpha2 string) (models.WeatherSnapshot, error) {
	if s.getCurrentWeather == nil {
		panic("unexpected GetCurrentWeather call")
	}
	return s.getCurrentWeather(city, alpha2)
}

func (s *stubWeatherClient) ValidateAPIKey(_ context.Context) error { return nil }

type stubNewsClient struct {
	getTopHeadlines func(alpha2 string) ([]models.NewsItem, error)
}

func (s *stubNewsClient) GetTopHeadlines(_ context.Context, alpha2 string) ([]models.NewsItem, error) {
	if s.getTopHeadlines == nil {
		panic("unexpected GetTopHeadlines call")
	}
	return s.getTopHeadlines(alpha2)
}

func ukCountry() models.Country {
	return models.Country{
		ID:           uuid.New(),
		Name:         "United Kingdom",
		Alpha2Code:   "GB",
		Alpha3Code:   "GBR",
		Capital:      "London",
		Region:       "Europe",
		Population:   67215293,
		CurrencyCode: "GBP",
	}
}

func londonCity(country models.Country) models.City {
	return models.City{
		ID:            uuid.New(),
		CountryID:     country.ID,
		Name:          "London",
		StateOrRegion: "England",
		Latitude:      51.5074,
		Longitude:     -0.1278,
		Country:       &country,
	}
}
