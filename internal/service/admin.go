package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"location-info-service/internal/auth"
	"location-info-service/internal/models"
	"location-info-service/internal/repository"
)

// AdminService backs the superuser-gated management surface and the
// createsuperuser command.
type AdminService struct {
	users        repository.UserRepository
	countries    repository.CountryRepository
	cities       repository.CityRepository
	snapshots    repository.WeatherRepository
	tokenManager *auth.TokenManager
}

func NewAdminService(
	users repository.UserRepository,
	countries repository.CountryRepository,
	cities repository.CityRepository,
	snapshots repository.WeatherRepository,
	tokenManager *auth.TokenManager,
) *AdminService {
	return &AdminService{
		users:        users,
		countries:    countries,
		cities:       cities,
		snapshots:    snapshots,
		tokenManager: tokenManager,
	}
}

// Login verifies credentials and issues an access token. Unknown users,
// wrong passwords and inactive accounts all map to ErrInvalidCredentials.
func (s *AdminService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", models.User{}, auth.ErrInvalidCredentials
		}
		return "", models.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if !user.IsActive {
		return "", models.User{}, auth.ErrInvalidCredentials
	}
	if err := auth.CheckPassword(user.HashedPassword, password); err != nil {
		return "", models.User{}, auth.ErrInvalidCredentials
	}

	token, err := s.tokenManager.Issue(user)
	if err != nil {
		return "", models.User{}, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// CreateSuperuser hashes the password and inserts an active superuser row.
func (s *AdminService) CreateSuperuser(ctx context.Context, email, password string) (models.User, error) {
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	return s.users.Create(ctx, email, hashed, models.RoleSuperuser)
}

// Stats holds row counts for the admin dashboard.
type Stats struct {
	Countries        int64 `json:"countries"`
	Cities           int64 `json:"cities"`
	WeatherSnapshots int64 `json:"weatherSnapshots"`
}

func (s *AdminService) GetStats(ctx context.Context) (Stats, error) {
	var stats Stats
	var err error

	if stats.Countries, err = s.countries.Count(ctx); err != nil {
		return Stats{}, fmt.Errorf("count countries: %w", err)
	}
	if stats.Cities, err = s.cities.Count(ctx); err != nil {
		return Stats{}, fmt.Errorf("count cities: %w", err)
	}
	if stats.WeatherSnapshots, err = s.snapshots.Count(ctx); err != nil {
		return Stats{}, fmt.Errorf("count weather snapshots: %w", err)
	}
	return stats, nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// PruneSnapshots removes weather snapshots observed before cutoff.
func (s *AdminService) PruneSnapshots(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.snapshots.DeleteBefore(ctx, cutoff)
}
