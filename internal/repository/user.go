package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"location-info-service/internal/models"
)

var _ UserRepository = (*PostgresUserRepository)(nil)

type UserRepository interface {
	Create(ctx context.Context, email, hashedPassword, role string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type PostgresUserRepository struct {
	db     Querier
	logger *zap.Logger
}

func NewPostgresUserRepository(db Querier, logger *zap.Logger) *PostgresUserRepository {
	return &PostgresUserRepository{db: db, logger: logger}
}

const createUserQuery = `
	INSERT INTO users (email, hashed_password, role)
	VALUES ($1, $2, $3)
	RETURNING id, is_active, created_at`

func (r *PostgresUserRepository) Create(ctx context.Context, email, hashedPassword, role string) (models.User, error) {
	user := models.User{
		Email:          email,
		HashedPassword: hashedPassword,
		Role:           role,
	}
	err := r.db.QueryRow(ctx, createUserQuery, email, hashedPassword, role).
		Scan(&user.ID, &user.IsActive, &user.CreatedAt)
	if err != nil {
		if uniqueViolation(err) {
			return models.User{}, fmt.Errorf("user %s: %w", email, ErrDuplicate)
		}
		return models.User{}, recordDBError("user_create", fmt.Errorf("insert user: %w", err))
	}
	return user, nil
}

const findUserByEmailQuery = `
	SELECT id, email, hashed_password, role, is_active, created_at
	FROM users
	WHERE LOWER(email) = LOWER($1)`

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx, findUserByEmailQuery, email).Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, recordDBError("user_find_by_email", fmt.Errorf("scan user: %w", err))
	}
	return user, nil
}

const listUsersQuery = `
	SELECT id, email, hashed_password, role, is_active, created_at
	FROM users
	ORDER BY created_at`

func (r *PostgresUserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.Query(ctx, listUsersQuery)
	if err != nil {
		return nil, recordDBError("user_list", fmt.Errorf("query users: %w", err))
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.HashedPassword,
			&user.Role,
			&user.IsActive,
			&user.CreatedAt,
		); err != nil {
			return nil, recordDBError("user_list", fmt.Errorf("scan user: %w", err))
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, recordDBError("user_list", fmt.Errorf("iterate user rows: %w", err))
	}
	return users, nil
}
