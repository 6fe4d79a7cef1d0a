package embedded

import (
	"context"
	"database/sql"
	"fmt"

	"duper-mart/internal/model"
	"duper-mart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// userRepository implements repository.UserRepository on the embedded store.
type userRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewUserRepository creates an embedded-store user repository.
func NewUserRepository(db *sql.DB, logger zerolog.Logger) repository.UserRepository {
	return &userRepository{
		db:     db,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, role, created_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Username, &u.Role, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, role, created_at) VALUES (?, ?, ?, ?)`,
		user.ID, user.Username, user.Role, user.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("username", user.Username).Msg("failed to create user")
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}
