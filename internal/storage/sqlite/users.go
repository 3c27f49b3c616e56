package sqlite

import (
	"context"
	"fmt"

	"sunsite/internal/storage"
)

func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (*storage.User, error) {
	query := `INSERT INTO users (username, password_hash)
		VALUES (?, ?)
		RETURNING *`

	var user storage.User
	if err := s.db.GetContext(ctx, &user, query, username, passwordHash); err != nil {
		return nil, fmt.Errorf("cannot create user %q: %w", username, mapSqlError(err))
	}
	return &user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*storage.User, error) {
	query := `SELECT * FROM users
		WHERE id = ? AND deleted_at IS NULL
		LIMIT 1`

	var user storage.User
	if err := s.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, fmt.Errorf("cannot find user id %d: %w", id, mapSqlError(err))
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*storage.User, error) {
	query := `SELECT * FROM users
		WHERE username = ? AND deleted_at IS NULL
		LIMIT 1`

	var user storage.User
	if err := s.db.GetContext(ctx, &user, query, username); err != nil {
		return nil, fmt.Errorf("cannot find username %q: %w", username, mapSqlError(err))
	}
	return &user, nil
}
