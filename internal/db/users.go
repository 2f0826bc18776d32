package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/TaINaS20/tarefa-node-api/internal/models"
)

const userColumns = `id, public_id::text, nome, email, senha, foto, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.PublicID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Photo,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) CreateUser(ctx context.Context, input models.NewUser) (*models.User, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}

	query := `
		INSERT INTO users (public_id, nome, email, senha, foto)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	created, err := scanUser(s.pool.QueryRow(
		ctx,
		query,
		input.PublicID,
		input.Name,
		input.Email,
		input.PasswordHash,
		input.Photo,
	))
	if err != nil {
		err = translateErr(err)
		if !errors.Is(err, ErrUniqueViolation) {
			s.logger.Error("failed to create user", zap.Error(err))
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return users, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", translateErr(err))
	}
	return user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(s.pool.QueryRow(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", translateErr(err))
	}
	return user, nil
}

// UpdateUser applies only the non-nil patch fields. An empty patch reads
// the row back unchanged without touching updated_at.
func (s *Store) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}
	if patch.IsEmpty() {
		return s.GetUserByID(ctx, id)
	}

	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Name != nil {
		set("nome", *patch.Name)
	}
	if patch.Email != nil {
		set("email", *patch.Email)
	}
	if patch.PasswordHash != nil {
		set("senha", *patch.PasswordHash)
	}
	if patch.Photo != nil {
		set("foto", *patch.Photo)
	}
	sets = append(sets, "updated_at = now()")

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), userColumns,
	)

	updated, err := scanUser(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("update user: %w", translateErr(err))
	}
	return updated, nil
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	if s.pool == nil {
		return errors.New("db not initialized")
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		s.logger.Error("failed to delete user", zap.Error(err), zap.Int64("user_id", id))
		return fmt.Errorf("delete user: %w", translateErr(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete user: %w", ErrNotFound)
	}
	return nil
}

// ListUserPosts returns the user's posts, most recent first. The caller
// checks the user exists; an unknown id yields an empty list here.
func (s *Store) ListUserPosts(ctx context.Context, userID int64) ([]models.Post, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}

	const query = `
		SELECT id, titulo, conteudo, user_id, created_at, updated_at
		FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list user posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		var post models.Post
		if err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Content,
			&post.UserID,
			&post.CreatedAt,
			&post.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return posts, nil
}
