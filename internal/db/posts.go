package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/TaINaS20/tarefa-node-api/internal/models"
)

const postWithOwnerColumns = `
	p.id, p.titulo, p.conteudo, p.user_id, p.created_at, p.updated_at,
	u.id, u.nome, u.email, u.foto`

func scanPostWithOwner(row interface{ Scan(dest ...any) error }) (*models.PostWithOwner, error) {
	var post models.PostWithOwner
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.UserID,
		&post.CreatedAt,
		&post.UpdatedAt,
		&post.User.ID,
		&post.User.Name,
		&post.User.Email,
		&post.User.Photo,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Store) CreatePost(ctx context.Context, input models.NewPost) (*models.PostWithOwner, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}

	const query = `
		INSERT INTO posts (titulo, conteudo, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, titulo, conteudo, user_id, created_at, updated_at
	`
	var post models.PostWithOwner
	err := s.pool.QueryRow(ctx, query, input.Title, input.Content, input.UserID).Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.UserID,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		err = translateErr(err)
		if !errors.Is(err, ErrForeignKeyViolation) {
			s.logger.Error("failed to create post", zap.Error(err))
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	owner, err := s.GetUserByID(ctx, post.UserID)
	if err != nil {
		return nil, fmt.Errorf("load post owner: %w", err)
	}
	post.User = owner.Owner()
	return &post, nil
}

func (s *Store) ListPosts(ctx context.Context) ([]models.PostWithOwner, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}

	query := `
		SELECT ` + postWithOwnerColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.PostWithOwner, 0)
	for rows.Next() {
		post, err := scanPostWithOwner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return posts, nil
}

func (s *Store) GetPostByID(ctx context.Context, id int64) (*models.PostWithOwner, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}

	query := `
		SELECT ` + postWithOwnerColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`
	post, err := scanPostWithOwner(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get post: %w", translateErr(err))
	}
	return post, nil
}

// UpdatePost applies only the non-nil patch fields. An empty patch reads
// the row back unchanged without touching updated_at.
func (s *Store) UpdatePost(ctx context.Context, id int64, patch models.PostPatch) (*models.PostWithOwner, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}
	if patch.IsEmpty() {
		return s.GetPostByID(ctx, id)
	}

	sets := make([]string, 0, 3)
	args := make([]any, 0, 3)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Title != nil {
		set("titulo", *patch.Title)
	}
	if patch.Content != nil {
		set("conteudo", *patch.Content)
	}
	sets = append(sets, "updated_at = now()")

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE posts SET %s WHERE id = $%d RETURNING id`,
		strings.Join(sets, ", "), len(args),
	)

	var updatedID int64
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		return nil, fmt.Errorf("update post: %w", translateErr(err))
	}
	return s.GetPostByID(ctx, updatedID)
}

func (s *Store) DeletePost(ctx context.Context, id int64) error {
	if s.pool == nil {
		return errors.New("db not initialized")
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		s.logger.Error("failed to delete post", zap.Error(err), zap.Int64("post_id", id))
		return fmt.Errorf("delete post: %w", translateErr(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete post: %w", ErrNotFound)
	}
	return nil
}
