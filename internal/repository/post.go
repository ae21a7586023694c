package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	infralogger "github.com/yujin9907/cloud-naitive/infrastructure/logger"
	"github.com/yujin9907/cloud-naitive/internal/models"
)

// ErrPostNotFound is returned by GetByID when no row has the id.
var ErrPostNotFound = errors.New("post not found")

// likeEscaper makes a keyword match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListFilter narrows List. An empty Keyword lists every post.
type ListFilter struct {
	Keyword string
}

type PostRepository struct {
	db            *sqlx.DB
	logger        infralogger.Logger
	caseSensitive bool
}

// NewPostRepository returns a repository over db. caseSensitive selects LIKE
// over ILIKE for keyword search.
func NewPostRepository(db *sqlx.DB, log infralogger.Logger, caseSensitive bool) *PostRepository {
	return &PostRepository{
		db:            db,
		logger:        log,
		caseSensitive: caseSensitive,
	}
}

// List returns posts newest first, optionally restricted to those whose title
// or content contains filter.Keyword.
func (r *PostRepository) List(ctx context.Context, filter ListFilter) ([]models.Post, error) {
	query, args := r.buildListQuery(filter)

	posts := make([]models.Post, 0)
	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return posts, nil
}

func (r *PostRepository) buildListQuery(filter ListFilter) (query string, args []any) {
	query = `SELECT id, title, content FROM posts`

	if filter.Keyword != "" {
		op := "ILIKE"
		if r.caseSensitive {
			op = "LIKE"
		}
		query += fmt.Sprintf(` WHERE title %[1]s $1 ESCAPE '\' OR content %[1]s $1 ESCAPE '\'`, op)
		args = append(args, "%"+EscapeLike(filter.Keyword)+"%")
	}

	query += ` ORDER BY id DESC`
	return query, args
}

// EscapeLike escapes LIKE metacharacters using backslash as the escape.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post

	err := r.db.GetContext(ctx, &post, `SELECT id, title, content FROM posts WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}

	return &post, nil
}

// Create inserts post and returns the generated id.
func (r *PostRepository) Create(ctx context.Context, post models.Post) (int64, error) {
	var id int64

	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO posts (title, content) VALUES ($1, $2) RETURNING id`,
		post.Title,
		post.Content,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert post: %w", err)
	}

	r.logger.Debug("Post created", infralogger.Int64("post_id", id))
	return id, nil
}

// Update overwrites title and content of row id. It returns the number of
// rows affected; zero means the id did not exist, which is not an error.
func (r *PostRepository) Update(ctx context.Context, id int64, post models.Post) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE posts SET title = $1, content = $2 WHERE id = $3`,
		post.Title,
		post.Content,
		id,
	)
	if err != nil {
		return 0, fmt.Errorf("update post %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// Delete removes row id. Deleting a missing id affects zero rows and succeeds.
func (r *PostRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete post %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}

	return rowsAffected, nil
}
