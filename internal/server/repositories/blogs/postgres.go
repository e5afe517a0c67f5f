// Package blogs provides the PostgreSQL-backed blog store.
package blogs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bloglist/internal/common"
	"github.com/dmitrijs2005/bloglist/internal/dbx"
	"github.com/dmitrijs2005/bloglist/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns every blog with its owner projection joined in. Blogs whose
// owner is absent or no longer exists have a nil Owner.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Blog, error) {
	query := `
		SELECT b.id, b.title, b.author, b.url, b.likes, b.user_id, u.username, u.name
		FROM blogs b
		LEFT JOIN users u ON u.id = b.user_id
		ORDER BY b.title, b.id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select blogs: %w", err)
	}
	defer rows.Close()

	result := []*models.Blog{}
	for rows.Next() {
		var (
			b        models.Blog
			ownerID  sql.NullString
			username sql.NullString
			name     sql.NullString
		)
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.URL, &b.Likes, &ownerID, &username, &name); err != nil {
			return nil, err
		}
		if ownerID.Valid {
			id := ownerID.String
			b.OwnerID = &id
			if username.Valid {
				b.Owner = &models.Owner{ID: id, UserName: username.String, Name: name.String}
			}
		}
		result = append(result, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns the blog or a KindNotFound error.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	query := `
		SELECT id, title, author, url, likes, user_id
		FROM blogs
		WHERE id = $1
	`
	b, err := scanBlog(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Create inserts blog. The id must already be set.
func (r *PostgresRepository) Create(ctx context.Context, blog *models.Blog) error {
	query := `
		INSERT INTO blogs (id, title, author, url, likes, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	var ownerID any
	if blog.HasOwner() {
		ownerID = *blog.OwnerID
	}
	if _, err := r.db.ExecContext(ctx, query,
		blog.ID, blog.Title, blog.Author, blog.URL, blog.Likes, ownerID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// UpdateLikes replaces the likes counter and returns the updated blog.
func (r *PostgresRepository) UpdateLikes(ctx context.Context, id string, likes int) (*models.Blog, error) {
	query := `
		UPDATE blogs SET likes = $2
		WHERE id = $1
		RETURNING id, title, author, url, likes, user_id
	`
	return scanBlog(r.db.QueryRowContext(ctx, query, id, likes))
}

// Delete removes the blog. Deleting an absent blog yields KindNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM blogs
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.NewError(common.KindNotFound, nil)
	}
	return nil
}

func scanBlog(row *sql.Row) (*models.Blog, error) {
	var (
		b       models.Blog
		ownerID sql.NullString
	)
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &b.URL, &b.Likes, &ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.KindNotFound, err)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if ownerID.Valid {
		id := ownerID.String
		b.OwnerID = &id
	}
	return &b, nil
}
