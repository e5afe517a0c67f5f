// Package users provides the PostgreSQL-backed Credential Store: user
// accounts and their ordered back-references to created blogs.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bloglist/internal/common"
	"github.com/dmitrijs2005/bloglist/internal/dbx"
	"github.com/dmitrijs2005/bloglist/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the SQLSTATE Postgres reports for unique constraint violations.
const uniqueViolation = "23505"

// PostgresRepository implements Repository over dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts user. The id must already be set. A username that is
// taken yields a KindDuplicateUsername error.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (id, username, name, password_hash)
         VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.UserName, user.Name, user.PasswordHash).Scan(&user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.NewError(common.KindDuplicateUsername, err)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if user.BlogIDs == nil {
		user.BlogIDs = []string{}
	}
	return user, nil
}

// GetUserByLogin returns the user with the given username, without blog ids.
func (r *PostgresRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	query :=
		`SELECT id, username, name, password_hash, created_at FROM users
		 WHERE username = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, userName).
		Scan(&user.ID, &user.UserName, &user.Name, &user.PasswordHash, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.KindNotFound, err)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// GetByID returns the user with the given id together with its blog ids.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, username, name, password_hash, created_at FROM users
		 WHERE id = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.UserName, &user.Name, &user.PasswordHash, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.KindNotFound, err)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	refs, err := r.blogRefs(ctx, `WHERE user_id = $1`, id)
	if err != nil {
		return nil, err
	}
	user.BlogIDs = refs[id]
	if user.BlogIDs == nil {
		user.BlogIDs = []string{}
	}

	return user, nil
}

// AppendBlog records blogID at the end of the user's back-reference list.
func (r *PostgresRepository) AppendBlog(ctx context.Context, userID, blogID string) error {
	query := `
		INSERT INTO user_blogs (user_id, blog_id)
		VALUES ($1, $2)
	`
	if _, err := r.db.ExecContext(ctx, query, userID, blogID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// List returns all users ordered by username, each with its blog ids.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT id, username, name, created_at FROM users ORDER BY username`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select users: %w", err)
	}
	defer rows.Close()

	result := []*models.User{}
	for rows.Next() {
		u := &models.User{}
		if err := rows.Scan(&u.ID, &u.UserName, &u.Name, &u.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs, err := r.blogRefs(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, u := range result {
		u.BlogIDs = refs[u.ID]
		if u.BlogIDs == nil {
			u.BlogIDs = []string{}
		}
	}

	return result, nil
}

// blogRefs loads back-references grouped by user id, in insertion order.
func (r *PostgresRepository) blogRefs(ctx context.Context, where string, args ...any) (map[string][]string, error) {
	query := `SELECT user_id, blog_id FROM user_blogs ` + where + ` ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select blog references: %w", err)
	}
	defer rows.Close()

	refs := make(map[string][]string)
	for rows.Next() {
		var userID, blogID string
		if err := rows.Scan(&userID, &blogID); err != nil {
			return nil, err
		}
		refs[userID] = append(refs[userID], blogID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return refs, nil
}
