package users

import (
	"context"

	"github.com/dmitrijs2005/bloglist/internal/server/models"
)

// Repository is the Credential Store.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	AppendBlog(ctx context.Context, userID, blogID string) error
	List(ctx context.Context) ([]*models.User, error)
}
