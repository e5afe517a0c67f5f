package blogs

import (
	"context"

	"github.com/dmitrijs2005/bloglist/internal/server/models"
)

// Repository stores blogs.
type Repository interface {
	List(ctx context.Context) ([]*models.Blog, error)
	GetByID(ctx context.Context, id string) (*models.Blog, error)
	Create(ctx context.Context, blog *models.Blog) error
	UpdateLikes(ctx context.Context, id string, likes int) (*models.Blog, error)
	Delete(ctx context.Context, id string) error
}
