package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/bloglist/internal/common"
	"github.com/dmitrijs2005/bloglist/internal/dbx"
	"github.com/dmitrijs2005/bloglist/internal/server/auth"
	"github.com/dmitrijs2005/bloglist/internal/server/models"
	"github.com/dmitrijs2005/bloglist/internal/server/repositories/repomanager"
)

// maxLikes is the largest counter the likes column holds.
const maxLikes = math.MaxInt32

// BlogInput is the body of a blog submission.
type BlogInput struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  *int   `json:"likes"`
}

// Validate checks the required fields. The error is a KindValidation
// error carrying the validator's message.
func (in *BlogInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.URL = strings.TrimSpace(in.URL)

	err := validation.ValidateStruct(in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.URL, validation.Required),
		validation.Field(&in.Likes, validation.Min(0), validation.Max(maxLikes)),
	)
	if err != nil {
		return common.ValidationError(err.Error(), err)
	}
	return nil
}

// LikesInput is the body of a likes update.
type LikesInput struct {
	Likes *int `json:"likes"`
}

func (in *LikesInput) Validate() error {
	err := validation.ValidateStruct(in,
		validation.Field(&in.Likes, validation.NotNil, validation.Min(0), validation.Max(maxLikes)),
	)
	if err != nil {
		return common.ValidationError(err.Error(), err)
	}
	return nil
}

// BlogService implements blog listing, submission, likes updates and
// owner-checked deletion.
type BlogService struct {
	db          dbx.DBTX
	inTx        dbx.TxRunner
	repomanager repomanager.RepositoryManager
}

// NewBlogService constructs a BlogService. inTx runs the blog insert and
// the owner back-reference append as one unit.
func NewBlogService(db dbx.DBTX, inTx dbx.TxRunner, m repomanager.RepositoryManager) *BlogService {
	return &BlogService{db: db, inTx: inTx, repomanager: m}
}

func (s *BlogService) List(ctx context.Context) ([]*models.Blog, error) {
	blogs, err := s.repomanager.Blogs(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing blogs: %w", err)
	}
	return blogs, nil
}

// Create stores a blog owned by owner and appends its id to the owner's
// blog list. Both writes share one transaction: either both land or
// neither does. Likes default to 0.
func (s *BlogService) Create(ctx context.Context, owner *models.User, in BlogInput) (*models.Blog, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	likes := 0
	if in.Likes != nil {
		likes = *in.Likes
	}

	ownerID := owner.ID
	blog := &models.Blog{
		ID:      uuid.NewString(),
		Title:   in.Title,
		Author:  strings.TrimSpace(in.Author),
		URL:     in.URL,
		Likes:   likes,
		OwnerID: &ownerID,
	}

	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Blogs(tx).Create(ctx, blog); err != nil {
			return fmt.Errorf("error creating blog: %w", err)
		}
		if err := s.repomanager.Users(tx).AppendBlog(ctx, owner.ID, blog.ID); err != nil {
			return fmt.Errorf("error appending blog reference: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	blog.Owner = &models.Owner{ID: owner.ID, UserName: owner.UserName, Name: owner.Name}
	return blog, nil
}

// UpdateLikes replaces the likes counter. No identity is required.
func (s *BlogService) UpdateLikes(ctx context.Context, id string, in LikesInput) (*models.Blog, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.repomanager.Blogs(s.db).UpdateLikes(ctx, id, *in.Likes)
}

// Delete removes the blog when caller owns it or it has no owner. The
// owner's back-reference list is left untouched.
func (s *BlogService) Delete(ctx context.Context, caller *models.User, id string) error {
	if err := parseID(id); err != nil {
		return err
	}

	repo := s.repomanager.Blogs(s.db)

	blog, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := auth.AuthorizeOwnership(caller.ID, blog); err != nil {
		return err
	}

	return repo.Delete(ctx, id)
}

func parseID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.NewError(common.KindMalformedID, err)
	}
	return nil
}
