package auth

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/bloglist/internal/common"
	"github.com/dmitrijs2005/bloglist/internal/server/models"
)

// UserFinder resolves a verified user id to its record.
type UserFinder interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Guard turns the raw request token into a verified identity and checks
// resource ownership.
type Guard struct {
	tokens *TokenService
	users  UserFinder
}

func NewGuard(tokens *TokenService, users UserFinder) *Guard {
	return &Guard{tokens: tokens, users: users}
}

// RequireIdentity verifies the token attached to ctx and loads its user.
// The returned context additionally carries the verified user id.
//
// Failures: KindMissingToken without a token, KindInvalidToken on a bad
// signature, KindUnauthorized when the claims carry no id, KindNotFound
// when the id no longer resolves to a user.
func (g *Guard) RequireIdentity(ctx context.Context) (context.Context, *models.User, error) {
	raw, ok := RawTokenFrom(ctx)
	if !ok {
		return ctx, nil, common.NewError(common.KindMissingToken, nil)
	}

	claims, err := g.tokens.Verify(raw)
	if err != nil {
		return ctx, nil, err
	}
	if claims.UserID == "" {
		return ctx, nil, common.NewError(common.KindUnauthorized, nil)
	}

	user, err := g.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return ctx, nil, fmt.Errorf("loading token user: %w", err)
	}

	return WithUserID(ctx, user.ID), user, nil
}

// AuthorizeOwnership permits the operation when the blog has no owner or
// the owner is userID. It never modifies the blog.
func AuthorizeOwnership(userID string, blog *models.Blog) error {
	if !blog.HasOwner() {
		return nil
	}
	if *blog.OwnerID != userID {
		return common.NewError(common.KindForbidden, nil)
	}
	return nil
}
