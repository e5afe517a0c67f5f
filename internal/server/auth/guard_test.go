package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/bloglist/internal/common"
	"github.com/dmitrijs2005/bloglist/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers map[string]*models.User

func (f fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, common.NewError(common.KindNotFound, nil)
}

func newGuard(t *testing.T) (*Guard, *TokenService, *models.User) {
	t.Helper()
	root := &models.User{ID: "u-root", UserName: "root", Name: "Superuser"}
	tokens := NewTokenService([]byte("secret"))
	return NewGuard(tokens, fakeUsers{root.ID: root}), tokens, root
}

func TestRequireIdentity_MissingToken(t *testing.T) {
	g, _, _ := newGuard(t)

	_, _, err := g.RequireIdentity(context.Background())
	assert.ErrorIs(t, err, common.ErrMissingToken)

	_, _, err = g.RequireIdentity(WithRawToken(context.Background(), ""))
	assert.ErrorIs(t, err, common.ErrMissingToken)
}

func TestRequireIdentity_InvalidToken(t *testing.T) {
	g, _, _ := newGuard(t)

	_, _, err := g.RequireIdentity(WithRawToken(context.Background(), "garbage"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestRequireIdentity_ClaimsWithoutID(t *testing.T) {
	g, _, _ := newGuard(t)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Username: "root"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, _, err = g.RequireIdentity(WithRawToken(context.Background(), signed))
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestRequireIdentity_UserGone(t *testing.T) {
	g, tokens, _ := newGuard(t)

	tok, err := tokens.Issue(&models.User{ID: "u-deleted", UserName: "ghost"})
	require.NoError(t, err)

	_, _, err = g.RequireIdentity(WithRawToken(context.Background(), tok))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRequireIdentity_Success(t *testing.T) {
	g, tokens, root := newGuard(t)

	tok, err := tokens.Issue(root)
	require.NoError(t, err)

	ctx, user, err := g.RequireIdentity(WithRawToken(context.Background(), tok))
	require.NoError(t, err)
	assert.Equal(t, root, user)

	id, ok := UserIDFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, root.ID, id)
}

func TestRequireIdentity_LookupErrorPropagates(t *testing.T) {
	tokens := NewTokenService([]byte("secret"))
	boom := errors.New("db down")
	g := NewGuard(tokens, failingUsers{err: boom})

	tok, err := tokens.Issue(&models.User{ID: "u1"})
	require.NoError(t, err)

	_, _, err = g.RequireIdentity(WithRawToken(context.Background(), tok))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, common.Kind(0), common.KindOf(err))
}

type failingUsers struct{ err error }

func (f failingUsers) GetByID(context.Context, string) (*models.User, error) { return nil, f.err }

func TestAuthorizeOwnership(t *testing.T) {
	owner := "u-a"
	empty := ""

	tests := []struct {
		name    string
		userID  string
		blog    *models.Blog
		wantErr bool
	}{
		{name: "owner", userID: "u-a", blog: &models.Blog{ID: "b", OwnerID: &owner}},
		{name: "other user", userID: "u-b", blog: &models.Blog{ID: "b", OwnerID: &owner}, wantErr: true},
		{name: "ownerless", userID: "u-b", blog: &models.Blog{ID: "b"}},
		{name: "empty owner is ownerless", userID: "u-b", blog: &models.Blog{ID: "b", OwnerID: &empty}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := *tt.blog
			err := AuthorizeOwnership(tt.userID, tt.blog)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrForbidden)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, before, *tt.blog)
		})
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()

	_, ok := RawTokenFrom(ctx)
	assert.False(t, ok)
	_, ok = UserIDFrom(ctx)
	assert.False(t, ok)

	ctx = WithRawToken(ctx, "tok")
	tok, ok := RawTokenFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, "tok", tok)
}
