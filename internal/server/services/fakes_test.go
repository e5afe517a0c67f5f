package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/bloglist/internal/common"
	"github.com/dmitrijs2005/bloglist/internal/dbx"
	"github.com/dmitrijs2005/bloglist/internal/server/models"
	"github.com/dmitrijs2005/bloglist/internal/server/repositories/blogs"
	"github.com/dmitrijs2005/bloglist/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type fakeUsersRepo struct {
	byName  map[string]*models.User
	byID    map[string]*models.User
	refs    map[string][]string
	created []*models.User

	createErr error
	getErr    error
	appendErr error
}

func newFakeUsersRepo(us ...*models.User) *fakeUsersRepo {
	f := &fakeUsersRepo{byName: map[string]*models.User{}, byID: map[string]*models.User{}, refs: map[string][]string{}}
	for _, u := range us {
		f.byName[u.UserName] = u
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byName[u.UserName]; ok {
		return nil, common.NewError(common.KindDuplicateUsername, nil)
	}
	f.byName[u.UserName] = u
	f.byID[u.ID] = u
	f.created = append(f.created, u)
	return u, nil
}

func (f *fakeUsersRepo) GetUserByLogin(_ context.Context, login string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byName[login]; ok {
		return u, nil
	}
	return nil, common.NewError(common.KindNotFound, sql.ErrNoRows)
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		u.BlogIDs = append([]string{}, f.refs[id]...)
		return u, nil
	}
	return nil, common.NewError(common.KindNotFound, sql.ErrNoRows)
}

func (f *fakeUsersRepo) AppendBlog(_ context.Context, userID, blogID string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.refs[userID] = append(f.refs[userID], blogID)
	return nil
}

func (f *fakeUsersRepo) List(context.Context) ([]*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	out := []*models.User{}
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, nil
}

type fakeBlogsRepo struct {
	items map[string]*models.Blog

	createErr error
	listErr   error
	deleted   []string
}

func newFakeBlogsRepo(bs ...*models.Blog) *fakeBlogsRepo {
	f := &fakeBlogsRepo{items: map[string]*models.Blog{}}
	for _, b := range bs {
		f.items[b.ID] = b
	}
	return f
}

func (f *fakeBlogsRepo) List(context.Context) ([]*models.Blog, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []*models.Blog{}
	for _, b := range f.items {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBlogsRepo) GetByID(_ context.Context, id string) (*models.Blog, error) {
	if b, ok := f.items[id]; ok {
		return b, nil
	}
	return nil, common.NewError(common.KindNotFound, sql.ErrNoRows)
}

func (f *fakeBlogsRepo) Create(_ context.Context, b *models.Blog) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.items[b.ID] = b
	return nil
}

func (f *fakeBlogsRepo) UpdateLikes(_ context.Context, id string, likes int) (*models.Blog, error) {
	b, ok := f.items[id]
	if !ok {
		return nil, common.NewError(common.KindNotFound, sql.ErrNoRows)
	}
	b.Likes = likes
	return b, nil
}

func (f *fakeBlogsRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return common.NewError(common.KindNotFound, nil)
	}
	delete(f.items, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	b *fakeBlogsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository            { return m.u }
func (m *fakeRepoManager) Blogs(dbx.DBTX) blogs.Repository            { return m.b }

// directTx runs fn without a transaction.
func directTx(ctx context.Context, fn dbx.TxFunc) error { return fn(ctx, nil) }

var errFakeTx = errors.New("fake tx")
