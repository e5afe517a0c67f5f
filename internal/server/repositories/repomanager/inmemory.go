package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/bloglist/internal/common"
	"github.com/dmitrijs2005/bloglist/internal/dbx"
	"github.com/dmitrijs2005/bloglist/internal/server/models"
	"github.com/dmitrijs2005/bloglist/internal/server/repositories/blogs"
	"github.com/dmitrijs2005/bloglist/internal/server/repositories/users"
)

// MemoryDSN selects the in-memory store instead of PostgreSQL.
const MemoryDSN = "memory"

// InMemoryRepositoryManager keeps users and blogs in process memory. It
// mirrors the PostgreSQL repositories' observable behavior and is meant
// for local runs and tests. The DBTX passed to Users/Blogs is ignored
// unless it is a transaction handle produced by RunInTx.
type InMemoryRepositoryManager struct {
	mu    sync.RWMutex
	users map[string]*models.User
	names map[string]string
	refs  map[string][]string
	blogs map[string]*models.Blog
	now   func() time.Time
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users: make(map[string]*models.User),
		names: make(map[string]string),
		refs:  make(map[string][]string),
		blogs: make(map[string]*models.Blog),
		now:   time.Now,
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return &memUsers{m: m, tx: asMemTx(db)}
}

func (m *InMemoryRepositoryManager) Blogs(db dbx.DBTX) blogs.Repository {
	return &memBlogs{m: m, tx: asMemTx(db)}
}

// memTx records how to revert the writes made through it. The embedded
// DBTX is nil: memory repositories never issue SQL.
type memTx struct {
	dbx.DBTX
	undo []func()
}

func asMemTx(db dbx.DBTX) *memTx {
	tx, _ := db.(*memTx)
	return tx
}

func (tx *memTx) onRollback(f func()) {
	if tx != nil {
		tx.undo = append(tx.undo, f)
	}
}

// RunInTx is a dbx.TxRunner for the in-memory store. Writes made through
// repositories bound to the handle are reverted, newest first, when fn
// fails or panics. Other writers are not blocked meanwhile.
func (m *InMemoryRepositoryManager) RunInTx(ctx context.Context, fn dbx.TxFunc) (err error) {
	tx := &memTx{}

	defer func() {
		p := recover()
		if p != nil || err != nil {
			for i := len(tx.undo) - 1; i >= 0; i-- {
				tx.undo[i]()
			}
		}
		if p != nil {
			panic(p)
		}
	}()

	return fn(ctx, tx)
}

type memUsers struct {
	m  *InMemoryRepositoryManager
	tx *memTx
}

func (r *memUsers) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.names[user.UserName]; ok {
		return nil, common.NewError(common.KindDuplicateUsername, nil)
	}

	u := *user
	u.CreatedAt = r.m.now()
	u.BlogIDs = nil
	r.m.users[u.ID] = &u
	r.m.names[u.UserName] = u.ID

	r.tx.onRollback(func() {
		r.m.mu.Lock()
		defer r.m.mu.Unlock()
		delete(r.m.users, u.ID)
		delete(r.m.names, u.UserName)
	})

	user.CreatedAt = u.CreatedAt
	return user, nil
}

func (r *memUsers) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	id, ok := r.m.names[login]
	if !ok {
		return nil, common.NewError(common.KindNotFound, sql.ErrNoRows)
	}
	u := *r.m.users[id]
	return &u, nil
}

func (r *memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	return r.m.userLocked(id)
}

func (r *memUsers) AppendBlog(ctx context.Context, userID, blogID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.users[userID]; !ok {
		return fmt.Errorf("append blog reference: unknown user %s", userID)
	}
	r.m.refs[userID] = append(r.m.refs[userID], blogID)

	r.tx.onRollback(func() {
		r.m.mu.Lock()
		defer r.m.mu.Unlock()
		refs := r.m.refs[userID]
		for i := len(refs) - 1; i >= 0; i-- {
			if refs[i] == blogID {
				r.m.refs[userID] = append(refs[:i:i], refs[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (r *memUsers) List(ctx context.Context) ([]*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	result := make([]*models.User, 0, len(r.m.users))
	for id := range r.m.users {
		u, _ := r.m.userLocked(id)
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserName < result[j].UserName })
	return result, nil
}

func (m *InMemoryRepositoryManager) userLocked(id string) (*models.User, error) {
	stored, ok := m.users[id]
	if !ok {
		return nil, common.NewError(common.KindNotFound, sql.ErrNoRows)
	}
	u := *stored
	u.BlogIDs = append([]string{}, m.refs[id]...)
	return &u, nil
}

type memBlogs struct {
	m  *InMemoryRepositoryManager
	tx *memTx
}

func (r *memBlogs) List(ctx context.Context) ([]*models.Blog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	result := make([]*models.Blog, 0, len(r.m.blogs))
	for _, stored := range r.m.blogs {
		b := copyBlog(stored)
		if b.HasOwner() {
			if u, ok := r.m.users[*b.OwnerID]; ok {
				b.Owner = &models.Owner{ID: u.ID, UserName: u.UserName, Name: u.Name}
			}
		}
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Title != result[j].Title {
			return result[i].Title < result[j].Title
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *memBlogs) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	stored, ok := r.m.blogs[id]
	if !ok {
		return nil, common.NewError(common.KindNotFound, sql.ErrNoRows)
	}
	return copyBlog(stored), nil
}

func (r *memBlogs) Create(ctx context.Context, blog *models.Blog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if blog.Likes < 0 {
		return fmt.Errorf("db error: likes must be non-negative, got %d", blog.Likes)
	}

	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.blogs[blog.ID]; ok {
		return fmt.Errorf("db error: duplicate blog id %s", blog.ID)
	}
	r.m.blogs[blog.ID] = copyBlog(blog)

	r.tx.onRollback(func() {
		r.m.mu.Lock()
		defer r.m.mu.Unlock()
		delete(r.m.blogs, blog.ID)
	})
	return nil
}

func (r *memBlogs) UpdateLikes(ctx context.Context, id string, likes int) (*models.Blog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	stored, ok := r.m.blogs[id]
	if !ok {
		return nil, common.NewError(common.KindNotFound, sql.ErrNoRows)
	}
	stored.Likes = likes
	return copyBlog(stored), nil
}

func (r *memBlogs) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.blogs[id]; !ok {
		return common.NewError(common.KindNotFound, nil)
	}
	delete(r.m.blogs, id)
	return nil
}

// copyBlog returns a detached copy without the owner projection.
func copyBlog(b *models.Blog) *models.Blog {
	c := *b
	c.Owner = nil
	if b.OwnerID != nil {
		id := *b.OwnerID
		c.OwnerID = &id
	}
	return &c
}
