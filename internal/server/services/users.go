// Package services contains server-side business logic. This file
// implements UserService: registration and login.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/bloglist/internal/common"
	"github.com/dmitrijs2005/bloglist/internal/dbx"
	"github.com/dmitrijs2005/bloglist/internal/server/auth"
	"github.com/dmitrijs2005/bloglist/internal/server/models"
	"github.com/dmitrijs2005/bloglist/internal/server/repositories/repomanager"
)

// LoginResult is returned on successful login.
type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// UserService registers accounts and exchanges credentials for tokens.
type UserService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	tokens      *auth.TokenService
}

// NewUserService constructs a UserService over the given pool handle.
func NewUserService(db dbx.DBTX, m repomanager.RepositoryManager, hasher *auth.PasswordHasher, tokens *auth.TokenService) *UserService {
	return &UserService{db: db, repomanager: m, hasher: hasher, tokens: tokens}
}

// Register creates a user. Username and password must both be at least
// common.MinCredentialLength characters; a taken username is reported by
// the store as KindDuplicateUsername.
func (s *UserService) Register(ctx context.Context, username, name, password string) (*models.User, error) {
	username = strings.TrimSpace(username)

	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		UserName:     username,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		BlogIDs:      []string{},
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies username and password and issues a session token.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.KindInvalidCredentials, nil)
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if err := s.hasher.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrMismatchedHashAndPassword) {
			return nil, common.NewError(common.KindInvalidCredentials, nil)
		}
		return nil, fmt.Errorf("error verifying password: %w", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	return &LoginResult{Token: token, Username: user.UserName, Name: user.Name}, nil
}

// List returns all users with their blog references.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return users, nil
}

// GetByID satisfies auth.UserFinder.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.NewError(common.KindNotFound, err)
	}
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

func validateCredentials(username, password string) error {
	rules := []validation.Rule{validation.Required, validation.RuneLength(common.MinCredentialLength, 0)}
	if validation.Validate(username, rules...) != nil || validation.Validate(password, rules...) != nil {
		return common.NewError(common.KindCredentialLength, nil)
	}
	return nil
}
