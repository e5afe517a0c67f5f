// Package auth implements the authentication and authorization pipeline:
// session tokens, password hashing, request-scoped identity and the
// ownership guard applied to mutating blog operations.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/bloglist/internal/common"
	"github.com/dmitrijs2005/bloglist/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a session token. Only the issue time is set
// among the registered claims: tokens carry no expiry and stay valid for
// as long as the signing secret does.
type Claims struct {
	Username string `json:"username"`
	UserID   string `json:"id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 session tokens with a secret
// fixed at construction. It is safe for concurrent use.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret []byte) *TokenService {
	s := make([]byte, len(secret))
	copy(s, secret)
	return &TokenService{secret: s, now: time.Now}
}

// Issue signs a token for an authenticated user.
func (s *TokenService) Issue(user *models.User) (string, error) {
	if user == nil || user.ID == "" {
		return "", errors.New("issue token: user without id")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username: user.UserName,
		UserID:   user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(s.now()),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify checks the signature and decodes the claims. Any signature or
// decoding failure yields a KindInvalidToken error.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, common.NewError(common.KindInvalidToken, err)
	}

	if !token.Valid {
		return nil, common.NewError(common.KindInvalidToken, nil)
	}

	return claims, nil
}
