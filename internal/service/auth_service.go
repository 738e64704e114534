package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"crema/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTTL   = time.Hour
	signingKey = "crema-dev-key" // TODO: move to config
)

// Domain errors for auth flows.
var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidToken    = errors.New("invalid token")
)

// AuthService manages the accounts that may browse the shot archive.
// Accounts are local to this server; the machine knows nothing about
// them.
type AuthService struct {
	users repository.Authorization
}

func NewAuthService(users repository.Authorization) *AuthService {
	return &AuthService{users: users}
}

// tokenClaims is the payload of an issued access token.
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID int `json:"user_id"`
}

// SignUp stores a new account with a bcrypt-hashed password.
func (s *AuthService) SignUp(username, password string) (int, error) {
	if strings.TrimSpace(password) == "" {
		return 0, fmt.Errorf("invalid password: %w", errors.New("password is empty"))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	return s.users.Create(username, string(hash))
}

// GenerateToken checks the credentials and issues a signed token good
// for tokenTTL.
func (s *AuthService) GenerateToken(username, password string) (string, error) {
	u, err := s.users.GetByUsername(username)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidPassword
	}
	return signToken(u.ID)
}

// ParseToken verifies a token and returns the user id it was issued to.
func (s *AuthService) ParseToken(accessToken string) (int, error) {
	token, err := jwt.ParseWithClaims(accessToken, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Only the HMAC family signs our tokens.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(signingKey), nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

func signToken(userID int) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	})
	return token.SignedString([]byte(signingKey))
}
