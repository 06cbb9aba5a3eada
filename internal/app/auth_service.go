package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventfeed/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles credential verification and signed-token auth.
type AuthService struct {
	users  domain.UserRepository
	secret []byte
	ttl    time.Duration
	log    *zap.Logger
}

// NewAuthService creates an AuthService signing tokens with secret, valid for
// ttl.
func NewAuthService(users domain.UserRepository, secret []byte, ttl time.Duration, log *zap.Logger) *AuthService {
	return &AuthService{users: users, secret: secret, ttl: ttl, log: log}
}

// Login verifies the credentials and issues a signed token embedding the user
// identifier.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.issueToken(user.ID)
}

// ResolveFromToken verifies the token's signature and expiry and re-fetches
// the user record fresh on every call.
func (s *AuthService) ResolveFromToken(ctx context.Context, raw string) (*domain.User, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// LoginWithUser issues a token for an already-authenticated identity (e.g.
// via SSO), auto-provisioning a local account on first sight. SSO accounts
// carry no usable password hash.
func (s *AuthService) LoginWithUser(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		username := email
		if at := strings.IndexByte(email, '@'); at > 0 {
			username = email[:at]
		}
		id, err := s.users.Insert(ctx, &domain.User{
			Username:       username,
			Email:          email,
			ProfilePicture: domain.DefaultProfilePicture,
		})
		if err != nil {
			// Creation can lose a race with a concurrent first login.
			insertErr := err
			user, err = s.users.GetByEmail(ctx, email)
			if err != nil {
				return "", err
			}
			if user == nil {
				return "", fmt.Errorf("provision user: %w", insertErr)
			}
		} else {
			user = &domain.User{ID: id, Username: username, Email: email}
		}
		s.log.Info("auto-provisioned user from sso", zap.String("email", email))
	}
	return s.issueToken(user.ID)
}

func (s *AuthService) issueToken(userID primitive.ObjectID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.Hex(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
