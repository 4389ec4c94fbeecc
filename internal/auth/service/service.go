// Package service implements operator sign-in and the startup admin seed.
package service

import (
	"context"
	"errors"
	"time"

	"landing_backend/internal/auth/repository"
	"landing_backend/platform/config"
	"landing_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const accessTokenType = "access"

type Service struct {
	repo *repository.Repository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

func New(repo *repository.Repository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// SignIn verifies the operator credentials and mints an HS256 access token.
func (s *Service) SignIn(ctx context.Context, email, plainPassword string) (string, time.Duration, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		s.log.AuthEvent("sign_in", email, false, "unknown email")
		return "", 0, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(plainPassword)); err != nil {
		s.log.AuthEvent("sign_in", email, false, "bad password")
		return "", 0, ErrInvalidCredentials
	}

	ttl := s.cfg.GetAccessTokenTTL()
	token, err := s.signJWT(user.ID, user.Email, user.Roles, ttl)
	if err != nil {
		return "", 0, err
	}

	s.log.AuthEvent("sign_in", user.Email, true, "")
	return token, ttl, nil
}

// EnsureAdmin seeds the admin operator from ADMIN_EMAIL/ADMIN_PASSWORD.
// No-op when the variables are unset or the account already exists.
func (s *Service) EnsureAdmin(ctx context.Context) error {
	email := s.cfg.GetAdminEmail()
	password := s.cfg.GetAdminPassword()
	if email == "" || password == "" {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.repo.Upsert(ctx, email, string(hash), []string{"admin", "dashboard"})
}

func (s *Service) signJWT(userID uuid.UUID, email string, roles []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"type":  accessTokenType,
		"roles": roles,
		"exp":   now.Add(ttl).Unix(),
		"iat":   now.Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTSecret()))
}
