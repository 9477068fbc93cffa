// Package auth authenticates users and issues and resolves JWTs.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/backoffice/pkg/config"
	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/user"
	"github.com/amirasaad/backoffice/pkg/dto"
	"github.com/amirasaad/backoffice/pkg/mapper"
	"github.com/amirasaad/backoffice/pkg/repository"
	userrepo "github.com/amirasaad/backoffice/pkg/repository/user"
	"github.com/amirasaad/backoffice/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
)

// dummyHash is compared against when the user does not exist, so unknown
// and known identities take the same time.
const dummyHash = "$2a$10$7zFqzDbD3RrlkMTczbXG9OWZ0FLOXjIxXzSZ.QZxkVXjXcx7QZQiC"

// Claim names carried by issued tokens.
const (
	ClaimSubject  = "sub"
	ClaimRole     = "role"
	ClaimUsername = "username"
)

type Service struct {
	uow    repository.UnitOfWork
	cfg    *config.Jwt
	logger *slog.Logger
}

func New(
	uow repository.UnitOfWork,
	cfg *config.Jwt,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, cfg: cfg, logger: logger}
}

// Login checks the credentials of an active user identified by username
// or email and returns the user with a signed token.
func (s *Service) Login(
	ctx context.Context,
	identity, password string,
) (u *dto.UserRead, token string, err error) {
	log := s.logger.With("identity", identity)
	log.Debug("Login called")
	var found *user.User
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Get[userrepo.Repository](uow)
		if err != nil {
			return err
		}
		if utils.IsEmail(identity) {
			found, err = repo.GetByEmail(ctx, utils.NormalizeEmail(identity))
		} else {
			found, err = repo.GetByUsername(ctx, identity)
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if found == nil {
			_ = utils.CheckPasswordHash(password, dummyHash)
			return user.ErrUserUnauthorized
		}
		if !found.CheckPassword(password) {
			return user.ErrUserUnauthorized
		}
		return nil
	})
	if err != nil {
		log.Warn("Login failed", "error", err)
		return nil, "", err
	}
	token, err = s.GenerateToken(found)
	if err != nil {
		return nil, "", err
	}
	log.Info("Login successful", "user", found.PublicID)
	return mapper.MapUserToRead(found), token, nil
}

// GenerateToken signs an HS256 token for u.
func (s *Service) GenerateToken(u *user.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		ClaimSubject:  u.PublicID,
		ClaimRole:     string(u.Role),
		ClaimUsername: u.Username,
		"iat":         now.Unix(),
		"exp":         now.Add(s.cfg.Expiry).Unix(),
	})
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		s.logger.Error("GenerateToken failed", "user", u.PublicID, "error", err)
		return "", err
	}
	return signed, nil
}

// Actor resolves a verified token to the active user it names. Tokens of
// deleted users no longer authenticate. The role is read from the store,
// not the token.
func (s *Service) Actor(ctx context.Context, token *jwt.Token) (actor user.Actor, err error) {
	if token == nil {
		return actor, user.ErrUserUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return actor, user.ErrUserUnauthorized
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return actor, user.ErrUserUnauthorized
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Get[userrepo.Repository](uow)
		if err != nil {
			return err
		}
		u, err := repo.GetByPublicID(ctx, sub, false)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return user.ErrUserUnauthorized
			}
			return err
		}
		actor = u.Actor()
		return nil
	})
	if err != nil {
		s.logger.Debug("Token rejected", "sub", sub, "error", err)
		return user.Actor{}, err
	}
	return actor, nil
}

// ParseToken verifies a signed token string. It is used outside the HTTP
// middleware, e.g. by tests and the CLI.
func (s *Service) ParseToken(raw string) (*jwt.Token, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", user.ErrUserUnauthorized, err)
	}
	return token, nil
}
