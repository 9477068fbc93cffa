// Package client manages the client profile attached to each user.
package client

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/client"
	"github.com/amirasaad/backoffice/pkg/domain/user"
	"github.com/amirasaad/backoffice/pkg/dto"
	"github.com/amirasaad/backoffice/pkg/mapper"
	"github.com/amirasaad/backoffice/pkg/repository"
	clientrepo "github.com/amirasaad/backoffice/pkg/repository/client"
	userrepo "github.com/amirasaad/backoffice/pkg/repository/user"
	"github.com/google/uuid"
)

type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Create attaches a client profile to the actor's user. A user has at
// most one client; dni and email must be unique.
func (s *Service) Create(
	ctx context.Context,
	actor user.Actor,
	p client.Profile,
) (out *dto.ClientRead, err error) {
	c, err := client.New(actor.ID, p)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Get[clientrepo.Repository](uow)
		if err != nil {
			return err
		}
		owner, err := ownerOf(ctx, uow, actor.ID)
		if err != nil {
			return err
		}
		has, err := repo.ExistsByUserID(ctx, actor.ID)
		if err != nil {
			return err
		}
		if has {
			return client.ErrUserHasClient
		}
		if err := checkUnique(ctx, repo, c); err != nil {
			return err
		}
		if err := repo.Create(ctx, c); err != nil {
			return err
		}
		out = mapper.MapClientToRead(c, owner.PublicID)
		return nil
	})
	if err != nil {
		s.logger.Warn("Create client failed", "error", err)
		return nil, err
	}
	s.logger.Info("Client created", "id", c.PublicID)
	return out, nil
}

func checkUnique(ctx context.Context, repo clientrepo.Repository, c *client.Client) error {
	taken, err := repo.ExistsByDNI(ctx, c.DNI, c.ID)
	if err != nil {
		return err
	}
	if taken {
		return client.ErrDNITaken
	}
	taken, err = repo.ExistsByEmail(ctx, c.Email, c.ID)
	if err != nil {
		return err
	}
	if taken {
		return client.ErrEmailTaken
	}
	return nil
}

// Get returns a client owned by the actor, or any client for admins.
func (s *Service) Get(
	ctx context.Context,
	actor user.Actor,
	publicID string,
	includeDeleted bool,
) (out *dto.ClientRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		c, err := load(ctx, uow, actor, publicID, includeDeleted)
		if err != nil {
			return err
		}
		out, err = read(ctx, uow, c)
		return err
	})
	if err != nil {
		out = nil
	}
	return
}

// Me returns the actor's own client.
func (s *Service) Me(ctx context.Context, actor user.Actor) (out *dto.ClientRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Get[clientrepo.Repository](uow)
		if err != nil {
			return err
		}
		c, err := repo.GetByUserID(ctx, actor.ID)
		if err != nil {
			return notFound(err)
		}
		out, err = read(ctx, uow, c)
		return err
	})
	if err != nil {
		out = nil
	}
	return
}

// List returns every client. Admin only.
func (s *Service) List(
	ctx context.Context,
	actor user.Actor,
	opts repository.ListOptions,
) (out []*dto.ClientRead, err error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Get[clientrepo.Repository](uow)
		if err != nil {
			return err
		}
		clients, err := repo.List(ctx, opts)
		if err != nil {
			return err
		}
		out = make([]*dto.ClientRead, 0, len(clients))
		for _, c := range clients {
			r, err := read(ctx, uow, c)
			if err != nil {
				return err
			}
			out = append(out, r)
		}
		return nil
	})
	if err != nil {
		out = nil
	}
	return
}

// Update replaces the profile. The owning user, identity and timestamps
// are never taken from input.
func (s *Service) Update(
	ctx context.Context,
	actor user.Actor,
	publicID string,
	p client.Profile,
) (out *dto.ClientRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Get[clientrepo.Repository](uow)
		if err != nil {
			return err
		}
		c, err := load(ctx, uow, actor, publicID, false)
		if err != nil {
			return err
		}
		if err := c.Update(p); err != nil {
			return err
		}
		if err := checkUnique(ctx, repo, c); err != nil {
			return err
		}
		if err := repo.Update(ctx, c); err != nil {
			return err
		}
		out, err = read(ctx, uow, c)
		return err
	})
	if err != nil {
		out = nil
	}
	return
}

// Delete soft deletes a client.
func (s *Service) Delete(ctx context.Context, actor user.Actor, publicID string) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Get[clientrepo.Repository](uow)
		if err != nil {
			return err
		}
		c, err := load(ctx, uow, actor, publicID, false)
		if err != nil {
			return err
		}
		return repo.SoftDelete(ctx, c.ID)
	})
}

func load(
	ctx context.Context,
	uow repository.UnitOfWork,
	actor user.Actor,
	publicID string,
	includeDeleted bool,
) (*client.Client, error) {
	repo, err := repository.Get[clientrepo.Repository](uow)
	if err != nil {
		return nil, err
	}
	c, err := repo.GetByPublicID(ctx, publicID, includeDeleted && actor.IsAdmin())
	if err != nil {
		return nil, notFound(err)
	}
	if !actor.CanAccess(c.UserID) {
		return nil, domain.ErrForbidden
	}
	return c, nil
}

func ownerOf(ctx context.Context, uow repository.UnitOfWork, userID uuid.UUID) (*user.User, error) {
	repo, err := repository.Get[userrepo.Repository](uow)
	if err != nil {
		return nil, err
	}
	u, err := repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func read(ctx context.Context, uow repository.UnitOfWork, c *client.Client) (*dto.ClientRead, error) {
	owner, err := ownerOf(ctx, uow, c.UserID)
	if err != nil {
		return nil, err
	}
	return mapper.MapClientToRead(c, owner.PublicID), nil
}

func notFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return client.ErrClientNotFound
	}
	return err
}
