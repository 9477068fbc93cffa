// Package user provides business logic for user management: registration,
// profile updates, soft deletion and avatar uploads.
package user

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/common"
	"github.com/amirasaad/backoffice/pkg/domain/user"
	"github.com/amirasaad/backoffice/pkg/dto"
	"github.com/amirasaad/backoffice/pkg/mapper"
	"github.com/amirasaad/backoffice/pkg/repository"
	userrepo "github.com/amirasaad/backoffice/pkg/repository/user"
	"github.com/amirasaad/backoffice/pkg/storage"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxAvatarSize caps avatar uploads when no limit is configured.
const DefaultMaxAvatarSize int64 = 5 << 20

var avatarTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UpdateInput carries the optional fields of a user update. Nil fields
// are left unchanged.
type UpdateInput struct {
	Username *string
	Email    *string
	Password *string
}

// Service provides user operations.
type Service struct {
	uow           repository.UnitOfWork
	store         storage.Store
	maxAvatarSize int64
	logger        *slog.Logger
}

// New creates a user service. store may be nil when avatars are not
// supported.
func New(
	uow repository.UnitOfWork,
	store storage.Store,
	maxAvatarSize int64,
	logger *slog.Logger,
) *Service {
	if maxAvatarSize <= 0 {
		maxAvatarSize = DefaultMaxAvatarSize
	}
	return &Service{
		uow:           uow,
		store:         store,
		maxAvatarSize: maxAvatarSize,
		logger:        logger,
	}
}

// Register creates a user with the USER role.
func (s *Service) Register(
	ctx context.Context,
	username, email, password string,
) (*dto.UserRead, error) {
	return s.Create(ctx, username, email, password, user.RoleUser)
}

// Create creates a user with any role. Username and email must be unique
// across every user, deleted ones included.
func (s *Service) Create(
	ctx context.Context,
	username, email, password string,
	role user.Role,
) (out *dto.UserRead, err error) {
	log := s.logger.With("username", username)
	u, err := user.New(username, email, password, role)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Get[userrepo.Repository](uow)
		if err != nil {
			return err
		}
		if err := checkUnique(ctx, repo, u); err != nil {
			return err
		}
		if err := repo.Create(ctx, u); err != nil {
			return err
		}
		out = mapper.MapUserToRead(u)
		return nil
	})
	if err != nil {
		log.Warn("Create user failed", "error", err)
		return nil, err
	}
	log.Info("User created", "id", u.PublicID, "role", role)
	return out, nil
}

func checkUnique(ctx context.Context, repo userrepo.Repository, u *user.User) error {
	taken, err := repo.ExistsByUsername(ctx, u.Username, u.ID)
	if err != nil {
		return err
	}
	if taken {
		return user.ErrUsernameTaken
	}
	taken, err = repo.ExistsByEmail(ctx, u.Email, u.ID)
	if err != nil {
		return err
	}
	if taken {
		return user.ErrEmailTaken
	}
	return nil
}

// Get returns a user the actor may see. Deleted users are only visible
// to admins asking for them.
func (s *Service) Get(
	ctx context.Context,
	actor user.Actor,
	publicID string,
	includeDeleted bool,
) (out *dto.UserRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		u, err := s.load(ctx, uow, actor, publicID, includeDeleted)
		if err != nil {
			return err
		}
		out = mapper.MapUserToRead(u)
		return nil
	})
	if err != nil {
		out = nil
	}
	return
}

// Me returns the actor's own user.
func (s *Service) Me(ctx context.Context, actor user.Actor) (out *dto.UserRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Get[userrepo.Repository](uow)
		if err != nil {
			return err
		}
		u, err := repo.Get(ctx, actor.ID)
		if err != nil || u.IsDeleted {
			return user.ErrUserNotFound
		}
		out = mapper.MapUserToRead(u)
		return nil
	})
	if err != nil {
		out = nil
	}
	return
}

// List returns every user. Admin only.
func (s *Service) List(
	ctx context.Context,
	actor user.Actor,
	opts repository.ListOptions,
) (out []*dto.UserRead, err error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Get[userrepo.Repository](uow)
		if err != nil {
			return err
		}
		users, err := repo.List(ctx, opts)
		if err != nil {
			return err
		}
		out = make([]*dto.UserRead, 0, len(users))
		for _, u := range users {
			out = append(out, mapper.MapUserToRead(u))
		}
		return nil
	})
	if err != nil {
		out = nil
	}
	return
}

// Update changes username, email or password. Every invalid field is
// reported before uniqueness is checked.
func (s *Service) Update(
	ctx context.Context,
	actor user.Actor,
	publicID string,
	in UpdateInput,
) (out *dto.UserRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Get[userrepo.Repository](uow)
		if err != nil {
			return err
		}
		u, err := s.load(ctx, uow, actor, publicID, false)
		if err != nil {
			return err
		}
		if err := applyUpdate(u, in); err != nil {
			return err
		}
		if err := checkUnique(ctx, repo, u); err != nil {
			return err
		}
		if err := repo.Update(ctx, u); err != nil {
			return err
		}
		out = mapper.MapUserToRead(u)
		return nil
	})
	if err != nil {
		out = nil
	}
	return
}

func applyUpdate(u *user.User, in UpdateInput) error {
	v := &domain.ValidationError{}
	collect := func(err error) error {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			v.Fields = append(v.Fields, ve.Fields...)
			return nil
		}
		return err
	}
	if in.Username != nil {
		if err := collect(u.Rename(*in.Username)); err != nil {
			return err
		}
	}
	if in.Email != nil {
		if err := collect(u.ChangeEmail(*in.Email)); err != nil {
			return err
		}
	}
	if in.Password != nil {
		if err := collect(u.ChangePassword(*in.Password)); err != nil {
			return err
		}
	}
	return v.Err()
}

// Delete soft deletes a user.
func (s *Service) Delete(ctx context.Context, actor user.Actor, publicID string) error {
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Get[userrepo.Repository](uow)
		if err != nil {
			return err
		}
		u, err := s.load(ctx, uow, actor, publicID, false)
		if err != nil {
			return err
		}
		return repo.SoftDelete(ctx, u.ID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("User deleted", "id", publicID)
	return nil
}

// UploadAvatar sniffs the content type of body, rejects anything that
// is not a supported image and stores it as the user's avatar.
func (s *Service) UploadAvatar(
	ctx context.Context,
	actor user.Actor,
	publicID string,
	body io.Reader,
) (out *dto.UserRead, err error) {
	if s.store == nil {
		return nil, fmt.Errorf("avatar storage: %w", domain.ErrServiceUnavailable)
	}
	if _, err := s.Get(ctx, actor, publicID, false); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(body, s.maxAvatarSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, domain.NewValidationError("file", "must not be empty")
	}
	if int64(len(data)) > s.maxAvatarSize {
		return nil, domain.NewValidationError("file", fmt.Sprintf("must be at most %d bytes", s.maxAvatarSize))
	}
	mt := mimetype.Detect(data)
	contentType := strings.SplitN(mt.String(), ";", 2)[0]
	ext, ok := avatarTypes[contentType]
	if !ok {
		s.logger.Warn("Rejected avatar upload", "user", publicID, "mime", mt.String())
		return nil, fmt.Errorf("%s: %w", contentType, domain.ErrUnsupportedMedia)
	}

	key := fmt.Sprintf("avatars/%s-%s%s", publicID, common.NewPublicID(), ext)
	location, err := s.store.Put(ctx, key, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		s.logger.Error("Avatar upload failed", "user", publicID, "error", err)
		return nil, fmt.Errorf("avatar storage: %w: %v", domain.ErrServiceUnavailable, err)
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Get[userrepo.Repository](uow)
		if err != nil {
			return err
		}
		u, err := s.load(ctx, uow, actor, publicID, false)
		if err != nil {
			return err
		}
		u.SetAvatar(location)
		if err := repo.Update(ctx, u); err != nil {
			return err
		}
		out = mapper.MapUserToRead(u)
		return nil
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Warn("Failed to remove orphaned avatar", "key", key, "error", delErr)
		}
		return nil, err
	}
	s.logger.Info("Avatar updated", "user", publicID, "mime", contentType)
	return out, nil
}

func (s *Service) load(
	ctx context.Context,
	uow repository.UnitOfWork,
	actor user.Actor,
	publicID string,
	includeDeleted bool,
) (*user.User, error) {
	repo, err := repository.Get[userrepo.Repository](uow)
	if err != nil {
		return nil, err
	}
	u, err := repo.GetByPublicID(ctx, publicID, includeDeleted && actor.IsAdmin())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	if !actor.CanAccess(u.ID) {
		return nil, domain.ErrForbidden
	}
	return u, nil
}
