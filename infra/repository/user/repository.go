package user

import (
	"context"

	"github.com/amirasaad/backoffice/infra/database"
	"github.com/amirasaad/backoffice/pkg/domain/common"
	"github.com/amirasaad/backoffice/pkg/domain/user"
	"github.com/amirasaad/backoffice/pkg/repository"
	userrepo "github.com/amirasaad/backoffice/pkg/repository/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormRepository struct {
	db *gorm.DB
}

// New returns a GORM backed user repository.
func New(db *gorm.DB) userrepo.Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(
	ctx context.Context,
	u *user.User,
) error {
	return database.WrapError(func() error {
		return r.db.WithContext(ctx).Create(mapDomainToModel(u)).Error
	})
}

func (r *gormRepository) Update(
	ctx context.Context,
	u *user.User,
) error {
	return database.ExpectAffected(r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{
			"username":   u.Username,
			"email":      u.Email,
			"password":   u.Password,
			"role":       string(u.Role),
			"avatar":     u.Avatar,
			"is_deleted": u.IsDeleted,
			"updated_at": u.UpdatedAt,
		}))
}

func (r *gormRepository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*user.User, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *gormRepository) GetByPublicID(
	ctx context.Context,
	publicID string,
	includeDeleted bool,
) (*user.User, error) {
	return r.first(r.db.WithContext(ctx).
		Scopes(database.Active(includeDeleted)).
		Where("public_id = ?", publicID))
}

func (r *gormRepository) GetByUsername(
	ctx context.Context,
	username string,
) (*user.User, error) {
	return r.first(r.db.WithContext(ctx).
		Scopes(database.Active(false)).
		Where("LOWER(username) = LOWER(?)", username))
}

func (r *gormRepository) GetByEmail(
	ctx context.Context,
	email string,
) (*user.User, error) {
	return r.first(r.db.WithContext(ctx).
		Scopes(database.Active(false)).
		Where("email = ?", email))
}

func (r *gormRepository) first(q *gorm.DB) (*user.User, error) {
	var model User
	if err := q.First(&model).Error; err != nil {
		return nil, database.MapGormErrorToDomain(err)
	}
	return mapModelToDomain(&model), nil
}

func (r *gormRepository) ExistsByUsername(
	ctx context.Context,
	username string,
	excludeID uuid.UUID,
) (bool, error) {
	return r.exists(ctx, "LOWER(username) = LOWER(?)", username, excludeID)
}

func (r *gormRepository) ExistsByEmail(
	ctx context.Context,
	email string,
	excludeID uuid.UUID,
) (bool, error) {
	return r.exists(ctx, "email = ?", email, excludeID)
}

func (r *gormRepository) exists(
	ctx context.Context,
	cond string,
	value any,
	excludeID uuid.UUID,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Where(cond, value).
		Where("id <> ?", excludeID).
		Count(&count).Error
	if err != nil {
		return false, database.MapGormErrorToDomain(err)
	}
	return count > 0, nil
}

func (r *gormRepository) SoftDelete(
	ctx context.Context,
	id uuid.UUID,
) error {
	return database.ExpectAffected(r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_deleted": true, "updated_at": common.Now()}))
}

func (r *gormRepository) List(
	ctx context.Context,
	opts repository.ListOptions,
) ([]*user.User, error) {
	var users []User
	if err := r.db.WithContext(ctx).
		Scopes(database.Active(opts.IncludeDeleted), database.Paginate(opts)).
		Order("created_at, public_id").
		Find(&users).Error; err != nil {
		return nil, database.MapGormErrorToDomain(err)
	}

	result := make([]*user.User, 0, len(users))
	for i := range users {
		result = append(result, mapModelToDomain(&users[i]))
	}
	return result, nil
}

func mapDomainToModel(u *user.User) *User {
	return &User{
		ID:        u.ID,
		PublicID:  u.PublicID,
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.Password,
		Role:      string(u.Role),
		Avatar:    u.Avatar,
		IsDeleted: u.IsDeleted,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func mapModelToDomain(m *User) *user.User {
	return &user.User{
		Identity:  common.Identity{ID: m.ID, PublicID: m.PublicID},
		Audit:     common.Audit{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		Username:  m.Username,
		Email:     m.Email,
		Password:  m.Password,
		Role:      user.Role(m.Role),
		Avatar:    m.Avatar,
		IsDeleted: m.IsDeleted,
	}
}

var _ userrepo.Repository = (*gormRepository)(nil)
