package client

import (
	"context"

	"github.com/amirasaad/backoffice/infra/database"
	"github.com/amirasaad/backoffice/pkg/domain/client"
	"github.com/amirasaad/backoffice/pkg/domain/common"
	"github.com/amirasaad/backoffice/pkg/repository"
	clientrepo "github.com/amirasaad/backoffice/pkg/repository/client"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormRepository struct {
	db *gorm.DB
}

// New returns a GORM backed client repository.
func New(db *gorm.DB) clientrepo.Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, c *client.Client) error {
	return database.WrapError(func() error {
		return r.db.WithContext(ctx).Create(mapDomainToModel(c)).Error
	})
}

func (r *gormRepository) Update(ctx context.Context, c *client.Client) error {
	return database.ExpectAffected(r.db.WithContext(ctx).
		Model(&Client{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{
			"dni":        c.DNI,
			"email":      c.Email,
			"name":       c.Name,
			"surname":    c.Surname,
			"phone":      c.Phone,
			"address":    c.Address,
			"is_deleted": c.IsDeleted,
			"updated_at": c.UpdatedAt,
		}))
}

func (r *gormRepository) Get(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *gormRepository) GetByPublicID(
	ctx context.Context,
	publicID string,
	includeDeleted bool,
) (*client.Client, error) {
	return r.first(r.db.WithContext(ctx).
		Scopes(database.Active(includeDeleted)).
		Where("public_id = ?", publicID))
}

func (r *gormRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*client.Client, error) {
	return r.first(r.db.WithContext(ctx).
		Scopes(database.Active(false)).
		Where("user_id = ?", userID))
}

func (r *gormRepository) first(q *gorm.DB) (*client.Client, error) {
	var model Client
	if err := q.First(&model).Error; err != nil {
		return nil, database.MapGormErrorToDomain(err)
	}
	return mapModelToDomain(&model), nil
}

func (r *gormRepository) ExistsByDNI(ctx context.Context, dni string, excludeID uuid.UUID) (bool, error) {
	return r.count(ctx, r.db.Where("UPPER(dni) = UPPER(?)", dni).Where("id <> ?", excludeID))
}

func (r *gormRepository) ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	return r.count(ctx, r.db.Where("email = ?", email).Where("id <> ?", excludeID))
}

func (r *gormRepository) ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error) {
	return r.count(ctx, r.db.Where("user_id = ?", userID))
}

func (r *gormRepository) count(ctx context.Context, cond *gorm.DB) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Client{}).Where(cond).Count(&n).Error; err != nil {
		return false, database.MapGormErrorToDomain(err)
	}
	return n > 0, nil
}

func (r *gormRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return database.ExpectAffected(r.db.WithContext(ctx).
		Model(&Client{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_deleted": true, "updated_at": common.Now()}))
}

func (r *gormRepository) List(ctx context.Context, opts repository.ListOptions) ([]*client.Client, error) {
	var models []Client
	if err := r.db.WithContext(ctx).
		Scopes(database.Active(opts.IncludeDeleted), database.Paginate(opts)).
		Order("created_at, public_id").
		Find(&models).Error; err != nil {
		return nil, database.MapGormErrorToDomain(err)
	}
	result := make([]*client.Client, 0, len(models))
	for i := range models {
		result = append(result, mapModelToDomain(&models[i]))
	}
	return result, nil
}

func mapDomainToModel(c *client.Client) *Client {
	return &Client{
		ID:        c.ID,
		PublicID:  c.PublicID,
		UserID:    c.UserID,
		DNI:       c.DNI,
		Email:     c.Email,
		Name:      c.Name,
		Surname:   c.Surname,
		Phone:     c.Phone,
		Address:   c.Address,
		IsDeleted: c.IsDeleted,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func mapModelToDomain(m *Client) *client.Client {
	return &client.Client{
		Identity:  common.Identity{ID: m.ID, PublicID: m.PublicID},
		Audit:     common.Audit{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		UserID:    m.UserID,
		DNI:       m.DNI,
		Email:     m.Email,
		Name:      m.Name,
		Surname:   m.Surname,
		Phone:     m.Phone,
		Address:   m.Address,
		IsDeleted: m.IsDeleted,
	}
}

var _ clientrepo.Repository = (*gormRepository)(nil)
