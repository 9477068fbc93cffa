package card

import (
	"context"

	"github.com/amirasaad/backoffice/infra/database"
	"github.com/amirasaad/backoffice/pkg/domain/card"
	"github.com/amirasaad/backoffice/pkg/domain/common"
	"github.com/amirasaad/backoffice/pkg/repository"
	cardrepo "github.com/amirasaad/backoffice/pkg/repository/card"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormRepository struct {
	db *gorm.DB
}

// New returns a GORM backed card repository.
func New(db *gorm.DB) cardrepo.Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, c *card.Card) error {
	return database.WrapError(func() error {
		return r.db.WithContext(ctx).Create(mapDomainToModel(c)).Error
	})
}

func (r *gormRepository) Update(ctx context.Context, c *card.Card) error {
	return database.ExpectAffected(r.db.WithContext(ctx).
		Model(&Card{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{
			"pin":          c.Pin,
			"card_type_id": c.CardTypeID,
			"is_deleted":   c.IsDeleted,
			"updated_at":   c.UpdatedAt,
		}))
}

func (r *gormRepository) Get(ctx context.Context, id uuid.UUID) (*card.Card, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *gormRepository) GetByPublicID(
	ctx context.Context,
	publicID string,
	includeDeleted bool,
) (*card.Card, error) {
	return r.first(r.db.WithContext(ctx).
		Scopes(database.Active(includeDeleted)).
		Where("public_id = ?", publicID))
}

func (r *gormRepository) first(q *gorm.DB) (*card.Card, error) {
	var model Card
	if err := q.First(&model).Error; err != nil {
		return nil, database.MapGormErrorToDomain(err)
	}
	return mapModelToDomain(&model), nil
}

func (r *gormRepository) ExistsByCardNumber(ctx context.Context, number string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Card{}).Where("card_number = ?", number).Count(&n).Error
	if err != nil {
		return false, database.MapGormErrorToDomain(err)
	}
	return n > 0, nil
}

func (r *gormRepository) ExistsActiveByAccount(ctx context.Context, accountID, excludeID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&Card{}).
		Scopes(database.Active(false)).
		Where("account_id = ?", accountID).
		Where("id <> ?", excludeID).
		Count(&n).Error
	if err != nil {
		return false, database.MapGormErrorToDomain(err)
	}
	return n > 0, nil
}

func (r *gormRepository) ExistsActiveByCardType(ctx context.Context, cardTypeID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&Card{}).
		Scopes(database.Active(false)).
		Where("card_type_id = ?", cardTypeID).
		Count(&n).Error
	if err != nil {
		return false, database.MapGormErrorToDomain(err)
	}
	return n > 0, nil
}

func (r *gormRepository) ListByAccounts(
	ctx context.Context,
	accountIDs []uuid.UUID,
	opts repository.ListOptions,
) ([]*card.Card, error) {
	if len(accountIDs) == 0 {
		return []*card.Card{}, nil
	}
	return r.find(r.db.WithContext(ctx).Where("account_id IN ?", accountIDs), opts)
}

func (r *gormRepository) List(ctx context.Context, opts repository.ListOptions) ([]*card.Card, error) {
	return r.find(r.db.WithContext(ctx), opts)
}

func (r *gormRepository) find(q *gorm.DB, opts repository.ListOptions) ([]*card.Card, error) {
	var models []Card
	if err := q.
		Scopes(database.Active(opts.IncludeDeleted), database.Paginate(opts)).
		Order("created_at, public_id").
		Find(&models).Error; err != nil {
		return nil, database.MapGormErrorToDomain(err)
	}
	result := make([]*card.Card, 0, len(models))
	for i := range models {
		result = append(result, mapModelToDomain(&models[i]))
	}
	return result, nil
}

func (r *gormRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return database.ExpectAffected(r.db.WithContext(ctx).
		Model(&Card{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_deleted": true, "updated_at": common.Now()}))
}

func mapDomainToModel(c *card.Card) *Card {
	return &Card{
		ID:         c.ID,
		PublicID:   c.PublicID,
		CardNumber: c.CardNumber,
		Pin:        c.Pin,
		ExpiresAt:  c.ExpiresAt,
		AccountID:  c.AccountID,
		CardTypeID: c.CardTypeID,
		IsDeleted:  c.IsDeleted,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func mapModelToDomain(m *Card) *card.Card {
	return &card.Card{
		Identity:   common.Identity{ID: m.ID, PublicID: m.PublicID},
		Audit:      common.Audit{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		CardNumber: m.CardNumber,
		Pin:        m.Pin,
		ExpiresAt:  m.ExpiresAt,
		AccountID:  m.AccountID,
		CardTypeID: m.CardTypeID,
		IsDeleted:  m.IsDeleted,
	}
}

var _ cardrepo.Repository = (*gormRepository)(nil)
