package movement

import (
	"context"

	"github.com/amirasaad/backoffice/infra/database"
	"github.com/amirasaad/backoffice/pkg/domain/common"
	"github.com/amirasaad/backoffice/pkg/domain/movement"
	"github.com/amirasaad/backoffice/pkg/repository"
	movementrepo "github.com/amirasaad/backoffice/pkg/repository/movement"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormRepository struct {
	db *gorm.DB
}

// New returns a GORM backed movement repository.
func New(db *gorm.DB) movementrepo.Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, m *movement.Movement) error {
	return database.WrapError(func() error {
		return r.db.WithContext(ctx).Create(mapDomainToModel(m)).Error
	})
}

func (r *gormRepository) GetByPublicID(ctx context.Context, publicID string) (*movement.Movement, error) {
	var model Movement
	if err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&model).Error; err != nil {
		return nil, database.MapGormErrorToDomain(err)
	}
	return mapModelToDomain(&model), nil
}

func (r *gormRepository) ListByAccounts(
	ctx context.Context,
	accountIDs []uuid.UUID,
	ibans []string,
	opts repository.ListOptions,
) ([]*movement.Movement, error) {
	if len(accountIDs) == 0 && len(ibans) == 0 {
		return []*movement.Movement{}, nil
	}
	q := r.db.WithContext(ctx)
	switch {
	case len(accountIDs) > 0 && len(ibans) > 0:
		q = q.Where("account_id IN ? OR destination_iban IN ?", accountIDs, ibans)
	case len(accountIDs) > 0:
		q = q.Where("account_id IN ?", accountIDs)
	default:
		q = q.Where("destination_iban IN ?", ibans)
	}
	return r.find(q, opts)
}

func (r *gormRepository) List(ctx context.Context, opts repository.ListOptions) ([]*movement.Movement, error) {
	return r.find(r.db.WithContext(ctx), opts)
}

func (r *gormRepository) find(q *gorm.DB, opts repository.ListOptions) ([]*movement.Movement, error) {
	var models []Movement
	if err := q.
		Scopes(database.Paginate(opts)).
		Order("created_at DESC, public_id DESC").
		Find(&models).Error; err != nil {
		return nil, database.MapGormErrorToDomain(err)
	}
	result := make([]*movement.Movement, 0, len(models))
	for i := range models {
		result = append(result, mapModelToDomain(&models[i]))
	}
	return result, nil
}

func mapDomainToModel(m *movement.Movement) *Movement {
	return &Movement{
		ID:              m.ID,
		PublicID:        m.PublicID,
		Type:            string(m.Type),
		AccountID:       m.AccountID,
		DestinationIBAN: m.DestinationIBAN,
		Amount:          m.Amount,
		CardID:          m.CardID,
		CreatedAt:       m.CreatedAt,
	}
}

func mapModelToDomain(m *Movement) *movement.Movement {
	return &movement.Movement{
		Identity:        common.Identity{ID: m.ID, PublicID: m.PublicID},
		Type:            movement.Type(m.Type),
		AccountID:       m.AccountID,
		DestinationIBAN: m.DestinationIBAN,
		Amount:          m.Amount,
		CardID:          m.CardID,
		CreatedAt:       m.CreatedAt,
	}
}

var _ movementrepo.Repository = (*gormRepository)(nil)
