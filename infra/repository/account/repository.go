package account

import (
	"context"
	"fmt"

	"github.com/amirasaad/backoffice/infra/database"
	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/account"
	"github.com/amirasaad/backoffice/pkg/domain/common"
	"github.com/amirasaad/backoffice/pkg/repository"
	accountrepo "github.com/amirasaad/backoffice/pkg/repository/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type gormRepository struct {
	db *gorm.DB
}

// New returns a GORM backed account repository.
func New(db *gorm.DB) accountrepo.Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, a *account.Account) error {
	return database.WrapError(func() error {
		return r.db.WithContext(ctx).Create(mapDomainToModel(a)).Error
	})
}

func (r *gormRepository) Update(ctx context.Context, a *account.Account) error {
	return database.ExpectAffected(r.db.WithContext(ctx).
		Model(&Account{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"balance":         a.Balance,
			"password":        a.Password,
			"account_type_id": a.AccountTypeID,
			"is_deleted":      a.IsDeleted,
			"updated_at":      a.UpdatedAt,
		}))
}

func (r *gormRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	tx := r.db.WithContext(ctx).
		Model(&Account{}).
		Scopes(database.Active(false)).
		Where("id = ?", id).
		Where("balance + ? >= 0", delta).
		Updates(map[string]any{
			"balance":    gorm.Expr("balance + ?", delta),
			"updated_at": common.Now(),
		})
	if tx.Error != nil {
		return database.MapGormErrorToDomain(tx.Error)
	}
	if tx.RowsAffected > 0 {
		return nil
	}
	a, err := r.first(r.db.WithContext(ctx).Scopes(database.Active(false)).Where("id = ?", id))
	if err != nil {
		return err
	}
	return fmt.Errorf("account %s: %w", a.IBAN, domain.ErrInsufficientFunds)
}

func (r *gormRepository) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *gormRepository) GetByIBAN(
	ctx context.Context,
	iban string,
	includeDeleted bool,
) (*account.Account, error) {
	return r.first(r.db.WithContext(ctx).
		Scopes(database.Active(includeDeleted)).
		Where("iban = ?", iban))
}

func (r *gormRepository) first(q *gorm.DB) (*account.Account, error) {
	var model Account
	if err := q.First(&model).Error; err != nil {
		return nil, database.MapGormErrorToDomain(err)
	}
	return mapModelToDomain(&model), nil
}

func (r *gormRepository) ExistsByIBAN(ctx context.Context, iban string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Account{}).Where("iban = ?", iban).Count(&n).Error
	if err != nil {
		return false, database.MapGormErrorToDomain(err)
	}
	return n > 0, nil
}

func (r *gormRepository) ExistsByAccountType(ctx context.Context, accountTypeID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&Account{}).
		Scopes(database.Active(false)).
		Where("account_type_id = ?", accountTypeID).
		Count(&n).Error
	if err != nil {
		return false, database.MapGormErrorToDomain(err)
	}
	return n > 0, nil
}

func (r *gormRepository) ListByClient(
	ctx context.Context,
	clientID uuid.UUID,
	opts repository.ListOptions,
) ([]*account.Account, error) {
	return r.find(r.db.WithContext(ctx).Where("client_id = ?", clientID), opts)
}

func (r *gormRepository) List(ctx context.Context, opts repository.ListOptions) ([]*account.Account, error) {
	return r.find(r.db.WithContext(ctx), opts)
}

func (r *gormRepository) find(q *gorm.DB, opts repository.ListOptions) ([]*account.Account, error) {
	var models []Account
	if err := q.
		Scopes(database.Active(opts.IncludeDeleted), database.Paginate(opts)).
		Order("created_at, public_id").
		Find(&models).Error; err != nil {
		return nil, database.MapGormErrorToDomain(err)
	}
	result := make([]*account.Account, 0, len(models))
	for i := range models {
		result = append(result, mapModelToDomain(&models[i]))
	}
	return result, nil
}

func (r *gormRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return database.ExpectAffected(r.db.WithContext(ctx).
		Model(&Account{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_deleted": true, "updated_at": common.Now()}))
}

func mapDomainToModel(a *account.Account) *Account {
	return &Account{
		ID:            a.ID,
		PublicID:      a.PublicID,
		IBAN:          a.IBAN,
		Balance:       a.Balance,
		Password:      a.Password,
		ClientID:      a.ClientID,
		AccountTypeID: a.AccountTypeID,
		IsDeleted:     a.IsDeleted,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func mapModelToDomain(m *Account) *account.Account {
	return &account.Account{
		Identity:      common.Identity{ID: m.ID, PublicID: m.PublicID},
		Audit:         common.Audit{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		IBAN:          m.IBAN,
		Balance:       common.RoundMoney(m.Balance),
		Password:      m.Password,
		ClientID:      m.ClientID,
		AccountTypeID: m.AccountTypeID,
		IsDeleted:     m.IsDeleted,
	}
}

var _ accountrepo.Repository = (*gormRepository)(nil)
