package product

import (
	"context"

	"github.com/amirasaad/backoffice/infra/database"
	"github.com/amirasaad/backoffice/pkg/domain/common"
	"github.com/amirasaad/backoffice/pkg/domain/product"
	"github.com/amirasaad/backoffice/pkg/repository"
	productrepo "github.com/amirasaad/backoffice/pkg/repository/product"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormRepository implements the catalog contract for domain type T
// stored as model M.
type gormRepository[T any, M any] struct {
	db       *gorm.DB
	toModel  func(*T) *M
	toDomain func(*M) *T
	columns  func(*T) map[string]any
	id       func(*T) uuid.UUID
}

// NewProducts returns a GORM backed product repository.
func NewProducts(db *gorm.DB) productrepo.ProductRepository {
	return &gormRepository[product.Product, Product]{
		db: db,
		toModel: func(p *product.Product) *Product {
			return &Product{Item: itemToModel(&p.Item)}
		},
		toDomain: func(m *Product) *product.Product {
			return &product.Product{Item: itemToDomain(&m.Item)}
		},
		columns: func(p *product.Product) map[string]any { return itemColumns(&p.Item) },
		id:      func(p *product.Product) uuid.UUID { return p.ID },
	}
}

// NewAccountTypes returns a GORM backed account type repository.
func NewAccountTypes(db *gorm.DB) productrepo.AccountTypeRepository {
	return &gormRepository[product.AccountType, AccountType]{
		db: db,
		toModel: func(t *product.AccountType) *AccountType {
			return &AccountType{Item: itemToModel(&t.Item), Interest: t.Interest}
		},
		toDomain: func(m *AccountType) *product.AccountType {
			return &product.AccountType{Item: itemToDomain(&m.Item), Interest: m.Interest}
		},
		columns: func(t *product.AccountType) map[string]any {
			cols := itemColumns(&t.Item)
			cols["interest"] = t.Interest
			return cols
		},
		id: func(t *product.AccountType) uuid.UUID { return t.ID },
	}
}

// NewCardTypes returns a GORM backed card type repository.
func NewCardTypes(db *gorm.DB) productrepo.CardTypeRepository {
	return &gormRepository[product.CardType, CardType]{
		db: db,
		toModel: func(c *product.CardType) *CardType {
			return &CardType{Item: itemToModel(&c.Item)}
		},
		toDomain: func(m *CardType) *product.CardType {
			return &product.CardType{Item: itemToDomain(&m.Item)}
		},
		columns: func(c *product.CardType) map[string]any { return itemColumns(&c.Item) },
		id:      func(c *product.CardType) uuid.UUID { return c.ID },
	}
}

func (r *gormRepository[T, M]) Create(ctx context.Context, item *T) error {
	return database.WrapError(func() error {
		return r.db.WithContext(ctx).Create(r.toModel(item)).Error
	})
}

func (r *gormRepository[T, M]) Update(ctx context.Context, item *T) error {
	return database.ExpectAffected(r.db.WithContext(ctx).
		Model(new(M)).
		Where("id = ?", r.id(item)).
		Updates(r.columns(item)))
}

func (r *gormRepository[T, M]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *gormRepository[T, M]) GetByPublicID(ctx context.Context, publicID string, includeDeleted bool) (*T, error) {
	return r.first(r.db.WithContext(ctx).
		Scopes(database.Active(includeDeleted)).
		Where("public_id = ?", publicID))
}

func (r *gormRepository[T, M]) GetByName(ctx context.Context, name string, includeDeleted bool) (*T, error) {
	return r.first(r.db.WithContext(ctx).
		Scopes(database.Active(includeDeleted)).
		Where("UPPER(name) = UPPER(?)", name))
}

func (r *gormRepository[T, M]) first(q *gorm.DB) (*T, error) {
	var model M
	if err := q.First(&model).Error; err != nil {
		return nil, database.MapGormErrorToDomain(err)
	}
	return r.toDomain(&model), nil
}

func (r *gormRepository[T, M]) ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(new(M)).
		Where("UPPER(name) = UPPER(?)", name).
		Where("id <> ?", excludeID).
		Count(&n).Error
	if err != nil {
		return false, database.MapGormErrorToDomain(err)
	}
	return n > 0, nil
}

func (r *gormRepository[T, M]) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return database.ExpectAffected(r.db.WithContext(ctx).
		Model(new(M)).
		Where("id = ?", id).
		Updates(map[string]any{"is_deleted": true, "updated_at": common.Now()}))
}

func (r *gormRepository[T, M]) List(ctx context.Context, opts repository.ListOptions) ([]*T, error) {
	var models []M
	if err := r.db.WithContext(ctx).
		Scopes(database.Active(opts.IncludeDeleted), database.Paginate(opts)).
		Order("name").
		Find(&models).Error; err != nil {
		return nil, database.MapGormErrorToDomain(err)
	}
	result := make([]*T, 0, len(models))
	for i := range models {
		result = append(result, r.toDomain(&models[i]))
	}
	return result, nil
}

func itemToModel(i *product.Item) Item {
	return Item{
		ID:          i.ID,
		PublicID:    i.PublicID,
		Name:        i.Name,
		Description: i.Description,
		IsDeleted:   i.IsDeleted,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func itemToDomain(m *Item) product.Item {
	return product.Item{
		Identity:    common.Identity{ID: m.ID, PublicID: m.PublicID},
		Audit:       common.Audit{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		Name:        m.Name,
		Description: m.Description,
		IsDeleted:   m.IsDeleted,
	}
}

func itemColumns(i *product.Item) map[string]any {
	return map[string]any{
		"name":        i.Name,
		"description": i.Description,
		"is_deleted":  i.IsDeleted,
		"updated_at":  i.UpdatedAt,
	}
}

var (
	_ productrepo.ProductRepository     = (*gormRepository[product.Product, Product])(nil)
	_ productrepo.AccountTypeRepository = (*gormRepository[product.AccountType, AccountType])(nil)
	_ productrepo.CardTypeRepository    = (*gormRepository[product.CardType, CardType])(nil)
)
