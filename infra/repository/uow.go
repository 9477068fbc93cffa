package repository

import (
	"context"
	"fmt"
	"reflect"

	accountinfra "github.com/amirasaad/backoffice/infra/repository/account"
	cardinfra "github.com/amirasaad/backoffice/infra/repository/card"
	clientinfra "github.com/amirasaad/backoffice/infra/repository/client"
	movementinfra "github.com/amirasaad/backoffice/infra/repository/movement"
	notificationinfra "github.com/amirasaad/backoffice/infra/repository/notification"
	productinfra "github.com/amirasaad/backoffice/infra/repository/product"
	userinfra "github.com/amirasaad/backoffice/infra/repository/user"
	"github.com/amirasaad/backoffice/pkg/repository"
	accountrepo "github.com/amirasaad/backoffice/pkg/repository/account"
	cardrepo "github.com/amirasaad/backoffice/pkg/repository/card"
	clientrepo "github.com/amirasaad/backoffice/pkg/repository/client"
	movementrepo "github.com/amirasaad/backoffice/pkg/repository/movement"
	notificationrepo "github.com/amirasaad/backoffice/pkg/repository/notification"
	productrepo "github.com/amirasaad/backoffice/pkg/repository/product"
	userrepo "github.com/amirasaad/backoffice/pkg/repository/user"
	"gorm.io/gorm"
)

// UoW provides transaction boundary and repository access in one abstraction.
// Repositories obtained inside Do share the transaction session.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			typeOf[userrepo.Repository]():               func(db *gorm.DB) any { return userinfra.New(db) },
			typeOf[clientrepo.Repository]():             func(db *gorm.DB) any { return clientinfra.New(db) },
			typeOf[accountrepo.Repository]():            func(db *gorm.DB) any { return accountinfra.New(db) },
			typeOf[cardrepo.Repository]():               func(db *gorm.DB) any { return cardinfra.New(db) },
			typeOf[productrepo.ProductRepository]():     func(db *gorm.DB) any { return productinfra.NewProducts(db) },
			typeOf[productrepo.AccountTypeRepository](): func(db *gorm.DB) any { return productinfra.NewAccountTypes(db) },
			typeOf[productrepo.CardTypeRepository]():    func(db *gorm.DB) any { return productinfra.NewCardTypes(db) },
			typeOf[movementrepo.Repository]():           func(db *gorm.DB) any { return movementinfra.New(db) },
			typeOf[notificationrepo.Repository]():       func(db *gorm.DB) any { return notificationinfra.New(db) },
		},
	}
}

// Do runs the given function in a transaction boundary, providing a UoW with repository access.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txnUow := &UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry}
		return fn(txnUow)
	})
}

// GetRepository returns the repository registered for the interface
// pointed to by repoType, bound to the transaction when inside Do.
func (u *UoW) GetRepository(repoType any) (any, error) {
	t := reflect.TypeOf(repoType)
	if t == nil {
		return nil, fmt.Errorf("unsupported repository type: %v", repoType)
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	constructor, ok := u.repoRegistry[t]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %v", t)
	}
	session := u.tx
	if session == nil {
		session = u.db
	}
	return constructor(session), nil
}

// Models lists every GORM model, in dependency order, for AutoMigrate.
func Models() []any {
	return []any{
		&userinfra.User{},
		&clientinfra.Client{},
		&productinfra.Product{},
		&productinfra.AccountType{},
		&productinfra.CardType{},
		&accountinfra.Account{},
		&cardinfra.Card{},
		&movementinfra.Movement{},
		&notificationinfra.Notification{},
	}
}

// constraintIndexes are the unique indexes struct tags cannot express.
// They match the versioned migrations.
var constraintIndexes = []string{
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_lower ON users (LOWER(username))",
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_cards_active_account ON cards (account_id) WHERE NOT is_deleted",
}

// AutoMigrate creates or updates the schema from the models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	for _, stmt := range constraintIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

var _ repository.UnitOfWork = (*UoW)(nil)
