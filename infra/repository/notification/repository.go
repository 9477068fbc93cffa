package notification

import (
	"context"

	"github.com/amirasaad/backoffice/infra/database"
	"github.com/amirasaad/backoffice/pkg/domain/common"
	"github.com/amirasaad/backoffice/pkg/domain/notification"
	"github.com/amirasaad/backoffice/pkg/repository"
	notificationrepo "github.com/amirasaad/backoffice/pkg/repository/notification"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type gormRepository struct {
	db *gorm.DB
}

// New returns a GORM backed notification repository.
func New(db *gorm.DB) notificationrepo.Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, n *notification.Notification) error {
	model := &Notification{
		ID:        n.ID,
		PublicID:  n.PublicID,
		UserID:    n.UserID,
		Type:      string(n.Type),
		Message:   n.Message,
		Metadata:  datatypes.NewJSONType(n.Metadata),
		CreatedAt: n.CreatedAt,
	}
	return database.WrapError(func() error {
		return r.db.WithContext(ctx).Create(model).Error
	})
}

func (r *gormRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	opts repository.ListOptions,
) ([]*notification.Notification, error) {
	var models []Notification
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Scopes(database.Paginate(opts)).
		Order("created_at DESC, public_id DESC").
		Find(&models).Error; err != nil {
		return nil, database.MapGormErrorToDomain(err)
	}
	result := make([]*notification.Notification, 0, len(models))
	for i := range models {
		m := &models[i]
		result = append(result, &notification.Notification{
			Identity:  common.Identity{ID: m.ID, PublicID: m.PublicID},
			UserID:    m.UserID,
			Type:      notification.Type(m.Type),
			Message:   m.Message,
			Metadata:  m.Metadata.Data(),
			CreatedAt: m.CreatedAt,
		})
	}
	return result, nil
}

var _ notificationrepo.Repository = (*gormRepository)(nil)
