// Package notification records and dispatches user notifications.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/notification"
	"github.com/amirasaad/backoffice/pkg/domain/user"
	"github.com/amirasaad/backoffice/pkg/dto"
	"github.com/amirasaad/backoffice/pkg/mapper"
	"github.com/amirasaad/backoffice/pkg/notifier"
	"github.com/amirasaad/backoffice/pkg/repository"
	notificationrepo "github.com/amirasaad/backoffice/pkg/repository/notification"
	"github.com/google/uuid"
)

// Message is a notification waiting to be dispatched.
type Message struct {
	UserID   uuid.UUID
	Type     notification.Type
	Text     string
	Metadata map[string]string
}

// Service persists notifications and hands them to the sender.
type Service struct {
	uow    repository.UnitOfWork
	sender notifier.Sender
	logger *slog.Logger
}

func New(
	uow repository.UnitOfWork,
	sender notifier.Sender,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, sender: sender, logger: logger}
}

// Notify stores and sends every message. It must be called after the
// triggering change has committed; failures are reported as
// domain.ErrServiceUnavailable and never undo that change.
func (s *Service) Notify(ctx context.Context, msgs ...Message) error {
	var errs []error
	for _, m := range msgs {
		if err := s.notify(ctx, m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Service) notify(ctx context.Context, m Message) error {
	log := s.logger.With("type", m.Type, "sender", s.sender.Name())
	n, err := notification.New(m.UserID, m.Type, m.Text, m.Metadata)
	if err != nil {
		log.Error("Invalid notification", "error", err)
		return fmt.Errorf("%w: %v", notification.ErrDeliveryFailed, err)
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Get[notificationrepo.Repository](uow)
		if err != nil {
			return err
		}
		return repo.Create(ctx, n)
	})
	if err != nil {
		log.Error("Failed to store notification", "error", err)
		return fmt.Errorf("%w: %v", notification.ErrDeliveryFailed, err)
	}
	if err := s.sender.Send(ctx, n); err != nil {
		log.Error("Failed to send notification", "id", n.PublicID, "error", err)
		if errors.Is(err, domain.ErrServiceUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", notification.ErrDeliveryFailed, err)
	}
	log.Info("Notification sent", "id", n.PublicID)
	return nil
}

// List returns the actor's notifications, newest first.
func (s *Service) List(
	ctx context.Context,
	actor user.Actor,
	opts repository.ListOptions,
) (out []*dto.NotificationRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Get[notificationrepo.Repository](uow)
		if err != nil {
			return err
		}
		items, err := repo.ListByUser(ctx, actor.ID, opts)
		if err != nil {
			return err
		}
		out = make([]*dto.NotificationRead, 0, len(items))
		for _, n := range items {
			out = append(out, mapper.MapNotificationToRead(n))
		}
		return nil
	})
	if err != nil {
		out = nil
	}
	return
}
