package service

import (
	"context"
	"log"
	"time"

	"github.com/tindaph/tinda-backend/internal/model"
	"github.com/tindaph/tinda-backend/internal/repository"
)

type NotificationService interface {
	Notify(ctx context.Context, userID, typ, title, body string, listingID *string)
	List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]model.Notification, int64, error)
	MarkAllRead(ctx context.Context, userID string) error
	MarkListingRead(ctx context.Context, userID, listingID, typ string)
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

// Notify is best-effort; failures are logged and never reach the caller.
func (s *notificationService) Notify(ctx context.Context, userID, typ, title, body string, listingID *string) {
	if userID == "" || typ == "" {
		return
	}
	ctx, cancel := withShortDeadline(ctx)
	defer cancel()
	n := &model.Notification{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Body:      body,
		ListingID: listingID,
	}
	write := s.repo.Create
	// message notifications stack per listing; moderation outcomes do not
	if typ == model.NotificationNewMessage {
		write = s.repo.Collapse
	}
	if err := write(ctx, n); err != nil {
		log.Printf("[notify] user=%s type=%s err=%v", userID, typ, err)
	}
}

func (s *notificationService) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]model.Notification, int64, error) {
	if userID == "" {
		return nil, 0, nil
	}
	list, err := s.repo.ListByUser(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, 0, err
	}
	cnt, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return list, 0, err
	}
	return list, cnt, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	return s.repo.MarkAllRead(ctx, userID)
}

// MarkListingRead is best-effort like Notify.
func (s *notificationService) MarkListingRead(ctx context.Context, userID, listingID, typ string) {
	if userID == "" || listingID == "" {
		return
	}
	ctx, cancel := withShortDeadline(ctx)
	defer cancel()
	if _, err := s.repo.MarkListingRead(ctx, userID, listingID, typ); err != nil {
		log.Printf("[notify] user=%s listing=%s stage=mark_read err=%v", userID, listingID, err)
	}
}

func strPtr(v string) *string {
	return &v
}

func withShortDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 2*time.Second)
}
