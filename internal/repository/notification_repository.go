package repository

import (
	"context"
	"errors"

	"github.com/tindaph/tinda-backend/internal/model"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	// Collapse folds n into an unread notification of the same type about the
	// same listing, so a chatty buyer leaves one entry instead of many.
	Collapse(ctx context.Context, n *model.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]model.Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
	MarkListingRead(ctx context.Context, userID, listingID, typ string) (int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	SetDB(db *gorm.DB)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) Collapse(ctx context.Context, n *model.Notification) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	if n.ListingID == nil {
		return r.Create(ctx, n)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Notification
		err := tx.Where("user_id = ? AND type = ? AND listing_id = ? AND read_at IS NULL", n.UserID, n.Type, *n.ListingID).
			Order("created_at DESC, id DESC").
			Take(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(n).Error
		}
		if err != nil {
			return err
		}
		n.ID = existing.ID
		n.CreatedAt = tx.NowFunc()
		return tx.Model(&existing).Updates(map[string]any{
			"title":      n.Title,
			"body":       n.Body,
			"created_at": n.CreatedAt,
		}).Error
	})
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]model.Notification, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}
	var list []model.Notification
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *notificationRepository) unread(ctx context.Context, userID string) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Notification{}).Where("user_id = ? AND read_at IS NULL", userID)
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.unread(ctx, userID).Update("read_at", r.db.NowFunc()).Error
}

// MarkListingRead clears the user's unread notifications of one type about a
// listing and reports how many it touched.
func (r *notificationRepository) MarkListingRead(ctx context.Context, userID, listingID, typ string) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	res := r.unread(ctx, userID).
		Where("listing_id = ? AND type = ?", listingID, typ).
		Update("read_at", r.db.NowFunc())
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	var cnt int64
	if err := r.unread(ctx, userID).Count(&cnt).Error; err != nil {
		return 0, err
	}
	return cnt, nil
}
