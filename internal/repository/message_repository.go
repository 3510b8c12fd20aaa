package repository

import (
	"context"

	"github.com/tindaph/tinda-backend/internal/model"
	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, m *model.Message) error
	ListByParticipant(ctx context.Context, userID string) ([]model.Message, error)
	MarkThreadRead(ctx context.Context, viewerID, listingID, counterpartID string) (int64, error)
	SetDB(db *gorm.DB)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *messageRepository) Create(ctx context.Context, m *model.Message) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *messageRepository) ListByParticipant(ctx context.Context, userID string) ([]model.Message, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var msgs []model.Message
	if err := r.db.WithContext(ctx).
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// MarkThreadRead flags the counterpart's messages to the viewer on one
// listing as read and returns how many changed.
func (r *messageRepository) MarkThreadRead(ctx context.Context, viewerID, listingID, counterpartID string) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	res := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("listing_id = ? AND sender_id = ? AND recipient_id = ? AND is_read = ?", listingID, counterpartID, viewerID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
