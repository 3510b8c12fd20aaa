package repository

import (
	"context"

	"github.com/tindaph/tinda-backend/internal/model"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, r *model.SiteReview) error
	ListLatest(ctx context.Context, limit int) ([]model.ReviewWithAuthor, error)
	SetDB(db *gorm.DB)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *reviewRepository) Create(ctx context.Context, rv *model.SiteReview) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *reviewRepository) ListLatest(ctx context.Context, limit int) ([]model.ReviewWithAuthor, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var list []model.ReviewWithAuthor
	if err := r.db.WithContext(ctx).
		Table("site_reviews AS r").
		Select("r.id, r.user_id, r.rating, r.comment, r.created_at, u.name AS user_name, u.city AS user_city").
		Joins("JOIN users u ON u.id = r.user_id").
		Order("r.created_at DESC, r.id DESC").
		Limit(limit).
		Scan(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
