package service

import (
	"context"
	"strings"

	"github.com/tindaph/tinda-backend/internal/model"
	"github.com/tindaph/tinda-backend/internal/repository"
)

type ReviewService interface {
	Create(ctx context.Context, sess *model.Session, rating int, comment string) (*model.SiteReview, error)
	List(ctx context.Context, limit int) ([]model.ReviewWithAuthor, error)
}

type reviewService struct {
	repo repository.ReviewRepository
}

func NewReviewService(repo repository.ReviewRepository) ReviewService {
	return &reviewService{repo: repo}
}

func (s *reviewService) Create(ctx context.Context, sess *model.Session, rating int, comment string) (*model.SiteReview, error) {
	if sess == nil {
		return nil, ErrUnauthorized
	}
	if rating < model.MinRating || rating > model.MaxRating {
		return nil, invalid("rating", "rating must be between 1 and 5")
	}
	comment = strings.TrimSpace(comment)
	if comment == "" || len(comment) > 1000 {
		return nil, invalid("comment", "comment is required (max 1000 characters)")
	}
	r := &model.SiteReview{UserID: sess.UserID, Rating: rating, Comment: comment}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *reviewService) List(ctx context.Context, limit int) ([]model.ReviewWithAuthor, error) {
	return s.repo.ListLatest(ctx, limit)
}
