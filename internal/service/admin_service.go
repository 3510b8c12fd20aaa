package service

import (
	"context"

	"github.com/tindaph/tinda-backend/internal/model"
	"github.com/tindaph/tinda-backend/internal/repository"
)

type AdminService interface {
	Stats(ctx context.Context, sess *model.Session) (*model.MarketStats, error)
	Approve(ctx context.Context, sess *model.Session, listingID string) (*model.Listing, error)
	Reject(ctx context.Context, sess *model.Session, listingID string) (*model.Listing, error)
	Pending(ctx context.Context, sess *model.Session) ([]model.Listing, error)
}

type adminService struct {
	listings    ListingService
	listingRepo repository.ListingRepository
	users       repository.UserRepository
}

func NewAdminService(listings ListingService, listingRepo repository.ListingRepository, users repository.UserRepository) AdminService {
	return &adminService{listings: listings, listingRepo: listingRepo, users: users}
}

func (s *adminService) Stats(ctx context.Context, sess *model.Session) (*model.MarketStats, error) {
	if !sess.IsAdmin() {
		return nil, ErrForbidden
	}
	stats, err := s.listingRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *adminService) Approve(ctx context.Context, sess *model.Session, listingID string) (*model.Listing, error) {
	if !sess.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.listings.UpdateStatus(ctx, sess, listingID, string(model.StatusActive))
}

func (s *adminService) Reject(ctx context.Context, sess *model.Session, listingID string) (*model.Listing, error) {
	if !sess.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.listings.UpdateStatus(ctx, sess, listingID, string(model.StatusRejected))
}

func (s *adminService) Pending(ctx context.Context, sess *model.Session) ([]model.Listing, error) {
	return s.listings.ModerationQueue(ctx, sess)
}
