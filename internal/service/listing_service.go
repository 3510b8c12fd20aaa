package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tindaph/tinda-backend/internal/feed"
	"github.com/tindaph/tinda-backend/internal/imaging"
	"github.com/tindaph/tinda-backend/internal/model"
	"github.com/tindaph/tinda-backend/internal/reqctx"
	"github.com/tindaph/tinda-backend/internal/repository"
	"github.com/tindaph/tinda-backend/internal/storage"
)

const (
	MaxImagesPerListing = 8
	DefaultFeedLimit    = 60
	MaxFeedLimit        = 200
	TrendingCount       = 5
)

type ImageUpload struct {
	Filename string
	Data     []byte
}

type CreateListingInput struct {
	Title       string
	Description string
	Price       decimal.Decimal
	Category    string
	Condition   string
	// Location defaults to the seller's home location when nil.
	Location  *model.Location
	Images    []ImageUpload
	ImageURLs []string
}

type FeedQuery struct {
	Category string
	Search   string
	Limit    int
}

type ListingService interface {
	Create(ctx context.Context, sess *model.Session, in CreateListingInput) (*model.Listing, error)
	Feed(ctx context.Context, viewer *model.Session, q FeedQuery) ([]model.Listing, error)
	Trending(ctx context.Context) ([]model.Listing, error)
	Get(ctx context.Context, viewer *model.Session, id string) (*model.Listing, error)
	Like(ctx context.Context, id string) (*model.Listing, error)
	ListMine(ctx context.Context, sess *model.Session) ([]model.Listing, error)
	UpdateStatus(ctx context.Context, sess *model.Session, id, status string) (*model.Listing, error)
	ModerationQueue(ctx context.Context, sess *model.Session) ([]model.Listing, error)
}

type listingService struct {
	repo   repository.ListingRepository
	images storage.ImageStore
	notify NotificationService
}

func NewListingService(repo repository.ListingRepository, images storage.ImageStore, notify NotificationService) ListingService {
	return &listingService{repo: repo, images: images, notify: notify}
}

func validateListing(sess *model.Session, in *CreateListingInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || len(in.Title) > 120 {
		return invalid("title", "title is required (max 120 characters)")
	}
	if len(in.Description) > 5000 {
		return invalid("description", "description is too long")
	}
	if in.Price.IsNegative() {
		return invalid("price", "price must not be negative")
	}
	if !model.IsCategory(in.Category) {
		return invalid("category", fmt.Sprintf("unknown category %q", in.Category))
	}
	if !model.IsCondition(in.Condition) {
		return invalid("condition", fmt.Sprintf("unknown condition %q", in.Condition))
	}
	if in.Location == nil || in.Location.IsZero() {
		home := sess.Location
		in.Location = &home
	}
	if strings.TrimSpace(in.Location.City) == "" {
		return invalid("location", "Location is required")
	}

	n := len(in.Images) + len(in.ImageURLs)
	if n == 0 {
		return invalid("images", "Image is required")
	}
	if n > MaxImagesPerListing {
		return invalid("images", fmt.Sprintf("at most %d images per listing", MaxImagesPerListing))
	}
	for _, raw := range in.ImageURLs {
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return invalid("imageUrls", "imageUrls must be http(s) URLs")
		}
	}
	return nil
}

// Create validates the listing, normalises and uploads its photos, then
// writes the listing and image rows in one transaction. Uploaded objects are
// removed again if the write fails.
func (s *listingService) Create(ctx context.Context, sess *model.Session, in CreateListingInput) (*model.Listing, error) {
	if sess == nil {
		return nil, ErrUnauthorized
	}
	if err := validateListing(sess, &in); err != nil {
		return nil, err
	}

	processed := make([]*imaging.Result, 0, len(in.Images))
	for i, img := range in.Images {
		res, err := imaging.Process(bytes.NewReader(img.Data))
		if err != nil {
			return nil, invalid("images", fmt.Sprintf("image %d (%s) could not be read: %v", i+1, img.Filename, err))
		}
		processed = append(processed, res)
	}

	rows := make([]model.ListingImage, 0, len(processed)+len(in.ImageURLs))
	var uploaded []string
	for _, res := range processed {
		obj, err := s.images.Put(ctx, res.Data, res.MIME)
		if err != nil {
			s.cleanup(ctx, uploaded)
			return nil, fmt.Errorf("upload image: %w", err)
		}
		if obj.Key != "" {
			uploaded = append(uploaded, obj.Key)
		}
		rows = append(rows, model.ListingImage{URL: obj.URL, ObjectKey: obj.Key})
	}
	for _, u := range in.ImageURLs {
		rows = append(rows, model.ListingImage{URL: strings.TrimSpace(u)})
	}

	l := &model.Listing{
		SellerID:    sess.UserID,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Condition:   in.Condition,
		Location:    *in.Location,
		Status:      model.StatusPending,
	}
	if err := s.repo.CreateWithImages(ctx, l, rows); err != nil {
		s.cleanup(ctx, uploaded)
		return nil, err
	}
	log.Printf("[listing] rid=%s stage=created listing=%s seller=%s images=%d", reqctx.RID(ctx), l.ID, l.SellerID, len(rows))
	return l, nil
}

func (s *listingService) cleanup(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.images.Delete(context.WithoutCancel(ctx), key); err != nil {
			log.Printf("[listing] rid=%s stage=cleanup_fail key=%s err=%v", reqctx.RID(ctx), key, err)
		}
	}
}

func (s *listingService) Feed(ctx context.Context, viewer *model.Session, q FeedQuery) ([]model.Listing, error) {
	query := repository.ListingQuery{}
	if !viewer.IsAdmin() {
		query.Statuses = []model.ListingStatus{model.StatusActive}
	}
	list, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}
	ranked := feed.Rank(feed.Filter(list, feed.Criteria{Category: q.Category, Search: q.Search}), viewer)

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// Trending is the head of the anonymous feed.
func (s *listingService) Trending(ctx context.Context) ([]model.Listing, error) {
	return s.Feed(ctx, nil, FeedQuery{Limit: TrendingCount})
}

func canSee(viewer *model.Session, l *model.Listing) bool {
	if l.Status == model.StatusActive || l.Status == model.StatusSold {
		return true
	}
	return viewer.IsAdmin() || (viewer != nil && viewer.UserID == l.SellerID)
}

// Get returns a listing and counts the view.
func (s *listingService) Get(ctx context.Context, viewer *model.Session, id string) (*model.Listing, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if !canSee(viewer, l) {
		return nil, ErrNotFound
	}
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		return nil, notFoundOr(err)
	}
	l.Views++
	return l, nil
}

func (s *listingService) Like(ctx context.Context, id string) (*model.Listing, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if l.Status != model.StatusActive {
		return nil, ErrNotFound
	}
	if err := s.repo.IncrementLikes(ctx, id); err != nil {
		return nil, notFoundOr(err)
	}
	l.Likes++
	return l, nil
}

func (s *listingService) ListMine(ctx context.Context, sess *model.Session) ([]model.Listing, error) {
	if sess == nil {
		return nil, ErrUnauthorized
	}
	return s.repo.List(ctx, repository.ListingQuery{SellerID: sess.UserID})
}

// UpdateStatus applies a status change. Admins moderate (active, rejected)
// and may also close a listing as sold; the seller may only mark it sold.
func (s *listingService) UpdateStatus(ctx context.Context, sess *model.Session, id, status string) (*model.Listing, error) {
	if sess == nil {
		return nil, ErrUnauthorized
	}
	target, err := model.ParseTargetStatus(status)
	if err != nil {
		return nil, invalid("status", err.Error())
	}
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}

	isOwner := l.SellerID == sess.UserID
	if !sess.IsAdmin() && !(isOwner && target == model.StatusSold) {
		if !isOwner && !canSee(sess, l) {
			return nil, ErrNotFound
		}
		return nil, ErrForbidden
	}
	if err := model.CanTransition(l.Status, target); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConflict, err)
	}

	from := l.Status
	if err := s.repo.UpdateStatus(ctx, id, from, target); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, err
	}
	l.Status = target
	log.Printf("[moderation] rid=%s listing=%s from=%s to=%s by=%s", reqctx.RID(ctx), id, from, target, sess.UserID)

	if sess.IsAdmin() && !isOwner {
		switch target {
		case model.StatusActive:
			s.notify.Notify(ctx, l.SellerID, model.NotificationListingApproved,
				"Your listing is live", fmt.Sprintf("%q was approved and is now visible to buyers.", l.Title), strPtr(l.ID))
		case model.StatusRejected:
			s.notify.Notify(ctx, l.SellerID, model.NotificationListingRejected,
				"Your listing was not approved", fmt.Sprintf("%q was rejected by a moderator.", l.Title), strPtr(l.ID))
		}
	}
	return l, nil
}

func (s *listingService) ModerationQueue(ctx context.Context, sess *model.Session) ([]model.Listing, error) {
	if !sess.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.repo.List(ctx, repository.ListingQuery{
		Statuses:    []model.ListingStatus{model.StatusPending},
		OldestFirst: true,
	})
}
