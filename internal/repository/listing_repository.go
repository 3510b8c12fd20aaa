package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
	"github.com/tindaph/tinda-backend/internal/model"
	"gorm.io/gorm"
)

// ListingQuery selects listings for the feed and dashboards. Empty fields
// do not filter.
type ListingQuery struct {
	Statuses []model.ListingStatus
	SellerID string
	// OldestFirst flips the default created_at DESC order.
	OldestFirst bool
	Limit       int
}

type ListingRepository interface {
	CreateWithImages(ctx context.Context, l *model.Listing, images []model.ListingImage) error
	FindByID(ctx context.Context, id string) (*model.Listing, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Listing, error)
	List(ctx context.Context, q ListingQuery) ([]model.Listing, error)
	UpdateStatus(ctx context.Context, id string, from, to model.ListingStatus) error
	IncrementViews(ctx context.Context, id string) error
	IncrementLikes(ctx context.Context, id string) error
	Stats(ctx context.Context) (*model.MarketStats, error)
	SetDB(db *gorm.DB)
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func imagesInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// CreateWithImages inserts the listing and its image rows atomically.
func (r *listingRepository) CreateWithImages(ctx context.Context, l *model.Listing, images []model.ListingImage) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Images", "Seller").Create(l).Error; err != nil {
			return err
		}
		if len(images) == 0 {
			return nil
		}
		for i := range images {
			images[i].ListingID = l.ID
			images[i].Position = i
		}
		if err := tx.Create(&images).Error; err != nil {
			return err
		}
		l.Images = images
		return nil
	})
}

func (r *listingRepository) FindByID(ctx context.Context, id string) (*model.Listing, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var l model.Listing
	if err := r.db.WithContext(ctx).
		Preload("Images", imagesInOrder).
		Preload("Seller").
		Where("id = ?", id).
		First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *listingRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Listing, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	if len(ids) == 0 {
		return nil, nil
	}
	var list []model.Listing
	if err := r.db.WithContext(ctx).
		Preload("Images", imagesInOrder).
		Where("id IN ?", ids).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *listingRepository) List(ctx context.Context, q ListingQuery) ([]model.Listing, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	tx := r.db.WithContext(ctx).Model(&model.Listing{}).
		Preload("Images", imagesInOrder).
		Preload("Seller")
	if len(q.Statuses) > 0 {
		tx = tx.Where("status IN ?", q.Statuses)
	}
	if q.SellerID != "" {
		tx = tx.Where("seller_id = ?", q.SellerID)
	}
	if q.OldestFirst {
		tx = tx.Order("created_at ASC")
	} else {
		tx = tx.Order("created_at DESC")
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	var list []model.Listing
	if err := tx.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateStatus moves a listing from one status to another. It fails with
// ErrStaleStatus when the stored status is no longer from.
func (r *listingRepository) UpdateStatus(ctx context.Context, id string, from, to model.ListingStatus) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	res := r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (r *listingRepository) increment(ctx context.Context, id, column string) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	res := r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *listingRepository) IncrementViews(ctx context.Context, id string) error {
	return r.increment(ctx, id, "views")
}

func (r *listingRepository) IncrementLikes(ctx context.Context, id string) error {
	return r.increment(ctx, id, "likes")
}

// Stats aggregates the listing side of the admin dashboard. Region and
// category breakdowns count active listings only.
func (r *listingRepository) Stats(ctx context.Context) (*model.MarketStats, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	db := r.db.WithContext(ctx)
	var s model.MarketStats

	if err := db.Model(&model.Listing{}).Count(&s.TotalListings).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Listing{}).Where("status = ?", model.StatusPending).Count(&s.PendingApprovals).Error; err != nil {
		return nil, err
	}

	var volume decimal.NullDecimal
	if err := db.Model(&model.Listing{}).
		Select("SUM(price)").
		Where("status = ?", model.StatusSold).
		Row().Scan(&volume); err != nil {
		return nil, err
	}
	s.TotalVolume = decimal.Zero
	if volume.Valid {
		s.TotalVolume = volume.Decimal
	}

	var views sql.NullInt64
	if err := db.Model(&model.Listing{}).Select("SUM(views)").Row().Scan(&views); err != nil {
		return nil, err
	}
	s.TotalViews = views.Int64

	if err := db.Model(&model.Listing{}).
		Select("region AS label, COUNT(*) AS total").
		Where("status = ?", model.StatusActive).
		Group("region").
		Order("total DESC, label ASC").
		Scan(&s.ListingsByRegion).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Listing{}).
		Select("category AS label, COUNT(*) AS total").
		Where("status = ?", model.StatusActive).
		Group("category").
		Order("total DESC, label ASC").
		Scan(&s.ListingsByCategory).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
