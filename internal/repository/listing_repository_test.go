package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tindaph/tinda-backend/internal/db"
	"github.com/tindaph/tinda-backend/internal/model"
	"gorm.io/gorm"
)

var day0 = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func TestCreateWithImages(t *testing.T) {
	ctx := context.Background()
	gdb := db.NewTestDB(t)
	repo := NewListingRepository(gdb)
	seller := seedUser(t, gdb, "s@example.com", "Makati")

	l := &model.Listing{
		SellerID:  seller.ID,
		Title:     "Rice cooker",
		Price:     decimal.RequireFromString("1499.50"),
		Category:  "Home & Living",
		Condition: "Like New",
		Location:  seller.Location,
	}
	imgs := []model.ListingImage{{URL: "a"}, {URL: "b", ObjectKey: "listings/b.jpg"}}
	require.NoError(t, repo.CreateWithImages(ctx, l, imgs))
	assert.Equal(t, model.StatusPending, l.Status)

	got, err := repo.FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rice cooker", got.Title)
	assert.True(t, decimal.RequireFromString("1499.5").Equal(got.Price), "price=%s", got.Price)
	assert.Equal(t, []string{"a", "b"}, got.ImageURLs())
	assert.Equal(t, "listings/b.jpg", got.Images[1].ObjectKey)
	require.NotNil(t, got.Seller)
	assert.Equal(t, seller.Email, got.Seller.Email)
}

func TestCreateWithImagesRollsBack(t *testing.T) {
	ctx := context.Background()
	gdb := db.NewTestDB(t)
	repo := NewListingRepository(gdb)
	seller := seedUser(t, gdb, "s@example.com", "Makati")

	first := seedListing(t, gdb, seller, "first", model.StatusActive, day0)

	// Reusing the image primary key makes the second insert fail after the
	// listing row was written.
	dup := &model.Listing{SellerID: seller.ID, Title: "dup", Price: decimal.NewFromInt(1), Category: "Other", Condition: "New"}
	err := repo.CreateWithImages(ctx, dup, []model.ListingImage{{ID: first.Images[0].ID, URL: "x"}})
	require.Error(t, err)

	_, err = repo.FindByID(ctx, dup.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound), "listing row must be rolled back, err=%v", err)
}

func TestListFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	gdb := db.NewTestDB(t)
	repo := NewListingRepository(gdb)
	a := seedUser(t, gdb, "a@example.com", "Makati")
	b := seedUser(t, gdb, "b@example.com", "Pasig")

	seedListing(t, gdb, a, "old-active", model.StatusActive, day0)
	seedListing(t, gdb, b, "new-active", model.StatusActive, day0.Add(2*time.Hour))
	seedListing(t, gdb, a, "pending", model.StatusPending, day0.Add(time.Hour))

	active, err := repo.List(ctx, ListingQuery{Statuses: []model.ListingStatus{model.StatusActive}})
	require.NoError(t, err)
	assert.Equal(t, []string{"new-active", "old-active"}, titles(active))

	all, err := repo.List(ctx, ListingQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"new-active", "pending", "old-active"}, titles(all))

	mine, err := repo.List(ctx, ListingQuery{SellerID: a.ID, OldestFirst: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"old-active", "pending"}, titles(mine))

	limited, err := repo.List(ctx, ListingQuery{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestUpdateStatusIsConditional(t *testing.T) {
	ctx := context.Background()
	gdb := db.NewTestDB(t)
	repo := NewListingRepository(gdb)
	seller := seedUser(t, gdb, "s@example.com", "Makati")
	l := seedListing(t, gdb, seller, "x", model.StatusPending, day0)

	require.NoError(t, repo.UpdateStatus(ctx, l.ID, model.StatusPending, model.StatusActive))
	err := repo.UpdateStatus(ctx, l.ID, model.StatusPending, model.StatusRejected)
	assert.True(t, errors.Is(err, ErrStaleStatus))

	got, err := repo.FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status)
}

func TestIncrementCounters(t *testing.T) {
	ctx := context.Background()
	gdb := db.NewTestDB(t)
	repo := NewListingRepository(gdb)
	seller := seedUser(t, gdb, "s@example.com", "Makati")
	l := seedListing(t, gdb, seller, "x", model.StatusActive, day0)

	require.NoError(t, repo.IncrementViews(ctx, l.ID))
	require.NoError(t, repo.IncrementViews(ctx, l.ID))
	require.NoError(t, repo.IncrementLikes(ctx, l.ID))

	got, err := repo.FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Views)
	assert.Equal(t, int64(1), got.Likes)

	err = repo.IncrementViews(ctx, "missing")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	gdb := db.NewTestDB(t)
	repo := NewListingRepository(gdb)
	seller := seedUser(t, gdb, "s@example.com", "Makati")

	seedListing(t, gdb, seller, "a1", model.StatusActive, day0)
	seedListing(t, gdb, seller, "a2", model.StatusActive, day0)
	seedListing(t, gdb, seller, "p1", model.StatusPending, day0)
	seedListing(t, gdb, seller, "s1", model.StatusSold, day0)
	seedListing(t, gdb, seller, "s2", model.StatusSold, day0)
	seedListing(t, gdb, seller, "r1", model.StatusRejected, day0)

	s, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), s.TotalListings)
	assert.Equal(t, int64(1), s.PendingApprovals)
	assert.True(t, decimal.NewFromInt(2000).Equal(s.TotalVolume), "volume=%s", s.TotalVolume)
	assert.Equal(t, []model.CountBucket{{Label: "NCR", Total: 2}}, s.ListingsByRegion)
	assert.Equal(t, []model.CountBucket{{Label: "Electronics", Total: 2}}, s.ListingsByCategory)
}

func TestStatsEmpty(t *testing.T) {
	s, err := NewListingRepository(db.NewTestDB(t)).Stats(context.Background())
	require.NoError(t, err)
	assert.True(t, s.TotalVolume.IsZero())
	assert.Zero(t, s.TotalViews)
	assert.Empty(t, s.ListingsByRegion)
}

func TestRepositoryWithoutDB(t *testing.T) {
	_, err := NewListingRepository(nil).List(context.Background(), ListingQuery{})
	assert.True(t, errors.Is(err, ErrDBNotReady))
}

func titles(ls []model.Listing) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.Title)
	}
	return out
}
