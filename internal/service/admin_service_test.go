package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tindaph/tinda-backend/internal/model"
)

func TestAdminRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	seller := e.signUp(t, "seller@example.com", model.RoleSeller, qc)
	l := e.listingAt(t, seller, "x", qc, model.StatusPending, time.Now())

	for _, sess := range []*model.Session{nil, seller} {
		_, err := e.admin.Stats(ctx, sess)
		assert.True(t, errors.Is(err, ErrForbidden))
		_, err = e.admin.Approve(ctx, sess, l.ID)
		assert.True(t, errors.Is(err, ErrForbidden))
		_, err = e.admin.Reject(ctx, sess, l.ID)
		assert.True(t, errors.Is(err, ErrForbidden))
		_, err = e.admin.Pending(ctx, sess)
		assert.True(t, errors.Is(err, ErrForbidden))
	}
}

func TestAdminApproveRejectAndStats(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	seller := e.signUp(t, "seller@example.com", model.RoleSeller, qc)
	e.signUp(t, "buyer@example.com", model.RoleUser, cebu)
	admin := e.adminSession(t)
	now := time.Now()

	a := e.listingAt(t, seller, "a", qc, model.StatusPending, now)
	b := e.listingAt(t, seller, "b", cebu, model.StatusPending, now)
	e.listingAt(t, seller, "c", cebu, model.StatusPending, now)
	sold := e.listingAt(t, seller, "sold", qc, model.StatusSold, now)

	got, err := e.admin.Approve(ctx, admin, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status)
	got, err = e.admin.Reject(ctx, admin, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, got.Status)
	_, err = e.admin.Approve(ctx, admin, b.ID)
	assert.True(t, errors.Is(err, ErrConflict))

	pending, err := e.admin.Pending(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, listingTitles(pending))

	_, err = e.listing.Get(ctx, nil, a.ID)
	require.NoError(t, err)

	stats, err := e.admin.Stats(ctx, admin)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalUsers)
	assert.EqualValues(t, 4, stats.TotalListings)
	assert.EqualValues(t, 1, stats.PendingApprovals)
	assert.EqualValues(t, 1, stats.TotalViews)
	assert.True(t, stats.TotalVolume.Equal(sold.Price), "volume=%s", stats.TotalVolume)
	assert.Equal(t, []model.CountBucket{{Label: "NCR", Total: 1}}, stats.ListingsByRegion)
	assert.Equal(t, []model.CountBucket{{Label: "Electronics", Total: 1}}, stats.ListingsByCategory)
	assert.False(t, stats.TotalVolume.Equal(decimal.Zero))
}
