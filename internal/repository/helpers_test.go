package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tindaph/tinda-backend/internal/model"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, gdb *gorm.DB, email, city string) *model.User {
	t.Helper()
	u := &model.User{
		Email:    email,
		Name:     "user " + email,
		Role:     model.RoleSeller,
		Location: model.Location{Region: "NCR", Province: "Metro Manila", City: city},
	}
	require.NoError(t, NewUserRepository(gdb).Create(context.Background(), u))
	return u
}

func seedListing(t *testing.T, gdb *gorm.DB, seller *model.User, title string, status model.ListingStatus, createdAt time.Time) *model.Listing {
	t.Helper()
	l := &model.Listing{
		SellerID:  seller.ID,
		Title:     title,
		Price:     decimal.NewFromInt(1000),
		Category:  "Electronics",
		Condition: "Used",
		Location:  seller.Location,
		Status:    status,
		CreatedAt: createdAt,
	}
	require.NoError(t, NewListingRepository(gdb).CreateWithImages(context.Background(), l, []model.ListingImage{{URL: "https://img/" + title}}))
	return l
}
