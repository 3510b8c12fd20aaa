package model

import "github.com/shopspring/decimal"

// CountBucket is one row of a grouped count.
type CountBucket struct {
	Label string `json:"label"`
	Total int64  `json:"total"`
}

// MarketStats backs the admin dashboard.
type MarketStats struct {
	TotalUsers         int64
	TotalListings      int64
	TotalVolume        decimal.Decimal
	PendingApprovals   int64
	TotalViews         int64
	ListingsByRegion   []CountBucket
	ListingsByCategory []CountBucket
}
