package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CategoryAll is the feed filter sentinel; it is never stored on a listing.
const CategoryAll = "All"

var Categories = []string{
	"Electronics",
	"Fashion",
	"Home & Living",
	"Vehicles",
	"Hobbies",
	"Property",
	"Services",
	"Other",
}

func IsCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

var Conditions = []string{"New", "Like New", "Used", "For Parts"}

func IsCondition(c string) bool {
	for _, v := range Conditions {
		if v == c {
			return true
		}
	}
	return false
}

type ListingStatus string

const (
	StatusPending  ListingStatus = "pending"
	StatusActive   ListingStatus = "active"
	StatusRejected ListingStatus = "rejected"
	StatusSold     ListingStatus = "sold"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// ParseTargetStatus accepts only the states a listing can be moved into.
func ParseTargetStatus(s string) (ListingStatus, error) {
	switch st := ListingStatus(s); st {
	case StatusActive, StatusRejected, StatusSold:
		return st, nil
	}
	return "", fmt.Errorf("status must be one of active, rejected, sold: got %q", s)
}

var transitions = map[ListingStatus][]ListingStatus{
	StatusPending: {StatusActive, StatusRejected},
	StatusActive:  {StatusSold, StatusRejected},
}

// CanTransition reports whether a listing in status from may move to to.
// Rejected and sold are terminal.
func CanTransition(from, to ListingStatus) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

type Listing struct {
	ID          string          `gorm:"primaryKey;size:36"`
	SellerID    string          `gorm:"column:seller_id;size:36;index;not null"`
	Title       string          `gorm:"column:title;size:120;not null"`
	Description string          `gorm:"column:description;type:text"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(12,2);not null"`
	Category    string          `gorm:"column:category;size:64;index;not null"`
	Condition   string          `gorm:"column:item_condition;size:32;not null"`
	Location    Location        `gorm:"embedded"`
	Status      ListingStatus   `gorm:"column:status;size:16;index;not null"`
	Views       int64           `gorm:"column:views;not null;default:0"`
	Likes       int64           `gorm:"column:likes;not null;default:0"`
	CreatedAt   time.Time       `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`

	Seller *User          `gorm:"foreignKey:SellerID"`
	Images []ListingImage `gorm:"foreignKey:ListingID"`
}

func (Listing) TableName() string {
	return "listings"
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Status == "" {
		l.Status = StatusPending
	}
	return nil
}

// ImageURLs returns the image URLs in display order.
func (l *Listing) ImageURLs() []string {
	urls := make([]string, 0, len(l.Images))
	for _, img := range l.Images {
		urls = append(urls, img.URL)
	}
	return urls
}
