package model

import "time"

type ListingImage struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	ListingID string    `gorm:"column:listing_id;size:36;index;not null"`
	URL       string    `gorm:"column:url;type:text;not null"`
	ObjectKey string    `gorm:"column:object_key;size:255"`
	Position  int       `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ListingImage) TableName() string {
	return "listing_images"
}
