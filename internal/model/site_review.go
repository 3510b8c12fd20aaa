package model

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type SiteReview struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    string    `gorm:"column:user_id;size:36;index;not null"`
	Rating    int       `gorm:"column:rating;not null"`
	Comment   string    `gorm:"column:comment;type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (SiteReview) TableName() string {
	return "site_reviews"
}

// ReviewWithAuthor is a review joined with the public fields of its author.
type ReviewWithAuthor struct {
	ID        uint64
	UserID    string
	Rating    int
	Comment   string
	CreatedAt time.Time
	UserName  string
	UserCity  string
}
