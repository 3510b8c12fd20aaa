package model

import "time"

type Message struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	SenderID    string    `gorm:"column:sender_id;size:36;index;not null"`
	RecipientID string    `gorm:"column:recipient_id;size:36;index;not null"`
	ListingID   string    `gorm:"column:listing_id;size:36;index;not null"`
	Body        string    `gorm:"column:body;type:text;not null"`
	Read        bool      `gorm:"column:is_read;not null;default:false"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
}

func (Message) TableName() string {
	return "messages"
}

// Involves reports whether userID sent or received the message.
func (m Message) Involves(userID string) bool {
	return m.SenderID == userID || m.RecipientID == userID
}
