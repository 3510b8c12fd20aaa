package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleSeller Role = "SELLER"
	RoleUser   Role = "USER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSeller, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Email        string    `gorm:"column:email;size:255;uniqueIndex;not null"`
	Name         string    `gorm:"column:name;size:255;not null"`
	Role         Role      `gorm:"column:role;size:16;not null"`
	Location     Location  `gorm:"embedded"`
	IsVerified   bool      `gorm:"column:is_verified;not null;default:false"`
	PasswordHash string    `gorm:"column:password_hash;size:255"`
	FirebaseUID  *string   `gorm:"column:firebase_uid;size:128;uniqueIndex"`
	JoinedAt     time.Time `gorm:"column:joined_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
