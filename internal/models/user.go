package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SubscriptionFree    = "free"
	SubscriptionPremium = "premium"

	AuthProviderEmail = "email"
	AuthProviderApple = "apple"
)

// User is the account record. Password is empty for Apple-only accounts.
type User struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email              string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password           string         `gorm:"size:255" json:"-"`
	Name               string         `gorm:"size:255;not null" json:"name"`
	Address            string         `gorm:"size:500" json:"address,omitempty"`
	DateOfBirth        string         `gorm:"size:32" json:"dateOfBirth,omitempty"`
	SubscriptionStatus string         `gorm:"size:20;not null;default:'free'" json:"subscriptionStatus"`
	AppleUserID        *string        `gorm:"size:255;uniqueIndex" json:"-"`
	AuthProvider       string         `gorm:"size:50;default:'email'" json:"-"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}
