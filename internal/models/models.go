package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a LinkedIn-authenticated account. ProviderID is the OpenID "sub".
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ProviderID string `gorm:"column:provider_id;uniqueIndex;not null" json:"provider_id"`
	Name       string `json:"name"`
	Email      string `gorm:"index" json:"email"`
	Image      string `json:"image"`
}

// Session is a server-side login. The access token never leaves the server
// except masked.
type Session struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID      uint      `gorm:"index;not null" json:"user_id"`
	User        User      `json:"user"`
	AccessToken string    `gorm:"type:text" json:"-"`
	ExpiresAt   time.Time `gorm:"index" json:"expires_at"`
}

// Search is one prompt sent to the model and its raw answer.
type Search struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// UserID is nil for anonymous searches.
	UserID   *uint  `gorm:"index" json:"user_id,omitempty"`
	Prompt   string `gorm:"type:text;not null" json:"prompt"`
	Response string `gorm:"type:text" json:"response"`

	// 'omitempty' keeps list endpoints small when prospects are not preloaded
	Prospects []Prospect `gorm:"constraint:OnDelete:CASCADE" json:"prospects,omitempty"`
}

// Prospect is one company extracted from a Search response.
type Prospect struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	SearchID uint `gorm:"index;not null" json:"search_id"`
	Position int  `json:"position"`

	Name           string `gorm:"not null" json:"name"`
	Description    string `gorm:"type:text" json:"description,omitempty"`
	Domain         string `gorm:"index" json:"domain,omitempty"`
	Website        string `json:"website,omitempty"`
	Location       string `json:"location,omitempty"`
	Classification string `json:"classification,omitempty"`
	FoundingYear   string `json:"foundingYear,omitempty"`
}
