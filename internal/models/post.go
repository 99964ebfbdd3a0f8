package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxPostLength is the maximum body length in code points.
const MaxPostLength = 140

// Post is a short, immutable message written by a user.
type Post struct {
	ID        uint      `gorm:"primaryKey"`
	Body      string    `gorm:"size:140;not null"`
	Timestamp time.Time `gorm:"index;not null"`
	UserID    uint      `gorm:"index;not null"`
	Language  string    `gorm:"size:5"`

	Author User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (Post) TableName() string { return "posts" }

// SearchableFields lists the columns projected into the search index.
func (Post) SearchableFields() []string { return []string{"body"} }

// BeforeCreate assigns the creation timestamp unless one was set explicitly.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now().UTC()
	}
	return nil
}
