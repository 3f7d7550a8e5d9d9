package model

import (
	"lostfound/internal/common/enum"
	accountModel "lostfound/internal/service/account/model"
	"time"
)

type Item struct {
	ID           uint                `gorm:"primaryKey" json:"id"`
	Title        string              `gorm:"size:100;not null" json:"title"`
	Description  string              `gorm:"type:text;not null" json:"description"`
	ItemType     enum.ItemTypeEnum   `gorm:"size:10;not null;index" json:"item_type"`
	ContactPhone string              `gorm:"size:32" json:"contact_phone"`
	DateReported time.Time           `gorm:"not null;index" json:"date_reported"`
	Status       enum.ItemStatusEnum `gorm:"size:20;not null;default:active;index" json:"status"`
	UserID       uint                `gorm:"not null;index" json:"user_id"`
	User         *accountModel.User  `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Photos       []ItemPhoto         `gorm:"constraint:OnDelete:CASCADE" json:"photos,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

type ItemPhoto struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ItemID       uint      `gorm:"not null;index" json:"item_id"`
	FileName     string    `gorm:"size:64;not null" json:"file_name"`
	OriginalName string    `gorm:"size:255" json:"original_name"`
	MimeType     string    `gorm:"size:64" json:"mime_type"`
	Size         int       `json:"size"`
	URL          string    `gorm:"size:1024;not null" json:"url"`
	CreatedAt    time.Time `json:"created_at"`
}

// Cover is the first photo, nil when the report has none.
func (i *Item) Cover() *ItemPhoto {
	if len(i.Photos) == 0 {
		return nil
	}
	return &i.Photos[0]
}

type ReportInput struct {
	Title        string            `json:"title" form:"title" validate:"required,max=100"`
	Description  string            `json:"description" form:"description" validate:"required"`
	ContactPhone string            `json:"contact_phone" form:"contact_phone" validate:"required,phone,max=32"`
	ItemType     enum.ItemTypeEnum `json:"item_type" form:"item_type" validate:"required,enum"`
}

type SearchQuery struct {
	Search string `form:"search" json:"search"`
	Type   string `form:"type" json:"type"`
	Status string `form:"status" json:"status"`
}

// ItemEvent is published whenever a report is created or resolved.
type ItemEvent struct {
	ID           uint                `json:"id"`
	Title        string              `json:"title"`
	ItemType     enum.ItemTypeEnum   `json:"item_type"`
	Status       enum.ItemStatusEnum `json:"status"`
	DateReported time.Time           `json:"date_reported"`
	PhotoCount   int                 `json:"photo_count"`
}
