package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationSetting is a user's opt-in to due date reminders. At most one
// row exists per user; deleting it is the explicit opt-out.
type NotificationSetting struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	// Destination phone number, E.164 preferred.
	Address string `gorm:"type:varchar(30);not null"`

	Enabled  bool   `gorm:"not null"`
	LeadDays int    `gorm:"default:2;not null"`                   // days before the due date reminders start
	NotifyAt string `gorm:"type:varchar(5);default:'09:00';not null"` // preferred time of day (HH:MM)

	LastNotifiedAt *time.Time

	User User `gorm:"foreignKey:UserID"`

	gorm.Model
}

func (s *NotificationSetting) BeforeCreate(tx *gorm.DB) (err error) {
	s.ID = uuid.New()
	return
}
