// models/notification_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	KindDueDateReminder = "due_date_reminder"
	KindTestMessage     = "test_message"
)

// NotificationLog is an append-only record of one delivery attempt. SentDate
// is filled only on successful sends, so the composite unique index enforces
// at most one sent entry per (user, post, kind) per calendar day while
// leaving failed attempts and test messages unconstrained.
type NotificationLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	UserID     uuid.UUID  `gorm:"type:uuid;index;not null;uniqueIndex:idx_notification_dedup,priority:1"`
	PostID     *uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_notification_dedup,priority:2"` // nil for test messages
	CampaignID *uuid.UUID `gorm:"type:uuid;index"`

	Kind    string `gorm:"type:varchar(50);not null;uniqueIndex:idx_notification_dedup,priority:3"` // due_date_reminder, test_message
	Message string `gorm:"type:text;not null"`
	Address string `gorm:"type:varchar(30);not null"`
	Channel string `gorm:"type:varchar(20)"` // whatsapp, sms

	Sent     bool       `gorm:"not null"`
	SentAt   *time.Time
	SentDate *string `gorm:"type:varchar(10);uniqueIndex:idx_notification_dedup,priority:4"` // YYYY-MM-DD

	ErrorMessage string `gorm:"type:text"`
	ProviderID   string `gorm:"type:varchar(64)"` // gateway-assigned message SID

	gorm.Model
}

func (n *NotificationLog) BeforeCreate(tx *gorm.DB) (err error) {
	n.ID = uuid.New()
	return
}
