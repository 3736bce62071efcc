// services/preferences.go
package services

import (
	"time"

	"brandflow-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipient is one enabled notification setting with its user loaded.
type Recipient struct {
	User    models.User
	Setting models.NotificationSetting
}

// PreferenceStore is the scheduler's view of recipient preferences.
type PreferenceStore interface {
	EligibleRecipients() ([]Recipient, error)
	MarkNotified(settingID uuid.UUID, at time.Time) error
}

type dbPreferenceStore struct {
	db *gorm.DB

	// Users in this role never receive reminders regardless of preference.
	excludedRole string
}

func NewPreferenceStore(db *gorm.DB, excludedRole string) PreferenceStore {
	return &dbPreferenceStore{db: db, excludedRole: excludedRole}
}

func (s *dbPreferenceStore) EligibleRecipients() ([]Recipient, error) {
	var settings []models.NotificationSetting
	err := s.db.Preload("User").
		Where("enabled = ?", true).
		Find(&settings).Error
	if err != nil {
		return nil, err
	}

	var recipients []Recipient
	for _, setting := range settings {
		user := setting.User
		if !user.IsActive || user.Role == s.excludedRole {
			continue
		}
		recipients = append(recipients, Recipient{User: user, Setting: setting})
	}
	return recipients, nil
}

func (s *dbPreferenceStore) MarkNotified(settingID uuid.UUID, at time.Time) error {
	return s.db.Model(&models.NotificationSetting{}).
		Where("id = ?", settingID).
		Update("last_notified_at", at).Error
}
