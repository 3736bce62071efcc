// services/dispatch_log.go
package services

import (
	"errors"
	"time"

	"brandflow-backend/models"
	"brandflow-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrDuplicateSend means another writer already recorded a successful send
// for the same (user, post, kind) tuple today; the attempt must be treated as
// suppressed, not failed.
var ErrDuplicateSend = errors.New("a reminder for this item was already sent today")

// DispatchLogStore is the append-only record of delivery attempts and the
// query surface used to suppress repeats. Entries are never updated or
// removed.
type DispatchLogStore struct {
	db *gorm.DB
}

func NewDispatchLogStore(db *gorm.DB) *DispatchLogStore {
	return &DispatchLogStore{db: db}
}

// HasSentToday reports whether a successful send already exists for the tuple
// on now's calendar day, evaluated in the reference timezone.
func (s *DispatchLogStore) HasSentToday(userID, postID uuid.UUID, kind string, now time.Time) (bool, error) {
	day := now.Format("2006-01-02")

	var count int64
	err := s.db.Model(&models.NotificationLog{}).
		Where("user_id = ? AND post_id = ? AND kind = ? AND sent = ? AND sent_date = ?",
			userID, postID, kind, true, day).
		Count(&count).Error
	return count > 0, err
}

// Record appends one dispatch attempt. A unique violation on the daily dedup
// index means a concurrent worker won the race for the same tuple; that is
// surfaced as ErrDuplicateSend rather than written twice.
func (s *DispatchLogStore) Record(entry *models.NotificationLog) error {
	if err := s.db.Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSend
		}
		return err
	}
	return nil
}

// Recent returns the recipient's own log entries, newest first.
func (s *DispatchLogStore) Recent(userID uuid.UUID, limit, offset int) ([]models.NotificationLog, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var logs []models.NotificationLog
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error
	return logs, err
}

// CountForDay counts attempts recorded on day with the given outcome, for the
// admin statistics endpoint.
func (s *DispatchLogStore) CountForDay(day time.Time, sent bool) (int64, error) {
	start := utils.BeginningOfDay(day)
	end := start.AddDate(0, 0, 1)

	var count int64
	err := s.db.Model(&models.NotificationLog{}).
		Where("created_at >= ? AND created_at < ? AND sent = ?", start, end, sent).
		Count(&count).Error
	return count, err
}
