package notification

import (
	"context"
	"fmt"
	"time"

	"careerlink/logs"
	"careerlink/metrics"
	"careerlink/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Sender delivers one message synchronously.
type Sender interface {
	Send(ctx context.Context, msg Message) (bool, error)
}

// ReminderSweeper delivers persisted reminders once their fire time has passed.
type ReminderSweeper struct {
	db        *gorm.DB
	sender    Sender
	batchSize int
	now       func() time.Time
	log       *logrus.Entry
}

func NewReminderSweeper(db *gorm.DB, sender Sender) *ReminderSweeper {
	return &ReminderSweeper{
		db:        db,
		sender:    sender,
		batchSize: 200,
		now:       func() time.Time { return time.Now().UTC() },
		log:       logs.With("reminders"),
	}
}

// Sweep sends every due reminder and returns how many were claimed for delivery.
// Claiming stamps sent_at first so overlapping sweeps never double-send.
func (s *ReminderSweeper) Sweep(ctx context.Context) (int, error) {
	now := s.now()

	var due []models.ScheduledReminder
	err := s.db.WithContext(ctx).
		Where("fire_at <= ? AND sent_at IS NULL AND cancelled_at IS NULL", now).
		Order("fire_at asc").
		Limit(s.batchSize).
		Find(&due).Error
	if err != nil {
		return 0, fmt.Errorf("load due reminders: %w", err)
	}

	sent := 0
	for _, r := range due {
		wanted, err := s.stillWanted(ctx, r)
		if err != nil {
			s.log.WithError(err).WithField("reminder_id", r.ID).Warn("reminder owner lookup failed, retrying next sweep")
			continue
		}
		if !wanted {
			if err := s.db.WithContext(ctx).Model(&models.ScheduledReminder{}).
				Where("id = ? AND sent_at IS NULL", r.ID).
				Update("cancelled_at", now).Error; err != nil {
				s.log.WithError(err).WithField("reminder_id", r.ID).Warn("stale reminder not cancelled")
			}
			continue
		}

		res := s.db.WithContext(ctx).Model(&models.ScheduledReminder{}).
			Where("id = ? AND sent_at IS NULL AND cancelled_at IS NULL", r.ID).
			Update("sent_at", now)
		if res.Error != nil {
			s.log.WithError(res.Error).WithField("reminder_id", r.ID).Warn("reminder not claimed")
			continue
		}
		if res.RowsAffected == 0 {
			continue
		}

		sent++
		msg := Message{
			UserID: r.UserID,
			Title:  r.Title,
			Body:   r.Message,
			Kind:   r.Kind,
			Data:   stringMap(r.Data),
		}
		if _, err := s.sender.Send(ctx, msg); err != nil {
			s.log.WithError(err).WithField("reminder_id", r.ID).Warn("reminder delivery failed")
			continue
		}
		metrics.RemindersSent.Inc()
	}

	if sent > 0 {
		s.log.WithField("count", sent).Info("reminders sent")
	}
	return sent, nil
}

// stillWanted reports whether the reminder's enrollment or booking is still active.
func (s *ReminderSweeper) stillWanted(ctx context.Context, r models.ScheduledReminder) (bool, error) {
	var q *gorm.DB
	switch {
	case r.EnrollmentID != nil:
		q = s.db.WithContext(ctx).Model(&models.Enrollment{}).
			Where("id = ? AND status = ?", *r.EnrollmentID, models.EnrollmentActive)
	case r.BookingID != nil:
		q = s.db.WithContext(ctx).Model(&models.MentoringBooking{}).
			Where("id = ? AND status = ?", *r.BookingID, models.BookingBooked)
	default:
		return true, nil
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Purge deletes reminders that were sent or cancelled before now minus olderThan.
func (s *ReminderSweeper) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan)
	res := s.db.WithContext(ctx).
		Where("(sent_at IS NOT NULL AND sent_at < ?) OR (cancelled_at IS NOT NULL AND cancelled_at < ?)", cutoff, cutoff).
		Delete(&models.ScheduledReminder{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge reminders: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func stringMap(m map[string]interface{}) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = fmt.Sprint(v)
	}
	return out
}
