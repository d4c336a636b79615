package services

import (
	"context"
	"time"

	"careerlink/models"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CareerFairService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewCareerFairService(db *gorm.DB) *CareerFairService {
	return &CareerFairService{db: db, now: utcNow}
}

// Events lists events by start time. upcoming limits them to events from today on.
func (s *CareerFairService) Events(ctx context.Context, upcoming bool) ([]models.Event, error) {
	q := s.db.WithContext(ctx).Model(&models.Event{})
	if upcoming {
		q = q.Where("start_at >= ?", now.With(s.now()).BeginningOfDay())
	}

	var events []models.Event
	err := q.Order("start_at asc").Find(&events).Error
	return events, err
}

func (s *CareerFairService) Event(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, notFound(err, "event")
	}
	return &event, nil
}

// Follow saves the event for the user. Following twice is a no-op.
func (s *CareerFairService) Follow(ctx context.Context, userID, eventID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Event{}, eventID).Error; err != nil {
			return notFound(err, "event")
		}
		return s.follow(tx, userID, eventID)
	})
}

func (s *CareerFairService) follow(tx *gorm.DB, userID, eventID uint) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.SavedEvent{
		UserID:     userID,
		EventID:    eventID,
		FollowDate: s.now(),
	}).Error
}

// Saved returns the events the user follows.
func (s *CareerFairService) Saved(ctx context.Context, userID uint) ([]models.Event, error) {
	var events []models.Event
	err := s.db.WithContext(ctx).
		Joins("JOIN user_saved_events s ON s.event_id = events.id").
		Where("s.user_id = ?", userID).
		Order("s.follow_date desc").
		Find(&events).Error
	return events, err
}

// CheckIn records attendance and follows the event.
func (s *CareerFairService) CheckIn(ctx context.Context, userID, eventID uint) (*models.EventCheckin, error) {
	var checkin models.EventCheckin
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Event{}, eventID).Error; err != nil {
			return notFound(err, "event")
		}
		checkin = models.EventCheckin{UserID: userID, EventID: eventID, CheckedInAt: s.now()}
		if err := tx.Create(&checkin).Error; err != nil {
			return err
		}
		return s.follow(tx, userID, eventID)
	})
	if err != nil {
		return nil, err
	}
	return &checkin, nil
}

// Booths lists booths, optionally only those of one event.
func (s *CareerFairService) Booths(ctx context.Context, eventID uint) ([]models.Booth, error) {
	q := s.db.WithContext(ctx).Model(&models.Booth{})
	if eventID != 0 {
		q = q.Where("event_id = ?", eventID)
	}

	var booths []models.Booth
	err := q.Order("booth_number asc").Find(&booths).Error
	return booths, err
}

func (s *CareerFairService) Booth(ctx context.Context, id uint) (*models.Booth, error) {
	var booth models.Booth
	if err := s.db.WithContext(ctx).First(&booth, id).Error; err != nil {
		return nil, notFound(err, "booth")
	}
	return &booth, nil
}

func (s *CareerFairService) Networking(ctx context.Context) ([]models.NetworkingContact, error) {
	var contacts []models.NetworkingContact
	err := s.db.WithContext(ctx).Order("name asc").Find(&contacts).Error
	return contacts, err
}

// PublicNotifications returns the broadcast feed, newest first.
func (s *CareerFairService) PublicNotifications(ctx context.Context, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	var items []models.Notification
	err := s.db.WithContext(ctx).
		Where("user_id IS NULL").
		Order("created_at desc").
		Limit(limit).
		Find(&items).Error
	return items, err
}
