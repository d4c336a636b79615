package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"careerlink/domain"
	"careerlink/logs"
	"careerlink/models"
	"careerlink/notification"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MentoringService struct {
	db       *gorm.DB
	notifier notification.Notifier
	now      func() time.Time
	log      *logrus.Entry
}

func NewMentoringService(db *gorm.DB, notifier notification.Notifier) *MentoringService {
	return &MentoringService{db: db, notifier: notifier, now: utcNow, log: logs.With("mentoring")}
}

// SessionView is a session with its mentor's public identity.
type SessionView struct {
	models.MentoringSession
	MentorName     string `json:"mentor_name"`
	MentorRole     string `json:"mentor_role"`
	SeatsAvailable int    `json:"seats_available"`
}

func newSessionView(s models.MentoringSession) SessionView {
	v := SessionView{MentoringSession: s, SeatsAvailable: max(s.Capacity-s.BookedCount, 0)}
	if s.Mentor != nil {
		v.MentorName = s.Mentor.Name
		v.MentorRole = s.Mentor.Role
	}
	v.Mentor = nil
	return v
}

// ListSessions returns active sessions, upcoming first.
func (s *MentoringService) ListSessions(ctx context.Context) ([]SessionView, error) {
	var sessions []models.MentoringSession
	if err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Preload("Mentor").
		Order("start_at asc").
		Find(&sessions).Error; err != nil {
		return nil, err
	}

	views := make([]SessionView, 0, len(sessions))
	for _, m := range sessions {
		views = append(views, newSessionView(m))
	}
	return views, nil
}

func (s *MentoringService) GetSession(ctx context.Context, id uint) (*SessionView, error) {
	var session models.MentoringSession
	if err := s.db.WithContext(ctx).Preload("Mentor").First(&session, id).Error; err != nil {
		return nil, notFound(err, "mentoring session")
	}
	v := newSessionView(session)
	return &v, nil
}

type BookInput struct {
	SessionID    uint
	FullName     string
	BirthDate    string
	Gender       string
	Education    string
	StudyProgram string
	Phone        string
	Expectation  string
}

// Book reserves a seat. The session row is locked while capacity is checked.
func (s *MentoringService) Book(ctx context.Context, userID uint, in BookInput) (*models.MentoringBooking, error) {
	var (
		session models.MentoringSession
		booking models.MentoringBooking
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).Where("id = ? AND is_active = ?", in.SessionID, true).First(&session).Error; err != nil {
			return notFound(err, "mentoring session")
		}

		var existing int64
		if err := tx.Model(&models.MentoringBooking{}).
			Where("session_id = ? AND user_id = ? AND status <> ?", session.ID, userID, models.BookingCancelled).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return domain.Reason(domain.ErrConflict, "already booked this session")
		}
		if session.BookedCount >= session.Capacity {
			return domain.ErrSessionFull
		}

		booking = models.MentoringBooking{
			SessionID:    session.ID,
			UserID:       userID,
			FullName:     in.FullName,
			BirthDate:    in.BirthDate,
			Gender:       in.Gender,
			Education:    in.Education,
			StudyProgram: in.StudyProgram,
			Phone:        in.Phone,
			Expectation:  in.Expectation,
			Status:       models.BookingBooked,
		}
		if err := tx.Create(&booking).Error; err != nil {
			if isDuplicate(err) {
				return domain.Reason(domain.ErrConflict, "already booked this session")
			}
			return err
		}
		return tx.Model(&session).Update("booked_count", gorm.Expr("booked_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "session_id": session.ID, "booking_id": booking.ID}).Info("mentoring booked")
	s.notifier.Notify(notification.Message{
		UserID:      userID,
		Title:       "Mentoring booked",
		Body:        fmt.Sprintf("You are booked for %s.", session.Title),
		Kind:        notification.KindMentoring,
		Data:        map[string]string{"bookingId": idString(booking.ID), "sessionId": idString(session.ID)},
		TargetRoute: "/mentoring/bookings/" + idString(booking.ID),
	})

	if fireAt := session.StartAt.Add(-ReminderLead); fireAt.After(s.now()) {
		bookingID := booking.ID
		reminder := models.ScheduledReminder{
			UserID:    userID,
			Kind:      notification.KindMentoringReminder,
			Title:     "Mentoring starts soon",
			Message:   fmt.Sprintf("%s starts in one hour.", session.Title),
			Data:      datatypes.JSONMap{"bookingId": idString(booking.ID), "sessionId": idString(session.ID)},
			BookingID: &bookingID,
			FireAt:    fireAt,
		}
		if err := s.db.WithContext(ctx).Create(&reminder).Error; err != nil {
			s.log.WithError(err).WithField("booking_id", booking.ID).Warn("reminder not scheduled")
		}
	}
	return &booking, nil
}

// CancelBooking releases the caller's seat and drops its pending reminder.
func (s *MentoringService) CancelBooking(ctx context.Context, userID, bookingID uint) (*models.MentoringBooking, error) {
	var booking models.MentoringBooking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := forUpdate(tx).
			Where("id = ? AND user_id = ? AND status = ?", bookingID, userID, models.BookingBooked).
			First(&booking).Error
		if err != nil {
			return notFound(err, "booking")
		}

		var session models.MentoringSession
		if err := forUpdate(tx).First(&session, booking.SessionID).Error; err != nil {
			return err
		}
		if err := tx.Model(&booking).Update("status", models.BookingCancelled).Error; err != nil {
			return err
		}
		booking.Status = models.BookingCancelled
		if err := tx.Model(&models.MentoringSession{}).
			Where("id = ? AND booked_count > 0", session.ID).
			Update("booked_count", gorm.Expr("booked_count - 1")).Error; err != nil {
			return err
		}
		return cancelReminders(tx, "booking_id = ?", booking.ID, s.now())
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// Notifications lists the user's mentoring inbox entries, newest first.
func (s *MentoringService) Notifications(ctx context.Context, userID uint) ([]models.Notification, error) {
	var items []models.Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND kind IN ?", userID, []string{notification.KindMentoring, notification.KindMentoringReminder}).
		Order("created_at desc").
		Find(&items).Error
	return items, err
}

type NoteInput struct {
	BookingID   uint
	Content     string
	Attachments []string
}

// SaveNote creates or replaces the note of one of the caller's bookings.
func (s *MentoringService) SaveNote(ctx context.Context, userID uint, in NoteInput) (*models.MentoringNote, error) {
	var note models.MentoringNote
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking models.MentoringBooking
		if err := tx.Where("id = ? AND user_id = ?", in.BookingID, userID).First(&booking).Error; err != nil {
			return notFound(err, "booking")
		}

		attachments := datatypes.JSONSlice[string](in.Attachments)
		if attachments == nil {
			attachments = datatypes.JSONSlice[string]{}
		}

		err := tx.Where("booking_id = ?", booking.ID).First(&note).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			note = models.MentoringNote{
				BookingID:   booking.ID,
				SessionID:   booking.SessionID,
				UserID:      userID,
				Content:     in.Content,
				Attachments: attachments,
			}
			return tx.Create(&note).Error
		}
		if err != nil {
			return err
		}

		note.Content = in.Content
		note.Attachments = attachments
		return tx.Save(&note).Error
	})
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// GetNote returns the note of one of the caller's bookings, or nil when none is written yet.
func (s *MentoringService) GetNote(ctx context.Context, userID, bookingID uint) (*models.MentoringNote, error) {
	var booking models.MentoringBooking
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", bookingID, userID).First(&booking).Error; err != nil {
		return nil, notFound(err, "booking")
	}

	var note models.MentoringNote
	err := s.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

type SessionInput struct {
	Title           string
	MentorJob       string
	Description     string
	Platform        string
	DurationMinutes int
	TimeZone        string
	StartAt         time.Time
	LocationName    string
	LocationAddress string
	LocationLat     *float64
	LocationLng     *float64
	Capacity        int
}

// CreateSession opens a bookable session hosted by mentorID.
func (s *MentoringService) CreateSession(ctx context.Context, mentorID uint, in SessionInput) (*models.MentoringSession, error) {
	if in.DurationMinutes <= 0 {
		in.DurationMinutes = 60
	}
	if in.Capacity <= 0 {
		in.Capacity = 1
	}
	if in.TimeZone == "" {
		in.TimeZone = "WIB"
	}

	session := models.MentoringSession{
		Title:           in.Title,
		MentorID:        mentorID,
		MentorJob:       in.MentorJob,
		Description:     in.Description,
		Platform:        in.Platform,
		DurationMinutes: in.DurationMinutes,
		TimeZone:        in.TimeZone,
		StartAt:         in.StartAt.UTC(),
		EndAt:           in.StartAt.UTC().Add(time.Duration(in.DurationMinutes) * time.Minute),
		LocationName:    in.LocationName,
		LocationAddress: in.LocationAddress,
		LocationLat:     in.LocationLat,
		LocationLng:     in.LocationLng,
		Capacity:        in.Capacity,
		IsActive:        true,
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}
