package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"careerlink/domain"
	"careerlink/email"
	"careerlink/logs"
	"careerlink/metrics"
	"careerlink/models"
	"careerlink/notification"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReminderLead is how long before a course starts its reminder fires.
const ReminderLead = time.Hour

type EnrollmentService struct {
	db       *gorm.DB
	notifier notification.Notifier
	mailer   email.Mailer
	now      func() time.Time
	log      *logrus.Entry
}

func NewEnrollmentService(db *gorm.DB, notifier notification.Notifier, mailer email.Mailer) *EnrollmentService {
	return &EnrollmentService{
		db:       db,
		notifier: notifier,
		mailer:   mailer,
		now:      utcNow,
		log:      logs.With("enrollment"),
	}
}

// Enroll registers userID for courseID. The course row is locked while the duplicate and
// quota checks run, so concurrent callers cannot overshoot the quota.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID uint) (*models.Enrollment, error) {
	var (
		course     models.Course
		enrollment models.Enrollment
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&course, courseID).Error; err != nil {
			return notFound(err, "course")
		}

		var existing int64
		if err := tx.Model(&models.Enrollment{}).
			Where("user_id = ? AND course_id = ? AND status <> ?", userID, courseID, models.EnrollmentCancelled).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return domain.ErrDuplicateEnrollment
		}

		var taken int64
		if err := tx.Model(&models.Enrollment{}).
			Where("course_id = ? AND status <> ?", courseID, models.EnrollmentCancelled).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken >= int64(course.Quota) {
			return domain.ErrQuotaExceeded
		}

		enrollment = models.Enrollment{
			UserID:       userID,
			CourseID:     courseID,
			Status:       models.EnrollmentActive,
			RegisteredAt: s.now(),
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			if isDuplicate(err) {
				return domain.ErrDuplicateEnrollment
			}
			return err
		}
		return nil
	})
	if err != nil {
		s.observe(err)
		return nil, err
	}
	metrics.Enrollments.WithLabelValues(metrics.OutcomeOK).Inc()

	s.log.WithFields(logrus.Fields{"user_id": userID, "course_id": courseID, "enrollment_id": enrollment.ID}).Info("user enrolled")
	s.afterEnroll(ctx, &course, &enrollment)
	return &enrollment, nil
}

func (s *EnrollmentService) observe(err error) {
	switch {
	case errors.Is(err, domain.ErrDuplicateEnrollment), errors.Is(err, domain.ErrQuotaExceeded), errors.Is(err, domain.ErrNotFound):
		metrics.Enrollments.WithLabelValues(metrics.OutcomeRejected).Inc()
	default:
		metrics.Enrollments.WithLabelValues(metrics.OutcomeError).Inc()
	}
}

// afterEnroll runs the best-effort side effects of a committed enrollment.
func (s *EnrollmentService) afterEnroll(ctx context.Context, course *models.Course, enrollment *models.Enrollment) {
	s.notifier.Notify(notification.Message{
		UserID: enrollment.UserID,
		Title:  "Enrollment successful",
		Body:   fmt.Sprintf("You are enrolled in %s.", course.Title),
		Kind:   notification.KindCourseEnrolled,
		Data: map[string]string{
			"courseId": idString(course.ID),
			"action":   "view_course",
		},
		TargetRoute: "/courses/" + idString(course.ID),
	})

	if err := s.scheduleReminder(ctx, course, enrollment); err != nil {
		s.log.WithError(err).WithField("enrollment_id", enrollment.ID).Warn("reminder not scheduled")
	}

	var user models.User
	if err := s.db.WithContext(ctx).Select("id", "name", "email").First(&user, enrollment.UserID).Error; err == nil {
		email.SendEnrollmentEmail(s.mailer, user.Email, user.Name, course.Title, course.DateStart)
	}
}

// scheduleReminder persists a reminder for an hour before the course starts. Courses
// without a start date or starting within the hour get none.
func (s *EnrollmentService) scheduleReminder(ctx context.Context, course *models.Course, enrollment *models.Enrollment) error {
	if course.DateStart == nil {
		return nil
	}
	fireAt := course.DateStart.Add(-ReminderLead)
	if !fireAt.After(s.now()) {
		return nil
	}

	reminder := courseReminder(course, enrollment.ID, enrollment.UserID, fireAt)
	return s.db.WithContext(ctx).Create(&reminder).Error
}

func courseReminder(course *models.Course, enrollmentID, userID uint, fireAt time.Time) models.ScheduledReminder {
	courseID := course.ID
	return models.ScheduledReminder{
		UserID:  userID,
		Kind:    notification.KindCourseReminder,
		Title:   "Your course starts soon",
		Message: fmt.Sprintf("%s starts in one hour.", course.Title),
		Data: datatypes.JSONMap{
			"courseId": idString(course.ID),
			"action":   "view_course",
		},
		CourseID:     &courseID,
		EnrollmentID: &enrollmentID,
		FireAt:       fireAt,
	}
}

// Unenroll cancels the user's active enrollment and its pending reminders.
func (s *EnrollmentService) Unenroll(ctx context.Context, userID, courseID uint) (*models.Enrollment, error) {
	var (
		course     models.Course
		enrollment models.Enrollment
	)
	now := s.now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := forUpdate(tx).
			Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, models.EnrollmentActive).
			First(&enrollment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			var completed int64
			if err := tx.Model(&models.Enrollment{}).
				Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, models.EnrollmentCompleted).
				Count(&completed).Error; err != nil {
				return err
			}
			if completed > 0 {
				return domain.ErrEnrollmentCompleted
			}
			return domain.NotFound("enrollment")
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&enrollment).Update("status", models.EnrollmentCancelled).Error; err != nil {
			return err
		}
		enrollment.Status = models.EnrollmentCancelled
		if err := cancelReminders(tx, "enrollment_id = ?", enrollment.ID, now); err != nil {
			return err
		}
		return tx.Select("id", "title").First(&course, courseID).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "course_id": courseID}).Info("enrollment cancelled")
	s.notifier.Notify(notification.Message{
		UserID: userID,
		Title:  "Enrollment cancelled",
		Body:   fmt.Sprintf("Your enrollment in %s was cancelled.", course.Title),
		Kind:   notification.KindCourseCancelled,
		Data:   map[string]string{"courseId": idString(courseID)},
	})
	return &enrollment, nil
}

// Complete marks an active enrollment as completed so its badge can be claimed.
func (s *EnrollmentService) Complete(ctx context.Context, courseID, userID uint) (*models.Enrollment, error) {
	var (
		course     models.Course
		enrollment models.Enrollment
	)
	now := s.now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id", "title").First(&course, courseID).Error; err != nil {
			return notFound(err, "course")
		}
		err := forUpdate(tx).
			Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, models.EnrollmentActive).
			First(&enrollment).Error
		if err != nil {
			return notFound(err, "active enrollment")
		}
		enrollment.Status = models.EnrollmentCompleted
		enrollment.CompletionDate = &now
		return tx.Model(&enrollment).Updates(map[string]interface{}{
			"status":          models.EnrollmentCompleted,
			"completion_date": now,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(notification.Message{
		UserID: userID,
		Title:  "Course completed",
		Body:   fmt.Sprintf("You completed %s. Scan the course QR code to claim your badge.", course.Title),
		Kind:   notification.KindCourseCompleted,
		Data: map[string]string{
			"courseId": idString(courseID),
			"action":   "scan_badge",
		},
	})
	return &enrollment, nil
}

// ListForUser returns the user's non-cancelled enrollments with their courses, newest first.
func (s *EnrollmentService) ListForUser(ctx context.Context, userID uint) ([]models.Enrollment, error) {
	var items []models.Enrollment
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status <> ?", userID, models.EnrollmentCancelled).
		Preload("Course").
		Order("registered_at desc").
		Find(&items).Error
	return items, err
}

type EnrollmentStats struct {
	Total     int64 `json:"total_courses"`
	Active    int64 `json:"active_courses"`
	Completed int64 `json:"completed_courses"`
	Cancelled int64 `json:"cancelled_courses"`
}

func (s *EnrollmentService) Stats(ctx context.Context, userID uint) (*EnrollmentStats, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := s.db.WithContext(ctx).Model(&models.Enrollment{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &EnrollmentStats{}
	for _, r := range rows {
		stats.Total += r.Count
		switch r.Status {
		case models.EnrollmentActive:
			stats.Active = r.Count
		case models.EnrollmentCompleted:
			stats.Completed = r.Count
		case models.EnrollmentCancelled:
			stats.Cancelled = r.Count
		}
	}
	return stats, nil
}

type RecapItem struct {
	EnrollmentID   uint       `json:"enrollment_id"`
	CourseID       uint       `json:"course_id"`
	CourseTitle    string     `json:"course_title"`
	ProviderName   string     `json:"provider_name"`
	Status         string     `json:"status"`
	RegisteredAt   time.Time  `json:"registered_at"`
	CompletionDate *time.Time `json:"completion_date"`
	Badges         []string   `json:"badges"`
}

// Recap summarizes every enrollment of the user together with the badges earned for it.
func (s *EnrollmentService) Recap(ctx context.Context, userID uint) ([]RecapItem, error) {
	var enrollments []models.Enrollment
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Course").
		Order("registered_at desc").
		Find(&enrollments).Error; err != nil {
		return nil, err
	}

	var badges []models.Badge
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND course_id IS NOT NULL", userID).
		Find(&badges).Error; err != nil {
		return nil, err
	}
	byCourse := make(map[uint][]string)
	for _, b := range badges {
		byCourse[*b.CourseID] = append(byCourse[*b.CourseID], b.Title)
	}

	items := make([]RecapItem, 0, len(enrollments))
	for _, e := range enrollments {
		item := RecapItem{
			EnrollmentID:   e.ID,
			CourseID:       e.CourseID,
			Status:         e.Status,
			RegisteredAt:   e.RegisteredAt,
			CompletionDate: e.CompletionDate,
			Badges:         byCourse[e.CourseID],
		}
		if e.Course != nil {
			item.CourseTitle = e.Course.Title
			item.ProviderName = e.Course.ProviderName
		}
		if item.Badges == nil {
			item.Badges = []string{}
		}
		items = append(items, item)
	}
	return items, nil
}

// cancelReminders stamps cancelled_at on pending reminders matching the condition.
func cancelReminders(tx *gorm.DB, query string, arg interface{}, now time.Time) error {
	return tx.Model(&models.ScheduledReminder{}).
		Where(query, arg).
		Where("sent_at IS NULL AND cancelled_at IS NULL").
		Update("cancelled_at", now).Error
}
