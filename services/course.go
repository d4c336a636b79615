package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"careerlink/domain"
	"careerlink/logs"
	"careerlink/models"
	"careerlink/notification"

	"github.com/jinzhu/now"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CourseService struct {
	db       *gorm.DB
	notifier notification.Notifier
	now      func() time.Time
	log      *logrus.Entry
}

func NewCourseService(db *gorm.DB, notifier notification.Notifier) *CourseService {
	return &CourseService{db: db, notifier: notifier, now: utcNow, log: logs.With("course")}
}

type CourseFilter struct {
	LocationType string
	ProviderName string
	Search       string
}

func (s *CourseService) List(ctx context.Context, f CourseFilter) ([]models.Course, error) {
	q := s.db.WithContext(ctx).Model(&models.Course{})
	if f.LocationType != "" {
		q = q.Where("location_type = ?", f.LocationType)
	}
	if f.ProviderName != "" {
		q = q.Where("provider_name = ?", f.ProviderName)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var courses []models.Course
	err := q.Order("date_start asc").Find(&courses).Error
	return courses, err
}

// Recommended returns up to limit courses starting today or later, soonest first.
func (s *CourseService) Recommended(ctx context.Context, limit int) ([]models.Course, error) {
	if limit <= 0 {
		limit = 5
	}
	today := now.With(s.now()).BeginningOfDay()

	var courses []models.Course
	err := s.db.WithContext(ctx).
		Where("date_start >= ?", today).
		Order("date_start asc").
		Limit(limit).
		Find(&courses).Error
	return courses, err
}

type CourseWithCount struct {
	models.Course
	EnrollmentCount int64 `json:"enrollment_count"`
}

// AdminList returns every course with its count of non-cancelled enrollments.
func (s *CourseService) AdminList(ctx context.Context) ([]CourseWithCount, error) {
	var rows []CourseWithCount
	err := s.db.WithContext(ctx).Model(&models.Course{}).
		Select("courses.*, (SELECT COUNT(*) FROM enrollments e WHERE e.course_id = courses.id AND e.status <> ?) AS enrollment_count", models.EnrollmentCancelled).
		Order("courses.created_at desc").
		Scan(&rows).Error
	return rows, err
}

func (s *CourseService) Get(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := s.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, notFound(err, "course")
	}
	return &course, nil
}

type CourseInput struct {
	Title          string
	Description    string
	ProviderName   string
	LocationType   string
	LocationDetail string
	DateStart      *time.Time
	DateEnd        *time.Time
	Quota          int
	Price          float64
	ImageURL       string
}

// Create stores a course together with its badge template and announces it to everyone.
func (s *CourseService) Create(ctx context.Context, in CourseInput) (*models.Course, error) {
	course := models.Course{
		Title:          in.Title,
		Description:    in.Description,
		ProviderName:   in.ProviderName,
		LocationType:   in.LocationType,
		LocationDetail: in.LocationDetail,
		DateStart:      in.DateStart,
		DateEnd:        in.DateEnd,
		Quota:          in.Quota,
		Price:          in.Price,
		ImageURL:       in.ImageURL,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&course).Error; err != nil {
			return err
		}
		_, err := ProvisionTemplate(tx, &course)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("course_id", course.ID).Info("course created")
	s.notifier.NotifyAll(notification.Broadcast{
		Title: "New course available",
		Body:  fmt.Sprintf("%s by %s is open for enrollment.", course.Title, course.ProviderName),
		Kind:  notification.KindNewCourseAvailable,
		Data:  map[string]string{"courseId": idString(course.ID)},
	})
	return &course, nil
}

// CourseUpdate carries the fields an update may change; nil fields are left alone.
type CourseUpdate struct {
	Title          *string
	Description    *string
	ProviderName   *string
	LocationType   *string
	LocationDetail *string
	DateStart      *time.Time
	DateEnd        *time.Time
	Quota          *int
	Price          *float64
	ImageURL       *string
}

func (u CourseUpdate) columns() map[string]interface{} {
	cols := make(map[string]interface{})
	set := func(name string, present bool, v interface{}) {
		if present {
			cols[name] = v
		}
	}
	set("title", u.Title != nil, deref(u.Title))
	set("description", u.Description != nil, deref(u.Description))
	set("provider_name", u.ProviderName != nil, deref(u.ProviderName))
	set("location_type", u.LocationType != nil, deref(u.LocationType))
	set("location_detail", u.LocationDetail != nil, deref(u.LocationDetail))
	set("date_start", u.DateStart != nil, u.DateStart)
	set("date_end", u.DateEnd != nil, u.DateEnd)
	set("quota", u.Quota != nil, deref(u.Quota))
	set("price", u.Price != nil, deref(u.Price))
	set("image_url", u.ImageURL != nil, deref(u.ImageURL))
	return cols
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// Update applies the given fields. A changed start date moves pending reminders with it.
func (s *CourseService) Update(ctx context.Context, id uint, u CourseUpdate) (*models.Course, error) {
	cols := u.columns()
	if len(cols) == 0 {
		return nil, domain.Invalid("no valid fields to update")
	}

	var course models.Course
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&course, id).Error; err != nil {
			return notFound(err, "course")
		}
		if err := tx.Model(&course).Updates(cols).Error; err != nil {
			return err
		}

		tmplCols := map[string]interface{}{}
		if u.Title != nil {
			tmplCols["title"] = *u.Title + " Completion Badge"
		}
		if u.ProviderName != nil {
			tmplCols["issuer"] = *u.ProviderName
		}
		if len(tmplCols) > 0 {
			if err := tx.Model(&models.Badge{}).
				Where("course_id = ? AND user_id IS NULL", id).
				Updates(tmplCols).Error; err != nil {
				return err
			}
		}

		if err := tx.First(&course, id).Error; err != nil {
			return err
		}
		if u.DateStart != nil {
			return s.rescheduleReminders(tx, &course)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// rescheduleReminders moves the course's unsent reminders to the new start. When the new
// fire time is already past they are cancelled; otherwise cancelled ones of active
// enrollments come back and active enrollments without a reminder get one.
func (s *CourseService) rescheduleReminders(tx *gorm.DB, course *models.Course) error {
	now := s.now()
	fireAt := course.DateStart.Add(-ReminderLead)
	if !fireAt.After(now) {
		return cancelReminders(tx, "course_id = ?", course.ID, now)
	}

	active := tx.Model(&models.Enrollment{}).Select("id").
		Where("course_id = ? AND status = ?", course.ID, models.EnrollmentActive)

	if err := tx.Model(&models.ScheduledReminder{}).
		Where("course_id = ? AND sent_at IS NULL AND cancelled_at IS NOT NULL", course.ID).
		Where("enrollment_id IN (?)", active).
		Updates(map[string]interface{}{"fire_at": fireAt, "cancelled_at": nil}).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.ScheduledReminder{}).
		Where("course_id = ? AND sent_at IS NULL AND cancelled_at IS NULL", course.ID).
		Update("fire_at", fireAt).Error; err != nil {
		return err
	}

	pending := tx.Model(&models.ScheduledReminder{}).Select("enrollment_id").
		Where("course_id = ? AND enrollment_id IS NOT NULL AND sent_at IS NULL AND cancelled_at IS NULL", course.ID)
	var missing []models.Enrollment
	if err := tx.Where("course_id = ? AND status = ?", course.ID, models.EnrollmentActive).
		Where("id NOT IN (?)", pending).
		Find(&missing).Error; err != nil {
		return err
	}
	if len(missing) == 0 {
		return nil
	}

	reminders := make([]models.ScheduledReminder, 0, len(missing))
	for _, e := range missing {
		reminders = append(reminders, courseReminder(course, e.ID, e.UserID, fireAt))
	}
	return tx.Create(&reminders).Error
}

// Delete removes a course with its enrollments and reminders. Claimed badges are kept
// with their course reference cleared. Enrolled users are told afterwards.
func (s *CourseService) Delete(ctx context.Context, id uint) error {
	var (
		course   models.Course
		enrolled []uint
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&course, id).Error; err != nil {
			return notFound(err, "course")
		}
		if err := tx.Model(&models.Enrollment{}).
			Where("course_id = ? AND status <> ?", id, models.EnrollmentCancelled).
			Distinct().
			Pluck("user_id", &enrolled).Error; err != nil {
			return err
		}

		if err := tx.Where("course_id = ?", id).Delete(&models.ScheduledReminder{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Badge{}).
			Where("course_id = ? AND user_id IS NOT NULL", id).
			Update("course_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ? AND user_id IS NULL", id).Delete(&models.Badge{}).Error; err != nil {
			return err
		}
		return tx.Delete(&course).Error
	})
	if err != nil {
		return err
	}

	s.log.WithField("course_id", id).WithField("notified", len(enrolled)).Info("course deleted")
	if len(enrolled) > 0 {
		s.notifier.NotifyAll(notification.Broadcast{
			Title:   "Course cancelled",
			Body:    fmt.Sprintf("%s has been removed by the organizer.", course.Title),
			Kind:    notification.KindCourseDeleted,
			Data:    map[string]string{"courseId": idString(id)},
			UserIDs: enrolled,
		})
	}
	return nil
}
