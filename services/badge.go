package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"careerlink/domain"
	"careerlink/logs"
	"careerlink/metrics"
	"careerlink/models"
	"careerlink/notification"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type BadgeService struct {
	db                *gorm.DB
	notifier          notification.Notifier
	requireCompletion bool
	now               func() time.Time
	log               *logrus.Entry
}

// NewBadgeService builds the badge workflow. requireCompletion gates course badges on a
// Completed enrollment.
func NewBadgeService(db *gorm.DB, notifier notification.Notifier, requireCompletion bool) *BadgeService {
	return &BadgeService{
		db:                db,
		notifier:          notifier,
		requireCompletion: requireCompletion,
		now:               utcNow,
		log:               logs.With("badge"),
	}
}

// ClaimInput identifies the badge to claim by course or by scanned QR token.
type ClaimInput struct {
	CourseID *uint
	QRToken  string
}

// Claim awards a badge to userID. Course templates stay unowned and each claim inserts an
// owned copy; one-off token badges are claimed in place.
func (s *BadgeService) Claim(ctx context.Context, userID uint, in ClaimInput) (*models.Badge, error) {
	var awarded models.Badge

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tmpl, err := s.resolveTemplate(tx, in)
		if err != nil {
			return err
		}

		if tmpl.Claimed() {
			return domain.ErrAlreadyClaimed
		}

		if tmpl.CourseID != nil {
			var owned int64
			if err := tx.Model(&models.Badge{}).
				Where("user_id = ? AND course_id = ?", userID, *tmpl.CourseID).
				Count(&owned).Error; err != nil {
				return err
			}
			if owned > 0 {
				return domain.ErrAlreadyClaimed
			}

			if s.requireCompletion {
				var completed int64
				if err := tx.Model(&models.Enrollment{}).
					Where("user_id = ? AND course_id = ? AND status = ?", userID, *tmpl.CourseID, models.EnrollmentCompleted).
					Count(&completed).Error; err != nil {
					return err
				}
				if completed == 0 {
					return domain.ErrCourseNotCompleted
				}
			}
		}

		now := s.now()
		if tmpl.CourseID != nil {
			awarded = models.Badge{
				UserID:     &userID,
				CourseID:   tmpl.CourseID,
				TemplateID: &tmpl.ID,
				Title:      tmpl.Title,
				Issuer:     tmpl.Issuer,
				ImageURL:   tmpl.ImageURL,
				ObtainedAt: &now,
			}
			if err := tx.Create(&awarded).Error; err != nil {
				if isDuplicate(err) {
					return domain.ErrAlreadyClaimed
				}
				return err
			}
			return nil
		}

		res := tx.Model(&models.Badge{}).
			Where("id = ? AND user_id IS NULL", tmpl.ID).
			Updates(map[string]interface{}{"user_id": userID, "obtained_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrAlreadyClaimed
		}
		return tx.First(&awarded, tmpl.ID).Error
	})
	if err != nil {
		s.observe(err)
		return nil, err
	}
	metrics.BadgeClaims.WithLabelValues(metrics.OutcomeOK).Inc()

	s.log.WithFields(logrus.Fields{"user_id": userID, "badge_id": awarded.ID}).Info("badge claimed")
	data := map[string]string{"badgeId": idString(awarded.ID)}
	if awarded.CourseID != nil {
		data["courseId"] = idString(*awarded.CourseID)
	}
	s.notifier.Notify(notification.Message{
		UserID:      userID,
		Title:       "New badge earned",
		Body:        fmt.Sprintf("You earned the %s badge.", awarded.Title),
		Kind:        notification.KindBadgeEarned,
		Data:        data,
		TargetRoute: "/badges",
	})
	return &awarded, nil
}

// resolveTemplate finds the unowned template for a course, or the badge behind a token.
func (s *BadgeService) resolveTemplate(tx *gorm.DB, in ClaimInput) (*models.Badge, error) {
	var tmpl models.Badge

	switch {
	case in.CourseID != nil:
		var course models.Course
		if err := tx.Select("id").First(&course, *in.CourseID).Error; err != nil {
			return nil, notFound(err, "course")
		}
		err := forUpdate(tx).
			Where("course_id = ? AND user_id IS NULL", course.ID).
			Order("id asc").
			First(&tmpl).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBadgeNotConfigured
		}
		if err != nil {
			return nil, err
		}
	case in.QRToken != "":
		if err := forUpdate(tx).Where("qr_token = ?", in.QRToken).First(&tmpl).Error; err != nil {
			return nil, notFound(err, "badge")
		}
	default:
		return nil, domain.Invalid("course_id or qr_token is required")
	}
	return &tmpl, nil
}

func (s *BadgeService) observe(err error) {
	switch {
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrCourseNotCompleted), errors.Is(err, domain.ErrBadgeNotConfigured),
		errors.Is(err, domain.ErrValidation):
		metrics.BadgeClaims.WithLabelValues(metrics.OutcomeRejected).Inc()
	default:
		metrics.BadgeClaims.WithLabelValues(metrics.OutcomeError).Inc()
	}
}

// ProvisionTemplate creates the claimable badge template of a new course. It runs on the
// caller's transaction; the QR token is the course id.
func ProvisionTemplate(tx *gorm.DB, course *models.Course) (*models.Badge, error) {
	token := idString(course.ID)
	courseID := course.ID
	tmpl := models.Badge{
		CourseID: &courseID,
		Title:    course.Title + " Completion Badge",
		Issuer:   course.ProviderName,
		ImageURL: course.ImageURL,
		QRToken:  &token,
	}
	if err := tx.Create(&tmpl).Error; err != nil {
		return nil, fmt.Errorf("provision badge template: %w", err)
	}
	return &tmpl, nil
}

type TokenBadgeInput struct {
	Title    string
	Issuer   string
	ImageURL string
}

// CreateTokenBadge creates a one-off badge claimable once through a random QR token.
func (s *BadgeService) CreateTokenBadge(ctx context.Context, in TokenBadgeInput) (*models.Badge, error) {
	token := uuid.NewString()
	badge := models.Badge{
		Title:    in.Title,
		Issuer:   in.Issuer,
		ImageURL: in.ImageURL,
		QRToken:  &token,
	}
	if err := s.db.WithContext(ctx).Create(&badge).Error; err != nil {
		return nil, err
	}
	return &badge, nil
}

// Upload stores a certificate the user obtained elsewhere.
func (s *BadgeService) Upload(ctx context.Context, userID uint, title, imageURL string) (*models.Badge, error) {
	if title == "" {
		title = "Collected Certificate"
	}
	now := s.now()
	badge := models.Badge{
		UserID:     &userID,
		Title:      title,
		Issuer:     "User Upload",
		ImageURL:   imageURL,
		IsExternal: true,
		ObtainedAt: &now,
	}
	if err := s.db.WithContext(ctx).Create(&badge).Error; err != nil {
		return nil, err
	}
	return &badge, nil
}

// ListForUser returns the badges the user owns, most recent first.
func (s *BadgeService) ListForUser(ctx context.Context, userID uint) ([]models.Badge, error) {
	var badges []models.Badge
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("obtained_at desc").
		Find(&badges).Error
	return badges, err
}

type BadgeStats struct {
	TotalBadges      int64 `json:"total_badges"`
	CoursesCompleted int64 `json:"courses_completed"`
}

func (s *BadgeService) Stats(ctx context.Context, userID uint) (*BadgeStats, error) {
	stats := &BadgeStats{}
	if err := s.db.WithContext(ctx).Model(&models.Badge{}).
		Where("user_id = ?", userID).
		Count(&stats.TotalBadges).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("user_id = ? AND status = ?", userID, models.EnrollmentCompleted).
		Count(&stats.CoursesCompleted).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
