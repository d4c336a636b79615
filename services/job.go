package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"careerlink/domain"
	"careerlink/logs"
	"careerlink/models"
	"careerlink/notification"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// FileStore persists uploaded files and returns their public URLs.
type FileStore interface {
	SaveUploadedFile(file *multipart.FileHeader, field string, allowed []string) (string, error)
	Remove(url string)
}

type JobService struct {
	db       *gorm.DB
	notifier notification.Notifier
	files    FileStore
	docTypes []string
	log      *logrus.Entry
}

func NewJobService(db *gorm.DB, notifier notification.Notifier, files FileStore, docTypes []string) *JobService {
	return &JobService{db: db, notifier: notifier, files: files, docTypes: docTypes, log: logs.With("job")}
}

// List returns active jobs, optionally matching search against title or company.
func (s *JobService) List(ctx context.Context, search string) ([]models.Job, error) {
	q := s.db.WithContext(ctx).Where("is_active = ?", true)
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(company_name) LIKE ?", like, like)
	}

	var jobs []models.Job
	err := q.Order("created_at desc").Find(&jobs).Error
	return jobs, err
}

func (s *JobService) Get(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	if err := s.db.WithContext(ctx).First(&job, id).Error; err != nil {
		return nil, notFound(err, "job")
	}
	return &job, nil
}

type JobInput struct {
	Title        string
	CompanyName  string
	LogoURL      string
	Location     string
	JobType      string
	Duration     string
	SalaryRange  string
	Description  string
	Requirements string
}

// Create stores an active job posting and announces it. The announcement never fails the call.
func (s *JobService) Create(ctx context.Context, in JobInput) (*models.Job, error) {
	job := models.Job{
		Title:        in.Title,
		CompanyName:  in.CompanyName,
		LogoURL:      in.LogoURL,
		Location:     in.Location,
		JobType:      in.JobType,
		Duration:     in.Duration,
		SalaryRange:  in.SalaryRange,
		Description:  in.Description,
		Requirements: in.Requirements,
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(&job).Error; err != nil {
		return nil, err
	}

	s.log.WithField("job_id", job.ID).Info("job created")
	s.notifier.NotifyAll(notification.Broadcast{
		Title: "New job opening",
		Body:  fmt.Sprintf("%s is hiring: %s", job.CompanyName, job.Title),
		Kind:  notification.KindJobDetail,
		Data:  map[string]string{"jobId": idString(job.ID)},
	})
	return &job, nil
}

// ApplicationFiles are the documents of an application. Portfolio is optional.
type ApplicationFiles struct {
	CV                   *multipart.FileHeader
	RecommendationLetter *multipart.FileHeader
	Portfolio            *multipart.FileHeader
}

// Apply stores the documents and records the application. Files saved for a rejected
// application are removed again.
func (s *JobService) Apply(ctx context.Context, userID, jobID uint, files ApplicationFiles) (*models.Application, error) {
	if files.CV == nil {
		return nil, domain.Invalid("cv file is required")
	}
	if files.RecommendationLetter == nil {
		return nil, domain.Invalid("recommendation_letter file is required")
	}

	var job models.Job
	if err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", jobID, true).First(&job).Error; err != nil {
		return nil, notFound(err, "job")
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.Application{}).
		Where("user_id = ? AND job_id = ?", userID, jobID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, domain.ErrDuplicateApplication
	}

	var saved []string
	cleanup := func() {
		for _, url := range saved {
			s.files.Remove(url)
		}
	}
	save := func(fh *multipart.FileHeader, field string) (string, error) {
		if fh == nil {
			return "", nil
		}
		url, err := s.files.SaveUploadedFile(fh, field, s.docTypes)
		if err != nil {
			return "", err
		}
		saved = append(saved, url)
		return url, nil
	}

	app := models.Application{UserID: userID, JobID: jobID, Status: models.ApplicationSubmitted}
	var err error
	if app.CVURL, err = save(files.CV, "cv"); err != nil {
		cleanup()
		return nil, err
	}
	if app.RecommendationLetterURL, err = save(files.RecommendationLetter, "recommendation_letter"); err != nil {
		cleanup()
		return nil, err
	}
	if app.PortfolioURL, err = save(files.Portfolio, "portfolio"); err != nil {
		cleanup()
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&app).Error; err != nil {
		cleanup()
		if isDuplicate(err) {
			return nil, domain.ErrDuplicateApplication
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "job_id": jobID}).Info("application submitted")
	return &app, nil
}

// MyApplications lists the user's applications with their jobs, newest first.
func (s *JobService) MyApplications(ctx context.Context, userID uint) ([]models.Application, error) {
	var apps []models.Application
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Job").
		Order("created_at desc").
		Find(&apps).Error
	return apps, err
}

// ApplicationDetail returns one of the user's own applications.
func (s *JobService) ApplicationDetail(ctx context.Context, userID, applicationID uint) (*models.Application, error) {
	var app models.Application
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", applicationID, userID).
		Preload("Job").
		First(&app).Error
	if err != nil {
		return nil, notFound(err, "application")
	}
	return &app, nil
}
