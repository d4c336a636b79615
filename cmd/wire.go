package cmd

import (
	"fmt"

	"careerlink/config"
	"careerlink/database"
	"careerlink/email"
	"careerlink/logs"
	"careerlink/middleware"
	"careerlink/notification"
	"careerlink/server"
	"careerlink/services"
	"careerlink/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// openStore connects and migrates the configured database.
func openStore(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.ConnectDb(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// newPushProvider uses FCM when a service account is configured and logs otherwise.
func newPushProvider(cfg *config.Config) (notification.PushProvider, error) {
	if cfg.FCMCredentialsFile == "" {
		logs.With("push").Warn("FCM_CREDENTIALS_FILE not set, push notifications are only logged")
		return notification.LogProvider{}, nil
	}
	sa, err := notification.LoadServiceAccount(cfg.FCMCredentialsFile)
	if err != nil {
		return nil, err
	}
	return notification.NewFCMProvider(sa, notification.FCMOptions{RatePerSec: cfg.FCMRatePerSec})
}

func newDispatcher(cfg *config.Config, db *gorm.DB) (*notification.Dispatcher, error) {
	provider, err := newPushProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("push provider: %w", err)
	}
	return notification.NewDispatcher(db, provider, notification.Options{
		Workers:   cfg.NotifyWorkers,
		QueueSize: cfg.NotifyQueueSize,
	}), nil
}

func newApp(cfg *config.Config, db *gorm.DB, dispatcher *notification.Dispatcher) *fiber.App {
	if cfg.ConflictStatus409 {
		middleware.ConflictStatus = fiber.StatusConflict
	}

	mailer := email.New(cfg.SendgridAPIKey, cfg.EmailSender, cfg.EmailSenderName)
	tokens := middleware.NewTokenManager(cfg.JWTKey, cfg.JWTTTL)
	uploader := utils.NewUploader(cfg.UploadDir, cfg.MaxUploadMB)

	return server.New(server.Deps{
		Tokens:      tokens,
		Auth:        services.NewAuthService(db, tokens, mailer, cfg.SaltRound),
		Courses:     services.NewCourseService(db, dispatcher),
		Enrollments: services.NewEnrollmentService(db, dispatcher, mailer),
		Badges:      services.NewBadgeService(db, dispatcher, cfg.BadgeRequireCompletion),
		Jobs:        services.NewJobService(db, dispatcher, uploader, utils.DocumentTypes),
		Mentoring:   services.NewMentoringService(db, dispatcher),
		CareerFair:  services.NewCareerFairService(db),
		Uploader:    uploader,
		AccessLog:   true,
	})
}
