package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"careerlink/logs"
	"careerlink/notification"
	"careerlink/utils"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API with the notification workers and reminder scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logs.With("server")

		db, err := openStore(cfg)
		if err != nil {
			return err
		}

		dispatcher, err := newDispatcher(cfg, db)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		dispatcher.Start(ctx)

		scheduler, err := utils.InitializeReminderScheduler(notification.NewReminderSweeper(db, dispatcher), cfg.ReminderCron)
		if err != nil {
			return err
		}

		app := newApp(cfg, db, dispatcher)

		errCh := make(chan error, 1)
		go func() {
			log.Infof("Server is running on port %s", cfg.Port)
			errCh <- app.Listen(":" + cfg.Port)
		}()

		select {
		case err = <-errCh:
		case <-ctx.Done():
			log.Info("shutting down")
		}

		<-scheduler.Stop().Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if serr := app.ShutdownWithContext(shutdownCtx); serr != nil {
			log.WithError(serr).Error("http shutdown")
		}

		dispatcher.Stop()

		if sqlDB, derr := db.DB(); derr == nil {
			sqlDB.Close()
		}
		return err
	},
}
