package cmd

import (
	"context"
	"fmt"

	"careerlink/notification"
	"careerlink/utils"

	"github.com/spf13/cobra"
)

var purge bool

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Manage scheduled reminders",
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Send every due reminder once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore(cfg)
		if err != nil {
			return err
		}

		dispatcher, err := newDispatcher(cfg, db)
		if err != nil {
			return err
		}

		sweeper := notification.NewReminderSweeper(db, dispatcher)
		ctx := context.Background()

		sent, err := sweeper.Sweep(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Sent %d reminders\n", sent)

		if purge {
			n, err := sweeper.Purge(ctx, utils.ReminderRetention)
			if err != nil {
				return err
			}
			fmt.Printf("Purged %d old reminders\n", n)
		}
		return nil
	},
}

func init() {
	sweepCmd.Flags().BoolVar(&purge, "purge", false, "Also delete reminders sent or cancelled over 30 days ago")
	remindersCmd.AddCommand(sweepCmd)
}
