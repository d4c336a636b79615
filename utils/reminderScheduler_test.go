package utils

import (
	"testing"

	"careerlink/database/dbtest"
	"careerlink/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeReminderScheduler(t *testing.T) {
	db := dbtest.New(t)
	sweeper := notification.NewReminderSweeper(db, notification.NewDispatcher(db, notification.LogProvider{}, notification.Options{}))

	_, err := InitializeReminderScheduler(sweeper, "not a cron expression")
	assert.Error(t, err)

	c, err := InitializeReminderScheduler(sweeper, "*/5 * * * *")
	require.NoError(t, err)
	defer c.Stop()
	assert.Len(t, c.Entries(), 2)
}
