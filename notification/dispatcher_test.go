package notification_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"careerlink/database/dbtest"
	"careerlink/models"
	"careerlink/notification"
	"careerlink/notification/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, name, token string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@example.com", Password: "x", Role: models.RoleStudent, FCMToken: token}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestSend_WithoutTokenRecordsInboxOnly(t *testing.T) {
	db := dbtest.New(t)
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockPushProvider(ctrl)
	d := notification.NewDispatcher(db, provider, notification.Options{})

	u := seedUser(t, db, "amy", "")

	ok, err := d.Send(context.Background(), notification.Message{UserID: u.ID, Title: "Hi", Body: "there", Kind: notification.KindMentoring})
	require.NoError(t, err)
	assert.False(t, ok)

	var inbox []models.Notification
	require.NoError(t, db.Where("user_id = ?", u.ID).Find(&inbox).Error)
	require.Len(t, inbox, 1)
	assert.Equal(t, notification.KindMentoring, inbox[0].Kind)
	assert.Equal(t, "mentoring", inbox[0].Data["type"])
}

func TestSend_UnknownUser(t *testing.T) {
	db := dbtest.New(t)
	ctrl := gomock.NewController(t)
	d := notification.NewDispatcher(db, mocks.NewMockPushProvider(ctrl), notification.Options{})

	ok, err := d.Send(context.Background(), notification.Message{UserID: 404, Title: "Hi"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSend_PushesWithKindInData(t *testing.T) {
	db := dbtest.New(t)
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockPushProvider(ctrl)
	d := notification.NewDispatcher(db, provider, notification.Options{})

	u := seedUser(t, db, "bo", "tok-bo")

	provider.EXPECT().
		Send(gomock.Any(), "tok-bo", notification.Payload{
			Title: "Enrolled",
			Body:  "Welcome",
			Data:  map[string]string{"courseId": "3", "type": notification.KindCourseEnrolled},
		}).
		Return(nil)

	ok, err := d.Send(context.Background(), notification.Message{
		UserID: u.ID,
		Title:  "Enrolled",
		Body:   "Welcome",
		Kind:   notification.KindCourseEnrolled,
		Data:   map[string]string{"courseId": "3"},
	})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSend_ProviderError(t *testing.T) {
	db := dbtest.New(t)
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockPushProvider(ctrl)
	d := notification.NewDispatcher(db, provider, notification.Options{})

	u := seedUser(t, db, "cy", "tok-cy")
	provider.EXPECT().Send(gomock.Any(), "tok-cy", gomock.Any()).Return(errors.New("unregistered"))

	ok, err := d.Send(context.Background(), notification.Message{UserID: u.ID, Title: "x"})
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestBroadcast_NoTokens(t *testing.T) {
	db := dbtest.New(t)
	ctrl := gomock.NewController(t)
	d := notification.NewDispatcher(db, mocks.NewMockPushProvider(ctrl), notification.Options{})

	seedUser(t, db, "di", "")

	res, err := d.Broadcast(context.Background(), notification.Broadcast{Title: "New job", Kind: notification.KindJobDetail, Data: map[string]string{"jobId": "1"}})
	require.NoError(t, err)
	assert.Equal(t, notification.BroadcastResult{}, res)

	var public int64
	db.Model(&models.Notification{}).Where("user_id IS NULL").Count(&public)
	assert.EqualValues(t, 1, public)
}

func TestBroadcast_BatchesAndCountsFailures(t *testing.T) {
	db := dbtest.New(t)
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockPushProvider(ctrl)
	d := notification.NewDispatcher(db, provider, notification.Options{})

	total := notification.BatchSize + 3
	users := make([]models.User, 0, total)
	for i := 0; i < total; i++ {
		users = append(users, models.User{
			Name:     fmt.Sprintf("u%d", i),
			Email:    fmt.Sprintf("u%d@example.com", i),
			Password: "x",
			Role:     models.RoleStudent,
			FCMToken: fmt.Sprintf("tok-%d", i),
		})
	}
	require.NoError(t, db.CreateInBatches(users, 100).Error)

	gomock.InOrder(
		provider.EXPECT().SendMulticast(gomock.Any(), gomock.Len(notification.BatchSize), gomock.Any()).
			Return(notification.MulticastResult{SuccessCount: notification.BatchSize - 1, FailureCount: 1}, nil),
		provider.EXPECT().SendMulticast(gomock.Any(), gomock.Len(3), gomock.Any()).
			Return(notification.MulticastResult{}, errors.New("quota exceeded")),
	)

	res, err := d.Broadcast(context.Background(), notification.Broadcast{Title: "New course", Kind: notification.KindNewCourseAvailable})
	require.NoError(t, err)
	assert.Equal(t, notification.BatchSize-1, res.SuccessCount)
	assert.Equal(t, 4, res.FailureCount)
}

func TestBroadcast_TargetedUsers(t *testing.T) {
	db := dbtest.New(t)
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockPushProvider(ctrl)
	d := notification.NewDispatcher(db, provider, notification.Options{})

	a := seedUser(t, db, "ed", "tok-ed")
	b := seedUser(t, db, "flo", "")
	seedUser(t, db, "gil", "tok-gil")

	provider.EXPECT().
		SendMulticast(gomock.Any(), []string{"tok-ed"}, gomock.Any()).
		Return(notification.MulticastResult{SuccessCount: 1}, nil)

	res, err := d.Broadcast(context.Background(), notification.Broadcast{
		Title:   "Course cancelled",
		Kind:    notification.KindCourseDeleted,
		UserIDs: []uint{a.ID, b.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, notification.BroadcastResult{SuccessCount: 1}, res)

	var inbox int64
	db.Model(&models.Notification{}).Where("user_id IN ?", []uint{a.ID, b.ID}).Count(&inbox)
	assert.EqualValues(t, 2, inbox)
}

func TestDispatcher_QueueDrainsOnStop(t *testing.T) {
	db := dbtest.New(t)
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockPushProvider(ctrl)
	d := notification.NewDispatcher(db, provider, notification.Options{Workers: 2, QueueSize: 8, TaskTimeout: time.Second})

	u := seedUser(t, db, "hu", "tok-hu")
	provider.EXPECT().Send(gomock.Any(), "tok-hu", gomock.Any()).Return(nil).Times(3)

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	for i := 0; i < 3; i++ {
		d.Notify(notification.Message{UserID: u.ID, Title: "ping", Kind: notification.KindMentoring})
	}
	cancel()
	d.Stop()
	d.Stop()

	// dropped once stopped
	d.Notify(notification.Message{UserID: u.ID, Title: "late"})

	var inbox int64
	db.Model(&models.Notification{}).Where("user_id = ?", u.ID).Count(&inbox)
	assert.EqualValues(t, 3, inbox)
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	db := dbtest.New(t)
	ctrl := gomock.NewController(t)
	d := notification.NewDispatcher(db, mocks.NewMockPushProvider(ctrl), notification.Options{QueueSize: 1})

	// no workers are running, so only the first task fits
	d.NotifyAll(notification.Broadcast{Title: "one"})
	d.NotifyAll(notification.Broadcast{Title: "two"})

	d.Start(context.Background())
	d.Stop()

	var titles []string
	require.NoError(t, db.Model(&models.Notification{}).Pluck("title", &titles).Error)
	assert.Equal(t, []string{"one"}, titles)
}
