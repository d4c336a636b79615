package services

import (
	"context"
	"testing"
	"time"

	"careerlink/database/dbtest"
	"careerlink/domain"
	"careerlink/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCareerFair_FollowAndCheckIn(t *testing.T) {
	db := dbtest.New(t)
	svc := NewCareerFairService(db)
	ctx := context.Background()

	u := seedUser(t, db, "ida", models.RoleStudent)
	start := time.Now().UTC().Add(24 * time.Hour)
	first := &models.Event{Title: "Spring Fair", StartAt: &start}
	second := &models.Event{Title: "Autumn Fair", StartAt: timePtr(start.Add(24 * time.Hour))}
	require.NoError(t, db.Create(first).Error)
	require.NoError(t, db.Create(second).Error)

	require.NoError(t, svc.Follow(ctx, u.ID, first.ID))
	require.NoError(t, svc.Follow(ctx, u.ID, first.ID))
	assert.ErrorIs(t, svc.Follow(ctx, u.ID, 999), domain.ErrNotFound)

	saved, err := svc.Saved(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "Spring Fair", saved[0].Title)

	checkin, err := svc.CheckIn(ctx, u.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, checkin.EventID)

	saved, err = svc.Saved(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, saved, 2)

	_, err = svc.CheckIn(ctx, u.ID, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCareerFair_Listings(t *testing.T) {
	db := dbtest.New(t)
	svc := NewCareerFairService(db)
	ctx := context.Background()

	past := time.Now().UTC().Add(-72 * time.Hour)
	future := time.Now().UTC().Add(72 * time.Hour)
	old := &models.Event{Title: "Old", StartAt: &past}
	next := &models.Event{Title: "Next", StartAt: &future}
	require.NoError(t, db.Create(old).Error)
	require.NoError(t, db.Create(next).Error)

	require.NoError(t, db.Create(&models.Booth{EventID: next.ID, CompanyName: "Initech", BoothNumber: "B2"}).Error)
	require.NoError(t, db.Create(&models.Booth{EventID: next.ID, CompanyName: "Globex", BoothNumber: "A1"}).Error)
	require.NoError(t, db.Create(&models.Booth{EventID: old.ID, CompanyName: "Hooli", BoothNumber: "C3"}).Error)

	all, err := svc.Events(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	upcoming, err := svc.Events(ctx, true)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "Next", upcoming[0].Title)

	booths, err := svc.Booths(ctx, next.ID)
	require.NoError(t, err)
	require.Len(t, booths, 2)
	assert.Equal(t, "Globex", booths[0].CompanyName)

	_, err = svc.Booth(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	uid := uint(1)
	require.NoError(t, db.Create(&models.Notification{Title: "Fair opens", Kind: "broadcast"}).Error)
	require.NoError(t, db.Create(&models.Notification{UserID: &uid, Title: "Private"}).Error)
	feed, err := svc.PublicNotifications(ctx, 0)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "Fair opens", feed[0].Title)
}
