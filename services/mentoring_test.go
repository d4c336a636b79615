package services

import (
	"context"
	"testing"
	"time"

	"careerlink/database/dbtest"
	"careerlink/domain"
	"careerlink/models"
	"careerlink/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMentoringFixture(t *testing.T, capacity int) (*gorm.DB, *MentoringService, *recorder, *models.MentoringSession) {
	t.Helper()
	db := dbtest.New(t)
	rec := &recorder{}
	svc := NewMentoringService(db, rec)

	mentor := seedUser(t, db, "mentor", models.RoleMentor)
	session, err := svc.CreateSession(context.Background(), mentor.ID, SessionInput{
		Title:     "Career Planning",
		MentorJob: "Engineering Manager",
		Platform:  "Zoom",
		StartAt:   time.Now().UTC().Add(48 * time.Hour),
		Capacity:  capacity,
	})
	require.NoError(t, err)
	return db, svc, rec, session
}

func TestCreateSession_Defaults(t *testing.T) {
	_, _, _, session := newMentoringFixture(t, 0)
	assert.Equal(t, 1, session.Capacity)
	assert.Equal(t, 60, session.DurationMinutes)
	assert.Equal(t, "WIB", session.TimeZone)
	assert.Equal(t, time.Hour, session.EndAt.Sub(session.StartAt))
	assert.True(t, session.IsActive)
}

func TestBook_CapacityAndDuplicates(t *testing.T) {
	db, svc, rec, session := newMentoringFixture(t, 1)
	ctx := context.Background()

	a := seedUser(t, db, "ana", models.RoleStudent)
	b := seedUser(t, db, "ben", models.RoleStudent)

	booking, err := svc.Book(ctx, a.ID, BookInput{SessionID: session.ID, FullName: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, models.BookingBooked, booking.Status)

	_, err = svc.Book(ctx, a.ID, BookInput{SessionID: session.ID, FullName: "Ana"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.Book(ctx, b.ID, BookInput{SessionID: session.ID, FullName: "Ben"})
	assert.ErrorIs(t, err, domain.ErrSessionFull)

	view, err := svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.BookedCount)
	assert.Zero(t, view.SeatsAvailable)
	assert.Equal(t, "mentor", view.MentorName)
	assert.Equal(t, models.RoleMentor, view.MentorRole)

	require.Len(t, rec.messages, 1)
	assert.Equal(t, notification.KindMentoring, rec.messages[0].Kind)

	var reminder models.ScheduledReminder
	require.NoError(t, db.Where("booking_id = ?", booking.ID).First(&reminder).Error)
	assert.Equal(t, notification.KindMentoringReminder, reminder.Kind)
}

func TestCancelBooking_FreesSeat(t *testing.T) {
	db, svc, _, session := newMentoringFixture(t, 1)
	ctx := context.Background()

	a := seedUser(t, db, "cal", models.RoleStudent)
	b := seedUser(t, db, "dee", models.RoleStudent)

	booking, err := svc.Book(ctx, a.ID, BookInput{SessionID: session.ID, FullName: "Cal"})
	require.NoError(t, err)

	_, err = svc.CancelBooking(ctx, b.ID, booking.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	cancelled, err := svc.CancelBooking(ctx, a.ID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, cancelled.Status)

	var reminder models.ScheduledReminder
	require.NoError(t, db.Where("booking_id = ?", booking.ID).First(&reminder).Error)
	assert.NotNil(t, reminder.CancelledAt)

	_, err = svc.Book(ctx, b.ID, BookInput{SessionID: session.ID, FullName: "Dee"})
	require.NoError(t, err)

	sessions, err := svc.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 1, sessions[0].BookedCount)
}

func TestBook_UnknownSession(t *testing.T) {
	db, svc, _, _ := newMentoringFixture(t, 1)
	u := seedUser(t, db, "eli", models.RoleStudent)

	_, err := svc.Book(context.Background(), u.ID, BookInput{SessionID: 999, FullName: "Eli"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNotes(t *testing.T) {
	db, svc, _, session := newMentoringFixture(t, 2)
	ctx := context.Background()

	owner := seedUser(t, db, "fin", models.RoleStudent)
	other := seedUser(t, db, "gia", models.RoleStudent)

	booking, err := svc.Book(ctx, owner.ID, BookInput{SessionID: session.ID, FullName: "Fin"})
	require.NoError(t, err)

	note, err := svc.GetNote(ctx, owner.ID, booking.ID)
	require.NoError(t, err)
	assert.Nil(t, note)

	_, err = svc.SaveNote(ctx, other.ID, NoteInput{BookingID: booking.ID, Content: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	first, err := svc.SaveNote(ctx, owner.ID, NoteInput{BookingID: booking.ID, Content: "draft"})
	require.NoError(t, err)
	assert.Empty(t, first.Attachments)

	second, err := svc.SaveNote(ctx, owner.ID, NoteInput{BookingID: booking.ID, Content: "final", Attachments: []string{"/uploads/a.pdf"}})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := svc.GetNote(ctx, owner.ID, booking.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "final", got.Content)
	assert.Equal(t, []string{"/uploads/a.pdf"}, []string(got.Attachments))

	_, err = svc.GetNote(ctx, other.ID, booking.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMentoringNotifications(t *testing.T) {
	db, svc, _, _ := newMentoringFixture(t, 1)
	ctx := context.Background()
	u := seedUser(t, db, "hoa", models.RoleStudent)

	for _, kind := range []string{notification.KindMentoring, notification.KindMentoringReminder, notification.KindBadgeEarned} {
		require.NoError(t, db.Create(&models.Notification{UserID: &u.ID, Kind: kind, Title: kind}).Error)
	}

	items, err := svc.Notifications(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
