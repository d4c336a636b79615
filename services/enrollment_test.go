package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"careerlink/database/dbtest"
	"careerlink/domain"
	"careerlink/models"
	"careerlink/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnroll_QuotaScenario(t *testing.T) {
	db, svc, _ := newEnrollmentFixture(t)
	ctx := context.Background()

	a := seedUser(t, db, "alice", models.RoleStudent)
	b := seedUser(t, db, "bob", models.RoleStudent)
	course := seedCourse(t, db, "Go Basics", 1, nil)

	first, err := svc.Enroll(ctx, a.ID, course.ID)
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.Equal(t, models.EnrollmentActive, first.Status)

	_, err = svc.Enroll(ctx, b.ID, course.ID)
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)

	cancelled, err := svc.Unenroll(ctx, a.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentCancelled, cancelled.Status)

	second, err := svc.Enroll(ctx, b.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, second.UserID)
}

func TestEnroll_Duplicate(t *testing.T) {
	db, svc, _ := newEnrollmentFixture(t)
	ctx := context.Background()

	u := seedUser(t, db, "carol", models.RoleStudent)
	course := seedCourse(t, db, "Rust", 10, nil)

	_, err := svc.Enroll(ctx, u.ID, course.ID)
	require.NoError(t, err)

	_, err = svc.Enroll(ctx, u.ID, course.ID)
	assert.ErrorIs(t, err, domain.ErrDuplicateEnrollment)
	assert.ErrorIs(t, err, domain.ErrConflict)

	var count int64
	db.Model(&models.Enrollment{}).Where("user_id = ? AND course_id = ?", u.ID, course.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestEnroll_ReenrollAfterCancel(t *testing.T) {
	db, svc, _ := newEnrollmentFixture(t)
	ctx := context.Background()

	u := seedUser(t, db, "dave", models.RoleStudent)
	course := seedCourse(t, db, "SQL", 2, nil)

	_, err := svc.Enroll(ctx, u.ID, course.ID)
	require.NoError(t, err)
	_, err = svc.Unenroll(ctx, u.ID, course.ID)
	require.NoError(t, err)

	again, err := svc.Enroll(ctx, u.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentActive, again.Status)

	var rows []models.Enrollment
	require.NoError(t, db.Where("user_id = ?", u.ID).Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, models.EnrollmentCancelled, rows[0].Status)
	assert.Equal(t, models.EnrollmentActive, rows[1].Status)
}

func TestEnroll_UnknownCourse(t *testing.T) {
	db, svc, _ := newEnrollmentFixture(t)
	u := seedUser(t, db, "erin", models.RoleStudent)

	_, err := svc.Enroll(context.Background(), u.ID, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEnroll_ZeroQuota(t *testing.T) {
	db, svc, _ := newEnrollmentFixture(t)
	u := seedUser(t, db, "zed", models.RoleStudent)
	course := seedCourse(t, db, "Closed", 0, nil)

	_, err := svc.Enroll(context.Background(), u.ID, course.ID)
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
}

func TestEnroll_ConcurrentTransactionsNeverExceedQuota(t *testing.T) {
	db := dbtest.NewFile(t, 8)
	svc := NewEnrollmentService(db, &recorder{}, noMail)
	course := seedCourse(t, db, "Popular", 3, nil)

	users := make([]*models.User, 8)
	for i := range users {
		users[i] = seedUser(t, db, "user"+string(rune('a'+i)), models.RoleStudent)
	}

	var wg sync.WaitGroup
	errs := make([]error, len(users))
	for i, u := range users {
		i, u := i, u
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Enroll(context.Background(), u.ID, course.ID)
		}()
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	}
	assert.Equal(t, 3, ok)

	var active int64
	db.Model(&models.Enrollment{}).Where("course_id = ? AND status <> ?", course.ID, models.EnrollmentCancelled).Count(&active)
	assert.EqualValues(t, 3, active)
}

func TestEnroll_NotifiesAndSchedulesReminder(t *testing.T) {
	db, svc, rec := newEnrollmentFixture(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	u := seedUser(t, db, "fay", models.RoleStudent)
	start := now.Add(24 * time.Hour)
	course := seedCourse(t, db, "Kubernetes", 5, &start)

	enrollment, err := svc.Enroll(ctx, u.ID, course.ID)
	require.NoError(t, err)

	require.Len(t, rec.messages, 1)
	msg := rec.messages[0]
	assert.Equal(t, notification.KindCourseEnrolled, msg.Kind)
	assert.Equal(t, u.ID, msg.UserID)
	assert.Equal(t, idString(course.ID), msg.Data["courseId"])
	assert.Equal(t, "view_course", msg.Data["action"])

	var reminder models.ScheduledReminder
	require.NoError(t, db.Where("enrollment_id = ?", enrollment.ID).First(&reminder).Error)
	assert.True(t, reminder.FireAt.Equal(start.Add(-time.Hour)))
	assert.Equal(t, notification.KindCourseReminder, reminder.Kind)
	assert.Nil(t, reminder.SentAt)
}

func TestEnroll_NoReminderWhenStartingWithinTheHour(t *testing.T) {
	db, svc, _ := newEnrollmentFixture(t)

	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	u := seedUser(t, db, "gus", models.RoleStudent)
	course := seedCourse(t, db, "Soon", 5, timePtr(now.Add(30*time.Minute)))

	_, err := svc.Enroll(context.Background(), u.ID, course.ID)
	require.NoError(t, err)

	var count int64
	db.Model(&models.ScheduledReminder{}).Count(&count)
	assert.Zero(t, count)
}

func TestUnenroll_CancelsPendingReminder(t *testing.T) {
	db, svc, rec := newEnrollmentFixture(t)
	ctx := context.Background()

	u := seedUser(t, db, "hal", models.RoleStudent)
	course := seedCourse(t, db, "Docker", 5, timePtr(time.Now().UTC().Add(48*time.Hour)))

	enrollment, err := svc.Enroll(ctx, u.ID, course.ID)
	require.NoError(t, err)

	_, err = svc.Unenroll(ctx, u.ID, course.ID)
	require.NoError(t, err)

	var reminder models.ScheduledReminder
	require.NoError(t, db.Where("enrollment_id = ?", enrollment.ID).First(&reminder).Error)
	assert.NotNil(t, reminder.CancelledAt)
	assert.Equal(t, []string{notification.KindCourseEnrolled, notification.KindCourseCancelled}, rec.kinds())
}

func TestUnenroll_Errors(t *testing.T) {
	db, svc, _ := newEnrollmentFixture(t)
	ctx := context.Background()

	u := seedUser(t, db, "ivy", models.RoleStudent)
	course := seedCourse(t, db, "Go", 5, nil)

	_, err := svc.Unenroll(ctx, u.ID, course.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Enroll(ctx, u.ID, course.ID)
	require.NoError(t, err)
	_, err = svc.Complete(ctx, course.ID, u.ID)
	require.NoError(t, err)

	_, err = svc.Unenroll(ctx, u.ID, course.ID)
	assert.ErrorIs(t, err, domain.ErrEnrollmentCompleted)
}

func TestComplete(t *testing.T) {
	db, svc, rec := newEnrollmentFixture(t)
	ctx := context.Background()

	u := seedUser(t, db, "jon", models.RoleStudent)
	course := seedCourse(t, db, "Go", 5, nil)

	_, err := svc.Complete(ctx, course.ID, u.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Enroll(ctx, u.ID, course.ID)
	require.NoError(t, err)

	done, err := svc.Complete(ctx, course.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentCompleted, done.Status)
	require.NotNil(t, done.CompletionDate)

	last := rec.messages[len(rec.messages)-1]
	assert.Equal(t, notification.KindCourseCompleted, last.Kind)
	assert.Equal(t, "scan_badge", last.Data["action"])

	// a completed pair still blocks a new enrollment
	_, err = svc.Enroll(ctx, u.ID, course.ID)
	assert.ErrorIs(t, err, domain.ErrDuplicateEnrollment)
}

func TestStatsAndRecap(t *testing.T) {
	db, svc, _ := newEnrollmentFixture(t)
	ctx := context.Background()

	u := seedUser(t, db, "kim", models.RoleStudent)
	c1 := seedCourse(t, db, "One", 5, nil)
	c2 := seedCourse(t, db, "Two", 5, nil)
	c3 := seedCourse(t, db, "Three", 5, nil)

	for _, c := range []*models.Course{c1, c2, c3} {
		_, err := svc.Enroll(ctx, u.ID, c.ID)
		require.NoError(t, err)
	}
	_, err := svc.Complete(ctx, c1.ID, u.ID)
	require.NoError(t, err)
	_, err = svc.Unenroll(ctx, u.ID, c3.ID)
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, db.Create(&models.Badge{UserID: &u.ID, CourseID: &c1.ID, Title: "One Completion Badge", ObtainedAt: &now}).Error)

	stats, err := svc.Stats(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, &EnrollmentStats{Total: 3, Active: 1, Completed: 1, Cancelled: 1}, stats)

	list, err := svc.ListForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	for _, e := range list {
		require.NotNil(t, e.Course)
	}

	recap, err := svc.Recap(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, recap, 3)
	for _, item := range recap {
		if item.CourseID == c1.ID {
			assert.Equal(t, []string{"One Completion Badge"}, item.Badges)
			assert.Equal(t, "One", item.CourseTitle)
		} else {
			assert.Empty(t, item.Badges)
		}
	}
}
