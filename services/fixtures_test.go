package services

import (
	"sync"
	"testing"
	"time"

	"careerlink/database/dbtest"
	"careerlink/email"
	"careerlink/models"
	"careerlink/notification"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recorder is a Notifier that keeps what it was handed.
type recorder struct {
	mu         sync.Mutex
	messages   []notification.Message
	broadcasts []notification.Broadcast
}

func (r *recorder) Notify(msg notification.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

func (r *recorder) NotifyAll(b notification.Broadcast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcasts = append(r.broadcasts, b)
}

func (r *recorder) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.messages))
	for _, m := range r.messages {
		out = append(out, m.Kind)
	}
	return out
}

func (r *recorder) lastBroadcast(t *testing.T) notification.Broadcast {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.broadcasts)
	return r.broadcasts[len(r.broadcasts)-1]
}

var noMail email.Mailer = email.LogMailer{}

func seedUser(t *testing.T, db *gorm.DB, name, role string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@example.com", Password: "x", Role: role}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedCourse(t *testing.T, db *gorm.DB, title string, quota int, start *time.Time) *models.Course {
	t.Helper()
	c := &models.Course{
		Title:        title,
		ProviderName: "Acme Academy",
		LocationType: models.LocationOnline,
		Quota:        quota,
		DateStart:    start,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func timePtr(t time.Time) *time.Time { return &t }

func newEnrollmentFixture(t *testing.T) (*gorm.DB, *EnrollmentService, *recorder) {
	t.Helper()
	db := dbtest.New(t)
	rec := &recorder{}
	return db, NewEnrollmentService(db, rec, noMail), rec
}

func ptr[T any](v T) *T { return &v }
