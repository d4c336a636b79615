package email

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	to, subject, body string
}

type captureMailer struct {
	mu   sync.Mutex
	sent []captured
}

func (m *captureMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, captured{to, subject, body})
	return nil
}

func (m *captureMailer) wait(t *testing.T, n int) []captured {
	t.Helper()
	require.Eventually(t, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		return len(m.sent) >= n
	}, time.Second, 10*time.Millisecond)
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]captured(nil), m.sent...)
}

func TestSendEnrollmentEmail(t *testing.T) {
	m := &captureMailer{}
	start := time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC)

	SendEnrollmentEmail(m, "kid@example.com", "<b>Kid</b>", "Go & You", &start)

	sent := m.wait(t, 1)
	assert.Equal(t, "kid@example.com", sent[0].to)
	assert.Equal(t, "Enrollment Confirmed: Go & You", sent[0].subject)
	assert.Contains(t, sent[0].body, "&lt;b&gt;Kid&lt;/b&gt;")
	assert.Contains(t, sent[0].body, "Go &amp; You")
	assert.Contains(t, sent[0].body, "Mon, 01 Jun 2026 09:30 UTC")
}

func TestSendWelcomeEmail(t *testing.T) {
	m := &captureMailer{}
	SendWelcomeEmail(m, "new@example.com", "Newbie")

	sent := m.wait(t, 1)
	assert.Equal(t, "Welcome to CareerLink", sent[0].subject)
	assert.Contains(t, sent[0].body, "Hi Newbie")
}

func TestNew(t *testing.T) {
	assert.IsType(t, LogMailer{}, New("", "from@example.com", "CareerLink"))
	assert.IsType(t, &SendgridMailer{}, New("SG.key", "from@example.com", "CareerLink"))
}
