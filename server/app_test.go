package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"careerlink/database/dbtest"
	"careerlink/email"
	"careerlink/middleware"
	"careerlink/models"
	"careerlink/notification"
	"careerlink/server"
	"careerlink/services"
	"careerlink/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type harness struct {
	app        *fiber.App
	db         *gorm.DB
	dispatcher *notification.Dispatcher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := dbtest.New(t)

	dispatcher := notification.NewDispatcher(db, notification.LogProvider{}, notification.Options{Workers: 1, QueueSize: 64})
	dispatcher.Start(context.Background())
	t.Cleanup(dispatcher.Stop)

	mailer := email.LogMailer{}
	tokens := middleware.NewTokenManager("test-secret", time.Hour)
	uploader := utils.NewUploader(t.TempDir(), 1)

	app := server.New(server.Deps{
		Tokens:      tokens,
		Auth:        services.NewAuthService(db, tokens, mailer, bcrypt.MinCost),
		Courses:     services.NewCourseService(db, dispatcher),
		Enrollments: services.NewEnrollmentService(db, dispatcher, mailer),
		Badges:      services.NewBadgeService(db, dispatcher, true),
		Jobs:        services.NewJobService(db, dispatcher, uploader, utils.DocumentTypes),
		Mentoring:   services.NewMentoringService(db, dispatcher),
		CareerFair:  services.NewCareerFairService(db),
		Uploader:    uploader,
	})
	return &harness{app: app, db: db, dispatcher: dispatcher}
}

func (h *harness) call(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

// signup registers a user with role and returns a bearer token for it.
func (h *harness) signup(t *testing.T, name, role string) string {
	t.Helper()
	mail := name + "@example.com"
	status, _ := h.call(t, http.MethodPost, "/api/auth/register", "", fiber.Map{"name": name, "email": mail, "password": "password123"})
	require.Equal(t, fiber.StatusCreated, status)

	if role != models.RoleStudent {
		require.NoError(t, h.db.Model(&models.User{}).Where("email = ?", mail).Update("role", role).Error)
	}

	status, body := h.call(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": mail, "password": "password123"})
	require.Equal(t, fiber.StatusOK, status)
	token, ok := body["token"].(string)
	require.True(t, ok)
	return token
}

func TestRegisterValidation(t *testing.T) {
	h := newHarness(t)

	status, body := h.call(t, http.MethodPost, "/api/auth/register", "", fiber.Map{"name": "A", "email": "nope", "password": "short"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
	assert.Contains(t, errs, "name")

	status, _ = h.call(t, http.MethodPost, "/api/auth/register", "", fiber.Map{"name": "Admin", "email": "a@example.com", "password": "password123", "role": "admin"})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newHarness(t)
	h.signup(t, "ann", models.RoleStudent)

	status, body := h.call(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "ann@example.com", "password": "bad-password"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "invalid email or password", body["message"])
}

func TestCreateJob_WithoutPushTokens(t *testing.T) {
	h := newHarness(t)
	student := h.signup(t, "stu", models.RoleStudent)
	recruiter := h.signup(t, "rec", models.RoleRecruiter)

	job := fiber.Map{"title": "Backend Intern", "company_name": "Initech", "location": "Remote"}

	status, _ := h.call(t, http.MethodPost, "/api/jobs", student, job)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = h.call(t, http.MethodPost, "/api/jobs", "", job)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body := h.call(t, http.MethodPost, "/api/jobs", recruiter, job)
	require.Equal(t, fiber.StatusCreated, status)
	jobID, ok := body["jobId"].(float64)
	require.True(t, ok)

	res, err := h.dispatcher.Broadcast(context.Background(), notification.Broadcast{
		Title: "New job opening",
		Kind:  notification.KindJobDetail,
		Data:  map[string]string{"jobId": fmt.Sprint(jobID)},
	})
	require.NoError(t, err)
	assert.Zero(t, res.SuccessCount)

	status, body = h.call(t, http.MethodGet, "/api/jobs?search=initech", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, body["count"])
}

func TestEnrollmentFlow(t *testing.T) {
	h := newHarness(t)
	instructor := h.signup(t, "ins", models.RoleInstructor)
	alice := h.signup(t, "alice", models.RoleStudent)
	bob := h.signup(t, "bob", models.RoleStudent)

	start := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Second)
	status, body := h.call(t, http.MethodPost, "/api/courses", instructor, fiber.Map{
		"title":         "Go for Backend",
		"provider_name": "Gopher School",
		"location_type": "Online",
		"date_start":    start,
		"quota":         1,
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	courseID := uint(body["courseId"].(float64))
	coursePath := fmt.Sprintf("/api/courses/%d", courseID)

	status, body = h.call(t, http.MethodPost, coursePath+"/enroll", alice, nil)
	require.Equal(t, fiber.StatusCreated, status, body)
	assert.NotNil(t, body["enrollmentId"])

	status, body = h.call(t, http.MethodPost, coursePath+"/enroll", alice, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "already enrolled in this course", body["message"])

	status, body = h.call(t, http.MethodPost, coursePath+"/enroll", bob, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "course quota is full", body["message"])

	status, _ = h.call(t, http.MethodDelete, coursePath+"/unenroll", alice, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, _ = h.call(t, http.MethodPost, coursePath+"/enroll", bob, nil)
	require.Equal(t, fiber.StatusCreated, status)

	var bobUser models.User
	require.NoError(t, h.db.Where("email = ?", "bob@example.com").First(&bobUser).Error)

	status, body = h.call(t, http.MethodPost, "/api/courses/badges/scan-qr", bob, fiber.Map{"qr_token": fmt.Sprint(courseID)})
	assert.Equal(t, fiber.StatusBadRequest, status, body)

	status, _ = h.call(t, http.MethodPatch, fmt.Sprintf("%s/enrollments/%d/complete", coursePath, bobUser.ID), instructor, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, body = h.call(t, http.MethodPost, "/api/courses/badges/scan-qr", bob, fiber.Map{"qr_token": fmt.Sprint(courseID)})
	require.Equal(t, fiber.StatusOK, status, body)
	badge := body["data"].(map[string]interface{})
	assert.Equal(t, "Go for Backend Completion Badge", badge["title"])

	status, _ = h.call(t, http.MethodPost, "/api/courses/badges/scan-qr", bob, fiber.Map{"qr_token": fmt.Sprint(courseID)})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = h.call(t, http.MethodGet, "/api/courses/stats/overview", bob, nil)
	require.Equal(t, fiber.StatusOK, status)
	stats := body["data"].(map[string]interface{})
	assert.EqualValues(t, 1, stats["completed_courses"])
	assert.EqualValues(t, 1, stats["total_courses"])
}

func TestRoutingEdges(t *testing.T) {
	h := newHarness(t)

	status, body := h.call(t, http.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Route not found", body["message"])

	status, body = h.call(t, http.MethodGet, "/api/courses/abc", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, "errors")

	status, _ = h.call(t, http.MethodGet, "/api/courses/77", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = h.call(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestMentoringAndCareerFair(t *testing.T) {
	h := newHarness(t)
	mentor := h.signup(t, "men", models.RoleMentor)
	student := h.signup(t, "stu", models.RoleStudent)
	other := h.signup(t, "oth", models.RoleStudent)

	session := fiber.Map{"title": "Resume Review", "start_at": time.Now().UTC().Add(48 * time.Hour), "capacity": 1}
	status, _ := h.call(t, http.MethodPost, "/api/mentoring/schedules", student, session)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := h.call(t, http.MethodPost, "/api/mentoring/schedules", mentor, session)
	require.Equal(t, fiber.StatusCreated, status, body)
	sessionID := body["data"].(map[string]interface{})["id"]

	status, body = h.call(t, http.MethodPost, "/api/mentoring/book", student, fiber.Map{"session_id": sessionID, "full_name": "Stu Dent"})
	require.Equal(t, fiber.StatusCreated, status, body)

	status, body = h.call(t, http.MethodPost, "/api/mentoring/book", other, fiber.Map{"session_id": sessionID, "full_name": "Oth Er"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "mentoring session is fully booked", body["message"])

	status, _ = h.call(t, http.MethodGet, "/api/mentoring/schedules", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	event := models.Event{Title: "Job Fair"}
	require.NoError(t, h.db.Create(&event).Error)

	for i := 0; i < 2; i++ {
		status, _ = h.call(t, http.MethodPost, "/api/career-fair/follow", student, fiber.Map{"event_id": event.ID})
		require.Equal(t, fiber.StatusOK, status)
	}
	status, body = h.call(t, http.MethodGet, "/api/career-fair/saved", student, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, body["count"])

	status, _ = h.call(t, http.MethodPost, "/api/career-fair/follow", student, fiber.Map{"event_id": 999})
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestAdminRoleManagement(t *testing.T) {
	h := newHarness(t)
	admin := h.signup(t, "adm", models.RoleAdmin)
	student := h.signup(t, "stu", models.RoleStudent)

	status, _ := h.call(t, http.MethodGet, "/api/admin/users", student, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	var target models.User
	require.NoError(t, h.db.Where("email = ?", "stu@example.com").First(&target).Error)

	status, body := h.call(t, http.MethodPatch, fmt.Sprintf("/api/admin/users/%d/role", target.ID), admin, fiber.Map{"role": "recruiter"})
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "recruiter", body["data"].(map[string]interface{})["role"])

	status, _ = h.call(t, http.MethodPatch, fmt.Sprintf("/api/admin/users/%d/role", target.ID), admin, fiber.Map{"role": "wizard"})
	assert.Equal(t, fiber.StatusBadRequest, status)
}
