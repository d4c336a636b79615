// Package notification delivers push notifications and keeps the in-app inbox.
package notification

// Notification kinds. Each is sent to devices as data["type"].
const (
	KindCourseEnrolled     = "course_enrolled"
	KindCourseCancelled    = "course_cancelled"
	KindCourseCompleted    = "course_completed"
	KindCourseReminder     = "course_reminder"
	KindCourseDeleted      = "course_deleted"
	KindNewCourseAvailable = "new_course_available"
	KindBadgeEarned        = "badge_earned"
	KindJobDetail          = "job_detail"
	KindMentoring          = "mentoring"
	KindMentoringReminder  = "mentoring_reminder"
)

// Message targets one user.
type Message struct {
	UserID      uint
	Title       string
	Body        string
	Kind        string
	Data        map[string]string
	TargetRoute string
}

// Broadcast targets every user with a push token, or only UserIDs when set.
type Broadcast struct {
	Title   string
	Body    string
	Kind    string
	Data    map[string]string
	UserIDs []uint
}

type BroadcastResult struct {
	SuccessCount int `json:"success_count"`
	FailureCount int `json:"failure_count"`
}

// Payload is what a provider puts on the wire.
type Payload struct {
	Title string
	Body  string
	Data  map[string]string
}

func payloadData(kind string, data map[string]string) map[string]string {
	out := make(map[string]string, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	out["type"] = kind
	return out
}
