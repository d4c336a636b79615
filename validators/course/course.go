package courseValidator

import (
	"time"

	"careerlink/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateCourseRequest struct {
	Title          string     `json:"title" validate:"required,min=3,max=200"`
	Description    string     `json:"description"`
	ProviderName   string     `json:"provider_name" validate:"required,max=200"`
	LocationType   string     `json:"location_type" validate:"required,oneof=Online Offline Hybrid"`
	LocationDetail string     `json:"location_detail" validate:"max=300"`
	DateStart      *time.Time `json:"date_start" validate:"required"`
	DateEnd        *time.Time `json:"date_end"`
	Quota          int        `json:"quota" validate:"min=0"`
	Price          float64    `json:"price" validate:"min=0"`
	ImageURL       string     `json:"image_url" validate:"max=500"`
}

// CreateCourse validates course creation request
func CreateCourse() fiber.Handler {
	return validators.Body("validatedCourse", func(r *CreateCourseRequest) {
		validators.Trim(&r.Title, &r.ProviderName, &r.LocationType, &r.LocationDetail, &r.ImageURL)
	})
}

// UpdateCourseRequest lists the only fields an update may touch.
type UpdateCourseRequest struct {
	Title          *string    `json:"title" validate:"omitempty,min=3,max=200"`
	Description    *string    `json:"description"`
	ProviderName   *string    `json:"provider_name" validate:"omitempty,max=200"`
	LocationType   *string    `json:"location_type" validate:"omitempty,oneof=Online Offline Hybrid"`
	LocationDetail *string    `json:"location_detail" validate:"omitempty,max=300"`
	DateStart      *time.Time `json:"date_start"`
	DateEnd        *time.Time `json:"date_end"`
	Quota          *int       `json:"quota" validate:"omitempty,min=0"`
	Price          *float64   `json:"price" validate:"omitempty,min=0"`
	ImageURL       *string    `json:"image_url" validate:"omitempty,max=500"`
}

func UpdateCourse() fiber.Handler {
	return validators.Body[UpdateCourseRequest]("validatedCourseUpdate", nil)
}

type ListCoursesRequest struct {
	LocationType string `query:"location_type" validate:"omitempty,oneof=Online Offline Hybrid"`
	ProviderName string `query:"provider_name" validate:"max=200"`
	Search       string `query:"search" validate:"max=100"`
}

func ListCourses() fiber.Handler {
	return validators.Query("validatedCourseList", func(r *ListCoursesRequest) {
		validators.Trim(&r.LocationType, &r.ProviderName, &r.Search)
	})
}

type RecommendedRequest struct {
	Limit int `query:"limit" validate:"min=1,max=50"`
}

func Recommended() fiber.Handler {
	return validators.Query("validatedRecommended", func(r *RecommendedRequest) {
		if r.Limit == 0 {
			r.Limit = 5
		}
	})
}

func CourseID() fiber.Handler {
	return validators.ParamID("courseId", "courseID")
}

func UserID() fiber.Handler {
	return validators.ParamID("userId", "targetUserID")
}
