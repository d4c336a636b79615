package courseController

import (
	"careerlink/domain"
	"careerlink/middleware"
	"careerlink/services"
	courseValidator "careerlink/validators/course"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	Courses     *services.CourseService
	Enrollments *services.EnrollmentService
}

func NewHandler(courses *services.CourseService, enrollments *services.EnrollmentService) *Handler {
	return &Handler{Courses: courses, Enrollments: enrollments}
}

func (h *Handler) ListCourses(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCourseList").(*courseValidator.ListCoursesRequest)

	courses, err := h.Courses.List(c.UserContext(), services.CourseFilter{
		LocationType: reqData.LocationType,
		ProviderName: reqData.ProviderName,
		Search:       reqData.Search,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponseWith(c, fiber.StatusOK, "Courses fetched successfully!", courses, fiber.Map{"count": len(courses)})
}

func (h *Handler) Recommended(c *fiber.Ctx) error {
	reqData := c.Locals("validatedRecommended").(*courseValidator.RecommendedRequest)

	courses, err := h.Courses.Recommended(c.UserContext(), reqData.Limit)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponseWith(c, fiber.StatusOK, "Recommended courses fetched successfully!", courses, fiber.Map{"count": len(courses)})
}

func (h *Handler) AdminList(c *fiber.Ctx) error {
	courses, err := h.Courses.AdminList(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponseWith(c, fiber.StatusOK, "Courses fetched successfully!", courses, fiber.Map{"count": len(courses)})
}

func (h *Handler) CourseDetail(c *fiber.Ctx) error {
	course, err := h.Courses.Get(c.UserContext(), c.Locals("courseID").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", course)
}

func (h *Handler) CreateCourse(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	if reqData.DateEnd != nil && reqData.DateEnd.Before(*reqData.DateStart) {
		return middleware.ValidationErrorResponse(c, map[string]string{"date_end": "date_end must be after date_start!"})
	}

	course, err := h.Courses.Create(c.UserContext(), services.CourseInput{
		Title:          reqData.Title,
		Description:    reqData.Description,
		ProviderName:   reqData.ProviderName,
		LocationType:   reqData.LocationType,
		LocationDetail: reqData.LocationDetail,
		DateStart:      reqData.DateStart,
		DateEnd:        reqData.DateEnd,
		Quota:          reqData.Quota,
		Price:          reqData.Price,
		ImageURL:       reqData.ImageURL,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponseWith(c, fiber.StatusCreated, "Course created successfully!", course, fiber.Map{"courseId": course.ID})
}

func (h *Handler) UpdateCourse(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCourseUpdate").(*courseValidator.UpdateCourseRequest)

	course, err := h.Courses.Update(c.UserContext(), c.Locals("courseID").(uint), services.CourseUpdate{
		Title:          reqData.Title,
		Description:    reqData.Description,
		ProviderName:   reqData.ProviderName,
		LocationType:   reqData.LocationType,
		LocationDetail: reqData.LocationDetail,
		DateStart:      reqData.DateStart,
		DateEnd:        reqData.DateEnd,
		Quota:          reqData.Quota,
		Price:          reqData.Price,
		ImageURL:       reqData.ImageURL,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

func (h *Handler) DeleteCourse(c *fiber.Ctx) error {
	if err := h.Courses.Delete(c.UserContext(), c.Locals("courseID").(uint)); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// requireUser fetches the caller id or fails the request.
func requireUser(c *fiber.Ctx) (uint, error) {
	userID, ok := middleware.UserID(c)
	if !ok {
		return 0, domain.ErrUnauthorized
	}
	return userID, nil
}
