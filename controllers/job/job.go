package jobController

import (
	"mime/multipart"

	"careerlink/middleware"
	"careerlink/services"
	jobValidator "careerlink/validators/job"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	Jobs *services.JobService
}

func NewHandler(jobs *services.JobService) *Handler {
	return &Handler{Jobs: jobs}
}

func (h *Handler) ListJobs(c *fiber.Ctx) error {
	reqData := c.Locals("validatedJobList").(*jobValidator.ListJobsRequest)

	jobs, err := h.Jobs.List(c.UserContext(), reqData.Search)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponseWith(c, fiber.StatusOK, "Jobs fetched successfully!", jobs, fiber.Map{"count": len(jobs)})
}

func (h *Handler) JobDetail(c *fiber.Ctx) error {
	job, err := h.Jobs.Get(c.UserContext(), c.Locals("jobID").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Job fetched successfully!", job)
}

func (h *Handler) CreateJob(c *fiber.Ctx) error {
	reqData := c.Locals("validatedJob").(*jobValidator.CreateJobRequest)

	job, err := h.Jobs.Create(c.UserContext(), services.JobInput{
		Title:        reqData.Title,
		CompanyName:  reqData.CompanyName,
		LogoURL:      reqData.LogoURL,
		Location:     reqData.Location,
		JobType:      reqData.JobType,
		Duration:     reqData.Duration,
		SalaryRange:  reqData.SalaryRange,
		Description:  reqData.Description,
		Requirements: reqData.Requirements,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponseWith(c, fiber.StatusCreated, "Job created successfully!", job, fiber.Map{"jobId": job.ID})
}

func (h *Handler) Apply(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	app, err := h.Jobs.Apply(c.UserContext(), userID, c.Locals("jobID").(uint), services.ApplicationFiles{
		CV:                   formFile(c, "cv"),
		RecommendationLetter: formFile(c, "recommendation_letter"),
		Portfolio:            formFile(c, "portfolio"),
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponseWith(c, fiber.StatusCreated, "Application submitted successfully!", app, fiber.Map{"applicationId": app.ID})
}

func (h *Handler) MyApplications(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	apps, err := h.Jobs.MyApplications(c.UserContext(), userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponseWith(c, fiber.StatusOK, "Applications fetched successfully!", apps, fiber.Map{"count": len(apps)})
}

func (h *Handler) ApplicationDetail(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	app, err := h.Jobs.ApplicationDetail(c.UserContext(), userID, c.Locals("applicationID").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Application fetched successfully!", app)
}

// formFile returns the named upload, or nil when the field is absent.
func formFile(c *fiber.Ctx, field string) *multipart.FileHeader {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return fh
}
