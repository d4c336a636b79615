package jobValidator

import (
	"careerlink/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateJobRequest struct {
	Title        string `json:"title" validate:"required,min=3,max=200"`
	CompanyName  string `json:"company_name" validate:"required,max=200"`
	LogoURL      string `json:"logo_url" validate:"omitempty,max=500"`
	Location     string `json:"location" validate:"max=200"`
	JobType      string `json:"job_type" validate:"max=50"`
	Duration     string `json:"duration" validate:"max=50"`
	SalaryRange  string `json:"salary_range" validate:"max=100"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
}

func CreateJob() fiber.Handler {
	return validators.Body("validatedJob", func(r *CreateJobRequest) {
		validators.Trim(&r.Title, &r.CompanyName, &r.LogoURL, &r.Location, &r.JobType, &r.Duration, &r.SalaryRange)
	})
}

type ListJobsRequest struct {
	Search string `query:"search" validate:"max=100"`
}

func ListJobs() fiber.Handler {
	return validators.Query("validatedJobList", func(r *ListJobsRequest) {
		validators.Trim(&r.Search)
	})
}

func JobID() fiber.Handler {
	return validators.ParamID("id", "jobID")
}

func ApplicationID() fiber.Handler {
	return validators.ParamID("applicationId", "applicationID")
}
