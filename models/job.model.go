package models

type Job struct {
	Base
	Title        string `json:"title" gorm:"not null"`
	CompanyName  string `json:"company_name" gorm:"index"`
	LogoURL      string `json:"logo_url"`
	Location     string `json:"location"`
	JobType      string `json:"job_type"`
	Duration     string `json:"duration"`
	SalaryRange  string `json:"salary_range"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	IsActive     bool   `json:"is_active" gorm:"index;default:true"`
}

const (
	ApplicationSubmitted = "Submitted"
	ApplicationReviewed  = "Reviewed"
	ApplicationAccepted  = "Accepted"
	ApplicationRejected  = "Rejected"
)

// Application is one user's application to one job.
type Application struct {
	Base
	UserID                  uint   `json:"user_id" gorm:"uniqueIndex:idx_applications_user_job;not null"`
	JobID                   uint   `json:"job_id" gorm:"uniqueIndex:idx_applications_user_job;not null"`
	Status                  string `json:"status" gorm:"size:16;default:'Submitted'"`
	CVURL                   string `json:"cv_url" gorm:"column:cv_url"`
	RecommendationLetterURL string `json:"recommendation_letter_url"`
	PortfolioURL            string `json:"portfolio_url"`
	Job                     *Job   `json:"job,omitempty" gorm:"foreignKey:JobID"`
}
