package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCompanyNotFound  = errors.New("company not found")
	ErrDuplicateCompany = errors.New("company with this email already exists")
)

// Company is an outreach recipient. Only name, email, and position are
// required; the rest are optional descriptive fields used as placeholder
// sources when rendering messages.
type Company struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Position string `json:"position"`

	Industry      string `json:"industry,omitempty"`
	Website       string `json:"website,omitempty"`
	ContactPerson string `json:"contact_person,omitempty"`
	Status        string `json:"status,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	Size          string `json:"size,omitempty"`
	Description   string `json:"description,omitempty"`
	Values        string `json:"values,omitempty"`

	// Job details.
	JobType          string     `json:"job_type,omitempty"`
	Location         string     `json:"location,omitempty"`
	RemotePolicy     string     `json:"remote_policy,omitempty"`
	SalaryRange      string     `json:"salary_range,omitempty"`
	ExperienceLevel  string     `json:"experience_level,omitempty"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	StartDate        *time.Time `json:"start_date,omitempty"`
	JobDescription   string     `json:"job_description,omitempty"`
	Responsibilities string     `json:"responsibilities,omitempty"`
	RequiredSkills   string     `json:"required_skills,omitempty"`
	PreferredSkills  string     `json:"preferred_skills,omitempty"`
	TeamName         string     `json:"team_name,omitempty"`

	// Contact information.
	ContactTitle      string `json:"contact_title,omitempty"`
	ContactDepartment string `json:"contact_department,omitempty"`
	HiringManager     string `json:"hiring_manager,omitempty"`
	RecruiterName     string `json:"recruiter_name,omitempty"`
	HRManager         string `json:"hr_manager,omitempty"`

	// Application tracking.
	ApplicationID string `json:"application_id,omitempty"`
	JobReference  string `json:"job_reference,omitempty"`
	Source        string `json:"source,omitempty"`
	ReferredBy    string `json:"referred_by,omitempty"`

	// Company culture.
	Culture               string `json:"culture,omitempty"`
	Mission               string `json:"mission,omitempty"`
	Benefits              string `json:"benefits,omitempty"`
	WorkEnvironment       string `json:"work_environment,omitempty"`
	LearningOpportunities string `json:"learning_opportunities,omitempty"`

	// Project information.
	ProjectName         string `json:"project_name,omitempty"`
	ProjectDescription  string `json:"project_description,omitempty"`
	ProjectDuration     string `json:"project_duration,omitempty"`
	ProjectRole         string `json:"project_role,omitempty"`
	ProjectTechnologies string `json:"project_technologies,omitempty"`
	ProjectOutcome      string `json:"project_outcome,omitempty"`

	// Personalization.
	PersonalConnection string `json:"personal_connection,omitempty"`
	SharedConnection   string `json:"shared_connection,omitempty"`
	RecentNews         string `json:"recent_news,omitempty"`
	ProductUsed        string `json:"product_used,omitempty"`
	ServiceAppreciated string `json:"service_appreciated,omitempty"`

	// Custom free-text sections.
	CustomSection1 string `json:"custom_section1,omitempty"`
	CustomSection2 string `json:"custom_section2,omitempty"`
	CustomSection3 string `json:"custom_section3,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompanyRepository is the persistence port for recipients. All lookups are
// scoped to the owning user; records owned by others are never returned.
type CompanyRepository interface {
	Create(ctx context.Context, c *Company) error
	GetByID(ctx context.Context, id, userID string) (*Company, error)
	// GetByIDs returns the companies that exist among ids, in no particular
	// order. IDs that resolve to nothing are simply absent from the result.
	GetByIDs(ctx context.Context, ids []string, userID string) ([]*Company, error)
	ListByUser(ctx context.Context, userID string) ([]*Company, error)
}
