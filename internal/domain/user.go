package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// User is a sending identity. Everything beyond name/email/password is an
// optional professional-profile field consumed by the placeholder renderer.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`

	Phone        string `json:"phone,omitempty"`
	Location     string `json:"location,omitempty"`
	Website      string `json:"website,omitempty"`
	LinkedIn     string `json:"linkedin,omitempty"`
	GitHub       string `json:"github,omitempty"`
	Title        string `json:"title,omitempty"`
	Experience   string `json:"experience,omitempty"`
	Education    string `json:"education,omitempty"`
	Skills       string `json:"skills,omitempty"`
	Achievements string `json:"achievements,omitempty"`

	// Social-proof metrics. Empty values fall back to illustrative defaults
	// at render time.
	MetricImprovement     string `json:"metric_improvement,omitempty"`
	AchievementPercentage string `json:"achievement_percentage,omitempty"`
	ProjectBudget         string `json:"project_budget,omitempty"`
	TeamSize              string `json:"team_size,omitempty"`
	RevenueImpact         string `json:"revenue_impact,omitempty"`
	CostSavings           string `json:"cost_savings,omitempty"`
	EfficiencyGain        string `json:"efficiency_gain,omitempty"`

	Certifications      string `json:"certifications,omitempty"`
	ToolsUsed           string `json:"tools_used,omitempty"`
	Methodologies       string `json:"methodologies,omitempty"`
	ComplianceStandards string `json:"compliance_standards,omitempty"`

	CustomAchievement string `json:"custom_achievement,omitempty"`
	CustomSkill       string `json:"custom_skill,omitempty"`

	LastApplicationDate *time.Time `json:"last_application_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserRepository is the persistence port for sending identities.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}
