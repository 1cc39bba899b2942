package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"resumemailer/internal/domain"
)

const userColumns = `
	id, name, email, password_hash, phone, location, website, linkedin, github,
	title, experience, education, skills, achievements, metric_improvement,
	achievement_percentage, project_budget, team_size, revenue_impact,
	cost_savings, efficiency_gain, certifications, tools_used, methodologies,
	compliance_standards, custom_achievement, custom_skill,
	last_application_date, created_at, updated_at`

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, u.Name, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, query, email)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	u := &domain.User{}
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.Location,
		&u.Website, &u.LinkedIn, &u.GitHub, &u.Title, &u.Experience,
		&u.Education, &u.Skills, &u.Achievements, &u.MetricImprovement,
		&u.AchievementPercentage, &u.ProjectBudget, &u.TeamSize,
		&u.RevenueImpact, &u.CostSavings, &u.EfficiencyGain, &u.Certifications,
		&u.ToolsUsed, &u.Methodologies, &u.ComplianceStandards,
		&u.CustomAchievement, &u.CustomSkill, &u.LastApplicationDate,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
