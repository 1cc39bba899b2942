package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"resumemailer/internal/domain"
)

// companyColumns is the scan/insert order shared by every company query.
// "values" must stay quoted: it is a fully reserved word in PostgreSQL.
const companyColumns = `
	id, user_id, name, email, position, industry, website, contact_person,
	status, phone, address, size, description, "values", job_type, location,
	remote_policy, salary_range, experience_level, deadline, start_date,
	job_description, responsibilities, required_skills, preferred_skills,
	team_name, contact_title, contact_department, hiring_manager,
	recruiter_name, hr_manager, application_id, job_reference, source,
	referred_by, culture, mission, benefits, work_environment,
	learning_opportunities, project_name, project_description,
	project_duration, project_role, project_technologies, project_outcome,
	personal_connection, shared_connection, recent_news, product_used,
	service_appreciated, custom_section1, custom_section2, custom_section3,
	created_at, updated_at`

type companyRepository struct {
	DB *sql.DB
}

func NewCompanyRepository(db *sql.DB) domain.CompanyRepository {
	return &companyRepository{DB: db}
}

func (r *companyRepository) Create(ctx context.Context, c *domain.Company) error {
	query := `
		INSERT INTO companies (
			user_id, name, email, position, industry, website, contact_person,
			status, phone, address, size, description, "values", job_type, location,
			remote_policy, salary_range, experience_level, deadline, start_date,
			job_description, responsibilities, required_skills, preferred_skills,
			team_name, contact_title, contact_department, hiring_manager,
			recruiter_name, hr_manager, application_id, job_reference, source,
			referred_by, culture, mission, benefits, work_environment,
			learning_opportunities, project_name, project_description,
			project_duration, project_role, project_technologies, project_outcome,
			personal_connection, shared_connection, recent_news, product_used,
			service_appreciated, custom_section1, custom_section2, custom_section3,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28,
			$29, $30, $31, $32, $33, $34, $35, $36, $37, $38, $39, $40, $41,
			$42, $43, $44, $45, $46, $47, $48, $49, $50, $51, $52, $53, $54, $55
		)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		c.UserID, c.Name, c.Email, c.Position, c.Industry, c.Website,
		c.ContactPerson, c.Status, c.Phone, c.Address, c.Size, c.Description,
		c.Values, c.JobType, c.Location, c.RemotePolicy, c.SalaryRange,
		c.ExperienceLevel, c.Deadline, c.StartDate, c.JobDescription,
		c.Responsibilities, c.RequiredSkills, c.PreferredSkills, c.TeamName,
		c.ContactTitle, c.ContactDepartment, c.HiringManager, c.RecruiterName,
		c.HRManager, c.ApplicationID, c.JobReference, c.Source, c.ReferredBy,
		c.Culture, c.Mission, c.Benefits, c.WorkEnvironment,
		c.LearningOpportunities, c.ProjectName, c.ProjectDescription,
		c.ProjectDuration, c.ProjectRole, c.ProjectTechnologies,
		c.ProjectOutcome, c.PersonalConnection, c.SharedConnection,
		c.RecentNews, c.ProductUsed, c.ServiceAppreciated, c.CustomSection1,
		c.CustomSection2, c.CustomSection3, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicateCompany
		}
		return err
	}
	return nil
}

func (r *companyRepository) GetByID(ctx context.Context, id, userID string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1 AND user_id = $2`
	c, err := scanCompany(r.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *companyRepository) GetByIDs(ctx context.Context, ids []string, userID string) ([]*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = ANY($1) AND user_id = $2`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCompanies(rows)
}

func (r *companyRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCompanies(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*domain.Company, error) {
	c := &domain.Company{}
	err := row.Scan(
		&c.ID, &c.UserID, &c.Name, &c.Email, &c.Position, &c.Industry,
		&c.Website, &c.ContactPerson, &c.Status, &c.Phone, &c.Address, &c.Size,
		&c.Description, &c.Values, &c.JobType, &c.Location, &c.RemotePolicy,
		&c.SalaryRange, &c.ExperienceLevel, &c.Deadline, &c.StartDate,
		&c.JobDescription, &c.Responsibilities, &c.RequiredSkills,
		&c.PreferredSkills, &c.TeamName, &c.ContactTitle, &c.ContactDepartment,
		&c.HiringManager, &c.RecruiterName, &c.HRManager, &c.ApplicationID,
		&c.JobReference, &c.Source, &c.ReferredBy, &c.Culture, &c.Mission,
		&c.Benefits, &c.WorkEnvironment, &c.LearningOpportunities,
		&c.ProjectName, &c.ProjectDescription, &c.ProjectDuration,
		&c.ProjectRole, &c.ProjectTechnologies, &c.ProjectOutcome,
		&c.PersonalConnection, &c.SharedConnection, &c.RecentNews,
		&c.ProductUsed, &c.ServiceAppreciated, &c.CustomSection1,
		&c.CustomSection2, &c.CustomSection3, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func collectCompanies(rows *sql.Rows) ([]*domain.Company, error) {
	var companies []*domain.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}
