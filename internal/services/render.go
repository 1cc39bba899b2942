package services

import (
	"math"
	"strconv"
	"strings"
	"time"

	"resumemailer/internal/domain"
)

const (
	defaultSubject = "Job Application"
	dateLayout     = "January 2, 2006" // e.g. "August 30, 2026"
)

// renderContext bundles the inputs a token resolver may draw from. company and
// user are never nil; subject is the pre-substitution subject text.
type renderContext struct {
	company *domain.Company
	user    *domain.User
	subject string
	now     time.Time
}

type placeholder struct {
	token   string
	resolve func(*renderContext) string
}

// RenderEmail renders subject and HTML body for one recipient. It is a pure
// function of its inputs: overrides win over template values, which win over
// literal defaults, and every placeholder token resolves to a field value or
// its documented default. Tokens are matched as fixed literal strings and
// replaced globally, in table order, so values substituted early may
// themselves contain later tokens. When overrides.Message is set the body is
// manually typed text and its line breaks become <br> tags.
func RenderEmail(tmpl *domain.EmailTemplate, company *domain.Company, user *domain.User, ov domain.RenderOverrides, now time.Time) (subject, body string) {
	if company == nil {
		company = &domain.Company{}
	}
	if user == nil {
		user = &domain.User{}
	}

	switch {
	case ov.Subject != nil:
		subject = *ov.Subject
	case tmpl != nil:
		subject = tmpl.Subject
	default:
		subject = defaultSubject
	}
	switch {
	case ov.Message != nil:
		body = *ov.Message
	case tmpl != nil:
		body = tmpl.HTMLContent
	}

	rc := &renderContext{company: company, user: user, subject: subject, now: now}
	for _, p := range placeholderTable {
		val := p.resolve(rc)
		subject = strings.ReplaceAll(subject, p.token, val)
		body = strings.ReplaceAll(body, p.token, val)
	}

	if ov.Message != nil {
		body = strings.ReplaceAll(body, "\n", "<br>")
	}
	return subject, body
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

// orDefault substitutes def for empty field values.
func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func firstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return name
	}
	return fields[0]
}

func lastName(name string) string {
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return ""
	}
	return strings.Join(fields[1:], " ")
}

// daysSinceApplication is the floor of whole days between the user's last
// application date (or now, when unset) and now.
func daysSinceApplication(u *domain.User, now time.Time) string {
	applied := now
	if u.LastApplicationDate != nil {
		applied = *u.LastApplicationDate
	}
	days := int(math.Floor(now.Sub(applied).Hours() / 24))
	return strconv.Itoa(days)
}

// placeholderTable is the closed set of placeholder tokens. Order matters:
// substitution is sequential and the original table order is part of the
// rendering contract.
var placeholderTable = []placeholder{
	// Company information
	{"{companyName}", func(rc *renderContext) string { return rc.company.Name }},
	{"{companyEmail}", func(rc *renderContext) string { return rc.company.Email }},
	{"{companyPhone}", func(rc *renderContext) string { return rc.company.Phone }},
	{"{companyWebsite}", func(rc *renderContext) string { return rc.company.Website }},
	{"{companyAddress}", func(rc *renderContext) string { return rc.company.Address }},
	{"{companySize}", func(rc *renderContext) string { return rc.company.Size }},
	{"{industry}", func(rc *renderContext) string { return rc.company.Industry }},
	{"{companyDescription}", func(rc *renderContext) string { return rc.company.Description }},
	{"{companyValues}", func(rc *renderContext) string { return rc.company.Values }},

	// Job information
	{"{position}", func(rc *renderContext) string { return rc.company.Position }},
	{"{jobTitle}", func(rc *renderContext) string { return rc.company.Position }}, // alias for position
	{"{jobType}", func(rc *renderContext) string { return rc.company.JobType }},
	{"{jobLocation}", func(rc *renderContext) string { return rc.company.Location }},
	{"{remotePolicy}", func(rc *renderContext) string { return rc.company.RemotePolicy }},
	{"{salaryRange}", func(rc *renderContext) string { return rc.company.SalaryRange }},
	{"{experienceLevel}", func(rc *renderContext) string { return rc.company.ExperienceLevel }},
	{"{applicationDeadline}", func(rc *renderContext) string { return formatDatePtr(rc.company.Deadline) }},
	{"{startDate}", func(rc *renderContext) string { return formatDatePtr(rc.company.StartDate) }},
	{"{jobDescription}", func(rc *renderContext) string { return rc.company.JobDescription }},
	{"{keyResponsibilities}", func(rc *renderContext) string { return rc.company.Responsibilities }},
	{"{requiredSkills}", func(rc *renderContext) string { return rc.company.RequiredSkills }},
	{"{preferredSkills}", func(rc *renderContext) string { return rc.company.PreferredSkills }},
	{"{teamName}", func(rc *renderContext) string { return rc.company.TeamName }},

	// Personal information
	{"{userName}", func(rc *renderContext) string { return rc.user.Name }},
	{"{userFirstName}", func(rc *renderContext) string { return firstName(rc.user.Name) }},
	{"{userLastName}", func(rc *renderContext) string { return lastName(rc.user.Name) }},
	{"{userEmail}", func(rc *renderContext) string { return rc.user.Email }},
	{"{userPhone}", func(rc *renderContext) string { return rc.user.Phone }},
	{"{userLocation}", func(rc *renderContext) string { return rc.user.Location }},
	{"{userWebsite}", func(rc *renderContext) string { return rc.user.Website }},
	{"{userLinkedIn}", func(rc *renderContext) string { return rc.user.LinkedIn }},
	{"{userGitHub}", func(rc *renderContext) string { return rc.user.GitHub }},
	{"{userTitle}", func(rc *renderContext) string { return rc.user.Title }},
	{"{userExperience}", func(rc *renderContext) string { return rc.user.Experience }},
	{"{userEducation}", func(rc *renderContext) string { return rc.user.Education }},
	{"{userSkills}", func(rc *renderContext) string { return rc.user.Skills }},
	{"{userAchievements}", func(rc *renderContext) string { return rc.user.Achievements }},

	// Contact information
	{"{contactPerson}", func(rc *renderContext) string { return orDefault(rc.company.ContactPerson, "Hiring Team") }},
	{"{contactTitle}", func(rc *renderContext) string { return rc.company.ContactTitle }},
	{"{contactDepartment}", func(rc *renderContext) string { return rc.company.ContactDepartment }},
	{"{hiringManager}", func(rc *renderContext) string { return rc.company.HiringManager }},
	{"{recruiterName}", func(rc *renderContext) string { return rc.company.RecruiterName }},
	{"{hrManager}", func(rc *renderContext) string { return rc.company.HRManager }},

	// Application specific
	{"{applicationDate}", func(rc *renderContext) string { return formatDate(rc.now) }},
	{"{applicationId}", func(rc *renderContext) string { return rc.company.ApplicationID }},
	{"{jobReference}", func(rc *renderContext) string { return rc.company.JobReference }},
	{"{source}", func(rc *renderContext) string { return rc.company.Source }},
	{"{referredBy}", func(rc *renderContext) string { return rc.company.ReferredBy }},

	// Company culture & benefits
	{"{companyCulture}", func(rc *renderContext) string { return rc.company.Culture }},
	{"{companyMission}", func(rc *renderContext) string { return rc.company.Mission }},
	{"{companyBenefits}", func(rc *renderContext) string { return rc.company.Benefits }},
	{"{workEnvironment}", func(rc *renderContext) string { return rc.company.WorkEnvironment }},
	{"{learningOpportunities}", func(rc *renderContext) string { return rc.company.LearningOpportunities }},

	// Dynamic content
	{"{currentDate}", func(rc *renderContext) string { return formatDate(rc.now) }},
	{"{currentYear}", func(rc *renderContext) string { return strconv.Itoa(rc.now.Year()) }},
	{"{daysSinceApplication}", func(rc *renderContext) string { return daysSinceApplication(rc.user, rc.now) }},
	{"{nextWeek}", func(rc *renderContext) string { return formatDate(rc.now.Add(7 * 24 * time.Hour)) }},
	{"{nextMonth}", func(rc *renderContext) string { return formatDate(rc.now.Add(30 * 24 * time.Hour)) }},
	{"{followUpNumber}", func(rc *renderContext) string { return "1st" }},

	// Project specific
	{"{projectName}", func(rc *renderContext) string { return rc.company.ProjectName }},
	{"{projectDescription}", func(rc *renderContext) string { return rc.company.ProjectDescription }},
	{"{projectDuration}", func(rc *renderContext) string { return rc.company.ProjectDuration }},
	{"{projectRole}", func(rc *renderContext) string { return rc.company.ProjectRole }},
	{"{projectTechnologies}", func(rc *renderContext) string { return rc.company.ProjectTechnologies }},
	{"{projectOutcome}", func(rc *renderContext) string { return rc.company.ProjectOutcome }},

	// Social proof & metrics
	{"{metricImprovement}", func(rc *renderContext) string { return orDefault(rc.user.MetricImprovement, "30%") }},
	{"{achievementPercentage}", func(rc *renderContext) string { return orDefault(rc.user.AchievementPercentage, "95%") }},
	{"{projectBudget}", func(rc *renderContext) string { return orDefault(rc.user.ProjectBudget, "$50,000") }},
	{"{teamSize}", func(rc *renderContext) string { return orDefault(rc.user.TeamSize, "5") }},
	{"{revenueImpact}", func(rc *renderContext) string { return orDefault(rc.user.RevenueImpact, "$100,000") }},
	{"{costSavings}", func(rc *renderContext) string { return orDefault(rc.user.CostSavings, "$25,000") }},
	{"{efficiencyGain}", func(rc *renderContext) string { return orDefault(rc.user.EfficiencyGain, "40%") }},

	// Industry specific
	{"{certifications}", func(rc *renderContext) string { return rc.user.Certifications }},
	{"{toolsUsed}", func(rc *renderContext) string { return rc.user.ToolsUsed }},
	{"{methodologies}", func(rc *renderContext) string { return rc.user.Methodologies }},
	{"{complianceStandards}", func(rc *renderContext) string { return rc.user.ComplianceStandards }},

	// Personalization
	{"{personalConnection}", func(rc *renderContext) string { return rc.company.PersonalConnection }},
	{"{sharedConnection}", func(rc *renderContext) string { return rc.company.SharedConnection }},
	{"{companyNews}", func(rc *renderContext) string { return rc.company.RecentNews }},
	{"{productUsed}", func(rc *renderContext) string { return rc.company.ProductUsed }},
	{"{serviceAppreciated}", func(rc *renderContext) string { return rc.company.ServiceAppreciated }},

	// Customizable sections
	{"{customSection1}", func(rc *renderContext) string { return rc.company.CustomSection1 }},
	{"{customSection2}", func(rc *renderContext) string { return rc.company.CustomSection2 }},
	{"{customSection3}", func(rc *renderContext) string { return rc.company.CustomSection3 }},
	{"{customAchievement}", func(rc *renderContext) string { return rc.user.CustomAchievement }},
	{"{customSkill}", func(rc *renderContext) string { return rc.user.CustomSkill }},

	// Email specific
	{"{emailSubject}", func(rc *renderContext) string { return rc.subject }},
	{"{emailOpening}", func(rc *renderContext) string { return "Dear " + orDefault(rc.company.ContactPerson, "Hiring Team") }},
	{"{emailClosing}", func(rc *renderContext) string { return "Best regards" }},
	{"{callToAction}", func(rc *renderContext) string { return "Looking forward to hearing from you" }},
}
