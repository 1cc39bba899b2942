package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"resumemailer/internal/domain"
)

type dispatchService struct {
	users      domain.UserRepository
	companies  domain.CompanyRepository
	templates  domain.TemplateRepository
	resumes    domain.ResumeRepository
	history    domain.HistoryRepository
	files      domain.FileStore
	transports domain.TransportResolver
	throttle   *Throttle
	logger     *slog.Logger
	now        func() time.Time
}

// NewDispatchService creates the email dispatch core. The throttle's interval
// is the mandatory pause between successive sends in a batch.
func NewDispatchService(
	users domain.UserRepository,
	companies domain.CompanyRepository,
	templates domain.TemplateRepository,
	resumes domain.ResumeRepository,
	history domain.HistoryRepository,
	files domain.FileStore,
	transports domain.TransportResolver,
	throttle *Throttle,
	logger *slog.Logger,
) domain.DispatchService {
	return &dispatchService{
		users:      users,
		companies:  companies,
		templates:  templates,
		resumes:    resumes,
		history:    history,
		files:      files,
		transports: transports,
		throttle:   throttle,
		logger:     logger,
		now:        time.Now,
	}
}

// DispatchBatch sends one rendered message per resolved company, strictly in
// the order the IDs were supplied, pausing after every recipient. A failed
// send is recorded and the loop continues; only pre-loop validation and
// lookup problems abort the whole batch. Companies that don't resolve are
// excluded from both the attempt and the result.
func (s *dispatchService) DispatchBatch(ctx context.Context, userID string, req *domain.BatchRequest) (*domain.BatchResult, error) {
	if len(req.CompanyIDs) == 0 {
		return nil, domain.ErrNoRecipients
	}
	if len(req.CompanyIDs) > domain.MaxBatchRecipients {
		return nil, domain.ErrTooManyRecipients
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	resume, err := s.resolveResume(ctx, req.ResumeID)
	if err != nil {
		return nil, err
	}

	tmpl, err := s.resolveTemplate(ctx, req.TemplateID)
	if err != nil {
		return nil, err
	}

	found, err := s.companies.GetByIDs(ctx, req.CompanyIDs, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load companies: %w", err)
	}
	recipients := orderByRequest(req.CompanyIDs, found)
	if len(recipients) == 0 {
		return nil, domain.ErrNoCompaniesFound
	}

	// Transport and from-address are fixed for the whole batch.
	mailer, from := s.transports.Resolve(ctx, user)

	ov := domain.RenderOverrides{Subject: req.CustomSubject, Message: req.CustomMessage}
	result := &domain.BatchResult{
		Total:   len(recipients),
		Results: make([]domain.RecipientResult, 0, len(recipients)),
	}

	for _, company := range recipients {
		subject, body := RenderEmail(tmpl, company, user, ov, s.now())

		msg := &domain.Message{From: from, To: company.Email, Subject: subject, HTML: body}
		if resume != nil {
			msg.Attachments = []domain.Attachment{{Filename: resume.OriginalName, Path: resume.FilePath}}
		}

		if sendErr := mailer.Send(ctx, msg); sendErr != nil {
			s.logger.Error("failed to send email",
				"company", company.Name, "email", company.Email, "error", sendErr)
			result.FailedCount++
			s.appendHistory(ctx, userID, company, req, domain.StatusFailed, sendErr.Error())
			result.Results = append(result.Results, domain.RecipientResult{
				Company: company.Name,
				Email:   company.Email,
				Status:  "failed",
				Error:   sendErr.Error(),
			})
		} else {
			result.SentCount++
			s.appendHistory(ctx, userID, company, req, domain.StatusSent, "")
			result.Results = append(result.Results, domain.RecipientResult{
				Company: company.Name,
				Email:   company.Email,
				Status:  "success",
			})
		}

		if err := s.throttle.Pause(ctx); err != nil {
			return result, err
		}
	}

	return result, nil
}

// SendTest renders against a fixture company and sends a single message to
// the given address. Nothing is written to history.
func (s *dispatchService) SendTest(ctx context.Context, userID string, req *domain.TestSendRequest) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	resumeID := req.ResumeID
	resume, err := s.resolveResume(ctx, &resumeID)
	if err != nil {
		return err
	}

	tmpl, err := s.resolveTemplate(ctx, req.TemplateID)
	if err != nil {
		return err
	}

	mailer, from := s.transports.Resolve(ctx, user)

	testCompany := &domain.Company{
		Name:          "Test Company",
		Position:      "Test Position",
		Industry:      "Technology",
		ContactPerson: "Test Hiring Manager",
	}
	ov := domain.RenderOverrides{Subject: req.CustomSubject, Message: req.CustomMessage}
	subject, body := RenderEmail(tmpl, testCompany, user, ov, s.now())
	if req.CustomMessage == nil {
		body = strings.ReplaceAll(body, "\n", "<br>")
	}

	msg := &domain.Message{
		From:    from,
		To:      req.Email,
		Subject: "[TEST] " + subject,
		HTML:    body,
	}
	if resume != nil {
		msg.Attachments = []domain.Attachment{{Filename: resume.OriginalName, Path: resume.FilePath}}
	}
	if err := mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send test email: %w", err)
	}
	return nil
}

// resolveResume loads and validates the attachment reference. A nil id means
// no attachment. The file must exist on the store before any send begins.
func (s *dispatchService) resolveResume(ctx context.Context, id *string) (*domain.Resume, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	resume, err := s.resumes.GetByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	if !s.files.Exists(resume.FilePath) {
		return nil, domain.ErrResumeFileMissing
	}
	return resume, nil
}

// resolveTemplate loads the template reference. A missing template renders
// with defaults; any other lookup failure aborts the batch.
func (s *dispatchService) resolveTemplate(ctx context.Context, id *string) (*domain.EmailTemplate, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	tmpl, err := s.templates.GetByID(ctx, *id)
	if err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return tmpl, nil
}

func (s *dispatchService) appendHistory(ctx context.Context, userID string, company *domain.Company, req *domain.BatchRequest, status, errorMessage string) {
	record := &domain.EmailHistory{
		UserID:       userID,
		CompanyID:    company.ID,
		ResumeID:     req.ResumeID,
		TemplateID:   req.TemplateID,
		Status:       status,
		SentAt:       s.now(),
		ErrorMessage: errorMessage,
		Email:        company.Email,
		CompanyName:  company.Name,
		Position:     company.Position,
	}
	if err := s.history.Create(ctx, record); err != nil {
		s.logger.Warn("failed to record email history",
			"company", company.Name, "status", status, "error", err)
	}
}

// orderByRequest returns the resolved companies in the order their IDs were
// supplied, collapsing duplicates and dropping IDs that resolved to nothing.
func orderByRequest(ids []string, companies []*domain.Company) []*domain.Company {
	byID := make(map[string]*domain.Company, len(companies))
	for _, c := range companies {
		byID[c.ID] = c
	}
	ordered := make([]*domain.Company, 0, len(companies))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered
}
