package services

import (
	"context"
	"fmt"

	"resumemailer/internal/domain"
)

// Resend re-attempts a single previously failed send. It resolves the
// transport afresh, re-renders from the record's template and its denormalized
// recipient snapshot, and sends exactly once. On success the same record
// flips to sent with its error cleared; on failure the record keeps its
// failed status but the error message and timestamp are refreshed so the
// audit trail reflects the latest attempt.
func (s *dispatchService) Resend(ctx context.Context, userID, historyID string) error {
	record, err := s.history.GetByID(ctx, historyID, userID)
	if err != nil {
		return err
	}
	if record.Status != domain.StatusFailed {
		return domain.ErrHistoryNotResendable
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	tmpl, err := s.resolveTemplate(ctx, record.TemplateID)
	if err != nil {
		return err
	}

	mailer, from := s.transports.Resolve(ctx, user)

	// Render against the denormalized snapshot captured at the original
	// attempt, not the live company record.
	snapshot := &domain.Company{
		Name:     record.CompanyName,
		Email:    record.Email,
		Position: record.Position,
	}
	subject, body := RenderEmail(tmpl, snapshot, user, domain.RenderOverrides{}, s.now())

	msg := &domain.Message{From: from, To: record.Email, Subject: subject, HTML: body}
	if record.ResumeID != nil {
		resume, rerr := s.resumes.GetByID(ctx, *record.ResumeID)
		if rerr == nil && s.files.Exists(resume.FilePath) {
			msg.Attachments = []domain.Attachment{{Filename: resume.OriginalName, Path: resume.FilePath}}
		} else {
			s.logger.Warn("resending without original attachment",
				"history_id", record.ID, "resume_id", *record.ResumeID)
		}
	}

	if sendErr := mailer.Send(ctx, msg); sendErr != nil {
		if uerr := s.history.UpdateResult(ctx, record.ID, domain.StatusFailed, sendErr.Error(), s.now()); uerr != nil {
			s.logger.Warn("failed to update history after resend failure",
				"history_id", record.ID, "error", uerr)
		}
		return fmt.Errorf("failed to resend email: %w", sendErr)
	}

	if err := s.history.UpdateResult(ctx, record.ID, domain.StatusSent, "", s.now()); err != nil {
		return fmt.Errorf("failed to update history after resend: %w", err)
	}
	return nil
}
