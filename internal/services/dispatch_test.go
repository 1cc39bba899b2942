package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumemailer/internal/domain"
)

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byID map[string]*domain.User
	err  error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{byID: make(map[string]*domain.User)}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.err != nil {
		return f.err
	}
	u.ID = fmt.Sprintf("user-%d", len(f.byID)+1)
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

// fakeCompanyRepo is an in-memory CompanyRepository. GetByIDs deliberately
// returns matches in reverse request order so tests catch ordering bugs.
type fakeCompanyRepo struct {
	byID map[string]*domain.Company
	err  error
}

func newFakeCompanyRepo(companies ...*domain.Company) *fakeCompanyRepo {
	f := &fakeCompanyRepo{byID: make(map[string]*domain.Company)}
	for _, c := range companies {
		f.byID[c.ID] = c
	}
	return f
}

func (f *fakeCompanyRepo) Create(ctx context.Context, c *domain.Company) error {
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCompanyRepo) GetByID(ctx context.Context, id, userID string) (*domain.Company, error) {
	if c, ok := f.byID[id]; ok && c.UserID == userID {
		return c, nil
	}
	return nil, domain.ErrCompanyNotFound
}

func (f *fakeCompanyRepo) GetByIDs(ctx context.Context, ids []string, userID string) ([]*domain.Company, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Company
	for i := len(ids) - 1; i >= 0; i-- {
		if c, ok := f.byID[ids[i]]; ok && c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCompanyRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Company, error) {
	return nil, nil
}

// fakeTemplateRepo is an in-memory TemplateRepository.
type fakeTemplateRepo struct {
	byID map[string]*domain.EmailTemplate
	err  error
}

func newFakeTemplateRepo(templates ...*domain.EmailTemplate) *fakeTemplateRepo {
	f := &fakeTemplateRepo{byID: make(map[string]*domain.EmailTemplate)}
	for _, tm := range templates {
		f.byID[tm.ID] = tm
	}
	return f
}

func (f *fakeTemplateRepo) Create(ctx context.Context, t *domain.EmailTemplate) error { return nil }

func (f *fakeTemplateRepo) GetByID(ctx context.Context, id string) (*domain.EmailTemplate, error) {
	if f.err != nil {
		return nil, f.err
	}
	if t, ok := f.byID[id]; ok {
		return t, nil
	}
	return nil, domain.ErrTemplateNotFound
}

func (f *fakeTemplateRepo) ListByUser(ctx context.Context, userID string) ([]*domain.EmailTemplate, error) {
	return nil, nil
}

// fakeResumeRepo is an in-memory ResumeRepository.
type fakeResumeRepo struct {
	byID map[string]*domain.Resume
}

func newFakeResumeRepo(resumes ...*domain.Resume) *fakeResumeRepo {
	f := &fakeResumeRepo{byID: make(map[string]*domain.Resume)}
	for _, r := range resumes {
		f.byID[r.ID] = r
	}
	return f
}

func (f *fakeResumeRepo) Create(ctx context.Context, r *domain.Resume) error { return nil }

func (f *fakeResumeRepo) GetByID(ctx context.Context, id string) (*domain.Resume, error) {
	if r, ok := f.byID[id]; ok {
		return r, nil
	}
	return nil, domain.ErrResumeNotFound
}

func (f *fakeResumeRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Resume, error) {
	return nil, nil
}

// fakeHistoryRepo appends created records and tracks UpdateResult calls.
type fakeHistoryRepo struct {
	records   []*domain.EmailHistory
	createErr error
	updates   []historyUpdate
	updateErr error
}

type historyUpdate struct {
	id           string
	status       string
	errorMessage string
	sentAt       time.Time
}

func (f *fakeHistoryRepo) Create(ctx context.Context, h *domain.EmailHistory) error {
	if f.createErr != nil {
		return f.createErr
	}
	h.ID = fmt.Sprintf("hist-%d", len(f.records)+1)
	f.records = append(f.records, h)
	return nil
}

func (f *fakeHistoryRepo) GetByID(ctx context.Context, id, userID string) (*domain.EmailHistory, error) {
	for _, h := range f.records {
		if h.ID == id && h.UserID == userID {
			return h, nil
		}
	}
	return nil, domain.ErrHistoryNotFound
}

func (f *fakeHistoryRepo) List(ctx context.Context, userID string, filter domain.HistoryFilter) ([]*domain.EmailHistory, int, error) {
	return f.records, len(f.records), nil
}

func (f *fakeHistoryRepo) UpdateResult(ctx context.Context, id, status, errorMessage string, sentAt time.Time) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, historyUpdate{id: id, status: status, errorMessage: errorMessage, sentAt: sentAt})
	for _, h := range f.records {
		if h.ID == id {
			h.Status = status
			h.ErrorMessage = errorMessage
			h.SentAt = sentAt
		}
	}
	return nil
}

func (f *fakeHistoryRepo) StatusCounts(ctx context.Context, userID string, since time.Time) (map[string]int, error) {
	return nil, nil
}

func (f *fakeHistoryRepo) DailyCounts(ctx context.Context, userID string, since time.Time) ([]domain.DailyStat, error) {
	return nil, nil
}

// fakeFileStore knows a fixed set of existing paths.
type fakeFileStore struct {
	existing map[string]bool
}

func (f *fakeFileStore) Exists(path string) bool { return f.existing[path] }

// fakeResolver returns a fixed mailer and from-address.
type fakeResolver struct {
	mailer domain.Mailer
	from   domain.Address
	calls  int
}

func (f *fakeResolver) Resolve(ctx context.Context, user *domain.User) (domain.Mailer, domain.Address) {
	f.calls++
	return f.mailer, f.from
}

// dispatchFixture bundles a fully wired dispatch service with its fakes.
type dispatchFixture struct {
	svc       domain.DispatchService
	users     *fakeUserRepo
	companies *fakeCompanyRepo
	templates *fakeTemplateRepo
	resumes   *fakeResumeRepo
	history   *fakeHistoryRepo
	files     *fakeFileStore
	mailer    *fakeMailer
	resolver  *fakeResolver
	sleeper   *fakeSleeper
}

func newDispatchFixture() *dispatchFixture {
	user := &domain.User{ID: "u1", Name: "Jane Doe", Email: "jane@example.com"}
	mailer := newFakeMailer()
	f := &dispatchFixture{
		users: newFakeUserRepo(user),
		companies: newFakeCompanyRepo(
			&domain.Company{ID: "c1", UserID: "u1", Name: "Acme", Email: "jobs@acme.example", Position: "Backend Engineer"},
			&domain.Company{ID: "c2", UserID: "u1", Name: "Globex", Email: "hr@globex.example", Position: "SRE"},
			&domain.Company{ID: "c3", UserID: "u1", Name: "Initech", Email: "talent@initech.example", Position: "Platform Engineer"},
		),
		templates: newFakeTemplateRepo(&domain.EmailTemplate{
			ID:          "t1",
			UserID:      "u1",
			Subject:     "Apply to {companyName}",
			HTMLContent: "Dear {contactPerson}, I want the {position} role.",
		}),
		resumes: newFakeResumeRepo(&domain.Resume{
			ID:           "r1",
			UserID:       "u1",
			OriginalName: "jane-doe.pdf",
			FilePath:     "/uploads/jane-doe.pdf",
		}),
		history:  &fakeHistoryRepo{},
		files:    &fakeFileStore{existing: map[string]bool{"/uploads/jane-doe.pdf": true}},
		mailer:   mailer,
		resolver: &fakeResolver{mailer: mailer, from: domain.Address{Name: "Jane Doe", Email: "noreply@system.example"}},
		sleeper:  &fakeSleeper{},
	}
	f.svc = NewDispatchService(
		f.users, f.companies, f.templates, f.resumes, f.history,
		f.files, f.resolver, NewThrottle(2*time.Second, f.sleeper), testLogger(),
	)
	return f
}

func TestDispatchBatch_RecipientBounds(t *testing.T) {
	fx := newDispatchFixture()
	ctx := context.Background()

	t.Run("empty selection rejected", func(t *testing.T) {
		_, err := fx.svc.DispatchBatch(ctx, "u1", &domain.BatchRequest{})
		assert.ErrorIs(t, err, domain.ErrNoRecipients)
	})

	t.Run("over the cap rejected", func(t *testing.T) {
		ids := make([]string, domain.MaxBatchRecipients+1)
		for i := range ids {
			ids[i] = fmt.Sprintf("c-%d", i)
		}
		_, err := fx.svc.DispatchBatch(ctx, "u1", &domain.BatchRequest{CompanyIDs: ids})
		assert.ErrorIs(t, err, domain.ErrTooManyRecipients)
	})

	t.Run("exactly the cap accepted", func(t *testing.T) {
		fx := newDispatchFixture()
		ids := make([]string, 0, domain.MaxBatchRecipients)
		for i := 0; i < domain.MaxBatchRecipients; i++ {
			id := fmt.Sprintf("cap-%d", i)
			fx.companies.byID[id] = &domain.Company{
				ID: id, UserID: "u1", Name: fmt.Sprintf("Co %d", i),
				Email: fmt.Sprintf("co%d@example.com", i), Position: "Engineer",
			}
			ids = append(ids, id)
		}
		result, err := fx.svc.DispatchBatch(context.Background(), "u1", &domain.BatchRequest{CompanyIDs: ids})
		require.NoError(t, err)
		assert.Equal(t, domain.MaxBatchRecipients, result.SentCount)
		assert.Equal(t, domain.MaxBatchRecipients, result.Total)
	})
}

func TestDispatchBatch_MissingResumeFileAbortsBeforeSending(t *testing.T) {
	fx := newDispatchFixture()
	fx.files.existing = map[string]bool{} // metadata exists, file does not

	_, err := fx.svc.DispatchBatch(context.Background(), "u1", &domain.BatchRequest{
		CompanyIDs: []string{"c1", "c2"},
		ResumeID:   strPtr("r1"),
	})

	assert.ErrorIs(t, err, domain.ErrResumeFileMissing)
	assert.Empty(t, fx.mailer.sent)
	assert.Empty(t, fx.history.records)
}

func TestDispatchBatch_UnknownResumeAborts(t *testing.T) {
	fx := newDispatchFixture()

	_, err := fx.svc.DispatchBatch(context.Background(), "u1", &domain.BatchRequest{
		CompanyIDs: []string{"c1"},
		ResumeID:   strPtr("missing"),
	})

	assert.ErrorIs(t, err, domain.ErrResumeNotFound)
	assert.Empty(t, fx.mailer.sent)
}

func TestDispatchBatch_UnknownTemplateRendersDefaults(t *testing.T) {
	fx := newDispatchFixture()

	result, err := fx.svc.DispatchBatch(context.Background(), "u1", &domain.BatchRequest{
		CompanyIDs: []string{"c1"},
		TemplateID: strPtr("missing"),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.SentCount)
	require.Len(t, fx.mailer.sent, 1)
	assert.Equal(t, "Job Application", fx.mailer.sent[0].Subject)
}

func TestDispatchBatch_NoResolvedCompaniesRejected(t *testing.T) {
	fx := newDispatchFixture()

	_, err := fx.svc.DispatchBatch(context.Background(), "u1", &domain.BatchRequest{
		CompanyIDs: []string{"nope-1", "nope-2"},
	})

	assert.ErrorIs(t, err, domain.ErrNoCompaniesFound)
}

func TestDispatchBatch_PartialFailureIsolation(t *testing.T) {
	fx := newDispatchFixture()
	fx.mailer.failFor["hr@globex.example"] = errors.New("550 mailbox unavailable")

	result, err := fx.svc.DispatchBatch(context.Background(), "u1", &domain.BatchRequest{
		CompanyIDs: []string{"c1", "c2", "c3"},
		ResumeID:   strPtr("r1"),
		TemplateID: strPtr("t1"),
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.SentCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.Equal(t, 3, result.Total)

	// Results stay in input order with per-recipient outcomes.
	require.Len(t, result.Results, 3)
	assert.Equal(t, "Acme", result.Results[0].Company)
	assert.Equal(t, "success", result.Results[0].Status)
	assert.Equal(t, "Globex", result.Results[1].Company)
	assert.Equal(t, "failed", result.Results[1].Status)
	assert.Equal(t, "550 mailbox unavailable", result.Results[1].Error)
	assert.Equal(t, "Initech", result.Results[2].Company)
	assert.Equal(t, "success", result.Results[2].Status)

	// One denormalized history record per attempt, failures included.
	require.Len(t, fx.history.records, 3)
	assert.Equal(t, domain.StatusSent, fx.history.records[0].Status)
	assert.Equal(t, domain.StatusFailed, fx.history.records[1].Status)
	assert.Equal(t, "550 mailbox unavailable", fx.history.records[1].ErrorMessage)
	assert.Equal(t, "Globex", fx.history.records[1].CompanyName)
	assert.Equal(t, "hr@globex.example", fx.history.records[1].Email)
	assert.Equal(t, "SRE", fx.history.records[1].Position)

	// Successful sends carried the rendered template and the attachment.
	require.Len(t, fx.mailer.sent, 2)
	assert.Equal(t, "Apply to Acme", fx.mailer.sent[0].Subject)
	require.Len(t, fx.mailer.sent[0].Attachments, 1)
	assert.Equal(t, "jane-doe.pdf", fx.mailer.sent[0].Attachments[0].Filename)

	// The pause runs after every recipient, including the failed one.
	assert.Len(t, fx.sleeper.slept, 3)

	// Transport resolved once for the whole batch.
	assert.Equal(t, 1, fx.resolver.calls)
}

func TestDispatchBatch_SilentlyDropsUnresolvedIDs(t *testing.T) {
	fx := newDispatchFixture()

	result, err := fx.svc.DispatchBatch(context.Background(), "u1", &domain.BatchRequest{
		CompanyIDs: []string{"c1", "ghost", "c3"},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "Acme", result.Results[0].Company)
	assert.Equal(t, "Initech", result.Results[1].Company)
}

func TestDispatchBatch_CollapsesDuplicateIDs(t *testing.T) {
	fx := newDispatchFixture()

	result, err := fx.svc.DispatchBatch(context.Background(), "u1", &domain.BatchRequest{
		CompanyIDs: []string{"c1", "c1", "c2"},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Len(t, fx.mailer.sent, 2)
}

func TestDispatchBatch_CancellationReturnsPartialResult(t *testing.T) {
	fx := newDispatchFixture()
	fx.sleeper.err = context.Canceled

	result, err := fx.svc.DispatchBatch(context.Background(), "u1", &domain.BatchRequest{
		CompanyIDs: []string{"c1", "c2", "c3"},
	})

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.SentCount)
	assert.Len(t, fx.history.records, 1)
}

func TestDispatchBatch_HistoryWriteFailureDoesNotAbort(t *testing.T) {
	fx := newDispatchFixture()
	fx.history.createErr = errors.New("db down")

	result, err := fx.svc.DispatchBatch(context.Background(), "u1", &domain.BatchRequest{
		CompanyIDs: []string{"c1", "c2"},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.SentCount)
	assert.Len(t, fx.mailer.sent, 2)
}

func TestSendTest_UsesFixtureCompanyAndPrefix(t *testing.T) {
	fx := newDispatchFixture()

	err := fx.svc.SendTest(context.Background(), "u1", &domain.TestSendRequest{
		Email:      "me@example.com",
		ResumeID:   "r1",
		TemplateID: strPtr("t1"),
	})

	require.NoError(t, err)
	require.Len(t, fx.mailer.sent, 1)
	msg := fx.mailer.sent[0]
	assert.Equal(t, "me@example.com", msg.To)
	assert.Equal(t, "[TEST] Apply to Test Company", msg.Subject)
	assert.Contains(t, msg.HTML, "Dear Test Hiring Manager")
	require.Len(t, msg.Attachments, 1)

	// Test sends leave no audit trail.
	assert.Empty(t, fx.history.records)
}

func TestSendTest_MissingResumeFileRejected(t *testing.T) {
	fx := newDispatchFixture()
	fx.files.existing = map[string]bool{}

	err := fx.svc.SendTest(context.Background(), "u1", &domain.TestSendRequest{
		Email:    "me@example.com",
		ResumeID: "r1",
	})

	assert.ErrorIs(t, err, domain.ErrResumeFileMissing)
	assert.Empty(t, fx.mailer.sent)
}
