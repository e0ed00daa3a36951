package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/registrar-api/internal/models"
	"github.com/noah-isme/registrar-api/pkg/certificate"
	appErrors "github.com/noah-isme/registrar-api/pkg/errors"
	"github.com/noah-isme/registrar-api/pkg/jobs"
	"github.com/noah-isme/registrar-api/pkg/storage"
)

type memoryCertificateRepo struct {
	items map[string]models.Certificate
	seq   int
}

func (m *memoryCertificateRepo) List(ctx context.Context, filter models.CertificateFilter) ([]models.Certificate, int, error) {
	out := []models.Certificate{}
	for _, c := range m.items {
		if filter.Status == "" || c.Status == filter.Status {
			out = append(out, c)
		}
	}
	return out, len(out), nil
}

func (m *memoryCertificateRepo) FindByID(ctx context.Context, id string) (*models.Certificate, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (m *memoryCertificateRepo) CreateBatch(ctx context.Context, certs []*models.Certificate) error {
	for _, c := range certs {
		m.seq++
		c.ID = fmt.Sprintf("cert-%d", m.seq)
		c.IssuedAt = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
		m.items[c.ID] = *c
	}
	return nil
}

func (m *memoryCertificateRepo) UpdateStatus(ctx context.Context, id string, status models.CertificateStatus, documentPath, errorMessage *string) error {
	c, ok := m.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	c.Status = status
	c.DocumentPath = documentPath
	c.ErrorMessage = errorMessage
	m.items[id] = c
	return nil
}

func (m *memoryCertificateRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

type memoryTemplateRepo struct {
	items  map[string]models.CertificateTemplate
	issued map[string]int
}

func (m *memoryTemplateRepo) List(ctx context.Context, honorTypeID string, isActive *bool) ([]models.CertificateTemplate, error) {
	out := []models.CertificateTemplate{}
	for _, t := range m.items {
		out = append(out, t)
	}
	return out, nil
}

func (m *memoryTemplateRepo) FindByID(ctx context.Context, id string) (*models.CertificateTemplate, error) {
	t, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &t, nil
}

func (m *memoryTemplateRepo) Create(ctx context.Context, t *models.CertificateTemplate) error {
	t.ID = fmt.Sprintf("tmpl-%d", len(m.items)+1)
	m.items[t.ID] = *t
	return nil
}

func (m *memoryTemplateRepo) Update(ctx context.Context, t *models.CertificateTemplate) error {
	m.items[t.ID] = *t
	return nil
}

func (m *memoryTemplateRepo) Delete(ctx context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func (m *memoryTemplateRepo) CountCertificates(ctx context.Context, id string) (int, error) {
	return m.issued[id], nil
}

type recordingQueue struct {
	jobs []jobs.Job
	err  error
}

func (q *recordingQueue) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type staticLogo string

func (l staticLogo) ImgTag(certificate.LogoOptions) template.HTML { return template.HTML(l) }

type jobCounter map[string]int

func (c jobCounter) RecordCertificateJob(status string) { c[status]++ }

const honorTemplate = `<html><body>{{ .Logo }}<h1>{{ .HonorName }}</h1><p>{{ .StudentName }} {{ .SchoolYear }} {{ .Average }}</p></body></html>`

type certificateFixture struct {
	svc       *CertificateService
	worker    *CertificateWorker
	certs     *memoryCertificateRepo
	templates *memoryTemplateRepo
	queue     *recordingQueue
	store     *storage.LocalStorage
	signer    *storage.SignedURLSigner
	metrics   jobCounter
}

func newCertificateFixture(t *testing.T) *certificateFixture {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	templates := &memoryTemplateRepo{items: map[string]models.CertificateTemplate{
		"tmpl-honor":   {ID: "tmpl-honor", Name: "honor", Content: honorTemplate, HonorTypeID: strPtr("wh"), IsActive: true},
		"tmpl-generic": {ID: "tmpl-generic", Name: "generic", Content: honorTemplate, IsActive: true},
		"tmpl-broken":  {ID: "tmpl-broken", Name: "broken", Content: `{{ .Nope }}`, IsActive: true},
	}, issued: map[string]int{}}
	f := &certificateFixture{
		certs:     &memoryCertificateRepo{items: map[string]models.Certificate{}},
		templates: templates,
		queue:     &recordingQueue{},
		store:     store,
		signer:    storage.NewSignedURLSigner("secret", time.Hour),
		metrics:   jobCounter{},
	}
	deps := CertificateDeps{
		Certificates: f.certs,
		Templates:    templates,
		Honors:       newMemoryHonorRepo(standardHonors()...),
		Students:     registrarStudents(),
		Storage:      store,
		Logo:         staticLogo(`<img src="data:image/png;base64,AA==">`),
		Metrics:      f.metrics,
	}
	f.svc = NewCertificateService(deps, f.queue, f.signer, nil, nil, CertificateServiceConfig{APIPrefix: "/api/v1/"})
	f.worker = NewCertificateWorker(deps, nil)
	return f
}

func (f *certificateFixture) issue(t *testing.T, templateID string) []models.Certificate {
	t.Helper()
	issued, err := f.svc.IssueBatch(context.Background(), CertificateBatchRequest{
		HonorTypeID: "wh",
		TemplateID:  templateID,
		SchoolYear:  "2024-2025",
		Students:    []CertificateBatchStudent{{StudentID: "stu-1", Average: floatPtr(91.5)}, {StudentID: "stu-2"}},
	})
	require.NoError(t, err)
	return issued
}

func floatPtr(v float64) *float64 { return &v }

func TestCertificateIssueRenderAndDownload(t *testing.T) {
	f := newCertificateFixture(t)
	ctx := context.Background()

	issued := f.issue(t, "tmpl-honor")
	require.Len(t, issued, 2)
	require.Len(t, f.queue.jobs, 2)
	assert.Equal(t, CertificateJobType, f.queue.jobs[0].Type)
	assert.Equal(t, models.CertificateStatusPending, issued[0].Status)

	_, err := f.svc.Link(ctx, issued[0].ID)
	assert.ErrorIs(t, err, appErrors.ErrPreconditionFailed)

	require.NoError(t, f.worker.Handle(ctx, f.queue.jobs[0]))
	stored := f.certs.items[issued[0].ID]
	assert.Equal(t, models.CertificateStatusReady, stored.Status)
	require.NotNil(t, stored.DocumentPath)
	assert.Equal(t, "certificates/2024-2025/"+issued[0].ID+".html", *stored.DocumentPath)
	assert.Equal(t, 1, f.metrics[string(models.CertificateStatusReady)])

	link, err := f.svc.Link(ctx, issued[0].ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link.URL, "/api/v1/certificates/download/"))

	token := strings.TrimPrefix(link.URL, "/api/v1/certificates/download/")
	content, filename, err := f.svc.Download(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, issued[0].ID+".html", filename)
	html := string(content)
	assert.Contains(t, html, "Ana Reyes")
	assert.Contains(t, html, "With Honors")
	assert.Contains(t, html, "91.50")
	assert.Contains(t, html, `<img src="data:image/png;base64,AA==">`)

	_, _, err = f.svc.Download(ctx, token+"x")
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestCertificateWorkerFailureIsRecorded(t *testing.T) {
	f := newCertificateFixture(t)
	ctx := context.Background()
	issued := f.issue(t, "tmpl-generic")
	f.templates.items["tmpl-generic"] = models.CertificateTemplate{ID: "tmpl-generic", Name: "generic", Content: `{{ .Nope }}`, IsActive: true}

	err := f.worker.Handle(ctx, f.queue.jobs[0])
	require.Error(t, err)
	f.worker.Exhausted(ctx, f.queue.jobs[0], err)

	stored := f.certs.items[issued[0].ID]
	assert.Equal(t, models.CertificateStatusFailed, stored.Status)
	require.NotNil(t, stored.ErrorMessage)
	assert.Equal(t, 1, f.metrics[string(models.CertificateStatusFailed)])

	_, err = f.svc.Preview(ctx, issued[0].ID)
	assert.ErrorIs(t, err, appErrors.ErrComputation)
}

func TestCertificateBatchValidation(t *testing.T) {
	f := newCertificateFixture(t)
	ctx := context.Background()

	_, err := f.svc.IssueBatch(ctx, CertificateBatchRequest{HonorTypeID: "wh", TemplateID: "tmpl-honor", SchoolYear: "2024-2025"})
	requireFieldError(t, err, "students")

	_, err = f.svc.IssueBatch(ctx, CertificateBatchRequest{
		HonorTypeID: "wh", TemplateID: "tmpl-honor", SchoolYear: "2024-2025",
		Students: []CertificateBatchStudent{{StudentID: "stu-1", Average: floatPtr(80)}, {StudentID: "stu-1"}},
	})
	requireFieldError(t, err, "students[0].average")
	assert.Contains(t, appErrors.FromError(err).Fields, "students[1].student_id")

	_, err = f.svc.IssueBatch(ctx, CertificateBatchRequest{
		HonorTypeID: "whh", TemplateID: "tmpl-honor", SchoolYear: "2024-2025",
		Students: []CertificateBatchStudent{{StudentID: "stu-1"}},
	})
	requireFieldError(t, err, "template_id")

	_, err = f.svc.IssueBatch(ctx, CertificateBatchRequest{
		HonorTypeID: "cl", TemplateID: "tmpl-generic", SchoolYear: "2024-2025",
		Students: []CertificateBatchStudent{{StudentID: "stu-1"}},
	})
	requireFieldError(t, err, "students[0].student_id")

	_, err = f.svc.IssueBatch(ctx, CertificateBatchRequest{
		HonorTypeID: "wh", TemplateID: "tmpl-honor", SchoolYear: "2024-2025",
		Students: []CertificateBatchStudent{{StudentID: "ghost"}},
	})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Empty(t, f.queue.jobs)
}

func TestCertificateEnqueueFailureMarksFailed(t *testing.T) {
	f := newCertificateFixture(t)
	f.queue.err = errors.New("queue stopped")

	issued := f.issue(t, "tmpl-honor")
	for _, cert := range issued {
		assert.Equal(t, models.CertificateStatusFailed, cert.Status)
		assert.Equal(t, models.CertificateStatusFailed, f.certs.items[cert.ID].Status)
	}
	assert.Equal(t, 2, f.metrics[string(models.CertificateStatusFailed)])
}

func TestCertificateDeleteRemovesDocument(t *testing.T) {
	f := newCertificateFixture(t)
	ctx := context.Background()
	issued := f.issue(t, "tmpl-honor")
	require.NoError(t, f.worker.Handle(ctx, f.queue.jobs[0]))
	path := *f.certs.items[issued[0].ID].DocumentPath

	require.NoError(t, f.svc.Delete(ctx, issued[0].ID))
	_, err := f.store.Read(path)
	assert.Error(t, err)
	assert.ErrorIs(t, f.svc.Delete(ctx, issued[0].ID), appErrors.ErrNotFound)
}

func TestCertificateTemplateContentMustParse(t *testing.T) {
	repo := &memoryTemplateRepo{items: map[string]models.CertificateTemplate{}, issued: map[string]int{}}
	svc := NewCertificateTemplateService(repo, registrarLevels(), newMemoryHonorRepo(standardHonors()...), nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CertificateTemplateRequest{Name: "broken", Content: "{{ if }}"})
	requireFieldError(t, err, "content")

	_, err = svc.Create(ctx, CertificateTemplateRequest{Name: "cl", Content: honorTemplate, AcademicLevelID: strPtr("shs"), HonorTypeID: strPtr("cl")})
	requireFieldError(t, err, "honor_type_id")

	tmpl, err := svc.Create(ctx, CertificateTemplateRequest{Name: "honor", Content: honorTemplate, HonorTypeID: strPtr("wh")})
	require.NoError(t, err)
	assert.True(t, tmpl.IsActive)

	repo.issued[tmpl.ID] = 1
	assert.ErrorIs(t, svc.Delete(ctx, tmpl.ID), appErrors.ErrConflict)
}
