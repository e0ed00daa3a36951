package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/registrar-api/internal/models"
	appErrors "github.com/noah-isme/registrar-api/pkg/errors"
)

type memorySubjectRepo struct {
	subjects   map[string]models.Subject
	dependants map[string]int
}

func newMemorySubjectRepo() *memorySubjectRepo {
	return &memorySubjectRepo{subjects: map[string]models.Subject{}, dependants: map[string]int{}}
}

func (m *memorySubjectRepo) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error) {
	out := []models.Subject{}
	for _, s := range m.subjects {
		if filter.AcademicLevelID == "" || s.AcademicLevelID == filter.AcademicLevelID {
			out = append(out, s)
		}
	}
	return out, len(out), nil
}

func (m *memorySubjectRepo) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	s, ok := m.subjects[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (m *memorySubjectRepo) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	for _, s := range m.subjects {
		if strings.EqualFold(s.Code, code) && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memorySubjectRepo) Create(ctx context.Context, subject *models.Subject) error {
	subject.ID = fmt.Sprintf("sub-%d", len(m.subjects)+1)
	m.subjects[subject.ID] = *subject
	return nil
}

func (m *memorySubjectRepo) Update(ctx context.Context, subject *models.Subject) error {
	m.subjects[subject.ID] = *subject
	return nil
}

func (m *memorySubjectRepo) Delete(ctx context.Context, id string) error {
	delete(m.subjects, id)
	return nil
}

func (m *memorySubjectRepo) CountDependants(ctx context.Context, id string) (int, error) {
	return m.dependants[id], nil
}

type memoryStrandReader map[string]models.Strand

func (m memoryStrandReader) FindByID(ctx context.Context, id string) (*models.Strand, error) {
	s, ok := m[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

type memoryDepartmentRepo struct {
	departments map[string]models.Department
	courses     map[string]int
}

func (m *memoryDepartmentRepo) List(ctx context.Context, filter models.ListFilter) ([]models.Department, int, error) {
	out := []models.Department{}
	for _, d := range m.departments {
		out = append(out, d)
	}
	return out, len(out), nil
}

func (m *memoryDepartmentRepo) FindByID(ctx context.Context, id string) (*models.Department, error) {
	d, ok := m.departments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &d, nil
}

func (m *memoryDepartmentRepo) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	for _, d := range m.departments {
		if d.Code == code && d.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryDepartmentRepo) Create(ctx context.Context, department *models.Department) error {
	department.ID = fmt.Sprintf("dep-%d", len(m.departments)+1)
	m.departments[department.ID] = *department
	return nil
}

func (m *memoryDepartmentRepo) Update(ctx context.Context, department *models.Department) error {
	m.departments[department.ID] = *department
	return nil
}

func (m *memoryDepartmentRepo) Delete(ctx context.Context, id string) error {
	delete(m.departments, id)
	return nil
}

func (m *memoryDepartmentRepo) CountDependants(ctx context.Context, id string) (int, error) {
	return m.courses[id], nil
}

type memoryCourseRepo struct {
	courses map[string]models.Course
}

func (m *memoryCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	return nil, 0, nil
}

func (m *memoryCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (m *memoryCourseRepo) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	return false, nil
}

func (m *memoryCourseRepo) Create(ctx context.Context, course *models.Course) error {
	course.ID = "course-1"
	m.courses[course.ID] = *course
	return nil
}

func (m *memoryCourseRepo) Update(ctx context.Context, course *models.Course) error {
	m.courses[course.ID] = *course
	return nil
}

func (m *memoryCourseRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.courses[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.courses, id)
	return nil
}

func registrarLevels() *memoryLevelReader {
	return &memoryLevelReader{levels: map[string]models.AcademicLevel{
		"shs":     {ID: "shs", Key: models.AcademicLevelSeniorHigh, Name: "Senior High"},
		"college": {ID: "college", Key: models.AcademicLevelCollege, Name: "College"},
	}}
}

func newSubjectFixture() (*SubjectService, *memorySubjectRepo) {
	repo := newMemorySubjectRepo()
	strands := memoryStrandReader{
		"stem": {ID: "stem", Code: "STEM", AcademicLevelID: "shs"},
		"bsit": {ID: "bsit", Code: "BSIT", AcademicLevelID: "college"},
	}
	return NewSubjectService(repo, registrarLevels(), strands, nil, nil), repo
}

func TestSubjectCreateNormalisesCode(t *testing.T) {
	svc, repo := newSubjectFixture()

	subject, err := svc.Create(context.Background(), SubjectRequest{
		Code: " gen-math ", Name: "General Mathematics", AcademicLevelID: "shs", StrandID: strPtr("stem"), Units: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "GEN-MATH", subject.Code)
	assert.True(t, subject.IsActive)
	assert.Len(t, repo.subjects, 1)

	_, err = svc.Create(context.Background(), SubjectRequest{Code: "Gen-Math", Name: "Again", AcademicLevelID: "shs"})
	requireFieldError(t, err, "code")
}

func TestSubjectValidation(t *testing.T) {
	svc, _ := newSubjectFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, SubjectRequest{Units: -1})
	requireFieldError(t, err, "code")
	fields := appErrors.FromError(err).Fields
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "units")

	_, err = svc.Create(ctx, SubjectRequest{Code: "PE", Name: "PE", AcademicLevelID: "missing"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Create(ctx, SubjectRequest{Code: "PE", Name: "PE", AcademicLevelID: "shs", StrandID: strPtr("bsit")})
	requireFieldError(t, err, "strand_id")
}

func TestSubjectDeleteBlockedByDependants(t *testing.T) {
	svc, repo := newSubjectFixture()
	ctx := context.Background()
	subject, err := svc.Create(ctx, SubjectRequest{Code: "ENG", Name: "English", AcademicLevelID: "shs"})
	require.NoError(t, err)

	repo.dependants[subject.ID] = 2
	err = svc.Delete(ctx, subject.ID)
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	repo.dependants[subject.ID] = 0
	require.NoError(t, svc.Delete(ctx, subject.ID))
	assert.ErrorIs(t, svc.Delete(ctx, subject.ID), appErrors.ErrNotFound)
}

func TestSubjectUpdateKeepsOwnCode(t *testing.T) {
	svc, _ := newSubjectFixture()
	ctx := context.Background()
	subject, err := svc.Create(ctx, SubjectRequest{Code: "ENG", Name: "English", AcademicLevelID: "shs"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, subject.ID, SubjectRequest{Code: "eng", Name: "English 1", AcademicLevelID: "shs", IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, "English 1", updated.Name)
	assert.False(t, updated.IsActive)

	_, err = svc.Update(ctx, "missing", SubjectRequest{Code: "X", Name: "X", AcademicLevelID: "shs"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestDepartmentAndCourse(t *testing.T) {
	ctx := context.Background()
	departments := &memoryDepartmentRepo{departments: map[string]models.Department{}, courses: map[string]int{}}
	deptSvc := NewDepartmentService(departments, nil, nil)
	courseSvc := NewCourseService(&memoryCourseRepo{courses: map[string]models.Course{}}, departments, nil, nil)

	dept, err := deptSvc.Create(ctx, DepartmentRequest{Code: "cics", Name: "Computing"})
	require.NoError(t, err)
	assert.Equal(t, "CICS", dept.Code)

	_, err = courseSvc.Create(ctx, CourseRequest{Code: "BSCS", Name: "Computer Science", DepartmentID: "nope"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	course, err := courseSvc.Create(ctx, CourseRequest{Code: "bscs", Name: "Computer Science", DepartmentID: dept.ID})
	require.NoError(t, err)
	assert.Equal(t, dept.ID, course.DepartmentID)

	departments.courses[dept.ID] = 1
	assert.ErrorIs(t, deptSvc.Delete(ctx, dept.ID), appErrors.ErrConflict)

	require.NoError(t, courseSvc.Delete(ctx, course.ID))
	assert.ErrorIs(t, courseSvc.Delete(ctx, course.ID), appErrors.ErrNotFound)

	_, pagination, err := deptSvc.List(ctx, models.ListFilter{Page: 0, PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 1, pagination.TotalCount)
}

func boolPtr(v bool) *bool { return &v }

type memoryStrandRepo struct {
	strands    map[string]models.Strand
	dependants map[string]int
}

func (m *memoryStrandRepo) List(ctx context.Context, filter models.StrandFilter) ([]models.Strand, int, error) {
	out := []models.Strand{}
	for _, s := range m.strands {
		if filter.AcademicLevelID == "" || s.AcademicLevelID == filter.AcademicLevelID {
			out = append(out, s)
		}
	}
	return out, len(out), nil
}

func (m *memoryStrandRepo) FindByID(ctx context.Context, id string) (*models.Strand, error) {
	s, ok := m.strands[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (m *memoryStrandRepo) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	for _, s := range m.strands {
		if strings.EqualFold(s.Code, code) && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryStrandRepo) Create(ctx context.Context, strand *models.Strand) error {
	strand.ID = fmt.Sprintf("str-%d", len(m.strands)+1)
	m.strands[strand.ID] = *strand
	return nil
}

func (m *memoryStrandRepo) Update(ctx context.Context, strand *models.Strand) error {
	m.strands[strand.ID] = *strand
	return nil
}

func (m *memoryStrandRepo) Delete(ctx context.Context, id string) error {
	delete(m.strands, id)
	return nil
}

func (m *memoryStrandRepo) CountDependants(ctx context.Context, id string) (int, error) {
	return m.dependants[id], nil
}

func TestStrandLifecycle(t *testing.T) {
	repo := &memoryStrandRepo{strands: map[string]models.Strand{}, dependants: map[string]int{}}
	svc := NewStrandService(repo, registrarLevels(), nil, nil)
	ctx := context.Background()

	strand, err := svc.Create(ctx, StrandRequest{Code: " stem ", Name: "Science, Technology, Engineering and Mathematics", AcademicLevelID: "shs"})
	require.NoError(t, err)
	assert.Equal(t, "STEM", strand.Code)

	_, err = svc.Create(ctx, StrandRequest{Code: "Stem", Name: "Duplicate", AcademicLevelID: "shs"})
	requireFieldError(t, err, "code")

	_, err = svc.Create(ctx, StrandRequest{Code: "ABM", Name: "Accountancy", AcademicLevelID: "grad-school"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	items, page, err := svc.List(ctx, models.StrandFilter{AcademicLevelID: "shs"})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, page.TotalCount)

	repo.dependants[strand.ID] = 2
	assert.ErrorIs(t, svc.Delete(ctx, strand.ID), appErrors.ErrConflict)
	repo.dependants[strand.ID] = 0
	require.NoError(t, svc.Delete(ctx, strand.ID))
}
