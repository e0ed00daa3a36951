package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/registrar-api/internal/dto"
	"github.com/noah-isme/registrar-api/internal/models"
	appErrors "github.com/noah-isme/registrar-api/pkg/errors"
)

type memoryGradingPeriodRepo struct {
	periods  map[string]models.GradingPeriod
	seq      int
	findErr  error
	writeErr error
}

func newMemoryGradingPeriodRepo() *memoryGradingPeriodRepo {
	return &memoryGradingPeriodRepo{periods: map[string]models.GradingPeriod{}}
}

func (m *memoryGradingPeriodRepo) sorted(match func(models.GradingPeriod) bool) []models.GradingPeriod {
	out := make([]models.GradingPeriod, 0)
	for _, p := range m.periods {
		if match(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (m *memoryGradingPeriodRepo) EachByLevel(ctx context.Context, levelID string, fn func(models.GradingPeriod) error) error {
	for _, p := range m.sorted(func(p models.GradingPeriod) bool { return p.AcademicLevelID == levelID }) {
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

func (m *memoryGradingPeriodRepo) ListByLevel(ctx context.Context, levelID string) ([]models.GradingPeriod, error) {
	return m.sorted(func(p models.GradingPeriod) bool { return p.AcademicLevelID == levelID }), nil
}

func (m *memoryGradingPeriodRepo) FindByID(ctx context.Context, id string) (*models.GradingPeriod, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	p, ok := m.periods[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (m *memoryGradingPeriodRepo) ListChildren(ctx context.Context, parentID string) ([]models.GradingPeriod, error) {
	return m.sorted(func(p models.GradingPeriod) bool { return p.ParentValue() == parentID }), nil
}

func (m *memoryGradingPeriodRepo) ListParentCandidates(ctx context.Context, levelID string) ([]models.GradingPeriod, error) {
	return m.sorted(func(p models.GradingPeriod) bool { return p.AcademicLevelID == levelID && p.IsRootSemester() }), nil
}

func (m *memoryGradingPeriodRepo) ExistsByCode(ctx context.Context, levelID, code, excludeID string) (bool, error) {
	for _, p := range m.periods {
		if p.AcademicLevelID == levelID && strings.EqualFold(p.Code, code) && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryGradingPeriodRepo) CountChildren(ctx context.Context, id string) (int, error) {
	children, _ := m.ListChildren(ctx, id)
	return len(children), nil
}

func (m *memoryGradingPeriodRepo) Create(ctx context.Context, period *models.GradingPeriod, declared ...*models.GradingPeriod) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.seq++
	period.ID = fmt.Sprintf("gp-%d", m.seq)
	m.periods[period.ID] = *period
	m.storeFlags(declared)
	return nil
}

func (m *memoryGradingPeriodRepo) Update(ctx context.Context, period *models.GradingPeriod, declared ...*models.GradingPeriod) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	if _, ok := m.periods[period.ID]; !ok {
		return sql.ErrNoRows
	}
	m.periods[period.ID] = *period
	m.storeFlags(declared)
	return nil
}

func (m *memoryGradingPeriodRepo) storeFlags(declared []*models.GradingPeriod) {
	for _, final := range declared {
		stored := m.periods[final.ID]
		stored.IncludeFlags = final.IncludeFlags
		m.periods[final.ID] = stored
	}
}

func (m *memoryGradingPeriodRepo) Delete(ctx context.Context, id string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	if _, ok := m.periods[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.periods, id)
	return nil
}

type memoryLevelReader struct {
	levels map[string]models.AcademicLevel
}

func (m *memoryLevelReader) FindByID(ctx context.Context, id string) (*models.AcademicLevel, error) {
	level, ok := m.levels[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &level, nil
}

type memoryStructureCache struct {
	entries     map[string][]byte
	invalidated []string
}

func (m *memoryStructureCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memoryStructureCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryStructureCache) Invalidate(ctx context.Context, pattern string) error {
	m.invalidated = append(m.invalidated, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

type countingRecorder struct {
	outcomes map[string]int
}

func (c *countingRecorder) RecordComputation(kind string, ok bool) {
	c.outcomes[fmt.Sprintf("%s:%t", kind, ok)]++
}

type gradingFixture struct {
	svc     *GradingPeriodService
	repo    *memoryGradingPeriodRepo
	cache   *memoryStructureCache
	metrics *countingRecorder
}

func newGradingFixture() *gradingFixture {
	repo := newMemoryGradingPeriodRepo()
	levels := &memoryLevelReader{levels: map[string]models.AcademicLevel{
		"shs":     {ID: "shs", Key: models.AcademicLevelSeniorHigh, Name: "Senior High"},
		"college": {ID: "college", Key: models.AcademicLevelCollege, Name: "College"},
	}}
	cache := &memoryStructureCache{entries: map[string][]byte{}}
	metrics := &countingRecorder{outcomes: map[string]int{}}
	svc := NewGradingPeriodService(repo, levels, cache, metrics, nil, zap.NewNop(), GradingPeriodServiceConfig{})
	return &gradingFixture{svc: svc, repo: repo, cache: cache, metrics: metrics}
}

func decodePeriodRequest(t *testing.T, raw string) GradingPeriodRequest {
	t.Helper()
	var req GradingPeriodRequest
	require.NoError(t, json.Unmarshal([]byte(raw), &req))
	return req
}

func (f *gradingFixture) semester(t *testing.T, level, code string) *models.GradingPeriod {
	t.Helper()
	period, err := f.svc.Create(context.Background(), GradingPeriodRequest{
		Name: code + " Semester", Code: code, Type: models.PeriodKindSemester, AcademicLevelID: level,
		SemesterNumber: intPtr(1), StartDate: "2024-08-01", EndDate: "2024-12-20",
	})
	require.NoError(t, err)
	return period
}

func requireFieldError(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, appErrors.ErrFieldValidation)
	assert.Contains(t, appErrors.FromError(err).Fields, field)
}

func TestGradingPeriodEndToEndFinalAverage(t *testing.T) {
	f := newGradingFixture()
	ctx := context.Background()

	semester, err := f.svc.Create(ctx, decodePeriodRequest(t, `{
		"name": "1st Semester", "code": "s1", "type": "semester", "academic_level_id": "shs",
		"semester_number": 1, "start_date": "2024-08-01", "end_date": "2024-12-20"}`))
	require.NoError(t, err)
	assert.Equal(t, "S1", semester.Code)

	_, err = f.svc.Create(ctx, decodePeriodRequest(t, fmt.Sprintf(`{
		"name": "Midterm", "code": "MT1", "type": "quarter", "period_type": "midterm", "parent_id": %q,
		"academic_level_id": "shs", "sort_order": 1, "start_date": "2024-08-01", "end_date": "2024-10-15"}`, semester.ID)))
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, decodePeriodRequest(t, fmt.Sprintf(`{
		"name": "Pre-Final", "code": "PF1", "type": "quarter", "period_type": "prefinal", "parent_id": %q,
		"academic_level_id": "shs", "sort_order": 2, "start_date": "2024-10-16", "end_date": "2024-12-10"}`, semester.ID)))
	require.NoError(t, err)

	final, err := f.svc.Create(ctx, decodePeriodRequest(t, fmt.Sprintf(`{
		"name": "Final Average", "code": "FA1", "type": "quarter", "period_type": "final", "parent_id": %q,
		"academic_level_id": "shs", "sort_order": 3, "include_midterm": true, "include_prefinal": true,
		"start_date": "2024-12-11", "end_date": "2024-12-20"}`, semester.ID)))
	require.NoError(t, err)
	assert.True(t, final.IsCalculated)
	assert.Equal(t, []models.PeriodType{models.PeriodTypeMidterm, models.PeriodTypePrefinal}, final.IncludeFlags.Included())

	req := dto.FinalAverageRequest{Grades: map[string]float64{"midterm": 88, "prefinal": 92}}
	result, err := f.svc.ComputeFinalAverage(ctx, final.ID, req)
	require.NoError(t, err)
	assert.InDelta(t, 90, result.Average, 1e-9)

	again, err := f.svc.ComputeFinalAverage(ctx, final.ID, req)
	require.NoError(t, err)
	assert.Equal(t, result, again)
	assert.Equal(t, 2, f.metrics.outcomes["final_average:true"])

	structure, hit, err := f.svc.Structure(ctx, "shs")
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, structure.Periods, 1)
	require.Len(t, structure.Periods[0].Children, 3)
	assert.Equal(t, "MT1", structure.Periods[0].Children[0].Code)

	_, hit, err = f.svc.Structure(ctx, "shs")
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestGradingPeriodFinalDeclaresMissingSiblingTypes(t *testing.T) {
	f := newGradingFixture()
	ctx := context.Background()
	semester := f.semester(t, "shs", "S1")

	_, err := f.svc.Create(ctx, GradingPeriodRequest{Name: "Midterm", Code: "MT", Type: models.PeriodKindQuarter, PeriodType: models.PeriodTypeMidterm,
		AcademicLevelID: "shs", ParentID: &semester.ID, StartDate: "2024-08-01", EndDate: "2024-10-01"})
	require.NoError(t, err)

	final, err := f.svc.Create(ctx, GradingPeriodRequest{Name: "Final", Code: "FA", Type: models.PeriodKindQuarter, PeriodType: models.PeriodTypeFinal,
		AcademicLevelID: "shs", ParentID: &semester.ID, StartDate: "2024-12-01", EndDate: "2024-12-20"})
	require.NoError(t, err)
	assert.Equal(t, models.InclusionFlags{models.PeriodTypeMidterm: false}, final.IncludeFlags)

	_, err = f.svc.ComputeFinalAverage(ctx, final.ID, dto.FinalAverageRequest{Grades: map[string]float64{"midterm": 80}})
	require.ErrorIs(t, err, appErrors.ErrComputation)
	assert.Equal(t, 1, f.metrics.outcomes["final_average:false"])
}

func TestGradingPeriodRejectsSecondFinal(t *testing.T) {
	f := newGradingFixture()
	ctx := context.Background()
	semester := f.semester(t, "shs", "S1")

	req := GradingPeriodRequest{Name: "Final", Code: "FA", Type: models.PeriodKindQuarter, PeriodType: models.PeriodTypeFinal,
		AcademicLevelID: "shs", ParentID: &semester.ID, StartDate: "2024-12-01", EndDate: "2024-12-20"}
	_, err := f.svc.Create(ctx, req)
	require.NoError(t, err)

	req.Code = "FA2"
	_, err = f.svc.Create(ctx, req)
	requireFieldError(t, err, "period_type")
}

func TestGradingPeriodWeightOutOfRange(t *testing.T) {
	f := newGradingFixture()
	_, err := f.svc.Create(context.Background(), GradingPeriodRequest{
		Name: "First Quarter", Code: "Q1", Type: models.PeriodKindQuarter, AcademicLevelID: "shs",
		Weight: 1.5, StartDate: "2024-08-01", EndDate: "2024-10-01",
	})
	requireFieldError(t, err, "weight")
	assert.Empty(t, f.repo.periods)
}

func TestGradingPeriodCollectsAllViolations(t *testing.T) {
	f := newGradingFixture()
	_, err := f.svc.Create(context.Background(), GradingPeriodRequest{
		Code: "Q1", Type: models.PeriodKindQuarter, PeriodType: models.PeriodTypeMidterm, AcademicLevelID: "shs",
		Weight: 2, StartDate: "2024-10-01", EndDate: "2024-08-01",
	})
	require.Error(t, err)
	fields := appErrors.FromError(err).Fields
	for _, field := range []string{"name", "period_type", "weight", "end_date"} {
		assert.Contains(t, fields, field)
	}
}

func TestGradingPeriodCrossLevelParent(t *testing.T) {
	f := newGradingFixture()
	semester := f.semester(t, "shs", "S1")

	_, err := f.svc.Create(context.Background(), GradingPeriodRequest{
		Name: "Midterm", Code: "MT", Type: models.PeriodKindQuarter, PeriodType: models.PeriodTypeMidterm,
		AcademicLevelID: "college", ParentID: &semester.ID, StartDate: "2024-08-01", EndDate: "2024-10-01",
	})
	requireFieldError(t, err, "parent_id")
}

func TestGradingPeriodParentMustBeRootSemester(t *testing.T) {
	f := newGradingFixture()
	ctx := context.Background()
	quarter, err := f.svc.Create(ctx, GradingPeriodRequest{Name: "Q1", Code: "Q1", Type: models.PeriodKindQuarter,
		AcademicLevelID: "shs", StartDate: "2024-08-01", EndDate: "2024-10-01"})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, GradingPeriodRequest{Name: "Midterm", Code: "MT", Type: models.PeriodKindQuarter, PeriodType: models.PeriodTypeMidterm,
		AcademicLevelID: "shs", ParentID: &quarter.ID, StartDate: "2024-08-01", EndDate: "2024-10-01"})
	requireFieldError(t, err, "parent_id")

	missing := "nope"
	_, err = f.svc.Create(ctx, GradingPeriodRequest{Name: "Midterm", Code: "MT", Type: models.PeriodKindQuarter, PeriodType: models.PeriodTypeMidterm,
		AcademicLevelID: "shs", ParentID: &missing, StartDate: "2024-08-01", EndDate: "2024-10-01"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestGradingPeriodUnknownLevel(t *testing.T) {
	f := newGradingFixture()
	_, err := f.svc.Create(context.Background(), GradingPeriodRequest{Name: "Q1", Code: "Q1", Type: models.PeriodKindQuarter,
		AcademicLevelID: "graduate", StartDate: "2024-08-01", EndDate: "2024-10-01"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestGradingPeriodCodeUniquePerLevel(t *testing.T) {
	f := newGradingFixture()
	ctx := context.Background()
	f.semester(t, "shs", "S1")

	_, err := f.svc.Create(ctx, GradingPeriodRequest{Name: "Other", Code: "s1", Type: models.PeriodKindSemester,
		AcademicLevelID: "shs", StartDate: "2024-08-01", EndDate: "2024-12-20"})
	requireFieldError(t, err, "code")

	other := f.semester(t, "college", "S1")
	assert.Equal(t, "S1", other.Code)
}

func TestGradingPeriodUpdate(t *testing.T) {
	f := newGradingFixture()
	ctx := context.Background()
	semester := f.semester(t, "shs", "S1")

	updated, err := f.svc.Update(ctx, semester.ID, GradingPeriodRequest{Name: "First Semester", Code: "S1", Type: models.PeriodKindSemester,
		AcademicLevelID: "shs", SemesterNumber: intPtr(1), StartDate: "2024-08-05", EndDate: "2024-12-20"})
	require.NoError(t, err)
	assert.Equal(t, "First Semester", updated.Name)
	assert.Equal(t, semester.ID, updated.ID)

	_, err = f.svc.Create(ctx, GradingPeriodRequest{Name: "Midterm", Code: "MT", Type: models.PeriodKindQuarter, PeriodType: models.PeriodTypeMidterm,
		AcademicLevelID: "shs", ParentID: &semester.ID, StartDate: "2024-08-01", EndDate: "2024-10-01"})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, semester.ID, GradingPeriodRequest{Name: "First Semester", Code: "S1", Type: models.PeriodKindQuarter,
		AcademicLevelID: "shs", StartDate: "2024-08-05", EndDate: "2024-12-20"})
	requireFieldError(t, err, "type")

	_, err = f.svc.Update(ctx, semester.ID, GradingPeriodRequest{Name: "First Semester", Code: "S1", Type: models.PeriodKindSemester,
		AcademicLevelID: "shs", ParentID: &semester.ID, StartDate: "2024-08-05", EndDate: "2024-12-20"})
	requireFieldError(t, err, "parent_id")

	_, err = f.svc.Update(ctx, "missing", GradingPeriodRequest{})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestGradingPeriodDelete(t *testing.T) {
	f := newGradingFixture()
	ctx := context.Background()
	semester := f.semester(t, "shs", "S1")
	child, err := f.svc.Create(ctx, GradingPeriodRequest{Name: "Midterm", Code: "MT", Type: models.PeriodKindQuarter, PeriodType: models.PeriodTypeMidterm,
		AcademicLevelID: "shs", ParentID: &semester.ID, StartDate: "2024-08-01", EndDate: "2024-10-01"})
	require.NoError(t, err)

	err = f.svc.Delete(ctx, semester.ID)
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	require.NoError(t, f.svc.Delete(ctx, child.ID))
	require.NoError(t, f.svc.Delete(ctx, semester.ID))
	assert.Empty(t, f.repo.periods)
	assert.Contains(t, f.cache.invalidated, "grading:structure:shs*")

	assert.ErrorIs(t, f.svc.Delete(ctx, "does-not-exist"), appErrors.ErrNotFound)
}

func TestGradingPeriodQueries(t *testing.T) {
	f := newGradingFixture()
	ctx := context.Background()
	s1 := f.semester(t, "shs", "S1")
	f.semester(t, "shs", "S2")
	_, err := f.svc.Create(ctx, GradingPeriodRequest{Name: "Q1", Code: "Q1", Type: models.PeriodKindQuarter,
		AcademicLevelID: "shs", StartDate: "2024-08-01", EndDate: "2024-10-01"})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, GradingPeriodRequest{Name: "Midterm", Code: "MT", Type: models.PeriodKindQuarter, PeriodType: models.PeriodTypeMidterm,
		AcademicLevelID: "shs", ParentID: &s1.ID, StartDate: "2024-08-01", EndDate: "2024-10-01"})
	require.NoError(t, err)

	all, err := f.svc.List(ctx, "shs")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	candidates, err := f.svc.ParentCandidates(ctx, "shs")
	require.NoError(t, err)
	assert.Len(t, candidates, 2)

	children, err := f.svc.Children(ctx, s1.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "MT", children[0].Code)

	_, err = f.svc.Children(ctx, "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = f.svc.List(ctx, "")
	requireFieldError(t, err, "academic_level_id")
}

func TestGradingPeriodWeightedAverage(t *testing.T) {
	f := newGradingFixture()
	ctx := context.Background()
	for i, code := range []string{"Q1", "Q2"} {
		_, err := f.svc.Create(ctx, GradingPeriodRequest{Name: code, Code: code, Type: models.PeriodKindQuarter, Weight: 0.5, SortOrder: i,
			AcademicLevelID: "college", StartDate: "2024-08-01", EndDate: "2024-10-01"})
		require.NoError(t, err)
	}

	result, err := f.svc.ComputeWeightedAverage(ctx, dto.WeightedAverageRequest{AcademicLevelID: "college", Grades: map[string]float64{"Q1": 80, "Q2": 90}})
	require.NoError(t, err)
	assert.InDelta(t, 85, result.Average, 1e-9)
	assert.True(t, result.WeightsSumToOne)

	_, err = f.svc.ComputeWeightedAverage(ctx, dto.WeightedAverageRequest{Grades: map[string]float64{}})
	requireFieldError(t, err, "parent_id")
}

func TestGradingPeriodRequestBindsIncludeFields(t *testing.T) {
	req := decodePeriodRequest(t, `{"include_midterm": true, "include_prefinal": false, "include_flags": {"quarter": true}}`)
	assert.Equal(t, models.InclusionFlags{
		models.PeriodTypeMidterm:  true,
		models.PeriodTypePrefinal: false,
		models.PeriodTypeQuarter:  true,
	}, req.IncludeFlags)

	var bad GradingPeriodRequest
	assert.Error(t, json.Unmarshal([]byte(`{"include_midterm": "yes"}`), &bad))
}

func (f *gradingFixture) child(t *testing.T, semester *models.GradingPeriod, code string, periodType models.PeriodType, weight float64) *models.GradingPeriod {
	t.Helper()
	period, err := f.svc.Create(context.Background(), GradingPeriodRequest{Name: code, Code: code, Type: models.PeriodKindQuarter, PeriodType: periodType,
		AcademicLevelID: semester.AcademicLevelID, ParentID: &semester.ID, Weight: weight, StartDate: "2024-08-01", EndDate: "2024-12-20"})
	require.NoError(t, err)
	return period
}

func TestGradingPeriodFinalAverageSharedPeriodType(t *testing.T) {
	f := newGradingFixture()
	ctx := context.Background()
	semester := f.semester(t, "shs", "S1")
	q1 := f.child(t, semester, "Q1", models.PeriodTypeQuarter, 0.5)
	q2 := f.child(t, semester, "Q2", models.PeriodTypeQuarter, 0.5)

	final, err := f.svc.Create(ctx, GradingPeriodRequest{Name: "Final", Code: "FA", Type: models.PeriodKindQuarter, PeriodType: models.PeriodTypeFinal,
		AcademicLevelID: "shs", ParentID: &semester.ID, IncludeFlags: models.InclusionFlags{models.PeriodTypeQuarter: true},
		StartDate: "2024-12-01", EndDate: "2024-12-20"})
	require.NoError(t, err)

	_, err = f.svc.ComputeFinalAverage(ctx, final.ID, dto.FinalAverageRequest{Grades: map[string]float64{"quarter": 85}})
	require.ErrorIs(t, err, appErrors.ErrComputation)
	fields := appErrors.FromError(err).Fields
	assert.Contains(t, fields, q1.ID)
	assert.Contains(t, fields, q2.ID)
	assert.Contains(t, fields[q1.ID], "shared by 2 periods")

	result, err := f.svc.ComputeFinalAverage(ctx, final.ID, dto.FinalAverageRequest{Grades: map[string]float64{"Q1": 85, "Q2": 90}})
	require.NoError(t, err)
	assert.InDelta(t, 87.5, result.Average, 1e-9)
}

func TestGradingPeriodSiblingAfterFinalIsDeclared(t *testing.T) {
	f := newGradingFixture()
	ctx := context.Background()
	semester := f.semester(t, "shs", "S1")
	final := f.child(t, semester, "FA", models.PeriodTypeFinal, 0)
	assert.Empty(t, final.IncludeFlags)

	midterm := f.child(t, semester, "MT", models.PeriodTypeMidterm, 0)
	assert.Equal(t, models.InclusionFlags{models.PeriodTypeMidterm: false}, f.repo.periods[final.ID].IncludeFlags)

	_, err := f.svc.Update(ctx, midterm.ID, GradingPeriodRequest{Name: "Pre-Final", Code: "MT", Type: models.PeriodKindQuarter,
		PeriodType: models.PeriodTypePrefinal, AcademicLevelID: "shs", ParentID: &semester.ID, StartDate: "2024-08-01", EndDate: "2024-12-20"})
	require.NoError(t, err)
	assert.Equal(t, models.InclusionFlags{models.PeriodTypeMidterm: false, models.PeriodTypePrefinal: false}, f.repo.periods[final.ID].IncludeFlags)

	stored := f.repo.periods[final.ID]
	stored.IncludeFlags = models.InclusionFlags{models.PeriodTypeMidterm: false, models.PeriodTypePrefinal: true}
	f.repo.periods[final.ID] = stored
	f.child(t, semester, "PF2", models.PeriodTypePrefinal, 0)
	assert.True(t, f.repo.periods[final.ID].IncludeFlags[models.PeriodTypePrefinal])
}

func TestGradingPeriodStoreConstraintViolations(t *testing.T) {
	f := newGradingFixture()
	ctx := context.Background()
	semester := f.semester(t, "shs", "S1")

	f.repo.writeErr = fmt.Errorf("create grading period: %w", &pq.Error{Code: "23505", Constraint: "grading_periods_level_code_key"})
	_, err := f.svc.Create(ctx, GradingPeriodRequest{Name: "Q1", Code: "Q1", Type: models.PeriodKindQuarter, AcademicLevelID: "shs",
		StartDate: "2024-08-01", EndDate: "2024-10-01"})
	requireFieldError(t, err, "code")

	_, err = f.svc.Update(ctx, semester.ID, GradingPeriodRequest{Name: "S1", Code: "S1", Type: models.PeriodKindSemester, AcademicLevelID: "shs",
		StartDate: "2024-08-01", EndDate: "2024-12-20"})
	requireFieldError(t, err, "code")

	f.repo.writeErr = fmt.Errorf("create grading period: %w", &pq.Error{Code: "23505", Constraint: "grading_periods_one_final_key"})
	_, err = f.svc.Create(ctx, GradingPeriodRequest{Name: "Final", Code: "FA", Type: models.PeriodKindQuarter, PeriodType: models.PeriodTypeFinal,
		AcademicLevelID: "shs", ParentID: &semester.ID, StartDate: "2024-12-01", EndDate: "2024-12-20"})
	requireFieldError(t, err, "period_type")

	f.repo.writeErr = fmt.Errorf("delete grading period: %w", &pq.Error{Code: "23503"})
	assert.ErrorIs(t, f.svc.Delete(ctx, semester.ID), appErrors.ErrConflict)
}

func TestGradingPeriodMalformedIDIsNotFound(t *testing.T) {
	f := newGradingFixture()
	ctx := context.Background()
	f.semester(t, "shs", "S1")
	f.repo.findErr = fmt.Errorf("find grading period: %w", &pq.Error{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`})

	_, err := f.svc.Get(ctx, "abc")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, "abc"), appErrors.ErrNotFound)

	parentID := "abc"
	_, err = f.svc.Create(ctx, GradingPeriodRequest{Name: "Midterm", Code: "MT", Type: models.PeriodKindQuarter, PeriodType: models.PeriodTypeMidterm,
		AcademicLevelID: "shs", ParentID: &parentID, StartDate: "2024-08-01", EndDate: "2024-10-01"})
	require.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Contains(t, err.Error(), "parent grading period not found")
}

func TestGradingPeriodUpdateKeepsActiveState(t *testing.T) {
	f := newGradingFixture()
	ctx := context.Background()
	req := GradingPeriodRequest{Name: "S1", Code: "S1", Type: models.PeriodKindSemester, AcademicLevelID: "shs",
		IsActive: boolPtr(false), StartDate: "2024-08-01", EndDate: "2024-12-20"}
	semester, err := f.svc.Create(ctx, req)
	require.NoError(t, err)
	require.False(t, semester.IsActive)

	req.IsActive = nil
	req.Name = "First Semester"
	updated, err := f.svc.Update(ctx, semester.ID, req)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	req.IsActive = boolPtr(true)
	updated, err = f.svc.Update(ctx, semester.ID, req)
	require.NoError(t, err)
	assert.True(t, updated.IsActive)
}

func TestGradingPeriodWeightIgnoredWhenNotCarried(t *testing.T) {
	f := newGradingFixture()
	ctx := context.Background()
	semester, err := f.svc.Create(ctx, GradingPeriodRequest{Name: "S1", Code: "S1", Type: models.PeriodKindSemester, AcademicLevelID: "shs",
		Weight: 1.5, StartDate: "2024-08-01", EndDate: "2024-12-20"})
	require.NoError(t, err)
	assert.Zero(t, f.repo.periods[semester.ID].Weight)

	final := f.child(t, semester, "FA", models.PeriodTypeFinal, 3)
	assert.Zero(t, f.repo.periods[final.ID].Weight)
}
