package service

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/registrar-api/internal/models"
	appErrors "github.com/noah-isme/registrar-api/pkg/errors"
)

func strPtr(v string) *string { return &v }

func intPtr(v int) *int { return &v }

func semesterPeriod(id string) models.GradingPeriod {
	return models.GradingPeriod{ID: id, Code: "S1", Type: models.PeriodKindSemester, PeriodType: models.PeriodTypeQuarter, AcademicLevelID: "shs"}
}

func childPeriod(id, code string, periodType models.PeriodType, weight float64) models.GradingPeriod {
	return models.GradingPeriod{ID: id, Code: code, Type: models.PeriodKindQuarter, PeriodType: periodType, ParentID: strPtr("sem"), AcademicLevelID: "shs", Weight: weight}
}

func TestCheckPeriodShape(t *testing.T) {
	start := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name   string
		period models.GradingPeriod
		field  string
	}{
		{"weight above one", models.GradingPeriod{Type: models.PeriodKindQuarter, PeriodType: models.PeriodTypeQuarter, Weight: 1.5}, "weight"},
		{"negative weight", models.GradingPeriod{Type: models.PeriodKindQuarter, PeriodType: models.PeriodTypeQuarter, Weight: -0.1}, "weight"},
		{"root quarter with midterm type", models.GradingPeriod{Type: models.PeriodKindQuarter, PeriodType: models.PeriodTypeMidterm}, "period_type"},
		{"semester with parent", models.GradingPeriod{Type: models.PeriodKindSemester, PeriodType: models.PeriodTypeQuarter, ParentID: strPtr("x")}, "parent_id"},
		{"semester with final type", models.GradingPeriod{Type: models.PeriodKindSemester, PeriodType: models.PeriodTypeFinal}, "period_type"},
		{"semester number on quarter", models.GradingPeriod{Type: models.PeriodKindQuarter, PeriodType: models.PeriodTypeQuarter, SemesterNumber: intPtr(1)}, "semester_number"},
		{"semester number out of range", models.GradingPeriod{Type: models.PeriodKindSemester, PeriodType: models.PeriodTypeQuarter, SemesterNumber: intPtr(3)}, "semester_number"},
		{"unknown type", models.GradingPeriod{Type: "trimester", PeriodType: models.PeriodTypeQuarter}, "type"},
		{"final without parent", models.GradingPeriod{Type: models.PeriodKindQuarter, PeriodType: models.PeriodTypeFinal}, "parent_id"},
		{"final including final", models.GradingPeriod{Type: models.PeriodKindQuarter, PeriodType: models.PeriodTypeFinal, ParentID: strPtr("sem"), IncludeFlags: models.InclusionFlags{models.PeriodTypeFinal: true}}, "include_flags"},
		{"non-final with flags", models.GradingPeriod{Type: models.PeriodKindQuarter, PeriodType: models.PeriodTypeMidterm, ParentID: strPtr("sem"), IncludeFlags: models.InclusionFlags{models.PeriodTypeQuarter: true}}, "include_flags"},
		{"end before start", models.GradingPeriod{Type: models.PeriodKindQuarter, PeriodType: models.PeriodTypeQuarter, StartDate: start, EndDate: start.AddDate(0, 0, -1)}, "end_date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields := map[string]string{}
			checkPeriodShape(&tc.period, fields)
			assert.Contains(t, fields, tc.field)
		})
	}
}

func TestCheckPeriodShapeAcceptsValidPeriods(t *testing.T) {
	day := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	valid := []models.GradingPeriod{
		{Type: models.PeriodKindSemester, PeriodType: models.PeriodTypeQuarter, SemesterNumber: intPtr(2), StartDate: day, EndDate: day},
		{Type: models.PeriodKindQuarter, PeriodType: models.PeriodTypeQuarter, Weight: 1},
		{Type: models.PeriodKindQuarter, PeriodType: models.PeriodTypeMidterm, ParentID: strPtr("sem"), Weight: 0.4},
		{Type: models.PeriodKindQuarter, PeriodType: models.PeriodTypeFinal, ParentID: strPtr("sem"), IncludeFlags: models.InclusionFlags{models.PeriodTypeMidterm: true, models.PeriodTypePrefinal: false}},
		{Type: models.PeriodKindQuarter, PeriodType: models.PeriodTypePrefinal, ParentID: strPtr("sem"), IncludeFlags: models.InclusionFlags{models.PeriodTypeMidterm: false}},
	}
	for _, p := range valid {
		fields := map[string]string{}
		checkPeriodShape(&p, fields)
		assert.Empty(t, fields, "%+v", p)
	}
}

func TestNormalizePeriod(t *testing.T) {
	semester := models.GradingPeriod{Code: " s1 ", Type: models.PeriodKindSemester, PeriodType: models.PeriodTypeQuarter, Weight: 0.5, ParentID: strPtr("")}
	normalizePeriod(&semester)
	assert.Equal(t, "S1", semester.Code)
	assert.Zero(t, semester.Weight)
	assert.Nil(t, semester.ParentID)

	final := childPeriod("f", "FA", models.PeriodTypeFinal, 0.3)
	normalizePeriod(&final)
	assert.True(t, final.IsCalculated)
	assert.Zero(t, final.Weight)

	midterm := childPeriod("m", "MT", models.PeriodTypeMidterm, 0.3)
	midterm.IncludeFlags = models.InclusionFlags{models.PeriodTypeQuarter: false}
	normalizePeriod(&midterm)
	assert.Nil(t, midterm.IncludeFlags)
	assert.Equal(t, 0.3, midterm.Weight)
}

func TestDeclareSiblingFlags(t *testing.T) {
	final := childPeriod("f", "FA", models.PeriodTypeFinal, 0)
	final.IncludeFlags = models.InclusionFlags{models.PeriodTypeMidterm: true}
	siblings := []models.GradingPeriod{
		childPeriod("m", "MT", models.PeriodTypeMidterm, 0),
		childPeriod("p", "PF", models.PeriodTypePrefinal, 0),
		final,
	}

	assert.True(t, declareSiblingFlags(&final, siblings))
	assert.Equal(t, models.InclusionFlags{models.PeriodTypeMidterm: true, models.PeriodTypePrefinal: false}, final.IncludeFlags)
	assert.False(t, declareSiblingFlags(&final, siblings))
}

func TestFinalAverage(t *testing.T) {
	final := childPeriod("f", "FA", models.PeriodTypeFinal, 0)
	final.IncludeFlags = models.InclusionFlags{models.PeriodTypeQuarter: true}
	siblings := []models.GradingPeriod{
		childPeriod("q1", "Q1", models.PeriodTypeQuarter, 0.5),
		childPeriod("q2", "Q2", models.PeriodTypeQuarter, 0.1),
		childPeriod("m", "MT", models.PeriodTypeMidterm, 0),
		final,
	}

	result, err := finalAverage(final, siblings, map[string]float64{"q1": 85, "Q2": 90, "m": 10})
	require.NoError(t, err)
	assert.InDelta(t, 87.5, result.Average, 1e-9)
	assert.Len(t, result.Included, 2)

	again, err := finalAverage(final, siblings, map[string]float64{"q1": 85, "Q2": 90, "m": 10})
	require.NoError(t, err)
	assert.Equal(t, result, again)
}

func TestFinalAverageNothingIncluded(t *testing.T) {
	final := childPeriod("f", "FA", models.PeriodTypeFinal, 0)
	final.IncludeFlags = models.InclusionFlags{models.PeriodTypeMidterm: false}
	siblings := []models.GradingPeriod{childPeriod("m", "MT", models.PeriodTypeMidterm, 0), final}

	_, err := finalAverage(final, siblings, map[string]float64{"m": 80})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrComputation)
}

func TestFinalAverageMissingGrade(t *testing.T) {
	final := childPeriod("f", "FA", models.PeriodTypeFinal, 0)
	final.IncludeFlags = models.InclusionFlags{models.PeriodTypeMidterm: true, models.PeriodTypePrefinal: true}
	siblings := []models.GradingPeriod{
		childPeriod("m", "MT", models.PeriodTypeMidterm, 0),
		childPeriod("p", "PF", models.PeriodTypePrefinal, 0),
		final,
	}

	_, err := finalAverage(final, siblings, map[string]float64{"m": 80})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrComputation.Code, appErr.Code)
	assert.Contains(t, appErr.Fields, "p")
}

func TestFinalAverageSharedPeriodType(t *testing.T) {
	final := childPeriod("f", "FA", models.PeriodTypeFinal, 0)
	final.IncludeFlags = models.InclusionFlags{models.PeriodTypeQuarter: true, models.PeriodTypeMidterm: true}
	siblings := []models.GradingPeriod{
		childPeriod("q1", "Q1", models.PeriodTypeQuarter, 0.5),
		childPeriod("q2", "Q2", models.PeriodTypeQuarter, 0.5),
		childPeriod("m", "MT", models.PeriodTypeMidterm, 0),
		final,
	}

	_, err := finalAverage(final, siblings, map[string]float64{"quarter": 85, "midterm": 70})
	require.ErrorIs(t, err, appErrors.ErrComputation)
	fields := appErrors.FromError(err).Fields
	assert.Len(t, fields, 2)
	assert.Contains(t, fields, "q1")
	assert.Contains(t, fields, "q2")

	result, err := finalAverage(final, siblings, map[string]float64{"q1": 80, "Q2": 90, "midterm": 70})
	require.NoError(t, err)
	assert.InDelta(t, 80, result.Average, 1e-9)
}

func TestFinalAverageRejectsNonFinal(t *testing.T) {
	_, err := finalAverage(childPeriod("m", "MT", models.PeriodTypeMidterm, 0), nil, nil)
	assert.ErrorIs(t, err, appErrors.ErrComputation)
}

func TestWeightedAverage(t *testing.T) {
	periods := []models.GradingPeriod{
		childPeriod("q1", "Q1", models.PeriodTypeQuarter, 0.5),
		childPeriod("q2", "Q2", models.PeriodTypeQuarter, 0.5),
		childPeriod("f", "FA", models.PeriodTypeFinal, 0),
	}

	result, err := weightedAverage(periods, map[string]float64{"q1": 80, "q2": 90})
	require.NoError(t, err)
	assert.InDelta(t, 85, result.Average, 1e-9)
	assert.InDelta(t, 1, result.WeightTotal, 1e-9)
	assert.True(t, result.WeightsSumToOne)
	assert.Len(t, result.Contributions, 2)
}

func TestWeightedAverageReportsUnnormalisedWeights(t *testing.T) {
	periods := []models.GradingPeriod{
		childPeriod("q1", "Q1", models.PeriodTypeQuarter, 0.2),
		childPeriod("q2", "Q2", models.PeriodTypeQuarter, 0.6),
	}

	result, err := weightedAverage(periods, map[string]float64{"Q1": 70, "Q2": 90})
	require.NoError(t, err)
	assert.InDelta(t, 85, result.Average, 1e-9)
	assert.InDelta(t, 0.8, result.WeightTotal, 1e-9)
	assert.False(t, result.WeightsSumToOne)
}

func TestWeightedAverageFailures(t *testing.T) {
	_, err := weightedAverage([]models.GradingPeriod{childPeriod("q1", "Q1", models.PeriodTypeQuarter, 0)}, map[string]float64{"q1": 80})
	assert.ErrorIs(t, err, appErrors.ErrComputation)

	_, err = weightedAverage([]models.GradingPeriod{childPeriod("q1", "Q1", models.PeriodTypeQuarter, 1)}, map[string]float64{})
	assert.ErrorIs(t, err, appErrors.ErrComputation)
}

func TestWeightedAverageRejectsNonFiniteGrades(t *testing.T) {
	periods := []models.GradingPeriod{
		childPeriod("q1", "Q1", models.PeriodTypeQuarter, 0.5),
		childPeriod("q2", "Q2", models.PeriodTypeQuarter, 0.5),
	}

	_, err := weightedAverage(periods, map[string]float64{"q1": math.NaN(), "q2": math.Inf(1)})
	require.ErrorIs(t, err, appErrors.ErrComputation)
	fields := appErrors.FromError(err).Fields
	assert.Equal(t, "grade for Q1 must be a finite number", fields["q1"])
	assert.Equal(t, "grade for Q2 must be a finite number", fields["q2"])
}

func TestCheckPeriodShapeSkipsUncarriedWeight(t *testing.T) {
	for _, p := range []models.GradingPeriod{
		{Type: models.PeriodKindSemester, PeriodType: models.PeriodTypeQuarter, Weight: 1.5},
		{Type: models.PeriodKindQuarter, PeriodType: models.PeriodTypeFinal, ParentID: strPtr("sem"), Weight: -2},
	} {
		fields := map[string]string{}
		checkPeriodShape(&p, fields)
		assert.NotContains(t, fields, "weight")
	}
}

func TestGradingTree(t *testing.T) {
	s1 := semesterPeriod("s1")
	s1.SortOrder = 1
	s2 := semesterPeriod("s2")
	s2.Code, s2.SortOrder = "S2", 2
	mid := childPeriod("m", "MT", models.PeriodTypeMidterm, 0)
	mid.ParentID, mid.SortOrder = strPtr("s1"), 2
	pre := childPeriod("p", "PF", models.PeriodTypePrefinal, 0)
	pre.ParentID, pre.SortOrder = strPtr("s1"), 1
	orphan := childPeriod("o", "OR", models.PeriodTypeMidterm, 0)
	orphan.ParentID, orphan.SortOrder = strPtr("missing"), 3

	tree := newGradingTree([]models.GradingPeriod{mid, s2, orphan, pre, s1})

	roots := tree.Roots()
	require.Len(t, roots, 3)
	assert.Equal(t, []string{"s1", "s2", "o"}, []string{roots[0].ID, roots[1].ID, roots[2].ID})

	children := tree.Children("s1")
	require.Len(t, children, 2)
	assert.Equal(t, "p", children[0].ID)
	assert.Equal(t, "m", children[1].ID)

	nodes := tree.Nodes()
	require.Len(t, nodes, 3)
	assert.Len(t, nodes[0].Children, 2)
	assert.Empty(t, nodes[1].Children)
}
