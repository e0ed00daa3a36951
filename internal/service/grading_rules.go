package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/noah-isme/registrar-api/internal/dto"
	"github.com/noah-isme/registrar-api/internal/models"
	appErrors "github.com/noah-isme/registrar-api/pkg/errors"
)

const weightTolerance = 1e-9

// checkPeriodShape applies the rules that need nothing but the period itself and
// records violations into fields keyed by JSON field name.
func checkPeriodShape(p *models.GradingPeriod, fields map[string]string) {
	if !p.Type.Valid() {
		fields["type"] = "type must be one of quarter, semester"
	}
	if !p.PeriodType.Valid() {
		fields["period_type"] = "period_type must be one of quarter, midterm, prefinal, final"
	}

	switch p.Type {
	case models.PeriodKindSemester:
		if !p.IsRoot() {
			fields["parent_id"] = "semester periods cannot have a parent"
		}
		if p.PeriodType.Valid() && p.PeriodType != models.PeriodTypeQuarter {
			fields["period_type"] = "only quarter-type periods may be midterm, prefinal or final"
		}
	case models.PeriodKindQuarter:
		if p.IsRoot() && p.PeriodType.Valid() && p.PeriodType != models.PeriodTypeQuarter {
			fields["period_type"] = "root quarter periods must have period_type quarter"
		}
		if p.SemesterNumber != nil {
			fields["semester_number"] = "semester_number is only allowed on semester periods"
		}
	}

	if p.SemesterNumber != nil && (*p.SemesterNumber < 1 || *p.SemesterNumber > 2) {
		fields["semester_number"] = "semester_number must be 1 or 2"
	}

	if p.CarriesWeight() && (math.IsNaN(p.Weight) || p.Weight < 0 || p.Weight > 1) {
		fields["weight"] = "weight must be between 0 and 1"
	}

	if p.IsFinal() {
		if p.IsRoot() {
			fields["parent_id"] = "final periods must belong to a semester"
		}
		for t := range p.IncludeFlags {
			if !t.Valid() || t == models.PeriodTypeFinal {
				fields["include_flags"] = fmt.Sprintf("cannot include period type %q", t)
				break
			}
		}
	} else if len(p.IncludeFlags.Included()) > 0 {
		fields["include_flags"] = "only final periods declare included periods"
	}

	if !p.StartDate.IsZero() && !p.EndDate.IsZero() && p.EndDate.Before(p.StartDate) {
		fields["end_date"] = "end_date must not be before start_date"
	}
}

// normalizePeriod clears fields that carry no meaning for the period's kind.
func normalizePeriod(p *models.GradingPeriod) {
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	p.Name = strings.TrimSpace(p.Name)
	if p.ParentID != nil && *p.ParentID == "" {
		p.ParentID = nil
	}
	if !p.CarriesWeight() {
		p.Weight = 0
	}
	if p.IsFinal() {
		p.IsCalculated = true
	} else {
		p.IncludeFlags = nil
	}
}

// declareSiblingFlags gives every non-final sibling period type an explicit entry in
// the final period's inclusion flags, defaulting to false. It reports whether an
// entry was added.
func declareSiblingFlags(final *models.GradingPeriod, siblings []models.GradingPeriod) bool {
	added := false
	flags := models.InclusionFlags{}
	for t, included := range final.IncludeFlags {
		flags[t] = included
	}
	for _, s := range siblings {
		if s.ID == final.ID || s.IsFinal() {
			continue
		}
		if _, declared := flags[s.PeriodType]; !declared {
			flags[s.PeriodType] = false
			added = true
		}
	}
	final.IncludeFlags = flags
	return added
}

// gradeFor looks a period's grade up by id, then by code, then optionally by period
// type. Callers only allow the type key when a single period in scope has that type.
func gradeFor(grades map[string]float64, p models.GradingPeriod, byType bool) (float64, bool) {
	if g, ok := grades[p.ID]; ok {
		return g, true
	}
	if g, ok := grades[p.Code]; ok {
		return g, true
	}
	if byType {
		g, ok := grades[string(p.PeriodType)]
		return g, ok
	}
	return 0, false
}

// finalAverage is the unweighted mean of the siblings whose period type is flagged
// for inclusion on the final period. Each sibling's weight is not consulted.
func finalAverage(final models.GradingPeriod, siblings []models.GradingPeriod, grades map[string]float64) (*dto.FinalAverageResult, error) {
	if !final.IsFinal() {
		return nil, appErrors.Clone(appErrors.ErrComputation, "period is not a final average period")
	}

	included := make([]models.GradingPeriod, 0, len(siblings))
	for _, s := range siblings {
		if s.ID == final.ID || s.IsFinal() {
			continue
		}
		if final.IncludeFlags[s.PeriodType] {
			included = append(included, s)
		}
	}
	if len(included) == 0 {
		return nil, appErrors.Clone(appErrors.ErrComputation, "no sibling periods are marked for inclusion")
	}

	perType := map[models.PeriodType]int{}
	for _, s := range included {
		perType[s.PeriodType]++
	}

	missing := map[string]string{}
	result := &dto.FinalAverageResult{PeriodID: final.ID, Included: make([]dto.PeriodGrade, 0, len(included))}
	sum := 0.0
	for _, s := range included {
		shared := perType[s.PeriodType] > 1
		grade, ok := gradeFor(grades, s, !shared)
		if !ok {
			if _, typed := grades[string(s.PeriodType)]; typed && shared {
				missing[s.ID] = fmt.Sprintf("grade for %s is required; period type %s is shared by %d periods", s.Code, s.PeriodType, perType[s.PeriodType])
			} else {
				missing[s.ID] = fmt.Sprintf("grade for %s is required", s.Code)
			}
			continue
		}
		if math.IsNaN(grade) || math.IsInf(grade, 0) {
			missing[s.ID] = fmt.Sprintf("grade for %s must be a finite number", s.Code)
			continue
		}
		sum += grade
		result.Included = append(result.Included, dto.PeriodGrade{PeriodID: s.ID, Code: s.Code, PeriodType: s.PeriodType, Grade: grade})
	}
	if len(missing) > 0 {
		err := appErrors.Clone(appErrors.ErrComputation, "grades missing for included periods")
		err.Fields = missing
		return nil, err
	}

	result.Average = sum / float64(len(included))
	return result, nil
}

// weightedAverage aggregates quarter-type, non-final periods by their weight field.
// The result is normalised by the weight total, which is reported as-is.
func weightedAverage(periods []models.GradingPeriod, grades map[string]float64) (*dto.WeightedAverageResult, error) {
	result := &dto.WeightedAverageResult{Contributions: make([]dto.WeightedContribution, 0, len(periods))}
	missing := map[string]string{}
	weighted := 0.0

	for _, p := range periods {
		if !p.CarriesWeight() || p.Weight <= 0 {
			continue
		}
		grade, ok := gradeFor(grades, p, false)
		if !ok {
			missing[p.ID] = fmt.Sprintf("grade for %s is required", p.Code)
			continue
		}
		if math.IsNaN(grade) || math.IsInf(grade, 0) {
			missing[p.ID] = fmt.Sprintf("grade for %s must be a finite number", p.Code)
			continue
		}
		result.WeightTotal += p.Weight
		weighted += p.Weight * grade
		result.Contributions = append(result.Contributions, dto.WeightedContribution{
			PeriodGrade: dto.PeriodGrade{PeriodID: p.ID, Code: p.Code, PeriodType: p.PeriodType, Grade: grade},
			Weight:      p.Weight,
		})
	}

	if len(missing) > 0 {
		err := appErrors.Clone(appErrors.ErrComputation, "grades missing for weighted periods")
		err.Fields = missing
		return nil, err
	}
	if result.WeightTotal <= 0 {
		return nil, appErrors.Clone(appErrors.ErrComputation, "no weighted periods in scope")
	}

	result.Average = weighted / result.WeightTotal
	result.WeightsSumToOne = math.Abs(result.WeightTotal-1) < weightTolerance
	return result, nil
}
