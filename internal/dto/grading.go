package dto

import "github.com/noah-isme/registrar-api/internal/models"

// GradingNode is one period in the structure tree with its ordered children.
type GradingNode struct {
	models.GradingPeriod
	Children []GradingNode `json:"children,omitempty"`
}

// GradingStructure is the full period tree of an academic level.
type GradingStructure struct {
	AcademicLevelID string        `json:"academic_level_id"`
	Periods         []GradingNode `json:"periods"`
}

// FinalAverageRequest carries grades keyed by sibling period id, code or period type.
type FinalAverageRequest struct {
	Grades map[string]float64 `json:"grades" validate:"required"`
}

// PeriodGrade is a single sibling grade that took part in a computation.
type PeriodGrade struct {
	PeriodID   string            `json:"period_id"`
	Code       string            `json:"code"`
	PeriodType models.PeriodType `json:"period_type"`
	Grade      float64           `json:"grade"`
}

// FinalAverageResult is the unweighted mean over the included siblings.
type FinalAverageResult struct {
	PeriodID string        `json:"period_id"`
	Average  float64       `json:"average"`
	Included []PeriodGrade `json:"included"`
}

// WeightedAverageRequest scopes a weight-based aggregation either to the children of
// a semester (ParentID) or to the root quarters of an academic level.
type WeightedAverageRequest struct {
	ParentID        string             `json:"parent_id"`
	AcademicLevelID string             `json:"academic_level_id"`
	Grades          map[string]float64 `json:"grades" validate:"required"`
}

// WeightedContribution is one period's share of a weighted aggregate.
type WeightedContribution struct {
	PeriodGrade
	Weight float64 `json:"weight"`
}

// WeightedAverageResult reports the normalised weighted average and how the weights
// relate to 1, since sibling weights are not required to sum to 1.
type WeightedAverageResult struct {
	Average         float64                `json:"average"`
	WeightTotal     float64                `json:"weight_total"`
	WeightsSumToOne bool                   `json:"weights_sum_to_one"`
	Contributions   []WeightedContribution `json:"contributions"`
}
