package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// PeriodKind is the structural kind of a grading period.
type PeriodKind string

const (
	PeriodKindQuarter  PeriodKind = "quarter"
	PeriodKindSemester PeriodKind = "semester"
)

// Valid reports whether the kind is supported.
func (k PeriodKind) Valid() bool {
	return k == PeriodKindQuarter || k == PeriodKindSemester
}

// PeriodType is the semantic role of a period within its parent semester.
type PeriodType string

const (
	PeriodTypeQuarter  PeriodType = "quarter"
	PeriodTypeMidterm  PeriodType = "midterm"
	PeriodTypePrefinal PeriodType = "prefinal"
	PeriodTypeFinal    PeriodType = "final"
)

// PeriodTypes lists every period type in display order.
var PeriodTypes = []PeriodType{PeriodTypeQuarter, PeriodTypeMidterm, PeriodTypePrefinal, PeriodTypeFinal}

// Valid reports whether the period type is supported.
func (t PeriodType) Valid() bool {
	switch t {
	case PeriodTypeQuarter, PeriodTypeMidterm, PeriodTypePrefinal, PeriodTypeFinal:
		return true
	}
	return false
}

// InclusionFlags records, per sibling period type, whether that sibling's grade
// is part of a final average. Persisted as JSONB.
type InclusionFlags map[PeriodType]bool

// Included returns the period types flagged for inclusion, sorted.
func (f InclusionFlags) Included() []PeriodType {
	out := make([]PeriodType, 0, len(f))
	for t, ok := range f {
		if ok {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Value marshals the flags to JSON for persistence.
func (f InclusionFlags) Value() (driver.Value, error) {
	if f == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(map[PeriodType]bool(f))
	if err != nil {
		return nil, fmt.Errorf("marshal inclusion flags: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSONB payloads into the flags map.
func (f *InclusionFlags) Scan(value interface{}) error {
	if value == nil {
		*f = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for InclusionFlags", value)
	}
	if len(data) == 0 {
		*f = nil
		return nil
	}
	decoded := map[PeriodType]bool{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("unmarshal inclusion flags: %w", err)
	}
	if len(decoded) == 0 {
		*f = nil
		return nil
	}
	*f = decoded
	return nil
}

// GradingPeriod is a grading interval owned by an academic level. Root periods have
// no parent; child periods reference a root semester of the same level.
type GradingPeriod struct {
	ID              string         `db:"id" json:"id"`
	Name            string         `db:"name" json:"name"`
	Code            string         `db:"code" json:"code"`
	Type            PeriodKind     `db:"type" json:"type"`
	PeriodType      PeriodType     `db:"period_type" json:"period_type"`
	AcademicLevelID string         `db:"academic_level_id" json:"academic_level_id"`
	ParentID        *string        `db:"parent_id" json:"parent_id,omitempty"`
	SemesterNumber  *int           `db:"semester_number" json:"semester_number,omitempty"`
	Weight          float64        `db:"weight" json:"weight"`
	IsCalculated    bool           `db:"is_calculated" json:"is_calculated"`
	IncludeFlags    InclusionFlags `db:"include_flags" json:"include_flags,omitempty"`
	StartDate       time.Time      `db:"start_date" json:"start_date"`
	EndDate         time.Time      `db:"end_date" json:"end_date"`
	SortOrder       int            `db:"sort_order" json:"sort_order"`
	IsActive        bool           `db:"is_active" json:"is_active"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// IsRoot reports whether the period has no parent.
func (p GradingPeriod) IsRoot() bool {
	return p.ParentID == nil || *p.ParentID == ""
}

// IsRootSemester reports whether the period can own child periods.
func (p GradingPeriod) IsRootSemester() bool {
	return p.Type == PeriodKindSemester && p.IsRoot()
}

// IsFinal reports whether the period is a computed final average.
func (p GradingPeriod) IsFinal() bool {
	return p.PeriodType == PeriodTypeFinal
}

// CarriesWeight reports whether the weight field participates in weighted aggregation.
func (p GradingPeriod) CarriesWeight() bool {
	return p.Type == PeriodKindQuarter && !p.IsFinal()
}

// ParentValue returns the parent id or an empty string for roots.
func (p GradingPeriod) ParentValue() string {
	if p.ParentID == nil {
		return ""
	}
	return *p.ParentID
}
