package main

import (
	"fmt"
	"sort"
)

// InflationConfig enables inflation adjustment for a segment. Absent config
// means no inflation adjustment.
type InflationConfig struct {
	InflationRate float64 `yaml:"inflation_rate" json:"inflation_rate"`
}

// WithdrawalSegment is one phase of the withdrawal horizon with its own
// strategy, return model, tax and inflation configuration. Segments are
// exclusively owned by the plan that declares them.
type WithdrawalSegment struct {
	ID        string `yaml:"id" json:"id"`
	Name      string `yaml:"name" json:"name"` // Display only
	StartYear int    `yaml:"start_year" json:"start_year"`
	EndYear   int    `yaml:"end_year" json:"end_year"` // Inclusive

	Strategy         string              `yaml:"strategy" json:"strategy"`
	CustomPercentage float64             `yaml:"custom_percentage" json:"custom_percentage"`
	Monthly          *MonthlyConfig      `yaml:"monthly,omitempty" json:"monthly,omitempty"`
	Dynamic          *DynamicConfig      `yaml:"dynamic,omitempty" json:"dynamic,omitempty"`
	TaxOptimized     *TaxOptimizedConfig `yaml:"tax_optimized,omitempty" json:"tax_optimized,omitempty"`

	Returns   ReturnConfig     `yaml:"returns" json:"returns"`
	Inflation *InflationConfig `yaml:"inflation,omitempty" json:"inflation,omitempty"`

	// Income-tax mode overrides (Grundfreibetrag); when disabled the plan's
	// capital-gains tax applies
	EnableGrundfreibetrag  bool            `yaml:"enable_grundfreibetrag" json:"enable_grundfreibetrag"`
	GrundfreibetragPerYear map[int]float64 `yaml:"grundfreibetrag_per_year,omitempty" json:"grundfreibetrag_per_year,omitempty"`
	IncomeTaxRate          float64         `yaml:"income_tax_rate" json:"income_tax_rate"`

	// First calendar year may be a partial year (segment starting mid-year);
	// months held prorates the advance levy basis. Zero means a full year.
	FirstYearMonths int `yaml:"first_year_months,omitempty" json:"first_year_months,omitempty"`
}

// NewWithdrawalSegment creates a segment with sensible defaults, used when a
// phase is added or comparison configurations are generated
func NewWithdrawalSegment(id, name string, startYear, endYear int) *WithdrawalSegment {
	return &WithdrawalSegment{
		ID:        id,
		Name:      name,
		StartYear: startYear,
		EndYear:   endYear,
		Strategy:  "fixed4",
		Returns:   ReturnConfig{Mode: "fixed", FixedRate: 0.05},
	}
}

// InflationRate returns the segment's inflation rate, zero when no inflation
// config is present
func (s *WithdrawalSegment) InflationRate() float64 {
	if s.Inflation == nil {
		return 0
	}
	return s.Inflation.InflationRate
}

// sortedByStartYear returns a sorted copy, leaving the input order untouched
func sortedByStartYear(segments []*WithdrawalSegment) []*WithdrawalSegment {
	sorted := make([]*WithdrawalSegment, len(segments))
	copy(sorted, segments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartYear < sorted[j].StartYear
	})
	return sorted
}

// ValidateSegments checks the segment set as a unit: sorted by start year the
// segments must cover [planStart, planEnd] with no gaps and no overlaps, and
// each segment's own range must not be inverted. Violations are returned as a
// list of human-readable messages; the caller decides whether to block or
// only warn.
func ValidateSegments(segments []*WithdrawalSegment, planStart, planEnd int) []string {
	var errors []string

	if len(segments) == 0 {
		return []string{"at least one withdrawal segment is required"}
	}

	sorted := sortedByStartYear(segments)

	for _, seg := range sorted {
		if seg.StartYear > seg.EndYear {
			errors = append(errors, fmt.Sprintf("segment %q: start year %d is after end year %d",
				seg.Name, seg.StartYear, seg.EndYear))
		}
		if _, err := ParseWithdrawalStrategy(seg.Strategy); err != nil {
			errors = append(errors, fmt.Sprintf("segment %q: %v", seg.Name, err))
		}
		if mode, err := ParseReturnMode(seg.Returns.Mode); err != nil {
			errors = append(errors, fmt.Sprintf("segment %q: %v", seg.Name, err))
		} else if mode == ReturnMultiAsset {
			if err := ValidateAssetWeights(seg.Returns.Assets); err != nil {
				errors = append(errors, fmt.Sprintf("segment %q: %v", seg.Name, err))
			}
		}
	}

	if sorted[0].StartYear != planStart {
		errors = append(errors, fmt.Sprintf("first segment starts %d, plan starts %d",
			sorted[0].StartYear, planStart))
	}
	last := sorted[len(sorted)-1]
	if last.EndYear != planEnd {
		errors = append(errors, fmt.Sprintf("last segment ends %d, plan ends %d",
			last.EndYear, planEnd))
	}

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if cur.StartYear > prev.EndYear+1 {
			errors = append(errors, fmt.Sprintf("gap between segment %q (ends %d) and %q (starts %d)",
				prev.Name, prev.EndYear, cur.Name, cur.StartYear))
		}
		if cur.StartYear <= prev.EndYear {
			errors = append(errors, fmt.Sprintf("segment %q (ends %d) overlaps %q (starts %d)",
				prev.Name, prev.EndYear, cur.Name, cur.StartYear))
		}
	}

	return errors
}

// FindSegmentForYear returns the segment owning the year. Uniqueness is
// guaranteed by the validated no-gap/no-overlap invariant.
func FindSegmentForYear(segments []*WithdrawalSegment, year int) *WithdrawalSegment {
	for _, seg := range segments {
		if year >= seg.StartYear && year <= seg.EndYear {
			return seg
		}
	}
	return nil
}

// RepairSegmentBounds re-derives implied start/end years after a reorder,
// insert or removal so the no-gap/no-overlap invariant is restored
// automatically rather than left for the user to fix by hand. Segment order
// (by current start year) and durations are preserved where possible: the
// first segment snaps to planStart, each successor starts right after its
// predecessor, and ends are clamped to the horizon. A segment left with no
// years because an earlier one absorbed the remainder is dropped, and the
// last surviving segment always ends exactly at planEnd, so the returned set
// covers [planStart, planEnd] with no gaps and no overlaps.
func RepairSegmentBounds(segments []*WithdrawalSegment, planStart, planEnd int) []*WithdrawalSegment {
	if len(segments) == 0 {
		return segments
	}
	sorted := sortedByStartYear(segments)

	kept := make([]*WithdrawalSegment, 0, len(sorted))
	nextStart := planStart
	for _, seg := range sorted {
		if nextStart > planEnd {
			// An earlier segment absorbed the rest of the horizon
			continue
		}
		duration := seg.EndYear - seg.StartYear
		if duration < 0 {
			duration = 0
		}
		seg.StartYear = nextStart
		seg.EndYear = nextStart + duration
		if seg.EndYear > planEnd {
			seg.EndYear = planEnd
		}
		kept = append(kept, seg)
		nextStart = seg.EndYear + 1
	}
	if len(kept) == 0 {
		// Inverted horizon; nothing sensible to repair
		return kept
	}
	kept[len(kept)-1].EndYear = planEnd
	return kept
}

// InsertSegmentBefore inserts a new segment before the segment with the given
// ID (or appends when the ID is not found) and repairs all bounds
func InsertSegmentBefore(segments []*WithdrawalSegment, beforeID string, seg *WithdrawalSegment, planStart, planEnd int) []*WithdrawalSegment {
	inserted := false
	result := make([]*WithdrawalSegment, 0, len(segments)+1)
	for _, s := range segments {
		if s.ID == beforeID && !inserted {
			// Anchor the new segment just ahead of its successor so the
			// repair pass keeps it in place
			seg.EndYear = s.StartYear + (seg.EndYear - seg.StartYear)
			seg.StartYear = s.StartYear
			s.StartYear++
			result = append(result, seg)
			inserted = true
		}
		result = append(result, s)
	}
	if !inserted {
		result = append(result, seg)
	}
	return RepairSegmentBounds(result, planStart, planEnd)
}

// RemoveSegment removes the segment with the given ID and repairs the
// neighbors to close the hole
func RemoveSegment(segments []*WithdrawalSegment, id string, planStart, planEnd int) []*WithdrawalSegment {
	result := make([]*WithdrawalSegment, 0, len(segments))
	for _, s := range segments {
		if s.ID != id {
			result = append(result, s)
		}
	}
	return RepairSegmentBounds(result, planStart, planEnd)
}
