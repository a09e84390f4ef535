// Package progression resolves the effective per-week parameters of an
// exercise row from its base values and weekly overrides.
package progression

import "github.com/claude/coachplan/internal/plan"

// EffectiveParameters are the values a client performs in a given week.
// Nil pointers and empty strings mean "no value", never zero.
type EffectiveParameters struct {
	Week        int       `json:"week"`
	Sets        *int      `json:"sets,omitempty"`
	Reps        *int      `json:"reps,omitempty"`
	TimeSeconds *int      `json:"timeSeconds,omitempty"`
	LoadKg      *float64  `json:"loadKg,omitempty"`
	RestSeconds *int      `json:"restSeconds,omitempty"`
	Tempo       string    `json:"tempo,omitempty"`
	RPE         *float64  `json:"rpe,omitempty"`
	RIR         *int      `json:"rir,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Tool        *plan.Ref `json:"tool,omitempty"`
	Overridden  bool      `json:"overridden"`
}

// Base projects a row's base fields with no week applied.
func Base(row plan.ExerciseRow) EffectiveParameters {
	e := EffectiveParameters{
		Reps:        copyPtr(row.Reps),
		TimeSeconds: copyPtr(row.TimeSeconds),
		LoadKg:      copyPtr(row.LoadKg),
		RestSeconds: copyPtr(row.RestSeconds),
		Tempo:       row.Tempo,
		RPE:         copyPtr(row.RPE),
		RIR:         copyPtr(row.RIR),
		Notes:       row.Notes,
		Tool:        copyPtr(row.Tool),
	}
	if row.Sets > 0 {
		e.Sets = plan.Int(row.Sets)
	}
	return e
}

// ResolveWeek returns the effective parameters of row in week. Each field
// takes the matching week's override when set, else the base value. A week
// with no progression entry resolves to the base row. Never panics.
func ResolveWeek(row plan.ExerciseRow, week int) EffectiveParameters {
	e := Base(row)
	e.Week = week

	wp, ok := entryFor(row, week)
	if !ok {
		return e
	}
	e.Overridden = true

	overrideInt(&e.Sets, wp.Sets)
	overrideInt(&e.Reps, wp.Reps)
	overrideInt(&e.TimeSeconds, wp.TimeSeconds)
	overrideFloat(&e.LoadKg, wp.LoadKg)
	overrideInt(&e.RestSeconds, wp.RestSeconds)
	overrideInt(&e.RIR, wp.RIR)
	overrideFloat(&e.RPE, wp.RPE)
	if v, ok := wp.Tempo.Get(); ok {
		e.Tempo = v
	}
	if v, ok := wp.Notes.Get(); ok {
		e.Notes = v
	}
	if v, ok := wp.Tool.Get(); ok {
		if v.IsZero() {
			e.Tool = nil
		} else {
			e.Tool = &v
		}
	}
	return e
}

// ResolveWeeks resolves row for every week in order.
func ResolveWeeks(row plan.ExerciseRow, weeks []int) []EffectiveParameters {
	out := make([]EffectiveParameters, len(weeks))
	for i, w := range weeks {
		out[i] = ResolveWeek(row, w)
	}
	return out
}

// Varies reports whether any requested week has a progression entry.
func Varies(row plan.ExerciseRow, weeks []int) bool {
	for _, w := range weeks {
		if _, ok := entryFor(row, w); ok {
			return true
		}
	}
	return false
}

func entryFor(row plan.ExerciseRow, week int) (plan.WeeklyProgression, bool) {
	if week < 1 {
		return plan.WeeklyProgression{}, false
	}
	for _, wp := range row.WeeklyProgression {
		if wp.Week == week {
			return wp, true
		}
	}
	return plan.WeeklyProgression{}, false
}

func overrideInt(dst **int, o plan.Override[int]) {
	if v, ok := o.Get(); ok {
		*dst = &v
	}
}

func overrideFloat(dst **float64, o plan.Override[float64]) {
	if v, ok := o.Get(); ok {
		*dst = &v
	}
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
