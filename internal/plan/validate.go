package plan

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidPlan is matched by every ValidationErrors value via errors.Is.
var ErrInvalidPlan = errors.New("invalid plan")

// FieldError is a single invariant violation located by a JSON-ish path.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Path + ": " + e.Message
}

// ValidationErrors collects every violation found in a plan.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return "invalid plan: " + strings.Join(msgs, "; ")
}

// Is makes errors.Is(err, ErrInvalidPlan) true.
func (v ValidationErrors) Is(target error) bool {
	return target == ErrInvalidPlan
}

// tempoRe accepts 3-4 phase codes, digits or X for explosive, optionally dash separated.
var tempoRe = regexp.MustCompile(`^[0-9Xx]{3,4}$`)

type validator struct {
	errs ValidationErrors
}

func (v *validator) add(path, format string, args ...any) {
	v.errs = append(v.errs, FieldError{Path: path, Message: fmt.Sprintf(format, args...)})
}

// Validate checks every plan invariant and returns ValidationErrors listing
// all violations, or nil. A plan that fails here must not be resolved,
// grouped, paginated or rendered.
func Validate(p WorkoutPlan) error {
	v := &validator{}

	if strings.TrimSpace(p.Title) == "" {
		v.add("title", "is required")
	}
	if p.Client.IsZero() {
		v.add("client", "is required")
	}
	if !isValidGoal(p.Goal) {
		v.add("goal", "unknown goal %q", p.Goal)
	}
	if p.DurationWeeks < 1 {
		v.add("durationWeeks", "must be at least 1, got %d", p.DurationWeeks)
	}
	if p.FrequencyPerWeek < 1 || p.FrequencyPerWeek > 7 {
		v.add("frequencyPerWeek", "must be between 1 and 7, got %d", p.FrequencyPerWeek)
	}

	for i, s := range p.Sessions {
		v.session(fmt.Sprintf("sessions[%d]", i), s, p.DurationWeeks)
	}

	if len(v.errs) == 0 {
		return nil
	}
	return v.errs
}

func (v *validator) session(path string, s Session, durationWeeks int) {
	if strings.TrimSpace(s.Name) == "" {
		v.add(path+".name", "is required")
	}
	if len(s.Sections) != len(SectionTypes) {
		v.add(path+".sections", "must contain exactly %d sections, got %d", len(SectionTypes), len(s.Sections))
	}
	for j, sec := range s.Sections {
		secPath := fmt.Sprintf("%s.sections[%d]", path, j)
		if j < len(SectionTypes) && sec.Type != SectionTypes[j] {
			v.add(secPath+".type", "must be %q, got %q", SectionTypes[j], sec.Type)
		}
		v.section(secPath, sec, durationWeeks)
	}
}

type groupKey struct {
	typ GroupingType
	id  string
}

func (v *validator) section(path string, sec Section, durationWeeks int) {
	orders := map[groupKey]map[int]bool{}

	for k, r := range sec.Rows {
		rowPath := fmt.Sprintf("%s.rows[%d]", path, k)
		v.row(rowPath, r, durationWeeks)

		if !r.IsGrouped() {
			continue
		}
		key := groupKey{typ: r.Grouping.Type, id: r.Grouping.GroupID}
		if orders[key] == nil {
			orders[key] = map[int]bool{}
		}
		if orders[key][r.Grouping.Order] {
			v.add(rowPath+".grouping.order", "duplicate order %d in %s group %q",
				r.Grouping.Order, r.Grouping.Type, r.Grouping.GroupID)
		}
		orders[key][r.Grouping.Order] = true
	}
}

func (v *validator) row(path string, r ExerciseRow, durationWeeks int) {
	if r.Exercise.IsZero() {
		v.add(path+".exercise", "is required")
	}
	if r.Sets < 1 {
		v.add(path+".sets", "must be at least 1, got %d", r.Sets)
	}
	switch {
	case r.Reps != nil && r.TimeSeconds != nil:
		v.add(path, "reps and timeSeconds are mutually exclusive")
	case r.Reps == nil && r.TimeSeconds == nil:
		v.add(path, "one of reps or timeSeconds is required")
	case r.Reps != nil && *r.Reps < 1:
		v.add(path+".reps", "must be at least 1, got %d", *r.Reps)
	case r.TimeSeconds != nil && *r.TimeSeconds < 1:
		v.add(path+".timeSeconds", "must be at least 1, got %d", *r.TimeSeconds)
	}
	if r.LoadKg != nil && *r.LoadKg < 0 {
		v.add(path+".loadKg", "must not be negative")
	}
	if r.RestSeconds != nil && *r.RestSeconds < 0 {
		v.add(path+".restSeconds", "must not be negative")
	}
	if r.Tempo != "" && !validTempo(r.Tempo) {
		v.add(path+".tempo", "invalid tempo code %q", r.Tempo)
	}
	if r.RPE != nil {
		v.rpe(path+".rpe", *r.RPE)
	}
	if r.RIR != nil {
		v.rir(path+".rir", *r.RIR)
	}

	if g := r.Grouping; g != nil {
		if !isValidGroupingType(g.Type) {
			v.add(path+".grouping.type", "unknown grouping type %q", g.Type)
		} else if r.IsGrouped() {
			if strings.TrimSpace(g.GroupID) == "" {
				v.add(path+".grouping.groupId", "is required for %s", g.Type)
			}
			if g.Order < 1 {
				v.add(path+".grouping.order", "must be a positive integer, got %d", g.Order)
			}
		}
	}

	if r.WeeklyProgression != nil && len(r.WeeklyProgression) == 0 {
		v.add(path+".weeklyProgression", "must not be empty when present")
	}
	seen := map[int]bool{}
	for i, wp := range r.WeeklyProgression {
		wpPath := fmt.Sprintf("%s.weeklyProgression[%d]", path, i)
		if wp.Week < 1 || wp.Week > durationWeeks {
			v.add(wpPath+".week", "week %d outside [1, %d]", wp.Week, durationWeeks)
		}
		if seen[wp.Week] {
			v.add(wpPath+".week", "duplicate week %d", wp.Week)
		}
		seen[wp.Week] = true
		v.progression(wpPath, wp, r.IsTimed())
	}
}

func (v *validator) progression(path string, wp WeeklyProgression, timed bool) {
	if n, ok := wp.Sets.Get(); ok && n < 1 {
		v.add(path+".sets", "must be at least 1, got %d", n)
	}
	if n, ok := wp.Reps.Get(); ok {
		if timed {
			v.add(path+".reps", "cannot override reps on a timed row")
		} else if n < 1 {
			v.add(path+".reps", "must be at least 1, got %d", n)
		}
	}
	if n, ok := wp.TimeSeconds.Get(); ok {
		if !timed {
			v.add(path+".timeSeconds", "cannot override time on a rep-based row")
		} else if n < 1 {
			v.add(path+".timeSeconds", "must be at least 1, got %d", n)
		}
	}
	if f, ok := wp.LoadKg.Get(); ok && f < 0 {
		v.add(path+".loadKg", "must not be negative")
	}
	if n, ok := wp.RestSeconds.Get(); ok && n < 0 {
		v.add(path+".restSeconds", "must not be negative")
	}
	if t, ok := wp.Tempo.Get(); ok && t != "" && !validTempo(t) {
		v.add(path+".tempo", "invalid tempo code %q", t)
	}
	if f, ok := wp.RPE.Get(); ok {
		v.rpe(path+".rpe", f)
	}
	if n, ok := wp.RIR.Get(); ok {
		v.rir(path+".rir", n)
	}
}

func (v *validator) rpe(path string, f float64) {
	if f < 1 || f > 10 {
		v.add(path, "must be between 1 and 10, got %g", f)
	}
}

func (v *validator) rir(path string, n int) {
	if n < 0 || n > 5 {
		v.add(path, "must be between 0 and 5, got %d", n)
	}
}

func validTempo(t string) bool {
	return tempoRe.MatchString(strings.ReplaceAll(t, "-", ""))
}

func isValidGoal(g Goal) bool {
	for _, v := range ValidGoals {
		if v == g {
			return true
		}
	}
	return false
}

func isValidGroupingType(t GroupingType) bool {
	for _, v := range ValidGroupingTypes {
		if v == t {
			return true
		}
	}
	return false
}
