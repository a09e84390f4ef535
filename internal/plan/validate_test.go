package plan

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validPlan() WorkoutPlan {
	p := New("Spring Block", Ref{ID: "c1", Name: "Dana Smith"}, GoalStrength, 4, 3,
		time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	s := NewSession("Day 1")
	s.Sections[1].Rows = []ExerciseRow{
		{Exercise: Ref{ID: "e1", Name: "Back Squat"}, Sets: 3, Reps: Int(10), LoadKg: Float(40), RestSeconds: Int(90), Tempo: "3010"},
		{Exercise: Ref{ID: "e2", Name: "Plank"}, Sets: 3, TimeSeconds: Int(45)},
		{
			Exercise: Ref{ID: "e3", Name: "Bench Press"}, Sets: 4, Reps: Int(8),
			Grouping: &ExerciseGrouping{Type: GroupingSuperset, GroupID: "A", Order: 1},
			WeeklyProgression: []WeeklyProgression{
				{Week: 2, Reps: Set(6)},
				{Week: 4, LoadKg: Set(62.5), RPE: Set(8.5)},
			},
		},
		{
			Exercise: Ref{ID: "e4", Name: "Bent Row"}, Sets: 4, Reps: Int(8),
			Grouping: &ExerciseGrouping{Type: GroupingSuperset, GroupID: "A", Order: 2},
		},
	}
	p.Sessions = append(p.Sessions, s)
	p.AssignIDs()
	return p
}

func hasPath(err error, path string) bool {
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		return false
	}
	for _, e := range verrs {
		if e.Path == path {
			return true
		}
	}
	return false
}

// TestValidateAcceptsWellFormedPlan verifies that a plan honouring every
// invariant passes validation.
func TestValidateAcceptsWellFormedPlan(t *testing.T) {
	if err := Validate(validPlan()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestValidateEmptyPlan verifies that a newly created plan with no sessions is valid,
// since plans start empty and are filled in by later saves.
func TestValidateEmptyPlan(t *testing.T) {
	p := New("Empty", Ref{Name: "Sam"}, GoalGeneral, 1, 1, time.Now())
	if err := Validate(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestValidateErrorsMatchSentinel verifies callers can detect validation
// failures with errors.Is without inspecting the list.
func TestValidateErrorsMatchSentinel(t *testing.T) {
	p := validPlan()
	p.Title = ""
	err := Validate(p)
	if !errors.Is(err, ErrInvalidPlan) {
		t.Fatalf("errors.Is(err, ErrInvalidPlan) = false for %v", err)
	}
	if !strings.Contains(err.Error(), "title") {
		t.Errorf("error %q does not mention title", err)
	}
}

// TestValidatePlanLevelFields verifies the plan header invariants.
func TestValidatePlanLevelFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*WorkoutPlan)
		path   string
	}{
		{"zero weeks", func(p *WorkoutPlan) { p.DurationWeeks = 0 }, "durationWeeks"},
		{"frequency too high", func(p *WorkoutPlan) { p.FrequencyPerWeek = 8 }, "frequencyPerWeek"},
		{"frequency zero", func(p *WorkoutPlan) { p.FrequencyPerWeek = 0 }, "frequencyPerWeek"},
		{"unknown goal", func(p *WorkoutPlan) { p.Goal = "bulk" }, "goal"},
		{"missing client", func(p *WorkoutPlan) { p.Client = Ref{} }, "client"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validPlan()
			tc.mutate(&p)
			if err := Validate(p); !hasPath(err, tc.path) {
				t.Errorf("expected violation at %q, got %v", tc.path, err)
			}
		})
	}
}

// TestValidateSectionSet verifies sessions carry exactly warmup, main and
// cooldown in that order; custom section types are rejected.
func TestValidateSectionSet(t *testing.T) {
	p := validPlan()
	p.Sessions[0].Sections[2].Type = "finisher"
	if err := Validate(p); !hasPath(err, "sessions[0].sections[2].type") {
		t.Errorf("expected section type violation, got %v", err)
	}

	p = validPlan()
	p.Sessions[0].Sections = p.Sessions[0].Sections[:2]
	if err := Validate(p); !hasPath(err, "sessions[0].sections") {
		t.Errorf("expected section count violation, got %v", err)
	}
}

// TestValidateRowParameters verifies base parameter ranges and the
// reps/time exclusivity rule.
func TestValidateRowParameters(t *testing.T) {
	row := "sessions[0].sections[1].rows[0]"
	cases := []struct {
		name   string
		mutate func(*ExerciseRow)
		path   string
	}{
		{"zero sets", func(r *ExerciseRow) { r.Sets = 0 }, row + ".sets"},
		{"reps and time", func(r *ExerciseRow) { r.TimeSeconds = Int(30) }, row},
		{"neither reps nor time", func(r *ExerciseRow) { r.Reps = nil }, row},
		{"negative rest", func(r *ExerciseRow) { r.RestSeconds = Int(-1) }, row + ".restSeconds"},
		{"negative load", func(r *ExerciseRow) { r.LoadKg = Float(-5) }, row + ".loadKg"},
		{"rpe above 10", func(r *ExerciseRow) { r.RPE = Float(11) }, row + ".rpe"},
		{"rir above 5", func(r *ExerciseRow) { r.RIR = Int(6) }, row + ".rir"},
		{"bad tempo", func(r *ExerciseRow) { r.Tempo = "slow" }, row + ".tempo"},
		{"missing exercise", func(r *ExerciseRow) { r.Exercise = Ref{} }, row + ".exercise"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validPlan()
			tc.mutate(&p.Sessions[0].Sections[1].Rows[0])
			if err := Validate(p); !hasPath(err, tc.path) {
				t.Errorf("expected violation at %q, got %v", tc.path, err)
			}
		})
	}
}

// TestValidateTempoFormats verifies dashed and explosive tempo codes are accepted.
func TestValidateTempoFormats(t *testing.T) {
	for _, tempo := range []string{"3010", "3-1-1-0", "20X0", "311"} {
		p := validPlan()
		p.Sessions[0].Sections[1].Rows[0].Tempo = tempo
		if err := Validate(p); err != nil {
			t.Errorf("tempo %q rejected: %v", tempo, err)
		}
	}
}

// TestValidateDuplicateGroupOrder verifies that two members of the same group
// sharing an order are rejected instead of silently tie-broken.
func TestValidateDuplicateGroupOrder(t *testing.T) {
	p := validPlan()
	p.Sessions[0].Sections[1].Rows[3].Grouping.Order = 1
	if err := Validate(p); !hasPath(err, "sessions[0].sections[1].rows[3].grouping.order") {
		t.Errorf("expected duplicate order violation, got %v", err)
	}
}

// TestValidateSingleGroupingIgnoresOrder verifies rows typed single are treated as
// ungrouped, so shared ids or orders are not violations.
func TestValidateSingleGroupingIgnoresOrder(t *testing.T) {
	p := validPlan()
	rows := p.Sessions[0].Sections[1].Rows
	rows[0].Grouping = &ExerciseGrouping{Type: GroupingSingle, GroupID: "A", Order: 1}
	rows[1].Grouping = &ExerciseGrouping{Type: GroupingSingle, GroupID: "A", Order: 1}
	if err := Validate(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestValidateGroupingFields verifies grouped rows need a group id and a positive order.
func TestValidateGroupingFields(t *testing.T) {
	p := validPlan()
	p.Sessions[0].Sections[1].Rows[2].Grouping = &ExerciseGrouping{Type: GroupingCircuit, GroupID: " ", Order: 0}
	err := Validate(p)
	for _, path := range []string{
		"sessions[0].sections[1].rows[2].grouping.groupId",
		"sessions[0].sections[1].rows[2].grouping.order",
	} {
		if !hasPath(err, path) {
			t.Errorf("expected violation at %q, got %v", path, err)
		}
	}

	p = validPlan()
	p.Sessions[0].Sections[1].Rows[2].Grouping.Type = "giantset"
	if err := Validate(p); !hasPath(err, "sessions[0].sections[1].rows[2].grouping.type") {
		t.Errorf("expected grouping type violation, got %v", err)
	}
}

// TestValidateProgressionWeeks verifies progression weeks are unique and lie
// within the plan duration.
func TestValidateProgressionWeeks(t *testing.T) {
	path := "sessions[0].sections[1].rows[2].weeklyProgression[1].week"

	p := validPlan()
	p.Sessions[0].Sections[1].Rows[2].WeeklyProgression[1].Week = 5
	if err := Validate(p); !hasPath(err, path) {
		t.Errorf("expected out-of-range week violation, got %v", err)
	}

	p = validPlan()
	p.Sessions[0].Sections[1].Rows[2].WeeklyProgression[1].Week = 2
	if err := Validate(p); !hasPath(err, path) {
		t.Errorf("expected duplicate week violation, got %v", err)
	}

	p = validPlan()
	p.Sessions[0].Sections[1].Rows[2].WeeklyProgression = []WeeklyProgression{}
	if err := Validate(p); !hasPath(err, "sessions[0].sections[1].rows[2].weeklyProgression") {
		t.Errorf("expected empty progression violation, got %v", err)
	}
}

// TestValidateProgressionOverrides verifies override values obey the same ranges
// as base values and respect the row's reps/time mode.
func TestValidateProgressionOverrides(t *testing.T) {
	p := validPlan()
	p.Sessions[0].Sections[1].Rows[1].WeeklyProgression = []WeeklyProgression{{Week: 2, Reps: Set(10)}}
	if err := Validate(p); !hasPath(err, "sessions[0].sections[1].rows[1].weeklyProgression[0].reps") {
		t.Errorf("expected reps-on-timed-row violation, got %v", err)
	}

	p = validPlan()
	p.Sessions[0].Sections[1].Rows[2].WeeklyProgression[0].RIR = Set(9)
	p.Sessions[0].Sections[1].Rows[2].WeeklyProgression[0].Sets = Set(0)
	err := Validate(p)
	for _, path := range []string{
		"sessions[0].sections[1].rows[2].weeklyProgression[0].rir",
		"sessions[0].sections[1].rows[2].weeklyProgression[0].sets",
	} {
		if !hasPath(err, path) {
			t.Errorf("expected violation at %q, got %v", path, err)
		}
	}
}

// TestValidateCollectsAllViolations verifies every violation is reported in one pass.
func TestValidateCollectsAllViolations(t *testing.T) {
	p := validPlan()
	p.Title = ""
	p.DurationWeeks = 0
	p.Sessions[0].Sections[1].Rows[0].Sets = 0

	var verrs ValidationErrors
	if !errors.As(Validate(p), &verrs) {
		t.Fatal("expected ValidationErrors")
	}
	// Progression weeks 2 and 4 now also fall outside [1, 0].
	if len(verrs) < 5 {
		t.Errorf("got %d violations, want at least 5: %v", len(verrs), verrs)
	}
}
