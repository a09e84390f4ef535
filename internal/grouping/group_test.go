package grouping

import (
	"reflect"
	"testing"

	"github.com/claude/coachplan/internal/plan"
)

func row(name string) plan.ExerciseRow {
	return plan.ExerciseRow{Exercise: plan.Ref{ID: name, Name: name}, Sets: 3, Reps: plan.Int(10)}
}

func grouped(name string, typ plan.GroupingType, id string, order int) plan.ExerciseRow {
	r := row(name)
	r.Grouping = &plan.ExerciseGrouping{Type: typ, GroupID: id, Order: order}
	return r
}

func names(u Unit) []string {
	out := make([]string, len(u.Rows))
	for i, r := range u.Rows {
		out[i] = r.Exercise.Name
	}
	return out
}

// TestGroupSectionSupersetOrdering verifies members are ordered by grouping
// order, not storage order, and labeled A1/A2.
func TestGroupSectionSupersetOrdering(t *testing.T) {
	units := GroupSection([]plan.ExerciseRow{
		grouped("R1", plan.GroupingSuperset, "A", 2),
		grouped("R2", plan.GroupingSuperset, "A", 1),
	})
	if len(units) != 1 {
		t.Fatalf("units = %d, want 1", len(units))
	}
	u := units[0]
	if u.Kind != KindGrouped || u.GroupingType != plan.GroupingSuperset || u.GroupID != "A" {
		t.Errorf("unit = %+v", u)
	}
	if got := names(u); !reflect.DeepEqual(got, []string{"R2", "R1"}) {
		t.Errorf("members = %v, want [R2 R1]", got)
	}
	if !reflect.DeepEqual(u.Labels, []string{"A1", "A2"}) {
		t.Errorf("labels = %v, want [A1 A2]", u.Labels)
	}
}

// TestGroupSectionInterleaved verifies that with grouped and ungrouped rows
// interleaved in storage order, singles keep their relative order and each
// group sits at the position of its first member.
func TestGroupSectionInterleaved(t *testing.T) {
	units := GroupSection([]plan.ExerciseRow{
		row("S1"),
		grouped("A-second", plan.GroupingSuperset, "A", 2),
		row("S2"),
		grouped("B-only", plan.GroupingCircuit, "B", 1),
		grouped("A-first", plan.GroupingSuperset, "A", 1),
		row("S3"),
		grouped("B-two", plan.GroupingCircuit, "B", 2),
	})

	var got [][]string
	for _, u := range units {
		got = append(got, names(u))
	}
	want := [][]string{
		{"S1"},
		{"A-first", "A-second"},
		{"S2"},
		{"B-only", "B-two"},
		{"S3"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("units = %v, want %v", got, want)
	}
	if units[0].Labels[0] != "1" || units[2].Labels[0] != "3" || units[4].Labels[0] != "5" {
		t.Errorf("single labels = %s %s %s, want 1 3 5", units[0].Labels[0], units[2].Labels[0], units[4].Labels[0])
	}
}

// TestGroupSectionSingleTypeIsUngrouped verifies rows typed single are never
// merged even when they share a group id.
func TestGroupSectionSingleTypeIsUngrouped(t *testing.T) {
	units := GroupSection([]plan.ExerciseRow{
		grouped("X", plan.GroupingSingle, "A", 1),
		grouped("Y", plan.GroupingSingle, "A", 2),
	})
	if len(units) != 2 {
		t.Fatalf("units = %d, want 2", len(units))
	}
	for _, u := range units {
		if u.Kind != KindSingle {
			t.Errorf("unit %v kind = %s, want single", names(u), u.Kind)
		}
	}
}

// TestGroupSectionTypeAndIDFormKey verifies that the same group id under two
// grouping types yields two separate units.
func TestGroupSectionTypeAndIDFormKey(t *testing.T) {
	units := GroupSection([]plan.ExerciseRow{
		grouped("S-A1", plan.GroupingSuperset, "A", 1),
		grouped("D-A1", plan.GroupingDropset, "A", 1),
		grouped("S-A2", plan.GroupingSuperset, "A", 2),
	})
	if len(units) != 2 {
		t.Fatalf("units = %d, want 2", len(units))
	}
	if got := names(units[0]); !reflect.DeepEqual(got, []string{"S-A1", "S-A2"}) {
		t.Errorf("superset = %v", got)
	}
	if units[1].GroupingType != plan.GroupingDropset {
		t.Errorf("second unit type = %s, want dropset", units[1].GroupingType)
	}
}

// TestGroupSectionAtomicity verifies every grouped row lands in exactly one
// unit and the row count is conserved.
func TestGroupSectionAtomicity(t *testing.T) {
	rows := []plan.ExerciseRow{
		grouped("C3", plan.GroupingCircuit, "C", 3),
		row("S1"),
		grouped("C1", plan.GroupingCircuit, "C", 1),
		grouped("T1", plan.GroupingTriset, "T", 1),
		grouped("C2", plan.GroupingCircuit, "C", 2),
		grouped("T2", plan.GroupingTriset, "T", 2),
		grouped("T3", plan.GroupingTriset, "T", 3),
	}
	units := GroupSection(rows)
	if RowCount(units) != len(rows) {
		t.Fatalf("row count = %d, want %d", RowCount(units), len(rows))
	}

	seen := map[string]int{}
	for _, u := range units {
		prev := 0
		for _, r := range u.Rows {
			seen[r.Exercise.Name]++
			if u.Kind == KindGrouped {
				if r.Grouping.Order <= prev {
					t.Errorf("unit %s order not ascending: %v", u.GroupID, names(u))
				}
				prev = r.Grouping.Order
			}
		}
	}
	for _, r := range rows {
		if seen[r.Exercise.Name] != 1 {
			t.Errorf("row %s appears %d times", r.Exercise.Name, seen[r.Exercise.Name])
		}
	}
}

// TestGroupSectionEmpty verifies an empty section yields no units.
func TestGroupSectionEmpty(t *testing.T) {
	if units := GroupSection(nil); len(units) != 0 {
		t.Errorf("units = %d, want 0", len(units))
	}
}
