// Package grouping clusters the rows of a section into atomic units: single
// exercises or superset/triset/circuit/dropset groups that are performed
// back-to-back and must never be separated.
package grouping

import (
	"sort"
	"strconv"

	"github.com/claude/coachplan/internal/plan"
)

// Kind distinguishes single-row units from grouped units.
type Kind string

const (
	KindSingle  Kind = "single"
	KindGrouped Kind = "grouped"
)

// Unit is an atomic layout unit. Rows are in execution order; Labels is
// parallel to Rows ("A1", "A2" for groups, the unit position for singles).
type Unit struct {
	Kind         Kind
	GroupingType plan.GroupingType
	GroupID      string
	Rows         []plan.ExerciseRow
	Labels       []string
}

type key struct {
	typ plan.GroupingType
	id  string
}

// GroupSection returns the units of a section in display order. Ungrouped
// rows keep their position. Grouped rows collapse into one unit placed where
// the first member appears in the section, sorted by grouping order. Orders
// are assumed unique (plan.Validate rejects ties); the sort is stable anyway.
func GroupSection(rows []plan.ExerciseRow) []Unit {
	var units []Unit
	index := map[key]int{}

	for _, r := range rows {
		if !r.IsGrouped() {
			units = append(units, Unit{
				Kind:         KindSingle,
				GroupingType: plan.GroupingSingle,
				Rows:         []plan.ExerciseRow{r},
			})
			continue
		}
		k := key{typ: r.Grouping.Type, id: r.Grouping.GroupID}
		if i, ok := index[k]; ok {
			units[i].Rows = append(units[i].Rows, r)
			continue
		}
		index[k] = len(units)
		units = append(units, Unit{
			Kind:         KindGrouped,
			GroupingType: r.Grouping.Type,
			GroupID:      r.Grouping.GroupID,
			Rows:         []plan.ExerciseRow{r},
		})
	}

	for i := range units {
		u := &units[i]
		if u.Kind == KindGrouped {
			sort.SliceStable(u.Rows, func(a, b int) bool {
				return u.Rows[a].Grouping.Order < u.Rows[b].Grouping.Order
			})
		}
		u.Labels = labels(*u, i+1)
	}
	return units
}

// RowCount returns the number of rows across units.
func RowCount(units []Unit) int {
	n := 0
	for _, u := range units {
		n += len(u.Rows)
	}
	return n
}

func labels(u Unit, position int) []string {
	out := make([]string, len(u.Rows))
	if u.Kind == KindSingle {
		out[0] = strconv.Itoa(position)
		return out
	}
	for i := range u.Rows {
		out[i] = u.GroupID + strconv.Itoa(i+1)
	}
	return out
}
