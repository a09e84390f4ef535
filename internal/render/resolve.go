package render

import (
	"fmt"
	"time"

	"github.com/claude/coachplan/internal/grouping"
	"github.com/claude/coachplan/internal/plan"
	"github.com/claude/coachplan/internal/progression"
	"github.com/google/uuid"
)

// Input carries the label lookups and week selection supplied by the caller.
type Input struct {
	ClientName string
	// Tools maps tool id to display name; unknown ids fall back to the
	// denormalized name stored on the row.
	Tools map[string]string
	// Weeks to print; empty selects every week of the plan.
	Weeks []int
}

// ResolvedPlan is a plan with every row resolved for every requested week and
// every section grouped into atomic units.
type ResolvedPlan struct {
	PlanID           uuid.UUID           `json:"planId"`
	Title            string              `json:"title"`
	ClientName       string              `json:"clientName"`
	Goal             plan.Goal           `json:"goal"`
	DurationWeeks    int                 `json:"durationWeeks"`
	FrequencyPerWeek int                 `json:"frequencyPerWeek"`
	Equipment        string              `json:"equipment,omitempty"`
	Notes            string              `json:"notes,omitempty"`
	Weeks            []int               `json:"weeks"`
	UpdatedAt        time.Time           `json:"updatedAt"`
	GroupingTypes    []plan.GroupingType `json:"groupingTypes,omitempty"`
	Sessions         []ResolvedSession   `json:"sessions"`
}

// ResolvedSession is one session's resolved sections.
type ResolvedSession struct {
	Name     string            `json:"name"`
	Sections []ResolvedSection `json:"sections"`
}

// ResolvedSection holds a section's units in display order.
type ResolvedSection struct {
	Type  plan.SectionType `json:"type"`
	Units []ResolvedUnit   `json:"units"`
}

// ResolvedUnit is an atomic unit with resolved rows.
type ResolvedUnit struct {
	Kind         grouping.Kind     `json:"kind"`
	GroupingType plan.GroupingType `json:"groupingType"`
	GroupID      string            `json:"groupId,omitempty"`
	Rows         []ResolvedRow     `json:"rows"`
}

// ResolvedRow is one exercise with its base and per-week effective values.
type ResolvedRow struct {
	Label    string                            `json:"label"`
	Exercise string                            `json:"exercise"`
	Tool     string                            `json:"tool,omitempty"`
	Base     progression.EffectiveParameters   `json:"base"`
	Weeks    []progression.EffectiveParameters `json:"weeks"`
	// WeekTools holds the resolved tool name per week, parallel to Weeks.
	WeekTools []string `json:"weekTools"`
	Varies    bool     `json:"varies"`
}

// Resolve runs every row through the progression resolver for the selected
// weeks and every section through the grouping engine. The plan must already
// have passed plan.Validate.
func Resolve(p plan.WorkoutPlan, in Input) (ResolvedPlan, error) {
	weeks := uniqueWeeks(in.Weeks)
	if len(weeks) == 0 {
		weeks = p.Weeks()
	}
	for _, w := range weeks {
		if w < 1 || w > p.DurationWeeks {
			return ResolvedPlan{}, fmt.Errorf("%w: week %d outside [1, %d]", ErrInvalidInput, w, p.DurationWeeks)
		}
	}

	clientName := in.ClientName
	if clientName == "" {
		clientName = p.Client.Name
	}

	rp := ResolvedPlan{
		PlanID:           p.ID,
		Title:            p.Title,
		ClientName:       clientName,
		Goal:             p.Goal,
		DurationWeeks:    p.DurationWeeks,
		FrequencyPerWeek: p.FrequencyPerWeek,
		Equipment:        p.Equipment,
		Notes:            p.Notes,
		Weeks:            append([]int(nil), weeks...),
		UpdatedAt:        p.UpdatedAt,
	}

	used := map[plan.GroupingType]bool{}
	for _, s := range p.Sessions {
		rs := ResolvedSession{Name: s.Name}
		for _, sec := range s.Sections {
			rsec := ResolvedSection{Type: sec.Type}
			for _, u := range grouping.GroupSection(sec.Rows) {
				if u.Kind == grouping.KindGrouped {
					used[u.GroupingType] = true
				}
				rsec.Units = append(rsec.Units, resolveUnit(u, weeks, in.Tools))
			}
			rs.Sections = append(rs.Sections, rsec)
		}
		rp.Sessions = append(rp.Sessions, rs)
	}

	for _, t := range plan.ValidGroupingTypes {
		if used[t] {
			rp.GroupingTypes = append(rp.GroupingTypes, t)
		}
	}
	return rp, nil
}

func resolveUnit(u grouping.Unit, weeks []int, tools map[string]string) ResolvedUnit {
	ru := ResolvedUnit{Kind: u.Kind, GroupingType: u.GroupingType, GroupID: u.GroupID}
	for i, r := range u.Rows {
		effective := progression.ResolveWeeks(r, weeks)
		weekTools := make([]string, len(effective))
		for j, e := range effective {
			weekTools[j] = toolName(e.Tool, tools)
		}
		ru.Rows = append(ru.Rows, ResolvedRow{
			Label:     u.Labels[i],
			Exercise:  r.Exercise.Name,
			Tool:      toolName(r.Tool, tools),
			Base:      progression.Base(r),
			Weeks:     effective,
			WeekTools: weekTools,
			Varies:    progression.Varies(r, weeks),
		})
	}
	return ru
}

func toolName(ref *plan.Ref, tools map[string]string) string {
	if ref == nil {
		return ""
	}
	if name, ok := tools[ref.ID]; ok && name != "" {
		return name
	}
	return ref.Name
}

// RowCount returns the number of resolved rows.
func (rp ResolvedPlan) RowCount() int {
	n := 0
	for _, s := range rp.Sessions {
		for _, sec := range s.Sections {
			for _, u := range sec.Units {
				n += len(u.Rows)
			}
		}
	}
	return n
}
