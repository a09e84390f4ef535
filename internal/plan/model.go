package plan

import (
	"time"

	"github.com/google/uuid"
)

// Goal is the training objective a plan is written for.
type Goal string

const (
	GoalStrength    Goal = "strength"
	GoalHypertrophy Goal = "hypertrophy"
	GoalFatLoss     Goal = "fat_loss"
	GoalEndurance   Goal = "endurance"
	GoalMobility    Goal = "mobility"
	GoalGeneral     Goal = "general_fitness"
)

// ValidGoals contains all accepted plan goals.
var ValidGoals = []Goal{GoalStrength, GoalHypertrophy, GoalFatLoss, GoalEndurance, GoalMobility, GoalGeneral}

// SectionType is one of the three fixed phases of a session.
type SectionType string

const (
	SectionWarmup   SectionType = "warmup"
	SectionMain     SectionType = "main"
	SectionCooldown SectionType = "cooldown"
)

// SectionTypes is the closed, ordered set of section types every session carries.
var SectionTypes = []SectionType{SectionWarmup, SectionMain, SectionCooldown}

// Title returns the display heading for a section type.
func (t SectionType) Title() string {
	switch t {
	case SectionWarmup:
		return "Warm-up"
	case SectionMain:
		return "Main"
	case SectionCooldown:
		return "Cool-down"
	default:
		return string(t)
	}
}

// GroupingType describes how rows sharing a group id are performed.
type GroupingType string

const (
	GroupingSingle   GroupingType = "single"
	GroupingSuperset GroupingType = "superset"
	GroupingTriset   GroupingType = "triset"
	GroupingCircuit  GroupingType = "circuit"
	GroupingDropset  GroupingType = "dropset"
)

// ValidGroupingTypes contains all accepted grouping types.
var ValidGroupingTypes = []GroupingType{GroupingSingle, GroupingSuperset, GroupingTriset, GroupingCircuit, GroupingDropset}

// Title returns the display name for a grouping type.
func (g GroupingType) Title() string {
	switch g {
	case GroupingSuperset:
		return "Superset"
	case GroupingTriset:
		return "Triset"
	case GroupingCircuit:
		return "Circuit"
	case GroupingDropset:
		return "Dropset"
	default:
		return "Single"
	}
}

// Ref is a weak reference into an external library (client, exercise, tool):
// the id plus a denormalized display name.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// IsZero reports whether the reference names nothing.
func (r Ref) IsZero() bool {
	return r.ID == "" && r.Name == ""
}

// WorkoutPlan is a multi-week training plan. It owns its sessions, sections,
// rows, groupings and progressions; they have no lifecycle of their own.
type WorkoutPlan struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Client           Ref       `json:"client"`
	Goal             Goal      `json:"goal"`
	DurationWeeks    int       `json:"durationWeeks"`
	FrequencyPerWeek int       `json:"frequencyPerWeek"`
	Equipment        string    `json:"equipment,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	Sessions         []Session `json:"sessions"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Session is one training day: exactly three sections, warmup, main, cooldown.
type Session struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Sections []Section `json:"sections"`
}

// Section holds rows in execution order.
type Section struct {
	ID   uuid.UUID     `json:"id"`
	Type SectionType   `json:"type"`
	Rows []ExerciseRow `json:"rows"`
}

// ExerciseRow is one prescribed exercise with its base parameters. Exactly one
// of Reps and TimeSeconds is meaningful. Nil pointers mean "not applicable".
type ExerciseRow struct {
	ID          uuid.UUID `json:"id"`
	Exercise    Ref       `json:"exercise"`
	Sets        int       `json:"sets"`
	Reps        *int      `json:"reps,omitempty"`
	TimeSeconds *int      `json:"timeSeconds,omitempty"`
	LoadKg      *float64  `json:"loadKg,omitempty"`
	RestSeconds *int      `json:"restSeconds,omitempty"`
	Tempo       string    `json:"tempo,omitempty"`
	RPE         *float64  `json:"rpe,omitempty"`
	RIR         *int      `json:"rir,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Tool        *Ref      `json:"tool,omitempty"`

	Grouping          *ExerciseGrouping   `json:"grouping,omitempty"`
	WeeklyProgression []WeeklyProgression `json:"weeklyProgression,omitempty"`
}

// IsTimed reports whether the row is prescribed by time instead of reps.
func (r ExerciseRow) IsTimed() bool {
	return r.TimeSeconds != nil && r.Reps == nil
}

// IsGrouped reports whether the row belongs to a multi-row unit. A grouping
// of type single is the same as no grouping.
func (r ExerciseRow) IsGrouped() bool {
	return r.Grouping != nil && r.Grouping.Type != GroupingSingle && r.Grouping.Type != ""
}

// ExerciseGrouping tags a row as a member of a superset, triset, circuit or dropset.
type ExerciseGrouping struct {
	Type    GroupingType `json:"type"`
	GroupID string       `json:"groupId"`
	Order   int          `json:"order"`
}

// WeeklyProgression overrides base row values for a single week. Inherited
// fields keep the row's base value.
type WeeklyProgression struct {
	Week        int               `json:"week"`
	Sets        Override[int]     `json:"sets,omitzero"`
	Reps        Override[int]     `json:"reps,omitzero"`
	TimeSeconds Override[int]     `json:"timeSeconds,omitzero"`
	LoadKg      Override[float64] `json:"loadKg,omitzero"`
	RestSeconds Override[int]     `json:"restSeconds,omitzero"`
	Tempo       Override[string]  `json:"tempo,omitzero"`
	RPE         Override[float64] `json:"rpe,omitzero"`
	RIR         Override[int]     `json:"rir,omitzero"`
	Notes       Override[string]  `json:"notes,omitzero"`
	Tool        Override[Ref]     `json:"tool,omitzero"`
}

// New returns an empty plan with a fresh id. Sessions are added by editing
// the document and saving it whole.
func New(title string, client Ref, goal Goal, durationWeeks, frequency int, now time.Time) WorkoutPlan {
	return WorkoutPlan{
		ID:               uuid.New(),
		Title:            title,
		Client:           client,
		Goal:             goal,
		DurationWeeks:    durationWeeks,
		FrequencyPerWeek: frequency,
		Sessions:         []Session{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// NewSession returns a named session with its three empty sections.
func NewSession(name string) Session {
	s := Session{ID: uuid.New(), Name: name}
	for _, t := range SectionTypes {
		s.Sections = append(s.Sections, Section{ID: uuid.New(), Type: t, Rows: []ExerciseRow{}})
	}
	return s
}

// AssignIDs fills in missing ids on every nested entity. Existing ids are kept.
func (p *WorkoutPlan) AssignIDs() {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Sessions {
		s := &p.Sessions[i]
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		for j := range s.Sections {
			sec := &s.Sections[j]
			if sec.ID == uuid.Nil {
				sec.ID = uuid.New()
			}
			for k := range sec.Rows {
				if sec.Rows[k].ID == uuid.Nil {
					sec.Rows[k].ID = uuid.New()
				}
			}
		}
	}
}

// Weeks returns 1..DurationWeeks.
func (p WorkoutPlan) Weeks() []int {
	weeks := make([]int, 0, p.DurationWeeks)
	for w := 1; w <= p.DurationWeeks; w++ {
		weeks = append(weeks, w)
	}
	return weeks
}

// RowCount returns the number of exercise rows across every session.
func (p WorkoutPlan) RowCount() int {
	n := 0
	for _, s := range p.Sessions {
		for _, sec := range s.Sections {
			n += len(sec.Rows)
		}
	}
	return n
}
