package render

import (
	"fmt"
	"time"

	"github.com/claude/coachplan/internal/plan"
)

var planTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// samplePlan is a four week plan with a warmup, a superset and a progressing
// main lift.
func samplePlan() plan.WorkoutPlan {
	p := plan.New("Spring Block", plan.Ref{ID: "c1", Name: "Dana Smith"}, plan.GoalStrength, 4, 3, planTime)
	p.Equipment = "Barbell, bench"

	s := plan.NewSession("Day 1")
	s.Sections[0].Rows = []plan.ExerciseRow{
		{Exercise: plan.Ref{ID: "e0", Name: "Jumping Jacks"}, Sets: 2, TimeSeconds: plan.Int(60)},
	}
	s.Sections[1].Rows = []plan.ExerciseRow{
		{
			Exercise: plan.Ref{ID: "e1", Name: "Back Squat"}, Sets: 3, Reps: plan.Int(5), LoadKg: plan.Float(100),
			RestSeconds: plan.Int(180), Tool: &plan.Ref{ID: "t1", Name: "Barbell"},
			WeeklyProgression: []plan.WeeklyProgression{
				{Week: 2, LoadKg: plan.Set(105.0)},
				{Week: 3, Reps: plan.Set(3), Tool: plan.Set(plan.Ref{ID: "t2", Name: "Safety Bar"})},
			},
		},
		{
			Exercise: plan.Ref{ID: "e2", Name: "Bent Row"}, Sets: 4, Reps: plan.Int(8),
			Grouping: &plan.ExerciseGrouping{Type: plan.GroupingSuperset, GroupID: "A", Order: 2},
		},
		{
			Exercise: plan.Ref{ID: "e3", Name: "Bench Press"}, Sets: 4, Reps: plan.Int(8),
			Grouping: &plan.ExerciseGrouping{Type: plan.GroupingSuperset, GroupID: "A", Order: 1},
		},
	}
	s.Sections[2].Rows = []plan.ExerciseRow{
		{Exercise: plan.Ref{ID: "e4", Name: "Hip Flexor Stretch"}, Sets: 1, TimeSeconds: plan.Int(45), Notes: "each side"},
	}
	p.Sessions = append(p.Sessions, s)
	p.AssignIDs()
	return p
}

// bigPlan has the given number of sessions, each with rows singles in the
// main section, plus a triset.
func bigPlan(sessions, rows int) plan.WorkoutPlan {
	p := plan.New("Volume Block", plan.Ref{ID: "c2", Name: "Sam Lee"}, plan.GoalHypertrophy, 8, 4, planTime)
	for i := 0; i < sessions; i++ {
		s := plan.NewSession(fmt.Sprintf("Day %d", i+1))
		for r := 0; r < rows; r++ {
			row := plan.ExerciseRow{
				Exercise: plan.Ref{ID: fmt.Sprintf("e%d", r), Name: fmt.Sprintf("Exercise %d", r)},
				Sets:     3, Reps: plan.Int(10), LoadKg: plan.Float(float64(20 + r)),
			}
			if r%3 == 0 {
				row.WeeklyProgression = []plan.WeeklyProgression{{Week: 5, Reps: plan.Set(8)}}
			}
			s.Sections[1].Rows = append(s.Sections[1].Rows, row)
		}
		for o := 1; o <= 3; o++ {
			s.Sections[2].Rows = append(s.Sections[2].Rows, plan.ExerciseRow{
				Exercise: plan.Ref{ID: fmt.Sprintf("t%d", o), Name: fmt.Sprintf("Finisher %d", o)},
				Sets:     2, TimeSeconds: plan.Int(30),
				Grouping: &plan.ExerciseGrouping{Type: plan.GroupingTriset, GroupID: "T", Order: o},
			})
		}
		p.Sessions = append(p.Sessions, s)
	}
	p.AssignIDs()
	return p
}

// circuitPlan has one single row followed by a circuit of n members.
func circuitPlan(n int) plan.WorkoutPlan {
	p := plan.New("Conditioning", plan.Ref{ID: "c3", Name: "Alex Kim"}, plan.GoalEndurance, 4, 2, planTime)
	s := plan.NewSession("Circuit Day")
	s.Sections[1].Rows = []plan.ExerciseRow{
		{Exercise: plan.Ref{ID: "s", Name: "Row Erg"}, Sets: 1, TimeSeconds: plan.Int(300)},
	}
	for o := 1; o <= n; o++ {
		s.Sections[1].Rows = append(s.Sections[1].Rows, plan.ExerciseRow{
			Exercise: plan.Ref{ID: fmt.Sprintf("c%d", o), Name: fmt.Sprintf("Station %d", o)},
			Sets:     1, TimeSeconds: plan.Int(40),
			Grouping: &plan.ExerciseGrouping{Type: plan.GroupingCircuit, GroupID: "C", Order: o},
		})
	}
	p.Sessions = append(p.Sessions, s)
	p.AssignIDs()
	return p
}
