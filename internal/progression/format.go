package progression

import (
	"fmt"
	"strconv"
	"strings"
)

// Volume renders sets and reps or time, e.g. "3x10" or "3x45s". Missing
// parts render as "-".
func (e EffectiveParameters) Volume() string {
	sets := "-"
	if e.Sets != nil {
		sets = strconv.Itoa(*e.Sets)
	}
	switch {
	case e.Reps != nil:
		return sets + "x" + strconv.Itoa(*e.Reps)
	case e.TimeSeconds != nil:
		return sets + "x" + FormatSeconds(*e.TimeSeconds)
	default:
		return sets + "x-"
	}
}

// Load renders the load, e.g. "62.5kg", or "" when the row has none.
func (e EffectiveParameters) Load() string {
	if e.LoadKg == nil {
		return ""
	}
	return strconv.FormatFloat(*e.LoadKg, 'f', -1, 64) + "kg"
}

// Summary is the primary one-line prescription, e.g. "3x10 @ 40kg".
func (e EffectiveParameters) Summary() string {
	if l := e.Load(); l != "" {
		return e.Volume() + " @ " + l
	}
	return e.Volume()
}

// Detail lists the secondary parameters that are present, e.g.
// "rest 1:30, tempo 3010, RPE 8".
func (e EffectiveParameters) Detail() string {
	var parts []string
	if e.RestSeconds != nil {
		parts = append(parts, "rest "+FormatSeconds(*e.RestSeconds))
	}
	if e.Tempo != "" {
		parts = append(parts, "tempo "+e.Tempo)
	}
	if e.RPE != nil {
		parts = append(parts, "RPE "+strconv.FormatFloat(*e.RPE, 'f', -1, 64))
	}
	if e.RIR != nil {
		parts = append(parts, "RIR "+strconv.Itoa(*e.RIR))
	}
	return strings.Join(parts, ", ")
}

// FormatSeconds renders durations under a minute as "45s" and longer ones as "m:ss".
func FormatSeconds(sec int) string {
	if sec < 60 {
		return strconv.Itoa(sec) + "s"
	}
	return fmt.Sprintf("%d:%02d", sec/60, sec%60)
}
