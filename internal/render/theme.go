package render

import (
	"fmt"

	"github.com/claude/coachplan/internal/layout"
	"github.com/claude/coachplan/internal/plan"
)

// Style names a renderer variant.
type Style string

const (
	StyleCompact   Style = "compact"
	StyleLandscape Style = "landscape"
	StyleEnhanced  Style = "enhanced"
)

// Styles lists every supported style.
var Styles = []Style{StyleCompact, StyleLandscape, StyleEnhanced}

// RGB is a display color.
type RGB struct {
	R, G, B uint8
}

// Tint mixes the color with white; f=0 keeps it, f=1 is white.
func (c RGB) Tint(f float64) RGB {
	mix := func(v uint8) uint8 {
		return uint8(float64(v) + (255-float64(v))*f)
	}
	return RGB{mix(c.R), mix(c.G), mix(c.B)}
}

// Theme is everything that differs between renderer variants: page geometry,
// colors, fonts, row metrics and which adornments are drawn. All sizes are
// millimetres, font sizes points.
type Theme struct {
	Style       Style
	Orientation string // fpdf orientation, "P" or "L"
	PaperSize   string
	Geometry    layout.Geometry

	FontFamily string
	TitleSize  float64
	HeadSize   float64
	BodySize   float64
	SmallSize  float64

	HeaderColor RGB
	HeaderText  RGB
	AccentColor RGB
	TextColor   RGB
	MutedColor  RGB
	GridColor   RGB
	GroupColors map[plan.GroupingType]RGB

	LineHeight          float64
	RowPadding          float64
	UnitGap             float64
	GroupHeaderHeight   float64
	SessionHeaderHeight float64
	SectionTitleHeight  float64
	ColumnHeaderHeight  float64

	LabelWidth    float64
	ExerciseWidth float64
	MinWeekWidth  float64

	// MergeUniformWeeks draws one spanning cell for rows with no progression.
	MergeUniformWeeks bool
	// ShowTools prints the tool under the exercise name.
	ShowTools bool
	// PerWeekDetail expands notes and tool changes per week instead of
	// printing base values only.
	PerWeekDetail bool
	ShowLegend    bool
	ShowLinkback  bool
	ShowBanner    bool
	StripeRows    bool
	LinkbackSize  float64
}

var defaultGroupColors = map[plan.GroupingType]RGB{
	plan.GroupingSuperset: {R: 52, G: 120, B: 198},
	plan.GroupingTriset:   {R: 46, G: 160, B: 110},
	plan.GroupingCircuit:  {R: 224, G: 138, B: 34},
	plan.GroupingDropset:  {R: 196, G: 64, B: 78},
}

func groupColors() map[plan.GroupingType]RGB {
	out := make(map[plan.GroupingType]RGB, len(defaultGroupColors))
	for k, v := range defaultGroupColors {
		out[k] = v
	}
	return out
}

// Compact is a dense single-column A4 portrait layout with base notes only.
func Compact() Theme {
	return Theme{
		Style:       StyleCompact,
		Orientation: "P",
		PaperSize:   "A4",
		Geometry: layout.Geometry{
			Width: 210, Height: 297,
			MarginTop: 10, MarginBottom: 10, MarginLeft: 10, MarginRight: 10,
			HeaderHeight: 20, FooterHeight: 8,
		},
		FontFamily:  "Helvetica",
		TitleSize:   13,
		HeadSize:    9,
		BodySize:    7.5,
		SmallSize:   6.5,
		HeaderColor: RGB{40, 44, 52},
		HeaderText:  RGB{255, 255, 255},
		AccentColor: RGB{88, 96, 110},
		TextColor:   RGB{20, 20, 20},
		MutedColor:  RGB{110, 110, 110},
		GridColor:   RGB{210, 210, 210},
		GroupColors: groupColors(),

		LineHeight:          3.4,
		RowPadding:          1,
		UnitGap:             0.8,
		GroupHeaderHeight:   3.6,
		SessionHeaderHeight: 7,
		SectionTitleHeight:  5,
		ColumnHeaderHeight:  4.5,

		LabelWidth:    8,
		ExerciseWidth: 46,
		MinWeekWidth:  24,

		MergeUniformWeeks: true,
		ShowLegend:        true,
	}
}

// Landscape is an A4 landscape layout with a tool column and a linkback code.
func Landscape() Theme {
	t := Compact()
	t.Style = StyleLandscape
	t.Orientation = "L"
	t.Geometry = layout.Geometry{
		Width: 297, Height: 210,
		MarginTop: 10, MarginBottom: 10, MarginLeft: 12, MarginRight: 12,
		HeaderHeight: 26, FooterHeight: 9,
	}
	t.BodySize = 8
	t.LineHeight = 3.8
	t.ExerciseWidth = 62
	t.MinWeekWidth = 30
	t.MergeUniformWeeks = false
	t.ShowTools = true
	t.ShowLinkback = true
	t.LinkbackSize = 18
	return t
}

// Enhanced is a richly styled A4 portrait layout with a raster banner,
// striped rows, per-week notes and a linkback code.
func Enhanced() Theme {
	t := Compact()
	t.Style = StyleEnhanced
	t.Geometry = layout.Geometry{
		Width: 210, Height: 297,
		MarginTop: 8, MarginBottom: 10, MarginLeft: 12, MarginRight: 12,
		HeaderHeight: 34, FooterHeight: 10,
	}
	t.TitleSize = 16
	t.HeadSize = 10
	t.BodySize = 8
	t.SmallSize = 7
	t.HeaderColor = RGB{23, 70, 120}
	t.AccentColor = RGB{0, 140, 150}
	t.GridColor = RGB{200, 215, 225}
	t.LineHeight = 4
	t.RowPadding = 1.4
	t.UnitGap = 1.2
	t.GroupHeaderHeight = 4.4
	t.SessionHeaderHeight = 9
	t.SectionTitleHeight = 6
	t.ColumnHeaderHeight = 5
	t.LabelWidth = 9
	t.ExerciseWidth = 50
	t.MinWeekWidth = 27
	t.MergeUniformWeeks = false
	t.ShowTools = true
	t.PerWeekDetail = true
	t.ShowLinkback = true
	t.ShowBanner = true
	t.StripeRows = true
	t.LinkbackSize = 22
	return t
}

// ThemeFor returns the theme for a style name; empty selects compact.
func ThemeFor(s Style) (Theme, error) {
	switch s {
	case StyleCompact, "":
		return Compact(), nil
	case StyleLandscape:
		return Landscape(), nil
	case StyleEnhanced:
		return Enhanced(), nil
	default:
		return Theme{}, fmt.Errorf("%w: unknown style %q", ErrInvalidInput, s)
	}
}
