package render

import (
	"fmt"
	"math"

	"github.com/claude/coachplan/internal/grouping"
	"github.com/claude/coachplan/internal/layout"
	"github.com/claude/coachplan/internal/plan"
)

// ItemKind is the kind of block placed on a page.
type ItemKind int

const (
	ItemSession ItemKind = iota
	ItemSection
	ItemUnit
)

// Item locates one block inside a ResolvedPlan by index.
type Item struct {
	Kind    ItemKind
	Session int
	Section int
	Unit    int
}

// columns is the horizontal grid shared by every row on every page.
type columns struct {
	Label    float64
	Exercise float64
	Week     float64
	PerBand  int
	Bands    int
}

func newColumns(t Theme, weeks int) columns {
	c := columns{Label: t.LabelWidth, Exercise: t.ExerciseWidth}
	area := t.Geometry.UsableWidth() - c.Label - c.Exercise
	c.PerBand = 1
	if t.MinWeekWidth > 0 && area > t.MinWeekWidth {
		c.PerBand = int(math.Floor(area / t.MinWeekWidth))
	}
	if weeks > 0 && c.PerBand > weeks {
		c.PerBand = weeks
	}
	c.Bands = 1
	if weeks > c.PerBand {
		c.Bands = (weeks + c.PerBand - 1) / c.PerBand
	}
	c.Week = area / float64(c.PerBand)
	return c
}

// merged reports whether a row is drawn as one spanning cell.
func (d *Document) merged(r ResolvedRow) bool {
	return d.Theme.MergeUniformWeeks && !r.Varies
}

func (d *Document) cellLines(r ResolvedRow) int {
	if !d.Theme.PerWeekDetail {
		return 2
	}
	for i, w := range r.Weeks {
		if w.Notes != "" || (i < len(r.WeekTools) && r.WeekTools[i] != r.Tool) {
			return 3
		}
	}
	return 2
}

func (d *Document) exerciseLines(r ResolvedRow) int {
	n := 1
	if d.Theme.ShowTools && r.Tool != "" {
		n++
	}
	if !d.Theme.PerWeekDetail && r.Base.Notes != "" {
		n++
	}
	return n
}

func (d *Document) rowHeight(r ResolvedRow) float64 {
	bands := d.cols.Bands
	if d.merged(r) {
		bands = 1
	}
	lines := max(bands*d.cellLines(r), d.exerciseLines(r))
	return float64(lines)*d.Theme.LineHeight + d.Theme.RowPadding
}

func (d *Document) unitHeight(u ResolvedUnit) float64 {
	h := d.Theme.UnitGap
	if u.Kind == grouping.KindGrouped {
		h += d.Theme.GroupHeaderHeight
	}
	for _, r := range u.Rows {
		h += d.rowHeight(r)
	}
	return h
}

// Document is a resolved plan laid out onto pages for one theme.
type Document struct {
	Plan  ResolvedPlan
	Theme Theme
	Pages []layout.Page[Item]

	cols columns
}

// Layout measures every block for the theme and paginates. It returns
// ErrRender when the resolved plan is internally inconsistent.
func Layout(rp ResolvedPlan, t Theme) (*Document, error) {
	d := &Document{Plan: rp, Theme: t, cols: newColumns(t, len(rp.Weeks))}

	var blocks []layout.Block[Item]
	for si, s := range rp.Sessions {
		blocks = append(blocks, layout.Block[Item]{
			Item:         Item{Kind: ItemSession, Session: si},
			Height:       t.SessionHeaderHeight,
			BreakHint:    true,
			KeepWithNext: true,
		})
		for ci, sec := range s.Sections {
			if len(sec.Units) == 0 {
				continue
			}
			blocks = append(blocks, layout.Block[Item]{
				Item:         Item{Kind: ItemSection, Session: si, Section: ci},
				Height:       t.SectionTitleHeight + t.ColumnHeaderHeight,
				BreakHint:    true,
				KeepWithNext: true,
			})
			for ui, u := range sec.Units {
				if len(u.Rows) == 0 {
					return nil, fmt.Errorf("%w: %s %q in session %q has no members", ErrRender, u.GroupingType, u.GroupID, s.Name)
				}
				if u.Kind == grouping.KindSingle && len(u.Rows) != 1 {
					return nil, fmt.Errorf("%w: single unit with %d rows in session %q", ErrRender, len(u.Rows), s.Name)
				}
				blocks = append(blocks, layout.Block[Item]{
					Item:   Item{Kind: ItemUnit, Session: si, Section: ci, Unit: ui},
					Height: d.unitHeight(u),
				})
			}
		}
	}

	d.Pages = layout.Paginate(blocks, t.Geometry)
	if len(d.Pages) == 0 {
		// An empty plan still prints its header on one page.
		d.Pages = []layout.Page[Item]{{Number: 1}}
	}
	return d, nil
}

// Unit returns the unit an item points at.
func (d *Document) Unit(it Item) ResolvedUnit {
	return d.Plan.Sessions[it.Session].Sections[it.Section].Units[it.Unit]
}

// PageUnit is one atomic unit as placed on a page.
type PageUnit struct {
	Session string           `json:"session"`
	Section plan.SectionType `json:"section"`
	Labels  []string         `json:"labels"`
	Rows    int              `json:"rows"`
	Height  float64          `json:"height"`
}

// PageSummary is the contract-visible content of one page.
type PageSummary struct {
	Number   int        `json:"number"`
	Used     float64    `json:"used"`
	Overflow bool       `json:"overflow"`
	Units    []PageUnit `json:"units"`
}

// Summary describes pagination without drawing anything.
type Summary struct {
	Style        Style         `json:"style"`
	PageCount    int           `json:"pageCount"`
	PageWidth    float64       `json:"pageWidth"`
	PageHeight   float64       `json:"pageHeight"`
	UsableHeight float64       `json:"usableHeight"`
	Weeks        []int         `json:"weeks"`
	Rows         int           `json:"rows"`
	Pages        []PageSummary `json:"pages"`
}

// Summary reports page count, dimensions and unit-to-page assignment.
func (d *Document) Summary() Summary {
	g := d.Theme.Geometry
	s := Summary{
		Style:        d.Theme.Style,
		PageCount:    len(d.Pages),
		PageWidth:    g.Width,
		PageHeight:   g.Height,
		UsableHeight: g.UsableHeight(),
		Weeks:        d.Plan.Weeks,
	}
	for _, p := range d.Pages {
		ps := PageSummary{Number: p.Number, Used: p.Used, Overflow: p.Overflows(g), Units: []PageUnit{}}
		for _, b := range p.Blocks {
			if b.Item.Kind != ItemUnit {
				continue
			}
			u := d.Unit(b.Item)
			pu := PageUnit{
				Session: d.Plan.Sessions[b.Item.Session].Name,
				Section: d.Plan.Sessions[b.Item.Session].Sections[b.Item.Section].Type,
				Rows:    len(u.Rows),
				Height:  b.Height,
			}
			for _, r := range u.Rows {
				pu.Labels = append(pu.Labels, r.Label)
			}
			ps.Units = append(ps.Units, pu)
			s.Rows += len(u.Rows)
		}
		s.Pages = append(s.Pages, ps)
	}
	return s
}
