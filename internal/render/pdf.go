package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/claude/coachplan/internal/grouping"
	"github.com/claude/coachplan/internal/layout"
	"github.com/claude/coachplan/internal/progression"
)

const (
	bannerImage   = "banner"
	linkbackImage = "linkback"
	ptToMM        = 0.3528
)

// adornments are the optional images drawn around the body. Nil slices are
// simply not drawn.
type adornments struct {
	Banner      []byte
	Linkback    []byte
	LinkbackURL string
	Degraded    bool
}

// pdfWriter draws a laid-out Document in one top-to-bottom pass.
type pdfWriter struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	doc   *Document
	t     Theme
	g     layout.Geometry
	adorn adornments
	row   int
}

// writePDF draws every page of d and writes the finished file to w. Nothing
// is written to w unless the whole document was drawn without error.
func writePDF(ctx context.Context, d *Document, a adornments, w io.Writer) error {
	t := d.Theme
	g := t.Geometry

	pdf := fpdf.New(t.Orientation, "mm", t.PaperSize, "")
	pdf.SetMargins(g.MarginLeft, g.MarginTop, g.MarginRight)
	pdf.SetAutoPageBreak(false, g.MarginBottom)
	pdf.SetTitle(d.Plan.Title, true)
	pdf.SetSubject(d.Plan.ClientName, true)
	pdf.SetCreator("coachplan", false)
	pdf.SetCreationDate(d.Plan.UpdatedAt)
	pdf.SetModificationDate(d.Plan.UpdatedAt)
	pdf.SetCatalogSort(true)

	pw := &pdfWriter{
		pdf:   pdf,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		doc:   d,
		t:     t,
		g:     g,
		adorn: a,
	}
	if a.Banner != nil {
		pdf.RegisterImageOptionsReader(bannerImage, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(a.Banner))
	}
	if a.Linkback != nil {
		pdf.RegisterImageOptionsReader(linkbackImage, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(a.Linkback))
	}

	for _, page := range d.Pages {
		if err := alive(ctx); err != nil {
			return err
		}
		pdf.AddPage()
		pw.row = 0
		pw.header(page)
		y := g.BodyTop()
		for _, b := range page.Blocks {
			switch b.Item.Kind {
			case ItemSession:
				pw.session(b.Item, y)
			case ItemSection:
				pw.section(b.Item, y)
			case ItemUnit:
				pw.unit(b.Item, y)
			}
			y += b.Height
		}
		pw.footer(page)
		if pdf.Err() {
			return fmt.Errorf("%w: page %d: %v", ErrRender, page.Number, pdf.Error())
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func (w *pdfWriter) fill(c RGB) { w.pdf.SetFillColor(int(c.R), int(c.G), int(c.B)) }
func (w *pdfWriter) text(c RGB) { w.pdf.SetTextColor(int(c.R), int(c.G), int(c.B)) }
func (w *pdfWriter) stroke(c RGB) { w.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B)) }
func (w *pdfWriter) lineH(size float64) float64 { return size * ptToMM * 1.25 }

// fit translates s to the font encoding and truncates it to width.
func (w *pdfWriter) fit(s string, width float64) string {
	s = w.tr(s)
	if width <= 0 || w.pdf.GetStringWidth(s) <= width {
		return s
	}
	const ellipsis = "..."
	for len(s) > 0 && w.pdf.GetStringWidth(s+ellipsis) > width {
		s = s[:len(s)-1]
	}
	return strings.TrimRight(s, " ") + ellipsis
}

func (w *pdfWriter) cell(x, y, width, h float64, s, align string) {
	w.pdf.SetXY(x, y)
	w.pdf.CellFormat(width, h, w.fit(s, width-0.6), "", 0, align, false, 0, "")
}

func (w *pdfWriter) header(page layout.Page[Item]) {
	pdf, t, g := w.pdf, w.t, w.g
	x, y := g.MarginLeft, g.MarginTop
	width, h := g.UsableWidth(), g.HeaderHeight-2

	if w.adorn.Banner != nil {
		pdf.ImageOptions(bannerImage, x, y, width, h, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	} else {
		w.fill(t.HeaderColor)
		pdf.Rect(x, y, width, h, "F")
	}

	textW := width - 6
	if page.Number == 1 && w.adorn.Linkback != nil {
		size := min(t.LinkbackSize, h-2)
		qx, qy := x+width-size-1, y+1
		w.fill(RGB{255, 255, 255})
		pdf.Rect(qx, qy, size, size, "F")
		pdf.ImageOptions(linkbackImage, qx, qy, size, size, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		pdf.LinkString(qx, qy, size, size, w.adorn.LinkbackURL)
		textW -= size + 2
	}

	rp := w.doc.Plan
	w.text(t.HeaderText)
	ty := y + 1.5
	pdf.SetFont(t.FontFamily, "B", t.TitleSize)
	w.cell(x+3, ty, textW, w.lineH(t.TitleSize), rp.Title, "L")
	ty += w.lineH(t.TitleSize) + 0.5

	pdf.SetFont(t.FontFamily, "", t.BodySize)
	parts := []string{rp.ClientName, goalTitle(rp), fmt.Sprintf("%d weeks", rp.DurationWeeks), fmt.Sprintf("%dx per week", rp.FrequencyPerWeek)}
	w.cell(x+3, ty, textW, w.lineH(t.BodySize), strings.Join(nonEmpty(parts), "  |  "), "L")
	ty += w.lineH(t.BodySize)

	var extra string
	switch {
	case page.Number == 1 && rp.Equipment != "":
		extra = "Equipment: " + rp.Equipment
	case page.Number > 1 && len(page.Blocks) > 0 && page.Blocks[0].Item.Kind == ItemUnit:
		it := page.Blocks[0].Item
		s := rp.Sessions[it.Session]
		extra = s.Name + " / " + s.Sections[it.Section].Type.Title() + " (cont.)"
	}
	if extra != "" && ty+w.lineH(t.BodySize) <= y+h {
		w.cell(x+3, ty, textW, w.lineH(t.BodySize), extra, "L")
	}
}

func goalTitle(rp ResolvedPlan) string {
	g := strings.ReplaceAll(string(rp.Goal), "_", " ")
	if g == "" {
		return ""
	}
	return strings.ToUpper(g[:1]) + g[1:]
}

func nonEmpty(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (w *pdfWriter) footer(page layout.Page[Item]) {
	pdf, t, g := w.pdf, w.t, w.g
	x := g.MarginLeft
	y := g.Height - g.MarginBottom - g.FooterHeight + 1.5
	width := g.UsableWidth()

	w.stroke(t.GridColor)
	pdf.SetLineWidth(0.2)
	pdf.Line(x, y, x+width, y)

	lh := w.lineH(t.SmallSize)
	ty := y + 1.5
	pdf.SetFont(t.FontFamily, "", t.SmallSize)
	w.text(t.MutedColor)

	if t.ShowLegend {
		lx := x
		for _, gt := range w.doc.Plan.GroupingTypes {
			c, ok := t.GroupColors[gt]
			if !ok {
				continue
			}
			w.fill(c)
			pdf.Rect(lx, ty+lh*0.2, lh*0.6, lh*0.6, "F")
			label := w.tr(gt.Title())
			lw := pdf.GetStringWidth(label) + 1
			w.cell(lx+lh*0.8, ty, lw, lh, gt.Title(), "L")
			lx += lh*0.8 + lw + 3
		}
	}

	label := "Page " + strconv.Itoa(page.Number) + " of " + strconv.Itoa(len(w.doc.Pages))
	w.cell(x+width-40, ty, 40, lh, label, "R")
}

func (w *pdfWriter) session(it Item, y float64) {
	pdf, t, g := w.pdf, w.t, w.g
	h := t.SessionHeaderHeight - 1.5
	w.fill(t.AccentColor)
	pdf.Rect(g.MarginLeft, y, g.UsableWidth(), h, "F")
	w.text(t.HeaderText)
	pdf.SetFont(t.FontFamily, "B", t.HeadSize)
	w.cell(g.MarginLeft+2, y, g.UsableWidth()-4, h, w.doc.Plan.Sessions[it.Session].Name, "L")
}

func (w *pdfWriter) section(it Item, y float64) {
	pdf, t, g := w.pdf, w.t, w.g
	sec := w.doc.Plan.Sessions[it.Session].Sections[it.Section]

	w.text(t.TextColor)
	pdf.SetFont(t.FontFamily, "B", t.HeadSize)
	w.cell(g.MarginLeft, y, g.UsableWidth(), t.SectionTitleHeight, sec.Type.Title(), "L")

	y += t.SectionTitleHeight
	h := t.ColumnHeaderHeight - 0.5
	w.fill(t.AccentColor.Tint(0.85))
	pdf.Rect(g.MarginLeft, y, g.UsableWidth(), h, "F")
	w.text(t.TextColor)
	pdf.SetFont(t.FontFamily, "B", t.SmallSize)

	cols := w.doc.cols
	x := g.MarginLeft
	w.cell(x, y, cols.Label, h, "#", "C")
	x += cols.Label
	w.cell(x, y, cols.Exercise, h, "Exercise", "L")
	x += cols.Exercise
	for c := 0; c < cols.PerBand; c++ {
		var labels []string
		for b := 0; b < cols.Bands; b++ {
			if k := b*cols.PerBand + c; k < len(w.doc.Plan.Weeks) {
				labels = append(labels, "W"+strconv.Itoa(w.doc.Plan.Weeks[k]))
			}
		}
		title := strings.Join(labels, " / ")
		if cols.Bands == 1 && c < len(w.doc.Plan.Weeks) {
			title = "Week " + strconv.Itoa(w.doc.Plan.Weeks[c])
		}
		w.cell(x+float64(c)*cols.Week, y, cols.Week, h, title, "C")
	}
}

func (w *pdfWriter) unit(it Item, y float64) {
	pdf, t, g := w.pdf, w.t, w.g
	u := w.doc.Unit(it)
	x := g.MarginLeft
	width := g.UsableWidth()

	grouped := u.Kind == grouping.KindGrouped
	color := t.GroupColors[u.GroupingType]
	top := y
	if grouped {
		h := t.GroupHeaderHeight - 0.4
		w.fill(color.Tint(0.75))
		pdf.Rect(x, y, width, h, "F")
		w.text(t.TextColor)
		pdf.SetFont(t.FontFamily, "B", t.SmallSize)
		w.cell(x+2.5, y, width-3, h, u.GroupingType.Title()+" "+u.GroupID, "L")
		y += t.GroupHeaderHeight
	}

	for _, r := range u.Rows {
		y += w.exerciseRow(r, y)
	}

	if grouped {
		w.fill(color)
		pdf.Rect(x, top, 1.2, y-top, "F")
	}
}

// exerciseRow draws one row at y and returns its height.
func (w *pdfWriter) exerciseRow(r ResolvedRow, y float64) float64 {
	pdf, t, g := w.pdf, w.t, w.g
	d := w.doc
	cols := d.cols
	h := d.rowHeight(r)
	x := g.MarginLeft
	lh := t.LineHeight

	if t.StripeRows && w.row%2 == 1 {
		w.fill(t.AccentColor.Tint(0.93))
		pdf.Rect(x, y, g.UsableWidth(), h, "F")
	}
	w.row++

	ty := y + t.RowPadding/2
	w.text(t.TextColor)
	pdf.SetFont(t.FontFamily, "B", t.BodySize)
	w.cell(x+1.5, ty, cols.Label-1.5, lh, r.Label, "C")

	ex := x + cols.Label
	w.cell(ex, ty, cols.Exercise, lh, r.Exercise, "L")
	line := ty + lh
	pdf.SetFont(t.FontFamily, "", t.SmallSize)
	w.text(t.MutedColor)
	if t.ShowTools && r.Tool != "" {
		w.cell(ex, line, cols.Exercise, lh, r.Tool, "L")
		line += lh
	}
	if !t.PerWeekDetail && r.Base.Notes != "" {
		w.cell(ex, line, cols.Exercise, lh, r.Base.Notes, "L")
	}

	wx := ex + cols.Exercise
	if d.merged(r) {
		w.weekCell(r.Base, "", "", wx, ty, cols.Week*float64(cols.PerBand), false)
	} else {
		lines := d.cellLines(r)
		for k, e := range r.Weeks {
			band, col := k/cols.PerBand, k%cols.PerBand
			prefix := ""
			if cols.Bands > 1 {
				prefix = "W" + strconv.Itoa(e.Week) + " "
			}
			tool := ""
			if t.PerWeekDetail && k < len(r.WeekTools) && r.WeekTools[k] != r.Tool {
				tool = r.WeekTools[k]
			}
			cy := ty + float64(band*lines)*lh
			w.weekCell(e, prefix, tool, wx+float64(col)*cols.Week, cy, cols.Week, t.PerWeekDetail)
		}
	}

	w.stroke(t.GridColor)
	pdf.SetLineWidth(0.15)
	pdf.Line(x, y+h, x+g.UsableWidth(), y+h)
	return h
}

func (w *pdfWriter) weekCell(e progression.EffectiveParameters, prefix, tool string, x, y, width float64, detail bool) {
	pdf, t := w.pdf, w.t
	lh := t.LineHeight

	style := ""
	if e.Overridden {
		style = "B"
	}
	w.text(t.TextColor)
	pdf.SetFont(t.FontFamily, style, t.BodySize)
	w.cell(x+0.5, y, width-0.5, lh, prefix+e.Summary(), "C")

	pdf.SetFont(t.FontFamily, "", t.SmallSize)
	w.text(t.MutedColor)
	w.cell(x+0.5, y+lh, width-0.5, lh, e.Detail(), "C")

	if !detail {
		return
	}
	var extra []string
	if e.Notes != "" {
		extra = append(extra, e.Notes)
	}
	if tool != "" {
		extra = append(extra, "("+tool+")")
	}
	if len(extra) > 0 {
		w.cell(x+0.5, y+2*lh, width-0.5, lh, strings.Join(extra, " "), "C")
	}
}
