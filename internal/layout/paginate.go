// Package layout packs variable-height blocks into fixed-size pages.
//
// Blocks are placed greedily in their original order. A block is never split:
// when it does not fit on the current page it starts the next one, and a block
// taller than a whole page gets a page to itself and overflows it. Boundary
// blocks (section and session headers) carry a break hint that starts a new
// page once the current page is past BreakHintFill, without forcing one.
package layout

// BreakHintFill is the fraction of usable height after which a hinted block
// starts a new page.
const BreakHintFill = 0.8

// Geometry is the page contract shared by every renderer, in millimetres.
type Geometry struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	MarginTop    float64 `json:"marginTop"`
	MarginBottom float64 `json:"marginBottom"`
	MarginLeft   float64 `json:"marginLeft"`
	MarginRight  float64 `json:"marginRight"`
	HeaderHeight float64 `json:"headerHeight"`
	FooterHeight float64 `json:"footerHeight"`
}

// UsableHeight is the body height left after margins and header/footer reservation.
func (g Geometry) UsableHeight() float64 {
	return g.Height - g.MarginTop - g.MarginBottom - g.HeaderHeight - g.FooterHeight
}

// UsableWidth is the body width between the side margins.
func (g Geometry) UsableWidth() float64 {
	return g.Width - g.MarginLeft - g.MarginRight
}

// BodyTop is the y coordinate where the body starts.
func (g Geometry) BodyTop() float64 {
	return g.MarginTop + g.HeaderHeight
}

// Block is one unsplittable piece of content with its rendered height.
type Block[T any] struct {
	Item   T
	Height float64
	// BreakHint starts a new page if the current one is already more than
	// BreakHintFill full.
	BreakHint bool
	// KeepWithNext moves the block to a new page when the following block
	// would not fit after it (headers are not left dangling).
	KeepWithNext bool
}

// Page is a numbered list of blocks.
type Page[T any] struct {
	Number int        `json:"number"`
	Blocks []Block[T] `json:"-"`
	Used   float64    `json:"used"`
}

// Overflows reports whether the page content exceeds the usable height,
// which only happens for a single oversized block.
func (p Page[T]) Overflows(g Geometry) bool {
	return p.Used > g.UsableHeight()
}

// Paginate assigns blocks to pages in order. It is pure arithmetic and
// cannot fail; a non-positive usable height puts every block on its own page.
func Paginate[T any](blocks []Block[T], g Geometry) []Page[T] {
	usable := g.UsableHeight()
	var pages []Page[T]
	cur := Page[T]{Number: 1}

	flush := func() {
		pages = append(pages, cur)
		cur = Page[T]{Number: cur.Number + 1}
	}

	for i, b := range blocks {
		if len(cur.Blocks) > 0 {
			need := b.Height
			if b.KeepWithNext {
				// Only worth moving if the run fits on a fresh page.
				if run := keepRun(blocks, i); run <= usable {
					need = run
				}
			}
			switch {
			case b.BreakHint && cur.Used > usable*BreakHintFill:
				flush()
			case cur.Used+need > usable:
				flush()
			}
		}
		cur.Blocks = append(cur.Blocks, b)
		cur.Used += b.Height
	}
	if len(cur.Blocks) > 0 {
		pages = append(pages, cur)
	}
	return pages
}

// keepRun is the height of the KeepWithNext blocks starting at i plus the
// first block that follows them.
func keepRun[T any](blocks []Block[T], i int) float64 {
	var h float64
	for ; i < len(blocks); i++ {
		h += blocks[i].Height
		if !blocks[i].KeepWithNext {
			break
		}
	}
	return h
}
