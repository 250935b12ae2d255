package layout

import (
	"github.com/wudi/flowpdf/contentstream"
	"github.com/wudi/flowpdf/observability"
)

// Cell is one table cell. At most one of Text, Image and Table is set.
type Cell struct {
	Text  *Text
	Image *Image
	Table *Table
	// ColSpan is the number of columns covered; 0 means 1.
	ColSpan int
	// Width fixes the width of the column of a single-column cell.
	Width float64
	// Height is the minimum height of the cell.
	Height float64
	// Border and Padding override the table's values when positive.
	Border     float64
	Padding    float64
	Background *contentstream.Color

	filler bool
}

// TextCell returns a cell holding text.
func TextCell(content string) *Cell { return &Cell{Text: NewText(content)} }

func (c *Cell) span() int { return max(1, c.ColSpan) }

// Table lays out rows of cells on a fixed column grid. Rows never split;
// a table that does not fit continues on the next page, repeating its
// header rows.
type Table struct {
	Columns int
	// ColumnWidths fixes the width of a column when positive.
	ColumnWidths []float64
	Rows         [][]*Cell
	// HeaderRows is the number of leading rows repeated on each page.
	HeaderRows int
	// Width is the total width shared by columns without a fixed width;
	// 0 uses the usable width of the page.
	Width    float64
	Border   float64
	Padding  float64
	Position Position
	Spacing  Spacing

	// widths is fixed on first layout and kept by continuations.
	widths []float64
}

// NewTable returns an auto-placed table with a thin border.
func NewTable(columns int) *Table {
	return &Table{Columns: columns, Border: 0.5, Padding: 2, Position: AutoPosition()}
}

// AddRow appends a row of cells and returns t.
func (t *Table) AddRow(cells ...*Cell) *Table {
	t.Rows = append(t.Rows, cells)
	return t
}

func (t *Table) isPart() {}

func (t *Table) columns() int {
	n := t.Columns
	for _, row := range t.Rows {
		sum := 0
		for _, c := range row {
			sum += c.span()
		}
		n = max(n, sum)
	}
	return n
}

// resolveWidths fixes the column widths: explicit column widths first,
// then widths of single-column cells, with the rest of total shared
// evenly among the remaining columns.
func (t *Table) resolveWidths(total float64) []float64 {
	n := t.columns()
	w := make([]float64, n)
	copy(w, t.ColumnWidths)
	for _, row := range t.Rows {
		col := 0
		for _, c := range row {
			if col < n && c.span() == 1 && c.Width > 0 && w[col] <= 0 {
				w[col] = c.Width
			}
			col += c.span()
		}
	}
	fixed, auto := 0.0, 0
	for _, v := range w {
		if v > 0 {
			fixed += v
		} else {
			auto++
		}
	}
	if auto > 0 {
		each := max(0, (total-fixed)/float64(auto))
		for i := range w {
			if w[i] <= 0 {
				w[i] = each
			}
		}
	}
	return w
}

// grid pads every row with filler cells up to the column count and drops
// cells that do not fit.
func (t *Table) grid(e *env, n int) [][]*Cell {
	rows := make([][]*Cell, len(t.Rows))
	for i, row := range t.Rows {
		out := make([]*Cell, 0, len(row))
		used := 0
		for _, c := range row {
			if used+c.span() > n {
				e.logger.Warn("table cell dropped", observability.Int("row", i))
				continue
			}
			out = append(out, c)
			used += c.span()
		}
		for ; used < n; used++ {
			out = append(out, &Cell{filler: true})
		}
		rows[i] = out
	}
	return rows
}

func (t *Table) cellBorder(c *Cell) float64 {
	if c.Border > 0 {
		return c.Border
	}
	return t.Border
}

func (t *Table) cellPadding(c *Cell) float64 {
	if c.Padding > 0 {
		return c.Padding
	}
	return t.Padding
}

// cellBox is a cell with its resolved width and content height.
type cellBox struct {
	cell   *Cell
	width  float64
	height float64
	text   *splitter
	fits   []lineFit
	nested [][]cellBox
}

func (t *Table) measureCell(e *env, page *Page, c *Cell, width float64) cellBox {
	cb := cellBox{cell: c, width: width}
	inset := 2*t.cellPadding(c) + t.cellBorder(c)
	inner := max(0, width-inset)
	var content float64
	switch {
	case c.Text != nil:
		st := e.style(c.Text)
		cb.text = newSplitter([]*style{st}, []string{c.Text.Content})
		for i := 0; !cb.text.done(i); {
			fit := cb.text.fill(i, inner)
			cb.fits = append(cb.fits, fit)
			i = fit.end
		}
		content = float64(len(cb.fits)) * st.advance(page.Leading)
	case c.Image != nil:
		_, h := fitImage(c.Image, inner)
		content = h
	case c.Table != nil:
		cb.nested = c.Table.measureRows(e, page, inner)
		for _, row := range cb.nested {
			content += rowHeight(row)
		}
	}
	cb.height = max(content+inset, c.Height)
	return cb
}

// fitImage scales an image down to width, keeping its aspect ratio.
func fitImage(im *Image, width float64) (float64, float64) {
	w, h := im.size()
	if w > width && w > 0 {
		h *= width / w
		w = width
	}
	return w, h
}

func rowHeight(row []cellBox) float64 {
	h := 0.0
	for _, cb := range row {
		h = max(h, cb.height)
	}
	return h
}

// measureRows lays out every row of t within total width without placing
// anything.
func (t *Table) measureRows(e *env, page *Page, total float64) [][]cellBox {
	if t.widths == nil {
		t.widths = t.resolveWidths(total)
	}
	n := len(t.widths)
	grid := t.grid(e, n)
	rows := make([][]cellBox, len(grid))
	for i, row := range grid {
		col := 0
		for _, c := range row {
			w := 0.0
			for k := col; k < col+c.span() && k < n; k++ {
				w += t.widths[k]
			}
			rows[i] = append(rows[i], t.measureCell(e, page, c, w))
			col += c.span()
		}
	}
	return rows
}

// render produces the cell states of a row whose top-left corner is at
// (x, top) and whose height is h.
func (t *Table) render(e *env, page *Page, row []cellBox, x, top, h float64) []*CellState {
	var out []*CellState
	for _, cb := range row {
		c := cb.cell
		r := Rect{Left: x, Bottom: top - h, Right: x + cb.width, Top: top}
		x += cb.width
		border := t.cellBorder(c)
		cs := &CellState{Rect: r, Border: border}
		if c.filler {
			out = append(out, cs)
			continue
		}
		cs.Background = c.Background
		inset := border/2 + t.cellPadding(c)
		inner := Rect{Left: r.Left + inset, Bottom: r.Bottom + inset, Right: r.Right - inset, Top: r.Top - inset}
		switch {
		case cb.text != nil && len(cb.fits) > 0:
			st := cb.text.styles[0]
			ts := st.newState()
			adv := st.advance(page.Leading)
			for k, fit := range cb.fits {
				last := k == len(cb.fits)-1 || cb.text.toks[fit.end].breaks > 0
				offset, perSpace := alignLine(c.Text.Align, fit, inner.Width(), last)
				ts.Lines = append(ts.Lines, Line{
					Position:    Position{X: inner.Left + offset, Y: inner.Top - st.above() - float64(k)*adv},
					Text:        fit.segs[0].text,
					Width:       fit.width,
					WordSpacing: perSpace / st.scale,
				})
			}
			cs.Content = append(cs.Content, ts)
		case c.Image != nil && c.Image.Source != nil:
			w, ih := fitImage(c.Image, inner.Width())
			cs.Content = append(cs.Content, &ImageState{
				Image: c.Image.Source,
				Rect:  Rect{Left: inner.Left, Bottom: inner.Top - ih, Right: inner.Left + w, Top: inner.Top},
			})
		case c.Table != nil:
			ns := &TableState{}
			y := inner.Top
			for _, nrow := range cb.nested {
				rh := rowHeight(nrow)
				ns.Cells = append(ns.Cells, c.Table.render(e, page, nrow, inner.Left, y, rh)...)
				y -= rh
			}
			cs.Content = append(cs.Content, ns)
		}
		out = append(out, cs)
	}
	return out
}

func (t *Table) process(e *env, page *Page, force bool) Part {
	if len(t.Rows) == 0 {
		return nil
	}
	u := page.Usable()
	sp := t.Spacing
	total := t.Width
	if total <= 0 {
		total = u.Width() - sp.Left - sp.Right
	}
	rows := t.measureRows(e, page, total)
	width := 0.0
	for _, w := range t.widths {
		width += w
	}
	header := t.HeaderRows
	if header >= len(rows) {
		header = 0
	}

	type planned struct {
		x, top, h float64
	}
	var plan []planned
	bestEffort := force || page.IsEmpty()
	x, top := t.Position.X, t.Position.Y
	body := 0
	for i, row := range rows {
		h := rowHeight(row)
		rowSp := Spacing{Left: sp.Left, Right: sp.Right}
		if i == 0 {
			rowSp.Top = sp.Top
		}
		slot, ok := page.OpenPosition(h, 0, rowSp, width, Position{X: x, Y: top})
		if !ok {
			if body > 0 || !bestEffort {
				break
			}
			// The row cannot fit anywhere: place it regardless.
			slot = Slot{X: u.Left + sp.Left, Top: u.Top - sp.Top}
			if !isAuto(x) {
				slot.X = x
			}
			if !isAuto(top) {
				slot.Top = top
			}
		}
		plan = append(plan, planned{x: slot.X, top: slot.Top, h: h})
		x, top = slot.X, slot.Top-h
		if i >= header {
			body++
		}
	}

	if body == 0 {
		// Keep headers with the first body row.
		rest := *t
		rest.Position = continued(t.Position)
		return &rest
	}

	ts := &TableState{}
	lastBox := -1
	for i, p := range plan {
		ts.Cells = append(ts.Cells, t.render(e, page, rows[i], p.x, p.top, p.h)...)
		box := Rect{Left: p.x - sp.Left, Bottom: p.top - p.h, Right: p.x + width + sp.Right, Top: p.top}
		if i == 0 {
			box.Top += sp.Top
		}
		page.reserve(box, BoxFlow)
		lastBox = len(page.boxes) - 1
	}
	page.add(ts)

	if len(plan) == len(rows) {
		page.extendBottom(lastBox, sp.Bottom)
		return nil
	}
	rest := *t
	rest.Position = continued(t.Position)
	rest.Rows = nil
	for _, row := range t.Rows[:header] {
		rest.Rows = append(rest.Rows, cloneRow(row))
	}
	rest.Rows = append(rest.Rows, t.Rows[len(plan):]...)
	return &rest
}

func cloneRow(row []*Cell) []*Cell {
	out := make([]*Cell, len(row))
	for i, c := range row {
		cp := *c
		out[i] = &cp
	}
	return out
}
