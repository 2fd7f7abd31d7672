package views

// Paginator tracks the selected row and the visible page of the result list
type Paginator struct {
	size   int
	offset int
	cursor int
	total  int
}

// NewPaginator returns a paginator showing size rows per page
func NewPaginator(size int) *Paginator {
	if size <= 0 {
		size = 10
	}
	return &Paginator{size: size}
}

// SetTotal records how many rows the result holds and clamps the cursor to it
func (p *Paginator) SetTotal(total int) {
	p.total = total
	p.SetCursor(p.cursor)
}

// Cursor returns the absolute index of the selected row
func (p *Paginator) Cursor() int {
	return p.cursor
}

// SetCursor selects row pos, clamped to the result
func (p *Paginator) SetCursor(pos int) {
	p.cursor = max(0, min(pos, p.total-1))
	p.follow()
}

// CursorUp selects the previous row. It reports whether the cursor moved.
func (p *Paginator) CursorUp() bool {
	if p.cursor == 0 {
		return false
	}
	p.SetCursor(p.cursor - 1)
	return true
}

// CursorDown selects the next row. It reports whether the cursor moved.
func (p *Paginator) CursorDown() bool {
	if p.cursor >= p.total-1 {
		return false
	}
	p.SetCursor(p.cursor + 1)
	return true
}

// VisibleRange returns the half-open row interval of the current page
func (p *Paginator) VisibleRange() (start, end int) {
	return p.offset, min(p.offset+p.size, p.total)
}

func (p *Paginator) TotalPages() int {
	if p.total == 0 {
		return 1
	}
	return (p.total + p.size - 1) / p.size
}

// CurrentPage is 1-based
func (p *Paginator) CurrentPage() int {
	return p.offset/p.size + 1
}

// NextPage jumps to the first row of the following page
func (p *Paginator) NextPage() bool {
	if p.offset+p.size >= p.total {
		return false
	}
	p.offset += p.size
	p.cursor = p.offset
	return true
}

// PrevPage jumps to the first row of the preceding page
func (p *Paginator) PrevPage() bool {
	if p.offset == 0 {
		return false
	}
	p.offset = max(0, p.offset-p.size)
	p.cursor = p.offset
	return true
}

// SetPageSize changes how many rows fit on a page, keeping the cursor visible
func (p *Paginator) SetPageSize(size int) {
	p.size = max(1, size)
	p.follow()
}

// Reset clears the result and selection
func (p *Paginator) Reset() {
	p.cursor, p.offset, p.total = 0, 0, 0
}

// follow moves the page so that it contains the cursor
func (p *Paginator) follow() {
	p.offset = (p.cursor / p.size) * p.size
}
