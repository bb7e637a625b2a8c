package views

import "fmt"

// Paginator tracks the cursor and visible page of the history list
type Paginator struct {
	pageSize   int
	pageOffset int
	cursor     int
	totalItems int
}

// NewPaginator creates a new paginator with the given page size
func NewPaginator(pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Paginator{pageSize: pageSize}
}

// SetTotal sets the total number of items, clamping the cursor
func (p *Paginator) SetTotal(total int) {
	p.totalItems = total
	if p.cursor >= total {
		p.cursor = max(total-1, 0)
	}
	p.ensureCursorInPage()
}

// SetPageSize changes the number of rows per page, e.g. after a resize
func (p *Paginator) SetPageSize(size int) {
	if size <= 0 || size == p.pageSize {
		return
	}
	p.pageSize = size
	p.ensureCursorInPage()
}

// Total returns the number of items
func (p *Paginator) Total() int {
	return p.totalItems
}

// Cursor returns the current cursor position (absolute index)
func (p *Paginator) Cursor() int {
	return p.cursor
}

// CursorUp moves the cursor up by one
func (p *Paginator) CursorUp() bool {
	if p.cursor == 0 {
		return false
	}
	p.cursor--
	p.ensureCursorInPage()
	return true
}

// CursorDown moves the cursor down by one
func (p *Paginator) CursorDown() bool {
	if p.cursor >= p.totalItems-1 {
		return false
	}
	p.cursor++
	p.ensureCursorInPage()
	return true
}

// VisibleRange returns the start and end indices for the current page
func (p *Paginator) VisibleRange() (start, end int) {
	return p.pageOffset, min(p.pageOffset+p.pageSize, p.totalItems)
}

// TotalPages returns the total number of pages
func (p *Paginator) TotalPages() int {
	if p.totalItems == 0 {
		return 1
	}
	return (p.totalItems + p.pageSize - 1) / p.pageSize
}

// CurrentPage returns the current page number (1-based)
func (p *Paginator) CurrentPage() int {
	return p.pageOffset/p.pageSize + 1
}

// PageLabel renders e.g. "page 2/5"
func (p *Paginator) PageLabel() string {
	return fmt.Sprintf("page %d/%d", p.CurrentPage(), p.TotalPages())
}

// NextPage moves to the next page
func (p *Paginator) NextPage() bool {
	if p.pageOffset+p.pageSize >= p.totalItems {
		return false
	}
	p.pageOffset += p.pageSize
	p.cursor = p.pageOffset
	return true
}

// PrevPage moves to the previous page
func (p *Paginator) PrevPage() bool {
	if p.pageOffset == 0 {
		return false
	}
	p.pageOffset = max(p.pageOffset-p.pageSize, 0)
	p.cursor = p.pageOffset
	return true
}

// Reset returns to the first item
func (p *Paginator) Reset() {
	p.cursor = 0
	p.pageOffset = 0
}

func (p *Paginator) ensureCursorInPage() {
	if p.cursor < p.pageOffset || p.cursor >= p.pageOffset+p.pageSize {
		p.pageOffset = (p.cursor / p.pageSize) * p.pageSize
	}
}
