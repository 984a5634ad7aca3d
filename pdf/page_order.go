package pdf

import (
	"sort"
)

// Direction is the neighbor a slot is swapped with.
type Direction int

const (
	Up Direction = iota
	Down
)

// RotationStep is the only rotation granularity a page's /Rotate entry accepts.
const RotationStep = 90

// PageOrder is the editable output arrangement of a loaded document's pages.
//
// Slots are positions in the output; the value in a slot is the page's
// original 0-based index. Rotations are keyed by original index, so moving a
// page never requires re-keying them.
//
// A PageOrder is not safe for concurrent use. Owners serialize access and hand
// the result of Materialize to long-running exports.
type PageOrder struct {
	pageCount   int
	order       []int
	rotations   map[int]int
	initialized bool
}

// OrderSnapshot is a point-in-time copy of a PageOrder for rendering.
type OrderSnapshot struct {
	PageCount int         `json:"page_count"`
	Order     []int       `json:"order"`
	Rotations map[int]int `json:"rotations"`
}

// NewPageOrder returns a PageOrder holding the identity order of pageCount pages.
func NewPageOrder(pageCount int) *PageOrder {
	p := &PageOrder{}
	p.Initialize(pageCount)
	return p
}

// Initialize discards all state and starts over with pageCount pages in
// their original order, every rotation at 0.
func (p *PageOrder) Initialize(pageCount int) {
	if pageCount < 0 {
		pageCount = 0
	}
	p.pageCount = pageCount
	p.order = identity(pageCount)
	p.rotations = make(map[int]int, pageCount)
	for i := 0; i < pageCount; i++ {
		p.rotations[i] = 0
	}
	p.initialized = true
}

func identity(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// Initialized reports whether a document has been loaded.
func (p *PageOrder) Initialized() bool { return p.initialized }

// PageCount is the page count of the source document.
func (p *PageOrder) PageCount() int { return p.pageCount }

// Len is the number of slots currently in the order.
func (p *PageOrder) Len() int { return len(p.order) }

// PageAt returns the original page index in slot.
func (p *PageOrder) PageAt(slot int) (int, error) {
	if err := p.checkSlot("page at", slot); err != nil {
		return 0, err
	}
	return p.order[slot], nil
}

func (p *PageOrder) checkSlot(op string, slot int) error {
	if slot < 0 || slot >= len(p.order) {
		return &IndexError{Op: op, Index: slot, Len: len(p.order)}
	}
	return nil
}

// MoveSlot removes the page at from and reinserts it at to, shifting the
// pages in between. Moving a slot onto itself does nothing.
func (p *PageOrder) MoveSlot(from, to int) error {
	if err := p.checkSlot("move from", from); err != nil {
		return err
	}
	if err := p.checkSlot("move to", to); err != nil {
		return err
	}
	if from == to {
		return nil
	}

	page := p.order[from]
	if from < to {
		copy(p.order[from:to], p.order[from+1:to+1])
	} else {
		copy(p.order[to+1:from+1], p.order[to:from])
	}
	p.order[to] = page
	return nil
}

// SwapAdjacent swaps slot with its neighbor in dir. It reports whether
// anything moved; the first slot cannot go up and the last cannot go down.
func (p *PageOrder) SwapAdjacent(slot int, dir Direction) bool {
	target := slot + 1
	if dir == Up {
		target = slot - 1
	}
	if slot < 0 || slot >= len(p.order) || target < 0 || target >= len(p.order) {
		return false
	}
	p.order[slot], p.order[target] = p.order[target], p.order[slot]
	return true
}

// SortAscending orders the remaining pages by original index.
func (p *PageOrder) SortAscending() {
	sort.Ints(p.order)
}

// SortDescending orders the remaining pages by original index, last first.
func (p *PageOrder) SortDescending() {
	sort.Sort(sort.Reverse(sort.IntSlice(p.order)))
}

// RemoveSlot drops the page in slot from the output. Its rotation is kept
// so a later Reset brings it back as it was.
func (p *PageOrder) RemoveSlot(slot int) error {
	if err := p.checkSlot("remove", slot); err != nil {
		return err
	}
	p.order = append(p.order[:slot], p.order[slot+1:]...)
	return nil
}

// Reset restores every page in its original order. Rotations are untouched.
func (p *PageOrder) Reset() {
	p.order = identity(p.pageCount)
}

// Rotation returns the rotation in degrees set for an original page.
func (p *PageOrder) Rotation(page int) int {
	return p.rotations[page]
}

// RotationAt returns the rotation of whichever page occupies slot.
func (p *PageOrder) RotationAt(slot int) (int, error) {
	page, err := p.PageAt(slot)
	if err != nil {
		return 0, err
	}
	return p.rotations[page], nil
}

// SetRotation sets the rotation of an original page. degrees must be a
// multiple of 90 and is normalized into [0, 360).
func (p *PageOrder) SetRotation(page, degrees int) error {
	if page < 0 || page >= p.pageCount {
		return &IndexError{Op: "rotate page", Index: page, Len: p.pageCount}
	}
	if degrees%RotationStep != 0 {
		return newValidationError("rotation must be a multiple of %d degrees, got %d", RotationStep, degrees)
	}
	p.rotations[page] = normalizeRotation(degrees)
	return nil
}

// Rotate adds delta degrees to the rotation of an original page.
func (p *PageOrder) Rotate(page, delta int) error {
	return p.SetRotation(page, p.rotations[page]+delta)
}

func normalizeRotation(degrees int) int {
	degrees %= 360
	if degrees < 0 {
		degrees += 360
	}
	return degrees
}

// Materialize returns a copy of the current order for document assembly.
// Later edits never affect a returned slice.
func (p *PageOrder) Materialize() ([]int, error) {
	if !p.initialized {
		return nil, newValidationError("no document loaded")
	}
	if len(p.order) == 0 {
		return nil, newValidationError("all pages have been removed, cannot save an empty PDF")
	}
	out := make([]int, len(p.order))
	copy(out, p.order)
	return out, nil
}

// Snapshot copies the order and every rotation, including removed pages.
func (p *PageOrder) Snapshot() OrderSnapshot {
	s := OrderSnapshot{
		PageCount: p.pageCount,
		Order:     make([]int, len(p.order)),
		Rotations: make(map[int]int, len(p.rotations)),
	}
	copy(s.Order, p.order)
	for page, deg := range p.rotations {
		s.Rotations[page] = deg
	}
	return s
}
