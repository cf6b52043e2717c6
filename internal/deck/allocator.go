package deck

// Category identifies an entity numbering category (0–2).
type Category int

const (
	CategoryCell     Category = 0
	CategoryGeometry Category = 1
	CategoryMaterial Category = 2
)

func (c Category) String() string {
	names := [...]string{"cell", "geometry", "material"}
	if c >= 0 && int(c) < len(names) {
		return names[c]
	}
	return "unknown"
}

// Allocator issues sequential identifiers for one entity category. Numbers
// are never reused within a deck's lifetime; there is no removal operation.
// Not safe for concurrent use: deck construction is a sequential authoring
// step (see Deck).
type Allocator struct {
	next int
	step int
}

// NewAllocator creates the counter for a category. Cells and materials
// number from 1 in steps of 1; geometry numbers from 10 in steps of 10,
// leaving gaps for manual edits to the written deck.
func NewAllocator(c Category) *Allocator {
	if c == CategoryGeometry {
		return &Allocator{next: 10, step: 10}
	}
	return &Allocator{next: 1, step: 1}
}

// Next returns the next identifier and advances the counter.
func (a *Allocator) Next() int {
	n := a.next
	a.next += a.step
	return n
}
