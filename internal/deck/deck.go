// Package deck assembles structured plain-text input decks for a particle
// transport engine: ordered text blocks with stable auto-incrementing entity
// numbering and deterministic formatting. Entity content is opaque
// engine-specific syntax supplied by the caller.
package deck

import (
	"fmt"
	"strings"
)

// Deck aggregates the ordered blocks of one input deck and owns one
// numbering counter per entity category. Blocks are append-only within a
// build session and render in insertion order.
//
// Deck construction is single-threaded by contract: Add* calls must not run
// concurrently on the same instance, and no internal locking is provided.
// A deck whose Add* call returned an error should be discarded, not reused;
// there is no partial-state rollback.
type Deck struct {
	Title   string
	comment string

	cells     []string
	geometry  []string
	materials []string
	data      []string

	cellNum *Allocator
	geoNum  *Allocator
	matNum  *Allocator
}

// New creates a deck with a title line and a free-text header comment.
// Runs of whitespace in the comment are collapsed to single spaces before
// it is wrapped into the intro block.
func New(title, comment string) *Deck {
	return &Deck{
		Title:   title,
		comment: strings.Join(strings.Fields(comment), " "),
		cellNum: NewAllocator(CategoryCell),
		geoNum:  NewAllocator(CategoryGeometry),
		matNum:  NewAllocator(CategoryMaterial),
	}
}

// AddCells stamps each cell with the next cell number and appends it to the
// cells block.
func (d *Deck) AddCells(cells ...*Cell) error {
	for _, c := range cells {
		if c.ID != 0 {
			return fmt.Errorf("%w: cell %q has number %d", ErrAlreadyAssigned, c.Comment, c.ID)
		}
		c.ID = d.cellNum.Next()
		d.cells = append(d.cells, fmt.Sprintf("%s\n%d    %s\n", c.Comment, c.ID, c.Content))
	}
	return nil
}

// AddGeometry stamps each surface with the next geometry number and appends
// it to the geometry block. Later entities may reference earlier ones by ID.
func (d *Deck) AddGeometry(geos ...*Geometry) error {
	for _, g := range geos {
		if g.ID != 0 {
			return fmt.Errorf("%w: geometry %q has number %d", ErrAlreadyAssigned, g.Comment, g.ID)
		}
		g.ID = d.geoNum.Next()
		d.geometry = append(d.geometry, fmt.Sprintf("%s\n%d    %s\n", g.Comment, g.ID, g.Content))
	}
	return nil
}

// AddMaterials stamps each material with the next material number and
// appends its m-card to the materials block.
func (d *Deck) AddMaterials(matls ...*Material) error {
	for _, m := range matls {
		if m.ID != 0 {
			return fmt.Errorf("%w: material %q has number %d", ErrAlreadyAssigned, m.Comment, m.ID)
		}
		m.ID = d.matNum.Next()
		d.materials = append(d.materials, fmt.Sprintf("%s\nm%d %s\n", m.Comment, m.ID, m.Content))
	}
	return nil
}

// AddSources appends sdef cards and their sp distribution cards to the data
// block. startDistribution seeds the distribution counter; it must be
// established (>= 1) before any source can be added. Each source's content
// is expanded with the number of its first distribution, then its attached
// distributions are numbered sequentially.
func (d *Deck) AddSources(sources []*Source, startDistribution int) error {
	if startDistribution < 1 {
		return fmt.Errorf("%w: start distribution %d", ErrMissingState, startDistribution)
	}
	n := startDistribution
	for _, s := range sources {
		d.data = append(d.data, fmt.Sprintf("sdef    %s\n", expandID(s.Content, n)))
		for _, dist := range s.Dists {
			dist.ID = n
			d.data = append(d.data, fmt.Sprintf("     sp%d         %s\n", n, dist.Content))
			n++
		}
	}
	return nil
}

// expandID substitutes an identifier into content carrying a %d placeholder.
func expandID(content string, id int) string {
	if strings.Contains(content, "%d") {
		return fmt.Sprintf(content, id)
	}
	return content
}
