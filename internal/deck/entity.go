package deck

// Geometry is a surface definition. Content is opaque engine syntax; the
// deck never interprets it. ID is zero until the entity is added to a deck,
// then set exactly once and immutable, so later entities may reference it.
type Geometry struct {
	Comment string
	Content string
	ID      int
}

// Cell is a cell card definition. Same lifecycle as Geometry.
type Cell struct {
	Comment string
	Content string
	ID      int
}

// Material is a material card definition. Same lifecycle as Geometry; the
// rendered card carries an "m" prefix before the number.
type Material struct {
	Comment string
	Content string
	ID      int
}

// Distribution is a source probability card attached to a Source. Its ID is
// drawn from the deck's distribution counter when the source is added.
type Distribution struct {
	Content string
	ID      int
}

// Source is an sdef card. Content may carry a single %d verb standing for
// the number of its first distribution; content without one is written
// verbatim.
type Source struct {
	Content string
	Dists   []*Distribution
}
