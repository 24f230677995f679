package engine

import "sort"

// Flag indicates the type of bound stored in a transposition entry.
type Flag uint8

const (
	FlagExact Flag = iota // exact score
	FlagUpper             // failed low: score is an upper bound
	FlagLower             // failed high: score is a lower bound
)

// Entry is a transposition table record. BestMove is the packed
// from/to/promotion triple of the best move found, or 0.
type Entry struct {
	Depth    int
	Score    int
	Flag     Flag
	BestMove uint16
	Age      int
}

// DefaultTTEntries bounds the table at roughly a million positions.
const DefaultTTEntries = 1 << 20

// Table maps position keys to search results. When the table fills up,
// the half of the entries ranking worst by depth-2*age is evicted and
// the survivors aged.
type Table struct {
	entries    map[uint64]*Entry
	maxEntries int
	hits       uint64
	probes     uint64
}

// NewTable creates a transposition table bounded to maxEntries; zero or
// negative means DefaultTTEntries.
func NewTable(maxEntries int) *Table {
	if maxEntries <= 0 {
		maxEntries = DefaultTTEntries
	}
	return &Table{
		entries:    make(map[uint64]*Entry),
		maxEntries: maxEntries,
	}
}

// Probe looks up a position key.
func (t *Table) Probe(key uint64) (*Entry, bool) {
	t.probes++
	e, ok := t.entries[key]
	if ok {
		t.hits++
	}
	return e, ok
}

// Store saves a search result. An existing entry for the key is
// overwritten in place.
func (t *Table) Store(key uint64, depth, score int, flag Flag, bestMove uint16) {
	if e, ok := t.entries[key]; ok {
		e.Depth = depth
		e.Score = score
		e.Flag = flag
		e.BestMove = bestMove
		e.Age = 0
		return
	}

	if len(t.entries) >= t.maxEntries {
		t.evict()
	}

	t.entries[key] = &Entry{
		Depth:    depth,
		Score:    score,
		Flag:     flag,
		BestMove: bestMove,
	}
}

// evict removes the worst-ranked half of the table by depth-2*age and
// ages the survivors.
func (t *Table) evict() {
	type ranked struct {
		key  uint64
		rank int
	}
	all := make([]ranked, 0, len(t.entries))
	for k, e := range t.entries {
		all = append(all, ranked{k, e.Depth - 2*e.Age})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].rank < all[j].rank })

	for _, r := range all[:len(all)/2] {
		delete(t.entries, r.key)
	}
	for _, e := range t.entries {
		e.Age++
	}
}

// Len returns the number of stored entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Clear empties the table.
func (t *Table) Clear() {
	t.entries = make(map[uint64]*Entry)
	t.hits = 0
	t.probes = 0
}

// HitRate returns the probe hit rate as a percentage.
func (t *Table) HitRate() float64 {
	if t.probes == 0 {
		return 0
	}
	return float64(t.hits) / float64(t.probes) * 100
}
