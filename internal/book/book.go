// Package book provides opening move selection: a built-in set of main
// lines, a Polyglot-style binary book loader, and an optional online
// opening-explorer probe.
package book

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/Salsakeyy/EnzoChess/internal/board"
)

// Source supplies a candidate reply for a position.
type Source interface {
	Probe(pos *board.Position) (board.Move, bool)
}

// Entry represents a single book entry.
type Entry struct {
	From      board.Square
	To        board.Square
	Promotion board.PieceType
	Weight    uint16
}

// Book is a mapping from position keys to weighted candidate replies.
type Book struct {
	entries map[uint64][]Entry
}

// New creates an empty book.
func New() *Book {
	return &Book{entries: make(map[uint64][]Entry)}
}

// NewBuiltin creates a book seeded with the built-in opening lines.
func NewBuiltin() *Book {
	b := New()
	for _, line := range builtinLines {
		b.addLine(line)
	}
	return b
}

// builtinLines are short mainline openings played from the start
// position. Every prefix position maps to the next move of the line.
var builtinLines = [][]string{
	// Ruy Lopez
	{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "a7a6", "b5a4", "g8f6"},
	// Italian
	{"e2e4", "e7e5", "g1f3", "b8c6", "f1c4", "f8c5", "c2c3", "g8f6"},
	// Sicilian Najdorf
	{"e2e4", "c7c5", "g1f3", "d7d6", "d2d4", "c5d4", "f3d4", "g8f6"},
	// French
	{"e2e4", "e7e6", "d2d4", "d7d5", "b1c3", "g8f6"},
	// Caro-Kann
	{"e2e4", "c7c6", "d2d4", "d7d5", "b1c3", "d5e4", "c3e4"},
	// Queen's Gambit Declined
	{"d2d4", "d7d5", "c2c4", "e7e6", "b1c3", "g8f6", "c4d5", "e6d5"},
	// Slav
	{"d2d4", "d7d5", "c2c4", "c7c6", "g1f3", "g8f6"},
	// King's Indian
	{"d2d4", "g8f6", "c2c4", "g7g6", "b1c3", "f8g7", "e2e4", "d7d6"},
	// Nimzo-Indian
	{"d2d4", "g8f6", "c2c4", "e7e6", "b1c3", "f8b4"},
	// English
	{"c2c4", "e7e5", "b1c3", "g8f6", "g1f3", "b8c6"},
	// Réti
	{"g1f3", "d7d5", "c2c4", "c7c6", "b2b3", "g8f6"},
}

// addLine replays a move sequence from the start position, recording
// each position-to-reply pair.
func (b *Book) addLine(line []string) {
	pos := board.NewPosition()
	for _, text := range line {
		from, to, promo, err := board.ParseMoveText(text)
		if err != nil {
			return
		}
		m, ok := pos.FindMove(from, to, promo)
		if !ok {
			return
		}
		b.add(Key(pos), Entry{From: m.From, To: m.To, Promotion: m.Promotion, Weight: 100})
		pos.MakeMove(m)
	}
}

// add records an entry unless the same reply is already present; weights
// accumulate for repeated lines.
func (b *Book) add(key uint64, e Entry) {
	for i, existing := range b.entries[key] {
		if existing.From == e.From && existing.To == e.To && existing.Promotion == e.Promotion {
			b.entries[key][i].Weight += e.Weight
			return
		}
	}
	b.entries[key] = append(b.entries[key], e)
}

// LoadFile loads a Polyglot-style binary book from a file and merges it
// into the book.
func (b *Book) LoadFile(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return b.LoadReader(f)
}

// LoadReader merges Polyglot-style 16-byte entries from r:
// 8 bytes position key, 2 bytes move, 2 bytes weight, 4 bytes learn data
// (ignored), all big-endian. Keys must come from Key on this package.
func (b *Book) LoadReader(r io.Reader) error {
	var raw [16]byte
	for {
		_, err := io.ReadFull(r, raw[:])
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("book read: %w", err)
		}

		key := binary.BigEndian.Uint64(raw[0:8])
		moveData := binary.BigEndian.Uint16(raw[8:10])
		weight := binary.BigEndian.Uint16(raw[10:12])

		b.add(key, decodeMove(moveData, weight))
	}
}

// decodeMove unpacks the Polyglot move encoding:
// bits 0-2 to-file, 3-5 to-rank, 6-8 from-file, 9-11 from-rank,
// 12-14 promotion (0 none, 1 knight .. 4 queen).
func decodeMove(data, weight uint16) Entry {
	toFile := int(data & 7)
	toRank := int((data >> 3) & 7)
	fromFile := int((data >> 6) & 7)
	fromRank := int((data >> 9) & 7)
	promoIdx := (data >> 12) & 7

	promo := board.Empty
	if promoIdx >= 1 && promoIdx <= 4 {
		promoTypes := [5]board.PieceType{board.Empty, board.Knight, board.Bishop, board.Rook, board.Queen}
		promo = promoTypes[promoIdx]
	}

	return Entry{
		From:      board.NewSquare(fromFile, fromRank),
		To:        board.NewSquare(toFile, toRank),
		Promotion: promo,
		Weight:    weight,
	}
}

// EncodeMove packs a from/to/promotion triple into the Polyglot move
// encoding. Used when writing books and by tests.
func EncodeMove(from, to board.Square, promo board.PieceType) uint16 {
	data := uint16(to.File()) | uint16(to.Rank())<<3 |
		uint16(from.File())<<6 | uint16(from.Rank())<<9
	switch promo {
	case board.Knight:
		data |= 1 << 12
	case board.Bishop:
		data |= 2 << 12
	case board.Rook:
		data |= 3 << 12
	case board.Queen:
		data |= 4 << 12
	}
	return data
}

// Probe returns the highest-weighted legal reply for the position.
func (b *Book) Probe(pos *board.Position) (board.Move, bool) {
	if b == nil {
		return board.NoMove, false
	}

	entries := b.entries[Key(pos)]
	if len(entries) == 0 {
		return board.NoMove, false
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight > sorted[j].Weight
	})

	for _, e := range sorted {
		if m, ok := pos.FindMove(e.From, e.To, e.Promotion); ok {
			return m, true
		}
	}
	return board.NoMove, false
}

// Size returns the number of unique positions in the book.
func (b *Book) Size() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}
