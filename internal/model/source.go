// Package model defines the data structures shared by the snippet validator.
package model

import (
	"sort"
	"strings"
)

// Path represents a file system path.
type Path string

// Insertion is generated text spliced into the caller's snippet before it is
// handed to the type checker.
type Insertion struct {
	// Offset is the byte offset in the raw text at which Text was inserted.
	Offset int
	Text   string
}

// SourceMap translates byte offsets in the effective (checked) text back to
// the raw text the caller supplied. Offsets that fall inside generated text
// have no raw counterpart.
type SourceMap struct {
	raw        string
	insertions []Insertion
	lineStarts []int
}

// NewSourceMap builds a SourceMap for raw with the given insertions applied.
// Insertions sharing an offset keep their relative order.
func NewSourceMap(raw string, insertions ...Insertion) SourceMap {
	sorted := make([]Insertion, 0, len(insertions))
	for _, ins := range insertions {
		if ins.Text == "" {
			continue
		}

		sorted = append(sorted, ins)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})

	lineStarts := []int{0}

	for i := 0; i < len(raw); i++ {
		if raw[i] == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}

	return SourceMap{raw: raw, insertions: sorted, lineStarts: lineStarts}
}

// Effective renders the raw text with every insertion applied.
func (s SourceMap) Effective() string {
	if len(s.insertions) == 0 {
		return s.raw
	}

	var b strings.Builder

	prev := 0
	for _, ins := range s.insertions {
		b.WriteString(s.raw[prev:ins.Offset])
		b.WriteString(ins.Text)
		prev = ins.Offset
	}

	b.WriteString(s.raw[prev:])

	return b.String()
}

// Insertions returns the generated spans in raw offset order.
func (s SourceMap) Insertions() []Insertion {
	return append([]Insertion(nil), s.insertions...)
}

// ToRaw maps an effective byte offset to a raw byte offset. ok is false when
// the offset lies inside generated text.
func (s SourceMap) ToRaw(effective int) (raw int, ok bool) {
	shift := 0

	for _, ins := range s.insertions {
		start := ins.Offset + shift
		end := start + len(ins.Text)

		if effective < start {
			break
		}

		if effective < end {
			return 0, false
		}

		shift += len(ins.Text)
	}

	return effective - shift, true
}

// Position returns the 1-indexed line and byte column of a raw offset.
func (s SourceMap) Position(raw int) (line, column int) {
	if raw < 0 {
		raw = 0
	}

	if raw > len(s.raw) {
		raw = len(s.raw)
	}

	idx := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > raw
	}) - 1

	return idx + 1, raw - s.lineStarts[idx] + 1
}

// Locate maps an effective offset straight to a raw line and column.
func (s SourceMap) Locate(effective int) (line, column int, ok bool) {
	raw, ok := s.ToRaw(effective)
	if !ok {
		return 0, 0, false
	}

	line, column = s.Position(raw)

	return line, column, true
}

// SourceUnit is the synthetic compilation input for one validation call. It
// is built once and never mutated.
type SourceUnit struct {
	RawText       string
	EffectiveText string
	// PrefixLineCount is the number of whole lines generated ahead of the
	// first raw line.
	PrefixLineCount int
	Map             SourceMap
}

// NewSourceUnit assembles a SourceUnit from raw text and generated insertions.
func NewSourceUnit(raw string, insertions ...Insertion) SourceUnit {
	sm := NewSourceMap(raw, insertions...)

	// A leading byte order mark stays ahead of any generated prefix.
	leading := 0
	if strings.HasPrefix(raw, "\ufeff") {
		leading = len("\ufeff")
	}

	prefixLines := 0

	for _, ins := range sm.insertions {
		if ins.Offset > leading {
			break
		}

		prefixLines += strings.Count(ins.Text, "\n")
	}

	return SourceUnit{
		RawText:         raw,
		EffectiveText:   sm.Effective(),
		PrefixLineCount: prefixLines,
		Map:             sm,
	}
}
