// Package pinyin decomposes romanized syllable strings into scored
// word/phrase segmentations via dynamic programming over the dictionary.
package pinyin

import (
	"github.com/charmbracelet/log"

	"github.com/tabtab-ime/tabtab/pkg/dictionary"
)

// DefaultCellCap bounds how many partial decompositions each lattice
// cell retains. Long ambiguous inputs grow combinatorially without it.
const DefaultCellCap = 30

// Segment is one full decomposition of the input: the surface phrase,
// the romanization it consumed, and its cumulative score.
type Segment struct {
	Phrase string
	Key    string
	Score  int
}

// Segmenter runs the segmentation lattice over an immutable store and
// curated table. Segment is pure and reentrant once the store is loaded.
type Segmenter struct {
	store   *dictionary.Store
	curated *dictionary.CuratedTable
	cellCap int
}

// NewSegmenter creates a segmenter. cellCap <= 0 selects DefaultCellCap.
func NewSegmenter(store *dictionary.Store, curated *dictionary.CuratedTable, cellCap int) *Segmenter {
	if cellCap <= 0 {
		cellCap = DefaultCellCap
	}
	return &Segmenter{store: store, curated: curated, cellCap: cellCap}
}

// Score is the transition weight for consuming (key -> word): raw
// frequency plus the curated bonus, so curated pairs always dominate.
func (s *Segmenter) Score(word, key string) int {
	return s.store.FrequencyOf(word, key) + s.curated.Bonus(key, word)
}

// Segment computes the lattice for the syllable string and returns every
// retained full decomposition, best score first. Every substring is tried
// as a split, not just maximal matches: shorter legal sub-words combined
// can outscore a single long match under phrase weighting.
func (s *Segmenter) Segment(syllables string) []Segment {
	n := len(syllables)
	if n == 0 {
		return nil
	}

	cells := make([]*cell, n+1)
	for i := range cells {
		cells[i] = newCell(s.cellCap)
	}
	cells[0].add(pathNode{phrase: "", score: 0, seq: 0})

	seq := 1
	for i := 1; i <= n; i++ {
		for j := 0; j < i; j++ {
			if cells[j].Len() == 0 {
				continue
			}
			key := syllables[j:i]
			words := s.store.LookupExact(key)
			if len(words) == 0 {
				continue
			}
			prev := cells[j].sorted()
			for _, word := range words {
				step := s.Score(word, key)
				for _, node := range prev {
					cells[i].add(pathNode{
						phrase: node.phrase + word,
						score:  node.score + step,
						seq:    seq,
					})
					seq++
				}
			}
		}
	}

	final := cells[n].sorted()
	if len(final) == 0 {
		log.Debugf("No full segmentation for %q", syllables)
		return nil
	}
	out := make([]Segment, 0, len(final))
	for _, node := range final {
		out = append(out, Segment{Phrase: node.phrase, Key: syllables, Score: node.score})
	}
	return out
}
