// Package compose merges dictionary, segmentation and curated results
// into ranked candidate lists and drives the input-session state machine
// that a key-handling layer operates.
package compose

import (
	"sort"

	"github.com/tabtab-ime/tabtab/internal/utils"
	"github.com/tabtab-ime/tabtab/pkg/dictionary"
	"github.com/tabtab-ime/tabtab/pkg/pinyin"
)

// Ranker produces the ordered, deduplicated candidate list for a
// syllable buffer. Output order is fully reproducible: membership sets
// only gate duplicates, never drive ranking.
type Ranker struct {
	store     *dictionary.Store
	segmenter *pinyin.Segmenter
	curated   *dictionary.CuratedTable
}

// NewRanker wires a ranker over a loaded store.
func NewRanker(store *dictionary.Store, segmenter *pinyin.Segmenter, curated *dictionary.CuratedTable) *Ranker {
	return &Ranker{store: store, segmenter: segmenter, curated: curated}
}

// Candidates merges, in priority order: curated exact matches, full
// segmentations by score, dictionary exact matches, dictionary prefix
// matches by frequency, and the single-syllable fallback. A positive
// limit truncates; zero or negative returns the full list.
func (r *Ranker) Candidates(syllables string, limit int) []string {
	if syllables == "" {
		return nil
	}

	filter := utils.NewCandidateFilter()
	var out []string
	emit := func(word string) {
		if filter.ShouldInclude(word) {
			out = append(out, word)
		}
	}

	for _, word := range r.curated.Words(syllables) {
		emit(word)
	}
	for _, seg := range r.segmenter.Segment(syllables) {
		emit(seg.Phrase)
	}
	for _, word := range r.store.LookupExact(syllables) {
		emit(word)
	}
	for _, entry := range r.prefixByFrequency(syllables) {
		emit(entry.Word)
	}
	for _, word := range r.fallback(syllables) {
		emit(word)
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// prefixByFrequency returns prefix-matching entries ordered by frequency
// descending, with key order then registration order breaking ties.
func (r *Ranker) prefixByFrequency(prefix string) []dictionary.Entry {
	entries := r.store.LookupPrefix(prefix)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Freq > entries[j].Freq
	})
	return entries
}

// fallback handles buffers with no exact or prefix hit at full length:
// the words of the longest dictionary key that prefixes the buffer, the
// single-syllable decomposition a user sees while a phrase is incomplete.
func (r *Ranker) fallback(syllables string) []string {
	for end := len(syllables); end > 0; end-- {
		if head := syllables[:end]; r.store.Contains(head) {
			return r.store.LookupExact(head)
		}
	}
	return nil
}
