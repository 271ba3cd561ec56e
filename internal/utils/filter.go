package utils

// CandidateFilter tracks surface strings already emitted into a candidate
// list so that a later, lower-priority source cannot re-add them.
type CandidateFilter struct {
	seen map[string]bool
}

// NewCandidateFilter creates an empty filter.
func NewCandidateFilter() *CandidateFilter {
	return &CandidateFilter{seen: make(map[string]bool)}
}

// ShouldInclude reports whether the word has not been emitted yet and
// marks it as emitted. The first caller for a given word wins.
func (f *CandidateFilter) ShouldInclude(word string) bool {
	if word == "" || f.seen[word] {
		return false
	}
	f.seen[word] = true
	return true
}

// Len returns the number of distinct words recorded so far.
func (f *CandidateFilter) Len() int {
	return len(f.seen)
}
