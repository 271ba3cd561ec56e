package compose

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/tabtab-ime/tabtab/internal/utils"
)

// DefaultPageSize is how many candidates one page shows.
const DefaultPageSize = 5

// State is the session's composition state.
type State int

const (
	// StateIdle: empty buffer, nothing shown.
	StateIdle State = iota
	// StateComposing: non-empty buffer with a computed candidate list.
	StateComposing
	// StateSuggesting: externally injected suggestion list supersedes
	// the candidate view until selected, replaced or dismissed.
	StateSuggesting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateComposing:
		return "composing"
	case StateSuggesting:
		return "suggesting"
	default:
		return "unknown"
	}
}

// Session tracks one continuous input-and-selection interaction: the
// pending syllable buffer, its ranked candidates with a page window, and
// the auxiliary suggestion list with its own cursor.
//
// Sessions are not safe for concurrent use; callers invoke the mutating
// operations strictly one at a time (marshal through a channel if the
// surrounding system is concurrent).
type Session struct {
	ranker   *Ranker
	pageSize int
	limit    int

	state  State
	buffer strings.Builder
	full   []string
	page   int

	suggestions []string
	suggestIdx  int

	lastText string
	lastKey  string

	epoch uint64
}

// NewSession creates an idle session. pageSize <= 0 selects DefaultPageSize.
func NewSession(ranker *Ranker, pageSize int) *Session {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Session{ranker: ranker, pageSize: pageSize}
}

// SetCandidateLimit caps the computed candidate list. Zero or negative
// means unlimited. Takes effect on the next recomputation.
func (s *Session) SetCandidateLimit(n int) { s.limit = n }

// State returns the current composition state.
func (s *Session) State() State { return s.state }

// Buffer returns the pending syllable buffer.
func (s *Session) Buffer() string { return s.buffer.String() }

// Epoch returns a counter bumped on every mutation. Callers tag in-flight
// external requests with it and drop responses whose epoch is stale.
func (s *Session) Epoch() uint64 { return s.epoch }

// LastCommitted returns the most recently committed (text, key) pair.
// It survives resets so suggestion context can be built after a commit.
func (s *Session) LastCommitted() (text, key string) {
	return s.lastText, s.lastKey
}

func (s *Session) bump() { s.epoch++ }

// AppendSyllable extends the buffer by one syllable character and
// recomputes candidates from page zero. In suggestion mode the
// suggestion list is discarded first. Non-letters are ignored.
func (s *Session) AppendSyllable(ch rune) {
	if !utils.IsSyllableRune(ch) {
		log.Debugf("Ignoring non-syllable rune %q", ch)
		return
	}
	if s.state == StateSuggesting {
		s.dropSuggestions()
	}
	s.buffer.WriteRune(unicode.ToLower(ch))
	s.recompute()
	s.bump()
}

// RemoveLastSyllable pops one character and recomputes; an emptied
// buffer returns the session to idle.
func (s *Session) RemoveLastSyllable() {
	if s.state != StateComposing {
		return
	}
	buf := s.buffer.String()
	s.buffer.Reset()
	if len(buf) > 1 {
		s.buffer.WriteString(buf[:len(buf)-1])
	}
	s.recompute()
	s.bump()
}

// recompute refreshes the full candidate list for the current buffer and
// resets the page window.
func (s *Session) recompute() {
	buf := s.buffer.String()
	if buf == "" {
		s.full = nil
		s.page = 0
		s.state = StateIdle
		return
	}
	s.full = s.ranker.Candidates(buf, s.limit)
	s.page = 0
	s.state = StateComposing
}

// TotalPages returns the number of candidate pages (zero when idle).
func (s *Session) TotalPages() int {
	if len(s.full) == 0 {
		return 0
	}
	return (len(s.full) + s.pageSize - 1) / s.pageSize
}

// clampPage keeps the cursor on the last page that still has candidates.
func (s *Session) clampPage() {
	last := s.TotalPages() - 1
	if last < 0 {
		last = 0
	}
	if s.page > last {
		s.page = last
	}
}

// VisibleCandidates returns the current page slice, the page index and
// the total page count.
func (s *Session) VisibleCandidates() (words []string, page, totalPages int) {
	s.clampPage()
	total := s.TotalPages()
	if total == 0 {
		return nil, 0, 0
	}
	start := s.page * s.pageSize
	end := start + s.pageSize
	if end > len(s.full) {
		end = len(s.full)
	}
	out := make([]string, end-start)
	copy(out, s.full[start:end])
	return out, s.page, total
}

// NextPage advances the window one page; a no-op on the last page.
// Only the visible slice changes, candidates are not recomputed.
func (s *Session) NextPage() bool {
	if s.state != StateComposing || s.page >= s.TotalPages()-1 {
		return false
	}
	s.page++
	return true
}

// PreviousPage moves the window back one page; a no-op on the first.
func (s *Session) PreviousPage() bool {
	if s.state != StateComposing || s.page <= 0 {
		return false
	}
	s.page--
	return true
}

// SelectCandidate commits the candidate at the page-relative index (or
// the suggestion at the absolute index in suggestion mode). Out-of-range
// indexes are a no-op. On commit the text is returned for emission, the
// last-committed pair is updated, and the session resets to idle.
func (s *Session) SelectCandidate(index int) (string, bool) {
	switch s.state {
	case StateSuggesting:
		if index < 0 || index >= len(s.suggestions) {
			return "", false
		}
		text := s.suggestions[index]
		s.commit(text, "")
		return text, true
	case StateComposing:
		abs := s.page*s.pageSize + index
		if index < 0 || index >= s.pageSize || abs >= len(s.full) {
			return "", false
		}
		text := s.full[abs]
		s.commit(text, s.buffer.String())
		return text, true
	default:
		return "", false
	}
}

// CommitSelection commits the default selection: the suggestion under
// the cursor in suggestion mode, the first visible candidate otherwise.
func (s *Session) CommitSelection() (string, bool) {
	if s.state == StateSuggesting {
		return s.SelectCandidate(s.suggestIdx)
	}
	return s.SelectCandidate(0)
}

// commit records the emitted pair and resets everything else.
func (s *Session) commit(text, key string) {
	s.lastText = text
	s.lastKey = key
	s.reset()
	s.bump()
}

// Cancel discards the buffer, candidates and suggestion state without
// emitting text.
func (s *Session) Cancel() {
	if s.state == StateIdle {
		return
	}
	s.reset()
	s.bump()
}

// reset clears all per-composition state; the last-committed pair is
// deliberately kept.
func (s *Session) reset() {
	s.buffer.Reset()
	s.full = nil
	s.page = 0
	s.dropSuggestions()
	s.state = StateIdle
}

// EnterSuggestionMode installs an externally produced suggestion list
// and moves to suggesting from any prior state, cursor at zero. An empty
// list is a no-op: "no suggestions" never disturbs the session.
func (s *Session) EnterSuggestionMode(list []string) {
	if len(list) == 0 {
		log.Debug("No suggestions available, staying in current state")
		return
	}
	s.suggestions = make([]string, len(list))
	copy(s.suggestions, list)
	s.suggestIdx = 0
	s.state = StateSuggesting
	s.bump()
}

// VisibleSuggestions returns the suggestion list and the cursor index.
func (s *Session) VisibleSuggestions() ([]string, int) {
	if s.state != StateSuggesting {
		return nil, 0
	}
	out := make([]string, len(s.suggestions))
	copy(out, s.suggestions)
	return out, s.suggestIdx
}

// NextSuggestion moves the suggestion cursor down, clamped to the end.
func (s *Session) NextSuggestion() {
	if s.state == StateSuggesting && s.suggestIdx < len(s.suggestions)-1 {
		s.suggestIdx++
	}
}

// PreviousSuggestion moves the suggestion cursor up, clamped to zero.
func (s *Session) PreviousSuggestion() {
	if s.state == StateSuggesting && s.suggestIdx > 0 {
		s.suggestIdx--
	}
}

// dropSuggestions leaves suggestion mode, restoring the composing view
// when a buffer is pending.
func (s *Session) dropSuggestions() {
	s.suggestions = nil
	s.suggestIdx = 0
	if s.state == StateSuggesting {
		if s.buffer.Len() > 0 {
			s.state = StateComposing
		} else {
			s.state = StateIdle
		}
	}
}

// SuggestionContext assembles the text handed to the suggestion
// provider: the pending buffer with its first candidate when composing,
// otherwise the last committed pair. Empty means nothing to ask about.
func (s *Session) SuggestionContext() string {
	if s.buffer.Len() > 0 {
		first := ""
		if len(s.full) > 0 {
			first = s.full[0]
		}
		return strings.TrimSpace(s.buffer.String() + " " + first)
	}
	if s.lastText == "" {
		return ""
	}
	return strings.TrimSpace(s.lastKey + " " + s.lastText)
}
