// Package dictionary loads and merges romanized-key dictionaries and the
// curated phrase table, and serves exact/prefix lookups over the merged set.
package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/tabtab-ime/tabtab/internal/utils"
)

// BaselineFrequency is the default weight for entries whose source
// carries no frequency column, used when no baseline is configured.
const BaselineFrequency = 1

// headerDelimiter terminates the metadata block of a dictionary source.
const headerDelimiter = "..."

// MergePolicy controls what happens when two sources define the same
// (key, word) pair. Under FirstWins earlier sources shadow later ones, so
// user layers load before system layers; LastWins suits overlay deployments.
type MergePolicy int

const (
	// FirstWins keeps the first-loaded registration and its frequency.
	FirstWins MergePolicy = iota
	// LastWins lets later sources override the frequency of an existing pair.
	LastWins
)

// ParseMergePolicy maps a config string to a MergePolicy, defaulting to FirstWins.
func ParseMergePolicy(s string) MergePolicy {
	if strings.EqualFold(s, "last_wins") {
		return LastWins
	}
	return FirstWins
}

// Entry pairs a surface word with its romanized key and frequency.
type Entry struct {
	Word string
	Key  string
	Freq int
}

// Stats summarizes a loaded store.
type Stats struct {
	Keys         int
	Words        int
	Sources      int
	SkippedLines int
	MaxFrequency int
}

// Store is the merged dictionary: romanized key to ordered surface words,
// with per-pair frequencies and a patricia trie over keys for prefix scans.
//
// Loading is a one-shot initialization barrier; once Load returns, lookups
// only ever take the read lock.
type Store struct {
	mu       sync.RWMutex
	entries  map[string][]string
	freqs    map[string]int
	trie     *patricia.Trie
	policy   MergePolicy
	baseline int
	stats    Stats
}

// NewStore creates an empty store with the given merge policy. baseline
// is the frequency assumed where a source supplies none; <= 0 selects
// BaselineFrequency.
func NewStore(policy MergePolicy, baseline int) *Store {
	if baseline <= 0 {
		baseline = BaselineFrequency
	}
	return &Store{
		entries:  make(map[string][]string),
		freqs:    make(map[string]int),
		trie:     patricia.NewTrie(),
		policy:   policy,
		baseline: baseline,
	}
}

func pairKey(word, key string) string {
	return key + "\x00" + word
}

// Load reads each source in priority order. A missing or unreadable source
// is skipped with a warning; the store keeps whatever loaded before it.
func (s *Store) Load(paths []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, path := range paths {
		if err := s.loadSource(path); err != nil {
			log.Warnf("Skipping dictionary source %s: %v", path, err)
			continue
		}
		s.stats.Sources++
	}
	log.Debugf("Dictionary loaded: %d keys, %d words from %d sources (%d lines skipped)",
		s.stats.Keys, s.stats.Words, s.stats.Sources, s.stats.SkippedLines)
	return nil
}

// loadSource parses one text source: a metadata block terminated by a
// "..." line, then one entry per line as surface<TAB>syllables[<TAB>freq].
func (s *Store) loadSource(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	inHeader := true
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if inHeader {
			if strings.TrimSpace(line) == headerDelimiter {
				inHeader = false
			}
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		word, key, freq, ok := parseLine(line, s.baseline)
		if !ok {
			s.stats.SkippedLines++
			log.Warnf("Malformed dictionary line in %s: %q", path, trimmed)
			continue
		}
		s.register(word, key, freq)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	if inHeader {
		return fmt.Errorf("no %q metadata delimiter found", headerDelimiter)
	}
	return nil
}

// parseLine splits a tab-separated entry line. The syllable column may
// contain spaces between syllables; the normalized key drops them.
func parseLine(line string, baseline int) (word, key string, freq int, ok bool) {
	parts := strings.Split(line, "\t")
	if len(parts) < 2 {
		return "", "", 0, false
	}
	word = strings.TrimSpace(parts[0])
	key = utils.NormalizeSyllables(strings.TrimSpace(parts[1]))
	if word == "" || !utils.IsSyllabic(key) {
		return "", "", 0, false
	}
	freq = baseline
	if len(parts) >= 3 {
		raw := strings.TrimSpace(parts[2])
		if raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				return "", "", 0, false
			}
			freq = n
		}
	}
	return word, key, freq, true
}

// Add registers a single (word, key, freq) entry, honoring the merge policy.
// The key is normalized. Intended for programmatic population and tests.
func (s *Store) Add(word, key string, freq int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.register(word, utils.NormalizeSyllables(key), freq)
}

// register assumes the write lock is held and the key is normalized.
func (s *Store) register(word, key string, freq int) {
	words, keyKnown := s.entries[key]
	pk := pairKey(word, key)
	_, pairKnown := s.freqs[pk]

	if !pairKnown {
		s.entries[key] = append(words, word)
		s.freqs[pk] = freq
		s.stats.Words++
		if !keyKnown {
			s.trie.Insert(patricia.Prefix(key), true)
			s.stats.Keys++
		}
		if freq > s.stats.MaxFrequency {
			s.stats.MaxFrequency = freq
		}
		return
	}
	if s.policy == LastWins {
		s.freqs[pk] = freq
		if freq > s.stats.MaxFrequency {
			s.stats.MaxFrequency = freq
		}
	}
}

// LookupExact returns the surface words registered for a key, in
// registration order. The returned slice is a copy.
func (s *Store) LookupExact(key string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	words := s.entries[key]
	if len(words) == 0 {
		return nil
	}
	out := make([]string, len(words))
	copy(out, words)
	return out
}

// Contains reports whether any word is registered under the key.
func (s *Store) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries[key]) > 0
}

// LookupPrefix returns every (word, key, freq) entry whose key starts with
// the given prefix, via a trie subtree visit. Order is key-ascending, then
// registration order within a key.
func (s *Store) LookupPrefix(prefix string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	err := s.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		keys = append(keys, string(p))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
		return nil
	}
	sort.Strings(keys)

	var out []Entry
	for _, key := range keys {
		for _, word := range s.entries[key] {
			out = append(out, Entry{Word: word, Key: key, Freq: s.freqs[pairKey(word, key)]})
		}
	}
	return out
}

// FrequencyOf returns the stored frequency for a (word, key) pair, or
// the store's baseline when the pair is unknown.
func (s *Store) FrequencyOf(word, key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if freq, ok := s.freqs[pairKey(word, key)]; ok {
		return freq
	}
	return s.baseline
}

// Len returns the number of distinct keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Stats returns load statistics.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}
