package pinyin

import (
	"testing"

	"github.com/tabtab-ime/tabtab/pkg/dictionary"
)

func testStore(t *testing.T) *dictionary.Store {
	t.Helper()
	store := dictionary.NewStore(dictionary.FirstWins, 0)
	store.Add("你", "ni", 120)
	store.Add("好", "hao", 80)
	store.Add("吗", "ma", 40)
	store.Add("妈", "ma", 90)
	store.Add("你好", "nihao", 500)
	return store
}

func emptyCurated() *dictionary.CuratedTable {
	return dictionary.NewCuratedTable(nil)
}

func TestSegmentProducesAllDecompositions(t *testing.T) {
	seg := NewSegmenter(testStore(t), emptyCurated(), 0)

	results := seg.Segment("nihaoma")
	if len(results) < 2 {
		t.Fatalf("expected at least two decompositions of nihaoma, got %v", results)
	}

	phrases := make(map[string]int)
	for i, r := range results {
		phrases[r.Phrase] = i
		if r.Key != "nihaoma" {
			t.Errorf("segment %q consumed %q, want the full input", r.Phrase, r.Key)
		}
	}
	// 你好+吗/妈 and 你+好+吗/妈 must both be discovered.
	for _, want := range []string{"你好吗", "你好妈"} {
		if _, ok := phrases[want]; !ok {
			t.Errorf("decomposition %q not found in %v", want, results)
		}
	}

	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not sorted by score: %v", results)
		}
	}
	if results[0].Phrase != "你好妈" {
		t.Errorf("top decomposition = %q (score %d), want 你好妈", results[0].Phrase, results[0].Score)
	}
}

func TestSegmentTriesEverySubstringNotJustMaximal(t *testing.T) {
	store := dictionary.NewStore(dictionary.FirstWins, 0)
	store.Add("长词", "abcd", 10)
	store.Add("短", "ab", 400)
	store.Add("语", "cd", 400)
	seg := NewSegmenter(store, emptyCurated(), 0)

	results := seg.Segment("abcd")
	if len(results) != 2 {
		t.Fatalf("expected both the long match and the split, got %v", results)
	}
	// The combined shorter words outscore the single long match.
	if results[0].Phrase != "短语" {
		t.Errorf("top result = %q, want 短语", results[0].Phrase)
	}
}

func TestSegmentCuratedBonusDominatesFrequency(t *testing.T) {
	store := dictionary.NewStore(dictionary.FirstWins, 0)
	store.Add("你好", "nihao", 5)
	store.Add("拟好", "nihao", 99999)
	curated := dictionary.NewCuratedTable(map[string][]string{
		"nihao": {"你好"},
	})
	seg := NewSegmenter(store, curated, 0)

	results := seg.Segment("nihao")
	if len(results) == 0 || results[0].Phrase != "你好" {
		t.Fatalf("curated phrase did not outrank raw frequency: %v", results)
	}
}

func TestSegmentEmptyAndUnknownInput(t *testing.T) {
	seg := NewSegmenter(testStore(t), emptyCurated(), 0)

	if got := seg.Segment(""); got != nil {
		t.Errorf("Segment(\"\") = %v, want nil", got)
	}
	// No complete decomposition exists for a dangling prefix.
	if got := seg.Segment("nih"); got != nil {
		t.Errorf("Segment(nih) = %v, want nil", got)
	}
	if got := seg.Segment("xyz"); got != nil {
		t.Errorf("Segment(xyz) = %v, want nil", got)
	}
}

func TestSegmentCellCapBoundsResults(t *testing.T) {
	store := dictionary.NewStore(dictionary.FirstWins, 0)
	// Every single letter maps to two words: 2^4 = 16 full decompositions.
	for _, k := range []string{"a", "b", "c", "d"} {
		store.Add(k+"1", k, 10)
		store.Add(k+"2", k, 20)
	}
	seg := NewSegmenter(store, emptyCurated(), 4)

	results := seg.Segment("abcd")
	if len(results) != 4 {
		t.Fatalf("cell cap 4 retained %d results", len(results))
	}
	// The best path (all the high-frequency words) must survive eviction.
	if results[0].Phrase != "a2b2c2d2" {
		t.Errorf("best path evicted: top = %q", results[0].Phrase)
	}
}

func TestSegmentDeterministicTieBreak(t *testing.T) {
	store := dictionary.NewStore(dictionary.FirstWins, 0)
	store.Add("一", "yi", 50)
	store.Add("已", "yi", 50)
	seg := NewSegmenter(store, emptyCurated(), 0)

	first := seg.Segment("yi")
	for i := 0; i < 5; i++ {
		again := seg.Segment("yi")
		if len(again) != len(first) {
			t.Fatalf("non-deterministic result count")
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("non-deterministic order: run %d gave %v, first gave %v", i, again, first)
			}
		}
	}
	// Equal scores: registration order wins.
	if first[0].Phrase != "一" {
		t.Errorf("tie-break = %q, want first-registered 一", first[0].Phrase)
	}
}
