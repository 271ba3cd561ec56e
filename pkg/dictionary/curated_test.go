package dictionary

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCuratedBonusDecreasesWithPosition(t *testing.T) {
	table := NewCuratedTable(map[string][]string{
		"nihao": {"你好", "您好"},
	})

	cases := []struct {
		key   string
		word  string
		bonus int
	}{
		{"nihao", "你好", 10000},
		{"nihao", "您好", 9000},
		{"nihao", "逆号", 0}, // not curated
		{"zaijian", "再见", 0},
	}
	for _, tc := range cases {
		if got := table.Bonus(tc.key, tc.word); got != tc.bonus {
			t.Errorf("Bonus(%q, %q) = %d, want %d", tc.key, tc.word, got, tc.bonus)
		}
	}
}

func TestCuratedBonusNeverNonPositiveForListedPairs(t *testing.T) {
	words := make([]string, 15)
	for i := range words {
		words[i] = string(rune('a' + i))
	}
	table := NewCuratedTable(map[string][]string{"x": words})
	for _, w := range words {
		if table.Bonus("x", w) <= 0 {
			t.Fatalf("listed pair (x, %s) got non-positive bonus", w)
		}
	}
}

func TestLoadCuratedTableOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phrases.toml")
	body := "[phrases]\nnihao = [\"您好\", \"你好\"]\nzaijian = [\"再见\"]\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing phrase table: %v", err)
	}

	table := LoadCuratedTable(path)

	if words := table.Words("nihao"); len(words) != 2 || words[0] != "您好" {
		t.Errorf("override not applied: Words(nihao) = %v", words)
	}
	if words := table.Words("zaijian"); len(words) != 1 || words[0] != "再见" {
		t.Errorf("new key not added: Words(zaijian) = %v", words)
	}
	// Untouched defaults survive the overlay.
	if words := table.Words("wo"); len(words) == 0 {
		t.Errorf("default key lost after overlay")
	}
}

func TestLoadCuratedTableMissingFileFallsBack(t *testing.T) {
	table := LoadCuratedTable("/does/not/exist.toml")
	if table.Len() == 0 {
		t.Fatal("expected built-in table on load failure")
	}
	if words := table.Words("nihao"); len(words) == 0 || words[0] != "你好" {
		t.Errorf("built-in table missing nihao: %v", words)
	}
}
