package dictionary

import (
	"github.com/charmbracelet/log"

	"github.com/tabtab-ime/tabtab/internal/utils"
)

// Curated bonus constants: a listed phrase always outranks any
// frequency-only match, with earlier positions preferred.
const (
	curatedBonusBase = 10000
	curatedBonusStep = 1000
)

// CuratedTable maps a romanized key to its manually preferred surface
// phrases, in preference order. Immutable after load.
type CuratedTable struct {
	phrases map[string][]string
}

// curatedFile is the TOML shape of a phrase table override:
//
//	[phrases]
//	nihao = ["你好", "您好"]
type curatedFile struct {
	Phrases map[string][]string `toml:"phrases"`
}

// defaultCurated is the built-in common-phrase table. An on-disk table
// extends or replaces individual keys without touching ranking logic.
var defaultCurated = map[string][]string{
	"ni":     {"你", "尼", "泥"},
	"hao":    {"好", "号", "毫"},
	"nihao":  {"你好"},
	"wo":     {"我", "窝"},
	"ta":     {"他", "她", "它"},
	"de":     {"的", "得", "地"},
	"shi":    {"是", "时", "十"},
	"zai":    {"在", "再"},
	"you":    {"有", "又", "右"},
	"le":     {"了", "乐"},
	"yi":     {"一", "已", "以"},
	"ge":     {"个", "格"},
	"ren":    {"人", "任"},
	"shang":  {"上", "商"},
	"xia":    {"下", "夏"},
	"zhong":  {"中", "重"},
	"guo":    {"国", "过"},
	"da":     {"大", "达"},
	"xiao":   {"小", "笑"},
	"shui":   {"水", "谁"},
}

// DefaultCurated returns the built-in phrase table.
func DefaultCurated() *CuratedTable {
	phrases := make(map[string][]string, len(defaultCurated))
	for key, words := range defaultCurated {
		cp := make([]string, len(words))
		copy(cp, words)
		phrases[key] = cp
	}
	return &CuratedTable{phrases: phrases}
}

// NewCuratedTable builds a table from the given mapping, normalizing keys.
func NewCuratedTable(phrases map[string][]string) *CuratedTable {
	table := &CuratedTable{phrases: make(map[string][]string, len(phrases))}
	for key, words := range phrases {
		norm := utils.NormalizeSyllables(key)
		if norm == "" || len(words) == 0 {
			continue
		}
		cp := make([]string, len(words))
		copy(cp, words)
		table.phrases[norm] = cp
	}
	return table
}

// LoadCuratedTable reads a TOML phrase table and overlays it on the
// built-in defaults. A missing or unparseable file degrades to defaults.
func LoadCuratedTable(path string) *CuratedTable {
	table := DefaultCurated()
	if path == "" {
		return table
	}
	var file curatedFile
	if err := utils.LoadTOMLFile(path, &file); err != nil {
		log.Warnf("Could not load phrase table %s: %v. Using built-in table.", path, err)
		return table
	}
	for key, words := range file.Phrases {
		norm := utils.NormalizeSyllables(key)
		if norm == "" || len(words) == 0 {
			continue
		}
		table.phrases[norm] = words
	}
	log.Debugf("Phrase table loaded from %s: %d keys", path, len(table.phrases))
	return table
}

// Words returns the preferred phrases for a key, or nil. The returned
// slice is a copy.
func (t *CuratedTable) Words(key string) []string {
	words := t.phrases[key]
	if len(words) == 0 {
		return nil
	}
	out := make([]string, len(words))
	copy(out, words)
	return out
}

// Bonus returns the ranking bonus for a (key, word) pair: large and
// position-decreasing when the pair is listed, zero otherwise.
func (t *CuratedTable) Bonus(key, word string) int {
	for i, w := range t.phrases[key] {
		if w == word {
			bonus := curatedBonusBase - i*curatedBonusStep
			if bonus < curatedBonusStep {
				bonus = curatedBonusStep
			}
			return bonus
		}
	}
	return 0
}

// Len returns the number of curated keys.
func (t *CuratedTable) Len() int {
	return len(t.phrases)
}
