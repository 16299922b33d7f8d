package lexicon

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/domain"
)

// Set holds the three phrase groups the heuristic pass matches against.
// Keys are category names, values the phrases that trigger them. Phrases are
// stored folded (NFKC, lower case, collapsed whitespace) and deduplicated.
type Set struct {
	Problems    map[string][]string
	Suggestions map[string][]string
	Mentions    map[string][]string
}

// Flags is the outcome of one Extract call.
type Flags struct {
	Problems    []domain.FlagMatch
	Suggestions []domain.FlagMatch
	Mentions    []string
}

// file is the on-disk shape, JSON or YAML.
type file struct {
	Problems    map[string][]string `json:"problems" yaml:"problems"`
	Suggestions map[string][]string `json:"suggestions" yaml:"suggestions"`
	Mentions    map[string][]string `json:"mentions" yaml:"mentions"`
}

// Load returns the built-in lexicons overlaid with the file at path, when
// given. A category present in the file replaces the built-in one of the same
// name; an explicitly empty phrase list removes it.
func Load(path string) (*Set, error) {
	s := Default()
	if path == "" {
		return s, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f file
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &f)
	default:
		err = json.Unmarshal(b, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("lexicon %s: %w", path, err)
	}
	s.merge(f)
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("lexicon %s: %w", path, err)
	}
	return s, nil
}

// Default returns the built-in lexicons.
func Default() *Set {
	s := &Set{
		Problems:    map[string][]string{},
		Suggestions: map[string][]string{},
		Mentions:    map[string][]string{},
	}
	s.merge(file{Problems: defaultProblems, Suggestions: defaultSuggestions, Mentions: defaultMentions})
	return s
}

func (s *Set) merge(f file) {
	mergeGroup(s.Problems, f.Problems)
	mergeGroup(s.Suggestions, f.Suggestions)
	mergeGroup(s.Mentions, f.Mentions)
}

func mergeGroup(dst map[string][]string, src map[string][]string) {
	for cat, phrases := range src {
		cat = fold(cat)
		if cat == "" {
			continue
		}
		cleaned := normalizePhrases(phrases)
		if len(cleaned) == 0 {
			delete(dst, cat)
			continue
		}
		dst[cat] = cleaned
	}
}

func normalizePhrases(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range in {
		p = fold(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Validate rejects sets that would silently match nothing.
func (s *Set) Validate() error {
	for name, g := range map[string]map[string][]string{
		"problems": s.Problems, "suggestions": s.Suggestions, "mentions": s.Mentions,
	} {
		if len(g) == 0 {
			return fmt.Errorf("group %q has no categories", name)
		}
		for cat, phrases := range g {
			if len(phrases) == 0 {
				return fmt.Errorf("group %q category %q has no phrases", name, cat)
			}
		}
	}
	return nil
}

// Extract matches text against all three groups. Equal text always yields
// equal flags; matching never depends on anything outside the Set.
func (s *Set) Extract(text string) Flags {
	t := fold(text)
	var f Flags
	if t == "" {
		return f
	}
	f.Problems = matchGroup(s.Problems, t)
	f.Suggestions = matchGroup(s.Suggestions, t)
	for cat, phrases := range s.Mentions {
		for _, p := range phrases {
			if phraseIn(t, p) {
				f.Mentions = append(f.Mentions, cat)
				break
			}
		}
	}
	sort.Strings(f.Mentions)
	return f
}

func matchGroup(group map[string][]string, t string) []domain.FlagMatch {
	var out []domain.FlagMatch
	for cat, phrases := range group {
		for _, p := range phrases {
			if phraseIn(t, p) {
				out = append(out, domain.FlagMatch{Category: cat, Phrase: p})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Phrase < out[j].Phrase
	})
	return out
}

// Categories lists the category names of a group, sorted. Used by the
// dashboard to offer filter choices.
func Categories(group map[string][]string) []string {
	out := make([]string, 0, len(group))
	for cat := range group {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}
