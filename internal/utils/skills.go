package utils

import (
	"encoding/json"
	"strings"
)

// Skills are persisted as a single canonical representation: a JSON array
// of trimmed, non-empty strings ("[\"Go\",\"SQL\"]").  Normalization
// happens once at the storage boundary (on write, and in a one-time
// migration for legacy rows); readers only ever parse the canonical form.

// EncodeSkills serializes a skill list to its canonical stored form.
// Entries are trimmed and empties dropped; order is preserved.  An empty
// list encodes to "[]".
func EncodeSkills(skills []string) string {
	clean := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			clean = append(clean, s)
		}
	}
	b, _ := json.Marshal(clean)
	return string(b)
}

// DecodeSkills parses the canonical stored form back into a list.  Empty
// or missing values decode to an empty list.  Anything that is not a JSON
// array is reported as an error so that corruption surfaces instead of
// being silently reinterpreted.
func DecodeSkills(stored string) ([]string, error) {
	stored = strings.TrimSpace(stored)
	if stored == "" {
		return []string{}, nil
	}
	var skills []string
	if err := json.Unmarshal([]byte(stored), &skills); err != nil {
		return nil, err
	}
	if skills == nil {
		skills = []string{}
	}
	return skills, nil
}

// NormalizeLegacySkills converts a value of unknown provenance (JSON
// array, comma-delimited string, or single skill) to the canonical form.
// It exists for the schema migration that rewrites legacy rows; runtime
// code paths must not fall back to it.
func NormalizeLegacySkills(stored string) string {
	stored = strings.TrimSpace(stored)
	if stored == "" {
		return "[]"
	}
	if skills, err := DecodeSkills(stored); err == nil {
		return EncodeSkills(skills)
	}
	return EncodeSkills(strings.Split(stored, ","))
}

// HasSkill reports whether want matches any entry of the skill list,
// comparing whole tokens case-insensitively.  Matching token-by-token is
// what keeps a filter for "Java" from returning a mentor whose only skill
// is "JavaScript".
func HasSkill(skills []string, want string) bool {
	want = strings.TrimSpace(want)
	for _, s := range skills {
		if strings.EqualFold(strings.TrimSpace(s), want) {
			return true
		}
	}
	return false
}
