package snpset

import "sort"

// SetAttribute overwrites (or creates) a key/value attribute on the set.
// Mutating attributes does not invalidate the score cache (spec §3:
// mutation "preserves attributes unless explicitly cleared" — the
// converse also holds: attribute writes never touch the score cache).
func (s *Set) SetAttribute(key, value string) {
	if s.attrs == nil {
		s.attrs = make(map[string]string)
	}
	s.attrs[key] = value
}

// Attribute returns the value for key and whether it was present.
func (s Set) Attribute(key string) (string, bool) {
	if s.attrs == nil {
		return "", false
	}
	v, ok := s.attrs[key]
	return v, ok
}

// AttributeKeys returns the sorted attribute keys.
func (s Set) AttributeKeys() []string {
	keys := make([]string, 0, len(s.attrs))
	for k := range s.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ClearAttributes removes all attributes, leaving the score cache intact.
func (s *Set) ClearAttributes() {
	s.attrs = nil
}

// CachedScore returns the memoized score for model index idx and whether
// it was valid. idx must be in [0, maxModels).
func (s Set) CachedScore(idx int) (float64, bool) {
	if idx < 0 || idx >= maxModels {
		return 0, false
	}
	if s.scoreValid&(1<<uint(idx)) == 0 {
		return 0, false
	}
	return s.scores[idx], true
}

// SetCachedScore memoizes score for model index idx.
func (s *Set) SetCachedScore(idx int, score float64) {
	if idx < 0 || idx >= maxModels {
		return
	}
	s.scores[idx] = score
	s.scoreValid |= 1 << uint(idx)
}
