package domain

import "path"

// NameFilter selects the managed set by include and exclude glob patterns.
// Patterns use shell glob syntax and match case-insensitively.
type NameFilter struct {
	Include []string
	Exclude []string
}

// Matches reports whether name is selected: it must match an include pattern (or there are
// none) and no exclude pattern.
func (f NameFilter) Matches(name string) bool {
	key := NameKey(name)
	if len(f.Include) > 0 && !anyMatch(f.Include, key) {
		return false
	}
	return !anyMatch(f.Exclude, key)
}

// Validate checks that every pattern is well formed.
func (f NameFilter) Validate() error {
	for _, p := range append(append([]string{}, f.Include...), f.Exclude...) {
		if _, err := path.Match(NameKey(p), ""); err != nil {
			return err
		}
	}
	return nil
}

func anyMatch(patterns []string, key string) bool {
	for _, p := range patterns {
		if ok, err := path.Match(NameKey(p), key); err == nil && ok {
			return true
		}
	}
	return false
}
