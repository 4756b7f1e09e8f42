package style

import (
	"slices"
	"strings"
)

// Entry is a single key=value pair. An empty Value renders as a bare flag.
type Entry struct {
	Key   string
	Value string
}

// Style is an ordered set of style entries.
//
// The zero value is an empty style ready for use. Style is a value type in
// the sense that [Parse] and [Style.Clone] never share backing storage with
// their input.
type Style struct {
	entries []Entry
}

// Parse splits a style string into its entries.
// Each segment is split on its first '='; a segment without '=' becomes a
// bare flag. Empty segments are skipped. A repeated key keeps its first
// position and its last value.
func Parse(s string) Style {
	var st Style
	for _, seg := range strings.Split(s, ";") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		key, value, _ := strings.Cut(seg, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		st.Set(key, value)
	}
	return st
}

// FromMap builds a style from an unordered mapping. Keys are emitted in
// sorted order so the result is deterministic.
func FromMap(m map[string]string) Style {
	keys := make([]string, 0, len(m))
	for k := range m {
		if k != "" {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	st := Style{entries: make([]Entry, 0, len(keys))}
	for _, k := range keys {
		st.entries = append(st.entries, Entry{Key: k, Value: m[k]})
	}
	return st
}

// String renders the style as "key=value;" pairs in insertion order, with
// bare "key;" for flags.
func (s Style) String() string {
	var b strings.Builder
	for _, e := range s.entries {
		b.WriteString(e.Key)
		if e.Value != "" {
			b.WriteByte('=')
			b.WriteString(e.Value)
		}
		b.WriteByte(';')
	}
	return b.String()
}

// Get returns the value stored for key.
func (s Style) Get(key string) (string, bool) {
	if i := s.index(key); i >= 0 {
		return s.entries[i].Value, true
	}
	return "", false
}

// Has reports whether key is present, as a flag or with a value.
func (s Style) Has(key string) bool { return s.index(key) >= 0 }

// Set stores value under key. An existing key is updated in place; a new
// key is appended.
func (s *Style) Set(key, value string) {
	if i := s.index(key); i >= 0 {
		s.entries[i].Value = value
		return
	}
	s.entries = append(s.entries, Entry{Key: key, Value: value})
}

// Delete removes key if present.
func (s *Style) Delete(key string) {
	if i := s.index(key); i >= 0 {
		s.entries = slices.Delete(s.entries, i, i+1)
	}
}

// Len returns the number of entries.
func (s Style) Len() int { return len(s.entries) }

// Entries returns a copy of the entries in order.
func (s Style) Entries() []Entry { return slices.Clone(s.entries) }

// Map returns the entries as an unordered mapping.
func (s Style) Map() map[string]string {
	m := make(map[string]string, len(s.entries))
	for _, e := range s.entries {
		m[e.Key] = e.Value
	}
	return m
}

// Clone returns an independent copy.
func (s Style) Clone() Style { return Style{entries: slices.Clone(s.entries)} }

// Equal reports whether both styles hold the same key/value set, ignoring
// order.
func (s Style) Equal(other Style) bool {
	if len(s.entries) != len(other.entries) {
		return false
	}
	for _, e := range s.entries {
		v, ok := other.Get(e.Key)
		if !ok || v != e.Value {
			return false
		}
	}
	return true
}

// Layer copies every entry of top onto s, overwriting shared keys.
func (s *Style) Layer(top Style) {
	for _, e := range top.entries {
		s.Set(e.Key, e.Value)
	}
}

func (s Style) index(key string) int {
	for i, e := range s.entries {
		if e.Key == key {
			return i
		}
	}
	return -1
}

// Merge parses style, applies the keys present in o and re-serializes.
// Keys absent from o are left untouched.
func Merge(style string, o Overrides) string {
	st := Parse(style)
	o.Apply(&st)
	return st.String()
}
