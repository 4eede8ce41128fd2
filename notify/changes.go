package notify

import "golang.org/x/text/unicode/norm"

// ChangeEvent carries the set of tables changed by one write operation.
//
// Events are produced by the write side (for example store.Mutate) and
// consumed by any number of subscribers; they are immutable after
// publication.
type ChangeEvent struct {
	// Tables that changed. Never empty for a published event.
	Tables []string
}

// Affects reports whether the event's table set intersects watched.
// Both sides are expected to be NFC-normalized already (the Hub
// normalizes on entry).
func (e ChangeEvent) Affects(watched map[string]struct{}) bool {
	for _, t := range e.Tables {
		if _, ok := watched[t]; ok {
			return true
		}
	}
	return false
}

// normalizeTables returns an NFC-normalized copy of names.
func normalizeTables(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = norm.NFC.String(n)
	}
	return out
}

// normalizeSet returns an NFC-normalized set of names.
func normalizeSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[norm.NFC.String(n)] = struct{}{}
	}
	return set
}
