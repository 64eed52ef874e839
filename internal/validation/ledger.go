package validation

import "sort"

// Ledger maps a field path to its current error message. A missing or
// empty entry means the field is valid.
type Ledger map[string]string

// Set replaces the entry for field. An empty message clears it.
func (l Ledger) Set(field, msg string) {
	if msg == "" {
		delete(l, field)
		return
	}
	l[field] = msg
}

// Error returns the message for field, or "".
func (l Ledger) Error(field string) string {
	return l[field]
}

// Any reports whether the ledger holds any message.
func (l Ledger) Any() bool {
	for _, msg := range l {
		if msg != "" {
			return true
		}
	}
	return false
}

// HasErrors reports whether any of fields has a message.
func (l Ledger) HasErrors(fields ...string) bool {
	for _, f := range fields {
		if l[f] != "" {
			return true
		}
	}
	return false
}

// Clear removes every entry.
func (l Ledger) Clear() {
	for k := range l {
		delete(l, k)
	}
}

// Merge copies every non-empty entry of other into l.
func (l Ledger) Merge(other Ledger) {
	for k, v := range other {
		l.Set(k, v)
	}
}

// Fields returns the fields with a message, sorted.
func (l Ledger) Fields() []string {
	out := make([]string, 0, len(l))
	for k, v := range l {
		if v != "" {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Copy returns an independent copy.
func (l Ledger) Copy() Ledger {
	out := make(Ledger, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}
