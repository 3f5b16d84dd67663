package worldclock

import (
	"fmt"
	"strings"
)

// List is the user-ordered sequence of world clocks.
type List []Clock

// Add appends a clock and returns it.
func (l *List) Add(c Clock) Clock {
	*l = append(*l, c)
	return c
}

// Index returns the position of the clock with the given ID.
func (l List) Index(id string) int {
	for i, c := range l {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Lookup finds a clock by exact ID, unique ID prefix (at least four
// characters), or case-insensitive label.
func (l List) Lookup(ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, ErrNotFound
	}
	if i := l.Index(ref); i >= 0 {
		return i, nil
	}

	match := -1
	if len(ref) >= 4 {
		upper := strings.ToUpper(ref)
		for i, c := range l {
			if strings.HasPrefix(c.ID, upper) {
				if match >= 0 {
					return -1, fmt.Errorf("ambiguous id prefix %q", ref)
				}
				match = i
			}
		}
		if match >= 0 {
			return match, nil
		}
	}

	for i, c := range l {
		if strings.EqualFold(c.Label, ref) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrNotFound, ref)
}

// RemoveAt deletes the clock at index i.
func (l *List) RemoveAt(i int) (Clock, error) {
	if i < 0 || i >= len(*l) {
		return Clock{}, fmt.Errorf("remove %d: %w", i, ErrIndexOutOfRange)
	}
	removed := (*l)[i]
	*l = append((*l)[:i], (*l)[i+1:]...)
	return removed, nil
}

// Move relocates the clock at from so that it lands before the element that
// was at index to. to ranges over [0, len]; to == len moves to the end.
func (l *List) Move(from, to int) error {
	n := len(*l)
	if from < 0 || from >= n {
		return fmt.Errorf("move from %d: %w", from, ErrIndexOutOfRange)
	}
	if to < 0 || to > n {
		return fmt.Errorf("move to %d: %w", to, ErrIndexOutOfRange)
	}
	if to > from {
		to--
	}
	if to == from {
		return nil
	}
	c := (*l)[from]
	rest := append((*l)[:from:from], (*l)[from+1:]...)
	out := make(List, 0, n)
	out = append(out, rest[:to]...)
	out = append(out, c)
	out = append(out, rest[to:]...)
	*l = out
	return nil
}

// Update applies fn to the clock with the given ID in place. fn must not
// change the ID.
func (l List) Update(id string, fn func(*Clock)) error {
	i := l.Index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	fn(&l[i])
	l[i].ID = id
	return nil
}

// Visible returns the clocks marked for the summary line, in list order.
func (l List) Visible() List {
	var out List
	for _, c := range l {
		if c.ShowInMenuBar {
			out = append(out, c)
		}
	}
	return out
}
