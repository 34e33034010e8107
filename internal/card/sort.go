package card

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortKey names the Record field the list is ordered by.
type SortKey string

const (
	SortByName  SortKey = "name"
	SortBySet   SortKey = "set"
	SortByCost  SortKey = "cost"
	SortByPower SortKey = "power"
)

// DefaultSortKey is used when no key has been chosen.
const DefaultSortKey = SortByName

// sortField describes one sortable field. Adding a key means adding an
// entry here; everything else picks it up from the table.
type sortField struct {
	key     SortKey
	label   string
	compare func(a, b Record) int
}

var sortFields = []sortField{
	{SortByName, "Name", func(a, b Record) int { return cmp.Compare(a.Name, b.Name) }},
	{SortBySet, "Set", func(a, b Record) int { return cmp.Compare(a.Set, b.Set) }},
	{SortByCost, "Cost", func(a, b Record) int { return cmp.Compare(a.Cost, b.Cost) }},
	{SortByPower, "Power", func(a, b Record) int { return cmp.Compare(a.Power, b.Power) }},
}

func lookupSortField(key SortKey) (sortField, bool) {
	for _, f := range sortFields {
		if f.key == key {
			return f, true
		}
	}
	return sortField{}, false
}

// SortKeys returns the sortable keys in display order.
func SortKeys() []SortKey {
	keys := make([]SortKey, len(sortFields))
	for i, f := range sortFields {
		keys[i] = f.key
	}
	return keys
}

// ParseSortKey accepts a key name case-insensitively.
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := lookupSortField(key); !ok {
		return "", fmt.Errorf("unknown sort key %q (want one of %v)", s, SortKeys())
	}
	return key, nil
}

// Valid reports whether k is a known sort key.
func (k SortKey) Valid() bool {
	_, ok := lookupSortField(k)
	return ok
}

// Label is the button text for the key, e.g. "Cost".
func (k SortKey) Label() string {
	if f, ok := lookupSortField(k); ok {
		return f.label
	}
	return string(k)
}

// Compare orders a and b by key. Unknown keys order by name.
// Absent fields compare as their zero value, so the ordering is total.
func Compare(a, b Record, key SortKey) int {
	f, ok := lookupSortField(key)
	if !ok {
		f, _ = lookupSortField(DefaultSortKey)
	}
	return f.compare(a, b)
}

// Sort orders records ascending by key, in place. The sort is stable, so
// sorting twice by the same key leaves the order unchanged.
func Sort(records []Record, key SortKey) {
	slices.SortStableFunc(records, func(a, b Record) int {
		return Compare(a, b, key)
	})
}

// Sorted returns a sorted copy and leaves records untouched.
func Sorted(records []Record, key SortKey) []Record {
	out := slices.Clone(records)
	if out == nil {
		out = []Record{}
	}
	Sort(out, key)
	return out
}
