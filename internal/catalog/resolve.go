package catalog

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// ErrNoCurrentVariant reports that the variant a selection starts from is not
// part of the offer.
var ErrNoCurrentVariant = errors.New("current variant not found in offer")

// ResolveVariant picks the variant to display after the shopper changes one
// attribute axis. It first looks for a variant matching the current
// attributes with changedKey swapped to newValue. When no such combination
// exists it falls back to the first variant in offer order that carries
// newValue on the changed axis, so the change the shopper made always wins
// over the axes they left alone. If not even that exists the current variant
// stays selected.
func ResolveVariant(variants []Variant, currentID int, changedKey, newValue string) (Variant, error) {
	current, ok := lo.Find(variants, func(v Variant) bool { return v.ID == currentID })
	if !ok {
		return Variant{}, fmt.Errorf("%w: id %d", ErrNoCurrentVariant, currentID)
	}

	want := make(map[string]string, len(current.Attributes))
	for key, value := range current.Attributes {
		want[key] = value
	}
	want[changedKey] = newValue

	for _, v := range variants {
		if matchesAll(v, want) {
			return v, nil
		}
	}
	for _, v := range variants {
		if v.Attributes[changedKey] == newValue {
			return v, nil
		}
	}
	return current, nil
}

// matchesAll reports whether the variant carries every wanted attribute.
// Attributes the variant defines beyond the wanted set do not disqualify it.
func matchesAll(v Variant, want map[string]string) bool {
	for key, value := range want {
		if v.Attributes[key] != value {
			return false
		}
	}
	return true
}
