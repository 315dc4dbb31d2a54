package input

import "github.com/lixenwraith/keysound/soundbank"

// Classify maps ev to a key category
// Returns false only for an event without an input type, which must not produce a sound.
// Unmapped characters, input types without a rule and categories missing from
// available all degrade to preferred
func Classify(ev Event, preferred soundbank.Category, available soundbank.CategorySet) (soundbank.Category, bool) {
	if ev.Type == "" {
		return "", false
	}

	rule, ok := keyTable[ev.Type]
	if !ok {
		return preferred, true
	}
	cat, ok := rule.resolve(ev.Data)
	if !ok || !available.Has(cat) {
		return preferred, true
	}
	return cat, true
}
