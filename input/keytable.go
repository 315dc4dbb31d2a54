package input

import "github.com/lixenwraith/keysound/soundbank"

// Rule describes how one input type resolves
// Category applies directly; ByData resolves on the event's character data,
// and a miss falls back to the preferred category
type Rule struct {
	Category soundbank.Category
	ByData   map[string]soundbank.Category
}

// keyTable is fixed at init and never written afterwards
var keyTable = map[InputType]Rule{
	InsertLineBreak:       {Category: CategoryEnter},
	DeleteContentForward:  {Category: CategoryBackspace},
	DeleteContentBackward: {Category: CategoryBackspace},
	InsertText: {ByData: map[string]soundbank.Category{
		" ": CategorySpace,
	}},
}

// Lookup returns the rule for t
func Lookup(t InputType) (Rule, bool) {
	r, ok := keyTable[t]
	return r, ok
}

// resolve applies the rule to data; ok is false when the rule has no match
func (r Rule) resolve(data string) (soundbank.Category, bool) {
	if r.ByData != nil {
		c, ok := r.ByData[data]
		return c, ok
	}
	return r.Category, r.Category != ""
}
