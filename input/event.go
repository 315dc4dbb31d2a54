// Package input turns raw text-input events into key categories.
//
// Events follow the text-input model: an input type names what happened
// (insertText, insertLineBreak, deleteContentBackward, ...) and optional
// character data carries the inserted text. Terminal key events are
// translated into the same model by FromTcell.
package input

import "github.com/lixenwraith/keysound/soundbank"

// InputType names the kind of edit an event performed
type InputType string

const (
	InsertText            InputType = "insertText"
	InsertLineBreak       InputType = "insertLineBreak"
	DeleteContentForward  InputType = "deleteContentForward"
	DeleteContentBackward InputType = "deleteContentBackward"
)

// Key categories produced by the rule table
const (
	CategoryEnter     soundbank.Category = "enter"
	CategoryBackspace soundbank.Category = "backspace"
	CategorySpace     soundbank.Category = "space"
)

// Event is a raw text-input event
// Data is empty when the event carries no character payload
type Event struct {
	Type InputType
	Data string
}
