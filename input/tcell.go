package input

import "github.com/gdamore/tcell/v2"

// FromTcell translates a terminal key press into a text-input event
// Keys that do not edit text (navigation, function keys, Alt chords) yield false
func FromTcell(ev *tcell.EventKey) (Event, bool) {
	if ev == nil {
		return Event{}, false
	}
	switch ev.Key() {
	case tcell.KeyRune:
		if ev.Modifiers()&tcell.ModAlt != 0 {
			return Event{}, false
		}
		return Event{Type: InsertText, Data: string(ev.Rune())}, true
	case tcell.KeyEnter:
		return Event{Type: InsertLineBreak}, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return Event{Type: DeleteContentBackward}, true
	case tcell.KeyDelete:
		return Event{Type: DeleteContentForward}, true
	case tcell.KeyTab:
		return Event{Type: InsertText, Data: "\t"}, true
	}
	return Event{}, false
}
