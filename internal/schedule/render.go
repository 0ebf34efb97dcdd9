package schedule

import "strings"

// RenderWeek formats a week as plain text blocks, one per non-empty day,
// suitable for sending as separate chat messages.
//
// Each block is "day:\n\n" followed by "time:\nsubject\nroom\n\n" per slot
// in chronological order. Empty days are omitted from the text even though
// the data model retains them. Block order follows the portal's rendered day
// order, not a canonical Monday-first order.
func RenderWeek(w Week) []string {
	var blocks []string
	for _, name := range w.Order {
		day := w.Days[name]
		if len(day) == 0 {
			continue
		}

		var b strings.Builder
		b.WriteString(name)
		b.WriteString(":\n\n")
		for _, t := range day.Times() {
			slot := day[t]
			b.WriteString(t)
			b.WriteString(":\n")
			b.WriteString(slot.Subject)
			b.WriteString("\n")
			b.WriteString(slot.Room)
			b.WriteString("\n\n")
		}
		blocks = append(blocks, b.String())
	}
	return blocks
}
