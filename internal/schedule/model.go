package schedule

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// NoData is the placeholder text used when the portal's markup is missing
// a subject, room or time label for a slot position.
const NoData = "Нет данных"

// timeLabelWidth is the width every time label is padded to. The portal
// renders labels like "09:00 - 10:30" (13 characters), so padding keeps
// lexical order equal to chronological order even for shorter labels.
const timeLabelWidth = 13

// Slot is one class period: what is taught and where.
type Slot struct {
	Subject string
	Room    string
}

// NoDataSlot is the sentinel slot for markup positions that were missing.
func NoDataSlot() Slot {
	return Slot{Subject: NoData, Room: NoData}
}

// MarshalJSON encodes a slot as the 2-element [subject, room] array used by
// the persisted store layout.
func (s Slot) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{s.Subject, s.Room})
}

// UnmarshalJSON decodes the [subject, room] array form.
func (s *Slot) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("slot must be a [subject, room] pair, got %d elements", len(pair))
	}
	s.Subject = pair[0]
	s.Room = pair[1]
	return nil
}

// Day maps a zero-padded time label to the slot taught at that time.
// An empty Day means the portal rendered the column with no classes.
type Day map[string]Slot

// Times returns the day's time labels in chronological order.
func (d Day) Times() []string {
	times := make([]string, 0, len(d))
	for t := range d {
		times = append(times, t)
	}
	sort.Strings(times)
	return times
}

// MarshalJSON encodes a day as an object keyed by time label, in
// chronological order.
func (d Day) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, t := range d.Times() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(d[t])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Week is a full scraped week: one Day per rendered day column, with Order
// preserving the portal's own column order (the portal's week-start
// convention, not necessarily Monday-first).
type Week struct {
	Days  map[string]Day
	Order []string
}

// NewWeek returns an empty week ready for SetDay calls.
func NewWeek() Week {
	return Week{Days: make(map[string]Day)}
}

// SetDay records a day under its portal-rendered name, keeping column order.
// Setting an already-present day overwrites it without duplicating the order
// entry.
func (w *Week) SetDay(name string, day Day) {
	if w.Days == nil {
		w.Days = make(map[string]Day)
	}
	if _, ok := w.Days[name]; !ok {
		w.Order = append(w.Order, name)
	}
	w.Days[name] = day
}

// MarshalJSON encodes the week as an object keyed by day name, in portal
// column order, matching the persisted store layout.
func (w Week) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range w.Order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(w.Days[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the persisted object form, recovering day order from
// the order keys appear in the document.
func (w *Week) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("week must be an object keyed by day name")
	}

	*w = NewWeek()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("day name must be a string, got %v", tok)
		}

		var day Day
		if err := dec.Decode(&day); err != nil {
			return fmt.Errorf("day %q: %w", name, err)
		}
		w.SetDay(name, day)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// padTime left-pads a time label with zeros to the fixed width so lexical
// sort order matches chronological order.
func padTime(label string) string {
	n := utf8.RuneCountInString(label)
	if n >= timeLabelWidth {
		return label
	}
	return strings.Repeat("0", timeLabelWidth-n) + label
}
