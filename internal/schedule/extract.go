package schedule

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selectors into the portal's rendered calendar. These are a contract with
// the live page: the calendar widget renders one .fc-content-col per day,
// with title, room and time texts as parallel node lists inside each column.
const (
	dayHeaderSelector = ".fc-day-header span"
	dayColumnSelector = ".fc-content-col"
	titleSelector     = ".fc-title"
	roomSelector      = "small"
	timeSelector      = ".fc-time span"
)

// ExtractWeek parses rendered calendar markup into a week timetable.
//
// Day columns are read positionally: column 0 pairs with the first day
// header, and so on. Within a column the title, room and time node lists are
// zipped by index; when the lists disagree in length the shorter ones are
// padded with the NoData sentinel so every position still yields a slot.
// This is best effort: misaligned DOM ordering produces misaligned pairings
// silently. Columns with zero slots are kept as empty days so callers can
// tell "no classes" from "not scraped".
func ExtractWeek(markup string) (Week, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return Week{}, fmt.Errorf("parse calendar markup: %w", err)
	}

	days := selectionTexts(doc.Find(dayHeaderSelector))
	if len(days) == 0 {
		return Week{}, fmt.Errorf("no day headers found in calendar markup")
	}

	columns := doc.Find(dayColumnSelector)

	week := NewWeek()
	for i, name := range days {
		week.SetDay(name, extractDay(columns.Eq(i)))
	}
	return week, nil
}

// extractDay zips the column's title, room and time texts into slots.
func extractDay(col *goquery.Selection) Day {
	titles := selectionTexts(col.Find(titleSelector))
	rooms := selectionTexts(col.Find(roomSelector))
	times := selectionTexts(col.Find(timeSelector))

	n := len(titles)
	if len(rooms) > n {
		n = len(rooms)
	}
	if len(times) > n {
		n = len(times)
	}

	day := Day{}
	for i := 0; i < n; i++ {
		key := padTime(textAt(times, i))
		if _, ok := day[key]; ok {
			// Duplicate time labels are not expected; first wins.
			continue
		}
		day[key] = Slot{
			Subject: textAt(titles, i),
			Room:    textAt(rooms, i),
		}
	}
	return day
}

// textAt returns the i-th text or the NoData sentinel past the end.
func textAt(texts []string, i int) string {
	if i < len(texts) {
		return texts[i]
	}
	return NoData
}

func selectionTexts(sel *goquery.Selection) []string {
	var texts []string
	sel.Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(s.Text()))
	})
	return texts
}
