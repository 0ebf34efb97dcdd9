package portal

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/chromedp/chromedp"

	"github.com/veles/schedulebot/internal/browser"
)

const nextWeekArrowXPath = `//span[@class='fc-icon fc-icon-right-single-arrow']`

// Navigator moves the rendered calendar between weeks and tracks the offset
// explicitly, so "which week is shown" is data rather than hidden browser
// state.
type Navigator struct {
	sess   *browser.Session
	offset int
}

// NewNavigator binds a navigator to a live session showing the current week.
func NewNavigator(sess *browser.Session) *Navigator {
	return &Navigator{sess: sess}
}

// Offset returns how many weeks past the current one the calendar shows.
func (n *Navigator) Offset() int {
	return n.offset
}

// NextWeek advances the calendar one week forward, forces a reload and waits
// for it to re-render. Returns the new offset.
func (n *Navigator) NextWeek() (int, error) {
	err := n.sess.Run(renderTimeout,
		chromedp.Click(nextWeekArrowXPath, chromedp.BySearch),
		chromedp.Reload(),
	)
	if err != nil {
		return n.offset, fmt.Errorf("advance calendar: %w", err)
	}

	if err := n.sess.Run(renderTimeout, chromedp.WaitVisible(calendarMarker, chromedp.ByQuery)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return n.offset, fmt.Errorf("%w: calendar never re-rendered", ErrNavigationTimeout)
		}
		return n.offset, fmt.Errorf("wait for calendar after week switch: %w", err)
	}

	n.offset++
	log.Printf("portal: calendar now showing week +%d", n.offset)
	return n.offset, nil
}

// AdvanceTo moves the calendar forward until it shows the requested offset.
// Offsets behind the current one cannot be reached; the calendar only moves
// forward within one session.
func (n *Navigator) AdvanceTo(offset int) error {
	if offset < n.offset {
		return fmt.Errorf("cannot move calendar backwards from +%d to +%d", n.offset, offset)
	}
	for n.offset < offset {
		if _, err := n.NextWeek(); err != nil {
			return err
		}
	}
	return nil
}
