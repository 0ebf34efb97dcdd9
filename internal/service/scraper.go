package service

import (
	"context"
	"fmt"
	"time"

	"github.com/veles/schedulebot/internal/browser"
	"github.com/veles/schedulebot/internal/portal"
	"github.com/veles/schedulebot/internal/schedule"
)

// captureTimeout bounds the final markup capture.
const captureTimeout = 10 * time.Second

// PortalScraper is the production WeekScraper: one browser session per call,
// used for the whole authenticate, impersonate, navigate, extract sequence
// and closed before returning.
type PortalScraper struct {
	Browser browser.Config
	Portal  portal.Config
}

// NewPortalScraper builds a scraper from the browser and portal settings.
func NewPortalScraper(browserCfg browser.Config, portalCfg portal.Config) *PortalScraper {
	return &PortalScraper{Browser: browserCfg, Portal: portalCfg}
}

// ScrapeWeek drives the portal and extracts the rendered week.
func (p *PortalScraper) ScrapeWeek(ctx context.Context, student string, weekOffset int) (schedule.Week, error) {
	sess, err := browser.Open(ctx, p.Browser)
	if err != nil {
		return schedule.Week{}, err
	}
	defer sess.Close()

	auth := portal.NewAuthenticator(sess, p.Portal)
	if err := auth.Login(); err != nil {
		return schedule.Week{}, err
	}
	if err := auth.EnsureViewing(student); err != nil {
		return schedule.Week{}, err
	}

	if weekOffset > 0 {
		nav := portal.NewNavigator(sess)
		if err := nav.AdvanceTo(weekOffset); err != nil {
			return schedule.Week{}, err
		}
	}

	markup, err := sess.HTML(captureTimeout)
	if err != nil {
		return schedule.Week{}, err
	}

	week, err := schedule.ExtractWeek(markup)
	if err != nil {
		return schedule.Week{}, fmt.Errorf("extract week for %q: %w", student, err)
	}
	return week, nil
}
