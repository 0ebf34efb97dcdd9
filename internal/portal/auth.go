// Package portal drives the university scheduling portal through a browser
// session: login, viewing another student's schedule, and week navigation.
// Selectors here are a contract with the live page, not with this package.
package portal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"github.com/veles/schedulebot/internal/browser"
)

// renderTimeout bounds every wait-for-render step.
const renderTimeout = 10 * time.Second

// probeTimeout bounds non-blocking presence checks after a wait timed out.
const probeTimeout = 3 * time.Second

const (
	loginInputSelector    = "#userNameInput"
	passwordInputSelector = "#passwordInput"
	submitButtonSelector  = "#submitButton"

	// calendarMarker is the "calendar finished rendering" signal.
	calendarMarker = ".fc-title"

	accountNameSelector = ".user-name.user-full-name.user-visible-name"

	filterButtonSelector = ".btn-filter.screen-only"
	filterClearSelector  = ".clear"
	multiSelectSelector  = ".p-multiselected-empty.ng-star-inserted"
	searchInputXPath     = `//input[contains(@class,'p-inputtext p-widget')]`
	searchOptionSelector = ".p-multiselect-item"
	applyButtonSelector  = ".btn.btn-apply"

	// studentFilterIndex is the position of the student multi-select within
	// the filter panel. Panel layout is a contract: the 7th control is the
	// student filter by design, not by coincidence.
	studentFilterIndex = 6
)

// Config carries the portal address and the service account credentials.
type Config struct {
	URL      string
	Login    string
	Password string
}

// Authenticator walks the portal's login and impersonation flows on one
// browser session.
type Authenticator struct {
	sess *browser.Session
	cfg  Config
}

// NewAuthenticator binds an authenticator to a live session.
func NewAuthenticator(sess *browser.Session, cfg Config) *Authenticator {
	return &Authenticator{sess: sess, cfg: cfg}
}

// Login navigates to the schedule page and authenticates with the service
// credentials. If the login form never appears because the profile is
// already authenticated, the call is a no-op and succeeds.
func (a *Authenticator) Login() error {
	err := a.sess.Run(renderTimeout,
		chromedp.Navigate(a.cfg.URL),
		chromedp.WaitVisible(loginInputSelector, chromedp.ByQuery),
	)
	if errors.Is(err, context.DeadlineExceeded) {
		// No login form. If the calendar is already there the stored
		// profile is still authenticated and there is nothing to do.
		if a.markerPresent() {
			log.Println("portal: session already authenticated, skipping login")
			return nil
		}
		return fmt.Errorf("%w: login form never rendered", ErrAuthTimeout)
	}
	if err != nil {
		return fmt.Errorf("open login form: %w", err)
	}

	err = a.sess.Run(renderTimeout,
		chromedp.SendKeys(loginInputSelector, a.cfg.Login, chromedp.ByQuery),
		chromedp.SendKeys(passwordInputSelector, a.cfg.Password, chromedp.ByQuery),
		chromedp.Click(submitButtonSelector, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("submit credentials: %w", err)
	}

	if err := a.sess.Run(renderTimeout, chromedp.WaitVisible(calendarMarker, chromedp.ByQuery)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: calendar never rendered after login", ErrAuthTimeout)
		}
		return fmt.Errorf("wait for calendar: %w", err)
	}
	return nil
}

// CurrentUser reads the full name the portal shows for the authenticated
// account.
func (a *Authenticator) CurrentUser() (string, error) {
	var name string
	if err := a.sess.Run(renderTimeout, chromedp.Text(accountNameSelector, &name, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read account name: %w", err)
	}
	return strings.TrimSpace(name), nil
}

// EnsureViewing makes the calendar show fullName's schedule. When the
// authenticated account already is that student, nothing happens; otherwise
// the student filter is driven to impersonate them.
func (a *Authenticator) EnsureViewing(fullName string) error {
	current, err := a.CurrentUser()
	if err != nil {
		return err
	}
	if current == fullName {
		return nil
	}

	log.Printf("portal: switching view from %q to %q", current, fullName)
	return a.impersonate(fullName)
}

// impersonate drives the filter panel: clear prior filters, open the student
// multi-select, type the target name, pick the exactly-matching option and
// apply.
func (a *Authenticator) impersonate(fullName string) error {
	err := a.sess.Run(renderTimeout,
		chromedp.Click(filterButtonSelector, chromedp.ByQuery),
		chromedp.Click(filterClearSelector, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("open filter panel: %w", err)
	}

	var selects []*cdp.Node
	err = a.sess.Run(renderTimeout,
		chromedp.Nodes(multiSelectSelector, &selects, chromedp.ByQueryAll),
	)
	if err != nil {
		return fmt.Errorf("locate filter controls: %w", err)
	}
	if len(selects) <= studentFilterIndex {
		return fmt.Errorf("filter panel has %d controls, student filter expects at least %d: %w",
			len(selects), studentFilterIndex+1, ErrRenderTimeout)
	}

	err = a.sess.Run(renderTimeout,
		chromedp.MouseClickNode(selects[studentFilterIndex]),
		chromedp.SendKeys(searchInputXPath, fullName, chromedp.BySearch),
	)
	if err != nil {
		return fmt.Errorf("type student name: %w", err)
	}

	optionXPath := fmt.Sprintf(`//div[text()='%s']`, fullName)
	err = a.sess.Run(renderTimeout, chromedp.WaitVisible(optionXPath, chromedp.BySearch))
	if errors.Is(err, context.DeadlineExceeded) {
		// An empty result list and a stuck render look the same from the
		// wait; telling them apart is what lets the chat layer say "check
		// the name" instead of "try again".
		if a.searchResultsEmpty() {
			return fmt.Errorf("%w: %s", ErrStudentNotFound, fullName)
		}
		return fmt.Errorf("%w: student option never rendered", ErrRenderTimeout)
	}
	if err != nil {
		return fmt.Errorf("wait for student option: %w", err)
	}

	err = a.sess.Run(renderTimeout,
		chromedp.Click(optionXPath, chromedp.BySearch),
		chromedp.Click(applyButtonSelector, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("apply student filter: %w", err)
	}

	if err := a.sess.Run(renderTimeout, chromedp.WaitVisible(calendarMarker, chromedp.ByQuery)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: calendar never re-rendered after filter apply", ErrRenderTimeout)
		}
		return fmt.Errorf("wait for filtered calendar: %w", err)
	}
	return nil
}

// markerPresent probes for the calendar marker without blocking on it.
func (a *Authenticator) markerPresent() bool {
	var nodes []*cdp.Node
	err := a.sess.Run(probeTimeout,
		chromedp.Nodes(calendarMarker, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)),
	)
	return err == nil && len(nodes) > 0
}

// searchResultsEmpty probes whether the impersonation search rendered its
// option list with zero entries.
func (a *Authenticator) searchResultsEmpty() bool {
	var nodes []*cdp.Node
	err := a.sess.Run(probeTimeout,
		chromedp.Nodes(searchOptionSelector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)),
	)
	return err == nil && len(nodes) == 0
}
