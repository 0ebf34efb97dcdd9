// Package browser owns the headless Chrome session the portal is scraped
// through. A session is created lazily per fetch, used for the whole
// authenticate/navigate/extract sequence, and torn down right after.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	useragent "github.com/EDDYCJY/fake-useragent"
	"github.com/chromedp/chromedp"
)

// ErrSessionCreation is returned when the browser could not be started even
// after the retry.
var ErrSessionCreation = errors.New("browser session creation failed")

// creationRetryDelay is how long to wait before the single creation retry.
const creationRetryDelay = 2 * time.Second

// Config describes the Chrome profile the session runs under.
type Config struct {
	// UserDataDir is the Chrome user data directory holding the portal's
	// login cookies. Empty means a throwaway profile.
	UserDataDir string
	// ProfileDir is the profile directory name inside UserDataDir.
	ProfileDir string
	// ExecPath overrides the Chrome binary location.
	ExecPath string
	// Headless runs the browser without a display.
	Headless bool
}

// Session is a live headless Chrome tab. It is owned by exactly one fetch at
// a time and must be closed exactly once when the fetch is done.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	closeOnce   sync.Once
}

// Open starts a browser session. A transient start failure is retried exactly
// once after a short fixed delay; the second failure is wrapped in
// ErrSessionCreation and propagates.
func Open(ctx context.Context, cfg Config) (*Session, error) {
	s, err := open(ctx, cfg)
	if err == nil {
		return s, nil
	}

	log.Printf("browser start failed: %v (retrying in %v)", err, creationRetryDelay)
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrSessionCreation, ctx.Err())
	case <-time.After(creationRetryDelay):
	}

	s, err = open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionCreation, err)
	}
	return s, nil
}

func open(ctx context.Context, cfg Config) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(useragent.Random()),
	)
	if cfg.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(cfg.UserDataDir))
	}
	if cfg.ProfileDir != "" {
		opts = append(opts, chromedp.Flag("profile-directory", cfg.ProfileDir))
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// Running an empty action list forces the browser process to start, so
	// start failures surface here rather than on the first real step.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, err
	}

	return &Session{
		ctx:         tabCtx,
		cancel:      tabCancel,
		allocCancel: allocCancel,
	}, nil
}

// Run executes actions against the session's tab, bounded by timeout. A
// deadline hit surfaces as context.DeadlineExceeded for callers to classify.
func (s *Session) Run(timeout time.Duration, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

// HTML captures the rendered markup of the current page.
func (s *Session) HTML(timeout time.Duration) (string, error) {
	var markup string
	if err := s.Run(timeout, chromedp.OuterHTML("html", &markup, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("capture rendered markup: %w", err)
	}
	if markup == "" {
		return "", fmt.Errorf("empty markup returned")
	}
	return markup, nil
}

// Close tears the session down. It is safe to call more than once and safe
// to call on a session that never authenticated or whose browser process is
// already gone.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.allocCancel()
	})
}
