// Package service composes the browser, portal, extractor and store into the
// schedule facade the chat and REST layers call.
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/veles/schedulebot/internal/schedule"
	"github.com/veles/schedulebot/internal/store"
)

// WeekScraper produces one week's timetable for a student by driving the
// portal. The production implementation opens a fresh browser session per
// call; tests substitute a spy.
type WeekScraper interface {
	ScrapeWeek(ctx context.Context, student string, weekOffset int) (schedule.Week, error)
}

// Service answers "give me this student's week as text", scraping only when
// the store has no entry for the student/week.
type Service struct {
	store   store.ScheduleStore
	scraper WeekScraper
}

// New wires a service from its collaborators.
func New(st store.ScheduleStore, scraper WeekScraper) *Service {
	return &Service{store: st, scraper: scraper}
}

// decision is the explicit outcome of the cache check, instead of signalling
// "needs scrape" through an error.
type decision int

const (
	decisionCached decision = iota
	decisionNeedsScrape
)

// decide checks the store once and says whether a scrape is needed.
func (s *Service) decide(ctx context.Context, key store.Key) (decision, error) {
	cached, err := s.store.Has(ctx, key)
	if err != nil {
		return decisionNeedsScrape, err
	}
	if cached {
		return decisionCached, nil
	}
	return decisionNeedsScrape, nil
}

// FetchWeekText returns the student's week as rendered text blocks, one per
// non-empty day. A cached week is served without touching the portal;
// otherwise the week is scraped, stored, and then rendered from the store.
func (s *Service) FetchWeekText(ctx context.Context, student string, weekOffset int) ([]string, error) {
	key := store.Key{Student: student, WeekOffset: weekOffset}

	d, err := s.decide(ctx, key)
	if err != nil {
		return nil, err
	}

	if d == decisionNeedsScrape {
		start := time.Now()
		log.Printf("scraping week +%d for %q", weekOffset, student)

		week, err := s.scraper.ScrapeWeek(ctx, student, weekOffset)
		if err != nil {
			return nil, fmt.Errorf("scrape week for %q: %w", student, err)
		}
		if err := s.store.Put(ctx, key, week); err != nil {
			return nil, fmt.Errorf("cache week for %q: %w", student, err)
		}

		log.Printf("scraped week +%d for %q in %v (%d days)",
			weekOffset, student, time.Since(start).Round(time.Millisecond), len(week.Days))
	}

	week, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return schedule.RenderWeek(week), nil
}
