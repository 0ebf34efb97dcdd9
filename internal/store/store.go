package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/veles/schedulebot/internal/schedule"
)

// ErrNotFound is returned by Get when no schedule is cached for the key.
var ErrNotFound = errors.New("schedule not cached")

// ErrCorrupt is returned when the persisted store cannot be decoded. It is
// surfaced loudly rather than silently resetting the store, since a reset
// would erase every student's cached schedule.
var ErrCorrupt = errors.New("schedule store corrupt")

// Key identifies one cached week schedule. WeekOffset is the number of weeks
// past the current one (0 = current week), so "this week" and "next week"
// are distinct cache entries.
type Key struct {
	Student    string
	WeekOffset int
}

// String renders the key as the persisted top-level document key. Offset 0
// stays the bare full name so current-week entries keep the documented
// layout; later weeks get an explicit "|+N" suffix.
func (k Key) String() string {
	if k.WeekOffset == 0 {
		return k.Student
	}
	return fmt.Sprintf("%s|+%d", k.Student, k.WeekOffset)
}

// ScheduleStore is the persisted mapping from cache key to week schedule.
// Presence of a key means that week has been scraped and cached.
type ScheduleStore interface {
	// Has reports whether a schedule is cached for the key.
	Has(ctx context.Context, key Key) (bool, error)
	// Get returns the cached schedule or ErrNotFound.
	Get(ctx context.Context, key Key) (schedule.Week, error)
	// Put caches a schedule, overwriting any previous entry for the key.
	Put(ctx context.Context, key Key, week schedule.Week) error
	// Close releases the store's resources.
	Close() error
}
