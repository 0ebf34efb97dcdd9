// Package session tracks which student identity each chat is bound to.
package session

import (
	"sync"
	"time"
)

// Record is one chat's binding. FullName is empty until the user has sent a
// valid full name.
type Record struct {
	ChatID   int64
	FullName string
	BoundAt  time.Time
}

// Bound reports whether the chat has a student identity attached.
func (r Record) Bound() bool {
	return r.FullName != ""
}

// Registry owns all chat records. It replaces an ambient shared map with
// explicit create/lookup/replace operations and is safe for concurrent use
// by bot update handlers.
type Registry struct {
	mu      sync.RWMutex
	records map[int64]Record
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{records: make(map[int64]Record)}
}

// Create registers a chat if it is not known yet. It returns the record and
// whether it was newly created.
func (r *Registry) Create(chatID int64) (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.records[chatID]; ok {
		return rec, false
	}
	rec := Record{ChatID: chatID}
	r.records[chatID] = rec
	return rec, true
}

// Lookup returns the chat's record, if any.
func (r *Registry) Lookup(chatID int64) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[chatID]
	return rec, ok
}

// Bind attaches a student identity to the chat. The record is created if the
// chat skipped /start. Binding an already-bound chat is rejected; use
// Replace for that.
func (r *Registry) Bind(chatID int64, fullName string) (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := r.records[chatID]
	if rec.Bound() {
		return rec, false
	}
	rec = Record{ChatID: chatID, FullName: fullName, BoundAt: time.Now()}
	r.records[chatID] = rec
	return rec, true
}

// Replace overwrites the chat's binding unconditionally.
func (r *Registry) Replace(chatID int64, fullName string) Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := Record{ChatID: chatID, FullName: fullName, BoundAt: time.Now()}
	r.records[chatID] = rec
	return rec
}
