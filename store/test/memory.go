// Package teststore provides an in-memory store driver for tests.
package teststore

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/tutorcal/tutorcal/server/availability"
)

// MemoryDriver keeps calendars in a map. Documents round-trip through JSON
// so the shape-tagging path of DayEntry is exercised the same way the SQL
// drivers exercise it.
type MemoryDriver struct {
	mu        sync.RWMutex
	calendars map[string][]byte

	// FailPing makes Ping return an error, for health-check tests.
	FailPing bool
}

// NewMemoryDriver creates an empty in-memory driver.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{calendars: make(map[string][]byte)}
}

// Seed stores a raw JSON calendar document, bypassing the typed encoder.
// Tests use it to plant legacy-shaped or malformed entries.
func (d *MemoryDriver) Seed(ownerID string, doc string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calendars[ownerID] = []byte(doc)
}

// GetAvailability implements store.Driver.
func (d *MemoryDriver) GetAvailability(_ context.Context, ownerID string) (*availability.Store, error) {
	d.mu.RLock()
	doc, ok := d.calendars[ownerID]
	d.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	calendar := &availability.Store{}
	if err := json.Unmarshal(doc, calendar); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal calendar")
	}
	if calendar.Entries == nil {
		calendar.Entries = make(map[string]*availability.DayEntry)
	}
	return calendar, nil
}

// UpsertAvailability implements store.Driver.
func (d *MemoryDriver) UpsertAvailability(_ context.Context, ownerID string, calendar *availability.Store) error {
	doc, err := json.Marshal(calendar)
	if err != nil {
		return errors.Wrap(err, "failed to marshal calendar")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calendars[ownerID] = doc
	return nil
}

// Ping implements store.Driver.
func (d *MemoryDriver) Ping(_ context.Context) error {
	if d.FailPing {
		return errors.New("ping failed")
	}
	return nil
}

// Close implements store.Driver.
func (d *MemoryDriver) Close() error {
	return nil
}
