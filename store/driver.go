// Package store wraps the persistence collaborator for availability
// calendars. The core query path only ever reads through it; mutation and
// persistence of migrated entries are caller decisions.
package store

import (
	"context"

	"github.com/tutorcal/tutorcal/server/availability"
)

// Driver is the interface a persistence backend implements. A calendar is
// stored and loaded as one versioned document per owner; legacy-shaped
// entries inside the document survive loading verbatim and are migrated on
// read by the availability package.
type Driver interface {
	// GetAvailability loads one owner's calendar. It returns (nil, nil)
	// when the owner has no stored calendar yet.
	GetAvailability(ctx context.Context, ownerID string) (*availability.Store, error)

	// UpsertAvailability stores one owner's calendar, replacing any
	// previous document.
	UpsertAvailability(ctx context.Context, ownerID string, calendar *availability.Store) error

	// Ping checks backend connectivity.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
