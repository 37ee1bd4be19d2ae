package store

import (
	"context"
	"log/slog"

	apperrors "github.com/tutorcal/tutorcal/internal/errors"
	"github.com/tutorcal/tutorcal/internal/profile"
	"github.com/tutorcal/tutorcal/server/availability"
)

// Store provides database access to availability calendars.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		profile: profile,
		driver:  driver,
	}
}

// GetDriver returns the driver.
func (s *Store) GetDriver() Driver {
	return s.driver
}

// LoadAvailability loads one owner's calendar, returning an empty calendar
// at the current schema version when none is stored. The returned value is
// a snapshot owned by the caller; queries against it never see concurrent
// writes.
func (s *Store) LoadAvailability(ctx context.Context, ownerID string) (*availability.Store, error) {
	calendar, err := s.driver.GetAvailability(ctx, ownerID)
	if err != nil {
		return nil, apperrors.StoreUnavailable("failed to load calendar", err)
	}
	if calendar == nil {
		slog.Debug("no stored calendar, starting empty", slog.String("owner_id", ownerID))
		return availability.NewStore(), nil
	}
	if err := calendar.Validate(); err != nil {
		return nil, err
	}
	return calendar, nil
}

// SaveAvailability stores one owner's calendar.
func (s *Store) SaveAvailability(ctx context.Context, ownerID string, calendar *availability.Store) error {
	if err := calendar.Validate(); err != nil {
		return err
	}
	if err := s.driver.UpsertAvailability(ctx, ownerID, calendar); err != nil {
		return apperrors.StoreUnavailable("failed to save calendar", err)
	}
	return nil
}

// Ping checks the backend connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.driver.Ping(ctx)
}

// Close closes the underlying driver.
func (s *Store) Close() error {
	return s.driver.Close()
}
