package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tutorcal/tutorcal/internal/errors"
	"github.com/tutorcal/tutorcal/internal/profile"
	"github.com/tutorcal/tutorcal/server/availability"
	"github.com/tutorcal/tutorcal/store"
	teststore "github.com/tutorcal/tutorcal/store/test"
)

func newTestStore(driver *teststore.MemoryDriver) *store.Store {
	return store.New(driver, &profile.Profile{Mode: "dev"})
}

func TestLoadAvailabilityDefaultsToEmptyCalendar(t *testing.T) {
	st := newTestStore(teststore.NewMemoryDriver())

	calendar, err := st.LoadAvailability(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, availability.CurrentVersion, calendar.Version)
	assert.Empty(t, calendar.Entries)
}

func TestLoadAvailabilityDecodesLegacyShapes(t *testing.T) {
	driver := teststore.NewMemoryDriver()
	driver.Seed("owner-1", `{
		"version": 1,
		"entries": {
			"2026-02-02": {"morningBlocked": true, "eveningBlocked": false},
			"2026-02-03": true,
			"2026-02-04": {"slots": {"10:00": true}}
		}
	}`)
	st := newTestStore(driver)

	calendar, err := st.LoadAvailability(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, calendar.Entries, 3)
	assert.Equal(t, availability.KindHalfDay, calendar.Entry("2026-02-02").Kind)
	assert.Equal(t, availability.KindFullDay, calendar.Entry("2026-02-03").Kind)
	assert.Equal(t, availability.KindCanonical, calendar.Entry("2026-02-04").Kind)
}

func TestSaveAndReloadPreservesLegacyEntries(t *testing.T) {
	driver := teststore.NewMemoryDriver()
	driver.Seed("owner-1", `{"version":1,"entries":{"2026-02-02":{"morningBlocked":true,"eveningBlocked":false}}}`)
	st := newTestStore(driver)

	ctx := context.Background()
	calendar, err := st.LoadAvailability(ctx, "owner-1")
	require.NoError(t, err)

	// Saving without migrating keeps the legacy entry in its stored shape.
	require.NoError(t, st.SaveAvailability(ctx, "owner-1", calendar))

	reloaded, err := st.LoadAvailability(ctx, "owner-1")
	require.NoError(t, err)
	entry := reloaded.Entry("2026-02-02")
	require.NotNil(t, entry)
	assert.Equal(t, availability.KindHalfDay, entry.Kind)
	assert.True(t, entry.HalfDay.MorningBlocked)
}

func TestLoadAvailabilityRejectsUnknownVersion(t *testing.T) {
	driver := teststore.NewMemoryDriver()
	driver.Seed("owner-1", `{"version":99,"entries":{}}`)
	st := newTestStore(driver)

	_, err := st.LoadAvailability(context.Background(), "owner-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeUnknownVersion))
}

func TestSaveAvailabilityRejectsInvalidCalendar(t *testing.T) {
	st := newTestStore(teststore.NewMemoryDriver())

	calendar := availability.NewStore()
	calendar.Version = 42
	err := st.SaveAvailability(context.Background(), "owner-1", calendar)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeUnknownVersion))
}

func TestPing(t *testing.T) {
	driver := teststore.NewMemoryDriver()
	st := newTestStore(driver)
	require.NoError(t, st.Ping(context.Background()))

	driver.FailPing = true
	assert.Error(t, st.Ping(context.Background()))
}
