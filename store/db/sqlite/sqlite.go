// Package sqlite implements the availability store driver on SQLite via
// the CGo-free modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	// SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/tutorcal/tutorcal/internal/profile"
	"github.com/tutorcal/tutorcal/server/availability"
	"github.com/tutorcal/tutorcal/store"
)

const createTableStmt = `
CREATE TABLE IF NOT EXISTS availability (
	owner_id TEXT PRIMARY KEY,
	version INTEGER NOT NULL,
	entries TEXT NOT NULL,
	owner_profile TEXT
);
`

// DB is the SQLite implementation of store.Driver.
type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the database and ensures the schema exists.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	// WAL keeps concurrent readers unblocked while a calendar is saved.
	db, err := sql.Open("sqlite", profile.DSN+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	if _, err := db.Exec(createTableStmt); err != nil {
		return nil, errors.Wrap(err, "failed to create availability table")
	}

	return &DB{db: db, profile: profile}, nil
}

// GetAvailability implements store.Driver.
func (d *DB) GetAvailability(ctx context.Context, ownerID string) (*availability.Store, error) {
	var version int
	var entriesJSON string
	var profileJSON sql.NullString

	err := d.db.QueryRowContext(ctx,
		"SELECT version, entries, owner_profile FROM availability WHERE owner_id = ?",
		ownerID,
	).Scan(&version, &entriesJSON, &profileJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query availability")
	}

	return decodeCalendar(version, entriesJSON, profileJSON.String)
}

// UpsertAvailability implements store.Driver.
func (d *DB) UpsertAvailability(ctx context.Context, ownerID string, calendar *availability.Store) error {
	entriesJSON, profileJSON, err := encodeCalendar(calendar)
	if err != nil {
		return err
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO availability (owner_id, version, entries, owner_profile)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(owner_id) DO UPDATE SET
			version = excluded.version,
			entries = excluded.entries,
			owner_profile = excluded.owner_profile`,
		ownerID, calendar.Version, entriesJSON, profileJSON,
	)
	if err != nil {
		return errors.Wrap(err, "failed to upsert availability")
	}
	return nil
}

// Ping implements store.Driver.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Close implements store.Driver.
func (d *DB) Close() error {
	return d.db.Close()
}

func encodeCalendar(calendar *availability.Store) (entriesJSON string, profileJSON sql.NullString, err error) {
	entries, err := json.Marshal(calendar.Entries)
	if err != nil {
		return "", sql.NullString{}, errors.Wrap(err, "failed to marshal entries")
	}
	if calendar.OwnerProfile != nil {
		p, err := json.Marshal(calendar.OwnerProfile)
		if err != nil {
			return "", sql.NullString{}, errors.Wrap(err, "failed to marshal owner profile")
		}
		profileJSON = sql.NullString{String: string(p), Valid: true}
	}
	return string(entries), profileJSON, nil
}

func decodeCalendar(version int, entriesJSON, profileJSON string) (*availability.Store, error) {
	calendar := &availability.Store{
		Version: version,
		Entries: make(map[string]*availability.DayEntry),
	}
	if err := json.Unmarshal([]byte(entriesJSON), &calendar.Entries); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal entries")
	}
	if profileJSON != "" {
		calendar.OwnerProfile = &availability.OwnerProfile{}
		if err := json.Unmarshal([]byte(profileJSON), calendar.OwnerProfile); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal owner profile")
		}
	}
	return calendar, nil
}
