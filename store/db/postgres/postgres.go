// Package postgres implements the availability store driver on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	// PostgreSQL driver.
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/tutorcal/tutorcal/internal/profile"
	"github.com/tutorcal/tutorcal/server/availability"
	"github.com/tutorcal/tutorcal/store"
)

const createTableStmt = `
CREATE TABLE IF NOT EXISTS availability (
	owner_id TEXT PRIMARY KEY,
	version INTEGER NOT NULL,
	entries JSONB NOT NULL,
	owner_profile JSONB
);
`

// DB is the PostgreSQL implementation of store.Driver.
type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the database and ensures the schema exists.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	db, err := sql.Open("postgres", profile.DSN)
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
	var entriesJSON []byte
	var profileJSON []byte

	err := d.db.QueryRowContext(ctx,
		"SELECT version, entries, owner_profile FROM availability WHERE owner_id = $1",
		ownerID,
	).Scan(&version, &entriesJSON, &profileJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query availability")
	}

	calendar := &availability.Store{
		Version: version,
		Entries: make(map[string]*availability.DayEntry),
	}
	if err := json.Unmarshal(entriesJSON, &calendar.Entries); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal entries")
	}
	if len(profileJSON) > 0 {
		calendar.OwnerProfile = &availability.OwnerProfile{}
		if err := json.Unmarshal(profileJSON, calendar.OwnerProfile); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal owner profile")
		}
	}
	return calendar, nil
}

// UpsertAvailability implements store.Driver.
func (d *DB) UpsertAvailability(ctx context.Context, ownerID string, calendar *availability.Store) error {
	entriesJSON, err := json.Marshal(calendar.Entries)
	if err != nil {
		return errors.Wrap(err, "failed to marshal entries")
	}
	var profileJSON []byte
	if calendar.OwnerProfile != nil {
		profileJSON, err = json.Marshal(calendar.OwnerProfile)
		if err != nil {
			return errors.Wrap(err, "failed to marshal owner profile")
		}
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO availability (owner_id, version, entries, owner_profile)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id) DO UPDATE SET
			version = EXCLUDED.version,
			entries = EXCLUDED.entries,
			owner_profile = EXCLUDED.owner_profile`,
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
