// Copyright (c) 2025 The PKNet developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb persists the operation journal in sqlite. Every committed
// ledger operation appends one row; the journal is queryable but never read
// back by the ledger itself.
package eventdb

import (
	"database/sql"

	// registers the sqlite3 driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/pknet/pknet/pknet"
)

const schema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	ts INTEGER NOT NULL,
	name TEXT NOT NULL,
	user BLOB NOT NULL,
	amount INTEGER NOT NULL,
	detail TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS event_name ON event(name);
CREATE INDEX IF NOT EXISTS event_user ON event(user);`

// Event is one journal row. Time is unix seconds. Amount is stored in its
// signed 64-bit representation since sqlite integers are int64; Insert and
// Query round-trip the full uint64 range exactly, but raw SQL readers see
// amounts above 1<<63-1 as negative.
type Event struct {
	Time   int64
	Name   string
	User   pknet.Address
	Amount uint64
	Detail string
}

// Filter selects journal rows. Zero fields match everything; To of zero
// means no upper bound.
type Filter struct {
	Name  string
	User  *pknet.Address
	From  int64
	To    int64
	Limit int
}

// EventDB is the sqlite-backed operation journal.
type EventDB struct {
	path string
	db   *sql.DB
}

// New opens or creates the journal at path.
func New(path string) (*EventDB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal=wal")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &EventDB{path, db}, nil
}

// NewMem creates a journal in memory, for tests.
func NewMem() (*EventDB, error) {
	db, err := sql.Open("sqlite3", "file::memory:")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &EventDB{"", db}, nil
}

// Path returns the database file path, empty for in-memory journals.
func (e *EventDB) Path() string {
	return e.path
}

// Insert appends one event.
func (e *EventDB) Insert(ev *Event) error {
	_, err := e.db.Exec(
		"INSERT INTO event(ts, name, user, amount, detail) VALUES(?,?,?,?,?)",
		ev.Time, ev.Name, ev.User.Bytes(), int64(ev.Amount), ev.Detail,
	)
	return err
}

// Query returns events matching the filter in append order.
func (e *EventDB) Query(f *Filter) ([]*Event, error) {
	query := "SELECT ts, name, user, amount, detail FROM event WHERE 1=1"
	var args []any
	if f != nil {
		if f.Name != "" {
			query += " AND name = ?"
			args = append(args, f.Name)
		}
		if f.User != nil {
			query += " AND user = ?"
			args = append(args, f.User.Bytes())
		}
		if f.From > 0 {
			query += " AND ts >= ?"
			args = append(args, f.From)
		}
		if f.To > 0 {
			query += " AND ts <= ?"
			args = append(args, f.To)
		}
	}
	query += " ORDER BY seq"
	if f != nil && f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := e.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var (
			ev     Event
			user   []byte
			amount int64
		)
		if err := rows.Scan(&ev.Time, &ev.Name, &user, &amount, &ev.Detail); err != nil {
			return nil, err
		}
		ev.User = pknet.BytesToAddress(user)
		ev.Amount = uint64(amount)
		events = append(events, &ev)
	}
	return events, rows.Err()
}

// Close closes the journal.
func (e *EventDB) Close() error {
	return e.db.Close()
}
