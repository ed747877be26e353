package monitor

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/wardrush/VandyTom2018/protocol"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id TEXT PRIMARY KEY,
	started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	firmware TEXT,
	period_us INTEGER
);
CREATE TABLE IF NOT EXISTS ticks (
	session_id TEXT NOT NULL,
	tick INTEGER NOT NULL,
	action INTEGER,
	a INTEGER,
	b INTEGER,
	emit_a INTEGER,
	emit_b INTEGER,
	throttle INTEGER,
	bias INTEGER,
	flags INTEGER,
	send_errors INTEGER,
	received_at TIMESTAMP,
	PRIMARY KEY (session_id, tick),
	FOREIGN KEY(session_id) REFERENCES sessions(session_id)
);
`

// Recorder stores telemetry in SQLite, one session per run
type Recorder struct {
	db      *sql.DB
	session string
	insert  *sql.Stmt
}

// OpenArchive opens or creates the database at path for reading sessions
func OpenArchive(path string) (*Recorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create schema")
	}
	return &Recorder{db: db}, nil
}

// OpenRecorder opens the database at path and starts a new session
func OpenRecorder(path string) (*Recorder, error) {
	r, err := OpenArchive(path)
	if err != nil {
		return nil, err
	}
	db := r.db

	r.session = uuid.New().String()
	if _, err := db.Exec("INSERT INTO sessions (session_id) VALUES (?)", r.session); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "start session")
	}

	r.insert, err = db.Prepare(`INSERT OR REPLACE INTO ticks
		(session_id, tick, action, a, b, emit_a, emit_b, throttle, bias, flags, send_errors, received_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "prepare insert")
	}
	return r, nil
}

// Session returns this run's session id, empty for an archive
func (r *Recorder) Session() string {
	return r.session
}

// LatestSession returns the most recently started session other than this
// recorder's own
func (r *Recorder) LatestSession() (string, error) {
	var id string
	err := r.db.QueryRow(`SELECT session_id FROM sessions WHERE session_id != ?
		ORDER BY started_at DESC, rowid DESC LIMIT 1`, r.session).Scan(&id)
	if err == sql.ErrNoRows {
		return "", errors.New("no recorded sessions")
	}
	return id, errors.Wrap(err, "find latest session")
}

// RecordBoot stores the firmware's boot announcement on the session
func (r *Recorder) RecordBoot(b protocol.Boot) error {
	_, err := r.db.Exec("UPDATE sessions SET firmware = ?, period_us = ? WHERE session_id = ?",
		b.Version, b.PeriodUS, r.session)
	return errors.Wrap(err, "record boot")
}

// RecordTick stores one tick. A repeated tick number (firmware reboot
// without a boot frame seen) overwrites the older row.
func (r *Recorder) RecordTick(t protocol.Telemetry, at time.Time) error {
	_, err := r.insert.Exec(r.session, t.Tick, t.Action, t.A, t.B, t.EmitA, t.EmitB,
		t.Throttle, t.Bias, t.Flags, t.SendErrors, at.UTC())
	return errors.Wrapf(err, "record tick %d", t.Tick)
}

// Ticks returns a session's ticks in order
func (r *Recorder) Ticks(session string) ([]protocol.Telemetry, error) {
	rows, err := r.db.Query(`SELECT tick, action, a, b, emit_a, emit_b, throttle, bias, flags, send_errors
		FROM ticks WHERE session_id = ? ORDER BY tick`, session)
	if err != nil {
		return nil, errors.Wrap(err, "query ticks")
	}
	defer rows.Close()

	var out []protocol.Telemetry
	for rows.Next() {
		var t protocol.Telemetry
		if err := rows.Scan(&t.Tick, &t.Action, &t.A, &t.B, &t.EmitA, &t.EmitB,
			&t.Throttle, &t.Bias, &t.Flags, &t.SendErrors); err != nil {
			return nil, errors.Wrap(err, "scan tick")
		}
		out = append(out, t)
	}
	return out, errors.Wrap(rows.Err(), "read ticks")
}

// Close releases the database
func (r *Recorder) Close() error {
	if r.insert != nil {
		r.insert.Close()
	}
	return r.db.Close()
}
