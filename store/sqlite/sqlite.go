/*
Package sqlite provides the SQLite-backed store for the whole dashboard.

PURPOSE:
  One store persists every entity the modules read and write: employees,
  leave records, complaints, field bulletins, the block registry, mural
  notices, operators and the activity log. Bulletin teams and notice
  participants keep their nested shape as JSON columns.

INTERFACES IMPLEMENTED:
  auth.UserStore: operator lookup for login
  audit.Log:      append-only activity log

KEY TABLES:
  employees      registry records (empty hire_date = missing; the
                 classifier surfaces those as error rows)
  leave_records  vacations and abonadas, cascade-deleted with the employee
  complaints     citizen reports with protocol and workflow status
  bulletins      one row per work day, teams/absences as JSON
  blocks         quarteirão registry with optional coordinates
  notices        mural entries
  users          dashboard operators (bcrypt hashes)
  audit_log      append-only activity log

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's single-writer
  model.

WAL MODE:
  Opened with WAL and foreign keys on; readers don't block the writer.

USAGE:
  store, err := sqlite.New("./data/fieldops.db")   // ":memory:" in tests
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - auth/auth.go: UserStore consumer
  - audit/audit.go: Log interface and filters
  - api/handlers.go: the only caller of the store in production
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vigia/fieldops/audit"
	"github.com/vigia/fieldops/auth"
	"github.com/vigia/fieldops/blocks"
	"github.com/vigia/fieldops/bulletin"
	"github.com/vigia/fieldops/complaints"
	"github.com/vigia/fieldops/dates"
	"github.com/vigia/fieldops/hr"
	"github.com/vigia/fieldops/notices"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Store persists every dashboard entity in a single SQLite database.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	_ auth.UserStore = (*Store)(nil)
	_ audit.Log      = (*Store)(nil)
)

// New opens (or creates) the database and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("abrindo banco: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrando schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id        TEXT PRIMARY KEY,
		name      TEXT NOT NULL,
		role      TEXT NOT NULL DEFAULT '',
		hire_date TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS leave_records (
		id          TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		type        TEXT NOT NULL,
		start_date  TEXT NOT NULL,
		end_date    TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_leave_employee ON leave_records(employee_id, start_date);

	CREATE TABLE IF NOT EXISTS complaints (
		id           TEXT PRIMARY KEY,
		protocol     TEXT NOT NULL UNIQUE,
		address      TEXT NOT NULL,
		neighborhood TEXT NOT NULL DEFAULT '',
		category     TEXT NOT NULL DEFAULT '',
		description  TEXT NOT NULL,
		status       TEXT NOT NULL,
		opened_at    TEXT NOT NULL,
		resolved_at  TEXT NOT NULL DEFAULT '',
		resolution   TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_complaints_status ON complaints(status, opened_at);

	CREATE TABLE IF NOT EXISTS bulletins (
		date               TEXT PRIMARY KEY,
		neighborhoods      TEXT NOT NULL DEFAULT '',
		general_activities TEXT NOT NULL DEFAULT '[]',
		drivers            TEXT NOT NULL DEFAULT '[]',
		morning_teams      TEXT NOT NULL DEFAULT '[]',
		afternoon_teams    TEXT NOT NULL DEFAULT '[]',
		morning_absence    TEXT NOT NULL DEFAULT '{}',
		afternoon_absence  TEXT NOT NULL DEFAULT '{}'
	);

	CREATE TABLE IF NOT EXISTS blocks (
		code     TEXT PRIMARY KEY,
		district TEXT NOT NULL DEFAULT '',
		lat      REAL,
		lon      REAL
	);

	CREATE TABLE IF NOT EXISTS notices (
		id           TEXT PRIMARY KEY,
		title        TEXT NOT NULL,
		type         TEXT NOT NULL,
		date         TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		participants TEXT NOT NULL DEFAULT '[]'
	);
	CREATE INDEX IF NOT EXISTS idx_notices_date ON notices(date);

	CREATE TABLE IF NOT EXISTS users (
		username      TEXT PRIMARY KEY,
		display_name  TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS audit_log (
		id      TEXT PRIMARY KEY,
		ts      TEXT NOT NULL,
		user    TEXT NOT NULL,
		action  TEXT NOT NULL,
		details TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_audit_ts ON audit_log(ts DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

type rowScanner interface{ Scan(dest ...any) error }

// =============================================================================
// EMPLOYEES
// =============================================================================

// SaveEmployee inserts or updates a registry record.
func (s *Store) SaveEmployee(ctx context.Context, e hr.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, name, role, hire_date) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, role=excluded.role,
			hire_date=excluded.hire_date`,
		e.ID, e.Name, e.Role, dateOrEmpty(e.HireDate))
	return err
}

// GetEmployee returns the record or (nil, nil) when unknown.
func (s *Store) GetEmployee(ctx context.Context, id string) (*hr.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, role, hire_date FROM employees WHERE id = ?`, id)
	e, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEmployees returns all records ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]hr.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, role, hire_date FROM employees ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []hr.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteEmployee removes the employee; leave records cascade.
// Returns sql.ErrNoRows when the id is unknown.
func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanEmployee(r rowScanner) (hr.Employee, error) {
	var e hr.Employee
	var hire string
	if err := r.Scan(&e.ID, &e.Name, &e.Role, &hire); err != nil {
		return hr.Employee{}, err
	}
	if hire != "" {
		d, err := dates.ParseISO(hire)
		if err != nil {
			return hr.Employee{}, fmt.Errorf("hire_date inválida para %s: %w", e.ID, err)
		}
		e.HireDate = d
	}
	return e, nil
}

// =============================================================================
// LEAVE RECORDS
// =============================================================================

func (s *Store) SaveLeave(ctx context.Context, rec hr.LeaveRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_records (id, employee_id, type, start_date, end_date)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET type=excluded.type,
			start_date=excluded.start_date, end_date=excluded.end_date`,
		rec.ID, rec.EmployeeID, string(rec.Type), rec.Start.String(), rec.End.String())
	return err
}

func (s *Store) GetLeave(ctx context.Context, id string) (*hr.LeaveRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, employee_id, type, start_date, end_date FROM leave_records WHERE id = ?`, id)
	rec, err := scanLeave(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListLeaves returns the full leave snapshot, the shape the classifier
// consumes.
func (s *Store) ListLeaves(ctx context.Context) ([]hr.LeaveRecord, error) {
	return s.queryLeaves(ctx,
		`SELECT id, employee_id, type, start_date, end_date FROM leave_records ORDER BY start_date`)
}

func (s *Store) ListLeavesByEmployee(ctx context.Context, employeeID string) ([]hr.LeaveRecord, error) {
	return s.queryLeaves(ctx,
		`SELECT id, employee_id, type, start_date, end_date FROM leave_records
		 WHERE employee_id = ? ORDER BY start_date`, employeeID)
}

func (s *Store) DeleteLeave(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM leave_records WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) queryLeaves(ctx context.Context, query string, args ...any) ([]hr.LeaveRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []hr.LeaveRecord
	for rows.Next() {
		rec, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanLeave(r rowScanner) (hr.LeaveRecord, error) {
	var rec hr.LeaveRecord
	var typ, start, end string
	if err := r.Scan(&rec.ID, &rec.EmployeeID, &typ, &start, &end); err != nil {
		return hr.LeaveRecord{}, err
	}
	rec.Type = hr.LeaveType(typ)
	var err error
	if rec.Start, err = dates.ParseISO(start); err != nil {
		return hr.LeaveRecord{}, err
	}
	if rec.End, err = dates.ParseISO(end); err != nil {
		return hr.LeaveRecord{}, err
	}
	return rec, nil
}

// =============================================================================
// COMPLAINTS
// =============================================================================

func (s *Store) SaveComplaint(ctx context.Context, c complaints.Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO complaints (id, protocol, address, neighborhood, category,
			description, status, opened_at, resolved_at, resolution)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET status=excluded.status,
			resolved_at=excluded.resolved_at, resolution=excluded.resolution`,
		c.ID, c.Protocol, c.Address, c.Neighborhood, c.Category,
		c.Description, string(c.Status), c.OpenedAt.String(),
		dateOrEmpty(c.ResolvedAt), c.Resolution)
	return err
}

func (s *Store) GetComplaint(ctx context.Context, id string) (*complaints.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, protocol, address, neighborhood, category, description,
		       status, opened_at, resolved_at, resolution
		FROM complaints WHERE id = ?`, id)
	c, err := scanComplaint(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListComplaints returns complaints newest first, optionally filtered by
// status (empty = all).
func (s *Store) ListComplaints(ctx context.Context, status complaints.Status) ([]complaints.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, protocol, address, neighborhood, category, description,
		       status, opened_at, resolved_at, resolution
		FROM complaints`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY opened_at DESC, protocol DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []complaints.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanComplaint(r rowScanner) (complaints.Complaint, error) {
	var c complaints.Complaint
	var status, opened, resolved string
	if err := r.Scan(&c.ID, &c.Protocol, &c.Address, &c.Neighborhood, &c.Category,
		&c.Description, &status, &opened, &resolved, &c.Resolution); err != nil {
		return complaints.Complaint{}, err
	}
	c.Status = complaints.Status(status)
	var err error
	if c.OpenedAt, err = dates.ParseISO(opened); err != nil {
		return complaints.Complaint{}, err
	}
	if resolved != "" {
		if c.ResolvedAt, err = dates.ParseISO(resolved); err != nil {
			return complaints.Complaint{}, err
		}
	}
	return c, nil
}

// =============================================================================
// BULLETINS
// =============================================================================

// SaveBulletin upserts the bulletin keyed by its date.
func (s *Store) SaveBulletin(ctx context.Context, b bulletin.Bulletin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acts, err := json.Marshal(orEmpty(b.GeneralActivities))
	if err != nil {
		return err
	}
	drivers, _ := json.Marshal(orEmpty(b.Drivers))
	morning, _ := json.Marshal(orEmptyTeams(b.MorningTeams))
	afternoon, _ := json.Marshal(orEmptyTeams(b.AfternoonTeams))
	mAbs, _ := json.Marshal(b.MorningAbsence)
	aAbs, _ := json.Marshal(b.AfternoonAbsence)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO bulletins (date, neighborhoods, general_activities, drivers,
			morning_teams, afternoon_teams, morning_absence, afternoon_absence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET neighborhoods=excluded.neighborhoods,
			general_activities=excluded.general_activities, drivers=excluded.drivers,
			morning_teams=excluded.morning_teams, afternoon_teams=excluded.afternoon_teams,
			morning_absence=excluded.morning_absence, afternoon_absence=excluded.afternoon_absence`,
		b.Date.String(), b.Neighborhoods, string(acts), string(drivers),
		string(morning), string(afternoon), string(mAbs), string(aAbs))
	return err
}

func (s *Store) GetBulletin(ctx context.Context, day dates.Date) (*bulletin.Bulletin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT date, neighborhoods, general_activities, drivers,
		       morning_teams, afternoon_teams, morning_absence, afternoon_absence
		FROM bulletins WHERE date = ?`, day.String())
	b, err := scanBulletin(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBulletins returns bulletins with dates inside [from, to], oldest
// first. A zero date leaves that side unbounded.
func (s *Store) ListBulletins(ctx context.Context, from, to dates.Date) ([]bulletin.Bulletin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT date, neighborhoods, general_activities, drivers,
		       morning_teams, afternoon_teams, morning_absence, afternoon_absence
		FROM bulletins WHERE 1=1`
	args := []any{}
	if !from.IsZero() {
		query += ` AND date >= ?`
		args = append(args, from.String())
	}
	if !to.IsZero() {
		query += ` AND date <= ?`
		args = append(args, to.String())
	}
	query += ` ORDER BY date`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []bulletin.Bulletin
	for rows.Next() {
		b, err := scanBulletin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBulletin(r rowScanner) (bulletin.Bulletin, error) {
	var b bulletin.Bulletin
	var day, acts, drivers, morning, afternoon, mAbs, aAbs string
	if err := r.Scan(&day, &b.Neighborhoods, &acts, &drivers, &morning, &afternoon, &mAbs, &aAbs); err != nil {
		return bulletin.Bulletin{}, err
	}
	var err error
	if b.Date, err = dates.ParseISO(day); err != nil {
		return bulletin.Bulletin{}, err
	}
	for _, col := range []struct {
		raw  string
		dest any
	}{
		{acts, &b.GeneralActivities},
		{drivers, &b.Drivers},
		{morning, &b.MorningTeams},
		{afternoon, &b.AfternoonTeams},
		{mAbs, &b.MorningAbsence},
		{aAbs, &b.AfternoonAbsence},
	} {
		if err := json.Unmarshal([]byte(col.raw), col.dest); err != nil {
			return bulletin.Bulletin{}, fmt.Errorf("boletim %s: %w", day, err)
		}
	}
	return b, nil
}

// =============================================================================
// BLOCKS
// =============================================================================

// SaveBlocks upserts the registry entries in one transaction; re-imports
// update existing codes in place.
func (s *Store) SaveBlocks(ctx context.Context, list []blocks.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO blocks (code, district, lat, lon) VALUES (?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET district=excluded.district,
			lat=excluded.lat, lon=excluded.lon`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, b := range list {
		var lat, lon any
		if b.HasCoords {
			lat, lon = b.Lat, b.Lon
		}
		if _, err := stmt.ExecContext(ctx, b.Code, b.District, lat, lon); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) ListBlocks(ctx context.Context) ([]blocks.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT code, district, lat, lon FROM blocks ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []blocks.Block
	for rows.Next() {
		var b blocks.Block
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&b.Code, &b.District, &lat, &lon); err != nil {
			return nil, err
		}
		if lat.Valid && lon.Valid {
			b.Lat, b.Lon, b.HasCoords = lat.Float64, lon.Float64, true
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// =============================================================================
// NOTICES
// =============================================================================

func (s *Store) SaveNotice(ctx context.Context, n notices.Notice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	participants, err := json.Marshal(orEmpty(n.Participants))
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO notices (id, title, type, date, description, participants)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title=excluded.title, type=excluded.type,
			date=excluded.date, description=excluded.description,
			participants=excluded.participants`,
		n.ID, n.Title, string(n.Type), n.Date.String(), n.Description, string(participants))
	return err
}

func (s *Store) GetNotice(ctx context.Context, id string) (*notices.Notice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, type, date, description, participants FROM notices WHERE id = ?`, id)
	n, err := scanNotice(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *Store) ListNotices(ctx context.Context) ([]notices.Notice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, type, date, description, participants FROM notices ORDER BY date, title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []notices.Notice
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) DeleteNotice(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM notices WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanNotice(r rowScanner) (notices.Notice, error) {
	var n notices.Notice
	var typ, day, participants string
	if err := r.Scan(&n.ID, &n.Title, &typ, &day, &n.Description, &participants); err != nil {
		return notices.Notice{}, err
	}
	n.Type = notices.Type(typ)
	var err error
	if n.Date, err = dates.ParseISO(day); err != nil {
		return notices.Notice{}, err
	}
	if err := json.Unmarshal([]byte(participants), &n.Participants); err != nil {
		return notices.Notice{}, err
	}
	return n, nil
}

// =============================================================================
// USERS (auth.UserStore)
// =============================================================================

func (s *Store) SaveUser(ctx context.Context, u auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, display_name, password_hash) VALUES (?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET display_name=excluded.display_name,
			password_hash=excluded.password_hash`,
		u.Username, u.DisplayName, u.PasswordHash)
	return err
}

// GetUser returns (nil, nil) when the username is unknown.
func (s *Store) GetUser(ctx context.Context, username string) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var u auth.User
	err := s.db.QueryRowContext(ctx,
		`SELECT username, display_name, password_hash FROM users WHERE username = ?`, username).
		Scan(&u.Username, &u.DisplayName, &u.PasswordHash)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CountUsers supports first-run seeding of the default operator.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// =============================================================================
// AUDIT LOG (audit.Log)
// =============================================================================

// Append persists one log entry. Append-only: no update or delete exists.
func (s *Store) Append(ctx context.Context, e audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, ts, user, action, details) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Timestamp.UTC().Format(timestampLayout), e.User, string(e.Action), e.Details)
	return err
}

// Query returns entries newest first, filtered in SQL. Limit caps the
// result (0 = no cap).
func (s *Store) Query(ctx context.Context, f audit.Filter) ([]audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, ts, user, action, details FROM audit_log WHERE 1=1`
	args := []any{}
	if f.User != "" {
		query += ` AND user = ?`
		args = append(args, f.User)
	}
	if len(f.Actions) > 0 {
		query += ` AND action IN (?` + strings.Repeat(",?", len(f.Actions)-1) + `)`
		for _, a := range f.Actions {
			args = append(args, string(a))
		}
	}
	query += ` ORDER BY ts DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []audit.Entry
	for rows.Next() {
		var e audit.Entry
		var ts, action string
		if err := rows.Scan(&e.ID, &ts, &e.User, &action, &e.Details); err != nil {
			return nil, err
		}
		e.Action = audit.Action(action)
		if e.Timestamp, err = time.Parse(timestampLayout, ts); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func dateOrEmpty(d dates.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orEmptyTeams(t []bulletin.Team) []bulletin.Team {
	if t == nil {
		return []bulletin.Team{}
	}
	return t
}
