/*
Package audit records who did what in the dashboard.

PURPOSE:
  Every mutating action (login, leave registration, bulletin edits,
  complaint transitions) appends an entry. The log is append-only: there
  is no update or delete, corrections are new entries.

SEE ALSO:
  - store/sqlite: the persistent implementation
  - api/handlers.go: where entries are appended
*/
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionLogin             Action = "login"
	ActionLogout            Action = "logout"
	ActionEmployeeCreated   Action = "employee_created"
	ActionEmployeeUpdated   Action = "employee_updated"
	ActionEmployeeDeleted   Action = "employee_deleted"
	ActionLeaveRegistered   Action = "leave_registered"
	ActionLeaveUpdated      Action = "leave_updated"
	ActionLeaveDeleted      Action = "leave_deleted"
	ActionComplaintOpened   Action = "complaint_opened"
	ActionComplaintMoved    Action = "complaint_status_changed"
	ActionBulletinCreated   Action = "bulletin_created"
	ActionBulletinUpdated   Action = "bulletin_updated"
	ActionNoticeCreated     Action = "notice_created"
	ActionNoticeUpdated     Action = "notice_updated"
	ActionNoticeDeleted     Action = "notice_deleted"
	ActionBlocksImported    Action = "blocks_imported"
)

// Entry is one log line.
type Entry struct {
	ID        string
	Timestamp time.Time
	User      string
	Action    Action
	Details   string
}

// NewEntry stamps an entry with an identifier and the wall clock.
func NewEntry(user string, action Action, details string) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		User:      user,
		Action:    action,
		Details:   details,
	}
}

// Filter narrows a log query. Zero values mean "no constraint".
type Filter struct {
	User    string
	Actions []Action
	Limit   int
}

// Matches applies the in-memory part of the filter.
func (f Filter) Matches(e Entry) bool {
	if f.User != "" && e.User != f.User {
		return false
	}
	if len(f.Actions) > 0 {
		found := false
		for _, a := range f.Actions {
			if e.Action == a {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Log stores entries. Append-only.
type Log interface {
	Append(ctx context.Context, e Entry) error
	Query(ctx context.Context, f Filter) ([]Entry, error)
}
