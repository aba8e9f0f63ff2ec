/*
Package hr implements the human-resources domain: the employee registry
shapes and the vacation accrual classifier.

PURPOSE:
  The centerpiece is Classify, which determines where each employee stands
  against Brazilian CLT-style vacation law: a 12-month acquisitive window
  earns 30 days of vacation, and the following 12-month concessive window
  is the legal deadline for taking them. The classifier is a pure function
  of (employee, leave snapshot, reference day) and is invoked once per row
  when the registry table renders.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee: registry record; a missing hire date is a terminal input error
  - LeaveRecord: one vacation or excused-absence entry (inclusive day range)
  - StatusCode / Classification: the machine-readable classifier output

DESIGN PRINCIPLES:
  1. Snapshot semantics: Classify never mutates its inputs
  2. Determinism: same inputs on the same day, same output
  3. Soft failure: malformed rows classify as ERROR instead of panicking,
     so one bad record cannot blank the whole table

SEE ALSO:
  - classify.go: the accrual-window walk
  - helpers.go: abonada counters and last-vacation lookup
*/
package hr

import "github.com/vigia/fieldops/dates"

// =============================================================================
// EMPLOYEE
// =============================================================================

type Employee struct {
	ID       string
	Name     string
	Role     string
	HireDate dates.Date // zero value = missing, classifies as ERROR
}

// =============================================================================
// LEAVE RECORD
// =============================================================================

type LeaveType string

const (
	// LeaveVacation is a scheduled vacation block.
	LeaveVacation LeaveType = "ferias"
	// LeaveAbonada is a single authorized day off ("abonada"). Upstream
	// registration forms create these with Start == End, but nothing here
	// assumes that; only the range semantics are used.
	LeaveAbonada LeaveType = "abonada"
)

type LeaveRecord struct {
	ID         string
	EmployeeID string
	Type       LeaveType
	Start      dates.Date
	End        dates.Date // inclusive
}

// Period returns the inclusive day range of the record.
func (r LeaveRecord) Period() dates.Period {
	return dates.Period{Start: r.Start, End: r.End}
}

// Days returns the inclusive day count (Start == End counts as 1).
func (r LeaveRecord) Days() int { return r.Period().Days() }

// =============================================================================
// CLASSIFICATION RESULT
// =============================================================================

type StatusCode string

const (
	StatusOnVacation   StatusCode = "ON_VACATION"   // today falls inside a vacation record
	StatusRiskExpiring StatusCode = "RISK_EXPIRING" // stacked unresolved windows nearing the legal deadline
	StatusPending      StatusCode = "PENDING"       // a closed window with zero days scheduled
	StatusScheduled    StatusCode = "SCHEDULED"     // a closed window with 1-29 days scheduled
	StatusAcquiring    StatusCode = "ACQUIRING"     // still inside the current acquisitive window
	StatusOK           StatusCode = "OK"            // fully compliant
	StatusError        StatusCode = "ERROR"         // malformed input or computation failure
)

// Classification is the classifier's sole output: a reference-period string,
// a human-readable label, and a machine-readable status code. Produced per
// call and consumed immediately by the renderer.
type Classification struct {
	ReferencePeriod string
	Label           string
	Code            StatusCode
}

// HighlightColor returns the table-row background for a status code, or ""
// for statuses that render without highlight.
func HighlightColor(c StatusCode) string {
	switch c {
	case StatusPending:
		return "#FFF3CD" // light amber
	case StatusScheduled:
		return "#CCE5FF" // light blue
	case StatusOnVacation:
		return "#D4EDDA" // light green
	case StatusRiskExpiring:
		return "#F8D7DA" // light red
	default:
		return ""
	}
}
