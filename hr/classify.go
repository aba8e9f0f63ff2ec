/*
classify.go - Vacation accrual classification

PURPOSE:
  Walks an employee's accrual history and answers the one question the
  registry table asks per row: where does this employee stand against the
  vacation deadline today?

THE WALK:
  Starting at the hire date, successive 12-month acquisitive windows are
  built ([start, start+1y-1d]). A window whose accrual end has passed is
  checked against its concessive deadline (accrual end + 1 year): vacation
  records starting inside the concessive range count toward the 30-day
  entitlement, and windows below 30 days are collected as pending. The walk
  stops at the first window whose accrual end is still ahead; that window
  is the current one and is never pending.

STATUS PRIORITY (first match wins):
  ON_VACATION > RISK_EXPIRING > PENDING/SCHEDULED > ACQUIRING > OK

RISK CHECK:
  Risk fires only when at least two windows are pending. Because each
  window closes exactly on the previous window's concessive deadline, the
  oldest pending deadline has always expired by the time a second window
  stacks up; the 90-day horizon is therefore measured against the most
  recently closed pending window, which is the one that still moves. The
  reported reference period and deadline stay on the oldest window, the
  one carrying the legal exposure.

FAILURE SEMANTICS:
  Classify never panics outward. A missing hire date returns the fixed
  "Admissão Inválida" error row; anything unexpected is recovered and
  surfaced as an ERROR row with the message, so a single bad record cannot
  take down the rendered table.
*/
package hr

import (
	"fmt"

	"github.com/vigia/fieldops/dates"
)

const (
	// FullEntitlementDays is the vacation entitlement earned per
	// acquisitive window.
	FullEntitlementDays = 30

	// RiskHorizonDays is how close a concessive deadline may get before a
	// stacked pending window is flagged as expiring.
	RiskHorizonDays = 90

	// maxWalkYearsPastToday bounds the window walk against malformed hire
	// dates (e.g. a hire date stored in the far future). Unreachable for
	// valid input: the walk always finds an open window first.
	maxWalkYearsPastToday = 2
)

// Labels surfaced to the renderer. The registry UI is Portuguese.
const (
	refInvalidHire  = "Admissão Inválida"
	labelError      = "Erro"
	labelPending    = "Pendente"
	labelAcquiring  = "Em Período Aquisitivo"
	labelOK         = "Em Dia"
	refNone         = "-"
	labelNoVacation = "Nenhuma registrada"
)

// pendingWindow is one closed acquisitive window still below the 30-day
// entitlement, ordered oldest first by construction.
type pendingWindow struct {
	window   dates.Period // [acquisition start, acquisition end]
	deadline dates.Date   // concessive deadline (acquisition end + 1 year)
	taken    int          // vacation days already scheduled against it
}

// Classify computes the vacation status of one employee from the full leave
// snapshot. today is injected so calls are deterministic; production callers
// pass dates.Today().
func Classify(emp Employee, leaves []LeaveRecord, today dates.Date) (result Classification) {
	defer func() {
		if r := recover(); r != nil {
			result = Classification{
				ReferencePeriod: refNone,
				Label:           fmt.Sprintf("%s: %v", labelError, r),
				Code:            StatusError,
			}
		}
	}()

	if emp.HireDate.IsZero() {
		return Classification{ReferencePeriod: refInvalidHire, Label: labelError, Code: StatusError}
	}

	mine := recordsFor(emp.ID, leaves)

	// Currently on vacation short-circuits everything else.
	for _, rec := range mine {
		if rec.Type == LeaveVacation && rec.Period().Contains(today) {
			return Classification{
				ReferencePeriod: rec.Period().FormatBR(),
				Label:           "Em Férias desde " + rec.Start.FormatBR(),
				Code:            StatusOnVacation,
			}
		}
	}

	pending, current := accrualWalk(emp.HireDate, mine, today)

	if len(pending) >= 2 {
		newest := pending[len(pending)-1]
		if today.AfterOrEqual(newest.deadline) || dates.DaysBetween(today, newest.deadline) <= RiskHorizonDays {
			oldest := pending[0]
			return Classification{
				ReferencePeriod: oldest.window.FormatBR(),
				Label:           "Férias Vencendo! Prazo: " + oldest.deadline.FormatBR(),
				Code:            StatusRiskExpiring,
			}
		}
	}

	if len(pending) > 0 {
		// Always the oldest unresolved window: the legal risk compounds
		// from the oldest outward, so later windows are never reported
		// ahead of it.
		oldest := pending[0]
		if oldest.taken == 0 {
			return Classification{
				ReferencePeriod: oldest.window.FormatBR(),
				Label:           labelPending,
				Code:            StatusPending,
			}
		}
		return Classification{
			ReferencePeriod: oldest.window.FormatBR(),
			Label:           fmt.Sprintf("Parcialmente Agendada (%d/%d)", oldest.taken, FullEntitlementDays),
			Code:            StatusScheduled,
		}
	}

	if current != nil && current.Contains(today) {
		return Classification{
			ReferencePeriod: current.FormatBR(),
			Label:           labelAcquiring,
			Code:            StatusAcquiring,
		}
	}

	return Classification{ReferencePeriod: refNone, Label: labelOK, Code: StatusOK}
}

// accrualWalk builds acquisitive windows forward from the hire date and
// collects the closed ones still below the full entitlement. It returns the
// pending windows oldest first, plus the current (not yet closed) window
// when the walk reaches one inside the safety bound.
func accrualWalk(hire dates.Date, recs []LeaveRecord, today dates.Date) ([]pendingWindow, *dates.Period) {
	var pending []pendingWindow

	bound := today.AddYears(maxWalkYearsPastToday)
	for start := hire; start.BeforeOrEqual(bound); start = start.AddYears(1) {
		end := start.AddYears(1).AddDays(-1)
		if today.Before(end) {
			current := dates.Period{Start: start, End: end}
			return pending, &current
		}

		deadline := end.AddYears(1)
		taken := vacationDaysTaken(recs, end, deadline)
		if taken < FullEntitlementDays {
			pending = append(pending, pendingWindow{
				window:   dates.Period{Start: start, End: end},
				deadline: deadline,
				taken:    taken,
			})
		}
	}
	return pending, nil
}

// vacationDaysTaken sums the days of vacation records whose start falls in
// the concessive range (accrualEnd, deadline]. Day counts are inclusive on
// both ends of each record.
func vacationDaysTaken(recs []LeaveRecord, accrualEnd, deadline dates.Date) int {
	total := 0
	for _, rec := range recs {
		if rec.Type != LeaveVacation {
			continue
		}
		if rec.Start.After(accrualEnd) && rec.Start.BeforeOrEqual(deadline) {
			total += rec.Days()
		}
	}
	return total
}

// recordsFor filters the snapshot down to one employee. Matching is by
// string equality on the identifier, mirroring the upstream store.
func recordsFor(employeeID string, leaves []LeaveRecord) []LeaveRecord {
	var out []LeaveRecord
	for _, rec := range leaves {
		if rec.EmployeeID == employeeID {
			out = append(out, rec)
		}
	}
	return out
}
