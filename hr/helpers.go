package hr

// Ficha helpers: small total functions over the same leave snapshot, used to
// enrich the employee detail view next to the classification. They tolerate
// empty snapshots and unknown employees by returning zero values.

import "github.com/vigia/fieldops/dates"

// AbonadasInYear counts an employee's excused-absence records whose start
// date falls in the given calendar year.
func AbonadasInYear(employeeID string, leaves []LeaveRecord, year int) int {
	n := 0
	for _, rec := range leaves {
		if rec.EmployeeID == employeeID && rec.Type == LeaveAbonada && rec.Start.Year() == year {
			n++
		}
	}
	return n
}

// AbonadaDatesInYear lists the formatted start dates of an employee's
// excused absences in the given calendar year, oldest first. Returns an
// empty slice when there are none.
func AbonadaDatesInYear(employeeID string, leaves []LeaveRecord, year int) []string {
	var recs []LeaveRecord
	for _, rec := range leaves {
		if rec.EmployeeID == employeeID && rec.Type == LeaveAbonada && rec.Start.Year() == year {
			recs = append(recs, rec)
		}
	}
	// Snapshot order is storage order; sort by start for stable display.
	for i := 1; i < len(recs); i++ {
		for j := i; j > 0 && recs[j].Start.Before(recs[j-1].Start); j-- {
			recs[j], recs[j-1] = recs[j-1], recs[j]
		}
	}
	out := make([]string, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.Start.FormatBR())
	}
	return out
}

// LastVacationStart returns the formatted start date of the employee's most
// recent vacation record, or the "none registered" sentinel when the
// employee has no vacation history.
func LastVacationStart(employeeID string, leaves []LeaveRecord) string {
	var latest dates.Date
	found := false
	for _, rec := range leaves {
		if rec.EmployeeID != employeeID || rec.Type != LeaveVacation {
			continue
		}
		if !found || rec.Start.After(latest) {
			latest = rec.Start
			found = true
		}
	}
	if !found {
		return labelNoVacation
	}
	return latest.FormatBR()
}
