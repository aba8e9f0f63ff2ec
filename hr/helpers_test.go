package hr_test

import (
	"testing"
	"time"

	"github.com/vigia/fieldops/hr"
)

func TestAbonadasInYear(t *testing.T) {
	leaves := []hr.LeaveRecord{
		abonada("e1", date(2025, time.February, 3)),
		abonada("e1", date(2025, time.April, 14)),
		abonada("e1", date(2024, time.December, 20)), // previous year
		abonada("e2", date(2025, time.March, 1)),     // other employee
		vacation("e1", date(2025, time.January, 6), date(2025, time.January, 20)),
	}

	if got := hr.AbonadasInYear("e1", leaves, 2025); got != 2 {
		t.Errorf("AbonadasInYear(e1, 2025) = %d, want 2", got)
	}
	if got := hr.AbonadasInYear("e1", leaves, 2024); got != 1 {
		t.Errorf("AbonadasInYear(e1, 2024) = %d, want 1", got)
	}
}

func TestAbonadasHelpersAreTotal(t *testing.T) {
	// Empty snapshot and unknown employee both return zero values, never an
	// error or panic.
	if got := hr.AbonadasInYear("ghost", nil, 2025); got != 0 {
		t.Errorf("count on empty snapshot = %d, want 0", got)
	}
	if got := hr.AbonadaDatesInYear("ghost", nil, 2025); len(got) != 0 {
		t.Errorf("dates on empty snapshot = %v, want empty", got)
	}

	leaves := []hr.LeaveRecord{abonada("e1", date(2025, time.February, 3))}
	if got := hr.AbonadasInYear("e2", leaves, 2025); got != 0 {
		t.Errorf("count for absent employee = %d, want 0", got)
	}
}

func TestAbonadaDatesInYearSorted(t *testing.T) {
	leaves := []hr.LeaveRecord{
		abonada("e1", date(2025, time.April, 14)),
		abonada("e1", date(2025, time.February, 3)),
	}

	got := hr.AbonadaDatesInYear("e1", leaves, 2025)
	want := []string{"03/02/2025", "14/04/2025"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("dates[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLastVacationStart(t *testing.T) {
	leaves := []hr.LeaveRecord{
		vacation("e1", date(2023, time.July, 1), date(2023, time.July, 30)),
		vacation("e1", date(2024, time.August, 5), date(2024, time.August, 19)),
		vacation("e2", date(2025, time.January, 2), date(2025, time.January, 16)),
	}

	if got := hr.LastVacationStart("e1", leaves); got != "05/08/2024" {
		t.Errorf("LastVacationStart(e1) = %q, want 05/08/2024", got)
	}
	if got := hr.LastVacationStart("e3", leaves); got != "Nenhuma registrada" {
		t.Errorf("LastVacationStart(e3) = %q, want the none-registered sentinel", got)
	}
	if got := hr.LastVacationStart("e1", nil); got != "Nenhuma registrada" {
		t.Errorf("LastVacationStart on empty snapshot = %q, want sentinel", got)
	}
}
