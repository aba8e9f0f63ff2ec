package dates_test

import (
	"testing"
	"time"

	"github.com/vigia/fieldops/dates"
)

func date(y int, m time.Month, d int) dates.Date { return dates.New(y, m, d) }

func TestDaysBetween(t *testing.T) {
	cases := []struct {
		name string
		a, b dates.Date
		want int
	}{
		{"same day", date(2024, time.March, 10), date(2024, time.March, 10), 0},
		{"next day", date(2024, time.March, 10), date(2024, time.March, 11), 1},
		{"across leap day", date(2024, time.February, 28), date(2024, time.March, 1), 2},
		{"reversed", date(2024, time.March, 11), date(2024, time.March, 10), -1},
		{"full year", date(2023, time.January, 1), date(2024, time.January, 1), 365},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := dates.DaysBetween(c.a, c.b); got != c.want {
				t.Errorf("DaysBetween(%s, %s) = %d, want %d", c.a, c.b, got, c.want)
			}
		})
	}
}

func TestPeriodDaysIsInclusive(t *testing.T) {
	// A single-day period spans 1 day, not 0. Leave records rely on this.
	p := dates.Period{Start: date(2024, time.June, 1), End: date(2024, time.June, 1)}
	if got := p.Days(); got != 1 {
		t.Errorf("single-day period Days() = %d, want 1", got)
	}

	p = dates.Period{Start: date(2024, time.June, 1), End: date(2024, time.June, 30)}
	if got := p.Days(); got != 30 {
		t.Errorf("30-day period Days() = %d, want 30", got)
	}
}

func TestPeriodContains(t *testing.T) {
	p := dates.Period{Start: date(2024, time.June, 1), End: date(2024, time.June, 10)}

	if !p.Contains(date(2024, time.June, 1)) || !p.Contains(date(2024, time.June, 10)) {
		t.Error("period should contain both endpoints")
	}
	if p.Contains(date(2024, time.May, 31)) || p.Contains(date(2024, time.June, 11)) {
		t.Error("period should not contain days outside the range")
	}
}

func TestAddYearsAnniversary(t *testing.T) {
	// Accrual windows anchor on the hire date anniversary.
	hire := date(2021, time.January, 1)
	end := hire.AddYears(1).AddDays(-1)
	if end != date(2021, time.December, 31) {
		t.Errorf("first window end = %s, want 2021-12-31", end)
	}
}

func TestFormatBR(t *testing.T) {
	if got := date(2021, time.January, 1).FormatBR(); got != "01/01/2021" {
		t.Errorf("FormatBR = %q, want 01/01/2021", got)
	}
	p := dates.Period{Start: date(2021, time.January, 1), End: date(2021, time.December, 31)}
	if got := p.FormatBR(); got != "01/01/2021 a 31/12/2021" {
		t.Errorf("Period.FormatBR = %q", got)
	}
}

func TestParseISO(t *testing.T) {
	d, err := dates.ParseISO("2023-05-01")
	if err != nil {
		t.Fatalf("ParseISO: %v", err)
	}
	if d != date(2023, time.May, 1) {
		t.Errorf("ParseISO = %s", d)
	}

	if _, err := dates.ParseISO("01/05/2023"); err == nil {
		t.Error("expected error for BR-formatted input")
	}
}

func TestZeroDate(t *testing.T) {
	var d dates.Date
	if !d.IsZero() {
		t.Error("zero value should report IsZero")
	}
}
