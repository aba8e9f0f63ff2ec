package notices_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vigia/fieldops/dates"
	"github.com/vigia/fieldops/hr"
	"github.com/vigia/fieldops/notices"
)

func date(y int, m time.Month, d int) dates.Date { return dates.New(y, m, d) }

func TestNewNotice(t *testing.T) {
	n, err := notices.New("Reunião de equipe", notices.TypeMeeting, date(2025, time.June, 5), "", []string{"Ana Lima"})
	if err != nil {
		t.Fatal(err)
	}
	if len(n.Participants) != 1 {
		t.Errorf("meeting should keep participants: %+v", n)
	}

	n, err = notices.New("Feriado antecipado", notices.TypeNotice, date(2025, time.June, 5), "", []string{"Ana Lima"})
	if err != nil {
		t.Fatal(err)
	}
	if len(n.Participants) != 0 {
		t.Errorf("plain notice should drop participants: %+v", n)
	}

	if _, err := notices.New("   ", notices.TypeNotice, date(2025, time.June, 5), "", nil); !errors.Is(err, notices.ErrMissingTitle) {
		t.Errorf("blank title: err = %v", err)
	}
}

func TestBuildFeed(t *testing.T) {
	employees := []hr.Employee{
		{ID: "e1", Name: "Ana Carolina Lima", HireDate: date(2020, time.January, 1)},
	}
	leaves := []hr.LeaveRecord{
		{EmployeeID: "e1", Type: hr.LeaveVacation, Start: date(2025, time.June, 2), End: date(2025, time.June, 16)},
		{EmployeeID: "e1", Type: hr.LeaveAbonada, Start: date(2025, time.June, 20), End: date(2025, time.June, 20)},
		{EmployeeID: "ghost", Type: hr.LeaveAbonada, Start: date(2025, time.June, 21), End: date(2025, time.June, 21)},
	}
	n, _ := notices.New("Capacitação ADL", notices.TypeCourse, date(2025, time.June, 10), "", nil)

	feed := notices.BuildFeed([]notices.Notice{n}, leaves, employees)

	// Orphan leave is skipped: 2 leave events + 1 notice.
	if len(feed) != 3 {
		t.Fatalf("feed = %d events, want 3 (%+v)", len(feed), feed)
	}

	// Sorted by start date.
	if feed[0].Title != "AUSÊNCIA: Ana Lima (Férias)" {
		t.Errorf("first event = %+v", feed[0])
	}
	// Calendar end dates are exclusive.
	if feed[0].End != "2025-06-17" {
		t.Errorf("vacation end = %s, want 2025-06-17", feed[0].End)
	}
	if feed[1].Title != "CURSO: Capacitação ADL" {
		t.Errorf("second event = %+v", feed[1])
	}
	if feed[0].Color == feed[2].Color {
		t.Error("vacation and abonada should use distinct colors")
	}
}

func TestBuildFeedEmpty(t *testing.T) {
	if feed := notices.BuildFeed(nil, nil, nil); len(feed) != 0 {
		t.Errorf("empty feed = %+v", feed)
	}
}

func TestOnDay(t *testing.T) {
	day := date(2025, time.June, 5)
	b, _ := notices.New("B evento", notices.TypeNotice, day, "", nil)
	a, _ := notices.New("A evento", notices.TypeNotice, day, "", nil)
	other, _ := notices.New("Outro dia", notices.TypeNotice, day.AddDays(1), "", nil)

	got := notices.OnDay([]notices.Notice{b, other, a}, day)
	if len(got) != 2 || got[0].Title != "A evento" {
		t.Errorf("OnDay = %+v", got)
	}
}
