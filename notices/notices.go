/*
Package notices implements the mural: dated announcements, meetings and
courses, plus the combined calendar feed that also overlays HR absences.

PURPOSE:
  The control-panel calendar shows everything happening on a given day:
  mural events colored by type and employee absences (vacation in red,
  abonadas in salmon). The feed builder is pure so the calendar can be
  rendered from any snapshot.
*/
package notices

import (
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/vigia/fieldops/bulletin"
	"github.com/vigia/fieldops/dates"
	"github.com/vigia/fieldops/hr"
)

type Type string

const (
	TypeNotice      Type = "Aviso"
	TypeAppointment Type = "Compromisso"
	TypeMeeting     Type = "Reunião"
	TypeCourse      Type = "Curso"
	TypeEducational Type = "Educativa"
)

// Types that carry a participant list.
func HasParticipants(t Type) bool {
	return t == TypeMeeting || t == TypeCourse || t == TypeEducational
}

var ErrMissingTitle = errors.New("evento sem título")

// Notice is one mural entry.
type Notice struct {
	ID           string
	Title        string
	Type         Type
	Date         dates.Date
	Description  string
	Participants []string
}

// New validates and builds a mural entry. Participants are kept only for
// the types that use them.
func New(title string, typ Type, day dates.Date, description string, participants []string) (Notice, error) {
	if strings.TrimSpace(title) == "" {
		return Notice{}, ErrMissingTitle
	}
	if typ == "" {
		typ = TypeNotice
	}
	n := Notice{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(title),
		Type:        typ,
		Date:        day,
		Description: strings.TrimSpace(description),
	}
	if HasParticipants(typ) {
		n.Participants = participants
	}
	return n, nil
}

// =============================================================================
// CALENDAR FEED
// =============================================================================

// Event is one calendar entry in the shape the calendar widget consumes.
// End is exclusive, so single-day entries span [date, date+1).
type Event struct {
	Title string `json:"title"`
	Start string `json:"start"`
	End   string `json:"end"`
	Color string `json:"color"`
}

const (
	colorVacation = "#FF4B4B"
	colorAbsence  = "#FFA07A"
	colorDefault  = "#6C757D"
)

var typeColors = map[Type]string{
	TypeNotice:      "#FFC107",
	TypeAppointment: "#28A745",
	TypeMeeting:     "#007BFF",
	TypeCourse:      "#6F42C1",
	TypeEducational: "#FD7E14",
}

// BuildFeed merges mural notices and leave records into calendar events,
// sorted by start date then title. Leave entries label the employee's short
// name and the leave kind; the exclusive end date adds one day, matching
// the widget's range convention.
func BuildFeed(ns []Notice, leaves []hr.LeaveRecord, employees []hr.Employee) []Event {
	nameByID := make(map[string]string, len(employees))
	for _, e := range employees {
		nameByID[e.ID] = bulletin.ShortName(e.Name)
	}

	events := make([]Event, 0, len(ns)+len(leaves))

	for _, rec := range leaves {
		name, ok := nameByID[rec.EmployeeID]
		if !ok {
			// Orphan record (employee deleted mid-snapshot); skip rather
			// than plot an unnamed absence.
			continue
		}
		kind, color := "Abonada", colorAbsence
		if rec.Type == hr.LeaveVacation {
			kind, color = "Férias", colorVacation
		}
		events = append(events, Event{
			Title: "AUSÊNCIA: " + name + " (" + kind + ")",
			Start: rec.Start.String(),
			End:   rec.End.AddDays(1).String(),
			Color: color,
		})
	}

	for _, n := range ns {
		color, ok := typeColors[n.Type]
		if !ok {
			color = colorDefault
		}
		events = append(events, Event{
			Title: strings.ToUpper(string(n.Type)) + ": " + n.Title,
			Start: n.Date.String(),
			End:   n.Date.AddDays(1).String(),
			Color: color,
		})
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].Start != events[j].Start {
			return events[i].Start < events[j].Start
		}
		return events[i].Title < events[j].Title
	})
	return events
}

// OnDay filters notices scheduled for one day, sorted by title.
func OnDay(ns []Notice, day dates.Date) []Notice {
	var out []Notice
	for _, n := range ns {
		if n.Date.Equal(day) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}
