/*
Package bulletin implements the daily field-work schedule ("boletim"): which
teams go out in each shift, what they do, and on which city blocks.

PURPOSE:
  One bulletin exists per work day. The morning and afternoon shifts each
  carry a set of teams (members, activities, blocks) plus the day's
  absences with a reason. Drivers are assigned for the whole day and never
  appear inside a team.

KEY CONCEPTS IN THIS FILE (types.go):
  - Bulletin: the per-day document
  - Team: members + activities + blocks for one shift
  - Absence: the absent names and shared reason for one shift
  - Validate: the invariants the creation form used to enforce

SEE ALSO:
  - stats.go: productivity aggregation over a date range
  - mappoints.go: join of team blocks with registry coordinates
*/
package bulletin

import (
	"fmt"
	"strings"

	"github.com/vigia/fieldops/dates"
)

// Shift identifies the half-day a team works.
type Shift string

const (
	ShiftMorning   Shift = "manha"
	ShiftAfternoon Shift = "tarde"
)

// GeneralActivities is the canonical activity list the field office works
// with. Bulletins may only reference these.
var GeneralActivities = []string{
	"Controle de criadouros",
	"Visita a Imóveis",
	"ADL",
	"Nebulização",
}

// Team is one field team within a shift.
type Team struct {
	Members    []string `json:"members"`
	Activities []string `json:"activities"`
	Blocks     []string `json:"blocks"`
}

// Absence records who missed a shift and why.
type Absence struct {
	Names  []string `json:"names"`
	Reason string   `json:"reason"`
}

// Bulletin is the daily schedule. The date doubles as its identifier: the
// office never runs two bulletins for one day.
type Bulletin struct {
	Date              dates.Date
	Neighborhoods     string
	GeneralActivities []string
	Drivers           []string
	MorningTeams      []Team
	AfternoonTeams    []Team
	MorningAbsence    Absence
	AfternoonAbsence  Absence
}

// Teams returns the teams of one shift.
func (b *Bulletin) Teams(s Shift) []Team {
	if s == ShiftAfternoon {
		return b.AfternoonTeams
	}
	return b.MorningTeams
}

// Validate enforces the scheduling invariants: within a shift a member may
// appear in only one team, and neither drivers nor that shift's absentees
// may be placed on a team. Activities must come from the canonical list.
func (b *Bulletin) Validate() error {
	if b.Date.IsZero() {
		return fmt.Errorf("boletim sem data")
	}
	if err := validateShift(ShiftMorning, b.MorningTeams, b.MorningAbsence, b.Drivers); err != nil {
		return err
	}
	if err := validateShift(ShiftAfternoon, b.AfternoonTeams, b.AfternoonAbsence, b.Drivers); err != nil {
		return err
	}
	for _, a := range b.GeneralActivities {
		if !knownActivity(a) {
			return fmt.Errorf("atividade desconhecida: %q", a)
		}
	}
	return nil
}

func validateShift(s Shift, teams []Team, abs Absence, drivers []string) error {
	seen := map[string]bool{}
	absent := toSet(abs.Names)
	driving := toSet(drivers)

	for i, team := range teams {
		for _, m := range team.Members {
			if seen[m] {
				return fmt.Errorf("turno %s: %s em mais de uma equipe", s, m)
			}
			if absent[m] {
				return fmt.Errorf("turno %s: %s está ausente e foi escalado na equipe %d", s, m, i+1)
			}
			if driving[m] {
				return fmt.Errorf("turno %s: %s é motorista e não pode integrar equipe", s, m)
			}
			seen[m] = true
		}
		for _, a := range team.Activities {
			if !knownActivity(a) {
				return fmt.Errorf("turno %s: atividade desconhecida: %q", s, a)
			}
		}
	}
	return nil
}

func knownActivity(a string) bool {
	for _, known := range GeneralActivities {
		if a == known {
			return true
		}
	}
	return false
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// ShortName collapses a full registry name to "First Last", the display
// form the office uses on bulletins and rosters.
func ShortName(full string) string {
	parts := strings.Fields(full)
	if len(parts) <= 2 {
		return full
	}
	return parts[0] + " " + parts[len(parts)-1]
}
