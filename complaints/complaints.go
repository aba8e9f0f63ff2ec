/*
Package complaints handles citizen-complaint intake and resolution.

PURPOSE:
  Residents report suspected breeding sites, abandoned lots, standing
  water and the like; the office triages, dispatches and resolves them.
  Each complaint carries a protocol number the citizen can quote when
  following up.

WORKFLOW:
  Open -> InProgress -> Resolved
                     -> Dismissed
  Reopening is not supported: a recurring problem gets a new protocol.
*/
package complaints

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vigia/fieldops/dates"
)

type Status string

const (
	StatusOpen       Status = "aberta"
	StatusInProgress Status = "em_andamento"
	StatusResolved   Status = "resolvida"
	StatusDismissed  Status = "improcedente"
)

// Categories the intake form offers.
var Categories = []string{
	"Criadouro de mosquito",
	"Terreno abandonado",
	"Água parada",
	"Acúmulo de lixo",
	"Animal sinantrópico",
	"Outros",
}

var (
	ErrMissingAddress     = errors.New("denúncia sem endereço")
	ErrMissingDescription = errors.New("denúncia sem descrição")
	ErrInvalidTransition  = errors.New("transição de status inválida")
)

// Complaint is one citizen report.
type Complaint struct {
	ID           string
	Protocol     string
	Address      string
	Neighborhood string
	Category     string
	Description  string
	Status       Status
	OpenedAt     dates.Date
	ResolvedAt   dates.Date // zero until resolved/dismissed
	Resolution   string     // operator note on closure
}

// New validates intake fields and opens a complaint. The protocol embeds
// the year so the front desk can read it back over the phone.
func New(address, neighborhood, category, description string, today dates.Date) (Complaint, error) {
	if strings.TrimSpace(address) == "" {
		return Complaint{}, ErrMissingAddress
	}
	if strings.TrimSpace(description) == "" {
		return Complaint{}, ErrMissingDescription
	}
	if category == "" {
		category = "Outros"
	}

	id := uuid.NewString()
	return Complaint{
		ID:           id,
		Protocol:     fmt.Sprintf("%d-%s", today.Year(), strings.ToUpper(id[:8])),
		Address:      strings.TrimSpace(address),
		Neighborhood: strings.TrimSpace(neighborhood),
		Category:     category,
		Description:  strings.TrimSpace(description),
		Status:       StatusOpen,
		OpenedAt:     today,
	}, nil
}

// Transition moves the complaint to a new status, stamping closure fields
// on the terminal states. Invalid moves (reopening, skipping backwards)
// return ErrInvalidTransition.
func (c *Complaint) Transition(to Status, note string, today dates.Date) error {
	if !validTransition(c.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.Status, to)
	}
	c.Status = to
	if to == StatusResolved || to == StatusDismissed {
		c.ResolvedAt = today
		c.Resolution = strings.TrimSpace(note)
	}
	return nil
}

func validTransition(from, to Status) bool {
	switch from {
	case StatusOpen:
		return to == StatusInProgress || to == StatusResolved || to == StatusDismissed
	case StatusInProgress:
		return to == StatusResolved || to == StatusDismissed
	default:
		return false
	}
}

// IsClosed reports whether the complaint reached a terminal state.
func (c *Complaint) IsClosed() bool {
	return c.Status == StatusResolved || c.Status == StatusDismissed
}

// AgeDays is how long the complaint has been (or was) open.
func (c *Complaint) AgeDays(today dates.Date) int {
	end := today
	if c.IsClosed() && !c.ResolvedAt.IsZero() {
		end = c.ResolvedAt
	}
	return dates.DaysBetween(c.OpenedAt, end)
}

// Stats is the per-status breakdown for the intake dashboard.
type Stats struct {
	Total      int            `json:"total"`
	ByStatus   map[Status]int `json:"by_status"`
	ByCategory map[string]int `json:"by_category"`
	AvgAgeDays float64        `json:"avg_age_days"`
}

// Summarize computes intake stats over a snapshot.
func Summarize(list []Complaint, today dates.Date) Stats {
	s := Stats{
		ByStatus:   map[Status]int{},
		ByCategory: map[string]int{},
	}
	ageTotal := 0
	for i := range list {
		c := &list[i]
		s.Total++
		s.ByStatus[c.Status]++
		s.ByCategory[c.Category]++
		ageTotal += c.AgeDays(today)
	}
	if s.Total > 0 {
		s.AvgAgeDays = float64(ageTotal) / float64(s.Total)
	}
	return s
}

// ParseStatus maps a wire value to a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusOpen, StatusInProgress, StatusResolved, StatusDismissed:
		return Status(s), nil
	}
	return "", fmt.Errorf("status desconhecido: %q", s)
}
