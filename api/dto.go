/*
dto.go - Request and response shapes for the HTTP API

PURPOSE:
  Keeps the wire format separate from domain types. Dates cross the wire
  as ISO strings (YYYY-MM-DD); the Brazilian dd/mm/yyyy renderings the
  dashboard shows (reference periods, deadlines) arrive pre-formatted in
  the classification fields.

SEE ALSO:
  - handlers.go: where these are (de)serialized
*/
package api

import (
	"github.com/vigia/fieldops/audit"
	"github.com/vigia/fieldops/blocks"
	"github.com/vigia/fieldops/complaints"
	"github.com/vigia/fieldops/dates"
	"github.com/vigia/fieldops/hr"
	"github.com/vigia/fieldops/notices"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// AUTH
// =============================================================================

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token       string `json:"token"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeInput is the create/update body. HireDate is ISO or empty.
type EmployeeInput struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	HireDate string `json:"hire_date"`
}

// StatusDTO is the classified vacation situation, labels already in
// display form.
type StatusDTO struct {
	ReferencePeriod string `json:"reference_period"`
	Label           string `json:"label"`
	Code            string `json:"code"`
	Color           string `json:"color,omitempty"`
}

// EmployeeDTO is one dashboard table row: the record plus everything the
// panel derives from the leave snapshot.
type EmployeeDTO struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	HireDate     string    `json:"hire_date"`
	Status       StatusDTO `json:"status"`
	AbonadasYear int       `json:"abonadas_year"`
	AbonadaDates []string  `json:"abonada_dates"`
	LastVacation string    `json:"last_vacation"`
}

func toEmployeeDTO(e hr.Employee, leaves []hr.LeaveRecord, today dates.Date) EmployeeDTO {
	c := hr.Classify(e, leaves, today)
	return EmployeeDTO{
		ID:           e.ID,
		Name:         e.Name,
		Role:         e.Role,
		HireDate:     isoOrEmpty(e.HireDate),
		Status:       toStatusDTO(c),
		AbonadasYear: hr.AbonadasInYear(e.ID, leaves, today.Year()),
		AbonadaDates: hr.AbonadaDatesInYear(e.ID, leaves, today.Year()),
		LastVacation: hr.LastVacationStart(e.ID, leaves),
	}
}

func toStatusDTO(c hr.Classification) StatusDTO {
	return StatusDTO{
		ReferencePeriod: c.ReferencePeriod,
		Label:           c.Label,
		Code:            string(c.Code),
		Color:           hr.HighlightColor(c.Code),
	}
}

// =============================================================================
// LEAVES
// =============================================================================

type LeaveInput struct {
	EmployeeID string `json:"employee_id"`
	Type       string `json:"type"`
	Start      string `json:"start"`
	End        string `json:"end"`
}

type LeaveDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Type       string `json:"type"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Days       int    `json:"days"`
}

func toLeaveDTO(rec hr.LeaveRecord) LeaveDTO {
	return LeaveDTO{
		ID:         rec.ID,
		EmployeeID: rec.EmployeeID,
		Type:       string(rec.Type),
		Start:      rec.Start.String(),
		End:        rec.End.String(),
		Days:       rec.Days(),
	}
}

// =============================================================================
// COMPLAINTS
// =============================================================================

type ComplaintInput struct {
	Address      string `json:"address"`
	Neighborhood string `json:"neighborhood"`
	Category     string `json:"category"`
	Description  string `json:"description"`
}

type ComplaintStatusInput struct {
	Status     string `json:"status"`
	Resolution string `json:"resolution"`
}

type ComplaintDTO struct {
	ID           string `json:"id"`
	Protocol     string `json:"protocol"`
	Address      string `json:"address"`
	Neighborhood string `json:"neighborhood"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	Status       string `json:"status"`
	OpenedAt     string `json:"opened_at"`
	ResolvedAt   string `json:"resolved_at,omitempty"`
	Resolution   string `json:"resolution,omitempty"`
	AgeDays      int    `json:"age_days"`
}

func toComplaintDTO(c complaints.Complaint, today dates.Date) ComplaintDTO {
	return ComplaintDTO{
		ID:           c.ID,
		Protocol:     c.Protocol,
		Address:      c.Address,
		Neighborhood: c.Neighborhood,
		Category:     c.Category,
		Description:  c.Description,
		Status:       string(c.Status),
		OpenedAt:     c.OpenedAt.String(),
		ResolvedAt:   isoOrEmpty(c.ResolvedAt),
		Resolution:   c.Resolution,
		AgeDays:      c.AgeDays(today),
	}
}

// =============================================================================
// BULLETINS
// =============================================================================

// TeamInput mirrors bulletin.Team on the wire.
type TeamInput struct {
	Members    []string `json:"members"`
	Activities []string `json:"activities"`
	Blocks     []string `json:"blocks"`
}

type AbsenceInput struct {
	Names  []string `json:"names"`
	Reason string   `json:"reason"`
}

type BulletinInput struct {
	Date              string       `json:"date"`
	Neighborhoods     string       `json:"neighborhoods"`
	GeneralActivities []string     `json:"general_activities"`
	Drivers           []string     `json:"drivers"`
	MorningTeams      []TeamInput  `json:"morning_teams"`
	AfternoonTeams    []TeamInput  `json:"afternoon_teams"`
	MorningAbsence    AbsenceInput `json:"morning_absence"`
	AfternoonAbsence  AbsenceInput `json:"afternoon_absence"`
}

type BulletinDTO struct {
	Date              string       `json:"date"`
	Neighborhoods     string       `json:"neighborhoods"`
	GeneralActivities []string     `json:"general_activities"`
	Drivers           []string     `json:"drivers"`
	MorningTeams      []TeamInput  `json:"morning_teams"`
	AfternoonTeams    []TeamInput  `json:"afternoon_teams"`
	MorningAbsence    AbsenceInput `json:"morning_absence"`
	AfternoonAbsence  AbsenceInput `json:"afternoon_absence"`
}

// =============================================================================
// BLOCKS
// =============================================================================

type BlockInput struct {
	Code     string   `json:"code"`
	District string   `json:"district"`
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
}

type BlockDTO struct {
	Code     string   `json:"code"`
	District string   `json:"district"`
	Lat      *float64 `json:"lat,omitempty"`
	Lon      *float64 `json:"lon,omitempty"`
}

func toBlockDTO(b blocks.Block) BlockDTO {
	dto := BlockDTO{Code: b.Code, District: b.District}
	if b.HasCoords {
		lat, lon := b.Lat, b.Lon
		dto.Lat, dto.Lon = &lat, &lon
	}
	return dto
}

type ImportResultDTO struct {
	Imported int `json:"imported"`
}

// =============================================================================
// NOTICES
// =============================================================================

type NoticeInput struct {
	Title        string   `json:"title"`
	Type         string   `json:"type"`
	Date         string   `json:"date"`
	Description  string   `json:"description"`
	Participants []string `json:"participants"`
}

type NoticeDTO struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Type         string   `json:"type"`
	Date         string   `json:"date"`
	Description  string   `json:"description"`
	Participants []string `json:"participants"`
}

func toNoticeDTO(n notices.Notice) NoticeDTO {
	participants := n.Participants
	if participants == nil {
		participants = []string{}
	}
	return NoticeDTO{
		ID:           n.ID,
		Title:        n.Title,
		Type:         string(n.Type),
		Date:         n.Date.String(),
		Description:  n.Description,
		Participants: participants,
	}
}

// =============================================================================
// AUDIT
// =============================================================================

type AuditEntryDTO struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	User      string `json:"user"`
	Action    string `json:"action"`
	Details   string `json:"details,omitempty"`
}

func toAuditDTO(e audit.Entry) AuditEntryDTO {
	return AuditEntryDTO{
		ID:        e.ID,
		Timestamp: e.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00"),
		User:      e.User,
		Action:    string(e.Action),
		Details:   e.Details,
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func isoOrEmpty(d dates.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}
