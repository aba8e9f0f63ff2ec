/*
handlers.go - HTTP handlers for the dashboard API

PURPOSE:
  Implements every endpoint the panel consumes: login, the employee
  registry with classified vacation status, leave records, complaint
  intake and workflow, daily bulletins with productivity and map views,
  the block registry, the mural, the unified calendar and the activity
  log.

PATTERN:
  Handler holds the store, the auth service and a logger. Handlers parse
  the request, call the domain packages, and translate results to DTOs.
  "Today" is captured once per request through an injectable clock so
  tests can pin the date.

AUDIT:
  Every mutation appends to the activity log with the authenticated
  operator taken from the request context. A failed append is logged but
  never fails the request.

SEE ALSO:
  - dto.go: wire shapes
  - server.go: routing and middleware
  - store/sqlite/sqlite.go: persistence
*/
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vigia/fieldops/audit"
	"github.com/vigia/fieldops/auth"
	"github.com/vigia/fieldops/blocks"
	"github.com/vigia/fieldops/bulletin"
	"github.com/vigia/fieldops/complaints"
	"github.com/vigia/fieldops/dates"
	"github.com/vigia/fieldops/hr"
	"github.com/vigia/fieldops/notices"
	"github.com/vigia/fieldops/store/sqlite"
)

// Handler carries the dependencies shared by all endpoints.
type Handler struct {
	store *sqlite.Store
	auth  *auth.Service
	log   *logrus.Logger
	today func() dates.Date
}

// NewHandler wires the handler. The clock defaults to the wall calendar.
func NewHandler(store *sqlite.Store, authSvc *auth.Service, log *logrus.Logger) *Handler {
	return &Handler{store: store, auth: authSvc, log: log, today: dates.Today}
}

// =============================================================================
// AUTH
// =============================================================================

// Login authenticates an operator and issues a token.
// POST /api/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Corpo inválido", err)
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Usuário ou senha incorretos", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Falha no login", err)
		return
	}

	h.appendAudit(r, audit.NewEntry(user.Username, audit.ActionLogin, ""))
	writeJSON(w, http.StatusOK, LoginResponse{
		Token:       token,
		Username:    user.Username,
		DisplayName: user.DisplayName,
	})
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// ListEmployees returns every registry record with its classified status.
// GET /api/employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	emps, err := h.store.ListEmployees(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao listar funcionários", err)
		return
	}
	leaves, err := h.store.ListLeaves(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao listar ausências", err)
		return
	}

	today := h.today()
	dtos := make([]EmployeeDTO, 0, len(emps))
	for _, e := range emps {
		dtos = append(dtos, toEmployeeDTO(e, leaves, today))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee registers a new employee.
// POST /api/employees
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.decodeEmployee(w, r, uuid.NewString())
	if !ok {
		return
	}

	if err := h.store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao gravar funcionário", err)
		return
	}

	h.audit(r, audit.ActionEmployeeCreated, emp.Name)
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp, nil, h.today()))
}

// GetEmployee returns one record with status and leave history.
// GET /api/employees/{id}
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	emp, err := h.store.GetEmployee(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao buscar funcionário", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Funcionário não encontrado", nil)
		return
	}

	leaves, err := h.store.ListLeavesByEmployee(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao listar ausências", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp, leaves, h.today()))
}

// UpdateEmployee overwrites name, role and hire date.
// PUT /api/employees/{id}
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	existing, err := h.store.GetEmployee(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao buscar funcionário", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Funcionário não encontrado", nil)
		return
	}

	emp, ok := h.decodeEmployee(w, r, id)
	if !ok {
		return
	}
	if err := h.store.SaveEmployee(ctx, emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao gravar funcionário", err)
		return
	}

	h.audit(r, audit.ActionEmployeeUpdated, emp.Name)
	leaves, _ := h.store.ListLeavesByEmployee(ctx, id)
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp, leaves, h.today()))
}

// DeleteEmployee removes the record; leave history goes with it.
// DELETE /api/employees/{id}
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteEmployee(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "Funcionário não encontrado", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Falha ao excluir funcionário", err)
		return
	}

	h.audit(r, audit.ActionEmployeeDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

// GetEmployeeStatus returns only the classification, for the detail card.
// GET /api/employees/{id}/status
func (h *Handler) GetEmployeeStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	emp, err := h.store.GetEmployee(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao buscar funcionário", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Funcionário não encontrado", nil)
		return
	}

	leaves, err := h.store.ListLeavesByEmployee(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao listar ausências", err)
		return
	}
	writeJSON(w, http.StatusOK, toStatusDTO(hr.Classify(*emp, leaves, h.today())))
}

// ListEmployeeLeaves returns the leave history of one employee.
// GET /api/employees/{id}/leaves
func (h *Handler) ListEmployeeLeaves(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	emp, err := h.store.GetEmployee(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao buscar funcionário", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Funcionário não encontrado", nil)
		return
	}

	leaves, err := h.store.ListLeavesByEmployee(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao listar ausências", err)
		return
	}
	dtos := make([]LeaveDTO, 0, len(leaves))
	for _, rec := range leaves {
		dtos = append(dtos, toLeaveDTO(rec))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) decodeEmployee(w http.ResponseWriter, r *http.Request, id string) (hr.Employee, bool) {
	var in EmployeeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Corpo inválido", err)
		return hr.Employee{}, false
	}
	if in.Name == "" {
		writeError(w, http.StatusBadRequest, "Nome é obrigatório", nil)
		return hr.Employee{}, false
	}

	emp := hr.Employee{ID: id, Name: in.Name, Role: in.Role}
	if in.HireDate != "" {
		d, err := dates.ParseISO(in.HireDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Data de admissão inválida", err)
			return hr.Employee{}, false
		}
		emp.HireDate = d
	}
	return emp, true
}

// =============================================================================
// LEAVES
// =============================================================================

// CreateLeave registers a vacation or abonada.
// POST /api/leaves
func (h *Handler) CreateLeave(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.decodeLeave(w, r, uuid.NewString())
	if !ok {
		return
	}

	ctx := r.Context()
	emp, err := h.store.GetEmployee(ctx, rec.EmployeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao buscar funcionário", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Funcionário não encontrado", nil)
		return
	}

	if err := h.store.SaveLeave(ctx, rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao gravar ausência", err)
		return
	}

	h.audit(r, audit.ActionLeaveRegistered, emp.Name+" "+string(rec.Type))
	writeJSON(w, http.StatusCreated, toLeaveDTO(rec))
}

// UpdateLeave overwrites an existing record.
// PUT /api/leaves/{id}
func (h *Handler) UpdateLeave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	existing, err := h.store.GetLeave(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao buscar ausência", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Ausência não encontrada", nil)
		return
	}

	rec, ok := h.decodeLeave(w, r, id)
	if !ok {
		return
	}
	// The record stays bound to its employee.
	rec.EmployeeID = existing.EmployeeID

	if err := h.store.SaveLeave(ctx, rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao gravar ausência", err)
		return
	}

	h.audit(r, audit.ActionLeaveUpdated, id)
	writeJSON(w, http.StatusOK, toLeaveDTO(rec))
}

// DeleteLeave removes a record.
// DELETE /api/leaves/{id}
func (h *Handler) DeleteLeave(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteLeave(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "Ausência não encontrada", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Falha ao excluir ausência", err)
		return
	}

	h.audit(r, audit.ActionLeaveDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeLeave(w http.ResponseWriter, r *http.Request, id string) (hr.LeaveRecord, bool) {
	var in LeaveInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Corpo inválido", err)
		return hr.LeaveRecord{}, false
	}

	typ := hr.LeaveType(in.Type)
	if typ != hr.LeaveVacation && typ != hr.LeaveAbonada {
		writeError(w, http.StatusBadRequest, "Tipo de ausência desconhecido", nil)
		return hr.LeaveRecord{}, false
	}

	start, err := dates.ParseISO(in.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Data inicial inválida", err)
		return hr.LeaveRecord{}, false
	}
	end, err := dates.ParseISO(in.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Data final inválida", err)
		return hr.LeaveRecord{}, false
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "Data final anterior à inicial", nil)
		return hr.LeaveRecord{}, false
	}

	return hr.LeaveRecord{ID: id, EmployeeID: in.EmployeeID, Type: typ, Start: start, End: end}, true
}

// =============================================================================
// COMPLAINTS
// =============================================================================

// ListComplaints returns complaints, optionally ?status=aberta.
// GET /api/complaints
func (h *Handler) ListComplaints(w http.ResponseWriter, r *http.Request) {
	var status complaints.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := complaints.ParseStatus(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Status inválido", err)
			return
		}
		status = parsed
	}

	list, err := h.store.ListComplaints(r.Context(), status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao listar denúncias", err)
		return
	}

	today := h.today()
	dtos := make([]ComplaintDTO, 0, len(list))
	for _, c := range list {
		dtos = append(dtos, toComplaintDTO(c, today))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateComplaint opens a complaint and returns its protocol.
// POST /api/complaints
func (h *Handler) CreateComplaint(w http.ResponseWriter, r *http.Request) {
	var in ComplaintInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Corpo inválido", err)
		return
	}

	c, err := complaints.New(in.Address, in.Neighborhood, in.Category, in.Description, h.today())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Denúncia inválida", err)
		return
	}
	if err := h.store.SaveComplaint(r.Context(), c); err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao gravar denúncia", err)
		return
	}

	h.audit(r, audit.ActionComplaintOpened, c.Protocol)
	writeJSON(w, http.StatusCreated, toComplaintDTO(c, h.today()))
}

// ComplaintStats summarizes the intake queue.
// GET /api/complaints/stats
func (h *Handler) ComplaintStats(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListComplaints(r.Context(), "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao listar denúncias", err)
		return
	}
	writeJSON(w, http.StatusOK, complaints.Summarize(list, h.today()))
}

// UpdateComplaintStatus moves a complaint through the workflow.
// PUT /api/complaints/{id}/status
func (h *Handler) UpdateComplaintStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var in ComplaintStatusInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Corpo inválido", err)
		return
	}
	to, err := complaints.ParseStatus(in.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Status inválido", err)
		return
	}

	c, err := h.store.GetComplaint(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao buscar denúncia", err)
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "Denúncia não encontrada", nil)
		return
	}

	if err := c.Transition(to, in.Resolution, h.today()); err != nil {
		writeError(w, http.StatusConflict, "Transição de status inválida", err)
		return
	}
	if err := h.store.SaveComplaint(ctx, *c); err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao gravar denúncia", err)
		return
	}

	h.audit(r, audit.ActionComplaintMoved, c.Protocol+" -> "+string(to))
	writeJSON(w, http.StatusOK, toComplaintDTO(*c, h.today()))
}

// =============================================================================
// BULLETINS
// =============================================================================

// ListBulletins returns bulletins, optionally bounded by ?from=&to=.
// GET /api/bulletins
func (h *Handler) ListBulletins(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseRange(w, r)
	if !ok {
		return
	}

	list, err := h.store.ListBulletins(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao listar boletins", err)
		return
	}
	dtos := make([]BulletinDTO, 0, len(list))
	for i := range list {
		dtos = append(dtos, toBulletinDTO(&list[i]))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateBulletin validates and stores the day's bulletin.
// POST /api/bulletins
func (h *Handler) CreateBulletin(w http.ResponseWriter, r *http.Request) {
	b, ok := h.decodeBulletin(w, r, dates.Date{})
	if !ok {
		return
	}
	if err := h.store.SaveBulletin(r.Context(), b); err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao gravar boletim", err)
		return
	}

	h.audit(r, audit.ActionBulletinCreated, b.Date.String())
	writeJSON(w, http.StatusCreated, toBulletinDTO(&b))
}

// GetBulletin returns the bulletin of one day.
// GET /api/bulletins/{date}
func (h *Handler) GetBulletin(w http.ResponseWriter, r *http.Request) {
	day, ok := parseDateParam(w, r)
	if !ok {
		return
	}

	b, err := h.store.GetBulletin(r.Context(), day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao buscar boletim", err)
		return
	}
	if b == nil {
		writeError(w, http.StatusNotFound, "Boletim não encontrado", nil)
		return
	}
	writeJSON(w, http.StatusOK, toBulletinDTO(b))
}

// UpdateBulletin replaces the bulletin of one day.
// PUT /api/bulletins/{date}
func (h *Handler) UpdateBulletin(w http.ResponseWriter, r *http.Request) {
	day, ok := parseDateParam(w, r)
	if !ok {
		return
	}
	b, ok := h.decodeBulletin(w, r, day)
	if !ok {
		return
	}
	if err := h.store.SaveBulletin(r.Context(), b); err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao gravar boletim", err)
		return
	}

	h.audit(r, audit.ActionBulletinUpdated, b.Date.String())
	writeJSON(w, http.StatusOK, toBulletinDTO(&b))
}

// BulletinMap joins the day's teams against the block registry.
// GET /api/bulletins/{date}/map
func (h *Handler) BulletinMap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	day, ok := parseDateParam(w, r)
	if !ok {
		return
	}

	b, err := h.store.GetBulletin(ctx, day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao buscar boletim", err)
		return
	}
	if b == nil {
		writeError(w, http.StatusNotFound, "Boletim não encontrado", nil)
		return
	}

	registry, err := h.store.ListBlocks(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao listar quarteirões", err)
		return
	}
	writeJSON(w, http.StatusOK, bulletin.MapPoints(b, blocks.Index(registry)))
}

// BulletinStats aggregates productivity over ?from=&to=.
// GET /api/bulletins/stats
func (h *Handler) BulletinStats(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseRange(w, r)
	if !ok {
		return
	}
	if from.IsZero() || to.IsZero() {
		writeError(w, http.StatusBadRequest, "Parâmetros from e to são obrigatórios", nil)
		return
	}

	list, err := h.store.ListBulletins(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao listar boletins", err)
		return
	}
	writeJSON(w, http.StatusOK, bulletin.Analyze(list, dates.Period{Start: from, End: to}))
}

// decodeBulletin parses and validates a bulletin body. When fixedDate is
// set it overrides the body's date (the PUT route).
func (h *Handler) decodeBulletin(w http.ResponseWriter, r *http.Request, fixedDate dates.Date) (bulletin.Bulletin, bool) {
	var in BulletinInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Corpo inválido", err)
		return bulletin.Bulletin{}, false
	}

	day := fixedDate
	if day.IsZero() {
		var err error
		if day, err = dates.ParseISO(in.Date); err != nil {
			writeError(w, http.StatusBadRequest, "Data do boletim inválida", err)
			return bulletin.Bulletin{}, false
		}
	}

	b := bulletin.Bulletin{
		Date:              day,
		Neighborhoods:     in.Neighborhoods,
		GeneralActivities: in.GeneralActivities,
		Drivers:           in.Drivers,
		MorningTeams:      toTeams(in.MorningTeams),
		AfternoonTeams:    toTeams(in.AfternoonTeams),
		MorningAbsence:    bulletin.Absence(in.MorningAbsence),
		AfternoonAbsence:  bulletin.Absence(in.AfternoonAbsence),
	}
	if err := b.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Boletim inválido", err)
		return bulletin.Bulletin{}, false
	}
	return b, true
}

func toTeams(in []TeamInput) []bulletin.Team {
	out := make([]bulletin.Team, 0, len(in))
	for _, t := range in {
		out = append(out, bulletin.Team{Members: t.Members, Activities: t.Activities, Blocks: t.Blocks})
	}
	return out
}

func toBulletinDTO(b *bulletin.Bulletin) BulletinDTO {
	return BulletinDTO{
		Date:              b.Date.String(),
		Neighborhoods:     b.Neighborhoods,
		GeneralActivities: orEmpty(b.GeneralActivities),
		Drivers:           orEmpty(b.Drivers),
		MorningTeams:      fromTeams(b.MorningTeams),
		AfternoonTeams:    fromTeams(b.AfternoonTeams),
		MorningAbsence:    AbsenceInput(b.MorningAbsence),
		AfternoonAbsence:  AbsenceInput(b.AfternoonAbsence),
	}
}

func fromTeams(ts []bulletin.Team) []TeamInput {
	out := make([]TeamInput, 0, len(ts))
	for _, t := range ts {
		out = append(out, TeamInput{Members: t.Members, Activities: t.Activities, Blocks: t.Blocks})
	}
	return out
}

// =============================================================================
// BLOCKS
// =============================================================================

// ListBlocks returns the registry.
// GET /api/blocks
func (h *Handler) ListBlocks(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListBlocks(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao listar quarteirões", err)
		return
	}
	dtos := make([]BlockDTO, 0, len(list))
	for _, b := range list {
		dtos = append(dtos, toBlockDTO(b))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateBlock registers a single block.
// POST /api/blocks
func (h *Handler) CreateBlock(w http.ResponseWriter, r *http.Request) {
	var in BlockInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Corpo inválido", err)
		return
	}
	if in.Code == "" {
		writeError(w, http.StatusBadRequest, "Código é obrigatório", nil)
		return
	}

	b := blocks.Block{Code: in.Code, District: in.District}
	if in.Lat != nil && in.Lon != nil {
		b.Lat, b.Lon, b.HasCoords = *in.Lat, *in.Lon, true
	}
	if err := h.store.SaveBlocks(r.Context(), []blocks.Block{b}); err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao gravar quarteirão", err)
		return
	}
	writeJSON(w, http.StatusCreated, toBlockDTO(b))
}

// ImportBlocks ingests the registry CSV from the request body.
// POST /api/blocks/import
func (h *Handler) ImportBlocks(w http.ResponseWriter, r *http.Request) {
	list, err := blocks.ParseCSV(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "CSV inválido", err)
		return
	}
	if err := h.store.SaveBlocks(r.Context(), list); err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao gravar quarteirões", err)
		return
	}

	h.audit(r, audit.ActionBlocksImported, "")
	writeJSON(w, http.StatusOK, ImportResultDTO{Imported: len(list)})
}

// =============================================================================
// NOTICES
// =============================================================================

// ListNotices returns the mural ordered by date.
// GET /api/notices
func (h *Handler) ListNotices(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListNotices(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao listar avisos", err)
		return
	}
	dtos := make([]NoticeDTO, 0, len(list))
	for _, n := range list {
		dtos = append(dtos, toNoticeDTO(n))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateNotice posts a mural entry.
// POST /api/notices
func (h *Handler) CreateNotice(w http.ResponseWriter, r *http.Request) {
	n, ok := decodeNotice(w, r)
	if !ok {
		return
	}
	if err := h.store.SaveNotice(r.Context(), n); err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao gravar aviso", err)
		return
	}

	h.audit(r, audit.ActionNoticeCreated, n.Title)
	writeJSON(w, http.StatusCreated, toNoticeDTO(n))
}

// UpdateNotice overwrites a mural entry.
// PUT /api/notices/{id}
func (h *Handler) UpdateNotice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	existing, err := h.store.GetNotice(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao buscar aviso", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Aviso não encontrado", nil)
		return
	}

	n, ok := decodeNotice(w, r)
	if !ok {
		return
	}
	n.ID = id
	if err := h.store.SaveNotice(ctx, n); err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao gravar aviso", err)
		return
	}

	h.audit(r, audit.ActionNoticeUpdated, n.Title)
	writeJSON(w, http.StatusOK, toNoticeDTO(n))
}

// DeleteNotice removes a mural entry.
// DELETE /api/notices/{id}
func (h *Handler) DeleteNotice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteNotice(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "Aviso não encontrado", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Falha ao excluir aviso", err)
		return
	}

	h.audit(r, audit.ActionNoticeDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

func decodeNotice(w http.ResponseWriter, r *http.Request) (notices.Notice, bool) {
	var in NoticeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Corpo inválido", err)
		return notices.Notice{}, false
	}
	day, err := dates.ParseISO(in.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Data inválida", err)
		return notices.Notice{}, false
	}
	n, err := notices.New(in.Title, notices.Type(in.Type), day, in.Description, in.Participants)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Aviso inválido", err)
		return notices.Notice{}, false
	}
	return n, true
}

// =============================================================================
// CALENDAR
// =============================================================================

// Calendar returns the merged event feed: leave spans plus mural entries.
// GET /api/calendar
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ns, err := h.store.ListNotices(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao listar avisos", err)
		return
	}
	leaves, err := h.store.ListLeaves(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao listar ausências", err)
		return
	}
	emps, err := h.store.ListEmployees(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao listar funcionários", err)
		return
	}
	writeJSON(w, http.StatusOK, notices.BuildFeed(ns, leaves, emps))
}

// =============================================================================
// ACTIVITY LOG
// =============================================================================

// ListLogs returns activity entries, optionally ?user=&action=&limit=.
// GET /api/logs
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	f := audit.Filter{User: r.URL.Query().Get("user"), Limit: 200}
	if a := r.URL.Query().Get("action"); a != "" {
		f.Actions = []audit.Action{audit.Action(a)}
	}

	entries, err := h.store.Query(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Falha ao consultar registro de atividades", err)
		return
	}
	dtos := make([]AuditEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, toAuditDTO(e))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

// audit records a mutation performed by the authenticated operator.
func (h *Handler) audit(r *http.Request, action audit.Action, details string) {
	h.appendAudit(r, audit.NewEntry(auth.Username(r.Context()), action, details))
}

func (h *Handler) appendAudit(r *http.Request, e audit.Entry) {
	if err := h.store.Append(r.Context(), e); err != nil {
		h.log.WithError(err).WithField("action", e.Action).Warn("falha ao gravar atividade")
	}
}

func parseDateParam(w http.ResponseWriter, r *http.Request) (dates.Date, bool) {
	day, err := dates.ParseISO(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Data inválida", err)
		return dates.Date{}, false
	}
	return day, true
}

func parseRange(w http.ResponseWriter, r *http.Request) (from, to dates.Date, ok bool) {
	var err error
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err = dates.ParseISO(raw); err != nil {
			writeError(w, http.StatusBadRequest, "Parâmetro from inválido", err)
			return dates.Date{}, dates.Date{}, false
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if to, err = dates.ParseISO(raw); err != nil {
			writeError(w, http.StatusBadRequest, "Parâmetro to inválido", err)
			return dates.Date{}, dates.Date{}, false
		}
	}
	return from, to, true
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
