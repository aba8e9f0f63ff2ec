package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigia/fieldops/audit"
	"github.com/vigia/fieldops/auth"
	"github.com/vigia/fieldops/blocks"
	"github.com/vigia/fieldops/bulletin"
	"github.com/vigia/fieldops/complaints"
	"github.com/vigia/fieldops/dates"
	"github.com/vigia/fieldops/hr"
	"github.com/vigia/fieldops/notices"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func date(y int, m time.Month, d int) dates.Date { return dates.New(y, m, d) }

func TestEmployeeRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	emp := hr.Employee{ID: "e1", Name: "Ana Souza", Role: "Agente de Endemias", HireDate: date(2021, time.March, 15)}
	require.NoError(t, s.SaveEmployee(ctx, emp))

	got, err := s.GetEmployee(ctx, "e1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, emp, *got)

	// Unknown id returns nil, nil.
	missing, err := s.GetEmployee(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestEmployeeMissingHireDateSurvives(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveEmployee(ctx, hr.Employee{ID: "e1", Name: "Sem Data"}))

	got, err := s.GetEmployee(ctx, "e1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.HireDate.IsZero())
}

func TestDeleteEmployeeCascadesLeaves(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveEmployee(ctx, hr.Employee{ID: "e1", Name: "Ana", HireDate: date(2020, time.January, 1)}))
	require.NoError(t, s.SaveLeave(ctx, hr.LeaveRecord{
		ID: "l1", EmployeeID: "e1", Type: hr.LeaveVacation,
		Start: date(2021, time.February, 1), End: date(2021, time.February, 28),
	}))

	require.NoError(t, s.DeleteEmployee(ctx, "e1"))

	leaves, err := s.ListLeaves(ctx)
	require.NoError(t, err)
	assert.Empty(t, leaves)

	assert.ErrorIs(t, s.DeleteEmployee(ctx, "e1"), sql.ErrNoRows)
}

func TestListLeavesByEmployeeSorted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveEmployee(ctx, hr.Employee{ID: "e1", Name: "Ana", HireDate: date(2020, time.January, 1)}))
	require.NoError(t, s.SaveEmployee(ctx, hr.Employee{ID: "e2", Name: "Bruno", HireDate: date(2020, time.January, 1)}))

	require.NoError(t, s.SaveLeave(ctx, hr.LeaveRecord{ID: "l2", EmployeeID: "e1", Type: hr.LeaveAbonada,
		Start: date(2022, time.May, 10), End: date(2022, time.May, 10)}))
	require.NoError(t, s.SaveLeave(ctx, hr.LeaveRecord{ID: "l1", EmployeeID: "e1", Type: hr.LeaveVacation,
		Start: date(2021, time.February, 1), End: date(2021, time.February, 28)}))
	require.NoError(t, s.SaveLeave(ctx, hr.LeaveRecord{ID: "l3", EmployeeID: "e2", Type: hr.LeaveVacation,
		Start: date(2021, time.June, 1), End: date(2021, time.June, 30)}))

	got, err := s.ListLeavesByEmployee(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "l1", got[0].ID)
	assert.Equal(t, "l2", got[1].ID)
}

func TestComplaintStatusFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	open, err := complaints.New("Rua A, 10", "Centro", "Água parada", "quintal com pneus", date(2025, time.March, 1))
	require.NoError(t, err)
	require.NoError(t, s.SaveComplaint(ctx, open))

	closed, err := complaints.New("Rua B, 20", "Jardim", "Terreno baldio", "mato alto", date(2025, time.March, 2))
	require.NoError(t, err)
	require.NoError(t, closed.Transition(complaints.StatusResolved, "equipe esteve no local", date(2025, time.March, 5)))
	require.NoError(t, s.SaveComplaint(ctx, closed))

	all, err := s.ListComplaints(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	// Newest first.
	assert.Equal(t, closed.ID, all[0].ID)

	onlyOpen, err := s.ListComplaints(ctx, complaints.StatusOpen)
	require.NoError(t, err)
	require.Len(t, onlyOpen, 1)
	assert.Equal(t, open.ID, onlyOpen[0].ID)

	got, err := s.GetComplaint(ctx, closed.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, complaints.StatusResolved, got.Status)
	assert.Equal(t, "equipe esteve no local", got.Resolution)
	assert.Equal(t, date(2025, time.March, 5), got.ResolvedAt)
}

func TestBulletinJSONRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := bulletin.Bulletin{
		Date:              date(2025, time.April, 7),
		Neighborhoods:     "Centro, Vila Nova",
		GeneralActivities: []string{"Visita a Imóveis"},
		Drivers:           []string{"Carlos Lima"},
		MorningTeams: []bulletin.Team{{
			Members:    []string{"Ana Souza", "Bruno Dias"},
			Activities: []string{"Visita a Imóveis"},
			Blocks:     []string{"Q-101", "Q-102"},
		}},
		MorningAbsence: bulletin.Absence{Names: []string{"Davi Rocha"}, Reason: "atestado"},
	}
	require.NoError(t, s.SaveBulletin(ctx, b))

	got, err := s.GetBulletin(ctx, b.Date)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, b.MorningTeams, got.MorningTeams)
	assert.Equal(t, b.MorningAbsence, got.MorningAbsence)
	assert.Empty(t, got.AfternoonTeams)

	// Upsert replaces the day.
	b.Neighborhoods = "Centro"
	require.NoError(t, s.SaveBulletin(ctx, b))
	got, err = s.GetBulletin(ctx, b.Date)
	require.NoError(t, err)
	assert.Equal(t, "Centro", got.Neighborhoods)
}

func TestListBulletinsRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, d := range []dates.Date{
		date(2025, time.April, 1), date(2025, time.April, 15), date(2025, time.May, 2),
	} {
		require.NoError(t, s.SaveBulletin(ctx, bulletin.Bulletin{Date: d}))
	}

	got, err := s.ListBulletins(ctx, date(2025, time.April, 10), date(2025, time.May, 2))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, date(2025, time.April, 15), got[0].Date)

	all, err := s.ListBulletins(ctx, dates.Date{}, dates.Date{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestBlocksUpsertAndCoords(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveBlocks(ctx, []blocks.Block{
		{Code: "Q-101", District: "Centro", Lat: -23.5, Lon: -46.6, HasCoords: true},
		{Code: "Q-102", District: "Vila Nova"},
	}))
	// Re-import updates in place.
	require.NoError(t, s.SaveBlocks(ctx, []blocks.Block{
		{Code: "Q-102", District: "Vila Nova", Lat: -23.6, Lon: -46.7, HasCoords: true},
	}))

	got, err := s.ListBlocks(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].HasCoords)
	assert.True(t, got[1].HasCoords)
	assert.Equal(t, -23.6, got[1].Lat)
}

func TestNoticeRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, err := notices.New("Treinamento LIRAa", notices.TypeCourse, date(2025, time.June, 10),
		"sala 2", []string{"Ana Souza"})
	require.NoError(t, err)
	require.NoError(t, s.SaveNotice(ctx, n))

	got, err := s.GetNotice(ctx, n.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, n.Participants, got.Participants)

	require.NoError(t, s.DeleteNotice(ctx, n.ID))
	assert.ErrorIs(t, s.DeleteNotice(ctx, n.ID), sql.ErrNoRows)
}

func TestUserStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, s.SaveUser(ctx, auth.User{Username: "admin", DisplayName: "Coordenação", PasswordHash: "$2a$10$x"}))

	u, err := s.GetUser(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Coordenação", u.DisplayName)

	missing, err := s.GetUser(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAuditQueryNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, time.July, 1, 9, 0, 0, 0, time.UTC)
	entries := []audit.Entry{
		{ID: "a1", Timestamp: base, User: "admin", Action: audit.ActionLogin},
		{ID: "a2", Timestamp: base.Add(time.Minute), User: "admin", Action: audit.ActionEmployeeCreated, Details: "e1"},
		{ID: "a3", Timestamp: base.Add(2 * time.Minute), User: "maria", Action: audit.ActionLogin},
	}
	for _, e := range entries {
		require.NoError(t, s.Append(ctx, e))
	}

	got, err := s.Query(ctx, audit.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "a3", got[0].ID)

	admin, err := s.Query(ctx, audit.Filter{User: "admin", Limit: 1})
	require.NoError(t, err)
	require.Len(t, admin, 1)
	assert.Equal(t, "a2", admin[0].ID)

	logins, err := s.Query(ctx, audit.Filter{Actions: []audit.Action{audit.ActionLogin}})
	require.NoError(t, err)
	assert.Len(t, logins, 2)
}
