package bulletin_test

import (
	"testing"
	"time"

	"github.com/vigia/fieldops/blocks"
	"github.com/vigia/fieldops/bulletin"
	"github.com/vigia/fieldops/dates"
)

func date(y int, m time.Month, d int) dates.Date { return dates.New(y, m, d) }

func sample(day dates.Date) bulletin.Bulletin {
	return bulletin.Bulletin{
		Date:          day,
		Neighborhoods: "Centro, Vila Industrial",
		Drivers:       []string{"Carlos Souza"},
		MorningTeams: []bulletin.Team{
			{
				Members:    []string{"Ana Lima", "João Pereira"},
				Activities: []string{"Visita a Imóveis"},
				Blocks:     []string{"Q-101", "Q-102"},
			},
			{
				Members:    []string{"Marcos Silva"},
				Activities: []string{"Controle de criadouros"},
				Blocks:     []string{"Q-201"},
			},
		},
		AfternoonTeams: []bulletin.Team{
			{
				Members:    []string{"Ana Lima"},
				Activities: []string{"Nebulização"},
				Blocks:     []string{"Q-101"},
			},
		},
		MorningAbsence: bulletin.Absence{Names: []string{"Rita Gomes"}, Reason: "Atestado"},
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidateAcceptsWellFormedBulletin(t *testing.T) {
	b := sample(date(2025, time.June, 2))
	if err := b.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejectsMemberInTwoTeamsSameShift(t *testing.T) {
	b := sample(date(2025, time.June, 2))
	b.MorningTeams[1].Members = append(b.MorningTeams[1].Members, "Ana Lima")

	if err := b.Validate(); err == nil {
		t.Error("expected error: member scheduled in two morning teams")
	}
}

func TestValidateAllowsSameMemberAcrossShifts(t *testing.T) {
	// Ana works morning and afternoon; that is a normal double shift.
	b := sample(date(2025, time.June, 2))
	if err := b.Validate(); err != nil {
		t.Errorf("double shift should be valid: %v", err)
	}
}

func TestValidateRejectsAbsentMemberOnTeam(t *testing.T) {
	b := sample(date(2025, time.June, 2))
	b.MorningTeams[0].Members = append(b.MorningTeams[0].Members, "Rita Gomes")

	if err := b.Validate(); err == nil {
		t.Error("expected error: absent member scheduled on a team")
	}
}

func TestValidateRejectsDriverOnTeam(t *testing.T) {
	b := sample(date(2025, time.June, 2))
	b.AfternoonTeams[0].Members = append(b.AfternoonTeams[0].Members, "Carlos Souza")

	if err := b.Validate(); err == nil {
		t.Error("expected error: driver scheduled on a team")
	}
}

func TestValidateRejectsUnknownActivity(t *testing.T) {
	b := sample(date(2025, time.June, 2))
	b.MorningTeams[0].Activities = []string{"Pintura"}

	if err := b.Validate(); err == nil {
		t.Error("expected error: activity outside the canonical list")
	}
}

func TestValidateRejectsMissingDate(t *testing.T) {
	var b bulletin.Bulletin
	if err := b.Validate(); err == nil {
		t.Error("expected error for bulletin without date")
	}
}

// =============================================================================
// PRODUCTIVITY
// =============================================================================

func TestAnalyzeCountsAndFilters(t *testing.T) {
	bs := []bulletin.Bulletin{
		sample(date(2025, time.June, 2)),
		sample(date(2025, time.June, 3)),
		sample(date(2025, time.July, 15)), // outside the period
	}
	period := dates.Period{Start: date(2025, time.June, 1), End: date(2025, time.June, 30)}

	p := bulletin.Analyze(bs, period)

	if p.Bulletins != 2 {
		t.Fatalf("bulletins in period = %d, want 2", p.Bulletins)
	}

	// Q-101 is worked by one morning and one afternoon team per bulletin.
	if len(p.Blocks) == 0 || p.Blocks[0].Key != "Q-101" || p.Blocks[0].Count != 4 {
		t.Errorf("top block = %+v, want Q-101 x4", p.Blocks)
	}

	// Ana works two shifts per day.
	var ana int
	for _, row := range p.Members {
		if row.Key == "Ana Lima" {
			ana = row.Count
		}
	}
	if ana != 4 {
		t.Errorf("Ana Lima shifts = %d, want 4", ana)
	}
}

func TestAnalyzeActivityShares(t *testing.T) {
	bs := []bulletin.Bulletin{sample(date(2025, time.June, 2))}
	period := dates.YearOf(date(2025, time.January, 1))

	p := bulletin.Analyze(bs, period)

	// Three activity executions total, one each.
	total := 0
	for _, row := range p.Activities {
		total += row.Count
		if row.Percent.StringFixed(1) != "33.3" {
			t.Errorf("share for %s = %s, want 33.3", row.Key, row.Percent)
		}
	}
	if total != 3 {
		t.Errorf("activity executions = %d, want 3", total)
	}
}

func TestAnalyzeAvgTeamSize(t *testing.T) {
	bs := []bulletin.Bulletin{sample(date(2025, time.June, 2))}
	p := bulletin.Analyze(bs, dates.YearOf(date(2025, time.January, 1)))

	// Teams of 2, 1 and 1 members: average 1.33.
	if p.AvgTeamSize.StringFixed(2) != "1.33" {
		t.Errorf("AvgTeamSize = %s, want 1.33", p.AvgTeamSize)
	}
}

func TestAnalyzeEmptyPeriod(t *testing.T) {
	p := bulletin.Analyze(nil, dates.YearOf(date(2025, time.January, 1)))
	if p.Bulletins != 0 || len(p.Blocks) != 0 || !p.AvgTeamSize.IsZero() {
		t.Errorf("empty analysis should be all zeros: %+v", p)
	}
}

// =============================================================================
// MAP POINTS
// =============================================================================

func testRegistry() map[string]blocks.Block {
	return blocks.Index([]blocks.Block{
		{Code: "Q-101", District: "Centro", Lat: -23.18, Lon: -45.88, HasCoords: true},
		{Code: "Q-102", District: "Centro"}, // no coordinates
		{Code: "Q-201", District: "Jardim Satélite", Lat: -23.22, Lon: -45.89, HasCoords: true},
	})
}

func TestMapPointsJoinsCoordinates(t *testing.T) {
	b := sample(date(2025, time.June, 2))
	points := bulletin.MapPoints(&b, testRegistry())

	// Q-102 has no coordinates and is dropped; Q-101 appears for both
	// shifts, Q-201 once.
	if len(points) != 3 {
		t.Fatalf("points = %d, want 3 (%+v)", len(points), points)
	}
	for _, pt := range points {
		if pt.Block == "Q-102" {
			t.Error("block without coordinates must be skipped")
		}
		if pt.Lat == 0 || pt.Lon == 0 {
			t.Errorf("point without coordinates leaked: %+v", pt)
		}
	}
}

func TestMapPointsUnspecifiedActivity(t *testing.T) {
	b := bulletin.Bulletin{
		Date: date(2025, time.June, 2),
		MorningTeams: []bulletin.Team{
			{Members: []string{"Ana Lima"}, Blocks: []string{"Q-101"}},
		},
	}
	points := bulletin.MapPoints(&b, testRegistry())
	if len(points) != 1 || points[0].Activity != "Não especificada" {
		t.Errorf("points = %+v, want one point with the unspecified label", points)
	}
}

// =============================================================================
// NAMES
// =============================================================================

func TestShortName(t *testing.T) {
	cases := map[string]string{
		"Ana Lima":                   "Ana Lima",
		"José Carlos Pereira Santos": "José Santos",
		"Madonna":                    "Madonna",
	}
	for full, want := range cases {
		if got := bulletin.ShortName(full); got != want {
			t.Errorf("ShortName(%q) = %q, want %q", full, got, want)
		}
	}
}
