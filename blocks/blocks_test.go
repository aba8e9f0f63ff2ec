package blocks_test

import (
	"strings"
	"testing"

	"github.com/vigia/fieldops/blocks"
)

func TestParseCSV(t *testing.T) {
	in := `code,district,lat,lon
Q-101,Centro,-23.1857,-45.8841
Q-102,Centro,,
Q-201,Jardim Satélite,-23.2237,-45.8908
`
	got, err := blocks.ParseCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("parsed %d blocks, want 3", len(got))
	}

	if !got[0].HasCoords || got[0].Lat != -23.1857 {
		t.Errorf("Q-101 coordinates not parsed: %+v", got[0])
	}
	if got[1].HasCoords {
		t.Errorf("Q-102 should have no coordinates: %+v", got[1])
	}
	if got[2].District != "Jardim Satélite" {
		t.Errorf("district = %q", got[2].District)
	}
}

func TestParseCSVWithoutHeader(t *testing.T) {
	in := "Q-101,Centro,-23.1857,-45.8841\n"
	got, err := blocks.ParseCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(got) != 1 || got[0].Code != "Q-101" {
		t.Errorf("got %+v, want single Q-101", got)
	}
}

func TestParseCSVRejectsBadCoordinates(t *testing.T) {
	in := "Q-101,Centro,abc,-45.88\n"
	if _, err := blocks.ParseCSV(strings.NewReader(in)); err == nil {
		t.Error("expected error for malformed latitude")
	}
}

func TestParseCSVRejectsEmptyCode(t *testing.T) {
	in := ",Centro,-23.18,-45.88\n"
	if _, err := blocks.ParseCSV(strings.NewReader(in)); err == nil {
		t.Error("expected error for empty block code")
	}
}

func TestIndexLaterDuplicateWins(t *testing.T) {
	idx := blocks.Index([]blocks.Block{
		{Code: "Q-101", District: "Centro"},
		{Code: "Q-101", District: "Centro", Lat: -23.1, Lon: -45.8, HasCoords: true},
	})
	if !idx["Q-101"].HasCoords {
		t.Error("re-imported block should overwrite the earlier entry")
	}
}
