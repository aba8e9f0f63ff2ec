/*
Package blocks holds the registry of quarteirões (city blocks) that field
teams are assigned to.

PURPOSE:
  Bulletins reference blocks by code; the map view needs coordinates for
  them. The registry is seeded from the same flat CSV the field office
  maintains (code, district, lat, lon) and persisted through the store.

CSV FORMAT:
  code,district,lat,lon
  Q-101,Centro,-23.1857,-45.8841
  Q-102,Centro,,

  Coordinates are optional; blocks without them are listed but skipped by
  the map join.
*/
package blocks

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Block is one mapped city block.
type Block struct {
	Code      string
	District  string
	Lat       float64
	Lon       float64
	HasCoords bool
}

// ParseCSV reads the registry CSV. The first row is treated as a header when
// it does not parse as data. Blank lines are skipped; a malformed coordinate
// fails the whole import so a typo cannot silently drop a block from the map.
func ParseCSV(r io.Reader) ([]Block, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []Block
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("lendo CSV de quarteirões: %w", err)
		}
		line++

		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "code") {
			continue
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("linha %d: esperado ao menos code,district", line)
		}

		b := Block{
			Code:     strings.TrimSpace(rec[0]),
			District: strings.TrimSpace(rec[1]),
		}
		if b.Code == "" {
			return nil, fmt.Errorf("linha %d: código de quarteirão vazio", line)
		}

		if len(rec) >= 4 && strings.TrimSpace(rec[2]) != "" && strings.TrimSpace(rec[3]) != "" {
			lat, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
			if err != nil {
				return nil, fmt.Errorf("linha %d: latitude inválida: %w", line, err)
			}
			lon, err := strconv.ParseFloat(strings.TrimSpace(rec[3]), 64)
			if err != nil {
				return nil, fmt.Errorf("linha %d: longitude inválida: %w", line, err)
			}
			b.Lat, b.Lon, b.HasCoords = lat, lon, true
		}

		out = append(out, b)
	}
	return out, nil
}

// Index builds a code-keyed lookup. Later duplicates win, matching the
// import semantics (re-importing a sheet updates coordinates in place).
func Index(list []Block) map[string]Block {
	idx := make(map[string]Block, len(list))
	for _, b := range list {
		idx[b.Code] = b
	}
	return idx
}
