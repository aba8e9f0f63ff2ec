package bulletin

// Map view support: flattens one bulletin into per-(block, activity) points
// using the block registry's coordinates. Geocoding itself lives upstream;
// this only joins codes against already-known coordinates.

import (
	"strings"

	"github.com/vigia/fieldops/blocks"
)

// MapPoint is one plotted activity on the day map.
type MapPoint struct {
	Block    string  `json:"block"`
	District string  `json:"district"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Activity string  `json:"activity"`
	Team     string  `json:"team"`
	Shift    Shift   `json:"shift"`
}

const activityUnspecified = "Não especificada"

// MapPoints expands every team of both shifts into (block, activity)
// points. Teams without activities still plot under "Não especificada";
// blocks missing from the registry or without coordinates are skipped, as
// the map cannot place them.
func MapPoints(b *Bulletin, registry map[string]blocks.Block) []MapPoint {
	var points []MapPoint

	for _, s := range []Shift{ShiftMorning, ShiftAfternoon} {
		for _, team := range b.Teams(s) {
			names := make([]string, 0, len(team.Members))
			for _, m := range team.Members {
				names = append(names, ShortName(m))
			}
			label := strings.Join(names, ", ")

			activities := team.Activities
			if len(activities) == 0 {
				activities = []string{activityUnspecified}
			}

			for _, code := range team.Blocks {
				blk, ok := registry[code]
				if !ok || !blk.HasCoords {
					continue
				}
				for _, act := range activities {
					points = append(points, MapPoint{
						Block:    blk.Code,
						District: blk.District,
						Lat:      blk.Lat,
						Lon:      blk.Lon,
						Activity: act,
						Team:     label,
						Shift:    s,
					})
				}
			}
		}
	}
	return points
}
