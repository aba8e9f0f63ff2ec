/*
stats.go - Productivity aggregation over a range of bulletins

PURPOSE:
  Backs the dashboard: which blocks were worked the most, which activities
  dominate, who worked how many shifts. Ratios use decimal so percentage
  columns add up the way an operator expects instead of drifting through
  float rounding.
*/
package bulletin

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vigia/fieldops/dates"
)

// CountRow is one aggregation bucket, ready for a bar chart.
type CountRow struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// ShareRow carries a bucket plus its percentage of the whole, for the
// activity pie chart.
type ShareRow struct {
	Key     string          `json:"key"`
	Count   int             `json:"count"`
	Percent decimal.Decimal `json:"percent"`
}

// Productivity is the aggregate over all bulletins in a period.
type Productivity struct {
	Period      dates.Period    `json:"period"`
	Bulletins   int             `json:"bulletins"`
	Blocks      []CountRow      `json:"blocks"`     // times each block was worked, descending
	Activities  []ShareRow      `json:"activities"` // activity executions with share of total
	Members     []CountRow      `json:"members"`    // shifts worked per member, descending
	AvgTeamSize decimal.Decimal `json:"avg_team_size"`
}

var hundred = decimal.NewFromInt(100)

// Analyze aggregates the bulletins whose date falls inside the period.
// Every (team, block) pair counts one block work, every (team, activity)
// pair one execution, every (team, member) pair one member shift.
func Analyze(bulletins []Bulletin, period dates.Period) Productivity {
	p := Productivity{Period: period}

	blockCounts := map[string]int{}
	activityCounts := map[string]int{}
	memberCounts := map[string]int{}
	teamCount := 0
	memberTotal := 0

	for i := range bulletins {
		b := &bulletins[i]
		if !period.Contains(b.Date) {
			continue
		}
		p.Bulletins++

		for _, s := range []Shift{ShiftMorning, ShiftAfternoon} {
			for _, team := range b.Teams(s) {
				teamCount++
				memberTotal += len(team.Members)
				for _, block := range team.Blocks {
					blockCounts[block]++
				}
				for _, act := range team.Activities {
					activityCounts[act]++
				}
				for _, m := range team.Members {
					memberCounts[ShortName(m)]++
				}
			}
		}
	}

	p.Blocks = sortedRows(blockCounts)
	p.Members = sortedRows(memberCounts)
	p.Activities = shares(activityCounts)

	if teamCount > 0 {
		p.AvgTeamSize = decimal.NewFromInt(int64(memberTotal)).
			Div(decimal.NewFromInt(int64(teamCount))).Round(2)
	}
	return p
}

// TopBlocks returns the n most-worked blocks.
func (p Productivity) TopBlocks(n int) []CountRow {
	if n > len(p.Blocks) {
		n = len(p.Blocks)
	}
	return p.Blocks[:n]
}

func sortedRows(counts map[string]int) []CountRow {
	rows := make([]CountRow, 0, len(counts))
	for k, c := range counts {
		rows = append(rows, CountRow{Key: k, Count: c})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Key < rows[j].Key
	})
	return rows
}

func shares(counts map[string]int) []ShareRow {
	total := 0
	for _, c := range counts {
		total += c
	}
	base := sortedRows(counts)
	rows := make([]ShareRow, 0, len(base))
	for _, r := range base {
		row := ShareRow{Key: r.Key, Count: r.Count}
		if total > 0 {
			row.Percent = decimal.NewFromInt(int64(r.Count)).
				Div(decimal.NewFromInt(int64(total))).Mul(hundred).Round(1)
		}
		rows = append(rows, row)
	}
	return rows
}
