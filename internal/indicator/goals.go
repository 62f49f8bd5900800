package indicator

import (
	"math"

	"github.com/grupoandino/reportes/internal/contracts"
)

// m12CapitalNumerator sizes the M1-2 goal from assigned capital
// instead of the fixed table.
const m12CapitalNumerator = 500000

// GoalTable holds the recovery goal percentage per portfolio label,
// split by schedule.
type GoalTable struct {
	payday map[string]float64
	normal map[string]float64
}

// DefaultGoals returns the current goal tables.
func DefaultGoals() *GoalTable {
	return &GoalTable{
		payday: map[string]float64{
			"M0-PP":     0.37,
			"M0-VP":     0.62,
			"M1-1A":     0.09,
			"M1-1B":     0.025,
			"M0-PN":     0.52,
			"M0-FRS":    0.52,
			"M0-BT":     0.52,
			"M0-1 PP":   0.10,
			"M1-1A-FRS": 0.08,
			"M1-1A-BT":  0.08,
			"M1-1A-PN":  0.08,
		},
		normal: map[string]float64{
			"M0-PP":     0.36,
			"M0-VP":     0.58,
			"M1-1A":     0.09,
			"M1-1B":     0.025,
			"M0-PN":     0.52,
			"M0-FRS":    0.52,
			"M0-BT":     0.52,
			"M0-1 PP":   0.10,
			"M1-1A-FRS": 0.08,
			"M1-1A-BT":  0.08,
			"M1-1A-PN":  0.08,
		},
	}
}

// Lookup resolves the goal for a portfolio on a schedule. The M1-2
// portfolio derives its goal from assigned capital; unknown labels get
// an absent goal.
func (g *GoalTable) Lookup(portfolio string, schedule contracts.Schedule, assignedCapital contracts.Number) contracts.Number {
	if portfolio == "M1-2" {
		if !assignedCapital.Known || assignedCapital.Value <= 0 {
			return contracts.Number{}
		}
		return contracts.N(round4(m12CapitalNumerator / assignedCapital.Value))
	}

	table := g.normal
	if schedule == contracts.SchedulePayday {
		table = g.payday
	}
	if v, ok := table[portfolio]; ok {
		return contracts.N(v)
	}
	return contracts.Number{}
}

// Rows lists the (label, goal) pairs for one schedule in a stable
// order, for rendering the lookup sheet.
func (g *GoalTable) Rows(schedule contracts.Schedule) [][2]interface{} {
	labels := []string{
		"M0-PP", "M0-VP", "M1-1A", "M1-1B", "M0-PN", "M0-FRS", "M0-BT",
		"M0-1 PP", "M1-1A-FRS", "M1-1A-BT", "M1-1A-PN",
	}
	table := g.normal
	if schedule == contracts.SchedulePayday {
		table = g.payday
	}
	rows := make([][2]interface{}, 0, len(labels))
	for _, l := range labels {
		rows = append(rows, [2]interface{}{l, table[l]})
	}
	return rows
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
