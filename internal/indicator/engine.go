// Package indicator computes the per-record compliance indicators and
// their composite score.
package indicator

import (
	"math"
	"strings"
	"time"

	"github.com/grupoandino/reportes/internal/contracts"
)

// Reward weights credited when an indicator is satisfied.
const (
	RewardLogin       = 0.15
	RewardLastContact = 0.15
	RewardMidDay      = 0.15
	RewardPause       = 0.15
	RewardTouches     = 0.20
	RewardCalls       = 0.20
)

// Rule thresholds.
const (
	callsMin        = 150
	touchesMinM0    = 120
	touchesMinOther = 160
	midDayCap       = 45
	midDayFactor    = 0.9

	// Records at or under this assignment never enter the quality
	// report.
	minQualityAssignment = 5
)

// Schedule cutoffs.
var (
	paydayLoginCutoff = contracts.NewClock(7, 30, 0)
	normalLoginCutoff = contracts.NewClock(8, 0, 0)

	saturdayLastTouchMin = contracts.NewClock(12, 20, 0)
	paydayLastTouchMin   = contracts.NewClock(18, 50, 0)
	normalLastTouchMin   = contracts.NewClock(17, 20, 0)
)

// Policy tunes engine behavior per run.
type Policy struct {
	// CountPauseInfraction keeps the pause indicator inside the
	// zero-count range, matching the emitted COUNTIF span.
	CountPauseInfraction bool
}

// Engine evaluates indicator sets against the goal tables. Evaluation
// is pure; the same record always yields the same set.
type Engine struct {
	goals  *GoalTable
	policy Policy
}

// NewEngine creates an Engine.
func NewEngine(goals *GoalTable, policy Policy) *Engine {
	return &Engine{goals: goals, policy: policy}
}

// Goals exposes the engine's goal table for sheet rendering.
func (e *Engine) Goals() *GoalTable {
	return e.goals
}

// CountsPause reports whether the pause indicator counts toward the
// infraction total.
func (e *Engine) CountsPause() bool {
	return e.policy.CountPauseInfraction
}

// QualityEligible reports whether a record carries enough assignment
// to appear in the quality report.
func (e *Engine) QualityEligible(rec *contracts.OperationalRecord) bool {
	return rec.Assignment.Known && rec.Assignment.Value > minQualityAssignment
}

// Evaluate computes the indicator set for one record. Absent inputs
// violate their indicator rather than erroring.
func (e *Engine) Evaluate(rec *contracts.OperationalRecord) contracts.IndicatorSet {
	sched := rec.Day.Schedule()
	set := contracts.IndicatorSet{
		Schedule: sched,
		Pause:    RewardPause,
	}

	if rec.FirstLogin.Known {
		cutoff := normalLoginCutoff
		if sched == contracts.SchedulePayday {
			cutoff = paydayLoginCutoff
		}
		if rec.FirstLogin.Seconds() <= cutoff.Seconds() {
			set.Login = RewardLogin
		}
	}

	if rec.LastTouch.Known {
		min := normalLastTouchMin
		switch {
		case rec.Day.Weekday() == time.Saturday:
			min = saturdayLastTouchMin
		case sched == contracts.SchedulePayday:
			min = paydayLastTouchMin
		}
		if rec.LastTouch.Seconds() >= min.Seconds() {
			set.LastContact = RewardLastContact
		}
	}

	if rec.Assignment.Known && rec.TouchedBy11.Known {
		need := float64(midDayCap)
		if rec.Assignment.Value < midDayCap {
			need = math.Round(rec.Assignment.Value * midDayFactor)
		}
		if rec.TouchedBy11.Value >= need {
			set.MidDay = RewardMidDay
		}
	}

	if rec.Touches.Known {
		need := float64(touchesMinOther)
		if strings.Contains(rec.Portfolio, "M0") {
			need = touchesMinM0
		}
		if rec.Touches.Value >= need {
			set.Touches = RewardTouches
		}
	}

	if calls := rec.TotalCalls(); calls.Known && calls.Value >= callsMin {
		set.Calls = RewardCalls
	}

	set.Goal = e.goals.Lookup(rec.Portfolio, sched, rec.AssignedCapital)
	pct := rec.PctRecovered
	if rec.Portfolio == "M0-PP" {
		pct = rec.PctAccounts
	}
	if set.Goal.Known && set.Goal.Value > 0 && pct.Known {
		set.Execution = contracts.N(pct.Value / set.Goal.Value)
	}

	set.Total = set.Login + set.LastContact + set.MidDay + set.Calls + set.Touches + set.Pause
	set.Infractions = countZeros(set.Login, set.LastContact, set.MidDay, set.Calls, set.Touches)
	if e.policy.CountPauseInfraction && set.Pause == 0 {
		set.Infractions++
	}
	return set
}

func countZeros(vs ...float64) int {
	n := 0
	for _, v := range vs {
		if v == 0 {
			n++
		}
	}
	return n
}
