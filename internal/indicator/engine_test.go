package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupoandino/reportes/internal/contracts"
)

func engine() *Engine {
	return NewEngine(DefaultGoals(), Policy{CountPauseInfraction: true})
}

func fullRecord() *contracts.OperationalRecord {
	// 15th is a payday; 2025-09-15 is a Monday.
	return &contracts.OperationalRecord{
		PersonID:    "jlopez",
		Day:         contracts.NewDay(2025, 9, 15),
		Portfolio:   "M0-PP",
		FirstLogin:  contracts.NewClock(7, 15, 0),
		LastTouch:   contracts.NewClock(19, 5, 0),
		Assignment:  contracts.N(60),
		TouchedBy11: contracts.N(50),
		Touches:     contracts.N(130),
		CallsPBX:    contracts.N(100),
		CallsVOIP:   contracts.N(60),
		PctAccounts: contracts.N(0.40),
	}
}

func TestEvaluate_AllSatisfied(t *testing.T) {
	set := engine().Evaluate(fullRecord())

	assert.Equal(t, contracts.SchedulePayday, set.Schedule)
	assert.Equal(t, RewardLogin, set.Login)
	assert.Equal(t, RewardLastContact, set.LastContact)
	assert.Equal(t, RewardMidDay, set.MidDay)
	assert.Equal(t, RewardTouches, set.Touches)
	assert.Equal(t, RewardCalls, set.Calls)
	assert.Equal(t, RewardPause, set.Pause)
	assert.InDelta(t, 1.0, set.Total, 1e-9)
	assert.Equal(t, 0, set.Infractions)

	require.True(t, set.Goal.Known)
	assert.InDelta(t, 0.37, set.Goal.Value, 1e-9)
	require.True(t, set.Execution.Known)
	assert.InDelta(t, 0.40/0.37, set.Execution.Value, 1e-9)
}

func TestEvaluate_LoginBoundary(t *testing.T) {
	tests := []struct {
		name  string
		day   contracts.Day
		login contracts.Clock
		want  float64
	}{
		{"payday just under", contracts.NewDay(2025, 9, 15), contracts.NewClock(7, 29, 0), RewardLogin},
		{"payday exact", contracts.NewDay(2025, 9, 15), contracts.NewClock(7, 30, 0), RewardLogin},
		{"payday just over", contracts.NewDay(2025, 9, 15), contracts.NewClock(7, 31, 0), 0},
		{"normal just under", contracts.NewDay(2025, 9, 18), contracts.NewClock(7, 59, 0), RewardLogin},
		{"normal just over", contracts.NewDay(2025, 9, 18), contracts.NewClock(8, 1, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := fullRecord()
			rec.Day = tt.day
			rec.FirstLogin = tt.login
			assert.Equal(t, tt.want, engine().Evaluate(rec).Login)
		})
	}
}

func TestEvaluate_LastContact(t *testing.T) {
	tests := []struct {
		name  string
		day   contracts.Day
		touch contracts.Clock
		want  float64
	}{
		// 2025-09-20 is a Saturday; Saturday wins over schedule.
		{"saturday early close ok", contracts.NewDay(2025, 9, 20), contracts.NewClock(12, 25, 0), RewardLastContact},
		{"saturday too early", contracts.NewDay(2025, 9, 20), contracts.NewClock(12, 10, 0), 0},
		{"payday needs evening", contracts.NewDay(2025, 9, 15), contracts.NewClock(18, 55, 0), RewardLastContact},
		{"payday left early", contracts.NewDay(2025, 9, 15), contracts.NewClock(18, 45, 0), 0},
		{"normal evening", contracts.NewDay(2025, 9, 18), contracts.NewClock(17, 21, 0), RewardLastContact},
		{"normal left early", contracts.NewDay(2025, 9, 18), contracts.NewClock(17, 19, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := fullRecord()
			rec.Day = tt.day
			rec.LastTouch = tt.touch
			assert.Equal(t, tt.want, engine().Evaluate(rec).LastContact)
		})
	}
}

func TestEvaluate_MidDayManagement(t *testing.T) {
	tests := []struct {
		name       string
		assignment contracts.Number
		touched    contracts.Number
		want       float64
	}{
		{"large book needs 45", contracts.N(100), contracts.N(45), RewardMidDay},
		{"large book under 45", contracts.N(100), contracts.N(44), 0},
		{"small book scales", contracts.N(40), contracts.N(36), RewardMidDay},
		{"small book under scaled", contracts.N(40), contracts.N(35), 0},
		{"missing assignment violates", contracts.Number{}, contracts.N(45), 0},
		{"missing touched violates", contracts.N(100), contracts.Number{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := fullRecord()
			rec.Assignment = tt.assignment
			rec.TouchedBy11 = tt.touched
			assert.Equal(t, tt.want, engine().Evaluate(rec).MidDay)
		})
	}
}

func TestEvaluate_TouchesThresholdByPortfolio(t *testing.T) {
	rec := fullRecord()
	rec.Portfolio = "M0-VP"
	rec.Touches = contracts.N(125)
	assert.Equal(t, RewardTouches, engine().Evaluate(rec).Touches)

	rec.Portfolio = "M1-1A"
	assert.Equal(t, 0.0, engine().Evaluate(rec).Touches)

	rec.Touches = contracts.N(160)
	assert.Equal(t, RewardTouches, engine().Evaluate(rec).Touches)
}

func TestEvaluate_CallsAcrossSources(t *testing.T) {
	rec := fullRecord()
	rec.CallsPBX = contracts.N(100)
	rec.CallsVOIP = contracts.N(49)
	assert.Equal(t, 0.0, engine().Evaluate(rec).Calls)

	rec.CallsVOIP = contracts.N(50)
	assert.Equal(t, RewardCalls, engine().Evaluate(rec).Calls)

	rec.CallsPBX = contracts.Number{}
	rec.CallsVOIP = contracts.Number{}
	assert.Equal(t, 0.0, engine().Evaluate(rec).Calls)
}

func TestEvaluate_M12GoalFromCapital(t *testing.T) {
	rec := fullRecord()
	rec.Portfolio = "M1-2"
	rec.AssignedCapital = contracts.N(10000000)
	rec.PctRecovered = contracts.N(0.06)

	set := engine().Evaluate(rec)
	require.True(t, set.Goal.Known)
	assert.InDelta(t, 0.05, set.Goal.Value, 1e-9)
	require.True(t, set.Execution.Known)
	assert.InDelta(t, 0.06/0.05, set.Execution.Value, 1e-9)

	rec.AssignedCapital = contracts.Number{}
	set = engine().Evaluate(rec)
	assert.False(t, set.Goal.Known)
	assert.False(t, set.Execution.Known)
}

func TestEvaluate_UnknownPortfolioHasNoGoal(t *testing.T) {
	rec := fullRecord()
	rec.Portfolio = "Gerencia Castigos"
	set := engine().Evaluate(rec)
	assert.False(t, set.Goal.Known)
	assert.False(t, set.Execution.Known)
}

func TestEvaluate_InfractionsCountZeros(t *testing.T) {
	rec := fullRecord()
	rec.FirstLogin = contracts.Clock{}
	rec.Touches = contracts.N(10)

	set := engine().Evaluate(rec)
	assert.Equal(t, 2, set.Infractions)
	assert.InDelta(t, RewardLastContact+RewardMidDay+RewardCalls+RewardPause, set.Total, 1e-9)
}

func TestEvaluate_Idempotent(t *testing.T) {
	e := engine()
	rec := fullRecord()
	first := e.Evaluate(rec)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, e.Evaluate(rec))
	}
}

func TestQualityEligible(t *testing.T) {
	e := engine()
	rec := fullRecord()
	assert.True(t, e.QualityEligible(rec))

	rec.Assignment = contracts.N(5)
	assert.False(t, e.QualityEligible(rec))

	rec.Assignment = contracts.Number{}
	assert.False(t, e.QualityEligible(rec))
}
