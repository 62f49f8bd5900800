package reconcile

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupoandino/reportes/internal/contracts"
)

func day(d int) contracts.Day {
	return contracts.NewDay(2025, 9, d)
}

func TestMerge_JoinsSourcesByPersonAndDay(t *testing.T) {
	rows := []SourceRow{
		{
			Source: SourceOperations, PersonID: "jlopez", Day: day(5),
			Management: "GERENCIA M0 PP", Portfolio: "M0-PP",
			Assignment: contracts.N(50), TouchedBy11: contracts.N(48),
			Touches: contracts.N(170), LastTouch: contracts.NewClock(17, 30, 0),
		},
		{
			Source: SourceAttendance, PersonID: "jlopez", Day: day(5),
			FirstLogin: contracts.NewClock(7, 25, 0),
		},
		{
			Source: SourcePBX, PersonID: "jlopez", Day: day(5),
			CallsPBX: contracts.N(90), LastCall: contracts.NewClock(17, 10, 0),
		},
		{
			Source: SourceVOIP, PersonID: "jlopez", Day: day(5),
			CallsVOIP: contracts.N(70), LastCall: contracts.NewClock(17, 45, 0),
		},
		{
			Source: SourceRoster, PersonID: "jlopez", Day: day(5),
			Name: "Juana Lopez", Extension: "2104", Site: "Bogota",
		},
	}

	records := Merge(rows)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "jlopez", rec.PersonID)
	assert.Equal(t, "Juana Lopez", rec.Name)
	assert.Equal(t, "M0-PP", rec.Portfolio)
	assert.Equal(t, contracts.NewClock(7, 25, 0), rec.FirstLogin)
	assert.Equal(t, contracts.NewClock(17, 45, 0), rec.LastCall)
	assert.Equal(t, 160.0, rec.TotalCalls().Or(0))
	assert.ElementsMatch(t, rec.Sources,
		[]string{SourceOperations, SourceAttendance, SourcePBX, SourceVOIP, SourceRoster})
}

func TestMerge_CommutativeAcrossSourceOrder(t *testing.T) {
	rows := []SourceRow{
		{Source: SourceOperations, PersonID: "a", Day: day(5), Portfolio: "M1-2", Assignment: contracts.N(30)},
		{Source: SourceAttendance, PersonID: "a", Day: day(5), FirstLogin: contracts.NewClock(7, 58, 0)},
		{Source: SourcePBX, PersonID: "a", Day: day(5), CallsPBX: contracts.N(40)},
		{Source: SourcePBX, PersonID: "a", Day: day(5), CallsPBX: contracts.N(35)},
		{Source: SourceVOIP, PersonID: "a", Day: day(5), CallsVOIP: contracts.N(80)},
		{Source: SourceRoster, PersonID: "a", Day: day(5), Name: "Ana", Extension: "2001"},
		{Source: SourceOperations, PersonID: "b", Day: day(5), Portfolio: "M0-VP"},
	}

	want := Merge(rows)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := make([]SourceRow, len(rows))
		copy(shuffled, rows)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, Merge(shuffled))
	}
}

func TestMerge_LoneSourceStillProducesRecord(t *testing.T) {
	rows := []SourceRow{
		{Source: SourcePBX, PersonID: "x", Day: day(3), CallsPBX: contracts.N(12)},
	}

	records := Merge(rows)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "x", rec.PersonID)
	assert.True(t, rec.FirstLogin.IsZero())
	assert.False(t, rec.Assignment.Known)
	assert.True(t, rec.TotalCalls().Known)
	assert.Equal(t, 12.0, rec.TotalCalls().Or(0))
}

func TestMerge_DropsUnkeyedRows(t *testing.T) {
	rows := []SourceRow{
		{Source: SourceOperations, PersonID: "", Day: day(3)},
		{Source: SourceOperations, PersonID: "y", Day: contracts.Day{}},
		{Source: SourceOperations, PersonID: "y", Day: day(3)},
	}
	assert.Len(t, Merge(rows), 1)
}

func TestExcludeListed(t *testing.T) {
	rows := []SourceRow{
		{Source: SourceOperations, PersonID: "rboot", Day: day(1)},
		{Source: SourceOperations, PersonID: "M1-2rboot-RISKAI", Day: day(1)},
		{Source: SourceOperations, PersonID: "real", Name: "Karol Sanchez", Day: day(1)},
		{Source: SourceOperations, PersonID: "real2", Name: "Ana Diaz", Day: day(1)},
		{Source: SourceAttendance, PersonID: "rboot", Day: day(1)},
	}

	kept := ExcludeListed(rows)
	require.Len(t, kept, 2)
	assert.Equal(t, "real2", kept[0].PersonID)
	assert.Equal(t, SourceAttendance, kept[1].Source)
}

func TestCallFilters(t *testing.T) {
	assert.True(t, ValidPBXExtension("2104"))
	assert.False(t, ValidPBXExtension("30001"))
	assert.False(t, ValidPBXExtension("troncal"))
	assert.True(t, EffectivePBX("ANSWERED"))
	assert.False(t, EffectivePBX("NO ANSWER"))

	assert.True(t, ValidRingState("Answered"))
	assert.True(t, ValidRingState("no_answer"))
	assert.False(t, ValidRingState("ringing"))
	assert.True(t, EffectiveRing("answered"))
	assert.False(t, EffectiveRing("busy"))
}
