package timeparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupoandino/reportes/internal/contracts"
)

func TestParseDay_Formats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  contracts.Day
		ok    bool
	}{
		{"day first slash", "06/09/2025", contracts.NewDay(2025, 9, 6), true},
		{"iso", "2025-09-06", contracts.NewDay(2025, 9, 6), true},
		{"iso with time", "2025-09-06 07:28:24", contracts.NewDay(2025, 9, 6), true},
		{"iso with T", "2025-09-06T07:28:24", contracts.NewDay(2025, 9, 6), true},
		{"day first dash", "06-09-2025", contracts.NewDay(2025, 9, 6), true},
		{"year first slash", "2025/09/06", contracts.NewDay(2025, 9, 6), true},
		{"dotted", "06.09.2025", contracts.NewDay(2025, 9, 6), true},
		{"month first fallback", "09/25/2025", contracts.NewDay(2025, 9, 25), true},
		{"day first wins when ambiguous", "06/05/2025", contracts.NewDay(2025, 5, 6), true},
		{"compact", "20250906", contracts.NewDay(2025, 9, 6), true},
		{"spanish long form", "8 de Septiembre de 2025", contracts.NewDay(2025, 9, 8), true},
		{"spanish no second de", "8 de septiembre 2025", contracts.NewDay(2025, 9, 8), true},
		{"serial", "45908", contracts.NewDay(2025, 9, 8), true},
		{"serial with float suffix", "45908.0", contracts.NewDay(2025, 9, 8), true},
		{"small integer is not a serial", "1234", contracts.Day{}, false},
		{"empty", "", contracts.Day{}, false},
		{"garbage", "sin fecha", contracts.Day{}, false},
		{"impossible day", "31/02/2025", contracts.Day{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDay(tt.input)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDay_RoundTrip(t *testing.T) {
	days := []contracts.Day{
		contracts.NewDay(2025, 1, 2),
		contracts.NewDay(2025, 8, 14),
		contracts.NewDay(2025, 8, 15),
		contracts.NewDay(2025, 12, 31),
	}
	for _, d := range days {
		got, ok := ParseDay(d.String())
		require.True(t, ok, d.String())
		assert.Equal(t, d, got)
	}
}

func TestDay_Schedule(t *testing.T) {
	tests := []struct {
		day  contracts.Day
		want contracts.Schedule
	}{
		{contracts.NewDay(2025, 8, 15), contracts.SchedulePayday},
		{contracts.NewDay(2025, 8, 14), contracts.ScheduleNormal},
		{contracts.NewDay(2025, 8, 1), contracts.SchedulePayday},
		{contracts.NewDay(2025, 8, 2), contracts.SchedulePayday},
		{contracts.NewDay(2025, 8, 17), contracts.SchedulePayday},
		{contracts.NewDay(2025, 8, 30), contracts.SchedulePayday},
		{contracts.NewDay(2025, 8, 31), contracts.SchedulePayday},
		{contracts.NewDay(2025, 8, 18), contracts.ScheduleNormal},
		{contracts.Day{}, contracts.ScheduleUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.day.Schedule(), tt.day.String())
	}
}

func TestParseClock_Formats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  contracts.Clock
		ok    bool
	}{
		{"12h with seconds", "7:29:00 AM", contracts.NewClock(7, 29, 0), true},
		{"12h afternoon", "5:21:09 PM", contracts.NewClock(17, 21, 9), true},
		{"12h no seconds", "7:29 AM", contracts.NewClock(7, 29, 0), true},
		{"12h no space", "7:29:00AM", contracts.NewClock(7, 29, 0), true},
		{"lowercase dotted", "7:29:00 a.m.", contracts.NewClock(7, 29, 0), true},
		{"24h with seconds", "17:21:09", contracts.NewClock(17, 21, 9), true},
		{"24h no seconds", "07:29", contracts.NewClock(7, 29, 0), true},
		{"timestamp keeps clock", "2025-09-06 07:28:24", contracts.NewClock(7, 28, 24), true},
		{"noon", "12:00:00 PM", contracts.NewClock(12, 0, 0), true},
		{"midnight", "12:00:00 AM", contracts.NewClock(0, 0, 0), true},
		{"day fraction", "0.3125", contracts.NewClock(7, 30, 0), true},
		{"empty", "", contracts.Clock{}, false},
		{"garbage", "sin registro", contracts.Clock{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseClock(tt.input)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseClock_RoundTrip(t *testing.T) {
	clocks := []contracts.Clock{
		contracts.NewClock(0, 0, 0),
		contracts.NewClock(7, 30, 0),
		contracts.NewClock(12, 20, 0),
		contracts.NewClock(18, 50, 59),
		contracts.NewClock(23, 59, 59),
	}
	for _, c := range clocks {
		got, ok := ParseClock(c.String())
		require.True(t, ok, c.String())
		assert.Equal(t, c, got)
	}
}
