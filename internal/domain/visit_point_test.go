package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClientLevel(t *testing.T) {
	cases := []struct {
		in   string
		want ClientLevel
	}{
		{"VIP", LevelVIP},
		{" vip ", LevelVIP},
		{"Standard", LevelStandard},
		{"Standart", LevelStandard},
		{"стандарт", LevelStandard},
		{"Важный", LevelVIP},
		{"обычный", LevelStandard},
	}
	for _, tc := range cases {
		got, err := ParseClientLevel(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := ParseClientLevel("gold")
	assert.True(t, errors.Is(err, ErrUnknownLevel))
}

func TestVisitPointCanVisitBeforeLunch(t *testing.T) {
	// lunchStart - workStart == duration is visitable.
	p := VisitPoint{WorkStart: 540, LunchStart: 600, Duration: 60}
	assert.True(t, p.CanVisitBeforeLunch())

	p.Duration = 61
	assert.False(t, p.CanVisitBeforeLunch())

	p.Duration = 0
	assert.Equal(t, DefaultVisitDuration, p.VisitDuration())
	assert.True(t, p.CanVisitBeforeLunch())
}

func TestTransportModeSpeed(t *testing.T) {
	assert.Equal(t, 60.0, TransportCar.SpeedKmh())
	assert.Equal(t, 30.0, TransportPublic.SpeedKmh())
	assert.Equal(t, 5.0, TransportWalking.SpeedKmh())
	assert.Equal(t, 60.0, TransportMode("bicycle").SpeedKmh())

	m, err := ParseTransportMode(" Walking ")
	require.NoError(t, err)
	assert.Equal(t, TransportWalking, m)

	_, err = ParseTransportMode("boat")
	assert.ErrorIs(t, err, ErrUnknownTransport)
}

func TestScheduleErr(t *testing.T) {
	s := &Schedule{Entries: []ScheduleEntry{
		{PointID: "a", Status: StatusNormal, ArrivalTime: time.Now()},
	}}
	assert.NoError(t, s.Err())

	s.Entries = append(s.Entries, ScheduleEntry{PointID: "b", Status: StatusUnplaceable, VisitMinutes: 900})
	err := s.Err()
	require.Error(t, err)

	var pe *PlacementError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "b", pe.PointID)
	assert.Equal(t, 900, pe.Duration)
}
