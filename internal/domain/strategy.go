package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownTransport = errors.New("unknown transport mode")

// Strategy selects the ordering heuristic.
type Strategy string

const (
	StrategyTime     Strategy = "time"
	StrategyDistance Strategy = "distance"
	StrategyBalanced Strategy = "balanced"
)

// Strategies lists every supported strategy in a stable order.
var Strategies = []Strategy{StrategyTime, StrategyDistance, StrategyBalanced}

func (s Strategy) Valid() bool {
	switch s {
	case StrategyTime, StrategyDistance, StrategyBalanced:
		return true
	}
	return false
}

// TransportMode picks the average travel speed used by the schedule builder.
type TransportMode string

const (
	TransportCar     TransportMode = "car"
	TransportPublic  TransportMode = "public"
	TransportWalking TransportMode = "walking"
)

var transportSpeeds = map[TransportMode]float64{
	TransportCar:     60,
	TransportPublic:  30,
	TransportWalking: 5,
}

// SpeedKmh returns the average speed for the mode; unknown modes travel by car.
func (m TransportMode) SpeedKmh() float64 {
	if v, ok := transportSpeeds[m]; ok {
		return v
	}
	return transportSpeeds[TransportCar]
}

func ParseTransportMode(s string) (TransportMode, error) {
	m := TransportMode(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := transportSpeeds[m]; !ok {
		return "", fmt.Errorf("parse transport mode %q: %w", s, ErrUnknownTransport)
	}
	return m, nil
}
