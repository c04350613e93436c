package domain

import (
	"fmt"
	"strings"
	"time"
)

// Bar is a single OHLCV candle.
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// BarType is the requested candle granularity.
type BarType string

const (
	BarType1Min  BarType = "1min"
	BarType5Min  BarType = "5min"
	BarType15Min BarType = "15min"
	BarType30Min BarType = "30min"
	BarType1Hour BarType = "1hour"
	BarType4Hour BarType = "4hour"
	BarType1Day  BarType = "1day"
)

// Gateway aggregation units.
const (
	barUnitMinute = 2
	barUnitHour   = 3
	barUnitDay    = 4
)

// Wire returns the gateway {unit, unitNumber} pair for the granularity.
func (b BarType) Wire() (unit, unitNumber int) {
	switch b {
	case BarType5Min:
		return barUnitMinute, 5
	case BarType15Min:
		return barUnitMinute, 15
	case BarType30Min:
		return barUnitMinute, 30
	case BarType1Hour:
		return barUnitHour, 1
	case BarType4Hour:
		return barUnitHour, 4
	case BarType1Day:
		return barUnitDay, 1
	default:
		return barUnitMinute, 1
	}
}

// ParseBarType parses a case-insensitive bar type string. Empty input
// defaults to 1min.
func ParseBarType(s string) (BarType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "1min":
		return BarType1Min, nil
	case "5min":
		return BarType5Min, nil
	case "15min":
		return BarType15Min, nil
	case "30min":
		return BarType30Min, nil
	case "1hour":
		return BarType1Hour, nil
	case "4hour":
		return BarType4Hour, nil
	case "1day":
		return BarType1Day, nil
	default:
		return "", fmt.Errorf("%w: barType must be one of 1min, 5min, 15min, 30min, 1hour, 4hour, 1day; got %q", ErrValidation, s)
	}
}

// BarQuery selects a window of historical bars for one contract.
type BarQuery struct {
	ContractID string
	StartTime  time.Time
	EndTime    time.Time
	Type       BarType
}

// Validate checks the window bounds.
func (q BarQuery) Validate() error {
	if q.StartTime.IsZero() || q.EndTime.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", ErrValidation)
	}
	if !q.EndTime.After(q.StartTime) {
		return fmt.Errorf("%w: endTime must be after startTime", ErrValidation)
	}
	return nil
}
