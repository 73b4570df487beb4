package domain

import "time"

// Fill thresholds shared by status and marker colour.
const (
	FullThreshold  = 70.0
	EmptyThreshold = 30.0
)

// Sentinel fill levels reported by faulty sensors.
const (
	FillNegative    = -20.0
	FillOverfilled  = 150.0
	FillSensorError = -999.0
	FillUnreachable = 9999.0
)

// A bin is considered silent after this long without an update.
const NoSignalAfter = 24 * time.Hour

type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityWarning  Severity = "Warning"
)

// Represents a waste-collection container with a fill level and location.
// ID is the storage key; BinID is the human-facing identifier (e.g. BIN001).
type Bin struct {
	ID          int64
	BinID       string
	FillLevel   float64
	Lat         float64
	Lon         float64
	OrganicPct  float64
	PlasticPct  float64
	MetalPct    float64
	LastUpdated time.Time
}

func (b *Bin) Point() Point { return Point{Lat: b.Lat, Lon: b.Lon} }

// Convert the bin into a route stop.
func (b *Bin) Stop() Stop {
	return Stop{ID: b.BinID, Point: b.Point(), FillLevel: b.FillLevel}
}

func (b *Bin) Status() string {
	if b.FillLevel > FullThreshold {
		return "full"
	}
	if b.FillLevel < EmptyThreshold {
		return "empty"
	}
	return "moderate"
}

func (b *Bin) MarkerColor() string {
	if b.FillLevel > FullThreshold {
		return "red"
	}
	if b.FillLevel < EmptyThreshold {
		return "green"
	}
	return "orange"
}

// Reports whether the fill level is a real percentage rather than a sensor fault.
func (b *Bin) HasValidFill() bool {
	return b.FillLevel >= 0 && b.FillLevel <= 100
}

// SupportIssue reports why a bin needs technical support.
// Sentinel fill levels are checked first; a stale timestamp comes last.
func (b *Bin) SupportIssue(now time.Time) (reason string, severity Severity, ok bool) {
	switch b.FillLevel {
	case FillNegative:
		return "Negative fill", SeverityCritical, true
	case FillOverfilled:
		return "Overfilled", SeverityWarning, true
	case FillSensorError:
		return "Sensor Error / Poor Data Format", SeverityCritical, true
	case FillUnreachable:
		return "Unreachable / 404", SeverityCritical, true
	}

	if !b.LastUpdated.IsZero() && now.Sub(b.LastUpdated) > NoSignalAfter {
		return "No Signal", SeverityWarning, true
	}

	return "", "", false
}

// A bin and its distance from a query point.
type BinDistance struct {
	Bin        *Bin
	DistanceKm float64
}
