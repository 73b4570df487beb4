package domain

import "time"

// Composition used when a reading creates a bin that does not exist yet.
const (
	DefaultOrganicPct = 40.0
	DefaultPlasticPct = 35.0
	DefaultMetalPct   = 25.0
)

// A single fill-level report from a bin sensor.
// Composition fields are optional; nil keeps the bin's current value.
type SensorReading struct {
	ID         int64
	SensorID   string
	BinID      string
	FillLevel  float64
	Lat        *float64
	Lon        *float64
	OrganicPct *float64
	PlasticPct *float64
	MetalPct   *float64
	RecordedAt time.Time
}

// Apply the reading to an existing bin, or build a new one when b is nil.
func (r *SensorReading) Apply(b *Bin, now time.Time) *Bin {
	if b == nil {
		b = &Bin{
			BinID:      r.BinID,
			OrganicPct: DefaultOrganicPct,
			PlasticPct: DefaultPlasticPct,
			MetalPct:   DefaultMetalPct,
		}
	}

	b.FillLevel = r.FillLevel
	if r.Lat != nil {
		b.Lat = *r.Lat
	}
	if r.Lon != nil {
		b.Lon = *r.Lon
	}
	if r.OrganicPct != nil {
		b.OrganicPct = *r.OrganicPct
	}
	if r.PlasticPct != nil {
		b.PlasticPct = *r.PlasticPct
	}
	if r.MetalPct != nil {
		b.MetalPct = *r.MetalPct
	}
	b.LastUpdated = now

	return b
}
