package domain

// Represents a disposal destination with a capacity and current contents.
type DumpingSpot struct {
	ID             int64
	SpotID         string
	Lat            float64
	Lon            float64
	TotalCapacity  float64
	OrganicContent float64
	PlasticContent float64
	MetalContent   float64
}

func (d *DumpingSpot) Point() Point { return Point{Lat: d.Lat, Lon: d.Lon} }

// Convert the spot into a route terminal candidate.
func (d *DumpingSpot) Terminal() Terminal {
	return Terminal{ID: d.SpotID, Point: d.Point(), Capacity: d.TotalCapacity}
}

func (d *DumpingSpot) totalContent() float64 {
	return d.OrganicContent + d.PlasticContent + d.MetalContent
}

// Percentage of capacity in use; 0 when capacity is unset.
func (d *DumpingSpot) CurrentFillLevel() float64 {
	if d.TotalCapacity == 0 {
		return 0
	}
	return d.totalContent() / d.TotalCapacity * 100
}

func (d *DumpingSpot) OrganicPct() float64 { return d.share(d.OrganicContent) }
func (d *DumpingSpot) PlasticPct() float64 { return d.share(d.PlasticContent) }
func (d *DumpingSpot) MetalPct() float64   { return d.share(d.MetalContent) }

func (d *DumpingSpot) share(part float64) float64 {
	total := d.totalContent()
	if total == 0 {
		return 0
	}
	return part / total * 100
}
