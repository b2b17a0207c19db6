package domain

// Immutable geographic coordinates in decimal degrees (WGS 84).
type Coordinates struct {
	Lat float64
	Lon float64
}

// IsZero reports whether the coordinates were never set.
func (c Coordinates) IsZero() bool { return c.Lat == 0 && c.Lon == 0 }
