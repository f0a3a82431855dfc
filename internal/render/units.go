package render

import (
	"fmt"

	"fitness-coach/internal/config"
	"fitness-coach/internal/plan"
)

const kmPerMile = 1.609344

// Units formats planning quantities, which are always miles and seconds
// per mile, in the user's preferred units.
type Units struct {
	cfg config.DisplayConfig
}

// NewUnits creates a new Units helper with the given display config
func NewUnits(cfg config.DisplayConfig) Units {
	return Units{cfg: cfg}
}

// Distance formats miles in the preferred distance unit.
func (u Units) Distance(miles float64) string {
	if u.IsMiles() {
		return fmt.Sprintf("%.1f mi", miles)
	}
	return fmt.Sprintf("%.1f km", miles*kmPerMile)
}

// Pace formats seconds per mile in the preferred pace unit.
func (u Units) Pace(secondsPerMile float64) string {
	if u.cfg.PaceUnit == "min/km" {
		return plan.FormatPace(secondsPerMile/kmPerMile) + "/km"
	}
	return plan.FormatPace(secondsPerMile) + "/mi"
}

// PaceDelta formats a pace difference in seconds per preferred unit.
func (u Units) PaceDelta(secondsPerMile float64) string {
	if u.cfg.PaceUnit == "min/km" {
		return fmt.Sprintf("%.0f s/km", secondsPerMile/kmPerMile)
	}
	return fmt.Sprintf("%.0f s/mi", secondsPerMile)
}

// DistanceLabel returns the short unit label ("mi" or "km")
func (u Units) DistanceLabel() string {
	if u.IsMiles() {
		return "mi"
	}
	return "km"
}

// ConvertMiles converts a series of miles into the preferred unit for charts.
func (u Units) ConvertMiles(miles []float64) []float64 {
	if u.IsMiles() {
		return miles
	}
	converted := make([]float64, len(miles))
	for i, m := range miles {
		converted[i] = m * kmPerMile
	}
	return converted
}

// IsMiles returns true if distance unit is miles
func (u Units) IsMiles() bool {
	return u.cfg.DistanceUnit != "km"
}
