package domain

import "math"

// DepthBin is one step of the depth color scale. A bin covers depths from
// LowerKm (inclusive) up to the next bin's LowerKm (exclusive).
type DepthBin struct {
	LowerKm float64 `json:"lower_km"`
	Color   string  `json:"color"`
}

const (
	markerStrokeColor  = "#222"
	markerStrokeWeight = 0.8
	markerFillOpacity  = 0.75

	radiusPerMagnitude = 5
	minRadius          = 1
)

// depthBins is ordered by ascending LowerKm. The last bin has no upper bound.
var depthBins = [...]DepthBin{
	{LowerKm: -10, Color: "#66ff66"}, // light green
	{LowerKm: 10, Color: "#ffff66"},  // yellow
	{LowerKm: 30, Color: "#ffcc66"},  // orange-yellow
	{LowerKm: 50, Color: "#ff9966"},  // coral
	{LowerKm: 70, Color: "#ff6666"},  // red
	{LowerKm: 90, Color: "#cc3333"},  // dark red
}

// PlateLineStyle is the fixed style for tectonic plate boundaries.
var PlateLineStyle = LineStyle{Color: "darkorange", Weight: 2}

// DepthBins returns a copy of the depth color scale in ascending order.
func DepthBins() []DepthBin {
	bins := make([]DepthBin, len(depthBins))
	copy(bins, depthBins[:])
	return bins
}

// DepthBinIndex returns the index of the bin containing depthKm. Bins are
// tested in ascending order and the first one whose upper bound exceeds the
// depth wins; anything past the last finite bound lands in the last bin.
func DepthBinIndex(depthKm float64) int {
	for i := 1; i < len(depthBins); i++ {
		if depthKm < depthBins[i].LowerKm {
			return i - 1
		}
	}
	return len(depthBins) - 1
}

// ColorForDepth maps a depth in kilometres to its marker fill color.
func ColorForDepth(depthKm float64) string {
	return depthBins[DepthBinIndex(depthKm)].Color
}

// RadiusForMagnitude scales the marker radius linearly with magnitude. A nil,
// zero or NaN magnitude yields the minimum radius so the marker stays visible.
func RadiusForMagnitude(mag *float64) float64 {
	if mag == nil || *mag == 0 || math.IsNaN(*mag) {
		return minRadius
	}
	return *mag * radiusPerMagnitude
}

// StyleForFeature derives the circle marker style for an earthquake.
func StyleForFeature(f EarthquakeFeature) MarkerStyle {
	return MarkerStyle{
		Color:       markerStrokeColor,
		Weight:      markerStrokeWeight,
		FillColor:   ColorForDepth(f.DepthKm),
		FillOpacity: markerFillOpacity,
		Radius:      RadiusForMagnitude(f.Magnitude),
	}
}
