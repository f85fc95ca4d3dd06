package domain

import (
	"fmt"
	"html"
	"strconv"
)

// PopupHTML formats the popup shown when an earthquake marker is clicked.
func PopupHTML(f EarthquakeFeature) string {
	mag := "unknown"
	if f.Magnitude != nil {
		mag = strconv.FormatFloat(*f.Magnitude, 'g', -1, 64)
	}
	return fmt.Sprintf(
		"<h3>Location: %s</h3><hr><p>Magnitude: %s</p><p>Depth: %s km</p>",
		html.EscapeString(f.Place),
		mag,
		strconv.FormatFloat(f.DepthKm, 'g', -1, 64),
	)
}
