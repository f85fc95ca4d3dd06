package domain

import "time"

// EarthquakeFeature is one earthquake decoded from a USGS GeoJSON feed.
type EarthquakeFeature struct {
	ID        string
	Place     string
	Magnitude *float64 // nil when the feed reports "mag": null
	DepthKm   float64
	Lon       float64
	Lat       float64
	Time      time.Time
}

// MarkerStyle holds the Leaflet path options for one earthquake circle marker.
// Field names follow Leaflet so the page can pass the object straight through.
type MarkerStyle struct {
	Color       string  `json:"color"`
	Weight      float64 `json:"weight"`
	FillColor   string  `json:"fillColor"`
	FillOpacity float64 `json:"fillOpacity"`
	Radius      float64 `json:"radius"`
}

// LineStyle holds the Leaflet path options for plate boundary lines.
type LineStyle struct {
	Color  string  `json:"color"`
	Weight float64 `json:"weight"`
}

// Feed names used in logs, metrics and the status endpoint.
const (
	FeedEarthquakes = "earthquakes"
	FeedPlates      = "plates"
)
