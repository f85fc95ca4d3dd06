package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// usgsCollection mirrors the parts of the USGS feed we read. The geometry is
// decoded by hand because orb points are 2D and would drop the depth.
type usgsCollection struct {
	Type     string        `json:"type"`
	Features []usgsFeature `json:"features"`
}

type usgsFeature struct {
	ID         string `json:"id"`
	Properties struct {
		Place *string  `json:"place"`
		Mag   *float64 `json:"mag"`
		Time  int64    `json:"time"` // epoch milliseconds
	} `json:"properties"`
	Geometry *struct {
		Type        string    `json:"type"`
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
}

// ErrNotFeatureCollection is returned when a feed body is valid JSON but not a FeatureCollection.
var ErrNotFeatureCollection = errors.New("not a GeoJSON FeatureCollection")

// SkippedFeature is a feed entry that could not be placed on the map.
type SkippedFeature struct {
	Index  int
	ID     string
	Reason error
}

// ParseEarthquakes decodes a USGS earthquake FeatureCollection. Entries
// without a usable point geometry are left out and returned as skipped;
// only a body that is not a FeatureCollection is an error.
func ParseEarthquakes(data []byte) ([]EarthquakeFeature, []SkippedFeature, error) {
	var coll usgsCollection
	if err := json.Unmarshal(data, &coll); err != nil {
		return nil, nil, fmt.Errorf("parse earthquake feed: %w", err)
	}
	if coll.Type != "FeatureCollection" {
		return nil, nil, fmt.Errorf("parse earthquake feed: %w (type %q)", ErrNotFeatureCollection, coll.Type)
	}

	features := make([]EarthquakeFeature, 0, len(coll.Features))
	var skipped []SkippedFeature
	for i, uf := range coll.Features {
		f, err := uf.toFeature()
		if err != nil {
			skipped = append(skipped, SkippedFeature{Index: i, ID: uf.ID, Reason: err})
			continue
		}
		features = append(features, f)
	}
	return features, skipped, nil
}

func (uf usgsFeature) toFeature() (EarthquakeFeature, error) {
	if uf.Geometry == nil {
		return EarthquakeFeature{}, errors.New("missing geometry")
	}
	if uf.Geometry.Type != "Point" {
		return EarthquakeFeature{}, fmt.Errorf("unsupported geometry type: %s", uf.Geometry.Type)
	}
	coords := uf.Geometry.Coordinates
	if len(coords) < 3 {
		return EarthquakeFeature{}, fmt.Errorf("expected [lon, lat, depth] coordinates, got %d values", len(coords))
	}

	f := EarthquakeFeature{
		ID:        uf.ID,
		Magnitude: uf.Properties.Mag,
		Lon:       coords[0],
		Lat:       coords[1],
		DepthKm:   coords[2],
	}
	if uf.Properties.Place != nil {
		f.Place = *uf.Properties.Place
	}
	if uf.Properties.Time != 0 {
		f.Time = time.UnixMilli(uf.Properties.Time).UTC()
	}
	return f, nil
}

// StyledEarthquakes renders earthquakes as a GeoJSON FeatureCollection whose
// properties carry the precomputed marker style and popup content.
func StyledEarthquakes(features []EarthquakeFeature) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		fc.Append(StyledEarthquake(f))
	}
	return fc
}

// StyledEarthquake renders a single earthquake as a styled GeoJSON feature.
// The depth is carried in properties since orb geometries are 2D.
func StyledEarthquake(f EarthquakeFeature) *geojson.Feature {
	gf := geojson.NewFeature(orb.Point{f.Lon, f.Lat})
	if f.ID != "" {
		gf.ID = f.ID
	}
	gf.Properties["place"] = f.Place
	gf.Properties["mag"] = f.Magnitude
	gf.Properties["depth"] = f.DepthKm
	if !f.Time.IsZero() {
		gf.Properties["time"] = f.Time.UnixMilli()
	}
	gf.Properties["style"] = StyleForFeature(f)
	gf.Properties["popup"] = PopupHTML(f)
	return gf
}

// ParsePlates decodes the plate boundary FeatureCollection and attaches
// PlateLineStyle to every feature.
func ParsePlates(data []byte) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse plate feed: %w", err)
	}
	for _, f := range fc.Features {
		if f.Properties == nil {
			f.Properties = geojson.Properties{}
		}
		f.Properties["style"] = PlateLineStyle
	}
	return fc, nil
}
