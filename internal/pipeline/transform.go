package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/couchcryptid/quake-map-service/internal/domain"
)

// enrich fills missing places when a geocoder is configured. The input slice
// is not modified.
func (r *Refresher) enrich(ctx context.Context, features []domain.EarthquakeFeature) []domain.EarthquakeFeature {
	if r.geocoder == nil {
		return features
	}
	out := make([]domain.EarthquakeFeature, len(features))
	for i, f := range features {
		out[i] = domain.EnrichPlace(ctx, f, r.geocoder, r.logger)
	}
	return out
}

// renderEarthquakes serializes the styled overlay once per refresh so HTTP
// handlers can serve the bytes directly.
func renderEarthquakes(features []domain.EarthquakeFeature) ([]byte, error) {
	body, err := json.Marshal(domain.StyledEarthquakes(features))
	if err != nil {
		return nil, fmt.Errorf("render earthquake overlay: %w", err)
	}
	return body, nil
}
