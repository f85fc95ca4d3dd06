package domain

import (
	"context"
	"log/slog"
)

// EnrichPlace fills in the place of an earthquake the feed left unnamed.
// Features that already have a place, or a nil geocoder, pass through
// unchanged; geocoding failures leave the place empty.
func EnrichPlace(ctx context.Context, f EarthquakeFeature, geocoder Geocoder, logger *slog.Logger) EarthquakeFeature {
	if geocoder == nil || f.Place != "" {
		return f
	}

	result, err := geocoder.ReverseGeocode(ctx, f.Lat, f.Lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"feature_id", f.ID,
			"lat", f.Lat,
			"lon", f.Lon,
			"error", err,
		)
		return f
	}

	f.Place = result.FormattedAddress
	if f.Place == "" {
		f.Place = result.PlaceName
	}
	return f
}
