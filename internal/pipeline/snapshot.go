package pipeline

import (
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
)

var emptyCollection = []byte(`{"type":"FeatureCollection","features":[]}`)

// FeedStatus reports the outcome of the latest fetch of one feed.
type FeedStatus struct {
	Feed        string    `json:"feed"`
	OK          bool      `json:"ok"`
	Features    int       `json:"features"`
	FetchedAt   time.Time `json:"fetched_at,omitzero"`   // last successful load
	AttemptedAt time.Time `json:"attempted_at,omitzero"` // last attempt, successful or not
	Error       string    `json:"error,omitempty"`
}

// Report is the per-feed outcome of one Refresh.
type Report struct {
	Earthquakes FeedStatus `json:"earthquakes"`
	Plates      FeedStatus `json:"plates"`
}

// Snapshot is the overlay data currently served. A snapshot is never
// modified after it is published; refreshes replace it wholesale.
type Snapshot struct {
	Earthquakes      []domain.EarthquakeFeature
	EarthquakesJSON  []byte
	EarthquakeStatus FeedStatus

	PlatesJSON  []byte
	PlateStatus FeedStatus
}

// Report returns the per-feed status held by the snapshot.
func (s *Snapshot) Report() Report {
	return Report{Earthquakes: s.EarthquakeStatus, Plates: s.PlateStatus}
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		EarthquakesJSON:  emptyCollection,
		EarthquakeStatus: FeedStatus{Feed: domain.FeedEarthquakes},
		PlatesJSON:       emptyCollection,
		PlateStatus:      FeedStatus{Feed: domain.FeedPlates},
	}
}

func (s *Snapshot) status(feed string) FeedStatus {
	if feed == domain.FeedPlates {
		return s.PlateStatus
	}
	return s.EarthquakeStatus
}

func (s *Snapshot) setStatus(st FeedStatus) {
	if st.Feed == domain.FeedPlates {
		s.PlateStatus = st
		return
	}
	s.EarthquakeStatus = st
}
