package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/paulmach/orb/geojson"
)

// FeedFetcher retrieves the two remote feeds.
type FeedFetcher interface {
	FetchEarthquakes(ctx context.Context) ([]domain.EarthquakeFeature, error)
	FetchPlates(ctx context.Context) (*geojson.FeatureCollection, error)
}

// Publisher forwards the earthquakes of a successful refresh downstream.
type Publisher interface {
	Publish(ctx context.Context, features []domain.EarthquakeFeature, fetchedAt time.Time) error
}

// Refresher keeps the map overlays populated from the remote feeds.
type Refresher struct {
	fetcher   FeedFetcher
	geocoder  domain.Geocoder
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	interval  time.Duration

	mu       sync.Mutex // serializes snapshot replacement
	snapshot atomic.Pointer[Snapshot]
	ready    atomic.Bool
}

// Option configures optional Refresher collaborators.
type Option func(*Refresher)

// WithGeocoder enables reverse geocoding of earthquakes that have no place.
func WithGeocoder(g domain.Geocoder) Option {
	return func(r *Refresher) { r.geocoder = g }
}

// WithPublisher forwards every successful earthquake load to p.
func WithPublisher(p Publisher) Option {
	return func(r *Refresher) { r.publisher = p }
}

// WithClock replaces the real clock, for tests.
func WithClock(c clockwork.Clock) Option {
	return func(r *Refresher) { r.clock = c }
}

// New creates a Refresher that reloads both feeds every interval.
func New(fetcher FeedFetcher, interval time.Duration, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Refresher {
	r := &Refresher{
		fetcher:  fetcher,
		logger:   logger,
		metrics:  metrics,
		clock:    clockwork.NewRealClock(),
		interval: interval,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.snapshot.Store(emptySnapshot())
	return r
}

// Snapshot returns the current overlay data. The returned value must not be modified.
func (r *Refresher) Snapshot() *Snapshot {
	return r.snapshot.Load()
}

// CheckReadiness returns nil once the earthquake overlay has loaded at least once.
func (r *Refresher) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("earthquake feed has not loaded yet")
	}
	return nil
}

// Run refreshes immediately and then on every interval until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) error {
	r.logger.Info("refresher started", "interval", r.interval)
	r.metrics.RefresherRunning.Set(1)
	defer r.metrics.RefresherRunning.Set(0)

	r.Refresh(ctx)

	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("refresher stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			r.Refresh(ctx)
		}
	}
}

// Refresh fetches both feeds concurrently. Each feed replaces its own overlay
// as soon as it loads; a failure in one never affects the other. Refresh
// returns once both fetches have finished.
func (r *Refresher) Refresh(ctx context.Context) Report {
	var (
		wg     sync.WaitGroup
		report Report
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		report.Earthquakes = r.refreshEarthquakes(ctx)
	}()
	go func() {
		defer wg.Done()
		report.Plates = r.refreshPlates(ctx)
	}()
	wg.Wait()
	return report
}

func (r *Refresher) refreshEarthquakes(ctx context.Context) FeedStatus {
	attempted := r.clock.Now()

	features, err := r.fetcher.FetchEarthquakes(ctx)
	var body []byte
	if err == nil {
		features = r.enrich(ctx, features)
		body, err = renderEarthquakes(features)
	}
	if err != nil {
		return r.recordFailure(domain.FeedEarthquakes, attempted, err)
	}

	status := FeedStatus{
		Feed:        domain.FeedEarthquakes,
		OK:          true,
		Features:    len(features),
		FetchedAt:   attempted,
		AttemptedAt: attempted,
	}
	r.update(func(s *Snapshot) {
		s.Earthquakes = features
		s.EarthquakesJSON = body
		s.EarthquakeStatus = status
	})
	r.ready.Store(true)
	r.metrics.FeaturesLoaded.WithLabelValues(domain.FeedEarthquakes).Set(float64(len(features)))
	r.logger.Info("earthquake overlay loaded", "features", len(features))

	r.publish(ctx, features, attempted)
	return status
}

func (r *Refresher) refreshPlates(ctx context.Context) FeedStatus {
	attempted := r.clock.Now()

	fc, err := r.fetcher.FetchPlates(ctx)
	var body []byte
	if err == nil {
		body, err = fc.MarshalJSON()
	}
	if err != nil {
		return r.recordFailure(domain.FeedPlates, attempted, err)
	}

	status := FeedStatus{
		Feed:        domain.FeedPlates,
		OK:          true,
		Features:    len(fc.Features),
		FetchedAt:   attempted,
		AttemptedAt: attempted,
	}
	r.update(func(s *Snapshot) {
		s.PlatesJSON = body
		s.PlateStatus = status
	})
	r.metrics.FeaturesLoaded.WithLabelValues(domain.FeedPlates).Set(float64(len(fc.Features)))
	r.logger.Info("plate overlay loaded", "features", len(fc.Features))
	return status
}

// recordFailure keeps the overlay's previous data and marks its status failed.
func (r *Refresher) recordFailure(feed string, attempted time.Time, err error) FeedStatus {
	r.logger.Error("feed refresh failed", "feed", feed, "error", err)

	var status FeedStatus
	r.update(func(s *Snapshot) {
		prev := s.status(feed)
		status = FeedStatus{
			Feed:        feed,
			OK:          false,
			Features:    prev.Features,
			FetchedAt:   prev.FetchedAt,
			AttemptedAt: attempted,
			Error:       err.Error(),
		}
		s.setStatus(status)
	})
	return status
}

// update applies fn to a copy of the current snapshot and publishes the copy.
func (r *Refresher) update(fn func(*Snapshot)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := *r.snapshot.Load()
	fn(&next)
	r.snapshot.Store(&next)
}

func (r *Refresher) publish(ctx context.Context, features []domain.EarthquakeFeature, fetchedAt time.Time) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, features, fetchedAt); err != nil {
		r.metrics.PublishErrors.Inc()
		r.logger.Warn("publish styled earthquakes failed", "error", err, "features", len(features))
		return
	}
	r.metrics.FeaturesPublished.Add(float64(len(features)))
}
