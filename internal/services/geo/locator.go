// Package geo adapts the platform geolocation capability: one permission-
// gated coordinate query bounded by a timeout, with a short-lived result
// cache as the staleness ceiling.
package geo

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/tripscout/tripscout/internal/common"
	"github.com/tripscout/tripscout/internal/interfaces"
)

type cachedPosition struct {
	lat, lon float64
	at       time.Time
}

// Locator implements interfaces.Locator over a GeoProvider.
type Locator struct {
	provider interfaces.GeoProvider
	logger   arbor.ILogger
	timeout  time.Duration
	maxAge   time.Duration

	mu     sync.Mutex
	cached *cachedPosition
	now    func() time.Time
}

// NewLocator creates the adapter. A nil provider means the capability is
// unsupported; every Locate call then fails with ErrGeoUnsupported.
func NewLocator(provider interfaces.GeoProvider, config *common.GeoConfig, logger arbor.ILogger) interfaces.Locator {
	return &Locator{
		provider: provider,
		logger:   logger,
		timeout:  config.Timeout,
		maxAge:   config.MaxAge,
		now:      time.Now,
	}
}

// Locate returns the current position, serving a cached result younger than
// the staleness ceiling, otherwise querying the provider under the timeout.
func (l *Locator) Locate(ctx context.Context) (float64, float64, error) {
	if l.provider == nil {
		return 0, 0, interfaces.ErrGeoUnsupported
	}

	l.mu.Lock()
	if l.cached != nil && l.now().Sub(l.cached.at) <= l.maxAge {
		lat, lon := l.cached.lat, l.cached.lon
		l.mu.Unlock()
		l.logger.Debug().Float64("lat", lat).Float64("lon", lon).Msg("Serving cached position")
		return lat, lon, nil
	}
	l.mu.Unlock()

	queryCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	lat, lon, err := l.provider.CurrentPosition(queryCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, 0, interfaces.ErrGeoTimeout
		}
		return 0, 0, err
	}

	l.mu.Lock()
	l.cached = &cachedPosition{lat: lat, lon: lon, at: l.now()}
	l.mu.Unlock()

	return lat, lon, nil
}

// SweepCache drops a cached position past the staleness ceiling. Called from
// the maintenance schedule.
func (l *Locator) SweepCache() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cached != nil && l.now().Sub(l.cached.at) > l.maxAge {
		l.cached = nil
		l.logger.Debug().Msg("Dropped stale cached position")
	}
}
