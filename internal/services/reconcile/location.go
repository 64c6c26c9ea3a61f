package reconcile

import (
	"context"

	"github.com/ternarybob/arbor"

	"github.com/tripscout/tripscout/internal/interfaces"
	"github.com/tripscout/tripscout/internal/models"
)

// Location turns a position grant into a user origin. On any failure the
// stored origin is left untouched and the sentinel is returned for the
// caller to translate into a notice.
type Location struct {
	locator interfaces.Locator
	store   interfaces.PreferenceStore
	logger  arbor.ILogger
}

func NewLocation(locator interfaces.Locator, store interfaces.PreferenceStore, logger arbor.ILogger) *Location {
	return &Location{locator: locator, store: store, logger: logger}
}

// Resolve queries the locator and, on success, promotes the coordinates to a
// sticky user origin.
func (l *Location) Resolve(ctx context.Context) (models.Origin, error) {
	lat, lon, err := l.locator.Locate(ctx)
	if err != nil {
		l.logger.Warn().Err(err).Msg("Position query failed")
		return l.store.Origin(), err
	}

	origin := l.store.SetUserOrigin(lat, lon)
	l.logger.Info().Float64("lat", lat).Float64("lon", lon).Msg("Origin set from device position")
	return origin, nil
}
