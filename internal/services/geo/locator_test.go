package geo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tripscout/tripscout/internal/common"
	"github.com/tripscout/tripscout/internal/interfaces"
)

type fakeProvider struct {
	lat, lon float64
	err      error
	delay    time.Duration
	calls    int
}

func (p *fakeProvider) CurrentPosition(ctx context.Context) (float64, float64, error) {
	p.calls++
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return 0, 0, ctx.Err()
		}
	}
	if p.err != nil {
		return 0, 0, p.err
	}
	return p.lat, p.lon, nil
}

func testConfig() *common.GeoConfig {
	return &common.GeoConfig{Timeout: 100 * time.Millisecond, MaxAge: time.Minute}
}

func TestLocateServesCachedPosition(t *testing.T) {
	provider := &fakeProvider{lat: 35.7, lon: 51.4}
	locator := NewLocator(provider, testConfig(), common.GetLogger()).(*Locator)

	lat, lon, err := locator.Locate(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 35.7, lat)
	assert.Equal(t, 51.4, lon)

	_, _, err = locator.Locate(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, provider.calls, "second call within max age must hit the cache")
}

func TestLocateRefreshesAfterMaxAge(t *testing.T) {
	provider := &fakeProvider{lat: 35.7, lon: 51.4}
	locator := NewLocator(provider, testConfig(), common.GetLogger()).(*Locator)

	_, _, err := locator.Locate(context.Background())
	assert.NoError(t, err)

	locator.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	_, _, err = locator.Locate(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, provider.calls)
}

func TestLocateTimeout(t *testing.T) {
	provider := &fakeProvider{lat: 35.7, lon: 51.4, delay: time.Second}
	locator := NewLocator(provider, testConfig(), common.GetLogger())

	_, _, err := locator.Locate(context.Background())
	assert.ErrorIs(t, err, interfaces.ErrGeoTimeout)
}

func TestLocateDeniedPassesThrough(t *testing.T) {
	provider := &fakeProvider{err: interfaces.ErrGeoDenied}
	locator := NewLocator(provider, testConfig(), common.GetLogger())

	_, _, err := locator.Locate(context.Background())
	assert.ErrorIs(t, err, interfaces.ErrGeoDenied)
}

func TestLocateUnsupportedWithoutProvider(t *testing.T) {
	locator := NewLocator(nil, testConfig(), common.GetLogger())

	_, _, err := locator.Locate(context.Background())
	assert.ErrorIs(t, err, interfaces.ErrGeoUnsupported)
}

func TestSweepCacheDropsStalePosition(t *testing.T) {
	provider := &fakeProvider{lat: 35.7, lon: 51.4}
	locator := NewLocator(provider, testConfig(), common.GetLogger()).(*Locator)

	_, _, err := locator.Locate(context.Background())
	assert.NoError(t, err)

	locator.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	locator.SweepCache()

	locator.mu.Lock()
	cached := locator.cached
	locator.mu.Unlock()
	assert.Nil(t, cached)
}

func TestLocateDoesNotCacheFailures(t *testing.T) {
	provider := &fakeProvider{err: errors.New("hardware fault")}
	locator := NewLocator(provider, testConfig(), common.GetLogger())

	_, _, err := locator.Locate(context.Background())
	assert.Error(t, err)

	provider.err = nil
	provider.lat, provider.lon = 35.7, 51.4
	lat, _, err := locator.Locate(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 35.7, lat)
}
