package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tripscout/tripscout/internal/common"
	"github.com/tripscout/tripscout/internal/interfaces"
	"github.com/tripscout/tripscout/internal/models"
	"github.com/tripscout/tripscout/internal/services/prefs"
)

type fakeLocator struct {
	lat, lon float64
	err      error
}

func (f *fakeLocator) Locate(ctx context.Context) (float64, float64, error) {
	return f.lat, f.lon, f.err
}

func (f *fakeLocator) SweepCache() {}

func TestResolvePromotesUserOrigin(t *testing.T) {
	logger := common.GetLogger()
	store := prefs.NewStore(logger)
	location := NewLocation(&fakeLocator{lat: 35.72, lon: 51.42}, store, logger)

	origin, err := location.Resolve(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.OriginUser, origin.Source)
	assert.Equal(t, 35.72, origin.Lat)
	assert.Equal(t, models.OriginUser, store.Origin().Source)
}

func TestResolveFailureLeavesOriginUntouched(t *testing.T) {
	logger := common.GetLogger()
	store := prefs.NewStore(logger)
	location := NewLocation(&fakeLocator{err: interfaces.ErrGeoDenied}, store, logger)

	origin, err := location.Resolve(context.Background())
	assert.ErrorIs(t, err, interfaces.ErrGeoDenied)
	assert.Equal(t, models.OriginDemo, origin.Source)
	assert.Equal(t, models.DefaultOrigin(), store.Origin())
}

func TestFormApplyEmptyUpdateIsNoOp(t *testing.T) {
	logger := common.GetLogger()
	store := prefs.NewStore(logger)
	form := NewForm(store, logger)

	before := store.Read()
	after := form.Apply(models.PreferenceUpdate{})
	assert.Equal(t, before, after)
}

func TestFormApplyPartialUpdate(t *testing.T) {
	logger := common.GetLogger()
	store := prefs.NewStore(logger)
	form := NewForm(store, logger)

	hasCar := true
	people := 7
	pref := form.Apply(models.PreferenceUpdate{HasCar: &hasCar, PeopleCount: &people})
	assert.True(t, pref.HasCar)
	assert.Equal(t, 7, pref.PeopleCount)
	assert.Equal(t, models.GroupFriends, pref.GroupType, "untouched fields keep defaults")
}
