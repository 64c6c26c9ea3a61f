package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tripscout/tripscout/internal/common"
	"github.com/tripscout/tripscout/internal/models"
	"github.com/tripscout/tripscout/internal/services/prefs"
)

func newChat() *Chat {
	logger := common.GetLogger()
	return NewChat(prefs.NewStore(logger), logger)
}

func TestChatAppliesWhitelistedKeys(t *testing.T) {
	chat := newChat()

	pref, applied, trigger := chat.Apply(map[string]any{
		"has_car":      true,
		"people_count": 4.0,
		"search_mode":  "radius",
		"radius_m":     3200.0,
		"budget":       "open",
	})

	assert.Equal(t, 5, applied)
	assert.True(t, trigger)
	assert.True(t, pref.HasCar)
	assert.Equal(t, 4, pref.PeopleCount)
	assert.Equal(t, models.BudgetOpen, pref.Budget)
}

func TestChatSnapsRadiusToStep(t *testing.T) {
	tests := []struct {
		radius float64
		want   int
	}{
		{3200, 3000},
		{3260, 3500},
		{120, 1000},
		{99999, 15000},
		{4750, 5000},
	}
	for _, tt := range tests {
		chat := newChat()
		pref, _, _ := chat.Apply(map[string]any{"radius_m": tt.radius})
		assert.Equal(t, tt.want, pref.RadiusMeters, "radius_m=%v", tt.radius)
	}
}

func TestChatIgnoresUnknownAndMistypedKeys(t *testing.T) {
	chat := newChat()
	before := chat.store.Read()

	pref, applied, trigger := chat.Apply(map[string]any{
		"has_car":      "yes",
		"people_count": "four",
		"search_mode":  "teleport",
		"group_type":   "strangers",
		"quality":      90.0,
	})

	assert.Equal(t, 0, applied)
	assert.False(t, trigger)
	assert.Equal(t, before, pref)
}

func TestChatActivityKeywordMapsToLeaf(t *testing.T) {
	tests := []struct {
		activity string
		want     string
	}{
		{"cafe", "cafe"},
		{"restaurant", "restaurant"},
		{"entertainment", "cinema"},
		{"hiking", "park"},
		{"", "park"},
	}
	for _, tt := range tests {
		chat := newChat()
		pref, applied, _ := chat.Apply(map[string]any{"activity": tt.activity})
		assert.Equal(t, 1, applied)
		assert.Equal(t, []string{tt.want}, pref.Subcategories, "activity=%q", tt.activity)
	}
}

func TestChatActivitiesListWinsOverKeyword(t *testing.T) {
	chat := newChat()

	pref, applied, _ := chat.Apply(map[string]any{
		"activities": []any{"museum", "cinema"},
		"activity":   "cafe",
	})

	assert.Equal(t, 1, applied)
	assert.Equal(t, []string{"museum", "cinema"}, pref.Subcategories)
}

func TestChatNoTriggerWhenCityModeWithoutCity(t *testing.T) {
	chat := newChat()

	pref, applied, trigger := chat.Apply(map[string]any{"search_mode": "city"})

	assert.Equal(t, 1, applied)
	assert.False(t, trigger, "city mode without a city is not runnable")
	assert.Equal(t, models.SearchModeCity, pref.SearchMode)

	_, applied, trigger = chat.Apply(map[string]any{"city": "Shiraz"})
	assert.Equal(t, 1, applied)
	assert.True(t, trigger)
}

func TestChatPeopleCountRoundedAndClamped(t *testing.T) {
	chat := newChat()

	pref, _, _ := chat.Apply(map[string]any{"people_count": 6.4})
	assert.Equal(t, 6, pref.PeopleCount)

	pref, _, _ = chat.Apply(map[string]any{"people_count": 99.0})
	assert.Equal(t, 10, pref.PeopleCount)
}
