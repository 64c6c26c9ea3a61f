package reconcile

import (
	"math"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/tripscout/tripscout/internal/interfaces"
	"github.com/tripscout/tripscout/internal/models"
)

// radiusStep is the granularity chat-supplied radii are snapped to.
const radiusStep = 500

// Chat coerces the loosely typed update map returned by the interpreter into
// a preference update. Only whitelisted keys with the expected shape are
// honored; everything else is dropped silently.
type Chat struct {
	store  interfaces.PreferenceStore
	logger arbor.ILogger
}

func NewChat(store interfaces.PreferenceStore, logger arbor.ILogger) *Chat {
	return &Chat{store: store, logger: logger}
}

// Apply coerces and applies the interpreter updates. It returns the resulting
// snapshot, the number of keys honored, and whether the caller should trigger
// a recommendation (at least one key honored and the snapshot runnable).
func (c *Chat) Apply(updates map[string]any) (models.Preference, int, bool) {
	update, applied := c.coerce(updates)
	if applied == 0 {
		pref := c.store.Read()
		return pref, 0, false
	}

	pref := c.store.Apply(update)
	c.logger.Info().Int("applied", applied).Msg("Applied interpreter updates")
	return pref, applied, pref.Runnable()
}

func (c *Chat) coerce(updates map[string]any) (models.PreferenceUpdate, int) {
	var update models.PreferenceUpdate
	applied := 0

	if v, ok := updates["has_car"].(bool); ok {
		update.HasCar = &v
		applied++
	}

	if n, ok := asNumber(updates["people_count"]); ok {
		count := models.ClampPeople(int(math.Round(n)))
		update.PeopleCount = &count
		applied++
	}

	if s, ok := updates["search_mode"].(string); ok {
		mode := models.SearchMode(strings.ToLower(strings.TrimSpace(s)))
		if mode == models.SearchModeRadius || mode == models.SearchModeCity {
			update.SearchMode = &mode
			applied++
		}
	}

	if s, ok := updates["city"].(string); ok {
		city := strings.TrimSpace(s)
		update.City = &city
		applied++
	}

	if n, ok := asNumber(updates["radius_m"]); ok {
		radius := snapRadius(models.ClampRadiusM(int(math.Round(n))))
		update.RadiusMeters = &radius
		applied++
	}

	if list, ok := updates["activities"].([]any); ok {
		ids := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				ids = append(ids, s)
			}
		}
		if len(ids) > 0 {
			update.Subcategories = ids
			applied++
		}
	} else if s, ok := updates["activity"].(string); ok {
		update.Subcategories = []string{representativeLeaf(s)}
		applied++
	}

	if s, ok := updates["group_type"].(string); ok {
		group := models.GroupType(strings.ToLower(strings.TrimSpace(s)))
		if group == models.GroupSolo || group == models.GroupFriends || group == models.GroupFamily {
			update.GroupType = &group
			applied++
		}
	}

	if s, ok := updates["budget"].(string); ok {
		budget := models.Budget(strings.ToLower(strings.TrimSpace(s)))
		if budget == models.BudgetLow || budget == models.BudgetMedium || budget == models.BudgetOpen {
			update.Budget = &budget
			applied++
		}
	}

	return update, applied
}

// representativeLeaf maps a coarse activity keyword onto one concrete leaf.
func representativeLeaf(activity string) string {
	switch strings.ToLower(strings.TrimSpace(activity)) {
	case "cafe":
		return "cafe"
	case "restaurant":
		return "restaurant"
	case "entertainment":
		return "cinema"
	default:
		return "park"
	}
}

// snapRadius rounds a metre value to the nearest step.
func snapRadius(m int) int {
	return int(math.Round(float64(m)/radiusStep)) * radiusStep
}

// asNumber accepts the numeric shapes a decoded JSON payload can carry.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
