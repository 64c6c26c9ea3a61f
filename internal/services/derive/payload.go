package derive

import (
	"github.com/tripscout/tripscout/internal/models"
	"github.com/tripscout/tripscout/internal/taxonomy"
)

// Payload projects a preference snapshot plus origin, session and language
// into the outbound /recommend shape. City is included only in city mode
// with a non-empty value; coordinates only for a user-granted origin.
func Payload(pref models.Preference, origin models.Origin, sessionID string) models.RecommendRequest {
	req := models.RecommendRequest{
		HasCar:      pref.HasCar,
		PeopleCount: pref.PeopleCount,
		RadiusM:     pref.RadiusMeters,
		SearchMode:  pref.SearchMode,
		GroupType:   pref.GroupType,
		Budget:      pref.Budget,
		Activities:  append([]string(nil), pref.Subcategories...),
		Lang:        pref.Language,
		SessionID:   sessionID,
	}

	if pref.SearchMode == models.SearchModeCity && pref.City != "" {
		req.City = pref.City
	}

	primary := "park"
	if len(pref.Subcategories) > 0 {
		primary = pref.Subcategories[0]
	}
	req.Activity = string(taxonomy.PrimaryActivity(primary))

	if origin.Source == models.OriginUser {
		lat, lon := origin.Lat, origin.Lon
		req.Lat = &lat
		req.Lon = &lon
	}

	return req
}

// EngineView bundles the continuously derived views for one snapshot.
func EngineView(pref models.Preference) models.EngineView {
	return models.EngineView{
		Weights: Weights(pref),
		Chips:   Chips(pref),
	}
}
