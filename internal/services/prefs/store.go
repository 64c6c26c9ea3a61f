// Package prefs holds the canonical snapshot of user intent. Every input
// channel (form, geolocation, chat) mutates through Apply, which normalizes
// and clamps so the stored snapshot is never invalid.
package prefs

import (
	"strings"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/tripscout/tripscout/internal/interfaces"
	"github.com/tripscout/tripscout/internal/models"
	"github.com/tripscout/tripscout/internal/taxonomy"
)

// Store implements interfaces.PreferenceStore. Mutations are synchronous and
// immediately observable; reads hand out value copies.
type Store struct {
	mu             sync.Mutex
	logger         arbor.ILogger
	pref           models.Preference
	origin         models.Origin
	activeCategory string
}

// NewStore creates a store with boot defaults and the demo origin.
func NewStore(logger arbor.ILogger) interfaces.PreferenceStore {
	return &Store{
		logger: logger,
		pref: models.Preference{
			HasCar:        false,
			PeopleCount:   3,
			SearchMode:    models.SearchModeRadius,
			RadiusMeters:  4500,
			GroupType:     models.GroupFriends,
			Budget:        models.BudgetMedium,
			Subcategories: taxonomy.Normalize(taxonomy.DefaultSubcategories),
			Language:      models.LangEnglish,
		},
		origin:         models.DefaultOrigin(),
		activeCategory: taxonomy.DefaultCategoryID,
	}
}

// Read returns the current preference snapshot.
func (s *Store) Read() models.Preference {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pref.Clone()
}

// Apply merges a partial update into the snapshot. Out-of-range numerics are
// clamped, unknown enum values ignored, and subcategory edits normalized and
// repaired so the stored selection is never empty or invalid.
func (s *Store) Apply(update models.PreferenceUpdate) models.Preference {
	s.mu.Lock()
	defer s.mu.Unlock()

	if update.HasCar != nil {
		s.pref.HasCar = *update.HasCar
	}
	if update.PeopleCount != nil {
		s.pref.PeopleCount = models.ClampPeople(*update.PeopleCount)
	}
	if update.RadiusMeters != nil {
		s.pref.RadiusMeters = models.ClampRadiusM(*update.RadiusMeters)
	}
	if update.SearchMode != nil {
		switch *update.SearchMode {
		case models.SearchModeRadius, models.SearchModeCity:
			s.pref.SearchMode = *update.SearchMode
		default:
			s.logger.Debug().Str("search_mode", string(*update.SearchMode)).Msg("Ignoring unknown search mode")
		}
	}
	if update.City != nil {
		s.pref.City = strings.TrimSpace(*update.City)
	}
	if update.GroupType != nil {
		switch *update.GroupType {
		case models.GroupSolo, models.GroupFriends, models.GroupFamily:
			s.pref.GroupType = *update.GroupType
		default:
			s.logger.Debug().Str("group_type", string(*update.GroupType)).Msg("Ignoring unknown group type")
		}
	}
	if update.Budget != nil {
		switch *update.Budget {
		case models.BudgetLow, models.BudgetMedium, models.BudgetOpen:
			s.pref.Budget = *update.Budget
		default:
			s.logger.Debug().Str("budget", string(*update.Budget)).Msg("Ignoring unknown budget")
		}
	}
	if update.Language != nil {
		s.pref.Language = models.NormalizeLanguage(string(*update.Language))
	}

	// A category switch is exclusive: it selects that category's full leaf
	// set, unless the same update also names explicit subcategories.
	if update.ActiveCategory != nil {
		if leaves := taxonomy.CategoryLeafIDs(*update.ActiveCategory); leaves != nil {
			s.activeCategory = *update.ActiveCategory
			if update.Subcategories == nil {
				s.pref.Subcategories = leaves
			}
		}
	}

	if update.Subcategories != nil {
		s.setSubcategories(update.Subcategories)
	}

	return s.pref.Clone()
}

// setSubcategories stores a normalized, repaired selection and keeps the
// active category in step with it. Callers hold the lock.
func (s *Store) setSubcategories(list []string) {
	next := taxonomy.Normalize(list)
	if len(next) == 0 {
		// Emptied by the edit: repair to the active category's leaves.
		next = taxonomy.CategoryLeafIDs(s.activeCategory)
		if next == nil {
			next = taxonomy.CategoryLeafIDs(taxonomy.DefaultCategoryID)
		}
		s.logger.Debug().Str("category", s.activeCategory).Msg("Repaired empty subcategory selection")
	} else if cat := taxonomy.CategoryOf(next[0]); cat != "" {
		s.activeCategory = cat
	}
	s.pref.Subcategories = next
}

// Origin returns the current recommendation anchor.
func (s *Store) Origin() models.Origin {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.origin
}

// SetUserOrigin records a user-granted position. User origins supersede any
// city/demo anchor and stay until a fresh successful grant replaces them.
func (s *Store) SetUserOrigin(lat, lon float64) models.Origin {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.origin = models.Origin{Lat: lat, Lon: lon, Source: models.OriginUser}
	return s.origin
}

// ConfirmOrigin applies a backend-confirmed demo/city anchor. A user origin
// is never downgraded.
func (s *Store) ConfirmOrigin(origin models.Origin) (models.Origin, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.origin.Source == models.OriginUser {
		return s.origin, false
	}
	switch origin.Source {
	case models.OriginDemo, models.OriginCity:
		s.origin = origin
		return s.origin, true
	default:
		return s.origin, false
	}
}
