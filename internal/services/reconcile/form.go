// Package reconcile funnels every input channel (form edits, geolocation
// grants, chat interpretations) into preference store mutations.
package reconcile

import (
	"github.com/ternarybob/arbor"

	"github.com/tripscout/tripscout/internal/interfaces"
	"github.com/tripscout/tripscout/internal/models"
)

// Form applies direct control edits. Each edit is a partial update; the store
// normalizes and clamps, so the result is always a valid snapshot.
type Form struct {
	store  interfaces.PreferenceStore
	logger arbor.ILogger
}

func NewForm(store interfaces.PreferenceStore, logger arbor.ILogger) *Form {
	return &Form{store: store, logger: logger}
}

// Apply mutates the store and returns the resulting snapshot.
func (f *Form) Apply(update models.PreferenceUpdate) models.Preference {
	if update.Empty() {
		return f.store.Read()
	}
	pref := f.store.Apply(update)
	f.logger.Debug().
		Str("mode", string(pref.SearchMode)).
		Int("subcategories", len(pref.Subcategories)).
		Msg("Applied form update")
	return pref
}
