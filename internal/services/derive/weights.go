// Package derive contains the pure, deterministic mappings from a Preference
// snapshot to its derived views: the weight visualization, the summary chips
// and the outbound request payload. Nothing in this package performs I/O.
package derive

import (
	"math"

	"github.com/tripscout/tripscout/internal/models"
)

// Weights computes the illustrative four-way weighting for a preference.
// The raw scores encode the qualitative rules (distance matters more without
// a car, group context more for families, budget less when open); the result
// is normalized to sum exactly 100, with the budget bucket absorbing the
// rounding remainder.
func Weights(pref models.Preference) models.WeightSet {
	distance := 26.0
	if !pref.HasCar {
		distance = 38
	}
	activity := 34.0
	group := 20.0
	switch pref.GroupType {
	case models.GroupFamily:
		group = 22
	case models.GroupSolo:
		group = 16
	}
	budget := 16.0
	if pref.Budget == models.BudgetOpen {
		budget = 10
	}

	sum := distance + activity + group + budget
	d := int(math.Round(distance / sum * 100))
	a := int(math.Round(activity / sum * 100))
	g := int(math.Round(group / sum * 100))
	b := 100 - d - a - g
	if b < 0 {
		b = 0
	}

	return models.WeightSet{Distance: d, Activity: a, Group: g, Budget: b}
}
