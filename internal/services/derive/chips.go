package derive

import (
	"fmt"
	"strconv"

	"github.com/tripscout/tripscout/internal/i18n"
	"github.com/tripscout/tripscout/internal/models"
	"github.com/tripscout/tripscout/internal/taxonomy"
)

// Chips renders the fixed-order summary of a preference snapshot:
// car → people → area-or-city → group → budget → activity. The activity
// summary shows at most two labels plus an overflow count.
func Chips(pref models.Preference) []string {
	lang := pref.Language
	chips := make([]string, 0, 6)

	if pref.HasCar {
		chips = append(chips, i18n.T(lang, "chip_car_yes"))
	} else {
		chips = append(chips, i18n.T(lang, "chip_car_no"))
	}

	chips = append(chips, i18n.Tf(lang, "chip_people", map[string]string{
		"n": i18n.N(lang, pref.PeopleCount),
	}))

	if pref.SearchMode == models.SearchModeCity && pref.City != "" {
		chips = append(chips, i18n.Tf(lang, "chip_city", map[string]string{"city": pref.City}))
	} else {
		chips = append(chips, i18n.Tf(lang, "chip_radius", map[string]string{
			"km": i18n.N(lang, formatKm(pref.RadiusKm())),
		}))
	}

	chips = append(chips, i18n.Tf(lang, "chip_group", map[string]string{
		"group": i18n.GroupLabel(lang, pref.GroupType),
	}))
	chips = append(chips, i18n.Tf(lang, "chip_budget", map[string]string{
		"budget": i18n.BudgetLabel(lang, pref.Budget),
	}))
	chips = append(chips, i18n.Tf(lang, "chip_activity", map[string]string{
		"activity": activitySummary(pref, lang),
	}))

	return chips
}

// activitySummary joins up to two leaf labels, then an overflow count.
func activitySummary(pref models.Preference, lang models.Language) string {
	ids := pref.Subcategories
	if len(ids) == 0 {
		primary := taxonomy.PrimaryActivity("")
		return i18n.ActivityLabel(lang, string(primary))
	}

	labels := make([]string, 0, 2)
	for i, id := range ids {
		if i == 2 {
			break
		}
		labels = append(labels, taxonomy.LeafLabel(id, lang))
	}

	summary := labels[0]
	if len(labels) == 2 {
		summary += " / " + labels[1]
	}
	if len(ids) > 2 {
		summary += fmt.Sprintf(" +%s", i18n.N(lang, len(ids)-2))
	}
	return summary
}

// formatKm renders a kilometre value with at most one decimal place.
func formatKm(km float64) string {
	rounded := float64(int(km*10+0.5)) / 10
	if rounded == float64(int(rounded)) {
		return strconv.Itoa(int(rounded))
	}
	return strconv.FormatFloat(rounded, 'f', 1, 64)
}
