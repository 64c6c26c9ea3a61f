// Package i18n holds the engine-facing bilingual strings: chip templates,
// results metadata, breakdown labels and notice texts. Static page wording
// lives with the page, not here.
package i18n

import (
	"fmt"
	"strings"

	"github.com/tripscout/tripscout/internal/models"
)

type entry struct {
	en string
	fa string
}

func (e entry) text(lang models.Language) string {
	if lang == models.LangFarsi && e.fa != "" {
		return e.fa
	}
	return e.en
}

var table = map[string]entry{
	"chip_car_yes":       {en: "Car: available", fa: "ماشین: دارم"},
	"chip_car_no":        {en: "No car: prioritize nearby", fa: "ماشین: ندارم (نزدیک‌ترها مهم‌ترند)"},
	"chip_people":        {en: "People: {n}", fa: "نفرات: {n}"},
	"chip_city":          {en: "City: {city}", fa: "شهر: {city}"},
	"chip_radius":        {en: "Radius: {km} km", fa: "شعاع: {km} کیلومتر"},
	"chip_group":         {en: "Group: {group}", fa: "همراهی: {group}"},
	"chip_budget":        {en: "Budget: {budget}", fa: "بودجه: {budget}"},
	"chip_activity":      {en: "Activity: {activity}", fa: "فعالیت: {activity}"},
	"group_solo":         {en: "Solo", fa: "تنها"},
	"group_friends":      {en: "Friends", fa: "دوستان"},
	"group_family":       {en: "Family", fa: "خانواده"},
	"budget_low":         {en: "Low", fa: "کم"},
	"budget_medium":      {en: "Medium", fa: "متوسط"},
	"budget_open":        {en: "Open", fa: "باز"},
	"act_nature":         {en: "Nature", fa: "طبیعت"},
	"act_cafe":           {en: "Café", fa: "کافه"},
	"act_restaurant":     {en: "Restaurant", fa: "رستوران"},
	"act_entertainment":  {en: "Entertainment", fa: "سرگرمی"},
	"results_meta_city":  {en: "{count} places • city {city}", fa: "{count} مکان • شهر {city}"},
	"results_meta_radius": {en: "{count} places • radius {radius} km", fa: "{count} مکان • شعاع {radius} کیلومتر"},
	"results_empty":      {en: "Run a search to see results.", fa: "برای دیدن نتایج جستجو کن."},
	"data_source_demo":   {en: "Demo", fa: "نمونه"},
	"data_source_mixed":  {en: "OSM + Demo", fa: "OSM + نمونه"},
	"unknown_place":      {en: "Unknown", fa: "نامشخص"},
	"marker_popup_score": {en: "Score", fa: "امتیاز"},
	"fallback_explanation": {en: "Recommended based on your preferences.", fa: "بر اساس ترجیحات شما پیشنهاد شده."},
	"breakdown_activity": {en: "Activity", fa: "فعالیت"},
	"breakdown_distance": {en: "Distance", fa: "فاصله"},
	"breakdown_group":    {en: "Group", fa: "همراهی"},
	"breakdown_budget":   {en: "Budget", fa: "بودجه"},
	"breakdown_people":   {en: "People", fa: "نفرات"},
	"breakdown_quality":  {en: "Quality", fa: "کیفیت"},
	"notice_type_city":   {en: "Type a city name to search the whole city.", fa: "برای جستجو در کل شهر، نام شهر رو وارد کن."},
	"notice_top_picks":   {en: "Top picks are ready — check the map and explanations.", fa: "بهترین پیشنهادها آماده‌ست — نقشه و توضیح امتیاز رو ببین."},
	"notice_no_places":   {en: "No places found. Try a different activity or increase radius.", fa: "مکانی پیدا نشد. نوع فعالیت رو عوض کن یا شعاع رو بیشتر کن."},
	"notice_backend_failed": {en: "Failed to fetch recommendations. Is the backend running?", fa: "دریافت پیشنهادها ناموفق بود. بک‌اند اجراست؟"},
	"notice_geo_unsupported": {en: "Geolocation is not supported on this device.", fa: "این دستگاه از موقعیت مکانی پشتیبانی نمی‌کند."},
	"notice_location_enabled": {en: "Location enabled. Recommendations will be nearby.", fa: "موقعیت فعال شد. پیشنهادها نزدیک شما خواهد بود."},
	"notice_location_denied": {en: "Location permission denied. Using demo location.", fa: "اجازه موقعیت داده نشد. از موقعیت نمونه استفاده می‌کنیم."},
	"notice_chat_failed": {en: "Chat failed. Please try again.", fa: "چت ناموفق بود. دوباره امتحان کن."},
	"chat_welcome":       {en: "Tell me what you want. Example: “cozy cafe in Tehran with low budget”.", fa: "بگو دنبال چی هستی. مثال: «کافه دنج توی تهران با بودجه کم»."},
}

// T returns the localized string for a key, falling back to English, then to
// the key itself.
func T(lang models.Language, key string) string {
	if e, ok := table[key]; ok {
		return e.text(lang)
	}
	return key
}

// Tf formats a template containing {name} placeholders. Numeric parameters
// are rendered with Persian digits for Farsi.
func Tf(lang models.Language, key string, params map[string]string) string {
	out := T(lang, key)
	for name, value := range params {
		out = strings.ReplaceAll(out, "{"+name+"}", value)
	}
	return out
}

// N renders a number for the active language, using Persian digits for Farsi.
func N(lang models.Language, v any) string {
	s := fmt.Sprintf("%v", v)
	if lang != models.LangFarsi {
		return s
	}
	return toFaDigits(s)
}

var faDigits = map[rune]rune{
	'0': '۰', '1': '۱', '2': '۲', '3': '۳', '4': '۴',
	'5': '۵', '6': '۶', '7': '۷', '8': '۸', '9': '۹',
}

func toFaDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if fa, ok := faDigits[r]; ok {
			b.WriteRune(fa)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// GroupLabel returns the localized group label.
func GroupLabel(lang models.Language, group models.GroupType) string {
	switch group {
	case models.GroupSolo:
		return T(lang, "group_solo")
	case models.GroupFamily:
		return T(lang, "group_family")
	default:
		return T(lang, "group_friends")
	}
}

// BudgetLabel returns the localized budget label.
func BudgetLabel(lang models.Language, budget models.Budget) string {
	switch budget {
	case models.BudgetLow:
		return T(lang, "budget_low")
	case models.BudgetOpen:
		return T(lang, "budget_open")
	default:
		return T(lang, "budget_medium")
	}
}

// ActivityLabel returns the localized coarse-activity label.
func ActivityLabel(lang models.Language, activity string) string {
	switch activity {
	case "cafe":
		return T(lang, "act_cafe")
	case "restaurant":
		return T(lang, "act_restaurant")
	case "entertainment":
		return T(lang, "act_entertainment")
	default:
		return T(lang, "act_nature")
	}
}

// DataSourceLabel maps a backend data-source tag onto its display form.
func DataSourceLabel(lang models.Language, source string) string {
	switch strings.ToLower(source) {
	case "osm":
		return "OSM"
	case "demo":
		return T(lang, "data_source_demo")
	case "osm+demo":
		return T(lang, "data_source_mixed")
	case "":
		return "—"
	default:
		return source
	}
}
