package models

// Language is the UI language for labels and backend hints.
type Language string

const (
	LangEnglish Language = "en"
	LangFarsi   Language = "fa"
)

// SearchMode selects between a radius search around the origin and a
// whole-city search.
type SearchMode string

const (
	SearchModeRadius SearchMode = "radius"
	SearchModeCity   SearchMode = "city"
)

// GroupType describes who the user is going out with.
type GroupType string

const (
	GroupSolo    GroupType = "solo"
	GroupFriends GroupType = "friends"
	GroupFamily  GroupType = "family"
)

// Budget is the qualitative spending preference.
type Budget string

const (
	BudgetLow    Budget = "low"
	BudgetMedium Budget = "medium"
	BudgetOpen   Budget = "open"
)

// Bounds for clamped numeric preferences.
const (
	MinPeopleCount = 1
	MaxPeopleCount = 10
	MinRadiusM     = 1000
	MaxRadiusM     = 15000
)

// Preference is the canonical snapshot of user intent. Instances handed out
// by the store are value copies; mutation goes through the store's Apply.
type Preference struct {
	HasCar        bool       `json:"has_car"`
	PeopleCount   int        `json:"people_count"`
	SearchMode    SearchMode `json:"search_mode"`
	RadiusMeters  int        `json:"radius_m"`
	City          string     `json:"city"`
	GroupType     GroupType  `json:"group_type"`
	Budget        Budget     `json:"budget"`
	Subcategories []string   `json:"subcategories"` // ordered, never empty, always valid taxonomy leaves
	Language      Language   `json:"lang"`
}

// Clone returns a deep copy of the preference snapshot.
func (p Preference) Clone() Preference {
	out := p
	out.Subcategories = make([]string, len(p.Subcategories))
	copy(out.Subcategories, p.Subcategories)
	return out
}

// Runnable reports whether the snapshot can back a recommendation request.
// City mode requires a non-empty city; every other snapshot is runnable.
func (p Preference) Runnable() bool {
	return p.SearchMode != SearchModeCity || p.City != ""
}

// RadiusKm returns the radius in kilometres for display purposes.
func (p Preference) RadiusKm() float64 {
	return float64(p.RadiusMeters) / 1000
}

// PreferenceUpdate is a partial update against the store. Nil fields are
// left untouched; set fields are normalized and clamped on apply.
type PreferenceUpdate struct {
	HasCar         *bool
	PeopleCount    *int
	SearchMode     *SearchMode
	RadiusMeters   *int
	City           *string
	GroupType      *GroupType
	Budget         *Budget
	Subcategories  []string
	Language       *Language
	ActiveCategory *string
}

// Empty reports whether the update carries no recognized fields.
func (u PreferenceUpdate) Empty() bool {
	return u.HasCar == nil && u.PeopleCount == nil && u.SearchMode == nil &&
		u.RadiusMeters == nil && u.City == nil && u.GroupType == nil &&
		u.Budget == nil && u.Subcategories == nil && u.Language == nil &&
		u.ActiveCategory == nil
}

// OriginSource records how the recommendation anchor was obtained.
type OriginSource string

const (
	OriginDemo OriginSource = "demo"
	OriginCity OriginSource = "city"
	OriginUser OriginSource = "user"
)

// Origin is the anchor coordinate for distance scoring and map centering.
type Origin struct {
	Lat    float64      `json:"lat"`
	Lon    float64      `json:"lon"`
	Source OriginSource `json:"source"`
}

// DefaultOrigin is the demo anchor used until geolocation or a backend
// confirmation replaces it (Tehran city center).
func DefaultOrigin() Origin {
	return Origin{Lat: 35.6892, Lon: 51.3890, Source: OriginDemo}
}

// NormalizeLanguage maps loose language strings onto the two supported
// languages. Anything that is not recognizably Farsi resolves to English.
func NormalizeLanguage(value string) Language {
	switch {
	case len(value) >= 2 && (value[:2] == "fa" || value[:2] == "Fa" || value[:2] == "FA"):
		return LangFarsi
	case value == "farsi" || value == "persian":
		return LangFarsi
	default:
		return LangEnglish
	}
}

// ClampPeople constrains a party size to the supported range.
func ClampPeople(n int) int {
	if n < MinPeopleCount {
		return MinPeopleCount
	}
	if n > MaxPeopleCount {
		return MaxPeopleCount
	}
	return n
}

// ClampRadiusM constrains a radius in metres to the supported range.
func ClampRadiusM(m int) int {
	if m < MinRadiusM {
		return MinRadiusM
	}
	if m > MaxRadiusM {
		return MaxRadiusM
	}
	return m
}
