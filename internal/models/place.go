package models

// ScoreBreakdown carries the backend's raw sub-scores for one place.
// Each component has a declared maximum used when explaining the score.
type ScoreBreakdown struct {
	Activity float64 `json:"activity"`
	Distance float64 `json:"distance"`
	Group    float64 `json:"group"`
	Budget   float64 `json:"budget"`
	People   float64 `json:"people"`
	Quality  float64 `json:"quality"`
}

// Declared maxima for breakdown sub-scores.
const (
	MaxActivityScore = 30
	MaxDistanceScore = 25
	MaxGroupScore    = 20
	MaxBudgetScore   = 15
	MaxPeopleScore   = 10
	MaxQualityScore  = 10
)

// Place is a server-provided, read-only recommendation result.
type Place struct {
	ID          string          `json:"id"`
	PlaceID     string          `json:"place_id,omitempty"`
	Name        string          `json:"name"`
	Type        string          `json:"type"` // subcategory-like tag
	Lat         *float64        `json:"lat,omitempty"`
	Lon         *float64        `json:"lon,omitempty"`
	Score       float64         `json:"score"` // 0-100
	Rank        int             `json:"rank"`  // 1-based
	DistanceKm  *float64        `json:"distance_km,omitempty"`
	Explanation string          `json:"explanation,omitempty"`
	Breakdown   ScoreBreakdown  `json:"breakdown"`
}

// FeedbackID resolves the identifier used for feedback calls, preferring the
// backend's place_id over the generic id. Empty when neither is set.
func (p Place) FeedbackID() string {
	if p.PlaceID != "" {
		return p.PlaceID
	}
	return p.ID
}

// HasCoordinates reports whether the place can be shown on the map.
func (p Place) HasCoordinates() bool {
	return p.Lat != nil && p.Lon != nil
}

// RecommendRequest is the outbound /recommend payload projected from a
// Preference snapshot plus session, language and optional origin.
type RecommendRequest struct {
	HasCar      bool       `json:"has_car"`
	PeopleCount int        `json:"people_count"`
	RadiusM     int        `json:"radius_m"`
	SearchMode  SearchMode `json:"search_mode"`
	City        string     `json:"city,omitempty"`
	GroupType   GroupType  `json:"group_type"`
	Budget      Budget     `json:"budget"`
	Activities  []string   `json:"activities"`
	Activity    string     `json:"activity"` // coarse hint from the first selected leaf
	Lang        Language   `json:"lang,omitempty"`
	SessionID   string     `json:"session_id,omitempty"`
	Lat         *float64   `json:"lat,omitempty"` // only when origin source is user
	Lon         *float64   `json:"lon,omitempty"`
}

// RecommendResponse is the /recommend reply.
type RecommendResponse struct {
	RequestID       string     `json:"request_id"`
	SearchMode      SearchMode `json:"search_mode"`
	City            string     `json:"city,omitempty"`
	RadiusM         int        `json:"radius_m,omitempty"`
	DataSource      string     `json:"data_source"`
	Origin          *Origin    `json:"origin,omitempty"`
	Recommendations []Place    `json:"recommendations"`
}

// ResponseSummary is the retained slice of a settled response used for
// results metadata.
type ResponseSummary struct {
	Mode       SearchMode
	City       string
	RadiusM    int
	DataSource string
}

// RequestContext is the result of the most recently settled recommendation
// request. It is replaced wholesale on every settled success, never merged.
type RequestContext struct {
	RequestID string
	Summary   *ResponseSummary
	Results   []Place
}

// FeedbackEvent is the fire-and-forget notification payload.
type FeedbackEvent struct {
	SessionID string `json:"session_id"`
	RequestID string `json:"request_id"`
	Action    string `json:"action"`
	PlaceID   string `json:"place_id"`
}
