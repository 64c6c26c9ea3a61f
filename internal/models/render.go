package models

// WeightSet is the illustrative weighting shown alongside the form. The four
// percentages always sum to exactly 100.
type WeightSet struct {
	Distance int `json:"distance"`
	Activity int `json:"activity"`
	Group    int `json:"group"`
	Budget   int `json:"budget"`
}

// Total returns the percentage sum (100 for any valid preference).
func (w WeightSet) Total() int {
	return w.Distance + w.Activity + w.Group + w.Budget
}

// EngineView is the continuously derived view of the current preference:
// weight visualization plus localized summary chips in fixed order.
type EngineView struct {
	Weights WeightSet `json:"weights"`
	Chips   []string  `json:"chips"`
}

// PlaceMarker is one non-origin marker on the map overlay.
type PlaceMarker struct {
	PlaceID string  `json:"place_id"`
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Rank    int     `json:"rank"`
	Top     bool    `json:"top"` // rank 1, highlighted distinctly
	Popup   string  `json:"popup"`
}

// MapOverlay is the full marker state for one result generation. It is
// rebuilt from scratch on every settled success; partial rebuilds never
// happen.
type MapOverlay struct {
	Origin  Origin        `json:"origin"`
	Markers []PlaceMarker `json:"markers"`
	Center  [2]float64    `json:"center"`
	Zoom    int           `json:"zoom"`
}

// Card is one ranked result card.
type Card struct {
	PlaceID     string   `json:"place_id"`
	Name        string   `json:"name"`
	TypeLabel   string   `json:"type_label"`
	Score       float64  `json:"score"`
	ScorePct    int      `json:"score_pct"` // score bar width, clamped 0-100
	Rank        int      `json:"rank"`
	Top         bool     `json:"top"`
	DistanceKm  *float64 `json:"distance_km,omitempty"`
	Explanation string   `json:"explanation"`
}

// ResultsMeta summarizes the settled response for the results header.
type ResultsMeta struct {
	Count      int    `json:"count"`
	Text       string `json:"text"`        // localized "{count} places • ..." line
	DataSource string `json:"data_source"` // localized data-source label
}

// BreakdownEntry is one explained sub-score as a percentage of its maximum.
type BreakdownEntry struct {
	Label string `json:"label"`
	Pct   int    `json:"pct"`
}

// RenderSnapshot is one atomic render generation: overlay, cards and meta
// always describe the same result set.
type RenderSnapshot struct {
	Generation uint64      `json:"generation"`
	Overlay    MapOverlay  `json:"overlay"`
	Cards      []Card      `json:"cards"`
	Meta       ResultsMeta `json:"meta"`
}

// NoticeKind classifies transient user notices.
type NoticeKind string

const (
	NoticeInfo       NoticeKind = "info"
	NoticeValidation NoticeKind = "validation"
	NoticeFailure    NoticeKind = "failure"
)

// Notice is a transient, auto-dismissing user notification.
type Notice struct {
	Kind NoticeKind `json:"kind"`
	Text string     `json:"text"`
}
