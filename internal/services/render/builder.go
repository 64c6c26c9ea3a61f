// Package render builds atomic render snapshots from settled recommendation
// state. Overlay, cards and results metadata are always produced together
// from the same result set, so a surface can never show a mixed generation.
package render

import (
	"math"
	"strconv"

	"github.com/ternarybob/arbor"

	"github.com/tripscout/tripscout/internal/i18n"
	"github.com/tripscout/tripscout/internal/models"
	"github.com/tripscout/tripscout/internal/taxonomy"
)

const (
	zoomTopResult  = 13
	zoomUserOrigin = 13
	zoomDemoOrigin = 12
)

// Builder turns request contexts into render snapshots.
type Builder struct {
	logger arbor.ILogger
}

func NewBuilder(logger arbor.ILogger) *Builder {
	return &Builder{logger: logger}
}

// Snapshot builds one full render generation from a settled request context.
// A nil or empty context renders as a cleared surface around the origin.
func (b *Builder) Snapshot(generation uint64, origin models.Origin, ctx *models.RequestContext, lang models.Language) models.RenderSnapshot {
	if ctx == nil || len(ctx.Results) == 0 {
		snapshot := b.Clear(generation, origin, lang)
		if ctx != nil && ctx.Summary != nil {
			snapshot.Meta = buildMeta(ctx, lang)
		}
		return snapshot
	}

	snapshot := models.RenderSnapshot{
		Generation: generation,
		Overlay:    buildOverlay(origin, ctx.Results, lang),
		Cards:      buildCards(ctx.Results, lang),
		Meta:       buildMeta(ctx, lang),
	}

	b.logger.Debug().
		Int64("generation", int64(generation)).
		Int("cards", len(snapshot.Cards)).
		Int("markers", len(snapshot.Overlay.Markers)).
		Msg("Built render snapshot")

	return snapshot
}

// Clear builds the empty generation: origin marker only, no cards, empty-state
// metadata.
func (b *Builder) Clear(generation uint64, origin models.Origin, lang models.Language) models.RenderSnapshot {
	return models.RenderSnapshot{
		Generation: generation,
		Overlay: models.MapOverlay{
			Origin: origin,
			Center: [2]float64{origin.Lat, origin.Lon},
			Zoom:   originZoom(origin),
		},
		Cards: []models.Card{},
		Meta: models.ResultsMeta{
			Text:       i18n.T(lang, "results_empty"),
			DataSource: i18n.DataSourceLabel(lang, ""),
		},
	}
}

// ExplainScore expands a place's raw sub-scores into labeled percentages of
// their declared maxima, in fixed display order.
func ExplainScore(place models.Place, lang models.Language) []models.BreakdownEntry {
	bd := place.Breakdown
	return []models.BreakdownEntry{
		{Label: i18n.T(lang, "breakdown_activity"), Pct: pctOf(bd.Activity, models.MaxActivityScore)},
		{Label: i18n.T(lang, "breakdown_distance"), Pct: pctOf(bd.Distance, models.MaxDistanceScore)},
		{Label: i18n.T(lang, "breakdown_group"), Pct: pctOf(bd.Group, models.MaxGroupScore)},
		{Label: i18n.T(lang, "breakdown_budget"), Pct: pctOf(bd.Budget, models.MaxBudgetScore)},
		{Label: i18n.T(lang, "breakdown_people"), Pct: pctOf(bd.People, models.MaxPeopleScore)},
		{Label: i18n.T(lang, "breakdown_quality"), Pct: pctOf(bd.Quality, models.MaxQualityScore)},
	}
}

func buildOverlay(origin models.Origin, results []models.Place, lang models.Language) models.MapOverlay {
	overlay := models.MapOverlay{
		Origin:  origin,
		Markers: make([]models.PlaceMarker, 0, len(results)),
		Center:  [2]float64{origin.Lat, origin.Lon},
		Zoom:    originZoom(origin),
	}

	for i, place := range results {
		if !place.HasCoordinates() {
			continue
		}
		rank := place.Rank
		if rank == 0 {
			rank = i + 1
		}
		overlay.Markers = append(overlay.Markers, models.PlaceMarker{
			PlaceID: place.FeedbackID(),
			Name:    placeName(place, lang),
			Lat:     *place.Lat,
			Lon:     *place.Lon,
			Rank:    rank,
			Top:     rank == 1,
			Popup:   popupText(place, lang),
		})
	}

	if top := results[0]; top.HasCoordinates() {
		overlay.Center = [2]float64{*top.Lat, *top.Lon}
		overlay.Zoom = zoomTopResult
	}

	return overlay
}

func buildCards(results []models.Place, lang models.Language) []models.Card {
	cards := make([]models.Card, 0, len(results))
	for i, place := range results {
		rank := place.Rank
		if rank == 0 {
			rank = i + 1
		}
		explanation := place.Explanation
		if explanation == "" {
			explanation = i18n.T(lang, "fallback_explanation")
		}
		cards = append(cards, models.Card{
			PlaceID:     place.FeedbackID(),
			Name:        placeName(place, lang),
			TypeLabel:   typeLabel(place.Type, lang),
			Score:       place.Score,
			ScorePct:    pctOf(place.Score, 100),
			Rank:        rank,
			Top:         rank == 1,
			DistanceKm:  place.DistanceKm,
			Explanation: explanation,
		})
	}
	return cards
}

func buildMeta(ctx *models.RequestContext, lang models.Language) models.ResultsMeta {
	count := len(ctx.Results)
	summary := ctx.Summary

	var text string
	if summary.Mode == models.SearchModeCity && summary.City != "" {
		text = i18n.Tf(lang, "results_meta_city", map[string]string{
			"count": i18n.N(lang, count),
			"city":  summary.City,
		})
	} else {
		radius := "—"
		if summary.RadiusM > 0 {
			radius = i18n.N(lang, strconv.FormatFloat(float64(summary.RadiusM)/1000, 'f', 1, 64))
		}
		text = i18n.Tf(lang, "results_meta_radius", map[string]string{
			"count":  i18n.N(lang, count),
			"radius": radius,
		})
	}

	return models.ResultsMeta{
		Count:      count,
		Text:       text,
		DataSource: i18n.DataSourceLabel(lang, summary.DataSource),
	}
}

func popupText(place models.Place, lang models.Language) string {
	return placeName(place, lang) + " • " + i18n.T(lang, "marker_popup_score") + ": " + i18n.N(lang, int(math.Round(place.Score)))
}

func placeName(place models.Place, lang models.Language) string {
	if place.Name == "" {
		return i18n.T(lang, "unknown_place")
	}
	return place.Name
}

// typeLabel resolves a place type tag: taxonomy leaves get their leaf label,
// anything else falls through to the coarse activity labels.
func typeLabel(placeType string, lang models.Language) string {
	if taxonomy.IsLeaf(placeType) {
		return taxonomy.LeafLabel(placeType, lang)
	}
	return i18n.ActivityLabel(lang, placeType)
}

func originZoom(origin models.Origin) int {
	if origin.Source == models.OriginUser {
		return zoomUserOrigin
	}
	return zoomDemoOrigin
}

func pctOf(value, max float64) int {
	if max <= 0 {
		return 0
	}
	pct := int(math.Round(value / max * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
