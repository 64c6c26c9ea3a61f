// Package orchestrator owns the recommendation request lifecycle: payload
// projection, submission, settlement and the retained request context that
// feedback and score explanations hang off.
package orchestrator

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ternarybob/arbor"

	"github.com/tripscout/tripscout/internal/i18n"
	"github.com/tripscout/tripscout/internal/interfaces"
	"github.com/tripscout/tripscout/internal/models"
	"github.com/tripscout/tripscout/internal/services/derive"
	"github.com/tripscout/tripscout/internal/services/render"
)

// Service drives recommendation requests. Submissions carry a monotonic
// generation; only the newest generation may settle, so a slow response can
// never overwrite the results of a later request.
type Service struct {
	store   interfaces.PreferenceStore
	session interfaces.SessionService
	client  interfaces.RecommendClient
	builder *render.Builder
	surface interfaces.RenderSurface
	logger  arbor.ILogger

	generation atomic.Uint64

	mu      sync.Mutex
	current *models.RequestContext
}

func NewService(
	store interfaces.PreferenceStore,
	session interfaces.SessionService,
	client interfaces.RecommendClient,
	builder *render.Builder,
	surface interfaces.RenderSurface,
	logger arbor.ILogger,
) *Service {
	return &Service{
		store:   store,
		session: session,
		client:  client,
		builder: builder,
		surface: surface,
		logger:  logger,
	}
}

// Run submits one recommendation request for the current preference snapshot
// and, if it settles as the newest generation, replaces the request context
// and pushes a fresh render.
func (s *Service) Run(ctx context.Context) error {
	pref := s.store.Read()
	lang := pref.Language

	s.surface.PushEngine(derive.EngineView(pref))

	if !pref.Runnable() {
		s.surface.PushNotice(models.Notice{
			Kind: models.NoticeValidation,
			Text: i18n.T(lang, "notice_type_city"),
		})
		return interfaces.ErrNoCity
	}

	gen := s.generation.Add(1)
	s.surface.PushLoading(true)

	payload := derive.Payload(pref, s.store.Origin(), s.session.ID())
	resp, err := s.client.Recommend(ctx, payload)

	if gen != s.generation.Load() {
		s.logger.Warn().
			Int64("generation", int64(gen)).
			Int64("newest", int64(s.generation.Load())).
			Msg("Dropping stale recommendation response")
		return nil
	}

	if err != nil {
		s.logger.Error().Err(err).Int64("generation", int64(gen)).Msg("Recommendation request failed")
		s.surface.PushNotice(models.Notice{
			Kind: models.NoticeFailure,
			Text: i18n.T(lang, "notice_backend_failed"),
		})
		s.surface.PushLoading(false)
		return err
	}

	if resp.Origin != nil {
		s.store.ConfirmOrigin(*resp.Origin)
	}

	next := &models.RequestContext{
		RequestID: resp.RequestID,
		Summary: &models.ResponseSummary{
			Mode:       resp.SearchMode,
			City:       resp.City,
			RadiusM:    resp.RadiusM,
			DataSource: resp.DataSource,
		},
		Results: resp.Recommendations,
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()

	s.surface.PushRender(s.builder.Snapshot(gen, s.store.Origin(), next, lang))

	noticeKey := "notice_top_picks"
	if len(next.Results) == 0 {
		noticeKey = "notice_no_places"
	}
	s.surface.PushNotice(models.Notice{Kind: models.NoticeInfo, Text: i18n.T(lang, noticeKey)})
	s.surface.PushLoading(false)

	s.logger.Info().
		Int64("generation", int64(gen)).
		Str("request_id", next.RequestID).
		Int("results", len(next.Results)).
		Msg("Recommendation settled")

	return nil
}

// Clear discards the retained context and pushes the empty generation. The
// generation bump also invalidates any request still in flight.
func (s *Service) Clear() {
	gen := s.generation.Add(1)

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	lang := s.store.Read().Language
	s.surface.PushRender(s.builder.Clear(gen, s.store.Origin(), lang))
	s.surface.PushLoading(false)
}

// Recenter re-pushes the current render centered on the origin.
func (s *Service) Recenter() {
	lang := s.store.Read().Language
	origin := s.store.Origin()

	snapshot := s.builder.Snapshot(s.generation.Load(), origin, s.context(), lang)
	snapshot.Overlay.Center = [2]float64{origin.Lat, origin.Lon}
	if origin.Source == models.OriginUser {
		snapshot.Overlay.Zoom = 13
	} else {
		snapshot.Overlay.Zoom = 12
	}
	s.surface.PushRender(snapshot)
}

// Rerender rebuilds the current render without a new request, picking up
// language or origin changes.
func (s *Service) Rerender() {
	lang := s.store.Read().Language
	s.surface.PushRender(s.builder.Snapshot(s.generation.Load(), s.store.Origin(), s.context(), lang))
}

// RequestID returns the identifier of the retained context, or "" when no
// request has settled.
func (s *Service) RequestID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.RequestID
}

// Place resolves a result from the retained context by its feedback
// identifier.
func (s *Service) Place(placeID string) (models.Place, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return models.Place{}, false
	}
	for _, place := range s.current.Results {
		if place.FeedbackID() == placeID || place.ID == placeID {
			return place, true
		}
	}
	return models.Place{}, false
}

func (s *Service) context() *models.RequestContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
