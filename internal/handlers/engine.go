package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/tripscout/tripscout/internal/i18n"
	"github.com/tripscout/tripscout/internal/interfaces"
	"github.com/tripscout/tripscout/internal/models"
	"github.com/tripscout/tripscout/internal/services/chat"
	"github.com/tripscout/tripscout/internal/services/derive"
	"github.com/tripscout/tripscout/internal/services/orchestrator"
	"github.com/tripscout/tripscout/internal/services/reconcile"
	"github.com/tripscout/tripscout/internal/services/render"
)

// EngineHandler exposes the engine operations over JSON endpoints. Result
// state flows back through the WebSocket surface; these endpoints mostly
// acknowledge and return the piece of state they touched.
type EngineHandler struct {
	form         *reconcile.Form
	location     *reconcile.Location
	chat         *chat.Service
	orchestrator *orchestrator.Service
	store        interfaces.PreferenceStore
	session      interfaces.SessionService
	emitter      interfaces.FeedbackEmitter
	surface      interfaces.RenderSurface
	logger       arbor.ILogger
}

func NewEngineHandler(
	form *reconcile.Form,
	location *reconcile.Location,
	chatService *chat.Service,
	orchestratorService *orchestrator.Service,
	store interfaces.PreferenceStore,
	session interfaces.SessionService,
	emitter interfaces.FeedbackEmitter,
	surface interfaces.RenderSurface,
	logger arbor.ILogger,
) *EngineHandler {
	return &EngineHandler{
		form:         form,
		location:     location,
		chat:         chatService,
		orchestrator: orchestratorService,
		store:        store,
		session:      session,
		emitter:      emitter,
		surface:      surface,
		logger:       logger,
	}
}

// preferenceUpdateRequest is the wire shape of a partial preference edit.
type preferenceUpdateRequest struct {
	HasCar         *bool    `json:"has_car,omitempty"`
	PeopleCount    *int     `json:"people_count,omitempty"`
	SearchMode     *string  `json:"search_mode,omitempty"`
	RadiusM        *int     `json:"radius_m,omitempty"`
	City           *string  `json:"city,omitempty"`
	GroupType      *string  `json:"group_type,omitempty"`
	Budget         *string  `json:"budget,omitempty"`
	Activities     []string `json:"activities,omitempty"`
	ActiveCategory *string  `json:"active_category,omitempty"`
	Lang           *string  `json:"lang,omitempty"`
}

func (r preferenceUpdateRequest) toUpdate() models.PreferenceUpdate {
	update := models.PreferenceUpdate{
		HasCar:         r.HasCar,
		PeopleCount:    r.PeopleCount,
		RadiusMeters:   r.RadiusM,
		City:           r.City,
		Subcategories:  r.Activities,
		ActiveCategory: r.ActiveCategory,
	}
	if r.SearchMode != nil {
		mode := models.SearchMode(*r.SearchMode)
		update.SearchMode = &mode
	}
	if r.GroupType != nil {
		group := models.GroupType(*r.GroupType)
		update.GroupType = &group
	}
	if r.Budget != nil {
		budget := models.Budget(*r.Budget)
		update.Budget = &budget
	}
	if r.Lang != nil {
		lang := models.NormalizeLanguage(*r.Lang)
		update.Language = &lang
	}
	return update
}

// StateHandler returns the full engine state for initial page load.
func (h *EngineHandler) StateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	pref := h.store.Read()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": h.session.ID(),
		"lang":       pref.Language,
		"preference": pref,
		"origin":     h.store.Origin(),
		"engine":     derive.EngineView(pref),
		"transcript": h.chat.Transcript(),
		"request_id": h.orchestrator.RequestID(),
	})
}

// UpdatePreferencesHandler applies a partial preference edit and pushes the
// refreshed engine view.
func (h *EngineHandler) UpdatePreferencesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req preferenceUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pref := h.form.Apply(req.toUpdate())
	h.surface.PushEngine(derive.EngineView(pref))

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"preference": pref,
		"engine":     derive.EngineView(pref),
	})
}

// SearchHandler runs one recommendation request for the current snapshot.
func (h *EngineHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	if err := h.orchestrator.Run(r.Context()); err != nil {
		if errors.Is(err, interfaces.ErrNoCity) {
			WriteError(w, http.StatusUnprocessableEntity, "city is required in city mode")
			return
		}
		WriteError(w, http.StatusBadGateway, "recommendation request failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":     "settled",
		"request_id": h.orchestrator.RequestID(),
	})
}

// ChatMessageHandler handles one user chat message.
func (h *EngineHandler) ChatMessageHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		WriteError(w, http.StatusBadRequest, "message is required")
		return
	}

	h.chat.Send(r.Context(), message)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transcript": h.chat.Transcript(),
	})
}

// LocateHandler resolves the device position into a sticky user origin.
func (h *EngineHandler) LocateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	lang := h.store.Read().Language
	origin, err := h.location.Resolve(r.Context())
	if err != nil {
		key := "notice_location_denied"
		status := http.StatusForbidden
		switch {
		case errors.Is(err, interfaces.ErrGeoUnsupported):
			key = "notice_geo_unsupported"
			status = http.StatusNotImplemented
		case errors.Is(err, interfaces.ErrGeoTimeout):
			status = http.StatusGatewayTimeout
		}
		h.surface.PushNotice(models.Notice{Kind: models.NoticeFailure, Text: i18n.T(lang, key)})
		WriteError(w, status, "position unavailable")
		return
	}

	h.surface.PushNotice(models.Notice{Kind: models.NoticeInfo, Text: i18n.T(lang, "notice_location_enabled")})
	h.orchestrator.Rerender()

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"origin": origin,
	})
}

// FeedbackHandler emits one interaction event. The channel is best effort, so
// the response is an acknowledgement, not a delivery receipt.
func (h *EngineHandler) FeedbackHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req struct {
		Action  string `json:"action"`
		PlaceID string `json:"place_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if place, ok := h.orchestrator.Place(req.PlaceID); ok {
		h.emitter.Emit(req.Action, place)
	}

	WriteJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// ClearHandler discards the retained results.
func (h *EngineHandler) ClearHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	h.orchestrator.Clear()
	WriteSuccess(w, "results cleared")
}

// RecenterHandler re-pushes the render centered on the origin.
func (h *EngineHandler) RecenterHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	h.orchestrator.Recenter()
	WriteSuccess(w, "recentered")
}

// LanguageHandler switches the UI language and re-renders derived state.
func (h *EngineHandler) LanguageHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req struct {
		Lang string `json:"lang"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lang := models.NormalizeLanguage(req.Lang)
	h.session.SetLanguage(lang)
	pref := h.form.Apply(models.PreferenceUpdate{Language: &lang})

	h.surface.PushEngine(derive.EngineView(pref))
	h.orchestrator.Rerender()

	WriteJSON(w, http.StatusOK, map[string]string{"lang": string(lang)})
}

// ExplainHandler expands the score breakdown for one retained result.
// Route shape: /api/places/{id}/explain
func (h *EngineHandler) ExplainHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/places/")
	placeID := strings.TrimSuffix(path, "/explain")
	if placeID == "" || placeID == path {
		WriteError(w, http.StatusNotFound, "unknown place route")
		return
	}

	place, ok := h.orchestrator.Place(placeID)
	if !ok {
		WriteError(w, http.StatusNotFound, "place not in current results")
		return
	}

	lang := h.store.Read().Language
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"place_id":  place.FeedbackID(),
		"name":      place.Name,
		"score":     place.Score,
		"breakdown": render.ExplainScore(place, lang),
	})
}
