package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripscout/tripscout/internal/common"
	"github.com/tripscout/tripscout/internal/interfaces"
	"github.com/tripscout/tripscout/internal/models"
	"github.com/tripscout/tripscout/internal/services/chat"
	"github.com/tripscout/tripscout/internal/services/orchestrator"
	"github.com/tripscout/tripscout/internal/services/prefs"
	"github.com/tripscout/tripscout/internal/services/reconcile"
	"github.com/tripscout/tripscout/internal/services/render"
)

type fakeSession struct{}

func (fakeSession) ID() string                       { return "sid_t" }
func (fakeSession) Language() models.Language        { return models.LangEnglish }
func (fakeSession) SetLanguage(lang models.Language) {}

type fakeRecommend struct {
	resp *models.RecommendResponse
	err  error
}

func (f *fakeRecommend) Recommend(ctx context.Context, req models.RecommendRequest) (*models.RecommendResponse, error) {
	return f.resp, f.err
}

type fakeInterpreter struct {
	resp *models.ChatResponse
	err  error
}

func (f *fakeInterpreter) Interpret(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	return f.resp, f.err
}

type fakeLocator struct {
	lat, lon float64
	err      error
}

func (f *fakeLocator) Locate(ctx context.Context) (float64, float64, error) {
	return f.lat, f.lon, f.err
}

func (f *fakeLocator) SweepCache() {}

type recordedEmit struct {
	action  string
	placeID string
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []recordedEmit
}

func (e *recordingEmitter) Emit(action string, place models.Place) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, recordedEmit{action: action, placeID: place.FeedbackID()})
}

func (e *recordingEmitter) emitted() []recordedEmit {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]recordedEmit(nil), e.events...)
}

type nullSurface struct{}

func (nullSurface) PushEngine(view models.EngineView)         {}
func (nullSurface) PushRender(snapshot models.RenderSnapshot) {}
func (nullSurface) PushNotice(notice models.Notice)           {}
func (nullSurface) PushChat(message models.ChatMessage)       {}
func (nullSurface) PushLoading(loading bool)                  {}

type engineFixture struct {
	handler *EngineHandler
	store   interfaces.PreferenceStore
	client  *fakeRecommend
	interp  *fakeInterpreter
	locator *fakeLocator
	emitter *recordingEmitter
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	logger := common.GetLogger()
	store := prefs.NewStore(logger)
	session := fakeSession{}
	surface := nullSurface{}
	client := &fakeRecommend{}
	interp := &fakeInterpreter{}
	locator := &fakeLocator{}
	emitter := &recordingEmitter{}

	orch := orchestrator.NewService(store, session, client, render.NewBuilder(logger), surface, logger)
	chatService := chat.NewService(interp, reconcile.NewChat(store, logger), store, session, orch, surface, logger)

	handler := NewEngineHandler(
		reconcile.NewForm(store, logger),
		reconcile.NewLocation(locator, store, logger),
		chatService,
		orch,
		store,
		session,
		emitter,
		surface,
		logger,
	)

	return &engineFixture{
		handler: handler,
		store:   store,
		client:  client,
		interp:  interp,
		locator: locator,
		emitter: emitter,
	}
}

func postJSON(t *testing.T, handlerFunc http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	w := httptest.NewRecorder()
	handlerFunc(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func f64(v float64) *float64 { return &v }

func settledResponse() *models.RecommendResponse {
	return &models.RecommendResponse{
		RequestID:  "req_9",
		SearchMode: models.SearchModeRadius,
		RadiusM:    4500,
		DataSource: "osm",
		Recommendations: []models.Place{
			{ID: "p1", Name: "Cafe Naderi", Type: "cafe", Lat: f64(35.70), Lon: f64(51.42), Score: 88, Rank: 1},
			{ID: "p2", Name: "Mellat Park", Type: "park", Score: 75, Rank: 2},
		},
	}
}

func TestStateHandlerReturnsFullState(t *testing.T) {
	f := newEngineFixture(t)

	req := httptest.NewRequest("GET", "/api/state", nil)
	w := httptest.NewRecorder()
	f.handler.StateHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "sid_t", body["session_id"])
	assert.Equal(t, "en", body["lang"])
	assert.Equal(t, "", body["request_id"])

	pref, ok := body["preference"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "radius", pref["search_mode"])
	assert.Equal(t, float64(4500), pref["radius_m"])

	origin, ok := body["origin"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "demo", origin["source"])
}

func TestStateHandlerRejectsPost(t *testing.T) {
	f := newEngineFixture(t)

	req := httptest.NewRequest("POST", "/api/state", nil)
	w := httptest.NewRecorder()
	f.handler.StateHandler(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestUpdatePreferencesClampsOutOfRangeValues(t *testing.T) {
	f := newEngineFixture(t)

	w := postJSON(t, f.handler.UpdatePreferencesHandler, "/api/preferences", map[string]interface{}{
		"radius_m":     99999,
		"people_count": 0,
	})

	require.Equal(t, http.StatusOK, w.Code)
	pref := f.store.Read()
	assert.Equal(t, models.MaxRadiusM, pref.RadiusMeters)
	assert.Equal(t, models.MinPeopleCount, pref.PeopleCount)
}

func TestUpdatePreferencesRejectsInvalidBody(t *testing.T) {
	f := newEngineFixture(t)

	req := httptest.NewRequest("POST", "/api/preferences", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	f.handler.UpdatePreferencesHandler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchHandlerSettles(t *testing.T) {
	f := newEngineFixture(t)
	f.client.resp = settledResponse()

	w := postJSON(t, f.handler.SearchHandler, "/api/search", map[string]string{})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "settled", body["status"])
	assert.Equal(t, "req_9", body["request_id"])
}

func TestSearchHandlerCityModeWithoutCity(t *testing.T) {
	f := newEngineFixture(t)
	mode := models.SearchModeCity
	f.store.Apply(models.PreferenceUpdate{SearchMode: &mode})

	w := postJSON(t, f.handler.SearchHandler, "/api/search", map[string]string{})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSearchHandlerBackendFailure(t *testing.T) {
	f := newEngineFixture(t)
	f.client.err = assert.AnError

	w := postJSON(t, f.handler.SearchHandler, "/api/search", map[string]string{})

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestLanguageHandlerSwitchesLanguage(t *testing.T) {
	f := newEngineFixture(t)

	w := postJSON(t, f.handler.LanguageHandler, "/api/language", map[string]string{"lang": "fa-IR"})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "fa", body["lang"])
	assert.Equal(t, models.LangFarsi, f.store.Read().Language)
}

func TestFeedbackHandlerEmitsForKnownPlace(t *testing.T) {
	f := newEngineFixture(t)
	f.client.resp = settledResponse()
	postJSON(t, f.handler.SearchHandler, "/api/search", map[string]string{})

	w := postJSON(t, f.handler.FeedbackHandler, "/api/feedback", map[string]string{
		"action":   "click",
		"place_id": "p1",
	})

	require.Equal(t, http.StatusAccepted, w.Code)
	events := f.emitter.emitted()
	require.Len(t, events, 1)
	assert.Equal(t, "click", events[0].action)
	assert.Equal(t, "p1", events[0].placeID)
}

func TestFeedbackHandlerAcceptsUnknownPlaceWithoutEmitting(t *testing.T) {
	f := newEngineFixture(t)

	w := postJSON(t, f.handler.FeedbackHandler, "/api/feedback", map[string]string{
		"action":   "click",
		"place_id": "nope",
	})

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Empty(t, f.emitter.emitted())
}

func TestExplainHandlerReturnsBreakdown(t *testing.T) {
	f := newEngineFixture(t)
	f.client.resp = settledResponse()
	postJSON(t, f.handler.SearchHandler, "/api/search", map[string]string{})

	req := httptest.NewRequest("GET", "/api/places/p1/explain", nil)
	w := httptest.NewRecorder()
	f.handler.ExplainHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "p1", body["place_id"])
	breakdown, ok := body["breakdown"].([]interface{})
	require.True(t, ok)
	assert.Len(t, breakdown, 6)
}

func TestExplainHandlerUnknownPlace(t *testing.T) {
	f := newEngineFixture(t)

	req := httptest.NewRequest("GET", "/api/places/ghost/explain", nil)
	w := httptest.NewRecorder()
	f.handler.ExplainHandler(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLocateHandlerPromotesUserOrigin(t *testing.T) {
	f := newEngineFixture(t)
	f.locator.lat, f.locator.lon = 35.80, 51.41

	w := postJSON(t, f.handler.LocateHandler, "/api/locate", map[string]string{})

	require.Equal(t, http.StatusOK, w.Code)
	origin := f.store.Origin()
	assert.Equal(t, models.OriginUser, origin.Source)
	assert.Equal(t, 35.80, origin.Lat)
}

func TestLocateHandlerTimeout(t *testing.T) {
	f := newEngineFixture(t)
	f.locator.err = interfaces.ErrGeoTimeout

	w := postJSON(t, f.handler.LocateHandler, "/api/locate", map[string]string{})

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, models.OriginDemo, f.store.Origin().Source)
}

func TestLocateHandlerUnsupported(t *testing.T) {
	f := newEngineFixture(t)
	f.locator.err = interfaces.ErrGeoUnsupported

	w := postJSON(t, f.handler.LocateHandler, "/api/locate", map[string]string{})

	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestChatMessageHandlerAppendsReply(t *testing.T) {
	f := newEngineFixture(t)
	f.interp.resp = &models.ChatResponse{Reply: "Noted, searching cafes."}

	w := postJSON(t, f.handler.ChatMessageHandler, "/api/chat", map[string]string{"message": "find me a cafe"})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	transcript, ok := body["transcript"].([]interface{})
	require.True(t, ok)
	require.Len(t, transcript, 2)
	last := transcript[1].(map[string]interface{})
	assert.Equal(t, "assistant", last["role"])
	assert.Equal(t, "Noted, searching cafes.", last["text"])
}

func TestChatMessageHandlerRejectsEmptyMessage(t *testing.T) {
	f := newEngineFixture(t)

	w := postJSON(t, f.handler.ChatMessageHandler, "/api/chat", map[string]string{"message": "   "})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClearHandler(t *testing.T) {
	f := newEngineFixture(t)
	f.client.resp = settledResponse()
	postJSON(t, f.handler.SearchHandler, "/api/search", map[string]string{})

	w := postJSON(t, f.handler.ClearHandler, "/api/results/clear", map[string]string{})

	require.Equal(t, http.StatusOK, w.Code)
	req := httptest.NewRequest("GET", "/api/state", nil)
	stateW := httptest.NewRecorder()
	f.handler.StateHandler(stateW, req)
	assert.Equal(t, "", decodeBody(t, stateW)["request_id"])
}
