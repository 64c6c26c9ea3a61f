package feedback

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tripscout/tripscout/internal/common"
	"github.com/tripscout/tripscout/internal/models"
	"github.com/tripscout/tripscout/internal/storage/memory"
)

type recordingSender struct {
	mu     sync.Mutex
	events []models.FeedbackEvent
	done   chan struct{}
}

func newRecordingSender() *recordingSender {
	return &recordingSender{done: make(chan struct{}, 16)}
}

func (r *recordingSender) SendFeedback(ctx context.Context, event models.FeedbackEvent) error {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
	r.done <- struct{}{}
	return nil
}

func (r *recordingSender) wait(t *testing.T) models.FeedbackEvent {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(time.Second):
		t.Fatal("no feedback event sent")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func emitterConfig() *common.FeedbackConfig {
	return &common.FeedbackConfig{MinInterval: 10 * time.Millisecond, Burst: 3, Journal: false}
}

func TestEmitSendsEventWithSessionContext(t *testing.T) {
	sender := newRecordingSender()
	emitter := NewEmitter(sender, "sid_t", func() string { return "req_1" }, emitterConfig(), nil, common.GetLogger())

	emitter.Emit("click", models.Place{ID: "p1", PlaceID: "osm_1"})

	event := sender.wait(t)
	assert.Equal(t, "sid_t", event.SessionID)
	assert.Equal(t, "req_1", event.RequestID)
	assert.Equal(t, "click", event.Action)
	assert.Equal(t, "osm_1", event.PlaceID, "place_id wins over id")
}

func TestEmitDropsWithoutSettledRequest(t *testing.T) {
	sender := newRecordingSender()
	emitter := NewEmitter(sender, "sid_t", func() string { return "" }, emitterConfig(), nil, common.GetLogger())

	emitter.Emit("click", models.Place{ID: "p1"})

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, sender.count(), "no request context means no outbound call")
}

func TestEmitDropsWithoutPlaceID(t *testing.T) {
	sender := newRecordingSender()
	emitter := NewEmitter(sender, "sid_t", func() string { return "req_1" }, emitterConfig(), nil, common.GetLogger())

	emitter.Emit("click", models.Place{Name: "nameless"})

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, sender.count())
}

func TestEmitThrottlesBursts(t *testing.T) {
	sender := newRecordingSender()
	config := &common.FeedbackConfig{MinInterval: time.Hour, Burst: 2, Journal: false}
	emitter := NewEmitter(sender, "sid_t", func() string { return "req_1" }, config, nil, common.GetLogger())

	for i := 0; i < 5; i++ {
		emitter.Emit("click", models.Place{ID: "p1"})
	}

	sender.wait(t)
	sender.wait(t)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 2, sender.count(), "events past the burst are dropped")
}

func TestEmitDefaultsActionToClick(t *testing.T) {
	sender := newRecordingSender()
	emitter := NewEmitter(sender, "sid_t", func() string { return "req_1" }, emitterConfig(), nil, common.GetLogger())

	emitter.Emit("", models.Place{ID: "p1"})

	event := sender.wait(t)
	assert.Equal(t, "click", event.Action)
}

func TestEmitJournalsSentEvents(t *testing.T) {
	sender := newRecordingSender()
	journal := memory.NewKV()
	config := &common.FeedbackConfig{MinInterval: 10 * time.Millisecond, Burst: 3, Journal: true}
	emitter := NewEmitter(sender, "sid_t", func() string { return "req_1" }, config, journal, common.GetLogger())

	emitter.Emit("details", models.Place{ID: "p1"})
	sender.wait(t)

	deadline := time.Now().Add(time.Second)
	for {
		pairs, err := journal.List(context.Background())
		assert.NoError(t, err)
		if len(pairs) == 1 {
			assert.Contains(t, pairs[0].Value, `"action":"details"`)
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("journal entry never appeared")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
