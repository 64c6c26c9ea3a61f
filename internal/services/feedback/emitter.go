// Package feedback is the fire-and-forget interaction channel. Emissions are
// best effort: they never block the caller, never retry and never surface
// failure to the user.
package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/tripscout/tripscout/internal/common"
	"github.com/tripscout/tripscout/internal/interfaces"
	"github.com/tripscout/tripscout/internal/models"
)

const sendTimeout = 10 * time.Second

// RequestIDProvider yields the identifier of the most recently settled
// recommendation request, or "" when none has settled yet.
type RequestIDProvider func() string

// Emitter implements interfaces.FeedbackEmitter.
type Emitter struct {
	sender    interfaces.FeedbackSender
	sessionID string
	requestID RequestIDProvider
	limiter   *rate.Limiter
	journal   interfaces.KeyValueStorage
	logger    arbor.ILogger
}

// NewEmitter creates the emitter. journal may be nil to disable the local
// copy of emitted events.
func NewEmitter(
	sender interfaces.FeedbackSender,
	sessionID string,
	requestID RequestIDProvider,
	config *common.FeedbackConfig,
	journal interfaces.KeyValueStorage,
	logger arbor.ILogger,
) interfaces.FeedbackEmitter {
	if !config.Journal {
		journal = nil
	}
	return &Emitter{
		sender:    sender,
		sessionID: sessionID,
		requestID: requestID,
		limiter:   rate.NewLimiter(rate.Every(config.MinInterval), config.Burst),
		journal:   journal,
		logger:    logger,
	}
}

// Emit posts one interaction event in the background. Events without a
// settled request or a resolvable place identifier are dropped.
func (e *Emitter) Emit(action string, place models.Place) {
	requestID := e.requestID()
	placeID := place.FeedbackID()
	if requestID == "" || placeID == "" {
		e.logger.Debug().
			Str("action", action).
			Str("place_id", placeID).
			Msg("Dropping feedback without request context")
		return
	}

	if !e.limiter.Allow() {
		e.logger.Debug().Str("action", action).Msg("Feedback throttled")
		return
	}

	if action == "" {
		action = "click"
	}

	event := models.FeedbackEvent{
		SessionID: e.sessionID,
		RequestID: requestID,
		Action:    action,
		PlaceID:   placeID,
	}

	go e.send(event)
}

func (e *Emitter) send(event models.FeedbackEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := e.sender.SendFeedback(ctx, event); err != nil {
		e.logger.Warn().Err(err).
			Str("action", event.Action).
			Str("place_id", event.PlaceID).
			Msg("Feedback send failed")
		return
	}

	e.writeJournal(ctx, event)
}

func (e *Emitter) writeJournal(ctx context.Context, event models.FeedbackEvent) {
	if e.journal == nil {
		return
	}

	value, err := json.Marshal(event)
	if err != nil {
		return
	}

	key := fmt.Sprintf("feedback:%s:%d", event.RequestID, time.Now().UnixNano())
	if err := e.journal.Set(ctx, key, string(value)); err != nil {
		e.logger.Debug().Err(err).Msg("Feedback journal write failed")
	}
}
