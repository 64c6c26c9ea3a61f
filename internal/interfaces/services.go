package interfaces

import (
	"context"

	"github.com/tripscout/tripscout/internal/models"
)

// PreferenceStore is the single source of truth for user intent. Apply never
// produces an invalid snapshot: subcategory edits are normalized and repaired,
// numeric fields clamped. Mutations are synchronous and immediately
// observable.
type PreferenceStore interface {
	Read() models.Preference
	Apply(update models.PreferenceUpdate) models.Preference

	// Origin returns the current recommendation anchor.
	Origin() models.Origin

	// SetUserOrigin records a user-granted position. User origins are sticky.
	SetUserOrigin(lat, lon float64) models.Origin

	// ConfirmOrigin applies a backend-confirmed demo/city anchor only when
	// the current source is not user. Returns the origin in effect afterwards
	// and whether it changed.
	ConfirmOrigin(origin models.Origin) (models.Origin, bool)
}

// SessionService owns the durable session identity and language preference.
type SessionService interface {
	ID() string
	Language() models.Language
	SetLanguage(lang models.Language)
}

// RecommendClient calls the remote scoring backend.
type RecommendClient interface {
	Recommend(ctx context.Context, req models.RecommendRequest) (*models.RecommendResponse, error)
}

// ChatClient calls the remote natural-language interpreter.
type ChatClient interface {
	Interpret(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
}

// FeedbackSender posts one feedback event. Transport only; the emitter above
// it decides what gets sent at all.
type FeedbackSender interface {
	SendFeedback(ctx context.Context, event models.FeedbackEvent) error
}

// FeedbackEmitter is the best-effort notification channel. Emit never blocks,
// never retries and never surfaces failure.
type FeedbackEmitter interface {
	Emit(action string, place models.Place)
}

// GeoProvider is the platform geolocation capability: a permission-gated
// coordinate query. Implementations are expected to honor ctx cancellation.
type GeoProvider interface {
	CurrentPosition(ctx context.Context) (lat, lon float64, err error)
}

// Locator is the geolocation adapter with timeout and staleness-cache
// semantics applied.
type Locator interface {
	Locate(ctx context.Context) (lat, lon float64, err error)

	// SweepCache drops a cached position older than the staleness ceiling.
	SweepCache()
}

// RenderSurface consumes derived and settled render state. The engine pushes;
// the surface (a WebSocket hub in the host, a recorder in tests) displays.
type RenderSurface interface {
	// PushEngine delivers the continuously derived weight/chips view.
	PushEngine(view models.EngineView)

	// PushRender delivers one atomic result generation.
	PushRender(snapshot models.RenderSnapshot)

	// PushNotice delivers a transient, auto-dismissing notice.
	PushNotice(notice models.Notice)

	// PushChat appends one transcript entry.
	PushChat(message models.ChatMessage)

	// PushLoading toggles the in-flight indicator.
	PushLoading(loading bool)
}
