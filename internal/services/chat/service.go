// Package chat runs the assistant conversation: transcript keeping, calls to
// the remote interpreter and the hand-off of interpreted preference updates.
package chat

import (
	"context"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/tripscout/tripscout/internal/i18n"
	"github.com/tripscout/tripscout/internal/interfaces"
	"github.com/tripscout/tripscout/internal/models"
	"github.com/tripscout/tripscout/internal/services/derive"
	"github.com/tripscout/tripscout/internal/services/reconcile"
)

// maxTranscriptLen caps the retained conversation. Older entries are dropped
// so a long-lived session cannot grow the replay payload without bound.
const maxTranscriptLen = 100

// Runner is invoked when interpreted updates make the snapshot runnable.
type Runner interface {
	Run(ctx context.Context) error
}

// Service implements the conversation flow. Each message appends to the
// transcript, asks the interpreter, applies whatever updates survive the
// whitelist and, when they change a runnable snapshot, triggers a search.
type Service struct {
	client     interfaces.ChatClient
	reconciler *reconcile.Chat
	store      interfaces.PreferenceStore
	session    interfaces.SessionService
	runner     Runner
	surface    interfaces.RenderSurface
	logger     arbor.ILogger

	mu         sync.Mutex
	transcript []models.ChatMessage
}

func NewService(
	client interfaces.ChatClient,
	reconciler *reconcile.Chat,
	store interfaces.PreferenceStore,
	session interfaces.SessionService,
	runner Runner,
	surface interfaces.RenderSurface,
	logger arbor.ILogger,
) *Service {
	return &Service{
		client:     client,
		reconciler: reconciler,
		store:      store,
		session:    session,
		runner:     runner,
		surface:    surface,
		logger:     logger,
	}
}

// Welcome seeds the transcript with the localized greeting.
func (s *Service) Welcome() {
	lang := s.session.Language()
	s.append(models.ChatMessage{
		Role: models.ChatRoleAssistant,
		Text: i18n.T(lang, "chat_welcome"),
	})
}

// Send handles one user message end to end. Interpreter failure appends a
// localized failure line instead of surfacing an error to the caller.
func (s *Service) Send(ctx context.Context, message string) {
	if message == "" {
		return
	}

	pref := s.store.Read()
	lang := pref.Language

	s.append(models.ChatMessage{Role: models.ChatRoleUser, Text: message})

	resp, err := s.client.Interpret(ctx, models.ChatRequest{
		SessionID: s.session.ID(),
		Lang:      lang,
		Message:   message,
		Current:   derive.Payload(pref, s.store.Origin(), s.session.ID()),
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Interpreter call failed")
		s.append(models.ChatMessage{
			Role: models.ChatRoleAssistant,
			Text: i18n.T(lang, "notice_chat_failed"),
		})
		return
	}

	if resp.Reply != "" {
		s.append(models.ChatMessage{Role: models.ChatRoleAssistant, Text: resp.Reply})
	}

	pref, applied, trigger := s.reconciler.Apply(resp.Updates)
	if applied > 0 {
		s.surface.PushEngine(derive.EngineView(pref))
	}
	if trigger {
		if err := s.runner.Run(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("Chat-triggered search failed")
		}
	}
}

// Transcript returns a copy of the conversation so far.
func (s *Service) Transcript() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.transcript))
	copy(out, s.transcript)
	return out
}

func (s *Service) append(message models.ChatMessage) {
	s.mu.Lock()
	s.transcript = append(s.transcript, message)
	if overflow := len(s.transcript) - maxTranscriptLen; overflow > 0 {
		s.transcript = append(s.transcript[:0], s.transcript[overflow:]...)
	}
	s.mu.Unlock()
	s.surface.PushChat(message)
}
