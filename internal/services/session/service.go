// Package session owns the durable per-install identity and language
// preference. The identity is created once and never rotated; both values
// regenerate in memory when storage is unavailable.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/tripscout/tripscout/internal/common"
	"github.com/tripscout/tripscout/internal/interfaces"
	"github.com/tripscout/tripscout/internal/models"
)

const (
	sessionKey  = "tripscout_session_id"
	languageKey = "tripscout_lang"
)

// Service implements interfaces.SessionService.
type Service struct {
	kv     interfaces.KeyValueStorage
	logger arbor.ILogger

	mu   sync.RWMutex
	id   string
	lang models.Language
}

// NewService loads or creates the session identity. A nil or failing store
// degrades to in-memory values.
func NewService(kv interfaces.KeyValueStorage, logger arbor.ILogger) interfaces.SessionService {
	s := &Service{
		kv:     kv,
		logger: logger,
		lang:   models.LangEnglish,
	}

	ctx := context.Background()

	s.id = s.loadOrCreateID(ctx)
	s.lang = s.loadLanguage(ctx)

	logger.Debug().
		Str("session_id", s.id).
		Str("lang", string(s.lang)).
		Msg("Session initialized")

	return s
}

func (s *Service) loadOrCreateID(ctx context.Context) string {
	if s.kv != nil {
		existing, err := s.kv.Get(ctx, sessionKey)
		if err == nil && existing != "" {
			return existing
		}
		if err != nil && !errors.Is(err, interfaces.ErrKeyNotFound) {
			s.logger.Warn().Err(err).Msg("Session storage unavailable, using in-memory identity")
		}
	}

	id := common.NewSessionID()
	if s.kv != nil {
		if err := s.kv.Set(ctx, sessionKey, id); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to persist session identity")
		}
	}
	return id
}

func (s *Service) loadLanguage(ctx context.Context) models.Language {
	if s.kv == nil {
		return models.LangEnglish
	}
	saved, err := s.kv.Get(ctx, languageKey)
	if err != nil {
		return models.LangEnglish
	}
	return models.NormalizeLanguage(saved)
}

// ID returns the durable session token.
func (s *Service) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// Language returns the active language.
func (s *Service) Language() models.Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// SetLanguage stores the language and persists it best-effort.
func (s *Service) SetLanguage(lang models.Language) {
	s.mu.Lock()
	s.lang = lang
	s.mu.Unlock()

	if s.kv == nil {
		return
	}
	if err := s.kv.Set(context.Background(), languageKey, string(lang)); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist language preference")
	}
}
