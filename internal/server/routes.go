package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket route (render surface push channel)
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// API routes - engine state and preferences
	mux.HandleFunc("/api/state", s.app.EngineHandler.StateHandler)
	mux.HandleFunc("/api/preferences", s.app.EngineHandler.UpdatePreferencesHandler)
	mux.HandleFunc("/api/language", s.app.EngineHandler.LanguageHandler)

	// API routes - recommendation lifecycle
	mux.HandleFunc("/api/search", s.app.EngineHandler.SearchHandler)
	mux.HandleFunc("/api/results/clear", s.app.EngineHandler.ClearHandler)
	mux.HandleFunc("/api/map/recenter", s.app.EngineHandler.RecenterHandler)
	mux.HandleFunc("/api/places/", s.handlePlaceRoutes) // GET /{id}/explain

	// API routes - chat and location
	mux.HandleFunc("/api/chat", s.app.EngineHandler.ChatMessageHandler)
	mux.HandleFunc("/api/locate", s.app.EngineHandler.LocateHandler)

	// API routes - feedback
	mux.HandleFunc("/api/feedback", s.app.EngineHandler.FeedbackHandler)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handlePlaceRoutes routes /api/places/{id}/explain requests
func (s *Server) handlePlaceRoutes(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/explain") {
		s.app.EngineHandler.ExplainHandler(w, r)
		return
	}

	s.app.APIHandler.NotFoundHandler(w, r)
}
