package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/tripscout/tripscout/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// envelope is the wire frame for every pushed update.
type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// WebSocketHandler is the render surface of the engine: derived views, result
// generations, notices, chat lines and the loading flag are broadcast to all
// connected clients. The latest engine view and render are replayed to a
// client on connect so a reload starts from current state.
type WebSocketHandler struct {
	logger          arbor.ILogger
	clients         map[*websocket.Conn]bool
	clientMutex     map[*websocket.Conn]*sync.Mutex
	mu              sync.RWMutex
	engineThrottler *rate.Limiter

	stateMu    sync.Mutex
	lastEngine *models.EngineView
	lastRender *models.RenderSnapshot
}

func NewWebSocketHandler(logger arbor.ILogger) *WebSocketHandler {
	return &WebSocketHandler{
		logger:      logger,
		clients:     make(map[*websocket.Conn]bool),
		clientMutex: make(map[*websocket.Conn]*sync.Mutex),
		// Slider drags produce bursts of engine views; cap the outbound rate.
		engineThrottler: rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
	}
}

// HandleWebSocket upgrades the connection and keeps it registered until the
// client disconnects.
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.clientMutex[conn] = &sync.Mutex{}
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug().Msgf("WebSocket client connected (total: %d)", clientCount)

	h.replayState(conn)

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		delete(h.clientMutex, conn)
		remaining := len(h.clients)
		h.mu.Unlock()

		conn.Close()
		h.logger.Debug().Msgf("WebSocket client disconnected (remaining: %d)", remaining)
	}()

	// Read loop keeps the connection alive; inbound messages are ignored.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn().Err(err).Msg("WebSocket error")
			}
			break
		}
	}
}

// PushEngine broadcasts the derived weight/chips view.
func (h *WebSocketHandler) PushEngine(view models.EngineView) {
	h.stateMu.Lock()
	h.lastEngine = &view
	h.stateMu.Unlock()

	if !h.engineThrottler.Allow() {
		return
	}
	h.broadcast(envelope{Type: "engine", Payload: view})
}

// PushRender broadcasts one atomic result generation.
func (h *WebSocketHandler) PushRender(snapshot models.RenderSnapshot) {
	h.stateMu.Lock()
	h.lastRender = &snapshot
	h.stateMu.Unlock()

	h.broadcast(envelope{Type: "render", Payload: snapshot})
}

// PushNotice broadcasts a transient notice.
func (h *WebSocketHandler) PushNotice(notice models.Notice) {
	h.broadcast(envelope{Type: "notice", Payload: notice})
}

// PushChat broadcasts one transcript entry.
func (h *WebSocketHandler) PushChat(message models.ChatMessage) {
	h.broadcast(envelope{Type: "chat", Payload: message})
}

// PushLoading broadcasts the in-flight indicator.
func (h *WebSocketHandler) PushLoading(loading bool) {
	h.broadcast(envelope{Type: "loading", Payload: loading})
}

func (h *WebSocketHandler) replayState(conn *websocket.Conn) {
	h.stateMu.Lock()
	engine := h.lastEngine
	render := h.lastRender
	h.stateMu.Unlock()

	if engine != nil {
		h.sendToClient(conn, envelope{Type: "engine", Payload: *engine})
	}
	if render != nil {
		h.sendToClient(conn, envelope{Type: "render", Payload: *render})
	}
}

func (h *WebSocketHandler) broadcast(env envelope) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		h.sendToClient(conn, env)
	}
}

func (h *WebSocketHandler) sendToClient(conn *websocket.Conn, env envelope) {
	h.mu.RLock()
	connMu, ok := h.clientMutex[conn]
	h.mu.RUnlock()
	if !ok {
		return
	}

	connMu.Lock()
	err := conn.WriteJSON(env)
	connMu.Unlock()

	if err != nil {
		h.logger.Debug().Err(err).Str("type", env.Type).Msg("WebSocket write failed")
	}
}
