package models

// ChatRequest is the outbound /chat payload: the user's message plus the
// current preference projection so the interpreter can produce deltas.
type ChatRequest struct {
	SessionID string           `json:"session_id"`
	Lang      Language         `json:"lang"`
	Message   string           `json:"message"`
	Current   RecommendRequest `json:"current"`
}

// ChatResponse is the interpreter's reply. Updates is a loosely-typed
// partial-update object handed verbatim to the chat reconciler.
type ChatResponse struct {
	Reply   string         `json:"reply,omitempty"`
	Updates map[string]any `json:"updates,omitempty"`
}

// ChatRole distinguishes transcript entries.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one entry of the bounded in-memory transcript.
type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}
