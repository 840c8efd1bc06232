package models

// ChatTurn is one prior exchange in a client-resent transcript.
// Role is "user" or "assistant".
type ChatTurn struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

// ChatRequest is the payload for POST /chat. SystemPrompt may name a
// catalogued template type or carry free-form instruction text;
// conversation context is rebuilt from ChatHistory on every call.
type ChatRequest struct {
	Message      string     `json:"message"`
	ChatHistory  []ChatTurn `json:"chat_history" binding:"omitempty,dive"`
	SystemPrompt string     `json:"system_prompt"`
}
