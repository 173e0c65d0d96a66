package model

import (
	"strings"
	"time"
)

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMode only changes how the assistant is framed in the prompt.
type ChatMode string

const (
	ModeFriendly ChatMode = "friendly"
	ModeFocus    ChatMode = "focus"
)

// ParseChatMode maps input to a known mode; anything but "focus" is friendly.
func ParseChatMode(s string) ChatMode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeFocus)) {
		return ModeFocus
	}
	return ModeFriendly
}

// ChatMessage is one turn of a user's conversation with the mentor.
type ChatMessage struct {
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChatMessage(role ChatRole, content string, now time.Time) ChatMessage {
	return ChatMessage{Role: role, Content: content, Timestamp: now}
}

// RecentMessages returns at most the last n messages of history.
func RecentMessages(history []ChatMessage, n int) []ChatMessage {
	if n <= 0 || len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
