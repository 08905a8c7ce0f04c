// Package message holds the shared encoders and mapping tables that turn
// native SDK objects into the plain payloads emitted to listeners.
package message

import (
	"strconv"
	"strings"

	"github.com/crisp-im/crisp-bridge/internal/content"
	"github.com/crisp-im/crisp-bridge/internal/sdk"
)

// Origin of a chat message after normalization.
const (
	OriginLocal   = "local"
	OriginNetwork = "network"
	OriginUpdate  = "update"
)

// User is the optional author block of an encoded message.
type User struct {
	Nickname string `json:"nickname,omitempty"`
	UserID   string `json:"userId,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// ChatMessage is the listener-facing encoding of a native chat message.
type ChatMessage struct {
	Content      string `json:"content"`
	Timestamp    int64  `json:"timestamp"` // unix millis
	FromOperator bool   `json:"fromOperator"`
	Fingerprint  string `json:"fingerprint"`
	IsMe         bool   `json:"isMe"`
	Origin       string `json:"origin"`
	User         *User  `json:"user,omitempty"`
}

// Encode converts a native message. It is total: absent optional fields
// become defaults, never errors.
func Encode(msg sdk.Message) ChatMessage {
	// Only plain text survives into the event payload; rich content types
	// render through the chat UI, not through listeners.
	text := ""
	if t, ok := msg.Content.(content.Text); ok {
		text = t.Text
	}

	encoded := ChatMessage{
		Content:      text,
		Timestamp:    msg.Timestamp.UnixMilli(),
		FromOperator: msg.FromOperator,
		Fingerprint:  strconv.FormatInt(msg.Fingerprint, 10),
		IsMe:         msg.IsMe,
		Origin:       NormalizeOrigin(msg.Origin),
	}

	// The user block is present only when at least one field is known.
	if u := msg.User; u != nil && (u.Nickname != "" || u.UserID != "" || u.Avatar != "") {
		encoded.User = &User{Nickname: u.Nickname, UserID: u.UserID, Avatar: u.Avatar}
	}
	return encoded
}

// NormalizeOrigin folds raw native origin values ("chat:local", "LOCAL", ...)
// into the shared three-value vocabulary. Unrecognized values are network.
func NormalizeOrigin(raw string) string {
	lower := strings.ToLower(raw)
	switch {
	case strings.HasSuffix(lower, OriginLocal):
		return OriginLocal
	case strings.HasSuffix(lower, OriginUpdate):
		return OriginUpdate
	default:
		return OriginNetwork
	}
}
