// Package sdk defines the boundary to the vendor messaging SDK.
//
// The bridge never talks to a concrete SDK directly; it programs against the
// Client interface, and platform adapters translate to whatever the native
// library exposes. Capability differences between adapters are declared up
// front in Capabilities rather than branched on in the bridge.
package sdk

import (
	"context"
	"time"

	"github.com/crisp-im/crisp-bridge/internal/content"
	"github.com/crisp-im/crisp-bridge/internal/profile"
)

// Origin constants as raw native values. Real SDKs report values like
// "chat:local"; only the suffix is meaningful to the bridge.
const (
	OriginLocal   = "chat:local"
	OriginNetwork = "chat:network"
	OriginUpdate  = "chat:update"
)

// MessageUser identifies the author of a message, when the SDK knows it.
type MessageUser struct {
	Nickname string
	UserID   string
	Avatar   string
}

// Message is the native chat message shape delivered by SDK callbacks.
type Message struct {
	Content      content.Content
	Timestamp    time.Time
	FromOperator bool
	Fingerprint  int64
	IsMe         bool
	Origin       string // raw native origin value
	User         *MessageUser
}

// EventsCallback receives chat lifecycle events from the SDK. Callbacks may
// fire on any goroutine the SDK chooses.
type EventsCallback interface {
	OnSessionLoaded(sessionID string)
	OnChatOpened()
	OnChatClosed()
	OnMessageSent(msg Message)
	OnMessageReceived(msg Message)
}

// LogFunc receives native log calls. The level is raw: on a coarse-severity
// platform it is a 4-level scale, otherwise the shared 0–5 scale. The bridge
// owns the translation.
type LogFunc func(level int, tag, message string)

// Client is the full vendor SDK surface the bridge drives.
type Client interface {
	Capabilities() Capabilities

	Configure(websiteID string) error
	SetTokenID(tokenID string) error
	SetLogLevel(nativeLevel int)

	SetUserEmail(email, signature string) error
	SetUserNickname(nickname string) error
	SetUserPhone(phone string) error
	SetUserCompany(company profile.Company) error
	SetUserAvatar(url string) error

	SetSessionString(key, value string) error
	SetSessionBool(key string, value bool) error
	SetSessionInt(key string, value int) error
	SetSessionSegment(segment string) error
	SetSessionSegments(segments []string, overwrite bool) error
	SessionIdentifier(ctx context.Context) (string, error)
	PushSessionEvents(events []profile.SessionEvent) error
	ResetSession() error

	Show() error
	SearchHelpdesk() error
	OpenHelpdeskArticle(id, locale, title, category string) error
	RunBotScenario(id string) error
	ShowMessage(c content.Content) error

	SendPushToken(token string) error

	// AddCallback installs a chat event callback and returns a revocable
	// registration. AddLogHandler installs a log sink; the returned
	// registration is permanent because no vendor SDK exposes removal.
	AddCallback(cb EventsCallback) (Registration, error)
	AddLogHandler(fn LogFunc) (Registration, error)
}
