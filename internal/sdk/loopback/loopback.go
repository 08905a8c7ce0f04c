// Package loopback is an in-process vendor SDK used by the demo gateway and
// the test suite. It keeps all state in memory and fires callbacks the way a
// real SDK would: synchronously from whatever goroutine invoked the
// operation, with per-callback ordering preserved.
package loopback

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/crisp-im/crisp-bridge/internal/content"
	"github.com/crisp-im/crisp-bridge/internal/message"
	"github.com/crisp-im/crisp-bridge/internal/profile"
	"github.com/crisp-im/crisp-bridge/internal/sdk"
)

// Client simulates the vendor SDK.
type Client struct {
	caps sdk.Capabilities

	mu           sync.Mutex
	websiteID    string
	tokenID      string
	sessionID    string
	logLevel     int
	userEmail    string
	userNickname string
	userPhone    string
	userAvatar   string
	company      profile.Company
	sessionData  map[string]any
	segments     []string
	timeline     []profile.SessionEvent
	pushToken    string

	callbacks   []sdk.EventsCallback
	logHandlers []sdk.LogFunc

	nextFingerprint int64
}

func New(caps sdk.Capabilities) *Client {
	return &Client{
		caps:            caps,
		sessionData:     make(map[string]any),
		nextFingerprint: time.Now().UnixMilli(),
	}
}

func (c *Client) Capabilities() sdk.Capabilities { return c.caps }

// Configure assigns a fresh session and notifies every registered callback,
// like the native SDK does once its session socket is up.
func (c *Client) Configure(websiteID string) error {
	if websiteID == "" {
		return fmt.Errorf("configure: empty website id")
	}
	c.mu.Lock()
	c.websiteID = websiteID
	c.sessionID = "session_" + uuid.NewString()
	sessionID := c.sessionID
	c.mu.Unlock()

	c.log(message.LevelInfo, "session", "session created for "+websiteID)
	for _, cb := range c.snapshotCallbacks() {
		cb.OnSessionLoaded(sessionID)
	}
	return nil
}

func (c *Client) SetTokenID(tokenID string) error {
	c.mu.Lock()
	c.tokenID = tokenID
	c.mu.Unlock()
	return nil
}

func (c *Client) SetLogLevel(nativeLevel int) {
	c.mu.Lock()
	c.logLevel = nativeLevel
	c.mu.Unlock()
}

func (c *Client) SetUserEmail(email, signature string) error {
	c.mu.Lock()
	c.userEmail = email
	c.mu.Unlock()
	return nil
}

func (c *Client) SetUserNickname(nickname string) error {
	c.mu.Lock()
	c.userNickname = nickname
	c.mu.Unlock()
	return nil
}

func (c *Client) SetUserPhone(phone string) error {
	c.mu.Lock()
	c.userPhone = phone
	c.mu.Unlock()
	return nil
}

func (c *Client) SetUserCompany(company profile.Company) error {
	c.mu.Lock()
	c.company = company
	c.mu.Unlock()
	return nil
}

func (c *Client) SetUserAvatar(url string) error {
	c.mu.Lock()
	c.userAvatar = url
	c.mu.Unlock()
	return nil
}

func (c *Client) SetSessionString(key, value string) error { return c.setSessionValue(key, value) }
func (c *Client) SetSessionBool(key string, value bool) error {
	return c.setSessionValue(key, value)
}
func (c *Client) SetSessionInt(key string, value int) error { return c.setSessionValue(key, value) }

func (c *Client) setSessionValue(key string, value any) error {
	if key == "" {
		return fmt.Errorf("session data: empty key")
	}
	c.mu.Lock()
	c.sessionData[key] = value
	c.mu.Unlock()
	return nil
}

func (c *Client) SetSessionSegment(segment string) error {
	return c.SetSessionSegments([]string{segment}, false)
}

func (c *Client) SetSessionSegments(segments []string, overwrite bool) error {
	c.mu.Lock()
	if overwrite {
		c.segments = append([]string(nil), segments...)
	} else {
		c.segments = append(c.segments, segments...)
	}
	c.mu.Unlock()
	return nil
}

func (c *Client) SessionIdentifier(ctx context.Context) (string, error) {
	c.mu.Lock()
	id := c.sessionID
	c.mu.Unlock()
	return id, nil
}

func (c *Client) PushSessionEvents(events []profile.SessionEvent) error {
	c.mu.Lock()
	c.timeline = append(c.timeline, events...)
	c.mu.Unlock()
	return nil
}

func (c *Client) ResetSession() error {
	c.mu.Lock()
	c.sessionID = ""
	c.sessionData = make(map[string]any)
	c.segments = nil
	c.timeline = nil
	c.mu.Unlock()
	c.log(message.LevelInfo, "session", "session reset")
	return nil
}

func (c *Client) Show() error {
	for _, cb := range c.snapshotCallbacks() {
		cb.OnChatOpened()
	}
	return nil
}

func (c *Client) SearchHelpdesk() error {
	c.log(message.LevelDebug, "helpdesk", "search opened")
	return nil
}

func (c *Client) OpenHelpdeskArticle(id, locale, title, category string) error {
	if id == "" {
		return fmt.Errorf("helpdesk article: empty id")
	}
	c.log(message.LevelDebug, "helpdesk", "article opened: "+id)
	return nil
}

func (c *Client) RunBotScenario(id string) error {
	if id == "" {
		return fmt.Errorf("bot scenario: empty id")
	}
	return nil
}

// ShowMessage injects an operator message into the local chat view and fires
// the received callback, mirroring how the native widget surfaces it.
func (c *Client) ShowMessage(body content.Content) error {
	c.mu.Lock()
	c.nextFingerprint++
	msg := sdk.Message{
		Content:      body,
		Timestamp:    time.Now(),
		FromOperator: true,
		Fingerprint:  c.nextFingerprint,
		IsMe:         false,
		Origin:       sdk.OriginLocal,
	}
	c.mu.Unlock()

	for _, cb := range c.snapshotCallbacks() {
		cb.OnMessageReceived(msg)
	}
	return nil
}

func (c *Client) SendPushToken(token string) error {
	if strings.TrimSpace(token) == "" || strings.ContainsAny(token, " \t\n") {
		return fmt.Errorf("push token: malformed token")
	}
	c.mu.Lock()
	c.pushToken = token
	c.mu.Unlock()
	return nil
}

func (c *Client) AddCallback(cb sdk.EventsCallback) (sdk.Registration, error) {
	c.mu.Lock()
	c.callbacks = append(c.callbacks, cb)
	c.mu.Unlock()

	return sdk.NewRevocable(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, existing := range c.callbacks {
			if existing == cb {
				c.callbacks = append(c.callbacks[:i], c.callbacks[i+1:]...)
				return
			}
		}
	}), nil
}

func (c *Client) AddLogHandler(fn sdk.LogFunc) (sdk.Registration, error) {
	c.mu.Lock()
	c.logHandlers = append(c.logHandlers, fn)
	c.mu.Unlock()
	// No removal API, matching the vendor SDKs on both platforms.
	return sdk.PermanentRegistration{}, nil
}

// CallbackCount reports how many event callbacks are installed. Used by the
// bridge tests to verify the single-registration invariant.
func (c *Client) CallbackCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.callbacks)
}

// EmitMessageSent simulates the visitor sending a message from the chat UI.
func (c *Client) EmitMessageSent(text string, user *sdk.MessageUser) {
	c.mu.Lock()
	c.nextFingerprint++
	msg := sdk.Message{
		Content:     content.Text{Text: text},
		Timestamp:   time.Now(),
		Fingerprint: c.nextFingerprint,
		IsMe:        true,
		Origin:      sdk.OriginLocal,
		User:        user,
	}
	c.mu.Unlock()

	for _, cb := range c.snapshotCallbacks() {
		cb.OnMessageSent(msg)
	}
}

// EmitChatClosed simulates the visitor closing the chat view.
func (c *Client) EmitChatClosed() {
	for _, cb := range c.snapshotCallbacks() {
		cb.OnChatClosed()
	}
}

func (c *Client) snapshotCallbacks() []sdk.EventsCallback {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]sdk.EventsCallback(nil), c.callbacks...)
}

// log forwards to installed log handlers at the adapter's native scale.
func (c *Client) log(level message.Level, tag, msg string) {
	c.mu.Lock()
	handlers := append([]sdk.LogFunc(nil), c.logHandlers...)
	minLevel := c.logLevel
	caps := c.caps
	c.mu.Unlock()

	native := int(level)
	if caps.CoarseLogSeverity {
		native = int(message.NarrowLevel(level))
	}
	if native < minLevel {
		return
	}
	for _, fn := range handlers {
		fn(native, tag, msg)
	}
}
